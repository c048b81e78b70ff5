package coursehub

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sahilchouksey/course-hub/model"
)

// ListTopicsByCourse returns a course's topics. Students must be enrolled.
func (c *Client) ListTopicsByCourse(ctx context.Context, courseID uint) ([]model.Topic, error) {
	var topics []model.Topic
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/topics/course/%d", courseID), nil, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

func (c *Client) GetTopic(ctx context.Context, id uint) (*model.Topic, error) {
	var topic model.Topic
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/topics/%d", id), nil, &topic); err != nil {
		return nil, err
	}
	return &topic, nil
}

// CreateTopic adds a topic to input.CourseID.
func (c *Client) CreateTopic(ctx context.Context, input model.TopicInput) (*model.Topic, error) {
	var topic model.Topic
	if err := c.doRequest(ctx, http.MethodPost, "/topics/", input, &topic); err != nil {
		return nil, err
	}
	return &topic, nil
}

func (c *Client) UpdateTopic(ctx context.Context, id uint, input model.TopicInput) (*model.Topic, error) {
	var topic model.Topic
	if err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/topics/%d", id), input, &topic); err != nil {
		return nil, err
	}
	return &topic, nil
}

// DeleteTopic deletes a topic and every note under it.
func (c *Client) DeleteTopic(ctx context.Context, id uint) error {
	return c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/topics/%d", id), nil, nil)
}
