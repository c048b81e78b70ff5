package coursehub

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sahilchouksey/course-hub/model"
)

// ListNotesByTopic returns a topic's notes, most liked first.
func (c *Client) ListNotesByTopic(ctx context.Context, topicID uint) ([]model.Note, error) {
	var notes []model.Note
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/notes/topic/%d", topicID), nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) GetNote(ctx context.Context, id uint) (*model.Note, error) {
	var note model.Note
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/notes/%d", id), nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// CreateNote posts a note under input.TopicID authored by the current user.
func (c *Client) CreateNote(ctx context.Context, input model.NoteInput) (*model.Note, error) {
	var note model.Note
	if err := c.doRequest(ctx, http.MethodPost, "/notes/", input, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) UpdateNote(ctx context.Context, id uint, input model.NoteInput) (*model.Note, error) {
	var note model.Note
	if err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/notes/%d", id), input, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote deletes a note with its likes and comments.
func (c *Client) DeleteNote(ctx context.Context, id uint) error {
	return c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/notes/%d", id), nil, nil)
}

// LikeNote likes a note once. A repeated like fails with ErrAlreadyLiked,
// whether the backend signals it with the ALREADY_LIKED code or a 409.
func (c *Client) LikeNote(ctx context.Context, id uint) (*model.LikeResult, error) {
	var result model.LikeResult
	err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/notes/%d/like", id), nil, &result)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict && apiErr.Code == "" {
			apiErr.Code = CodeAlreadyLiked
		}
		return nil, err
	}
	return &result, nil
}

// ListComments returns a note's comments, oldest first.
func (c *Client) ListComments(ctx context.Context, noteID uint) ([]model.Comment, error) {
	var comments []model.Comment
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/notes/%d/comments", noteID), nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Client) AddComment(ctx context.Context, noteID uint, input model.CommentInput) (*model.Comment, error) {
	var comment model.Comment
	if err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/notes/%d/comments", noteID), input, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}
