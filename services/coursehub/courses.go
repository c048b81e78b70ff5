package coursehub

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sahilchouksey/course-hub/model"
)

// ListCourses returns every course with the viewer's enrollment flag.
func (c *Client) ListCourses(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	if err := c.doRequest(ctx, http.MethodGet, "/courses/", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// GetCourse returns one course.
func (c *Client) GetCourse(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/courses/%d", id), nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// CreateCourse creates a course. Professors only.
func (c *Client) CreateCourse(ctx context.Context, input model.CourseInput) (*model.Course, error) {
	var course model.Course
	if err := c.doRequest(ctx, http.MethodPost, "/courses/", input, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// UpdateCourse replaces a course's editable fields. Professors only.
func (c *Client) UpdateCourse(ctx context.Context, id uint, input model.CourseInput) (*model.Course, error) {
	var course model.Course
	if err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/courses/%d", id), input, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// DeleteCourse deletes a course with its topics, notes and enrollments.
func (c *Client) DeleteCourse(ctx context.Context, id uint) error {
	return c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/courses/%d", id), nil, nil)
}

// Enroll enrolls the current user in a course. A second enrollment fails
// with ErrAlreadyEnrolled.
func (c *Client) Enroll(ctx context.Context, courseID uint) (*model.Message, error) {
	var msg model.Message
	if err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/courses/%d/enroll", courseID), nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
