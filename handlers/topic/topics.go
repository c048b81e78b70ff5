package topic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/course-hub/handlers/page"
	"github.com/sahilchouksey/course-hub/model"
	"github.com/sahilchouksey/course-hub/services/coursehub"
	"github.com/sahilchouksey/course-hub/services/session"
	"github.com/sahilchouksey/course-hub/utils/flash"
	"github.com/sahilchouksey/course-hub/utils/validation"
)

// TopicHandler serves the topic pages
type TopicHandler struct {
	validator *validation.Validator
}

// NewTopicHandler creates a new topic handler
func NewTopicHandler() *TopicHandler {
	return &TopicHandler{
		validator: validation.NewValidator(),
	}
}

// GetTopic handles GET /topics/:id
func (h *TopicHandler) GetTopic(c *fiber.Ctx) error {
	id, err := page.ParamID(c, "id")
	if err != nil {
		return err
	}
	client := session.From(c).Client()

	topic, notes, err := coursehub.FetchPair(c.UserContext(),
		func(ctx context.Context) (*model.Topic, error) { return client.GetTopic(ctx, id) },
		func(ctx context.Context) ([]model.Note, error) { return client.ListNotesByTopic(ctx, id) },
	)
	if err != nil {
		return page.LoadFailed(c, err, "Failed to load topic")
	}

	return page.Render(c, fiber.StatusOK, "topics/show", fiber.Map{
		"Title":     topic.Title,
		"Topic":     topic,
		"Notes":     notes,
		"NoteTypes": model.NoteTypes,
	})
}

// EditTopic handles GET /topics/:id/edit
func (h *TopicHandler) EditTopic(c *fiber.Ctx) error {
	id, err := page.ParamID(c, "id")
	if err != nil {
		return err
	}

	topic, err := session.From(c).Client().GetTopic(c.UserContext(), id)
	if err != nil {
		return page.LoadFailed(c, err, "Failed to load topic")
	}

	return h.renderEdit(c, fiber.StatusOK, id, model.TopicInput{
		Title:       topic.Title,
		Description: topic.Description,
		CourseID:    topic.CourseID,
	}, "")
}

// UpdateTopic handles POST /topics/:id/edit
func (h *TopicHandler) UpdateTopic(c *fiber.Ctx) error {
	id, err := page.ParamID(c, "id")
	if err != nil {
		return err
	}

	var input model.TopicInput
	if err := c.BodyParser(&input); err != nil {
		return h.renderEdit(c, fiber.StatusBadRequest, id, input, "Invalid form submission")
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if err := h.validator.ValidateStruct(&input); err != nil {
		return h.renderEdit(c, fiber.StatusUnprocessableEntity, id, input, validation.Describe(err))
	}

	if _, err := session.From(c).Client().UpdateTopic(c.UserContext(), id, input); err != nil {
		if errors.Is(err, coursehub.ErrUnauthorized) {
			return page.MutationFailed(c, err, topicPath(id)+"/edit", "")
		}
		return h.renderEdit(c, page.StatusFor(err), id, input, coursehub.Message(err, "Failed to update topic"))
	}

	flash.Success(c, "Topic updated")
	return page.Redirect(c, topicPath(id))
}

// ConfirmDeleteTopic handles GET /topics/:id/delete
func (h *TopicHandler) ConfirmDeleteTopic(c *fiber.Ctx) error {
	id, err := page.ParamID(c, "id")
	if err != nil {
		return err
	}

	topic, err := session.From(c).Client().GetTopic(c.UserContext(), id)
	if err != nil {
		return page.LoadFailed(c, err, "Failed to load topic")
	}

	return page.Render(c, fiber.StatusOK, "confirm", fiber.Map{
		"Title":   "Delete topic",
		"Heading": "Delete " + topic.Title + "?",
		"Message": "The topic and all of its notes will be deleted.",
		"Action":  topicPath(id) + "/delete",
		"Cancel":  topicPath(id),
	})
}

// DeleteTopic handles POST /topics/:id/delete and returns to the topic's course.
func (h *TopicHandler) DeleteTopic(c *fiber.Ctx) error {
	id, err := page.ParamID(c, "id")
	if err != nil {
		return err
	}
	if c.FormValue("confirm") != "yes" {
		return page.Redirect(c, topicPath(id)+"/delete")
	}

	client := session.From(c).Client()
	topic, err := client.GetTopic(c.UserContext(), id)
	if err != nil {
		return page.MutationFailed(c, err, topicPath(id), "Failed to delete topic")
	}
	if err := client.DeleteTopic(c.UserContext(), id); err != nil {
		return page.MutationFailed(c, err, topicPath(id), "Failed to delete topic")
	}

	flash.Success(c, "Topic deleted")
	return page.Redirect(c, fmt.Sprintf("/courses/%d", topic.CourseID))
}

// CreateNote handles POST /topics/:id/notes
func (h *TopicHandler) CreateNote(c *fiber.Ctx) error {
	id, err := page.ParamID(c, "id")
	if err != nil {
		return err
	}
	back := topicPath(id)

	var input model.NoteInput
	if err := c.BodyParser(&input); err != nil {
		flash.Error(c, "Invalid form submission")
		return page.Redirect(c, back)
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Summary = strings.TrimSpace(input.Summary)
	input.TopicID = id
	if err := h.validator.ValidateStruct(&input); err != nil {
		flash.Error(c, validation.Describe(err))
		return page.Redirect(c, back)
	}

	note, err := session.From(c).Client().CreateNote(c.UserContext(), input)
	if err != nil {
		return page.MutationFailed(c, err, back, "Failed to create note")
	}

	flash.Success(c, "Note created")
	return page.Redirect(c, fmt.Sprintf("/notes/%d", note.ID))
}

func (h *TopicHandler) renderEdit(c *fiber.Ctx, status int, id uint, form model.TopicInput, message string) error {
	return page.Render(c, status, "topics/edit", fiber.Map{
		"Title": "Edit topic",
		"ID":    id,
		"Form":  form,
		"Error": message,
	})
}

func topicPath(id uint) string {
	return fmt.Sprintf("/topics/%d", id)
}
