package note

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
	"github.com/sahilchouksey/course-hub/utils/markdown"
	"github.com/sahilchouksey/course-hub/utils/validation"
)

const alreadyLikedMessage = "You have already liked this note"

// NoteHandler serves the note pages, likes and comments
type NoteHandler struct {
	validator *validation.Validator
}

// NewNoteHandler creates a new note handler
func NewNoteHandler() *NoteHandler {
	return &NoteHandler{
		validator: validation.NewValidator(),
	}
}

// GetNote handles GET /notes/:id
func (h *NoteHandler) GetNote(c *fiber.Ctx) error {
	id, err := page.ParamID(c, "id")
	if err != nil {
		return err
	}
	s := session.From(c)
	client := s.Client()

	note, comments, err := coursehub.FetchPair(c.UserContext(),
		func(ctx context.Context) (*model.Note, error) { return client.GetNote(ctx, id) },
		func(ctx context.Context) ([]model.Comment, error) { return client.ListComments(ctx, id) },
	)
	if err != nil {
		return page.LoadFailed(c, err, "Failed to load note")
	}

	return page.Render(c, fiber.StatusOK, "notes/show", fiber.Map{
		"Title":    note.Title,
		"Note":     note,
		"Content":  markdown.Render(note.Content),
		"TOC":      markdown.TableOfContents(note.Content),
		"Comments": comments,
		"CanEdit":  canEdit(s, note),
	})
}

// EditNote handles GET /notes/:id/edit
func (h *NoteHandler) EditNote(c *fiber.Ctx) error {
	id, err := page.ParamID(c, "id")
	if err != nil {
		return err
	}
	s := session.From(c)

	note, err := s.Client().GetNote(c.UserContext(), id)
	if err != nil {
		return page.LoadFailed(c, err, "Failed to load note")
	}
	if !canEdit(s, note) {
		flash.Error(c, "You can only edit your own notes")
		return page.Redirect(c, notePath(id))
	}

	return h.renderEdit(c, fiber.StatusOK, id, model.NoteInput{
		Title:    note.Title,
		Content:  note.Content,
		Summary:  note.Summary,
		NoteType: note.NoteType,
		TopicID:  note.TopicID,
	}, "")
}

// UpdateNote handles POST /notes/:id/edit
func (h *NoteHandler) UpdateNote(c *fiber.Ctx) error {
	id, err := page.ParamID(c, "id")
	if err != nil {
		return err
	}

	var input model.NoteInput
	if err := c.BodyParser(&input); err != nil {
		return h.renderEdit(c, fiber.StatusBadRequest, id, input, "Invalid form submission")
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Summary = strings.TrimSpace(input.Summary)
	if err := h.validator.ValidateStruct(&input); err != nil {
		return h.renderEdit(c, fiber.StatusUnprocessableEntity, id, input, validation.Describe(err))
	}

	if _, err := session.From(c).Client().UpdateNote(c.UserContext(), id, input); err != nil {
		if errors.Is(err, coursehub.ErrUnauthorized) {
			return page.MutationFailed(c, err, notePath(id)+"/edit", "")
		}
		return h.renderEdit(c, page.StatusFor(err), id, input, coursehub.Message(err, "Failed to update note"))
	}

	flash.Success(c, "Note updated")
	return page.Redirect(c, notePath(id))
}

// ConfirmDeleteNote handles GET /notes/:id/delete
func (h *NoteHandler) ConfirmDeleteNote(c *fiber.Ctx) error {
	id, err := page.ParamID(c, "id")
	if err != nil {
		return err
	}

	note, err := session.From(c).Client().GetNote(c.UserContext(), id)
	if err != nil {
		return page.LoadFailed(c, err, "Failed to load note")
	}

	return page.Render(c, fiber.StatusOK, "confirm", fiber.Map{
		"Title":   "Delete note",
		"Heading": "Delete " + note.Title + "?",
		"Message": "The note, its likes and its comments will be deleted.",
		"Action":  notePath(id) + "/delete",
		"Cancel":  notePath(id),
	})
}

// DeleteNote handles POST /notes/:id/delete and returns to the note's topic.
func (h *NoteHandler) DeleteNote(c *fiber.Ctx) error {
	id, err := page.ParamID(c, "id")
	if err != nil {
		return err
	}
	if c.FormValue("confirm") != "yes" {
		return page.Redirect(c, notePath(id)+"/delete")
	}

	client := session.From(c).Client()
	note, err := client.GetNote(c.UserContext(), id)
	if err != nil {
		return page.MutationFailed(c, err, notePath(id), "Failed to delete note")
	}
	if err := client.DeleteNote(c.UserContext(), id); err != nil {
		return page.MutationFailed(c, err, notePath(id), "Failed to delete note")
	}

	flash.Success(c, "Note deleted")
	return page.Redirect(c, fmt.Sprintf("/topics/%d", note.TopicID))
}

// LikeNote handles POST /notes/:id/like. Liking twice is reported, not counted.
func (h *NoteHandler) LikeNote(c *fiber.Ctx) error {
	id, err := page.ParamID(c, "id")
	if err != nil {
		return err
	}

	if _, err := session.From(c).Client().LikeNote(c.UserContext(), id); err != nil {
		if errors.Is(err, coursehub.ErrAlreadyLiked) {
			flash.Error(c, alreadyLikedMessage)
			return page.Redirect(c, notePath(id))
		}
		return page.MutationFailed(c, err, notePath(id), "Failed to like note")
	}

	flash.Success(c, "Note liked")
	return page.Redirect(c, notePath(id))
}

// AddComment handles POST /notes/:id/comments
func (h *NoteHandler) AddComment(c *fiber.Ctx) error {
	id, err := page.ParamID(c, "id")
	if err != nil {
		return err
	}

	var input model.CommentInput
	if err := c.BodyParser(&input); err != nil {
		flash.Error(c, "Invalid form submission")
		return page.Redirect(c, notePath(id))
	}
	input.Content = strings.TrimSpace(input.Content)
	if err := h.validator.ValidateStruct(&input); err != nil {
		flash.Error(c, validation.Describe(err))
		return page.Redirect(c, notePath(id))
	}

	if _, err := session.From(c).Client().AddComment(c.UserContext(), id, input); err != nil {
		return page.MutationFailed(c, err, notePath(id), "Failed to add comment")
	}

	flash.Success(c, "Comment added")
	return page.Redirect(c, notePath(id))
}

// canEdit decides whether the edit and delete controls are shown. The
// backend enforces the same rule.
func canEdit(s *session.Session, note *model.Note) bool {
	user := s.User()
	if user == nil {
		return false
	}
	return user.ID == note.AuthorID || user.IsProfessor()
}

func (h *NoteHandler) renderEdit(c *fiber.Ctx, status int, id uint, form model.NoteInput, message string) error {
	return page.Render(c, status, "notes/edit", fiber.Map{
		"Title":     "Edit note",
		"ID":        id,
		"Form":      form,
		"NoteTypes": model.NoteTypes,
		"Error":     message,
	})
}

func notePath(id uint) string {
	return fmt.Sprintf("/notes/%d", id)
}
