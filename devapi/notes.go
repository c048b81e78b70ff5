package devapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sahilchouksey/course-hub/model"
	"github.com/sahilchouksey/course-hub/utils/response"
	"github.com/sahilchouksey/course-hub/utils/validation"
)

func (h *handler) listNotes(c *fiber.Ctx) error {
	topicID, ok := paramID(c, "topicID")
	if !ok {
		return response.NotFound(c, "Topic not found")
	}

	notes := []model.Note{}
	if err := h.db.WithContext(c.UserContext()).
		Where("topic_id = ?", topicID).
		Order("likes DESC").Order("id ASC").
		Find(&notes).Error; err != nil {
		return response.InternalServerError(c, "Failed to list notes")
	}
	return response.Success(c, notes)
}

func (h *handler) getNote(c *fiber.Ctx) error {
	note, ok, err := h.findNote(c)
	if !ok {
		return err
	}
	return response.Success(c, note)
}

func (h *handler) createNote(c *fiber.Ctx) error {
	var input model.NoteInput
	if ok, err := h.parseBody(c, &input); !ok {
		return err
	}
	db := h.db.WithContext(c.UserContext())

	var count int64
	if err := db.Model(&model.Topic{}).Where("id = ?", input.TopicID).Count(&count).Error; err != nil {
		return response.InternalServerError(c, "Failed to load topic")
	}
	if count == 0 {
		return response.NotFound(c, "Topic not found")
	}

	note := model.Note{
		Title:    validation.SanitizeString(input.Title),
		Content:  input.Content,
		Summary:  validation.SanitizeString(input.Summary),
		NoteType: input.NoteType,
		TopicID:  input.TopicID,
		AuthorID: currentUser(c).ID,
	}
	if err := db.Create(&note).Error; err != nil {
		return response.InternalServerError(c, "Failed to create note")
	}
	return response.Created(c, note)
}

func (h *handler) updateNote(c *fiber.Ctx) error {
	note, ok, err := h.findNote(c)
	if !ok {
		return err
	}
	if !canModify(currentUser(c), note) {
		return response.Forbidden(c, "Not authorized")
	}

	var input model.NoteInput
	if ok, err := h.parseBody(c, &input); !ok {
		return err
	}

	note.Title = validation.SanitizeString(input.Title)
	note.Content = input.Content
	note.Summary = validation.SanitizeString(input.Summary)
	note.NoteType = input.NoteType
	if err := h.db.WithContext(c.UserContext()).Model(note).
		Select("Title", "Content", "Summary", "NoteType").Updates(note).Error; err != nil {
		return response.InternalServerError(c, "Failed to update note")
	}
	return response.Success(c, note)
}

func (h *handler) deleteNote(c *fiber.Ctx) error {
	note, ok, err := h.findNote(c)
	if !ok {
		return err
	}
	if !canModify(currentUser(c), note) {
		return response.Forbidden(c, "Not authorized")
	}

	err = h.db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		return deleteNotes(tx, []uint{note.ID})
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete note")
	}
	return response.NoContent(c)
}

// likeNote records one like per user. A repeated like is a 409 with the
// ALREADY_LIKED code and leaves the count unchanged.
func (h *handler) likeNote(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.NotFound(c, "Note not found")
	}
	user := currentUser(c)

	var note model.Note
	err := h.db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&note, id).Error; err != nil {
			return err
		}
		like := model.NoteLike{NoteID: note.ID, UserID: user.ID}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errAlreadyLiked
		}
		if err := tx.Model(&note).UpdateColumn("likes", gorm.Expr("likes + 1")).Error; err != nil {
			return err
		}
		return tx.First(&note, note.ID).Error
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return response.NotFound(c, "Note not found")
	case errors.Is(err, errAlreadyLiked):
		return response.Conflict(c, "You have already liked this note", "ALREADY_LIKED")
	case err != nil:
		return response.InternalServerError(c, "Failed to like note")
	}

	return response.Success(c, model.LikeResult{Message: "Note liked successfully", Likes: note.Likes})
}

var errAlreadyLiked = errors.New("already liked")

func (h *handler) listComments(c *fiber.Ctx) error {
	note, ok, err := h.findNote(c)
	if !ok {
		return err
	}

	comments := []model.Comment{}
	db := h.db.WithContext(c.UserContext())
	if err := db.Where("note_id = ?", note.ID).Order("created_at ASC").Order("id ASC").Find(&comments).Error; err != nil {
		return response.InternalServerError(c, "Failed to list comments")
	}
	if err := fillUsernames(db, comments); err != nil {
		return response.InternalServerError(c, "Failed to load comment authors")
	}
	return response.Success(c, comments)
}

func (h *handler) addComment(c *fiber.Ctx) error {
	note, ok, err := h.findNote(c)
	if !ok {
		return err
	}

	var input model.CommentInput
	if ok, err := h.parseBody(c, &input); !ok {
		return err
	}

	user := currentUser(c)
	comment := model.Comment{
		NoteID:  note.ID,
		UserID:  user.ID,
		Content: validation.SanitizeString(input.Content),
	}
	if err := h.db.WithContext(c.UserContext()).Create(&comment).Error; err != nil {
		return response.InternalServerError(c, "Failed to add comment")
	}
	comment.Username = user.Username
	return response.Created(c, comment)
}

func (h *handler) findNote(c *fiber.Ctx) (*model.Note, bool, error) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false, response.NotFound(c, "Note not found")
	}
	var note model.Note
	if err := h.db.WithContext(c.UserContext()).First(&note, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, response.NotFound(c, "Note not found")
		}
		return nil, false, response.InternalServerError(c, "Failed to load note")
	}
	return &note, true, nil
}

// canModify allows the author and any professor.
func canModify(user *model.User, note *model.Note) bool {
	return user.ID == note.AuthorID || user.IsProfessor()
}

func fillUsernames(db *gorm.DB, comments []model.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(comments))
	for _, cm := range comments {
		ids = append(ids, cm.UserID)
	}
	var users []model.User
	if err := db.Select("id", "username").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return err
	}
	names := make(map[uint]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	for i := range comments {
		comments[i].Username = names[comments[i].UserID]
	}
	return nil
}

// deleteNotes removes notes with their likes and comments. Callers run it inside a transaction.
func deleteNotes(tx *gorm.DB, noteIDs []uint) error {
	if len(noteIDs) == 0 {
		return nil
	}
	if err := tx.Where("note_id IN ?", noteIDs).Delete(&model.NoteLike{}).Error; err != nil {
		return err
	}
	if err := tx.Where("note_id IN ?", noteIDs).Delete(&model.Comment{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", noteIDs).Delete(&model.Note{}).Error
}
