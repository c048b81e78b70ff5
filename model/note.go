package model

import "time"

// NoteType classifies a study note.
type NoteType string

const (
	NoteTypeSummary NoteType = "Summary"
	NoteTypeLecture NoteType = "Lecture"
	NoteTypeCode    NoteType = "Code"
	NoteTypeOther   NoteType = "Other"
)

// NoteTypes lists the accepted note types in display order.
var NoteTypes = []NoteType{NoteTypeSummary, NoteTypeLecture, NoteTypeCode, NoteTypeOther}

// Note is a Markdown study note posted under a topic.
type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `gorm:"not null;size:200" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Summary   string    `gorm:"type:text" json:"summary"`
	NoteType  NoteType  `gorm:"type:varchar(20);not null;default:'Other'" json:"note_type"`
	TopicID   uint      `gorm:"not null;index" json:"topic_id"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Likes     int       `gorm:"not null;default:0" json:"likes"`
}

// NoteInput is the body of note create and update. TopicID is ignored on update.
type NoteInput struct {
	Title    string   `json:"title" form:"title" validate:"required,max=200"`
	Content  string   `json:"content" form:"content" validate:"required"`
	Summary  string   `json:"summary" form:"summary" validate:"max=2000"`
	NoteType NoteType `json:"note_type" form:"note_type" validate:"required,oneof=Summary Lecture Code Other"`
	TopicID  uint     `json:"topic_id" form:"topic_id"`
}

// NoteLike records that a user liked a note. One row per user and note.
type NoteLike struct {
	NoteID    uint      `gorm:"primaryKey" json:"note_id"`
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeResult is returned by POST /notes/{id}/like.
type LikeResult struct {
	Message string `json:"message"`
	Likes   int    `json:"likes"`
}

// Comment is attached to a note.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	NoteID    uint      `gorm:"not null;index" json:"note_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`

	Username string `gorm:"-" json:"username,omitempty"`
}

// CommentInput is the body of POST /notes/{id}/comments.
type CommentInput struct {
	Content string `json:"content" form:"content" validate:"required,max=5000"`
}
