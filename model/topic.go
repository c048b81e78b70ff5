package model

import "time"

// Topic belongs to exactly one course.
type Topic struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Title       string    `gorm:"not null;size:200" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CourseID    uint      `gorm:"not null;index" json:"course_id"`
}

// TopicInput is the body of topic create and update. CourseID is ignored on update.
type TopicInput struct {
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Description string `json:"description" form:"description" validate:"max=5000"`
	CourseID    uint   `json:"course_id" form:"course_id"`
}
