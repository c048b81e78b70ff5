package model

import "time"

// Course is the top of the Course → Topic → Note hierarchy.
type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	CourseCode  string    `gorm:"uniqueIndex;not null;size:20" json:"course_code"` // e.g. "CS137"
	CourseName  string    `gorm:"not null;size:200" json:"course_name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatorID   uint      `gorm:"not null;index" json:"creator_id"`

	// Per viewer, professors always see true
	IsEnrolled bool `gorm:"-" json:"is_enrolled"`
}

// CourseInput is the body of course create and update.
type CourseInput struct {
	CourseCode  string `json:"course_code" form:"course_code" validate:"required,min=2,max=20"`
	CourseName  string `json:"course_name" form:"course_name" validate:"required,max=200"`
	Description string `json:"description" form:"description" validate:"max=5000"`
}

// Enrollment links a student to a course.
type Enrollment struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	CourseID  uint      `gorm:"primaryKey" json:"course_id"`
	CreatedAt time.Time `json:"enrolled_at"`
}
