package database

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/sahilchouksey/course-hub/model"
	"github.com/sahilchouksey/course-hub/utils/auth"
)

// DemoPassword is the password of every seeded account
const DemoPassword = "password123"

// Seeder fills an empty database with demo data
type Seeder struct {
	db     *gorm.DB
	hasher *auth.Hasher
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, hasher *auth.Hasher) *Seeder {
	return &Seeder{db: db, hasher: hasher}
}

// SeedAll creates a professor, a student and one course with a topic and
// a note. It does nothing when any user exists.
func (s *Seeder) SeedAll() error {
	var count int64
	if err := s.db.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("users already exist, skipping seed")
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		professor, err := s.seedUser(tx, "prof", "prof@example.com", model.RoleProfessor)
		if err != nil {
			return err
		}
		student, err := s.seedUser(tx, "student", "student@example.com", model.RoleStudent)
		if err != nil {
			return err
		}

		course := model.Course{
			CourseCode:  "CS137",
			CourseName:  "Data Structures and Algorithms",
			Description: "Recursion, sorting, trees and graphs.",
			CreatorID:   professor.ID,
		}
		if err := tx.Create(&course).Error; err != nil {
			return fmt.Errorf("seed course: %w", err)
		}
		if err := tx.Create(&model.Enrollment{UserID: student.ID, CourseID: course.ID}).Error; err != nil {
			return fmt.Errorf("seed enrollment: %w", err)
		}

		topic := model.Topic{Title: "Recursion", Description: "Functions that call themselves.", CourseID: course.ID}
		if err := tx.Create(&topic).Error; err != nil {
			return fmt.Errorf("seed topic: %w", err)
		}

		note := model.Note{
			Title:    "Base Cases",
			Summary:  "Every recursion needs a way out.",
			NoteType: model.NoteTypeSummary,
			Content:  "# Base Cases\n\nA recursive function must stop.\n\n## Example\n\n```go\nfunc fact(n int) int {\n\tif n == 0 {\n\t\treturn 1\n\t}\n\treturn n * fact(n-1)\n}\n```\n",
			TopicID:  topic.ID,
			AuthorID: professor.ID,
		}
		if err := tx.Create(&note).Error; err != nil {
			return fmt.Errorf("seed note: %w", err)
		}

		log.Infow("seeded demo data", "professor", professor.Username, "student", student.Username, "password", DemoPassword)
		return nil
	})
}

func (s *Seeder) seedUser(tx *gorm.DB, username, email string, role model.Role) (*model.User, error) {
	hash, err := s.hasher.HashPassword(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{Username: username, Email: email, Role: role, PasswordHash: hash}
	if err := tx.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("seed user %s: already exists", username)
		}
		return nil, fmt.Errorf("seed user %s: %w", username, err)
	}
	return user, nil
}
