package devapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/sahilchouksey/course-hub/model"
	"github.com/sahilchouksey/course-hub/utils/response"
	"github.com/sahilchouksey/course-hub/utils/validation"
)

func (h *handler) listTopics(c *fiber.Ctx) error {
	courseID, ok := paramID(c, "courseID")
	if !ok {
		return response.NotFound(c, "Course not found")
	}
	db := h.db.WithContext(c.UserContext())

	var count int64
	if err := db.Model(&model.Course{}).Where("id = ?", courseID).Count(&count).Error; err != nil {
		return response.InternalServerError(c, "Failed to load course")
	}
	if count == 0 {
		return response.NotFound(c, "Course not found")
	}

	enrolled, err := h.isEnrolled(db, currentUser(c), courseID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load enrollment")
	}
	if !enrolled {
		return response.Forbidden(c, "You must be enrolled in this course to view topics")
	}

	topics := []model.Topic{}
	if err := db.Where("course_id = ?", courseID).Order("id ASC").Find(&topics).Error; err != nil {
		return response.InternalServerError(c, "Failed to list topics")
	}
	return response.Success(c, topics)
}

func (h *handler) getTopic(c *fiber.Ctx) error {
	topic, ok, err := h.findTopic(c)
	if !ok {
		return err
	}
	return response.Success(c, topic)
}

// createTopic adds a topic to a course owned by the calling professor.
func (h *handler) createTopic(c *fiber.Ctx) error {
	var input model.TopicInput
	if ok, err := h.parseBody(c, &input); !ok {
		return err
	}
	db := h.db.WithContext(c.UserContext())

	var course model.Course
	if err := db.First(&course, input.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to load course")
	}
	if course.CreatorID != currentUser(c).ID {
		return response.Forbidden(c, "You can only create topics in your own courses")
	}

	topic := model.Topic{
		Title:       validation.SanitizeString(input.Title),
		Description: validation.SanitizeString(input.Description),
		CourseID:    course.ID,
	}
	if err := db.Create(&topic).Error; err != nil {
		return response.InternalServerError(c, "Failed to create topic")
	}
	return response.Created(c, topic)
}

func (h *handler) updateTopic(c *fiber.Ctx) error {
	topic, ok, err := h.findTopic(c)
	if !ok {
		return err
	}

	var input model.TopicInput
	if ok, err := h.parseBody(c, &input); !ok {
		return err
	}

	topic.Title = validation.SanitizeString(input.Title)
	topic.Description = validation.SanitizeString(input.Description)
	if err := h.db.WithContext(c.UserContext()).Model(topic).Select("Title", "Description").Updates(topic).Error; err != nil {
		return response.InternalServerError(c, "Failed to update topic")
	}
	return response.Success(c, topic)
}

func (h *handler) deleteTopic(c *fiber.Ctx) error {
	topic, ok, err := h.findTopic(c)
	if !ok {
		return err
	}

	err = h.db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		return deleteTopics(tx, []uint{topic.ID})
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete topic")
	}
	return response.NoContent(c)
}

func (h *handler) findTopic(c *fiber.Ctx) (*model.Topic, bool, error) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false, response.NotFound(c, "Topic not found")
	}
	var topic model.Topic
	if err := h.db.WithContext(c.UserContext()).First(&topic, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, response.NotFound(c, "Topic not found")
		}
		return nil, false, response.InternalServerError(c, "Failed to load topic")
	}
	return &topic, true, nil
}

// deleteTopics removes topics and their notes. Callers run it inside a transaction.
func deleteTopics(tx *gorm.DB, topicIDs []uint) error {
	if len(topicIDs) == 0 {
		return nil
	}
	var noteIDs []uint
	if err := tx.Model(&model.Note{}).Where("topic_id IN ?", topicIDs).Pluck("id", &noteIDs).Error; err != nil {
		return err
	}
	if err := deleteNotes(tx, noteIDs); err != nil {
		return err
	}
	return tx.Where("id IN ?", topicIDs).Delete(&model.Topic{}).Error
}
