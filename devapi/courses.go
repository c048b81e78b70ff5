package devapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/sahilchouksey/course-hub/model"
	"github.com/sahilchouksey/course-hub/utils/response"
	"github.com/sahilchouksey/course-hub/utils/validation"
)

func (h *handler) listCourses(c *fiber.Ctx) error {
	user := currentUser(c)
	db := h.db.WithContext(c.UserContext())

	courses := []model.Course{}
	if err := db.Order("id ASC").Find(&courses).Error; err != nil {
		return response.InternalServerError(c, "Failed to list courses")
	}

	enrolled, err := h.enrolledCourseIDs(db, user)
	if err != nil {
		return response.InternalServerError(c, "Failed to load enrollments")
	}
	for i := range courses {
		courses[i].IsEnrolled = user.IsProfessor() || enrolled[courses[i].ID]
	}

	return response.Success(c, courses)
}

func (h *handler) getCourse(c *fiber.Ctx) error {
	course, ok, err := h.findCourse(c)
	if !ok {
		return err
	}
	return response.Success(c, course)
}

func (h *handler) createCourse(c *fiber.Ctx) error {
	var input model.CourseInput
	if ok, err := h.parseBody(c, &input); !ok {
		return err
	}
	sanitizeCourse(&input)

	db := h.db.WithContext(c.UserContext())
	if taken, err := courseCodeTaken(db, input.CourseCode, 0); err != nil {
		return response.InternalServerError(c, "Failed to check course code")
	} else if taken {
		return response.BadRequest(c, "Course code already exists")
	}

	user := currentUser(c)
	course := model.Course{
		CourseCode:  input.CourseCode,
		CourseName:  input.CourseName,
		Description: input.Description,
		CreatorID:   user.ID,
	}
	if err := db.Create(&course).Error; err != nil {
		log.Errorw("failed to create course", "code", course.CourseCode, "error", err)
		return response.InternalServerError(c, "Failed to create course")
	}
	course.IsEnrolled = true

	return response.Created(c, course)
}

func (h *handler) updateCourse(c *fiber.Ctx) error {
	course, ok, err := h.findCourse(c)
	if !ok {
		return err
	}

	var input model.CourseInput
	if ok, err := h.parseBody(c, &input); !ok {
		return err
	}
	sanitizeCourse(&input)

	db := h.db.WithContext(c.UserContext())
	if taken, err := courseCodeTaken(db, input.CourseCode, course.ID); err != nil {
		return response.InternalServerError(c, "Failed to check course code")
	} else if taken {
		return response.BadRequest(c, "Course code already exists")
	}

	course.CourseCode = input.CourseCode
	course.CourseName = input.CourseName
	course.Description = input.Description
	if err := db.Model(course).Select("CourseCode", "CourseName", "Description").Updates(course).Error; err != nil {
		return response.InternalServerError(c, "Failed to update course")
	}

	return response.Success(c, course)
}

// deleteCourse removes the course with its enrollments, topics and
// everything under them in one transaction.
func (h *handler) deleteCourse(c *fiber.Ctx) error {
	course, ok, err := h.findCourse(c)
	if !ok {
		return err
	}

	err = h.db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", course.ID).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		var topicIDs []uint
		if err := tx.Model(&model.Topic{}).Where("course_id = ?", course.ID).Pluck("id", &topicIDs).Error; err != nil {
			return err
		}
		if err := deleteTopics(tx, topicIDs); err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, course.ID).Error
	})
	if err != nil {
		log.Errorw("failed to delete course", "course_id", course.ID, "error", err)
		return response.InternalServerError(c, "Failed to delete course")
	}

	log.Infow("course deleted", "course_id", course.ID, "by", currentUser(c).ID)
	return response.Message(c, "Course deleted successfully")
}

func (h *handler) enroll(c *fiber.Ctx) error {
	course, ok, err := h.findCourse(c)
	if !ok {
		return err
	}
	user := currentUser(c)
	db := h.db.WithContext(c.UserContext())

	var count int64
	if err := db.Model(&model.Enrollment{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&count).Error; err != nil {
		return response.InternalServerError(c, "Failed to check enrollment")
	}
	if count > 0 {
		return response.Error(c, fiber.StatusBadRequest, "Already enrolled in this course", "ALREADY_ENROLLED")
	}

	if err := db.Create(&model.Enrollment{UserID: user.ID, CourseID: course.ID}).Error; err != nil {
		return response.InternalServerError(c, "Failed to enroll")
	}
	return response.Message(c, "Successfully enrolled in course")
}

// findCourse loads the :id course with the viewer's enrollment flag.
func (h *handler) findCourse(c *fiber.Ctx) (*model.Course, bool, error) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false, response.NotFound(c, "Course not found")
	}

	db := h.db.WithContext(c.UserContext())
	var course model.Course
	if err := db.First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, response.NotFound(c, "Course not found")
		}
		return nil, false, response.InternalServerError(c, "Failed to load course")
	}

	enrolled, err := h.isEnrolled(db, currentUser(c), course.ID)
	if err != nil {
		return nil, false, response.InternalServerError(c, "Failed to load enrollment")
	}
	course.IsEnrolled = enrolled
	return &course, true, nil
}

// isEnrolled reports course access: professors always, students when enrolled.
func (h *handler) isEnrolled(db *gorm.DB, user *model.User, courseID uint) (bool, error) {
	if user.IsProfessor() {
		return true, nil
	}
	var count int64
	err := db.Model(&model.Enrollment{}).Where("user_id = ? AND course_id = ?", user.ID, courseID).Count(&count).Error
	return count > 0, err
}

func (h *handler) enrolledCourseIDs(db *gorm.DB, user *model.User) (map[uint]bool, error) {
	var ids []uint
	if err := db.Model(&model.Enrollment{}).Where("user_id = ?", user.ID).Pluck("course_id", &ids).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func courseCodeTaken(db *gorm.DB, code string, exceptID uint) (bool, error) {
	var count int64
	err := db.Model(&model.Course{}).Where("course_code = ? AND id <> ?", code, exceptID).Count(&count).Error
	return count > 0, err
}

func sanitizeCourse(input *model.CourseInput) {
	input.CourseCode = validation.SanitizeString(input.CourseCode)
	input.CourseName = validation.SanitizeString(input.CourseName)
	input.Description = validation.SanitizeString(input.Description)
}
