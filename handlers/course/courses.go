package course

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
	"github.com/sahilchouksey/course-hub/utils/middleware"
	"github.com/sahilchouksey/course-hub/utils/validation"
)

// CourseHandler serves the course pages
type CourseHandler struct {
	validator *validation.Validator
}

// NewCourseHandler creates a new course handler
func NewCourseHandler() *CourseHandler {
	return &CourseHandler{
		validator: validation.NewValidator(),
	}
}

// ListCourses handles GET /courses
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	courses, err := session.From(c).Client().ListCourses(c.UserContext())
	if err != nil {
		return page.LoadFailed(c, err, "Failed to load courses")
	}

	return page.Render(c, fiber.StatusOK, "courses/index", fiber.Map{
		"Title":   "Courses",
		"Courses": courses,
	})
}

// CreateCourse handles POST /courses
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	input, problem := h.parseInput(c)
	if problem != "" {
		flash.Error(c, problem)
		return page.Redirect(c, "/courses")
	}

	course, err := session.From(c).Client().CreateCourse(c.UserContext(), input)
	if err != nil {
		return page.MutationFailed(c, err, "/courses", "Failed to create course")
	}

	flash.Success(c, "Course "+course.CourseCode+" created")
	return page.Redirect(c, coursePath(course.ID))
}

// GetCourse handles GET /courses/:id. Topics are listed only when the
// viewer can see them; professors load both at once.
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	id, err := page.ParamID(c, "id")
	if err != nil {
		return err
	}
	s := session.From(c)
	client := s.Client()
	ctx := c.UserContext()

	var (
		course *model.Course
		topics []model.Topic
	)
	if s.IsProfessor() {
		course, topics, err = coursehub.FetchPair(ctx,
			func(ctx context.Context) (*model.Course, error) { return client.GetCourse(ctx, id) },
			func(ctx context.Context) ([]model.Topic, error) { return client.ListTopicsByCourse(ctx, id) },
		)
	} else {
		course, err = client.GetCourse(ctx, id)
		if err == nil && course.IsEnrolled {
			topics, err = client.ListTopicsByCourse(ctx, id)
		}
	}
	if err != nil {
		return page.LoadFailed(c, err, "Failed to load course")
	}

	return page.Render(c, fiber.StatusOK, "courses/show", fiber.Map{
		"Title":  course.CourseCode,
		"Course": course,
		"Topics": topics,
	})
}

// EditCourse handles GET /courses/:id/edit
func (h *CourseHandler) EditCourse(c *fiber.Ctx) error {
	id, err := page.ParamID(c, "id")
	if err != nil {
		return err
	}

	course, err := session.From(c).Client().GetCourse(c.UserContext(), id)
	if err != nil {
		return page.LoadFailed(c, err, "Failed to load course")
	}

	return h.renderEdit(c, fiber.StatusOK, id, model.CourseInput{
		CourseCode:  course.CourseCode,
		CourseName:  course.CourseName,
		Description: course.Description,
	}, "")
}

// UpdateCourse handles POST /courses/:id/edit
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	id, err := page.ParamID(c, "id")
	if err != nil {
		return err
	}

	input, problem := h.parseInput(c)
	if problem != "" {
		return h.renderEdit(c, fiber.StatusUnprocessableEntity, id, input, problem)
	}

	if _, err := session.From(c).Client().UpdateCourse(c.UserContext(), id, input); err != nil {
		if errors.Is(err, coursehub.ErrUnauthorized) {
			return page.MutationFailed(c, err, editPath(id), "")
		}
		return h.renderEdit(c, page.StatusFor(err), id, input, coursehub.Message(err, "Failed to update course"))
	}

	flash.Success(c, "Course updated")
	return page.Redirect(c, coursePath(id))
}

// ConfirmDeleteCourse handles GET /courses/:id/delete
func (h *CourseHandler) ConfirmDeleteCourse(c *fiber.Ctx) error {
	id, err := page.ParamID(c, "id")
	if err != nil {
		return err
	}

	course, err := session.From(c).Client().GetCourse(c.UserContext(), id)
	if err != nil {
		return page.LoadFailed(c, err, "Failed to load course")
	}

	return page.Render(c, fiber.StatusOK, "confirm", fiber.Map{
		"Title":   "Delete course",
		"Heading": "Delete " + course.CourseCode + "?",
		"Message": fmt.Sprintf("%q and all of its topics and notes will be deleted.", course.CourseName),
		"Action":  coursePath(id) + "/delete",
		"Cancel":  coursePath(id),
	})
}

// DeleteCourse handles POST /courses/:id/delete. Without confirm=yes it
// goes back to the confirmation page.
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	id, err := page.ParamID(c, "id")
	if err != nil {
		return err
	}
	if c.FormValue("confirm") != "yes" {
		return page.Redirect(c, coursePath(id)+"/delete")
	}

	if err := session.From(c).Client().DeleteCourse(c.UserContext(), id); err != nil {
		return page.MutationFailed(c, err, coursePath(id), "Failed to delete course")
	}

	flash.Success(c, "Course deleted")
	return page.Redirect(c, "/courses")
}

// Enroll handles POST /courses/:id/enroll and returns to the page in the
// "return" field when it is local.
func (h *CourseHandler) Enroll(c *fiber.Ctx) error {
	id, err := page.ParamID(c, "id")
	if err != nil {
		return err
	}
	back := coursePath(id)
	if ret := c.FormValue("return"); middleware.IsLocalPath(ret) {
		back = ret
	}

	msg, err := session.From(c).Client().Enroll(c.UserContext(), id)
	if err != nil {
		return page.MutationFailed(c, err, back, "Failed to enroll")
	}

	flash.Success(c, msg.Message)
	return page.Redirect(c, back)
}

// CreateTopic handles POST /courses/:id/topics
func (h *CourseHandler) CreateTopic(c *fiber.Ctx) error {
	id, err := page.ParamID(c, "id")
	if err != nil {
		return err
	}
	back := coursePath(id)

	var input model.TopicInput
	if err := c.BodyParser(&input); err != nil {
		flash.Error(c, "Invalid form submission")
		return page.Redirect(c, back)
	}
	input.Title = strings.TrimSpace(input.Title)
	input.CourseID = id
	if err := h.validator.ValidateStruct(&input); err != nil {
		flash.Error(c, validation.Describe(err))
		return page.Redirect(c, back)
	}

	topic, err := session.From(c).Client().CreateTopic(c.UserContext(), input)
	if err != nil {
		return page.MutationFailed(c, err, back, "Failed to create topic")
	}

	flash.Success(c, "Topic "+topic.Title+" created")
	return page.Redirect(c, back)
}

// parseInput reads and validates the course form. A non-empty problem is
// the message to show.
func (h *CourseHandler) parseInput(c *fiber.Ctx) (input model.CourseInput, problem string) {
	if err := c.BodyParser(&input); err != nil {
		return input, "Invalid form submission"
	}
	input.CourseCode = strings.TrimSpace(input.CourseCode)
	input.CourseName = strings.TrimSpace(input.CourseName)
	input.Description = strings.TrimSpace(input.Description)

	if err := h.validator.ValidateStruct(&input); err != nil {
		return input, validation.Describe(err)
	}
	return input, ""
}

func (h *CourseHandler) renderEdit(c *fiber.Ctx, status int, id uint, form model.CourseInput, message string) error {
	return page.Render(c, status, "courses/edit", fiber.Map{
		"Title": "Edit course",
		"ID":    id,
		"Form":  form,
		"Error": message,
	})
}

func coursePath(id uint) string {
	return fmt.Sprintf("/courses/%d", id)
}

func editPath(id uint) string {
	return coursePath(id) + "/edit"
}
