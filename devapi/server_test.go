package devapi_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilchouksey/course-hub/devapi/devapitest"
	"github.com/sahilchouksey/course-hub/model"
	"github.com/sahilchouksey/course-hub/services/coursehub"
)

func TestHealth(t *testing.T) {
	backend := devapitest.New(t)
	status, err := backend.Client().Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", status.Status)
}

func TestSignupLoginMe(t *testing.T) {
	ctx := context.Background()
	backend := devapitest.New(t)

	_, user := backend.SignUp(t, "ada", model.RoleProfessor)
	assert.Equal(t, model.RoleProfessor, user.Role)

	resp, err := backend.Client().Login(ctx, model.LoginRequest{Username: "ada", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)

	me, err := backend.Client().WithTokenSource(coursehub.StaticToken(resp.AccessToken)).CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada", me.Username)

	_, err = backend.Client().Login(ctx, model.LoginRequest{Username: "ada", Password: "wrong-password"})
	assert.ErrorIs(t, err, coursehub.ErrUnauthorized)
	assert.Equal(t, "Incorrect username or password", coursehub.Message(err, ""))

	_, err = backend.Client().CurrentUser(ctx)
	assert.ErrorIs(t, err, coursehub.ErrUnauthorized)

	_, err = backend.Client().WithTokenSource(coursehub.StaticToken("garbage")).CurrentUser(ctx)
	assert.ErrorIs(t, err, coursehub.ErrUnauthorized)
}

func TestSignupValidationAndDuplicates(t *testing.T) {
	ctx := context.Background()
	backend := devapitest.New(t)
	backend.SignUp(t, "ada", model.RoleStudent)

	_, err := backend.Client().Signup(ctx, model.SignupRequest{
		Username: "ada", Email: "other@example.com", Password: "password123", Role: model.RoleStudent,
	})
	assert.Equal(t, "Username already registered", coursehub.Message(err, ""))

	_, err = backend.Client().Signup(ctx, model.SignupRequest{
		Username: "bob", Email: "bob@example.com", Password: "short", Role: "admin",
	})
	assert.ErrorIs(t, err, coursehub.ErrValidation)
}

// Professor creates CS137 → Recursion → "Base Cases", likes it twice,
// then deletes the topic and the note is gone.
func TestCourseTopicNoteScenario(t *testing.T) {
	ctx := context.Background()
	backend := devapitest.New(t)
	prof, _ := backend.SignUp(t, "prof", model.RoleProfessor)

	course, err := prof.CreateCourse(ctx, model.CourseInput{CourseCode: "CS137", CourseName: "Algorithms"})
	require.NoError(t, err)
	assert.True(t, course.IsEnrolled)

	got, err := prof.GetCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "CS137", got.CourseCode)
	assert.Equal(t, "Algorithms", got.CourseName)

	topic, err := prof.CreateTopic(ctx, model.TopicInput{Title: "Recursion", CourseID: course.ID})
	require.NoError(t, err)

	topics, err := prof.ListTopicsByCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "Recursion", topics[0].Title)

	note, err := prof.CreateNote(ctx, model.NoteInput{
		Title: "Base Cases", Content: "# Base Cases\n", NoteType: model.NoteTypeSummary, TopicID: topic.ID,
	})
	require.NoError(t, err)
	assert.Zero(t, note.Likes)

	liked, err := prof.LikeNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)

	_, err = prof.LikeNote(ctx, note.ID)
	assert.ErrorIs(t, err, coursehub.ErrAlreadyLiked)

	reloaded, err := prof.GetNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Likes)

	require.NoError(t, prof.DeleteTopic(ctx, topic.ID))

	_, err = prof.GetNote(ctx, note.ID)
	assert.ErrorIs(t, err, coursehub.ErrNotFound)
	_, err = prof.GetTopic(ctx, topic.ID)
	assert.ErrorIs(t, err, coursehub.ErrNotFound)
}

func TestCourseRoundTripAndDuplicateCode(t *testing.T) {
	ctx := context.Background()
	backend := devapitest.New(t)
	prof, _ := backend.SignUp(t, "prof", model.RoleProfessor)

	course, err := prof.CreateCourse(ctx, model.CourseInput{CourseCode: "CS137", CourseName: "Algorithms"})
	require.NoError(t, err)

	_, err = prof.CreateCourse(ctx, model.CourseInput{CourseCode: "CS137", CourseName: "Again"})
	require.Error(t, err)
	assert.Equal(t, "Course code already exists", coursehub.Message(err, ""))

	updated, err := prof.UpdateCourse(ctx, course.ID, model.CourseInput{CourseCode: "CS138", CourseName: "Advanced", Description: "more"})
	require.NoError(t, err)
	assert.Equal(t, "CS138", updated.CourseCode)

	courses, err := prof.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Advanced", courses[0].CourseName)
	assert.Equal(t, "more", courses[0].Description)
}

func TestStudentAccessRules(t *testing.T) {
	ctx := context.Background()
	backend := devapitest.New(t)
	prof, _ := backend.SignUp(t, "prof", model.RoleProfessor)
	student, _ := backend.SignUp(t, "sam", model.RoleStudent)

	_, err := student.CreateCourse(ctx, model.CourseInput{CourseCode: "X1", CourseName: "Nope"})
	assert.ErrorIs(t, err, coursehub.ErrForbidden)

	course, err := prof.CreateCourse(ctx, model.CourseInput{CourseCode: "CS137", CourseName: "Algorithms"})
	require.NoError(t, err)

	courses, err := student.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.False(t, courses[0].IsEnrolled)

	_, err = student.ListTopicsByCourse(ctx, course.ID)
	assert.ErrorIs(t, err, coursehub.ErrForbidden)

	msg, err := student.Enroll(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Successfully enrolled in course", msg.Message)

	_, err = student.Enroll(ctx, course.ID)
	assert.ErrorIs(t, err, coursehub.ErrAlreadyEnrolled)

	got, err := student.GetCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.True(t, got.IsEnrolled)

	topics, err := student.ListTopicsByCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Empty(t, topics)

	_, err = student.CreateTopic(ctx, model.TopicInput{Title: "T", CourseID: course.ID})
	assert.ErrorIs(t, err, coursehub.ErrForbidden)
}

func TestTopicOnlyInOwnCourse(t *testing.T) {
	ctx := context.Background()
	backend := devapitest.New(t)
	owner, _ := backend.SignUp(t, "owner", model.RoleProfessor)
	other, _ := backend.SignUp(t, "other", model.RoleProfessor)

	course, err := owner.CreateCourse(ctx, model.CourseInput{CourseCode: "CS1", CourseName: "Intro"})
	require.NoError(t, err)

	_, err = other.CreateTopic(ctx, model.TopicInput{Title: "Mine", CourseID: course.ID})
	assert.ErrorIs(t, err, coursehub.ErrForbidden)
	assert.Equal(t, "You can only create topics in your own courses", coursehub.Message(err, ""))

	_, err = owner.CreateTopic(ctx, model.TopicInput{Title: "Ghost", CourseID: 999})
	assert.ErrorIs(t, err, coursehub.ErrNotFound)
}

func TestNotePermissionsAndComments(t *testing.T) {
	ctx := context.Background()
	backend := devapitest.New(t)
	prof, _ := backend.SignUp(t, "prof", model.RoleProfessor)
	author, authorUser := backend.SignUp(t, "author", model.RoleStudent)
	other, _ := backend.SignUp(t, "other", model.RoleStudent)

	course, err := prof.CreateCourse(ctx, model.CourseInput{CourseCode: "CS1", CourseName: "Intro"})
	require.NoError(t, err)
	topic, err := prof.CreateTopic(ctx, model.TopicInput{Title: "Loops", CourseID: course.ID})
	require.NoError(t, err)

	note, err := author.CreateNote(ctx, model.NoteInput{Title: "For", Content: "body", NoteType: model.NoteTypeLecture, TopicID: topic.ID})
	require.NoError(t, err)
	assert.Equal(t, authorUser.ID, note.AuthorID)

	_, err = other.UpdateNote(ctx, note.ID, model.NoteInput{Title: "Hijack", Content: "x", NoteType: model.NoteTypeOther})
	assert.ErrorIs(t, err, coursehub.ErrForbidden)
	assert.ErrorIs(t, other.DeleteNote(ctx, note.ID), coursehub.ErrForbidden)

	updated, err := author.UpdateNote(ctx, note.ID, model.NoteInput{Title: "For loops", Content: "body v2", NoteType: model.NoteTypeCode})
	require.NoError(t, err)
	assert.Equal(t, model.NoteTypeCode, updated.NoteType)

	comment, err := other.AddComment(ctx, note.ID, model.CommentInput{Content: "Nice"})
	require.NoError(t, err)
	assert.Equal(t, "other", comment.Username)
	_, err = author.AddComment(ctx, note.ID, model.CommentInput{Content: "Thanks"})
	require.NoError(t, err)

	comments, err := prof.ListComments(ctx, note.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Nice", comments[0].Content)
	assert.Equal(t, "author", comments[1].Username)

	// Professors may delete any note.
	require.NoError(t, prof.DeleteNote(ctx, note.ID))
	_, err = prof.ListComments(ctx, note.ID)
	assert.ErrorIs(t, err, coursehub.ErrNotFound)
}

func TestNotesOrderedByLikes(t *testing.T) {
	ctx := context.Background()
	backend := devapitest.New(t)
	prof, _ := backend.SignUp(t, "prof", model.RoleProfessor)
	fan, _ := backend.SignUp(t, "fan", model.RoleStudent)

	course, err := prof.CreateCourse(ctx, model.CourseInput{CourseCode: "CS1", CourseName: "Intro"})
	require.NoError(t, err)
	topic, err := prof.CreateTopic(ctx, model.TopicInput{Title: "Sorting", CourseID: course.ID})
	require.NoError(t, err)

	first, err := prof.CreateNote(ctx, model.NoteInput{Title: "Bubble", Content: "a", NoteType: model.NoteTypeOther, TopicID: topic.ID})
	require.NoError(t, err)
	second, err := prof.CreateNote(ctx, model.NoteInput{Title: "Merge", Content: "b", NoteType: model.NoteTypeOther, TopicID: topic.ID})
	require.NoError(t, err)

	_, err = prof.LikeNote(ctx, second.ID)
	require.NoError(t, err)
	res, err := fan.LikeNote(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Likes)

	notes, err := fan.ListNotesByTopic(ctx, topic.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, second.ID, notes[0].ID)
	assert.Equal(t, first.ID, notes[1].ID)
}

func TestCourseDeleteCascades(t *testing.T) {
	ctx := context.Background()
	backend := devapitest.New(t)
	prof, _ := backend.SignUp(t, "prof", model.RoleProfessor)
	student, _ := backend.SignUp(t, "sam", model.RoleStudent)

	course, err := prof.CreateCourse(ctx, model.CourseInput{CourseCode: "CS137", CourseName: "Algorithms"})
	require.NoError(t, err)
	_, err = student.Enroll(ctx, course.ID)
	require.NoError(t, err)
	topic, err := prof.CreateTopic(ctx, model.TopicInput{Title: "Recursion", CourseID: course.ID})
	require.NoError(t, err)
	note, err := student.CreateNote(ctx, model.NoteInput{Title: "Base Cases", Content: "x", NoteType: model.NoteTypeSummary, TopicID: topic.ID})
	require.NoError(t, err)
	_, err = student.LikeNote(ctx, note.ID)
	require.NoError(t, err)
	_, err = student.AddComment(ctx, note.ID, model.CommentInput{Content: "hi"})
	require.NoError(t, err)

	assert.ErrorIs(t, student.DeleteCourse(ctx, course.ID), coursehub.ErrForbidden)
	require.NoError(t, prof.DeleteCourse(ctx, course.ID))

	_, err = prof.GetCourse(ctx, course.ID)
	assert.ErrorIs(t, err, coursehub.ErrNotFound)
	_, err = prof.GetTopic(ctx, topic.ID)
	assert.ErrorIs(t, err, coursehub.ErrNotFound)
	_, err = prof.GetNote(ctx, note.ID)
	assert.ErrorIs(t, err, coursehub.ErrNotFound)

	for _, table := range []interface{}{&model.Enrollment{}, &model.NoteLike{}, &model.Comment{}} {
		var count int64
		require.NoError(t, backend.DB.Model(table).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestUnknownIDs(t *testing.T) {
	ctx := context.Background()
	backend := devapitest.New(t)
	prof, _ := backend.SignUp(t, "prof", model.RoleProfessor)

	_, err := prof.GetCourse(ctx, 42)
	assert.ErrorIs(t, err, coursehub.ErrNotFound)
	assert.Equal(t, "Course not found", coursehub.Message(err, ""))

	_, err = prof.LikeNote(ctx, 42)
	assert.ErrorIs(t, err, coursehub.ErrNotFound)
	assert.NotErrorIs(t, err, coursehub.ErrAlreadyLiked)

	_, err = prof.CreateNote(ctx, model.NoteInput{Title: "t", Content: "c", NoteType: model.NoteTypeOther, TopicID: 42})
	assert.ErrorIs(t, err, coursehub.ErrNotFound)
}
