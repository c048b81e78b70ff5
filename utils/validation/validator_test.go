package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilchouksey/course-hub/model"
)

func TestValidateSignup(t *testing.T) {
	v := NewValidator()

	err := v.ValidateStruct(model.SignupRequest{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "password123",
		Role:     model.RoleProfessor,
	})
	assert.NoError(t, err)

	err = v.ValidateStruct(model.SignupRequest{
		Username: "ad",
		Email:    "nope",
		Password: "short",
		Role:     "admin",
	})
	require.Error(t, err)

	msgs := Messages(err)
	require.Len(t, msgs, 4)
	assert.Equal(t, "username", msgs[0].Field)
	assert.Equal(t, "Username must be at least 3 characters", msgs[0].Message)
	assert.Equal(t, "Invalid email format", msgs[1].Message)
	assert.Equal(t, "Password must be at least 8 characters", msgs[2].Message)
	assert.Equal(t, "Role must be one of: student, professor", msgs[3].Message)
}

func TestDescribe(t *testing.T) {
	v := NewValidator()
	err := v.ValidateStruct(model.CourseInput{})
	require.Error(t, err)
	assert.Equal(t, "Course code is required; Course name is required", Describe(err))

	assert.Equal(t, "plain", Describe(errors.New("plain")))
	assert.Empty(t, Describe(nil))
}

func TestNoteTypeOneOf(t *testing.T) {
	v := NewValidator()
	input := model.NoteInput{Title: "Base Cases", Content: "# Base", NoteType: model.NoteTypeSummary}
	assert.NoError(t, v.ValidateStruct(input))

	input.NoteType = "Essay"
	assert.Error(t, v.ValidateStruct(input))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "CS137", SanitizeString("  CS\x00137 \n"))
}
