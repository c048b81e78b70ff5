package devapi

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/sahilchouksey/course-hub/model"
	"github.com/sahilchouksey/course-hub/utils/auth"
	"github.com/sahilchouksey/course-hub/utils/response"
	"github.com/sahilchouksey/course-hub/utils/validation"
)

func (h *handler) signup(c *fiber.Ctx) error {
	var req model.SignupRequest
	if ok, err := h.parseBody(c, &req); !ok {
		return err
	}
	req.Username = validation.SanitizeString(req.Username)
	req.Email = strings.ToLower(validation.SanitizeString(req.Email))

	db := h.db.WithContext(c.UserContext())

	var count int64
	if err := db.Model(&model.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return response.InternalServerError(c, "Failed to check username")
	}
	if count > 0 {
		return response.BadRequest(c, "Username already registered")
	}
	if err := db.Model(&model.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return response.InternalServerError(c, "Failed to check email")
	}
	if count > 0 {
		return response.BadRequest(c, "Email already registered")
	}

	hash, err := h.hasher.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return response.Error(c, fiber.StatusUnprocessableEntity, "Password must be at least 8 characters", "VALIDATION_ERROR")
		}
		return response.InternalServerError(c, "Failed to hash password")
	}

	user := model.User{
		Username:     req.Username,
		Email:        req.Email,
		Role:         req.Role,
		PasswordHash: hash,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Errorw("failed to create user", "username", user.Username, "error", err)
		return response.InternalServerError(c, "Failed to create user")
	}

	log.Infow("user signed up", "user_id", user.ID, "role", user.Role)
	return h.issueToken(c, fiber.StatusCreated, &user)
}

func (h *handler) login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if ok, err := h.parseBody(c, &req); !ok {
		return err
	}

	var user model.User
	err := h.db.WithContext(c.UserContext()).Where("username = ?", validation.SanitizeString(req.Username)).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return response.InternalServerError(c, "Failed to load user")
	}
	if err != nil || auth.VerifyPassword(user.PasswordHash, req.Password) != nil {
		return response.Unauthorized(c, "Incorrect username or password")
	}

	return h.issueToken(c, fiber.StatusOK, &user)
}

func (h *handler) me(c *fiber.Ctx) error {
	return response.Success(c, currentUser(c))
}

func (h *handler) issueToken(c *fiber.Ctx, status int, user *model.User) error {
	token, _, err := h.jwt.GenerateAccessToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return response.InternalServerError(c, "Failed to generate token")
	}
	return c.Status(status).JSON(model.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        *user,
	})
}
