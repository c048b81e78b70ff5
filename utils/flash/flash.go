package flash

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieName is the cookie carrying the message across one redirect.
const CookieName = "flash"

// Kind selects the banner style.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Message is a one-shot banner shown on the next rendered page.
type Message struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// IsError reports whether the banner is an error.
func (m *Message) IsError() bool {
	return m != nil && m.Kind == KindError
}

// Set queues a message for the next page.
func Set(c *fiber.Ctx, kind Kind, text string) {
	raw, err := json.Marshal(Message{Kind: kind, Text: text})
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Success queues a success banner.
func Success(c *fiber.Ctx, text string) {
	Set(c, KindSuccess, text)
}

// Error queues an error banner.
func Error(c *fiber.Ctx, text string) {
	Set(c, KindError, text)
}

// Pop returns the queued message, if any, and clears it.
func Pop(c *fiber.Ctx) *Message {
	value := c.Cookies(CookieName)
	if value == "" {
		return nil
	}
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Text == "" {
		return nil
	}
	return &msg
}
