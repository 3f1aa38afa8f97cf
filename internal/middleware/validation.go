package middleware

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v3"

	"github.com/Raman0101/YT-ANALYSIS/internal/model"
)

// MaxChannelNameLen is the longest accepted channelName, in characters.
const MaxChannelNameLen = 100

// requestIDRe matches client-supplied request IDs worth echoing back.
var requestIDRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ErrorResponse writes the standard {"errors": [...], "meta": {"status": n}} body.
func ErrorResponse(c fiber.Ctx, status int, messages ...string) error {
	if messages == nil {
		messages = []string{}
	}
	return c.Status(status).JSON(model.ErrorResponse{
		Errors: messages,
		Meta:   model.ErrorResponseMeta{Status: status},
	})
}

// ValidateChannelName trims name and checks it is present and not too long.
// It returns the trimmed name, or an error message for the client.
func ValidateChannelName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "channelName is required"
	}
	if utf8.RuneCountInString(name) > MaxChannelNameLen {
		return "", "channelName too long (max 100)"
	}
	return name, ""
}
