package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request identifier in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// maxRequestIDLen bounds client-supplied identifiers.
const maxRequestIDLen = 64

// NewRequestID returns a middleware that tags every request with an ID. A
// well-formed incoming X-Request-ID is reused, otherwise a UUIDv4 is minted.
func NewRequestID() fiber.Handler {
	return func(c fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen || !requestIDRe.MatchString(id) {
			id = uuid.NewString()
		} else {
			// Detach from the fasthttp header buffer.
			id = string([]byte(id))
		}
		c.Locals(requestIDKey, id)
		c.Set(RequestIDHeader, id)
		return c.Next()
	}
}

// RequestIDFrom returns the ID assigned by NewRequestID, or "" outside it.
func RequestIDFrom(c fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}
