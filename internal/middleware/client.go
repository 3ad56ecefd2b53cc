package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	ClientIDHeader = "X-Client-ID"
	ClientIDKey    = "clientID"
)

// EnsureClientID tags every request with a client identifier taken from the
// X-Client-ID header or the clientId query parameter, minting one when both
// are absent. The identifier is echoed back in the response header.
func EnsureClientID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := c.Locals(ClientIDKey).(string); ok && id != "" {
			return c.Next()
		}

		clientID := c.Get(ClientIDHeader)
		if clientID == "" {
			clientID = c.Query("clientId")
		}
		if clientID == "" {
			clientID = uuid.New().String()
		}

		c.Locals(ClientIDKey, clientID)
		c.Set(ClientIDHeader, clientID)
		return c.Next()
	}
}

// ClientID returns the identifier stored by EnsureClientID, or "".
func ClientID(c *fiber.Ctx) string {
	id, _ := c.Locals(ClientIDKey).(string)
	return id
}
