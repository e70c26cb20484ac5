package api

import (
	"github.com/gofiber/fiber/v3"
)

// Response is the envelope of every JSON API reply.
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// jsonSuccess returns a 200 response with data wrapped in the envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(Response{Status: "ok", Data: data})
}

// jsonError returns an error envelope with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Response{Status: "error", Error: message})
}
