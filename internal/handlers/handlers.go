package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"atelier/internal/models"
)

// Session keys used by the handlers.
const (
	sessionGeneration = "generation"
	sessionAuthor     = "author"
)

// storeGeneration keeps the latest generation in the session as JSON.
func storeGeneration(sess *session.Middleware, g *models.Generation) error {
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	sess.Set(sessionGeneration, string(data))
	return nil
}

// RememberGeneration records g and its author in the request's session so
// /download/:id can serve it. It is a no-op without session middleware.
func RememberGeneration(c fiber.Ctx, g *models.Generation, author string) error {
	sess := session.FromContext(c)
	if sess == nil {
		return nil
	}
	sess.Set(sessionAuthor, author)
	return storeGeneration(sess, g)
}

// loadGeneration returns the generation kept in the session, or nil.
func loadGeneration(sess *session.Middleware) *models.Generation {
	if sess == nil {
		return nil
	}
	raw, _ := sess.Get(sessionGeneration).(string)
	if raw == "" {
		return nil
	}
	var g models.Generation
	if err := json.Unmarshal([]byte(raw), &g); err != nil {
		return nil
	}
	return &g
}
