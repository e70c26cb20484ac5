package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"atelier/internal/config"
	"atelier/internal/models"
)

// Session keys.
const (
	SessionUserSub   = "user_sub"
	SessionUserEmail = "user_email"
	SessionUserName  = "user_name"
	SessionAdmin     = "is_admin"
)

// AuthMiddleware loads the signed-in teacher and guards the admin pages.
type AuthMiddleware struct {
	cfg *config.Config
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg}
}

// OptionalAuth loads the user if signed in, but doesn't require it.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return c.Next()
	}

	sub, _ := sess.Get(SessionUserSub).(string)
	if sub == "" {
		return c.Next()
	}

	email, _ := sess.Get(SessionUserEmail).(string)
	name, _ := sess.Get(SessionUserName).(string)
	c.Locals("user", &models.User{Sub: sub, Email: email, Name: name})

	return c.Next()
}

// RequireAdmin lets the request through only when the session unlocked the
// admin view. The admin view does not exist when no secret is configured.
func (m *AuthMiddleware) RequireAdmin(c fiber.Ctx) error {
	if !m.cfg.IsAdminEnabled() {
		return fiber.ErrNotFound
	}
	if !IsAdmin(c) {
		return c.Redirect().To("/admin")
	}
	return c.Next()
}

// CurrentUser returns the signed-in user, or nil.
func CurrentUser(c fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// IsAdmin reports whether the session unlocked the admin view.
func IsAdmin(c fiber.Ctx) bool {
	sess := session.FromContext(c)
	if sess == nil {
		return false
	}
	admin, _ := sess.Get(SessionAdmin).(bool)
	return admin
}

// SignIn stores the user in the session.
func SignIn(sess *session.Middleware, user *models.User) {
	sess.Set(SessionUserSub, user.Sub)
	sess.Set(SessionUserEmail, user.Email)
	sess.Set(SessionUserName, user.Name)
}
