package middleware

import (
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"atelier/internal/config"
	"atelier/internal/models"
)

func newTestApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	sessionMiddleware, _ := session.NewWithStore()
	app.Use(sessionMiddleware)

	auth := NewAuthMiddleware(cfg)

	app.Get("/signin", func(c fiber.Ctx) error {
		SignIn(session.FromContext(c), &models.User{Sub: "sub-1", Email: "Marie@Example.com", Name: "Marie"})
		return c.SendString("ok")
	})
	app.Get("/unlock", func(c fiber.Ctx) error {
		session.FromContext(c).Set(SessionAdmin, true)
		return c.SendString("ok")
	})
	app.Get("/whoami", auth.OptionalAuth, func(c fiber.Ctx) error {
		return c.SendString(CurrentUser(c).QuotaKey())
	})
	app.Get("/admin/secret", auth.RequireAdmin, func(c fiber.Ctx) error {
		return c.SendString("admin")
	})
	return app
}

func do(t *testing.T, app *fiber.App, path string, cookies []*http.Cookie) (*http.Response, string) {
	t.Helper()
	req, _ := http.NewRequest("GET", path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestOptionalAuth(t *testing.T) {
	app := newTestApp(&config.Config{})

	_, body := do(t, app, "/whoami", nil)
	if body != "" {
		t.Errorf("anonymous whoami = %q, want empty", body)
	}

	resp, _ := do(t, app, "/signin", nil)
	_, body = do(t, app, "/whoami", resp.Cookies())
	if body != "marie@example.com" {
		t.Errorf("signed-in whoami = %q, want marie@example.com", body)
	}
}

func TestRequireAdmin(t *testing.T) {
	t.Run("disabled without secret", func(t *testing.T) {
		app := newTestApp(&config.Config{})
		resp, _ := do(t, app, "/admin/secret", nil)
		if resp.StatusCode != fiber.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("redirects when locked", func(t *testing.T) {
		app := newTestApp(&config.Config{AdminSecret: "s3cret"})
		resp, _ := do(t, app, "/admin/secret", nil)
		if resp.StatusCode != fiber.StatusSeeOther && resp.StatusCode != fiber.StatusFound {
			t.Errorf("status = %d, want redirect", resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); loc != "/admin" {
			t.Errorf("Location = %q, want /admin", loc)
		}
	})

	t.Run("passes when unlocked", func(t *testing.T) {
		app := newTestApp(&config.Config{AdminSecret: "s3cret"})
		resp, _ := do(t, app, "/unlock", nil)
		resp, body := do(t, app, "/admin/secret", resp.Cookies())
		if resp.StatusCode != fiber.StatusOK || body != "admin" {
			t.Errorf("status = %d body = %q", resp.StatusCode, body)
		}
	})
}
