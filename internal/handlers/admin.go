package handlers

import (
	"bytes"
	"crypto/subtle"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"atelier/internal/config"
	"atelier/internal/middleware"
	"atelier/internal/usage"
)

// AdminHandler serves the usage summary behind the shared admin secret.
type AdminHandler struct {
	ledger usage.Ledger
	cfg    *config.Config
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(ledger usage.Ledger, cfg *config.Config) *AdminHandler {
	return &AdminHandler{ledger: ledger, cfg: cfg}
}

// Index shows the usage summary, or the secret prompt when the session has
// not unlocked the admin view yet.
func (h *AdminHandler) Index(c fiber.Ctx) error {
	if !h.cfg.IsAdminEnabled() {
		return fiber.ErrNotFound
	}
	if !middleware.IsAdmin(c) {
		return c.Render("admin_login", MergeBranding(fiber.Map{
			"Title": "Administration",
		}, h.cfg))
	}

	records, err := h.ledger.All(c.Context())
	if err != nil {
		slog.Error("failed to read usage ledger", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Impossible de lire le journal d'utilisation.")
	}

	return c.Render("admin", MergeBranding(fiber.Map{
		"Title":   "Administration",
		"Summary": usage.Summarize(records, usage.DefaultRecent),
	}, h.cfg))
}

// Login unlocks the admin view when the submitted secret matches.
func (h *AdminHandler) Login(c fiber.Ctx) error {
	if !h.cfg.IsAdminEnabled() {
		return fiber.ErrNotFound
	}

	secret := c.FormValue("secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.cfg.AdminSecret)) != 1 {
		slog.Warn("admin login rejected", "ip", c.IP())
		return c.Status(fiber.StatusUnauthorized).Render("admin_login", MergeBranding(fiber.Map{
			"Title": "Administration",
			"Error": "Code incorrect.",
		}, h.cfg))
	}

	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(middleware.SessionAdmin, true)

	return c.Redirect().To("/admin")
}

// Logout locks the admin view again.
func (h *AdminHandler) Logout(c fiber.Ctx) error {
	if sess := session.FromContext(c); sess != nil {
		sess.Delete(middleware.SessionAdmin)
	}
	return c.Redirect().To("/")
}

// ExportCSV downloads the whole ledger.
func (h *AdminHandler) ExportCSV(c fiber.Ctx) error {
	records, err := h.ledger.All(c.Context())
	if err != nil {
		slog.Error("failed to read usage ledger", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Impossible de lire le journal d'utilisation.")
	}

	var buf bytes.Buffer
	if err := usage.WriteCSV(&buf, records); err != nil {
		return err
	}

	c.Attachment("usage_log.csv")
	return c.Send(buf.Bytes())
}
