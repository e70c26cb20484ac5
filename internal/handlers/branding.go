package handlers

import (
	"github.com/gofiber/fiber/v3"

	"atelier/internal/config"
)

// MergeBranding adds the values read by layouts/main to data.
func MergeBranding(data fiber.Map, cfg *config.Config) fiber.Map {
	data["SiteTitle"] = cfg.SiteTitle
	data["SiteTagline"] = cfg.SiteTagline
	data["SiteFooter"] = cfg.SiteFooter
	data["OIDCEnabled"] = cfg.IsOIDCEnabled()
	return data
}
