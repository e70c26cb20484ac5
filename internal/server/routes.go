package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"atelier/internal/generation"
	"atelier/internal/handlers"
	"atelier/internal/handlers/api"
	"atelier/internal/middleware"
	"atelier/internal/questionnaire"
	"atelier/internal/usage"
)

// Dependencies are the services the routes are wired to.
type Dependencies struct {
	Service *generation.Service
	Catalog *questionnaire.Catalog
	Ledger  usage.Ledger
	Checks  map[string]handlers.Check
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, deps Dependencies) error {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(s.Cfg)
	generateLimit := s.strictLimiter("generate")
	loginLimit := s.strictLimiter("admin-login")

	// Initialize handlers
	atelierHandler := handlers.NewAtelierHandler(deps.Service, deps.Catalog, s.Cfg)
	adminHandler := handlers.NewAdminHandler(deps.Ledger, s.Cfg)
	probeHandler := handlers.NewProbeHandler(deps.Checks)
	apiHandler := api.NewAtelierHandler(deps.Service, deps.Catalog)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Auth routes - sign-in is optional; anonymous teachers are counted by name
	if s.Cfg.IsOIDCEnabled() {
		authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg)
		if err != nil {
			return err
		}
		s.App.Get("/auth/login", authHandler.Login)
		s.App.Get("/auth/callback", authHandler.Callback)
		s.App.Get("/auth/logout", authHandler.Logout)
	} else {
		log.Println("OIDC sign-in is disabled. Set OIDC_ISSUER and OIDC_CLIENT_ID to enable.")
	}

	// Atelier
	s.App.Get("/", authMiddleware.OptionalAuth, atelierHandler.Index)
	s.App.Post("/generate", generateLimit, authMiddleware.OptionalAuth, atelierHandler.Generate)
	s.App.Get("/download/:id", authMiddleware.OptionalAuth, atelierHandler.Download)

	// Admin - 404 when ADMIN_SECRET is unset
	s.App.Get("/admin", adminHandler.Index)
	s.App.Post("/admin/login", loginLimit, adminHandler.Login)
	s.App.Post("/admin/logout", authMiddleware.RequireAdmin, adminHandler.Logout)
	s.App.Get("/admin/usage.csv", authMiddleware.RequireAdmin, adminHandler.ExportCSV)

	// JSON API
	apiGroup := s.App.Group("/api", authMiddleware.OptionalAuth)
	apiGroup.Get("/questionnaire", apiHandler.Questionnaire)
	apiGroup.Post("/generate", generateLimit, apiHandler.Generate)
	apiGroup.Post("/pdf", apiHandler.PDF)

	return nil
}
