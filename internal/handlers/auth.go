package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"golang.org/x/oauth2"

	"atelier/internal/config"
	"atelier/internal/middleware"
	"atelier/internal/models"
)

// Session keys of the sign-in flow.
const (
	sessionOAuthState    = "oauth_state"
	sessionOAuthVerifier = "oauth_verifier"
	sessionReturnTo      = "return_to"
)

// AuthHandler handles the optional OIDC sign-in. A signed-in teacher's email
// becomes their quota key.
type AuthHandler struct {
	provider     *oidc.Provider
	oauth2Config oauth2.Config
	verifier     *oidc.IDTokenVerifier
	cfg          *config.Config
}

// NewAuthHandler creates a new auth handler with OIDC configuration.
func NewAuthHandler(ctx context.Context, cfg *config.Config) (*AuthHandler, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return nil, err
	}

	return &AuthHandler{
		provider: provider,
		oauth2Config: oauth2.Config{
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.OIDCRedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID}),
		cfg:      cfg,
	}, nil
}

// Login starts the authorization code flow with PKCE. The optional next
// query parameter brings the teacher back to the questionnaire they were on.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	state, err := generateState()
	if err != nil {
		return err
	}
	verifier := oauth2.GenerateVerifier()

	sess.Set(sessionOAuthState, state)
	sess.Set(sessionOAuthVerifier, verifier)
	sess.Set(sessionReturnTo, safeReturnPath(c.Query("next")))

	return c.Redirect().To(h.oauth2Config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)))
}

// Callback handles the OIDC callback after authentication.
func (h *AuthHandler) Callback(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	savedState, _ := sess.Get(sessionOAuthState).(string)
	verifier, _ := sess.Get(sessionOAuthVerifier).(string)
	returnTo, _ := sess.Get(sessionReturnTo).(string)
	sess.Delete(sessionOAuthState)
	sess.Delete(sessionOAuthVerifier)
	sess.Delete(sessionReturnTo)

	if savedState == "" || savedState != c.Query("state") {
		return fiber.NewError(fiber.StatusBadRequest, "Session de connexion expirée. Réessayez.")
	}

	token, err := h.oauth2Config.Exchange(c.Context(), c.Query("code"), oauth2.VerifierOption(verifier))
	if err != nil {
		slog.Warn("oidc code exchange failed", "error", err)
		return fiber.NewError(fiber.StatusBadRequest, "La connexion a échoué.")
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "La connexion a échoué.")
	}
	idToken, err := h.verifier.Verify(c.Context(), rawIDToken)
	if err != nil {
		slog.Warn("oidc id_token rejected", "error", err)
		return fiber.NewError(fiber.StatusBadRequest, "La connexion a échoué.")
	}

	var claims userClaims
	if err := idToken.Claims(&claims); err != nil {
		return err
	}

	// Some providers only put email and name on the userinfo endpoint.
	if claims.Email == "" || claims.Name == "" {
		info, err := h.provider.UserInfo(c.Context(), oauth2.StaticTokenSource(token))
		if err != nil {
			slog.Warn("failed to fetch oidc userinfo", "error", err)
		} else {
			var extra userClaims
			if err := info.Claims(&extra); err == nil {
				claims = claims.merge(extra)
			}
		}
	}

	user, ok := claims.user()
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "La connexion a échoué.")
	}

	if err := sess.Regenerate(); err != nil {
		return err
	}
	middleware.SignIn(sess, user)
	slog.Info("teacher signed in", "quota_key", user.QuotaKey())

	return c.Redirect().To(safeReturnPath(returnTo))
}

// Logout clears the user session.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if sess := session.FromContext(c); sess != nil {
		if err := sess.Destroy(); err != nil {
			return err
		}
	}
	return c.Redirect().To("/")
}

type userClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified *bool  `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
}

// merge fills the empty fields of c from other. The subject never changes.
func (c userClaims) merge(other userClaims) userClaims {
	if c.Email == "" {
		c.Email = other.Email
		c.EmailVerified = other.EmailVerified
	}
	if c.Name == "" {
		c.Name = other.Name
	}
	if c.GivenName == "" {
		c.GivenName = other.GivenName
	}
	return c
}

// user converts the claims. An email the provider marks as unverified is
// dropped so it cannot be used to share another teacher's attempts.
func (c userClaims) user() (*models.User, bool) {
	if c.Sub == "" {
		return nil, false
	}
	email := c.Email
	if c.EmailVerified != nil && !*c.EmailVerified {
		email = ""
	}
	name := c.Name
	if name == "" {
		name = c.GivenName
	}
	return &models.User{Sub: c.Sub, Email: email, Name: name}, true
}

// safeReturnPath only allows local paths.
func safeReturnPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	return p
}

func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
