// Package generation runs one creative-writing request end to end: quota,
// prompt, model call, usage ledger and PDF rendering.
package generation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"atelier/internal/document"
	"atelier/internal/llm"
	"atelier/internal/models"
	"atelier/internal/prompt"
	"atelier/internal/quota"
	"atelier/internal/usage"
	"atelier/internal/validation"
)

// User-facing messages.
const (
	MsgNoAnswer      = "Veuillez répondre à au moins une question."
	MsgNoUser        = "Veuillez indiquer votre nom."
	MsgQuotaExceeded = "Vous avez atteint le nombre maximal de générations."
	MsgFailed        = "La génération a échoué. Veuillez réessayer."
)

var (
	ErrNoAnswer = errors.New("no answer given")
	ErrNoUser   = errors.New("no user identifier")
	ErrInvalid  = errors.New("invalid request")
	ErrFailed   = errors.New("generation failed")
)

// ValidationError carries a message that can be shown as is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrInvalid }

// Archive keeps generations beyond the lifetime of a session.
type Archive interface {
	SaveGeneration(ctx context.Context, g *models.Generation) error
	GetGeneration(ctx context.Context, id uuid.UUID, user string) (*models.Generation, error)
}

// Request is one submission of the questionnaire.
type Request struct {
	User     string // quota key: signed-in email or author name
	Author   string
	Language models.Language
	Activity models.Activity
	Answers  []string
}

// Service generates texts for teachers.
type Service struct {
	Provider llm.Provider
	Quota    *quota.Tracker
	Ledger   usage.Ledger
	Archive  Archive // optional
	Renderer *document.Renderer
	Timeout  time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
}

// NewService returns a service with default renderer, clock and logger.
func NewService(provider llm.Provider, tracker *quota.Tracker, ledger usage.Ledger) *Service {
	return &Service{
		Provider: provider,
		Quota:    tracker,
		Ledger:   ledger,
		Renderer: document.NewRenderer(),
		Timeout:  60 * time.Second,
		Logger:   slog.Default(),
		Now:      time.Now,
	}
}

// Generate validates the request, consumes one attempt, asks the model for a
// text and records the usage. Attempts are given back when the model call
// fails.
func (s *Service) Generate(ctx context.Context, req Request) (*models.Generation, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}
	user := quota.Key(req.User)

	attempts, err := s.Quota.Acquire(ctx, user)
	if err != nil {
		if errors.Is(err, quota.ErrQuotaExceeded) {
			s.Logger.Info("generation refused", "user", user, "reason", "quota")
		}
		return nil, err
	}

	text, model, err := s.complete(ctx, req)
	if err != nil {
		if rerr := s.Quota.Release(context.WithoutCancel(ctx), user); rerr != nil {
			s.Logger.Error("failed to release attempt", "user", user, "error", rerr)
		}
		s.Logger.Error("generation failed", "user", user, "activity", req.Activity, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrFailed, err)
	}

	g := &models.Generation{
		ID:        uuid.New(),
		User:      user,
		Author:    req.Author,
		Language:  req.Language,
		Activity:  req.Activity,
		Answers:   req.Answers,
		Text:      text,
		Model:     model,
		Attempts:  attempts,
		CreatedAt: s.now().UTC(),
	}

	rec := models.UsageRecord{
		Timestamp: g.CreatedAt,
		User:      user,
		Language:  g.Language,
		Activity:  g.Activity,
		Attempts:  attempts,
	}
	if err := s.Ledger.Append(context.WithoutCancel(ctx), rec); err != nil {
		s.Logger.Error("failed to append usage record", "user", user, "error", err)
	}

	if s.Archive != nil {
		if err := s.Archive.SaveGeneration(context.WithoutCancel(ctx), g); err != nil {
			s.Logger.Error("failed to archive generation", "id", g.ID, "error", err)
		}
	}

	s.Logger.Info("generation completed",
		"id", g.ID,
		"user", user,
		"language", g.Language,
		"activity", g.Activity,
		"attempts", attempts,
	)
	return g, nil
}

func (s *Service) validate(req *Request) error {
	if !req.Activity.Valid() {
		return &ValidationError{Msg: "Activité inconnue."}
	}
	lang, err := models.ParseLanguage(string(req.Language))
	if err != nil {
		return &ValidationError{Msg: "Langue inconnue."}
	}
	req.Language = lang
	req.Author = validation.NormalizeAuthor(req.Author)
	if ok, msg := validation.ValidateAuthor(req.Author); !ok {
		return &ValidationError{Msg: msg}
	}
	if ok, msg := validation.ValidateAnswers(req.Answers); !ok {
		return &ValidationError{Msg: msg}
	}
	if !prompt.HasAnswer(req.Answers) {
		return ErrNoAnswer
	}
	if quota.Key(req.User) == "" {
		return ErrNoUser
	}
	return nil
}

func (s *Service) complete(ctx context.Context, req Request) (string, string, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	resp, err := s.Provider.Generate(ctx, prompt.NewRequest(prompt.Input{
		Language: req.Language,
		Activity: req.Activity,
		Answers:  req.Answers,
	}))
	if err != nil {
		return "", "", err
	}

	text := validation.SanitizeText(resp.Text)
	if text == "" {
		return "", "", llm.ErrEmptyResponse
	}
	model := resp.Model
	if model == "" {
		model = s.Provider.ModelID()
	}
	return text, model, nil
}

// Remaining returns how many attempts user has left.
func (s *Service) Remaining(ctx context.Context, user string) (int, error) {
	return s.Quota.Remaining(ctx, user)
}

// Lookup finds an archived generation. It returns an error when no archive
// is configured.
func (s *Service) Lookup(ctx context.Context, id uuid.UUID, user string) (*models.Generation, error) {
	if s.Archive == nil {
		return nil, errors.New("no generation archive configured")
	}
	return s.Archive.GetGeneration(ctx, id, quota.Key(user))
}

// RenderPDF writes the generation as a PDF document and returns its page count.
func (s *Service) RenderPDF(ctx context.Context, g *models.Generation, w io.Writer) (int, error) {
	return s.Renderer.Render(ctx, Document(g), w)
}

// Document converts a generation to the PDF layout input.
func Document(g *models.Generation) document.Document {
	return document.Document{
		Subtitle: g.ActivityLabel(),
		Author:   g.Author,
		Date:     g.CreatedAt,
		Body:     g.Text,
	}
}

// Message maps a Generate error to the text shown to the teacher.
func Message(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoAnswer):
		return MsgNoAnswer
	case errors.Is(err, ErrNoUser):
		return MsgNoUser
	case errors.Is(err, quota.ErrQuotaExceeded):
		return MsgQuotaExceeded
	case errors.As(err, &verr):
		return verr.Msg
	default:
		return MsgFailed
	}
}

// StatusCode maps a Generate error to an HTTP status.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNoAnswer), errors.Is(err, ErrNoUser), errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, quota.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
