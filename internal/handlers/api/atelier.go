package api

import (
	"bytes"
	"errors"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v3"

	"atelier/internal/document"
	"atelier/internal/generation"
	"atelier/internal/handlers"
	"atelier/internal/metrics"
	"atelier/internal/middleware"
	"atelier/internal/models"
	"atelier/internal/questionnaire"
	"atelier/internal/quota"
	"atelier/internal/validation"
)

// MaxPDFTextLength bounds the text accepted by the PDF endpoint.
const MaxPDFTextLength = 20000

// AtelierHandler exposes the questionnaire, generation and PDF rendering as JSON.
type AtelierHandler struct {
	svc     *generation.Service
	catalog *questionnaire.Catalog
}

// NewAtelierHandler creates a new API atelier handler.
func NewAtelierHandler(svc *generation.Service, catalog *questionnaire.Catalog) *AtelierHandler {
	return &AtelierHandler{svc: svc, catalog: catalog}
}

type questionnaireResponse struct {
	Language  models.Language          `json:"language"`
	Activity  models.Activity          `json:"activity"`
	Label     string                   `json:"label"`
	Questions []questionnaire.Question `json:"questions"`
}

// Questionnaire returns the questions for ?lang=&activity=. Without an
// activity, every activity of the language is returned.
func (h *AtelierHandler) Questionnaire(c fiber.Ctx) error {
	lang := models.LangFR
	if q := c.Query("lang"); q != "" {
		l, err := models.ParseLanguage(q)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "unknown language")
		}
		lang = l
	}

	activities := models.Activities
	if q := c.Query("activity"); q != "" {
		a, err := models.ParseActivity(q)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "unknown activity")
		}
		activities = []models.Activity{a}
	}

	out := make([]questionnaireResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, questionnaireResponse{
			Language:  lang,
			Activity:  a,
			Label:     a.Label(lang),
			Questions: h.catalog.Questions(lang, a),
		})
	}
	return jsonSuccess(c, out)
}

type generateRequest struct {
	Language    string   `json:"lang"`
	Activity    string   `json:"activity"`
	Author      string   `json:"author"`
	Answers     []string `json:"answers"`
	Suggestions []string `json:"suggestions"`
}

type generateResponse struct {
	ID          string          `json:"id"`
	Language    models.Language `json:"language"`
	Activity    models.Activity `json:"activity"`
	Label       string          `json:"label"`
	Text        string          `json:"text"`
	Model       string          `json:"model"`
	Attempts    int             `json:"attempts"`
	Remaining   int             `json:"remaining"`
	DownloadURL string          `json:"download_url"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Generate runs one generation for the signed-in teacher or the given author.
func (h *AtelierHandler) Generate(c fiber.Ctx) error {
	var req generateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	lang, err := models.ParseLanguage(req.Language)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "unknown language")
	}
	activity, err := models.ParseActivity(req.Activity)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "unknown activity")
	}

	questions := h.catalog.Questions(lang, activity)
	answers := questionnaire.ResolveAnswers(len(questions), req.Answers, req.Suggestions)
	author := validation.NormalizeAuthor(req.Author)

	key := quota.Key(author)
	if user := middleware.CurrentUser(c); user != nil && user.QuotaKey() != "" {
		key = user.QuotaKey()
		if author == "" {
			author = user.DisplayName()
		}
	}

	g, err := h.svc.Generate(c.Context(), generation.Request{
		User:     key,
		Author:   author,
		Language: lang,
		Activity: activity,
		Answers:  answers,
	})
	if err != nil {
		if errors.Is(err, quota.ErrQuotaExceeded) {
			metrics.RecordQuotaRefusal()
		}
		return jsonError(c, generation.StatusCode(err), generation.Message(err))
	}

	if err := handlers.RememberGeneration(c, g, validation.NormalizeAuthor(req.Author)); err != nil {
		slog.Error("failed to store generation in session", "id", g.ID, "error", err)
	}

	remaining, _ := h.svc.Remaining(c.Context(), g.User)
	return jsonSuccess(c, generateResponse{
		ID:          g.ID.String(),
		Language:    g.Language,
		Activity:    g.Activity,
		Label:       g.ActivityLabel(),
		Text:        g.Text,
		Model:       g.Model,
		Attempts:    g.Attempts,
		Remaining:   remaining,
		DownloadURL: "/download/" + g.ID.String(),
		CreatedAt:   g.CreatedAt,
	})
}

type pdfRequest struct {
	Language string `json:"lang"`
	Activity string `json:"activity"`
	Author   string `json:"author"`
	Title    string `json:"title"`
	Text     string `json:"text"`
}

// PDF renders the posted text as a PDF attachment. No attempt is consumed.
func (h *AtelierHandler) PDF(c fiber.Ctx) error {
	var req pdfRequest
	if err := c.Bind().JSON(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	text := validation.SanitizeText(req.Text)
	if text == "" {
		return jsonError(c, fiber.StatusBadRequest, "text is required")
	}
	if utf8.RuneCountInString(text) > MaxPDFTextLength {
		return jsonError(c, fiber.StatusRequestEntityTooLarge, "text is too long")
	}

	lang := models.LangFR
	if req.Language != "" {
		if l, err := models.ParseLanguage(req.Language); err == nil {
			lang = l
		}
	}
	doc := document.Document{
		Title:  validation.SanitizeText(req.Title),
		Author: validation.NormalizeAuthor(req.Author),
		Body:   text,
	}
	if a, err := models.ParseActivity(req.Activity); err == nil {
		doc.Subtitle = a.Label(lang)
	}

	var buf bytes.Buffer
	if _, err := h.svc.Renderer.Render(c.Context(), doc, &buf); err != nil {
		slog.Error("failed to render pdf", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to render pdf")
	}

	c.Attachment(document.FileName)
	return c.Send(buf.Bytes())
}
