package handlers

import (
	"bytes"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/google/uuid"

	"atelier/internal/config"
	"atelier/internal/document"
	"atelier/internal/generation"
	"atelier/internal/metrics"
	"atelier/internal/middleware"
	"atelier/internal/models"
	"atelier/internal/questionnaire"
	"atelier/internal/quota"
	"atelier/internal/validation"
)

// AtelierHandler serves the questionnaire form, the generated text and its PDF.
type AtelierHandler struct {
	svc     *generation.Service
	catalog *questionnaire.Catalog
	cfg     *config.Config
}

// NewAtelierHandler creates a new atelier handler.
func NewAtelierHandler(svc *generation.Service, catalog *questionnaire.Catalog, cfg *config.Config) *AtelierHandler {
	return &AtelierHandler{svc: svc, catalog: catalog, cfg: cfg}
}

type generateForm struct {
	Language    string   `form:"lang"`
	Activity    string   `form:"activity"`
	Author      string   `form:"author"`
	Answers     []string `form:"answer"`
	Suggestions []string `form:"suggestion"`
}

type languageOption struct {
	Code     models.Language
	Name     string
	Selected bool
}

type activityOption struct {
	Code     models.Activity
	Label    string
	Selected bool
}

type questionView struct {
	Number      int
	Prompt      string
	Suggestions []string
	Answer      string
}

// Index renders the questionnaire form. The lang and activity query
// parameters select the questionnaire.
func (h *AtelierHandler) Index(c fiber.Ctx) error {
	lang := parseLanguage(c.Query("lang"))
	activity := parseActivity(c.Query("activity"))

	author := ""
	if sess := session.FromContext(c); sess != nil {
		author, _ = sess.Get(sessionAuthor).(string)
	}

	return h.renderForm(c, fiber.StatusOK, lang, activity, author, nil, "")
}

// Generate handles the questionnaire submission.
func (h *AtelierHandler) Generate(c fiber.Ctx) error {
	var form generateForm
	if err := c.Bind().Form(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Formulaire invalide.")
	}

	lang, err := models.ParseLanguage(form.Language)
	if err != nil {
		return h.renderForm(c, fiber.StatusBadRequest, models.LangFR, models.ActivityStory, form.Author, form.Answers, "Langue inconnue.")
	}
	activity, err := models.ParseActivity(form.Activity)
	if err != nil {
		return h.renderForm(c, fiber.StatusBadRequest, lang, models.ActivityStory, form.Author, form.Answers, "Activité inconnue.")
	}

	questions := h.catalog.Questions(lang, activity)
	answers := questionnaire.ResolveAnswers(len(questions), form.Answers, form.Suggestions)
	author := validation.NormalizeAuthor(form.Author)

	sess := session.FromContext(c)
	if sess != nil {
		sess.Set(sessionAuthor, author)
	}

	user := middleware.CurrentUser(c)
	if author == "" && user != nil {
		author = user.DisplayName()
	}

	g, err := h.svc.Generate(c.Context(), generation.Request{
		User:     userKey(c, author),
		Author:   author,
		Language: lang,
		Activity: activity,
		Answers:  answers,
	})
	if err != nil {
		if errors.Is(err, quota.ErrQuotaExceeded) {
			metrics.RecordQuotaRefusal()
		}
		return h.renderForm(c, generation.StatusCode(err), lang, activity, author, answers, generation.Message(err))
	}

	if err := RememberGeneration(c, g, validation.NormalizeAuthor(form.Author)); err != nil {
		slog.Error("failed to store generation in session", "id", g.ID, "error", err)
	}

	remaining, _ := h.svc.Remaining(c.Context(), g.User)
	return c.Render("result", MergeBranding(fiber.Map{
		"Title":      g.ActivityLabel(),
		"User":       user,
		"Generation": g,
		"Label":      g.ActivityLabel(),
		"Remaining":  remaining,
		"Limit":      h.svc.Quota.Limit,
	}, h.cfg))
}

// Download renders the generation as a PDF attachment.
func (h *AtelierHandler) Download(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Document introuvable.")
	}

	g := loadGeneration(session.FromContext(c))
	if g == nil || g.ID != id {
		author := ""
		if sess := session.FromContext(c); sess != nil {
			author, _ = sess.Get(sessionAuthor).(string)
		}
		g, err = h.svc.Lookup(c.Context(), id, userKey(c, author))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Document introuvable.")
		}
	}

	var buf bytes.Buffer
	if _, err := h.svc.RenderPDF(c.Context(), g, &buf); err != nil {
		slog.Error("failed to render pdf", "id", g.ID, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "La création du PDF a échoué.")
	}

	c.Attachment(document.FileName)
	return c.Send(buf.Bytes())
}

func (h *AtelierHandler) renderForm(c fiber.Ctx, status int, lang models.Language, activity models.Activity, author string, answers []string, message string) error {
	questions := h.catalog.Questions(lang, activity)
	views := make([]questionView, len(questions))
	for i, q := range questions {
		views[i] = questionView{Number: i + 1, Prompt: q.Prompt, Suggestions: q.Suggestions}
		if i < len(answers) {
			views[i].Answer = answers[i]
		}
	}

	languages := make([]languageOption, len(models.Languages))
	for i, l := range models.Languages {
		languages[i] = languageOption{Code: l, Name: l.Name(), Selected: l == lang}
	}
	activities := make([]activityOption, len(models.Activities))
	for i, a := range models.Activities {
		activities[i] = activityOption{Code: a, Label: a.Label(lang), Selected: a == activity}
	}

	remaining := h.svc.Quota.Limit
	if key := userKey(c, author); key != "" {
		if n, err := h.svc.Remaining(c.Context(), key); err == nil {
			remaining = n
		}
	}

	return c.Status(status).Render("index", MergeBranding(fiber.Map{
		"Title":      activity.Label(lang),
		"User":       middleware.CurrentUser(c),
		"Languages":  languages,
		"Activities": activities,
		"Language":   lang,
		"Activity":   activity,
		"Questions":  views,
		"Author":     author,
		"Remaining":  remaining,
		"Limit":      h.svc.Quota.Limit,
		"Error":      message,
	}, h.cfg))
}

// userKey identifies whose attempts are counted: the signed-in teacher,
// otherwise the author name typed in the form.
func userKey(c fiber.Ctx, author string) string {
	if user := middleware.CurrentUser(c); user != nil && user.QuotaKey() != "" {
		return user.QuotaKey()
	}
	return quota.Key(author)
}

func parseLanguage(s string) models.Language {
	if l, err := models.ParseLanguage(s); err == nil {
		return l
	}
	return models.LangFR
}

func parseActivity(s string) models.Activity {
	if a, err := models.ParseActivity(s); err == nil {
		return a
	}
	return models.ActivityStory
}
