package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"atelier/internal/config"
	"atelier/internal/generation"
	"atelier/internal/handlers"
	"atelier/internal/llm"
	"atelier/internal/questionnaire"
	"atelier/internal/quota"
	"atelier/internal/testutil"
	"atelier/internal/usage"
)

const storyText = "Il était une fois un robot timide qui rêvait de danser."

func testConfig() *config.Config {
	return &config.Config{
		Env:                "development",
		BaseURL:            "http://localhost:3000",
		SessionSecret:      "test-secret-that-is-long-enough-for-production",
		AttemptLimit:       5,
		RateLimitPerMinute: 100,
		SiteTitle:          "Atelier Créatif — EDU",
		SiteTagline:        "Tagline",
		SiteFooter:         "Footer",
	}
}

type testEnv struct {
	t       *testing.T
	app     *fiber.App
	mock    *llm.MockProvider
	ledger  *usage.MemoryLedger
	cookies map[string]*http.Cookie
}

func newTestEnv(t *testing.T, cfg *config.Config, checks map[string]handlers.Check) *testEnv {
	t.Helper()

	mock := llm.NewMockProvider()
	mock.Fallback = storyText
	ledger := usage.NewMemoryLedger()

	svc := generation.NewService(mock, quota.NewTracker(cfg.AttemptLimit, nil), ledger)
	svc.Logger = testutil.QuietLogger()

	if checks == nil {
		checks = map[string]handlers.Check{
			"ledger": func(ctx context.Context) error { _, err := ledger.All(ctx); return err },
		}
	}

	srv := New(cfg, nil)
	err := srv.RegisterRoutes(context.Background(), Dependencies{
		Service: svc,
		Catalog: questionnaire.Default(),
		Ledger:  ledger,
		Checks:  checks,
	})
	if err != nil {
		t.Fatalf("RegisterRoutes() error = %v", err)
	}

	return &testEnv{t: t, app: srv.App, mock: mock, ledger: ledger, cookies: map[string]*http.Cookie{}}
}

// do sends req with the cookies collected so far, like a browser would.
func (e *testEnv) do(req *http.Request) (*http.Response, string) {
	e.t.Helper()
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	resp, err := e.app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	if err != nil {
		e.t.Fatalf("%s %s failed: %v", req.Method, req.URL.Path, err)
	}
	for _, c := range resp.Cookies() {
		if c.Value == "" || c.MaxAge < 0 {
			delete(e.cookies, c.Name)
			continue
		}
		e.cookies[c.Name] = c
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func (e *testEnv) get(path string) (*http.Response, string) {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	return e.do(req)
}

func (e *testEnv) postForm(path string, form url.Values) (*http.Response, string) {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

func (e *testEnv) postJSON(path string, body any) (*http.Response, string) {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(string(data)))
	req.Header.Set("Content-Type", "application/json")
	return e.do(req)
}

func storyForm(author string) url.Values {
	return url.Values{
		"lang":       {"FR"},
		"activity":   {"story"},
		"author":     {author},
		"answer":     {"Un robot", "", "", "", ""},
		"suggestion": {"", "Forêt magique", "", "", ""},
	}
}

func TestIndex(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)

	resp, body := env.get("/")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("GET / status = %d: %s", resp.StatusCode, body)
	}
	for _, want := range []string{"Atelier Créatif", "Héros/héroïne ?", "Fillette curieuse", "5</strong> / 5"} {
		if !strings.Contains(body, want) {
			t.Errorf("GET / body missing %q", want)
		}
	}

	_, body = env.get("/?lang=EN&activity=poem")
	if !strings.Contains(body, "Topic?") && !strings.Contains(body, "Subject?") {
		t.Errorf("GET /?lang=EN&activity=poem did not show the English poem questionnaire")
	}
}

func TestGenerateAndDownload(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)

	resp, body := env.postForm("/generate", storyForm("Mme Dupont"))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("POST /generate status = %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, storyText) {
		t.Errorf("result page does not show the generated text")
	}
	if !strings.Contains(body, "4</strong> / 5") {
		t.Errorf("result page does not show 4 remaining attempts")
	}

	// The chosen suggestion replaces the empty typed answer.
	prompt := env.mock.Calls[0].Messages[0].Content
	if !strings.Contains(prompt, "Q1: Un robot\nQ2: Forêt magique\n") {
		t.Errorf("prompt = %q", prompt)
	}

	records, _ := env.ledger.All(context.Background())
	if len(records) != 1 || records[0].User != "mme dupont" || records[0].Attempts != 1 {
		t.Fatalf("ledger = %+v", records)
	}

	i := strings.Index(body, "/download/")
	if i < 0 {
		t.Fatal("result page has no download link")
	}
	link := body[i : i+len("/download/")+36]

	resp, pdf := env.get(link)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("GET %s status = %d", link, resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, `filename="atelier_creatif.pdf"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.HasPrefix(pdf, "%PDF-") {
		t.Errorf("download is not a PDF")
	}

	resp, _ = env.get("/download/" + uuid.NewString())
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("unknown download status = %d, want 404", resp.StatusCode)
	}
	resp, _ = env.get("/download/not-a-uuid")
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("invalid download id status = %d, want 404", resp.StatusCode)
	}
}

func TestGenerate_QuotaReached(t *testing.T) {
	cfg := testConfig()
	cfg.AttemptLimit = 2
	env := newTestEnv(t, cfg, nil)

	for i := 0; i < 2; i++ {
		if resp, body := env.postForm("/generate", storyForm("Paul")); resp.StatusCode != fiber.StatusOK {
			t.Fatalf("attempt %d status = %d: %s", i+1, resp.StatusCode, body)
		}
	}

	resp, body := env.postForm("/generate", storyForm("paul"))
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Errorf("over-limit status = %d, want 429", resp.StatusCode)
	}
	if !strings.Contains(body, generation.MsgQuotaExceeded) {
		t.Errorf("over-limit page does not explain the refusal")
	}
	if len(env.mock.Calls) != 2 {
		t.Errorf("provider called %d times, want 2", len(env.mock.Calls))
	}
}

func TestGenerate_Errors(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)

	form := storyForm("Léa")
	form["answer"] = []string{"", "", "", "", ""}
	form["suggestion"] = []string{"", "", "", "", ""}
	resp, body := env.postForm("/generate", form)
	if resp.StatusCode != fiber.StatusBadRequest || !strings.Contains(body, generation.MsgNoAnswer) {
		t.Errorf("no-answer status = %d, missing message = %v", resp.StatusCode, !strings.Contains(body, generation.MsgNoAnswer))
	}

	resp, body = env.postForm("/generate", storyForm(""))
	if resp.StatusCode != fiber.StatusBadRequest || !strings.Contains(body, generation.MsgNoUser) {
		t.Errorf("no-user status = %d", resp.StatusCode)
	}

	env.mock.AddResponse(llm.MockResponse{Err: errors.New("connection reset")})
	resp, body = env.postForm("/generate", storyForm("Léa"))
	if resp.StatusCode != fiber.StatusBadGateway || !strings.Contains(body, generation.MsgFailed) {
		t.Errorf("provider failure status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "5</strong> / 5") {
		t.Errorf("a failed generation consumed an attempt")
	}
}

func TestAdmin(t *testing.T) {
	t.Run("disabled without secret", func(t *testing.T) {
		env := newTestEnv(t, testConfig(), nil)
		for _, path := range []string{"/admin", "/admin/usage.csv"} {
			if resp, _ := env.get(path); resp.StatusCode != fiber.StatusNotFound {
				t.Errorf("GET %s status = %d, want 404", path, resp.StatusCode)
			}
		}
	})

	t.Run("secret unlocks summary", func(t *testing.T) {
		cfg := testConfig()
		cfg.AdminSecret = "s3cret"
		env := newTestEnv(t, cfg, nil)

		env.postForm("/generate", storyForm("Marie"))

		_, body := env.get("/admin")
		if !strings.Contains(body, `name="secret"`) {
			t.Fatalf("locked admin page does not ask for the secret")
		}

		resp, _ := env.get("/admin/usage.csv")
		if resp.StatusCode == fiber.StatusOK {
			t.Errorf("usage.csv served without the secret")
		}

		resp, _ = env.postForm("/admin/login", url.Values{"secret": {"wrong"}})
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("wrong secret status = %d, want 401", resp.StatusCode)
		}

		resp, _ = env.postForm("/admin/login", url.Values{"secret": {"s3cret"}})
		if loc := resp.Header.Get("Location"); loc != "/admin" {
			t.Fatalf("login redirect = %q (status %d)", loc, resp.StatusCode)
		}

		_, body = env.get("/admin")
		if !strings.Contains(body, "<strong>1</strong> générations") || !strings.Contains(body, "marie") {
			t.Errorf("admin summary does not list the generation")
		}

		resp, csv := env.get("/admin/usage.csv")
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("usage.csv status = %d", resp.StatusCode)
		}
		lines := strings.Split(strings.TrimSpace(csv), "\n")
		if len(lines) != 2 || lines[0] != "timestamp,user,language,activity,attempts" || !strings.HasSuffix(lines[1], ",marie,FR,story,1") {
			t.Errorf("usage.csv = %q", csv)
		}

		env.postForm("/admin/logout", nil)
		_, body = env.get("/admin")
		if !strings.Contains(body, `name="secret"`) {
			t.Errorf("admin still unlocked after logout")
		}
	})
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

func decode(t *testing.T, body string) envelope {
	t.Helper()
	var e envelope
	if err := json.Unmarshal([]byte(body), &e); err != nil {
		t.Fatalf("invalid JSON %q: %v", body, err)
	}
	return e
}

func TestAPI(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)

	resp, body := env.get("/api/questionnaire?lang=EN&activity=story")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("questionnaire status = %d", resp.StatusCode)
	}
	var qs []struct {
		Activity  string                   `json:"activity"`
		Label     string                   `json:"label"`
		Questions []questionnaire.Question `json:"questions"`
	}
	if err := json.Unmarshal(decode(t, body).Data, &qs); err != nil {
		t.Fatal(err)
	}
	if len(qs) != 1 || qs[0].Label != "📚 Story" || len(qs[0].Questions) != 5 {
		t.Errorf("questionnaire = %+v", qs)
	}

	_, body = env.get("/api/questionnaire?lang=DE")
	if err := json.Unmarshal(decode(t, body).Data, &qs); err != nil || len(qs) != 5 {
		t.Errorf("questionnaire for all activities = %d entries, err %v", len(qs), err)
	}

	if resp, _ := env.get("/api/questionnaire?activity=dance"); resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("unknown activity status = %d", resp.StatusCode)
	}

	resp, body = env.postJSON("/api/generate", map[string]any{
		"lang":     "fr",
		"activity": "✒️ Poème",
		"author":   "Zoé",
		"answers":  []string{"la mer"},
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("generate status = %d: %s", resp.StatusCode, body)
	}
	var gen struct {
		Text        string `json:"text"`
		Activity    string `json:"activity"`
		Remaining   int    `json:"remaining"`
		DownloadURL string `json:"download_url"`
	}
	if err := json.Unmarshal(decode(t, body).Data, &gen); err != nil {
		t.Fatal(err)
	}
	if gen.Text != storyText || gen.Activity != "poem" || gen.Remaining != 4 || !strings.HasPrefix(gen.DownloadURL, "/download/") {
		t.Errorf("generate = %+v", gen)
	}

	resp, pdf := env.get(gen.DownloadURL)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("download after api generate status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/pdf") || !strings.HasPrefix(pdf, "%PDF-") {
		t.Errorf("download content type = %q", ct)
	}

	resp, body = env.postJSON("/api/generate", map[string]any{"lang": "FR", "activity": "poem", "author": "Zoé"})
	if e := decode(t, body); resp.StatusCode != fiber.StatusBadRequest || e.Error != generation.MsgNoAnswer {
		t.Errorf("generate without answers = %d %+v", resp.StatusCode, e)
	}

	resp, pdf = env.postJSON("/api/pdf", map[string]any{"text": "Bonjour\n\nla classe", "activity": "song"})
	if resp.StatusCode != fiber.StatusOK || !strings.HasPrefix(pdf, "%PDF-") {
		t.Errorf("pdf status = %d", resp.StatusCode)
	}

	resp, body = env.postJSON("/api/pdf", map[string]any{"text": "  "})
	if e := decode(t, body); resp.StatusCode != fiber.StatusBadRequest || e.Status != "error" {
		t.Errorf("empty pdf = %d %+v", resp.StatusCode, e)
	}
}

func TestProbes(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	if resp, _ := env.get("/healthz"); resp.StatusCode != fiber.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}
	if resp, _ := env.get("/readyz"); resp.StatusCode != fiber.StatusOK {
		t.Errorf("readyz status = %d", resp.StatusCode)
	}
	if resp, body := env.get("/metrics"); resp.StatusCode != fiber.StatusOK || !strings.Contains(body, "go_goroutines") {
		t.Errorf("metrics status = %d", resp.StatusCode)
	}

	failing := newTestEnv(t, testConfig(), map[string]handlers.Check{
		"database": func(context.Context) error { return errors.New("down") },
	})
	resp, body := failing.get("/readyz")
	if resp.StatusCode != fiber.StatusServiceUnavailable || !strings.Contains(body, "database unavailable") {
		t.Errorf("readyz with failing check = %d %s", resp.StatusCode, body)
	}
}

func TestErrorPage(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	resp, body := env.get("/no-such-page")
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if !strings.Contains(body, "Retour") {
		t.Errorf("404 page not rendered with the error template")
	}
}
