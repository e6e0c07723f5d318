package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/ByLCY/gabarito/internal/config"
	"github.com/ByLCY/gabarito/layout"
	"github.com/ByLCY/gabarito/renderer"
)

type stubRenderer struct {
	mode     string
	key      bool
	sheet    bool
	err      error
	requests int
}

func (s *stubRenderer) Render(doc layout.Document, mode string) (layout.RenderResult, error) {
	s.requests++
	s.mode, s.key = mode, doc.IncludeAnswerKey
	if s.err != nil {
		return layout.RenderResult{}, s.err
	}
	return layout.RenderResult{Bytes: []byte("%PDF-stub"), Length: 9, Pages: 2, Mode: "normal"}, nil
}

func (s *stubRenderer) RenderAnswerSheet(doc layout.Document, mode string) (layout.RenderResult, error) {
	s.requests++
	s.mode, s.sheet = mode, true
	if s.err != nil {
		return layout.RenderResult{}, s.err
	}
	return layout.RenderResult{Bytes: []byte("%PDF-sheet"), Length: 10, Pages: 1, Mode: "normal"}, nil
}

func (s *stubRenderer) Modes() []layout.Mode {
	return []layout.Mode{{Key: "normal", Label: "Normal"}, {Key: "eco-max", Label: "Eco max"}}
}

func testConfig() config.Config {
	return config.Config{Port: "0", MaxQuestions: 5, MaxBodyBytes: 4096, DefaultLocale: "en"}
}

func newTestServer(r renderer.Renderer) *Server {
	return NewServer(r, slog.New(slog.NewTextHandler(io.Discard, nil)), testConfig())
}

func examJSON(n int) string {
	doc := layout.Document{Title: "Prova", Subject: "Biologia"}
	for i := 0; i < n; i++ {
		doc.Questions = append(doc.Questions, layout.Question{
			ID:        fmt.Sprintf("q%d", i+1),
			Statement: fmt.Sprintf("Questão %d?", i+1),
			Alternatives: []layout.Alternative{
				{Text: "Sim", Correct: true},
				{Text: "Não"},
			},
		})
	}
	data, _ := json.Marshal(doc)
	return string(data)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(&stubRenderer{}), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestEcoModes(t *testing.T) {
	rec := do(t, newTestServer(&stubRenderer{}), http.MethodGet, "/api/eco-modes", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var body struct {
		Modes []layout.Mode `json:"modes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body.Modes) != 2 || body.Modes[1].Key != "eco-max" {
		t.Fatalf("unexpected modes: %+v", body.Modes)
	}
}

func TestExportStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		status int
		calls  int
	}{
		{"ok", "/api/export", examJSON(2), http.StatusOK, 1},
		{"empty exam", "/api/export", examJSON(0), http.StatusUnprocessableEntity, 0},
		{"too many questions", "/api/export", examJSON(6), http.StatusRequestEntityTooLarge, 0},
		{"invalid JSON", "/api/export", "{", http.StatusBadRequest, 0},
		{"body too large", "/api/export", `{"title":"` + strings.Repeat("x", 5000) + `"}`, http.StatusRequestEntityTooLarge, 0},
		{"bad answer key flag", "/api/export?includeAnswerKey=maybe", examJSON(1), http.StatusBadRequest, 0},
		{"answer sheet empty", "/api/answer-key", examJSON(0), http.StatusUnprocessableEntity, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubRenderer{}
			rec := do(t, newTestServer(stub), http.MethodPost, tt.target, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if stub.requests != tt.calls {
				t.Fatalf("expected %d render calls, got %d", tt.calls, stub.requests)
			}
		})
	}
}

func TestExportPassesQueryToRenderer(t *testing.T) {
	stub := &stubRenderer{}
	rec := do(t, newTestServer(stub), http.MethodPost, "/api/export?ecoMode=eco-max&includeAnswerKey=true", examJSON(2))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if stub.mode != "eco-max" || !stub.key {
		t.Fatalf("query not forwarded: mode=%q key=%v", stub.mode, stub.key)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, `attachment; filename="exam-`) {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	if rec.Header().Get("X-Page-Count") != "2" || rec.Body.String() != "%PDF-stub" {
		t.Fatalf("unexpected PDF response: %v %q", rec.Header(), rec.Body.String())
	}
}

func TestAnswerKeyUsesSheet(t *testing.T) {
	stub := &stubRenderer{}
	rec := do(t, newTestServer(stub), http.MethodPost, "/api/answer-key?ecoMode=save-ink", examJSON(3))
	if rec.Code != http.StatusOK || !stub.sheet || stub.mode != "save-ink" {
		t.Fatalf("answer sheet not rendered: %d %+v", rec.Code, stub)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "answer-key-") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
}

func TestRenderFailureIsInternalError(t *testing.T) {
	stub := &stubRenderer{err: fmt.Errorf("font exploded")}
	rec := do(t, newTestServer(stub), http.MethodPost, "/api/export", examJSON(1))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "exploded") {
		t.Fatalf("internal error details should not leak: %s", rec.Body.String())
	}
}

func TestValidate(t *testing.T) {
	s := newTestServer(&stubRenderer{})
	body := `{"questions":[{"id":"a","statement":"Q?","alternatives":[{"text":"only","isCorrect":false}]}]}`
	rec := do(t, s, http.MethodPost, "/api/validate", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var res struct {
		Valid  bool           `json:"valid"`
		Issues []layout.Issue `json:"issues"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if res.Valid || len(res.Issues) != 2 {
		t.Fatalf("expected two issues, got %+v", res)
	}

	rec = do(t, s, http.MethodPost, "/api/validate", examJSON(2))
	if !strings.Contains(rec.Body.String(), `"valid":true`) || !strings.Contains(rec.Body.String(), `"issues":[]`) {
		t.Fatalf("valid exam should report no issues: %s", rec.Body.String())
	}
}

func TestExportRealPDF(t *testing.T) {
	r, err := renderer.New(renderer.Options{Now: func() time.Time { return time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC) }})
	if err != nil {
		t.Fatalf("renderer.New failed: %v", err)
	}
	rec := do(t, newTestServer(r), http.MethodPost, "/api/export?ecoMode=save-paper", examJSON(5))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	data := rec.Body.Bytes()
	doc, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("response is not a readable PDF: %v", err)
	}
	if got := fmt.Sprint(doc.NumPage()); got != rec.Header().Get("X-Page-Count") {
		t.Fatalf("X-Page-Count %s does not match PDF pages %s", rec.Header().Get("X-Page-Count"), got)
	}
	if rec.Header().Get("X-Eco-Mode") != "save-paper" {
		t.Fatalf("unexpected mode header %q", rec.Header().Get("X-Eco-Mode"))
	}
}
