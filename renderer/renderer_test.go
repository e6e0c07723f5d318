package renderer

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/ByLCY/gabarito/layout"
	"github.com/ByLCY/gabarito/preset"
	canvasrenderer "github.com/ByLCY/gabarito/renderer/canvas"
)

func newPDF(t *testing.T) *PDF {
	t.Helper()
	r, err := New(Options{Now: func() time.Time { return time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC) }})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r
}

func exam(n int, key bool) layout.Document {
	doc := layout.Document{Title: "Biologia - 1º bimestre", Subject: "Biologia", IncludeAnswerKey: key}
	for i := 0; i < n; i++ {
		q := layout.Question{
			ID:        fmt.Sprintf("q%d", i+1),
			Statement: fmt.Sprintf("Questão %d: qual estrutura celular é responsável pela respiração celular em eucariotos?", i+1),
		}
		for j, text := range []string{"Mitocôndria", "Ribossomo", "Lisossomo", "Complexo de Golgi"} {
			q.Alternatives = append(q.Alternatives, layout.Alternative{Text: text, Correct: j == i%4})
		}
		doc.Questions = append(doc.Questions, q)
	}
	return doc
}

func pageCount(t *testing.T, data []byte) int {
	t.Helper()
	r, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("PDF cannot be read back: %v", err)
	}
	return r.NumPage()
}

func TestScenarioSingleQuestion(t *testing.T) {
	r := newPDF(t)
	doc := exam(1, false)
	doc.Questions[0].Alternatives = doc.Questions[0].Alternatives[:2]
	res, err := r.Render(doc, "normal")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if res.Pages != 1 || pageCount(t, res.Bytes) != 1 {
		t.Fatalf("expected a single page, got %d", res.Pages)
	}
}

// checkCounter 统计包含勾号的 DrawText 调用。
type checkCounter struct {
	layout.Surface
	checks *int
}

func (c checkCounter) DrawText(text string, x, y, width float64, style layout.TextStyle) (float64, error) {
	if strings.ContainsRune(text, '✓') {
		*c.checks++
	}
	return c.Surface.DrawText(text, x, y, width, style)
}

type countingFactory struct {
	inner  layout.SurfaceFactory
	checks int
}

func (f *countingFactory) NewSurface(page layout.PageSize, meta layout.Meta) (layout.Surface, error) {
	s, err := f.inner.NewSurface(page, meta)
	if err != nil {
		return nil, err
	}
	return checkCounter{Surface: s, checks: &f.checks}, nil
}

func TestScenarioEcoMaxWithKey(t *testing.T) {
	catalog := preset.Default()
	factory := &countingFactory{inner: canvasrenderer.NewBackend(canvasrenderer.Options{})}
	engine, err := layout.NewEngine(layout.Options{Presets: catalog, Surfaces: factory})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	const questions = 60
	res, err := engine.Render(exam(questions, true), "eco-max")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if res.Pages < 2 {
		t.Fatalf("60 questions should span several pages, got %d", res.Pages)
	}
	if got := pageCount(t, res.Bytes); got != res.Pages {
		t.Fatalf("PDF has %d pages, result says %d", got, res.Pages)
	}
	if factory.checks != questions {
		t.Fatalf("every correct alternative should carry a checkmark: %d of %d", factory.checks, questions)
	}

	cfg := catalog.Resolve("eco-max")
	if cfg.ShowSeparators {
		t.Fatalf("eco-max should not reserve room for separators")
	}
	bottom := cfg.Page.Height - cfg.Margin.Bottom
	switches := 0
	for i := 1; i < len(res.Placements); i++ {
		prev, cur := res.Placements[i-1], res.Placements[i]
		if cur.Page != prev.Page {
			if prev.Column != layout.RightColumn {
				t.Fatalf("page %d ended without using the right column", prev.Page)
			}
			continue
		}
		if prev.Column == layout.RightColumn && cur.Column == layout.LeftColumn {
			t.Fatalf("question %d went back to the left column on page %d", cur.Number, cur.Page)
		}
		if prev.Column == layout.LeftColumn && cur.Column == layout.RightColumn {
			switches++
			// 左栏剩余空间放不下下一题时才换到右栏。
			if leftEnd := prev.Y + prev.Drawn; leftEnd+cur.Estimated <= bottom {
				t.Fatalf("question %d moved right while the left column had room: %.1f + %.1f <= %.1f",
					cur.Number, leftEnd, cur.Estimated, bottom)
			}
		}
	}
	if switches < res.Pages-1 {
		t.Fatalf("expected a left to right switch on every full page, got %d for %d pages", switches, res.Pages)
	}
}

func TestScenarioEmptyExam(t *testing.T) {
	r := newPDF(t)
	res, err := r.Render(layout.Document{Title: "Vazia"}, "normal")
	if !errors.Is(err, layout.ErrNoQuestions) || len(res.Bytes) != 0 {
		t.Fatalf("expected ErrNoQuestions and no bytes, got %v (%d bytes)", err, len(res.Bytes))
	}
}

func TestScenarioEcoMaxUsesFewerPages(t *testing.T) {
	r := newPDF(t)
	doc := exam(10, false)
	normal, err := r.Render(doc, "normal")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	eco, err := r.Render(doc, "eco-max")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if eco.Pages > normal.Pages {
		t.Fatalf("eco-max used %d pages, normal %d", eco.Pages, normal.Pages)
	}
}

func TestUnknownModeMatchesNormal(t *testing.T) {
	r := newPDF(t)
	doc := exam(12, true)
	a, err := r.Render(doc, "normal")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	b, err := r.Render(doc, "ultra")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if a.Length != b.Length || a.Pages != b.Pages || b.Mode != "normal" {
		t.Fatalf("unknown mode should render as normal: %d/%d vs %d/%d", a.Length, a.Pages, b.Length, b.Pages)
	}
}

func TestAllModesRender(t *testing.T) {
	r := newPDF(t)
	doc := exam(8, true)
	v := "Versão A"
	doc.Version = &v
	for _, m := range r.Modes() {
		res, err := r.Render(doc, m.Key)
		if err != nil {
			t.Fatalf("%s: Render failed: %v", m.Key, err)
		}
		if pageCount(t, res.Bytes) != res.Pages {
			t.Fatalf("%s: page count mismatch", m.Key)
		}
		sheet, err := r.RenderAnswerSheet(doc, m.Key)
		if err != nil {
			t.Fatalf("%s: RenderAnswerSheet failed: %v", m.Key, err)
		}
		if sheet.Pages != 1 {
			t.Fatalf("%s: 8 answers should fit one page, got %d", m.Key, sheet.Pages)
		}
	}
}
