package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// recordSurface 是测试用的表面：按字符数估算折行，记录每一次绘制操作。
// 避免引入 renderer 造成循环依赖。
type recordSurface struct {
	meta    Meta
	page    PageSize
	pages   int
	current int
	ops     []drawOp

	failText     string
	serializeErr error
}

type drawOp struct {
	Page  int
	Kind  string
	Text  string
	X, Y  float64
	W, H  float64
	Style TextStyle
	Color Color
}

func (s *recordSurface) Measure(text string, width float64, style TextStyle) (float64, error) {
	if width <= 0 {
		return 0, fmt.Errorf("宽度必须为正: %g", width)
	}
	charW := style.Size * 0.5
	perLine := int(width / charW)
	if perLine < 1 {
		perLine = 1
	}
	lines := int(math.Ceil(float64(utf8.RuneCountInString(text)) / float64(perLine)))
	if lines < 1 {
		lines = 1
	}
	factor := style.LineHeight
	if factor <= 0 {
		factor = defaultLineFactor
	}
	return float64(lines) * style.Size * factor, nil
}

func (s *recordSurface) DrawText(text string, x, y, width float64, style TextStyle) (float64, error) {
	if s.failText != "" && strings.Contains(text, s.failText) {
		return 0, errors.New("字体缺失")
	}
	h, err := s.Measure(text, width, style)
	if err != nil {
		return 0, err
	}
	s.ops = append(s.ops, drawOp{Page: s.current, Kind: "text", Text: text, X: x, Y: y, W: width, H: h, Style: style, Color: style.Color})
	return y + h, nil
}

func (s *recordSurface) FillRect(x, y, w, h float64, c Color) {
	s.ops = append(s.ops, drawOp{Page: s.current, Kind: "rect", X: x, Y: y, W: w, H: h, Color: c})
}

func (s *recordSurface) StrokeLine(x1, y1, x2, y2 float64, c Color) {
	s.ops = append(s.ops, drawOp{Page: s.current, Kind: "line", X: x1, Y: y1, W: x2 - x1, H: y2 - y1, Color: c})
}

func (s *recordSurface) AddPage() {
	s.pages++
	s.current = s.pages - 1
}

func (s *recordSurface) SetPage(index int) error {
	if index < 0 || index >= s.pages {
		return fmt.Errorf("页码越界: %d", index)
	}
	s.current = index
	return nil
}

func (s *recordSurface) PageCount() int { return s.pages }

func (s *recordSurface) Serialize() ([]byte, error) {
	if s.serializeErr != nil {
		return nil, s.serializeErr
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%d\n", s.meta.Title, s.pages)
	for _, op := range s.ops {
		fmt.Fprintf(&b, "%d %s %q %.3f %.3f %.3f %.3f\n", op.Page, op.Kind, op.Text, op.X, op.Y, op.W, op.H)
	}
	return []byte(b.String()), nil
}

func (s *recordSurface) texts(page int) []drawOp {
	var out []drawOp
	for _, op := range s.ops {
		if op.Kind == "text" && (page < 0 || op.Page == page) {
			out = append(out, op)
		}
	}
	return out
}

func (s *recordSurface) count(kind string) int {
	n := 0
	for _, op := range s.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func (s *recordSurface) hasText(page int, text string) bool {
	for _, op := range s.texts(page) {
		if op.Text == text {
			return true
		}
	}
	return false
}

type recordFactory struct {
	last *recordSurface
	err  error

	failText     string
	serializeErr error
}

func (f *recordFactory) NewSurface(page PageSize, meta Meta) (Surface, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.last = &recordSurface{page: page, meta: meta, failText: f.failText, serializeErr: f.serializeErr}
	return f.last, nil
}

// mapPresets 是测试用的预设目录，未知模式回退到 normal。
type mapPresets map[string]Config

func (m mapPresets) Resolve(mode string) Config {
	if cfg, ok := m[mode]; ok {
		return cfg
	}
	return m["normal"]
}

func testConfig(mode string, twoColumn bool) Config {
	return Config{
		Mode:           mode,
		Label:          mode,
		ModeLabel:      "",
		Page:           PageSize{Name: "A4", Width: 595.28, Height: 841.89},
		Margin:         Margin{Top: 40, Right: 40, Bottom: 40, Left: 40},
		Fonts:          FontSet{Regular: "regular", Emphasis: "bold"},
		Sizes:          FontSizes{Title: 16, Subtitle: 11, Question: 11, Alternative: 10, Header: 9, Footer: 8},
		TextColor:      Color{R: 20, G: 20, B: 20},
		SecondaryColor: Color{R: 100, G: 100, B: 100},
		SeparatorColor: Color{R: 200, G: 200, B: 200},
		ShowSeparators: true,
		Highlight:      true,
		HighlightFill:  Color{R: 220, G: 245, B: 220},
		HighlightText:  Color{R: 0, G: 120, B: 0},
		AttentionColor: Color{R: 200, G: 0, B: 0},
		Spacing:        Spacing{Question: 1, Alternative: 0.3, Header: 0.5},
		LineHeight:     1.5,
		ColumnGap:      20,
		TwoColumn:      twoColumn,
	}
}

func testPresets() mapPresets {
	paper := testConfig("save-paper", true)
	paper.ModeLabel = "Economy: paper"
	ink := testConfig("save-ink", false)
	ink.Highlight = false
	ink.ShowSeparators = false
	ink.Fonts.Emphasis = ink.Fonts.Regular
	return mapPresets{
		"normal":     testConfig("normal", false),
		"save-paper": paper,
		"save-ink":   ink,
	}
}

func question(id string, statement string, correct int, alternatives ...string) Question {
	q := Question{ID: id, Statement: statement}
	for i, text := range alternatives {
		q.Alternatives = append(q.Alternatives, Alternative{Text: text, Correct: i == correct})
	}
	return q
}

func sampleExam(n int) Document {
	doc := Document{Title: "Prova de Biologia", Subject: "Biologia"}
	for i := 0; i < n; i++ {
		doc.Questions = append(doc.Questions, question(
			fmt.Sprintf("q%d", i+1),
			fmt.Sprintf("Questão número %d sobre a estrutura celular e suas organelas principais.", i+1),
			i%4,
			"Mitocôndria", "Ribossomo", "Lisossomo", "Complexo de Golgi",
		))
	}
	return doc
}
