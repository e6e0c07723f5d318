package layout

import (
	"math"
	"strings"
	"testing"
)

func TestEstimateMatchesDrawnHeight(t *testing.T) {
	cfg := testConfig("normal", false)
	s := &recordSurface{}
	s.AddPage()
	p := &pageRenderer{s: s, cfg: cfg, labels: englishLabels}

	q := question("q1", strings.Repeat("enunciado ", 30), 2, "um", "dois", "três", "quatro", "cinco")
	est, err := Estimate(s, q, cfg.ColumnWidth(), cfg)
	if err != nil {
		t.Fatalf("估算失败: %v", err)
	}
	end, err := p.drawQuestion(1, q, cfg.Margin.Left, 100, cfg.ColumnWidth())
	if err != nil {
		t.Fatalf("绘制失败: %v", err)
	}
	if math.Abs((end-100)-est) > 1e-6 {
		t.Fatalf("选项不折行时估算应等于实际高度: est=%g drawn=%g", est, end-100)
	}
}

func TestEstimateUnderestimatesWrappedAlternatives(t *testing.T) {
	cfg := testConfig("save-paper", true)
	s := &recordSurface{}
	s.AddPage()
	p := &pageRenderer{s: s, cfg: cfg, labels: englishLabels}

	q := question("q1", "Curto.", 0, strings.Repeat("alternativa longa ", 20), "b")
	est, err := Estimate(s, q, cfg.ColumnWidth(), cfg)
	if err != nil {
		t.Fatalf("估算失败: %v", err)
	}
	end, err := p.drawQuestion(1, q, cfg.Margin.Left, 0, cfg.ColumnWidth())
	if err != nil {
		t.Fatalf("绘制失败: %v", err)
	}
	if end <= est {
		t.Fatalf("折行的选项应使实际高度超过估算: est=%g drawn=%g", est, end)
	}
}

func TestEstimateGrowsWithContent(t *testing.T) {
	cfg := testConfig("normal", false)
	s := &recordSurface{}
	short := question("a", "Curto", 0, "a", "b")
	more := question("b", "Curto", 0, "a", "b", "c", "d")
	long := question("c", strings.Repeat("palavra ", 200), 0, "a", "b")

	hs, _ := Estimate(s, short, cfg.ColumnWidth(), cfg)
	hm, _ := Estimate(s, more, cfg.ColumnWidth(), cfg)
	hl, _ := Estimate(s, long, cfg.ColumnWidth(), cfg)
	if !(hm > hs && hl > hs) {
		t.Fatalf("更多选项或更长题干应增加高度: short=%g more=%g long=%g", hs, hm, hl)
	}

	narrow, _ := Estimate(s, long, cfg.ColumnWidth()/2, cfg)
	if narrow <= hl {
		t.Fatalf("更窄的栏应增加高度: %g <= %g", narrow, hl)
	}
}

func TestEstimateRejectsTinyColumn(t *testing.T) {
	cfg := testConfig("normal", false)
	if _, err := Estimate(&recordSurface{}, question("a", "x", 0, "a"), numberGutter(cfg), cfg); err == nil {
		t.Fatalf("栏宽不足以容纳题号时应报错")
	}
}

func TestEstimateWithoutAlternatives(t *testing.T) {
	cfg := testConfig("normal", false)
	h, err := Estimate(&recordSurface{}, Question{Statement: "Discursiva"}, cfg.ColumnWidth(), cfg)
	if err != nil {
		t.Fatalf("估算失败: %v", err)
	}
	want := 11*defaultLineFactor + spacingLines(statementGapLines, 11) + trailingGap(cfg)
	if math.Abs(h-want) > 1e-9 {
		t.Fatalf("没有选项时 got=%g want=%g", h, want)
	}
}
