package layout

import (
	"fmt"
	"strings"
)

const (
	sheetColumns   = 4
	sheetRowLines  = 1.6
	sheetHeadSplit = 0.5
)

// RenderAnswerSheet 生成教师用的答案表：每行 4 组 "题号 | 正确字母"。
// 没有正确选项的题目显示 Labels.Missing，多个正确选项以逗号连接。
func (e *Engine) RenderAnswerSheet(doc Document, mode string) (RenderResult, error) {
	if len(doc.Questions) == 0 {
		return RenderResult{}, ErrNoQuestions
	}
	cfg := e.presets.Resolve(mode)
	p, err := e.begin(doc, cfg)
	if err != nil {
		return RenderResult{}, err
	}

	y, err := p.drawDocumentHeader()
	if err != nil {
		return RenderResult{}, fmt.Errorf("layout: 绘制页眉失败: %w", err)
	}
	if y, err = p.drawBanner(y, p.labels.SheetTitle); err != nil {
		return RenderResult{}, fmt.Errorf("layout: 绘制横幅失败: %w", err)
	}

	g := sheetGrid{p: p, cellWidth: p.width() / sheetColumns, rowHeight: lineAdvance(cfg.Sizes.Question, sheetRowLines)}
	if y, err = g.drawHead(y); err != nil {
		return RenderResult{}, err
	}
	for i, q := range doc.Questions {
		col := i % sheetColumns
		if col == 0 && i > 0 {
			y += g.rowHeight
		}
		if col == 0 && y+g.rowHeight > p.bottom() {
			p.s.AddPage()
			if y, err = p.drawRunningHeader(); err != nil {
				return RenderResult{}, fmt.Errorf("layout: 绘制续页页眉失败: %w", err)
			}
			if y, err = g.drawHead(y); err != nil {
				return RenderResult{}, err
			}
		}
		if err := g.drawCell(i+1, CorrectLetters(q, p.labels.Missing), col, y); err != nil {
			return RenderResult{}, fmt.Errorf("layout: 绘制第 %d 题答案失败: %w", i+1, err)
		}
	}

	res, err := e.finish(p)
	if err != nil {
		return RenderResult{}, err
	}
	e.log.Debug("answer sheet rendered", "mode", res.Mode, "questions", len(doc.Questions), "pages", res.Pages)
	return res, nil
}

type sheetGrid struct {
	p         *pageRenderer
	cellWidth float64
	rowHeight float64
}

func (g sheetGrid) cellX(col int) float64 {
	return g.p.left() + float64(col)*g.cellWidth
}

// drawHead 绘制列标题行及其下方的细线，返回第一行的 y。
func (g sheetGrid) drawHead(y float64) (float64, error) {
	cfg := g.p.cfg
	style := g.p.text(cfg.Fonts.Emphasis, cfg.Sizes.Alternative, cfg.TextColor, AlignLeft)
	half := g.cellWidth * sheetHeadSplit
	for col := 0; col < sheetColumns; col++ {
		x := g.cellX(col)
		if _, err := g.p.s.DrawText(g.p.labels.Question, x, y, half, style); err != nil {
			return 0, err
		}
		if _, err := g.p.s.DrawText(g.p.labels.Answer, x+half, y, half, style); err != nil {
			return 0, err
		}
	}
	y += g.rowHeight
	g.p.s.StrokeLine(g.p.left(), y-g.rowHeight/4, g.p.left()+g.p.width(), y-g.rowHeight/4, cfg.SeparatorColor)
	return y, nil
}

func (g sheetGrid) drawCell(number int, letters string, col int, y float64) error {
	cfg := g.p.cfg
	x := g.cellX(col)
	half := g.cellWidth * sheetHeadSplit
	numStyle := g.p.text(cfg.Fonts.Emphasis, cfg.Sizes.Question, cfg.TextColor, AlignRight)
	// 编号右对齐在前半格内，并与字母列留出一个字号的间距。
	if _, err := g.p.s.DrawText(fmt.Sprintf("%d.", number), x, y, half-cfg.Sizes.Question, numStyle); err != nil {
		return err
	}
	color := cfg.TextColor
	if cfg.Highlight {
		color = cfg.HighlightText
	}
	letterStyle := g.p.text(cfg.Fonts.Emphasis, cfg.Sizes.Question, color, AlignLeft)
	_, err := g.p.s.DrawText(letters, x+half, y, half, letterStyle)
	return err
}

// CorrectLetters 返回题目所有正确选项的字母，逗号分隔；没有正确选项时返回 missing。
func CorrectLetters(q Question, missing string) string {
	var letters []string
	for i, alt := range q.Alternatives {
		if alt.Correct {
			letters = append(letters, Letter(i))
		}
	}
	if len(letters) == 0 {
		return missing
	}
	return strings.Join(letters, ",")
}
