package layout

import (
	"fmt"
	"strings"
)

const (
	// bandPad 为高亮底色在选项文字左侧多出的宽度。
	bandPad = 3.0
	// bannerScale 为答案页横幅相对标题字号的比例。
	bannerScale = 0.9
	// ruleGapLines 为分隔线下方的空行倍数。
	ruleGapLines = 0.8
	// separatorLines 为题目之间分隔线预留的行数倍率。
	separatorLines = 0.4
)

// pageRenderer 负责在表面上绘制页眉、横幅、题目与页脚。坐标均由调用方（调度器）决定。
type pageRenderer struct {
	s      Surface
	cfg    Config
	doc    Document
	labels Labels
	date   string
}

func (p *pageRenderer) left() float64   { return p.cfg.Margin.Left }
func (p *pageRenderer) width() float64  { return p.cfg.ContentWidth() }
func (p *pageRenderer) top() float64    { return p.cfg.Margin.Top }
func (p *pageRenderer) bottom() float64 { return p.cfg.Page.Height - p.cfg.Margin.Bottom }

func (p *pageRenderer) columnX(col Column) float64 {
	if col == RightColumn {
		return p.left() + p.cfg.ColumnWidth() + p.cfg.ColumnGap
	}
	return p.left()
}

func (p *pageRenderer) text(font string, size float64, c Color, align Align) TextStyle {
	return TextStyle{Font: font, Size: size, Color: c, Align: align, LineHeight: defaultLineFactor}
}

// separatorAllowance 为每道题之后预留的分隔线高度。
func (p *pageRenderer) separatorAllowance() float64 {
	if !p.cfg.ShowSeparators {
		return 0
	}
	return spacingLines(separatorLines, p.cfg.Sizes.Question)
}

// drawDocumentHeader 绘制首页页眉：标题、科目、版本（若有）与日期。
func (p *pageRenderer) drawDocumentHeader() (float64, error) {
	cfg := p.cfg
	y, err := p.s.DrawText(p.doc.Title, p.left(), p.top(), p.width(),
		p.text(cfg.Fonts.Emphasis, cfg.Sizes.Title, cfg.TextColor, AlignCenter))
	if err != nil {
		return 0, err
	}
	y += spacingLines(statementGapLines, cfg.Sizes.Subtitle)

	lines := []string{p.labels.subjectLine(p.doc.Subject)}
	if p.doc.HasVersion() {
		lines = append(lines, *p.doc.Version)
	}
	lines = append(lines, p.labels.dateLine(p.date))
	sub := p.text(cfg.Fonts.Regular, cfg.Sizes.Subtitle, cfg.SecondaryColor, AlignCenter)
	for _, line := range lines {
		if y, err = p.s.DrawText(line, p.left(), y, p.width(), sub); err != nil {
			return 0, err
		}
	}
	return y + spacingLines(cfg.Spacing.Header, cfg.Sizes.Subtitle), nil
}

// drawBanner 在页眉下方绘制学生信息栏或"答案"横幅，并返回内容区域起点。
func (p *pageRenderer) drawBanner(y float64, banner string) (float64, error) {
	cfg := p.cfg
	var err error
	if banner != "" {
		style := p.text(cfg.Fonts.Emphasis, cfg.Sizes.Title*bannerScale, cfg.AttentionColor, AlignCenter)
		y, err = p.s.DrawText(banner, p.left(), y, p.width(), style)
	} else {
		y += spacingLines(statementGapLines, cfg.Sizes.Header)
		style := p.text(cfg.Fonts.Regular, cfg.Sizes.Header, cfg.TextColor, AlignLeft)
		y, err = p.s.DrawText(p.labels.StudentInfo, p.left(), y, p.width(), style)
	}
	if err != nil {
		return 0, err
	}
	y += spacingLines(cfg.Spacing.Header, cfg.Sizes.Header)
	return p.rule(y), nil
}

// drawRunningHeader 在续页顶部绘制右对齐的简短页眉（标题 - 版本）。
func (p *pageRenderer) drawRunningHeader() (float64, error) {
	cfg := p.cfg
	text := p.doc.Title
	if p.doc.HasVersion() {
		text = fmt.Sprintf("%s - %s", p.doc.Title, *p.doc.Version)
	}
	style := p.text(cfg.Fonts.Regular, cfg.Sizes.Header, cfg.SecondaryColor, AlignRight)
	y, err := p.s.DrawText(text, p.left(), p.top(), p.width(), style)
	if err != nil {
		return 0, err
	}
	y += spacingLines(cfg.Spacing.Header, cfg.Sizes.Header)
	return p.rule(y), nil
}

// rule 绘制通栏分隔线（预设关闭分隔线时只留空白）。
func (p *pageRenderer) rule(y float64) float64 {
	if p.cfg.ShowSeparators {
		p.s.StrokeLine(p.left(), y, p.left()+p.width(), y, p.cfg.SeparatorColor)
	}
	return y + spacingLines(ruleGapLines, p.cfg.Sizes.Question)
}

// drawSeparator 在同一栏相邻两题之间绘制细线，y 为下一题的起点。
func (p *pageRenderer) drawSeparator(x, y, width float64) {
	lineY := y - p.separatorAllowance()/2
	p.s.StrokeLine(x, lineY, x+width, lineY, p.cfg.SeparatorColor)
}

// drawQuestion 在 (x, y) 处绘制第 number 题，返回绘制结束后的实际光标。
func (p *pageRenderer) drawQuestion(number int, q Question, x, y, width float64) (float64, error) {
	cfg := p.cfg
	gutter := numberGutter(cfg)

	numStyle := p.text(cfg.Fonts.Emphasis, cfg.Sizes.Question, cfg.TextColor, AlignLeft)
	if _, err := p.s.DrawText(fmt.Sprintf("%d.", number), x, y, gutter, numStyle); err != nil {
		return 0, err
	}
	y, err := p.s.DrawText(q.Statement, x+gutter, y, width-gutter, statementStyle(cfg))
	if err != nil {
		return 0, err
	}
	y += spacingLines(statementGapLines, cfg.Sizes.Question)

	altX := x + gutter + cfg.AlternativeIndent
	altWidth := width - gutter - cfg.AlternativeIndent
	if altWidth <= 0 {
		altX, altWidth = x+gutter, width-gutter
	}
	for j, alt := range q.Alternatives {
		text := fmt.Sprintf("(%s) %s", Letter(j), alt.Text)
		style := alternativeStyle(cfg)
		if p.doc.IncludeAnswerKey && alt.Correct {
			text = text + " " + p.labels.Check
			if cfg.Highlight {
				style.Font = cfg.Fonts.Emphasis
				style.Color = cfg.HighlightText
				h, err := p.s.Measure(text, altWidth, style)
				if err != nil {
					return 0, err
				}
				p.s.FillRect(altX-bandPad, y, altWidth+bandPad, h, cfg.HighlightFill)
			}
		}
		if y, err = p.s.DrawText(text, altX, y, altWidth, style); err != nil {
			return 0, err
		}
		y += spacingLines(cfg.Spacing.Alternative, cfg.Sizes.Alternative)
	}
	return y + trailingGap(cfg), nil
}

// drawFooters 在所有页面生成后逐页补绘 "第 X 页 / 共 Y 页" 与模式标签。
func (p *pageRenderer) drawFooters() error {
	cfg := p.cfg
	total := p.s.PageCount()
	lineH := lineAdvance(cfg.Sizes.Footer, defaultLineFactor)
	y := p.bottom() + (cfg.Margin.Bottom-lineH)/2
	center := p.text(cfg.Fonts.Regular, cfg.Sizes.Footer, cfg.SecondaryColor, AlignCenter)
	left := p.text(cfg.Fonts.Regular, cfg.Sizes.Footer, cfg.SecondaryColor, AlignLeft)
	for i := 0; i < total; i++ {
		if err := p.s.SetPage(i); err != nil {
			return err
		}
		if _, err := p.s.DrawText(p.labels.pageLine(i+1, total), p.left(), y, p.width(), center); err != nil {
			return err
		}
		if cfg.ModeLabel != "" {
			if _, err := p.s.DrawText(cfg.ModeLabel, p.left(), y, p.width()/3, left); err != nil {
				return err
			}
		}
	}
	return nil
}

// Letter 返回第 index 个选项（从 0 开始）的字母：A…Z，之后为 AA、AB…
func Letter(index int) string {
	if index < 0 {
		return ""
	}
	var b strings.Builder
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		b.WriteByte(byte('A' + (n-1)%26))
	}
	buf := []byte(b.String())
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}
