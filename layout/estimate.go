package layout

import "fmt"

const (
	// defaultLineFactor 为题干、页眉等正文的行高倍数。
	defaultLineFactor = 1.2
	// numberGutterEm 为题号列宽度（以题干字号为单位），足以容纳 "999."。
	numberGutterEm = 2.4
	// statementGapLines 为题干与第一个选项之间的空行倍数。
	statementGapLines = 0.3
	// blockPad 为每道题末尾固定的留白（pt）。
	blockPad = 4.0
)

func numberGutter(cfg Config) float64 {
	return cfg.Sizes.Question * numberGutterEm
}

func spacingLines(multiplier, size float64) float64 {
	if multiplier <= 0 {
		return 0
	}
	return multiplier * lineAdvance(size, defaultLineFactor)
}

func statementStyle(cfg Config) TextStyle {
	return TextStyle{Font: cfg.Fonts.Regular, Size: cfg.Sizes.Question, Color: cfg.TextColor, LineHeight: defaultLineFactor}
}

func alternativeStyle(cfg Config) TextStyle {
	return TextStyle{Font: cfg.Fonts.Regular, Size: cfg.Sizes.Alternative, Color: cfg.TextColor, LineHeight: cfg.LineHeight}
}

// trailingGap 是一道题绘制完成后、下一道题开始前的留白，估算与绘制共用。
func trailingGap(cfg Config) float64 {
	return spacingLines(cfg.Spacing.Question, cfg.Sizes.Question) + blockPad
}

// Estimate 预测一道题在给定栏宽下占用的高度。
//
// 只有题干通过表面测量折行；选项按每项一行、行高约为 1.5 倍字号估算。
// 选项真的折行时实际高度会更大，绘制后由调度器按实际光标重新同步。
func Estimate(m Measurer, q Question, columnWidth float64, cfg Config) (float64, error) {
	statementWidth := columnWidth - numberGutter(cfg)
	if statementWidth <= 0 {
		return 0, fmt.Errorf("layout: 栏宽 %.1fpt 不足以容纳题号", columnWidth)
	}
	statement, err := m.Measure(q.Statement, statementWidth, statementStyle(cfg))
	if err != nil {
		return 0, fmt.Errorf("layout: 测量第 %q 题题干失败: %w", q.ID, err)
	}

	height := statement + spacingLines(statementGapLines, cfg.Sizes.Question)
	perAlternative := lineAdvance(cfg.Sizes.Alternative, cfg.LineHeight) +
		spacingLines(cfg.Spacing.Alternative, cfg.Sizes.Alternative)
	height += float64(len(q.Alternatives)) * perAlternative
	height += trailingGap(cfg)
	return height, nil
}
