package canvasrenderer

import (
	"math"
	"strings"
	"unicode"

	"github.com/tdewolff/canvas"
)

// textLine 是折行后的一行，Width 为 mm。
type textLine struct {
	Content string
	Width   float64
}

// widther 抽象出测量宽度的能力，便于测试折行逻辑。
type widther interface {
	TextWidth(s string) float64
}

var _ widther = (*canvas.FontFace)(nil)

// greedyWrapTokens 优先在空白处分割，单词超过限制时在词内拆分；显式换行总是保留。
// width 与 face.TextWidth 的返回值均为 mm。
func greedyWrapTokens(content string, width float64, face widther) []textLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	tokens := tokenizeContent(content)
	var lines []textLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, textLine{})
			}
			return
		}
		// 行尾空白不占宽度。
		lineStr := strings.TrimRightFunc(builder.String(), unicode.IsSpace)
		lines = append(lines, textLine{Content: lineStr, Width: face.TextWidth(lineStr)})
		builder.Reset()
		currentWidth = 0
	}

	appendToken := func(token string) {
		builder.WriteString(token)
		currentWidth += face.TextWidth(token)
	}

	for _, token := range tokens {
		if token == "\n" {
			emit(true)
			continue
		}
		// 行首不保留空白。
		if builder.Len() == 0 && strings.TrimSpace(token) == "" {
			continue
		}

		tokenWidth := face.TextWidth(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit && strings.TrimSpace(token) != "" {
			emit(false)
		}
		if tokenWidth <= limit {
			appendToken(token)
			continue
		}

		for _, chunk := range splitTokenByWidth(token, limit, face) {
			chunkWidth := face.TextWidth(chunk)
			if currentWidth > 0 && currentWidth+chunkWidth > limit {
				emit(false)
			}
			appendToken(chunk)
		}
	}

	emit(true)
	return lines
}

func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitTokenByWidth(token string, limit float64, face widther) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var current []rune
	for _, r := range token {
		current = append(current, r)
		if len(current) > 1 && face.TextWidth(string(current)) > limit {
			parts = append(parts, string(current[:len(current)-1]))
			current = current[len(current)-1:]
		}
	}
	if len(current) > 0 {
		parts = append(parts, string(current))
	}
	return parts
}
