package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/gabarito/fonts"
	"github.com/ByLCY/gabarito/layout"
)

const (
	// ruleWidth 为分隔线线宽（pt）。
	ruleWidth = 0.5
	// checkRune 用矢量勾号代替绘制，内置字体没有这个字形。
	checkRune = '✓'
)

var transparent = color.RGBA{0, 0, 0, 0}

// Backend 通过 github.com/tdewolff/canvas 生成 PDF，每次渲染创建一个 Surface。
// Backend 只缓存字体字节，可被多个 goroutine 同时使用。
type Backend struct {
	fontMu    sync.Mutex
	fontBlobs map[string][]byte
	overrides map[string]Resource
}

var (
	_ layout.SurfaceFactory = (*Backend)(nil)
	_ layout.Surface        = (*Surface)(nil)
)

// Options configures the canvas backend.
type Options struct {
	// Fonts 覆盖或补充内置字体，键为预设目录中使用的字体名。
	Fonts map[string]Resource
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewBackend creates a backend that resolves fonts from opts first, then the built-in set.
func NewBackend(opts Options) *Backend {
	b := &Backend{
		fontBlobs: map[string][]byte{},
		overrides: map[string]Resource{},
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		b.overrides[name] = res
	}
	return b
}

// NewSurface 实现 layout.SurfaceFactory。
func (b *Backend) NewSurface(page layout.PageSize, meta layout.Meta) (layout.Surface, error) {
	if page.Width <= 0 || page.Height <= 0 {
		return nil, fmt.Errorf("纸张尺寸无效: %gx%g", page.Width, page.Height)
	}
	return &Surface{
		backend:  b,
		page:     page,
		meta:     meta,
		families: map[string]*canvas.FontFamily{},
		faces:    map[faceKey]*canvas.FontFace{},
	}, nil
}

func (b *Backend) fontBytes(name string) ([]byte, error) {
	b.fontMu.Lock()
	defer b.fontMu.Unlock()

	if blob, ok := b.fontBlobs[name]; ok {
		return blob, nil
	}
	var (
		data []byte
		err  error
	)
	if res, ok := b.overrides[name]; ok {
		data = res.Bytes
		if len(data) == 0 && res.Path != "" {
			data, err = os.ReadFile(res.Path)
		}
		if err == nil && len(data) == 0 {
			err = fmt.Errorf("字体 %s 没有数据", name)
		}
	} else {
		data, err = fonts.Load(name)
	}
	if err != nil {
		return nil, err
	}
	b.fontBlobs[name] = data
	return data, nil
}

// Surface 在内存中缓存所有页面，Serialize 时一次性写出 PDF。
// 对外的坐标与长度均为 pt（左上角为原点），内部按 canvas 的 mm 绘制。
type Surface struct {
	backend *Backend
	page    layout.PageSize
	meta    layout.Meta

	canvases []*canvas.Canvas
	contexts []*canvas.Context
	current  int

	families map[string]*canvas.FontFamily
	faces    map[faceKey]*canvas.FontFace
}

type faceKey struct {
	font  string
	size  float64
	color layout.Color
}

// Measure 返回 text 在 width 内折行后的高度。
func (s *Surface) Measure(text string, width float64, style layout.TextStyle) (float64, error) {
	face, err := s.face(style)
	if err != nil {
		return 0, err
	}
	lines := greedyWrapTokens(text, toMm(width), face)
	return float64(len(lines)) * lineAdvance(style), nil
}

// DrawText 按 style 折行绘制文本，返回下一行顶部的 y。
func (s *Surface) DrawText(text string, x, y, width float64, style layout.TextStyle) (float64, error) {
	ctx, err := s.context()
	if err != nil {
		return 0, err
	}
	face, err := s.face(style)
	if err != nil {
		return 0, err
	}

	var textAlign canvas.TextAlign
	anchorX := x
	switch style.Align {
	case layout.AlignCenter:
		textAlign = canvas.Center
		anchorX = x + width/2
	case layout.AlignRight:
		textAlign = canvas.Right
		anchorX = x + width
	default:
		textAlign = canvas.Left
	}

	advance := lineAdvance(style)
	metrics := face.Metrics()
	// 基线：行顶 + 半个行距 + 上升部。
	halfLeading := (toMm(advance) - (metrics.Ascent + metrics.Descent)) / 2
	if halfLeading < 0 {
		halfLeading = 0
	}

	cursor := y
	for _, line := range greedyWrapTokens(text, toMm(width), face) {
		content, check := splitCheck(line.Content)
		baseline := toMm(cursor) + halfLeading + metrics.Ascent
		if content != "" {
			ctx.DrawText(toMm(anchorX), baseline, canvas.NewTextLine(face, content, textAlign))
		}
		if check {
			end := toMm(anchorX)
			switch textAlign {
			case canvas.Center:
				end += face.TextWidth(content) / 2
			case canvas.Left:
				end += face.TextWidth(content)
			}
			s.drawCheck(ctx, end+face.TextWidth(" "), baseline-metrics.Ascent, toMm(style.Size), style.Color)
		}
		cursor += advance
	}
	return cursor, nil
}

// FillRect 绘制无描边的填充矩形。
func (s *Surface) FillRect(x, y, w, h float64, c layout.Color) {
	ctx, err := s.context()
	if err != nil {
		return
	}
	ctx.SetFillColor(colorFromLayout(c))
	ctx.SetStrokeColor(transparent)
	ctx.SetStrokeWidth(0)
	ctx.DrawPath(toMm(x), toMm(y), canvas.Rectangle(toMm(w), toMm(h)))
}

// StrokeLine 绘制细线。
func (s *Surface) StrokeLine(x1, y1, x2, y2 float64, c layout.Color) {
	ctx, err := s.context()
	if err != nil {
		return
	}
	ctx.SetFillColor(transparent)
	ctx.SetStrokeColor(colorFromLayout(c))
	ctx.SetStrokeWidth(toMm(ruleWidth))
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(toMm(x2-x1), toMm(y2-y1))
	ctx.DrawPath(toMm(x1), toMm(y1), p)
}

// AddPage 追加一页并设为当前页。
func (s *Surface) AddPage() {
	c := canvas.New(toMm(s.page.Width), toMm(s.page.Height))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	s.canvases = append(s.canvases, c)
	s.contexts = append(s.contexts, ctx)
	s.current = len(s.canvases) - 1
}

// SetPage 切换到已有的第 index 页（从 0 开始）。
func (s *Surface) SetPage(index int) error {
	if index < 0 || index >= len(s.canvases) {
		return fmt.Errorf("页码越界: %d（共 %d 页）", index, len(s.canvases))
	}
	s.current = index
	return nil
}

// PageCount 返回已创建的页数。
func (s *Surface) PageCount() int { return len(s.canvases) }

// Serialize 将所有页面写为 PDF。
func (s *Surface) Serialize() ([]byte, error) {
	if len(s.canvases) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	var buf bytes.Buffer
	writer := pdf.New(&buf, toMm(s.page.Width), toMm(s.page.Height), nil)
	writer.SetInfo(s.meta.Title, s.meta.Subject, strings.Join(s.meta.Keywords, ", "), "", s.meta.Creator)
	for i, c := range s.canvases {
		if i > 0 {
			writer.NewPage(toMm(s.page.Width), toMm(s.page.Height))
		}
		c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Surface) context() (*canvas.Context, error) {
	if len(s.contexts) == 0 {
		return nil, fmt.Errorf("尚未创建页面")
	}
	return s.contexts[s.current], nil
}

func (s *Surface) face(style layout.TextStyle) (*canvas.FontFace, error) {
	key := faceKey{font: style.Font, size: style.Size, color: style.Color}
	if f, ok := s.faces[key]; ok {
		return f, nil
	}
	if style.Size <= 0 {
		return nil, fmt.Errorf("字号必须为正: %g", style.Size)
	}
	family, ok := s.families[style.Font]
	if !ok {
		data, err := s.backend.fontBytes(style.Font)
		if err != nil {
			return nil, err
		}
		family = canvas.NewFontFamily(style.Font)
		if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", style.Font, err)
		}
		s.families[style.Font] = family
	}
	f := family.Face(style.Size, colorFromLayout(style.Color), canvas.FontRegular, canvas.FontNormal)
	s.faces[key] = f
	return f, nil
}

// drawCheck 在 (x, top) 处绘制边长约为 size 的勾号（mm）。
func (s *Surface) drawCheck(ctx *canvas.Context, x, top, size float64, c layout.Color) {
	p := &canvas.Path{}
	p.MoveTo(0.05*size, 0.5*size)
	p.LineTo(0.35*size, 0.8*size)
	p.LineTo(0.9*size, 0.15*size)
	ctx.SetFillColor(transparent)
	ctx.SetStrokeColor(colorFromLayout(c))
	ctx.SetStrokeWidth(0.12 * size)
	ctx.DrawPath(x, top, p)
}

// splitCheck 去掉行中的勾号，并报告是否需要补画。
func splitCheck(line string) (string, bool) {
	if !strings.ContainsRune(line, checkRune) {
		return line, false
	}
	return strings.TrimRight(strings.ReplaceAll(line, string(checkRune), ""), " "), true
}

func lineAdvance(style layout.TextStyle) float64 {
	factor := style.LineHeight
	if factor <= 0 {
		factor = 1.2
	}
	return style.Size * factor
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
