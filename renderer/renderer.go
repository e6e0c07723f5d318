package renderer

import (
	"log/slog"
	"time"

	"github.com/ByLCY/gabarito/layout"
	"github.com/ByLCY/gabarito/preset"
	canvasrenderer "github.com/ByLCY/gabarito/renderer/canvas"
)

// Renderer 将试卷输出为最终文件（PDF），供 CLI 与 HTTP 接口使用。
type Renderer interface {
	Render(doc layout.Document, mode string) (layout.RenderResult, error)
	RenderAnswerSheet(doc layout.Document, mode string) (layout.RenderResult, error)
	Modes() []layout.Mode
}

// Options 组装默认的 PDF 渲染器。零值可用：内置预设目录、英文标签、内置字体。
type Options struct {
	Catalog *preset.Catalog
	Labels  layout.Labels
	Fonts   map[string]canvasrenderer.Resource
	Now     func() time.Time
	Logger  *slog.Logger
}

// PDF 是基于 tdewolff/canvas 的 Renderer 实现。
type PDF struct {
	*layout.Engine
	catalog *preset.Catalog
}

var _ Renderer = (*PDF)(nil)

// New 创建 PDF 渲染器。
func New(opts Options) (*PDF, error) {
	catalog := opts.Catalog
	if catalog == nil {
		catalog = preset.Default()
	}
	engine, err := layout.NewEngine(layout.Options{
		Presets:  catalog,
		Surfaces: canvasrenderer.NewBackend(canvasrenderer.Options{Fonts: opts.Fonts}),
		Labels:   opts.Labels,
		Now:      opts.Now,
		Logger:   opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &PDF{Engine: engine, catalog: catalog}, nil
}

// Modes 列出目录中的经济模式。
func (p *PDF) Modes() []layout.Mode {
	return p.catalog.Modes()
}
