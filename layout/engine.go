package layout

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrNoQuestions 表示试卷没有题目。没有内容的文档不是合法的零页文档，而是无效输入。
var ErrNoQuestions = errors.New("layout: 试卷没有题目，无法导出")

const creator = "gabarito"

// Engine 串联预设解析、高度估算、流式调度与页面绘制。
// Engine 只持有不可变的依赖，可以被多个 goroutine 同时使用；每次渲染都有独立的表面与调度器。
type Engine struct {
	presets  Resolver
	surfaces SurfaceFactory
	labels   Labels
	now      func() time.Time
	log      *slog.Logger
}

// NewEngine 根据 Options 创建引擎。
func NewEngine(opts Options) (*Engine, error) {
	if opts.Presets == nil {
		return nil, fmt.Errorf("layout: 缺少预设目录 Presets")
	}
	if opts.Surfaces == nil {
		return nil, fmt.Errorf("layout: 缺少绘图后端 Surfaces")
	}
	if err := opts.Labels.orDefault().check(); err != nil {
		return nil, err
	}
	e := &Engine{
		presets:  opts.Presets,
		surfaces: opts.Surfaces,
		labels:   opts.Labels.orDefault(),
		now:      opts.Now,
		log:      opts.Logger,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.log == nil {
		e.log = slog.New(slog.DiscardHandler)
	}
	return e, nil
}

// Render 将试卷排版为完整的文档字节。未知的 mode 回退到 normal。
func (e *Engine) Render(doc Document, mode string) (RenderResult, error) {
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
	banner := ""
	if doc.IncludeAnswerKey {
		banner = p.labels.AnswerKey
	}
	if y, err = p.drawBanner(y, banner); err != nil {
		return RenderResult{}, fmt.Errorf("layout: 绘制横幅失败: %w", err)
	}

	sched := NewScheduler(y, p.bottom(), cfg.TwoColumn, p.separatorAllowance(), func() (float64, error) {
		p.s.AddPage()
		return p.drawRunningHeader()
	})

	colWidth := cfg.ColumnWidth()
	placements := make([]Placement, 0, len(doc.Questions))
	for i, q := range doc.Questions {
		number := i + 1
		estimated, err := Estimate(p.s, q, colWidth, cfg)
		if err != nil {
			return RenderResult{}, err
		}
		slot, err := sched.Place(estimated)
		if err != nil {
			return RenderResult{}, fmt.Errorf("layout: 第 %d 题换页失败: %w", number, err)
		}
		x := p.columnX(slot.Column)
		if cfg.ShowSeparators && !slot.First {
			p.drawSeparator(x, slot.Y, colWidth)
		}
		end, err := p.drawQuestion(number, q, x, slot.Y, colWidth)
		if err != nil {
			return RenderResult{}, fmt.Errorf("layout: 绘制第 %d 题失败: %w", number, err)
		}
		sched.Settle(end)
		placements = append(placements, Placement{
			Number:    number,
			Page:      slot.Page,
			Column:    slot.Column,
			Y:         slot.Y,
			Estimated: estimated,
			Drawn:     end - slot.Y,
		})
	}

	res, err := e.finish(p)
	if err != nil {
		return RenderResult{}, err
	}
	res.Placements = placements
	e.log.Debug("exam rendered",
		"mode", res.Mode,
		"questions", len(doc.Questions),
		"answer_key", doc.IncludeAnswerKey,
		"pages", res.Pages,
		"bytes", res.Length,
	)
	return res, nil
}

// begin 为一次渲染创建表面与页面绘制器。
func (e *Engine) begin(doc Document, cfg Config) (*pageRenderer, error) {
	meta := Meta{
		Title:    doc.Title,
		Subject:  doc.Subject,
		Creator:  creator,
		Keywords: []string{cfg.Mode},
	}
	s, err := e.surfaces.NewSurface(cfg.Page, meta)
	if err != nil {
		return nil, fmt.Errorf("layout: 创建绘图表面失败: %w", err)
	}
	if s.PageCount() == 0 {
		s.AddPage()
	}
	return &pageRenderer{
		s:      s,
		cfg:    cfg,
		doc:    doc,
		labels: e.labels,
		date:   e.now().Format(e.labels.DateLayout),
	}, nil
}

// finish 补绘页脚并序列化。序列化失败时不返回任何字节。
func (e *Engine) finish(p *pageRenderer) (RenderResult, error) {
	if err := p.drawFooters(); err != nil {
		return RenderResult{}, fmt.Errorf("layout: 绘制页脚失败: %w", err)
	}
	pages := p.s.PageCount()
	data, err := p.s.Serialize()
	if err != nil {
		return RenderResult{}, fmt.Errorf("layout: 序列化文档失败: %w", err)
	}
	return RenderResult{
		Bytes:  data,
		Length: len(data),
		Pages:  pages,
		Mode:   p.cfg.Mode,
	}, nil
}
