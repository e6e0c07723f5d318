package layout

import (
	"log/slog"
	"time"
)

// Resolver 根据经济模式返回排版参数。实现必须是全函数：未知模式回退到 normal。
type Resolver interface {
	Resolve(mode string) Config
}

// SurfaceFactory 为每次渲染创建一个独立的绘图表面。
type SurfaceFactory interface {
	NewSurface(page PageSize, meta Meta) (Surface, error)
}

// Options 配置排版引擎所需的依赖。
type Options struct {
	Presets  Resolver
	Surfaces SurfaceFactory
	// Labels 为页面固定文字，零值时使用英文。
	Labels Labels
	// Now 用于页眉日期，测试中可固定。
	Now    func() time.Time
	Logger *slog.Logger
}
