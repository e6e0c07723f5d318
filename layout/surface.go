package layout

// Align 为文本水平对齐方式。
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// TextStyle 描述一次文本测量或绘制所用的字体、字号（pt）、颜色与对齐。
// LineHeight 为行高相对字号的倍数，<=0 时由表面自行决定（通常 1.2）。
type TextStyle struct {
	Font       string
	Size       float64
	Color      Color
	Align      Align
	LineHeight float64
}

// Measurer 只负责测量折行后的文本高度，估算器只依赖这一部分。
type Measurer interface {
	Measure(text string, width float64, style TextStyle) (float64, error)
}

// Surface 是排版引擎依赖的绘图表面。单位为 pt，原点在左上角。
//
// 页面在 Serialize 之前全部缓存在内存中，SetPage 可切回已有页面补绘页脚。
// DrawText 返回绘制后的光标 y（已计入折行），引擎以此为准而不是估算值。
type Surface interface {
	Measurer
	DrawText(text string, x, y, width float64, style TextStyle) (float64, error)
	FillRect(x, y, w, h float64, c Color)
	StrokeLine(x1, y1, x2, y2 float64, c Color)
	AddPage()
	SetPage(index int) error
	PageCount() int
	Serialize() ([]byte, error)
}
