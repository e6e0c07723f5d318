package layout

import "fmt"

// 该文件定义排版引擎的输入（试卷、题目）、预设配置与输出结果，供预设目录、排版与渲染后端共用。
// 所有长度均以点（pt）为单位，坐标原点位于页面左上角，y 轴向下。

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Black 为纯黑色。
var Black = Color{}

// Lightness 返回 0-255 的平均亮度，用于比较"更浅"的文字颜色。
func (c Color) Lightness() int {
	return (c.R + c.G + c.B) / 3
}

// PageSize 记录纸张名称与尺寸（pt）。
type PageSize struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Margin 以 pt 为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// FontSet 描述两种字体角色。省墨模式下 Emphasis 与 Regular 指向同一字体。
type FontSet struct {
	Regular  string `json:"regular"`
	Emphasis string `json:"emphasis"`
}

// FontSizes 为各类文本的字号（pt）。
type FontSizes struct {
	Title       float64 `json:"title"`
	Subtitle    float64 `json:"subtitle"`
	Question    float64 `json:"question"`
	Alternative float64 `json:"alternative"`
	Header      float64 `json:"header"`
	Footer      float64 `json:"footer"`
}

// Spacing 中的数值是行数倍率（乘以对应字号的行高），而非绝对长度。
type Spacing struct {
	Question    float64 `json:"question"`
	Alternative float64 `json:"alternative"`
	Header      float64 `json:"header"`
}

// Savings 是展示用的节省估计，例如 "~30-40%"。
type Savings struct {
	Paper string `json:"paper"`
	Ink   string `json:"ink"`
}

// Config 是某个经济模式解析后的完整排版参数。每次渲染只读使用，不得修改。
type Config struct {
	Mode        string `json:"mode"`
	Label       string `json:"label"`
	Description string `json:"description"`
	// ModeLabel 显示在页脚，为空时不绘制。
	ModeLabel string  `json:"modeLabel"`
	Savings   Savings `json:"savings"`

	Page   PageSize  `json:"page"`
	Margin Margin    `json:"margin"`
	Fonts  FontSet   `json:"fonts"`
	Sizes  FontSizes `json:"sizes"`

	TextColor      Color `json:"textColor"`
	SecondaryColor Color `json:"secondaryColor"`
	SeparatorColor Color `json:"separatorColor"`
	ShowSeparators bool  `json:"showSeparators"`

	Highlight      bool  `json:"highlight"`
	HighlightFill  Color `json:"highlightFill"`
	HighlightText  Color `json:"highlightText"`
	AttentionColor Color `json:"attentionColor"`

	Spacing           Spacing `json:"spacing"`
	AlternativeIndent float64 `json:"alternativeIndent"`
	// LineHeight 为选项行高相对字号的倍数（约 1.5）。
	LineHeight float64 `json:"lineHeight"`
	ColumnGap  float64 `json:"columnGap"`
	TwoColumn  bool    `json:"twoColumn"`
}

// ContentWidth 返回左右边距之间的可用宽度。
func (c Config) ContentWidth() float64 {
	return c.Page.Width - c.Margin.Left - c.Margin.Right
}

// ColumnWidth 返回单栏宽度：双栏时扣除栏间距后平分。
func (c Config) ColumnWidth() float64 {
	if !c.TwoColumn {
		return c.ContentWidth()
	}
	return (c.ContentWidth() - c.ColumnGap) / 2
}

// Mode 是经济模式列表中的一项，供客户端菜单展示。
type Mode struct {
	Key         string  `json:"mode"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
	Savings     Savings `json:"savings"`
}

// Alternative 为题目的一个选项。
type Alternative struct {
	Text    string `json:"text" yaml:"text"`
	Correct bool   `json:"isCorrect" yaml:"correct"`
}

// Question 为一道选择题。Alternatives 的顺序即字母顺序（A、B、C…），排版引擎不会重排。
type Question struct {
	ID           string        `json:"id" yaml:"id"`
	Statement    string        `json:"statement" yaml:"statement"`
	Alternatives []Alternative `json:"alternatives" yaml:"alternatives"`
}

// Document 为一次导出的试卷内容。Version 为 nil 表示未选择版本的基础试卷。
type Document struct {
	Title            string     `json:"title" yaml:"title"`
	Subject          string     `json:"subject" yaml:"subject"`
	Version          *string    `json:"versionLabel" yaml:"version"`
	Questions        []Question `json:"questions" yaml:"questions"`
	IncludeAnswerKey bool       `json:"includeAnswerKey" yaml:"include_answer_key"`
}

// HasVersion 报告是否选择了具体版本。
func (d Document) HasVersion() bool {
	return d.Version != nil && *d.Version != ""
}

// Meta 为写入 PDF 的元信息。
type Meta struct {
	Title    string
	Subject  string
	Creator  string
	Keywords []string
}

// Column 表示题目所在的栏。
type Column int

const (
	LeftColumn Column = iota
	RightColumn
)

func (c Column) String() string {
	if c == RightColumn {
		return "right"
	}
	return "left"
}

// MarshalText 让调试 JSON 输出 "left"/"right"。
func (c Column) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText 读回调试 JSON 中的 "left"/"right"。
func (c *Column) UnmarshalText(text []byte) error {
	switch string(text) {
	case "left":
		*c = LeftColumn
	case "right":
		*c = RightColumn
	default:
		return fmt.Errorf("layout: 未知的栏 %q", text)
	}
	return nil
}

// Placement 记录一道题目最终的位置，页码从 1 开始。
type Placement struct {
	Number    int     `json:"number"`
	Page      int     `json:"page"`
	Column    Column  `json:"column"`
	Y         float64 `json:"y"`
	Estimated float64 `json:"estimated"`
	Drawn     float64 `json:"drawn"`
}

// RenderResult 是一次完整渲染的结果。失败时不返回任何字节。
type RenderResult struct {
	Bytes      []byte      `json:"-"`
	Length     int         `json:"length"`
	Pages      int         `json:"pages"`
	Mode       string      `json:"mode"`
	Placements []Placement `json:"placements"`
}
