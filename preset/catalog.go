// Package preset loads the eco-mode catalog and resolves a mode key to a
// layout.Config.
package preset

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ByLCY/gabarito/dsl"
	"github.com/ByLCY/gabarito/layout"
)

// Normal is the fallback mode for unknown keys.
const Normal = "normal"

// Known eco-mode keys. A catalog must define every one of them.
var KnownModes = []string{Normal, "save-paper", "save-ink", "eco-max", "accessibility"}

//go:embed catalog.eco
var embeddedCatalog string

// Catalog is an immutable set of resolved presets. Safe for concurrent use.
type Catalog struct {
	Name    string
	Version string
	Title   string

	fallback string
	order    []string
	configs  map[string]layout.Config
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	doc, err := dsl.ParseNamed("catalog.eco", strings.NewReader(embeddedCatalog))
	if err != nil {
		panic(fmt.Sprintf("preset: 内置目录解析失败: %v", err))
	}
	c, err := Load(doc)
	if err != nil {
		panic(fmt.Sprintf("preset: 内置目录无效: %v", err))
	}
	return c
})

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	return defaultCatalog()
}

// LoadFile parses and loads a catalog file from disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("preset: 打开目录文件失败: %w", err)
	}
	defer f.Close()
	doc, err := dsl.ParseNamed(path, f)
	if err != nil {
		return nil, fmt.Errorf("preset: 解析目录失败: %w", err)
	}
	return Load(doc)
}

// Load resolves every preset in doc, following extends chains.
func Load(doc *dsl.Document) (*Catalog, error) {
	if doc == nil {
		return nil, fmt.Errorf("preset: 目录为空")
	}
	c := &Catalog{
		Name:     doc.Name,
		Version:  doc.Version,
		fallback: Normal,
		configs:  map[string]layout.Config{},
	}

	sections := map[string]*dsl.PresetSection{}
	var declared []string
	for _, sec := range doc.Sections {
		switch {
		case sec.Meta != nil:
			if err := c.applyMeta(sec.Meta.Block); err != nil {
				return nil, err
			}
		case sec.Preset != nil:
			key := sec.Preset.Key
			if _, dup := sections[key]; dup {
				return nil, fmt.Errorf("preset: %s: 预设 %q 重复定义", sec.Preset.Pos, key)
			}
			sections[key] = sec.Preset
			declared = append(declared, key)
		}
	}

	r := resolver{sections: sections, done: c.configs, visiting: map[string]bool{}}
	for _, key := range declared {
		if _, err := r.resolve(key); err != nil {
			return nil, err
		}
	}

	for _, key := range KnownModes {
		if _, ok := c.configs[key]; !ok {
			return nil, fmt.Errorf("preset: 缺少模式 %q", key)
		}
	}
	if _, ok := c.configs[c.fallback]; !ok {
		return nil, fmt.Errorf("preset: 默认模式 %q 未定义", c.fallback)
	}
	if len(c.order) == 0 {
		c.order = declared
	}
	for _, key := range c.order {
		if _, ok := c.configs[key]; !ok {
			return nil, fmt.Errorf("preset: order 中的模式 %q 未定义", key)
		}
	}
	return c, nil
}

func (c *Catalog) applyMeta(block *dsl.Block) error {
	for _, st := range block.Statements {
		a := st.Assignment
		if a == nil {
			continue
		}
		switch a.Key {
		case "title":
			c.Title = a.Value.Text()
		case "default":
			c.fallback = a.Value.Text()
		case "order":
			if a.Value.Array == nil {
				return fmt.Errorf("preset: %s: order 必须是数组", a.Pos)
			}
			for _, v := range a.Value.Array.Values {
				c.order = append(c.order, v.Text())
			}
		}
	}
	return nil
}

// Resolve returns the config for mode. Unknown keys resolve to the default mode.
func (c *Catalog) Resolve(mode string) layout.Config {
	if cfg, ok := c.configs[mode]; ok {
		return cfg
	}
	return c.configs[c.fallback]
}

// Has reports whether mode is defined.
func (c *Catalog) Has(mode string) bool {
	_, ok := c.configs[mode]
	return ok
}

// Modes lists the presets in catalog order for client menus.
func (c *Catalog) Modes() []layout.Mode {
	out := make([]layout.Mode, 0, len(c.order))
	for _, key := range c.order {
		cfg := c.configs[key]
		out = append(out, layout.Mode{
			Key:         cfg.Mode,
			Label:       cfg.Label,
			Description: cfg.Description,
			Savings:     cfg.Savings,
		})
	}
	return out
}

type resolver struct {
	sections map[string]*dsl.PresetSection
	done     map[string]layout.Config
	visiting map[string]bool
}

func (r resolver) resolve(key string) (layout.Config, error) {
	if cfg, ok := r.done[key]; ok {
		return cfg, nil
	}
	sec, ok := r.sections[key]
	if !ok {
		return layout.Config{}, fmt.Errorf("preset: 未定义的预设 %q", key)
	}
	if r.visiting[key] {
		return layout.Config{}, fmt.Errorf("preset: %s: 预设 %q 的 extends 形成循环", sec.Pos, key)
	}
	r.visiting[key] = true
	defer delete(r.visiting, key)

	var cfg layout.Config
	if sec.Extends != "" {
		if _, ok := r.sections[sec.Extends]; !ok {
			return layout.Config{}, fmt.Errorf("preset: %s: 预设 %q 继承了未定义的 %q", sec.Pos, key, sec.Extends)
		}
		parent, err := r.resolve(sec.Extends)
		if err != nil {
			return layout.Config{}, err
		}
		cfg = parent
	}
	cfg.Mode = key
	if sec.Extends != "" {
		// 标签与说明不继承。
		cfg.Label, cfg.Description, cfg.ModeLabel = "", "", ""
	}
	if err := apply(&cfg, sec.Block); err != nil {
		return layout.Config{}, fmt.Errorf("preset: 预设 %q: %w", key, err)
	}
	if cfg.Label == "" {
		cfg.Label = key
	}
	if err := check(cfg); err != nil {
		return layout.Config{}, fmt.Errorf("preset: %s: 预设 %q: %w", sec.Pos, key, err)
	}
	r.done[key] = cfg
	return cfg, nil
}

// check rejects presets the engine cannot lay out.
func check(cfg layout.Config) error {
	if cfg.Page.Width <= 0 || cfg.Page.Height <= 0 {
		return fmt.Errorf("缺少纸张尺寸")
	}
	if cfg.Fonts.Regular == "" || cfg.Fonts.Emphasis == "" {
		return fmt.Errorf("缺少字体")
	}
	s := cfg.Sizes
	for _, v := range []float64{s.Title, s.Subtitle, s.Question, s.Alternative, s.Header, s.Footer} {
		if v <= 0 {
			return fmt.Errorf("字号必须为正数")
		}
	}
	if cfg.ColumnWidth() <= cfg.Sizes.Question*3 {
		return fmt.Errorf("边距过大，栏宽只有 %.1fpt", cfg.ColumnWidth())
	}
	if cfg.Page.Height-cfg.Margin.Top-cfg.Margin.Bottom <= 0 {
		return fmt.Errorf("上下边距超过页面高度")
	}
	return nil
}
