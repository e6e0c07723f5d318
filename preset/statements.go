package preset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/gabarito/dsl"
	"github.com/ByLCY/gabarito/layout"
)

// apply overlays the statements of one preset block onto cfg.
func apply(cfg *layout.Config, block *dsl.Block) error {
	if block == nil {
		return nil
	}
	for _, st := range block.Statements {
		var err error
		switch {
		case st.Assignment != nil:
			err = applyAssignment(cfg, st.Assignment)
			if err != nil {
				err = fmt.Errorf("%s: %s: %w", st.Assignment.Pos, st.Assignment.Key, err)
			}
		case st.Command != nil:
			err = applyCommand(cfg, st.Command)
			if err != nil {
				err = fmt.Errorf("%s: %s: %w", st.Command.Pos, st.Command.Name, err)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func applyAssignment(cfg *layout.Config, a *dsl.Assignment) error {
	value := a.Value.Text()
	switch a.Key {
	case "label":
		cfg.Label = value
	case "description":
		cfg.Description = value
	case "mode-label":
		cfg.ModeLabel = value
	case "line-height":
		f, err := layout.ParseFactor(value)
		if err != nil {
			return err
		}
		cfg.LineHeight = f
	case "indent":
		v, err := parsePoints(value)
		if err != nil {
			return err
		}
		cfg.AlternativeIndent = v
	case "column-gap":
		v, err := parsePoints(value)
		if err != nil {
			return err
		}
		cfg.ColumnGap = v
	default:
		return fmt.Errorf("未知属性")
	}
	return nil
}

func applyCommand(cfg *layout.Config, cmd *dsl.Command) error {
	args := argValues(cmd.Args)
	switch cmd.Name {
	case "page":
		if len(args) != 1 {
			return fmt.Errorf("需要一个纸张名称")
		}
		size, ok := layout.LookupPageSize(args[0])
		if !ok {
			return fmt.Errorf("未知纸张 %q", args[0])
		}
		cfg.Page = size
	case "margin":
		m, err := parseMargin(args)
		if err != nil {
			return err
		}
		cfg.Margin = m
	case "fonts":
		if len(args) != 2 {
			return fmt.Errorf("需要 regular 与 emphasis 两个字体")
		}
		cfg.Fonts = layout.FontSet{Regular: args[0], Emphasis: args[1]}
	case "size":
		return eachPair(args, func(key, value string) error {
			v, err := parsePoints(value)
			if err != nil {
				return err
			}
			switch key {
			case "title":
				cfg.Sizes.Title = v
			case "subtitle":
				cfg.Sizes.Subtitle = v
			case "question":
				cfg.Sizes.Question = v
			case "alternative":
				cfg.Sizes.Alternative = v
			case "header":
				cfg.Sizes.Header = v
			case "footer":
				cfg.Sizes.Footer = v
			default:
				return fmt.Errorf("未知字号角色 %q", key)
			}
			return nil
		})
	case "color":
		return eachPair(args, func(key, value string) error {
			c, err := ParseColor(value)
			if err != nil {
				return err
			}
			switch key {
			case "text":
				cfg.TextColor = c
			case "secondary":
				cfg.SecondaryColor = c
			case "separator":
				cfg.SeparatorColor = c
			case "attention":
				cfg.AttentionColor = c
			default:
				return fmt.Errorf("未知颜色角色 %q", key)
			}
			return nil
		})
	case "separators":
		on, err := parseSwitch(args)
		if err != nil {
			return err
		}
		cfg.ShowSeparators = on
	case "highlight":
		if len(args) == 0 {
			return fmt.Errorf("需要 on 或 off")
		}
		on, err := parseSwitch(args[:1])
		if err != nil {
			return err
		}
		cfg.Highlight = on
		return eachPair(args[1:], func(key, value string) error {
			c, err := ParseColor(value)
			if err != nil {
				return err
			}
			switch key {
			case "fill":
				cfg.HighlightFill = c
			case "text":
				cfg.HighlightText = c
			default:
				return fmt.Errorf("未知高亮属性 %q", key)
			}
			return nil
		})
	case "spacing":
		return eachPair(args, func(key, value string) error {
			v, err := strconv.ParseFloat(value, 64)
			if err != nil || v < 0 {
				return fmt.Errorf("间距倍数 %q 无效", value)
			}
			switch key {
			case "question":
				cfg.Spacing.Question = v
			case "alternative":
				cfg.Spacing.Alternative = v
			case "header":
				cfg.Spacing.Header = v
			default:
				return fmt.Errorf("未知间距 %q", key)
			}
			return nil
		})
	case "columns":
		if len(args) != 1 || (args[0] != "1" && args[0] != "2") {
			return fmt.Errorf("只支持 1 或 2 栏")
		}
		cfg.TwoColumn = args[0] == "2"
	case "savings":
		return eachPair(args, func(key, value string) error {
			switch key {
			case "paper":
				cfg.Savings.Paper = value
			case "ink":
				cfg.Savings.Ink = value
			default:
				return fmt.Errorf("未知节省项 %q", key)
			}
			return nil
		})
	default:
		return fmt.Errorf("未知指令")
	}
	return nil
}

func argValues(args []*dsl.Lexeme) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		out = append(out, a.Value)
	}
	return out
}

// eachPair walks "key value key value ..." argument lists.
func eachPair(args []string, fn func(key, value string) error) error {
	if len(args)%2 != 0 {
		return fmt.Errorf("参数必须成对出现: %s", strings.Join(args, " "))
	}
	for i := 0; i < len(args); i += 2 {
		if err := fn(args[i], args[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func parseSwitch(args []string) (bool, error) {
	if len(args) != 1 {
		return false, fmt.Errorf("需要 on 或 off")
	}
	switch strings.ToLower(args[0]) {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("无法识别的开关 %q", args[0])
}

func parsePoints(value string) (float64, error) {
	l, err := layout.ParseLength(value)
	if err != nil {
		return 0, err
	}
	return l.ToPT(), nil
}

// parseMargin follows CSS shorthand: 1 value for all sides, 2 for
// vertical/horizontal, 3 for top/horizontal/bottom, 4 for top/right/bottom/left.
func parseMargin(args []string) (layout.Margin, error) {
	vals := make([]float64, 0, len(args))
	for _, a := range args {
		v, err := parsePoints(a)
		if err != nil {
			return layout.Margin{}, err
		}
		if v < 0 {
			return layout.Margin{}, fmt.Errorf("边距不能为负: %s", a)
		}
		vals = append(vals, v)
	}
	switch len(vals) {
	case 1:
		v := vals[0]
		return layout.Margin{Top: v, Right: v, Bottom: v, Left: v}, nil
	case 2:
		return layout.Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}, nil
	case 3:
		return layout.Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}, nil
	case 4:
		return layout.Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, nil
	}
	return layout.Margin{}, fmt.Errorf("需要 1 到 4 个值，实际 %d 个", len(vals))
}

// ParseColor parses #rgb or #rrggbb.
func ParseColor(value string) (layout.Color, error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 {
		return layout.Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return layout.Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	return layout.Color{R: int(n >> 16 & 0xff), G: int(n >> 8 & 0xff), B: int(n & 0xff)}, nil
}
