package binding

import (
	"fmt"
	"regexp"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Vars 是模板变量表，值可以嵌套 Vars 以支持 ${a.b} 形式的路径。
type Vars map[string]any

// Interpolate 将模板中的 ${name} 或 ${path.to.value} 替换为 vars 中的值。
// 路径不存在时保留原占位符，便于在输出中发现拼写错误。
func Interpolate(template string, vars Vars) string {
	if len(vars) == 0 || !strings.Contains(template, "${") {
		return template
	}
	return exprPattern.ReplaceAllStringFunc(template, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path == "" {
			return match
		}
		if val, ok := lookup(vars, path); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

// Placeholders 返回模板中出现的变量路径，按出现顺序且去重。
func Placeholders(template string) []string {
	var out []string
	seen := map[string]bool{}
	for _, groups := range exprPattern.FindAllStringSubmatch(template, -1) {
		path := strings.TrimSpace(groups[1])
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		out = append(out, path)
	}
	return out
}

func lookup(vars Vars, path string) (any, bool) {
	var current any = vars
	for _, segment := range strings.Split(path, ".") {
		switch c := current.(type) {
		case Vars:
			val, ok := c[segment]
			if !ok {
				return nil, false
			}
			current = val
		case map[string]any:
			val, ok := c[segment]
			if !ok {
				return nil, false
			}
			current = val
		case map[string]string:
			val, ok := c[segment]
			if !ok {
				return nil, false
			}
			current = val
		default:
			return nil, false
		}
	}
	return current, true
}
