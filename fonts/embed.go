package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体按角色名登记，预设目录中的 fonts 指令引用这些名称。
var builtin = map[string][]byte{
	"regular": goregular.TTF,
	"bold":    gobold.TTF,
	"italic":  goitalic.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:bold" 或直接 "bold"（不区分大小写）。
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "embed:")))
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 未知字体，可用: %s", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names 返回所有内置字体名称（已排序）。
func Names() []string {
	out := make([]string, 0, len(builtin))
	for name := range builtin {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
