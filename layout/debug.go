package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将渲染结果中的放置信息输出为 JSON，便于检查分栏与换页。
func WriteDebugJSON(res *RenderResult, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
