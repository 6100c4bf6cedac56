package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteDebugJSON 将画布结果输出为 JSON，便于检查元素坐标与绘制顺序。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化调试 JSON 失败: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
