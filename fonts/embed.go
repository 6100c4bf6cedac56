package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置无衬线字体族的别名，均映射到 Go 字体。
var sansFamilies = map[string]bool{
	"":          true,
	"helvetica": true,
	"arial":     true,
	"sans":      true,
	"go":        true,
}

// Load 返回内置字体族在指定样式下的 TTF 数据；style 为 "B"、"I" 的任意组合。
func Load(family, style string) ([]byte, error) {
	if !sansFamilies[strings.ToLower(family)] {
		return nil, fmt.Errorf("不支持的内置字体族 %s", family)
	}
	bold := strings.ContainsRune(style, 'B')
	italic := strings.ContainsRune(style, 'I')
	switch {
	case bold && italic:
		return gobolditalic.TTF, nil
	case bold:
		return gobold.TTF, nil
	case italic:
		return goitalic.TTF, nil
	default:
		return goregular.TTF, nil
	}
}
