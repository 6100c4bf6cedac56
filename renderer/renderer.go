package renderer

import "github.com/ByLCY/dinterio-brochure/layout"

// Renderer 将画布结果输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据（例如 PDF 字节切片）以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// Backend 同时负责排版（折行度量）与渲染，保证两者使用同一套字体度量。
type Backend interface {
	Renderer
	layout.Typesetter
}

var _ layout.Serializer = Renderer(nil)
