package layout

// CanvasOptions 配置画布所需的页面参数与依赖，例如排版后端与资源查找。
type CanvasOptions struct {
	Width      float64 // mm，缺省为 A4
	Height     float64 // mm，缺省为 A4
	Margin     Margin  // 缺省为左/上/右 10mm、下 20mm
	Typesetter Typesetter
	Assets     AssetResolver
	Meta       DocumentMeta
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// 约定：width/fontSize/lineHeight 均为毫米（mm）。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error)
}

// Asset 描述一个已确认存在且可解码的图片资源。
type Asset struct {
	Path   string
	Format string // png/jpeg/gif/webp
	Width  int    // 像素
	Height int    // 像素
}

// AssetResolver 对可选图片做显式存在性检查；ok 为 false 表示资源缺失，调用方应跳过绘制。
type AssetResolver interface {
	Lookup(path string) (Asset, bool)
}

// Serializer 将画布结果编码为最终文件内容（例如 PDF 字节）。
type Serializer interface {
	Render(result *Result) ([]byte, error)
}
