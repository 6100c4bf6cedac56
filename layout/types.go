package layout

// 该文件定义画布输出的页面与元素模型，供画布、渲染器与调试 JSON 共用。

// Result 保存画布关闭后的全部页面与文档元信息。
type Result struct {
	Pages []Page       `json:"pages"`
	Meta  DocumentMeta `json:"meta"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Page 记录页码、页面尺寸、边距以及按绘制顺序排列的元素。
type Page struct {
	Number   int       `json:"number"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Margin   Margin    `json:"margin"`
	Elements []Element `json:"elements"`
}

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// ElementKind 区分六种绘制图元。
type ElementKind string

const (
	KindFillRect    ElementKind = "fill-rect"
	KindOutlineRect ElementKind = "outline-rect"
	KindLine        ElementKind = "line"
	KindImage       ElementKind = "image"
	KindTextCell    ElementKind = "text-cell"
	KindTextBlock   ElementKind = "text-block"
)

// Role 标记元素来自正文还是页眉/页脚回调。
type Role string

const (
	RoleBody   Role = ""
	RoleHeader Role = "header"
	RoleFooter Role = "footer"
)

// Element 是一次绘制调用的结果，写入后不再修改。
// Rect/Line/Image/Text 中恰好有一个非空，由 Kind 决定。
type Element struct {
	Kind  ElementKind `json:"kind"`
	Role  Role        `json:"role,omitempty"`
	Rect  *Rect       `json:"rect,omitempty"`
	Line  *Line       `json:"line,omitempty"`
	Image *ImageBox   `json:"image,omitempty"`
	Text  *TextBox    `json:"text,omitempty"`
}

// FontResource 描述文本使用的字体：family 为内置字体族名，style 为 "B"/"I" 的组合。
type FontResource struct {
	Family string `json:"family"`
	Style  string `json:"style"`
}

// Bold 报告样式中是否包含粗体。
func (f FontResource) Bold() bool { return containsStyle(f.Style, 'B') }

// Italic 报告样式中是否包含斜体。
func (f FontResource) Italic() bool { return containsStyle(f.Style, 'I') }

func containsStyle(style string, flag rune) bool {
	for _, r := range style {
		if r == flag {
			return true
		}
	}
	return false
}

// TextBox 表示一个已经排好坐标的文本单元格或文本块。
// Lines 为空时按 Content 单行绘制（单元格）；否则逐行绘制（文本块）。
type TextBox struct {
	Content    string       `json:"content"`
	X          float64      `json:"x"`
	Y          float64      `json:"y"`
	Width      float64      `json:"width"`
	Height     float64      `json:"height"`
	LineHeight float64      `json:"lineHeight"`
	Font       FontResource `json:"font"`
	FontSize   float64      `json:"fontSize"` // mm
	Color      Color        `json:"color"`
	Lines      []TextLine   `json:"lines,omitempty"`
	Align      string       `json:"align,omitempty"` // left/center/right（默认 left）
	Border     bool         `json:"border,omitempty"`
}

// SizePt 返回以 pt 表示的字号。
func (tb TextBox) SizePt() float64 { return tb.FontSize * MmToPt }

// TextLine 表示排版后的一行文本内容及其宽高。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}

// ImageBox 用于描述图片位置与尺寸，Path 为已确认存在的文件路径。
type ImageBox struct {
	Path   string  `json:"path"`
	Format string  `json:"format"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Line 表示一条线段（单位 mm）。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽（mm），<=0 时由渲染器给默认值
}

// Rect 表示一个矩形，FillColor 为空表示仅描边。
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"`
	FillColor   *Color  `json:"fillColor,omitempty"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
