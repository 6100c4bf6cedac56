package layout

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	defaultMarginSide   = 10.0
	defaultMarginBottom = 20.0
	defaultLineWidth    = 0.2
	defaultFontSizePt   = 12.0
	defaultFontFamily   = "helvetica"

	// CellPadding 是单元格与文本块左右两侧的内边距（mm），渲染器绘制文本时同样使用。
	CellPadding = 1.0

	pxPerInch = 72.0
	mmPerInch = 25.4
)

// 水平对齐方式。
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

var (
	errNoPage       = errors.New("layout: 尚未调用 StartPage")
	errClosed       = errors.New("layout: 画布已关闭")
	errReentrant    = errors.New("layout: 页眉/页脚回调中不允许开始新页面")
	errNoTypesetter = errors.New("layout: 缺少排版后端 Typesetter")
)

// RectMode 决定矩形是填充还是描边。
type RectMode int

const (
	RectFill RectMode = iota
	RectOutline
)

// PageHook 在页面切换时被调用，通过 Canvas 访问当前页码并绘制装饰元素。
type PageHook func(c *Canvas)

// drawState 保存当前的颜色、字体、线宽与光标，只由所属画布修改。
type drawState struct {
	fill      Color
	stroke    Color
	text      Color
	lineWidth float64
	font      FontResource
	fontSize  float64 // mm
	x, y      float64
}

type pageAccumulator struct {
	number   int
	margin   Margin
	elements []Element
}

// Canvas 是固定尺寸、分页的绘图面：维护当前页、光标与样式状态，
// 提供绘图原语，在页面切换时自动调用页眉/页脚回调，最终序列化到文件。
//
// 绘图方法不返回错误；排版后端的失败会被记录下来，由 Err 与 Save 返回第一个错误。
type Canvas struct {
	width      float64
	height     float64
	margin     Margin
	typesetter Typesetter
	assets     AssetResolver
	meta       DocumentMeta

	pages []*pageAccumulator
	state drawState

	onPageStart PageHook
	onPageEnd   PageHook
	role        Role
	inHook      bool
	closed      bool
	err         error
}

// NewCanvas 创建画布；未设置的尺寸与边距使用 A4 与默认边距。
func NewCanvas(opts CanvasOptions) (*Canvas, error) {
	if opts.Typesetter == nil {
		return nil, errNoTypesetter
	}
	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = A4Width, A4Height
	}
	margin := opts.Margin
	if margin == (Margin{}) {
		margin = Margin{
			Top:    defaultMarginSide,
			Right:  defaultMarginSide,
			Bottom: defaultMarginBottom,
			Left:   defaultMarginSide,
		}
	}
	c := &Canvas{
		width:      width,
		height:     height,
		margin:     margin,
		typesetter: opts.Typesetter,
		assets:     opts.Assets,
		meta:       opts.Meta,
	}
	c.state = drawState{
		lineWidth: defaultLineWidth,
		font:      FontResource{Family: defaultFontFamily},
		fontSize:  defaultFontSizePt * PtToMm,
		x:         margin.Left,
		y:         margin.Top,
	}
	return c, nil
}

// OnPageStart 注册页眉回调：每次 StartPage 在新页面上调用一次。
func (c *Canvas) OnPageStart(fn PageHook) { c.onPageStart = fn }

// OnPageEnd 注册页脚回调：在开始下一页之前以及关闭画布时对当前页调用一次。
func (c *Canvas) OnPageEnd(fn PageHook) { c.onPageEnd = fn }

// StartPage 结束上一页（触发页脚）、追加新页面、重置光标并触发页眉。
func (c *Canvas) StartPage() {
	if c.closed {
		c.setErr(errClosed)
		return
	}
	if c.inHook {
		c.setErr(errReentrant)
		return
	}
	if len(c.pages) > 0 {
		c.runHook(c.onPageEnd, RoleFooter)
	}
	c.pages = append(c.pages, &pageAccumulator{number: len(c.pages) + 1, margin: c.margin})
	c.state.x = c.margin.Left
	c.state.y = c.margin.Top
	c.runHook(c.onPageStart, RoleHeader)
}

// runHook 在回调期间把新元素标记为 role，并在回调结束后恢复样式（光标不恢复）。
func (c *Canvas) runHook(fn PageHook, role Role) {
	if fn == nil {
		return
	}
	saved := c.state
	c.role = role
	c.inHook = true
	fn(c)
	c.inHook = false
	c.role = RoleBody
	x, y := c.state.x, c.state.y
	c.state = saved
	c.state.x, c.state.y = x, y
}

// PageNo 返回当前页码（从 1 开始），尚未开始页面时为 0。
func (c *Canvas) PageNo() int { return len(c.pages) }

// PageSize 返回页面宽高（mm）。
func (c *Canvas) PageSize() (float64, float64) { return c.width, c.height }

// Margins 返回当前边距。
func (c *Canvas) Margins() Margin { return c.margin }

// SetFillColor 设置填充色，通道值会被截断到 [0,255]。
func (c *Canvas) SetFillColor(r, g, b int) { c.state.fill = RGB(r, g, b) }

// SetStrokeColor 设置描边色（线条与矩形边框）。
func (c *Canvas) SetStrokeColor(r, g, b int) { c.state.stroke = RGB(r, g, b) }

// SetTextColor 设置文本颜色。
func (c *Canvas) SetTextColor(r, g, b int) { c.state.text = RGB(r, g, b) }

// SetFillRGB/SetStrokeRGB/SetTextRGB 是接收 Color 的便捷形式。
func (c *Canvas) SetFillRGB(col Color)   { c.SetFillColor(col.R, col.G, col.B) }
func (c *Canvas) SetStrokeRGB(col Color) { c.SetStrokeColor(col.R, col.G, col.B) }
func (c *Canvas) SetTextRGB(col Color)   { c.SetTextColor(col.R, col.G, col.B) }

// SetLineWidth 设置线宽（mm），负值按 0 处理。
func (c *Canvas) SetLineWidth(w float64) { c.state.lineWidth = nonNegative(w) }

// SetFont 设置字体族、样式（"B"、"I" 或 "BI"）与字号（pt）。
func (c *Canvas) SetFont(family, style string, sizePt float64) {
	family = strings.ToLower(strings.TrimSpace(family))
	if family == "" {
		family = c.state.font.Family
	}
	c.state.font = FontResource{Family: family, Style: normalizeStyle(style)}
	if sizePt > 0 {
		c.state.fontSize = sizePt * PtToMm
	}
}

func normalizeStyle(style string) string {
	up := strings.ToUpper(style)
	var out string
	if strings.ContainsRune(up, 'B') {
		out += "B"
	}
	if strings.ContainsRune(up, 'I') {
		out += "I"
	}
	return out
}

// Cursor 返回当前光标位置。
func (c *Canvas) Cursor() (float64, float64) { return c.state.x, c.state.y }

// X 返回光标横坐标。
func (c *Canvas) X() float64 { return c.state.x }

// Y 返回光标纵坐标。
func (c *Canvas) Y() float64 { return c.state.y }

// SetX 设置光标横坐标，负值表示距页面右边缘的距离。
func (c *Canvas) SetX(x float64) {
	if x < 0 {
		x = c.width + x
	}
	c.state.x = x
}

// SetY 设置光标纵坐标并把横坐标复位到左边距，负值表示距页面底部的距离。
func (c *Canvas) SetY(y float64) {
	if y < 0 {
		y = c.height + y
	}
	c.state.x = c.margin.Left
	c.state.y = y
}

// SetCursor 同时设置光标的横纵坐标。
func (c *Canvas) SetCursor(x, y float64) {
	c.SetY(y)
	c.SetX(x)
}

// Ln 将光标移到左边距并下移 dy。
func (c *Canvas) Ln(dy float64) {
	c.state.x = c.margin.Left
	c.state.y += dy
}

// SetMargins 设置左、上、右边距；下边距保持不变。
func (c *Canvas) SetMargins(left, top, right float64) {
	c.margin.Top = nonNegative(top)
	c.SetLeftMargin(left)
	c.SetRightMargin(right)
}

// SetLeftMargin 设置左边距，光标位于边距左侧时会被推到边距上。
func (c *Canvas) SetLeftMargin(left float64) {
	c.margin.Left = nonNegative(left)
	if len(c.pages) > 0 && c.state.x < c.margin.Left {
		c.state.x = c.margin.Left
	}
}

// SetRightMargin 设置右边距，影响宽度为 0 的单元格与文本块。
func (c *Canvas) SetRightMargin(right float64) { c.margin.Right = nonNegative(right) }

// DrawRect 以当前填充色（RectFill）或描边色与线宽（RectOutline）绘制矩形。
func (c *Canvas) DrawRect(x, y, w, h float64, mode RectMode) {
	rect := &Rect{
		X:      x,
		Y:      y,
		Width:  nonNegative(w),
		Height: nonNegative(h),
	}
	kind := KindOutlineRect
	if mode == RectFill {
		fill := c.state.fill
		rect.FillColor = &fill
		kind = KindFillRect
	} else {
		rect.StrokeColor = c.state.stroke
		rect.StrokeWidth = c.state.lineWidth
	}
	c.add(Element{Kind: kind, Rect: rect})
}

// DrawLine 以当前描边色与线宽绘制线段。
func (c *Canvas) DrawLine(x1, y1, x2, y2 float64) {
	c.add(Element{Kind: KindLine, Line: &Line{
		X1:    x1,
		Y1:    y1,
		X2:    x2,
		Y2:    y2,
		Color: c.state.stroke,
		Width: c.state.lineWidth,
	}})
}

// PlaceImage 在资源存在时放置图片并返回 true；资源缺失时不绘制任何内容并返回 false。
// w 或 h 为 0 时按图片宽高比推算，二者都为 0 时按 72dpi 换算。
func (c *Canvas) PlaceImage(path string, x, y, w, h float64) bool {
	if c.assets == nil {
		return false
	}
	asset, ok := c.assets.Lookup(path)
	if !ok || asset.Width <= 0 || asset.Height <= 0 {
		return false
	}
	pw, ph := float64(asset.Width), float64(asset.Height)
	switch {
	case w <= 0 && h <= 0:
		w = pw * mmPerInch / pxPerInch
		h = ph * mmPerInch / pxPerInch
	case h <= 0:
		h = w * ph / pw
	case w <= 0:
		w = h * pw / ph
	}
	c.add(Element{Kind: KindImage, Image: &ImageBox{
		Path:   asset.Path,
		Format: asset.Format,
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
	}})
	return true
}

// WriteCell 在光标处绘制单行文本（不折行）。w 为 0 时延伸到右边距。
// newline 为 true 时光标移到下一行行首，否则右移 w。超出宽度的文本由渲染器处理。
func (c *Canvas) WriteCell(w, h float64, text string, border, newline bool, align string) {
	if w <= 0 {
		w = c.width - c.margin.Right - c.state.x
	}
	if text != "" || border {
		c.add(Element{Kind: KindTextCell, Text: &TextBox{
			Content:    text,
			X:          c.state.x,
			Y:          c.state.y,
			Width:      w,
			Height:     h,
			LineHeight: h,
			Font:       c.state.font,
			FontSize:   c.state.fontSize,
			Color:      c.state.text,
			Align:      normalizeAlign(align),
			Border:     border,
		}})
	}
	if newline {
		c.Ln(h)
		return
	}
	c.state.x += w
}

// WriteBlock 按宽度 w 自动折行绘制文本，每行高 h；结束后光标位于左边距、文本块下方。
// 空字符串不产生元素，高度为 0。
func (c *Canvas) WriteBlock(w, h float64, text string) {
	if w <= 0 {
		w = c.width - c.margin.Right - c.state.x
	}
	if text == "" {
		c.state.x = c.margin.Left
		return
	}
	wrapWidth := w - 2*CellPadding
	if wrapWidth <= 0 {
		wrapWidth = w
	}
	lines, err := c.typesetter.LayoutLines(text, wrapWidth, c.state.font, c.state.fontSize, h, "anywhere")
	if err != nil {
		c.setErr(fmt.Errorf("排版文本失败: %w", err))
		return
	}
	for i := range lines {
		lines[i].Height = h
		lines[i].GapBefore = 0
	}
	height := h * float64(len(lines))
	c.add(Element{Kind: KindTextBlock, Text: &TextBox{
		Content:    text,
		X:          c.state.x,
		Y:          c.state.y,
		Width:      w,
		Height:     height,
		LineHeight: h,
		Font:       c.state.font,
		FontSize:   c.state.fontSize,
		Color:      c.state.text,
		Lines:      lines,
		Align:      AlignLeft,
	}})
	c.state.x = c.margin.Left
	c.state.y += height
}

func normalizeAlign(align string) string {
	switch strings.ToLower(strings.TrimSpace(align)) {
	case "c", "center", "middle":
		return AlignCenter
	case "r", "right", "end":
		return AlignRight
	default:
		return AlignLeft
	}
}

func (c *Canvas) add(el Element) {
	if c.closed {
		c.setErr(errClosed)
		return
	}
	if len(c.pages) == 0 {
		c.setErr(errNoPage)
		return
	}
	el.Role = c.role
	pg := c.pages[len(c.pages)-1]
	pg.elements = append(pg.elements, el)
}

func (c *Canvas) setErr(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Err 返回绘制过程中记录的第一个错误。
func (c *Canvas) Err() error { return c.err }

// Close 对最后一页调用页脚回调并冻结画布，可重复调用。
func (c *Canvas) Close() {
	if c.closed {
		return
	}
	if len(c.pages) > 0 {
		c.runHook(c.onPageEnd, RoleFooter)
	}
	c.closed = true
}

// Result 关闭画布并返回全部页面的快照。
func (c *Canvas) Result() *Result {
	c.Close()
	pages := make([]Page, len(c.pages))
	for i, acc := range c.pages {
		elements := make([]Element, len(acc.elements))
		copy(elements, acc.elements)
		pages[i] = Page{
			Number:   acc.number,
			Width:    c.width,
			Height:   c.height,
			Margin:   acc.margin,
			Elements: elements,
		}
	}
	return &Result{Pages: pages, Meta: c.meta}
}

// Save 关闭画布，通过 s 编码全部页面并写入 path（覆盖已有文件）。
// 不会创建目录：目录不存在或不可写时返回文件系统错误。
func (c *Canvas) Save(path string, s Serializer) error {
	res := c.Result()
	if c.err != nil {
		return c.err
	}
	if s == nil {
		return fmt.Errorf("layout: 缺少序列化后端")
	}
	data, err := s.Render(res)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return nil
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
