package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/dinterio-brochure/fonts"
	"github.com/ByLCY/dinterio-brochure/layout"
	"github.com/ByLCY/dinterio-brochure/renderer"
)

const (
	defaultStrokeWidth = 0.2
	borderWidth        = 0.2
)

// Renderer draws canvas results via github.com/tdewolff/canvas.
type Renderer struct {
	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
}

var _ renderer.Backend = (*Renderer)(nil)

// NewRenderer creates a canvas-based renderer using the built-in sans family.
func NewRenderer() *Renderer {
	return &Renderer{fontFamilies: map[string]*canvas.FontFamily{}}
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与画布保持左上角为原点

		if err := r.drawPage(ctx, page); err != nil {
			return nil, fmt.Errorf("第 %d 页: %w", page.Number, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// LayoutLines 实现 layout.Typesetter 接口，使用贪心换行算法。
// 约定：width/fontSize/lineHeight 入参均为毫米（mm）。创建字体面时换算为 pt。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64, wrap string) ([]layout.TextLine, error) {
	face, err := r.fontFace(font, fontSize*layout.MmToPt, layout.Color{})
	if err != nil {
		return nil, err
	}
	lines := greedyWrap(content, width, face, wrap)
	for i := range lines {
		lines[i].Height = lineHeight
	}
	return lines, nil
}

// TextWidth 返回文本在给定字体下的宽度（mm）。
func (r *Renderer) TextWidth(text string, font layout.FontResource, fontSize float64) (float64, error) {
	face, err := r.fontFace(font, fontSize*layout.MmToPt, layout.Color{})
	if err != nil {
		return 0, err
	}
	return face.TextWidth(text), nil
}

// drawPage 按元素写入顺序绘制，后绘制的元素覆盖先绘制的元素。
func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) error {
	for _, el := range page.Elements {
		var err error
		switch el.Kind {
		case layout.KindFillRect, layout.KindOutlineRect:
			drawRect(ctx, el.Rect)
		case layout.KindLine:
			drawLine(ctx, el.Line)
		case layout.KindImage:
			err = drawImage(ctx, el.Image)
		case layout.KindTextCell, layout.KindTextBlock:
			err = r.drawTextBox(ctx, el.Text)
		default:
			err = fmt.Errorf("未知的元素类型 %q", el.Kind)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb *layout.TextBox) error {
	if tb == nil {
		return nil
	}
	if tb.Border {
		drawRect(ctx, &layout.Rect{X: tb.X, Y: tb.Y, Width: tb.Width, Height: tb.Height, StrokeWidth: borderWidth})
	}
	face, err := r.fontFace(tb.Font, tb.SizePt(), tb.Color)
	if err != nil {
		return err
	}

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content, Height: tb.Height}}
	}

	var textAlign canvas.TextAlign
	var anchorX float64
	switch tb.Align {
	case layout.AlignCenter:
		textAlign = canvas.Center
		anchorX = tb.X + tb.Width/2
	case layout.AlignRight:
		textAlign = canvas.Right
		anchorX = tb.X + tb.Width - layout.CellPadding
	default:
		textAlign = canvas.Left
		anchorX = tb.X + layout.CellPadding
	}

	// 文本在行内垂直居中：基线 = 行顶 + (行高 + 大写字母高度) / 2
	metrics := face.Metrics()
	capHeight := metrics.CapHeight
	if capHeight <= 0 {
		capHeight = metrics.Ascent * 0.7
	}

	cursorY := tb.Y
	for _, line := range lines {
		cursorY += line.GapBefore
		lineHeight := line.Height
		if lineHeight <= 0 {
			lineHeight = tb.LineHeight
		}
		if line.Content != "" {
			baseline := cursorY + (lineHeight+capHeight)/2
			ctx.DrawText(anchorX, baseline, canvas.NewTextLine(face, line.Content, textAlign))
		}
		cursorY += lineHeight
	}
	return nil
}

func drawImage(ctx *canvas.Context, img *layout.ImageBox) error {
	if img == nil || img.Path == "" || img.Width <= 0 || img.Height <= 0 {
		return nil
	}
	file, err := os.Open(img.Path)
	if err != nil {
		return fmt.Errorf("读取图片 %s 失败: %w", img.Path, err)
	}
	data, _, err := image.Decode(file)
	file.Close()
	if err != nil {
		return fmt.Errorf("解码图片 %s 失败: %w", img.Path, err)
	}

	// 拉伸填满目标框，不保持宽高比
	ctx.FitImage(data, canvas.RectFromSize(img.X, img.Y, img.Width, img.Height), canvas.ImageFill)
	return nil
}

// drawLine 绘制线段（毫米单位）
func drawLine(ctx *canvas.Context, ln *layout.Line) {
	if ln == nil {
		return
	}
	w := ln.Width
	if w <= 0 {
		w = defaultStrokeWidth
	}
	ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	ctx.SetStrokeColor(colorFromLayout(ln.Color))
	ctx.SetStrokeWidth(w)
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
	ctx.DrawPath(ln.X1, ln.Y1, p)
}

// drawRect 绘制矩形：有填充色时只填充，否则只描边。
func drawRect(ctx *canvas.Context, rc *layout.Rect) {
	if rc == nil || rc.Width <= 0 || rc.Height <= 0 {
		return
	}
	if rc.FillColor != nil {
		ctx.SetFillColor(colorFromLayout(*rc.FillColor))
		ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeWidth(0)
	} else {
		w := rc.StrokeWidth
		if w <= 0 {
			w = defaultStrokeWidth
		}
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeColor(colorFromLayout(rc.StrokeColor))
		ctx.SetStrokeWidth(w)
	}
	ctx.DrawPath(rc.X, rc.Y, canvas.Rectangle(rc.Width, rc.Height))
}

func (r *Renderer) fontFace(font layout.FontResource, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, colorFromLayout(col), style, canvas.FontNormal), nil
}

// ensureFontFamily 为每个 family+style 组合加载一次字体文件。
func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	style := parseFontStyle(font)
	key := font.Family + "|" + font.Style

	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[key]; ok {
		return family, style, nil
	}
	data, err := fonts.Load(font.Family, font.Style)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily(key)
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("加载字体 %s 失败: %w", key, err)
	}
	r.fontFamilies[key] = family
	return family, style, nil
}

func parseFontStyle(font layout.FontResource) canvas.FontStyle {
	style := canvas.FontRegular
	if font.Bold() {
		style = canvas.FontBold
	}
	if font.Italic() {
		style |= canvas.FontItalic
	}
	return style
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// greedyWrap 优先在空白处分割，单词超过限制时在词内拆分；显式换行总是生效。
// 软换行处的空白会被丢弃，与 fpdf 的 MultiCell 行为一致。
func greedyWrap(content string, width float64, face *canvas.FontFace, wrap string) []layout.TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	if wrap == "nowrap" {
		parts := strings.Split(content, "\n")
		lines := make([]layout.TextLine, 0, len(parts))
		for _, p := range parts {
			lines = append(lines, layout.TextLine{Content: p, Width: face.TextWidth(p)})
		}
		return lines
	}

	var lines []layout.TextLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		str := strings.TrimRightFunc(builder.String(), unicode.IsSpace)
		if str == "" && !force {
			builder.Reset()
			currentWidth = 0
			return
		}
		lines = append(lines, layout.TextLine{Content: str, Width: face.TextWidth(str)})
		builder.Reset()
		currentWidth = 0
	}

	appendToken := func(token string) {
		builder.WriteString(token)
		currentWidth += face.TextWidth(token)
	}

	for _, token := range tokenize(content) {
		if token == "\n" {
			emit(true)
			continue
		}
		isSpace := strings.TrimSpace(token) == ""
		if isSpace && builder.Len() == 0 && len(lines) > 0 {
			// 软换行后的行首空白
			continue
		}

		tokenWidth := face.TextWidth(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit {
			emit(false)
			if isSpace {
				continue
			}
		}
		if tokenWidth <= limit {
			appendToken(token)
			continue
		}

		for _, chunk := range splitByWidth(token, limit, face) {
			chunkWidth := face.TextWidth(chunk)
			if currentWidth > 0 && currentWidth+chunkWidth > limit {
				emit(false)
			}
			appendToken(chunk)
		}
	}

	emit(true)
	return lines
}

// tokenize 将文本拆成交替的空白/非空白片段，显式换行单独成为 "\n"。
func tokenize(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitByWidth(token string, limit float64, face *canvas.FontFace) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var current []rune
	for _, r := range token {
		current = append(current, r)
		if len(current) > 1 && face.TextWidth(string(current)) > limit {
			parts = append(parts, string(current[:len(current)-1]))
			current = current[len(current)-1:]
		}
	}
	if len(current) > 0 {
		parts = append(parts, string(current))
	}
	return parts
}
