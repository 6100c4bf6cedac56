// Package fpdfrenderer 使用 PDF 标准核心字体（Helvetica 等）渲染画布结果，
// 不需要嵌入任何字体文件，生成的文件体积更小。
//
// 把 NewRenderer() 作为 backend 传给 brochure.Generate 即可替换默认的 canvas 后端：
//
//	brochure.Generate(brochure.DefaultConfig(), fpdfrenderer.NewRenderer(), logger)
//
// 核心字体只覆盖 cp1252，其余字符输出为 "."。
package fpdfrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/dinterio-brochure/layout"
	"github.com/ByLCY/dinterio-brochure/renderer"
)

const borderWidth = 0.2

// Renderer draws canvas results via github.com/jung-kurt/gofpdf.
type Renderer struct {
	mu      sync.Mutex
	measure *gofpdf.Fpdf
	tr      func(string) string
}

var _ renderer.Backend = (*Renderer)(nil)

// NewRenderer 创建基于核心字体的渲染器；内部保留一个仅用于度量文本的文档实例。
func NewRenderer() *Renderer {
	m := gofpdf.New("P", "mm", "A4", "")
	m.SetCellMargin(layout.CellPadding)
	return &Renderer{
		measure: m,
		tr:      m.UnicodeTranslatorFromDescriptor(""),
	}
}

// coreFamily 将画布字体族映射到 PDF 核心字体。
func coreFamily(font layout.FontResource) string {
	switch strings.ToLower(font.Family) {
	case "courier":
		return "Courier"
	case "times":
		return "Times"
	default:
		return "Helvetica"
	}
}

// LayoutLines 实现 layout.Typesetter，使用核心字体的字宽表折行。
// 返回的行内容保持 UTF-8，只在度量与绘制时转换为 cp1252。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64, wrap string) ([]layout.TextLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.measure.SetFont(coreFamily(font), font.Style, fontSize*layout.MmToPt)
	var lines []layout.TextLine
	for _, para := range strings.Split(strings.ReplaceAll(content, "\r", ""), "\n") {
		if wrap == "nowrap" {
			lines = append(lines, r.line(para, lineHeight))
			continue
		}
		for _, part := range r.wrap(para, width) {
			lines = append(lines, r.line(part, lineHeight))
		}
	}
	if err := r.measure.Error(); err != nil {
		return nil, fmt.Errorf("度量文本失败: %w", err)
	}
	return lines, nil
}

// width 返回 UTF-8 文本转换为 cp1252 后的宽度（mm）。
func (r *Renderer) width(s string) float64 {
	return r.measure.GetStringWidth(r.tr(s))
}

// wrap 按单词贪心折行，单词本身超宽时按字符切分。
func (r *Renderer) wrap(para string, width float64) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if r.width(candidate) <= width {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		for r.width(word) > width {
			cut := r.fitPrefix(word, width)
			lines = append(lines, word[:cut])
			word = word[cut:]
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// fitPrefix 返回 word 中不超过 width 的最长前缀的字节长度，至少包含一个字符。
func (r *Renderer) fitPrefix(word string, width float64) int {
	cut := 0
	for i := 0; i < len(word); {
		_, size := utf8.DecodeRuneInString(word[i:])
		if r.width(word[:i+size]) > width {
			break
		}
		i += size
		cut = i
	}
	if cut == 0 {
		_, cut = utf8.DecodeRuneInString(word)
	}
	return cut
}

func (r *Renderer) line(content string, height float64) layout.TextLine {
	return layout.TextLine{
		Content: content,
		Width:   r.width(content),
		Height:  height,
	}
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	first := result.Pages[0]
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: first.Width, Ht: first.Height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCellMargin(layout.CellPadding)
	applyMeta(doc, result.Meta)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	for _, page := range result.Pages {
		doc.AddPageFormat("P", gofpdf.SizeType{Wd: page.Width, Ht: page.Height})
		for _, el := range page.Elements {
			if err := drawElement(doc, tr, el); err != nil {
				return nil, fmt.Errorf("第 %d 页: %w", page.Number, err)
			}
		}
		if err := doc.Error(); err != nil {
			return nil, fmt.Errorf("第 %d 页: %w", page.Number, err)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(doc *gofpdf.Fpdf, meta layout.DocumentMeta) {
	doc.SetTitle(meta.Title, true)
	doc.SetAuthor(meta.Author, true)
	doc.SetSubject(meta.Subject, true)
	doc.SetCreator(meta.Creator, true)
	doc.SetKeywords(strings.Join(meta.Keywords, ", "), true)
}

func drawElement(doc *gofpdf.Fpdf, tr func(string) string, el layout.Element) error {
	switch el.Kind {
	case layout.KindFillRect:
		c := el.Rect.FillColor
		doc.SetFillColor(c.R, c.G, c.B)
		doc.Rect(el.Rect.X, el.Rect.Y, el.Rect.Width, el.Rect.Height, "F")
	case layout.KindOutlineRect:
		c := el.Rect.StrokeColor
		doc.SetDrawColor(c.R, c.G, c.B)
		doc.SetLineWidth(el.Rect.StrokeWidth)
		doc.Rect(el.Rect.X, el.Rect.Y, el.Rect.Width, el.Rect.Height, "D")
	case layout.KindLine:
		c := el.Line.Color
		doc.SetDrawColor(c.R, c.G, c.B)
		doc.SetLineWidth(el.Line.Width)
		doc.Line(el.Line.X1, el.Line.Y1, el.Line.X2, el.Line.Y2)
	case layout.KindImage:
		return drawImage(doc, el.Image)
	case layout.KindTextCell, layout.KindTextBlock:
		drawText(doc, tr, el.Text)
	default:
		return fmt.Errorf("未知的元素类型 %q", el.Kind)
	}
	return nil
}

func drawText(doc *gofpdf.Fpdf, tr func(string) string, tb *layout.TextBox) {
	doc.SetFont(coreFamily(tb.Font), tb.Font.Style, tb.SizePt())
	doc.SetTextColor(tb.Color.R, tb.Color.G, tb.Color.B)
	border := ""
	if tb.Border {
		doc.SetDrawColor(0, 0, 0)
		doc.SetLineWidth(borderWidth)
		border = "1"
	}
	if len(tb.Lines) == 0 {
		doc.SetXY(tb.X, tb.Y)
		doc.CellFormat(tb.Width, tb.Height, tr(tb.Content), border, 0, alignStr(tb.Align), false, 0, "")
		return
	}
	y := tb.Y
	for _, line := range tb.Lines {
		doc.SetXY(tb.X, y)
		doc.CellFormat(tb.Width, line.Height, tr(line.Content), "", 0, alignStr(tb.Align), false, 0, "")
		y += line.Height
	}
}

func alignStr(align string) string {
	switch align {
	case layout.AlignCenter:
		return "C"
	case layout.AlignRight:
		return "R"
	default:
		return "L"
	}
}

// drawImage 直接注册 PNG/JPEG/GIF；其他格式（如 WebP）先解码再转成 PNG。
func drawImage(doc *gofpdf.Fpdf, img *layout.ImageBox) error {
	opts := gofpdf.ImageOptions{}
	switch img.Format {
	case "png":
		opts.ImageType = "PNG"
	case "jpeg":
		opts.ImageType = "JPG"
	case "gif":
		opts.ImageType = "GIF"
	default:
		if err := registerAsPNG(doc, img.Path); err != nil {
			return err
		}
		opts.ImageType = "PNG"
	}
	doc.ImageOptions(img.Path, img.X, img.Y, img.Width, img.Height, false, opts, 0, "")
	return doc.Error()
}

func registerAsPNG(doc *gofpdf.Fpdf, path string) error {
	if info := doc.GetImageInfo(path); info != nil {
		return nil
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("读取图片 %s 失败: %w", path, err)
	}
	defer file.Close()
	data, _, err := image.Decode(file)
	if err != nil {
		return fmt.Errorf("解码图片 %s 失败: %w", path, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, data); err != nil {
		return fmt.Errorf("转换图片 %s 失败: %w", path, err)
	}
	doc.RegisterImageOptionsReader(path, gofpdf.ImageOptions{ImageType: "PNG"}, &buf)
	return doc.Error()
}
