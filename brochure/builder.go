// Package brochure 按固定脚本把宣传册内容绘制成六页。
package brochure

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ByLCY/dinterio-brochure/assets"
	"github.com/ByLCY/dinterio-brochure/binding"
	"github.com/ByLCY/dinterio-brochure/content"
	"github.com/ByLCY/dinterio-brochure/layout"
	"github.com/ByLCY/dinterio-brochure/renderer"
)

const fontFamily = "helvetica"

// Builder 持有内容与日志，负责在画布上逐页绘制。
type Builder struct {
	content *content.Brochure
	logger  *zap.Logger
}

// NewBuilder 创建 Builder；logger 为 nil 时不输出日志。
func NewBuilder(b *content.Brochure, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{content: b, logger: logger}
}

// Build 注册页眉页脚并依次绘制六页，返回画布记录的第一个错误。
func (b *Builder) Build(c *layout.Canvas) error {
	if b.content == nil {
		return fmt.Errorf("宣传册内容为空")
	}
	c.OnPageStart(b.header)
	c.OnPageEnd(b.footer)
	c.SetMargins(10, 10, 10)

	b.cover(c)
	b.philosophy(c)
	b.services(c)
	b.process(c)
	b.advantages(c)
	b.contact(c)
	c.Close()
	return c.Err()
}

// header 在除封面外的每页顶部绘制一条金色细条。
func (b *Builder) header(c *layout.Canvas) {
	if c.PageNo() <= 1 {
		return
	}
	w, _ := c.PageSize()
	c.SetFillRGB(b.content.Palette.Gold)
	c.DrawRect(0, 0, w, 2, layout.RectFill)
}

// footer 在除封面外的每页底部居中写出带页码的页脚。
func (b *Builder) footer(c *layout.Canvas) {
	if c.PageNo() <= 1 {
		return
	}
	c.SetY(-15)
	c.SetFont(fontFamily, "I", 8)
	c.SetTextRGB(b.content.Palette.Gold)
	text := binding.Interpolate(b.content.FooterTemplate, map[string]any{"page": c.PageNo()})
	c.WriteCell(0, 10, text, false, false, layout.AlignCenter)
}

func (b *Builder) sectionTitle(c *layout.Canvas, title string) {
	c.SetFont(fontFamily, "B", 24)
	c.SetTextRGB(b.content.Palette.Dark)
	c.WriteCell(0, 15, strings.ToUpper(title), false, true, layout.AlignLeft)
	c.SetStrokeRGB(b.content.Palette.Gold)
	c.SetLineWidth(1)
	x, y := c.Cursor()
	c.DrawLine(x, y, x+40, y)
	c.Ln(10)
}

func (b *Builder) bodyText(c *layout.Canvas, text string) {
	c.SetFont(fontFamily, "", 11)
	c.SetTextRGB(b.content.Palette.TextGray)
	c.WriteBlock(0, 7, text)
	c.Ln(5)
}

// image 放置可选图片，缺失时仅记录日志。
func (b *Builder) image(c *layout.Canvas, path string, x, y, w, h float64) {
	if !c.PlaceImage(path, x, y, w, h) {
		b.logger.Debug("可选图片缺失，已跳过", zap.String("path", path), zap.Int("page", c.PageNo()))
	}
}

func (b *Builder) cover(c *layout.Canvas) {
	p := b.content.Palette
	c.StartPage()
	w, h := c.PageSize()
	c.SetFillRGB(p.Cover)
	c.DrawRect(0, 0, w, h, layout.RectFill)

	c.SetStrokeRGB(p.Gold)
	c.SetLineWidth(0.5)
	c.DrawRect(5, 5, w-10, h-10, layout.RectOutline)

	b.image(c, b.content.Images.Logo, 55, 50, 100, 0)

	c.SetY(150)
	c.SetFont(fontFamily, "B", 40)
	c.SetTextRGB(p.Dark)
	c.WriteCell(0, 20, b.content.CoverKicker, false, true, layout.AlignCenter)
	c.SetTextRGB(p.Gold)
	c.WriteCell(0, 15, b.content.CoverTitle, false, true, layout.AlignCenter)

	c.SetY(200)
	c.SetFont(fontFamily, "", 16)
	c.SetTextRGB(p.TextGray)
	c.WriteCell(0, 10, b.content.CoverTagline, false, true, layout.AlignCenter)

	c.SetY(250)
	c.SetFont(fontFamily, "B", 12)
	c.SetTextRGB(p.Dark)
	c.WriteCell(0, 10, b.content.CoverFooter, false, true, layout.AlignCenter)
}

func (b *Builder) philosophy(c *layout.Canvas) {
	c.StartPage()
	b.sectionTitle(c, b.content.PhilosophyTitle)
	b.image(c, b.content.Images.Hero1, 110, 55, 90, 60)

	// 左栏文字，给右侧图片留出位置
	c.SetRightMargin(110)
	b.bodyText(c, b.content.PhilosophyIntro)
	b.bodyText(c, b.content.PhilosophyDetails)
	c.SetRightMargin(10)

	c.Ln(10)
	c.SetFont(fontFamily, "B", 14)
	c.SetTextRGB(b.content.Palette.Gold)
	c.WriteCell(0, 10, b.content.Engagement, false, false, layout.AlignLeft)
	c.Ln(10)
	b.bodyText(c, b.content.EngagementNote)
}

func (b *Builder) services(c *layout.Canvas) {
	p := b.content.Palette
	c.StartPage()
	b.sectionTitle(c, b.content.ServicesTitle)
	for _, svc := range b.content.Services {
		c.SetFont(fontFamily, "B", 13)
		c.SetTextRGB(p.Gold)
		c.WriteCell(0, 8, "- "+svc.Title, false, false, layout.AlignLeft)
		c.Ln(8)
		c.SetFont(fontFamily, "", 10)
		c.SetTextRGB(p.TextGray)
		c.WriteBlock(0, 6, svc.Description)
		c.Ln(4)
	}
	b.image(c, b.content.Images.Hero2, 10, 200, 190, 80)
}

func (b *Builder) process(c *layout.Canvas) {
	p := b.content.Palette
	c.StartPage()
	b.sectionTitle(c, b.content.ProcessTitle)
	for _, step := range b.content.Process {
		c.SetFillRGB(p.Gray)
		c.DrawRect(10, c.Y(), 190, 20, layout.RectFill)

		c.SetFont(fontFamily, "B", 12)
		c.SetTextRGB(p.Gold)
		c.SetX(20)
		c.WriteCell(180, 10, step.Title, false, false, layout.AlignLeft)
		c.Ln(10)

		c.SetFont(fontFamily, "", 9)
		c.SetTextRGB(p.TextGray)
		c.SetX(20)
		c.WriteCell(180, 5, step.Description, false, false, layout.AlignLeft)
		c.Ln(10)
	}
	b.image(c, b.content.Images.Hero3, 110, 30, 90, 60)
}

func (b *Builder) advantages(c *layout.Canvas) {
	p := b.content.Palette
	c.StartPage()
	w, h := c.PageSize()
	c.SetFillRGB(p.Dark)
	c.DrawRect(0, 0, w, h, layout.RectFill)

	c.SetY(60)
	c.SetFont(fontFamily, "B", 30)
	c.SetTextRGB(p.Gold)
	c.WriteCell(0, 20, b.content.AdvantagesTitle, false, false, layout.AlignCenter)
	c.Ln(20)

	c.SetFont(fontFamily, "", 18)
	c.SetTextRGB(p.White)
	for _, adv := range b.content.Advantages {
		c.WriteCell(0, 15, " - "+adv, false, false, layout.AlignCenter)
		c.Ln(15)
	}

	c.SetY(220)
	c.SetFont(fontFamily, "B", 14)
	c.SetTextRGB(p.Gold)
	c.WriteCell(0, 10, b.content.Timeline, false, false, layout.AlignCenter)
	c.Ln(10)
}

func (b *Builder) contact(c *layout.Canvas) {
	p := b.content.Palette
	c.StartPage()
	_, h := c.PageSize()
	c.SetFillRGB(p.Gray)
	c.DrawRect(0, 0, 70, h, layout.RectFill)

	c.SetY(50)
	c.SetFont(fontFamily, "B", 24)
	c.SetTextRGB(p.Dark)
	c.SetX(80)
	c.WriteCell(0, 15, b.content.ContactTitle, false, true, layout.AlignLeft)

	c.SetX(80)
	c.SetFont(fontFamily, "", 12)
	c.SetTextRGB(p.TextGray)
	c.WriteBlock(0, 8, b.content.ContactIntro)
	c.Ln(20)

	for _, entry := range b.content.Contact {
		c.SetX(80)
		c.SetFont(fontFamily, "B", 10)
		c.SetTextRGB(p.Gold)
		c.WriteCell(0, 5, entry.Title, false, true, layout.AlignLeft)

		c.SetX(80)
		c.SetFont(fontFamily, "", 11)
		c.SetTextRGB(p.Dark)
		c.WriteBlock(0, 7, entry.Description)
		c.Ln(5)
	}

	b.image(c, b.content.Images.People1, 10, 200, 50, 50)
	b.image(c, b.content.Images.People2, 80, 200, 110, 50)
}

// Compose 加载内置内容并在新画布上完成排版，不写文件。
func Compose(cfg Config, ts layout.Typesetter, logger *zap.Logger) (*layout.Canvas, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b, err := content.Load()
	if err != nil {
		return nil, err
	}
	store := assets.NewStore(cfg.AssetDir, assets.WithMissHook(func(path string, err error) {
		if err != nil {
			logger.Warn("图片无法读取，按缺失处理", zap.String("path", path), zap.Error(err))
		}
	}))
	c, err := layout.NewCanvas(layout.CanvasOptions{
		Typesetter: ts,
		Assets:     store,
		Meta:       b.Meta,
	})
	if err != nil {
		return nil, err
	}
	if err := NewBuilder(b, logger).Build(c); err != nil {
		return nil, fmt.Errorf("排版宣传册失败: %w", err)
	}
	return c, nil
}

// Generate 排版并通过 backend 输出 PDF 到 cfg.OutputPath，返回布局结果。
func Generate(cfg Config, backend renderer.Backend, logger *zap.Logger) (*layout.Result, error) {
	if backend == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c, err := Compose(cfg, backend, logger)
	if err != nil {
		return nil, err
	}
	if err := c.Save(cfg.OutputPath, backend); err != nil {
		return nil, err
	}
	res := c.Result()
	if cfg.DebugPath != "" {
		if err := layout.WriteDebugJSON(res, cfg.DebugPath); err != nil {
			return nil, err
		}
		logger.Debug("已写出布局调试文件", zap.String("path", cfg.DebugPath))
	}
	logger.Info("宣传册已生成", zap.String("path", cfg.OutputPath), zap.Int("pages", len(res.Pages)))
	return res, nil
}
