// Package content 加载随程序嵌入的宣传册文案、品牌色与图片路径。
package content

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/ByLCY/dinterio-brochure/dsl"
	"github.com/ByLCY/dinterio-brochure/layout"
)

//go:embed dinterio.brochure
var source string

// Entry 是内容表中的一行（标题 + 描述）。
type Entry struct {
	Title       string
	Description string
}

// Table 是有序的 (title, description) 列表，用于生成重复的版块。
type Table []Entry

// Palette 保存品牌色。
type Palette struct {
	Gold     layout.Color
	Dark     layout.Color
	White    layout.Color
	Gray     layout.Color
	TextGray layout.Color
	Cover    layout.Color
}

// Images 保存可选图片的相对路径。
type Images struct {
	Logo    string
	Hero1   string
	Hero2   string
	Hero3   string
	People1 string
	People2 string
}

// Brochure 是六页宣传册需要的全部静态内容。
type Brochure struct {
	Meta    layout.DocumentMeta
	Palette Palette
	Images  Images

	CoverKicker  string
	CoverTitle   string
	CoverTagline string
	CoverFooter  string

	// FooterTemplate 支持 ${page} 占位符。
	FooterTemplate string

	PhilosophyTitle   string
	PhilosophyIntro   string
	PhilosophyDetails string
	Engagement        string
	EngagementNote    string

	ServicesTitle string
	Services      Table

	ProcessTitle string
	Process      Table

	AdvantagesTitle string
	Advantages      []string
	Timeline        string

	ContactTitle string
	ContactIntro string
	Contact      Table
}

// Load 解析嵌入的内容文件。
func Load() (*Brochure, error) {
	return Parse("dinterio.brochure", source)
}

// Parse 解析给定的内容文本，并检查所有版块都已声明。
func Parse(name, input string) (*Brochure, error) {
	doc, err := dsl.Parse(name, strings.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("解析内容文件 %s 失败: %w", name, err)
	}
	idx, err := index(doc)
	if err != nil {
		return nil, err
	}

	b := &Brochure{Meta: idx.meta}
	colors := []struct {
		name string
		dst  *layout.Color
	}{
		{"gold", &b.Palette.Gold},
		{"dark", &b.Palette.Dark},
		{"white", &b.Palette.White},
		{"gray", &b.Palette.Gray},
		{"text-gray", &b.Palette.TextGray},
		{"cover", &b.Palette.Cover},
	}
	for _, c := range colors {
		if *c.dst, err = idx.color(c.name); err != nil {
			return nil, err
		}
	}

	images := []struct {
		name string
		dst  *string
	}{
		{"logo", &b.Images.Logo},
		{"hero-1", &b.Images.Hero1},
		{"hero-2", &b.Images.Hero2},
		{"hero-3", &b.Images.Hero3},
		{"people-1", &b.Images.People1},
		{"people-2", &b.Images.People2},
	}
	for _, img := range images {
		if *img.dst, err = idx.image(img.name); err != nil {
			return nil, err
		}
	}

	texts := []struct {
		name string
		dst  *string
	}{
		{"cover-kicker", &b.CoverKicker},
		{"cover-title", &b.CoverTitle},
		{"cover-tagline", &b.CoverTagline},
		{"cover-footer", &b.CoverFooter},
		{"footer", &b.FooterTemplate},
		{"philosophy-title", &b.PhilosophyTitle},
		{"philosophy-intro", &b.PhilosophyIntro},
		{"philosophy-details", &b.PhilosophyDetails},
		{"engagement", &b.Engagement},
		{"engagement-note", &b.EngagementNote},
		{"services-title", &b.ServicesTitle},
		{"process-title", &b.ProcessTitle},
		{"advantages-title", &b.AdvantagesTitle},
		{"timeline", &b.Timeline},
		{"contact-title", &b.ContactTitle},
		{"contact-intro", &b.ContactIntro},
	}
	for _, t := range texts {
		if *t.dst, err = idx.text(t.name); err != nil {
			return nil, err
		}
	}

	if b.Services, err = idx.table("services"); err != nil {
		return nil, err
	}
	if b.Process, err = idx.table("process"); err != nil {
		return nil, err
	}
	if b.Contact, err = idx.table("contact"); err != nil {
		return nil, err
	}
	if b.Advantages, err = idx.list("advantages"); err != nil {
		return nil, err
	}
	return b, nil
}

type docIndex struct {
	meta   layout.DocumentMeta
	colors map[string]string
	images map[string]string
	texts  map[string]string
	tables map[string]Table
	lists  map[string][]string
}

// index 把 AST 按名称归档；同名版块重复声明视为错误。
func index(doc *dsl.Document) (*docIndex, error) {
	idx := &docIndex{
		colors: map[string]string{},
		images: map[string]string{},
		texts:  map[string]string{},
		tables: map[string]Table{},
		lists:  map[string][]string{},
	}
	for _, sec := range doc.Sections {
		switch {
		case sec.Meta != nil:
			for _, a := range sec.Meta.Entries {
				applyMeta(&idx.meta, a.Key, string(a.Value))
			}
		case sec.Palette != nil:
			for _, c := range sec.Palette.Colors {
				if err := putOnce(idx.colors, "color", c.Name, c.Value); err != nil {
					return nil, err
				}
			}
		case sec.Images != nil:
			for _, img := range sec.Images.Images {
				if err := putOnce(idx.images, "image", img.Name, string(img.Path)); err != nil {
					return nil, err
				}
			}
		case sec.Text != nil:
			if err := putOnce(idx.texts, "text", sec.Text.Name, sec.Text.Joined()); err != nil {
				return nil, err
			}
		case sec.Table != nil:
			rows := make(Table, 0, len(sec.Table.Entries))
			for _, e := range sec.Table.Entries {
				rows = append(rows, Entry{Title: string(e.Title), Description: string(e.Description)})
			}
			if err := putOnce(idx.tables, "table", sec.Table.Name, rows); err != nil {
				return nil, err
			}
		case sec.List != nil:
			items := make([]string, 0, len(sec.List.Items))
			for _, it := range sec.List.Items {
				items = append(items, string(it.Value))
			}
			if err := putOnce(idx.lists, "list", sec.List.Name, items); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("未知的内容段落 %s", sec.Kind())
		}
	}
	return idx, nil
}

func putOnce[T any](m map[string]T, kind, name string, v T) error {
	if _, ok := m[name]; ok {
		return fmt.Errorf("%s %s 重复声明", kind, name)
	}
	m[name] = v
	return nil
}

func applyMeta(meta *layout.DocumentMeta, key, value string) {
	switch key {
	case "title":
		meta.Title = value
	case "author":
		meta.Author = value
	case "subject":
		meta.Subject = value
	case "creator":
		meta.Creator = value
	case "keywords":
		for _, kw := range strings.Split(value, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				meta.Keywords = append(meta.Keywords, kw)
			}
		}
	}
}

func (idx *docIndex) color(name string) (layout.Color, error) {
	raw, ok := idx.colors[name]
	if !ok {
		return layout.Color{}, fmt.Errorf("缺少颜色 %s", name)
	}
	c, err := layout.ParseHexColor(raw)
	if err != nil {
		return layout.Color{}, fmt.Errorf("颜色 %s: %w", name, err)
	}
	return c, nil
}

func (idx *docIndex) image(name string) (string, error) {
	if p, ok := idx.images[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("缺少图片 %s", name)
}

func (idx *docIndex) text(name string) (string, error) {
	if t, ok := idx.texts[name]; ok {
		return t, nil
	}
	return "", fmt.Errorf("缺少文案 %s", name)
}

func (idx *docIndex) table(name string) (Table, error) {
	if t, ok := idx.tables[name]; ok && len(t) > 0 {
		return t, nil
	}
	return nil, fmt.Errorf("缺少内容表 %s", name)
}

func (idx *docIndex) list(name string) ([]string, error) {
	if l, ok := idx.lists[name]; ok && len(l) > 0 {
		return l, nil
	}
	return nil, fmt.Errorf("缺少列表 %s", name)
}
