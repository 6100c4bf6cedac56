package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	contentLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[:;,]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	contentParser = participle.MustBuild[Document](
		participle.Lexer(contentLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node for a brochure content file.
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'brochure' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section represents a top-level section (meta/palette/images/table/list/text).
type Section struct {
	Meta    *MetaSection    `parser:"  @@"`
	Palette *PaletteSection `parser:"| @@"`
	Images  *ImagesSection  `parser:"| @@"`
	Table   *TableSection   `parser:"| @@"`
	List    *ListSection    `parser:"| @@"`
	Text    *TextSection    `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Palette != nil:
		return "palette"
	case s.Images != nil:
		return "images"
	case s.Table != nil:
		return "table"
	case s.List != nil:
		return "list"
	case s.Text != nil:
		return "text"
	default:
		return "unknown"
	}
}

// MetaSection captures document metadata assignments.
type MetaSection struct {
	Entries []*Assignment `parser:"'meta' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Assignment uses colon syntax (key: "value").
type Assignment struct {
	Key   string        `parser:"@Ident ':'"`
	Value StringLiteral `parser:"@String"`
}

// PaletteSection declares named brand colors.
type PaletteSection struct {
	Colors []*ColorDef `parser:"'palette' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// ColorDef binds a name to a hex color literal.
type ColorDef struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"'color' @Ident"`
	Value string         `parser:"@Color"`
}

// ImagesSection declares optional raster assets by name.
type ImagesSection struct {
	Images []*ImageDef `parser:"'images' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// ImageDef binds a name to a relative asset path.
type ImageDef struct {
	Name string        `parser:"'image' @Ident"`
	Path StringLiteral `parser:"@String"`
}

// TableSection is an ordered list of (title, description) pairs.
type TableSection struct {
	Name    string   `parser:"'table' @Ident"`
	Entries []*Entry `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Entry is one table row; the description may continue on the next line.
type Entry struct {
	Title       StringLiteral `parser:"'entry' @String ','? Newline*"`
	Description StringLiteral `parser:"@String"`
}

// ListSection is an ordered list of plain strings.
type ListSection struct {
	Name  string  `parser:"'list' @Ident"`
	Items []*Item `parser:"'{' Newline* ( @@ ( ',' | ';' | Newline )* )* '}'"`
}

// Item wraps a single string literal.
type Item struct {
	Value StringLiteral `parser:"@String"`
}

// TextSection is a named piece of copy; adjacent literals are concatenated.
type TextSection struct {
	Name  string  `parser:"'text' @Ident"`
	Parts []*Item `parser:"'{' Newline* ( @@ Newline* )+ '}'"`
}

// Joined returns the concatenation of all literal parts.
func (t *TextSection) Joined() string {
	var out string
	for _, p := range t.Parts {
		out += string(p.Value)
	}
	return out
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses content from an io.Reader; name is used in error positions.
func Parse(name string, r io.Reader) (*Document, error) {
	return contentParser.Parse(name, r)
}

// ParseString parses content from a string.
func ParseString(input string) (*Document, error) {
	return contentParser.ParseString("", input)
}
