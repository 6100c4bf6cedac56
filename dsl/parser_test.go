package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/dinterio-brochure/dsl"
)

const sampleContent = `
// sample
brochure Sample v1 {
  meta {
    title: "Sample"; author: "Studio"
  }

  palette {
    color gold #B89146
    color dark #111
  }

  images {
    image logo "public/images/logo.png"
  }

  text intro {
    "first half, "
    "second half"
  }

  table steps {
    entry "01. One", "First step."
    entry "02. Two",
      "Second step\nwith a break."
  }

  list perks {
    "A", "B"
    "C"
  }
}
`

func TestParseContent(t *testing.T) {
	doc, err := dsl.ParseString(sampleContent)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Sample" || doc.Version != "v1" {
		t.Fatalf("unexpected header: %s %s", doc.Name, doc.Version)
	}

	var kinds []string
	for _, s := range doc.Sections {
		kinds = append(kinds, s.Kind())
	}
	if got := strings.Join(kinds, ","); got != "meta,palette,images,text,table,list" {
		t.Fatalf("unexpected section order: %s", got)
	}

	meta := doc.Sections[0].Meta
	if len(meta.Entries) != 2 || meta.Entries[1].Key != "author" || meta.Entries[1].Value != "Studio" {
		t.Fatalf("unexpected meta entries: %+v", meta.Entries)
	}

	palette := doc.Sections[1].Palette
	if len(palette.Colors) != 2 || palette.Colors[0].Value != "#B89146" || palette.Colors[1].Value != "#111" {
		t.Fatalf("unexpected palette: %+v", palette.Colors)
	}

	if got := doc.Sections[3].Text.Joined(); got != "first half, second half" {
		t.Fatalf("text parts not concatenated: %q", got)
	}

	table := doc.Sections[4].Table
	if table.Name != "steps" || len(table.Entries) != 2 {
		t.Fatalf("unexpected table: %+v", table)
	}
	if table.Entries[1].Description != "Second step\nwith a break." {
		t.Fatalf("escape sequences not unquoted: %q", table.Entries[1].Description)
	}

	list := doc.Sections[5].List
	if len(list.Items) != 3 || list.Items[2].Value != "C" {
		t.Fatalf("unexpected list: %+v", list.Items)
	}
}

func TestParseRejectsUnknownSection(t *testing.T) {
	_, err := dsl.ParseString(`brochure X v1 { chart sales { } }`)
	if err == nil {
		t.Fatalf("expected parse error for unknown section")
	}
}
