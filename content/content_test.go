package content

import (
	"strings"
	"testing"

	"github.com/ByLCY/dinterio-brochure/layout"
)

func TestLoadEmbeddedContent(t *testing.T) {
	b, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := len(b.Services); got != 4 {
		t.Fatalf("services: got %d want 4", got)
	}
	if got := len(b.Process); got != 5 {
		t.Fatalf("process steps: got %d want 5", got)
	}
	if got := len(b.Advantages); got != 6 {
		t.Fatalf("advantages: got %d want 6", got)
	}
	if got := len(b.Contact); got != 5 {
		t.Fatalf("contact entries: got %d want 5", got)
	}
	if b.Palette.Gold != (layout.Color{R: 184, G: 145, B: 70}) {
		t.Fatalf("gold: %+v", b.Palette.Gold)
	}
	if b.Palette.Dark != (layout.Color{R: 17, G: 17, B: 17}) {
		t.Fatalf("dark: %+v", b.Palette.Dark)
	}
	if b.Palette.TextGray != (layout.Color{R: 80, G: 80, B: 80}) {
		t.Fatalf("text gray: %+v", b.Palette.TextGray)
	}
	if b.Engagement != "MINIMUM PROJECT ENGAGEMENT: INR 50,00,000" {
		t.Fatalf("engagement: %q", b.Engagement)
	}
	if b.Contact[0].Description != "303, Kochar Towers, Begumpet,\nHyderabad, Telangana 500016" {
		t.Fatalf("visit us: %q", b.Contact[0].Description)
	}
	if !strings.Contains(b.FooterTemplate, "${page}") {
		t.Fatalf("footer template lacks page placeholder: %q", b.FooterTemplate)
	}
	if b.Images.Logo != "public/images/logo.png" || b.Images.People2 != "public/images/p-2.png" {
		t.Fatalf("images: %+v", b.Images)
	}
	if len(b.Meta.Keywords) != 4 {
		t.Fatalf("keywords: %v", b.Meta.Keywords)
	}
}

func TestParseReportsMissingSection(t *testing.T) {
	_, err := Parse("partial", `brochure P v1 { palette { color gold #B89146 } }`)
	if err == nil || !strings.Contains(err.Error(), "dark") {
		t.Fatalf("expected missing colour error, got %v", err)
	}
}

func TestParseRejectsDuplicateTable(t *testing.T) {
	src := `brochure P v1 {
  table services { entry "a", "b" }
  table services { entry "c", "d" }
}`
	_, err := Parse("dup", src)
	if err == nil || !strings.Contains(err.Error(), "重复") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}
