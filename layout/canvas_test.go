package layout

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// stubTypesetter 是一个最小实现，仅用于测试：按显式换行分段，每段最多 wordsPerLine 个单词。
type stubTypesetter struct {
	wordsPerLine int
	err          error
}

func (s *stubTypesetter) LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error) {
	if s.err != nil {
		return nil, s.err
	}
	n := s.wordsPerLine
	if n <= 0 {
		n = 4
	}
	var lines []TextLine
	for _, para := range strings.Split(content, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, TextLine{Height: fontSize})
			continue
		}
		for i := 0; i < len(words); i += n {
			end := min(i+n, len(words))
			lines = append(lines, TextLine{Content: strings.Join(words[i:end], " "), Height: fontSize})
		}
	}
	return lines, nil
}

type stubAssets map[string]Asset

func (s stubAssets) Lookup(path string) (Asset, bool) {
	a, ok := s[path]
	return a, ok
}

type stubSerializer struct{ calls int }

func (s *stubSerializer) Render(res *Result) ([]byte, error) {
	s.calls++
	return []byte("%PDF-stub"), nil
}

func newTestCanvas(t *testing.T, assets AssetResolver) *Canvas {
	t.Helper()
	c, err := NewCanvas(CanvasOptions{Typesetter: &stubTypesetter{}, Assets: assets})
	if err != nil {
		t.Fatalf("NewCanvas: %v", err)
	}
	return c
}

func eq(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestNewCanvasRequiresTypesetter(t *testing.T) {
	if _, err := NewCanvas(CanvasOptions{}); err == nil {
		t.Fatalf("expected error without typesetter")
	}
}

func TestStartPageNumbersAndResetsCursor(t *testing.T) {
	c := newTestCanvas(t, nil)
	for want := 1; want <= 3; want++ {
		c.StartPage()
		if c.PageNo() != want {
			t.Fatalf("page number: got %d want %d", c.PageNo(), want)
		}
		x, y := c.Cursor()
		if !eq(x, 10) || !eq(y, 10) {
			t.Fatalf("cursor not reset on page %d: (%g,%g)", want, x, y)
		}
		c.SetCursor(80, 150)
	}
	res := c.Result()
	for i, p := range res.Pages {
		if p.Number != i+1 {
			t.Fatalf("page %d carries number %d", i+1, p.Number)
		}
	}
}

// TestHooksRunOncePerTransition 验证页脚在切换前作用于上一页、页眉作用于新页，关闭时补上最后一页页脚。
func TestHooksRunOncePerTransition(t *testing.T) {
	c := newTestCanvas(t, nil)
	var events []string
	c.OnPageStart(func(c *Canvas) {
		events = append(events, "start"+string(rune('0'+c.PageNo())))
		c.SetFillColor(184, 145, 70)
		c.DrawRect(0, 0, 210, 2, RectFill)
	})
	c.OnPageEnd(func(c *Canvas) {
		events = append(events, "end"+string(rune('0'+c.PageNo())))
		c.SetY(-15)
		c.WriteCell(0, 10, "footer", false, false, "C")
	})
	c.StartPage()
	c.StartPage()
	c.Close()
	c.Close()

	if got := strings.Join(events, ","); got != "start1,end1,start2,end2" {
		t.Fatalf("unexpected hook order: %s", got)
	}
	res := c.Result()
	for _, p := range res.Pages {
		if len(p.Elements) != 2 {
			t.Fatalf("page %d: expected 2 elements, got %d", p.Number, len(p.Elements))
		}
		if p.Elements[0].Role != RoleHeader || p.Elements[1].Role != RoleFooter {
			t.Fatalf("page %d: roles not tagged: %q %q", p.Number, p.Elements[0].Role, p.Elements[1].Role)
		}
		if footer := p.Elements[1].Text; !eq(footer.Y, 282) || footer.Align != AlignCenter {
			t.Fatalf("page %d: footer not positioned from bottom: %+v", p.Number, footer)
		}
	}
}

func TestHookStyleDoesNotLeak(t *testing.T) {
	c := newTestCanvas(t, nil)
	c.OnPageStart(func(c *Canvas) {
		c.SetFillColor(1, 2, 3)
		c.SetFont("helvetica", "I", 8)
	})
	c.SetFillColor(250, 250, 250)
	c.SetFont("helvetica", "B", 40)
	c.StartPage()
	c.DrawRect(0, 0, 10, 10, RectFill)
	c.WriteCell(0, 20, "THE ART OF", false, true, "C")

	els := c.Result().Pages[0].Elements
	if got := *els[0].Rect.FillColor; got != (Color{R: 250, G: 250, B: 250}) {
		t.Fatalf("fill colour leaked from header: %+v", got)
	}
	if els[1].Text.Font.Style != "B" || !eq(els[1].Text.SizePt(), 40) {
		t.Fatalf("font leaked from header: %+v size=%g", els[1].Text.Font, els[1].Text.SizePt())
	}
}

func TestStartPageInsideHookIsRejected(t *testing.T) {
	c := newTestCanvas(t, nil)
	c.OnPageStart(func(c *Canvas) {
		if c.PageNo() == 1 {
			c.StartPage()
		}
	})
	c.StartPage()
	if c.PageNo() != 1 {
		t.Fatalf("nested StartPage must not add pages, got %d", c.PageNo())
	}
	if c.Err() == nil {
		t.Fatalf("expected sticky error for nested StartPage")
	}
}

func TestColorsAreClamped(t *testing.T) {
	c := newTestCanvas(t, nil)
	c.StartPage()
	c.SetFillColor(-10, 300, 17)
	c.DrawRect(0, 0, 1, 1, RectFill)
	if got := *c.Result().Pages[0].Elements[0].Rect.FillColor; got != (Color{R: 0, G: 255, B: 17}) {
		t.Fatalf("colour not clamped: %+v", got)
	}
}

func TestDrawRectModes(t *testing.T) {
	c := newTestCanvas(t, nil)
	c.StartPage()
	c.SetFillColor(17, 17, 17)
	c.SetStrokeColor(184, 145, 70)
	c.SetLineWidth(0.5)
	c.DrawRect(0, 0, 210, 297, RectFill)
	c.DrawRect(5, 5, 200, 287, RectOutline)
	c.DrawRect(0, 0, -3, 4, RectOutline)

	els := c.Result().Pages[0].Elements
	if els[0].Kind != KindFillRect || els[0].Rect.FillColor == nil || els[0].Rect.StrokeWidth != 0 {
		t.Fatalf("fill rect: %+v", els[0].Rect)
	}
	if els[1].Kind != KindOutlineRect || els[1].Rect.FillColor != nil || !eq(els[1].Rect.StrokeWidth, 0.5) {
		t.Fatalf("outline rect: %+v", els[1].Rect)
	}
	if els[1].Rect.StrokeColor != (Color{R: 184, G: 145, B: 70}) {
		t.Fatalf("outline colour: %+v", els[1].Rect.StrokeColor)
	}
	if els[2].Rect.Width != 0 {
		t.Fatalf("negative width should clamp to 0, got %g", els[2].Rect.Width)
	}
}

// TestCellCursorArithmetic 覆盖单元格的宽度推算与光标推进规则。
func TestCellCursorArithmetic(t *testing.T) {
	c := newTestCanvas(t, nil)
	c.StartPage()

	c.WriteCell(0, 15, "TITLE", false, true, "L")
	if x, y := c.Cursor(); !eq(x, 10) || !eq(y, 25) {
		t.Fatalf("newline cell: cursor (%g,%g)", x, y)
	}

	c.SetX(20)
	c.WriteCell(180, 10, "01. Vision Discovery", false, false, "")
	if x, y := c.Cursor(); !eq(x, 200) || !eq(y, 25) {
		t.Fatalf("inline cell: cursor (%g,%g)", x, y)
	}
	c.Ln(10)
	if x, y := c.Cursor(); !eq(x, 10) || !eq(y, 35) {
		t.Fatalf("Ln: cursor (%g,%g)", x, y)
	}

	c.SetX(80)
	c.WriteCell(0, 5, "VISIT US", false, true, "")
	els := c.Result().Pages[0].Elements
	if !eq(els[0].Text.Width, 190) {
		t.Fatalf("w=0 cell should reach right margin: %g", els[0].Text.Width)
	}
	if !eq(els[2].Text.Width, 120) || !eq(els[2].Text.X, 80) {
		t.Fatalf("indented w=0 cell: x=%g w=%g", els[2].Text.X, els[2].Text.Width)
	}
}

func TestEmptyCellAdvancesWithoutElement(t *testing.T) {
	c := newTestCanvas(t, nil)
	c.StartPage()
	c.WriteCell(30, 10, "", false, false, "")
	if !eq(c.X(), 40) {
		t.Fatalf("empty cell should still advance, x=%g", c.X())
	}
	if n := len(c.Result().Pages[0].Elements); n != 0 {
		t.Fatalf("empty cell should not draw, got %d elements", n)
	}
}

func TestWriteBlockWrapsAndAdvances(t *testing.T) {
	c := newTestCanvas(t, nil)
	c.StartPage()
	c.SetRightMargin(110)
	c.WriteBlock(0, 7, "one two three four five six seven")

	if x, y := c.Cursor(); !eq(x, 10) || !eq(y, 24) {
		t.Fatalf("cursor after block: (%g,%g)", x, y)
	}
	tb := c.Result().Pages[0].Elements[0].Text
	if !eq(tb.Width, 90) {
		t.Fatalf("block width should respect right margin: %g", tb.Width)
	}
	if len(tb.Lines) != 2 || !eq(tb.Height, 14) {
		t.Fatalf("unexpected block: lines=%d height=%g", len(tb.Lines), tb.Height)
	}
	for _, ln := range tb.Lines {
		if !eq(ln.Height, 7) || ln.GapBefore != 0 {
			t.Fatalf("line metrics not normalised: %+v", ln)
		}
	}
}

func TestWriteBlockEmptyHasZeroHeight(t *testing.T) {
	c := newTestCanvas(t, nil)
	c.StartPage()
	c.SetX(80)
	c.WriteBlock(0, 8, "")
	if x, y := c.Cursor(); !eq(x, 10) || !eq(y, 10) {
		t.Fatalf("empty block moved cursor: (%g,%g)", x, y)
	}
	if n := len(c.Result().Pages[0].Elements); n != 0 {
		t.Fatalf("empty block should not draw, got %d elements", n)
	}
}

func TestWriteBlockRecordsTypesetterError(t *testing.T) {
	boom := errors.New("boom")
	c, err := NewCanvas(CanvasOptions{Typesetter: &stubTypesetter{err: boom}})
	if err != nil {
		t.Fatalf("NewCanvas: %v", err)
	}
	c.StartPage()
	c.WriteBlock(0, 7, "text")
	c.WriteBlock(0, 7, "more")
	if !errors.Is(c.Err(), boom) {
		t.Fatalf("expected typesetter error, got %v", c.Err())
	}
	if err := c.Save(filepath.Join(t.TempDir(), "out.pdf"), &stubSerializer{}); !errors.Is(err, boom) {
		t.Fatalf("Save should surface sticky error, got %v", err)
	}
}

func TestDrawBeforeStartPageIsRecorded(t *testing.T) {
	c := newTestCanvas(t, nil)
	c.DrawLine(0, 0, 1, 1)
	if c.Err() == nil {
		t.Fatalf("expected error when drawing without a page")
	}
}

func TestPlaceImage(t *testing.T) {
	assets := stubAssets{
		"logo.png": {Path: "/abs/logo.png", Format: "png", Width: 400, Height: 200},
	}
	c := newTestCanvas(t, assets)
	c.StartPage()
	if !c.PlaceImage("logo.png", 55, 50, 100, 0) {
		t.Fatalf("present image not placed")
	}
	if c.PlaceImage("hero-1.png", 110, 55, 90, 60) {
		t.Fatalf("missing image reported as placed")
	}
	els := c.Result().Pages[0].Elements
	if len(els) != 1 {
		t.Fatalf("missing image must not add elements, got %d", len(els))
	}
	img := els[0].Image
	if img.Path != "/abs/logo.png" || !eq(img.Width, 100) || !eq(img.Height, 50) {
		t.Fatalf("unexpected image box: %+v", img)
	}
}

func TestPlaceImageWithoutResolverIsNoop(t *testing.T) {
	c := newTestCanvas(t, nil)
	c.StartPage()
	if c.PlaceImage("logo.png", 0, 0, 10, 10) {
		t.Fatalf("expected no-op without resolver")
	}
	if c.Err() != nil {
		t.Fatalf("missing asset must not be an error: %v", c.Err())
	}
}

func TestSaveWritesFile(t *testing.T) {
	c := newTestCanvas(t, nil)
	c.StartPage()
	s := &stubSerializer{}
	path := filepath.Join(t.TempDir(), "out.pdf")
	if err := c.Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "%PDF-stub" || s.calls != 1 {
		t.Fatalf("unexpected output %q calls=%d", data, s.calls)
	}
}

func TestSaveIntoMissingDirectoryFails(t *testing.T) {
	c := newTestCanvas(t, nil)
	c.StartPage()
	err := c.Save(filepath.Join(t.TempDir(), "missing", "out.pdf"), &stubSerializer{})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestDrawingAfterCloseIsRejected(t *testing.T) {
	c := newTestCanvas(t, nil)
	c.StartPage()
	c.Close()
	c.StartPage()
	if c.PageNo() != 1 || c.Err() == nil {
		t.Fatalf("closed canvas accepted a new page")
	}
}
