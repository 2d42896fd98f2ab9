package terminal

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/snipvault/internal/match"
	"github.com/dshills/snipvault/internal/session"
)

// Theme holds the styles used to draw the picker.
type Theme struct {
	Prompt   tcell.Style
	Text     tcell.Style
	Match    tcell.Style
	Selected tcell.Style
	Dim      tcell.Style
	Header   tcell.Style
}

// DefaultTheme returns the default styles.
func DefaultTheme() Theme {
	return Theme{
		Prompt:   tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true),
		Text:     tcell.StyleDefault,
		Match:    tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
		Selected: tcell.StyleDefault.Reverse(true),
		Dim:      tcell.StyleDefault.Dim(true),
		Header:   tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true),
	}
}

const (
	promptText = "> "
	tabWidth   = 4

	// minPreviewHeight is the smallest screen that gets a preview pane.
	minPreviewHeight = 8
)

// layout splits the screen height into regions. Rows 0 and 1 hold the
// prompt and the status line.
type layout struct {
	listTop     int
	listRows    int
	previewTop  int
	previewRows int
}

func computeLayout(height int) layout {
	l := layout{listTop: 2}
	body := height - 2

	if height < minPreviewHeight {
		l.listRows = max(1, body)
		return l
	}

	l.listRows = body / 2
	// One separator row sits between the list and the preview.
	l.previewTop = l.listTop + l.listRows + 1
	l.previewRows = height - l.previewTop
	return l
}

// Render draws f and flushes it to the screen.
func (t *Terminal) Render(f session.Frame) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}

	s := t.screen
	w, h := s.Size()
	l := computeLayout(h)
	th := t.theme

	s.Clear()

	// Prompt and cursor.
	x := drawString(s, 0, 0, w, promptText, th.Prompt)
	x = drawString(s, x, 0, w, f.Query, th.Text)
	s.ShowCursor(min(x, w-1), 0)

	// Status line.
	status := fmt.Sprintf("  %d/%d", min(f.Cursor+1, f.Total), f.Total)
	drawString(s, 0, 1, w, status, th.Dim)

	// Result list.
	for i, r := range f.Visible {
		if i >= l.listRows {
			break
		}
		y := l.listTop + i
		selected := f.Offset+i == f.Cursor
		t.drawRow(s, y, w, r, selected)
	}

	if l.previewRows > 0 {
		if hl, ok := f.Highlighted(); ok {
			t.drawPreview(s, l, w, hl)
		}
	}

	s.Show()
}

// drawRow draws one result: a marker, the name with match highlights,
// then language and tags.
func (t *Terminal) drawRow(s tcell.Screen, y, w int, r match.Result, selected bool) {
	th := t.theme
	base, hit, dim := th.Text, th.Match, th.Dim
	marker := "  "
	if selected {
		base = base.Reverse(true)
		hit = hit.Reverse(true)
		dim = dim.Reverse(true)
		marker = "> "
		// Fill the whole row so the selection bar spans the width.
		for x := 0; x < w; x++ {
			s.SetContent(x, y, ' ', nil, base)
		}
	}

	x := drawString(s, 0, y, w, marker, base)
	x = drawHighlighted(s, x, y, w, r.Snippet.Name, r.Spans, base, hit)

	var extra strings.Builder
	if r.Snippet.Language != "" {
		extra.WriteString("  [")
		extra.WriteString(r.Snippet.Language)
		extra.WriteString("]")
	}
	for _, tag := range r.Snippet.Tags {
		extra.WriteString(" #")
		extra.WriteString(tag)
	}
	drawString(s, x, y, w, extra.String(), dim)
}

// drawPreview draws a header row and as much of the body as fits.
func (t *Terminal) drawPreview(s tcell.Screen, l layout, w int, r match.Result) {
	th := t.theme
	header := "── " + r.Snippet.Name + " "
	x := drawString(s, 0, l.previewTop-1, w, header, th.Header)
	for ; x < w; x++ {
		s.SetContent(x, l.previewTop-1, '─', nil, th.Header)
	}

	lines := strings.Split(r.Snippet.Body, "\n")
	for i := 0; i < l.previewRows && i < len(lines); i++ {
		line := strings.ReplaceAll(lines[i], "\t", strings.Repeat(" ", tabWidth))
		drawString(s, 0, l.previewTop+i, w, line, th.Text)
	}
}

// drawString draws text from column x, clipped at maxX, and returns the
// column after the last cell drawn.
func drawString(s tcell.Screen, x, y, maxX int, text string, style tcell.Style) int {
	return drawHighlighted(s, x, y, maxX, text, nil, style, style)
}

// drawHighlighted draws text grapheme by grapheme. A grapheme uses hit when
// its first rune falls inside one of spans.
func drawHighlighted(s tcell.Screen, x, y, maxX int, text string, spans []match.Span, base, hit tcell.Style) int {
	runeIdx := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		runes := g.Runes()
		width := g.Width()
		if width == 0 {
			runeIdx += len(runes)
			continue
		}
		if x+width > maxX {
			break
		}

		style := base
		if inSpans(spans, runeIdx) {
			style = hit
		}
		s.SetContent(x, y, runes[0], runes[1:], style)

		x += width
		runeIdx += len(runes)
	}
	return x
}

func inSpans(spans []match.Span, i int) bool {
	for _, sp := range spans {
		if i >= sp.Start && i < sp.End {
			return true
		}
	}
	return false
}
