package terminal

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/snipvault/internal/input"
	"github.com/dshills/snipvault/internal/match"
	"github.com/dshills/snipvault/internal/session"
	"github.com/dshills/snipvault/internal/snippet"
)

func newSim(t *testing.T, w, h int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	term := NewWithScreen(sim)
	require.NoError(t, term.Init())
	sim.SetSize(w, h)
	t.Cleanup(term.Close)
	return term, sim
}

// nextKey returns the next non-resize event.
func nextKey(t *testing.T, term *Terminal) input.Event {
	t.Helper()
	for {
		ev, err := term.NextEvent(context.Background())
		require.NoError(t, err)
		if ev.Kind != input.KindResize {
			return ev
		}
	}
}

func rowText(sim tcell.SimulationScreen, y int) string {
	cells, w, _ := sim.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteString(string(c.Runes))
	}
	return strings.TrimRight(b.String(), " ")
}

func TestLayout(t *testing.T) {
	small := computeLayout(6)
	assert.Equal(t, 4, small.listRows)
	assert.Zero(t, small.previewRows)

	tiny := computeLayout(1)
	assert.Equal(t, 1, tiny.listRows)

	big := computeLayout(24)
	assert.Equal(t, 11, big.listRows)
	assert.Equal(t, 14, big.previewTop)
	assert.Equal(t, 10, big.previewRows)
}

func TestKeyMapping(t *testing.T) {
	term, sim := newSim(t, 40, 10)

	tests := []struct {
		key  tcell.Key
		r    rune
		mod  tcell.ModMask
		want input.Event
	}{
		{tcell.KeyRune, 'g', tcell.ModNone, input.Character('g')},
		{tcell.KeyEnter, 0, tcell.ModNone, input.Key(input.KindConfirm)},
		{tcell.KeyEscape, 0, tcell.ModNone, input.Key(input.KindCancel)},
		{tcell.KeyUp, 0, tcell.ModNone, input.Key(input.KindUp)},
		{tcell.KeyCtrlN, 0, tcell.ModCtrl, input.Key(input.KindDown)},
		{tcell.KeyPgDn, 0, tcell.ModNone, input.Key(input.KindPageDown)},
		{tcell.KeyBackspace2, 0, tcell.ModNone, input.Key(input.KindBackspace)},
		{tcell.KeyCtrlU, 0, tcell.ModCtrl, input.Key(input.KindClear)},
	}

	for _, tt := range tests {
		sim.InjectKey(tt.key, tt.r, tt.mod)
		assert.Equal(t, tt.want, nextKey(t, term))
	}
}

func TestUnmappedKeysAreSkipped(t *testing.T) {
	term, sim := newSim(t, 40, 10)

	sim.InjectKey(tcell.KeyF5, 0, tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'x', tcell.ModAlt)
	sim.InjectKey(tcell.KeyRune, 'y', tcell.ModNone)

	assert.Equal(t, input.Character('y'), nextKey(t, term))
}

func TestNextEventContextCancel(t *testing.T) {
	term, _ := newSim(t, 40, 10)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	var err error
	for err == nil {
		_, err = term.NextEvent(ctx)
	}
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNextEventAfterClose(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	term := NewWithScreen(sim)
	require.NoError(t, term.Init())
	term.Close()
	term.Close()

	_, err := term.NextEvent(context.Background())
	assert.ErrorIs(t, err, input.ErrClosed)
}

func TestRender(t *testing.T) {
	term, sim := newSim(t, 40, 12)

	store, err := snippet.Load([]snippet.Entry{
		{Name: "greet", Body: "echo hello\n\techo again", Language: "bash"},
		{Name: "greet2", Body: "echo hi", Tags: []string{"salutation"}},
		{Name: "docker", Body: "docker ps"},
	}, snippet.Reject)
	require.NoError(t, err)

	s := session.New(match.NewEngine(store, match.DefaultOptions()), term.Rows())
	for _, ev := range input.Text("gre") {
		s.Handle(ev)
	}
	s.Handle(input.Key(input.KindDown))

	term.Render(s.Frame())

	assert.Equal(t, "> gre", rowText(sim, 0))
	assert.Equal(t, "2/2", strings.TrimSpace(rowText(sim, 1)))
	assert.Equal(t, "  greet  [bash]", rowText(sim, 2))
	assert.Equal(t, "> greet2 #salutation", rowText(sim, 3))

	// 12 rows: 5 list rows, separator at 7, preview from 8.
	assert.True(t, strings.HasPrefix(rowText(sim, 7), "── greet2 ─"))
	assert.Equal(t, "echo hi", rowText(sim, 8))

	cells, w, _ := sim.GetContents()
	_, _, attrs := cells[3*w+2].Style.Decompose()
	assert.NotZero(t, attrs&tcell.AttrReverse, "selected row is reversed")
	_, _, attrs = cells[2*w+2].Style.Decompose()
	assert.NotZero(t, attrs&tcell.AttrBold, "matched runes are highlighted")
}

func TestRenderClipsLongNames(t *testing.T) {
	term, sim := newSim(t, 10, 4)

	store, err := snippet.Load([]snippet.Entry{{Name: "a-very-long-snippet-name"}}, snippet.Reject)
	require.NoError(t, err)
	s := session.New(match.NewEngine(store, match.DefaultOptions()), term.Rows())

	term.Render(s.Frame())
	assert.Equal(t, "> a-very-l", rowText(sim, 2))
}

func TestRenderAfterCloseIsNoop(t *testing.T) {
	term, _ := newSim(t, 10, 4)
	term.Close()
	assert.NotPanics(t, func() { term.Render(session.Frame{}) })
}
