package render

import (
	"context"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ayusman/punchmoji/internal/game"
)

// TickInterval is the terminal tick period, 60 per second.
const TickInterval = time.Second / game.TicksPerSecond

// Terminal draws scenes onto a tcell screen. The camera image is not drawn.
type Terminal struct {
	screen tcell.Screen
	tick   func()
	scene  func() []Command
	canvas game.Bounds
}

// NewTerminal creates a Terminal on screen. Run initializes the screen.
func NewTerminal(screen tcell.Screen, tick func(), scene func() []Command) *Terminal {
	return &Terminal{
		screen: screen,
		tick:   tick,
		scene:  scene,
		canvas: game.DefaultBounds(),
	}
}

// Run ticks and draws until ctx is done or the player presses Esc, q or Ctrl-C.
func (t *Terminal) Run(ctx context.Context) error {
	if err := t.screen.Init(); err != nil {
		return err
	}
	defer t.screen.Fini()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()
	defer close(quit)

	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if IsQuitKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				t.screen.Sync()
			}
		case <-ticker.C:
			t.tick()
			t.Draw()
		}
	}
}

// IsQuitKey reports whether a key event ends the terminal session.
func IsQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

// Draw replays the current scene scaled onto the cell grid.
func (t *Terminal) Draw() {
	t.screen.Clear()

	cols, rows := t.screen.Size()
	for _, cmd := range t.scene() {
		text, ok := cmd.(Text)
		if !ok {
			continue
		}
		x, y := t.Cell(text.X, text.Y, cols, rows)
		style := tcell.StyleDefault.Foreground(cellColor(text))
		if text.Glyph() {
			drawGlyph(t.screen, x, y, cols, rows, text.Text, style)
		} else {
			drawString(t.screen, x, y, cols, rows, text.Text, style)
		}
	}

	t.screen.Show()
}

// Cell maps a canvas position to a cell on a cols x rows grid. Positions just
// off the left or top edge map to negative cells.
func (t *Terminal) Cell(x, y float64, cols, rows int) (int, int) {
	cx := math.Floor(x * float64(cols) / t.canvas.Width)
	cy := math.Floor(y * float64(rows) / t.canvas.Height)
	return int(cx), int(cy)
}

func cellColor(text Text) tcell.Color {
	a := text.Alpha
	switch {
	case a < 0:
		a = 0
	case a > 1:
		a = 1
	}
	c := text.Color
	return tcell.NewRGBColor(int32(float64(c.R)*a), int32(float64(c.G)*a), int32(float64(c.B)*a))
}

// drawGlyph puts a whole glyph, variation selectors included, in one cell.
func drawGlyph(s tcell.Screen, x, y, cols, rows int, glyph string, style tcell.Style) {
	if x < 0 || x >= cols || y < 0 || y >= rows {
		return
	}
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	s.SetContent(x, y, runes[0], runes[1:], style)
}

const variationSelector = '\uFE0F'

func drawString(s tcell.Screen, x, y, cols, rows int, str string, style tcell.Style) {
	if y < 0 || y >= rows {
		return
	}
	for _, r := range str {
		if r == variationSelector {
			continue
		}
		if x >= cols {
			return
		}
		if x >= 0 {
			s.SetContent(x, y, r, nil, style)
		}
		x++
	}
}
