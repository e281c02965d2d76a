// Package render turns game snapshots into draw commands and replays them on
// a window or a terminal.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ayusman/punchmoji/internal/capture"
	"github.com/ayusman/punchmoji/internal/game"
)

// Glyphs that are not target kinds.
const (
	GloveGlyph = "🥊"
	SmokeGlyph = "💨"
)

var (
	Red   = color.RGBA{R: 255, A: 255}
	Green = color.RGBA{G: 255, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Smoke = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

// Sizes used by the scene.
const (
	StartSize     = 30
	CountdownSize = 20
	GloveSize     = 80
	SmokeSize     = 50
	EndSize       = 30
)

// Command is one draw instruction. It is either a Blit or a Text.
type Command interface {
	command()
}

// Blit draws an image at the canvas origin.
type Blit struct {
	Image *image.RGBA
}

// Text draws a string at a canvas position. Alpha is in [0, 1].
type Text struct {
	X, Y  float64
	Size  float64
	Color color.RGBA
	Alpha float64
	Text  string
}

func (Blit) command() {}
func (Text) command() {}

// Glyph reports whether the text is a single game glyph rather than a label.
func (t Text) Glyph() bool {
	switch t.Text {
	case GloveGlyph, SmokeGlyph, game.KindBlossom.Glyph(), game.KindSnowflake.Glyph():
		return true
	}
	return false
}

// Scene builds the draw commands for one tick. A nil frame skips the camera blit.
func Scene(snap game.Snapshot, frame *capture.Frame) []Command {
	var cmds []Command
	if frame != nil && frame.Image != nil {
		cmds = append(cmds, Blit{Image: frame.Image})
	}

	w, h := snap.Width, snap.Height

	switch snap.Phase {
	case game.PhaseNotStarted:
		cmds = append(cmds, label(w/2.5, h/2, StartSize, Red, "START"))

	case game.PhaseEnded:
		cmds = append(cmds,
			label(w/4, h/2-20, EndSize, Green, snap.Message()),
			label(w/4, h/2+20, EndSize, Green, remainingLine(snap, game.KindBlossom)),
			label(w/4, h/2+60, EndSize, Green, remainingLine(snap, game.KindSnowflake)),
		)

	case game.PhasePlaying:
		cmds = append(cmds, label(10, 30, CountdownSize, Red, fmt.Sprintf("Time Left: %ds", snap.TimeLeft())))

		for _, kp := range snap.Hands {
			cmds = append(cmds, label(kp.X, kp.Y, GloveSize, Red, GloveGlyph))
		}
		for _, t := range snap.Targets {
			cmds = append(cmds, label(t.X, t.Y, t.Size, White, t.Kind.Glyph()))
		}
		for _, e := range snap.Effects {
			cmds = append(cmds, Text{X: e.X, Y: e.Y, Size: SmokeSize, Color: Smoke, Alpha: e.Alpha(), Text: SmokeGlyph})
		}
	}

	return cmds
}

func label(x, y, size float64, c color.RGBA, s string) Text {
	return Text{X: x, Y: y, Size: size, Color: c, Alpha: 1, Text: s}
}

func remainingLine(snap game.Snapshot, k game.Kind) string {
	return fmt.Sprintf("Remaining %s: %d", k.Glyph(), snap.Remaining.Get(k))
}
