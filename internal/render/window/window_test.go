package window

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayusman/punchmoji/internal/game"
	"github.com/ayusman/punchmoji/internal/render"
)

func TestLayoutIsFixedCanvas(t *testing.T) {
	w := New(func() {}, func() []render.Command { return nil })

	for _, size := range [][2]int{{640, 480}, {1920, 1080}, {100, 100}} {
		width, height := w.Layout(size[0], size[1])
		assert.Equal(t, game.CanvasWidth, width)
		assert.Equal(t, game.CanvasHeight, height)
	}
}

func TestTint(t *testing.T) {
	tests := []struct {
		name string
		text render.Text
		want color.RGBA
	}{
		{
			name: "kind glyph uses its own tint",
			text: render.Text{Text: game.KindSnowflake.Glyph(), Color: render.White, Alpha: 1},
			want: color.RGBA{R: 150, G: 210, B: 255, A: 255},
		},
		{
			name: "other glyphs use the command color",
			text: render.Text{Text: render.GloveGlyph, Color: render.Red, Alpha: 1},
			want: render.Red,
		},
		{
			name: "alpha is premultiplied",
			text: render.Text{Text: render.SmokeGlyph, Color: color.RGBA{R: 200, G: 200, B: 200, A: 255}, Alpha: 0.5},
			want: color.RGBA{R: 100, G: 100, B: 100, A: 127},
		},
		{
			name: "alpha is clamped",
			text: render.Text{Text: render.SmokeGlyph, Color: render.White, Alpha: -1},
			want: color.RGBA{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tint(tt.text))
		})
	}
}

func TestPlainLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"You Win! 🎉", "You Win!"},
		{"Game Over! 😢", "Game Over! :("},
		{"Remaining 🌸: 3", "Remaining blossoms: 3"},
		{"Remaining ❄️: 0", "Remaining snowflakes: 0"},
		{"Remaining \u2744: 1", "Remaining snowflakes: 1"},
		{"Time Left: 9s", "Time Left: 9s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, plainLabel(tt.in), tt.in)
	}
}

func TestPlainLabel_SceneLabelsAreASCII(t *testing.T) {
	snap := game.Snapshot{
		Phase:   game.PhaseEnded,
		Outcome: game.OutcomeWin,
		Width:   game.CanvasWidth,
		Height:  game.CanvasHeight,
	}
	for _, cmd := range render.Scene(snap, nil) {
		text, ok := cmd.(render.Text)
		if !ok || text.Glyph() {
			continue
		}
		for _, r := range plainLabel(text.Text) {
			assert.Less(t, r, rune(0x80), "label %q", text.Text)
		}
	}
}
