// Package window draws scenes in a desktop window with ebiten.
package window

import (
	"image"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ayusman/punchmoji/internal/game"
	"github.com/ayusman/punchmoji/internal/render"
)

// Title is the window title.
const Title = "punchmoji"

// debugLineHeight is the height of ebiten's debug font. Labels are anchored
// at their baseline so they are lifted by one line.
const debugLineHeight = 16

var background = color.RGBA{R: 220, G: 220, B: 220, A: 255}

// The debug font has no emoji, so glyphs become tinted discs.
var glyphTints = map[string]color.RGBA{
	game.KindBlossom.Glyph():   {R: 255, G: 160, B: 200, A: 255},
	game.KindSnowflake.Glyph(): {R: 150, G: 210, B: 255, A: 255},
}

// The debug font also has a single size, so label emoji become words.
var labelWords = strings.NewReplacer(
	game.KindBlossom.Glyph(), "blossoms",
	game.KindSnowflake.Glyph(), "snowflakes",
	"\u2744", "snowflakes",
	"🎉", "",
	"😢", ":(",
	"\uFE0F", "",
)

// Window is an ebiten.Game. Update runs one game tick and Draw replays the
// scene for the latest snapshot.
type Window struct {
	tick   func()
	scene  func() []render.Command
	width  int
	height int
	camera *ebiten.Image
}

// New creates a Window. tick is called once per ebiten update (60 per second)
// and scene is called once per draw.
func New(tick func(), scene func() []render.Command) *Window {
	return &Window{
		tick:   tick,
		scene:  scene,
		width:  game.CanvasWidth,
		height: game.CanvasHeight,
	}
}

// Run opens the window and blocks until it is closed or Escape is pressed.
// It must be called from the main goroutine.
func (w *Window) Run() error {
	ebiten.SetWindowSize(w.width, w.height)
	ebiten.SetWindowTitle(Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(w)
}

// Update: Logic (60 TPS)
func (w *Window) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	w.tick()
	return nil
}

// Draw: Rendering (VSync)
func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	for _, cmd := range w.scene() {
		switch c := cmd.(type) {
		case render.Blit:
			w.blit(screen, c.Image)
		case render.Text:
			drawText(screen, c)
		}
	}
}

// Layout: the canvas is fixed, ebiten scales it to the window.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.width, w.height
}

func (w *Window) blit(screen *ebiten.Image, img *image.RGBA) {
	if img == nil {
		return
	}
	b := img.Bounds()
	if w.camera == nil || w.camera.Bounds().Dx() != b.Dx() || w.camera.Bounds().Dy() != b.Dy() {
		w.camera = ebiten.NewImage(b.Dx(), b.Dy())
	}
	w.camera.WritePixels(img.Pix)
	screen.DrawImage(w.camera, &ebiten.DrawImageOptions{})
}

func drawText(screen *ebiten.Image, t render.Text) {
	if !t.Glyph() {
		ebitenutil.DebugPrintAt(screen, plainLabel(t.Text), int(t.X), int(t.Y)-debugLineHeight)
		return
	}
	vector.FillCircle(screen, float32(t.X), float32(t.Y), float32(t.Size/2), tint(t), true)
}

// plainLabel spells out the emoji in a label for the debug font.
func plainLabel(s string) string {
	return strings.TrimSpace(labelWords.Replace(s))
}

// tint returns the premultiplied disc color for a glyph.
func tint(t render.Text) color.RGBA {
	c, ok := glyphTints[t.Text]
	if !ok {
		c = t.Color
	}
	a := t.Alpha
	switch {
	case a < 0:
		a = 0
	case a > 1:
		a = 1
	}
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}
