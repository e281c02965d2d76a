package game

// Canvas size in distance units. Matches the mirrored camera frame.
const (
	CanvasWidth  = 640
	CanvasHeight = 480
)

// Round and spawn cadence, in ticks.
const (
	TicksPerSecond = 60
	RoundTicks     = 600
	SpawnInterval  = 20
	// TravelTicks is how long a target takes to reach its destination.
	TravelTicks = 100
)

// Targets and effects.
const (
	TargetStartSize = 10
	TargetGrowth    = 1
	EffectTicks     = 30
)

// StartDistance is the wrist separation below which hands count as a clap.
const StartDistance = 50

// Bounds is the visible area targets live in.
type Bounds struct {
	Width  float64
	Height float64
}

// DefaultBounds returns the canvas bounds.
func DefaultBounds() Bounds {
	return Bounds{Width: CanvasWidth, Height: CanvasHeight}
}

// Outside reports whether a point lies strictly outside the bounds on any axis.
func (b Bounds) Outside(x, y float64) bool {
	return x < 0 || x > b.Width || y < 0 || y > b.Height
}
