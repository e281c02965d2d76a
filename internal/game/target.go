package game

import "math/rand/v2"

// Side is the spawn point a target flies out of.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// Target is a flying glyph the player has to punch.
type Target struct {
	X, Y   float64
	VX, VY float64
	// Size is both the draw size and the hit radius.
	Size  float64
	Kind  Kind
	Alive bool
}

// Spawner creates targets at the two fixed spawn points.
type Spawner struct {
	bounds Bounds
	rng    *rand.Rand
}

// NewSpawner creates a Spawner. A nil rng uses a randomly seeded source.
func NewSpawner(bounds Bounds, rng *rand.Rand) *Spawner {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Spawner{bounds: bounds, rng: rng}
}

// Origin returns the spawn point for a side.
func (s *Spawner) Origin(side Side) (x, y float64) {
	if side == SideRight {
		return 3 * s.bounds.Width / 4, s.bounds.Height / 4
	}
	return s.bounds.Width / 4, s.bounds.Height / 4
}

// Spawn creates a target at the side's origin aimed at a random point in the
// lower quarter of the canvas on that side.
func (s *Spawner) Spawn(side Side) Target {
	x, y := s.Origin(side)
	halfW := s.bounds.Width / 2
	halfH := s.bounds.Height / 2

	destX := s.rng.Float64() * halfW
	kind := KindBlossom
	if side == SideRight {
		destX += halfW
		kind = KindSnowflake
	}
	destY := halfH + s.rng.Float64()*halfH

	return Target{
		X:     x,
		Y:     y,
		VX:    (destX - x) / TravelTicks,
		VY:    (destY - y) / TravelTicks,
		Size:  TargetStartSize,
		Kind:  kind,
		Alive: true,
	}
}

// Targets is the registry of spawned targets still on screen.
// Hit targets stay registered, frozen, until the round ends.
type Targets struct {
	items []Target
}

// Add registers a target.
func (ts *Targets) Add(t Target) {
	ts.items = append(ts.items, t)
}

// Len returns the number of registered targets, alive or not.
func (ts *Targets) Len() int {
	return len(ts.items)
}

// At returns a pointer to the i-th registered target.
func (ts *Targets) At(i int) *Target {
	return &ts.items[i]
}

// All returns the registered targets. The slice is only valid until the next mutation.
func (ts *Targets) All() []Target {
	return ts.items
}

// Advance moves and grows every live target, then drops those whose new
// position is outside the bounds. Returns how many were dropped.
func (ts *Targets) Advance(b Bounds) int {
	pruned := 0
	for i := len(ts.items) - 1; i >= 0; i-- {
		t := &ts.items[i]
		if !t.Alive {
			continue
		}

		t.X += t.VX
		t.Y += t.VY
		t.Size += TargetGrowth

		if b.Outside(t.X, t.Y) {
			ts.items = append(ts.items[:i], ts.items[i+1:]...)
			pruned++
		}
	}
	return pruned
}

// Remaining tallies live targets by kind.
func (ts *Targets) Remaining() Tally {
	var tally Tally
	for _, t := range ts.items {
		if t.Alive {
			tally.Add(t.Kind)
		}
	}
	return tally
}
