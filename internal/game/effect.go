package game

// Effect is a short-lived puff drawn where a target was hit.
type Effect struct {
	X, Y float64
	// Time is the number of ticks left before the effect disappears.
	Time int
}

// Alpha returns the draw opacity in [0,1], fading linearly with remaining time.
func (e Effect) Alpha() float64 {
	a := float64(e.Time*8) / 255
	switch {
	case a < 0:
		return 0
	case a > 1:
		return 1
	}
	return a
}

// Effects is the registry of live effects.
type Effects struct {
	items []Effect
}

// Create adds an effect at (x, y) with a full lifetime.
func (es *Effects) Create(x, y float64) {
	es.items = append(es.items, Effect{X: x, Y: y, Time: EffectTicks})
}

// Advance counts every effect down by one tick and drops the expired ones.
func (es *Effects) Advance() {
	for i := len(es.items) - 1; i >= 0; i-- {
		es.items[i].Time--
		if es.items[i].Time <= 0 {
			es.items = append(es.items[:i], es.items[i+1:]...)
		}
	}
}

// Len returns the number of live effects.
func (es *Effects) Len() int {
	return len(es.items)
}

// All returns the live effects. The slice is only valid until the next mutation.
func (es *Effects) All() []Effect {
	return es.items
}
