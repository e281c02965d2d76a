package game

import (
	"math"

	"github.com/ayusman/punchmoji/internal/pose"
)

// Hit records a target struck during a tick.
type Hit struct {
	X, Y float64
	Kind Kind
}

// Collide tests every live target against every hand keypoint. A target is hit
// when a confident keypoint lies strictly inside its radius. Each hit kills the
// target and creates an effect at its position.
func Collide(targets *Targets, hands []pose.Keypoint, effects *Effects) []Hit {
	var hits []Hit
	for i := 0; i < targets.Len(); i++ {
		t := targets.At(i)
		for _, kp := range hands {
			if !t.Alive {
				break
			}
			if !kp.Confident() {
				continue
			}
			if math.Hypot(kp.X-t.X, kp.Y-t.Y) < t.Size {
				t.Alive = false
				effects.Create(t.X, t.Y)
				hits = append(hits, Hit{X: t.X, Y: t.Y, Kind: t.Kind})
			}
		}
	}
	return hits
}
