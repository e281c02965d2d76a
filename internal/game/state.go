// Package game implements the punch game rules: spawning, motion, collisions,
// effects and the round state machine. It is single-threaded; callers own the
// State and advance it once per tick.
package game

import (
	"math"
	"math/rand/v2"

	"github.com/ayusman/punchmoji/internal/pose"
)

// State is everything the game mutates between ticks.
type State struct {
	Session Session
	Targets Targets
	Effects Effects

	bounds  Bounds
	spawner *Spawner
	hands   []pose.Keypoint
	spawned int
	hits    int
}

// NewState creates a fresh game waiting for the start gesture.
// A nil rng uses a randomly seeded source.
func NewState(bounds Bounds, rng *rand.Rand) *State {
	return &State{
		bounds:  bounds,
		spawner: NewSpawner(bounds, rng),
	}
}

// Report describes what happened during one tick.
type Report struct {
	Started bool
	Ended   bool
	Hits    []Hit
}

// Tick advances the game by one frame using the latest pose list.
func (s *State) Tick(poses []pose.Pose) Report {
	var report Report

	primary := pose.Primary(poses)
	s.hands = primary.Hands()

	switch s.Session.Phase {
	case PhaseNotStarted:
		if primary != nil && IsClap(primary) {
			s.Session.start()
			report.Started = true
		}
		return report

	case PhaseEnded:
		return report
	}

	s.Session.Frame++
	s.Session.Elapsed++

	if s.Session.Elapsed > RoundTicks {
		s.Session.finish(s.Targets.Remaining())
		report.Ended = true
		return report
	}

	if s.Session.spawnDue() {
		s.spawn(SideLeft)
		s.spawn(SideRight)
	}

	s.Effects.Advance()
	report.Hits = Collide(&s.Targets, s.hands, &s.Effects)
	s.hits += len(report.Hits)
	s.Targets.Advance(s.bounds)

	return report
}

// Spawn adds a target from the given side. Exposed for scripted rounds.
func (s *State) Spawn(side Side) Target {
	return s.spawn(side)
}

func (s *State) spawn(side Side) Target {
	t := s.spawner.Spawn(side)
	s.Targets.Add(t)
	s.spawned++
	return t
}

// Bounds returns the visible area.
func (s *State) Bounds() Bounds {
	return s.bounds
}

// Snapshot copies the state for readers outside the tick loop.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:     s.Session.Phase,
		Elapsed:   s.Session.Elapsed,
		Outcome:   s.Session.Outcome,
		Remaining: s.Session.Remaining,
		Spawned:   s.spawned,
		Hits:      s.hits,
		Width:     s.bounds.Width,
		Height:    s.bounds.Height,
		Hands:     append([]pose.Keypoint(nil), s.hands...),
		Effects:   append([]Effect(nil), s.Effects.All()...),
	}
	for _, t := range s.Targets.All() {
		if t.Alive {
			snap.Targets = append(snap.Targets, t)
		}
	}
	return snap
}

// Snapshot is an immutable view of the game after a tick.
// Targets holds live targets only.
type Snapshot struct {
	Phase     Phase
	Elapsed   int
	Outcome   Outcome
	Remaining Tally
	Spawned   int
	Hits      int
	Width     float64
	Height    float64
	Hands     []pose.Keypoint
	Targets   []Target
	Effects   []Effect
}

// TimeLeft returns the whole seconds left in the round, rounded up.
func (s Snapshot) TimeLeft() int {
	return int(math.Ceil(float64(RoundTicks-s.Elapsed) / TicksPerSecond))
}

// Message returns the end of round headline.
func (s Snapshot) Message() string {
	switch s.Outcome {
	case OutcomeWin:
		return "You Win! 🎉"
	case OutcomeLose:
		return "Game Over! 😢"
	default:
		return ""
	}
}
