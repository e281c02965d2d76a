package game

import (
	"github.com/ayusman/punchmoji/internal/pose"
)

// Phase is the stage of the round.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhasePlaying
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhasePlaying:
		return "playing"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Outcome is the result of a finished round.
type Outcome int

const (
	OutcomeUnset Outcome = iota
	OutcomeWin
	OutcomeLose
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLose:
		return "lose"
	default:
		return "unset"
	}
}

// IsClap reports whether a pose shows both wrists held together, the gesture
// that starts a round.
func IsClap(p *pose.Pose) bool {
	left, ok := p.Keypoint(pose.LeftWrist)
	if !ok {
		return false
	}
	right, ok := p.Keypoint(pose.RightWrist)
	if !ok {
		return false
	}
	if !left.Confident() || !right.Confident() {
		return false
	}
	return pose.Distance(left, right) < StartDistance
}

// Session tracks the phase and clocks of a round.
type Session struct {
	Phase Phase
	// Frame drives the spawn cadence.
	Frame int
	// Elapsed counts ticks spent playing.
	Elapsed   int
	Outcome   Outcome
	Remaining Tally
}

// start moves NotStarted to Playing and resets the clocks.
func (s *Session) start() {
	s.Phase = PhasePlaying
	s.Elapsed = 0
	s.Frame = 0
}

// finish moves Playing to Ended and records the outcome from the remaining tally.
func (s *Session) finish(remaining Tally) {
	s.Phase = PhaseEnded
	s.Remaining = remaining
	if remaining.Zero() {
		s.Outcome = OutcomeWin
	} else {
		s.Outcome = OutcomeLose
	}
}

// spawnDue reports whether targets should be spawned on the current frame.
func (s *Session) spawnDue() bool {
	return s.Frame%SpawnInterval == 0
}
