package api

import (
	"net/http"

	"github.com/ayusman/punchmoji/internal/game"
)

// SnapshotSource provides the game as of the last tick.
type SnapshotSource interface {
	Snapshot() game.Snapshot
}

// State is the JSON form of a game snapshot.
type State struct {
	Phase     string         `json:"phase"`
	Outcome   string         `json:"outcome,omitempty"`
	Message   string         `json:"message,omitempty"`
	Elapsed   int            `json:"elapsed"`
	TimeLeft  int            `json:"time_left"`
	Spawned   int            `json:"spawned"`
	Hits      int            `json:"hits"`
	Remaining map[string]int `json:"remaining"`
	Width     float64        `json:"width"`
	Height    float64        `json:"height"`
	Hands     []Point        `json:"hands"`
	Targets   []Target       `json:"targets"`
	Effects   []Effect       `json:"effects"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Target struct {
	Kind  string  `json:"kind"`
	Glyph string  `json:"glyph"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
}

type Effect struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Time  int     `json:"time"`
	Alpha float64 `json:"alpha"`
}

// NewState converts a snapshot. Slices are never nil so clients always see arrays.
func NewState(snap game.Snapshot) State {
	st := State{
		Phase:     snap.Phase.String(),
		Message:   snap.Message(),
		Elapsed:   snap.Elapsed,
		TimeLeft:  snap.TimeLeft(),
		Spawned:   snap.Spawned,
		Hits:      snap.Hits,
		Remaining: make(map[string]int, len(game.Kinds)),
		Width:     snap.Width,
		Height:    snap.Height,
		Hands:     make([]Point, 0, len(snap.Hands)),
		Targets:   make([]Target, 0, len(snap.Targets)),
		Effects:   make([]Effect, 0, len(snap.Effects)),
	}
	if snap.Outcome != game.OutcomeUnset {
		st.Outcome = snap.Outcome.String()
	}
	for _, k := range game.Kinds {
		st.Remaining[k.String()] = snap.Remaining.Get(k)
	}
	for _, kp := range snap.Hands {
		st.Hands = append(st.Hands, Point{X: kp.X, Y: kp.Y})
	}
	for _, t := range snap.Targets {
		st.Targets = append(st.Targets, Target{
			Kind:  t.Kind.String(),
			Glyph: t.Kind.Glyph(),
			X:     t.X,
			Y:     t.Y,
			Size:  t.Size,
		})
	}
	for _, e := range snap.Effects {
		st.Effects = append(st.Effects, Effect{X: e.X, Y: e.Y, Time: e.Time, Alpha: e.Alpha()})
	}
	return st
}

// StateHandler serves GET /api/state.
type StateHandler struct {
	source SnapshotSource
}

// NewStateHandler creates a new StateHandler reading from source.
func NewStateHandler(source SnapshotSource) *StateHandler {
	return &StateHandler{source: source}
}

func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, NewState(h.source.Snapshot()))
}
