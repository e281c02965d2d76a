package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/punchmoji/internal/pose"
)

const epsilon = 1e-9

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

// playing returns a state that is mid-round and will not spawn on its next tick.
func playing() *State {
	s := NewState(DefaultBounds(), seeded())
	s.Session.start()
	s.Session.Frame = 1
	return s
}

func hand(x, y, confidence float64) pose.Keypoint {
	return pose.Keypoint{X: x, Y: y, Confidence: confidence}
}

func punch(left pose.Keypoint) []pose.Pose {
	return []pose.Pose{pose.PunchPose(left, hand(0, 0, 0))}
}

func TestSpawner_Spawn(t *testing.T) {
	b := DefaultBounds()
	sp := NewSpawner(b, seeded())

	t.Run("left side", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			tg := sp.Spawn(SideLeft)
			require.Equal(t, KindBlossom, tg.Kind)
			assert.Equal(t, 160.0, tg.X)
			assert.Equal(t, 120.0, tg.Y)
			assert.Equal(t, float64(TargetStartSize), tg.Size)
			assert.True(t, tg.Alive)

			destX := tg.X + tg.VX*TravelTicks
			destY := tg.Y + tg.VY*TravelTicks
			assert.GreaterOrEqual(t, destX, -epsilon)
			assert.Less(t, destX, b.Width/2+epsilon)
			assert.GreaterOrEqual(t, destY, b.Height/2-epsilon)
			assert.Less(t, destY, b.Height+epsilon)
		}
	})

	t.Run("right side", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			tg := sp.Spawn(SideRight)
			require.Equal(t, KindSnowflake, tg.Kind)
			assert.Equal(t, 480.0, tg.X)
			assert.Equal(t, 120.0, tg.Y)

			destX := tg.X + tg.VX*TravelTicks
			destY := tg.Y + tg.VY*TravelTicks
			assert.GreaterOrEqual(t, destX, b.Width/2-epsilon)
			assert.Less(t, destX, b.Width+epsilon)
			assert.GreaterOrEqual(t, destY, b.Height/2-epsilon)
		}
	})
}

func TestTargets_ReachDestinationAfterTravelTicks(t *testing.T) {
	var ts Targets
	ts.Add(Target{X: 160, Y: 120, VX: -1.2, VY: 2.5, Size: TargetStartSize, Alive: true})

	for i := 0; i < TravelTicks; i++ {
		ts.Advance(DefaultBounds())
	}

	require.Equal(t, 1, ts.Len())
	tg := ts.At(0)
	assert.InDelta(t, 40.0, tg.X, 1e-6)
	assert.InDelta(t, 370.0, tg.Y, 1e-6)
	assert.Equal(t, float64(TargetStartSize+TravelTicks), tg.Size)
}

func TestTargets_SizeNeverShrinks(t *testing.T) {
	s := playing()
	s.Spawn(SideLeft)
	s.Spawn(SideRight)

	prev := map[int]float64{}
	for tick := 0; tick < 50; tick++ {
		s.Tick(nil)
		for i, tg := range s.Targets.All() {
			if p, ok := prev[i]; ok {
				assert.GreaterOrEqual(t, tg.Size, p)
			}
			prev[i] = tg.Size
		}
	}
}

func TestTargets_Prune(t *testing.T) {
	b := DefaultBounds()

	tests := []struct {
		name   string
		target Target
		kept   bool
	}{
		{name: "inside", target: Target{X: 300, Y: 200, VX: 1, VY: 1}, kept: true},
		{name: "lands exactly on right edge", target: Target{X: 639, Y: 200, VX: 1}, kept: true},
		{name: "lands exactly on bottom edge", target: Target{X: 300, Y: 479, VY: 1}, kept: true},
		{name: "lands exactly on origin", target: Target{X: 1, Y: 1, VX: -1, VY: -1}, kept: true},
		{name: "past right edge", target: Target{X: 639.5, Y: 200, VX: 1}, kept: false},
		{name: "past bottom edge", target: Target{X: 300, Y: 479.5, VY: 1}, kept: false},
		{name: "past left edge", target: Target{X: 0.5, Y: 200, VX: -1}, kept: false},
		{name: "past top edge", target: Target{X: 300, Y: 0.5, VY: -1}, kept: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Targets
			tt.target.Alive = true
			tt.target.Size = TargetStartSize
			ts.Add(tt.target)

			pruned := ts.Advance(b)

			if tt.kept {
				assert.Equal(t, 1, ts.Len())
				assert.Equal(t, 0, pruned)
			} else {
				assert.Equal(t, 0, ts.Len())
				assert.Equal(t, 1, pruned)
			}
		})
	}
}

func TestTargets_PruneKeepsOrderAndVisitsEachOnce(t *testing.T) {
	var ts Targets
	ts.Add(Target{X: 639.5, Y: 10, VX: 1, Alive: true})  // leaves
	ts.Add(Target{X: 100, Y: 10, VX: 1, Alive: true})    // stays
	ts.Add(Target{X: 639.5, Y: 20, VX: 1, Alive: true})  // leaves
	ts.Add(Target{X: 200, Y: 10, VX: 1, Alive: true})    // stays
	ts.Add(Target{X: 300, Y: 479.9, VY: 1, Alive: true}) // leaves

	pruned := ts.Advance(DefaultBounds())

	require.Equal(t, 3, pruned)
	require.Equal(t, 2, ts.Len())
	assert.Equal(t, 101.0, ts.At(0).X)
	assert.Equal(t, 201.0, ts.At(1).X)
	assert.Equal(t, float64(TargetGrowth), ts.At(0).Size)
}

func TestTargets_DeadTargetsAreFrozen(t *testing.T) {
	var ts Targets
	ts.Add(Target{X: 639.5, Y: 10, VX: 1, Size: 12, Alive: false})

	ts.Advance(DefaultBounds())

	require.Equal(t, 1, ts.Len())
	assert.Equal(t, 639.5, ts.At(0).X)
	assert.Equal(t, 12.0, ts.At(0).Size)
}

func TestCollide(t *testing.T) {
	tests := []struct {
		name string
		hand pose.Keypoint
		hit  bool
	}{
		{name: "exact position", hand: hand(100, 100, 0.5), hit: true},
		{name: "just inside radius", hand: hand(109.99, 100, 0.5), hit: true},
		{name: "exactly on radius", hand: hand(110, 100, 0.5), hit: false},
		{name: "on radius diagonally", hand: hand(106, 108, 0.5), hit: false},
		{name: "outside radius", hand: hand(120, 100, 0.9), hit: false},
		{name: "confidence at threshold", hand: hand(100, 100, 0.1), hit: false},
		{name: "confidence just above threshold", hand: hand(100, 100, 0.11), hit: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Targets
			var es Effects
			ts.Add(Target{X: 100, Y: 100, Size: 10, Kind: KindBlossom, Alive: true})

			hits := Collide(&ts, []pose.Keypoint{tt.hand}, &es)

			if tt.hit {
				require.Len(t, hits, 1)
				assert.False(t, ts.At(0).Alive)
				require.Equal(t, 1, es.Len())
				assert.Equal(t, Effect{X: 100, Y: 100, Time: EffectTicks}, es.All()[0])
			} else {
				assert.Empty(t, hits)
				assert.True(t, ts.At(0).Alive)
				assert.Equal(t, 0, es.Len())
			}
		})
	}
}

func TestCollide_TargetHitOnlyOnce(t *testing.T) {
	var ts Targets
	var es Effects
	ts.Add(Target{X: 100, Y: 100, Size: 10, Alive: true})

	hits := Collide(&ts, []pose.Keypoint{hand(100, 100, 0.9), hand(101, 101, 0.9)}, &es)

	assert.Len(t, hits, 1)
	assert.Equal(t, 1, es.Len())

	// Already dead targets are skipped on later ticks too.
	hits = Collide(&ts, []pose.Keypoint{hand(100, 100, 0.9)}, &es)
	assert.Empty(t, hits)
	assert.Equal(t, 1, es.Len())
}

func TestCollide_OneHandHitsSeveralTargets(t *testing.T) {
	var ts Targets
	var es Effects
	ts.Add(Target{X: 100, Y: 100, Size: 10, Kind: KindBlossom, Alive: true})
	ts.Add(Target{X: 105, Y: 100, Size: 10, Kind: KindSnowflake, Alive: true})
	ts.Add(Target{X: 300, Y: 300, Size: 10, Kind: KindSnowflake, Alive: true})

	hits := Collide(&ts, []pose.Keypoint{hand(102, 100, 0.9)}, &es)

	require.Len(t, hits, 2)
	assert.Equal(t, KindBlossom, hits[0].Kind)
	assert.Equal(t, KindSnowflake, hits[1].Kind)
	assert.True(t, ts.At(2).Alive)
	assert.Equal(t, 2, es.Len())
}

func TestEffects_PrunedAfterExactlyThirtyTicks(t *testing.T) {
	var es Effects
	es.Create(10, 20)

	for i := 0; i < EffectTicks-1; i++ {
		es.Advance()
	}
	require.Equal(t, 1, es.Len(), "effect should survive 29 ticks")
	assert.Equal(t, 1, es.All()[0].Time)

	es.Advance()
	assert.Equal(t, 0, es.Len(), "effect should be gone after 30 ticks")
}

func TestEffect_Alpha(t *testing.T) {
	assert.InDelta(t, 240.0/255, Effect{Time: 30}.Alpha(), epsilon)
	assert.InDelta(t, 8.0/255, Effect{Time: 1}.Alpha(), epsilon)
	assert.Equal(t, 0.0, Effect{Time: -3}.Alpha())
	assert.Equal(t, 1.0, Effect{Time: 100}.Alpha())
}

func TestIsClap(t *testing.T) {
	tests := []struct {
		name        string
		left, right pose.Keypoint
		want        bool
	}{
		{name: "together", left: hand(300, 200, 0.9), right: hand(320, 200, 0.9), want: true},
		{name: "just under 50", left: hand(300, 200, 0.9), right: hand(349.99, 200, 0.9), want: true},
		{name: "exactly 50", left: hand(300, 200, 0.9), right: hand(350, 200, 0.9), want: false},
		{name: "exactly 50 diagonally", left: hand(0, 0, 0.9), right: hand(30, 40, 0.9), want: false},
		{name: "apart", left: hand(100, 200, 0.9), right: hand(500, 200, 0.9), want: false},
		{name: "left not confident", left: hand(300, 200, 0.1), right: hand(310, 200, 0.9), want: false},
		{name: "right not confident", left: hand(300, 200, 0.9), right: hand(310, 200, 0.05), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pose.PunchPose(tt.left, tt.right)
			assert.Equal(t, tt.want, IsClap(&p))
		})
	}

	t.Run("pose without wrists", func(t *testing.T) {
		p := pose.Pose{Keypoints: make([]pose.Keypoint, 12)}
		assert.False(t, IsClap(&p))
	})
}

func TestState_StartsOnClap(t *testing.T) {
	s := NewState(DefaultBounds(), seeded())

	r := s.Tick(nil)
	assert.False(t, r.Started)
	assert.Equal(t, PhaseNotStarted, s.Session.Phase)

	apart := pose.PunchPose(hand(100, 200, 0.9), hand(500, 200, 0.9))
	s.Tick([]pose.Pose{apart})
	assert.Equal(t, PhaseNotStarted, s.Session.Phase)

	r = s.Tick([]pose.Pose{pose.ClapPose()})
	assert.True(t, r.Started)
	assert.Equal(t, PhasePlaying, s.Session.Phase)
	assert.Equal(t, 0, s.Session.Elapsed)
	assert.Equal(t, 0, s.Session.Frame)
	assert.Equal(t, 0, s.Targets.Len(), "nothing spawns on the start tick")
}

func TestState_OnlyFirstPoseStarts(t *testing.T) {
	s := NewState(DefaultBounds(), seeded())
	apart := pose.PunchPose(hand(100, 200, 0.9), hand(500, 200, 0.9))

	s.Tick([]pose.Pose{apart, pose.ClapPose()})

	assert.Equal(t, PhaseNotStarted, s.Session.Phase)
}

func TestState_NothingHappensBeforeStart(t *testing.T) {
	s := NewState(DefaultBounds(), seeded())
	for i := 0; i < 3*SpawnInterval; i++ {
		s.Tick(nil)
	}
	assert.Equal(t, 0, s.Targets.Len())
	assert.Equal(t, 0, s.Session.Elapsed)
}

func TestState_SpawnCadence(t *testing.T) {
	s := NewState(DefaultBounds(), seeded())
	s.Tick([]pose.Pose{pose.ClapPose()})

	for i := 0; i < SpawnInterval-1; i++ {
		s.Tick(nil)
	}
	assert.Equal(t, 0, s.Snapshot().Spawned)

	s.Tick(nil)
	snap := s.Snapshot()
	assert.Equal(t, 2, snap.Spawned)
	require.Equal(t, 2, s.Targets.Len())
	assert.Equal(t, KindBlossom, s.Targets.At(0).Kind)
	assert.Equal(t, KindSnowflake, s.Targets.At(1).Kind)
}

func TestState_HitScenario(t *testing.T) {
	s := playing()
	s.Spawn(SideLeft)
	s.Tick(nil)

	tg := *s.Targets.At(0)
	require.True(t, tg.Alive)

	r := s.Tick(punch(hand(tg.X, tg.Y, 0.5)))

	require.Len(t, r.Hits, 1)
	assert.False(t, s.Targets.At(0).Alive)
	require.Equal(t, 1, s.Effects.Len())
	assert.Equal(t, Effect{X: tg.X, Y: tg.Y, Time: EffectTicks}, s.Effects.All()[0])
	assert.Equal(t, 1, s.Snapshot().Hits)
}

func TestState_EffectLivesThirtyTicks(t *testing.T) {
	s := playing()
	s.Spawn(SideLeft)
	tg := *s.Targets.At(0)
	s.Tick(punch(hand(tg.X, tg.Y, 0.9)))
	require.Equal(t, 1, s.Effects.Len())

	for i := 0; i < EffectTicks-1; i++ {
		s.Tick(nil)
	}
	require.Equal(t, 1, s.Effects.Len())

	s.Tick(nil)
	assert.Equal(t, 0, s.Effects.Len())
}

func TestState_AliveNeverComesBack(t *testing.T) {
	s := playing()
	s.Spawn(SideLeft)
	tg := *s.Targets.At(0)
	s.Tick(punch(hand(tg.X, tg.Y, 0.9)))
	require.False(t, s.Targets.At(0).Alive)

	for i := 0; i < 100; i++ {
		s.Tick(nil)
	}
	assert.False(t, s.Targets.At(0).Alive)
}

func TestState_LoseWithRemainingBlossom(t *testing.T) {
	s := playing()
	s.Session.Elapsed = RoundTicks
	s.Targets.Add(Target{X: 200, Y: 200, Size: 40, Kind: KindBlossom, Alive: true})

	r := s.Tick(nil)

	assert.True(t, r.Ended)
	assert.Equal(t, PhaseEnded, s.Session.Phase)
	assert.Equal(t, OutcomeLose, s.Session.Outcome)
	assert.Equal(t, 1, s.Session.Remaining.Get(KindBlossom))
	assert.Equal(t, 0, s.Session.Remaining.Get(KindSnowflake))
	assert.Equal(t, "Game Over! 😢", s.Snapshot().Message())
}

func TestState_WinWhenEverythingHit(t *testing.T) {
	s := playing()
	s.Session.Elapsed = RoundTicks
	s.Targets.Add(Target{X: 200, Y: 200, Kind: KindBlossom, Alive: false})
	s.Targets.Add(Target{X: 400, Y: 200, Kind: KindSnowflake, Alive: false})

	r := s.Tick(nil)

	assert.True(t, r.Ended)
	assert.Equal(t, OutcomeWin, s.Session.Outcome)
	assert.True(t, s.Session.Remaining.Zero())
	assert.Equal(t, "You Win! 🎉", s.Snapshot().Message())
}

func TestState_RoundEndsAfterRoundTicks(t *testing.T) {
	s := NewState(DefaultBounds(), seeded())
	s.Tick([]pose.Pose{pose.ClapPose()})

	for i := 0; i < RoundTicks; i++ {
		r := s.Tick(nil)
		require.False(t, r.Ended, "tick %d", i+1)
	}
	assert.Equal(t, PhasePlaying, s.Session.Phase)

	r := s.Tick(nil)
	assert.True(t, r.Ended)
	assert.Equal(t, PhaseEnded, s.Session.Phase)
	assert.Equal(t, OutcomeLose, s.Session.Outcome)
	assert.Equal(t, 2*RoundTicks/SpawnInterval, s.Snapshot().Spawned)
	assert.Equal(t, s.Targets.Remaining(), s.Session.Remaining)
	assert.Positive(t, s.Session.Remaining.Total())
}

func TestState_EndedIsTerminal(t *testing.T) {
	s := playing()
	s.Session.Elapsed = RoundTicks
	s.Tick(nil)
	require.Equal(t, PhaseEnded, s.Session.Phase)

	before := s.Snapshot()
	for i := 0; i < 100; i++ {
		r := s.Tick([]pose.Pose{pose.ClapPose()})
		assert.False(t, r.Started)
		assert.False(t, r.Ended)
	}
	after := s.Snapshot()
	assert.Equal(t, PhaseEnded, after.Phase)
	assert.Equal(t, before.Elapsed, after.Elapsed)
	assert.Equal(t, before.Spawned, after.Spawned)
}

func TestState_DeterministicWithSeed(t *testing.T) {
	run := func() Snapshot {
		s := NewState(DefaultBounds(), seeded())
		s.Tick([]pose.Pose{pose.ClapPose()})
		for i := 0; i < 200; i++ {
			s.Tick(nil)
		}
		return s.Snapshot()
	}

	a, b := run(), run()
	assert.Equal(t, a.Targets, b.Targets)
}

func TestSnapshot_TimeLeft(t *testing.T) {
	tests := []struct {
		elapsed int
		want    int
	}{
		{elapsed: 0, want: 10},
		{elapsed: 1, want: 10},
		{elapsed: 60, want: 9},
		{elapsed: 599, want: 1},
		{elapsed: 600, want: 0},
	}

	for _, tt := range tests {
		got := Snapshot{Elapsed: tt.elapsed}.TimeLeft()
		assert.Equal(t, tt.want, got, "elapsed %d", tt.elapsed)
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := playing()
	s.Spawn(SideLeft)
	snap := s.Snapshot()

	s.Tick(nil)

	require.Len(t, snap.Targets, 1)
	assert.Equal(t, 160.0, snap.Targets[0].X)
	assert.NotEqual(t, snap.Targets[0].X, s.Targets.At(0).X)
}

func TestTally(t *testing.T) {
	var tally Tally
	assert.True(t, tally.Zero())

	tally.Add(KindSnowflake)
	tally.Add(KindSnowflake)
	tally.Add(KindBlossom)
	tally.Add(Kind(42))

	assert.False(t, tally.Zero())
	assert.Equal(t, 1, tally.Get(KindBlossom))
	assert.Equal(t, 2, tally.Get(KindSnowflake))
	assert.Equal(t, 0, tally.Get(Kind(-1)))
	assert.Equal(t, 3, tally.Total())
}

func TestKind_Glyph(t *testing.T) {
	assert.Equal(t, "🌸", KindBlossom.Glyph())
	assert.Equal(t, "❄️", KindSnowflake.Glyph())
}
