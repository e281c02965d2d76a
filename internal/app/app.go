// Package app wires the camera, the pose model and the game together. It runs
// the detection task and advances the game once per render tick.
package app

import (
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ayusman/punchmoji/internal/audio"
	"github.com/ayusman/punchmoji/internal/capture"
	"github.com/ayusman/punchmoji/internal/game"
	"github.com/ayusman/punchmoji/internal/pose"
	"github.com/ayusman/punchmoji/internal/store"
)

// Detection rates.
const (
	// IdleFPS is the frame rate while the scene is still.
	IdleFPS = 5
	// ActiveFPS is the frame rate while something in view is moving.
	ActiveFPS = 30
)

// RoundRecorder persists finished rounds.
type RoundRecorder interface {
	Create(round *store.Round) error
}

// Config holds configuration options for the application.
type Config struct {
	CameraID     int
	MotionThresh float64
	// Rounds records finished rounds. Nil disables history.
	Rounds RoundRecorder
	// Sound reacts to hits and round ends. Nil means silent.
	Sound audio.Player
	// Rand drives target destinations. Nil seeds from the runtime.
	Rand *rand.Rand
	// Camera overrides the webcam at CameraID.
	Camera capture.Camera
	// Detector overrides the pose service. Nil tries BlazePose, then the mock.
	Detector pose.Detector
}

// App owns the game state and the detection task feeding it.
type App struct {
	config   Config
	camera   capture.Camera
	motion   *capture.MotionGate
	detector pose.Detector
	sound    audio.Player
	rounds   RoundRecorder
	mu       sync.Mutex
	stopCh   chan struct{}
	done     chan struct{}

	poses     pose.Mailbox[[]pose.Pose]
	frames    pose.Mailbox[*capture.Frame]
	snapshots pose.Mailbox[game.Snapshot]

	// Only touched by the tick caller.
	state     *game.State
	startedAt time.Time
	now       func() time.Time
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	sound := config.Sound
	if sound == nil {
		sound = audio.Nop{}
	}

	camera := config.Camera
	if camera == nil {
		camera = capture.NewCamera(config.CameraID)
	}

	a := &App{
		config:   config,
		camera:   camera,
		motion:   capture.NewMotionGate(motionThreshold),
		detector: config.Detector,
		sound:    sound,
		rounds:   config.Rounds,
		state:    game.NewState(game.DefaultBounds(), config.Rand),
		now:      time.Now,
	}
	a.snapshots.Put(a.state.Snapshot())

	if a.detector != nil {
		return a
	}

	// Try BlazePose first, fall back to mock detector
	if bp, err := pose.NewBlazePoseDetector(pose.DefaultConfig()); err == nil {
		a.detector = bp
		log.Println("Using BlazePose pose detection")
	} else {
		log.Printf("BlazePose not available (%v), using mock detector", err)
		a.detector = pose.NewMockDetector()
	}

	return a
}

// Detector returns the pose detector.
func (a *App) Detector() pose.Detector {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.detector
}

// Start opens the camera and begins the detection task.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(ActiveFPS)

	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.runPipeline(a.stopCh, a.done)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the detection task and releases the camera, motion gate and detector.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, done := a.stopCh, a.done
	a.stopCh, a.done = nil, nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-done
	}

	if a.camera.IsOpen() {
		if err := a.camera.Close(); err != nil {
			log.Printf("Error closing camera: %v", err)
		}
	}

	a.motion.Close()

	if d := a.Detector(); d != nil {
		if err := d.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Detection pipeline stopped")
}

// Tick advances the game by one frame using the most recent poses.
// It must be called from a single goroutine, once per render tick.
func (a *App) Tick() game.Report {
	poses, _ := a.poses.Latest()

	report := a.state.Tick(poses)
	now := a.now()

	if report.Started {
		a.startedAt = now
		log.Println("Round started")
	}

	for range report.Hits {
		a.sound.Hit()
	}

	if report.Ended {
		a.finishRound(now)
	}

	a.snapshots.Put(a.state.Snapshot())
	return report
}

func (a *App) finishRound(endedAt time.Time) {
	snap := a.state.Snapshot()
	win := snap.Outcome == game.OutcomeWin

	log.Printf("Round over: %s (hits %d of %d, %d left)", snap.Outcome, snap.Hits, snap.Spawned, snap.Remaining.Total())
	a.sound.RoundOver(win)

	if a.rounds == nil {
		return
	}

	outcome := store.OutcomeLose
	if win {
		outcome = store.OutcomeWin
	}

	round := &store.Round{
		StartedAt:          a.startedAt,
		EndedAt:            endedAt,
		Outcome:            outcome,
		Spawned:            snap.Spawned,
		Hits:               snap.Hits,
		RemainingBlossom:   snap.Remaining.Get(game.KindBlossom),
		RemainingSnowflake: snap.Remaining.Get(game.KindSnowflake),
	}
	if err := a.rounds.Create(round); err != nil {
		log.Printf("Failed to record round: %v", err)
	}
}

// Snapshot returns the game as of the last tick.
func (a *App) Snapshot() game.Snapshot {
	snap, _ := a.snapshots.Latest()
	return snap
}

// Frame returns the most recent mirrored camera frame, if any.
func (a *App) Frame() (*capture.Frame, bool) {
	return a.frames.Latest()
}

// Poses returns the most recent detection result.
func (a *App) Poses() []pose.Pose {
	poses, _ := a.poses.Latest()
	return poses
}
