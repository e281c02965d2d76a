package app

import (
	"log"
	"time"

	"github.com/ayusman/punchmoji/internal/capture"
	"github.com/ayusman/punchmoji/internal/pose"
)

// runPipeline is the detection loop. It is the only writer of the frame and
// pose mailboxes and never touches game state.
//
// Pipeline logic:
// 1. Read a mirrored frame and publish it for drawing
// 2. Feed the motion gate; switch between ActiveFPS and IdleFPS when it flips
// 3. While active, run pose detection and publish the result, even when empty
// 4. While idle, keep the last published poses
func (a *App) runPipeline(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	fps := a.camera.FPS()
	if fps <= 0 {
		fps = ActiveFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if next, ok := a.processFrame(); ok {
				a.camera.SetFPS(next)
				ticker.Reset(time.Second / time.Duration(next))
			}
		}
	}
}

// processFrame runs one detection step. It returns the new frame rate when the
// motion gate changed state.
func (a *App) processFrame() (int, bool) {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		log.Printf("Error reading frame: %v", err)
		return 0, false
	}
	defer frame.Close()

	if f, err := capture.ToFrame(frame); err == nil {
		a.frames.Put(f)
	}

	active, changed := a.motion.Observe(frame)
	fps, switched := 0, false
	if changed {
		switched = true
		if active {
			fps = ActiveFPS
			log.Println("Switched to active mode")
		} else {
			fps = IdleFPS
			log.Println("Switched to idle mode")
		}
	}

	d := a.Detector()
	if !active || d == nil {
		return fps, switched
	}

	poses, err := d.Detect(frame)
	if err != nil {
		log.Printf("Error detecting poses: %v", err)
		return fps, switched
	}
	if poses == nil {
		poses = []pose.Pose{}
	}
	a.poses.Put(poses)

	return fps, switched
}
