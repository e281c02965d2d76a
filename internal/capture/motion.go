package capture

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Motion detection constants
const (
	// GaussianBlurSize is the kernel size for Gaussian blur (21x21)
	GaussianBlurSize = 21
	// DiffThreshold is the binary threshold for difference detection
	DiffThreshold = 25
	// DefaultIdleAfter is how long the scene must stay still before the gate goes idle.
	DefaultIdleAfter = 2 * time.Second
)

// MotionGate decides whether the pose model is worth running. It compares
// consecutive frames and stays active while something in view is moving,
// going idle once the scene has been still for IdleAfter.
type MotionGate struct {
	threshold   float64
	idleAfter   time.Duration
	prevGray    gocv.Mat
	initialized bool
	active      bool
	lastMotion  time.Time
	now         func() time.Time
	mu          sync.Mutex
}

// NewMotionGate creates a MotionGate with the given threshold, the percentage
// of pixels that must change between frames to count as motion.
// The gate starts active so the first frames are always analyzed.
func NewMotionGate(threshold float64) *MotionGate {
	g := &MotionGate{
		threshold: threshold,
		idleAfter: DefaultIdleAfter,
		prevGray:  gocv.NewMat(),
		now:       time.Now,
	}
	g.active = true
	g.lastMotion = g.now()
	return g
}

// Observe feeds a frame to the gate and reports whether the gate is active
// afterwards, and whether the active state changed.
func (g *MotionGate) Observe(frame *gocv.Mat) (active, changed bool) {
	moved, _ := g.Detect(frame)

	g.mu.Lock()
	defer g.mu.Unlock()

	was := g.active
	now := g.now()
	if moved {
		g.lastMotion = now
		g.active = true
	} else if g.active && now.Sub(g.lastMotion) > g.idleAfter {
		g.active = false
	}
	return g.active, g.active != was
}

// Detect analyzes a frame for motion compared to the previous frame.
// Returns whether motion was detected and the percentage of pixels that changed.
// The first frame after creation only sets the baseline.
func (g *MotionGate) Detect(frame *gocv.Mat) (bool, float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	if !g.initialized {
		blurred.CopyTo(&g.prevGray)
		g.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	totalPixels := thresh.Rows() * thresh.Cols()
	changePercent := float64(nonZero) / float64(totalPixels) * 100.0

	blurred.CopyTo(&g.prevGray)

	return changePercent > g.threshold, changePercent
}

// Close releases resources used by the gate.
func (g *MotionGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.release()
}

func (g *MotionGate) release() {
	if !g.prevGray.Empty() {
		g.prevGray.Close()
		g.prevGray = gocv.NewMat()
	}
	g.initialized = false
}
