// Package capture provides the mirrored webcam feed the game is played on, using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Capture defaults; the width and height match the game canvas.
const (
	DefaultFPS    = 30
	DefaultWidth  = 640
	DefaultHeight = 480
)

var (
	ErrCameraNotOpen = errors.New("camera is not open")
	ErrReadFailed    = errors.New("camera read failed")
	ErrEmptyFrame    = errors.New("frame is empty")
)

// Frame is a captured video frame converted for drawing and streaming.
type Frame struct {
	Image     *image.RGBA
	Timestamp int64 // Unix milliseconds
	Width     int
	Height    int
}

// Camera is a source of mirrored BGR frames.
// The caller owns every Mat returned by ReadFrame and must Close it.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// Webcam reads from a local video device.
type Webcam struct {
	device int

	mu  sync.Mutex
	vc  *gocv.VideoCapture
	fps int
}

// NewCamera returns a closed Webcam for the given device index.
func NewCamera(device int) Camera {
	return &Webcam{device: device, fps: DefaultFPS}
}

func (w *Webcam) Open() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.vc != nil {
		return nil
	}

	vc, err := gocv.OpenVideoCapture(w.device)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", w.device, err)
	}
	vc.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
	vc.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)
	vc.Set(gocv.VideoCaptureFPS, float64(w.fps))
	w.vc = vc
	return nil
}

func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.vc == nil {
		return nil
	}
	vc := w.vc
	w.vc = nil
	return vc.Close()
}

// ReadFrame grabs the next frame and mirrors it.
func (w *Webcam) ReadFrame() (*gocv.Mat, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.vc == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	switch {
	case !w.vc.Read(&mat):
		mat.Close()
		return nil, ErrReadFailed
	case mat.Empty():
		mat.Close()
		return nil, ErrEmptyFrame
	}
	Mirror(&mat)
	return &mat, nil
}

// SetFPS changes the requested capture rate. Non-positive values are ignored.
func (w *Webcam) SetFPS(fps int) {
	if fps <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fps = fps
	if w.vc != nil {
		w.vc.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

func (w *Webcam) FPS() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fps
}

func (w *Webcam) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.vc != nil
}
