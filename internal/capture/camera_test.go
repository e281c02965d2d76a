package capture

import (
	"errors"
	"testing"
)

func TestWebcam_Closed(t *testing.T) {
	cam := NewCamera(0)

	if cam.IsOpen() {
		t.Fatal("new webcam reports open")
	}
	if got := cam.FPS(); got != DefaultFPS {
		t.Errorf("FPS() = %d, want %d", got, DefaultFPS)
	}
	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
	if err := cam.Close(); err != nil {
		t.Errorf("Close() on closed webcam = %v", err)
	}
}

func TestWebcam_SetFPS(t *testing.T) {
	cam := NewCamera(0)

	for _, step := range []struct {
		set, want int
	}{
		{5, 5},
		{60, 60},
		{0, 60},
		{-5, 60},
	} {
		cam.SetFPS(step.set)
		if got := cam.FPS(); got != step.want {
			t.Errorf("after SetFPS(%d): FPS() = %d, want %d", step.set, got, step.want)
		}
	}
}

func TestWebcam_Device(t *testing.T) {
	if testing.Short() {
		t.Skip("needs a camera")
	}

	cam := NewCamera(0)
	if err := cam.Open(); err != nil {
		t.Skipf("no camera: %v", err)
	}
	defer cam.Close()

	if err := cam.Open(); err != nil {
		t.Errorf("second Open() = %v", err)
	}
	if !cam.IsOpen() {
		t.Error("IsOpen() = false after Open()")
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() = %v", err)
	}
	if mat.Empty() {
		t.Error("ReadFrame() returned an empty Mat")
	}
	mat.Close()

	if err := cam.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() = true after Close()")
	}
}
