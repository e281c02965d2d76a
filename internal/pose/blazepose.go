package pose

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Files the BlazePose service needs, relative to a search root.
const (
	poseScript = "scripts/pose_service.py"
	venvPython = "venv/bin/python"
)

// BlazePoseDetector implements Detector with a Python BlazePose service.
// The service is started on the first Detect and stopped after it has been
// idle for Config.IdleTimeoutSec.
type BlazePoseDetector struct {
	config Config
	script string

	mu   sync.Mutex
	svc  *poseService
	idle *time.Timer
}

// NewBlazePoseDetector returns ErrServiceNotFound when the service script is
// not installed.
func NewBlazePoseDetector(config Config) (*BlazePoseDetector, error) {
	script := findFile(poseScript)
	if script == "" {
		return nil, ErrServiceNotFound
	}
	return &BlazePoseDetector{config: config, script: script}, nil
}

// Detect sends one frame to the service and returns poses in frame pixels.
func (d *BlazePoseDetector) Detect(frame *gocv.Mat) ([]Pose, error) {
	if frame == nil || frame.Empty() {
		return nil, nil
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.svc == nil {
		svc, err := startPoseService(d.script, d.args())
		if err != nil {
			return nil, err
		}
		d.svc = svc
	}

	line, err := d.svc.roundTrip(buf.GetBytes())
	if err != nil {
		// A broken pipe leaves the service unusable; the next call restarts it.
		d.svc.stop()
		d.svc = nil
		return nil, err
	}
	d.touch()

	return parseResponse(line, float64(frame.Cols()), float64(frame.Rows()))
}

// Close stops the service if it is running.
func (d *BlazePoseDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.idle != nil {
		d.idle.Stop()
		d.idle = nil
	}
	if d.svc == nil {
		return nil
	}
	err := d.svc.stop()
	d.svc = nil
	return err
}

func (d *BlazePoseDetector) args() []string {
	return []string{
		"--max-poses", strconv.Itoa(d.config.MaxPoses),
		"--min-detection-confidence", strconv.FormatFloat(d.config.MinDetectionConf, 'f', 2, 64),
		"--min-tracking-confidence", strconv.FormatFloat(d.config.MinTrackingConf, 'f', 2, 64),
	}
}

// touch pushes back the idle shutdown. Callers hold d.mu.
func (d *BlazePoseDetector) touch() {
	if d.config.IdleTimeoutSec <= 0 {
		return
	}
	timeout := time.Duration(d.config.IdleTimeoutSec) * time.Second
	if d.idle != nil {
		d.idle.Reset(timeout)
		return
	}
	d.idle = time.AfterFunc(timeout, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.svc != nil {
			d.svc.stop()
			d.svc = nil
		}
	})
}

// poseService is one running Python process. scripts/pose_service.py is not
// part of this repository; anything speaking this protocol works:
//
//	argv:   --max-poses N --min-detection-confidence F --min-tracking-confidence F
//	stdin:  repeated [4-byte big-endian length][JPEG bytes], EOF to exit
//	stdout: one JSON line per frame, in order:
//	        {"poses":[{"score":0.9,"landmarks":[{"x":0.5,"y":0.2,"visibility":0.8}, ...33]}]}
//
// x and y are fractions of the frame size. An empty "poses" list means nobody is in view.
type poseService struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
}

func startPoseService(script string, args []string) (*poseService, error) {
	python := findFile(venvPython)
	if python == "" {
		python = "python3"
	}

	cmd := exec.Command(python, append([]string{script}, args...)...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start pose service: %w", err)
	}

	return &poseService{cmd: cmd, stdin: stdin, stdout: bufio.NewReader(stdout)}, nil
}

// roundTrip writes one JPEG and reads one JSON response line.
func (s *poseService) roundTrip(jpeg []byte) ([]byte, error) {
	if err := writeFrame(s.stdin, jpeg); err != nil {
		return nil, err
	}
	line, err := s.stdout.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return line, nil
}

// stop closes stdin, which ends the service loop, and waits for the process.
func (s *poseService) stop() error {
	s.stdin.Close()
	return s.cmd.Wait()
}

// writeFrame writes a 4-byte big-endian length prefix followed by data.
func writeFrame(w io.Writer, data []byte) error {
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(data)))
	if _, err := w.Write(prefix[:]); err != nil {
		return fmt.Errorf("write length: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	return nil
}

// findFile looks for rel under the working directory, its parent, the
// executable's directory and ~/.punchmoji, returning an absolute path when it can.
func findFile(rel string) string {
	roots := []string{".", ".."}
	if exe, err := os.Executable(); err == nil {
		roots = append(roots, filepath.Dir(exe))
	}
	if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots, filepath.Join(home, ".punchmoji"))
	}

	for _, root := range roots {
		path := filepath.Join(root, rel)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}
	return ""
}

// Service response. Landmarks are normalized to [0,1] of the frame size and
// visibility is used as confidence.
type serviceResponse struct {
	Poses []struct {
		Score     float64 `json:"score"`
		Landmarks []struct {
			X          float64 `json:"x"`
			Y          float64 `json:"y"`
			Visibility float64 `json:"visibility"`
		} `json:"landmarks"`
	} `json:"poses"`
}

// parseResponse decodes one service response line and scales it to a width x height frame.
// Landmarks past NumKeypoints are dropped.
func parseResponse(line []byte, width, height float64) ([]Pose, error) {
	var resp serviceResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	poses := make([]Pose, len(resp.Poses))
	for i, p := range resp.Poses {
		n := min(len(p.Landmarks), NumKeypoints)
		poses[i] = Pose{Keypoints: make([]Keypoint, n), Score: p.Score}
		for j, lm := range p.Landmarks[:n] {
			poses[i].Keypoints[j] = Keypoint{X: lm.X * width, Y: lm.Y * height, Confidence: lm.Visibility}
		}
	}
	return poses, nil
}
