package pose

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	poses []Pose
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetPoses sets the poses that will be returned by Detect.
func (m *MockDetector) SetPoses(poses []Pose) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.poses = poses
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured poses or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Pose, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.poses, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// standingPose returns a full-confidence pose of a player standing mid-frame
// with arms down.
func standingPose() Pose {
	p := Pose{
		Keypoints: make([]Keypoint, NumKeypoints),
		Score:     0.95,
	}
	for i := range p.Keypoints {
		p.Keypoints[i] = Keypoint{X: 320, Y: 240, Confidence: 0.9}
	}

	p.Keypoints[Nose] = Keypoint{X: 320, Y: 110, Confidence: 0.99}
	p.Keypoints[LeftShoulder] = Keypoint{X: 270, Y: 190, Confidence: 0.98}
	p.Keypoints[RightShoulder] = Keypoint{X: 370, Y: 190, Confidence: 0.98}
	p.Keypoints[LeftElbow] = Keypoint{X: 250, Y: 270, Confidence: 0.9}
	p.Keypoints[RightElbow] = Keypoint{X: 390, Y: 270, Confidence: 0.9}
	p.Keypoints[LeftWrist] = Keypoint{X: 245, Y: 340, Confidence: 0.85}
	p.Keypoints[RightWrist] = Keypoint{X: 395, Y: 340, Confidence: 0.85}
	p.Keypoints[LeftHip] = Keypoint{X: 285, Y: 360, Confidence: 0.8}
	p.Keypoints[RightHip] = Keypoint{X: 355, Y: 360, Confidence: 0.8}

	return p
}

// ClapPose returns a preset pose with both wrists together in front of the chest.
// It satisfies the round start gesture.
func ClapPose() Pose {
	p := standingPose()
	p.Keypoints[LeftElbow] = Keypoint{X: 280, Y: 230, Confidence: 0.9}
	p.Keypoints[RightElbow] = Keypoint{X: 360, Y: 230, Confidence: 0.9}
	p.Keypoints[LeftWrist] = Keypoint{X: 310, Y: 200, Confidence: 0.9}
	p.Keypoints[RightWrist] = Keypoint{X: 330, Y: 200, Confidence: 0.9}
	return p
}

// PunchPose returns a preset pose with the wrists at the given positions.
func PunchPose(left, right Keypoint) Pose {
	p := standingPose()
	p.Keypoints[LeftWrist] = left
	p.Keypoints[RightWrist] = right
	return p
}

// NoHandsPose returns a preset pose where neither wrist is visible.
func NoHandsPose() Pose {
	p := standingPose()
	p.Keypoints[LeftWrist].Confidence = 0.02
	p.Keypoints[RightWrist].Confidence = 0.05
	return p
}
