// Package pose provides body pose detection interfaces and types for the game.
package pose

import "math"

// Body keypoint indices following the BlazePose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose          = 0
	LeftShoulder  = 11
	RightShoulder = 12
	LeftElbow     = 13
	RightElbow    = 14
	LeftWrist     = 15
	RightWrist    = 16
	LeftHip       = 23
	RightHip      = 24
	NumKeypoints  = 33
)

// HandKeypoints are the keypoints tracked as the player's fists.
var HandKeypoints = [2]int{LeftWrist, RightWrist}

// MinConfidence is the confidence a keypoint must exceed to be used.
const MinConfidence = 0.1

// Keypoint is a single detected body point in canvas coordinates.
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// Confident reports whether the keypoint is above the usable confidence threshold.
func (k Keypoint) Confident() bool {
	return k.Confidence > MinConfidence
}

// Distance returns the Euclidean distance between two keypoints.
func Distance(a, b Keypoint) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Pose is the ordered keypoint list for one detected person.
type Pose struct {
	Keypoints []Keypoint `json:"keypoints"`
	Score     float64    `json:"score"`
}

// Keypoint returns the keypoint at index i. The second result is false when
// the pose has no such keypoint.
func (p *Pose) Keypoint(i int) (Keypoint, bool) {
	if p == nil || i < 0 || i >= len(p.Keypoints) {
		return Keypoint{}, false
	}
	return p.Keypoints[i], true
}

// Hands returns the confident wrist keypoints of the pose, left first.
func (p *Pose) Hands() []Keypoint {
	hands := make([]Keypoint, 0, len(HandKeypoints))
	for _, i := range HandKeypoints {
		if kp, ok := p.Keypoint(i); ok && kp.Confident() {
			hands = append(hands, kp)
		}
	}
	return hands
}

// Primary returns the first pose of a detection result, or nil when there is none.
// Additional poses are ignored by the game.
func Primary(poses []Pose) *Pose {
	if len(poses) == 0 {
		return nil
	}
	return &poses[0]
}
