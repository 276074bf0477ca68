package signal

import (
	"ProctorGuard/internal/entity"
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"sync"
)

const defaultEnrolledStudent = "student_A_123"

var simulatedObjects = []string{"cell phone", "book", "cup"}

// SimulatedVision draws plausible measurements from a seeded generator. Two
// instances built with the same seed produce the same sequence of frames.
type SimulatedVision struct {
	mu       sync.Mutex
	rng      *rand.Rand
	enrolled map[string]bool
}

func NewSimulatedVision(seed uint64, enrolled []string) *SimulatedVision {
	set := make(map[string]bool, len(enrolled))
	for _, id := range enrolled {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = true
		}
	}

	return &SimulatedVision{
		rng:      rand.New(rand.NewPCG(seed, seed^0xface)),
		enrolled: set,
	}
}

// EnrolledFromEnv reads ENROLLED_STUDENTS as a comma separated list.
func EnrolledFromEnv() []string {
	value := os.Getenv("ENROLLED_STUDENTS")
	if value == "" {
		return []string{defaultEnrolledStudent}
	}
	return strings.Split(value, ",")
}

func (v *SimulatedVision) Detect(ctx context.Context, in FrameInput) entity.SignalFrame {
	v.mu.Lock()
	faces := v.faceCount()
	score := 0.75 + v.rng.Float64()*0.23
	pose := v.pose()
	objects := v.objects()
	v.mu.Unlock()

	frame := entity.SignalFrame{
		FaceCount:       faces,
		DetectedObjects: objects,
	}

	switch {
	case !v.enrolled[in.StudentID]:
		frame.IdentityMessage = fmt.Sprintf("student id '%s' is not enrolled", in.StudentID)
	case faces == 0:
		frame.IdentityMessage = "no face detected for verification"
	default:
		frame.IdentityVerified = true
		frame.IdentityScore = score
		frame.IdentityMessage = fmt.Sprintf("identity confirmed for %s", in.StudentID)
	}

	if faces > 0 {
		frame.HeadPose = &pose
	}

	if in.Image != nil && ctx.Err() == nil {
		frame.PaperDetected = DetectPaper(in.Image)
	}

	return frame
}

func (v *SimulatedVision) faceCount() int {
	switch p := v.rng.Float64(); {
	case p < 0.02:
		return 0
	case p < 0.05:
		return 2
	default:
		return 1
	}
}

func (v *SimulatedVision) pose() entity.HeadPose {
	pose := entity.HeadPose{
		Pitch: v.rng.NormFloat64() * 5,
		Yaw:   v.rng.NormFloat64() * 5,
		Roll:  v.rng.NormFloat64() * 3,
	}
	if v.rng.Float64() < 0.08 {
		sign := 1.0
		if v.rng.IntN(2) == 0 {
			sign = -1
		}
		pose.Yaw = sign * (25 + v.rng.Float64()*20)
	}
	return pose
}

func (v *SimulatedVision) objects() []string {
	if v.rng.Float64() >= 0.05 {
		return nil
	}
	return []string{simulatedObjects[v.rng.IntN(len(simulatedObjects))]}
}
