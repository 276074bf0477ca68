package engine

import "ProctorGuard/internal/entity"

// ReplayStep is one recorded event of a signal history. A step with Reset set
// clears the session instead of applying a frame.
type ReplayStep struct {
	SessionID string             `json:"session_id"`
	Reset     bool               `json:"reset,omitempty"`
	Frame     entity.SignalFrame `json:"frame"`
}

type ReplayResult struct {
	Step      int                   `json:"step"`
	SessionID string                `json:"session_id"`
	Reset     bool                  `json:"reset,omitempty"`
	Decision  *entity.AlertDecision `json:"decision,omitempty"`
}

// Replay applies steps in order to a fresh engine built from thresholds.
func Replay(thresholds entity.Thresholds, steps []ReplayStep) []ReplayResult {
	e := New(thresholds)
	results := make([]ReplayResult, 0, len(steps))

	for i, step := range steps {
		if step.Reset {
			e.Reset(step.SessionID)
			results = append(results, ReplayResult{Step: i, SessionID: step.SessionID, Reset: true})
			continue
		}

		decision := e.Process(step.SessionID, step.Frame)
		results = append(results, ReplayResult{Step: i, SessionID: step.SessionID, Decision: &decision})
	}

	return results
}
