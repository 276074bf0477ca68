package entity

import "time"

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type AlertKind string

const (
	AlertKindText        AlertKind = "text"
	AlertKindVisualAudio AlertKind = "visual_audio"
)

// SignalOutcome is what one classifier reports for one frame. Active means the
// condition held this frame even when a hysteresis limit has not been reached.
type SignalOutcome struct {
	Triggered bool   `json:"triggered"`
	Active    bool   `json:"-"`
	Message   string `json:"message"`
}

type AlertDecision struct {
	OverallAlert    bool                         `json:"overall_alert"`
	Severity        Severity                     `json:"severity"`
	Message         string                       `json:"message"`
	PerSignalDetail map[SignalKind]SignalOutcome `json:"per_signal_detail"`
}

type AlertRecord struct {
	ID         int64     `json:"id"`
	StudentID  string    `json:"student_id"`
	Type       AlertKind `json:"type"`
	AlertLevel Severity  `json:"alert_level"`
	Message    string    `json:"message"`
	Details    []byte    `json:"-"`
	Timestamp  time.Time `json:"timestamp"`
	// EvidenceKey is the object key of the archived frame, empty when none.
	EvidenceKey string `json:"evidence_key,omitempty"`

	// Evidence is a frame to archive before the record is stored. Not persisted.
	Evidence []byte `json:"-"`
}
