package engine

import "ProctorGuard/internal/entity"

type Engine struct {
	store      *SessionStore
	classifier *Classifier
	thresholds entity.Thresholds
}

func New(thresholds entity.Thresholds) *Engine {
	return &Engine{
		store:      NewSessionStore(),
		classifier: NewClassifier(thresholds),
		thresholds: thresholds,
	}
}

// Process classifies one frame against its session and fuses the result. The
// session lock is held for the whole classification so counters of one session
// see frames strictly in submission order.
func (e *Engine) Process(sessionID string, frame entity.SignalFrame) entity.AlertDecision {
	outcomes := make(map[entity.SignalKind]entity.SignalOutcome, len(entity.SignalKinds))

	e.store.WithSession(sessionID, func(state *entity.SessionState) {
		outcomes[entity.SignalIdentity] = e.classifier.Identity(frame)
		outcomes[entity.SignalMovement] = e.classifier.Movement(state, frame)
		outcomes[entity.SignalMultipleFaces] = e.classifier.MultipleFaces(frame)
		outcomes[entity.SignalObjects] = e.classifier.Objects(frame)
		outcomes[entity.SignalVoice] = e.classifier.Voice(state, frame)
	})

	return Fuse(outcomes)
}

func (e *Engine) TextRisk(plagiarismScore, aiScore float64) entity.Severity {
	return e.classifier.TextRisk(plagiarismScore, aiScore)
}

func (e *Engine) Session(sessionID string) entity.SessionState {
	return e.store.GetOrCreate(sessionID)
}

// Reset reports whether the session existed.
func (e *Engine) Reset(sessionID string) bool {
	return e.store.Reset(sessionID)
}

func (e *Engine) ResetAll() int {
	return e.store.ResetAll()
}

func (e *Engine) Teardown(sessionID string) bool {
	return e.store.Teardown(sessionID)
}

func (e *Engine) ActiveSessions() int {
	return e.store.Len()
}

func (e *Engine) Thresholds() entity.Thresholds {
	return e.thresholds
}
