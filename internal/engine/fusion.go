package engine

import "ProctorGuard/internal/entity"

const (
	MessageCombinedAlert = "combined alert: another person and unexpected voice detected"
	MessageSuspicious    = "alert: suspicious behavior detected"
	MessageNoIssue       = "monitoring active, no issue detected"
)

// Fuse folds the per-signal outcomes of one frame into a decision. Missing
// kinds are filled with a not-triggered entry so the detail always has all five.
func Fuse(outcomes map[entity.SignalKind]entity.SignalOutcome) entity.AlertDecision {
	detail := make(map[entity.SignalKind]entity.SignalOutcome, len(entity.SignalKinds))
	overall := false
	for _, kind := range entity.SignalKinds {
		outcome := outcomes[kind]
		detail[kind] = outcome
		overall = overall || outcome.Triggered
	}

	identity := detail[entity.SignalIdentity]
	faces := detail[entity.SignalMultipleFaces]
	objects := detail[entity.SignalObjects]
	voice := detail[entity.SignalVoice]

	// Another person plus a voice in the same frame escalates even before the
	// voice streak reaches its limit.
	if faces.Triggered && voice.Active {
		return entity.AlertDecision{
			OverallAlert:    true,
			Severity:        entity.SeverityHigh,
			Message:         MessageCombinedAlert,
			PerSignalDetail: detail,
		}
	}

	if !overall {
		return entity.AlertDecision{
			Severity:        entity.SeverityLow,
			Message:         MessageNoIssue,
			PerSignalDetail: detail,
		}
	}

	severity := entity.SeverityMedium
	if identity.Triggered || faces.Triggered || objects.Triggered || voice.Triggered {
		severity = entity.SeverityHigh
	}

	return entity.AlertDecision{
		OverallAlert:    true,
		Severity:        severity,
		Message:         MessageSuspicious,
		PerSignalDetail: detail,
	}
}
