package monitoringService

import (
	"ProctorGuard/internal/api/monitoring"
	contextPkg "ProctorGuard/pkg/context"
	"ProctorGuard/pkg/metrics"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Reset zeroes one session when an id is given and every session otherwise.
func (s *monitoringService) Reset(ctx context.Context, req monitoring.ResetRequest) monitoring.ResetResponse {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = req.StudentID
	}

	var resp monitoring.ResetResponse
	switch {
	case sessionID != "" && req.Teardown:
		resp = monitoring.ResetResponse{
			Status:          fmt.Sprintf("session %s removed", sessionID),
			SessionsCleared: cleared(s.engine.Teardown(sessionID)),
		}
	case sessionID != "":
		resp = monitoring.ResetResponse{
			Status:          fmt.Sprintf("visual and audio state reset for session %s", sessionID),
			SessionsCleared: cleared(s.engine.Reset(sessionID)),
		}
	default:
		resp = monitoring.ResetResponse{
			Status:          "visual and audio module state reset successfully",
			SessionsCleared: s.engine.ResetAll(),
		}
	}

	metrics.ActiveSessions.Set(float64(s.engine.ActiveSessions()))

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"session_id": sessionID,
		"teardown":   req.Teardown,
		"cleared":    resp.SessionsCleared,
	}).Info("Session state reset")

	return resp
}

func cleared(existed bool) int {
	if existed {
		return 1
	}
	return 0
}
