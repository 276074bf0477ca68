package monitoringService

import (
	educatorService "ProctorGuard/internal/api/educator/service"
	"ProctorGuard/internal/api/monitoring"
	"ProctorGuard/internal/entity"
	"ProctorGuard/internal/signal"
	"ProctorGuard/pkg/utils"
	"context"

	"github.com/sirupsen/logrus"
)

type IMonitoringService interface {
	ProcessFrame(ctx context.Context, req monitoring.RealtimeRequest) (monitoring.RealtimeResponse, error)
	Reset(ctx context.Context, req monitoring.ResetRequest) monitoring.ResetResponse
}

// FusionEngine is the stateful part of the pipeline, satisfied by *engine.Engine.
type FusionEngine interface {
	Process(sessionID string, frame entity.SignalFrame) entity.AlertDecision
	Reset(sessionID string) bool
	ResetAll() int
	Teardown(sessionID string) bool
	ActiveSessions() int
}

type Option func(*monitoringService)

// WithEvidence archives a JPEG of the frame with every high severity alert.
func WithEvidence(quality int) Option {
	return func(s *monitoringService) {
		s.evidenceQuality = quality
	}
}

type monitoringService struct {
	log             *logrus.Logger
	engine          FusionEngine
	source          signal.SignalSource
	appender        educatorService.IAlertAppender
	utils           utils.IUtils
	evidenceQuality int
}

func NewMonitoringService(
	log *logrus.Logger,
	engine FusionEngine,
	source signal.SignalSource,
	appender educatorService.IAlertAppender,
	utils utils.IUtils,
	opts ...Option,
) IMonitoringService {
	s := &monitoringService{
		log:      log,
		engine:   engine,
		source:   source,
		appender: appender,
		utils:    utils,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
