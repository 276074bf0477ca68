package config

import (
	"ProctorGuard/internal/entity"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalidThresholds = errors.New("invalid thresholds")

// LoadThresholds overlays the YAML file at path on the default thresholds.
// An empty path returns the defaults.
func LoadThresholds(path string) (entity.Thresholds, error) {
	thresholds := entity.DefaultThresholds()
	if path == "" {
		return thresholds, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return entity.Thresholds{}, fmt.Errorf("failed to read thresholds file: %w", err)
	}

	if err := yaml.Unmarshal(raw, &thresholds); err != nil {
		return entity.Thresholds{}, fmt.Errorf("failed to parse thresholds file: %w", err)
	}

	if err := ValidateThresholds(thresholds); err != nil {
		return entity.Thresholds{}, err
	}

	return thresholds, nil
}

func ValidateThresholds(t entity.Thresholds) error {
	switch {
	case t.PitchDegrees <= 0 || t.YawDegrees <= 0 || t.RollDegrees <= 0:
		return fmt.Errorf("%w: angle thresholds must be positive", ErrInvalidThresholds)
	case t.MovementFrameLimit < 1 || t.VoiceFrameLimit < 1:
		return fmt.Errorf("%w: frame limits must be at least 1", ErrInvalidThresholds)
	case t.TextMediumCut < 0 || t.TextHighCut > 1 || t.TextMediumCut >= t.TextHighCut:
		return fmt.Errorf("%w: text cuts must satisfy 0 <= medium < high <= 1", ErrInvalidThresholds)
	case len(t.TargetObjects) == 0:
		return fmt.Errorf("%w: at least one target object is required", ErrInvalidThresholds)
	}
	return nil
}
