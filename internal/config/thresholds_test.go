package config

import (
	"ProctorGuard/internal/entity"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadThresholds(t *testing.T) {
	t.Parallel()

	t.Run("empty path returns defaults", func(t *testing.T) {
		t.Parallel()

		got, err := LoadThresholds("")
		require.NoError(t, err)
		require.Equal(t, entity.DefaultThresholds(), got)
	})

	t.Run("partial file keeps other defaults", func(t *testing.T) {
		t.Parallel()

		got, err := LoadThresholds(writeFile(t, "yaw_degrees: 30\nvoice_frame_limit: 4\n"))
		require.NoError(t, err)
		require.Equal(t, 30.0, got.YawDegrees)
		require.Equal(t, 4, got.VoiceFrameLimit)
		require.Equal(t, 20.0, got.PitchDegrees)
		require.Equal(t, 5, got.MovementFrameLimit)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		t.Parallel()

		_, err := LoadThresholds(writeFile(t, "text_medium_cut: 0.8\ntext_high_cut: 0.7\n"))
		require.ErrorIs(t, err, ErrInvalidThresholds)

		_, err = LoadThresholds(writeFile(t, "movement_frame_limit: 0\n"))
		require.ErrorIs(t, err, ErrInvalidThresholds)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		_, err := LoadThresholds(writeFile(t, "yaw_degrees: [1, 2\n"))
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrInvalidThresholds)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadThresholds(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}
