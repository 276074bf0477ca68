package signal

import (
	"ProctorGuard/internal/entity"
	"ProctorGuard/pkg/audio"
	"context"
	"encoding/binary"
	"errors"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

// EnergyDetector is a plain voice activity detector over 16-bit PCM. A chunk
// holds voice when enough 20 ms windows are louder than the RMS threshold.
type EnergyDetector struct {
	SampleRate   int
	RMSThreshold float64
	MinVoiced    float64
}

func NewEnergyDetector() *EnergyDetector {
	return &EnergyDetector{
		SampleRate:   AudioSampleRate,
		RMSThreshold: 0.02,
		MinVoiced:    0.2,
	}
}

func (d *EnergyDetector) Detect(_ context.Context, pcm []byte) entity.VoiceOutcome {
	if len(pcm) == 0 {
		return entity.VoiceErr(entity.VoiceNoInput)
	}
	if len(pcm)%2 != 0 {
		return entity.VoiceErr(entity.VoiceDecodeError)
	}

	return entity.VoiceOk(d.voiced(pcm))
}

func (d *EnergyDetector) voiced(pcm []byte) bool {
	samples := len(pcm) / 2
	window := d.SampleRate / 50
	if window <= 0 || window > samples {
		window = samples
	}

	var windows, loud int
	for start := 0; start+window <= samples; start += window {
		var sum float64
		for i := start; i < start+window; i++ {
			v := float64(int16(binary.LittleEndian.Uint16(pcm[2*i:]))) / math.MaxInt16
			sum += v * v
		}
		windows++
		if math.Sqrt(sum/float64(window)) > d.RMSThreshold {
			loud++
		}
	}

	return windows > 0 && float64(loud)/float64(windows) >= d.MinVoiced
}

// WhisperDetector confirms voice by transcription. Silent chunks are filtered
// by the energy gate first so they never reach the API.
type WhisperDetector struct {
	transcriber audio.ITranscriber
	gate        *EnergyDetector
	breaker     *gobreaker.CircuitBreaker[string]
	log         *logrus.Logger
}

func NewWhisperDetector(log *logrus.Logger, transcriber audio.ITranscriber) *WhisperDetector {
	return &WhisperDetector{
		transcriber: transcriber,
		gate:        NewEnergyDetector(),
		breaker:     newBreaker[string]("whisper", log),
		log:         log,
	}
}

func (d *WhisperDetector) Detect(ctx context.Context, pcm []byte) entity.VoiceOutcome {
	gated := d.gate.Detect(ctx, pcm)
	if !gated.Ok() || !gated.Present {
		return gated
	}

	text, err := d.breaker.Execute(func() (string, error) {
		text, err := d.transcriber.TranscribePCM(ctx, pcm, d.gate.SampleRate)
		if errors.Is(err, audio.ErrNoSpeech) {
			return "", nil
		}
		return text, err
	})
	if err != nil {
		if !errors.Is(err, gobreaker.ErrOpenState) && !errors.Is(err, gobreaker.ErrTooManyRequests) {
			d.log.WithError(err).Warn("Voice transcription failed")
		}
		return entity.VoiceErr(entity.VoiceServiceError)
	}

	if text == "" {
		return entity.VoiceErr(entity.VoiceUnclear)
	}
	return entity.VoiceOk(true)
}
