package signal

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

type CaptureDevice interface {
	ReadSegment(ctx context.Context) ([]byte, error)
}

// ExclusiveDevice guards a single physical capture device. Each Capture call
// acquires the device, reads one segment and releases it, so a slow reader
// delays others by at most one segment and never holds the device across frames.
type ExclusiveDevice struct {
	device  CaptureDevice
	sem     *semaphore.Weighted
	timeout time.Duration
}

func NewExclusiveDevice(device CaptureDevice, timeout time.Duration) *ExclusiveDevice {
	return &ExclusiveDevice{
		device:  device,
		sem:     semaphore.NewWeighted(1),
		timeout: timeout,
	}
}

func (d *ExclusiveDevice) Capture(ctx context.Context) ([]byte, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.sem.Acquire(acquireCtx, 1); err != nil {
		return nil, fmt.Errorf("capture device busy: %w", err)
	}
	defer d.sem.Release(1)

	return d.device.ReadSegment(ctx)
}

// SimulatedMicrophone stands in for a real device. Each segment is silence,
// or with probability VoiceRate a 440 Hz tone loud enough to count as voice.
type SimulatedMicrophone struct {
	mu         sync.Mutex
	rng        *rand.Rand
	VoiceRate  float64
	SampleRate int
	Segment    time.Duration
}

func NewSimulatedMicrophone(seed uint64) *SimulatedMicrophone {
	return &SimulatedMicrophone{
		rng:        rand.New(rand.NewPCG(seed, seed^0x5eed)),
		VoiceRate:  0.05,
		SampleRate: AudioSampleRate,
		Segment:    200 * time.Millisecond,
	}
}

func (m *SimulatedMicrophone) ReadSegment(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	voiced := m.rng.Float64() < m.VoiceRate
	m.mu.Unlock()

	samples := int(float64(m.SampleRate) * m.Segment.Seconds())
	amplitude := 0.0
	if voiced {
		amplitude = 0.3
	}

	return SineWave(samples, m.SampleRate, 440, amplitude), nil
}

// SineWave renders a mono 16-bit PCM tone.
func SineWave(samples, sampleRate int, freq, amplitude float64) []byte {
	pcm := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		v := int16(amplitude * math.MaxInt16 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
		pcm[2*i] = byte(uint16(v))
		pcm[2*i+1] = byte(uint16(v) >> 8)
	}
	return pcm
}
