package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var ErrNoSpeech = errors.New("no speech recognized")

type ITranscriber interface {
	TranscribePCM(ctx context.Context, pcm []byte, sampleRate int) (string, error)
}

type TranscriptionService struct {
	client   *openai.Client
	language string
}

func NewTranscriptionService(apiKey string) *TranscriptionService {
	language := os.Getenv("VOICE_LANGUAGE")
	if language == "" {
		language = "fr"
	}

	return &TranscriptionService{
		client:   openai.NewClient(apiKey),
		language: language,
	}
}

// TranscribePCM sends a mono 16-bit little-endian PCM chunk to Whisper and
// returns the recognized text. An empty transcript yields ErrNoSpeech.
func (t *TranscriptionService) TranscribePCM(ctx context.Context, pcm []byte, sampleRate int) (string, error) {
	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: "chunk.wav",
		Reader:   bytes.NewReader(WrapWAV(pcm, sampleRate)),
		Language: t.language,
	}

	resp, err := t.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrNoSpeech
	}

	return text, nil
}

// WrapWAV prefixes raw mono 16-bit PCM with a RIFF/WAVE header.
func WrapWAV(pcm []byte, sampleRate int) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
	)

	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	var buf bytes.Buffer
	buf.Grow(44 + len(pcm))

	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}
