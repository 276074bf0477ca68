package utils

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ErrEmptyPayload   = errors.New("empty payload")
	ErrPayloadTooBig  = errors.New("payload size exceeds limit")
	ErrInvalidBase64  = errors.New("invalid base64 data")
	ErrUndecodedImage = errors.New("could not decode image")
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	DecodeBase64(data string) ([]byte, error)
	DecodeImage(data []byte) (image.Image, string, error)
	EncodeJPEG(img image.Image, quality int) ([]byte, error)
}

type utils struct {
	maxPayloadSize int
}

func New() IUtils {
	return &utils{
		maxPayloadSize: 10 * 1024 * 1024,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// DecodeBase64 accepts plain base64 or a data URL as produced by canvas.toDataURL.
func (u *utils) DecodeBase64(data string) ([]byte, error) {
	data = strings.TrimSpace(data)
	if idx := strings.Index(data, ","); strings.HasPrefix(data, "data:") && idx != -1 {
		data = data[idx+1:]
	}
	if data == "" {
		return nil, ErrEmptyPayload
	}
	if base64.StdEncoding.DecodedLen(len(data)) > u.maxPayloadSize {
		return nil, ErrPayloadTooBig
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(data)
		if err != nil {
			return nil, ErrInvalidBase64
		}
	}

	return decoded, nil
}

func (u *utils) DecodeImage(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyPayload
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", ErrUndecodedImage
	}

	return img, format, nil
}

func (u *utils) EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
