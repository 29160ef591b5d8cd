// Package llm talks to the AI models behind the outfit and workspace advisor.
package llm

import (
	"context"
	"errors"
)

// ErrAudioUnsupported is returned by providers that cannot synthesize speech.
var ErrAudioUnsupported = errors.New("provider does not support speech synthesis")

// ErrNoAudio means a speech model answered without an audio part.
var ErrNoAudio = errors.New("no audio part in response")

// Image is one inline image sent with a prompt.
type Image struct {
	MIMEType string
	Data     []byte
}

// Speech is synthesized audio, always WAV.
type Speech struct {
	WAV    []byte
	Source string // model that produced the audio
}

// StreamCallback is called for each chunk received during streaming
type StreamCallback func(chunk string) error

// Provider is a multimodal text model with optional speech synthesis.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string, images []Image) (string, error)
	GenerateStream(ctx context.Context, prompt string, images []Image, callback StreamCallback) error
	Speak(ctx context.Context, text string) (*Speech, error)
}
