package advisor

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"bazi-fengshui/bazi"
	"bazi-fengshui/llm"

	"go.uber.org/zap"
)

// AudioSourceNone marks a script returned without audio.
const AudioSourceNone = "none"

// SpeechScript is a spoken version of a report.
type SpeechScript struct {
	Script      string `json:"script"`
	AudioBase64 string `json:"audioBase64,omitempty"`
	AudioSource string `json:"audioSource"`
	WAV         []byte `json:"-"`
}

// SpeechScript turns a report into a lively script and, when the provider
// can, synthesizes it. Speech failures leave the script without audio.
func (a *Advisor) SpeechScript(ctx context.Context, report, subject string) (*SpeechScript, error) {
	if strings.TrimSpace(report) == "" {
		return nil, bazi.NewValidationError("report", "no report provided")
	}

	text, err := a.provider.Generate(ctx, llm.SpeechScriptPrompt(report, subject), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate script: %w", err)
	}
	out := &SpeechScript{
		Script:      strings.TrimSpace(text),
		AudioSource: AudioSourceNone,
	}

	speech, err := a.provider.Speak(ctx, llm.SpeechDirection(out.Script))
	switch {
	case errors.Is(err, llm.ErrAudioUnsupported):
		a.logger.Debug("provider cannot synthesize speech", zap.String("provider", a.provider.Name()))
	case err != nil:
		a.logger.Warn("speech synthesis failed, returning script only", zap.Error(err))
	default:
		out.WAV = speech.WAV
		out.AudioBase64 = base64.StdEncoding.EncodeToString(speech.WAV)
		out.AudioSource = speech.Source
	}
	return out, nil
}
