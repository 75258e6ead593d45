package tts

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/speechprep/speechprep/domain/repositories"
)

// NewFromEnv constructs the synthesizer named by engine, configured from
// environment variables. Supported engines: "coqui", "piper", "google",
// "mock". The returned adapter should be built once and shared.
func NewFromEnv(ctx context.Context, engine string, logger *zap.Logger) (repositories.TextToSpeech, error) {
	switch engine {
	case "coqui", "":
		return NewCoquiTTS(NewCoquiConfigFromEnv(), logger)
	case "piper":
		return NewPiperTTS(NewPiperConfigFromEnv(), logger)
	case "google":
		return NewGoogleCloudTTS(ctx, logger)
	case "mock":
		return NewMockTTS(logger), nil
	default:
		return nil, fmt.Errorf("unknown TTS engine: %q", engine)
	}
}
