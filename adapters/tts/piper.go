package tts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/speechprep/speechprep/domain/repositories"
)

// PiperConfig holds configuration for the PiperTTS adapter.
// Required fields:
// - ModelPaths: ONNX voice model per language code, e.g. {"es": "./models/es_ES-davefx-medium.onnx"}
// Optional fields with defaults:
// - BinaryPath: path to the piper binary (default: "piper", resolved via PATH)
type PiperConfig struct {
	BinaryPath string
	ModelPaths map[string]string
}

// PiperTTS implements the TextToSpeech interface by shelling out to the
// piper binary. Synthesis runs fully offline; the model is loaded per
// invocation, so this adapter trades startup latency for zero server
// dependencies.
type PiperTTS struct {
	binaryPath string
	modelPaths map[string]string
	logger     *zap.Logger
}

// Ensure PiperTTS implements the TextToSpeech interface
var _ repositories.TextToSpeech = (*PiperTTS)(nil)

// NewPiperTTS creates a new piper adapter.
func NewPiperTTS(config PiperConfig, logger *zap.Logger) (*PiperTTS, error) {
	if len(config.ModelPaths) == 0 {
		return nil, fmt.Errorf("at least one piper model path is required")
	}

	binaryPath := config.BinaryPath
	if binaryPath == "" {
		binaryPath = "piper"
	}

	return &PiperTTS{
		binaryPath: binaryPath,
		modelPaths: config.ModelPaths,
		logger:     logger,
	}, nil
}

// ConvertTextToSpeech runs piper with the language's voice model and
// streams the WAV output.
func (p *PiperTTS) ConvertTextToSpeech(ctx context.Context, text string, language string) (<-chan []byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	modelPath, ok := p.modelPaths[language]
	if !ok {
		return nil, fmt.Errorf("no piper model configured for language %q", language)
	}

	p.logger.Info("Converting text to speech",
		zap.String("language", language),
		zap.String("modelPath", modelPath))

	cmd := exec.CommandContext(ctx, p.binaryPath,
		"--model", modelPath,
		"--output_file", "-",
	)
	cmd.Stdin = strings.NewReader(text)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("piper synthesis failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("piper produced no audio")
	}

	audioChan := make(chan []byte, 10)

	go func() {
		defer close(audioChan)

		audio := stdout.Bytes()
		for offset := 0; offset < len(audio); offset += defaultChunkSize {
			end := offset + defaultChunkSize
			if end > len(audio) {
				end = len(audio)
			}

			chunk := make([]byte, end-offset)
			copy(chunk, audio[offset:end])

			select {
			case audioChan <- chunk:
			case <-ctx.Done():
				p.logger.Warn("Context cancelled while sending audio chunk")
				return
			}
		}
	}()

	return audioChan, nil
}

// NewPiperConfigFromEnv creates a PiperConfig from environment variables.
// Model paths are read from PIPER_MODEL_JA and PIPER_MODEL_ES.
func NewPiperConfigFromEnv() PiperConfig {
	modelPaths := make(map[string]string)
	if path := os.Getenv("PIPER_MODEL_JA"); path != "" {
		modelPaths["ja"] = path
	}
	if path := os.Getenv("PIPER_MODEL_ES"); path != "" {
		modelPaths["es"] = path
	}

	return PiperConfig{
		BinaryPath: os.Getenv("PIPER_BINARY"),
		ModelPaths: modelPaths,
	}
}
