package tts

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/speechprep/speechprep/domain/repositories"
)

// MockTTS is a placeholder synthesizer for tests and keyless local runs.
// It emits deterministic fake audio proportional to the text length.
type MockTTS struct {
	logger *zap.Logger

	// LastText and LastLanguage record the most recent call for tests.
	LastText     string
	LastLanguage string
	Calls        int
}

// Ensure MockTTS implements the TextToSpeech interface
var _ repositories.TextToSpeech = (*MockTTS)(nil)

// NewMockTTS creates a new mock text-to-speech service.
func NewMockTTS(logger *zap.Logger) *MockTTS {
	return &MockTTS{logger: logger}
}

// ConvertTextToSpeech implements repositories.TextToSpeech.
func (m *MockTTS) ConvertTextToSpeech(ctx context.Context, text string, language string) (<-chan []byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	m.LastText = text
	m.LastLanguage = language
	m.Calls++

	m.logger.Info("Processing text-to-speech",
		zap.String("text", text),
		zap.String("language", language))

	// Fake audio sized from the text, filled with a repeating pattern.
	audioSize := len([]rune(text)) * 100
	mockAudio := make([]byte, audioSize)
	for i := range mockAudio {
		mockAudio[i] = byte(i % 256)
	}

	audioChan := make(chan []byte, 10)

	go func() {
		defer close(audioChan)

		for offset := 0; offset < len(mockAudio); offset += defaultChunkSize {
			end := offset + defaultChunkSize
			if end > len(mockAudio) {
				end = len(mockAudio)
			}

			select {
			case audioChan <- mockAudio[offset:end]:
			case <-ctx.Done():
				return
			}
		}
	}()

	return audioChan, nil
}
