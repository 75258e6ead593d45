package usecase

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/speechprep/speechprep/domain/entities"
	"github.com/speechprep/speechprep/domain/normalizer"
	"github.com/speechprep/speechprep/domain/repositories"
)

// SynthesisService orchestrates the text-to-audio flow: resolve the
// language profile, normalize the text, refuse empty results, then hand
// the cleaned text to the synthesizer.
type SynthesisService struct {
	textToSpeech repositories.TextToSpeech
	logger       *zap.Logger
}

// SynthesisResult describes a completed synthesis.
type SynthesisResult struct {
	Language       string `json:"language"`
	LanguageCode   string `json:"language_code"`
	NormalizedText string `json:"normalized_text"`
	AudioBytes     int    `json:"audio_bytes"`
}

// NewSynthesisService creates a new synthesis service.
func NewSynthesisService(tts repositories.TextToSpeech, logger *zap.Logger) *SynthesisService {
	return &SynthesisService{
		textToSpeech: tts,
		logger:       logger,
	}
}

// SynthesizeStream normalizes text and starts synthesis, returning the
// audio as a chunk stream. The stream is the synthesizer's own channel;
// callers must drain it.
func (s *SynthesisService) SynthesizeStream(ctx context.Context, text string, language string) (*SynthesisResult, <-chan []byte, error) {
	profile, err := entities.ProfileFor(language)
	if err != nil {
		return nil, nil, err
	}

	cleaned, err := normalizer.Normalize(text, profile)
	if err != nil {
		return nil, nil, fmt.Errorf("normalization of %s text failed: %w", profile.Name, err)
	}

	s.logger.Info("Text normalized",
		zap.String("language", profile.Name),
		zap.Int("rawLength", len([]rune(text))),
		zap.Int("cleanedLength", len([]rune(cleaned))))

	audioChan, err := s.textToSpeech.ConvertTextToSpeech(ctx, cleaned, profile.Code)
	if err != nil {
		return nil, nil, fmt.Errorf("text-to-speech failed: %w", err)
	}

	result := &SynthesisResult{
		Language:       profile.Name,
		LanguageCode:   profile.Code,
		NormalizedText: cleaned,
	}
	return result, audioChan, nil
}

// Synthesize normalizes text, synthesizes it and returns the whole audio
// payload in memory.
func (s *SynthesisService) Synthesize(ctx context.Context, text string, language string) (*SynthesisResult, []byte, error) {
	result, audioChan, err := s.SynthesizeStream(ctx, text, language)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	for chunk := range audioChan {
		buf.Write(chunk)
	}
	if buf.Len() == 0 {
		return nil, nil, fmt.Errorf("synthesizer produced no audio")
	}

	result.AudioBytes = buf.Len()

	s.logger.Info("Synthesis completed",
		zap.String("language", result.Language),
		zap.Int("audioBytes", result.AudioBytes))

	return result, buf.Bytes(), nil
}

// SynthesizeToFile synthesizes text and writes the audio to outputPath.
func (s *SynthesisService) SynthesizeToFile(ctx context.Context, text string, language string, outputPath string) (*SynthesisResult, error) {
	result, audio, err := s.Synthesize(ctx, text, language)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(outputPath, audio, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write audio file: %w", err)
	}

	s.logger.Info("Audio file written",
		zap.String("outputPath", outputPath),
		zap.Int("audioBytes", result.AudioBytes))

	return result, nil
}
