package tts

import (
	"context"
	"fmt"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"go.uber.org/zap"

	"github.com/speechprep/speechprep/domain/repositories"
)

// bcp47Codes maps profile language codes to the region-qualified codes
// the Cloud TTS voice catalog uses.
var bcp47Codes = map[string]string{
	"ja": "ja-JP",
	"es": "es-ES",
}

// GoogleCloudTTS implements the TextToSpeech interface using the Google
// Cloud Text-to-Speech API. Credentials are resolved the usual way
// (GOOGLE_APPLICATION_CREDENTIALS or ambient service account).
type GoogleCloudTTS struct {
	client *texttospeech.Client
	logger *zap.Logger
}

// Ensure GoogleCloudTTS implements the TextToSpeech interface
var _ repositories.TextToSpeech = (*GoogleCloudTTS)(nil)

// NewGoogleCloudTTS creates a Cloud TTS adapter. The underlying client
// holds gRPC connections and must be reused; call Close when done.
func NewGoogleCloudTTS(ctx context.Context, logger *zap.Logger) (*GoogleCloudTTS, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create texttospeech client: %w", err)
	}

	return &GoogleCloudTTS{
		client: client,
		logger: logger,
	}, nil
}

// ConvertTextToSpeech synthesizes text into LINEAR16 audio and streams
// it in chunks.
func (g *GoogleCloudTTS) ConvertTextToSpeech(ctx context.Context, text string, language string) (<-chan []byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	languageCode, ok := bcp47Codes[language]
	if !ok {
		return nil, fmt.Errorf("unsupported language code: %s", language)
	}

	g.logger.Info("Converting text to speech",
		zap.String("text", text),
		zap.String("languageCode", languageCode))

	resp, err := g.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: languageCode,
			SsmlGender:   texttospeechpb.SsmlVoiceGender_NEUTRAL,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_LINEAR16,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}

	audioChan := make(chan []byte, 10)

	go func() {
		defer close(audioChan)

		audio := resp.AudioContent
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
				g.logger.Warn("Context cancelled while sending audio chunk")
				return
			}
		}
	}()

	return audioChan, nil
}

// Close releases the underlying gRPC connections.
func (g *GoogleCloudTTS) Close() error {
	return g.client.Close()
}
