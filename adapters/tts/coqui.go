package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/speechprep/speechprep/domain/repositories"
)

const (
	defaultServerURL = "http://localhost:5002"
	defaultModelName = "tts_models/multilingual/multi-dataset/xtts_v2"
	defaultSpeakerID = "Claribel Dervla"
	defaultChunkSize = 1024
	defaultTimeout   = 90 * time.Second
)

// CoquiConfig holds configuration for the CoquiTTS adapter.
// Required fields: none — every field has a default.
// Optional fields with defaults:
// - ServerURL: base URL of a running Coqui TTS server (default: "http://localhost:5002")
// - ModelName: model the server is expected to serve (default: XTTS v2 multilingual)
// - SpeakerID: speaker preset for multi-speaker models
// - ChunkSize: size of audio chunks to stream (default: 1024)
// - Timeout: per-request HTTP timeout (default: 90s)
type CoquiConfig struct {
	ServerURL string
	ModelName string
	SpeakerID string
	ChunkSize int
	Timeout   time.Duration
}

// CoquiTTS implements the TextToSpeech interface against the Coqui TTS
// server HTTP API. The server loads the model once at startup; this
// adapter holds no per-call state and is safe to share.
type CoquiTTS struct {
	serverURL string
	modelName string
	speakerID string
	chunkSize int
	client    *http.Client
	logger    *zap.Logger
}

// Ensure CoquiTTS implements the TextToSpeech interface
var _ repositories.TextToSpeech = (*CoquiTTS)(nil)

// ValidateCoquiConfig validates the CoquiConfig.
func ValidateCoquiConfig(config CoquiConfig) error {
	if config.ServerURL != "" {
		if _, err := url.Parse(config.ServerURL); err != nil {
			return fmt.Errorf("invalid server URL %q: %w", config.ServerURL, err)
		}
	}
	if config.ChunkSize < 0 {
		return fmt.Errorf("chunk size must be positive, got %d", config.ChunkSize)
	}
	if config.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %s", config.Timeout)
	}
	return nil
}

// NewCoquiTTS creates a new Coqui TTS adapter.
func NewCoquiTTS(config CoquiConfig, logger *zap.Logger) (*CoquiTTS, error) {
	if err := ValidateCoquiConfig(config); err != nil {
		return nil, err
	}

	serverURL := config.ServerURL
	if serverURL == "" {
		serverURL = defaultServerURL
		logger.Info("Using default Coqui server URL", zap.String("serverURL", serverURL))
	}

	modelName := config.ModelName
	if modelName == "" {
		modelName = defaultModelName
		logger.Info("Using default model name", zap.String("modelName", modelName))
	}

	speakerID := config.SpeakerID
	if speakerID == "" {
		speakerID = defaultSpeakerID
	}

	chunkSize := config.ChunkSize
	if chunkSize == 0 {
		chunkSize = defaultChunkSize
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &CoquiTTS{
		serverURL: strings.TrimRight(serverURL, "/"),
		modelName: modelName,
		speakerID: speakerID,
		chunkSize: chunkSize,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}, nil
}

// ConvertTextToSpeech synthesizes text through the Coqui TTS server and
// streams the WAV body in chunks. The request is issued synchronously so
// server-side failures (model not loaded, unsupported language) surface
// as an error; only body streaming happens in the background.
func (c *CoquiTTS) ConvertTextToSpeech(ctx context.Context, text string, language string) (<-chan []byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	c.logger.Info("Converting text to speech",
		zap.String("text", text),
		zap.String("language", language),
		zap.String("modelName", c.modelName))

	query := url.Values{}
	query.Set("text", text)
	query.Set("speaker_id", c.speakerID)
	query.Set("language_id", language)

	requestURL := fmt.Sprintf("%s/api/tts?%s", c.serverURL, query.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Accept", "audio/wav")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("coqui server request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("coqui server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(errorBody)))
	}

	audioChan := make(chan []byte, 10)

	go func() {
		defer close(audioChan)
		defer resp.Body.Close()

		buffer := make([]byte, c.chunkSize)
		totalBytes := 0
		chunkCount := 0

		for {
			n, err := resp.Body.Read(buffer)
			if n > 0 {
				totalBytes += n
				chunkCount++

				chunk := make([]byte, n)
				copy(chunk, buffer[:n])

				select {
				case audioChan <- chunk:
				case <-ctx.Done():
					c.logger.Warn("Context cancelled while sending audio chunk")
					return
				}
			}

			if err == io.EOF {
				c.logger.Info("Finished streaming audio data",
					zap.Int("totalChunks", chunkCount),
					zap.Int("totalBytes", totalBytes))
				return
			}
			if err != nil {
				c.logger.Error("Error reading response body", zap.Error(err))
				return
			}
		}
	}()

	return audioChan, nil
}

// NewCoquiConfigFromEnv creates a CoquiConfig from environment variables.
func NewCoquiConfigFromEnv() CoquiConfig {
	config := CoquiConfig{
		ServerURL: os.Getenv("COQUI_SERVER_URL"),
		ModelName: os.Getenv("COQUI_MODEL_NAME"),
		SpeakerID: os.Getenv("COQUI_SPEAKER_ID"),
	}

	if chunkSizeStr := os.Getenv("COQUI_CHUNK_SIZE"); chunkSizeStr != "" {
		if chunkSize, err := strconv.Atoi(chunkSizeStr); err == nil && chunkSize > 0 {
			config.ChunkSize = chunkSize
		}
	}

	if timeoutStr := os.Getenv("COQUI_TIMEOUT_SECONDS"); timeoutStr != "" {
		if seconds, err := strconv.Atoi(timeoutStr); err == nil && seconds > 0 {
			config.Timeout = time.Duration(seconds) * time.Second
		}
	}

	return config
}
