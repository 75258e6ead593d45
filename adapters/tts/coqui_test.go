package tts

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestNewCoquiTTS(t *testing.T) {
	logger := zaptest.NewLogger(t)

	// Defaults apply when nothing is configured
	os.Unsetenv("COQUI_SERVER_URL")
	config := NewCoquiConfigFromEnv()
	tts, err := NewCoquiTTS(config, logger)
	if err != nil {
		t.Fatalf("Failed to create CoquiTTS: %v", err)
	}

	if tts.serverURL != defaultServerURL {
		t.Errorf("Expected default server URL '%s', got '%s'", defaultServerURL, tts.serverURL)
	}
	if tts.modelName != defaultModelName {
		t.Errorf("Expected default model name '%s', got '%s'", defaultModelName, tts.modelName)
	}
	if tts.chunkSize != defaultChunkSize {
		t.Errorf("Expected default chunk size %d, got %d", defaultChunkSize, tts.chunkSize)
	}

	// Environment overrides
	os.Setenv("COQUI_SERVER_URL", "http://tts.internal:5002/")
	os.Setenv("COQUI_CHUNK_SIZE", "2048")
	defer os.Unsetenv("COQUI_SERVER_URL")
	defer os.Unsetenv("COQUI_CHUNK_SIZE")

	config = NewCoquiConfigFromEnv()
	tts, err = NewCoquiTTS(config, logger)
	if err != nil {
		t.Fatalf("Failed to create CoquiTTS: %v", err)
	}

	if tts.serverURL != "http://tts.internal:5002" {
		t.Errorf("Expected trimmed server URL, got '%s'", tts.serverURL)
	}
	if tts.chunkSize != 2048 {
		t.Errorf("Expected chunk size 2048, got %d", tts.chunkSize)
	}
}

func TestValidateCoquiConfig(t *testing.T) {
	if err := ValidateCoquiConfig(CoquiConfig{ChunkSize: -1}); err == nil {
		t.Error("Expected error for negative chunk size")
	}
	if err := ValidateCoquiConfig(CoquiConfig{Timeout: -time.Second}); err == nil {
		t.Error("Expected error for negative timeout")
	}
	if err := ValidateCoquiConfig(CoquiConfig{}); err != nil {
		t.Errorf("Expected empty config to be valid, got %v", err)
	}
}

func TestCoquiTTS_ConvertTextToSpeech_EmptyText(t *testing.T) {
	logger := zaptest.NewLogger(t)

	tts, err := NewCoquiTTS(CoquiConfig{}, logger)
	if err != nil {
		t.Fatalf("Failed to create CoquiTTS: %v", err)
	}

	ctx := context.Background()
	if _, err := tts.ConvertTextToSpeech(ctx, "", "ja"); err == nil {
		t.Error("Expected error for empty text")
	}
	if _, err := tts.ConvertTextToSpeech(ctx, "   ", "ja"); err == nil {
		t.Error("Expected error for whitespace-only text")
	}
}

func TestCoquiTTS_ConvertTextToSpeech(t *testing.T) {
	logger := zaptest.NewLogger(t)

	fakeAudio := bytes.Repeat([]byte{0x52, 0x49, 0x46, 0x46}, 1000)

	var gotText, gotLanguage string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotText = r.URL.Query().Get("text")
		gotLanguage = r.URL.Query().Get("language_id")
		w.Header().Set("Content-Type", "audio/wav")
		w.Write(fakeAudio)
	}))
	defer server.Close()

	tts, err := NewCoquiTTS(CoquiConfig{ServerURL: server.URL}, logger)
	if err != nil {
		t.Fatalf("Failed to create CoquiTTS: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	audioChan, err := tts.ConvertTextToSpeech(ctx, "こんにちは。", "ja")
	if err != nil {
		t.Fatalf("Failed to convert text to speech: %v", err)
	}

	var received bytes.Buffer
	for chunk := range audioChan {
		if len(chunk) == 0 {
			t.Error("Received empty audio chunk")
		}
		received.Write(chunk)
	}

	if !bytes.Equal(received.Bytes(), fakeAudio) {
		t.Errorf("Received %d bytes, want %d", received.Len(), len(fakeAudio))
	}
	if gotText != "こんにちは。" {
		t.Errorf("Server received text %q", gotText)
	}
	if gotLanguage != "ja" {
		t.Errorf("Server received language_id %q, want 'ja'", gotLanguage)
	}
}

func TestCoquiTTS_ConvertTextToSpeech_ServerError(t *testing.T) {
	logger := zaptest.NewLogger(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	tts, err := NewCoquiTTS(CoquiConfig{ServerURL: server.URL}, logger)
	if err != nil {
		t.Fatalf("Failed to create CoquiTTS: %v", err)
	}

	_, err = tts.ConvertTextToSpeech(context.Background(), "hola", "es")
	if err == nil {
		t.Fatal("Expected error from failing server")
	}
}
