package websocket

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap/zaptest"

	"github.com/speechprep/speechprep/adapters/tts"
	"github.com/speechprep/speechprep/usecase"
)

func newStreamServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := zaptest.NewLogger(t)
	mock := tts.NewMockTTS(logger)
	synthesis := usecase.NewSynthesisService(mock, logger)

	e := echo.New()
	e.GET("/ws", func(c echo.Context) error {
		return HandleSynthesisStream(synthesis, c, logger)
	})

	return httptest.NewServer(e)
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	return conn
}

func TestHandleSynthesisStream(t *testing.T) {
	server := newStreamServer(t)
	defer server.Close()

	conn := dial(t, server)
	defer conn.Close()

	err := conn.WriteJSON(SynthesisRequest{Text: "¡Hola! ¿Cómo estás?", Language: "spanish"})
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}

	audioBytes := 0
	var done SynthesisComplete

	for {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("Failed to read message: %v", err)
		}

		if messageType == websocket.BinaryMessage {
			audioBytes += len(payload)
			continue
		}

		if err := json.Unmarshal(payload, &done); err != nil {
			t.Fatalf("Failed to decode completion frame: %v", err)
		}
		break
	}

	if done.Type != "synthesis_complete" {
		t.Errorf("Expected completion frame, got %q", done.Type)
	}
	if audioBytes == 0 {
		t.Error("Expected audio chunks before completion")
	}
	if done.AudioBytes != audioBytes {
		t.Errorf("Completion reports %d bytes, received %d", done.AudioBytes, audioBytes)
	}
	if done.NormalizedText != "¡Hola! ¿Cómo estás?" {
		t.Errorf("Unexpected normalized text: %q", done.NormalizedText)
	}
}

func TestHandleSynthesisStream_EmptyResult(t *testing.T) {
	server := newStreamServer(t)
	defer server.Close()

	conn := dial(t, server)
	defer conn.Close()

	if err := conn.WriteJSON(SynthesisRequest{Text: "[only brackets]", Language: "spanish"}); err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	messageType, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	if messageType != websocket.TextMessage {
		t.Fatalf("Expected text frame, got type %d", messageType)
	}

	var errFrame SynthesisError
	if err := json.Unmarshal(payload, &errFrame); err != nil {
		t.Fatalf("Failed to decode error frame: %v", err)
	}
	if errFrame.Error != "empty_result" {
		t.Errorf("Expected 'empty_result', got %q", errFrame.Error)
	}
}
