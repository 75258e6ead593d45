package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/speechprep/speechprep/domain/entities"
	"github.com/speechprep/speechprep/domain/normalizer"
	"github.com/speechprep/speechprep/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Maximum request size allowed from peer.
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// SynthesisRequest is the single JSON message a client sends after
// connecting.
type SynthesisRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// SynthesisComplete is the closing JSON frame sent after the last audio
// chunk.
type SynthesisComplete struct {
	Type           string `json:"type"`
	NormalizedText string `json:"normalized_text"`
	AudioBytes     int    `json:"audio_bytes"`
}

// SynthesisError is sent instead of audio when the request fails.
type SynthesisError struct {
	Type    string `json:"type"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HandleSynthesisStream upgrades the connection, reads one synthesis
// request, streams the audio back as binary frames and closes. Errors
// are reported as a JSON text frame before closing.
func HandleSynthesisStream(synthesis *usecase.SynthesisService, c echo.Context, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)

	var req SynthesisRequest
	if err := conn.ReadJSON(&req); err != nil {
		logger.Warn("Failed to read synthesis request", zap.Error(err))
		return nil
	}

	ctx := c.Request().Context()
	result, audioChan, err := synthesis.SynthesizeStream(ctx, req.Text, req.Language)
	if err != nil {
		writeError(conn, err, logger)
		return nil
	}

	totalBytes := 0
	for chunk := range audioChan {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
			logger.Warn("Failed to write audio chunk", zap.Error(err))
			return nil
		}
		totalBytes += len(chunk)
	}

	if totalBytes == 0 {
		writeError(conn, errors.New("synthesizer produced no audio"), logger)
		return nil
	}

	done := SynthesisComplete{
		Type:           "synthesis_complete",
		NormalizedText: result.NormalizedText,
		AudioBytes:     totalBytes,
	}
	payload, _ := json.Marshal(done)
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		logger.Warn("Failed to write completion frame", zap.Error(err))
		return nil
	}

	logger.Info("Streaming synthesis completed",
		zap.String("language", result.Language),
		zap.Int("audioBytes", totalBytes))

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return nil
}

func writeError(conn *websocket.Conn, err error, logger *zap.Logger) {
	kind := "synthesis_failed"
	switch {
	case errors.Is(err, entities.ErrUnsupportedLanguage):
		kind = "unsupported_language"
	case errors.Is(err, normalizer.ErrEmptyResult):
		kind = "empty_result"
	}

	logger.Warn("Streaming synthesis failed", zap.String("kind", kind), zap.Error(err))

	payload, _ := json.Marshal(SynthesisError{
		Type:    "error",
		Error:   kind,
		Message: err.Error(),
	})
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.TextMessage, payload)
}
