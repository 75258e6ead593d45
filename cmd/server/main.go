package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/speechprep/speechprep/adapters/tts"
	"github.com/speechprep/speechprep/internal/api"
	ws "github.com/speechprep/speechprep/internal/websocket"
	"github.com/speechprep/speechprep/usecase"
)

func main() {
	godotenv.Load()

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize the synthesizer once; it is reused across requests.
	engine := os.Getenv("SPEECHPREP_TTS_ENGINE")
	textToSpeech, err := tts.NewFromEnv(context.Background(), engine, logger)
	if err != nil {
		logger.Fatal("failed to initialize TTS engine", zap.Error(err))
	}

	// Initialize usecase services
	synthesis := usecase.NewSynthesisService(textToSpeech, logger)

	// Initialize API routes
	api.InitRoutes(e, synthesis, logger)

	// WebSocket endpoint for streaming synthesis
	e.GET("/ws", func(c echo.Context) error {
		return ws.HandleSynthesisStream(synthesis, c, logger)
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("port", port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
