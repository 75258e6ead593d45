package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/speechprep/speechprep/adapters/tts"
	"github.com/speechprep/speechprep/usecase"
)

func main() {
	godotenv.Load()

	language := flag.String("lang", "japanese", "language profile: japanese, spanish (or ja, es)")
	output := flag.String("out", "output.wav", "output audio file path")
	engine := flag.String("engine", "coqui", "TTS engine: coqui, piper, google, mock")
	timeout := flag.Duration("timeout", 2*time.Minute, "synthesis timeout")
	flag.Parse()

	text := strings.Join(flag.Args(), " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(os.Stderr, "usage: speak [-lang japanese|spanish] [-out output.wav] [-engine coqui|piper|google|mock] TEXT")
		os.Exit(2)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// Construct the synthesizer once; model loading is the expensive part.
	textToSpeech, err := tts.NewFromEnv(ctx, *engine, logger)
	if err != nil {
		logger.Error("failed to initialize TTS engine", zap.Error(err))
		os.Exit(1)
	}

	synthesis := usecase.NewSynthesisService(textToSpeech, logger)

	fmt.Printf("Original text: %s\n", text)

	result, err := synthesis.SynthesizeToFile(ctx, text, *language, *output)
	if err != nil {
		logger.Error("synthesis failed", zap.Error(err))
		os.Exit(1)
	}

	fmt.Printf("Cleaned text:  %s\n", result.NormalizedText)
	fmt.Printf("Audio saved to %s (%d bytes)\n", *output, result.AudioBytes)
}
