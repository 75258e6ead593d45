package repositories

import "context"

// TextToSpeech abstracts the external speech synthesizer. Callers hand
// it already-normalized text and the profile's language code; the
// encoded audio is streamed back in chunks. Implementations are
// expensive to construct (model loading, client setup) and must be
// created once and reused across calls.
type TextToSpeech interface {
	ConvertTextToSpeech(ctx context.Context, text string, language string) (<-chan []byte, error)
}
