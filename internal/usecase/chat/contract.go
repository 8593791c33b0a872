package chat

import (
	"context"

	"github.com/kailas-cloud/cardex/internal/domain"
)

// Completer streams a chat completion, invoking onDelta for every content
// chunk as it arrives. Returning an error from onDelta aborts the stream.
type Completer interface {
	StreamCompletion(ctx context.Context, messages []domain.ChatMessage, onDelta func(string) error) error
}

// Retriever finds catalog cards loosely matching free text.
type Retriever interface {
	Search(ctx context.Context, text string, limit int) ([]domain.Card, error)
}
