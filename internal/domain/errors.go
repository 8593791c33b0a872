package domain

import "errors"

var (
	// ErrNotFound signals a missing card.
	ErrNotFound = errors.New("card not found")
	// ErrCardCorrupt signals a stored row whose JSON sub-documents failed to parse.
	// The catalog only ever stores what the seeder serialized, so this is an
	// internal consistency failure, not caller input.
	ErrCardCorrupt = errors.New("corrupt card record")
	// ErrChatNotConfigured signals a missing chat provider API key.
	ErrChatNotConfigured = errors.New("chat provider not configured")
	// ErrChatProviderError signals a chat completion provider failure.
	ErrChatProviderError = errors.New("chat provider error")
	// ErrInvalidMessages signals a malformed chat conversation payload.
	ErrInvalidMessages = errors.New("messages array required")
)
