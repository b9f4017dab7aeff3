package repository

import (
	"context"

	"github.com/m2tx/geminichat/internal/chat"
)

// SessionRepository defines persistence operations for conversation history.
type SessionRepository interface {
	// Save persists the full history for a given session.
	// Replaces any previously stored history for that sessionID.
	Save(ctx context.Context, sessionID string, history []chat.Message) error

	// Load retrieves the stored history for a given session.
	// Returns nil, nil if the session does not exist.
	Load(ctx context.Context, sessionID string) ([]chat.Message, error)

	// Delete removes the stored history for a given session.
	// Is a no-op if the session does not exist.
	Delete(ctx context.Context, sessionID string) error
}
