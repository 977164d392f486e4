// Package store persists chat turns keyed by session. Persistence is strictly
// best-effort: callers treat every error as a non-fatal diagnostic and proceed
// with degraded state.
package store

import (
	"context"
	"errors"

	"github.com/ErikSvetich/treeline-assistant/internal/model/chat"
)

// ErrDuplicateTurn is returned when a turn with the same (SessionID,
// Timestamp) key already exists. Appends never overwrite silently.
var ErrDuplicateTurn = errors.New("store: turn already exists")

// TranscriptStore is the append-only turn log.
type TranscriptStore interface {
	// Append writes one turn as a new record keyed by (SessionID, Timestamp).
	Append(ctx context.Context, turn chat.Turn) error
	// LoadHistory returns all turns for a session, ascending by Timestamp.
	LoadHistory(ctx context.Context, sessionID string) ([]chat.Turn, error)
}
