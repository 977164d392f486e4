package store

import (
	"context"
	"sort"
	"sync"

	"github.com/ErikSvetich/treeline-assistant/internal/model/chat"
)

// MemoryStore implements TranscriptStore in-process. It backs tests and the
// degraded mode used when no table credentials are configured; turns then
// live only as long as the process.
type MemoryStore struct {
	mu    sync.RWMutex
	turns map[string][]chat.Turn
}

// NewMemoryStore returns an empty in-memory transcript store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{turns: make(map[string][]chat.Turn)}
}

// Append records the turn, refusing key collisions like the durable backend.
func (s *MemoryStore) Append(_ context.Context, turn chat.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.turns[turn.SessionID] {
		if existing.Timestamp == turn.Timestamp {
			return ErrDuplicateTurn
		}
	}

	s.turns[turn.SessionID] = append(s.turns[turn.SessionID], turn)
	return nil
}

// LoadHistory returns the session's turns sorted ascending by timestamp.
func (s *MemoryStore) LoadHistory(_ context.Context, sessionID string) ([]chat.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.turns[sessionID]
	copied := make([]chat.Turn, len(turns))
	copy(copied, turns)

	sort.Slice(copied, func(i, j int) bool {
		return copied[i].Timestamp < copied[j].Timestamp
	})
	return copied, nil
}
