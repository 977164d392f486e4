// Package chat orchestrates one submission cycle: persist the user turn,
// generate a reply, persist the assistant turn. Store writes are best-effort
// and never abort the cycle; only completed exchanges are persisted.
package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ErikSvetich/treeline-assistant/internal/model/chat"
	"github.com/ErikSvetich/treeline-assistant/internal/model/persona"
	"github.com/ErikSvetich/treeline-assistant/internal/store"
)

// Generator produces a completion for one stateless request. The ai package
// provides the real implementation; tests inject fakes.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userText string) (string, error)
}

// Exchange is the result of one successful submission.
type Exchange struct {
	SessionID string   `json:"sessionId"`
	Persona   string   `json:"persona"`
	Reply     string   `json:"reply"`
	Timestamp int64    `json:"timestamp"`
	Warnings  []string `json:"warnings,omitempty"`
}

// Service coordinates the persona registry, transcript store, and generator.
type Service struct {
	personas persona.Store
	store    store.TranscriptStore
	gen      Generator
	log      zerolog.Logger

	mu   sync.Mutex
	last map[string]int64

	now func() time.Time
}

// NewService wires the controller. gen may be nil when no generation
// credentials are configured; submissions then fail visibly instead of at
// startup.
func NewService(personas persona.Store, ts store.TranscriptStore, gen Generator, logger zerolog.Logger) *Service {
	return &Service{
		personas: personas,
		store:    ts,
		gen:      gen,
		log:      logger.With().Str("component", "chat").Logger(),
		last:     make(map[string]int64),
		now:      time.Now,
	}
}

// NewSession mints a fresh opaque session identifier.
func (s *Service) NewSession(_ context.Context) chat.Session {
	return chat.Session{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
	}
}

// Submit runs one request/response cycle. The user turn is persisted before
// generation; the assistant turn only after a successful generation. Store
// failures are reduced to warnings on the exchange.
func (s *Service) Submit(ctx context.Context, sessionID, personaLabel, text string) (Exchange, error) {
	prompt, err := s.personas.Prompt(personaLabel)
	if err != nil {
		return Exchange{}, err
	}

	var warnings []string

	userTurn := chat.Turn{
		SessionID: sessionID,
		Timestamp: s.nextTimestamp(sessionID),
		Role:      chat.RoleUser,
		Content:   text,
		Persona:   personaLabel,
	}
	if err := s.store.Append(ctx, userTurn); err != nil {
		s.log.Warn().Err(err).Str("session", sessionID).Msg("failed to save user turn")
		warnings = append(warnings, fmt.Sprintf("failed to save message: %v", err))
	}

	reply, err := s.generate(ctx, prompt, text)
	if err != nil {
		// No turn record for failed generations; the user turn stays.
		return Exchange{}, err
	}

	assistantTurn := chat.Turn{
		SessionID: sessionID,
		Timestamp: s.nextTimestamp(sessionID),
		Role:      chat.RoleModel,
		Content:   reply,
		Persona:   personaLabel,
	}
	if err := s.store.Append(ctx, assistantTurn); err != nil {
		s.log.Warn().Err(err).Str("session", sessionID).Msg("failed to save assistant turn")
		warnings = append(warnings, fmt.Sprintf("failed to save message: %v", err))
	}

	return Exchange{
		SessionID: sessionID,
		Persona:   personaLabel,
		Reply:     reply,
		Timestamp: assistantTurn.Timestamp,
		Warnings:  warnings,
	}, nil
}

// History returns the persisted turns for a session. On store failure it
// returns an empty slice together with the error; callers surface the error
// as a diagnostic and proceed.
func (s *Service) History(ctx context.Context, sessionID string) ([]chat.Turn, error) {
	turns, err := s.store.LoadHistory(ctx, sessionID)
	if err != nil {
		s.log.Warn().Err(err).Str("session", sessionID).Msg("failed to load history")
		return []chat.Turn{}, err
	}
	return turns, nil
}

func (s *Service) generate(ctx context.Context, prompt, text string) (string, error) {
	if s.gen == nil {
		return "", fmt.Errorf("chat: completion client not configured")
	}
	return s.gen.Generate(ctx, prompt, text)
}

// nextTimestamp issues per-session strictly monotonic millisecond timestamps,
// so two submissions within the same millisecond cannot collide on the
// store's sort key.
func (s *Service) nextTimestamp(sessionID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().UnixMilli()
	if last, ok := s.last[sessionID]; ok && ts <= last {
		ts = last + 1
	}
	s.last[sessionID] = ts
	return ts
}
