package persona

import "errors"

// ErrUnknownPersona is returned for labels not present in the registry.
// Unreachable through the UI's closed selector, but the API is open.
var ErrUnknownPersona = errors.New("persona: unknown label")

// Store exposes persona retrieval for handlers and the chat service.
type Store interface {
	// List returns all personas in definition order.
	List() []Persona
	// Prompt returns the system prompt for a label.
	Prompt(label string) (string, error)
}

// Registry implements Store over an immutable in-memory slice.
type Registry struct {
	items []Persona
}

// NewRegistry returns a Registry holding the supplied personas.
func NewRegistry(items []Persona) *Registry {
	return &Registry{items: append([]Persona(nil), items...)}
}

// List returns the predefined persona list in definition order.
func (r *Registry) List() []Persona {
	return append([]Persona(nil), r.items...)
}

// Prompt looks up a persona's system prompt by label.
func (r *Registry) Prompt(label string) (string, error) {
	for _, item := range r.items {
		if item.Label == label {
			return item.SystemPrompt, nil
		}
	}
	return "", ErrUnknownPersona
}
