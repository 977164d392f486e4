package chat

import "time"

// Session identifies one continuous use of the chat UI. The identifier is
// opaque and never outlives the browser session that minted it; the durable
// turns it keys (see Turn) do.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
