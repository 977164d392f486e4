package chat

// Roles persisted on turns. Assistant turns are stored as "model", matching
// the record schema of the backing table.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is one persisted message. Turns are append-only: written immediately
// before and after a completion call, never mutated or deleted. Within a
// session they are totally ordered by Timestamp.
type Turn struct {
	SessionID string `json:"sessionId" dynamodbav:"SessionID"`
	Timestamp int64  `json:"timestamp" dynamodbav:"Timestamp"` // milliseconds since epoch
	Role      string `json:"role" dynamodbav:"Role"`
	Content   string `json:"content" dynamodbav:"Content"`
	Persona   string `json:"persona" dynamodbav:"Persona"`
}
