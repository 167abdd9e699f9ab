package plan

// Role identifies the author of a chat turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one message of a planning conversation. The turn sequence is
// append-only; consumers read it and never mutate it.
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
