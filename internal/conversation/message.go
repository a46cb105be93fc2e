package conversation

import "time"

// Message roles. Anything else is rejected by Append.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn in a session. Immutable once appended.
type Message struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Session is the durable record of one user's conversation. It is owned
// by the Store and mutated only through Append.
type Session struct {
	SessionID string         `json:"session_id"`
	UserID    string         `json:"user_id"`
	Messages  []Message      `json:"messages"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// exchange pairs a user message with the assistant reply that followed
// it. Context derivation works on exchanges, not raw messages.
type exchange struct {
	User      string
	Assistant string
}

// exchanges walks the message list pairing each user turn with the next
// assistant turn. Unanswered trailing user turns are dropped.
func exchanges(msgs []Message) []exchange {
	var out []exchange
	var pendingUser string
	var havePending bool
	for _, m := range msgs {
		switch m.Role {
		case RoleUser:
			pendingUser = m.Content
			havePending = true
		case RoleAssistant:
			if havePending {
				out = append(out, exchange{User: pendingUser, Assistant: m.Content})
				havePending = false
			}
		}
	}
	return out
}
