package history

import "time"

// Record is one answered query as shown back to the operator. It is never
// fed to the model.
type Record struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Query     string    `json:"query"`
	Thought   string    `json:"thought,omitempty"`
	Answer    string    `json:"answer,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
