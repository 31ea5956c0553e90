package chat

import (
	"time"

	"github.com/lineage-health/platform/internal/shared/types"
)

// LogEntry is one recorded exchange with the assistant
type LogEntry struct {
	ID        types.ID  `json:"id"`
	UserID    types.ID  `json:"user_id"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// SendRequest is a new message with optional prior turns for context
type SendRequest struct {
	Message string    `json:"message"`
	History []Message `json:"history,omitempty"`
}

// SendResponse is the assistant's reply
type SendResponse struct {
	Response string `json:"response"`
}
