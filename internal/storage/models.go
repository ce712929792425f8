package storage

import (
	"time"

	"github.com/google/uuid"
)

// CommandEvent is one API-issued amplifier mutation, kept for auditing.
type CommandEvent struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Output    string    `json:"output"` // wire string, or preset name for action "preset"
	Action    string    `json:"action"` // "power", "volume", "source", "preset"
	Value     string    `json:"value"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StatusSnapshot is one stored system status, serialized as JSONB.
type StatusSnapshot struct {
	ID            uuid.UUID `json:"id"`
	AmplifierName string    `json:"amplifier_name"`
	Snapshot      []byte    `json:"snapshot"` // JSONB
	CreatedAt     time.Time `json:"created_at"`
}
