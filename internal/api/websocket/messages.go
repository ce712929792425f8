package websocket

import (
	"time"

	"github.com/soundbridge/directorcore/internal/director"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Full amplifier snapshot, sent after every poll cycle
	MessageTypeSystemStatus MessageType = "system_status"

	// A single output changed through the API
	MessageTypeOutputChanged MessageType = "output_changed"

	// The amplifier session failed
	MessageTypeAmplifierError MessageType = "amplifier_error"
)

// Message represents a WebSocket message
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// OutputChangedData describes one output mutation issued through the API.
type OutputChangedData struct {
	Output string `json:"output"` // wire string, e.g. "Z1", "DXOa"
	Field  string `json:"field"`  // "power", "volume", "source"
	Value  any    `json:"value"`
}

// AmplifierErrorData carries a failed amplifier interaction.
type AmplifierErrorData struct {
	Command string `json:"command,omitempty"`
	Error   string `json:"error"`
}

func newStatusMessage(status *director.SystemStatus) Message {
	return Message{
		Type:      MessageTypeSystemStatus,
		Timestamp: time.Now(),
		Data:      status,
	}
}
