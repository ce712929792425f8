package interfaces

import (
	"context"

	"github.com/soundbridge/directorcore/internal/config"
	"github.com/soundbridge/directorcore/internal/director"
	"github.com/soundbridge/directorcore/internal/presets"
	"github.com/soundbridge/directorcore/internal/storage"
)

// ServiceStatus represents the current bridge state
type ServiceStatus struct {
	State         string `json:"state"`
	Amplifier     string `json:"amplifier"`
	AmplifierName string `json:"amplifier_name,omitempty"`
	PollerRunning bool   `json:"poller_running"`
}

// Bridge is what the API surfaces need from the lifecycle manager. It
// breaks the import cycle between the REST package and the system package.
type Bridge interface {
	Config() *config.Config
	Amplifier() *director.Client
	Presets() *presets.Loader

	// EventLog returns nil when no database is configured.
	EventLog() *storage.PostgresClient

	// LastStatus returns the most recent polled snapshot, nil before the
	// first successful poll.
	LastStatus() *director.SystemStatus

	// RefreshStatus fetches a fresh snapshot from the amplifier and
	// updates the cache.
	RefreshStatus(ctx context.Context) (*director.SystemStatus, error)

	GetCurrentStatus() ServiceStatus
	Shutdown(ctx context.Context) error
}
