package system

import (
	"context"
	"sync"

	"github.com/soundbridge/directorcore/internal/api/rest"
	"github.com/soundbridge/directorcore/internal/api/websocket"
	"github.com/soundbridge/directorcore/internal/auth"
	"github.com/soundbridge/directorcore/internal/config"
	"github.com/soundbridge/directorcore/internal/director"
	"github.com/soundbridge/directorcore/internal/interfaces"
	"github.com/soundbridge/directorcore/internal/presets"
	"github.com/soundbridge/directorcore/internal/storage"
	"go.uber.org/zap"
)

// LifecycleManager wires the amplifier client, the poller, the event log
// and the API surfaces together and implements interfaces.Bridge for the
// REST handlers.
type LifecycleManager struct {
	config      *config.Config
	storage     *storage.PostgresClient // nil when no database is configured
	client      *director.Client
	poller      *director.Poller
	presets     *presets.Loader
	wsHub       *websocket.Hub
	restServer  *rest.Server
	authService *auth.Service
	logger      *zap.Logger

	stateMu      sync.RWMutex
	currentState SystemState
	lastStatus   *director.SystemStatus

	shutdownOnce sync.Once
}

func NewLifecycleManager(
	storage *storage.PostgresClient,
	cfg *config.Config,
	logger *zap.Logger,
) (*LifecycleManager, error) {
	presetLoader, err := presets.NewLoader(cfg.Presets.SearchPaths)
	if err != nil {
		return nil, err
	}

	authService := auth.NewService(cfg.Auth, logger)
	client := director.NewClient(cfg.Amplifier.Address(), cfg.Amplifier.CommandTimeout, logger)
	wsHub := websocket.NewHub(logger, authService)

	lm := &LifecycleManager{
		config:       cfg,
		storage:      storage,
		client:       client,
		poller:       director.NewPoller(client, cfg.Amplifier.PollInterval, logger),
		presets:      presetLoader,
		wsHub:        wsHub,
		authService:  authService,
		logger:       logger,
		currentState: StateInitializing,
	}

	lm.restServer = rest.NewServer(cfg, lm, logger, wsHub, authService)

	return lm, nil
}

// Start connects to the amplifier and brings up the poller and the API.
func (lm *LifecycleManager) Start() error {
	lm.logger.Info("Starting directorcore",
		zap.String("amplifier", lm.config.Amplifier.Address()))

	lm.setState(StateInitializing)

	if err := lm.client.Connect(); err != nil {
		lm.setState(StateError)
		return err
	}

	if lm.storage != nil {
		if err := lm.storage.EnsureSchema(context.Background()); err != nil {
			lm.setState(StateError)
			return err
		}
	}

	// Snapshot fan-out: API cache first, then broadcast and persistence.
	lm.poller.AddListener(lm)
	lm.poller.AddListener(lm.wsHub)
	if lm.storage != nil {
		lm.poller.AddListener(storage.NewSnapshotRecorder(lm.storage, lm.logger))
	}

	go lm.wsHub.Run()

	if err := lm.poller.Start(); err != nil {
		lm.setState(StateError)
		return err
	}

	if err := lm.restServer.Start(); err != nil {
		lm.setState(StateError)
		return err
	}

	lm.setState(StateRunning)

	return nil
}

// OnSystemStatus implements director.StatusListener: it keeps the cached
// snapshot the REST handlers serve.
func (lm *LifecycleManager) OnSystemStatus(status *director.SystemStatus) {
	lm.stateMu.Lock()
	lm.lastStatus = status
	lm.stateMu.Unlock()
}

func (lm *LifecycleManager) setState(state SystemState) {
	lm.stateMu.Lock()
	lm.currentState = state
	lm.stateMu.Unlock()
	lm.logger.Info("System state changed", zap.String("state", state.String()))
}

// ==================== interfaces.Bridge ====================

func (lm *LifecycleManager) Config() *config.Config {
	return lm.config
}

func (lm *LifecycleManager) Amplifier() *director.Client {
	return lm.client
}

func (lm *LifecycleManager) Presets() *presets.Loader {
	return lm.presets
}

func (lm *LifecycleManager) EventLog() *storage.PostgresClient {
	return lm.storage
}

func (lm *LifecycleManager) LastStatus() *director.SystemStatus {
	lm.stateMu.RLock()
	defer lm.stateMu.RUnlock()
	return lm.lastStatus
}

func (lm *LifecycleManager) RefreshStatus(ctx context.Context) (*director.SystemStatus, error) {
	status, err := lm.client.GetSystemStatus(ctx)
	if err != nil {
		return nil, err
	}

	lm.stateMu.Lock()
	lm.lastStatus = status
	lm.stateMu.Unlock()

	return status, nil
}

func (lm *LifecycleManager) GetCurrentStatus() interfaces.ServiceStatus {
	lm.stateMu.RLock()
	defer lm.stateMu.RUnlock()

	status := interfaces.ServiceStatus{
		State:         lm.currentState.String(),
		Amplifier:     lm.config.Amplifier.Address(),
		PollerRunning: lm.poller.IsRunning(),
	}
	if lm.lastStatus != nil {
		status.AmplifierName = lm.lastStatus.Name
	}
	return status
}

// Shutdown stops polling, drains the API server and closes the amplifier
// session.
func (lm *LifecycleManager) Shutdown(ctx context.Context) error {
	var err error

	lm.shutdownOnce.Do(func() {
		lm.setState(StateStopping)

		lm.poller.Stop()

		if shutdownErr := lm.restServer.Shutdown(ctx); shutdownErr != nil {
			err = shutdownErr
		}

		if closeErr := lm.client.Close(); closeErr != nil && err == nil {
			err = closeErr
		}

		lm.setState(StateStopped)
	})

	return err
}
