package director

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// StatusListener receives every successfully polled snapshot.
type StatusListener interface {
	OnSystemStatus(status *SystemStatus)
}

// Poller periodically fetches the full system status through one Client
// and fans the snapshot out to its listeners. The client serializes
// commands internally, so the poll loop and API-triggered commands can
// share the same connection.
type Poller struct {
	client    *Client
	interval  time.Duration
	logger    *zap.Logger
	listeners []StatusListener
	stopChan  chan struct{}
	wg        sync.WaitGroup
	running   bool
	mu        sync.Mutex
}

func NewPoller(client *Client, interval time.Duration, logger *zap.Logger) *Poller {
	return &Poller{
		client:   client,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// AddListener registers a listener. Not safe to call after Start.
func (p *Poller) AddListener(l StatusListener) {
	p.listeners = append(p.listeners, l)
}

// Start startet das zyklische Polling
func (p *Poller) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}

	p.running = true
	p.wg.Add(1)

	go p.pollLoop()

	p.logger.Info("Poller started", zap.Duration("interval", p.interval))

	return nil
}

// Stop stoppt das Polling
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	close(p.stopChan)
	p.wg.Wait()

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()

	p.logger.Info("Poller stopped")
}

func (p *Poller) pollLoop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

func (p *Poller) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), p.interval)
	defer cancel()

	status, err := p.client.GetSystemStatus(ctx)
	if err != nil {
		p.logger.Error("Status poll failed", zap.Error(err))
		return
	}

	for _, l := range p.listeners {
		l.OnSystemStatus(status)
	}
}

// IsRunning gibt an ob der Poller läuft
func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
