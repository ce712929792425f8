package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/soundbridge/directorcore/internal/director"
	"go.uber.org/zap"
)

// RecordCommand stores one audit event.
func (p *PostgresClient) RecordCommand(ctx context.Context, event CommandEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO command_events (id, username, output, action, value, error)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		event.ID, event.Username, event.Output, event.Action, event.Value, event.Error)
	if err != nil {
		return fmt.Errorf("failed to insert command event: %w", err)
	}
	return nil
}

// ListRecentCommands returns the newest audit events, newest first.
func (p *PostgresClient) ListRecentCommands(ctx context.Context, limit int) ([]CommandEvent, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, username, output, action, value, error, created_at
		FROM command_events
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query command events: %w", err)
	}
	defer rows.Close()

	var events []CommandEvent
	for rows.Next() {
		var e CommandEvent
		if err := rows.Scan(&e.ID, &e.Username, &e.Output, &e.Action, &e.Value, &e.Error, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan command event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// RecordSnapshot stores a full system status as JSONB.
func (p *PostgresClient) RecordSnapshot(ctx context.Context, status *director.SystemStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO status_snapshots (id, amplifier_name, snapshot)
		VALUES ($1, $2, $3)`,
		uuid.New(), status.Name, data)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

// SnapshotRecorder feeds polled statuses into the snapshot table. It only
// writes when the snapshot differs from the previous one, so an idle
// amplifier does not grow the table one row per poll.
type SnapshotRecorder struct {
	db     *PostgresClient
	logger *zap.Logger

	mu   sync.Mutex
	last []byte
}

func NewSnapshotRecorder(db *PostgresClient, logger *zap.Logger) *SnapshotRecorder {
	return &SnapshotRecorder{db: db, logger: logger}
}

// OnSystemStatus implements director.StatusListener.
func (r *SnapshotRecorder) OnSystemStatus(status *director.SystemStatus) {
	data, err := json.Marshal(status)
	if err != nil {
		r.logger.Error("Failed to marshal status snapshot", zap.Error(err))
		return
	}

	r.mu.Lock()
	unchanged := bytes.Equal(data, r.last)
	if !unchanged {
		r.last = data
	}
	r.mu.Unlock()

	if unchanged {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.db.RecordSnapshot(ctx, status); err != nil {
		r.logger.Error("Failed to store status snapshot", zap.Error(err))
	}
}
