package core

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// HeartbeatTTL is how long a worker's status remains valid in Redis.
const HeartbeatTTL = 10 * time.Minute

// Status represents a worker's current state.
type Status struct {
	WorkerType  string    `json:"workerType"`
	LastSeen    time.Time `json:"lastSeen"`
	CurrentTask string    `json:"currentTask,omitempty"`
	IsHealthy   bool      `json:"isHealthy"`
}

// StatusReporter publishes worker heartbeats to Redis so operators can see
// whether the scheduled sweeps are alive.
type StatusReporter struct {
	client     rueidis.Client
	workerType string
	logger     *zap.Logger
}

// NewStatusReporter creates a status reporter for one worker type.
func NewStatusReporter(client rueidis.Client, workerType string, logger *zap.Logger) *StatusReporter {
	return &StatusReporter{
		client:     client,
		workerType: workerType,
		logger:     logger.Named("worker_status"),
	}
}

// Report updates the worker's status key with a fresh TTL. Failures are
// logged, not returned; a missed heartbeat must not stop the sweep.
func (r *StatusReporter) Report(ctx context.Context, currentTask string, healthy bool) {
	status := Status{
		WorkerType:  r.workerType,
		LastSeen:    time.Now().UTC(),
		CurrentTask: currentTask,
		IsHealthy:   healthy,
	}

	data, err := sonic.Marshal(status)
	if err != nil {
		r.logger.Error("Failed to marshal worker status", zap.Error(err))
		return
	}

	key := fmt.Sprintf("worker:%s", r.workerType)

	err = r.client.Do(ctx, r.client.B().Set().
		Key(key).
		Value(string(data)).
		Ex(HeartbeatTTL).
		Build()).Error()
	if err != nil {
		r.logger.Error("Failed to report worker status", zap.Error(err))
	}
}
