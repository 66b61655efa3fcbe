// Package jobs provides the asynq-backed scan:wake signal the HTTP API and
// the scheduler enqueue when an index becomes queued. The scan loop polls
// Postgres for queued/scanning indexes per spec.md §4.4 on its own interval;
// the wake task does not interrupt that wait and is never the source of
// truth for what's queued.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
)

// TaskScanWake is enqueued whenever an index transitions to queued and is
// handed to the callback registered with RegisterWakeHandler.
const TaskScanWake = "scan:wake"

// ScanWakePayload names which index just became eligible for scanning, for
// logging — the scanner's own poll loop decides what to actually run.
type ScanWakePayload struct {
	IndexID string `json:"index_id"`
}

type Queue struct {
	client *asynq.Client
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewQueue(redisAddr string) *Queue {
	redisOpt := asynq.RedisClientOpt{Addr: redisAddr}
	client := asynq.NewClient(redisOpt)
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)
	mux := asynq.NewServeMux()
	return &Queue{client: client, server: server, mux: mux}
}

// EnqueueScanWake signals that indexID is ready to be scanned.
func (q *Queue) EnqueueScanWake(indexID string) error {
	data, err := json.Marshal(ScanWakePayload{IndexID: indexID})
	if err != nil {
		return fmt.Errorf("marshal scan wake payload: %w", err)
	}
	task := asynq.NewTask(TaskScanWake, data)
	if _, err := q.client.Enqueue(task); err != nil {
		return fmt.Errorf("enqueue scan wake: %w", err)
	}
	return nil
}

// RegisterWakeHandler wires a callback invoked whenever a scan:wake task is
// processed.
func (q *Queue) RegisterWakeHandler(handler func(ctx context.Context, indexID string) error) {
	q.mux.HandleFunc(TaskScanWake, func(ctx context.Context, t *asynq.Task) error {
		var p ScanWakePayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("unmarshal scan wake payload: %w", err)
		}
		return handler(ctx, p.IndexID)
	})
}

func (q *Queue) Start(ctx context.Context) error {
	log.Println("jobs: queue worker starting")
	return q.server.Start(q.mux)
}

func (q *Queue) Stop() {
	q.server.Shutdown()
	q.client.Close()
}
