package jobs

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanWakePayload_MarshalRoundTrip(t *testing.T) {
	p := ScanWakePayload{IndexID: "11111111-1111-1111-1111-111111111111"}
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded ScanWakePayload
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, p.IndexID, decoded.IndexID)
}

func TestRegisterWakeHandler_DispatchesPayload(t *testing.T) {
	q := &Queue{mux: asynq.NewServeMux()}

	var got string
	q.RegisterWakeHandler(func(ctx context.Context, indexID string) error {
		got = indexID
		return nil
	})

	data, err := json.Marshal(ScanWakePayload{IndexID: "idx-1"})
	require.NoError(t, err)
	task := asynq.NewTask(TaskScanWake, data)

	// asynq.ServeMux satisfies asynq.Handler; dispatch directly the way the
	// worker would for an incoming task.
	err = q.mux.ProcessTask(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, "idx-1", got)
}
