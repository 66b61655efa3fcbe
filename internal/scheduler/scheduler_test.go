package scheduler

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsInvalidCronExpression(t *testing.T) {
	_, err := New(nil, func(uuid.UUID) {}, "not a cron expression")
	assert.Error(t, err)
}

func TestNew_AcceptsEveryExpression(t *testing.T) {
	s, err := New(nil, func(uuid.UUID) {}, "@every 1m")
	require.NoError(t, err)
	require.NotNil(t, s)

	// Start/Stop must be safe even though check() is never invoked here
	// (it would dereference the nil repository), since no tick fires
	// within the lifetime of this test.
	s.Start()
	s.Stop()
}
