package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Snapshot(t *testing.T) {
	ctx := context.Background()

	m, err := New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = m.Shutdown(ctx) })

	m.RemoteCall(ctx, "createProduct", 120*time.Millisecond, nil)
	m.RemoteCall(ctx, "createProduct", 80*time.Millisecond, errors.New("boom"))
	m.RemoteCall(ctx, "findProduct", 10*time.Millisecond, nil)
	m.Throttled(ctx)
	m.Outcome(ctx, "products", "created")
	m.Outcome(ctx, "products", "skipped")
	m.Outcome(ctx, "products", "created")

	snap, err := m.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), snap[RemoteCalls])
	assert.Equal(t, int64(2), snap[RemoteCalls+"{operation=createProduct}"])
	assert.Equal(t, int64(1), snap[RemoteErrors])
	assert.Equal(t, int64(1), snap[Throttles])
	assert.Equal(t, int64(3), snap[Outcomes])
	assert.Equal(t, int64(2), snap[Outcomes+"{entity=products,kind=created}"])
	assert.NotContains(t, snap, RemoteDuration)
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics

	m.RemoteCall(context.Background(), "x", time.Second, nil)
	m.Throttled(context.Background())
	m.Outcome(context.Background(), "products", "created")

	snap, err := m.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap)
	assert.NoError(t, m.Shutdown(context.Background()))
}
