package audit

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	mock_audit "gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/audit/mocks"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/metrics"
)

type collected struct {
	mu      sync.Mutex
	entries []Entry
}

func (c *collected) add(t *testing.T, value []byte) {
	var e Entry
	require.NoError(t, json.Unmarshal(value, &e))
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
}

func (c *collected) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func entry(action string) Entry {
	return Entry{ID: action, SessionID: "s1", Action: action, Method: "POST", Path: "/console/" + action, StatusCode: 303}
}

func TestManager_FlushesFullBatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	producer := mock_audit.NewMockProducer(ctrl)
	got := &collected{}

	producer.EXPECT().SendMessage(gomock.Any(), "audit", []byte("s1"), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ []byte, value []byte) error {
			got.add(t, value)
			return nil
		}).Times(4)
	producer.EXPECT().Close().Return(nil)

	m := NewManager(producer, Config{Topic: "audit", WorkerCount: 2, BatchSize: 2, Timeout: time.Hour}, nil)
	m.Start(context.Background())

	for _, a := range []string{"sources", "warehouses", "shipments", "boxes"} {
		m.Log(context.Background(), entry(a))
	}

	assert.Eventually(t, func() bool { return got.len() == 4 }, time.Second, 5*time.Millisecond)
	m.Shutdown(context.Background())
}

func TestManager_FlushesOnTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	producer := mock_audit.NewMockProducer(ctrl)
	got := &collected{}

	producer.EXPECT().SendMessage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ []byte, value []byte) error {
			got.add(t, value)
			return nil
		})
	producer.EXPECT().Close().Return(nil)

	m := NewManager(producer, Config{Topic: "audit", WorkerCount: 1, BatchSize: 100, Timeout: 20 * time.Millisecond}, nil)
	m.Start(context.Background())
	m.Log(context.Background(), entry("scans"))

	assert.Eventually(t, func() bool { return got.len() == 1 }, time.Second, 5*time.Millisecond)
	m.Shutdown(context.Background())
	assert.Equal(t, "scans", got.entries[0].Action)
}

func TestManager_ShutdownFlushesPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	producer := mock_audit.NewMockProducer(ctrl)
	got := &collected{}

	producer.EXPECT().SendMessage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ []byte, value []byte) error {
			got.add(t, value)
			return nil
		}).Times(3)
	producer.EXPECT().Close().Return(nil)

	m := NewManager(producer, Config{Topic: "audit", WorkerCount: 1, BatchSize: 100, Timeout: time.Hour}, nil)
	m.Start(context.Background())
	for _, a := range []string{"a", "b", "c"} {
		m.Log(context.Background(), entry(a))
	}

	m.Shutdown(context.Background())
	m.Shutdown(context.Background())

	assert.Equal(t, 3, got.len())
}

func TestManager_LogAfterShutdownDoesNotBlock(t *testing.T) {
	ctrl := gomock.NewController(t)
	producer := mock_audit.NewMockProducer(ctrl)
	producer.EXPECT().Close().Return(nil)

	m := NewManager(producer, Config{Topic: "audit"}, zap.NewNop())
	m.Start(context.Background())
	m.Shutdown(context.Background())

	done := make(chan struct{})
	go func() {
		m.Log(context.Background(), entry("late"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Log blocked after shutdown")
	}
}

func TestManager_ProducerFailureCountsDrop(t *testing.T) {
	ctrl := gomock.NewController(t)
	producer := mock_audit.NewMockProducer(ctrl)

	producer.EXPECT().SendMessage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("broker unavailable"))
	producer.EXPECT().Close().Return(nil)

	before := testutil.ToFloat64(metrics.AuditEntriesDroppedTotal)

	m := NewManager(producer, Config{Topic: "audit", WorkerCount: 1, BatchSize: 1, Timeout: time.Hour}, nil)
	m.Start(context.Background())
	m.Log(context.Background(), entry("scans"))
	m.Shutdown(context.Background())

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.AuditEntriesDroppedTotal))
}

func TestManager_ContextCancelShutsDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	producer := mock_audit.NewMockProducer(ctrl)
	closed := make(chan struct{})
	producer.EXPECT().Close().DoAndReturn(func() error {
		close(closed)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager(producer, Config{Topic: "audit"}, nil)
	m.Start(ctx)
	cancel()

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("producer not closed after context cancellation")
	}
}

func TestLogProducer(t *testing.T) {
	p := NewLogProducer(zap.NewNop())
	require.NoError(t, p.SendMessage(context.Background(), "audit", []byte("s1"), []byte(`{}`)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.SendMessage(ctx, "audit", nil, nil), context.Canceled)
}
