// Package audit batches console audit entries and ships them to a Producer.
package audit

//go:generate mockgen -source ./manager.go -destination=./mocks/manager.go -package=mock_audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/metrics"
)

type Producer interface {
	SendMessage(ctx context.Context, topic string, key []byte, value []byte) error
	Close() error
}

type Config struct {
	Topic       string
	WorkerCount int
	BatchSize   int
	Timeout     time.Duration
}

type Manager struct {
	producer Producer
	logger   *zap.Logger
	topic    string

	workerCount int
	batchSize   int
	timeout     time.Duration

	inputChan  chan Entry
	batchChan  chan []Entry
	shutdownCh chan struct{}
	once       sync.Once

	closeMu sync.RWMutex
	closed  bool

	wg sync.WaitGroup
}

func NewManager(producer Producer, cfg Config, logger *zap.Logger) *Manager {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		producer:    producer,
		logger:      logger,
		topic:       cfg.Topic,
		workerCount: cfg.WorkerCount,
		batchSize:   cfg.BatchSize,
		timeout:     cfg.Timeout,
		inputChan:   make(chan Entry, cfg.WorkerCount*cfg.BatchSize*2),
		batchChan:   make(chan []Entry, cfg.WorkerCount*2),
		shutdownCh:  make(chan struct{}),
	}
}

func (m *Manager) Start(ctx context.Context) {
	m.logger.Info("starting audit manager",
		zap.Int("workers", m.workerCount),
		zap.Int("batch_size", m.batchSize),
		zap.Duration("flush_interval", m.timeout),
	)
	m.wg.Add(1)
	go m.runAggregator()

	for i := 0; i < m.workerCount; i++ {
		m.wg.Add(1)
		go m.runWorker(ctx, i)
	}

	go func() {
		select {
		case <-ctx.Done():
			m.Shutdown(context.Background())
		case <-m.shutdownCh:
		}
	}()
}

// Shutdown flushes queued entries, waits for the workers and closes the
// producer. It is safe to call more than once.
func (m *Manager) Shutdown(ctx context.Context) {
	m.once.Do(func() {
		m.logger.Info("shutting down audit manager")
		m.closeMu.Lock()
		m.closed = true
		close(m.shutdownCh)
		m.closeMu.Unlock()

		done := make(chan struct{})
		go func() {
			m.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			m.logger.Info("audit manager stopped")
		case <-ctx.Done():
			m.logger.Warn("audit manager shutdown interrupted")
		}

		if err := m.producer.Close(); err != nil {
			m.logger.Error("failed to close audit producer", zap.Error(err))
		}
	})
}

// Log queues entry. After shutdown, or when ctx ends first, the entry goes
// straight to the emergency log.
func (m *Manager) Log(ctx context.Context, entry Entry) {
	m.closeMu.RLock()
	defer m.closeMu.RUnlock()

	if m.closed {
		m.emergencyLog(entry)
		return
	}
	select {
	case m.inputChan <- entry:
	case <-ctx.Done():
		m.emergencyLog(entry)
	}
}

func (m *Manager) runAggregator() {
	defer m.wg.Done()

	var (
		batch    []Entry
		timer    *time.Timer
		timeoutC <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	drain:
		for {
			select {
			case entry := <-m.inputChan:
				batch = append(batch, entry)
			default:
				break drain
			}
		}
		if len(batch) > 0 {
			m.dispatchBatch(batch)
		}
		close(m.batchChan)
	}()

	for {
		select {
		case entry := <-m.inputChan:
			batch = append(batch, entry)
			if len(batch) >= m.batchSize {
				m.dispatchBatch(batch)
				batch = nil
				timeoutC = nil
			} else if len(batch) == 1 {
				if timer != nil {
					timer.Stop()
				}
				timer = time.NewTimer(m.timeout)
				timeoutC = timer.C
			}

		case <-timeoutC:
			m.dispatchBatch(batch)
			batch = nil
			timeoutC = nil

		case <-m.shutdownCh:
			return
		}
	}
}

func (m *Manager) dispatchBatch(batch []Entry) {
	batchCopy := make([]Entry, len(batch))
	copy(batchCopy, batch)

	select {
	case m.batchChan <- batchCopy:
	default:
		m.deliver(context.Background(), -1, batchCopy)
	}
}

func (m *Manager) runWorker(ctx context.Context, id int) {
	defer m.wg.Done()

	for batch := range m.batchChan {
		m.deliver(ctx, id, batch)
	}
	m.logger.Debug("audit worker exiting", zap.Int("worker", id))
}

func (m *Manager) deliver(ctx context.Context, workerID int, batch []Entry) {
	if ctx.Err() != nil {
		ctx = context.Background()
	}
	for _, entry := range batch {
		value, err := json.Marshal(entry)
		if err != nil {
			metrics.AuditEntriesDroppedTotal.Inc()
			m.logger.Error("failed to marshal audit entry", zap.Error(err))
			continue
		}
		if err := m.producer.SendMessage(ctx, m.topic, []byte(entry.SessionID), value); err != nil {
			metrics.AuditEntriesDroppedTotal.Inc()
			m.logger.Warn("failed to ship audit entry",
				zap.Int("worker", workerID),
				zap.String("entry", entry.ID),
				zap.Error(err),
			)
		}
	}
}

func (m *Manager) emergencyLog(entry Entry) {
	m.logger.Warn("audit entry logged directly",
		zap.String("id", entry.ID),
		zap.String("session", entry.SessionID),
		zap.String("action", entry.Action),
		zap.String("path", entry.Path),
		zap.Int("status", entry.StatusCode),
		zap.String("alert", entry.Alert),
	)
}
