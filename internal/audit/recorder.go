// Package audit records equipment mutations in the action log without
// holding up the request that caused them.
package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"equipment-inventory-api/internal/model"

	"go.uber.org/zap"
)

// Writer persists a single action log entry.
type Writer interface {
	Insert(ctx context.Context, entry model.ActionLogEntry) error
}

// Recorder accepts action log entries. Record never blocks and never
// fails the caller.
type Recorder interface {
	Record(entry model.ActionLogEntry)
}

// Config holds configuration for the asynchronous recorder
type Config struct {
	QueueSize     int
	RetryAttempts int
	RetryDelay    time.Duration
	WriteTimeout  time.Duration
}

// DefaultConfig returns a default configuration for the recorder
func DefaultConfig() Config {
	return Config{
		QueueSize:     256,
		RetryAttempts: 2,
		RetryDelay:    200 * time.Millisecond,
		WriteTimeout:  3 * time.Second,
	}
}

// ErrClosed is returned by Close when called more than once.
var ErrClosed = errors.New("audit recorder already closed")

// AsyncRecorder queues entries and writes them from a single worker
// goroutine with bounded retries. Entries that cannot be queued or written
// are logged and dropped.
type AsyncRecorder struct {
	config Config
	writer Writer
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan model.ActionLogEntry
	done   chan struct{}

	// cancelled when Close gives up waiting, so pending writes fail fast
	ctx    context.Context
	cancel context.CancelFunc
}

// NewRecorder starts the worker. Callers must Close the recorder on
// shutdown to flush pending entries.
func NewRecorder(writer Writer, config Config, logger *zap.Logger) *AsyncRecorder {
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultConfig().QueueSize
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = DefaultConfig().WriteTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &AsyncRecorder{
		config: config,
		writer: writer,
		logger: logger.Named("audit"),
		queue:  make(chan model.ActionLogEntry, config.QueueSize),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}

	go r.run()
	return r
}

// Record enqueues entry. It drops the entry with a warning when the queue
// is full or the recorder is closed.
func (r *AsyncRecorder) Record(entry model.ActionLogEntry) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.logger.Warn("action log entry dropped, recorder closed", entryFields(entry)...)
		return
	}

	select {
	case r.queue <- entry:
	default:
		r.logger.Warn("action log entry dropped, queue full", entryFields(entry)...)
	}
}

// Close stops accepting entries and waits for the queue to drain. If ctx
// ends first, pending writes are abandoned and ctx.Err() is returned.
func (r *AsyncRecorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	select {
	case <-r.done:
		r.cancel()
		return nil
	case <-ctx.Done():
		r.cancel()
		<-r.done
		return ctx.Err()
	}
}

func (r *AsyncRecorder) run() {
	defer close(r.done)

	for entry := range r.queue {
		if err := r.write(entry); err != nil {
			r.logger.Error("failed to write action log entry", append(entryFields(entry), zap.Error(err))...)
		}
	}
}

// write performs the insert with linear backoff between attempts.
func (r *AsyncRecorder) write(entry model.ActionLogEntry) error {
	var lastErr error
	for attempt := 0; attempt <= r.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-r.ctx.Done():
				return fmt.Errorf("gave up after %d attempts: %w", attempt, lastErr)
			case <-time.After(r.config.RetryDelay * time.Duration(attempt)):
			}
			r.logger.Debug("retrying action log write",
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", r.config.RetryAttempts+1))
		}

		if err := r.writeAttempt(entry); err != nil {
			lastErr = err
			continue
		}
		return nil
	}

	return fmt.Errorf("failed after %d attempts: %w", r.config.RetryAttempts+1, lastErr)
}

func (r *AsyncRecorder) writeAttempt(entry model.ActionLogEntry) error {
	ctx, cancel := context.WithTimeout(r.ctx, r.config.WriteTimeout)
	defer cancel()
	return r.writer.Insert(ctx, entry)
}

func entryFields(entry model.ActionLogEntry) []zap.Field {
	return []zap.Field{
		zap.String("action_type", string(entry.ActionType)),
		zap.Int64("equipment_id", entry.EquipmentID),
		zap.Int64("user_id", entry.UserID),
	}
}
