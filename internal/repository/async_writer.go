package repository

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// AsyncWriter persists store snapshots off the mutation path. Writes are
// fire-and-forget: callers never wait, failures are logged and dropped.
// Pending writes for the same key are coalesced so only the newest
// snapshot reaches storage.
type AsyncWriter struct {
	repo    SnapshotRepository
	log     *zap.Logger
	timeout time.Duration
	onFail  func(key string, err error)

	queue  chan writeRequest
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

type writeRequest struct {
	key   string
	value []byte
	ack   chan struct{} // barrier when non-nil
}

type WriterOption func(*AsyncWriter)

// WithFailureHook is called for every failed write after it is logged.
func WithFailureHook(fn func(key string, err error)) WriterOption {
	return func(w *AsyncWriter) { w.onFail = fn }
}

func WithWriteTimeout(d time.Duration) WriterOption {
	return func(w *AsyncWriter) { w.timeout = d }
}

// NewAsyncWriter starts the writer loop. Close must be called on shutdown.
func NewAsyncWriter(repo SnapshotRepository, log *zap.Logger, opts ...WriterOption) *AsyncWriter {
	if log == nil {
		log = zap.NewNop()
	}
	w := &AsyncWriter{
		repo:    repo,
		log:     log,
		timeout: 5 * time.Second,
		queue:   make(chan writeRequest, 256),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	go w.run()
	return w
}

// Enqueue schedules value to be saved under key.
func (w *AsyncWriter) Enqueue(key string, value []byte) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		w.log.Warn("snapshot dropped, writer closed", zap.String("key", key))
		return
	}
	w.queue <- writeRequest{key: key, value: value}
}

// Flush blocks until everything enqueued before it has been written.
func (w *AsyncWriter) Flush() {
	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return
	}
	ack := make(chan struct{})
	w.queue <- writeRequest{ack: ack}
	w.mu.RUnlock()
	<-ack
}

// Close drains the queue and stops the loop.
func (w *AsyncWriter) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.queue)
	w.mu.Unlock()
	<-w.done
}

func (w *AsyncWriter) run() {
	defer close(w.done)

	for req := range w.queue {
		pending := map[string][]byte{}
		var order []string
		var acks []chan struct{}

		add := func(r writeRequest) {
			if r.ack != nil {
				acks = append(acks, r.ack)
				return
			}
			if _, seen := pending[r.key]; !seen {
				order = append(order, r.key)
			}
			pending[r.key] = r.value
		}
		add(req)

	drain:
		for {
			select {
			case r, ok := <-w.queue:
				if !ok {
					break drain
				}
				add(r)
			default:
				break drain
			}
		}

		for _, key := range order {
			w.write(key, pending[key])
		}
		for _, ack := range acks {
			close(ack)
		}
	}
}

func (w *AsyncWriter) write(key string, value []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if err := w.repo.Save(ctx, key, value); err != nil {
		w.log.Error("failed to persist snapshot", zap.String("key", key), zap.Int("bytes", len(value)), zap.Error(err))
		if w.onFail != nil {
			w.onFail(key, err)
		}
	}
}
