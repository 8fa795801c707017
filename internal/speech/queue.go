// Package speech speaks assistant output aloud, one utterance at a time.
package speech

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Engine turns text into audible speech. Speak blocks until playback ends.
type Engine interface {
	Speak(ctx context.Context, text string) error
}

// Queue is an unbounded FIFO of utterances drained by a single worker.
// Speak never blocks the caller.
type Queue struct {
	engine Engine
	logger zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	items   []string
	closed  bool
	started bool

	notify chan struct{}
	done   chan struct{}
}

// NewQueue creates a queue that speaks through engine. A nil engine
// discards every utterance.
func NewQueue(engine Engine, logger zerolog.Logger) *Queue {
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		engine: engine,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Start launches the worker. Calling it more than once has no effect.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.started = true
	go q.run()
}

// Enabled reports whether utterances reach a real engine.
func (q *Queue) Enabled() bool {
	return q.engine != nil
}

// Speak enqueues text. It returns false once the queue is closed.
func (q *Queue) Speak(text string) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, text)
	q.mu.Unlock()

	q.wake()
	return true
}

// Pending returns the number of utterances not yet picked up by the worker.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops accepting utterances. Items already queued are still spoken
// before the worker exits.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.wake()
}

// Abort closes the queue, drops pending items and interrupts the utterance
// being spoken.
func (q *Queue) Abort() {
	q.mu.Lock()
	q.closed = true
	q.items = nil
	q.mu.Unlock()
	q.cancel()
	q.wake()
}

// Done is closed when the worker has exited.
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

// Wait blocks until the worker exits or timeout elapses. It reports
// whether the worker finished.
func (q *Queue) Wait(timeout time.Duration) bool {
	select {
	case <-q.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (q *Queue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *Queue) run() {
	defer close(q.done)
	defer q.cancel()

	for {
		text, ok := q.next()
		if !ok {
			return
		}
		q.speak(text)
	}
}

// next blocks until an item is available. It returns false when the queue
// is closed and empty.
func (q *Queue) next() (string, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			text := q.items[0]
			q.items[0] = ""
			q.items = q.items[1:]
			q.mu.Unlock()
			return text, true
		}
		if q.closed {
			q.mu.Unlock()
			return "", false
		}
		q.mu.Unlock()
		<-q.notify
	}
}

func (q *Queue) speak(text string) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error().Interface("panic", r).Msg("speech engine panicked")
		}
	}()

	if q.engine == nil {
		q.logger.Debug().Str("text", text).Msg("voice output disabled, dropping utterance")
		return
	}
	if err := q.engine.Speak(q.ctx, text); err != nil {
		q.logger.Error().Err(err).Msg("error in speech worker")
	}
}
