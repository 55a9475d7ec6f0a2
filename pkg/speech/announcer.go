package speech

import (
	"context"
	"log/slog"
	"sync"
)

// Announcer drains a queue of phrases through an Engine one at a
// time.
//
// Say never blocks and the queue is unbounded, so the detection loop
// stays at camera rate no matter how slow playback is. Phrases are
// spoken strictly in arrival order; Close stops intake, finishes the
// backlog, then returns.
type Announcer struct {
	engine Engine
	logger *slog.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []string
	closed bool

	done chan struct{}
}

// NewAnnouncer starts an announcer over the given engine.
func NewAnnouncer(engine Engine) *Announcer {
	return NewAnnouncerWithLogger(slog.Default(), engine)
}

// NewAnnouncerWithLogger starts an announcer with a custom logger.
func NewAnnouncerWithLogger(logger *slog.Logger, engine Engine) *Announcer {
	a := &Announcer{
		engine: engine,
		logger: logger.With("component", "speech.announcer"),
		done:   make(chan struct{}),
	}
	a.cond = sync.NewCond(&a.mu)
	go a.run()
	return a
}

// Say queues a phrase for playback and returns immediately.
// It reports false when the announcer is closed and the phrase was
// dropped.
func (a *Announcer) Say(text string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return false
	}
	a.queue = append(a.queue, text)
	a.cond.Signal()
	return true
}

// Pending returns the number of queued phrases not yet handed to the
// engine.
func (a *Announcer) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.queue)
}

// Close stops intake, waits until every queued phrase has been
// spoken, then returns. The engine is left open for the caller to
// close.
func (a *Announcer) Close() error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		a.cond.Broadcast()
	}
	a.mu.Unlock()

	<-a.done
	return nil
}

// run is the single consumer goroutine. Phrases are popped in FIFO
// order and spoken synchronously; engine failures are logged and do
// not stop the loop.
func (a *Announcer) run() {
	defer close(a.done)

	for {
		a.mu.Lock()
		for len(a.queue) == 0 && !a.closed {
			a.cond.Wait()
		}
		if len(a.queue) == 0 {
			a.mu.Unlock()
			return
		}
		text := a.queue[0]
		a.queue = a.queue[1:]
		a.mu.Unlock()

		if err := a.engine.Speak(context.Background(), text); err != nil {
			a.logger.Warn("playback failed",
				"error", err,
				"chars", len(text),
			)
		}
	}
}
