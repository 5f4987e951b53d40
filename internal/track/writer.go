package track

import (
	"context"
	"sync"
)

const defaultBufferSize = 1000

// AsyncWriter provides non-blocking observation persistence with a
// buffered channel. The UI loop never waits on SQLite.
type AsyncWriter struct {
	store Store
	ch    chan *Observation
	wg    sync.WaitGroup
	done  chan struct{}
}

// NewAsyncWriter creates a new async writer over the given store.
func NewAsyncWriter(store Store) *AsyncWriter {
	w := &AsyncWriter{
		store: store,
		ch:    make(chan *Observation, defaultBufferSize),
		done:  make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w
}

// Record queues an observation for persistence. Non-blocking; drops the
// observation if the buffer is full.
func (w *AsyncWriter) Record(obs *Observation) bool {
	select {
	case w.ch <- obs:
		return true
	default:
		return false
	}
}

func (w *AsyncWriter) run() {
	defer w.wg.Done()
	for {
		select {
		case obs, ok := <-w.ch:
			if !ok {
				return
			}
			// Best effort insert, ignore errors
			_ = w.store.InsertObservation(context.Background(), obs)
		case <-w.done:
			// Drain remaining observations
			for {
				select {
				case obs, ok := <-w.ch:
					if !ok {
						return
					}
					_ = w.store.InsertObservation(context.Background(), obs)
				default:
					return
				}
			}
		}
	}
}

// Close gracefully shuts down the writer, draining the buffer.
func (w *AsyncWriter) Close() {
	close(w.done)
	close(w.ch)
	w.wg.Wait()
}
