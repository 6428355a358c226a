package diskcache

import (
	"sync"
	"time"

	"github.com/stromabio/stroma/pkg/core"
)

// debouncer coalesces bursts of filesystem events into a single emission.
// Atomic writes produce several fsnotify events for one logical change;
// only the last event within the window is delivered.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

// add schedules delivery of the event, replacing any pending one.
func (d *debouncer) add(evt core.Event, send func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		if !d.timer.Stop() {
			// Already fired; its callback owns the previous wg slot.
			d.wg.Add(1)
		}
	} else {
		d.wg.Add(1)
	}
	d.timer = time.AfterFunc(d.delay, func() {
		send(evt)
		d.mu.Lock()
		d.timer = nil
		d.mu.Unlock()
		d.wg.Done()
	})
}

// stopAndWait refuses new events and waits for in-flight timers, bounded
// by timeout.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		if d.timer.Stop() {
			d.timer = nil
			d.wg.Done()
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
