package notify

import (
	"context"
	"errors"
	"sync"

	. "safetrade/internal/common"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const DefaultQueueSize = 100

var ErrDispatcherClosed = errors.New("dispatcher closed")

// Dispatcher queues notices and delivers them to a sink from a single
// worker, so a slow sink never holds up matching. Notices reach the sink in
// the order they were queued.
type Dispatcher struct {
	sink  Reporter
	tasks chan Notice
	t     *tomb.Tomb

	// mu is held for every send on tasks. Once the worker has set closed
	// under mu, no further notice can enter the queue.
	mu     sync.Mutex
	closed bool
}

// NewDispatcher starts the delivery worker. The worker stops when ctx is
// done or Close is called.
func NewDispatcher(ctx context.Context, sink Reporter, size int) *Dispatcher {
	if size <= 0 {
		size = DefaultQueueSize
	}
	t, _ := tomb.WithContext(ctx)
	d := &Dispatcher{
		sink:  sink,
		tasks: make(chan Notice, size),
		t:     t,
	}
	t.Go(d.worker)
	return d
}

// Report queues the notice, blocking while the queue is full. A nil error
// means the notice will reach the sink.
func (d *Dispatcher) Report(notice Notice) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrDispatcherClosed
	}
	select {
	case <-d.t.Dying():
		return ErrDispatcherClosed
	case d.tasks <- notice:
		return nil
	}
}

// Close stops accepting notices and waits for the queue to drain.
func (d *Dispatcher) Close() error {
	d.t.Kill(nil)
	return d.t.Wait()
}

func (d *Dispatcher) worker() error {
	for {
		select {
		case <-d.t.Dying():
			d.mu.Lock()
			d.closed = true
			d.mu.Unlock()
			d.drain()
			return nil
		case notice := <-d.tasks:
			d.deliver(notice)
		}
	}
}

// drain delivers whatever is still queued.
func (d *Dispatcher) drain() {
	for {
		select {
		case notice := <-d.tasks:
			d.deliver(notice)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(notice Notice) {
	if err := d.sink.Report(notice); err != nil {
		log.Error().Err(err).Str("recipient", notice.Recipient).Msg("notice dropped")
	}
}
