package docstore

import (
	"bytes"
	"context"
	"sync"
	"time"
)

// DefaultPollInterval is used by polling subscriptions when no interval is
// configured.
const DefaultPollInterval = 250 * time.Millisecond

// PollingSubscription adapts a one-shot loader into a Subscription for
// backends without native change notification (filesystem, object storage).
// It reloads the collection on an interval and pushes a snapshot whenever
// the contents changed.
type PollingSubscription struct {
	ch     chan Update
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewPollingSubscription starts polling with the given loader. The first
// snapshot is loaded immediately.
func NewPollingSubscription(ctx context.Context, interval time.Duration, load func(context.Context) (Snapshot, error)) *PollingSubscription {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := &PollingSubscription{
		ch:     make(chan Update, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go sub.run(ctx, interval, load)
	return sub
}

func (sub *PollingSubscription) run(ctx context.Context, interval time.Duration, load func(context.Context) (Snapshot, error)) {
	defer close(sub.done)
	defer close(sub.ch)

	var last Snapshot
	var delivered bool

	poll := func() {
		snap, err := load(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			sub.push(ctx, Update{Err: err})
			return
		}
		if delivered && snapshotsEqual(last, snap) {
			return
		}
		last = snap
		delivered = true
		sub.push(ctx, Update{Docs: snap})
	}

	poll()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll()
		}
	}
}

// push delivers with latest-wins semantics, replacing an undelivered
// pending update.
func (sub *PollingSubscription) push(ctx context.Context, u Update) {
	for {
		if ctx.Err() != nil {
			return
		}
		select {
		case sub.ch <- u:
			return
		default:
		}
		select {
		case <-sub.ch:
		default:
		}
	}
}

func (sub *PollingSubscription) Updates() <-chan Update {
	return sub.ch
}

func (sub *PollingSubscription) Close() {
	sub.once.Do(func() {
		sub.cancel()
		<-sub.done
	})
}

func snapshotsEqual(a, b Snapshot) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || !bytes.Equal(a[i].Data, b[i].Data) {
			return false
		}
	}
	return true
}
