package store

import (
	"context"
	"sync"

	"github.com/heardesk/complaint-service/internal/domain"
	"github.com/heardesk/complaint-service/internal/events"
	"github.com/heardesk/complaint-service/internal/repository"
)

// Scope is the visibility scope for a subscription: the full store for
// administrators, own records only otherwise.
type Scope struct {
	OwnerID string
	Admin   bool
}

// SnapshotEvent carries either a fresh scoped snapshot or a load error. An
// error event does not terminate the subscription.
type SnapshotEvent struct {
	Records []domain.Complaint
	Err     error
}

// Syncer bridges the complaint repository and the event feed into live
// snapshot subscriptions. Every complaint event triggers a wholesale reload
// of each active subscription's scoped snapshot.
type Syncer struct {
	repo repository.ComplaintRepository

	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// NewSyncer registers for all complaint events on the dispatcher.
func NewSyncer(repo repository.ComplaintRepository, dispatcher events.Dispatcher) *Syncer {
	s := &Syncer{
		repo: repo,
		subs: make(map[*Subscription]struct{}),
	}
	for _, eventType := range events.AllComplaintEvents() {
		dispatcher.Subscribe(eventType, func(_ context.Context, _ events.Event) error {
			s.broadcast()
			return nil
		})
	}
	return s
}

// Subscription is a cancellable stream of snapshot events. The owner must
// call Close when it goes away or when the scoping identity changes.
type Subscription struct {
	events chan SnapshotEvent
	notify chan struct{}
	cancel context.CancelFunc
	once   sync.Once
	syncer *Syncer
}

// Events returns the snapshot event channel. It is closed by Close.
func (sub *Subscription) Events() <-chan SnapshotEvent {
	return sub.events
}

// Close tears the subscription down.
func (sub *Subscription) Close() {
	sub.once.Do(func() {
		sub.syncer.remove(sub)
		sub.cancel()
	})
}

// Subscribe opens a subscription for the given scope. The initial snapshot is
// delivered first; each subsequent complaint event delivers a fresh one.
func (s *Syncer) Subscribe(ctx context.Context, scope Scope) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		events: make(chan SnapshotEvent, 1),
		notify: make(chan struct{}, 1),
		cancel: cancel,
		syncer: s,
	}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	go func() {
		defer close(sub.events)
		sub.emit(s.load(ctx, scope))
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.notify:
				sub.emit(s.load(ctx, scope))
			}
		}
	}()
	return sub
}

func (s *Syncer) load(ctx context.Context, scope Scope) SnapshotEvent {
	var (
		records []domain.Complaint
		err     error
	)
	if scope.Admin {
		records, err = s.repo.ListAll(ctx)
	} else {
		records, err = s.repo.ListByOwner(ctx, scope.OwnerID)
	}
	return SnapshotEvent{Records: records, Err: err}
}

func (s *Syncer) broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subs {
		select {
		case sub.notify <- struct{}{}:
		default:
		}
	}
}

func (s *Syncer) remove(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, sub)
}

// emit delivers latest-wins: a stale undelivered snapshot is replaced rather
// than blocking on a slow consumer.
func (sub *Subscription) emit(event SnapshotEvent) {
	for {
		select {
		case sub.events <- event:
			return
		default:
			select {
			case <-sub.events:
			default:
			}
		}
	}
}
