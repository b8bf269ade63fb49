package events

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Subscription is one open delivery channel for a recipient. Lifetime is
// bounded by the connection: created on subscribe, destroyed on Cancel or
// broker shutdown. There is no replay; a subscriber that connects after
// an event was published must fetch current unread state separately.
type Subscription struct {
	ID          string
	RecipientID uint

	ch     chan Event
	cancel func()
	once   sync.Once
}

// C returns the receive side of the delivery channel. It is closed when
// the subscription is cancelled or the broker shuts down.
func (s *Subscription) C() <-chan Event { return s.ch }

// Cancel removes the subscription from the broker and closes the
// channel. Safe to call more than once.
func (s *Subscription) Cancel() { s.once.Do(s.cancel) }

// Broker is the process-wide fan-out registry mapping a recipient to the
// set of currently-open delivery channels. Delivery is best-effort and
// at-most-once per open channel: a full or closed channel is skipped,
// never an error that aborts delivery to the other channels.
type Broker struct {
	mu     sync.RWMutex
	subs   map[uint]map[*Subscription]struct{}
	closed bool
	logger *zap.Logger
}

// NewBroker creates an empty Broker. Tests construct isolated instances;
// the server owns exactly one for its lifetime.
func NewBroker(logger *zap.Logger) *Broker {
	return &Broker{
		subs:   make(map[uint]map[*Subscription]struct{}),
		logger: logger,
	}
}

// Subscribe registers a new delivery channel for the recipient.
func (b *Broker) Subscribe(recipientID uint) *Subscription {
	sub := &Subscription{
		ID:          uuid.New().String(),
		RecipientID: recipientID,
		ch:          make(chan Event, 32),
	}
	sub.cancel = func() {
		b.mu.Lock()
		if set, ok := b.subs[recipientID]; ok {
			delete(set, sub)
			if len(set) == 0 {
				delete(b.subs, recipientID)
			}
		}
		alreadyClosed := b.closed
		b.mu.Unlock()
		if !alreadyClosed {
			close(sub.ch)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.ch)
		return sub
	}
	if b.subs[recipientID] == nil {
		b.subs[recipientID] = make(map[*Subscription]struct{})
	}
	b.subs[recipientID][sub] = struct{}{}
	return sub
}

// Publish enqueues the event to every open channel for the recipient.
// With no subscribers this is a no-op; the persisted notification record
// remains retrievable through the pull-based list endpoint.
func (b *Broker) Publish(recipientID uint, ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for sub := range b.subs[recipientID] {
		select {
		case sub.ch <- ev:
		default:
			// Slow consumer; drop rather than block the publisher.
			b.logger.Debug("dropping event for slow subscriber",
				zap.String("subscription_id", sub.ID),
				zap.Uint("recipient_id", recipientID))
		}
	}
}

// SubscriberCount reports open channels for the recipient.
func (b *Broker) SubscriberCount(recipientID uint) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[recipientID])
}

// Shutdown closes every open channel and rejects further subscriptions.
func (b *Broker) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, set := range b.subs {
		for sub := range set {
			close(sub.ch)
		}
	}
	b.subs = make(map[uint]map[*Subscription]struct{})
}
