package events

import (
	"errors"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/strata-engine/strata/filter"
)

// ErrEventDelivery wraps sink failures surfaced to the caller of the
// operation that produced the event.
var ErrEventDelivery = eris.New("event delivery failed")

type subscription struct {
	sink         Sink
	layoutFilter filter.LayoutFilter
}

// Notifier fans structural events out to subscribers. Dispatch happens on the
// calling goroutine, in subscription order, before the triggering storage
// operation returns.
type Notifier struct {
	subscriptions []subscription
	logger        zerolog.Logger
}

// NewNotifier creates a notifier with no subscribers.
func NewNotifier(logger zerolog.Logger) *Notifier {
	return &Notifier{logger: logger}
}

// Subscribe registers a sink for events whose layout matches the filter.
func (n *Notifier) Subscribe(sink Sink, layoutFilter filter.LayoutFilter) {
	if layoutFilter == nil {
		layoutFilter = filter.All()
	}
	n.subscriptions = append(n.subscriptions, subscription{sink: sink, layoutFilter: layoutFilter})
}

// Publish delivers the event to every matching subscriber. Sink errors are
// collected and returned wrapped in ErrEventDelivery; the event is still
// offered to the remaining subscribers.
func (n *Notifier) Publish(ev Event) error {
	var failures []error
	for _, sub := range n.subscriptions {
		if !sub.layoutFilter.MatchesLayout(ev.Layout) {
			continue
		}
		if err := sub.sink.Notify(ev); err != nil {
			n.logger.Debug().
				Str("event", ev.Kind.String()).
				Str("entity_id", ev.Entity.String()).
				Int("archetype_id", int(ev.Arch)).
				Err(err).
				Msg("subscriber missed event")
			failures = append(failures, err)
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrEventDelivery}, failures...)...)
}

// HasSubscribers returns true if at least one sink is registered.
func (n *Notifier) HasSubscribers() bool {
	return len(n.subscriptions) > 0
}

// Len returns the number of registered subscriptions.
func (n *Notifier) Len() int {
	return len(n.subscriptions)
}

var _ Sink = (*ChanSink)(nil)

// ChanSink is a Sink backed by a buffered channel. When the buffer is full
// Notify fails with ErrSinkFull instead of blocking the storage operation.
type ChanSink struct {
	ch chan Event
}

// ErrSinkFull reports backpressure: the sink's buffer had no room for the
// event.
var ErrSinkFull = eris.New("event sink is full")

// NewChanSink creates a channel sink with the given buffer size.
func NewChanSink(size int) *ChanSink {
	return &ChanSink{ch: make(chan Event, size)}
}

// Notify offers the event to the channel without blocking.
func (s *ChanSink) Notify(ev Event) error {
	select {
	case s.ch <- ev:
		return nil
	default:
		return ErrSinkFull
	}
}

// Events returns the receive side of the sink.
func (s *ChanSink) Events() <-chan Event {
	return s.ch
}
