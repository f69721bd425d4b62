package events_test

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/strata-engine/strata/assert"
	"github.com/strata-engine/strata/component"
	"github.com/strata-engine/strata/events"
	"github.com/strata-engine/strata/filter"
	"github.com/strata-engine/strata/types"
)

type Position struct {
	X, Y float64
}

func (Position) Name() string { return "position" }

type Velocity struct {
	DX, DY float64
}

func (Velocity) Name() string { return "velocity" }

type recordingSink struct {
	events []events.Event
	err    error
}

func (s *recordingSink) Notify(ev events.Event) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, ev)
	return nil
}

func layoutWith(t *testing.T, metas ...types.ComponentMetadata) types.Layout {
	t.Helper()
	return types.NewLayout(metas)
}

func metadata[T types.Component](t *testing.T, id types.ComponentID) types.ComponentMetadata {
	t.Helper()
	ct, err := component.NewComponentMetadata[T]()
	assert.NilError(t, err)
	assert.NilError(t, ct.SetID(id))
	return ct
}

func TestNotifierDeliversInSubscriptionOrder(t *testing.T) {
	n := events.NewNotifier(zerolog.Nop())
	var order []string
	first := &orderSink{name: "first", order: &order}
	second := &orderSink{name: "second", order: &order}
	n.Subscribe(first, nil)
	n.Subscribe(second, nil)

	assert.NilError(t, n.Publish(events.Event{Kind: events.EntityInserted}))
	assert.DeepEqual(t, []string{"first", "second"}, order)
}

type orderSink struct {
	name  string
	order *[]string
}

func (s *orderSink) Notify(events.Event) error {
	*s.order = append(*s.order, s.name)
	return nil
}

func TestNotifierFiltersByLayout(t *testing.T) {
	n := events.NewNotifier(zerolog.Nop())
	pos := metadata[Position](t, 0)
	vel := metadata[Velocity](t, 1)

	sink := &recordingSink{}
	n.Subscribe(sink, filter.Contains(filter.Component[Position]()))

	assert.NilError(t, n.Publish(events.Event{
		Kind:   events.EntityInserted,
		Layout: layoutWith(t, pos),
	}))
	assert.NilError(t, n.Publish(events.Event{
		Kind:   events.EntityInserted,
		Layout: layoutWith(t, vel),
	}))

	assert.Len(t, sink.events, 1)
	assert.True(t, sink.events[0].Layout.HasComponent(pos.ID()))
}

func TestNotifierNilFilterReceivesEverything(t *testing.T) {
	n := events.NewNotifier(zerolog.Nop())
	sink := &recordingSink{}
	n.Subscribe(sink, nil)

	assert.NilError(t, n.Publish(events.Event{Kind: events.ArchetypeCreated}))
	assert.NilError(t, n.Publish(events.Event{Kind: events.EntityRemoved, Layout: layoutWith(t, metadata[Position](t, 0))}))
	assert.Len(t, sink.events, 2)
}

func TestNotifierJoinsSinkFailures(t *testing.T) {
	n := events.NewNotifier(zerolog.Nop())
	boom := errors.New("boom")
	failing := &recordingSink{err: boom}
	healthy := &recordingSink{}
	n.Subscribe(failing, nil)
	n.Subscribe(healthy, nil)

	err := n.Publish(events.Event{Kind: events.EntityInserted})
	assert.ErrorIs(t, err, events.ErrEventDelivery)
	assert.ErrorIs(t, err, boom)
	// A failing sink does not stop delivery to the ones after it.
	assert.Len(t, healthy.events, 1)
}

func TestNotifierHasSubscribers(t *testing.T) {
	n := events.NewNotifier(zerolog.Nop())
	assert.False(t, n.HasSubscribers())
	assert.Equal(t, 0, n.Len())

	n.Subscribe(&recordingSink{}, nil)
	assert.True(t, n.HasSubscribers())
	assert.Equal(t, 1, n.Len())
}

func TestChanSinkBuffersEvents(t *testing.T) {
	sink := events.NewChanSink(2)
	assert.NilError(t, sink.Notify(events.Event{Kind: events.EntityInserted}))
	assert.NilError(t, sink.Notify(events.Event{Kind: events.EntityRemoved}))

	ev := <-sink.Events()
	assert.Equal(t, events.EntityInserted, ev.Kind)
	ev = <-sink.Events()
	assert.Equal(t, events.EntityRemoved, ev.Kind)
}

func TestChanSinkReportsBackpressure(t *testing.T) {
	sink := events.NewChanSink(1)
	assert.NilError(t, sink.Notify(events.Event{Kind: events.EntityInserted}))

	// The buffer is full; the notification is missed, not blocked on.
	err := sink.Notify(events.Event{Kind: events.EntityRemoved})
	assert.ErrorIs(t, err, events.ErrSinkFull)

	ev := <-sink.Events()
	assert.Equal(t, events.EntityInserted, ev.Kind)
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "archetype_created", events.ArchetypeCreated.String())
	assert.Equal(t, "entity_inserted", events.EntityInserted.String())
	assert.Equal(t, "entity_removed", events.EntityRemoved.String())
}
