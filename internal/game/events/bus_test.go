package events

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var received Event
	bus.SubscribeFunc(TypeBatchStarted, func(e Event) {
		received = e
	})

	bus.Publish(NewBatchStartedEvent("batch-1", 100, 2, 7, "xorshift", "counter", 20, 10))

	require.NotNil(t, received, "Event should have been received")
	assert.Equal(t, TypeBatchStarted, received.Type())
	assert.Equal(t, "batch-1", received.BatchID())
	assert.WithinDuration(t, time.Now(), received.Timestamp(), time.Second)

	started, ok := received.(*BatchStartedEvent)
	require.True(t, ok)
	assert.Equal(t, 100, started.Games)
	assert.Equal(t, 2, started.Workers)
}

func TestEventBusMultipleHandlers(t *testing.T) {
	bus := NewEventBus()

	calls := 0
	id1 := bus.SubscribeFunc(TypeBatchCompleted, func(e Event) { calls++ })
	id2 := bus.SubscribeFunc(TypeBatchCompleted, func(e Event) { calls++ })
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, bus.GetFuncHandlerCount(TypeBatchCompleted))

	bus.Publish(NewBatchCompletedEvent("b", Counts{Circle: 1}, time.Millisecond))
	bus.Publish(NewBatchStartedEvent("b", 1, 1, 1, "xorshift", "counter", 3, 3))

	assert.Equal(t, 2, calls, "only completed events should reach the handlers")
}

// TestSubscriber is a test implementation of Subscriber
type TestSubscriber struct {
	mu              sync.Mutex
	id              string
	interestedTypes map[string]bool
	receivedEvents  []Event
}

func (ts *TestSubscriber) ID() string {
	return ts.id
}

func (ts *TestSubscriber) HandleEvent(e Event) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.receivedEvents = append(ts.receivedEvents, e)
}

func (ts *TestSubscriber) InterestedIn(eventType string) bool {
	if ts.interestedTypes == nil {
		return true
	}
	return ts.interestedTypes[eventType]
}

func TestEventBusSubscriber(t *testing.T) {
	bus := NewEventBus()

	all := &TestSubscriber{id: "all"}
	workers := &TestSubscriber{id: "workers", interestedTypes: map[string]bool{TypeWorkerFinished: true}}
	bus.Subscribe(all)
	bus.Subscribe(workers)
	assert.Equal(t, 2, bus.GetSubscriberCount())

	bus.Publish(NewWorkerFinishedEvent("b", 0, 1, Counts{Draw: 3}, time.Millisecond))
	bus.Publish(NewBatchAbortedEvent("b", errors.New("context canceled"), 3))

	assert.Len(t, all.receivedEvents, 2)
	require.Len(t, workers.receivedEvents, 1)
	assert.Equal(t, TypeWorkerFinished, workers.receivedEvents[0].Type())

	bus.Unsubscribe("all")
	assert.Equal(t, 1, bus.GetSubscriberCount())
	bus.Publish(NewWorkerFinishedEvent("b", 1, 2, Counts{}, time.Millisecond))
	assert.Len(t, all.receivedEvents, 2)
	assert.Len(t, workers.receivedEvents, 2)
}

func TestEventBusRecoversFromPanic(t *testing.T) {
	bus := NewEventBus()

	reached := false
	bus.SubscribeFunc(TypeBatchAborted, func(e Event) { panic("boom") })
	bus.SubscribeFunc(TypeBatchAborted, func(e Event) { reached = true })

	assert.NotPanics(t, func() {
		bus.Publish(NewBatchAbortedEvent("b", errors.New("stop"), 0))
	})
	assert.True(t, reached, "later handlers still run after a panic")
}

func TestEventBusConcurrentPublish(t *testing.T) {
	bus := NewEventBus()
	sub := &TestSubscriber{id: "sink"}
	bus.Subscribe(sub)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			bus.Publish(NewWorkerFinishedEvent("b", w, uint64(w), Counts{Circle: w}, 0))
		}(w)
	}
	wg.Wait()

	assert.Len(t, sub.receivedEvents, 8)
}

func TestCounts_Games(t *testing.T) {
	assert.Equal(t, 6, Counts{Circle: 1, Cross: 2, Draw: 3}.Games())
}
