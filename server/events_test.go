package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusPublishSubscribe(t *testing.T) {
	bus := NewEventBus()
	ch, cancel := bus.Subscribe(projectTopic(1))
	defer cancel()

	bus.Publish(Event{Type: "issue.moved", Entity: "issue", Topic: projectTopic(1), Payload: map[string]any{"id": 7}})

	select {
	case msg := <-ch:
		var ev Event
		require.NoError(t, json.Unmarshal(msg, &ev))
		assert.Equal(t, "issue.moved", ev.Type)
		assert.Equal(t, "issue", ev.Entity)
	default:
		t.Fatal("expected a buffered event")
	}
}

func TestEventBusTopicIsolation(t *testing.T) {
	bus := NewEventBus()
	a, cancelA := bus.Subscribe(projectTopic(1))
	defer cancelA()
	b, cancelB := bus.Subscribe(userTopic(1))
	defer cancelB()

	bus.Publish(Event{Type: "project.renamed", Topic: userTopic(1)})

	assert.Len(t, b, 1)
	assert.Len(t, a, 0)
}

func TestEventBusCancelClosesChannel(t *testing.T) {
	bus := NewEventBus()
	ch, cancel := bus.Subscribe(projectTopic(3))
	cancel()

	_, ok := <-ch
	assert.False(t, ok)

	// publishing after cancel must not panic or deliver
	bus.Publish(Event{Type: "issue.created", Topic: projectTopic(3)})
}

func TestEventBusDropsWhenSubscriberSlow(t *testing.T) {
	bus := NewEventBus()
	ch, cancel := bus.Subscribe(projectTopic(9))
	defer cancel()

	// fill the buffer and keep going; extra events are dropped, not blocked on
	for i := 0; i < cap(ch)+10; i++ {
		bus.Publish(Event{Type: "issue.updated", Topic: projectTopic(9)})
	}
	assert.Equal(t, cap(ch), len(ch))
}

func TestTopicNames(t *testing.T) {
	assert.Equal(t, "project:42", projectTopic(42))
	assert.Equal(t, "user:7", userTopic(7))
}
