package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

type Event struct {
	Type    string `json:"type"`
	Entity  string `json:"entity,omitempty"`
	Topic   string `json:"-"`
	Payload any    `json:"payload,omitempty"`
}

// Topics group subscribers: one per project for issue changes, one per user
// for project-list and label changes.
func projectTopic(projectID int64) string { return fmt.Sprintf("project:%d", projectID) }
func userTopic(userID int64) string       { return fmt.Sprintf("user:%d", userID) }

type EventBus struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewEventBus() *EventBus { return &EventBus{subs: make(map[string]map[chan []byte]struct{})} }

func (b *EventBus) Subscribe(topic string) (ch chan []byte, cancel func()) {
	ch = make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[chan []byte]struct{})
	}
	b.subs[topic][ch] = struct{}{}
	b.mu.Unlock()
	return ch, func() {
		b.mu.Lock()
		if subs, ok := b.subs[topic]; ok {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(b.subs, topic)
			}
		}
		b.mu.Unlock()
		close(ch)
	}
}

func (b *EventBus) Publish(ev Event) {
	eventsPublished.Inc()
	data, _ := json.Marshal(ev)
	b.mu.RLock()
	subs := b.subs[ev.Topic]
	for ch := range subs {
		select {
		case ch <- data:
		default: // drop if slow
		}
	}
	b.mu.RUnlock()
}

// Serve a single SSE connection for the given topic.
func (b *EventBus) ServeSSE(w http.ResponseWriter, r *http.Request, topic string) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	ch, cancel := b.Subscribe(topic)
	defer cancel()

	// Initial comment to open the stream
	_, _ = w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(25 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			// heartbeat comment to keep connection alive through proxies
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write([]byte("data: "))
			_, _ = w.Write(msg)
			_, _ = w.Write([]byte("\n\n"))
			flusher.Flush()
		}
	}
}
