// Package live notifies in-process subscribers when stored data changes, so
// queries feeding a view can be re-run.
package live

import (
	"context"
	"sync"
)

// Topic names a stream of change notifications.
type Topic string

const TopicPreferences Topic = "preferences"

func TransactionsTopic(userID string) Topic { return Topic("transactions:" + userID) }

func CategoriesTopic(userID string) Topic { return Topic("categories:" + userID) }

// Hub fans change notifications out to subscribers. Notifications carry no
// payload; a subscriber that is busy when several changes arrive sees them as
// a single notification.
type Hub struct {
	mu     sync.RWMutex
	subs   map[Topic]map[*subscriber]struct{}
	closed bool
}

type subscriber struct {
	ch chan struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[Topic]map[*subscriber]struct{})}
}

// Publish notifies every subscriber of the given topics. It never blocks.
func (h *Hub) Publish(topics ...Topic) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, topic := range topics {
		for sub := range h.subs[topic] {
			select {
			case sub.ch <- struct{}{}:
			default:
				// already has a pending notification
			}
		}
	}
}

// Subscribe returns a channel that receives a value after any of the topics
// changes. The channel is closed when ctx is done or the hub is closed.
func (h *Hub) Subscribe(ctx context.Context, topics ...Topic) <-chan struct{} {
	sub := &subscriber{ch: make(chan struct{}, 1)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.ch)
		return sub.ch
	}
	for _, topic := range topics {
		if h.subs[topic] == nil {
			h.subs[topic] = make(map[*subscriber]struct{})
		}
		h.subs[topic][sub] = struct{}{}
	}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.remove(sub, topics)
	}()

	return sub.ch
}

func (h *Hub) remove(sub *subscriber, topics []Topic) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	for _, topic := range topics {
		delete(h.subs[topic], sub)
		if len(h.subs[topic]) == 0 {
			delete(h.subs, topic)
		}
	}
	close(sub.ch)
}

// Subscribers returns how many subscriptions are registered for topic
func (h *Hub) Subscribers(topic Topic) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}

// Close ends every subscription. Publishing after Close is a no-op.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	closed := make(map[*subscriber]struct{})
	for _, subs := range h.subs {
		for sub := range subs {
			if _, done := closed[sub]; !done {
				close(sub.ch)
				closed[sub] = struct{}{}
			}
		}
	}
	h.subs = make(map[Topic]map[*subscriber]struct{})
}

// PreferencesChanged publishes TopicPreferences.
func (h *Hub) PreferencesChanged() {
	h.Publish(TopicPreferences)
}
