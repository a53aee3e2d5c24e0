// Package realtime fans out change notifications to in-process subscribers.
package realtime

import (
	"sync"
)

const subscriberBuffer = 16

// Message is a change notification. Clients treat it as a cue to refetch.
type Message struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Broker delivers messages published on a topic to its current subscribers.
type Broker struct {
	mu     sync.RWMutex
	topics map[string]map[chan Message]struct{}
	closed bool
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{topics: make(map[string]map[chan Message]struct{})}
}

// Subscribe registers a subscriber on topic. The returned cancel func must be called
// to release it; the channel is closed on cancel or broker Close.
func (b *Broker) Subscribe(topic string) (<-chan Message, func()) {
	ch := make(chan Message, subscriberBuffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[chan Message]struct{})
		b.topics[topic] = subs
	}
	subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if subs, ok := b.topics[topic]; ok {
				if _, ok := subs[ch]; ok {
					delete(subs, ch)
					close(ch)
				}
				if len(subs) == 0 {
					delete(b.topics, topic)
				}
			}
		})
	}
	return ch, cancel
}

// Publish delivers msg to every subscriber of topic without blocking.
// Subscribers whose buffer is full miss the message. It returns the number delivered.
func (b *Broker) Publish(topic string, msg Message) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for ch := range b.topics[topic] {
		select {
		case ch <- msg:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers returns the number of subscribers on topic.
func (b *Broker) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}

// Closed reports whether Close was called.
func (b *Broker) Closed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}

// Close closes every subscriber channel. Later subscriptions receive a closed channel.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for topic, subs := range b.topics {
		for ch := range subs {
			close(ch)
		}
		delete(b.topics, topic)
	}
}
