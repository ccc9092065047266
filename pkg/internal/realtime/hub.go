package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Broker carries change notifications between service instances. Publish is
// called by the instance that made the change, Listen delivers every
// notification (its own included) until the context ends.
type Broker interface {
	Publish(ctx context.Context, topic string) error
	Listen(ctx context.Context, fn func(topic string)) error
}

// Hub keeps the subscribers of every topic and wakes them when the topic
// changes. Subscribers reload the full snapshot on wake, so a signal carries
// no payload and bursts of changes collapse into one reload.
type Hub struct {
	broker Broker

	mu          sync.RWMutex
	subscribers map[string]map[*Subscription]struct{}
	generations map[string]uint64
}

// NewHub creates a hub. A nil broker keeps the fan-out inside this process.
func NewHub(broker Broker) *Hub {
	return &Hub{
		broker:      broker,
		subscribers: make(map[string]map[*Subscription]struct{}),
		generations: make(map[string]uint64),
	}
}

// Run pumps notifications from the broker into the hub. It blocks until ctx
// is cancelled and returns immediately for an in-process hub.
func (v *Hub) Run(ctx context.Context) error {
	if v.broker == nil {
		return nil
	}
	return v.broker.Listen(ctx, v.dispatch)
}

// Publish announces that topics changed.
func (v *Hub) Publish(ctx context.Context, topics ...string) error {
	for _, topic := range topics {
		if v.broker == nil {
			v.dispatch(topic)
			continue
		}
		if err := v.broker.Publish(ctx, topic); err != nil {
			return err
		}
	}
	return nil
}

// Generation returns how many changes of the topic this hub has seen. It is
// used to key snapshot caches.
func (v *Hub) Generation(topic string) uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.generations[topic]
}

// Subscribe registers interest in a topic. The returned subscription is
// signalled once right away so the first snapshot is loaded without waiting
// for a change.
func (v *Hub) Subscribe(topic string) *Subscription {
	sub := &Subscription{
		Topic: topic,
		C:     make(chan struct{}, 1),
		hub:   v,
	}
	sub.C <- struct{}{}

	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.subscribers[topic]; !ok {
		v.subscribers[topic] = make(map[*Subscription]struct{})
	}
	v.subscribers[topic][sub] = struct{}{}

	return sub
}

// Count returns the number of live subscriptions on a topic.
func (v *Hub) Count(topic string) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.subscribers[topic])
}

func (v *Hub) dispatch(topic string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.generations[topic]++
	for sub := range v.subscribers[topic] {
		select {
		case sub.C <- struct{}{}:
		default:
			// A reload is already pending and will see this change too.
		}
	}
}

func (v *Hub) remove(sub *Subscription) {
	v.mu.Lock()
	defer v.mu.Unlock()

	subs, ok := v.subscribers[sub.Topic]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	close(sub.C)
	if len(subs) == 0 {
		delete(v.subscribers, sub.Topic)
	}
}

type Subscription struct {
	Topic string
	C     chan struct{}

	hub  *Hub
	once sync.Once
}

// Close detaches the subscription; C is closed afterwards.
func (v *Subscription) Close() {
	v.once.Do(func() {
		v.hub.remove(v)
	})
}

// H is the hub of this service instance.
var H *Hub

// Notify announces changed topics on the instance hub. Failures only get
// logged: the write that caused the change already succeeded.
func Notify(topics ...string) {
	if H == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := H.Publish(ctx, topics...); err != nil {
		log.Error().Err(err).Strs("topics", topics).Msg("An error occurred when notifying realtime subscribers...")
	}
}
