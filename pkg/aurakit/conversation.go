package aurakit

import (
	"sync"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
	"github.com/rs/zerolog/log"
)

// Conversation follows at most one message partition at a time.
type Conversation struct {
	mu       sync.RWMutex
	key      string
	sub      *Subscription
	messages []aurakitm.Message
	wg       sync.WaitGroup
	onChange func(key string)
}

func NewConversation() *Conversation {
	return &Conversation{}
}

func (v *Conversation) OnChange(fn func(key string)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onChange = fn
}

// Open switches to the conversation between me and peer. The previous
// subscription is torn down before the new one is opened.
func (v *Conversation) Open(stream *Stream, me, peer string) (string, error) {
	v.Close()

	key := aurakitm.ConversationKey(me, peer)
	sub, err := stream.Subscribe(aurakitm.ConversationTopic(key))
	if err != nil {
		return key, err
	}

	v.mu.Lock()
	v.key = key
	v.sub = sub
	v.messages = nil
	v.mu.Unlock()

	v.wg.Add(1)
	go v.consume(key, sub)

	return key, nil
}

func (v *Conversation) consume(key string, sub *Subscription) {
	defer v.wg.Done()
	for event := range sub.Events() {
		items, err := DecodeSnapshot[aurakitm.Message](event)
		if err != nil {
			log.Error().Err(err).Str("conversation", key).Msg("An error occurred when applying messages...")
			continue
		}

		v.mu.Lock()
		if v.sub != sub {
			v.mu.Unlock()
			return
		}
		v.messages = items
		fn := v.onChange
		v.mu.Unlock()

		if fn != nil {
			fn(key)
		}
	}
}

// Resume subscribes the active conversation again on a new stream, after
// the one it was following went away.
func (v *Conversation) Resume(stream *Stream) error {
	v.mu.Lock()
	key := v.key
	previous := v.sub
	v.mu.Unlock()
	if len(key) == 0 {
		return nil
	}

	if previous != nil {
		previous.Close()
	}
	v.wg.Wait()

	sub, err := stream.Subscribe(aurakitm.ConversationTopic(key))
	if err != nil {
		return err
	}

	v.mu.Lock()
	if v.key != key || v.sub != previous {
		v.mu.Unlock()
		sub.Close()
		return nil
	}
	v.sub = sub
	v.mu.Unlock()

	v.wg.Add(1)
	go v.consume(key, sub)
	return nil
}

// Close ends the active subscription, if any.
func (v *Conversation) Close() {
	v.mu.Lock()
	sub := v.sub
	v.sub = nil
	v.key = ""
	v.messages = nil
	v.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
	v.wg.Wait()
}

// Key is the active conversation key, empty when none is active.
func (v *Conversation) Key() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.key
}

func (v *Conversation) Active() bool {
	return len(v.Key()) > 0
}

func (v *Conversation) Messages() []aurakitm.Message {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]aurakitm.Message(nil), v.messages...)
}
