package aurakit

import (
	"sort"
	"sync"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Mirror keeps local copies of the shared collections. Every snapshot
// replaces the local copy wholesale.
type Mirror struct {
	mu       sync.RWMutex
	profiles []aurakitm.Profile
	pins     []aurakitm.Pin
	pulses   []aurakitm.Pulse
	reports  []aurakitm.Report

	subs     []*Subscription
	wg       sync.WaitGroup
	onChange func(topic string)
}

func NewMirror() *Mirror {
	return &Mirror{}
}

// OnChange registers a callback fired after a collection got replaced.
func (v *Mirror) OnChange(fn func(topic string)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onChange = fn
}

// Start subscribes the collections on the stream. Reports are only
// subscribed for administrators.
func (v *Mirror) Start(stream *Stream, isAdmin bool) error {
	v.detach()

	topics := []string{aurakitm.TopicProfiles, aurakitm.TopicPins, aurakitm.TopicPulses}
	if isAdmin {
		topics = append(topics, aurakitm.TopicReports)
	}

	var subs []*Subscription
	for _, topic := range topics {
		sub, err := stream.Subscribe(topic)
		if err != nil {
			for _, item := range subs {
				item.Close()
			}
			return err
		}
		subs = append(subs, sub)
	}

	v.mu.Lock()
	v.subs = subs
	v.mu.Unlock()

	for _, sub := range subs {
		v.wg.Add(1)
		go v.consume(sub)
	}
	return nil
}

func (v *Mirror) consume(sub *Subscription) {
	defer v.wg.Done()
	for event := range sub.Events() {
		if err := v.apply(event); err != nil {
			log.Error().Err(err).Str("topic", event.Topic).Msg("An error occurred when applying snapshot...")
			continue
		}
		v.mu.RLock()
		fn := v.onChange
		v.mu.RUnlock()
		if fn != nil {
			fn(event.Topic)
		}
	}
}

func (v *Mirror) apply(event Event) error {
	switch event.Topic {
	case aurakitm.TopicProfiles:
		items, err := DecodeSnapshot[aurakitm.Profile](event)
		if err != nil {
			return err
		}
		v.mu.Lock()
		v.profiles = items
		v.mu.Unlock()
	case aurakitm.TopicPins:
		items, err := DecodeSnapshot[aurakitm.Pin](event)
		if err != nil {
			return err
		}
		v.mu.Lock()
		v.pins = items
		v.mu.Unlock()
	case aurakitm.TopicPulses:
		items, err := DecodeSnapshot[aurakitm.Pulse](event)
		if err != nil {
			return err
		}
		v.mu.Lock()
		v.pulses = items
		v.mu.Unlock()
	case aurakitm.TopicReports:
		items, err := DecodeSnapshot[aurakitm.Report](event)
		if err != nil {
			return err
		}
		v.mu.Lock()
		v.reports = items
		v.mu.Unlock()
	}
	return nil
}

// detach ends the subscriptions but keeps the local copies, a restarted
// mirror shows them until the first snapshots arrive.
func (v *Mirror) detach() {
	v.mu.Lock()
	subs := v.subs
	v.subs = nil
	v.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
	v.wg.Wait()
}

// Stop tears every subscription down and forgets the local copies.
func (v *Mirror) Stop() {
	v.detach()

	v.mu.Lock()
	v.profiles, v.pins, v.pulses, v.reports = nil, nil, nil, nil
	v.mu.Unlock()
}

func (v *Mirror) Profiles() []aurakitm.Profile {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]aurakitm.Profile(nil), v.profiles...)
}

func (v *Mirror) Profile(id string) (aurakitm.Profile, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return lo.Find(v.profiles, func(item aurakitm.Profile) bool {
		return item.ID == id
	})
}

func (v *Mirror) Pins() []aurakitm.Pin {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]aurakitm.Pin(nil), v.pins...)
}

func (v *Mirror) Pulses() []aurakitm.Pulse {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]aurakitm.Pulse(nil), v.pulses...)
}

// PulseFeed returns the pulses newest first.
func (v *Mirror) PulseFeed() []aurakitm.Pulse {
	pulses := v.Pulses()
	sort.SliceStable(pulses, func(i, j int) bool {
		return pulses[i].CreatedAt.After(pulses[j].CreatedAt)
	})
	return pulses
}

func (v *Mirror) Reports() []aurakitm.Report {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]aurakitm.Report(nil), v.reports...)
}
