package services

import (
	"context"
	"fmt"
	"time"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
	localCache "git.solsynth.dev/hypernet/auraheart/pkg/internal/cache"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/database"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/realtime"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
)

// SnapshotSource feeds the realtime connection of one actor.
type SnapshotSource struct {
	Actor *Actor
}

func (v SnapshotSource) Authorize(topic string) error {
	if v.Actor == nil {
		return ErrUnauthenticated
	}
	switch topic {
	case aurakitm.TopicProfiles, aurakitm.TopicPins, aurakitm.TopicPulses:
		return nil
	case aurakitm.TopicReports:
		return EnsureAdmin(v.Actor)
	}
	if key, ok := aurakitm.ParseConversationTopic(topic); ok {
		return EnsureParticipant(v.Actor, key)
	}
	return fmt.Errorf("unknown topic %s", topic)
}

func (v SnapshotSource) Load(ctx context.Context, topic string) ([]byte, error) {
	return LoadSnapshot(ctx, topic)
}

type snapshotState struct {
	Data []byte
}

func snapshotCacheKey(topic string) string {
	var generation uint64
	if realtime.H != nil {
		generation = realtime.H.Generation(topic)
	}
	return fmt.Sprintf("snapshot#%s#%d", topic, generation)
}

// LoadSnapshot returns the whole content of a topic encoded as a JSON array.
// Cached snapshots are keyed by the change generation of the topic, so a
// change always misses the cache of the previous state.
func LoadSnapshot(ctx context.Context, topic string) ([]byte, error) {
	key := snapshotCacheKey(topic)

	var marshal *marshaler.Marshaler
	if localCache.S != nil {
		marshal = marshaler.New(cache.New[any](localCache.S))
		if cached, err := marshal.Get(ctx, key, new(snapshotState)); err == nil {
			return cached.(*snapshotState).Data, nil
		}
	}

	data, err := buildSnapshot(topic)
	if err != nil {
		return nil, err
	}

	if marshal != nil {
		_ = marshal.Set(
			ctx,
			key,
			snapshotState{Data: data},
			store.WithExpiration(5*time.Minute),
			store.WithTags([]string{"snapshot", fmt.Sprintf("topic#%s", topic)}),
		)
	}

	return data, nil
}

func buildSnapshot(topic string) ([]byte, error) {
	var documents any
	switch topic {
	case aurakitm.TopicProfiles:
		items, err := ListProfiles()
		if err != nil {
			return nil, err
		}
		documents = lo.Map(items, func(item models.Profile, _ int) aurakitm.Profile {
			return ProfileDocument(item)
		})
	case aurakitm.TopicPins:
		items, err := ListPin(database.C, 0, 0)
		if err != nil {
			return nil, err
		}
		documents = lo.Map(items, func(item models.Pin, _ int) aurakitm.Pin {
			return PinDocument(item)
		})
	case aurakitm.TopicPulses:
		items, err := ListPulse(database.C, 0, 0)
		if err != nil {
			return nil, err
		}
		documents = lo.Map(items, func(item models.Pulse, _ int) aurakitm.Pulse {
			return PulseDocument(item)
		})
	case aurakitm.TopicReports:
		var items []models.Report
		if err := database.C.Order("created_at ASC").Find(&items).Error; err != nil {
			return nil, err
		}
		documents = lo.Map(items, func(item models.Report, _ int) aurakitm.Report {
			return ReportDocument(item)
		})
	default:
		key, ok := aurakitm.ParseConversationTopic(topic)
		if !ok {
			return nil, fmt.Errorf("unknown topic %s", topic)
		}
		items, err := ListConversationWindow(key, ConversationWindow)
		if err != nil {
			return nil, err
		}
		documents = lo.Map(items, func(item models.Message, _ int) aurakitm.Message {
			return MessageDocument(item)
		})
	}

	return jsoniter.Marshal(documents)
}
