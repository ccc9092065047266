package services

import (
	"context"
	"errors"
	"testing"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/cache"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/realtime"
	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
)

func TestSnapshotFollowsChanges(t *testing.T) {
	realtime.H = realtime.NewHub(nil)
	defer func() { realtime.H = nil }()
	if err := cache.NewStore(); err != nil {
		t.Fatal(err)
	}
	defer func() { cache.S = nil }()

	ctx := context.Background()
	owner := newMember(t)

	before := realtime.H.Generation(aurakitm.TopicPulses)
	if _, err := LoadSnapshot(ctx, aurakitm.TopicPulses); err != nil {
		t.Fatal(err)
	}

	pulse, err := NewPulse(owner, "sempre a brilhar")
	if err != nil {
		t.Fatal(err)
	}
	if realtime.H.Generation(aurakitm.TopicPulses) == before {
		t.Fatalf("publishing a pulse did not bump the generation")
	}

	raw, err := LoadSnapshot(ctx, aurakitm.TopicPulses)
	if err != nil {
		t.Fatal(err)
	}
	var pulses []aurakitm.Pulse
	if err := jsoniter.Unmarshal(raw, &pulses); err != nil {
		t.Fatal(err)
	}
	if _, ok := lo.Find(pulses, func(item aurakitm.Pulse) bool { return item.ID == pulse.ID }); !ok {
		t.Fatalf("snapshot misses the new pulse")
	}
	for idx := 1; idx < len(pulses); idx++ {
		if pulses[idx].CreatedAt.Before(pulses[idx-1].CreatedAt) {
			t.Fatalf("snapshot is not in creation order")
		}
	}
}

func TestSnapshotSourceAuthorize(t *testing.T) {
	admin := getAdmin(t)
	a := newMember(t)
	b := newMember(t)
	anonymous := newAnonymous(t)
	key := aurakitm.ConversationKey(a.Account.ID, b.Account.ID)

	if err := (SnapshotSource{}).Authorize(aurakitm.TopicPins); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("no actor err = %v", err)
	}
	if err := (SnapshotSource{Actor: anonymous}).Authorize(aurakitm.TopicPins); err != nil {
		t.Fatalf("anonymous pins err = %v", err)
	}
	if err := (SnapshotSource{Actor: a}).Authorize(aurakitm.TopicReports); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("member reports err = %v", err)
	}
	if err := (SnapshotSource{Actor: admin}).Authorize(aurakitm.TopicReports); err != nil {
		t.Fatalf("admin reports err = %v", err)
	}
	if err := (SnapshotSource{Actor: b}).Authorize(aurakitm.ConversationTopic(key)); err != nil {
		t.Fatalf("participant err = %v", err)
	}
	if err := (SnapshotSource{Actor: admin}).Authorize(aurakitm.ConversationTopic(key)); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("outsider err = %v", err)
	}
	if err := (SnapshotSource{Actor: a}).Authorize("secrets"); err == nil {
		t.Fatalf("unknown topic accepted")
	}
}
