package services

import (
	"errors"
	"testing"

	"git.solsynth.dev/hypernet/auraheart/pkg/internal/database"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
)

func newTestPin(t *testing.T, owner *Actor) models.Pin {
	t.Helper()
	pin, err := NewPin(owner, models.Pin{
		Image: "https://example.com/aura.png",
		Title: "Aura",
		Tags:  SplitTags("Estética, Vibe, Aura"),
	})
	if err != nil {
		t.Fatalf("new pin: %v", err)
	}
	return pin
}

func TestToggleHeartRoundTrip(t *testing.T) {
	owner := newMember(t)
	fan := newMember(t)
	pin := newTestPin(t, owner)

	active, err := ToggleHeart(fan, models.HeartTargetPin, pin.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	} else if !active {
		t.Fatalf("first toggle should add the heart")
	}

	got, err := GetPin(pin.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Hearts) != 1 || got.Hearts[0] != fan.Account.ID {
		t.Fatalf("hearts after first toggle = %v", got.Hearts)
	}

	active, err = ToggleHeart(fan, models.HeartTargetPin, pin.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	} else if active {
		t.Fatalf("second toggle should remove the heart")
	}

	got, err = GetPin(pin.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Hearts) != 0 {
		t.Fatalf("hearts after round trip = %v", got.Hearts)
	}
}

func TestToggleHeartOnPulse(t *testing.T) {
	owner := newMember(t)
	pulse, err := NewPulse(owner, "  boa vibe  ")
	if err != nil {
		t.Fatal(err)
	}
	if pulse.Content != "boa vibe" {
		t.Fatalf("content = %q", pulse.Content)
	}

	if active, err := ToggleHeart(owner, models.HeartTargetPulse, pulse.ID); err != nil || !active {
		t.Fatalf("toggle = %v, %v", active, err)
	}

	items, err := ListPulse(database.C.Where("id = ?", pulse.ID), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || len(items[0].Hearts) != 1 {
		t.Fatalf("pulse hearts = %v", items)
	}
}

func TestToggleHeartUnknownTarget(t *testing.T) {
	fan := newMember(t)
	if _, err := ToggleHeart(fan, models.HeartTargetPin, "missing"); err == nil {
		t.Fatalf("hearting a missing pin should fail")
	}
	if _, err := ToggleHeart(fan, "profiles", "missing"); err == nil {
		t.Fatalf("hearting a profile should fail")
	}
}

func TestBannedCannotWrite(t *testing.T) {
	admin := getAdmin(t)
	owner := newMember(t)
	pin := newTestPin(t, owner)

	banned := newMember(t)
	if isBanned, err := ToggleBan(admin, banned.Account.ID); err != nil || !isBanned {
		t.Fatalf("ban = %v, %v", isBanned, err)
	}
	banned = establish(t, banned.Account.ID)

	if _, err := ToggleHeart(banned, models.HeartTargetPin, pin.ID); !errors.Is(err, ErrBanned) {
		t.Fatalf("heart err = %v", err)
	}
	if _, err := NewPulse(banned, "hello"); !errors.Is(err, ErrBanned) {
		t.Fatalf("pulse err = %v", err)
	}

	if isBanned, err := ToggleBan(admin, banned.Account.ID); err != nil || isBanned {
		t.Fatalf("unban = %v, %v", isBanned, err)
	}
}
