package services

import (
	"errors"
	"slices"
	"testing"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/database"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
)

func loadProfile(t *testing.T, id string) models.Profile {
	t.Helper()
	profile, err := GetProfile(id)
	if err != nil {
		t.Fatalf("get profile %s: %v", id, err)
	}
	items := []models.Profile{profile}
	if err := AttachFollows(items); err != nil {
		t.Fatal(err)
	}
	return items[0]
}

func TestAdminBootstrapProfile(t *testing.T) {
	admin := getAdmin(t)
	profile := loadProfile(t, admin.Account.ID)

	if profile.Role != aurakitm.RoleAdmin {
		t.Fatalf("role = %q", profile.Role)
	}
	if !slices.Equal(profile.Badges, []string{aurakitm.BadgeVerified, aurakitm.BadgeTrendsetter}) {
		t.Fatalf("badges = %v", profile.Badges)
	}
	if profile.Username != "admin" {
		t.Fatalf("username = %q", profile.Username)
	}
	if profile.Bio != defaultBio {
		t.Fatalf("bio = %q", profile.Bio)
	}
	if profile.PhotoURL != defaultAvatarSeedURL+admin.Account.ID {
		t.Fatalf("photo = %q", profile.PhotoURL)
	}
	if slices.Contains(profile.Following, admin.Account.ID) {
		t.Fatalf("administrator follows itself")
	}
	if !admin.Capabilities().IsAdmin {
		t.Fatalf("administrator capabilities = %+v", admin.Capabilities())
	}
}

func TestNewDefaultProfileUsername(t *testing.T) {
	profile := NewDefaultProfile("abcdef123", "", false)
	if profile.Username != "user_abcde" {
		t.Fatalf("username = %q", profile.Username)
	}
	if profile.Role != aurakitm.RoleMember || len(profile.Badges) != 0 {
		t.Fatalf("member defaults = %+v", profile)
	}

	profile = NewDefaultProfile("abcdef123", "lia@aura.test", false)
	if profile.Username != "lia" {
		t.Fatalf("username = %q", profile.Username)
	}
}

func TestMemberFollowsAdminByDefault(t *testing.T) {
	admin := getAdmin(t)
	member := newMember(t)

	profile := loadProfile(t, member.Account.ID)
	if !slices.Equal(profile.Following, []string{admin.Account.ID}) {
		t.Fatalf("following = %v", profile.Following)
	}
	if !slices.Contains(loadProfile(t, admin.Account.ID).Followers, member.Account.ID) {
		t.Fatalf("administrator is missing the new follower")
	}
}

func TestFollowSymmetry(t *testing.T) {
	a := newMember(t)
	b := newMember(t)

	active, err := ToggleFollow(a, b.Account.ID)
	if err != nil || !active {
		t.Fatalf("follow = %v, %v", active, err)
	}
	if !slices.Contains(loadProfile(t, a.Account.ID).Following, b.Account.ID) {
		t.Fatalf("a does not follow b")
	}
	if !slices.Contains(loadProfile(t, b.Account.ID).Followers, a.Account.ID) {
		t.Fatalf("b is missing follower a")
	}

	active, err = ToggleFollow(a, b.Account.ID)
	if err != nil || active {
		t.Fatalf("unfollow = %v, %v", active, err)
	}
	if slices.Contains(loadProfile(t, a.Account.ID).Following, b.Account.ID) {
		t.Fatalf("a still follows b")
	}
	if slices.Contains(loadProfile(t, b.Account.ID).Followers, a.Account.ID) {
		t.Fatalf("b still has follower a")
	}
}

func TestFollowRejections(t *testing.T) {
	admin := getAdmin(t)
	member := newMember(t)

	if _, err := ToggleFollow(member, member.Account.ID); !errors.Is(err, ErrSelfFollow) {
		t.Fatalf("self follow err = %v", err)
	}

	// The default follow of the administrator is locked.
	if _, err := ToggleFollow(member, admin.Account.ID); !errors.Is(err, ErrFollowLocked) {
		t.Fatalf("unfollow administrator err = %v", err)
	}
	if !slices.Contains(loadProfile(t, member.Account.ID).Following, admin.Account.ID) {
		t.Fatalf("administrator got unfollowed")
	}
}

func TestEditProfile(t *testing.T) {
	member := newMember(t)
	username := "  aurora "
	bio := "luz"

	profile, err := EditProfile(member, ProfileEdit{
		Username:  &username,
		Bio:       &bio,
		Interests: []string{"arte"},
	})
	if err != nil {
		t.Fatal(err)
	}

	stored := loadProfile(t, member.Account.ID)
	if stored.Username != "aurora" || stored.Bio != "luz" || !slices.Equal(stored.Interests, []string{"arte"}) {
		t.Fatalf("stored = %+v", stored)
	}
	if stored.CoverURL != profile.CoverURL {
		t.Fatalf("cover changed to %q", stored.CoverURL)
	}
}

func TestToggleBadge(t *testing.T) {
	admin := getAdmin(t)
	member := newMember(t)

	if _, err := ToggleBadge(member, member.Account.ID, aurakitm.BadgeVerified); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("member badge err = %v", err)
	}

	active, err := ToggleBadge(admin, member.Account.ID, aurakitm.BadgeVerified)
	if err != nil || !active {
		t.Fatalf("grant = %v, %v", active, err)
	}
	if !slices.Contains(loadProfile(t, member.Account.ID).Badges, aurakitm.BadgeVerified) {
		t.Fatalf("badge missing")
	}

	active, err = ToggleBadge(admin, member.Account.ID, aurakitm.BadgeVerified)
	if err != nil || active {
		t.Fatalf("revoke = %v, %v", active, err)
	}
	if len(loadProfile(t, member.Account.ID).Badges) != 0 {
		t.Fatalf("badge still present")
	}
}

func TestBackfillOfficialFollows(t *testing.T) {
	admin := getAdmin(t)
	early := newMember(t)

	// An early member signed up while there was no administrator yet.
	if err := database.C.Delete(&models.Follow{}, "follower_id = ?", early.Account.ID).Error; err != nil {
		t.Fatal(err)
	}

	count, err := BackfillOfficialFollows(database.C, admin.Account.ID)
	if err != nil {
		t.Fatal(err)
	}
	if count < 1 {
		t.Fatalf("backfilled %d follows", count)
	}
	if !slices.Contains(loadProfile(t, early.Account.ID).Following, admin.Account.ID) {
		t.Fatalf("early member does not follow the administrator")
	}
	if slices.Contains(loadProfile(t, admin.Account.ID).Following, admin.Account.ID) {
		t.Fatalf("administrator follows itself")
	}

	if count, err := BackfillOfficialFollows(database.C, admin.Account.ID); err != nil || count != 0 {
		t.Fatalf("second backfill = %d, %v", count, err)
	}
}
