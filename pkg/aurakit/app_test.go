package aurakit_test

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/auraheart/pkg/aurakit"
	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/cache"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/database"
	aurahttp "git.solsynth.dev/hypernet/auraheart/pkg/internal/http"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/realtime"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/services"
	"github.com/glebarez/sqlite"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const adminEmail = "admin@auraheart.test"

// startService runs a complete service on a loopback port.
func startService(t *testing.T) aurakit.Config {
	t.Helper()

	viper.Set("app_id", "auraheart-v2")
	viper.Set("security.jwt_secret", "test-session-secret")
	viper.Set("security.custom_token_secret", "test-custom-secret")
	viper.Set("auth.admin_email", adminEmail)
	viper.Set("content.detect_language", false)

	dir := t.TempDir()
	dsn := filepath.Join(dir, "test.db") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	var err error
	database.C, err = database.Open(sqlite.Open(dsn), "auraheart-v2", false)
	if err != nil {
		t.Fatal(err)
	}
	if err := database.RunMigration(database.C); err != nil {
		t.Fatal(err)
	}
	if err := cache.NewStore(); err != nil {
		t.Fatal(err)
	}
	realtime.H = realtime.NewHub(nil)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	server := aurahttp.NewServer()
	go func() { _ = server.Fiber().Listener(listener) }()
	t.Cleanup(func() { _ = server.Shutdown() })

	return aurakit.Config{
		Endpoint: "http://" + listener.Addr().String(),
		AppID:    "auraheart-v2",
	}
}

// countRows counts the records the guarded actions write.
func countRows(t *testing.T) [4]int64 {
	t.Helper()
	var counts [4]int64
	for idx, model := range []any{&models.Follow{}, &models.Pin{}, &models.Pulse{}, &models.Message{}} {
		if err := database.C.Model(model).Count(&counts[idx]).Error; err != nil {
			t.Fatal(err)
		}
	}
	return counts
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func newApp(t *testing.T, cfg aurakit.Config) *aurakit.App {
	t.Helper()
	app := aurakit.New(cfg)
	app.RetryPolicy = aurakit.RetryPolicy{Attempts: 3, Delay: 50 * time.Millisecond}
	t.Cleanup(app.Close)
	return app
}

func TestAppLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("starts a full service")
	}

	cfg := startService(t)
	ctx := context.Background()

	// The administrator signs in with a pre-issued token.
	adminCfg := cfg
	token, err := services.IssueCustomToken("admin-uid", adminEmail, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	adminCfg.InitialAuthToken = token
	admin := newApp(t, adminCfg)
	admin.Start(ctx)

	if admin.Router.Loading() {
		t.Fatalf("loading flag not cleared after start")
	}
	session := admin.Session.Current()
	if session == nil || session.Profile == nil || session.Profile.Role != aurakitm.RoleAdmin {
		t.Fatalf("administrator session = %+v", session)
	}
	eventually(t, "administrator profile mirrored", func() bool {
		_, ok := admin.Mirror.Profile("admin-uid")
		return ok
	})
	if !admin.OpenAdmin() || admin.Router.View() != aurakit.ViewAdmin {
		t.Fatalf("administrator cannot open the console")
	}

	// A visitor starts anonymous and cannot heart.
	member := newApp(t, cfg)
	member.Start(ctx)
	if caps := member.Capabilities(); !caps.IsAuthenticated || caps.IsMember {
		t.Fatalf("anonymous capabilities = %+v", caps)
	}
	if err := member.ToggleHeart(ctx, aurakitm.TopicPins, "whatever"); !errors.Is(err, aurakit.ErrNotAllowed) {
		t.Fatalf("anonymous heart err = %v", err)
	}
	if member.Notices.Current() != aurakit.NoticeLoginToHeart {
		t.Fatalf("notice = %q", member.Notices.Current())
	}
	if member.OpenAdmin() {
		t.Fatalf("anonymous visitor opened the console")
	}

	// Every other write is refused before reaching the service.
	before := countRows(t)
	if err := member.ToggleFollow(ctx, "admin-uid"); !errors.Is(err, aurakit.ErrNotAllowed) {
		t.Fatalf("anonymous follow err = %v", err)
	}
	if err := member.PublishPin(ctx, aurakit.PinDraft{Image: "https://example.com/a.png"}); !errors.Is(err, aurakit.ErrNotAllowed) {
		t.Fatalf("anonymous pin err = %v", err)
	}
	if err := member.PublishPulse(ctx, "oi"); !errors.Is(err, aurakit.ErrNotAllowed) {
		t.Fatalf("anonymous pulse err = %v", err)
	}
	if err := member.OpenChat("admin-uid"); err != nil {
		t.Fatal(err)
	}
	if err := member.SendMessage(ctx, "olá"); !errors.Is(err, aurakit.ErrNotAllowed) {
		t.Fatalf("anonymous message err = %v", err)
	}
	if after := countRows(t); after != before {
		t.Fatalf("rows changed from %v to %v", before, after)
	}

	// Then registers and publishes.
	if err := member.SignIn(ctx, "lia@aura.test", "errada", false); err == nil {
		t.Fatalf("unknown credentials accepted")
	}
	if member.Notices.Current() != aurakit.NoticeLoginFailed {
		t.Fatalf("notice = %q", member.Notices.Current())
	}
	if err := member.SignIn(ctx, "lia@aura.test", "segredo1", true); err != nil {
		t.Fatal(err)
	}
	me := member.Session.Current().Identity.ID

	member.Router.Navigate(aurakit.ViewUpload)
	if err := member.PublishPin(ctx, aurakit.PinDraft{
		Image: "https://example.com/p.png",
		Title: "Neblina",
		Tags:  "Estética, Vibe, Aura",
	}); err != nil {
		t.Fatal(err)
	}
	if member.Router.View() != aurakit.ViewHome || member.Notices.Current() != aurakit.NoticePinPublished {
		t.Fatalf("after publish: view %s, notice %q", member.Router.View(), member.Notices.Current())
	}

	var pin aurakitm.Pin
	eventually(t, "pin mirrored", func() bool {
		pins := member.Mirror.Pins()
		if len(pins) == 0 {
			return false
		}
		pin = pins[len(pins)-1]
		return true
	})
	if !slices.Equal(pin.Tags, []string{"Estética", "Vibe", "Aura"}) {
		t.Fatalf("tags = %v", pin.Tags)
	}

	if err := member.ToggleHeart(ctx, aurakitm.TopicPins, pin.ID); err != nil {
		t.Fatal(err)
	}
	if member.Notices.Current() != aurakit.NoticeHearted {
		t.Fatalf("notice = %q", member.Notices.Current())
	}
	eventually(t, "heart mirrored", func() bool {
		pins := member.Mirror.Pins()
		found, ok := lo.Find(pins, func(item aurakitm.Pin) bool { return item.ID == pin.ID })
		return ok && slices.Contains(found.Hearts, me)
	})

	// The official channel stays followed.
	eventually(t, "own profile mirrored", func() bool {
		profile, ok := member.Mirror.Profile(me)
		return ok && slices.Contains(profile.Following, "admin-uid")
	})
	if err := member.ToggleFollow(ctx, "admin-uid"); !errors.Is(err, aurakit.ErrFollowLocked) {
		t.Fatalf("unfollow administrator err = %v", err)
	}
	if member.Notices.Current() != aurakit.NoticeFollowLocked {
		t.Fatalf("notice = %q", member.Notices.Current())
	}
	if err := member.ToggleFollow(ctx, me); !errors.Is(err, aurakit.ErrSelfFollow) {
		t.Fatalf("self follow err = %v", err)
	}

	// Messages need an active conversation.
	if err := member.SendMessage(ctx, "olá"); err != nil {
		t.Fatalf("send without conversation = %v", err)
	}
	if err := member.OpenChat("admin-uid"); err != nil {
		t.Fatal(err)
	}
	if member.Router.View() != aurakit.ViewChat {
		t.Fatalf("view = %s", member.Router.View())
	}
	if err := member.SendMessage(ctx, "olá"); err != nil {
		t.Fatal(err)
	}
	eventually(t, "message mirrored", func() bool {
		messages := member.Conversation.Messages()
		return len(messages) == 1 && messages[0].Text == "olá"
	})

	// Administrator moderation reaches the member.
	if err := admin.DeleteContent(ctx, aurakitm.TopicPins, pin.ID); err != nil {
		t.Fatal(err)
	}
	if admin.Notices.Current() != aurakit.NoticeContentDelete {
		t.Fatalf("notice = %q", admin.Notices.Current())
	}
	eventually(t, "deletion mirrored", func() bool {
		_, ok := lo.Find(member.Mirror.Pins(), func(item aurakitm.Pin) bool { return item.ID == pin.ID })
		return !ok
	})

	// Signing out tears everything down.
	if err := member.Session.SignOut(ctx); err != nil {
		t.Fatal(err)
	}
	if member.Session.Current() != nil || member.Conversation.Active() || len(member.Mirror.Pins()) != 0 {
		t.Fatalf("state survived sign out")
	}
}
