package aurakit

import (
	"testing"
	"time"
)

func TestNoticeAutoDismiss(t *testing.T) {
	notices := NewNotifier()
	if notices.TTL != 3*time.Second {
		t.Fatalf("default ttl = %s", notices.TTL)
	}
	notices.TTL = 30 * time.Millisecond

	notices.Show(NoticeHearted)
	if notices.Current() != NoticeHearted {
		t.Fatalf("current = %q", notices.Current())
	}

	time.Sleep(100 * time.Millisecond)
	if notices.Current() != "" {
		t.Fatalf("notice did not dismiss itself")
	}
}

func TestNoticeReplacement(t *testing.T) {
	notices := NewNotifier()
	notices.TTL = 80 * time.Millisecond

	notices.Show(NoticeHearted)
	time.Sleep(50 * time.Millisecond)
	notices.Show(NoticeUnhearted)
	time.Sleep(50 * time.Millisecond)

	// The first timer fired by now but must not clear the newer notice.
	if notices.Current() != NoticeUnhearted {
		t.Fatalf("current = %q", notices.Current())
	}
}
