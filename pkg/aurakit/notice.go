package aurakit

import (
	"sync"
	"time"
)

const DefaultNoticeTTL = 3 * time.Second

const (
	NoticeLoginToHeart  = "Faz login para curtir!"
	NoticeHearted       = "Inspirado!"
	NoticeUnhearted     = "Removido"
	NoticeFollowLocked  = "Não podes deixar de seguir o canal oficial"
	NoticeFollowed      = "A seguir agora!"
	NoticeUnfollowed    = "Deixaste de seguir"
	NoticePinPublished  = "Pin publicado com sucesso!"
	NoticePulsePosted   = "Pulse enviado!"
	NoticeContentDelete = "Conteúdo removido."
	NoticeLoginFailed   = "Falha no login. Verifica os dados."
)

// Notifier holds the single transient notice on screen. A new notice
// replaces the current one and every notice dismisses itself after TTL.
type Notifier struct {
	TTL time.Duration

	mu       sync.Mutex
	text     string
	serial   uint64
	timer    *time.Timer
	onChange func(text string)
}

func NewNotifier() *Notifier {
	return &Notifier{TTL: DefaultNoticeTTL}
}

func (v *Notifier) OnChange(fn func(text string)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onChange = fn
}

func (v *Notifier) Show(text string) {
	v.mu.Lock()
	v.serial++
	serial := v.serial
	v.text = text
	if v.timer != nil {
		v.timer.Stop()
	}
	v.timer = time.AfterFunc(v.TTL, func() {
		v.expire(serial)
	})
	fn := v.onChange
	v.mu.Unlock()

	if fn != nil {
		fn(text)
	}
}

func (v *Notifier) expire(serial uint64) {
	v.mu.Lock()
	if v.serial != serial {
		v.mu.Unlock()
		return
	}
	v.text = ""
	fn := v.onChange
	v.mu.Unlock()

	if fn != nil {
		fn("")
	}
}

// Current is the notice on screen, empty when there is none.
func (v *Notifier) Current() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.text
}
