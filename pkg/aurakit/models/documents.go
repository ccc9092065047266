package models

import "time"

type Identity struct {
	ID          string `json:"id"`
	IsAnonymous bool   `json:"is_anonymous"`
	Email       string `json:"email,omitempty"`
}

type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Bio       string    `json:"bio"`
	PhotoURL  string    `json:"photo_url"`
	CoverURL  string    `json:"cover_url"`
	Role      string    `json:"role"`
	Badges    []string  `json:"badges"`
	Interests []string  `json:"interests"`
	Followers []string  `json:"followers"`
	Following []string  `json:"following"`
	IsBanned  bool      `json:"is_banned"`
	CreatedAt time.Time `json:"created_at"`
}

type Pin struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	Image       string    `json:"image"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Language    string    `json:"language"`
	Hearts      []string  `json:"hearts"`
	CreatedAt   time.Time `json:"created_at"`
}

type Pulse struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	Hearts    []string  `json:"hearts"`
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	ID              string    `json:"id"`
	ConversationKey string    `json:"conversation_key"`
	AccountID       string    `json:"account_id"`
	Text            string    `json:"text"`
	CreatedAt       time.Time `json:"created_at"`
}

type Report struct {
	ID         string    `json:"id"`
	AccountID  string    `json:"account_id"`
	TargetType string    `json:"target_type"`
	TargetID   string    `json:"target_id"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Session is what the service answers to every sign-in and session query.
type Session struct {
	Token        string       `json:"token,omitempty"`
	Identity     Identity     `json:"identity"`
	Profile      *Profile     `json:"profile"`
	Capabilities Capabilities `json:"capabilities"`
}

// ToggleResult answers heart and follow toggles with the state after the write.
type ToggleResult struct {
	Active bool `json:"active"`
}
