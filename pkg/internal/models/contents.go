package models

import (
	"time"

	"gorm.io/datatypes"
)

type Pin struct {
	BaseModel

	AccountID   string                      `json:"account_id" gorm:"index;size:64"`
	Image       string                      `json:"image"`
	Title       string                      `json:"title"`
	Description string                      `json:"description"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	Language    string                      `json:"language"`

	Hearts []string `json:"hearts" gorm:"-"`
}

type Pulse struct {
	BaseModel

	AccountID string `json:"account_id" gorm:"index;size:64"`
	Content   string `json:"content"`
	Language  string `json:"language"`

	Hearts []string `json:"hearts" gorm:"-"`
}

const (
	HeartTargetPin   = "pins"
	HeartTargetPulse = "pulses"
)

// Heart marks that an account hearted a pin or a pulse. The existence of the
// row is the whole state.
type Heart struct {
	TargetType string    `json:"target_type" gorm:"primaryKey;size:16"`
	TargetID   string    `json:"target_id" gorm:"primaryKey;size:64"`
	AccountID  string    `json:"account_id" gorm:"primaryKey;size:64;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

type Message struct {
	BaseModel

	ConversationKey string `json:"conversation_key" gorm:"index;size:160"`
	AccountID       string `json:"account_id" gorm:"index;size:64"`
	Text            string `json:"text"`
}

const (
	ReportStatusPending = "pending"
)

type Report struct {
	BaseModel

	AccountID  string `json:"account_id" gorm:"index;size:64"`
	TargetType string `json:"target_type" gorm:"size:16"`
	TargetID   string `json:"target_id" gorm:"index;size:64"`
	Reason     string `json:"reason"`
	Status     string `json:"status" gorm:"size:16"`
}
