package models

import "time"

type Account struct {
	BaseModel

	Email        *string `json:"email" gorm:"uniqueIndex;size:320"`
	PasswordHash string  `json:"-"`
	IsAnonymous  bool    `json:"is_anonymous"`
}

type Session struct {
	BaseModel

	AccountID string    `json:"account_id" gorm:"index;size:64"`
	ExpiredAt time.Time `json:"expired_at" gorm:"index"`
}
