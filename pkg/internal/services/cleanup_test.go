package services

import (
	"testing"
	"time"

	"git.solsynth.dev/hypernet/auraheart/pkg/internal/database"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
)

func TestDoAutoDatabaseCleanup(t *testing.T) {
	member := newMember(t)
	expired := models.Session{AccountID: member.Account.ID, ExpiredAt: time.Now().Add(-time.Minute)}
	if err := database.C.Create(&expired).Error; err != nil {
		t.Fatal(err)
	}

	idle := models.Account{
		BaseModel:   models.BaseModel{CreatedAt: time.Now().Add(-30 * 24 * time.Hour)},
		IsAnonymous: true,
	}
	if err := database.C.Create(&idle).Error; err != nil {
		t.Fatal(err)
	}

	DoAutoDatabaseCleanup()

	var count int64
	database.C.Model(&models.Session{}).Where("id = ?", expired.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expired session survived cleanup")
	}
	database.C.Model(&models.Account{}).Where("id = ?", idle.ID).Count(&count)
	if count != 0 {
		t.Fatalf("idle anonymous account survived cleanup")
	}
	database.C.Model(&models.Session{}).Where("account_id = ?", member.Account.ID).Count(&count)
	if count == 0 {
		t.Fatalf("live session got cleaned up")
	}
}
