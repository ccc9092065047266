package services

import (
	"fmt"
	"strings"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/database"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/realtime"
	"github.com/samber/lo"
)

// ConversationWindow is how many of the latest messages a conversation shows.
const ConversationWindow = 50

func EnsureParticipant(actor *Actor, key string) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	a, b, err := aurakitm.ConversationParticipants(key)
	if err != nil {
		return err
	}
	if actor.Account.ID != a && actor.Account.ID != b {
		return ErrNotParticipant
	}
	return nil
}

func SendMessage(actor *Actor, key, text string) (models.Message, error) {
	if err := EnsureWritable(actor); err != nil {
		return models.Message{}, err
	}
	if err := EnsureParticipant(actor, key); err != nil {
		return models.Message{}, err
	}
	if len(strings.TrimSpace(text)) == 0 {
		return models.Message{}, ErrEmptyContent
	}

	message := models.Message{
		ConversationKey: key,
		AccountID:       actor.Account.ID,
		Text:            text,
	}
	if err := database.C.Create(&message).Error; err != nil {
		return message, fmt.Errorf("unable to send message: %v", err)
	}
	realtime.Notify(aurakitm.ConversationTopic(key))

	return message, nil
}

// ListConversationWindow returns the latest messages of a conversation,
// oldest first.
func ListConversationWindow(key string, size int) ([]models.Message, error) {
	var messages []models.Message
	if err := database.C.
		Where("conversation_key = ?", key).
		Order("created_at DESC").
		Limit(size).
		Find(&messages).Error; err != nil {
		return messages, err
	}
	return lo.Reverse(messages), nil
}

func MessageDocument(v models.Message) aurakitm.Message {
	return aurakitm.Message{
		ID:              v.ID,
		ConversationKey: v.ConversationKey,
		AccountID:       v.AccountID,
		Text:            v.Text,
		CreatedAt:       v.CreatedAt,
	}
}
