package models

import (
	"fmt"
	"sort"
	"strings"
)

const ConversationKeySeparator = "_"

// ConversationKey names the message partition shared by two participants.
// The keys are sorted first so both sides resolve the same partition.
func ConversationKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, ConversationKeySeparator)
}

// ConversationParticipants splits a conversation key back into its two keys.
// Only the sorted form is a valid key, the reversed pair names no partition.
func ConversationParticipants(key string) (string, string, error) {
	a, b, ok := strings.Cut(key, ConversationKeySeparator)
	if !ok || len(a) == 0 || len(b) == 0 || strings.Contains(b, ConversationKeySeparator) {
		return "", "", fmt.Errorf("invalid conversation key: %q", key)
	}
	if key != ConversationKey(a, b) {
		return "", "", fmt.Errorf("conversation key is not canonical: %q", key)
	}
	return a, b, nil
}
