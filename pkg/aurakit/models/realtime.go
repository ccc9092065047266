package models

import (
	"encoding/json"
	"strings"
)

const (
	TopicProfiles = "profiles"
	TopicPins     = "pins"
	TopicPulses   = "pulses"
	TopicReports  = "reports"

	conversationTopicPrefix = "conversations/"
)

func ConversationTopic(key string) string {
	return conversationTopicPrefix + key
}

// ParseConversationTopic returns the conversation key of a conversation topic.
func ParseConversationTopic(topic string) (string, bool) {
	return strings.CutPrefix(topic, conversationTopicPrefix)
}

const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
)

// Command is sent by a client over the realtime connection.
type Command struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
}

const (
	FrameSnapshot = "snapshot"
	FrameError    = "error"
)

// Frame is pushed by the service. A snapshot frame always carries the whole
// topic content, never a delta.
type Frame struct {
	Type  string          `json:"type"`
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}
