package types

import (
	"bytes"
	"encoding/json"
)

// ConversationList is the result of listing conversations. The endpoint has
// returned both a bare array and an object with a total; both decode here.
type ConversationList struct {
	Conversations []Conversation `json:"conversations"`
	Total         int            `json:"total"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *ConversationList) UnmarshalJSON(data []byte) error {
	*l = ConversationList{}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		if err := json.Unmarshal(data, &l.Conversations); err != nil {
			return err
		}
		l.Total = len(l.Conversations)
		return nil
	}

	var wire struct {
		Conversations []Conversation `json:"conversations"`
		Data          []Conversation `json:"data"`
		Items         []Conversation `json:"items"`
		Total         *int           `json:"total"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch {
	case wire.Conversations != nil:
		l.Conversations = wire.Conversations
	case wire.Data != nil:
		l.Conversations = wire.Data
	default:
		l.Conversations = wire.Items
	}
	l.Total = len(l.Conversations)
	if wire.Total != nil {
		l.Total = *wire.Total
	}
	return nil
}
