package chat

import "time"

// Senders recognised in a transcript. The widget only ever produces these
// two; anything else is rejected at the service boundary.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Message is a single turn in a conversation transcript.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Sender         string    `json:"sender"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"createdAt"`
}
