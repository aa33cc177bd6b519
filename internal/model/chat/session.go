package chat

import "time"

// Session captures a transient widget conversation. The identifier is
// generated once per widget mount and never persisted across reloads.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
