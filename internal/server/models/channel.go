package models

import "time"

// Channel is a chat channel created by an admin account.
type Channel struct {
	ID        int64
	CreatorID string
	Name      string
	CreatedAt time.Time
}

// Message is a single chat message within a channel.
type Message struct {
	ID        int64
	ChannelID int64
	Username  string
	UserEmail string
	Message   string
	CreatedAt time.Time
}
