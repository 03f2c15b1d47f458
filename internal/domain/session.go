package domain

import "time"

// SessionRecord is the audit row written when a testing channel is spawned.
type SessionRecord struct {
	ID        string // uuid
	GuildID   string
	Region    string
	Gamemode  string
	PlayerID  string
	TesterID  string
	ChannelID string
	CreatedAt time.Time
}
