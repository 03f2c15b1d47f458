package domain

import "time"

// Submission is the intake record created by the verification modal. It
// survives sessions so a player can re-queue without re-verifying.
type Submission struct {
	GuildID   string
	DiscordID string
	Username  string // discord tag at submission time

	Name   string // in-game name
	Kits   string
	Server string // preferred server IP

	SubmittedAt      time.Time
	SelectedRegion   string // empty until chosen
	SelectedGamemode string
	InWaitlist       bool
	JoinedWaitlistAt *time.Time
}

// DisplayLabel is what the roster embed shows next to the mention.
func (s Submission) DisplayLabel() string {
	if s.SelectedGamemode == "" {
		return "No gamemode"
	}
	return s.SelectedGamemode
}
