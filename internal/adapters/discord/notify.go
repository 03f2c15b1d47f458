package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/kaydenwl/tiertest-bot/internal/domain"
)

// Notifier DMs participants who reach the head of a queue. Delivery is
// best-effort; users with DMs disabled simply miss the ping.
type Notifier struct {
	s *discordgo.Session
}

func NewNotifier(s *discordgo.Session) *Notifier { return &Notifier{s: s} }

func (n *Notifier) NotifyHead(ctx context.Context, userID string, key domain.BucketKey) error {
	ch, err := n.s.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	_, err = n.s.ChannelMessageSend(ch.ID,
		"You are now #1 in the testing queue for "+key.Label()+
			"! It's your turn to test soon. Please stay active and wait for a tester to create your testing channel.",
		discordgo.WithContext(ctx))
	return err
}
