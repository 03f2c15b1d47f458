package discord

import (
	"context"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/kaydenwl/tiertest-bot/internal/domain"
)

const closeTicketDelay = 10 * time.Second

var reChannelName = regexp.MustCompile(`[^a-z0-9]+`)

// TicketFactory creates the private testing channels. It implements the
// session transport port; the queue removal has already committed when it
// runs, so a failure here never corrupts queue state.
type TicketFactory struct {
	s *discordgo.Session
}

func NewTicketFactory(s *discordgo.Session) *TicketFactory { return &TicketFactory{s: s} }

func (f *TicketFactory) CreateTicketChannel(ctx context.Context, st *domain.GuildSettings, key domain.BucketKey, userID string, sub *domain.Submission) (string, error) {
	name := userID
	if sub != nil && sub.Name != "" {
		name = sub.Name
	} else if u, err := f.s.User(userID, discordgo.WithContext(ctx)); err == nil {
		name = u.Username
	}

	viewPerms := int64(discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory)
	ch, err := f.s.GuildChannelCreateComplex(key.GuildID, discordgo.GuildChannelCreateData{
		Name:     ticketChannelName(name, key),
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: st.TicketCategory(key.Gamemode),
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{ID: key.GuildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
			{ID: userID, Type: discordgo.PermissionOverwriteTypeMember, Allow: viewPerms},
			{ID: st.TesterRole, Type: discordgo.PermissionOverwriteTypeRole, Allow: viewPerms},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}

	if _, err := f.s.ChannelMessageSendComplex(ch.ID, &discordgo.MessageSend{
		Content: ticketIntro(st, userID, sub),
		Components: []discordgo.MessageComponent{discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Style: discordgo.DangerButton, Label: "Close Ticket", CustomID: "close_ticket"},
			},
		}},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers, discordgo.AllowedMentionTypeRoles},
		},
	}, discordgo.WithContext(ctx)); err != nil {
		// channel exists, intro failed: keep the channel, the ticket is usable
		log.Printf("[ticket] intro message %s: %v", ch.ID, err)
	}
	return ch.ID, nil
}

func ticketChannelName(name string, key domain.BucketKey) string {
	clean := reChannelName.ReplaceAllString(strings.ToLower(name), "-")
	return "testing-" + strings.Trim(clean, "-") + "-" + key.Gamemode + "-" + key.Region
}

func ticketIntro(st *domain.GuildSettings, userID string, sub *domain.Submission) string {
	name, kits, server := "Not specified", "Not specified", "Not specified"
	if sub != nil {
		if sub.Name != "" {
			name = sub.Name
		}
		if sub.Kits != "" {
			kits = sub.Kits
		}
		if sub.Server != "" {
			server = sub.Server
		}
	}
	return "<@&" + st.TesterRole + "> <@" + userID + "> Testing channel created.\n\n" +
		"**Name:**\n```" + name + "```\n" +
		"**Kits:**\n```" + kits + "```\n" +
		"**Preferred Server:**\n```" + server + "```"
}

// scheduleChannelDelete removes a ticket channel after the announced delay.
func (r *Router) scheduleChannelDelete(channelID string) {
	time.AfterFunc(closeTicketDelay, func() {
		if _, err := r.s.ChannelDelete(channelID); err != nil {
			log.Printf("[ticket] delete channel %s: %v", channelID, err)
		}
	})
}
