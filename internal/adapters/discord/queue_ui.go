package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/kaydenwl/tiertest-bot/internal/app/service"
	"github.com/kaydenwl/tiertest-bot/internal/domain"
)

const (
	playerSlots  = 10
	testerSlots  = 3
	refreshMax   = 5 * time.Second
	embedColor   = 0x36393F
	lastSessionF = "Monday, Jan 2 2006 15:04 MST"
)

// queueEmbed renders the fixed slot layout: ten numbered player lines and
// three tester lines, blanks kept so the embed never changes shape.
func queueEmbed(st *domain.GuildSettings, roster service.Roster) *discordgo.MessageEmbed {
	b := roster.Bucket
	label := b.Key.Label()

	var players strings.Builder
	for i := 0; i < playerSlots; i++ {
		if i < len(roster.Entries) {
			e := roster.Entries[i]
			fmt.Fprintf(&players, "%d. <@%s> (%s)\n", i+1, e.UserID, e.Label)
		} else {
			fmt.Fprintf(&players, "%d.\n", i+1)
		}
	}

	var testers strings.Builder
	for i := 0; i < testerSlots; i++ {
		if i < len(b.Testers) {
			fmt.Fprintf(&testers, "%d. <@%s>\n", i+1, b.Testers[i])
		} else {
			fmt.Fprintf(&testers, "%d.\n", i+1)
		}
	}

	embed := &discordgo.MessageEmbed{
		Color:       embedColor,
		Title:       "Testing Queue - " + label,
		Description: "Please use the command /join to join the " + label + " queue",
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Players:", Value: players.String()},
			{Name: "Testers", Value: testers.String()},
		},
	}
	if st.ServerIcon != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: st.ServerIcon}
	}
	return embed
}

func closedQueueEmbed(st *domain.GuildSettings, b domain.Bucket) *discordgo.MessageEmbed {
	label := b.Key.Label()
	last := "No previous session"
	if b.LastSession != nil {
		last = b.LastSession.Format(lastSessionF)
	}
	embed := &discordgo.MessageEmbed{
		Color: embedColor,
		Title: "Testing Queue - " + label,
		Description: "No Testers Online in " + label +
			"\n\nNo testers are available at this time.\nYou will be pinged when a tester is available.\nCheck back later!",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Last testing session:", Value: last},
		},
	}
	if st.ServerIcon != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: st.ServerIcon}
	}
	return embed
}

func queueButtons() discordgo.MessageComponent {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{Style: discordgo.SuccessButton, Label: "Join", CustomID: "join_queue"},
			discordgo.Button{Style: discordgo.DangerButton, Label: "Leave", CustomID: "leave_queue"},
		},
	}
}

// publishQueueUI posts a fresh tracked queue message in the bucket's channel,
// deleting the previous one, and records the new message ref.
func (r *Router) publishQueueUI(ctx context.Context, st *domain.GuildSettings, key domain.BucketKey, channelID string) error {
	r.deleteTrackedMessage(key)

	roster, err := r.queue.Roster(ctx, key)
	if err != nil {
		return err
	}
	msg, err := r.s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:         "@everyone",
		AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeEveryone}},
		Embeds:          []*discordgo.MessageEmbed{queueEmbed(st, roster)},
		Components:      []discordgo.MessageComponent{queueButtons()},
	})
	if err != nil {
		return err
	}
	r.queue.SetMessageRef(key, channelID, msg.ID)
	return nil
}

// refreshQueueUI re-renders the tracked message after a mutation. Runs in a
// goroutine with its own deadline; failures only leave the embed stale.
func (r *Router) refreshQueueUI(key domain.BucketKey) {
	ctx, cancel := context.WithTimeout(context.Background(), refreshMax)
	defer cancel()

	b := r.queue.Bucket(key)
	if b.MessageID == "" || b.ChannelID == "" {
		return
	}
	st, err := r.settings.Get(ctx, key.GuildID)
	if err != nil {
		log.Printf("[ui] refresh %s settings: %v", key, err)
		return
	}
	roster, err := r.queue.Roster(ctx, key)
	if err != nil {
		log.Printf("[ui] refresh %s roster: %v", key, err)
		return
	}
	embeds := []*discordgo.MessageEmbed{queueEmbed(st, roster)}
	comps := []discordgo.MessageComponent{queueButtons()}
	if _, err := r.s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    b.ChannelID,
		ID:         b.MessageID,
		Embeds:     &embeds,
		Components: &comps,
	}); err != nil {
		log.Printf("[ui] refresh %s edit: %v", key, err)
	}
}

func (r *Router) deleteTrackedMessage(key domain.BucketKey) {
	b := r.queue.Bucket(key)
	if b.MessageID == "" || b.ChannelID == "" {
		return
	}
	if err := r.s.ChannelMessageDelete(b.ChannelID, b.MessageID); err != nil {
		log.Printf("[ui] delete tracked message %s: %v", key, err)
	}
}
