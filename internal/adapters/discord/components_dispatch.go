package discord

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/kaydenwl/tiertest-bot/internal/domain"
)

func (r *Router) handleMessageComponent(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	data := ic.MessageComponentData()

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("panic in component %s: %v", data.CustomID, rec)
			ReplyEphemeral(s, ic, "An unexpected error occurred. Please try again.")
		}
	}()

	// these answer with something other than a deferred reply
	switch data.CustomID {
	case "verify_account":
		r.showVerificationModal(s, ic)
		return
	case "select_region":
		r.handleSelectRegion(s, ic, data)
		return
	}
	if key, ok := strings.CutPrefix(data.CustomID, "guide_"); ok {
		r.handleGuideButton(s, ic, key)
		return
	}

	_ = DeferEphemeral(s, ic)
	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()

	switch data.CustomID {
	case "join_waitlist":
		r.handleJoinWaitlist(ctx, s, ic)

	case "select_gamemode":
		if len(data.Values) == 0 {
			ReplyEphemeral(s, ic, "Invalid selection.")
			return
		}
		r.handleSelectGamemode(ctx, s, ic, data.Values[0])

	case "join_queue":
		if !r.clickLimiter.Allow(ic.Member.User.ID) {
			ReplyEphemeral(s, ic, "Please wait a moment before clicking again.")
			return
		}
		r.handleJoin(ctx, s, ic)

	case "leave_queue":
		if !r.clickLimiter.Allow(ic.Member.User.ID) {
			ReplyEphemeral(s, ic, "Please wait a moment before clicking again.")
			return
		}
		r.handleLeave(ctx, s, ic)

	case "select_user":
		if len(data.Values) == 0 {
			ReplyEphemeral(s, ic, "Invalid selection.")
			return
		}
		r.handleSelectUser(ctx, s, ic, data.Values[0])

	case "close_ticket":
		st, err := r.settings.RequireComplete(ctx, ic.GuildID)
		if err != nil {
			ReplyEphemeral(s, ic, errText(err))
			return
		}
		if !memberHasRole(ic.Member, st.TesterRole) {
			ReplyEphemeral(s, ic, "Only testers can close this channel.")
			return
		}
		ReplyEphemeral(s, ic, "Closing this testing channel in 10 seconds...")
		r.scheduleChannelDelete(ic.ChannelID)

	case "reset_settings":
		if !r.requireAdmin(ctx, s, ic) {
			return
		}
		name, icon := r.guildIdentity(ic.GuildID)
		if _, err := r.settings.Reset(ctx, ic.GuildID, name, icon); err != nil {
			ReplyEphemeral(s, ic, "Failed to reset settings: "+err.Error())
			return
		}
		ReplyEphemeral(s, ic, "All settings have been reset to default. Use `/setup` commands to reconfigure the bot.")
	}
}

// handleSelectUser pulls the chosen participant out of the queue and spins
// up their testing channel.
func (r *Router) handleSelectUser(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, userID string) {
	st, key, err := r.resolveQueueChannel(ctx, ic)
	if err != nil {
		ReplyEphemeral(s, ic, errText(err))
		return
	}
	if !memberHasRole(ic.Member, st.TesterRole) {
		ReplyEphemeral(s, ic, "You need the Tester role to use this menu.")
		return
	}

	channelID, err := r.sessions.CreateSession(ctx, key, userID, ic.Member.User.ID)
	if errors.Is(err, domain.ErrNotPresent) {
		ReplyEphemeral(s, ic, "That user is no longer in the queue.")
		go r.refreshQueueUI(key)
		return
	}
	if err != nil {
		log.Printf("[session] create %s player=%s: %v", key, userID, err)
		ReplyEphemeral(s, ic, "There was an error creating the channel. Please try again later.")
		go r.refreshQueueUI(key)
		return
	}
	ReplyEphemeral(s, ic, "Created channel <#"+channelID+"> for <@"+userID+"> in "+key.Label()+". They have been removed from the queue.")
	go r.refreshQueueUI(key)
}

func (r *Router) handleModalSubmit(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	data := ic.ModalSubmitData()
	if data.CustomID != "verification_modal" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := r.subs.Verify(ctx, ic.GuildID, ic.Member.User.ID, ic.Member.User.String(),
		modalValue(data, "name"), modalValue(data, "kits"), modalValue(data, "server"))
	if err != nil {
		log.Printf("[verify] %s: %v", ic.Member.User.ID, err)
		_ = SendEphemeral(s, ic, "Failed to save your details. Please try again.")
		return
	}
	_ = SendEphemeral(s, ic, "Your account details have been verified.")
}

func modalValue(data discordgo.ModalSubmitInteractionData, id string) string {
	for _, c := range data.Components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, rc := range row.Components {
			if in, ok := rc.(*discordgo.TextInput); ok && in.CustomID == id {
				return in.Value
			}
		}
	}
	return ""
}

// guildIdentity pulls the live display name and icon, used when settings are
// created or reset.
func (r *Router) guildIdentity(guildID string) (name, icon string) {
	g, err := r.s.State.Guild(guildID)
	if err != nil || g == nil {
		g, err = r.s.Guild(guildID)
		if err != nil || g == nil {
			return "", ""
		}
	}
	return g.Name, g.IconURL("")
}
