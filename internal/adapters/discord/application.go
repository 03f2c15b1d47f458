package discord

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/kaydenwl/tiertest-bot/internal/app/service"
	"github.com/kaydenwl/tiertest-bot/internal/domain"
)

var regionLabels = map[string]string{
	"as":      "Asia",
	"eu":      "Europe",
	"na":      "North America",
	"default": "Default",
}

// handleApplication posts the public application form in the current channel.
func (r *Router) handleApplication(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	st, err := r.settings.RequireComplete(ctx, ic.GuildID)
	if err != nil {
		ReplyEphemeral(s, ic, errText(err))
		return
	}

	embed := &discordgo.MessageEmbed{
		Color: embedColor,
		Title: "Tierlist APP",
		Description: "Upon applying, you will be added to a gamemode-specific queue channel.\n" +
			"Here you will be pinged when a tester is available.\n\n" +
			"• Region should be the region of the server you wish to test on (e.g., AS, EU, NA)\n\n" +
			"• Username should be the name of the account you will be testing on\n\n" +
			"• Gamemode should be your preferred testing gamemode (if available)",
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if st.ServerIcon != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: st.ServerIcon}
	}
	row := discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{Style: discordgo.SuccessButton, Label: "Verify Account Details", CustomID: "verify_account", Emoji: &discordgo.ComponentEmoji{Name: "✅"}},
			discordgo.Button{Style: discordgo.SuccessButton, Label: "Join Waitlist", CustomID: "join_waitlist"},
		},
	}
	if _, err := s.ChannelMessageSendComplex(ic.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{row},
	}); err != nil {
		ReplyEphemeral(s, ic, "Failed to post the application form: "+err.Error())
		return
	}
	ReplyEphemeral(s, ic, "Posted the application form.")
}

func (r *Router) showVerificationModal(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: "verification_modal",
			Title:    "Account Verification",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "name", Label: "Name", Placeholder: "Enter your Minecraft username", Style: discordgo.TextInputShort, Required: true},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "kits", Label: "Kits", Placeholder: "Enter your preferred kit you want", Style: discordgo.TextInputShort, Required: true},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "server", Label: "Preferred Server", Placeholder: "Enter your minecraft server ip you prefer", Style: discordgo.TextInputShort, Required: true},
				}},
			},
		},
	})
	if err != nil {
		log.Printf("showVerificationModal error: %v", err)
	}
}

// handleJoinWaitlist starts the waitlist flow. Guilds with only the default
// queue channel skip the selection step entirely.
func (r *Router) handleJoinWaitlist(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	st, err := r.settings.RequireComplete(ctx, ic.GuildID)
	if err != nil {
		ReplyEphemeral(s, ic, errText(err))
		return
	}
	userID := ic.Member.User.ID
	if _, err := r.subs.Get(ctx, ic.GuildID, userID); err != nil {
		if errors.Is(err, domain.ErrNotVerified) {
			ReplyEphemeral(s, ic, `Please verify your account details first by clicking the "Verify Account Details" button.`)
			return
		}
		ReplyEphemeral(s, ic, errText(err))
		return
	}

	hasGamemodeQueues := false
	for _, queues := range st.GamemodeQueues {
		if len(queues) > 0 {
			hasGamemodeQueues = true
			break
		}
	}
	if len(st.RegionQueues) == 0 && !hasGamemodeQueues {
		r.joinDefaultWaitlist(ctx, s, ic, st)
		return
	}

	regionOpts := []discordgo.SelectMenuOption{}
	for _, reg := range domain.Regions {
		if st.RegionQueues[reg] != "" {
			regionOpts = append(regionOpts, discordgo.SelectMenuOption{Label: regionLabels[reg], Value: reg})
		}
	}
	regionOpts = append(regionOpts, discordgo.SelectMenuOption{Label: "Default", Value: domain.DefaultLane})

	gamemodeOpts := []discordgo.SelectMenuOption{}
	for _, choice := range gamemodeChoices {
		gm := choice.Value.(string)
		if st.Categories[gm] != "" {
			gamemodeOpts = append(gamemodeOpts, discordgo.SelectMenuOption{Label: choice.Name, Value: gm})
		}
	}
	if len(gamemodeOpts) == 0 {
		ReplyEphemeral(s, ic, "No gamemodes are configured. Please contact an administrator to set up gamemode categories using `/setup channels`.")
		return
	}

	rows := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{CustomID: "select_region", Placeholder: "Select your region", Options: regionOpts},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{CustomID: "select_gamemode", Placeholder: "Select your gamemode", Options: gamemodeOpts},
		}},
	}
	ReplyEphemeralComponents(s, ic, "Please select your region and gamemode:", rows...)
}

func (r *Router) joinDefaultWaitlist(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, st *domain.GuildSettings) {
	userID := ic.Member.User.ID
	if err := r.grantQueueVisibility(ctx, st.DefaultQueueChannel, userID); err != nil {
		log.Printf("[waitlist] grant default %s: %v", userID, err)
		ReplyEphemeral(s, ic, "The default queue channel is not accessible. Please contact an administrator to verify the configuration.")
		return
	}
	if _, err := r.subs.JoinWaitlist(ctx, ic.GuildID, userID, domain.DefaultLane, domain.DefaultLane); err != nil {
		ReplyEphemeral(s, ic, errText(err))
		return
	}
	ReplyEphemeral(s, ic, "You can now view the default queue channel: <#"+st.DefaultQueueChannel+">. You will be notified when a tester is available.")
}

// handleSelectRegion stores the pick and advances the ephemeral message to
// the gamemode step in place.
func (r *Router) handleSelectRegion(s *discordgo.Session, ic *discordgo.InteractionCreate, data discordgo.MessageComponentInteractionData) {
	if len(data.Values) == 0 {
		_ = SendEphemeral(s, ic, "Invalid selection.")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	region := data.Values[0]
	if err := r.subs.SelectRegion(ctx, ic.GuildID, ic.Member.User.ID, region); err != nil {
		_ = SendEphemeral(s, ic, errText(err))
		return
	}
	UpdateMessage(s, ic, "Region set to "+strings.ToUpper(region)+". Please select your gamemode.", ic.Message.Components)
}

// handleSelectGamemode completes the waitlist flow: records the selection,
// grants visibility into the matching queue channels and flags the record.
func (r *Router) handleSelectGamemode(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, gamemode string) {
	st, err := r.settings.RequireComplete(ctx, ic.GuildID)
	if err != nil {
		ReplyEphemeral(s, ic, errText(err))
		return
	}
	userID := ic.Member.User.ID
	if err := r.subs.SelectGamemode(ctx, ic.GuildID, userID, gamemode); err != nil {
		ReplyEphemeral(s, ic, errText(err))
		return
	}
	sub, err := r.subs.Get(ctx, ic.GuildID, userID)
	if err != nil {
		ReplyEphemeral(s, ic, errText(err))
		return
	}
	region := sub.SelectedRegion
	if region == "" {
		region = domain.DefaultLane
	}

	channels := service.GamemodeChannelsFor(st, gamemode, region)
	if len(channels) == 0 {
		ReplyEphemeral(s, ic, "No queue channels are configured for "+displayGamemode(gamemode)+" in "+strings.ToUpper(region)+
			". Please contact an administrator to configure queue channels using '/setup gamemode'.")
		return
	}

	mentions := make([]string, 0, len(channels))
	for _, chID := range channels {
		if err := r.grantQueueVisibility(ctx, chID, userID); err != nil {
			log.Printf("[waitlist] grant %s on %s: %v", userID, chID, err)
			continue
		}
		mentions = append(mentions, "<#"+chID+">")
	}
	if len(mentions) == 0 {
		ReplyEphemeral(s, ic, "No valid queue channels found for "+displayGamemode(gamemode)+" in "+strings.ToUpper(region)+
			". Please contact an administrator to configure queue channels using '/setup gamemode'.")
		return
	}

	if _, err := r.subs.JoinWaitlist(ctx, ic.GuildID, userID, region, gamemode); err != nil {
		ReplyEphemeral(s, ic, errText(err))
		return
	}
	ReplyEphemeral(s, ic, "You can now view the "+displayGamemode(gamemode)+" queue channel(s) for "+strings.ToUpper(region)+": "+
		strings.Join(mentions, ", ")+". You will be notified when a tester is available.")
}

// grantQueueVisibility lets the user see a queue channel without posting in it.
func (r *Router) grantQueueVisibility(ctx context.Context, channelID, userID string) error {
	allow := int64(discordgo.PermissionViewChannel)
	deny := int64(discordgo.PermissionSendMessages | discordgo.PermissionAddReactions |
		discordgo.PermissionCreatePublicThreads | discordgo.PermissionCreatePrivateThreads)
	return r.s.ChannelPermissionSet(channelID, userID, discordgo.PermissionOverwriteTypeMember, allow, deny, discordgo.WithContext(ctx))
}
