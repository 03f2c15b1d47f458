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

const (
	colorOK   = 0x00FF00
	colorInfo = 0x0099FF
)

func (r *Router) handleSetup(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	sub := subcmd(ic)
	if sub == nil {
		ReplyEphemeral(s, ic, "Unknown subcommand. Please use one of: roles, channels, server, gamemode, view.")
		return
	}
	switch sub.Name {
	case "roles":
		r.setupRoles(ctx, s, ic, sub.Options)
	case "channels":
		r.setupChannels(ctx, s, ic, sub.Options)
	case "server":
		r.setupServer(ctx, s, ic, sub.Options)
	case "gamemode":
		r.setupGamemode(ctx, s, ic, sub.Options)
	case "view":
		r.viewSettings(ctx, s, ic)
	default:
		ReplyEphemeral(s, ic, "Unknown subcommand. Please use one of: roles, channels, server, gamemode, view.")
	}
}

func (r *Router) setupRoles(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	tester := optRole(opts, "tester")
	admin := optRole(opts, "admin")
	cooldown := optRole(opts, "cooldown")

	st, err := r.settings.SetRoles(ctx, ic.GuildID, tester, admin, cooldown)
	if err != nil {
		ReplyEphemeral(s, ic, "Failed to save roles: "+err.Error())
		return
	}

	embed := &discordgo.MessageEmbed{
		Color:       colorOK,
		Title:       "Role Configuration",
		Description: "Roles have been configured successfully!",
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Tester Role", Value: "<@&" + st.TesterRole + ">", Inline: true},
		},
	}
	if st.AdminRole != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Admin Role", Value: "<@&" + st.AdminRole + ">", Inline: true})
	}
	if st.CooldownRole != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Cooldown Role", Value: "<@&" + st.CooldownRole + ">", Inline: true})
	}
	ReplyEphemeral(s, ic, "", embed)
}

func (r *Router) setupChannels(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	p := service.ChannelsPatch{
		Categories:   map[string]string{},
		RegionQueues: map[string]string{},
	}
	for _, o := range opts {
		if o.Type != discordgo.ApplicationCommandOptionChannel {
			continue
		}
		id := o.Value.(string)
		switch {
		case o.Name == "category_default":
			p.DefaultCategory = id
		case o.Name == "queue_channel":
			p.DefaultQueueChannel = id
		case strings.HasPrefix(o.Name, "category_"):
			p.Categories[strings.TrimPrefix(o.Name, "category_")] = id
		case strings.HasPrefix(o.Name, "region_") && strings.HasSuffix(o.Name, "_queue"):
			p.RegionQueues[strings.TrimSuffix(strings.TrimPrefix(o.Name, "region_"), "_queue")] = id
		}
	}

	st, err := r.settings.SetChannels(ctx, ic.GuildID, p)
	if err != nil {
		ReplyEphemeral(s, ic, "Failed to save channels: "+err.Error())
		return
	}

	embed := &discordgo.MessageEmbed{
		Color:       colorOK,
		Title:       "Channel Configuration",
		Description: "Channels have been configured successfully!",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Default Testing Category", Value: "<#" + st.Categories[domain.DefaultLane] + ">", Inline: true},
			{Name: "Queue Channel", Value: "<#" + st.DefaultQueueChannel + ">", Inline: true},
		},
	}
	for _, choice := range gamemodeChoices {
		gm := choice.Value.(string)
		if id := st.Categories[gm]; id != "" {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: choice.Name + " Category", Value: "<#" + id + ">", Inline: true})
		}
	}
	for _, reg := range domain.Regions {
		if id := st.RegionQueues[reg]; id != "" {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: regionLabels[reg] + " Queue Channel", Value: "<#" + id + ">", Inline: true})
		}
	}
	ReplyEphemeral(s, ic, "", embed)
}

func (r *Router) setupServer(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	name := optStr(opts, "name")
	icon := optStr(opts, "icon")

	st, err := r.settings.SetServerInfo(ctx, ic.GuildID, name, icon)
	if errors.Is(err, service.ErrBadIconURL) {
		ReplyEphemeral(s, ic, "Please provide a direct image URL that ends with .jpg, .png, .gif, or .webp")
		return
	}
	if err != nil {
		ReplyEphemeral(s, ic, "Failed to save server info: "+err.Error())
		return
	}

	embed := &discordgo.MessageEmbed{
		Color:       colorOK,
		Title:       "Server Information",
		Description: "Server information has been configured successfully!",
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Server Name", Value: st.ServerName, Inline: true},
		},
	}
	if st.ServerIcon != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: st.ServerIcon}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Server Icon", Value: "Set (shown as thumbnail)", Inline: true})
	}
	ReplyEphemeral(s, ic, "", embed)
}

func (r *Router) setupGamemode(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	gamemode := optStr(opts, "gamemode")
	region := optStr(opts, "region")
	channelID := optChannel(opts, "channel")
	if channelID == "" {
		channelID = ic.ChannelID
	}

	added, err := r.settings.ToggleGamemodeQueue(ctx, ic.GuildID, gamemode, region, channelID)
	switch {
	case errors.Is(err, service.ErrNoGamemodeCategory):
		ReplyEphemeral(s, ic, "No category is configured for "+displayGamemode(gamemode)+". Please configure it using `/setup channels` first.")
		return
	case errors.Is(err, service.ErrUnknownGamemode), errors.Is(err, service.ErrUnknownRegion):
		ReplyEphemeral(s, ic, err.Error())
		return
	case err != nil:
		ReplyEphemeral(s, ic, "Failed to update gamemode queues: "+err.Error())
		return
	}

	action := "removed"
	if added {
		action = "added"
	}
	ReplyEphemeral(s, ic, "", &discordgo.MessageEmbed{
		Color: colorOK,
		Title: "Gamemode Queue Configuration",
		Description: "Channel <#" + channelID + "> has been " + action + " as a queue channel for " +
			displayGamemode(gamemode) + " in " + strings.ToUpper(region) + ".",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (r *Router) viewSettings(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	st, err := r.settings.Get(ctx, ic.GuildID)
	if err != nil {
		ReplyEphemeral(s, ic, "Failed to load settings: "+err.Error())
		return
	}

	embed := &discordgo.MessageEmbed{
		Color:       colorInfo,
		Title:       "Current Bot Configuration",
		Description: "Here are the current settings for your server:",
		Timestamp:   time.Now().Format(time.RFC3339),
	}

	roles := "Not configured"
	if st.TesterRole != "" {
		roles = "Tester: <@&" + st.TesterRole + ">"
		if st.AdminRole != "" {
			roles += "\nAdmin: <@&" + st.AdminRole + ">"
		}
		if st.CooldownRole != "" {
			roles += "\nCooldown: <@&" + st.CooldownRole + ">"
		}
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Roles", Value: roles})

	channels := "Not configured"
	if st.Categories[domain.DefaultLane] != "" {
		var b strings.Builder
		b.WriteString("Default Category: <#" + st.Categories[domain.DefaultLane] + ">")
		for _, choice := range gamemodeChoices {
			gm := choice.Value.(string)
			if id := st.Categories[gm]; id != "" {
				b.WriteString("\n" + choice.Name + " Category: <#" + id + ">")
			}
		}
		if st.DefaultQueueChannel != "" {
			b.WriteString("\nDefault Queue Channel: <#" + st.DefaultQueueChannel + ">")
		}
		for _, reg := range domain.Regions {
			if id := st.RegionQueues[reg]; id != "" {
				b.WriteString("\n" + regionLabels[reg] + " Queue Channel: <#" + id + ">")
			}
		}
		for _, gm := range domain.Gamemodes {
			queues := st.GamemodeQueues[gm]
			if len(queues) == 0 {
				continue
			}
			refs := make([]string, 0, len(queues))
			for _, q := range queues {
				refs = append(refs, "<#"+q.ChannelID+"> ("+strings.ToUpper(q.Region)+")")
			}
			b.WriteString("\n" + displayGamemode(gm) + " Queue Channels: " + strings.Join(refs, ", "))
		}
		channels = b.String()
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Channels", Value: channels})

	server := "Not configured"
	if st.ServerName != "" {
		server = "Name: " + st.ServerName
		if st.ServerIcon != "" {
			server += "\nIcon: Set"
			embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: st.ServerIcon}
		}
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Server Info", Value: server})

	if missing := st.MissingSetup(); len(missing) > 0 {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Setup Status", Value: "❌ Incomplete"},
			&discordgo.MessageEmbedField{Name: "Next Steps", Value: "To complete setup, configure the following:\n- " + strings.Join(missing, "\n- ")},
		)
	} else {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Setup Status", Value: "✅ Complete"})
	}

	row := discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{Style: discordgo.DangerButton, Label: "Reset All Settings", CustomID: "reset_settings"},
		},
	}
	if _, err := s.FollowupMessageCreate(ic.Interaction, true, &discordgo.WebhookParams{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{row},
	}); err != nil {
		log.Printf("viewSettings reply: %v", err)
	}
}
