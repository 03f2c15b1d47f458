package discord

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

type guideSection struct {
	id      string
	label   string
	content string
}

var guideSections = []guideSection{
	{
		id:    "what_bot_does",
		label: "📋 What the Bot Does",
		content: "As an admin, you'll use this bot to:\n\n" +
			"* **Set up the server**: Configure roles, channels, and gamemodes so players can join testing queues.\n" +
			"* **Send the queue form**: Use /application to let players apply and join the queue.\n" +
			"* **Manage the queue**: Open or close the queue, view who's waiting, and create tickets with players using /queue.\n" +
			"* **Support gamemodes**: Let players test in modes like Crystal PvP, Pot, UHC, and more, with optional region-specific queues (Asia, Europe, North America).",
	},
	{
		id:    "setup_roles",
		label: "🛠️ Setup Roles",
		content: "Run /setup roles:\n" +
			"- **Tester Role** (required): people who test others\n" +
			"- **Admin Role** (optional): bot managers\n" +
			"- **Cooldown Role** (optional): players temporarily blocked from queue\n\n" +
			"The bot saves your selections and confirms with an embed.",
	},
	{
		id:    "setup_channels",
		label: "🛠️ Setup Channels",
		content: "Run /setup channels:\n" +
			"- **Default Category** (required): where tickets will be created\n" +
			"- **Queue Channel** (required): where players queue\n" +
			"- **Gamemode Categories** (optional): like category_crystal_pvp, category_pot\n" +
			"- **Region Queues** (optional): like region_as_queue, region_eu_queue\n\n" +
			"After saving, the bot confirms and shows a summary.",
	},
	{
		id:    "setup_server",
		label: "🛠️ Setup Server Info",
		content: "Run /setup server:\n" +
			"- Set your server name\n" +
			"- (Optional) Add a logo URL (ending in .jpg, .png, .webp, .gif)\n\n" +
			"The bot will use this info to customize embeds and queue messages.",
	},
	{
		id:    "setup_gamemode",
		label: "🛠️ Setup Gamemodes",
		content: "Run /setup gamemode:\n" +
			"- Select gamemode (e.g. Crystal PvP)\n" +
			"- Select region (Asia, EU, NA, Default)\n" +
			"- Choose a queue channel (or it uses the current one)\n\n" +
			"Make sure to configure gamemode categories using /setup channels first!",
	},
	{
		id:    "setup_view",
		label: "🛠️ View/Reset Setup",
		content: "Run /setup view to check your current setup.\n" +
			"- Shows roles, channels, gamemodes, server name/icon\n" +
			"- If anything is missing, it will list what's incomplete\n\n" +
			"You can also click the red **Reset All Settings** button to wipe everything and start over.",
	},
	{
		id:    "application",
		label: "📨 Application Form",
		content: "Run /application in a text channel to send the queue application embed:\n" +
			"- ✅ Verify Account Details → players submit IGN, kit, and server IP\n" +
			"- 📥 Join Waitlist → joins appropriate queue\n\n" +
			"If no gamemodes are set up, players will skip selection and join the **default queue**.",
	},
	{
		id:    "queue_open_close",
		label: "📋 Open/Close Queue",
		content: "Run /openqueue in a queue channel:\n" +
			"- Deletes any existing queue message\n" +
			"- Posts a new embed with Join/Leave buttons\n\n" +
			"Run /closequeue in the same channel:\n" +
			"- Deletes the queue message\n" +
			"- Sends a \"Queue Closed\" embed\n" +
			"- Clears the internal queue list",
	},
	{
		id:    "queue_view_ticket",
		label: "📋 View Queue + Create Ticket",
		content: "Run /queue in an open queue channel:\n" +
			"- If you're a **tester**, you get a dropdown of users → selecting creates a ticket channel\n" +
			"- If you're a **player**, you join the queue (or see your cooldown)\n\n" +
			"Tickets are created in the correct category with the tester + player added.\n" +
			"The user is removed from the queue automatically.",
	},
	{
		id:    "ticket",
		label: "🎫 Ticket Behavior",
		content: "When a ticket is created:\n" +
			"- A private channel is created (e.g. #testing-user)\n" +
			"- Player + testers have access\n" +
			"- Includes a red \"Close Ticket\" button\n" +
			"- Optionally use /closeticket to remove early\n\n" +
			"Auto-deletes the channel after closing.",
	},
}

func (r *Router) handleHelp(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	rows := []discordgo.MessageComponent{}
	row := discordgo.ActionsRow{}
	for _, sec := range guideSections {
		if len(row.Components) == 5 {
			rows = append(rows, row)
			row = discordgo.ActionsRow{}
		}
		row.Components = append(row.Components, discordgo.Button{
			Style:    discordgo.PrimaryButton,
			Label:    sec.label,
			CustomID: "guide_" + sec.id,
		})
	}
	if len(row.Components) > 0 {
		rows = append(rows, row)
	}

	embed := &discordgo.MessageEmbed{
		Color:       colorInfo,
		Title:       "📘 Minecraft Testing Bot – Admin Guide",
		Description: "Click a button below to view part of the guide. Each message is ephemeral.",
	}
	if _, err := s.FollowupMessageCreate(ic.Interaction, true, &discordgo.WebhookParams{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: rows,
	}); err != nil {
		log.Printf("handleHelp reply: %v", err)
	}
}

func (r *Router) handleGuideButton(s *discordgo.Session, ic *discordgo.InteractionCreate, id string) {
	for _, sec := range guideSections {
		if sec.id != id {
			continue
		}
		err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{{Color: colorInfo, Title: sec.label, Description: sec.content}},
				Flags:  discordgo.MessageFlagsEphemeral,
			},
		})
		if err != nil {
			log.Printf("handleGuideButton reply: %v", err)
		}
		return
	}
}
