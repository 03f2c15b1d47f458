package discord

import "github.com/bwmarrin/discordgo"

var gamemodeChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "Crystal PvP", Value: "crystal_pvp"},
	{Name: "Axe PvP", Value: "axe_pvp"},
	{Name: "Diamond Pot", Value: "diamond_pot"},
	{Name: "Netherite Pot", Value: "netherite_pot"},
	{Name: "UHC", Value: "uhc"},
	{Name: "Vanilla", Value: "vanilla"},
	{Name: "Sword", Value: "sword"},
	{Name: "Pot", Value: "pot"},
	{Name: "SMP", Value: "smp"},
	{Name: "Axe", Value: "axe"},
}

var regionChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "Asia", Value: "as"},
	{Name: "Europe", Value: "eu"},
	{Name: "North America", Value: "na"},
	{Name: "Default", Value: "default"},
}

func categoryOption(gamemode, label string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         "category_" + gamemode,
		Description:  "Category for " + label + " testing channels",
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildCategory},
	}
}

func regionQueueOption(region, label string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         "region_" + region + "_queue",
		Description:  "Queue channel for " + label + " region",
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
	}
}

var adminPerm int64 = discordgo.PermissionAdministrator

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:                     "setup",
		Description:              "Configure the bot settings for your server",
		DefaultMemberPermissions: &adminPerm,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "roles",
				Description: "Configure the roles used by the bot",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionRole, Name: "tester", Description: "Role for testers who can manage the queue", Required: true},
					{Type: discordgo.ApplicationCommandOptionRole, Name: "admin", Description: "Role for administrators (optional)"},
					{Type: discordgo.ApplicationCommandOptionRole, Name: "cooldown", Description: "Role for users on cooldown, preventing queue joining (optional)"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "channels",
				Description: "Configure the channels used by the bot",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type: discordgo.ApplicationCommandOptionChannel, Name: "category_default",
						Description:  "Default category for testing channels",
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildCategory},
						Required:     true,
					},
					{
						Type: discordgo.ApplicationCommandOptionChannel, Name: "queue_channel",
						Description:  "Default queue channel (used if no region-specific channel is set)",
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
						Required:     true,
					},
					categoryOption("crystal_pvp", "Crystal PvP"),
					categoryOption("axe_pvp", "Axe PvP"),
					categoryOption("diamond_pot", "Diamond Pot"),
					categoryOption("netherite_pot", "Netherite Pot"),
					categoryOption("uhc", "UHC"),
					categoryOption("vanilla", "Vanilla"),
					categoryOption("sword", "Sword"),
					categoryOption("pot", "Pot"),
					categoryOption("smp", "SMP"),
					categoryOption("axe", "Axe"),
					regionQueueOption("as", "Asia"),
					regionQueueOption("eu", "Europe"),
					regionQueueOption("na", "North America"),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "server",
				Description: "Configure server information",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Your server name for embeds", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "icon", Description: "URL to your server icon (must be direct image URL)"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "gamemode",
				Description: "Toggle a channel as a queue channel for a gamemode and region",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "gamemode", Description: "The gamemode to toggle the queue channel for", Required: true, Choices: gamemodeChoices},
					{Type: discordgo.ApplicationCommandOptionString, Name: "region", Description: "The region to toggle the queue channel for", Required: true, Choices: regionChoices},
					{
						Type: discordgo.ApplicationCommandOptionChannel, Name: "channel",
						Description:  "The channel to toggle as a queue channel (defaults to current channel)",
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "view",
				Description: "View current configuration",
			},
		},
	},
	{
		Name:                     "application",
		Description:              "Posts the testing application form in this channel",
		DefaultMemberPermissions: &adminPerm,
	},
	{
		Name:        "openqueue",
		Description: "Opens the testing queue in the current channel",
	},
	{
		Name:        "closequeue",
		Description: "Closes the testing queue in the current channel",
	},
	{
		Name:        "queue",
		Description: "View or interact with the testing queue in the current channel",
	},
	{
		Name:        "join",
		Description: "Join the testing queue in the current channel",
	},
	{
		Name:        "leave",
		Description: "Leave the testing queue in the current channel",
	},
	{
		Name:        "closeticket",
		Description: "Close and delete the current testing channel",
	},
	{
		Name:        "help",
		Description: "Full admin guide with interactive sections",
	},
}
