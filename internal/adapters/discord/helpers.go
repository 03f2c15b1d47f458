package discord

import (
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/kaydenwl/tiertest-bot/internal/domain"
)

func subcmd(ic *discordgo.InteractionCreate) *discordgo.ApplicationCommandInteractionDataOption {
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			return o
		}
	}
	return nil
}

func optStr(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, o := range opts {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionString {
			return o.StringValue()
		}
	}
	return ""
}

func optRole(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, o := range opts {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionRole {
			return o.Value.(string)
		}
	}
	return ""
}

func optChannel(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, o := range opts {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionChannel {
			return o.Value.(string)
		}
	}
	return ""
}

// displayGamemode renders a gamemode identifier for users: "crystal_pvp"
// becomes "CRYSTAL PVP".
func displayGamemode(gm string) string {
	return strings.ToUpper(strings.ReplaceAll(gm, "_", " "))
}

const setupChecklistHeader = "Bot setup is not complete. Please ask an administrator to configure the following using `/setup` commands:\n- "

// errText turns queue-core failures into the ephemeral message users see.
func errText(err error) string {
	var setupErr *domain.SetupIncompleteError
	if errors.As(err, &setupErr) {
		return setupChecklistHeader + strings.Join(setupErr.Missing, "\n- ")
	}
	var regionErr *domain.RegionMismatchError
	if errors.As(err, &regionErr) {
		return "This queue is for the " + strings.ToUpper(regionErr.QueueRegion) + " region. Your selected region is " +
			strings.ToUpper(regionErr.SelectedRegion) + ". Please join the correct region queue."
	}
	var gmErr *domain.GamemodeMismatchError
	if errors.As(err, &gmErr) {
		return "This queue is for the " + displayGamemode(gmErr.QueueGamemode) + " gamemode. Your selected gamemode is " +
			displayGamemode(gmErr.SelectedGamemode) + ". Please join the correct gamemode queue."
	}

	switch {
	case errors.Is(err, domain.ErrNotQueueChannel):
		return "This command must be used in a configured queue channel (default, region-specific, or gamemode-specific). Please check `/setup channels` or `/setup gamemode` configuration."
	case errors.Is(err, domain.ErrQueueClosed):
		return "The testing queue is currently closed."
	case errors.Is(err, domain.ErrAlreadyClosed):
		return "The queue is already closed."
	case errors.Is(err, domain.ErrAlreadyPresent):
		return "You are already in the queue or testers list for this region and gamemode."
	case errors.Is(err, domain.ErrNotPresent):
		return "You are not in the queue or testers list for this region and gamemode."
	case errors.Is(err, domain.ErrOnCooldown):
		return "You are on cooldown and cannot join the queue at this time."
	case errors.Is(err, domain.ErrNotVerified):
		return "Please verify your account details first using the verification form."
	}
	return "Something went wrong. Please try again."
}
