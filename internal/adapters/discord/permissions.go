package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// requireAdmin gates the configuration surface: guild owner, the
// Administrator permission, or the configured admin role. Replies for the
// caller when the check fails.
func (r *Router) requireAdmin(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) bool {
	if g, _ := s.State.Guild(ic.GuildID); g != nil && ic.Member.User.ID == g.OwnerID {
		return true
	}
	if ic.Member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	if st, err := r.settings.Get(ctx, ic.GuildID); err == nil && st.AdminRole != "" {
		for _, rid := range ic.Member.Roles {
			if rid == st.AdminRole {
				return true
			}
		}
	}
	ReplyEphemeral(s, ic, "You need Administrator permission to use this command.")
	return false
}

// requireTester gates queue management: open/close, the tester roster view
// and ticket handling.
func (r *Router) requireTester(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) bool {
	st, err := r.settings.Get(ctx, ic.GuildID)
	if err != nil || st.TesterRole == "" {
		ReplyEphemeral(s, ic, "You need the Tester role to use this command.")
		return false
	}
	for _, rid := range ic.Member.Roles {
		if rid == st.TesterRole {
			return true
		}
	}
	ReplyEphemeral(s, ic, "You need the Tester role to use this command.")
	return false
}

func memberHasRole(m *discordgo.Member, roleID string) bool {
	if roleID == "" {
		return false
	}
	for _, rid := range m.Roles {
		if rid == roleID {
			return true
		}
	}
	return false
}
