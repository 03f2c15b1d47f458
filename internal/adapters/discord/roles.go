package discord

import "github.com/bwmarrin/discordgo"

// RoleSource answers role-membership checks from the session state cache,
// falling back to one REST fetch per miss. No REST call happens for members
// the gateway already delivered, which keeps it cheap enough to call from
// inside the queue engine.
type RoleSource struct {
	s *discordgo.Session
}

func NewRoleSource(s *discordgo.Session) *RoleSource { return &RoleSource{s: s} }

func (r *RoleSource) HasRole(guildID, userID, roleID string) bool {
	if roleID == "" {
		return false
	}
	m, err := r.s.State.Member(guildID, userID)
	if err != nil || m == nil {
		m, err = r.s.GuildMember(guildID, userID)
		if err != nil || m == nil {
			return false
		}
		_ = r.s.State.MemberAdd(m)
	}
	for _, rid := range m.Roles {
		if rid == roleID {
			return true
		}
	}
	return false
}
