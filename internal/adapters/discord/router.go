package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/kaydenwl/tiertest-bot/internal/app/service"
)

type Router struct {
	s       *discordgo.Session
	guildID string // empty registers commands globally

	settings *service.SettingsService
	subs     *service.SubmissionService
	queue    *service.QueueService
	sessions *service.SessionService
	roles    *RoleSource

	clickLimiter *userLimiter
}

func NewRouter(
	s *discordgo.Session,
	guildID string,
	settings *service.SettingsService,
	subs *service.SubmissionService,
	queue *service.QueueService,
	sessions *service.SessionService,
	roles *RoleSource,
) *Router {
	return &Router{
		s:            s,
		guildID:      guildID,
		settings:     settings,
		subs:         subs,
		queue:        queue,
		sessions:     sessions,
		roles:        roles,
		clickLimiter: newUserLimiter(2 * time.Second),
	}
}

func (r *Router) Register() error {
	appID := r.s.State.User.ID
	for _, cmd := range Commands {
		if _, err := r.s.ApplicationCommandCreate(appID, r.guildID, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) Handlers() {
	r.s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic.GuildID == "" || ic.Member == nil || ic.Member.User == nil {
			return
		}
		switch ic.Type {
		case discordgo.InteractionApplicationCommand:
			r.handleSlashCommand(s, ic)
		case discordgo.InteractionMessageComponent:
			r.handleMessageComponent(s, ic)
		case discordgo.InteractionModalSubmit:
			r.handleModalSubmit(s, ic)
		}
	})
}
