package discord

import (
	"context"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/kaydenwl/tiertest-bot/internal/app/service"
	"github.com/kaydenwl/tiertest-bot/internal/domain"
)

func (r *Router) handleSlashCommand(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	cmd := ic.ApplicationCommandData()
	log.Printf("cmd: /%s by=%s guild=%s channel=%s", cmd.Name, ic.Member.User.ID, ic.GuildID, ic.ChannelID)

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("panic in cmd /%s: %v", cmd.Name, rec)
			ReplyEphemeral(s, ic, "An unexpected error occurred. Please try again.")
		}
	}()

	_ = DeferEphemeral(s, ic)
	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	switch cmd.Name {
	case "setup":
		if !r.requireAdmin(ctx, s, ic) {
			return
		}
		r.handleSetup(ctx, s, ic)

	case "application":
		if !r.requireAdmin(ctx, s, ic) {
			return
		}
		r.handleApplication(ctx, s, ic)

	case "openqueue":
		r.handleOpenQueue(ctx, s, ic)

	case "closequeue":
		r.handleCloseQueue(ctx, s, ic)

	case "queue":
		r.handleQueue(ctx, s, ic)

	case "join":
		r.handleJoin(ctx, s, ic)

	case "leave":
		r.handleLeave(ctx, s, ic)

	case "closeticket":
		st, err := r.settings.RequireComplete(ctx, ic.GuildID)
		if err != nil {
			ReplyEphemeral(s, ic, errText(err))
			return
		}
		if !memberHasRole(ic.Member, st.TesterRole) {
			ReplyEphemeral(s, ic, "You need the Tester role to use this command.")
			return
		}
		ReplyEphemeral(s, ic, "Closing this testing channel in 10 seconds...")
		r.scheduleChannelDelete(ic.ChannelID)

	case "help":
		r.handleHelp(s, ic)
	}
}

// resolveQueueChannel gates every queue-facing command: setup must be
// complete and the current channel must be a configured queue channel.
func (r *Router) resolveQueueChannel(ctx context.Context, ic *discordgo.InteractionCreate) (*domain.GuildSettings, domain.BucketKey, error) {
	st, err := r.settings.RequireComplete(ctx, ic.GuildID)
	if err != nil {
		return nil, domain.BucketKey{}, err
	}
	key, err := service.ResolveBucket(st, ic.ChannelID)
	if err != nil {
		return nil, domain.BucketKey{}, err
	}
	return st, key, nil
}

func (r *Router) handleOpenQueue(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	st, key, err := r.resolveQueueChannel(ctx, ic)
	if err != nil {
		ReplyEphemeral(s, ic, errText(err))
		return
	}
	if !memberHasRole(ic.Member, st.TesterRole) {
		ReplyEphemeral(s, ic, "You need the Tester role to use this command.")
		return
	}

	// drop the previous tracked message before Open clears its ref
	r.deleteTrackedMessage(key)

	if _, err := r.queue.Open(ctx, key, ic.Member.User.ID, ic.ChannelID); err != nil {
		ReplyEphemeral(s, ic, errText(err))
		return
	}
	if err := r.publishQueueUI(ctx, st, key, ic.ChannelID); err != nil {
		log.Printf("[ui] publish %s: %v", key, err)
		ReplyEphemeral(s, ic, "Opened the queue, but posting the queue message failed. Run /openqueue again.")
		return
	}
	ReplyEphemeral(s, ic, "Opened the testing queue.")
}

func (r *Router) handleCloseQueue(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	st, key, err := r.resolveQueueChannel(ctx, ic)
	if err != nil {
		ReplyEphemeral(s, ic, errText(err))
		return
	}
	if !memberHasRole(ic.Member, st.TesterRole) {
		ReplyEphemeral(s, ic, "You need the Tester role to use this command.")
		return
	}

	r.deleteTrackedMessage(key)

	b, err := r.queue.Close(ctx, key)
	if err != nil {
		ReplyEphemeral(s, ic, errText(err))
		return
	}
	if _, err := s.ChannelMessageSendEmbed(ic.ChannelID, closedQueueEmbed(st, b)); err != nil {
		log.Printf("[ui] closed embed %s: %v", key, err)
	}
	ReplyEphemeral(s, ic, "Closed the testing queue.")
}

// handleQueue is role-sensitive: testers get the selection menu to pull a
// participant into a session, everyone else joins the queue.
func (r *Router) handleQueue(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	st, key, err := r.resolveQueueChannel(ctx, ic)
	if err != nil {
		ReplyEphemeral(s, ic, errText(err))
		return
	}

	if !memberHasRole(ic.Member, st.TesterRole) {
		r.joinAsParticipant(ctx, s, ic, key)
		return
	}

	b := r.queue.Bucket(key)
	if !b.IsOpen {
		ReplyEphemeral(s, ic, errText(domain.ErrQueueClosed))
		return
	}
	roster, err := r.queue.Roster(ctx, key)
	if err != nil {
		ReplyEphemeral(s, ic, errText(err))
		return
	}
	if len(roster.Entries) == 0 {
		ReplyEphemeral(s, ic, "There are no users in the queue for this region and gamemode.")
		return
	}

	opts := make([]discordgo.SelectMenuOption, 0, len(roster.Entries))
	for _, e := range roster.Entries {
		opts = append(opts, discordgo.SelectMenuOption{
			Label:       r.userLabel(key.GuildID, e.UserID),
			Value:       e.UserID,
			Description: e.Label,
		})
	}
	row := discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    "select_user",
				Placeholder: "Select a user from the queue",
				Options:     opts,
			},
		},
	}
	ReplyEphemeralComponents(s, ic, "Select a user to create a testing channel:", row)
}

func (r *Router) handleJoin(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	st, key, err := r.resolveQueueChannel(ctx, ic)
	if err != nil {
		ReplyEphemeral(s, ic, errText(err))
		return
	}
	if memberHasRole(ic.Member, st.TesterRole) {
		if err := r.queue.JoinTester(ctx, key, ic.Member.User.ID); err != nil {
			ReplyEphemeral(s, ic, errText(err))
			return
		}
		ReplyEphemeral(s, ic, "You have been added to the testers list for "+key.Label()+"!")
		go r.refreshQueueUI(key)
		return
	}
	r.joinAsParticipant(ctx, s, ic, key)
}

func (r *Router) joinAsParticipant(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, key domain.BucketKey) {
	if err := r.queue.JoinParticipant(ctx, key, ic.Member.User.ID); err != nil {
		ReplyEphemeral(s, ic, errText(err))
		return
	}
	ReplyEphemeral(s, ic, "You have been added to the testing queue for "+key.Label()+"!")
	go r.refreshQueueUI(key)
}

func (r *Router) handleLeave(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	st, key, err := r.resolveQueueChannel(ctx, ic)
	if err != nil {
		ReplyEphemeral(s, ic, errText(err))
		return
	}
	if err := r.queue.Leave(ctx, key, ic.Member.User.ID); err != nil {
		ReplyEphemeral(s, ic, errText(err))
		return
	}
	list := "testing queue"
	if memberHasRole(ic.Member, st.TesterRole) {
		list = "testers list"
	}
	ReplyEphemeral(s, ic, "You have been removed from the "+list+" for "+key.Label()+".")
	go r.refreshQueueUI(key)
}

// userLabel resolves a display name from the member cache, falling back to
// one REST lookup, then to the raw ID.
func (r *Router) userLabel(guildID, userID string) string {
	if m, err := r.s.State.Member(guildID, userID); err == nil && m != nil && m.User != nil {
		return m.User.Username
	}
	if u, err := r.s.User(userID); err == nil {
		return u.Username
	}
	return "User ID: " + userID
}
