package service

import (
	"context"
	"errors"
	"regexp"

	"github.com/kaydenwl/tiertest-bot/internal/domain"
	"github.com/kaydenwl/tiertest-bot/internal/infra/storage"
)

var ErrBadIconURL = errors.New("icon must be a direct image URL (.jpg, .png, .gif or .webp)")

var reImageURL = regexp.MustCompile(`(?i)\.(jpeg|jpg|gif|png|webp)$`)

// SettingsService backs the /setup workflow. The queue core only reads the
// settings it produces.
type SettingsService struct {
	repo SettingsRepo
}

func NewSettingsService(repo SettingsRepo) *SettingsService {
	return &SettingsService{repo: repo}
}

// Get returns the guild's settings, initialized empty on first touch.
func (s *SettingsService) Get(ctx context.Context, guildID string) (*domain.GuildSettings, error) {
	st, err := s.repo.Get(ctx, guildID)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.NewGuildSettings(guildID), nil
	}
	return st, err
}

// RequireComplete gates every queue-facing command.
func (s *SettingsService) RequireComplete(ctx context.Context, guildID string) (*domain.GuildSettings, error) {
	st, err := s.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if missing := st.MissingSetup(); len(missing) > 0 {
		return nil, &domain.SetupIncompleteError{Missing: missing}
	}
	return st, nil
}

func (s *SettingsService) SetRoles(ctx context.Context, guildID, tester, admin, cooldown string) (*domain.GuildSettings, error) {
	st, err := s.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	st.TesterRole = tester
	if admin != "" {
		st.AdminRole = admin
	}
	if cooldown != "" {
		st.CooldownRole = cooldown
	}
	return st, s.repo.Upsert(ctx, st)
}

// ChannelsPatch carries one /setup channels invocation. Empty fields are
// left untouched, matching the optional command options.
type ChannelsPatch struct {
	DefaultCategory     string
	DefaultQueueChannel string
	Categories          map[string]string // gamemode -> category
	RegionQueues        map[string]string // region -> queue channel
}

func (s *SettingsService) SetChannels(ctx context.Context, guildID string, p ChannelsPatch) (*domain.GuildSettings, error) {
	st, err := s.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if p.DefaultCategory != "" {
		st.Categories[domain.DefaultLane] = p.DefaultCategory
	}
	if p.DefaultQueueChannel != "" {
		st.DefaultQueueChannel = p.DefaultQueueChannel
	}
	for gm, id := range p.Categories {
		if id != "" && domain.ValidGamemode(gm) {
			st.Categories[gm] = id
		}
	}
	for reg, id := range p.RegionQueues {
		if id != "" && domain.ValidRegion(reg) {
			st.RegionQueues[reg] = id
		}
	}
	return st, s.repo.Upsert(ctx, st)
}

func (s *SettingsService) SetServerInfo(ctx context.Context, guildID, name, icon string) (*domain.GuildSettings, error) {
	st, err := s.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	st.ServerName = name
	if icon != "" {
		if !reImageURL.MatchString(icon) {
			return nil, ErrBadIconURL
		}
		st.ServerIcon = icon
	}
	return st, s.repo.Upsert(ctx, st)
}

var (
	ErrUnknownGamemode   = errors.New("unknown gamemode")
	ErrUnknownRegion     = errors.New("unknown region")
	ErrNoGamemodeCategory = errors.New("configure the gamemode's category first")
)

// ToggleGamemodeQueue binds or unbinds a channel as a gamemode queue for a
// region. Returns true when the binding was added, false when removed.
func (s *SettingsService) ToggleGamemodeQueue(ctx context.Context, guildID, gamemode, region, channelID string) (bool, error) {
	if !domain.ValidGamemode(gamemode) {
		return false, ErrUnknownGamemode
	}
	if !domain.ValidRegion(region) {
		return false, ErrUnknownRegion
	}
	st, err := s.Get(ctx, guildID)
	if err != nil {
		return false, err
	}
	if st.Categories[gamemode] == "" {
		return false, ErrNoGamemodeCategory
	}

	queues := st.GamemodeQueues[gamemode]
	for i, q := range queues {
		if q.ChannelID == channelID && q.Region == region {
			st.GamemodeQueues[gamemode] = append(queues[:i], queues[i+1:]...)
			return false, s.repo.Upsert(ctx, st)
		}
	}
	st.GamemodeQueues[gamemode] = append(queues, domain.GamemodeQueue{ChannelID: channelID, Region: region})
	return true, s.repo.Upsert(ctx, st)
}

// Reset wipes the guild back to an unconfigured state, keeping only the
// display identity taken from the live guild.
func (s *SettingsService) Reset(ctx context.Context, guildID, name, icon string) (*domain.GuildSettings, error) {
	if err := s.repo.Delete(ctx, guildID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	st := domain.NewGuildSettings(guildID)
	st.ServerName = name
	st.ServerIcon = icon
	return st, s.repo.Upsert(ctx, st)
}

// GamemodeChannelsFor lists the queue channels serving a gamemode in a
// region; the waitlist flow grants the player visibility into these.
func GamemodeChannelsFor(st *domain.GuildSettings, gamemode, region string) []string {
	var out []string
	for _, q := range st.GamemodeQueues[gamemode] {
		if q.Region == region {
			out = append(out, q.ChannelID)
		}
	}
	return out
}
