package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kaydenwl/tiertest-bot/internal/domain"
	"github.com/kaydenwl/tiertest-bot/internal/infra/storage"
)

// SubmissionService handles the intake records behind the application form.
type SubmissionService struct {
	repo SubmissionRepo
}

func NewSubmissionService(repo SubmissionRepo) *SubmissionService {
	return &SubmissionService{repo: repo}
}

func (s *SubmissionService) Get(ctx context.Context, guildID, userID string) (domain.Submission, error) {
	sub, err := s.repo.Get(ctx, guildID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Submission{}, domain.ErrNotVerified
	}
	return sub, err
}

// Verify stores a fresh intake record from the verification modal.
// Re-verifying resets the waitlist flag and region/gamemode selection.
func (s *SubmissionService) Verify(ctx context.Context, guildID, userID, username, name, kits, server string) error {
	return s.repo.Upsert(ctx, domain.Submission{
		GuildID:     guildID,
		DiscordID:   userID,
		Username:    username,
		Name:        name,
		Kits:        strings.ToLower(kits),
		Server:      strings.ToLower(server),
		SubmittedAt: time.Now(),
	})
}

func (s *SubmissionService) SelectRegion(ctx context.Context, guildID, userID, region string) error {
	if !domain.ValidRegion(region) {
		return ErrUnknownRegion
	}
	sub, err := s.Get(ctx, guildID, userID)
	if err != nil {
		return err
	}
	sub.SelectedRegion = region
	return s.repo.Upsert(ctx, sub)
}

func (s *SubmissionService) SelectGamemode(ctx context.Context, guildID, userID, gamemode string) error {
	if gamemode != domain.DefaultLane && !domain.ValidGamemode(gamemode) {
		return ErrUnknownGamemode
	}
	sub, err := s.Get(ctx, guildID, userID)
	if err != nil {
		return err
	}
	sub.SelectedGamemode = gamemode
	return s.repo.Upsert(ctx, sub)
}

// JoinWaitlist flags the record as waitlisted under the given lanes.
// The caller grants channel visibility; this only owns the record.
func (s *SubmissionService) JoinWaitlist(ctx context.Context, guildID, userID, region, gamemode string) (domain.Submission, error) {
	sub, err := s.Get(ctx, guildID, userID)
	if err != nil {
		return domain.Submission{}, err
	}
	now := time.Now()
	sub.SelectedRegion = region
	sub.SelectedGamemode = gamemode
	sub.InWaitlist = true
	sub.JoinedWaitlistAt = &now
	return sub, s.repo.Upsert(ctx, sub)
}
