package storage

import (
	"context"
	"database/sql"

	"github.com/kaydenwl/tiertest-bot/internal/domain"
)

type SubmissionRepo struct{ db *sql.DB }

func NewSubmissionRepo(db *sql.DB) *SubmissionRepo { return &SubmissionRepo{db: db} }

func (r *SubmissionRepo) Get(ctx context.Context, guildID, discordID string) (domain.Submission, error) {
	var (
		sub      domain.Submission
		region   sql.NullString
		gamemode sql.NullString
		joinedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
SELECT guild_id, discord_id, username, name, kits, server, submitted_at,
       selected_region, selected_gamemode, in_waitlist, joined_waitlist_at
  FROM submissions
 WHERE guild_id = $1 AND discord_id = $2
`, guildID, discordID).Scan(
		&sub.GuildID, &sub.DiscordID, &sub.Username, &sub.Name, &sub.Kits, &sub.Server, &sub.SubmittedAt,
		&region, &gamemode, &sub.InWaitlist, &joinedAt,
	)
	if err == sql.ErrNoRows {
		return domain.Submission{}, ErrNotFound
	}
	if err != nil {
		return domain.Submission{}, err
	}
	sub.SelectedRegion = region.String
	sub.SelectedGamemode = gamemode.String
	if joinedAt.Valid {
		t := joinedAt.Time
		sub.JoinedWaitlistAt = &t
	}
	return sub, nil
}

func (r *SubmissionRepo) Upsert(ctx context.Context, sub domain.Submission) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO submissions
  (guild_id, discord_id, username, name, kits, server, submitted_at,
   selected_region, selected_gamemode, in_waitlist, joined_waitlist_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,NULLIF($8,''),NULLIF($9,''),$10,$11)
ON CONFLICT (guild_id, discord_id) DO UPDATE SET
  username           = EXCLUDED.username,
  name               = EXCLUDED.name,
  kits               = EXCLUDED.kits,
  server             = EXCLUDED.server,
  submitted_at       = EXCLUDED.submitted_at,
  selected_region    = EXCLUDED.selected_region,
  selected_gamemode  = EXCLUDED.selected_gamemode,
  in_waitlist        = EXCLUDED.in_waitlist,
  joined_waitlist_at = EXCLUDED.joined_waitlist_at
`, sub.GuildID, sub.DiscordID, sub.Username, sub.Name, sub.Kits, sub.Server, sub.SubmittedAt,
		sub.SelectedRegion, sub.SelectedGamemode, sub.InWaitlist, sub.JoinedWaitlistAt)
	return err
}
