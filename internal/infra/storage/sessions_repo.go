package storage

import (
	"context"
	"database/sql"

	"github.com/kaydenwl/tiertest-bot/internal/domain"
)

type SessionsRepo struct{ db *sql.DB }

func NewSessionsRepo(db *sql.DB) *SessionsRepo { return &SessionsRepo{db: db} }

func (r *SessionsRepo) Record(ctx context.Context, rec domain.SessionRecord) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO test_sessions (id, guild_id, region, gamemode, player_id, tester_id, channel_id, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`, rec.ID, rec.GuildID, rec.Region, rec.Gamemode, rec.PlayerID, rec.TesterID, rec.ChannelID, rec.CreatedAt)
	return err
}
