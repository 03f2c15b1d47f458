package storage

import (
	"context"
	"database/sql"

	pq "github.com/lib/pq"

	"github.com/kaydenwl/tiertest-bot/internal/domain"
)

// CheckpointRepo persists best-effort snapshots of the whole bucket table.
// Save is transactional and replaces the previous snapshot; Load tolerates
// NULL optional columns by substituting the documented defaults.
type CheckpointRepo struct{ db *sql.DB }

func NewCheckpointRepo(db *sql.DB) *CheckpointRepo { return &CheckpointRepo{db: db} }

func (r *CheckpointRepo) Load(ctx context.Context) (map[domain.BucketKey]domain.Bucket, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT guild_id, region, gamemode,
       COALESCE(is_open, FALSE),
       COALESCE(queue, '{}'),
       COALESCE(testers, '{}'),
       last_session,
       COALESCE(channel_id, ''),
       COALESCE(message_id, ''),
       COALESCE(last_notified, '')
  FROM queue_buckets
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[domain.BucketKey]domain.Bucket{}
	for rows.Next() {
		var (
			b       domain.Bucket
			queue   pq.StringArray
			testers pq.StringArray
			last    sql.NullTime
		)
		if err := rows.Scan(
			&b.Key.GuildID, &b.Key.Region, &b.Key.Gamemode,
			&b.IsOpen, &queue, &testers, &last,
			&b.ChannelID, &b.MessageID, &b.LastNotified,
		); err != nil {
			return nil, err
		}
		b.Queue = []string(queue)
		b.Testers = []string(testers)
		if b.Queue == nil {
			b.Queue = []string{}
		}
		if b.Testers == nil {
			b.Testers = []string{}
		}
		if last.Valid {
			t := last.Time
			b.LastSession = &t
		}
		out[b.Key] = b
	}
	return out, rows.Err()
}

func (r *CheckpointRepo) Save(ctx context.Context, snapshot map[domain.BucketKey]domain.Bucket) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM queue_buckets`); err != nil {
		return err
	}
	for key, b := range snapshot {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO queue_buckets
  (guild_id, region, gamemode, is_open, queue, testers, last_session, channel_id, message_id, last_notified, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,now())
`, key.GuildID, key.Region, key.Gamemode, b.IsOpen,
			pq.Array(b.Queue), pq.Array(b.Testers), b.LastSession,
			b.ChannelID, b.MessageID, b.LastNotified); err != nil {
			return err
		}
	}
	return tx.Commit()
}
