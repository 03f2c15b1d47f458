package storage

import (
	"context"
	"database/sql"

	"github.com/kaydenwl/tiertest-bot/internal/domain"
)

type SettingsRepo struct{ db *sql.DB }

func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{db: db} }

func (r *SettingsRepo) Get(ctx context.Context, guildID string) (*domain.GuildSettings, error) {
	st := domain.NewGuildSettings(guildID)
	err := r.db.QueryRowContext(ctx, `
SELECT tester_role, admin_role, cooldown_role, default_queue_channel, server_name, server_icon
  FROM guild_settings
 WHERE guild_id = $1
`, guildID).Scan(&st.TesterRole, &st.AdminRole, &st.CooldownRole, &st.DefaultQueueChannel, &st.ServerName, &st.ServerIcon)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT gamemode, category_id FROM guild_categories WHERE guild_id = $1
`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var gm, id string
		if err := rows.Scan(&gm, &id); err != nil {
			return nil, err
		}
		st.Categories[gm] = id
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.db.QueryContext(ctx, `
SELECT region, channel_id FROM guild_region_queues WHERE guild_id = $1
`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var reg, id string
		if err := rows.Scan(&reg, &id); err != nil {
			return nil, err
		}
		st.RegionQueues[reg] = id
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.db.QueryContext(ctx, `
SELECT gamemode, channel_id, region FROM gamemode_queue_channels WHERE guild_id = $1
`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var gm, ch, reg string
		if err := rows.Scan(&gm, &ch, &reg); err != nil {
			return nil, err
		}
		st.GamemodeQueues[gm] = append(st.GamemodeQueues[gm], domain.GamemodeQueue{ChannelID: ch, Region: reg})
	}
	return st, rows.Err()
}

// Upsert writes the settings row and replaces the binding tables in one tx.
func (r *SettingsRepo) Upsert(ctx context.Context, st *domain.GuildSettings) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO guild_settings
  (guild_id, tester_role, admin_role, cooldown_role, default_queue_channel, server_name, server_icon)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (guild_id) DO UPDATE SET
  tester_role           = EXCLUDED.tester_role,
  admin_role            = EXCLUDED.admin_role,
  cooldown_role         = EXCLUDED.cooldown_role,
  default_queue_channel = EXCLUDED.default_queue_channel,
  server_name           = EXCLUDED.server_name,
  server_icon           = EXCLUDED.server_icon,
  updated_at            = now()
`, st.GuildID, st.TesterRole, st.AdminRole, st.CooldownRole, st.DefaultQueueChannel, st.ServerName, st.ServerIcon); err != nil {
		return err
	}

	for _, table := range []string{"guild_categories", "guild_region_queues", "gamemode_queue_channels"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE guild_id = $1`, st.GuildID); err != nil {
			return err
		}
	}
	for gm, id := range st.Categories {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO guild_categories (guild_id, gamemode, category_id) VALUES ($1,$2,$3)
`, st.GuildID, gm, id); err != nil {
			return err
		}
	}
	for reg, id := range st.RegionQueues {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO guild_region_queues (guild_id, region, channel_id) VALUES ($1,$2,$3)
`, st.GuildID, reg, id); err != nil {
			return err
		}
	}
	for gm, queues := range st.GamemodeQueues {
		for _, q := range queues {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO gamemode_queue_channels (guild_id, gamemode, channel_id, region) VALUES ($1,$2,$3,$4)
`, st.GuildID, gm, q.ChannelID, q.Region); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (r *SettingsRepo) Delete(ctx context.Context, guildID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM guild_settings WHERE guild_id = $1`, guildID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
