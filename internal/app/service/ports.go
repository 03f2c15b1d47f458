package service

import (
	"context"

	"github.com/kaydenwl/tiertest-bot/internal/domain"
)

// Implemented by internal/infra/storage.SettingsRepo
type SettingsRepo interface {
	Get(ctx context.Context, guildID string) (*domain.GuildSettings, error)
	Upsert(ctx context.Context, st *domain.GuildSettings) error
	Delete(ctx context.Context, guildID string) error
}

// Implemented by internal/infra/storage.SubmissionRepo
type SubmissionRepo interface {
	Get(ctx context.Context, guildID, discordID string) (domain.Submission, error)
	Upsert(ctx context.Context, sub domain.Submission) error
}

// Implemented by internal/infra/storage.CheckpointRepo. Save persists the
// whole bucket table; a lost write only widens the durability gap, it never
// touches live state.
type CheckpointStore interface {
	Load(ctx context.Context) (map[domain.BucketKey]domain.Bucket, error)
	Save(ctx context.Context, snapshot map[domain.BucketKey]domain.Bucket) error
}

// Implemented by internal/adapters/discord (session state lookup, no REST
// call), so it is safe to use while the bucket table is locked.
type RoleChecker interface {
	HasRole(guildID, userID, roleID string) bool
}

// Implemented by internal/adapters/discord; sends the one-time "you are next"
// DM. Called only after the queue mutation commits.
type HeadNotifier interface {
	NotifyHead(ctx context.Context, userID string, key domain.BucketKey) error
}

// Implemented by internal/adapters/discord; creates the private ticket
// channel for a selected participant.
type SessionTransport interface {
	CreateTicketChannel(ctx context.Context, st *domain.GuildSettings, key domain.BucketKey, userID string, sub *domain.Submission) (channelID string, err error)
}

// Implemented by internal/infra/storage.SessionsRepo
type SessionRecorder interface {
	Record(ctx context.Context, rec domain.SessionRecord) error
}
