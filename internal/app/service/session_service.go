package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/kaydenwl/tiertest-bot/internal/domain"
	"github.com/kaydenwl/tiertest-bot/internal/infra/metrics"
	"github.com/kaydenwl/tiertest-bot/internal/infra/storage"
)

// SessionService turns a selected waiter into a private testing channel.
// The queue removal commits before the transport call so a slow or failing
// channel creation can never double-select the same participant; whether to
// re-enqueue after a transport failure is the caller's call.
type SessionService struct {
	queue     *QueueService
	settings  SettingsRepo
	subs      SubmissionRepo
	transport SessionTransport
	records   SessionRecorder
}

func NewSessionService(queue *QueueService, settings SettingsRepo, subs SubmissionRepo, transport SessionTransport, records SessionRecorder) *SessionService {
	return &SessionService{queue: queue, settings: settings, subs: subs, transport: transport, records: records}
}

func (s *SessionService) CreateSession(ctx context.Context, key domain.BucketKey, playerID, testerID string) (string, error) {
	st, err := s.settings.Get(ctx, key.GuildID)
	if err != nil {
		return "", err
	}
	if missing := st.MissingSetup(); len(missing) > 0 {
		return "", &domain.SetupIncompleteError{Missing: missing}
	}

	if err := s.queue.SelectForSession(ctx, key, playerID); err != nil {
		return "", err
	}

	var sub *domain.Submission
	if got, err := s.subs.Get(ctx, key.GuildID, playerID); err == nil {
		sub = &got
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.Printf("[session] submission lookup %s: %v", playerID, err)
	}

	channelID, err := s.transport.CreateTicketChannel(ctx, st, key, playerID, sub)
	if err != nil {
		// participant stays removed from the queue
		return "", fmt.Errorf("create ticket channel: %w", err)
	}

	rec := domain.SessionRecord{
		ID:        uuid.NewString(),
		GuildID:   key.GuildID,
		Region:    key.Region,
		Gamemode:  key.Gamemode,
		PlayerID:  playerID,
		TesterID:  testerID,
		ChannelID: channelID,
		CreatedAt: time.Now(),
	}
	if s.records != nil {
		if err := s.records.Record(ctx, rec); err != nil {
			log.Printf("[session] record %s: %v", rec.ID, err)
		}
	}
	metrics.SessionsCreated.Inc()
	return channelID, nil
}
