package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/kaydenwl/tiertest-bot/internal/domain"
	"github.com/kaydenwl/tiertest-bot/internal/infra/metrics"
	"github.com/kaydenwl/tiertest-bot/internal/infra/storage"
)

const (
	ckptDebounce = 2 * time.Second
	ckptInterval = 5 * time.Minute
	ckptTimeout  = 10 * time.Second
	notifyMax    = 8 * time.Second
)

// QueueService owns the bucket table. The in-memory table is the single
// source of truth; Postgres only holds best-effort checkpoints of it.
// One mutex guards the whole table: every operation is short and purely
// in-memory, so per-bucket locking buys nothing here.
type QueueService struct {
	settings SettingsRepo
	subs     SubmissionRepo
	roles    RoleChecker
	notify   HeadNotifier
	ckpt     CheckpointStore

	mu      sync.Mutex
	buckets map[domain.BucketKey]*domain.Bucket
	dirty   chan struct{}
}

func NewQueueService(settings SettingsRepo, subs SubmissionRepo, roles RoleChecker, notify HeadNotifier, ckpt CheckpointStore) *QueueService {
	return &QueueService{
		settings: settings,
		subs:     subs,
		roles:    roles,
		notify:   notify,
		ckpt:     ckpt,
		buckets:  map[domain.BucketKey]*domain.Bucket{},
		dirty:    make(chan struct{}, 1),
	}
}

// Load restores the bucket table from the last checkpoint. Call once at boot,
// before the discord handlers are attached.
func (s *QueueService) Load(ctx context.Context) error {
	snap, err := s.ckpt.Load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets = make(map[domain.BucketKey]*domain.Bucket, len(snap))
	for key, b := range snap {
		restored := b.Clone()
		restored.Key = key
		s.buckets[key] = &restored
	}
	log.Printf("[queue] restored %d buckets from checkpoint", len(snap))
	return nil
}

// Bucket returns a copy of the bucket's state, creating it lazily: buckets
// exist on first resolution, not on configuration.
func (s *QueueService) Bucket(key domain.BucketKey) domain.Bucket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bucketLocked(key).Clone()
}

// Open (re)opens a bucket for testing. The waiting list is replaced
// unconditionally; reopening drops whoever was waiting. The opening tester
// joins the roster if absent.
func (s *QueueService) Open(ctx context.Context, key domain.BucketKey, testerID, channelID string) (domain.Bucket, error) {
	s.mu.Lock()
	b := s.bucketLocked(key)
	now := time.Now()
	b.IsOpen = true
	b.Queue = []string{}
	b.LastNotified = ""
	b.LastSession = &now
	b.ChannelID = channelID
	b.MessageID = ""
	if !b.IsTester(testerID) {
		b.Testers = append(b.Testers, testerID)
	}
	out := b.Clone()
	s.mu.Unlock()

	s.requestCheckpoint()
	return out, nil
}

// Close is destructive: queue and tester roster are cleared, testers must
// re-join after reopening.
func (s *QueueService) Close(ctx context.Context, key domain.BucketKey) (domain.Bucket, error) {
	s.mu.Lock()
	b := s.bucketLocked(key)
	if !b.IsOpen {
		s.mu.Unlock()
		return domain.Bucket{}, domain.ErrAlreadyClosed
	}
	b.IsOpen = false
	b.Queue = []string{}
	b.Testers = []string{}
	b.LastNotified = ""
	b.MessageID = ""
	out := b.Clone()
	s.mu.Unlock()

	s.requestCheckpoint()
	return out, nil
}

// JoinParticipant appends a verified player to the tail of the waiting list.
// Eligibility reads (settings, submission, cooldown role) happen before the
// lock; open-state and membership are re-checked under it.
func (s *QueueService) JoinParticipant(ctx context.Context, key domain.BucketKey, userID string) error {
	st, err := s.settings.Get(ctx, key.GuildID)
	if err != nil {
		return err
	}
	if missing := st.MissingSetup(); len(missing) > 0 {
		return &domain.SetupIncompleteError{Missing: missing}
	}
	if st.CooldownRole != "" && s.roles.HasRole(key.GuildID, userID, st.CooldownRole) {
		return domain.ErrOnCooldown
	}

	sub, err := s.subs.Get(ctx, key.GuildID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.ErrNotVerified
	} else if err != nil {
		return err
	}
	if sub.SelectedRegion != "" && sub.SelectedRegion != domain.DefaultLane &&
		key.Region != domain.DefaultLane && sub.SelectedRegion != key.Region {
		return &domain.RegionMismatchError{QueueRegion: key.Region, SelectedRegion: sub.SelectedRegion}
	}
	if sub.SelectedGamemode != "" && key.Gamemode != domain.DefaultLane &&
		sub.SelectedGamemode != key.Gamemode {
		return &domain.GamemodeMismatchError{QueueGamemode: key.Gamemode, SelectedGamemode: sub.SelectedGamemode}
	}

	s.mu.Lock()
	b := s.bucketLocked(key)
	if !b.IsOpen {
		s.mu.Unlock()
		return domain.ErrQueueClosed
	}
	if b.InQueue(userID) || b.IsTester(userID) {
		s.mu.Unlock()
		return domain.ErrAlreadyPresent
	}
	b.Queue = append(b.Queue, userID)
	intent := s.promoteLocked(st, b)
	s.mu.Unlock()

	metrics.QueueJoins.Inc()
	s.requestCheckpoint()
	s.fire(intent)
	return nil
}

// JoinTester adds a tester to the roster.
func (s *QueueService) JoinTester(ctx context.Context, key domain.BucketKey, userID string) error {
	s.mu.Lock()
	b := s.bucketLocked(key)
	if !b.IsOpen {
		s.mu.Unlock()
		return domain.ErrQueueClosed
	}
	if b.InQueue(userID) || b.IsTester(userID) {
		s.mu.Unlock()
		return domain.ErrAlreadyPresent
	}
	b.Testers = append(b.Testers, userID)
	s.mu.Unlock()

	s.requestCheckpoint()
	return nil
}

// Leave removes the user from the waiting list, or failing that from the
// tester roster.
func (s *QueueService) Leave(ctx context.Context, key domain.BucketKey, userID string) error {
	st, err := s.settings.Get(ctx, key.GuildID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	b := s.bucketLocked(key)
	if !removeID(&b.Queue, userID) && !removeID(&b.Testers, userID) {
		s.mu.Unlock()
		return domain.ErrNotPresent
	}
	intent := s.promoteLocked(st, b)
	s.mu.Unlock()

	metrics.QueueLeaves.Inc()
	s.requestCheckpoint()
	s.fire(intent)
	return nil
}

// SelectForSession removes a waiting participant so a session can be spawned
// for them. The removal commits here, before any channel creation happens;
// a failed transport call later does not put them back.
func (s *QueueService) SelectForSession(ctx context.Context, key domain.BucketKey, userID string) error {
	st, err := s.settings.Get(ctx, key.GuildID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	b := s.bucketLocked(key)
	if !removeID(&b.Queue, userID) {
		s.mu.Unlock()
		return domain.ErrNotPresent
	}
	intent := s.promoteLocked(st, b)
	s.mu.Unlock()

	s.requestCheckpoint()
	s.fire(intent)
	return nil
}

// PromoteHead re-runs the head-of-line check without any other mutation.
// Safe to call repeatedly: an unchanged head is never re-notified.
func (s *QueueService) PromoteHead(ctx context.Context, key domain.BucketKey) error {
	st, err := s.settings.Get(ctx, key.GuildID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	intent := s.promoteLocked(st, s.bucketLocked(key))
	s.mu.Unlock()

	s.fire(intent)
	return nil
}

// SetMessageRef records where the tracked queue embed lives.
func (s *QueueService) SetMessageRef(key domain.BucketKey, channelID, messageID string) {
	s.mu.Lock()
	b := s.bucketLocked(key)
	b.ChannelID = channelID
	b.MessageID = messageID
	s.mu.Unlock()
	s.requestCheckpoint()
}

// Snapshot copies the whole bucket table for checkpointing.
func (s *QueueService) Snapshot() map[domain.BucketKey]domain.Bucket {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.BucketKey]domain.Bucket, len(s.buckets))
	for key, b := range s.buckets {
		out[key] = b.Clone()
	}
	return out
}

// ---------- roster view ----------

type RosterEntry struct {
	UserID string
	Label  string
}

// Roster is what the embed renderer and the tester select menu consume.
type Roster struct {
	Bucket  domain.Bucket
	Entries []RosterEntry
}

func (s *QueueService) Roster(ctx context.Context, key domain.BucketKey) (Roster, error) {
	b := s.Bucket(key)
	entries := make([]RosterEntry, 0, len(b.Queue))
	for _, uid := range b.Queue {
		label := "No data"
		if sub, err := s.subs.Get(ctx, key.GuildID, uid); err == nil {
			label = sub.DisplayLabel()
		}
		entries = append(entries, RosterEntry{UserID: uid, Label: label})
	}
	return Roster{Bucket: b, Entries: entries}, nil
}

// ---------- checkpointing ----------

// Run drives the fire-and-forget checkpoint writer: debounced after
// mutations, plus a periodic full save. Blocks until ctx is done.
func (s *QueueService) Run(ctx context.Context) {
	t := time.NewTicker(ckptInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.dirty:
			select {
			case <-time.After(ckptDebounce):
			case <-ctx.Done():
				return
			}
			s.flush(ctx)
		case <-t.C:
			s.flush(ctx)
		}
	}
}

// Checkpoint forces a synchronous save; used on shutdown.
func (s *QueueService) Checkpoint(ctx context.Context) error {
	if err := s.ckpt.Save(ctx, s.Snapshot()); err != nil {
		return err
	}
	metrics.Checkpoints.Inc()
	return nil
}

func (s *QueueService) flush(ctx context.Context) {
	cctx, cancel := context.WithTimeout(ctx, ckptTimeout)
	defer cancel()
	if err := s.Checkpoint(cctx); err != nil {
		log.Printf("[ckpt] save: %v", err)
	}
}

func (s *QueueService) requestCheckpoint() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

// ---------- internals ----------

func (s *QueueService) bucketLocked(key domain.BucketKey) *domain.Bucket {
	b, ok := s.buckets[key]
	if !ok {
		b = domain.NewBucket(key)
		s.buckets[key] = b
	}
	return b
}

type notifyIntent struct {
	userID string
	key    domain.BucketKey
}

// promoteLocked applies the head-of-line dedupe rule and returns the
// notification to send, if any. Testers at position 0 are skipped without
// consuming the marker, mirroring their exemption from DMs.
func (s *QueueService) promoteLocked(st *domain.GuildSettings, b *domain.Bucket) *notifyIntent {
	head, ok := b.Head()
	if !ok {
		b.LastNotified = ""
		return nil
	}
	if head == b.LastNotified {
		return nil
	}
	if st.TesterRole != "" && s.roles.HasRole(b.Key.GuildID, head, st.TesterRole) {
		return nil
	}
	b.LastNotified = head
	return &notifyIntent{userID: head, key: b.Key}
}

func (s *QueueService) fire(in *notifyIntent) {
	if in == nil || s.notify == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyMax)
		defer cancel()
		if err := s.notify.NotifyHead(ctx, in.userID, in.key); err != nil {
			// transport failure: queue state already committed, never rolled back
			log.Printf("[queue] notify head %s %s: %v", in.userID, in.key, err)
			return
		}
		metrics.HeadNotifications.Inc()
	}()
}

func removeID(ids *[]string, userID string) bool {
	for i, id := range *ids {
		if id == userID {
			*ids = append((*ids)[:i], (*ids)[i+1:]...)
			return true
		}
	}
	return false
}
