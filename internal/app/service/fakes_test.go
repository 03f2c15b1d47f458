package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kaydenwl/tiertest-bot/internal/domain"
	"github.com/kaydenwl/tiertest-bot/internal/infra/storage"
)

type fakeSettingsRepo struct {
	mu sync.Mutex
	st map[string]*domain.GuildSettings
}

func newFakeSettingsRepo(st ...*domain.GuildSettings) *fakeSettingsRepo {
	f := &fakeSettingsRepo{st: map[string]*domain.GuildSettings{}}
	for _, s := range st {
		f.st[s.GuildID] = s
	}
	return f
}

func (f *fakeSettingsRepo) Get(_ context.Context, guildID string) (*domain.GuildSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.st[guildID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return st, nil
}

func (f *fakeSettingsRepo) Upsert(_ context.Context, st *domain.GuildSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.st[st.GuildID] = st
	return nil
}

func (f *fakeSettingsRepo) Delete(_ context.Context, guildID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.st[guildID]; !ok {
		return storage.ErrNotFound
	}
	delete(f.st, guildID)
	return nil
}

type fakeSubmissionRepo struct {
	mu   sync.Mutex
	subs map[string]domain.Submission
}

func newFakeSubmissionRepo(subs ...domain.Submission) *fakeSubmissionRepo {
	f := &fakeSubmissionRepo{subs: map[string]domain.Submission{}}
	for _, s := range subs {
		f.subs[s.GuildID+"/"+s.DiscordID] = s
	}
	return f
}

func (f *fakeSubmissionRepo) Get(_ context.Context, guildID, discordID string) (domain.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.subs[guildID+"/"+discordID]
	if !ok {
		return domain.Submission{}, storage.ErrNotFound
	}
	return sub, nil
}

func (f *fakeSubmissionRepo) Upsert(_ context.Context, sub domain.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[sub.GuildID+"/"+sub.DiscordID] = sub
	return nil
}

type fakeRoles struct {
	mu  sync.Mutex
	has map[string]bool // userID/roleID
}

func newFakeRoles() *fakeRoles { return &fakeRoles{has: map[string]bool{}} }

func (f *fakeRoles) grant(userID, roleID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.has[userID+"/"+roleID] = true
}

func (f *fakeRoles) HasRole(_, userID, roleID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.has[userID+"/"+roleID]
}

type fakeNotifier struct{ ch chan string }

func newFakeNotifier() *fakeNotifier { return &fakeNotifier{ch: make(chan string, 16)} }

func (f *fakeNotifier) NotifyHead(_ context.Context, userID string, _ domain.BucketKey) error {
	f.ch <- userID
	return nil
}

// expect blocks until a notification arrives; notifications are fired from
// goroutines after the queue mutation commits.
func (f *fakeNotifier) expect(t *testing.T, userID string) {
	t.Helper()
	select {
	case got := <-f.ch:
		if got != userID {
			t.Fatalf("notified %q, want %q", got, userID)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no notification for %q", userID)
	}
}

func (f *fakeNotifier) expectNone(t *testing.T) {
	t.Helper()
	select {
	case got := <-f.ch:
		t.Fatalf("unexpected notification for %q", got)
	case <-time.After(100 * time.Millisecond):
	}
}

type fakeCheckpointStore struct {
	mu    sync.Mutex
	seed  map[domain.BucketKey]domain.Bucket
	saved map[domain.BucketKey]domain.Bucket
	saves int
}

func (f *fakeCheckpointStore) Load(context.Context) (map[domain.BucketKey]domain.Bucket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[domain.BucketKey]domain.Bucket{}
	for k, b := range f.seed {
		out[k] = b.Clone()
	}
	return out, nil
}

func (f *fakeCheckpointStore) Save(_ context.Context, snap map[domain.BucketKey]domain.Bucket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = snap
	f.saves++
	return nil
}

type fakeTransport struct {
	err     error
	created []string
}

func (f *fakeTransport) CreateTicketChannel(_ context.Context, _ *domain.GuildSettings, _ domain.BucketKey, userID string, _ *domain.Submission) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, userID)
	return "ticket-channel", nil
}

type fakeRecorder struct {
	mu   sync.Mutex
	recs []domain.SessionRecord
}

func (f *fakeRecorder) Record(_ context.Context, rec domain.SessionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs = append(f.recs, rec)
	return nil
}

var errBoom = errors.New("boom")

func testGuildSettings() *domain.GuildSettings {
	st := domain.NewGuildSettings("g1")
	st.TesterRole = "role-tester"
	st.CooldownRole = "role-cooldown"
	st.Categories[domain.DefaultLane] = "cat-default"
	st.DefaultQueueChannel = "chan-waitlist"
	st.ServerName = "Test Server"
	st.RegionQueues["eu"] = "chan-eu"
	st.RegionQueues["na"] = "chan-na"
	return st
}

func verifiedSubmission(userID, region, gamemode string) domain.Submission {
	return domain.Submission{
		GuildID:          "g1",
		DiscordID:        userID,
		Name:             "player-" + userID,
		Kits:             "any",
		Server:           "play.example.net",
		SubmittedAt:      time.Now(),
		SelectedRegion:   region,
		SelectedGamemode: gamemode,
	}
}
