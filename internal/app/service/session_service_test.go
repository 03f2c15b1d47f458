package service

import (
	"context"
	"errors"
	"testing"

	"github.com/kaydenwl/tiertest-bot/internal/domain"
)

type sessionFixture struct {
	*queueFixture
	svc       *SessionService
	transport *fakeTransport
	recorder  *fakeRecorder
}

func newSessionFixture(t *testing.T, subs ...domain.Submission) *sessionFixture {
	t.Helper()
	qf := newQueueFixture(t, subs...)
	sf := &sessionFixture{
		queueFixture: qf,
		transport:    &fakeTransport{},
		recorder:     &fakeRecorder{},
	}
	sf.svc = NewSessionService(qf.svc, qf.settings, qf.subs, sf.transport, sf.recorder)
	return sf
}

func TestCreateSessionRecordsAndRemoves(t *testing.T) {
	f := newSessionFixture(t, verifiedSubmission("u1", "eu", "crystal_pvp"))
	f.open(t, euKey())
	ctx := context.Background()

	if err := f.queueFixture.svc.JoinParticipant(ctx, euKey(), "u1"); err != nil {
		t.Fatalf("join: %v", err)
	}
	f.notify.expect(t, "u1")

	channelID, err := f.svc.CreateSession(ctx, euKey(), "u1", "tester-1")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if channelID != "ticket-channel" {
		t.Fatalf("channel: %q", channelID)
	}

	b := f.queueFixture.svc.Bucket(euKey())
	if b.InQueue("u1") {
		t.Fatalf("selected player must leave the queue")
	}

	if len(f.recorder.recs) != 1 {
		t.Fatalf("want 1 record, got %d", len(f.recorder.recs))
	}
	rec := f.recorder.recs[0]
	if rec.ID == "" {
		t.Fatalf("record needs an id")
	}
	if rec.PlayerID != "u1" || rec.TesterID != "tester-1" || rec.ChannelID != "ticket-channel" {
		t.Fatalf("record wrong: %+v", rec)
	}
	if rec.Region != "eu" || rec.Gamemode != "crystal_pvp" {
		t.Fatalf("record lanes wrong: %+v", rec)
	}
}

func TestCreateSessionRemovalCommitsBeforeTransport(t *testing.T) {
	f := newSessionFixture(t, verifiedSubmission("u1", "eu", "crystal_pvp"))
	f.transport.err = errBoom
	f.open(t, euKey())
	ctx := context.Background()

	if err := f.queueFixture.svc.JoinParticipant(ctx, euKey(), "u1"); err != nil {
		t.Fatalf("join: %v", err)
	}
	f.notify.expect(t, "u1")

	if _, err := f.svc.CreateSession(ctx, euKey(), "u1", "tester-1"); !errors.Is(err, errBoom) {
		t.Fatalf("want transport error, got %v", err)
	}
	if f.queueFixture.svc.Bucket(euKey()).InQueue("u1") {
		t.Fatalf("failed transport must not re-enqueue the player")
	}
	if len(f.recorder.recs) != 0 {
		t.Fatalf("no record on transport failure")
	}
}

func TestCreateSessionNotPresent(t *testing.T) {
	f := newSessionFixture(t)
	f.open(t, euKey())
	_, err := f.svc.CreateSession(context.Background(), euKey(), "ghost", "tester-1")
	if !errors.Is(err, domain.ErrNotPresent) {
		t.Fatalf("want ErrNotPresent, got %v", err)
	}
}

func TestCreateSessionRequiresSetup(t *testing.T) {
	f := newSessionFixture(t)
	f.settings.st["g1"] = domain.NewGuildSettings("g1")

	var incomplete *domain.SetupIncompleteError
	_, err := f.svc.CreateSession(context.Background(), euKey(), "u1", "tester-1")
	if !errors.As(err, &incomplete) {
		t.Fatalf("want SetupIncompleteError, got %v", err)
	}
}
