package service

import (
	"context"
	"errors"
	"testing"

	"github.com/kaydenwl/tiertest-bot/internal/domain"
)

type queueFixture struct {
	svc      *QueueService
	settings *fakeSettingsRepo
	subs     *fakeSubmissionRepo
	roles    *fakeRoles
	notify   *fakeNotifier
	ckpt     *fakeCheckpointStore
}

func newQueueFixture(t *testing.T, subs ...domain.Submission) *queueFixture {
	t.Helper()
	f := &queueFixture{
		settings: newFakeSettingsRepo(testGuildSettings()),
		subs:     newFakeSubmissionRepo(subs...),
		roles:    newFakeRoles(),
		notify:   newFakeNotifier(),
		ckpt:     &fakeCheckpointStore{},
	}
	f.svc = NewQueueService(f.settings, f.subs, f.roles, f.notify, f.ckpt)
	return f
}

func euKey() domain.BucketKey { return domain.NewBucketKey("g1", "eu", "crystal_pvp") }

func (f *queueFixture) open(t *testing.T, key domain.BucketKey) {
	t.Helper()
	if _, err := f.svc.Open(context.Background(), key, "tester-1", "chan-eu"); err != nil {
		t.Fatalf("open: %v", err)
	}
}

func TestJoinParticipantRequiresOpenQueue(t *testing.T) {
	f := newQueueFixture(t, verifiedSubmission("u1", "eu", "crystal_pvp"))
	err := f.svc.JoinParticipant(context.Background(), euKey(), "u1")
	if !errors.Is(err, domain.ErrQueueClosed) {
		t.Fatalf("want ErrQueueClosed, got %v", err)
	}
}

func TestJoinParticipantRejectsDuplicates(t *testing.T) {
	f := newQueueFixture(t, verifiedSubmission("u1", "eu", "crystal_pvp"))
	f.open(t, euKey())

	if err := f.svc.JoinParticipant(context.Background(), euKey(), "u1"); err != nil {
		t.Fatalf("first join: %v", err)
	}
	f.notify.expect(t, "u1")

	err := f.svc.JoinParticipant(context.Background(), euKey(), "u1")
	if !errors.Is(err, domain.ErrAlreadyPresent) {
		t.Fatalf("want ErrAlreadyPresent, got %v", err)
	}
}

func TestJoinParticipantRequiresVerification(t *testing.T) {
	f := newQueueFixture(t)
	f.open(t, euKey())
	err := f.svc.JoinParticipant(context.Background(), euKey(), "u-unknown")
	if !errors.Is(err, domain.ErrNotVerified) {
		t.Fatalf("want ErrNotVerified, got %v", err)
	}
}

func TestJoinParticipantCooldownRole(t *testing.T) {
	f := newQueueFixture(t, verifiedSubmission("u1", "eu", "crystal_pvp"))
	f.open(t, euKey())
	f.roles.grant("u1", "role-cooldown")

	err := f.svc.JoinParticipant(context.Background(), euKey(), "u1")
	if !errors.Is(err, domain.ErrOnCooldown) {
		t.Fatalf("want ErrOnCooldown, got %v", err)
	}
}

func TestJoinParticipantLaneMismatch(t *testing.T) {
	f := newQueueFixture(t,
		verifiedSubmission("u-na", "na", "crystal_pvp"),
		verifiedSubmission("u-gm", "eu", "uhc"),
	)
	f.open(t, euKey())

	var regionErr *domain.RegionMismatchError
	err := f.svc.JoinParticipant(context.Background(), euKey(), "u-na")
	if !errors.As(err, &regionErr) {
		t.Fatalf("want RegionMismatchError, got %v", err)
	}
	if regionErr.QueueRegion != "eu" || regionErr.SelectedRegion != "na" {
		t.Fatalf("mismatch detail: %+v", regionErr)
	}

	var gmErr *domain.GamemodeMismatchError
	err = f.svc.JoinParticipant(context.Background(), euKey(), "u-gm")
	if !errors.As(err, &gmErr) {
		t.Fatalf("want GamemodeMismatchError, got %v", err)
	}
}

func TestJoinParticipantDefaultLaneAcceptsAnySelection(t *testing.T) {
	f := newQueueFixture(t, verifiedSubmission("u1", "na", "uhc"))
	key := domain.NewBucketKey("g1", domain.DefaultLane, domain.DefaultLane)
	f.open(t, key)

	if err := f.svc.JoinParticipant(context.Background(), key, "u1"); err != nil {
		t.Fatalf("default lane must not enforce selections: %v", err)
	}
}

func TestHeadNotificationDedupe(t *testing.T) {
	f := newQueueFixture(t,
		verifiedSubmission("a", "eu", "crystal_pvp"),
		verifiedSubmission("b", "eu", "crystal_pvp"),
	)
	f.open(t, euKey())
	ctx := context.Background()

	if err := f.svc.JoinParticipant(ctx, euKey(), "a"); err != nil {
		t.Fatalf("join a: %v", err)
	}
	f.notify.expect(t, "a")

	// b joining does not change the head; a is not re-notified
	if err := f.svc.JoinParticipant(ctx, euKey(), "b"); err != nil {
		t.Fatalf("join b: %v", err)
	}
	if err := f.svc.PromoteHead(ctx, euKey()); err != nil {
		t.Fatalf("promote: %v", err)
	}
	f.notify.expectNone(t)

	if err := f.svc.Leave(ctx, euKey(), "a"); err != nil {
		t.Fatalf("leave a: %v", err)
	}
	f.notify.expect(t, "b")
}

func TestHeadTesterSkippedWithoutConsumingMarker(t *testing.T) {
	f := newQueueFixture(t,
		verifiedSubmission("t-head", "eu", "crystal_pvp"),
		verifiedSubmission("b", "eu", "crystal_pvp"),
	)
	f.open(t, euKey())
	ctx := context.Background()

	// t-head holds the tester role but joined as a participant
	f.roles.grant("t-head", "role-tester")
	if err := f.svc.JoinParticipant(ctx, euKey(), "t-head"); err != nil {
		t.Fatalf("join: %v", err)
	}
	f.notify.expectNone(t)

	if err := f.svc.JoinParticipant(ctx, euKey(), "b"); err != nil {
		t.Fatalf("join b: %v", err)
	}
	f.notify.expectNone(t)

	// once the tester leaves, b becomes a fresh head and is notified
	if err := f.svc.Leave(ctx, euKey(), "t-head"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	f.notify.expect(t, "b")
}

func TestOpenReplacesQueueAndSeedsTester(t *testing.T) {
	f := newQueueFixture(t, verifiedSubmission("u1", "eu", "crystal_pvp"))
	f.open(t, euKey())
	ctx := context.Background()

	if err := f.svc.JoinParticipant(ctx, euKey(), "u1"); err != nil {
		t.Fatalf("join: %v", err)
	}
	f.notify.expect(t, "u1")

	b, err := f.svc.Open(ctx, euKey(), "tester-2", "chan-eu")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if len(b.Queue) != 0 {
		t.Fatalf("reopen must drop waiters, got %v", b.Queue)
	}
	if !b.IsTester("tester-1") || !b.IsTester("tester-2") {
		t.Fatalf("testers: %v", b.Testers)
	}
	if b.LastSession == nil {
		t.Fatalf("reopen must stamp the session time")
	}
}

func TestCloseIsDestructive(t *testing.T) {
	f := newQueueFixture(t, verifiedSubmission("u1", "eu", "crystal_pvp"))
	f.open(t, euKey())
	ctx := context.Background()

	if err := f.svc.JoinParticipant(ctx, euKey(), "u1"); err != nil {
		t.Fatalf("join: %v", err)
	}
	f.notify.expect(t, "u1")

	b, err := f.svc.Close(ctx, euKey())
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if b.IsOpen || len(b.Queue) != 0 || len(b.Testers) != 0 {
		t.Fatalf("close must clear everything: %+v", b)
	}

	if _, err := f.svc.Close(ctx, euKey()); !errors.Is(err, domain.ErrAlreadyClosed) {
		t.Fatalf("want ErrAlreadyClosed, got %v", err)
	}
}

func TestLeaveNotPresent(t *testing.T) {
	f := newQueueFixture(t)
	f.open(t, euKey())
	err := f.svc.Leave(context.Background(), euKey(), "ghost")
	if !errors.Is(err, domain.ErrNotPresent) {
		t.Fatalf("want ErrNotPresent, got %v", err)
	}
}

func TestJoinTester(t *testing.T) {
	f := newQueueFixture(t)
	f.open(t, euKey())
	ctx := context.Background()

	if err := f.svc.JoinTester(ctx, euKey(), "tester-2"); err != nil {
		t.Fatalf("join tester: %v", err)
	}
	if err := f.svc.JoinTester(ctx, euKey(), "tester-2"); !errors.Is(err, domain.ErrAlreadyPresent) {
		t.Fatalf("want ErrAlreadyPresent, got %v", err)
	}
	if err := f.svc.Leave(ctx, euKey(), "tester-2"); err != nil {
		t.Fatalf("tester leave: %v", err)
	}
}

func TestSelectForSessionPromotesNext(t *testing.T) {
	f := newQueueFixture(t,
		verifiedSubmission("a", "eu", "crystal_pvp"),
		verifiedSubmission("b", "eu", "crystal_pvp"),
	)
	f.open(t, euKey())
	ctx := context.Background()

	for _, uid := range []string{"a", "b"} {
		if err := f.svc.JoinParticipant(ctx, euKey(), uid); err != nil {
			t.Fatalf("join %s: %v", uid, err)
		}
	}
	f.notify.expect(t, "a")

	if err := f.svc.SelectForSession(ctx, euKey(), "a"); err != nil {
		t.Fatalf("select: %v", err)
	}
	f.notify.expect(t, "b")

	if err := f.svc.SelectForSession(ctx, euKey(), "a"); !errors.Is(err, domain.ErrNotPresent) {
		t.Fatalf("want ErrNotPresent, got %v", err)
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	f := newQueueFixture(t, verifiedSubmission("u1", "eu", "crystal_pvp"))
	f.open(t, euKey())
	ctx := context.Background()

	if err := f.svc.JoinParticipant(ctx, euKey(), "u1"); err != nil {
		t.Fatalf("join: %v", err)
	}
	f.notify.expect(t, "u1")
	if err := f.svc.Checkpoint(ctx); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}

	// boot a second service from the saved snapshot
	f2 := newQueueFixture(t)
	f2.ckpt.seed = f.ckpt.saved
	if err := f2.svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	b := f2.svc.Bucket(euKey())
	if !b.IsOpen || len(b.Queue) != 1 || b.Queue[0] != "u1" {
		t.Fatalf("restored bucket wrong: %+v", b)
	}
	if b.LastNotified != "u1" {
		t.Fatalf("restored marker wrong: %q", b.LastNotified)
	}
}

func TestRosterLabels(t *testing.T) {
	f := newQueueFixture(t, verifiedSubmission("a", "eu", "crystal_pvp"))
	f.open(t, euKey())
	ctx := context.Background()

	if err := f.svc.JoinParticipant(ctx, euKey(), "a"); err != nil {
		t.Fatalf("join: %v", err)
	}
	f.notify.expect(t, "a")

	roster, err := f.svc.Roster(ctx, euKey())
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if len(roster.Entries) != 1 || roster.Entries[0].UserID != "a" {
		t.Fatalf("entries: %+v", roster.Entries)
	}
	if roster.Entries[0].Label == "No data" {
		t.Fatalf("verified waiter must carry a label")
	}
}
