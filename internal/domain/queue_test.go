package domain

import (
	"testing"
	"time"
)

func TestNewBucketKeyDefaultsEmptyLanes(t *testing.T) {
	k := NewBucketKey("g1", "", "")
	if k.Region != DefaultLane || k.Gamemode != DefaultLane {
		t.Fatalf("want default lanes, got %q/%q", k.Region, k.Gamemode)
	}
	k = NewBucketKey("g1", "eu", "crystal_pvp")
	if k.Region != "eu" || k.Gamemode != "crystal_pvp" {
		t.Fatalf("explicit lanes mangled: %v", k)
	}
}

func TestBucketKeyStringRoundTrip(t *testing.T) {
	k := NewBucketKey("g1", "eu", "crystal_pvp")
	got, err := ParseBucketKey(k.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != k {
		t.Fatalf("round trip: want %v, got %v", k, got)
	}
}

func TestParseBucketKeyRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "g1", "g1/eu", "g1//crystal_pvp", "g1/eu/gm/extra"} {
		if _, err := ParseBucketKey(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestBucketKeyLabel(t *testing.T) {
	if got := NewBucketKey("g", "eu", "crystal_pvp").Label(); got != "EU (CRYSTAL PVP)" {
		t.Fatalf("label: %q", got)
	}
	if got := NewBucketKey("g", "na", "").Label(); got != "NA" {
		t.Fatalf("default gamemode label: %q", got)
	}
}

func TestBucketCloneIsDeep(t *testing.T) {
	now := time.Now()
	b := NewBucket(NewBucketKey("g", "eu", "uhc"))
	b.Queue = []string{"a", "b"}
	b.Testers = []string{"t"}
	b.LastSession = &now

	c := b.Clone()
	c.Queue[0] = "x"
	c.Testers[0] = "y"
	*c.LastSession = now.Add(time.Hour)

	if b.Queue[0] != "a" || b.Testers[0] != "t" {
		t.Fatalf("clone shares slices with original")
	}
	if !b.LastSession.Equal(now) {
		t.Fatalf("clone shares last-session pointer")
	}
}

func TestBucketMembership(t *testing.T) {
	b := NewBucket(NewBucketKey("g", "eu", "uhc"))
	if _, ok := b.Head(); ok {
		t.Fatalf("empty queue has no head")
	}
	b.Queue = append(b.Queue, "a", "b")
	if !b.InQueue("a") || b.InQueue("z") {
		t.Fatalf("InQueue wrong")
	}
	head, ok := b.Head()
	if !ok || head != "a" {
		t.Fatalf("head: %q %v", head, ok)
	}
}
