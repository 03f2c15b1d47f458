package service

import (
	"errors"
	"testing"

	"github.com/kaydenwl/tiertest-bot/internal/domain"
)

func TestResolveBucketDefaultChannelWins(t *testing.T) {
	st := testGuildSettings()
	// same channel doubling as a region queue must not shadow the default lane
	st.RegionQueues["eu"] = st.DefaultQueueChannel

	key, err := ResolveBucket(st, st.DefaultQueueChannel)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := domain.NewBucketKey("g1", domain.DefaultLane, domain.DefaultLane)
	if key != want {
		t.Fatalf("want %v, got %v", want, key)
	}
}

func TestResolveBucketRegionQueue(t *testing.T) {
	st := testGuildSettings()
	key, err := ResolveBucket(st, "chan-na")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if key.Region != "na" || key.Gamemode != domain.DefaultLane {
		t.Fatalf("want na/default, got %v", key)
	}
}

func TestResolveBucketGamemodeBinding(t *testing.T) {
	st := testGuildSettings()
	st.GamemodeQueues["uhc"] = []domain.GamemodeQueue{{ChannelID: "chan-uhc-eu", Region: "eu"}}

	key, err := ResolveBucket(st, "chan-uhc-eu")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if key.Region != "eu" || key.Gamemode != "uhc" {
		t.Fatalf("want eu/uhc, got %v", key)
	}
}

func TestResolveBucketBindingRegionOverridesBareMatch(t *testing.T) {
	st := testGuildSettings()
	// channel is the NA region queue but also bound to uhc in EU
	st.GamemodeQueues["uhc"] = []domain.GamemodeQueue{{ChannelID: "chan-na", Region: "eu"}}

	key, err := ResolveBucket(st, "chan-na")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if key.Region != "eu" || key.Gamemode != "uhc" {
		t.Fatalf("binding region must win: got %v", key)
	}
}

func TestResolveBucketDeterministicOnDoubleBinding(t *testing.T) {
	st := testGuildSettings()
	st.GamemodeQueues["uhc"] = []domain.GamemodeQueue{{ChannelID: "chan-x", Region: "eu"}}
	st.GamemodeQueues["crystal_pvp"] = []domain.GamemodeQueue{{ChannelID: "chan-x", Region: "na"}}

	for i := 0; i < 20; i++ {
		key, err := ResolveBucket(st, "chan-x")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		// sorted gamemode scan: crystal_pvp < uhc
		if key.Gamemode != "crystal_pvp" || key.Region != "na" {
			t.Fatalf("iteration %d: got %v", i, key)
		}
	}
}

func TestResolveBucketUnboundChannel(t *testing.T) {
	st := testGuildSettings()
	if _, err := ResolveBucket(st, "chan-random"); !errors.Is(err, domain.ErrNotQueueChannel) {
		t.Fatalf("want ErrNotQueueChannel, got %v", err)
	}
	if _, err := ResolveBucket(st, ""); !errors.Is(err, domain.ErrNotQueueChannel) {
		t.Fatalf("empty channel: want ErrNotQueueChannel, got %v", err)
	}
	if _, err := ResolveBucket(nil, "chan-eu"); !errors.Is(err, domain.ErrNotQueueChannel) {
		t.Fatalf("nil settings: want ErrNotQueueChannel, got %v", err)
	}
}
