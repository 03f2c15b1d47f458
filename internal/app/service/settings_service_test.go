package service

import (
	"context"
	"errors"
	"testing"

	"github.com/kaydenwl/tiertest-bot/internal/domain"
)

func TestSettingsGetInitializesFresh(t *testing.T) {
	svc := NewSettingsService(newFakeSettingsRepo())
	st, err := svc.Get(context.Background(), "g-new")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if st.GuildID != "g-new" || st.SetupComplete() {
		t.Fatalf("fresh settings wrong: %+v", st)
	}
}

func TestRequireCompleteGates(t *testing.T) {
	repo := newFakeSettingsRepo(testGuildSettings())
	svc := NewSettingsService(repo)
	ctx := context.Background()

	if _, err := svc.RequireComplete(ctx, "g1"); err != nil {
		t.Fatalf("complete guild rejected: %v", err)
	}

	var incomplete *domain.SetupIncompleteError
	if _, err := svc.RequireComplete(ctx, "g-unconfigured"); !errors.As(err, &incomplete) {
		t.Fatalf("want SetupIncompleteError, got %v", err)
	}
}

func TestSetRolesKeepsOptionalFields(t *testing.T) {
	repo := newFakeSettingsRepo(testGuildSettings())
	svc := NewSettingsService(repo)

	st, err := svc.SetRoles(context.Background(), "g1", "role-new-tester", "", "")
	if err != nil {
		t.Fatalf("set roles: %v", err)
	}
	if st.TesterRole != "role-new-tester" {
		t.Fatalf("tester role: %q", st.TesterRole)
	}
	if st.CooldownRole != "role-cooldown" {
		t.Fatalf("empty option must not clear cooldown role: %q", st.CooldownRole)
	}
}

func TestSetChannelsPatchSemantics(t *testing.T) {
	repo := newFakeSettingsRepo(testGuildSettings())
	svc := NewSettingsService(repo)

	st, err := svc.SetChannels(context.Background(), "g1", ChannelsPatch{
		Categories:   map[string]string{"uhc": "cat-uhc", "not_a_mode": "cat-x"},
		RegionQueues: map[string]string{"as": "chan-as", "atlantis": "chan-y"},
	})
	if err != nil {
		t.Fatalf("set channels: %v", err)
	}
	if st.Categories["uhc"] != "cat-uhc" || st.RegionQueues["as"] != "chan-as" {
		t.Fatalf("valid lanes not stored: %+v", st)
	}
	if _, ok := st.Categories["not_a_mode"]; ok {
		t.Fatalf("invalid gamemode stored")
	}
	if _, ok := st.RegionQueues["atlantis"]; ok {
		t.Fatalf("invalid region stored")
	}
	if st.DefaultQueueChannel != "chan-waitlist" {
		t.Fatalf("untouched field changed: %q", st.DefaultQueueChannel)
	}
}

func TestSetServerInfoValidatesIcon(t *testing.T) {
	repo := newFakeSettingsRepo(testGuildSettings())
	svc := NewSettingsService(repo)
	ctx := context.Background()

	if _, err := svc.SetServerInfo(ctx, "g1", "Name", "https://example.com/page.html"); !errors.Is(err, ErrBadIconURL) {
		t.Fatalf("want ErrBadIconURL, got %v", err)
	}
	st, err := svc.SetServerInfo(ctx, "g1", "Name", "https://example.com/icon.PNG")
	if err != nil {
		t.Fatalf("valid icon rejected: %v", err)
	}
	if st.ServerIcon == "" || st.ServerName != "Name" {
		t.Fatalf("server info not stored: %+v", st)
	}
}

func TestToggleGamemodeQueue(t *testing.T) {
	base := testGuildSettings()
	base.Categories["uhc"] = "cat-uhc"
	svc := NewSettingsService(newFakeSettingsRepo(base))
	ctx := context.Background()

	added, err := svc.ToggleGamemodeQueue(ctx, "g1", "uhc", "eu", "chan-uhc")
	if err != nil || !added {
		t.Fatalf("add: %v %v", added, err)
	}
	// same binding toggles off
	added, err = svc.ToggleGamemodeQueue(ctx, "g1", "uhc", "eu", "chan-uhc")
	if err != nil || added {
		t.Fatalf("remove: %v %v", added, err)
	}
	if len(base.GamemodeQueues["uhc"]) != 0 {
		t.Fatalf("binding not removed: %+v", base.GamemodeQueues)
	}

	if _, err := svc.ToggleGamemodeQueue(ctx, "g1", "sword", "eu", "chan-s"); !errors.Is(err, ErrNoGamemodeCategory) {
		t.Fatalf("want ErrNoGamemodeCategory, got %v", err)
	}
	if _, err := svc.ToggleGamemodeQueue(ctx, "g1", "bedwars", "eu", "c"); !errors.Is(err, ErrUnknownGamemode) {
		t.Fatalf("want ErrUnknownGamemode, got %v", err)
	}
	if _, err := svc.ToggleGamemodeQueue(ctx, "g1", "uhc", "mars", "c"); !errors.Is(err, ErrUnknownRegion) {
		t.Fatalf("want ErrUnknownRegion, got %v", err)
	}
}

func TestResetKeepsIdentityOnly(t *testing.T) {
	repo := newFakeSettingsRepo(testGuildSettings())
	svc := NewSettingsService(repo)

	st, err := svc.Reset(context.Background(), "g1", "Guild Name", "https://cdn.example.com/icon.png")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if st.ServerName != "Guild Name" || st.ServerIcon == "" {
		t.Fatalf("identity not kept: %+v", st)
	}
	if st.TesterRole != "" || st.DefaultQueueChannel != "" {
		t.Fatalf("reset must wipe configuration: %+v", st)
	}

	// reset of a guild with no row is still fine
	if _, err := svc.Reset(context.Background(), "g-none", "N", ""); err != nil {
		t.Fatalf("reset fresh guild: %v", err)
	}
}

func TestGamemodeChannelsFor(t *testing.T) {
	st := testGuildSettings()
	st.GamemodeQueues["uhc"] = []domain.GamemodeQueue{
		{ChannelID: "c-eu-1", Region: "eu"},
		{ChannelID: "c-na", Region: "na"},
		{ChannelID: "c-eu-2", Region: "eu"},
	}
	got := GamemodeChannelsFor(st, "uhc", "eu")
	if len(got) != 2 || got[0] != "c-eu-1" || got[1] != "c-eu-2" {
		t.Fatalf("channels: %v", got)
	}
	if got := GamemodeChannelsFor(st, "sword", "eu"); got != nil {
		t.Fatalf("unbound gamemode: %v", got)
	}
}
