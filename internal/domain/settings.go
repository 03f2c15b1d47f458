package domain

// Regions and gamemodes the setup commands accept. "default" is not listed;
// it is the implicit fallback lane.
var (
	Regions = []string{"as", "eu", "na"}

	Gamemodes = []string{
		"crystal_pvp", "axe_pvp", "diamond_pot", "netherite_pot",
		"uhc", "vanilla", "sword", "pot", "smp", "axe",
	}
)

func ValidRegion(r string) bool {
	if r == DefaultLane {
		return true
	}
	for _, v := range Regions {
		if v == r {
			return true
		}
	}
	return false
}

func ValidGamemode(g string) bool {
	for _, v := range Gamemodes {
		if v == g {
			return true
		}
	}
	return false
}

// GamemodeQueue binds one channel to a gamemode queue for a region.
type GamemodeQueue struct {
	ChannelID string
	Region    string
}

// GuildSettings is the per-guild configuration written by /setup and read by
// the resolver and the queue engine.
type GuildSettings struct {
	GuildID string

	TesterRole   string
	AdminRole    string
	CooldownRole string

	// Categories maps gamemode -> ticket category; the "default" entry is the
	// fallback for sessions without a gamemode-specific category.
	Categories          map[string]string
	DefaultQueueChannel string
	RegionQueues        map[string]string // region -> queue channel
	GamemodeQueues      map[string][]GamemodeQueue

	ServerName string
	ServerIcon string
}

func NewGuildSettings(guildID string) *GuildSettings {
	return &GuildSettings{
		GuildID:        guildID,
		Categories:     map[string]string{},
		RegionQueues:   map[string]string{},
		GamemodeQueues: map[string][]GamemodeQueue{},
	}
}

// SetupComplete is derived, never stored: tester role, default category,
// default queue channel and a display name must all be set.
func (s *GuildSettings) SetupComplete() bool {
	return len(s.MissingSetup()) == 0
}

// MissingSetup returns the checklist shown to admins while setup is partial.
func (s *GuildSettings) MissingSetup() []string {
	var missing []string
	if s.TesterRole == "" {
		missing = append(missing, "Tester role (`/setup roles`)")
	}
	if s.Categories[DefaultLane] == "" {
		missing = append(missing, "Default category (`/setup channels`)")
	}
	if s.DefaultQueueChannel == "" {
		missing = append(missing, "Default queue channel (`/setup channels`)")
	}
	if s.ServerName == "" {
		missing = append(missing, "Server name (`/setup server`)")
	}
	return missing
}

// TicketCategory picks the category for a session channel: gamemode-specific
// when configured, else the default category.
func (s *GuildSettings) TicketCategory(gamemode string) string {
	if gamemode != DefaultLane {
		if id := s.Categories[gamemode]; id != "" {
			return id
		}
	}
	return s.Categories[DefaultLane]
}
