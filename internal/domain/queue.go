package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultLane is the region/gamemode value for the catch-all queue channel.
const DefaultLane = "default"

// BucketKey identifies one queue partition. Region and gamemode fall back to
// "default" when the channel has no specific binding. Structured on purpose:
// equality is field-wise, no separator ambiguity.
type BucketKey struct {
	GuildID  string
	Region   string
	Gamemode string
}

func NewBucketKey(guildID, region, gamemode string) BucketKey {
	if region == "" {
		region = DefaultLane
	}
	if gamemode == "" {
		gamemode = DefaultLane
	}
	return BucketKey{GuildID: guildID, Region: region, Gamemode: gamemode}
}

// String is the canonical flat form used for logs and checkpoint keys.
// Region and gamemode identifiers never contain '/'.
func (k BucketKey) String() string {
	return k.GuildID + "/" + k.Region + "/" + k.Gamemode
}

func ParseBucketKey(s string) (BucketKey, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return BucketKey{}, fmt.Errorf("bad bucket key %q", s)
	}
	return BucketKey{GuildID: parts[0], Region: parts[1], Gamemode: parts[2]}, nil
}

// Label renders the bucket the way users see it, e.g. "EU (CRYSTAL PVP)".
func (k BucketKey) Label() string {
	l := strings.ToUpper(k.Region)
	if k.Gamemode != DefaultLane {
		l += " (" + strings.ToUpper(strings.ReplaceAll(k.Gamemode, "_", " ")) + ")"
	}
	return l
}

// Bucket is one partition's live state. The queue engine owns all mutation;
// everything handed outside the engine is a copy.
type Bucket struct {
	Key          BucketKey
	IsOpen       bool
	Queue        []string // participant IDs, FIFO, no duplicates
	Testers      []string
	LastSession  *time.Time
	ChannelID    string // channel the tracked queue message lives in
	MessageID    string
	LastNotified string // head already DM'd; dedupe marker
}

func NewBucket(key BucketKey) *Bucket {
	return &Bucket{Key: key, Queue: []string{}, Testers: []string{}}
}

func (b Bucket) InQueue(userID string) bool {
	for _, id := range b.Queue {
		if id == userID {
			return true
		}
	}
	return false
}

func (b *Bucket) IsTester(userID string) bool {
	for _, id := range b.Testers {
		if id == userID {
			return true
		}
	}
	return false
}

func (b *Bucket) Head() (string, bool) {
	if len(b.Queue) == 0 {
		return "", false
	}
	return b.Queue[0], true
}

// Clone returns a deep copy safe to hand to adapters.
func (b *Bucket) Clone() Bucket {
	out := *b
	out.Queue = append([]string{}, b.Queue...)
	out.Testers = append([]string{}, b.Testers...)
	if b.LastSession != nil {
		t := *b.LastSession
		out.LastSession = &t
	}
	return out
}
