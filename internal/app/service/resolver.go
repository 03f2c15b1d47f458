package service

import (
	"sort"

	"github.com/kaydenwl/tiertest-bot/internal/domain"
)

// ResolveBucket maps an originating channel to its queue bucket.
//
// Precedence, most specific first:
//  1. the default queue channel -> default/default
//  2. a gamemode queue binding  -> that gamemode, plus the binding's region
//     (or the bare region match, or "default", when the binding has none)
//  3. a bare region queue channel -> that region, gamemode "default"
//
// A channel bound more than once (misconfiguration) resolves deterministically:
// regions and gamemodes are scanned in sorted order and the first match per
// category wins.
func ResolveBucket(st *domain.GuildSettings, channelID string) (domain.BucketKey, error) {
	if channelID == "" || st == nil {
		return domain.BucketKey{}, domain.ErrNotQueueChannel
	}
	if channelID == st.DefaultQueueChannel {
		return domain.NewBucketKey(st.GuildID, domain.DefaultLane, domain.DefaultLane), nil
	}

	region := ""
	for _, reg := range sortedKeys(st.RegionQueues) {
		if st.RegionQueues[reg] == channelID {
			region = reg
			break
		}
	}

	gamemode := ""
	for _, gm := range sortedKeys(st.GamemodeQueues) {
		for _, q := range st.GamemodeQueues[gm] {
			if q.ChannelID != channelID {
				continue
			}
			gamemode = gm
			if q.Region != "" {
				region = q.Region
			}
			break
		}
		if gamemode != "" {
			break
		}
	}

	if region == "" && gamemode == "" {
		return domain.BucketKey{}, domain.ErrNotQueueChannel
	}
	return domain.NewBucketKey(st.GuildID, region, gamemode), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
