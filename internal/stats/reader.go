// Package stats aggregates the slow-moving per-player statistics Minecraft
// writes to the world directory (blocks mined, distance travelled, native
// playtime) into ranked leaderboards. Files are fetched over the remote
// shell and parsed here; results live in an in-memory snapshot refreshed by
// a background loop.
package stats

import (
	"encoding/json"
	"fmt"
)

// PlayerStats is the parsed content of one world/stats/<uuid>.json file.
type PlayerStats struct {
	BlocksMined     int64
	DistanceCM      int64
	PlaytimeSeconds int64
}

// userCacheEntry is one element of usercache.json.
type userCacheEntry struct {
	Name string `json:"name"`
	UUID string `json:"uuid"`
}

// ParseUserCache parses usercache.json into a name-to-UUID map.
// Entries missing either field are skipped.
func ParseUserCache(data []byte) (map[string]string, error) {
	var entries []userCacheEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse usercache.json: %w", err)
	}
	mapping := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Name != "" && e.UUID != "" {
			mapping[e.Name] = e.UUID
		}
	}
	return mapping, nil
}

// statsFile mirrors the slices of the stats JSON we read.
type statsFile struct {
	Stats struct {
		Mined  map[string]int64 `json:"minecraft:mined"`
		Custom map[string]int64 `json:"minecraft:custom"`
	} `json:"stats"`
}

// Movement stats summed into distance travelled, all in centimeters.
var distanceKeys = []string{
	"minecraft:walk_one_cm",
	"minecraft:sprint_one_cm",
	"minecraft:fly_one_cm",
	"minecraft:swim_one_cm",
	"minecraft:climb_one_cm",
}

// ParsePlayerStats parses a world/stats/<uuid>.json file.
//
// Blocks mined is the sum of every minecraft:mined counter. Distance is the
// sum of the movement counters in centimeters. Playtime comes from
// minecraft:play_time (1.17+) in ticks, falling back to the pre-1.17
// minecraft:play_one_minute key; 20 ticks per second.
func ParsePlayerStats(data []byte) (PlayerStats, error) {
	var f statsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return PlayerStats{}, fmt.Errorf("parse stats file: %w", err)
	}

	var ps PlayerStats
	for _, v := range f.Stats.Mined {
		ps.BlocksMined += v
	}
	for _, key := range distanceKeys {
		ps.DistanceCM += f.Stats.Custom[key]
	}

	ticks, ok := f.Stats.Custom["minecraft:play_time"]
	if !ok {
		ticks = f.Stats.Custom["minecraft:play_one_minute"]
	}
	ps.PlaytimeSeconds = ticks / 20

	return ps, nil
}
