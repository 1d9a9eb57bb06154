package redis

import "fmt"

// Key prefix for all competition data
const keyPrefix = "descomp"

// Key generation functions for each entity type

// timesKey returns the Redis key for a trail's sorted set of best times
func timesKey(trail string) string {
	return fmt.Sprintf("%s:times:%s", keyPrefix, trail)
}

// runKey returns the Redis key for a player's best run on a trail
func runKey(trail, steamID string) string {
	return fmt.Sprintf("%s:run:%s:%s", keyPrefix, trail, steamID)
}

// aliasKey returns the Redis key for the steam_id -> display name alias
func aliasKey(steamID string) string {
	return fmt.Sprintf("%s:alias:%s", keyPrefix, steamID)
}

// profileKey returns the Redis key for a player profile
func profileKey(steamID string) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, steamID)
}

// banKey returns the Redis key for a player's ban status
func banKey(steamID string) string {
	return fmt.Sprintf("%s:ban:%s", keyPrefix, steamID)
}

// trailSpeedKey returns the Redis key for a trail's maximum start speed
func trailSpeedKey(trail string) string {
	return fmt.Sprintf("%s:trail:%s:max_start_speed", keyPrefix, trail)
}

// worldBikeKey returns the Redis key for a world's start bike
func worldBikeKey(world string) string {
	return fmt.Sprintf("%s:world:%s:start_bike", keyPrefix, world)
}

// ipsKey returns the Redis key for the LIST of addresses seen for a player
func ipsKey(steamID string) string {
	return fmt.Sprintf("%s:ips:%s", keyPrefix, steamID)
}

// sessionsKey returns the Redis key for the LIST of a player's past sessions
func sessionsKey(steamID string) string {
	return fmt.Sprintf("%s:sessions:%s", keyPrefix, steamID)
}

// medalsKey returns the Redis key for a player's medals on a trail
func medalsKey(steamID, trail string) string {
	return fmt.Sprintf("%s:medals:%s:%s", keyPrefix, steamID, trail)
}
