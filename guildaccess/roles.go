// Package guildaccess implements the guild access and permission resolution
// engine: pure functions that classify a user's Discord roles and server
// authority against an in-game guild's configuration and produce the
// capability set every privileged endpoint branches on.
//
// The engine performs no I/O of its own beyond reading guild rows through the
// Registry interface; identity data comes from the session snapshot captured
// at login. All resolution functions are safe for concurrent use.
package guildaccess

import (
	"github.com/guildgamesh/guildgamesh-backend/types"
)

// ResolveGuildTier classifies a user's role list against one guild's
// configuration. First match wins, highest tier first:
//
//  1. guild leader id matches the user -> leader
//  2. any officer role held           -> officer
//  3. any access role or the guild's configured default role held -> member
//  4. otherwise                       -> none
//
// Role ids are opaque strings compared exactly; the caller must pass the
// roles the user holds on the guild's own Discord server.
func ResolveGuildTier(guild *types.Guild, userID string, rolesOnGuildServer []string) types.MembershipTier {
	if guild.LeaderID != "" && guild.LeaderID == userID {
		return types.TierLeader
	}

	if anyRoleMatch(rolesOnGuildServer, guild.OfficerRoleIDs) {
		return types.TierOfficer
	}

	if anyRoleMatch(rolesOnGuildServer, guild.AccessRoleIDs) {
		return types.TierMember
	}
	if guild.DefaultRoleID != "" && holdsRole(rolesOnGuildServer, guild.DefaultRoleID) {
		return types.TierMember
	}

	return types.TierNone
}

// anyRoleMatch reports whether any held role id appears in the configured set.
func anyRoleMatch(held []string, configured []string) bool {
	if len(held) == 0 || len(configured) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(configured))
	for _, id := range configured {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	for _, id := range held {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

func holdsRole(held []string, roleID string) bool {
	for _, id := range held {
		if id == roleID {
			return true
		}
	}
	return false
}
