package guildaccess

import (
	"github.com/guildgamesh/guildgamesh-backend/types"
)

// ResolveServerAuthority classifies an identity against one Discord server.
// Authority is strictly scoped to serverID: only the roles the identity holds
// on that server and the bot-admin roles configured for that server are
// consulted. A role id that happens to be a bot-admin role on some other
// server must never count here — role ids are plain strings with no inherent
// server affinity, so the scoping is what prevents cross-tenant leakage.
//
// Server owners and ADMINISTRATOR holders are always bot admins.
func ResolveServerAuthority(identity types.IdentityContext, serverID string, botAdminRoleIDs []string) types.ServerAuthority {
	auth := types.ServerAuthority{
		IsOwner:         identity.OwnsServer(serverID),
		IsAdministrator: identity.IsAdministratorOf(serverID),
	}

	auth.IsBotAdmin = auth.IsOwner || auth.IsAdministrator ||
		anyRoleMatch(identity.RolesOn(serverID), botAdminRoleIDs)

	return auth
}
