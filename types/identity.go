package types

// IdentityContext is the authenticated caller as seen by the permission
// engine: a stable user id plus per-Discord-server membership, ownership,
// ADMINISTRATOR status, and role lists. It is built once per request from the
// session snapshot captured at login; no Discord API call happens here.
//
// The zero value means "belongs to no servers, holds no roles".
type IdentityContext struct {
	UserID                 string              `json:"userId"`
	MemberServerIDs        []string            `json:"memberServerIds"`
	OwnedServerIDs         []string            `json:"ownedServerIds"`
	AdministratorServerIDs []string            `json:"administratorServerIds"`
	RolesByServer          map[string][]string `json:"rolesByServer"`
}

// NewIdentityContext builds an IdentityContext and normalizes it so that
// owned and administrator server ids are always a subset of the member set.
// Upstream session data occasionally records ownership of a server the
// member list missed; membership is implied by either flag.
func NewIdentityContext(userID string, memberIDs, ownedIDs, adminIDs []string, rolesByServer map[string][]string) IdentityContext {
	member := make(map[string]struct{}, len(memberIDs))
	all := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		if _, seen := member[id]; seen {
			continue
		}
		member[id] = struct{}{}
		all = append(all, id)
	}
	for _, id := range append(append([]string{}, ownedIDs...), adminIDs...) {
		if _, seen := member[id]; !seen {
			member[id] = struct{}{}
			all = append(all, id)
		}
	}
	if rolesByServer == nil {
		rolesByServer = map[string][]string{}
	}
	return IdentityContext{
		UserID:                 userID,
		MemberServerIDs:        all,
		OwnedServerIDs:         ownedIDs,
		AdministratorServerIDs: adminIDs,
		RolesByServer:          rolesByServer,
	}
}

// IsMemberOf reports whether the user belongs to the given Discord server.
func (i IdentityContext) IsMemberOf(serverID string) bool {
	return containsID(i.MemberServerIDs, serverID)
}

// OwnsServer reports whether the user is the owner of the given Discord server.
func (i IdentityContext) OwnsServer(serverID string) bool {
	return containsID(i.OwnedServerIDs, serverID)
}

// IsAdministratorOf reports whether the user holds the ADMINISTRATOR
// permission on the given Discord server. The bit itself is decoded upstream;
// here it is just a precomputed membership set.
func (i IdentityContext) IsAdministratorOf(serverID string) bool {
	return containsID(i.AdministratorServerIDs, serverID)
}

// RolesOn returns the role ids the user holds on the given Discord server.
// Returns nil for servers the session recorded no roles for.
func (i IdentityContext) RolesOn(serverID string) []string {
	return i.RolesByServer[serverID]
}

func containsID(ids []string, id string) bool {
	if id == "" {
		return false
	}
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
