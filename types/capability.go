package types

// ServerAuthority is the Discord-server-scoped authority of a user,
// independent of any single in-game guild.
type ServerAuthority struct {
	IsOwner         bool `json:"isOwner"`
	IsAdministrator bool `json:"isAdministrator"`
	IsBotAdmin      bool `json:"isBotAdmin"`
}

// CapabilitySet is the resolved, per-guild verdict returned by the access
// engine. It is ephemeral: computed fresh on every check, never persisted.
type CapabilitySet struct {
	GuildID string          `json:"guildId"`
	Tier    MembershipTier  `json:"tier"`
	Server  ServerAuthority `json:"server"`

	IsSuperAdmin bool `json:"isSuperAdmin"`

	CanView             bool `json:"canView"`
	CanUpdateQuantity   bool `json:"canUpdateQuantity"`
	CanManageResource   bool `json:"canManageResource"`
	CanEditTarget       bool `json:"canEditTarget"`
	CanAdministerConfig bool `json:"canAdministerConfig"`
	CanDeleteGuild      bool `json:"canDeleteGuild"`
}

// NoAccess returns the empty capability set for a guild: tier none, no server
// authority, every derived capability false. This is the normal "denied"
// value — denial is never an error.
func NoAccess(guildID string) *CapabilitySet {
	return &CapabilitySet{GuildID: guildID, Tier: TierNone}
}
