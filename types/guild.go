package types

import "time"

// Guild is one in-game guild (the inner tenant unit). Every guild belongs to
// exactly one Discord server; a guild whose DiscordServerID is empty is
// orphaned and unreachable by role-based access checks.
type Guild struct {
	ID              string `json:"id"`
	DiscordServerID string `json:"discordServerId"`
	Title           string `json:"title"`
	MaxMembers      int    `json:"maxMembers"`

	// Authority configuration. Role ids are opaque Discord snowflakes,
	// compared by exact string match.
	LeaderID        string   `json:"leaderId,omitempty"`
	OfficerRoleIDs  []string `json:"officerRoleIds"`
	AccessRoleIDs   []string `json:"accessRoleIds"`
	DefaultRoleID   string   `json:"defaultRoleId,omitempty"`
	BotAdminRoleIDs []string `json:"botAdminRoleIds"`

	// Bot configuration for this guild.
	BotChannelIDs          []string `json:"botChannelIds"`
	OrderChannelIDs        []string `json:"orderChannelIds"`
	AutoUpdateEmbeds       bool     `json:"autoUpdateEmbeds"`
	NotifyOnWebsiteChanges bool     `json:"notifyOnWebsiteChanges"`
	OrderFulfillmentBonus  int      `json:"orderFulfillmentBonus"`
	WebsiteBonusPercentage int      `json:"websiteBonusPercentage"`
	AllowPublicOrders      bool     `json:"allowPublicOrders"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GuildConfigUpdate carries the bot-configuration fields an administrator may
// change. Nil pointer fields are left untouched.
type GuildConfigUpdate struct {
	BotChannelIDs          *[]string `json:"botChannelIds,omitempty"`
	OrderChannelIDs        *[]string `json:"orderChannelIds,omitempty"`
	BotAdminRoleIDs        *[]string `json:"botAdminRoleIds,omitempty"`
	AutoUpdateEmbeds       *bool     `json:"autoUpdateEmbeds,omitempty"`
	NotifyOnWebsiteChanges *bool     `json:"notifyOnWebsiteChanges,omitempty"`
	OrderFulfillmentBonus  *int      `json:"orderFulfillmentBonus,omitempty"`
	WebsiteBonusPercentage *int      `json:"websiteBonusPercentage,omitempty"`
	AllowPublicOrders      *bool     `json:"allowPublicOrders,omitempty"`
}
