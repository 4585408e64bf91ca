package guildaccess

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resolution counters, labelled by the effective tier of the verdict. Denials
// are the common path for most users on most guilds, so they are counted
// rather than logged per-occurrence.
var (
	resolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "guildaccess_resolutions_total",
		Help: "Capability resolutions performed, by effective tier.",
	}, []string{"tier"})

	superAdminResolutions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guildaccess_super_admin_resolutions_total",
		Help: "Resolutions short-circuited by the super-admin override.",
	})

	orphanedGuildResolutions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guildaccess_orphaned_guild_resolutions_total",
		Help: "Resolutions against guilds with no Discord server binding.",
	})
)
