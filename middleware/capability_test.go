package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/guildgamesh/guildgamesh-backend/guildaccess"
	"github.com/guildgamesh/guildgamesh-backend/store"
	"github.com/guildgamesh/guildgamesh-backend/types"
)

type stubRegistry struct {
	guilds map[string]*types.Guild
}

func (s *stubRegistry) GetGuild(_ context.Context, id string) (*types.Guild, error) {
	g, ok := s.guilds[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return g, nil
}

func (s *stubRegistry) ListGuildsByServer(_ context.Context, serverID string) ([]*types.Guild, error) {
	var out []*types.Guild
	for _, g := range s.guilds {
		if g.DiscordServerID == serverID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *stubRegistry) ListGuildIDs(_ context.Context) ([]string, error) {
	var ids []string
	for id := range s.guilds {
		ids = append(ids, id)
	}
	return ids, nil
}

func setupCapabilityRouter(selector CapabilitySelector) *gin.Engine {
	gin.SetMode(gin.TestMode)

	registry := &stubRegistry{guilds: map[string]*types.Guild{
		"guild-1": {
			ID:              "guild-1",
			DiscordServerID: "server-1",
			DefaultRoleID:   "role-member",
			OfficerRoleIDs:  []string{"role-officer"},
		},
	}}
	engine := guildaccess.NewEngine(registry, "")

	r := gin.New()
	r.Use(ErrorHandler())
	r.Use(func(c *gin.Context) {
		// Stand-in for AuthMiddleware in these tests
		identity := types.NewIdentityContext(
			"user-1",
			[]string{"server-1"},
			nil,
			nil,
			map[string][]string{"server-1": {"role-member"}},
		)
		c.Set(string(UserIDKey), identity.UserID)
		c.Set(string(IdentityKey), identity)
		c.Next()
	})
	r.GET("/guilds/:guildId", RequireCapability(engine, selector), func(c *gin.Context) {
		caps, _ := GetCapabilities(c)
		c.JSON(http.StatusOK, gin.H{"tier": caps.Tier})
	})
	return r
}

func TestRequireCapabilityAllowsGrantedCapability(t *testing.T) {
	r := setupCapabilityRouter(CanView)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guilds/guild-1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(types.TierMember))
}

func TestRequireCapabilityDeniesMissingCapability(t *testing.T) {
	r := setupCapabilityRouter(CanManageResource)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guilds/guild-1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireCapabilityUnknownGuildIs404(t *testing.T) {
	r := setupCapabilityRouter(CanView)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guilds/no-such-guild", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
