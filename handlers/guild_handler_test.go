package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildgamesh/guildgamesh-backend/guildaccess"
	"github.com/guildgamesh/guildgamesh-backend/middleware"
	"github.com/guildgamesh/guildgamesh-backend/store"
	"github.com/guildgamesh/guildgamesh-backend/types"
)

type stubGuildStore struct {
	guilds  map[string]*types.Guild
	deleted []string
}

func newStubGuildStore(guilds ...*types.Guild) *stubGuildStore {
	m := make(map[string]*types.Guild, len(guilds))
	for _, g := range guilds {
		m[g.ID] = g
	}
	return &stubGuildStore{guilds: m}
}

func (s *stubGuildStore) GetGuild(_ context.Context, id string) (*types.Guild, error) {
	g, ok := s.guilds[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return g, nil
}

func (s *stubGuildStore) ListGuildsByServer(_ context.Context, serverID string) ([]*types.Guild, error) {
	var out []*types.Guild
	for _, g := range s.guilds {
		if g.DiscordServerID == serverID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *stubGuildStore) ListGuildIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(s.guilds))
	for id := range s.guilds {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *stubGuildStore) CreateGuild(_ context.Context, guild *types.Guild) error {
	s.guilds[guild.ID] = guild
	return nil
}

func (s *stubGuildStore) UpdateGuildConfig(_ context.Context, id string, update *types.GuildConfigUpdate) (*types.Guild, error) {
	g, ok := s.guilds[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if update.BotAdminRoleIDs != nil {
		g.BotAdminRoleIDs = *update.BotAdminRoleIDs
	}
	if update.AutoUpdateEmbeds != nil {
		g.AutoUpdateEmbeds = *update.AutoUpdateEmbeds
	}
	return g, nil
}

func (s *stubGuildStore) SetDefaultRole(_ context.Context, id string, roleID string) error {
	g, ok := s.guilds[id]
	if !ok {
		return store.ErrNotFound
	}
	g.DefaultRoleID = roleID
	return nil
}

func (s *stubGuildStore) DeleteGuild(_ context.Context, id string) error {
	if _, ok := s.guilds[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.guilds, id)
	s.deleted = append(s.deleted, id)
	return nil
}

var _ store.GuildStore = (*stubGuildStore)(nil)

func testGuild() *types.Guild {
	return &types.Guild{
		ID:              "g1",
		DiscordServerID: "s1",
		Title:           "Iron Vanguard",
		LeaderID:        "leader-user",
		OfficerRoleIDs:  []string{"role-officer"},
		AccessRoleIDs:   []string{"role-access"},
		BotAdminRoleIDs: []string{"role-bot-admin"},
	}
}

func identityFor(userID string, roles ...string) types.IdentityContext {
	return types.NewIdentityContext(userID, []string{"s1"}, nil, nil,
		map[string][]string{"s1": roles})
}

func setupGuildRouter(guilds *stubGuildStore, identity types.IdentityContext) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := guildaccess.NewEngine(guilds, "super-admin-user")
	h := NewGuildHandler(guilds, engine)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(func(c *gin.Context) {
		c.Set(string(middleware.UserIDKey), identity.UserID)
		c.Set(string(middleware.IdentityKey), identity)
	})

	r.GET("/guilds", h.ListGuildsHandler)
	r.POST("/guilds", h.CreateGuildHandler)
	r.GET("/guilds/:guildId/permissions", h.GetPermissionsHandler)
	r.DELETE("/guilds/:guildId", middleware.RequireCapability(engine, middleware.CanDeleteGuild), h.DeleteGuildHandler)
	r.PUT("/guilds/:guildId/config", h.UpdateConfigHandler)
	r.PUT("/guilds/:guildId/default-role", h.SetDefaultRoleHandler)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetPermissionsAccessRoleMember(t *testing.T) {
	r := setupGuildRouter(newStubGuildStore(testGuild()), identityFor("u2", "role-access"))

	w := doJSON(t, r, http.MethodGet, "/guilds/g1/permissions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "g1", resp["guildId"])
	assert.Equal(t, "MEMBER", resp["tier"])
	assert.Equal(t, true, resp["canView"])
	assert.Equal(t, true, resp["canUpdateQuantity"])
	assert.Equal(t, false, resp["canManageResource"])
	assert.Equal(t, false, resp["canDeleteGuild"])
}

func TestGetPermissionsServerOwner(t *testing.T) {
	owner := types.NewIdentityContext("u3", []string{"s1"}, []string{"s1"}, nil, nil)
	r := setupGuildRouter(newStubGuildStore(testGuild()), owner)

	w := doJSON(t, r, http.MethodGet, "/guilds/g1/permissions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "LEADER", resp["tier"])
	assert.Equal(t, true, resp["isServerOwner"])
	assert.Equal(t, true, resp["canDeleteGuild"])
}

func TestGetPermissionsNoAccessIsStillOK(t *testing.T) {
	r := setupGuildRouter(newStubGuildStore(testGuild()), identityFor("u9"))

	w := doJSON(t, r, http.MethodGet, "/guilds/g1/permissions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NONE", resp["tier"])
	assert.Equal(t, false, resp["canView"])
}

func TestGetPermissionsUnknownGuild(t *testing.T) {
	r := setupGuildRouter(newStubGuildStore(testGuild()), identityFor("u2", "role-access"))

	w := doJSON(t, r, http.MethodGet, "/guilds/nope/permissions", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "GUILD_NOT_FOUND", resp["type"])
}

func TestListGuildsFiltersByAccess(t *testing.T) {
	other := testGuild()
	other.ID = "g2"
	other.DiscordServerID = "s2"
	r := setupGuildRouter(newStubGuildStore(testGuild(), other), identityFor("u2", "role-access"))

	w := doJSON(t, r, http.MethodGet, "/guilds", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var guilds []types.Guild
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &guilds))
	require.Len(t, guilds, 1)
	assert.Equal(t, "g1", guilds[0].ID)
}

func TestListGuildsZeroServersIsEmptyList(t *testing.T) {
	identity := types.NewIdentityContext("u7", nil, nil, nil, nil)
	r := setupGuildRouter(newStubGuildStore(testGuild()), identity)

	w := doJSON(t, r, http.MethodGet, "/guilds", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestDeleteGuildRequiresServerAuthority(t *testing.T) {
	guilds := newStubGuildStore(testGuild())
	// The guild leader holds TierLeader but no server-level authority.
	r := setupGuildRouter(guilds, identityFor("leader-user"))

	w := doJSON(t, r, http.MethodDelete, "/guilds/g1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, guilds.deleted)
}

func TestDeleteGuildAsOwner(t *testing.T) {
	guilds := newStubGuildStore(testGuild())
	owner := types.NewIdentityContext("u3", []string{"s1"}, []string{"s1"}, nil, nil)
	r := setupGuildRouter(guilds, owner)

	w := doJSON(t, r, http.MethodDelete, "/guilds/g1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"g1"}, guilds.deleted)
}

func TestUpdateConfigPartialUpdate(t *testing.T) {
	guilds := newStubGuildStore(testGuild())
	r := setupGuildRouter(guilds, identityFor("u2", "role-bot-admin"))

	w := doJSON(t, r, http.MethodPut, "/guilds/g1/config", gin.H{
		"botAdminRoleIds": []string{"role-bot-admin", "role-extra"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.Guild
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"role-bot-admin", "role-extra"}, resp.BotAdminRoleIDs)
	// Untouched fields keep their values.
	assert.Equal(t, []string{"role-access"}, resp.AccessRoleIDs)
}

func TestSetDefaultRoleRejectsMissingRoleID(t *testing.T) {
	r := setupGuildRouter(newStubGuildStore(testGuild()), identityFor("u2", "role-bot-admin"))

	w := doJSON(t, r, http.MethodPut, "/guilds/g1/default-role", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateGuildAsServerOwner(t *testing.T) {
	guilds := newStubGuildStore()
	owner := types.NewIdentityContext("u3", []string{"s1"}, []string{"s1"}, nil, nil)
	r := setupGuildRouter(guilds, owner)

	w := doJSON(t, r, http.MethodPost, "/guilds", gin.H{
		"id":              "g-new",
		"discordServerId": "s1",
		"title":           "New Dawn",
		"accessRoleIds":   []string{"role-access"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	created, ok := guilds.guilds["g-new"]
	require.True(t, ok)
	assert.Equal(t, "s1", created.DiscordServerID)
	assert.Equal(t, "New Dawn", created.Title)
	assert.Equal(t, []string{"role-access"}, created.AccessRoleIDs)
}

func TestCreateGuildRequiresServerAuthority(t *testing.T) {
	guilds := newStubGuildStore()
	// Plain member of s1, no ownership or ADMINISTRATOR.
	r := setupGuildRouter(guilds, identityFor("u2", "role-access"))

	w := doJSON(t, r, http.MethodPost, "/guilds", gin.H{
		"id":              "g-new",
		"discordServerId": "s1",
		"title":           "New Dawn",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, guilds.guilds)
}

func TestCreateGuildAuthorityIsScopedToTargetServer(t *testing.T) {
	guilds := newStubGuildStore()
	// Owner of s2 must not register guilds onto s1.
	owner := types.NewIdentityContext("u3", []string{"s1", "s2"}, []string{"s2"}, nil, nil)
	r := setupGuildRouter(guilds, owner)

	w := doJSON(t, r, http.MethodPost, "/guilds", gin.H{
		"id":              "g-new",
		"discordServerId": "s1",
		"title":           "New Dawn",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateGuildDuplicateID(t *testing.T) {
	guilds := newStubGuildStore(testGuild())
	owner := types.NewIdentityContext("u3", []string{"s1"}, []string{"s1"}, nil, nil)
	r := setupGuildRouter(guilds, owner)

	w := doJSON(t, r, http.MethodPost, "/guilds", gin.H{
		"id":              "g1",
		"discordServerId": "s1",
		"title":           "Duplicate",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateGuildRejectsMissingFields(t *testing.T) {
	owner := types.NewIdentityContext("u3", []string{"s1"}, []string{"s1"}, nil, nil)
	r := setupGuildRouter(newStubGuildStore(), owner)

	w := doJSON(t, r, http.MethodPost, "/guilds", gin.H{"title": "No IDs"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetDefaultRole(t *testing.T) {
	guilds := newStubGuildStore(testGuild())
	r := setupGuildRouter(guilds, identityFor("u2", "role-bot-admin"))

	w := doJSON(t, r, http.MethodPut, "/guilds/g1/default-role", gin.H{"roleId": "role-member"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "role-member", guilds.guilds["g1"].DefaultRoleID)
}
