package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIdentityContextNormalizesMembership(t *testing.T) {
	identity := NewIdentityContext(
		"u1",
		[]string{"s1", "s1", "s2"},
		[]string{"s3"},
		[]string{"s2", "s4"},
		nil,
	)

	assert.ElementsMatch(t, []string{"s1", "s2", "s3", "s4"}, identity.MemberServerIDs)
	assert.True(t, identity.IsMemberOf("s3"))
	assert.True(t, identity.OwnsServer("s3"))
	assert.True(t, identity.IsAdministratorOf("s4"))
	assert.False(t, identity.OwnsServer("s1"))
	assert.NotNil(t, identity.RolesByServer)
}

func TestIdentityContextEmptyServerIDNeverMatches(t *testing.T) {
	identity := NewIdentityContext("u1", []string{""}, nil, nil, nil)

	assert.False(t, identity.IsMemberOf(""))
	assert.False(t, identity.OwnsServer(""))
}

func TestRolesOnUnknownServerIsNil(t *testing.T) {
	identity := NewIdentityContext("u1", []string{"s1"}, nil, nil,
		map[string][]string{"s1": {"r1"}})

	assert.Equal(t, []string{"r1"}, identity.RolesOn("s1"))
	assert.Nil(t, identity.RolesOn("s2"))
}
