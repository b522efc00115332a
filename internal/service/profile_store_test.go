package service

import (
	"testing"

	domainauth "github.com/gpse/sesam-client/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileStore_Lifecycle(t *testing.T) {
	s := NewProfileStore()

	_, ok := s.Current()
	assert.False(t, ok)
	assert.False(t, s.IsAdmin())

	s.Set(&domainauth.Profile{Username: "a@b.com", Roles: domainauth.NewRoleSet(domainauth.RoleAdmin)})
	p, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "a@b.com", p.Username)
	assert.True(t, s.IsAdmin())

	s.Reset()
	_, ok = s.Current()
	assert.False(t, ok)
	assert.False(t, s.IsAdmin())
}

func TestProfileStore_SetNilClears(t *testing.T) {
	s := NewProfileStore()
	s.Set(&domainauth.Profile{Username: "a@b.com"})

	s.Set(nil)

	_, ok := s.Current()
	assert.False(t, ok)
}

func TestProfileStore_StoresCopies(t *testing.T) {
	s := NewProfileStore()
	in := &domainauth.Profile{Username: "a@b.com", Roles: domainauth.NewRoleSet(domainauth.RoleEditor)}
	s.Set(in)

	in.Roles[domainauth.RoleAdmin] = struct{}{}
	assert.False(t, s.IsAdmin(), "mutating the input must not leak into the store")

	out, _ := s.Current()
	out.Roles[domainauth.RoleAdmin] = struct{}{}
	assert.False(t, s.IsAdmin(), "mutating the result must not leak into the store")
}
