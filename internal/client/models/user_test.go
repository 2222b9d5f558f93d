package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedUser_IsAdmin(t *testing.T) {
	var nilUser *CachedUser
	assert.False(t, nilUser.IsAdmin())
	assert.False(t, (&CachedUser{Role: RoleStandard}).IsAdmin())
	assert.True(t, (&CachedUser{Role: RoleAdmin}).IsAdmin())
}

func TestCachedUser_JSONShape(t *testing.T) {
	b, err := json.Marshal(CachedUser{ID: "1", Name: "A", Email: "a@x.com", Role: RoleStandard})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","name":"A","email":"a@x.com","role":"standard"}`, string(b))
}
