package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicProjectionExcludesSecrets(t *testing.T) {
	u := User{
		ID:           "id-1",
		Email:        "a@x.com",
		Username:     "a",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		PasswordHash: "$2a$10$secret",
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
	}

	body, err := json.Marshal(u.Public())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(body, &fields))
	assert.NotContains(t, fields, "password_hash")
	assert.NotContains(t, fields, "is_superuser")
	assert.Equal(t, "a@x.com", fields["email"])
	assert.Equal(t, true, fields["is_staff"])
}

func TestAge(t *testing.T) {
	_, ok := User{}.Age()
	assert.False(t, ok, "no birth date means no age")

	birth := time.Now().UTC().AddDate(-30, 0, -1) // birthday already passed
	age, ok := User{BirthDate: &birth}.Age()
	require.True(t, ok)
	assert.Equal(t, 30, age)

	upcoming := time.Now().UTC().AddDate(-30, 0, 1) // birthday tomorrow
	age, ok = User{BirthDate: &upcoming}.Age()
	require.True(t, ok)
	assert.Equal(t, 29, age)
}
