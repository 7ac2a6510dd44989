package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		name    string
		pw      string
		reasons int
	}{
		{"acceptable", "Str0ng!Pass", 0},
		{"too short", "abc1", 1},
		{"entirely numeric", "473829105", 1},
		{"too common", "password1", 1},
		{"short and numeric", "12345", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, PasswordStrength(tt.pw), tt.reasons)
		})
	}
}

func TestStrongPasswordJoinsReasons(t *testing.T) {
	assert.NoError(t, StrongPassword("Str0ng!Pass"))

	err := StrongPassword("123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least 8 characters")
	assert.Contains(t, err.Error(), "entirely numeric")
}

func TestStringEquals(t *testing.T) {
	rule := StringEquals("secret", "values differ")
	assert.NoError(t, rule("secret"))

	err := rule("other")
	assert.EqualError(t, err, "values differ")
}
