package services

import (
	"testing"

	"github.com/google/go-github/v71/github"
	"github.com/stretchr/testify/assert"
)

func TestUserLogin(t *testing.T) {
	tests := []struct {
		name     string
		user     *github.User
		expected string
	}{
		{
			name:     "ログイン名を返す",
			user:     &github.User{Login: github.Ptr("alice"), Name: github.Ptr("Alice Liddell")},
			expected: "alice",
		},
		{
			name:     "nil ユーザーは ghost",
			user:     nil,
			expected: "ghost",
		},
		{
			name:     "ログイン名が空なら ghost",
			user:     &github.User{Login: github.Ptr("")},
			expected: "ghost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UserLogin(tt.user))
		})
	}
}

func TestUserLogins(t *testing.T) {
	users := []*github.User{
		{Login: github.Ptr("alice")},
		nil,
		{Login: github.Ptr("bob")},
	}

	assert.Equal(t, []string{"alice", "bob"}, UserLogins(users))
	assert.Equal(t, []string{}, UserLogins(nil))
}
