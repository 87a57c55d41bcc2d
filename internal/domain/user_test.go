package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("creates valid user", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("alice", "pw1")
		require.NoError(t, err)

		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "pw1", user.Password)
		assert.Zero(t, user.ID) // assigned by the store
		assert.False(t, user.CreatedAt.IsZero())
	})

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{
			name:     "empty username",
			username: "",
			password: "pw1",
			wantErr:  ErrEmptyUsername,
		},
		{
			name:     "username too long",
			username: strings.Repeat("a", 65),
			password: "pw1",
			wantErr:  ErrUsernameTooLong,
		},
		{
			name:     "empty password",
			username: "alice",
			password: "",
			wantErr:  ErrEmptyPassword,
		},
		{
			name:     "password too long for bcrypt",
			username: "alice",
			password: strings.Repeat("p", 73),
			wantErr:  ErrPasswordTooLong,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			user, err := NewUser(tt.username, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, user)
		})
	}
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	t.Run("stored user with hash only is valid", func(t *testing.T) {
		t.Parallel()
		user := &User{
			ID:             1,
			Username:       "alice",
			HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
		}
		assert.NoError(t, user.Validate())
	})

	t.Run("user without password or hash is invalid", func(t *testing.T) {
		t.Parallel()
		user := &User{ID: 1, Username: "alice"}
		assert.ErrorIs(t, user.Validate(), ErrEmptyPassword)
	})
}
