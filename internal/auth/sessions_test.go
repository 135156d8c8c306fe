package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	m := NewSessionManager(time.Hour)
	user := User{Username: "admin", Role: RoleAdmin}

	s := m.Start(user)
	require.NotEmpty(t, s.Token)

	got, ok := m.Lookup(s.Token)
	require.True(t, ok)
	assert.Equal(t, "admin", got.User.Username)

	m.End(s.Token)
	_, ok = m.Lookup(s.Token)
	assert.False(t, ok)
}

func TestSessionExpiry(t *testing.T) {
	m := NewSessionManager(time.Hour)
	now := time.Now()
	m.now = func() time.Time { return now }

	s := m.Start(User{Username: "admin"})

	now = now.Add(59 * time.Minute)
	_, ok := m.Lookup(s.Token)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = m.Lookup(s.Token)
	assert.False(t, ok)
}

func TestLockoutAfterSixFailures(t *testing.T) {
	m := NewSessionManager(time.Hour)

	for i := 0; i < MaxLoginAttempts-1; i++ {
		m.RecordFailure("admin")
		assert.NoError(t, m.CheckLockout("admin"))
	}
	m.RecordFailure("admin")
	assert.ErrorIs(t, m.CheckLockout("admin"), ErrLockedOut)

	// Other usernames are unaffected.
	assert.NoError(t, m.CheckLockout("other"))
}

func TestLockoutExpires(t *testing.T) {
	m := NewSessionManager(time.Hour)
	now := time.Now()
	m.now = func() time.Time { return now }

	for i := 0; i < MaxLoginAttempts; i++ {
		m.RecordFailure("admin")
	}
	assert.ErrorIs(t, m.CheckLockout("admin"), ErrLockedOut)

	now = now.Add(LockoutPeriod + time.Minute)
	assert.NoError(t, m.CheckLockout("admin"))

	// A failure after the window starts a fresh count.
	m.RecordFailure("admin")
	assert.NoError(t, m.CheckLockout("admin"))
}

func TestSuccessfulLoginClearsFailures(t *testing.T) {
	m := NewSessionManager(time.Hour)

	for i := 0; i < MaxLoginAttempts-1; i++ {
		m.RecordFailure("admin")
	}
	m.Start(User{Username: "admin"})

	for i := 0; i < MaxLoginAttempts-1; i++ {
		m.RecordFailure("admin")
	}
	assert.NoError(t, m.CheckLockout("admin"))
}

func TestRefreshUpdatesLiveSessions(t *testing.T) {
	m := NewSessionManager(time.Hour)
	s := m.Start(User{Username: "analyst", Role: RoleCountry})

	country := "Lesotho"
	m.Refresh(User{Username: "analyst", Role: RoleCountry, Country: &country})

	got, ok := m.Lookup(s.Token)
	require.True(t, ok)
	require.NotNil(t, got.User.Country)
	assert.Equal(t, "Lesotho", *got.User.Country)
}
