package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCredential(t *testing.T, email string) string {
	t.Helper()
	now := time.Now()
	return signedCredential(t, jwt.MapClaims{
		"_id":   "1001",
		"name":  "administrator",
		"email": email,
		"role":  "admin",
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	})
}

func TestStoreLoginLogout(t *testing.T) {
	store := NewStore()
	assert.False(t, store.Authenticated())
	assert.Nil(t, store.CurrentIdentity())

	err := store.Login(validCredential(t, "demo@gmail.com"))
	require.NoError(t, err)
	assert.True(t, store.Authenticated())
	require.NotNil(t, store.CurrentIdentity())
	assert.Equal(t, "demo@gmail.com", store.CurrentIdentity().Email)
	assert.NotEmpty(t, store.Credential())

	store.Logout()
	assert.False(t, store.Authenticated())
	assert.Nil(t, store.CurrentIdentity())
	assert.Empty(t, store.Credential())
}

func TestStoreLoginFailureLeavesAnonymous(t *testing.T) {
	store := NewStore()

	err := store.Login("not.a.credential")
	var malformed *MalformedCredentialError
	require.ErrorAs(t, err, &malformed)

	assert.False(t, store.Authenticated())
	assert.Nil(t, store.CurrentIdentity())
	assert.Empty(t, store.Credential())
}

func TestStoreLogoutWinsOverInflightLogin(t *testing.T) {
	store := NewStore()

	// Login starts, then a logout lands before the credential arrives.
	ticket := store.BeginLogin()
	store.Logout()

	err := store.CompleteLogin(ticket, validCredential(t, "demo@gmail.com"))
	assert.ErrorIs(t, err, ErrSessionSuperseded)
	assert.False(t, store.Authenticated())
	assert.Nil(t, store.CurrentIdentity())
}

func TestStoreExpiredCredentialNotAuthenticated(t *testing.T) {
	store := NewStore()
	expired := signedCredential(t, jwt.MapClaims{
		"_id": "1001",
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	require.NoError(t, store.Login(expired))
	// Identity is still derivable for display but the session does not
	// count as authenticated.
	assert.NotNil(t, store.CurrentIdentity())
	assert.False(t, store.Authenticated())
}

func TestStoreChangeSignals(t *testing.T) {
	store := NewStore()

	var got []bool
	done := make(chan struct{}, 2)
	err := store.Bus().Subscribe(TopicChanged, func(authenticated bool) {
		got = append(got, authenticated)
		done <- struct{}{}
	})
	require.NoError(t, err)

	require.NoError(t, store.Login(validCredential(t, "demo@gmail.com")))
	<-done
	store.Logout()
	<-done

	assert.Equal(t, []bool{true, false}, got)
}

func TestStoreRelogin(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Login(validCredential(t, "first@example.com")))
	store.Logout()
	require.NoError(t, store.Login(validCredential(t, "second@example.com")))

	assert.True(t, store.Authenticated())
	assert.Equal(t, "second@example.com", store.CurrentIdentity().Email)
}
