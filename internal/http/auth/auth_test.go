package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cofferapp/coffer/internal/http/auth"
)

func TestIssuer_RoundTrip(t *testing.T) {
	issuer := auth.NewIssuer([]byte("secret"), time.Hour)

	token, expires, err := issuer.Issue(3)
	require.NoError(t, err)
	assert.True(t, expires.After(time.Now()))

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), claims.Epoch)
}

func TestIssuer_WrongSecret(t *testing.T) {
	token, _, err := auth.NewIssuer([]byte("secret"), time.Hour).Issue(1)
	require.NoError(t, err)

	_, err = auth.NewIssuer([]byte("other"), time.Hour).Parse(token)
	assert.Error(t, err)
}

func TestIssuer_Expired(t *testing.T) {
	issuer := auth.NewIssuer([]byte("secret"), -time.Minute)

	token, _, err := issuer.Issue(1)
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.Error(t, err)
}

func TestIssuer_Garbage(t *testing.T) {
	_, err := auth.NewIssuer([]byte("secret"), time.Hour).Parse("not-a-token")
	assert.Error(t, err)
}
