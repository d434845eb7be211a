package usecase

import (
	"context"
	"testing"
	"time"

	"random-coffee/internal/pkg/jwt"
	ucauth "random-coffee/internal/usecase/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuth(t *testing.T, admins ...int64) *Auth {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-key"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthUsecase(
		ucauth.NewService(admins, string(hash)),
		jwt.NewHMACService("test-secret", time.Hour),
		quietLogger(),
	)
}

func TestAuth_LoginIssuesToken(t *testing.T) {
	uc := newAuth(t, 42)

	tok, err := uc.Login(context.Background(), ucauth.LoginInput{AdminID: 42, APIKey: "s3cret-key"})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, time.Minute)

	id, err := uc.Authorize(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestAuth_LoginRejects(t *testing.T) {
	uc := newAuth(t, 42)

	cases := []ucauth.LoginInput{
		{AdminID: 42, APIKey: "wrong"},
		{AdminID: 7, APIKey: "s3cret-key"},
		{AdminID: 42},
	}
	for _, in := range cases {
		_, err := uc.Login(context.Background(), in)
		assert.ErrorIs(t, err, ErrUnauthorized)
	}
}

func TestAuth_AuthorizeRejectsRemovedAdmin(t *testing.T) {
	issuer := newAuth(t, 42)
	tok, err := issuer.Login(context.Background(), ucauth.LoginInput{AdminID: 42, APIKey: "s3cret-key"})
	require.NoError(t, err)

	other := newAuth(t, 7)
	_, err = other.Authorize(tok.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = issuer.Authorize("garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuth_NotConfigured(t *testing.T) {
	uc := NewAuthUsecase(ucauth.NewService(nil, ""), jwt.NewHMACService("x", time.Hour), quietLogger())
	_, err := uc.Login(context.Background(), ucauth.LoginInput{AdminID: 1, APIKey: "k"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}
