package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"zopsm/internal/auth/token"
	"zopsm/internal/domain"
	"zopsm/internal/infra/tokenstore"
)

type authFixture struct {
	svc    *AuthService
	users  *fakeUsers
	store  *tokenstore.MemoryUserTokens
	resets *tokenstore.MemoryResetTokens
	mailer *fakeMailer
	codec  *token.Codec
	clk    *clock.Mock
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	clk := clock.NewMock()
	// The mock clock starts at the epoch; bring it to a plausible instant so
	// issued tokens do not look prehistoric.
	clk.Set(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	users := newFakeUsers()
	store := tokenstore.NewMemoryUserTokens()
	resets := tokenstore.NewMemoryResetTokens()
	mailer := &fakeMailer{}
	codec := token.NewCodecWithClock("test-secret", time.Hour, 10*time.Minute, clk)
	return &authFixture{
		svc:    NewAuthService(users, codec, store, resets, mailer, zap.NewNop()),
		users:  users,
		store:  store,
		resets: resets,
		mailer: mailer,
		codec:  codec,
		clk:    clk,
	}
}

func (f *authFixture) seedUser(t *testing.T, email, password string) domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := domain.User{
		ID:           newID(),
		AccountID:    "acc-1",
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleDeveloper,
		IsActive:     true,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func TestLoginIssuesStoredToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "dev@acme.test", "hunter2!")

	authToken, err := f.svc.Login(ctx, "dev@acme.test", "hunter2!")
	require.NoError(t, err)

	principal, err := f.codec.Decode(authToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, principal.Subject)
	require.Equal(t, domain.RoleDeveloper, principal.Role)
	require.Equal(t, "acc-1", principal.AccountID)

	exists, err := f.store.Exists(ctx, user.ID, authToken)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestLoginBadCredentials(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.seedUser(t, "dev@acme.test", "hunter2!")

	_, err := f.svc.Login(ctx, "dev@acme.test", "wrong")
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = f.svc.Login(ctx, "nobody@acme.test", "hunter2!")
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestLogoutRevokesOnlyPresentedSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "dev@acme.test", "hunter2!")

	first, err := f.svc.Login(ctx, "dev@acme.test", "hunter2!")
	require.NoError(t, err)
	// A later login from a second device yields a distinct token.
	f.clk.Add(time.Second)
	second, err := f.svc.Login(ctx, "dev@acme.test", "hunter2!")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	principal := domain.Principal{Subject: user.ID}
	require.NoError(t, f.svc.Logout(ctx, principal, first))

	exists, _ := f.store.Exists(ctx, user.ID, first)
	require.False(t, exists)
	exists, _ = f.store.Exists(ctx, user.ID, second)
	require.True(t, exists)
}

func TestLogoutEverywhere(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "dev@acme.test", "hunter2!")

	_, err := f.svc.Login(ctx, "dev@acme.test", "hunter2!")
	require.NoError(t, err)
	f.clk.Add(time.Second)
	_, err = f.svc.Login(ctx, "dev@acme.test", "hunter2!")
	require.NoError(t, err)
	require.Equal(t, 2, f.store.Count(user.ID))

	require.NoError(t, f.svc.LogoutEverywhere(ctx, domain.Principal{Subject: user.ID}))
	require.Equal(t, 0, f.store.Count(user.ID))
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.svc.ForgotPassword(context.Background(), "nobody@acme.test"))
	_, sent := f.mailer.lastResetToken()
	require.False(t, sent)
}

func TestResetPasswordFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "dev@acme.test", "old-pass")

	_, err := f.svc.Login(ctx, "dev@acme.test", "old-pass")
	require.NoError(t, err)

	require.NoError(t, f.svc.ForgotPassword(ctx, "dev@acme.test"))
	mail, sent := f.mailer.lastResetToken()
	require.True(t, sent)
	require.Equal(t, "dev@acme.test", mail.email)

	require.NoError(t, f.svc.ResetPassword(ctx, mail.value, "new-pass"))

	// The old password is gone, sessions are revoked, and the token is
	// single-use.
	_, err = f.svc.Login(ctx, "dev@acme.test", "old-pass")
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
	require.Equal(t, 0, f.store.Count(user.ID))

	_, err = f.svc.Login(ctx, "dev@acme.test", "new-pass")
	require.NoError(t, err)

	err = f.svc.ResetPassword(ctx, mail.value, "another-pass")
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.seedUser(t, "dev@acme.test", "old-pass")

	require.NoError(t, f.svc.ForgotPassword(ctx, "dev@acme.test"))
	mail, _ := f.mailer.lastResetToken()

	f.clk.Add(10*time.Minute + time.Second)
	err := f.svc.ResetPassword(ctx, mail.value, "new-pass")
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	// The stale password still works.
	_, err = f.svc.Login(ctx, "dev@acme.test", "old-pass")
	require.NoError(t, err)
}

func TestResetPasswordUnknownToken(t *testing.T) {
	f := newAuthFixture(t)
	err := f.svc.ResetPassword(context.Background(), "never-issued", "new-pass")
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}
