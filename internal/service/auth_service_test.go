package service

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spartanfitness/api/internal/domain"
)

var registerAnn = RegisterCommand{
	FirstName: "Ann",
	LastName:  "Lee",
	Email:     "Ann@Example.com",
	Password:  "correct horse",
}

// linkIn extracts the first URL from an email body.
func linkIn(t *testing.T, body string) *url.URL {
	t.Helper()
	for _, field := range strings.Fields(body) {
		if strings.HasPrefix(field, "https://") {
			u, err := url.Parse(field)
			require.NoError(t, err)
			return u
		}
	}
	t.Fatalf("no link in %q", body)
	return nil
}

func TestAuthService_RegisterLoginConfirm(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.auth.Register(ctx, registerAnn)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", res.User.Email)
	assert.False(t, res.User.EmailConfirmed)
	assert.Equal(t, []domain.Role{domain.RoleUser}, res.User.Roles)

	claims, err := env.tokens.Parse(res.Token, PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.String(), claims.UserID)

	_, err = env.auth.Register(ctx, registerAnn)
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	_, err = env.auth.Login(ctx, LoginCommand{Email: "ann@example.com", Password: "wrong password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = env.auth.Login(ctx, LoginCommand{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	login, err := env.auth.Login(ctx, LoginCommand{Email: "ANN@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	sent := env.email.all()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"ann@example.com"}, sent[0].recipients)
	link := linkIn(t, sent[0].body)
	assert.Equal(t, "/confirm-email", link.Path)
	assert.Equal(t, "app.example.com", link.Host)

	// The access token is not a confirmation token.
	err = env.auth.ConfirmEmail(ctx, ConfirmEmailCommand{UserID: res.User.ID.String(), Token: res.Token})
	assert.ErrorIs(t, err, domain.ErrEmailConfirmation)

	// Another user's id does not match the token.
	err = env.auth.ConfirmEmail(ctx, ConfirmEmailCommand{UserID: domain.NewID[domain.UserKind]().String(), Token: link.Query().Get("token")})
	assert.ErrorIs(t, err, domain.ErrEmailConfirmation)

	require.NoError(t, env.auth.ConfirmEmail(ctx, ConfirmEmailCommand{
		UserID: link.Query().Get("userId"),
		Token:  link.Query().Get("token"),
	}))
	user, err := env.store.Users().GetByID(ctx, res.User.ID)
	require.NoError(t, err)
	assert.True(t, user.EmailConfirmed)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	cmd := registerAnn
	cmd.Email = "not-an-email"
	cmd.Password = "short"

	_, err := env.auth.Register(context.Background(), cmd)
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.KindValidation, derr.Kind)
	assert.Contains(t, derr.Fields, "email")
	assert.Contains(t, derr.Fields, "password")
	assert.Empty(t, env.email.all())
}

func TestAuthService_LoginCarriesProfiles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.auth.Register(ctx, registerAnn)
	require.NoError(t, err)

	user := res.User
	user.GrantRole(domain.RoleCoach)
	require.NoError(t, env.store.Users().Update(ctx, user))
	coach := domain.NewCoach(user.ID, "")
	require.NoError(t, env.store.Coaches().Create(ctx, coach))

	login, err := env.auth.Login(ctx, LoginCommand{Email: registerAnn.Email, Password: registerAnn.Password})
	require.NoError(t, err)

	claims, err := env.tokens.Parse(login.Token, PurposeAccess)
	require.NoError(t, err)
	p, err := claims.Principal()
	require.NoError(t, err)
	require.NotNil(t, p.CoachID)
	assert.Equal(t, coach.ID, *p.CoachID)
	assert.True(t, p.IsCoach(coach.ID))
	assert.Nil(t, p.AdministratorID)
}

func TestAuthService_PasswordReset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, registerAnn)
	require.NoError(t, err)

	require.NoError(t, env.auth.RequestPasswordReset(ctx, RequestPasswordResetCommand{Email: "ghost@example.com"}))
	require.Len(t, env.email.all(), 1, "unknown email sends nothing")

	require.NoError(t, env.auth.RequestPasswordReset(ctx, RequestPasswordResetCommand{Email: registerAnn.Email}))
	first := linkIn(t, env.email.all()[1].body).Query().Get("token")
	require.NoError(t, env.auth.RequestPasswordReset(ctx, RequestPasswordResetCommand{Email: registerAnn.Email}))
	second := linkIn(t, env.email.all()[2].body).Query().Get("token")
	require.NotEqual(t, first, second)

	err = env.auth.ResetPassword(ctx, ResetPasswordCommand{Token: first, Password: "new password 1"})
	assert.ErrorIs(t, err, domain.ErrPasswordResetTokenInvalid, "a newer request invalidates older tokens")

	require.NoError(t, env.auth.ResetPassword(ctx, ResetPasswordCommand{Token: second, Password: "new password 2"}))
	err = env.auth.ResetPassword(ctx, ResetPasswordCommand{Token: second, Password: "new password 3"})
	assert.ErrorIs(t, err, domain.ErrPasswordResetTokenInvalid, "tokens are single use")

	_, err = env.auth.Login(ctx, LoginCommand{Email: registerAnn.Email, Password: registerAnn.Password})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = env.auth.Login(ctx, LoginCommand{Email: registerAnn.Email, Password: "new password 2"})
	assert.NoError(t, err)

	err = env.auth.ResetPassword(ctx, ResetPasswordCommand{Token: "unknown", Password: "new password 4"})
	assert.ErrorIs(t, err, domain.ErrPasswordResetTokenInvalid)
}

func TestAuthService_ExpiredResetToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	res, err := env.auth.Register(ctx, registerAnn)
	require.NoError(t, err)

	token := domain.NewPasswordResetToken(res.User.ID, -time.Second)
	require.NoError(t, env.store.PasswordResetTokens().Create(ctx, token))

	err = env.auth.ResetPassword(ctx, ResetPasswordCommand{Token: token.Value, Password: "new password"})
	assert.ErrorIs(t, err, domain.ErrPasswordResetTokenInvalid)
}

func TestTokenManager_RejectsTampering(t *testing.T) {
	m := NewTokenManager("secret-a", "iss", time.Hour, time.Hour)
	other := NewTokenManager("secret-b", "iss", time.Hour, time.Hour)
	u := domain.NewUser("A", "B", "", "a@example.com", "")

	token, err := m.IssueAccess(u, nil, nil)
	require.NoError(t, err)

	_, err = other.Parse(token, PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.Parse(token, PurposeEmailConfirmation)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenManager("secret-a", "iss", -time.Minute, time.Hour)
	token, err = expired.IssueAccess(u, nil, nil)
	require.NoError(t, err)
	_, err = m.Parse(token, PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
