package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/paintstock/paintstock/internal/auth"
	"github.com/paintstock/paintstock/internal/shared"
	"github.com/paintstock/paintstock/internal/storage"
)

func newService(store storage.Store, secret string) *auth.Service {
	return auth.NewService(store, auth.ServiceConfig{Secret: []byte(secret), Cost: bcrypt.MinCost})
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newService(storage.NewMemoryStore(), "secret")

	account, err := svc.Signup(ctx, auth.SignupInput{Name: "Asha", Email: "asha@shop.test", Password: "hunter22"})
	require.NoError(t, err)
	require.NotEmpty(t, account.ID)
	require.False(t, account.EmailVerified)
	require.Empty(t, account.PasswordHash)

	_, err = svc.Signup(ctx, auth.SignupInput{Name: "Other", Email: "asha@shop.test", Password: "another1"})
	require.ErrorIs(t, err, auth.ErrEmailTaken)
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestLoginLogoutCycle(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	svc := newService(store, "secret")

	_, err := svc.Current(ctx)
	require.ErrorIs(t, err, auth.ErrNotSignedIn)

	created, err := svc.Signup(ctx, auth.SignupInput{Name: "Asha", Email: "asha@shop.test", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, auth.LoginInput{Email: "asha@shop.test", Password: "wrong"})
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
	_, err = svc.Login(ctx, auth.LoginInput{Email: "nobody@shop.test", Password: "hunter22"})
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	session, err := svc.Login(ctx, auth.LoginInput{Email: "asha@shop.test", Password: "hunter22"})
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	require.Equal(t, created.ID, session.User.ID)

	var stored string
	found, err := storage.Load(ctx, store, storage.AuthToken, &stored)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, session.Token, stored)

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, "Asha", current.Name)

	require.NoError(t, svc.Logout(ctx))
	require.NoError(t, svc.Logout(ctx))
	_, err = svc.Current(ctx)
	require.ErrorIs(t, err, auth.ErrNotSignedIn)
}

func TestCurrentRejectsForeignToken(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	_, err := newService(store, "secret").Signup(ctx, auth.SignupInput{Name: "Asha", Email: "asha@shop.test", Password: "hunter22"})
	require.NoError(t, err)
	_, err = newService(store, "secret").Login(ctx, auth.LoginInput{Email: "asha@shop.test", Password: "hunter22"})
	require.NoError(t, err)

	_, err = newService(store, "rotated").Current(ctx)
	require.ErrorIs(t, err, auth.ErrNotSignedIn)
}

func TestLoginUpgradesLegacyPlaintextPassword(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	legacy := `[{"id":"1700000000000","name":"Ravi","email":"ravi@shop.test","password":"paint123","createdAt":"2024-01-02T03:04:05Z","emailVerified":false}]`
	require.NoError(t, store.SaveCollection(ctx, storage.Users, []byte(legacy)))
	svc := newService(store, "secret")

	_, err := svc.Login(ctx, auth.LoginInput{Email: "ravi@shop.test", Password: "paint1234"})
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	session, err := svc.Login(ctx, auth.LoginInput{Email: "ravi@shop.test", Password: "paint123"})
	require.NoError(t, err)
	require.Equal(t, shared.ID("1700000000000"), session.User.ID)

	var accounts []auth.Account
	_, err = storage.Load(ctx, store, storage.Users, &accounts)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Empty(t, accounts[0].LegacyPassword)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(accounts[0].PasswordHash), []byte("paint123")))
}
