package user

import (
	"context"
	"strings"
	"testing"

	"nexoecos/internal/common"
	"nexoecos/internal/dbmysql"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeIdentity struct {
	accounts map[string]string // email -> password
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{accounts: map[string]string{}}
}

func (f *fakeIdentity) SignUp(ctx context.Context, email, password string) (*IdentityUser, error) {
	if _, ok := f.accounts[email]; ok {
		return nil, ErrEmailTaken
	}
	f.accounts[email] = password
	return &IdentityUser{RemoteID: "remote-" + email, Email: email}, nil
}

func (f *fakeIdentity) SignIn(ctx context.Context, email, password string) (*IdentityUser, error) {
	stored, ok := f.accounts[email]
	if !ok || stored != password {
		return nil, ErrInvalidCredentials
	}
	return &IdentityUser{RemoteID: "remote-" + email, Email: email}, nil
}

func newUserTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&dbmysql.User{}, &dbmysql.Profile{}))
	return db
}

func newTestUserService(t *testing.T, identity IdentityProvider, identityEnabled bool) (*UserService, *gorm.DB) {
	t.Helper()
	db := newUserTestDB(t)
	repo := NewUserRepository(db)
	tokens := common.NewTokenIssuer("test-secret")
	return NewUserService(repo, identity, tokens, identityEnabled), db
}

func TestRegisterCreatesProviderAndLocalAccount(t *testing.T) {
	identity := newFakeIdentity()
	svc, db := newTestUserService(t, identity, true)

	resp, err := svc.Register(context.Background(), "viajera@nexo.dev", "secreto123", "La Viajera")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "viajera", resp.User.Username)
	assert.Equal(t, "La Viajera", resp.User.DisplayName)

	// provider owns the credentials, the local row stores a marker
	var u dbmysql.User
	require.NoError(t, db.First(&u, resp.User.ID).Error)
	assert.Equal(t, common.UnusablePassword, u.PasswordHash)
	assert.False(t, common.HasUsablePassword(u.PasswordHash))
}

func TestLoginMaterializesLocalAccountOnFirstSignIn(t *testing.T) {
	identity := newFakeIdentity()
	identity.accounts["eco@nexo.dev"] = "secreto123"
	svc, db := newTestUserService(t, identity, true)

	resp, err := svc.Login(context.Background(), "eco@nexo.dev", "secreto123")
	require.NoError(t, err)
	assert.Equal(t, "eco", resp.User.Username)

	var count int64
	require.NoError(t, db.Model(&dbmysql.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// a second sign-in reuses the row
	again, err := svc.Login(context.Background(), "eco@nexo.dev", "secreto123")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, again.User.ID)

	require.NoError(t, db.Model(&dbmysql.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLoginRejectsBadProviderCredentials(t *testing.T) {
	identity := newFakeIdentity()
	identity.accounts["eco@nexo.dev"] = "secreto123"
	svc, _ := newTestUserService(t, identity, true)

	_, err := svc.Login(context.Background(), "eco@nexo.dev", "incorrecta")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUsernameCollisionGetsSuffix(t *testing.T) {
	identity := newFakeIdentity()
	svc, _ := newTestUserService(t, identity, true)

	first, err := svc.Register(context.Background(), "eco@uno.dev", "secreto123", "")
	require.NoError(t, err)
	second, err := svc.Register(context.Background(), "eco@dos.dev", "secreto123", "")
	require.NoError(t, err)

	assert.Equal(t, "eco", first.User.Username)
	assert.Equal(t, "eco_1", second.User.Username)
}

func TestUsernameCappedAtMaxLength(t *testing.T) {
	identity := newFakeIdentity()
	svc, _ := newTestUserService(t, identity, true)

	long := strings.Repeat("a", 50) + "@nexo.dev"
	resp, err := svc.Register(context.Background(), long, "secreto123", "")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(resp.User.Username), maxUsernameLen)
}

func TestLocalModeRegisterAndLogin(t *testing.T) {
	svc, db := newTestUserService(t, nil, false)

	resp, err := svc.Register(context.Background(), "local@nexo.dev", "secreto123", "")
	require.NoError(t, err)

	var u dbmysql.User
	require.NoError(t, db.First(&u, resp.User.ID).Error)
	assert.True(t, common.HasUsablePassword(u.PasswordHash))

	_, err = svc.Login(context.Background(), "local@nexo.dev", "secreto123")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "local@nexo.dev", "mala")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLocalModeRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestUserService(t, nil, false)

	_, err := svc.Register(context.Background(), "uno@nexo.dev", "secreto123", "")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "UNO@nexo.dev", "otraclave1", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLocalLoginRejectsProviderBackedAccount(t *testing.T) {
	identity := newFakeIdentity()
	svc, db := newTestUserService(t, identity, true)

	resp, err := svc.Register(context.Background(), "mixto@nexo.dev", "secreto123", "")
	require.NoError(t, err)

	// flip the service into local mode; the marker hash must not verify
	repo := NewUserRepository(db)
	local := NewUserService(repo, nil, common.NewTokenIssuer("test-secret"), false)
	_, err = local.Login(context.Background(), "mixto@nexo.dev", "secreto123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_ = resp
}

func TestUpdateProfile(t *testing.T) {
	identity := newFakeIdentity()
	svc, _ := newTestUserService(t, identity, true)

	resp, err := svc.Register(context.Background(), "perfil@nexo.dev", "secreto123", "")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), resp.User.ID, ProfileUpdate{
		DisplayName:    "Eco Mayor",
		GamerTag:       "eco#1",
		FavoriteDomain: "tiempo",
	})
	require.NoError(t, err)
	assert.Equal(t, "Eco Mayor", updated.DisplayName)

	me, err := svc.Me(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "eco#1", me.GamerTag)
}
