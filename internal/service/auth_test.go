package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aletheia/internal/models"
)

type fakeAuthRepo struct {
	users map[string]*models.User
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{users: map[string]*models.User{}}
}

func (f *fakeAuthRepo) CreateUser(user *models.User) error {
	user.ID = int64(len(f.users) + 1)
	f.users[user.Email] = user
	return nil
}

func (f *fakeAuthRepo) GetUserByEmail(email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, errors.New("sql: no rows in result set")
	}
	return user, nil
}

func (f *fakeAuthRepo) CountProgenitors() (int, error) {
	count := 0
	for _, u := range f.users {
		if u.IsProgenitor {
			count++
		}
	}
	return count, nil
}

func newAuthService(repo *fakeAuthRepo) AuthService {
	return NewAuthService(repo, zap.NewNop())
}

func TestRegisterProgenitor(t *testing.T) {
	t.Setenv("PROGENITOR_KEY", "genesis-key")
	repo := newFakeAuthRepo()
	svc := newAuthService(repo)

	user, err := svc.RegisterProgenitor("kai@example.com", "correct horse", "Kai", "genesis-key")
	require.NoError(t, err)

	assert.Equal(t, "kai@example.com", user.Email)
	assert.True(t, user.IsProgenitor)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "correct horse", user.PasswordHash)
}

func TestRegisterProgenitorWrongKey(t *testing.T) {
	t.Setenv("PROGENITOR_KEY", "genesis-key")
	svc := newAuthService(newFakeAuthRepo())

	_, err := svc.RegisterProgenitor("kai@example.com", "pw", "Kai", "not-the-key")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestRegisterProgenitorUnsetKeyAlwaysRejects(t *testing.T) {
	t.Setenv("PROGENITOR_KEY", "")
	svc := newAuthService(newFakeAuthRepo())

	_, err := svc.RegisterProgenitor("kai@example.com", "pw", "Kai", "")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestRegisterProgenitorOnlyOnce(t *testing.T) {
	t.Setenv("PROGENITOR_KEY", "genesis-key")
	repo := newFakeAuthRepo()
	svc := newAuthService(repo)

	_, err := svc.RegisterProgenitor("kai@example.com", "pw", "Kai", "genesis-key")
	require.NoError(t, err)

	_, err = svc.RegisterProgenitor("second@example.com", "pw", "Second", "genesis-key")
	assert.ErrorIs(t, err, ErrProgenitorExists)
}

func TestLogin(t *testing.T) {
	t.Setenv("PROGENITOR_KEY", "genesis-key")
	repo := newFakeAuthRepo()
	svc := newAuthService(repo)

	_, err := svc.RegisterProgenitor("kai@example.com", "correct horse", "Kai", "genesis-key")
	require.NoError(t, err)

	token, expires, err := svc.Login("kai@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, expires.IsZero())

	_, _, err = svc.Login("kai@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	svc := &authService{logger: zap.NewNop()}

	hash, err := svc.hashPassword("the password")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	assert.True(t, svc.verifyPassword(hash, "the password"))
	assert.False(t, svc.verifyPassword(hash, "another password"))
	assert.False(t, svc.verifyPassword("garbage", "the password"))

	// Salted: hashing the same password twice never repeats.
	second, err := svc.hashPassword("the password")
	require.NoError(t, err)
	assert.NotEqual(t, hash, second)
}
