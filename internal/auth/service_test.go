package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitbook/internal/shared/config"
	"fitbook/internal/users"
)

type fakeUserStore struct {
	byEmail map[string]*users.User
	byID    map[string]*users.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: make(map[string]*users.User),
		byID:    make(map[string]*users.User),
	}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *users.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.byEmail[user.Email] = user
	f.byID[user.ID.String()] = user
	return nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id string) (*users.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) UpdateUserPassword(ctx context.Context, userID string, hashedPassword string) error {
	user, ok := f.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.Password = hashedPassword
	return nil
}

func (f *fakeUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			JWTExpiresIn:     15 * time.Minute,
			RefreshExpiresIn: 24 * time.Hour,
		},
	}
}

func TestRegisterAndValidateToken(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeUserStore(), testConfig())

	resp, err := svc.Register(ctx, &RegisterRequest{
		FirstName: "Sofia",
		LastName:  "Reyes",
		Email:     "sofia.reyes@example.com",
		Password:  "qwerty123",
	})
	require.NoError(t, err)

	assert.Equal(t, string(users.RoleMember), resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "sofia.reyes@example.com", claims.Email)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, "fitbook", claims.Issuer)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeUserStore(), testConfig())

	req := &RegisterRequest{
		FirstName: "Sofia",
		LastName:  "Reyes",
		Email:     "sofia.reyes@example.com",
		Password:  "qwerty123",
	}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegisterNormalizesRole(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeUserStore(), testConfig())

	resp, err := svc.Register(ctx, &RegisterRequest{
		FirstName: "Ana",
		LastName:  "Duarte",
		Email:     "ana.duarte@example.com",
		Password:  "qwerty123",
		Role:      "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, string(users.RoleAdmin), resp.User.Role)

	resp, err = svc.Register(ctx, &RegisterRequest{
		FirstName: "Luis",
		LastName:  "Prado",
		Email:     "luis.prado@example.com",
		Password:  "qwerty123",
		Role:      "superuser",
	})
	require.NoError(t, err)
	assert.Equal(t, string(users.RoleMember), resp.User.Role)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeUserStore(), testConfig())

	_, err := svc.Register(ctx, &RegisterRequest{
		FirstName: "Sofia",
		LastName:  "Reyes",
		Email:     "sofia.reyes@example.com",
		Password:  "qwerty123",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, &LoginRequest{
			Email:    "sofia.reyes@example.com",
			Password: "qwerty123",
		})
		require.NoError(t, err)
		assert.Equal(t, "sofia.reyes@example.com", resp.User.Email)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{
			Email:    "sofia.reyes@example.com",
			Password: "wrong-password",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{
			Email:    "nobody@example.com",
			Password: "qwerty123",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefreshToken(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeUserStore(), testConfig())

	resp, err := svc.Register(ctx, &RegisterRequest{
		FirstName: "Sofia",
		LastName:  "Reyes",
		Email:     "sofia.reyes@example.com",
		Password:  "qwerty123",
	})
	require.NoError(t, err)

	t.Run("refresh token yields a new pair", func(t *testing.T) {
		pair, err := svc.RefreshToken(ctx, resp.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)

		claims, err := svc.ValidateToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "access", claims.Type)
	})

	t.Run("access token is rejected as refresh token", func(t *testing.T) {
		_, err := svc.RefreshToken(ctx, resp.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, err := svc.RefreshToken(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	svc := NewService(store, testConfig())

	resp, err := svc.Register(ctx, &RegisterRequest{
		FirstName: "Sofia",
		LastName:  "Reyes",
		Email:     "sofia.reyes@example.com",
		Password:  "qwerty123",
	})
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, resp.User.ID, &ChangePasswordRequest{
			CurrentPassword: "wrong",
			NewPassword:     "new-password-1",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rotates the password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, resp.User.ID, &ChangePasswordRequest{
			CurrentPassword: "qwerty123",
			NewPassword:     "new-password-1",
		})
		require.NoError(t, err)

		_, err = svc.Login(ctx, &LoginRequest{
			Email:    "sofia.reyes@example.com",
			Password: "new-password-1",
		})
		assert.NoError(t, err)

		_, err = svc.Login(ctx, &LoginRequest{
			Email:    "sofia.reyes@example.com",
			Password: "qwerty123",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
