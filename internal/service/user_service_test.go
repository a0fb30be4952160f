package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immxrtalbeast/gatherly/internal/repository"
)

func newUserService() *UserService {
	return NewUserService(
		repository.NewInMemoryUserRepository(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestUserService_GetOrCreateByEmail(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	created, err := svc.GetOrCreateByEmail(ctx, "Alice Smith", "alice@example.com", "pic.png")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Alice Smith", created.FullName)
	assert.Equal(t, "pic.png", created.ProfilePic)

	// Same email resolves to the same account with refreshed profile data.
	returned, err := svc.GetOrCreateByEmail(ctx, "Alice S.", "alice@example.com", "new-pic.png")
	require.NoError(t, err)
	assert.Equal(t, created.ID, returned.ID)
	assert.Equal(t, "Alice S.", returned.FullName)
	assert.Equal(t, "new-pic.png", returned.ProfilePic)

	stored, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice S.", stored.FullName)
}

func TestUserService_GetOrCreateByEmailRequiresEmail(t *testing.T) {
	svc := newUserService()

	_, err := svc.GetOrCreateByEmail(context.Background(), "Nameless", "", "")
	assert.Error(t, err)
}

func TestUserService_CreateUser(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "", "bob@example.com")
	assert.Error(t, err)

	user, err := svc.CreateUser(ctx, "Bob", "bob@example.com")
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, "Bobby", "bob@example.com")
	assert.ErrorIs(t, err, repository.ErrUserEmailExists)

	fetched, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", fetched.FullName)
}
