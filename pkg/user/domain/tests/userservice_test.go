package tests

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthcare/pkg/common/domain"
	"healthcare/pkg/user/domain/model"
	"healthcare/pkg/user/domain/service"
)

func setup(t *testing.T) (service.UserService, *mockUserRepository, *mockEventDispatcher) {
	t.Helper()
	repo := &mockUserRepository{store: make(map[uuid.UUID]*model.User)}
	dispatcher := &mockEventDispatcher{}
	return service.NewUserService(repo, dispatcher), repo, dispatcher
}

func TestRegisterUser(t *testing.T) {
	userService, repo, dispatcher := setup(t)

	user, err := userService.RegisterUser("  Jane@Example.com ")

	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.False(t, user.Subscribed)
	assert.Contains(t, repo.store, user.ID)
	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, model.UserRegistered{UserID: user.ID, Email: "jane@example.com"}, dispatcher.events[0])

	t.Run("Fail on duplicate email", func(t *testing.T) {
		_, err := userService.RegisterUser("JANE@example.com")
		assert.ErrorIs(t, err, model.ErrEmailTaken)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Fail on malformed email", func(t *testing.T) {
		for _, email := range []string{"", "jane", "Jane <jane@example.com>"} {
			_, err := userService.RegisterUser(email)
			assert.ErrorIs(t, err, model.ErrInvalidEmail, email)
		}
	})

	t.Run("Fail on repository error", func(t *testing.T) {
		repo.findErr = errors.New("connection refused")
		defer func() { repo.findErr = nil }()

		_, err := userService.RegisterUser("john@example.com")
		assert.EqualError(t, err, "connection refused")
	})
}

func TestSetSubscription(t *testing.T) {
	userService, repo, dispatcher := setup(t)
	user, err := userService.RegisterUser("jane@example.com")
	require.NoError(t, err)
	dispatcher.Reset()

	require.NoError(t, userService.SetSubscription(user.ID, true))
	assert.True(t, repo.store[user.ID].Subscribed)
	require.Len(t, dispatcher.events, 1)

	require.NoError(t, userService.SetSubscription(user.ID, true))
	assert.Len(t, dispatcher.events, 1)

	assert.ErrorIs(t, userService.SetSubscription(uuid.New(), true), model.ErrUserNotFound)
}

func TestGetUser(t *testing.T) {
	userService, _, _ := setup(t)
	user, err := userService.RegisterUser("jane@example.com")
	require.NoError(t, err)

	found, err := userService.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, found.Email)

	_, err = userService.GetUser(uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type mockUserRepository struct {
	store   map[uuid.UUID]*model.User
	findErr error
}

func (m *mockUserRepository) NextID() (uuid.UUID, error) { return uuid.New(), nil }
func (m *mockUserRepository) Create(u *model.User) error {
	clone := *u
	m.store[u.ID] = &clone
	return nil
}
func (m *mockUserRepository) Update(u *model.User) error {
	if _, ok := m.store[u.ID]; !ok {
		return model.ErrUserNotFound
	}
	clone := *u
	m.store[u.ID] = &clone
	return nil
}
func (m *mockUserRepository) Find(id uuid.UUID) (*model.User, error) {
	if u, ok := m.store[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, model.ErrUserNotFound
}
func (m *mockUserRepository) FindByEmail(email string) (*model.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.store {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, model.ErrUserNotFound
}

type mockEventDispatcher struct {
	events []domain.Event
}

func (m *mockEventDispatcher) Dispatch(event domain.Event) error {
	m.events = append(m.events, event)
	return nil
}
func (m *mockEventDispatcher) Reset() {
	m.events = nil
}
