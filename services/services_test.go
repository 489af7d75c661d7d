package services

import (
	"chat-hub/repositories"
	"chat-hub/runtime"
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type store struct {
	log      *slog.Logger
	users    *repositories.UserRepository
	friends  *repositories.FriendRepository
	groups   *repositories.GroupRepository
	messages *repositories.MessageRepository
	registry *runtime.Registry
}

func newStore(t *testing.T) store {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	return store{
		log:      log,
		users:    repositories.NewUserRepository(db),
		friends:  repositories.NewFriendRepository(db),
		groups:   repositories.NewGroupRepository(db),
		messages: repositories.NewMessageRepository(db, log, nil),
		registry: runtime.NewRegistry(),
	}
}

func (s store) user(t *testing.T, name string) string {
	t.Helper()
	identity, err := s.users.CreateUser(name, name+"@example.com", "hash")
	require.NoError(t, err)
	return identity.ID
}

func (s store) befriend(t *testing.T, a, b string) {
	t.Helper()
	link, err := s.friends.CreateRequest(a, b)
	require.NoError(t, err)
	_, err = s.friends.AcceptRequest(link.ID, b)
	require.NoError(t, err)
}
