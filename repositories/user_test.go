package repositories

import (
	"chat-hub/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Create_User_And_Find_By_Email(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	created, err := repository.CreateUser("Alice Martin", " Alice@Example.com ", "hash")
	req.NoError(err)
	req.Equal("alice@example.com", created.Email)

	user, err := repository.GetUserByEmail("ALICE@example.com")
	req.NoError(err)
	req.Equal(created.ID, user.ID)
	req.Equal("hash", user.PasswordHash)
}

func Test_Create_User_Rejects_Taken_Email(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.CreateUser("Alice", "alice@example.com", "hash")
	req.NoError(err)
	_, err = repository.CreateUser("Other Alice", "alice@example.com", "hash")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func Test_Get_Unknown_User(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.GetUser("8a3e2f34-4c1b-4f37-9f0a-4a6a5b0e7d11")
	req.ErrorIs(err, errors.ErrUserNotFound)
	_, err = repository.GetUserByEmail("nobody@example.com")
	req.ErrorIs(err, errors.ErrUserNotFound)

	found, err := repository.Exists("8a3e2f34-4c1b-4f37-9f0a-4a6a5b0e7d11")
	req.NoError(err)
	req.False(found)
}

func Test_List_Users_Sorted_By_Name(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	for _, name := range []string{"Clara", "Alice", "Bob"} {
		_, err := repository.CreateUser(name, name+"@example.com", "hash")
		req.NoError(err)
	}
	users, err := repository.ListUsers()
	req.NoError(err)
	req.Len(users, 3)
	req.Equal("Alice", users[0].FullName)
	req.Equal("Bob", users[1].FullName)
	req.Equal("Clara", users[2].FullName)
}

func Test_Update_Profile_Pic(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	alice, err := repository.CreateUser("Alice", "alice@example.com", "hash")
	req.NoError(err)
	updated, err := repository.UpdateProfilePic(alice.ID, "/media/alice.png")
	req.NoError(err)
	req.Equal("/media/alice.png", updated.ProfilePic)

	users, err := repository.GetUsers([]string{alice.ID, alice.ID, "unknown"})
	req.NoError(err)
	req.Len(users, 1)
	req.Equal("/media/alice.png", users[0].ProfilePic)
}
