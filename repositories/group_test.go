package repositories

import (
	"chat-hub/errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_Create_Group_Adds_Admin(t *testing.T) {
	req := require.New(t)
	repository := NewGroupRepository(openTestDB(t))
	admin, bob := uuid.NewString(), uuid.NewString()

	group, err := repository.CreateGroup(" Climbing ", admin, []string{bob, bob})
	req.NoError(err)
	req.Equal("Climbing", group.Name)
	req.ElementsMatch([]string{admin, bob}, group.Members)

	loaded, err := repository.GetGroup(group.ID)
	req.NoError(err)
	req.Equal(admin, loaded.Admin)
	req.ElementsMatch([]string{admin, bob}, loaded.Members)

	groups, err := repository.ListGroupsForUser(bob)
	req.NoError(err)
	req.Len(groups, 1)
	req.Equal(group.ID, groups[0].ID)
}

func Test_Add_And_Remove_Member(t *testing.T) {
	req := require.New(t)
	repository := NewGroupRepository(openTestDB(t))
	admin, clara := uuid.NewString(), uuid.NewString()

	group, err := repository.CreateGroup("Climbing", admin, nil)
	req.NoError(err)

	req.NoError(repository.AddMember(group.ID, clara))
	req.ErrorIs(repository.AddMember(group.ID, clara), errors.ErrAlreadyMember)
	member, err := repository.IsMember(group.ID, clara)
	req.NoError(err)
	req.True(member)

	req.NoError(repository.RemoveMember(group.ID, clara))
	req.NoError(repository.RemoveMember(group.ID, clara))
	member, err = repository.IsMember(group.ID, clara)
	req.NoError(err)
	req.False(member)

	groups, err := repository.ListGroupsForUser(clara)
	req.NoError(err)
	req.Empty(groups)

	req.ErrorIs(repository.RemoveMember(group.ID, admin), errors.ErrAdminRemoval)
	member, err = repository.IsMember(group.ID, admin)
	req.NoError(err)
	req.True(member)

	req.ErrorIs(repository.AddMember(uuid.NewString(), clara), errors.ErrGroupNotFound)
	req.ErrorIs(repository.RemoveMember(uuid.NewString(), clara), errors.ErrGroupNotFound)
	_, err = repository.GetGroup(uuid.NewString())
	req.ErrorIs(err, errors.ErrGroupNotFound)
}

func Test_Concurrent_Membership_Changes_Are_Not_Lost(t *testing.T) {
	req := require.New(t)
	repository := NewGroupRepository(openTestDB(t))
	admin, leaving := uuid.NewString(), uuid.NewString()

	group, err := repository.CreateGroup("Climbing", admin, []string{leaving})
	req.NoError(err)

	joining := make([]string, 10)
	for i := range joining {
		joining[i] = uuid.NewString()
	}

	var wg sync.WaitGroup
	for _, userID := range joining {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			req.NoError(repository.AddMember(group.ID, userID))
		}(userID)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		req.NoError(repository.RemoveMember(group.ID, leaving))
	}()
	wg.Wait()

	loaded, err := repository.GetGroup(group.ID)
	req.NoError(err)
	req.ElementsMatch(append([]string{admin}, joining...), loaded.Members)
}
