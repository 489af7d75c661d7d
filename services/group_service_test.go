package services

import (
	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/mocks"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestGroupService_Create(t *testing.T) {
	req := require.New(t)
	s := newStore(t)
	relationships := NewRelationshipService(s.log, s.users, s.friends, s.registry)
	svc := NewGroupService(s.log, s.groups, s.messages, relationships)
	ctx := context.Background()
	alice, bob, clara := s.user(t, "alice"), s.user(t, "bob"), s.user(t, "clara")
	s.befriend(t, alice, bob)

	t.Run("name and members are required", func(t *testing.T) {
		_, err := svc.Create(ctx, alice, "  ", []string{bob})
		require.ErrorIs(t, err, errors.ErrGroupNameRequired)
		_, err = svc.Create(ctx, alice, "Climbing", nil)
		require.ErrorIs(t, err, errors.ErrGroupNameRequired)
		_, err = svc.Create(ctx, alice, "Climbing", []string{alice})
		require.ErrorIs(t, err, errors.ErrGroupNameRequired)
	})

	t.Run("members must be friends", func(t *testing.T) {
		_, err := svc.Create(ctx, alice, "Climbing", []string{bob, clara})
		require.ErrorIs(t, err, errors.ErrNotAFriend)
	})

	group, err := svc.Create(ctx, alice, "Climbing", []string{bob, bob})
	req.NoError(err)
	req.Equal(alice, group.Admin)
	req.ElementsMatch([]string{alice, bob}, group.Members)
}

func TestGroupService_Add_Member_Rechecks_Friendship(t *testing.T) {
	req := require.New(t)
	s := newStore(t)
	ctrl := gomock.NewController(t)
	relationships := mocks.NewMockIRelationshipService(ctrl)
	svc := NewGroupService(s.log, s.groups, s.messages, relationships)
	ctx := context.Background()
	alice, bob, clara := s.user(t, "alice"), s.user(t, "bob"), s.user(t, "clara")

	group, err := s.groups.CreateGroup("Climbing", alice, []string{bob})
	req.NoError(err)

	// Friendship is asked every time, never remembered
	gomock.InOrder(
		relationships.EXPECT().CanAddToGroup(ctx, alice, clara).Return(false, nil).Times(1),
		relationships.EXPECT().CanAddToGroup(ctx, alice, clara).Return(true, nil).Times(1),
	)

	_, err = svc.AddMember(ctx, alice, group.ID, clara)
	req.ErrorIs(err, errors.ErrNotAFriend)

	updated, err := svc.AddMember(ctx, alice, group.ID, clara)
	req.NoError(err)
	req.ElementsMatch([]string{alice, bob, clara}, updated.Members)

	_, err = svc.AddMember(ctx, alice, group.ID, clara)
	req.ErrorIs(err, errors.ErrAlreadyMember)
}

func TestGroupService_Membership_Required(t *testing.T) {
	req := require.New(t)
	s := newStore(t)
	ctrl := gomock.NewController(t)
	relationships := mocks.NewMockIRelationshipService(ctrl)
	relationships.EXPECT().CanAddToGroup(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	svc := NewGroupService(s.log, s.groups, s.messages, relationships)
	ctx := context.Background()
	alice, bob, clara := s.user(t, "alice"), s.user(t, "bob"), s.user(t, "clara")

	group, err := s.groups.CreateGroup("Climbing", alice, []string{bob})
	req.NoError(err)

	_, err = svc.AddMember(ctx, clara, group.ID, clara)
	req.ErrorIs(err, errors.ErrNotAMember)
	_, err = svc.RemoveMember(ctx, clara, group.ID, bob)
	req.ErrorIs(err, errors.ErrNotAMember)
	_, err = svc.AddMember(ctx, alice, "8a3e2f34-4c1b-4f37-9f0a-4a6a5b0e7d11", clara)
	req.ErrorIs(err, errors.ErrGroupNotFound)
}

func TestGroupService_Any_Member_Can_Remove(t *testing.T) {
	req := require.New(t)
	s := newStore(t)
	relationships := NewRelationshipService(s.log, s.users, s.friends, s.registry)
	svc := NewGroupService(s.log, s.groups, s.messages, relationships)
	ctx := context.Background()
	alice, bob, clara := s.user(t, "alice"), s.user(t, "bob"), s.user(t, "clara")

	group, err := s.groups.CreateGroup("Climbing", alice, []string{bob, clara})
	req.NoError(err)

	// bob is not the admin
	updated, err := svc.RemoveMember(ctx, bob, group.ID, clara)
	req.NoError(err)
	req.ElementsMatch([]string{alice, bob}, updated.Members)

	// Removing a former member again changes nothing
	updated, err = svc.RemoveMember(ctx, bob, group.ID, clara)
	req.NoError(err)
	req.Len(updated.Members, 2)
}

func TestGroupService_Admin_Cannot_Be_Removed(t *testing.T) {
	req := require.New(t)
	s := newStore(t)
	relationships := NewRelationshipService(s.log, s.users, s.friends, s.registry)
	svc := NewGroupService(s.log, s.groups, s.messages, relationships)
	ctx := context.Background()
	alice, bob := s.user(t, "alice"), s.user(t, "bob")

	group, err := s.groups.CreateGroup("Climbing", alice, []string{bob})
	req.NoError(err)

	// When a member removes the admin
	_, err = svc.RemoveMember(ctx, bob, group.ID, alice)

	// Then it is refused and the admin is still a member
	req.ErrorIs(err, errors.ErrAdminRemoval)
	req.ErrorIs(err, errors.ErrStateConflict)

	// The admin cannot leave either
	_, err = svc.RemoveMember(ctx, alice, group.ID, alice)
	req.ErrorIs(err, errors.ErrAdminRemoval)

	stored, err := s.groups.GetGroup(group.ID)
	req.NoError(err)
	req.Equal(alice, stored.Admin)
	req.Contains(stored.Members, stored.Admin)
}

func TestGroupService_List_Mine_Sorted_By_Last_Message(t *testing.T) {
	req := require.New(t)
	s := newStore(t)
	relationships := NewRelationshipService(s.log, s.users, s.friends, s.registry)
	svc := NewGroupService(s.log, s.groups, s.messages, relationships)
	ctx := context.Background()
	alice, bob := s.user(t, "alice"), s.user(t, "bob")

	quiet, err := s.groups.CreateGroup("Quiet", alice, []string{bob})
	req.NoError(err)
	older, err := s.groups.CreateGroup("Older", alice, []string{bob})
	req.NoError(err)
	recent, err := s.groups.CreateGroup("Recent", alice, []string{bob})
	req.NoError(err)

	now := time.Now().UTC()
	req.NoError(s.messages.StoreMessage(domain.NewMessage(bob, domain.GroupTarget(older.ID), "old", "", now.Add(-time.Hour))))
	req.NoError(s.messages.StoreMessage(domain.NewMessage(bob, domain.GroupTarget(recent.ID), "new", "", now)))

	conversations, err := svc.ListMine(ctx, alice)
	req.NoError(err)
	req.Len(conversations, 3)
	req.Equal(recent.ID, conversations[0].Target.ID)
	req.Equal(older.ID, conversations[1].Target.ID)
	req.Equal(quiet.ID, conversations[2].Target.ID)
	req.Nil(conversations[2].LastMessage)
	req.True(conversations[0].Unread(alice))
	req.True(conversations[0].Target.IsGroup())
}

func TestGroupService_Remove_Admin_Never_Reaches_Storage(t *testing.T) {
	req := require.New(t)
	s := newStore(t)
	ctrl := gomock.NewController(t)
	groups := mocks.NewMockIGroupRepository(ctrl)
	relationships := mocks.NewMockIRelationshipService(ctrl)
	svc := NewGroupService(s.log, groups, s.messages, relationships)
	alice, bob := uuid.NewString(), uuid.NewString()
	groupID := uuid.NewString()

	groups.EXPECT().GetGroup(groupID).Return(domain.Group{
		ID: groupID, Name: "Climbing", Admin: alice, Members: []string{alice, bob},
	}, nil).Times(1)
	groups.EXPECT().RemoveMember(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.RemoveMember(context.Background(), bob, groupID, alice)
	req.ErrorIs(err, errors.ErrAdminRemoval)
}

func TestGroupService_List_Mine_Storage_Failure(t *testing.T) {
	req := require.New(t)
	s := newStore(t)
	ctrl := gomock.NewController(t)
	groups := mocks.NewMockIGroupRepository(ctrl)
	relationships := mocks.NewMockIRelationshipService(ctrl)
	svc := NewGroupService(s.log, groups, s.messages, relationships)

	groups.EXPECT().ListGroupsForUser(gomock.Any()).Return(nil, errors.Persistence(fmt.Errorf("disk full"))).Times(1)

	_, err := svc.ListMine(context.Background(), uuid.NewString())
	req.ErrorIs(err, errors.ErrPersistence)
}
