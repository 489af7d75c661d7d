package services

import (
	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/mocks"
	"chat-hub/repositories"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestConversationService_Contacts_Exclude_Me(t *testing.T) {
	req := require.New(t)
	s := newStore(t)
	svc := NewConversationService(s.log, s.users, s.messages, s.registry)
	alice, bob := s.user(t, "alice"), s.user(t, "bob")
	s.registry.Register(bob, conn{id: "bob-conn"})

	contacts, err := svc.Contacts(context.Background(), alice)
	req.NoError(err)
	req.Len(contacts, 1)
	req.Equal(bob, contacts[0].ID)
	req.True(contacts[0].Online)
	req.Equal([]string{bob}, svc.Online())
}

func TestConversationService_Chat_Partners(t *testing.T) {
	req := require.New(t)
	s := newStore(t)
	svc := NewConversationService(s.log, s.users, s.messages, s.registry)
	alice, bob, clara, dave := s.user(t, "alice"), s.user(t, "bob"), s.user(t, "clara"), s.user(t, "dave")

	now := time.Now().UTC()
	req.NoError(s.messages.StoreMessage(domain.NewMessage(alice, domain.DirectTarget(bob), "hi bob", "", now.Add(-time.Minute))))
	req.NoError(s.messages.StoreMessage(domain.NewMessage(clara, domain.DirectTarget(alice), "hi alice", "", now)))
	// Group traffic does not make a chat partner
	req.NoError(s.messages.StoreMessage(domain.NewMessage(dave, domain.GroupTarget("g1"), "hi all", "", now)))

	conversations, err := svc.ChatPartners(context.Background(), alice)
	req.NoError(err)
	req.Len(conversations, 2)
	req.Equal(clara, conversations[0].Target.ID)
	req.Equal("hi alice", conversations[0].LastMessage.Text)
	req.True(conversations[0].Unread(alice))
	req.Equal(bob, conversations[1].Target.ID)
	req.False(conversations[1].Unread(alice))
}

func TestConversationService_Chat_Partners_Ordering(t *testing.T) {
	req := require.New(t)
	s := newStore(t)
	ctrl := gomock.NewController(t)
	users := mocks.NewMockIUserRepository(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)
	registry := mocks.NewMockIRegistry(ctrl)
	svc := NewConversationService(s.log, users, messages, registry)
	me, p1, p2, p3 := uuid.NewString(), uuid.NewString(), uuid.NewString(), uuid.NewString()

	// Given three peers whose last messages are at t1 < t2 < t3
	t1 := time.Now().UTC()
	lastAt := map[string]time.Time{p1: t1, p2: t1.Add(time.Minute), p3: t1.Add(2 * time.Minute)}
	messages.EXPECT().ListPartners(me).Return([]string{p1, p2, p3}, nil).Times(1)
	users.EXPECT().GetUsers([]string{p1, p2, p3}).Return([]domain.Identity{
		{ID: p1, FullName: "one"}, {ID: p2, FullName: "two"}, {ID: p3, FullName: "three"},
	}, nil).Times(1)
	for peer, at := range lastAt {
		message := domain.NewMessage(peer, domain.DirectTarget(me), "hi", "", at)
		messages.EXPECT().LastMessage(repositories.DirectConversationKey(me, peer)).Return(&message, nil).Times(1)
	}
	registry.EXPECT().IsOnline(p2).Return(true).AnyTimes()
	registry.EXPECT().IsOnline(gomock.Any()).Return(false).AnyTimes()

	conversations, err := svc.ChatPartners(context.Background(), me)

	// Then the most recent conversation comes first
	req.NoError(err)
	req.Equal([]string{p3, p2, p1}, []string{
		conversations[0].Target.ID, conversations[1].Target.ID, conversations[2].Target.ID,
	})
	req.True(conversations[1].Online)
	req.False(conversations[0].Online)
}

func TestConversationService_Chat_Partners_Storage_Failure(t *testing.T) {
	req := require.New(t)
	s := newStore(t)
	ctrl := gomock.NewController(t)
	users := mocks.NewMockIUserRepository(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)
	registry := mocks.NewMockIRegistry(ctrl)
	svc := NewConversationService(s.log, users, messages, registry)
	me, peer := uuid.NewString(), uuid.NewString()

	messages.EXPECT().ListPartners(me).Return([]string{peer}, nil).Times(1)
	users.EXPECT().GetUsers([]string{peer}).Return([]domain.Identity{{ID: peer}}, nil).Times(1)
	messages.EXPECT().LastMessage(gomock.Any()).Return(nil, errors.Persistence(fmt.Errorf("disk full"))).Times(1)

	_, err := svc.ChatPartners(context.Background(), me)
	req.ErrorIs(err, errors.ErrPersistence)
}
