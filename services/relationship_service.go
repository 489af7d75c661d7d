//go:generate go run go.uber.org/mock/mockgen -source=relationship_service.go -destination=../mocks/mock_relationship_service.go -package=mocks
package services

import (
	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/repositories"
	"context"
	"log/slog"

	"github.com/samber/lo"
)

type IRelationshipService interface {
	SendRequest(ctx context.Context, senderID, receiverID string) (domain.FriendLink, error)
	AcceptRequest(ctx context.Context, requestID, actingID string) error
	ListIncomingRequests(ctx context.Context, userID string) ([]domain.IncomingRequest, error)
	ListFriends(ctx context.Context, userID string) ([]domain.Identity, error)
	ListSuggestions(ctx context.Context, userID string) ([]domain.Identity, error)
	CanAddToGroup(ctx context.Context, actingID, candidateID string) (bool, error)
}

// RelationshipService runs the friend request state machine.
// Every answer is read from the store: friendships are never cached.
type RelationshipService struct {
	log      *slog.Logger
	users    repositories.IUserRepository
	friends  repositories.IFriendRepository
	registry contract.IRegistry
}

func NewRelationshipService(log *slog.Logger, users repositories.IUserRepository,
	friends repositories.IFriendRepository, registry contract.IRegistry) *RelationshipService {
	return &RelationshipService{log: log, users: users, friends: friends, registry: registry}
}

// SendRequest creates a pending request from senderID to receiverID.
func (s *RelationshipService) SendRequest(ctx context.Context, senderID, receiverID string) (domain.FriendLink, error) {
	if domain.SameID(senderID, receiverID) {
		return domain.FriendLink{}, errors.ErrSelfReference
	}
	found, err := s.users.Exists(receiverID)
	if err != nil {
		return domain.FriendLink{}, err
	}
	if !found {
		return domain.FriendLink{}, errors.ErrUserNotFound
	}
	link, err := s.friends.CreateRequest(senderID, receiverID)
	if err != nil {
		return domain.FriendLink{}, err
	}
	s.log.Debug("Friend request sent", "request_id", link.ID, "sender", link.SenderID, "receiver", link.ReceiverID)
	return link, nil
}

// AcceptRequest turns a pending request into a friendship.
// Only the receiver may accept, and only once.
func (s *RelationshipService) AcceptRequest(ctx context.Context, requestID, actingID string) error {
	link, err := s.friends.AcceptRequest(requestID, actingID)
	if err != nil {
		return err
	}
	s.log.Debug("Friend request accepted", "request_id", link.ID, "sender", link.SenderID, "receiver", link.ReceiverID)
	return nil
}

// ListIncomingRequests returns the pending requests received by userID with their sender.
func (s *RelationshipService) ListIncomingRequests(ctx context.Context, userID string) ([]domain.IncomingRequest, error) {
	pending, err := s.friends.ListPending(userID)
	if err != nil {
		return nil, err
	}
	incoming := lo.Filter(pending, func(link domain.FriendLink, _ int) bool {
		return domain.SameID(link.ReceiverID, userID)
	})
	senders, err := s.users.GetUsers(lo.Map(incoming, func(link domain.FriendLink, _ int) string {
		return link.SenderID
	}))
	if err != nil {
		return nil, err
	}
	byID := lo.KeyBy(senders, func(u domain.Identity) string { return u.ID })

	requests := make([]domain.IncomingRequest, 0, len(incoming))
	for _, link := range incoming {
		sender, ok := byID[link.SenderID]
		if !ok {
			continue
		}
		requests = append(requests, domain.IncomingRequest{FriendLink: link, Sender: s.withPresence(sender)})
	}
	return requests, nil
}

func (s *RelationshipService) ListFriends(ctx context.Context, userID string) ([]domain.Identity, error) {
	ids, err := s.friends.ListFriendIDs(userID)
	if err != nil {
		return nil, err
	}
	friends, err := s.users.GetUsers(ids)
	if err != nil {
		return nil, err
	}
	return lo.Map(friends, func(u domain.Identity, _ int) domain.Identity { return s.withPresence(u) }), nil
}

// ListSuggestions returns everybody but userID, their friends and the users
// they have a pending request with, in either direction.
func (s *RelationshipService) ListSuggestions(ctx context.Context, userID string) ([]domain.Identity, error) {
	friendIDs, err := s.friends.ListFriendIDs(userID)
	if err != nil {
		return nil, err
	}
	pending, err := s.friends.ListPending(userID)
	if err != nil {
		return nil, err
	}

	excluded := lo.SliceToMap(friendIDs, func(id string) (string, struct{}) { return id, struct{}{} })
	excluded[domain.CanonicalID(userID)] = struct{}{}
	for _, link := range pending {
		excluded[domain.CanonicalID(link.Other(userID))] = struct{}{}
	}

	users, err := s.users.ListUsers()
	if err != nil {
		return nil, err
	}
	suggestions := lo.UniqBy(lo.Filter(users, func(u domain.Identity, _ int) bool {
		_, skip := excluded[domain.CanonicalID(u.ID)]
		return !skip
	}), func(u domain.Identity) string { return u.ID })
	return lo.Map(suggestions, func(u domain.Identity, _ int) domain.Identity { return s.withPresence(u) }), nil
}

// CanAddToGroup reports whether candidateID is a friend of actingID right now.
func (s *RelationshipService) CanAddToGroup(ctx context.Context, actingID, candidateID string) (bool, error) {
	return s.friends.AreFriends(actingID, candidateID)
}

func (s *RelationshipService) withPresence(user domain.Identity) domain.Identity {
	user.Online = s.registry.IsOnline(user.ID)
	return user
}
