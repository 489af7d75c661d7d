//go:generate go run go.uber.org/mock/mockgen -source=group_service.go -destination=../mocks/mock_group_service.go -package=mocks
package services

import (
	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/repositories"
	"context"
	"log/slog"
	"strings"

	"github.com/samber/lo"
)

type IGroupService interface {
	Create(ctx context.Context, actingID, name string, members []string) (domain.Group, error)
	ListMine(ctx context.Context, userID string) ([]domain.Conversation, error)
	AddMember(ctx context.Context, actingID, groupID, memberID string) (domain.Group, error)
	RemoveMember(ctx context.Context, actingID, groupID, memberID string) (domain.Group, error)
}

// GroupService manages group rooms. Any member may add or remove members,
// but only friends of the acting member can be added.
type GroupService struct {
	log           *slog.Logger
	groups        repositories.IGroupRepository
	messages      repositories.IMessageRepository
	relationships IRelationshipService
}

func NewGroupService(log *slog.Logger, groups repositories.IGroupRepository,
	messages repositories.IMessageRepository, relationships IRelationshipService) *GroupService {
	return &GroupService{log: log, groups: groups, messages: messages, relationships: relationships}
}

// Create builds a group administered by actingID.
// It needs a name and at least one other member, all friends of actingID.
func (s *GroupService) Create(ctx context.Context, actingID, name string, members []string) (domain.Group, error) {
	name = strings.TrimSpace(name)
	others := lo.Uniq(lo.FilterMap(members, func(m string, _ int) (string, bool) {
		id := domain.CanonicalID(m)
		return id, id != "" && !domain.SameID(id, actingID)
	}))
	if name == "" || len(others) == 0 {
		return domain.Group{}, errors.ErrGroupNameRequired
	}
	for _, member := range others {
		if err := s.requireFriend(ctx, actingID, member); err != nil {
			return domain.Group{}, err
		}
	}

	group, err := s.groups.CreateGroup(name, actingID, others)
	if err != nil {
		return domain.Group{}, err
	}
	s.log.Debug("Group created", "group_id", group.ID, "admin", group.Admin, "members", len(group.Members))
	return group, nil
}

// ListMine returns the groups of userID with their last message, most recent first.
func (s *GroupService) ListMine(ctx context.Context, userID string) ([]domain.Conversation, error) {
	groups, err := s.groups.ListGroupsForUser(userID)
	if err != nil {
		return nil, err
	}
	conversations := make([]domain.Conversation, 0, len(groups))
	for _, group := range groups {
		last, err := s.messages.LastMessage(repositories.GroupConversationKey(group.ID))
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, domain.Conversation{
			Target:      domain.GroupTarget(group.ID),
			Name:        group.Name,
			Avatar:      group.Avatar,
			Admin:       group.Admin,
			Members:     group.Members,
			LastMessage: last,
		})
	}
	domain.SortConversations(conversations)
	return conversations, nil
}

// AddMember checks the friendship at the time of the call, admins included.
func (s *GroupService) AddMember(ctx context.Context, actingID, groupID, memberID string) (domain.Group, error) {
	group, err := s.memberGroup(groupID, actingID)
	if err != nil {
		return domain.Group{}, err
	}
	if group.HasMember(memberID) {
		return domain.Group{}, errors.ErrAlreadyMember
	}
	if err = s.requireFriend(ctx, actingID, memberID); err != nil {
		return domain.Group{}, err
	}
	if err = s.groups.AddMember(groupID, memberID); err != nil {
		return domain.Group{}, err
	}
	s.log.Debug("Member added", "group_id", group.ID, "by", actingID, "member", memberID)
	return s.groups.GetGroup(groupID)
}

// RemoveMember removes memberID, doing nothing when they already left.
// The admin cannot be removed.
func (s *GroupService) RemoveMember(ctx context.Context, actingID, groupID, memberID string) (domain.Group, error) {
	if strings.TrimSpace(memberID) == "" {
		return domain.Group{}, errors.ErrInvalidRequest
	}
	group, err := s.memberGroup(groupID, actingID)
	if err != nil {
		return domain.Group{}, err
	}
	if domain.SameID(group.Admin, memberID) {
		return domain.Group{}, errors.ErrAdminRemoval
	}
	if err = s.groups.RemoveMember(groupID, memberID); err != nil {
		return domain.Group{}, err
	}
	s.log.Debug("Member removed", "group_id", group.ID, "by", actingID, "member", memberID)
	return s.groups.GetGroup(groupID)
}

func (s *GroupService) memberGroup(groupID, actingID string) (domain.Group, error) {
	group, err := s.groups.GetGroup(groupID)
	if err != nil {
		return domain.Group{}, err
	}
	if !group.HasMember(actingID) {
		return domain.Group{}, errors.ErrNotAMember
	}
	return group, nil
}

func (s *GroupService) requireFriend(ctx context.Context, actingID, candidateID string) error {
	ok, err := s.relationships.CanAddToGroup(ctx, actingID, candidateID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrNotAFriend
	}
	return nil
}
