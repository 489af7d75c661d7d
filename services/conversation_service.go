package services

import (
	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/repositories"
	"context"
	"log/slog"

	"github.com/samber/lo"
)

// ConversationService builds the lists shown beside the chat window.
type ConversationService struct {
	log      *slog.Logger
	users    repositories.IUserRepository
	messages repositories.IMessageRepository
	registry contract.IRegistry
}

func NewConversationService(log *slog.Logger, users repositories.IUserRepository,
	messages repositories.IMessageRepository, registry contract.IRegistry) *ConversationService {
	return &ConversationService{log: log, users: users, messages: messages, registry: registry}
}

// Contacts returns every user except userID.
func (s *ConversationService) Contacts(ctx context.Context, userID string) ([]domain.Identity, error) {
	users, err := s.users.ListUsers()
	if err != nil {
		return nil, err
	}
	contacts := lo.Filter(users, func(u domain.Identity, _ int) bool {
		return !domain.SameID(u.ID, userID)
	})
	for i := range contacts {
		contacts[i].Online = s.registry.IsOnline(contacts[i].ID)
	}
	return contacts, nil
}

// ChatPartners returns one conversation per user userID exchanged direct
// messages with, most recent first. Groups are not included.
func (s *ConversationService) ChatPartners(ctx context.Context, userID string) ([]domain.Conversation, error) {
	partnerIDs, err := s.messages.ListPartners(userID)
	if err != nil {
		return nil, err
	}
	partners, err := s.users.GetUsers(partnerIDs)
	if err != nil {
		return nil, err
	}

	conversations := make([]domain.Conversation, 0, len(partners))
	for _, partner := range partners {
		last, err := s.messages.LastMessage(repositories.DirectConversationKey(userID, partner.ID))
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, domain.Conversation{
			Target:      domain.DirectTarget(partner.ID),
			Name:        partner.FullName,
			Avatar:      partner.ProfilePic,
			Email:       partner.Email,
			Online:      s.registry.IsOnline(partner.ID),
			LastMessage: last,
		})
	}
	domain.SortConversations(conversations)
	return conversations, nil
}

// Online returns the ids of the connected users.
func (s *ConversationService) Online() []string {
	return s.registry.OnlineSet()
}
