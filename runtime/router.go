// Package runtime handles presence and message propagation.
// It routes messages to live connections without containing relationship rules.
package runtime

import (
	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/domain/event"
	"chat-hub/errors"
	"chat-hub/repositories"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Router persists messages and pushes them to the live connections of their recipients.
type Router struct {
	log       *slog.Logger
	registry  contract.IRegistry
	transport contract.Transport
	users     repositories.IUserRepository
	groups    repositories.IGroupRepository
	messages  repositories.IMessageRepository
	images    contract.ImageStore
	moderator contract.Moderator
	now       func() time.Time
}

func NewRouter(log *slog.Logger, registry contract.IRegistry, transport contract.Transport,
	users repositories.IUserRepository, groups repositories.IGroupRepository,
	messages repositories.IMessageRepository, images contract.ImageStore) *Router {
	return &Router{
		log:       log,
		registry:  registry,
		transport: transport,
		users:     users,
		groups:    groups,
		messages:  messages,
		images:    images,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithModerator censors message text before it is stored.
func (r *Router) WithModerator(moderator contract.Moderator) *Router {
	r.moderator = moderator
	return r
}

// Send validates, authorizes, stores and pushes a message.
// The returned message is the only confirmation the sender gets: push failures
// are logged and never surfaced.
func (r *Router) Send(ctx context.Context, actingID string, target domain.Target, body domain.Body) (domain.Message, error) {
	body = body.Normalized()
	if body.Empty() {
		return domain.Message{}, errors.ErrEmptyBody
	}
	if body.TooLong() {
		return domain.Message{}, errors.ErrTextTooLong
	}

	recipients, err := r.authorize(actingID, target)
	if err != nil {
		return domain.Message{}, err
	}

	image := ""
	if body.Image != "" {
		image, err = r.images.Upload(ctx, body.Image)
		if err != nil {
			return domain.Message{}, uploadError(err)
		}
	}

	text := body.Text
	if r.moderator != nil && text != "" {
		text = r.moderator.Censor(text)
	}

	message := domain.NewMessage(actingID, target, text, image, r.now())
	if err = r.messages.StoreMessage(message); err != nil {
		return domain.Message{}, err
	}

	r.push(ctx, message, recipients)
	return message, nil
}

// authorize checks that actingID may write to target and returns who should be pushed.
func (r *Router) authorize(actingID string, target domain.Target) ([]string, error) {
	if target.IsGroup() {
		group, err := r.groups.GetGroup(target.ID)
		if err != nil {
			return nil, err
		}
		if !group.HasMember(actingID) {
			return nil, errors.ErrNotAMember
		}
		return lo.Reject(group.Members, func(member string, _ int) bool {
			return domain.SameID(member, actingID)
		}), nil
	}

	if domain.SameID(target.ID, actingID) {
		return nil, errors.ErrSelfMessage
	}
	found, err := r.users.Exists(target.ID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.ErrUnknownRecipient
	}
	return []string{target.ID}, nil
}

// push hands one newMessage event per live recipient to the transport.
// Offline recipients are skipped: they will fetch the history later.
func (r *Router) push(ctx context.Context, message domain.Message, recipients []string) {
	e := event.NewMessage{Message: message.Clone()}
	for _, recipient := range recipients {
		conn, ok := r.registry.Lookup(recipient)
		if !ok {
			continue
		}
		if err := r.transport.Deliver(ctx, conn, e); err != nil {
			r.log.Warn("Unable to deliver message",
				"message_id", message.ID,
				"recipient", recipient,
				"error", err)
		}
	}
}

// MarkRead adds readerID to the readers of the given messages.
// Calling it again with the same ids changes nothing. Unknown ids are ignored,
// a message readerID is not part of rejects the whole call.
func (r *Router) MarkRead(ctx context.Context, readerID string, messageIDs []string) error {
	ids := lo.Uniq(lo.Compact(lo.Map(messageIDs, func(id string, _ int) string {
		return strings.TrimSpace(id)
	})))
	if len(ids) == 0 {
		return nil
	}

	membership := make(map[string]bool)
	readable := make([]string, 0, len(ids))
	for _, id := range ids {
		message, err := r.messages.GetMessage(id)
		if errors.Is(err, errors.ErrMessageNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		allowed, err := r.participates(readerID, message, membership)
		if err != nil {
			return err
		}
		if !allowed {
			r.log.Warn("Read receipt refused", "reader", readerID, "message_id", id)
			return errors.ErrNotAParticipant
		}
		readable = append(readable, id)
	}
	if len(readable) == 0 {
		return nil
	}
	_, err := r.messages.MarkRead(readerID, readable)
	return err
}

// participates tells whether readerID is the sender or receiver of a direct
// message, or a member of the group of a group message.
func (r *Router) participates(readerID string, message domain.Message, membership map[string]bool) (bool, error) {
	if !message.IsGroup() {
		return domain.SameID(message.SenderID, readerID) || domain.SameID(message.ReceiverID, readerID), nil
	}
	groupID := domain.CanonicalID(message.GroupID)
	if member, ok := membership[groupID]; ok {
		return member, nil
	}
	member, err := r.groups.IsMember(groupID, readerID)
	if err != nil {
		return false, err
	}
	membership[groupID] = member
	return member, nil
}

// Messages returns the conversation between readerID and target, oldest first.
// Every message not yet read by readerID is marked read, in storage and in the result.
func (r *Router) Messages(ctx context.Context, readerID string, target domain.Target) ([]domain.Message, error) {
	if _, err := r.authorizeRead(readerID, target); err != nil {
		return nil, err
	}

	messages, err := r.messages.GetConversation(repositories.ConversationKey(readerID, target))
	if err != nil {
		return nil, err
	}

	unread := lo.FilterMap(messages, func(m domain.Message, _ int) (string, bool) {
		return m.ID, !m.HasRead(readerID)
	})
	if len(unread) == 0 {
		return messages, nil
	}
	if _, err = r.messages.MarkRead(readerID, unread); err != nil {
		return nil, err
	}
	r.log.Debug(fmt.Sprintf("%d message(s) marked as read", len(unread)), "reader", readerID, "target", target.String())
	for i := range messages {
		messages[i].MarkReadBy(readerID)
	}
	return messages, nil
}

func (r *Router) authorizeRead(readerID string, target domain.Target) ([]string, error) {
	if !target.IsGroup() && domain.SameID(target.ID, readerID) {
		return nil, nil
	}
	return r.authorize(readerID, target)
}

func uploadError(err error) error {
	var domainErr *errors.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return errors.Persistence(fmt.Errorf("image upload: %w", err))
}
