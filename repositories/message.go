//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"chat-hub/domain"
	"chat-hub/errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type IMessageRepository interface {
	StoreMessage(message domain.Message) error
	GetMessage(id string) (domain.Message, error)
	GetConversation(conversationKey string) ([]domain.Message, error)
	LastMessage(conversationKey string) (*domain.Message, error)
	MarkRead(readerID string, messageIDs []string) ([]domain.Message, error)
	ListPartners(userID string) ([]string, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) *MessageRepository {
	return &MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// DirectConversationKey identifies the DM between two users, whatever the direction.
func DirectConversationKey(a, b string) string {
	a, b = domain.CanonicalID(a), domain.CanonicalID(b)
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("dm:%s:%s", a, b)
}

func GroupConversationKey(groupID string) string {
	return "grp:" + domain.CanonicalID(groupID)
}

// ConversationKey returns the key of the conversation between userID and target.
func ConversationKey(userID string, target domain.Target) string {
	if target.IsGroup() {
		return GroupConversationKey(target.ID)
	}
	return DirectConversationKey(userID, target.ID)
}

func messageKey(id string) string { return "msg:" + id }

func partnerKey(userID, peerID string) string {
	return fmt.Sprintf("partner:%s:%s", domain.CanonicalID(userID), domain.CanonicalID(peerID))
}

func conversationPrefix(conversationKey string) string {
	return "conv:" + conversationKey + ":"
}

// StoreMessage persists a message with its conversation index.
// The index key is formatted as "conv:{conversation}:{timestamp_padded}:{id}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using the message id as a collision disconnector if two
//     messages arrive at the same nanosecond.
//
// Direct messages also record both users as chat partners of each other.
func (m *MessageRepository) StoreMessage(message domain.Message) error {
	if !message.Valid() {
		return errors.Validation("message must have exactly one receiver or group")
	}
	var conversation string
	if message.IsGroup() {
		conversation = GroupConversationKey(message.GroupID)
	} else {
		conversation = DirectConversationKey(message.SenderID, message.ReceiverID)
	}
	indexKey := fmt.Sprintf("%s%019d:%s",
		conversationPrefix(conversation),
		message.CreatedAt.UnixNano(),
		message.ID,
	)
	return wrap(update(m.db, func(txn *badger.Txn) error {
		if err := setValue(txn, messageKey(message.ID), message); err != nil {
			return err
		}
		if err := txn.Set([]byte(indexKey), []byte(message.ID)); err != nil {
			return err
		}
		if message.IsGroup() {
			return nil
		}
		if err := txn.Set([]byte(partnerKey(message.SenderID, message.ReceiverID)), nil); err != nil {
			return err
		}
		return txn.Set([]byte(partnerKey(message.ReceiverID, message.SenderID)), nil)
	}))
}

func (m *MessageRepository) GetMessage(id string) (domain.Message, error) {
	var message domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		return getValue(txn, messageKey(id), &message)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, errors.ErrMessageNotFound
	}
	return message, wrap(err)
}

// GetConversation returns the messages of a conversation, oldest first.
// When limitMessages is set, only the most recent ones are returned.
func (m *MessageRepository) GetConversation(conversationKey string) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		ids, err := m.scanConversation(txn, conversationKey, m.limitMessages)
		if err != nil {
			return err
		}
		for _, id := range ids {
			var message domain.Message
			if err = getValue(txn, messageKey(id), &message); err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, wrap(err)
	}
	slices.Reverse(messages)
	return messages, nil
}

// LastMessage returns the most recent message of a conversation, or nil.
func (m *MessageRepository) LastMessage(conversationKey string) (*domain.Message, error) {
	var last *domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		ids, err := m.scanConversation(txn, conversationKey, lo.ToPtr(1))
		if err != nil || len(ids) == 0 {
			return err
		}
		var message domain.Message
		if err = getValue(txn, messageKey(ids[0]), &message); err != nil {
			return err
		}
		last = &message
		return nil
	})
	return last, wrap(err)
}

// scanConversation walks the conversation index from the newest entry backwards.
func (m *MessageRepository) scanConversation(txn *badger.Txn, conversationKey string, limit *int) ([]string, error) {
	prefix := []byte(conversationPrefix(conversationKey))
	options := badger.DefaultIteratorOptions
	options.Reverse = true
	it := txn.NewIterator(options)
	defer it.Close()

	// Let's go the newest position conv:xxx:9999999999999999999
	// Then, we go back and find few messages
	seekKey := append(slices.Clone(prefix), []byte("9999999999999999999")...)

	var ids []string
	for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
		if limit != nil && len(ids) == *limit {
			m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *limit))
			break
		}
		id, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		ids = append(ids, string(id))
	}
	return ids, nil
}

// MarkRead adds readerID to the readers of each message, with set semantics.
// Unknown ids are ignored. The updated messages are returned.
// Ids are written in batches of markReadBatchSize, each batch in its own transaction.
func (m *MessageRepository) MarkRead(readerID string, messageIDs []string) ([]domain.Message, error) {
	ids := lo.Uniq(lo.Filter(messageIDs, func(id string, _ int) bool {
		return strings.TrimSpace(id) != ""
	}))
	var updated []domain.Message
	for _, batch := range lo.Chunk(ids, markReadBatchSize) {
		messages, err := m.markReadBatch(readerID, batch)
		if err != nil {
			return nil, err
		}
		updated = append(updated, messages...)
	}
	return updated, nil
}

func (m *MessageRepository) markReadBatch(readerID string, messageIDs []string) ([]domain.Message, error) {
	var updated []domain.Message
	err := update(m.db, func(txn *badger.Txn) error {
		updated = updated[:0]
		for _, id := range messageIDs {
			var message domain.Message
			err := getValue(txn, messageKey(id), &message)
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if message.MarkReadBy(readerID) {
				if err = setValue(txn, messageKey(id), message); err != nil {
					return err
				}
			}
			updated = append(updated, message)
		}
		return nil
	})
	if err != nil {
		return nil, wrap(err)
	}
	return updated, nil
}

// ListPartners returns the users userID exchanged direct messages with.
func (m *MessageRepository) ListPartners(userID string) ([]string, error) {
	var ids []string
	err := m.db.View(func(txn *badger.Txn) error {
		ids = keySuffixes(txn, fmt.Sprintf("partner:%s:", domain.CanonicalID(userID)))
		return nil
	})
	return ids, wrap(err)
}
