//go:generate go run go.uber.org/mock/mockgen -source=friend.go -destination=../mocks/mock_friend_repository.go -package=mocks
package repositories

import (
	"chat-hub/domain"
	"chat-hub/errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IFriendRepository interface {
	CreateRequest(senderID, receiverID string) (domain.FriendLink, error)
	AcceptRequest(requestID, actingID string) (domain.FriendLink, error)
	GetRequest(requestID string) (domain.FriendLink, error)
	ListPending(userID string) ([]domain.FriendLink, error)
	ListFriendIDs(userID string) ([]string, error)
	AreFriends(userID, otherID string) (bool, error)
}

// FriendRepository stores friend requests and the friendship edges.
//
// Keys:
//
//	freq:{requestID}            the request itself
//	fpair:{lowID}:{highID}      id of the active (pending or accepted) request of an unordered pair
//	fpend:{userID}:{requestID}  pending requests involving userID, in both directions
//	friend:{userID}:{friendID}  friendship edge, written for both parties
type FriendRepository struct {
	db *badger.DB
}

func NewFriendRepository(db *badger.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

func requestKey(id string) string { return "freq:" + domain.CanonicalID(id) }

func pairKey(a, b string) string {
	a, b = domain.CanonicalID(a), domain.CanonicalID(b)
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("fpair:%s:%s", a, b)
}

func pendingKey(userID, requestID string) string {
	return fmt.Sprintf("fpend:%s:%s", domain.CanonicalID(userID), requestID)
}

func friendKey(userID, friendID string) string {
	return fmt.Sprintf("friend:%s:%s", domain.CanonicalID(userID), domain.CanonicalID(friendID))
}

// CreateRequest stores a pending request unless the pair already has an active one.
// The pair index is read and written in the same transaction, so two crossed
// requests (A→B and B→A) cannot both commit.
func (f *FriendRepository) CreateRequest(senderID, receiverID string) (domain.FriendLink, error) {
	link := domain.FriendLink{
		ID:         uuid.NewString(),
		SenderID:   domain.CanonicalID(senderID),
		ReceiverID: domain.CanonicalID(receiverID),
		Status:     domain.FriendPending,
		CreatedAt:  time.Now().UTC(),
	}
	err := update(f.db, func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(pairKey(senderID, receiverID)))
		switch {
		case err == nil:
			existingID, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			var existing domain.FriendLink
			if err = getValue(txn, requestKey(string(existingID)), &existing); err != nil {
				return err
			}
			if existing.Status == domain.FriendAccepted {
				return errors.ErrAlreadyFriends
			}
			return errors.ErrDuplicateRequest
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}

		if err = setValue(txn, requestKey(link.ID), link); err != nil {
			return err
		}
		if err = txn.Set([]byte(pairKey(senderID, receiverID)), []byte(link.ID)); err != nil {
			return err
		}
		if err = txn.Set([]byte(pendingKey(senderID, link.ID)), nil); err != nil {
			return err
		}
		return txn.Set([]byte(pendingKey(receiverID, link.ID)), nil)
	})
	if err != nil {
		return domain.FriendLink{}, wrap(err)
	}
	return link, nil
}

// AcceptRequest flips a pending request to accepted and writes both friendship edges.
// The status check and the write happen in one serializable transaction: when two
// accepts race, the loser is aborted by Badger, replayed, and then sees the
// accepted status.
func (f *FriendRepository) AcceptRequest(requestID, actingID string) (domain.FriendLink, error) {
	var link domain.FriendLink
	err := update(f.db, func(txn *badger.Txn) error {
		if err := getValue(txn, requestKey(requestID), &link); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return errors.ErrRequestNotFound
			}
			return err
		}
		if !domain.SameID(link.ReceiverID, actingID) {
			return errors.ErrNotRequestReceiver
		}
		if link.Status != domain.FriendPending {
			return errors.ErrInvalidState
		}

		link.Status = domain.FriendAccepted
		if err := setValue(txn, requestKey(link.ID), link); err != nil {
			return err
		}
		for _, key := range []string{
			friendKey(link.SenderID, link.ReceiverID),
			friendKey(link.ReceiverID, link.SenderID),
		} {
			if err := txn.Set([]byte(key), nil); err != nil {
				return err
			}
		}
		if err := txn.Delete([]byte(pendingKey(link.SenderID, link.ID))); err != nil {
			return err
		}
		return txn.Delete([]byte(pendingKey(link.ReceiverID, link.ID)))
	})
	if errors.Is(err, badger.ErrConflict) {
		return domain.FriendLink{}, f.afterConflict(requestID, err)
	}
	if err != nil {
		return domain.FriendLink{}, wrap(err)
	}
	return link, nil
}

// afterConflict resolves an accept that lost every retry: a request another
// accept already processed is reported as such.
func (f *FriendRepository) afterConflict(requestID string, cause error) error {
	link, err := f.GetRequest(requestID)
	if err != nil {
		return err
	}
	if link.Status != domain.FriendPending {
		return errors.ErrInvalidState
	}
	return wrap(cause)
}

func (f *FriendRepository) GetRequest(requestID string) (domain.FriendLink, error) {
	var link domain.FriendLink
	err := f.db.View(func(txn *badger.Txn) error {
		return getValue(txn, requestKey(requestID), &link)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.FriendLink{}, errors.ErrRequestNotFound
	}
	return link, wrap(err)
}

// ListPending returns the pending requests sent or received by userID.
func (f *FriendRepository) ListPending(userID string) ([]domain.FriendLink, error) {
	var links []domain.FriendLink
	err := f.db.View(func(txn *badger.Txn) error {
		prefix := fmt.Sprintf("fpend:%s:", domain.CanonicalID(userID))
		for _, requestID := range keySuffixes(txn, prefix) {
			var link domain.FriendLink
			if err := getValue(txn, requestKey(requestID), &link); err != nil {
				return err
			}
			if link.Status == domain.FriendPending {
				links = append(links, link)
			}
		}
		return nil
	})
	return links, wrap(err)
}

func (f *FriendRepository) ListFriendIDs(userID string) ([]string, error) {
	var ids []string
	err := f.db.View(func(txn *badger.Txn) error {
		ids = keySuffixes(txn, fmt.Sprintf("friend:%s:", domain.CanonicalID(userID)))
		return nil
	})
	return ids, wrap(err)
}

func (f *FriendRepository) AreFriends(userID, otherID string) (bool, error) {
	var found bool
	err := f.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = exists(txn, friendKey(userID, otherID))
		return err
	})
	return found, wrap(err)
}
