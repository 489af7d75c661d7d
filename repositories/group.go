//go:generate go run go.uber.org/mock/mockgen -source=group.go -destination=../mocks/mock_group_repository.go -package=mocks
package repositories

import (
	"chat-hub/domain"
	"chat-hub/errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IGroupRepository interface {
	CreateGroup(name, adminID string, members []string) (domain.Group, error)
	GetGroup(groupID string) (domain.Group, error)
	AddMember(groupID, userID string) error
	RemoveMember(groupID, userID string) error
	IsMember(groupID, userID string) (bool, error)
	ListGroupsForUser(userID string) ([]domain.Group, error)
}

// GroupRepository stores groups with one key per membership, so that
// concurrent changes on different members never overwrite each other.
//
// Keys:
//
//	group:{groupID}             group header (name, admin, avatar)
//	gmember:{groupID}:{userID}  membership
//	ugroup:{userID}:{groupID}   reverse index used to list the groups of a user
type GroupRepository struct {
	db *badger.DB
}

func NewGroupRepository(db *badger.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

type groupHeader struct {
	ID        string    `cbor:"id"`
	Name      string    `cbor:"name"`
	Admin     string    `cbor:"admin"`
	Avatar    string    `cbor:"avatar"`
	CreatedAt time.Time `cbor:"created_at"`
}

func groupKey(id string) string { return "group:" + domain.CanonicalID(id) }

func memberKey(groupID, userID string) string {
	return fmt.Sprintf("gmember:%s:%s", domain.CanonicalID(groupID), domain.CanonicalID(userID))
}

func userGroupKey(userID, groupID string) string {
	return fmt.Sprintf("ugroup:%s:%s", domain.CanonicalID(userID), domain.CanonicalID(groupID))
}

// CreateGroup stores the group and its initial members. The admin is always a member.
func (g *GroupRepository) CreateGroup(name, adminID string, members []string) (domain.Group, error) {
	header := groupHeader{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Admin:     domain.CanonicalID(adminID),
		CreatedAt: time.Now().UTC(),
	}
	all := lo.Uniq(append(lo.Map(members, func(m string, _ int) string {
		return domain.CanonicalID(m)
	}), header.Admin))

	err := update(g.db, func(txn *badger.Txn) error {
		if err := setValue(txn, groupKey(header.ID), header); err != nil {
			return err
		}
		for _, member := range all {
			if err := addMembership(txn, header.ID, member); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Group{}, wrap(err)
	}
	return header.toGroup(all), nil
}

func (g *GroupRepository) GetGroup(groupID string) (domain.Group, error) {
	var group domain.Group
	err := g.db.View(func(txn *badger.Txn) error {
		var err error
		group, err = loadGroup(txn, groupID)
		return err
	})
	return group, err
}

// AddMember adds a user to an existing group.
func (g *GroupRepository) AddMember(groupID, userID string) error {
	return wrap(update(g.db, func(txn *badger.Txn) error {
		if err := requireGroup(txn, groupID); err != nil {
			return err
		}
		member, err := exists(txn, memberKey(groupID, userID))
		if err != nil {
			return err
		}
		if member {
			return errors.ErrAlreadyMember
		}
		return addMembership(txn, groupID, userID)
	}))
}

// RemoveMember is a no-op when the user is not a member.
// The admin always stays a member.
func (g *GroupRepository) RemoveMember(groupID, userID string) error {
	return wrap(update(g.db, func(txn *badger.Txn) error {
		var header groupHeader
		if err := getValue(txn, groupKey(groupID), &header); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return errors.ErrGroupNotFound
			}
			return err
		}
		if domain.SameID(header.Admin, userID) {
			return errors.ErrAdminRemoval
		}
		if err := txn.Delete([]byte(memberKey(groupID, userID))); err != nil {
			return err
		}
		return txn.Delete([]byte(userGroupKey(userID, groupID)))
	}))
}

func (g *GroupRepository) IsMember(groupID, userID string) (bool, error) {
	var member bool
	err := g.db.View(func(txn *badger.Txn) error {
		var err error
		member, err = exists(txn, memberKey(groupID, userID))
		return err
	})
	return member, wrap(err)
}

func (g *GroupRepository) ListGroupsForUser(userID string) ([]domain.Group, error) {
	var groups []domain.Group
	err := g.db.View(func(txn *badger.Txn) error {
		for _, groupID := range keySuffixes(txn, fmt.Sprintf("ugroup:%s:", domain.CanonicalID(userID))) {
			group, err := loadGroup(txn, groupID)
			if errors.Is(err, errors.ErrGroupNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			groups = append(groups, group)
		}
		return nil
	})
	return groups, wrap(err)
}

func addMembership(txn *badger.Txn, groupID, userID string) error {
	if err := txn.Set([]byte(memberKey(groupID, userID)), nil); err != nil {
		return err
	}
	return txn.Set([]byte(userGroupKey(userID, groupID)), nil)
}

func requireGroup(txn *badger.Txn, groupID string) error {
	found, err := exists(txn, groupKey(groupID))
	if err != nil {
		return err
	}
	if !found {
		return errors.ErrGroupNotFound
	}
	return nil
}

func loadGroup(txn *badger.Txn, groupID string) (domain.Group, error) {
	var header groupHeader
	if err := getValue(txn, groupKey(groupID), &header); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domain.Group{}, errors.ErrGroupNotFound
		}
		return domain.Group{}, wrap(err)
	}
	members := keySuffixes(txn, fmt.Sprintf("gmember:%s:", header.ID))
	return header.toGroup(members), nil
}

func (h groupHeader) toGroup(members []string) domain.Group {
	return domain.Group{
		ID:        h.ID,
		Name:      h.Name,
		Admin:     h.Admin,
		Members:   members,
		Avatar:    h.Avatar,
		CreatedAt: h.CreatedAt,
	}
}
