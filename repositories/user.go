//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"chat-hub/domain"
	"chat-hub/errors"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IUserRepository interface {
	CreateUser(fullName, email, hashedPassword string) (domain.Identity, error)
	GetUserByEmail(email string) (User, error)
	GetUser(id string) (domain.Identity, error)
	Exists(id string) (bool, error)
	GetUsers(ids []string) ([]domain.Identity, error)
	ListUsers() ([]domain.Identity, error)
	UpdateProfilePic(id, profilePic string) (domain.Identity, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) *UserRepository {
	return &UserRepository{db: db}
}

// User is the stored form of an account.
// PasswordHash never leaves the repository and service layers.
type User struct {
	ID           string    `cbor:"id"`
	FullName     string    `cbor:"full_name"`
	Email        string    `cbor:"email"`
	PasswordHash string    `cbor:"password_hash"`
	ProfilePic   string    `cbor:"profile_pic"`
	CreatedAt    time.Time `cbor:"created_at"`
}

func (u User) Identity() domain.Identity {
	return domain.Identity{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
		CreatedAt:  u.CreatedAt,
	}
}

func userKey(id string) string { return "user:" + domain.CanonicalID(id) }

func emailKey(email string) string {
	return "email:" + strings.ToLower(strings.TrimSpace(email))
}

// CreateUser persists a new account and reserves its e-mail address.
// The e-mail reservation and the record are written in the same transaction.
func (u *UserRepository) CreateUser(fullName, email, hashedPassword string) (domain.Identity, error) {
	user := User{
		ID:           uuid.NewString(),
		FullName:     strings.TrimSpace(fullName),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC(),
	}
	err := update(u.db, func(txn *badger.Txn) error {
		taken, err := exists(txn, emailKey(email))
		if err != nil {
			return err
		}
		if taken {
			return errors.ErrUserAlreadyExists
		}
		if err = txn.Set([]byte(emailKey(email)), []byte(user.ID)); err != nil {
			return err
		}
		return setValue(txn, userKey(user.ID), user)
	})
	if err != nil {
		return domain.Identity{}, wrap(err)
	}
	return user.Identity(), nil
}

// GetUserByEmail resolves the e-mail index, then loads the account.
func (u *UserRepository) GetUserByEmail(email string) (User, error) {
	var user User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(emailKey(email)))
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return getValue(txn, userKey(string(id)), &user)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return User{}, errors.ErrUserNotFound
	}
	return user, wrap(err)
}

func (u *UserRepository) GetUser(id string) (domain.Identity, error) {
	var user User
	err := u.db.View(func(txn *badger.Txn) error {
		return getValue(txn, userKey(id), &user)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Identity{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.Identity{}, wrap(err)
	}
	return user.Identity(), nil
}

func (u *UserRepository) Exists(id string) (bool, error) {
	var found bool
	err := u.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = exists(txn, userKey(id))
		return err
	})
	return found, wrap(err)
}

// GetUsers loads the given accounts, silently skipping unknown ids.
func (u *UserRepository) GetUsers(ids []string) ([]domain.Identity, error) {
	var users []domain.Identity
	err := u.db.View(func(txn *badger.Txn) error {
		for _, id := range lo.Uniq(ids) {
			var user User
			err := getValue(txn, userKey(id), &user)
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			users = append(users, user.Identity())
		}
		return nil
	})
	return users, wrap(err)
}

// ListUsers returns every account ordered by name.
func (u *UserRepository) ListUsers() ([]domain.Identity, error) {
	var users []domain.Identity
	err := u.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Prefix = []byte("user:")
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var user User
			if err := it.Item().Value(func(val []byte) error {
				return decode(val, &user)
			}); err != nil {
				return err
			}
			users = append(users, user.Identity())
		}
		return nil
	})
	slices.SortFunc(users, func(a, b domain.Identity) int {
		return strings.Compare(a.FullName, b.FullName)
	})
	return users, wrap(err)
}

func (u *UserRepository) UpdateProfilePic(id, profilePic string) (domain.Identity, error) {
	var user User
	err := update(u.db, func(txn *badger.Txn) error {
		if err := getValue(txn, userKey(id), &user); err != nil {
			return err
		}
		user.ProfilePic = profilePic
		return setValue(txn, userKey(id), user)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Identity{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.Identity{}, wrap(err)
	}
	return user.Identity(), nil
}
