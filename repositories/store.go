package repositories

import (
	"chat-hub/errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
)

// maxTxnAttempts bounds the retries of a transaction aborted by a concurrent commit.
const maxTxnAttempts = 10

// markReadBatchSize bounds the number of messages updated in one transaction.
var markReadBatchSize = 256

var encMode, _ = cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()

func encode(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

func decode(data []byte, v any) error {
	return cbor.Unmarshal(data, v)
}

// OpenDB opens the Badger store used by every repository.
func OpenDB(path string, inMemory bool) (*badger.DB, error) {
	options := badger.DefaultOptions(path).WithLoggingLevel(badger.WARNING)
	if inMemory {
		options = options.WithInMemory(true).WithDir("").WithValueDir("")
	}
	return badger.Open(options)
}

// update runs fn in a serializable read-write transaction.
// A transaction rejected with badger.ErrConflict is replayed, so fn must
// re-read everything it depends on. When every attempt conflicts, the error
// matches both errors.ErrPersistence and badger.ErrConflict.
func update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxTxnAttempts; attempt++ {
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * time.Millisecond)
	}
	return fmt.Errorf("%w: %w", errors.ErrPersistence, err)
}

func getValue(txn *badger.Txn, key string, v any) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return decode(val, v)
	})
}

func setValue(txn *badger.Txn, key string, v any) error {
	data, err := encode(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}

func exists(txn *badger.Txn, key string) (bool, error) {
	_, err := txn.Get([]byte(key))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, err
	}
}

// keySuffixes returns, for every key under prefix, the part after the prefix.
// Values are not fetched.
func keySuffixes(txn *badger.Txn, prefix string) []string {
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	options.Prefix = []byte(prefix)
	it := txn.NewIterator(options)
	defer it.Close()

	var suffixes []string
	for it.Rewind(); it.ValidForPrefix([]byte(prefix)); it.Next() {
		suffixes = append(suffixes, strings.TrimPrefix(string(it.Item().Key()), prefix))
	}
	return suffixes
}

// wrap converts storage failures into persistence errors and lets domain errors through.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *errors.DomainError
	if errors.As(err, &domainErr) || errors.Is(err, errors.ErrPersistence) {
		return err
	}
	return errors.Persistence(err)
}
