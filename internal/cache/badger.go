package cache

import (
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/momai/momai/internal/logging"
)

// BadgerKV is a KV implementation backed by an embedded Badger store.
type BadgerKV struct {
	db  *badger.DB
	log *logging.Logger
}

// OpenBadgerKV opens (or creates) a Badger store rooted at dir.
func OpenBadgerKV(dir string, log *logging.Logger) (*BadgerKV, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Badger's own logger is noisy; we log at this layer
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger: %w", err)
	}
	sub := log.Sub("cache")
	sub.Info().Str("dir", dir).Msg("cache opened")
	return &BadgerKV{db: db, log: sub}, nil
}

func (b *BadgerKV) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %q: %w", key, err)
	}
	return value, true, nil
}

func (b *BadgerKV) Set(key string, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

func (b *BadgerKV) Remove(key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("cache remove %q: %w", key, err)
	}
	return nil
}

func (b *BadgerKV) Clear() error {
	if err := b.db.DropAll(); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}

func (b *BadgerKV) Close() error {
	return b.db.Close()
}
