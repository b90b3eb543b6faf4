package boltdb

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/cfhelper/internal/client/storage"
)

var (
	// BoltDB bucket names
	bucketPrefs   = []byte("prefs")
	bucketLists   = []byte("lists")
	bucketProfile = []byte("profile")
	bucketCache   = []byte("cache")
)

// bucketFor возвращает bucket, в котором живет ключ
func bucketFor(key storage.Key) ([]byte, error) {
	switch key {
	case storage.KeyDarkMode, storage.KeyVisibility:
		return bucketPrefs, nil
	case storage.KeyFavorites, storage.KeySolved:
		return bucketLists, nil
	case storage.KeyCurrentUser:
		return bucketProfile, nil
	case storage.KeyProblemsCache:
		return bucketCache, nil
	default:
		return nil, fmt.Errorf("%w: %s", storage.ErrUnknownKey, key)
	}
}

// Storage represents BoltDB storage implementation for client
type Storage struct {
	db *bbolt.DB
}

// Compile-time check that Storage implements storage.Storage
var _ storage.Storage = (*Storage)(nil)

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB; таймаут защищает от второго процесса, держащего lock
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}

	// Инициализируем buckets
	if err := s.initBuckets(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketPrefs, bucketLists, bucketProfile, bucketCache} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// Get returns the value stored under key
func (s *Storage) Get(ctx context.Context, key storage.Key) ([]byte, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	bucketName, err := bucketFor(key)
	if err != nil {
		return nil, err
	}

	var value []byte
	err = s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return fmt.Errorf("%s bucket not found", bucketName)
		}

		data := bucket.Get([]byte(key))
		if data == nil {
			return storage.ErrNotFound
		}

		// Значение валидно только внутри транзакции, копируем
		value = make([]byte, len(data))
		copy(value, data)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Put stores value under key
func (s *Storage) Put(ctx context.Context, key storage.Key, value []byte) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	bucketName, err := bucketFor(key)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return fmt.Errorf("%s bucket not found", bucketName)
		}

		if err := bucket.Put([]byte(key), value); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}

		return nil
	})
}

// Delete removes the value under key
func (s *Storage) Delete(ctx context.Context, key storage.Key) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	bucketName, err := bucketFor(key)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return fmt.Errorf("%s bucket not found", bucketName)
		}

		if err := bucket.Delete([]byte(key)); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}

		return nil
	})
}
