package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketSlots = "slots"

// BoltSlot stores values in a bbolt bucket.
type BoltSlot struct {
	db *bolt.DB
}

// OpenBolt opens or creates the bbolt file at dbPath.
func OpenBolt(dbPath string) (*BoltSlot, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSlots))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating bucket %s: %w", bucketSlots, err)
	}

	return &BoltSlot{db: db}, nil
}

// Get returns a copy of the value stored under key.
func (s *BoltSlot) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketSlots)).Get([]byte(key))
		if data == nil {
			return ErrNotFound
		}
		// data is only valid inside the transaction.
		value = make([]byte, len(data))
		copy(value, data)
		return nil
	})
	return value, err
}

// Put replaces the value under key.
func (s *BoltSlot) Put(key string, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSlots)).Put([]byte(key), value)
	})
}

// Delete removes key. Deleting an absent key is not an error.
func (s *BoltSlot) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSlots)).Delete([]byte(key))
	})
}

// Close closes the database.
func (s *BoltSlot) Close() error {
	return s.db.Close()
}
