package storage

import (
	"time"

	bolt "go.etcd.io/bbolt"
)

// BoltBackend implements Backend on a bbolt file, giving the report
// archive durability across server restarts.
type BoltBackend struct {
	db *bolt.DB
}

// NewBoltBackend opens (or creates) the bbolt database at path.
func NewBoltBackend(path string) (*BoltBackend, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	return &BoltBackend{db: db}, nil
}

// CreateBucket creates the bucket if it does not already exist.
func (b *BoltBackend) CreateBucket(name []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(name)
		return err
	})
}

// Put stores a key-value pair, creating the bucket on demand.
func (b *BoltBackend) Put(bucket, key, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists(bucket)
		if err != nil {
			return err
		}
		return bkt.Put(key, value)
	})
}

// Get retrieves a value; missing bucket or key yields (nil, nil).
func (b *BoltBackend) Get(bucket, key []byte) ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucket)
		if bkt == nil {
			return nil
		}
		if v := bkt.Get(key); v != nil {
			value = make([]byte, len(v))
			copy(value, v)
		}
		return nil
	})
	return value, err
}

// Delete removes a key; deleting from a missing bucket is not an error.
func (b *BoltBackend) Delete(bucket, key []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucket)
		if bkt == nil {
			return nil
		}
		return bkt.Delete(key)
	})
}

// ForEach iterates all pairs in a bucket; a missing bucket iterates nothing.
func (b *BoltBackend) ForEach(bucket []byte, fn func(k, v []byte) error) error {
	return b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucket)
		if bkt == nil {
			return nil
		}
		return bkt.ForEach(fn)
	})
}

// Close releases the underlying bbolt file.
func (b *BoltBackend) Close() error { return b.db.Close() }
