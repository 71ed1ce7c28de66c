package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	alertsBucket = []byte("alerts")
	postedBucket = []byte("posted")
)

// DB is the bot's on-disk state: user alerts and lottery ids already posted.
type DB struct {
	bolt *bolt.DB
}

// Open opens (or creates) the database file and its buckets.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: ensure dir: %w", err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{alertsBucket, postedBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: create buckets: %w", err)
	}
	return &DB{bolt: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.bolt == nil {
		return nil
	}
	return d.bolt.Close()
}

// PutAlerts stores the encoded alert list for a user. An empty value removes it.
func (d *DB) PutAlerts(userID string, encoded []byte) error {
	return d.bolt.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(alertsBucket)
		if len(encoded) == 0 {
			return b.Delete([]byte(userID))
		}
		return b.Put([]byte(userID), encoded)
	})
}

// AllAlerts returns every user's encoded alert list.
func (d *DB) AllAlerts() (map[string][]byte, error) {
	out := map[string][]byte{}
	err := d.bolt.View(func(tx *bolt.Tx) error {
		return tx.Bucket(alertsBucket).ForEach(func(k, v []byte) error {
			out[string(k)] = append([]byte(nil), v...)
			return nil
		})
	})
	return out, err
}

// AppendPosted records a lottery id after the ones already stored.
func (d *DB) AppendPosted(id string) error {
	return d.bolt.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(postedBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(seqKey(seq), []byte(id))
	})
}

// Posted returns stored lottery ids, oldest first.
func (d *DB) Posted() ([]string, error) {
	var ids []string
	err := d.bolt.View(func(tx *bolt.Tx) error {
		return tx.Bucket(postedBucket).ForEach(func(_, v []byte) error {
			ids = append(ids, string(v))
			return nil
		})
	})
	return ids, err
}

// TrimPosted drops the oldest ids so that at most keep remain.
func (d *DB) TrimPosted(keep int) error {
	return d.bolt.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(postedBucket)
		var keys [][]byte
		if err := b.ForEach(func(k, _ []byte) error {
			keys = append(keys, append([]byte(nil), k...))
			return nil
		}); err != nil {
			return err
		}
		for i := 0; i < len(keys)-keep; i++ {
			if err := b.Delete(keys[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}
