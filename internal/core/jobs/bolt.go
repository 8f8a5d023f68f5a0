package jobs

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	bolt "github.com/boltdb/bolt"
)

var (
	pendingBucket = []byte("jobs")
	deadBucket    = []byte("dead")
)

// BoltStore persists jobs in a single bolt file. Pending jobs live in the
// "jobs" bucket until they succeed; jobs that exhaust their attempts move to
// "dead". The file is locked by one process at a time.
type BoltStore struct {
	db *bolt.DB
}

func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open job store %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{pendingBucket, deadBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create job buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Put(job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(pendingBucket).Put([]byte(job.ID), data)
	})
}

func (s *BoltStore) Get(id string) (Job, bool, error) {
	var job Job
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(pendingBucket).Get([]byte(id))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &job)
	})
	return job, found, err
}

// Delete is a no-op for unknown ids.
func (s *BoltStore) Delete(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(pendingBucket).Delete([]byte(id))
	})
}

func (s *BoltStore) Bury(job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(pendingBucket).Delete([]byte(job.ID)); err != nil {
			return err
		}
		return tx.Bucket(deadBucket).Put([]byte(job.ID), data)
	})
}

func (s *BoltStore) Pending() ([]Job, error) {
	return s.list(pendingBucket)
}

func (s *BoltStore) Dead() ([]Job, error) {
	return s.list(deadBucket)
}

// list returns the bucket's jobs oldest first.
func (s *BoltStore) list(bucket []byte) ([]Job, error) {
	items := []Job{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).ForEach(func(k, v []byte) error {
			var job Job
			if err := json.Unmarshal(v, &job); err != nil {
				return fmt.Errorf("corrupt job %s: %w", k, err)
			}
			items = append(items, job)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].EnqueuedAt.Before(items[j].EnqueuedAt)
	})
	return items, nil
}
