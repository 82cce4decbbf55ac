package services

import (
	"context"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/opensocial-lk/opensocial-web-ui/internal/models"
)

// BoltDB provides the page's key-value persistence on a BoltDB backend. It stands in
// for the browser's local storage: a single flag for the widget's minimized state, a
// single blob for the post draft, and a single blob for the mock signed-in user.
type BoltDB struct {
	db *bolt.DB
}

var (
	settingsBucket = []byte("settings")
	recordsBucket  = []byte("records")

	minimizedKey = []byte("widget-minimized")
	draftKey     = []byte("post-draft")
	userKey      = []byte("user")
)

// NewBoltDB creates a new BoltDB instance with the specified file path. It initializes
// the database with required buckets and returns an error if the database cannot be
// opened or initialized. The database file is created with 0600 permissions if it
// doesn't exist.
func NewBoltDB(path string) (BoltDB, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return BoltDB{}, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(settingsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(recordsBucket)
		return err
	})

	return BoltDB{db: db}, err
}

// Close releases the underlying database file.
func (b BoltDB) Close() error {
	return b.db.Close()
}

// Minimized reports whether the widget was minimized on a previous visit. An absent
// flag means not minimized.
func (b BoltDB) Minimized() (bool, error) {
	var minimized bool
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(settingsBucket).Get(minimizedKey)
		minimized = string(v) == "true"
		return nil
	})
	return minimized, err
}

// SetMinimized stores the widget's minimized flag. Clearing writes the flag away
// entirely so absence keeps meaning "not minimized".
func (b BoltDB) SetMinimized(minimized bool) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bk := tx.Bucket(settingsBucket)
		if !minimized {
			return bk.Delete(minimizedKey)
		}
		return bk.Put(minimizedKey, []byte("true"))
	})
}

// Draft retrieves the saved post draft. The second return value reports whether a
// draft exists.
func (b BoltDB) Draft(context.Context) (models.Draft, bool, error) {
	var (
		draft models.Draft
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(recordsBucket).Get(draftKey)
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &draft); err != nil {
			return fmt.Errorf("failed to unmarshal draft: %w", err)
		}
		found = true
		return nil
	})
	return draft, found, err
}

// SaveDraft stores the post draft, replacing any previous one.
func (b BoltDB) SaveDraft(_ context.Context, draft models.Draft) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		v, err := json.Marshal(draft)
		if err != nil {
			return fmt.Errorf("failed to marshal draft: %w", err)
		}
		return tx.Bucket(recordsBucket).Put(draftKey, v)
	})
}

// ClearDraft removes the saved draft if present.
func (b BoltDB) ClearDraft(context.Context) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(recordsBucket).Delete(draftKey)
	})
}

// User retrieves the mock signed-in user record. The second return value reports
// whether a record exists.
func (b BoltDB) User(context.Context) (models.User, bool, error) {
	var (
		user  models.User
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(recordsBucket).Get(userKey)
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &user); err != nil {
			return fmt.Errorf("failed to unmarshal user: %w", err)
		}
		found = true
		return nil
	})
	return user, found, err
}

// SaveUser stores the mock user record produced by the login or signup form.
func (b BoltDB) SaveUser(_ context.Context, user models.User) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		v, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}
		return tx.Bucket(recordsBucket).Put(userKey, v)
	})
}
