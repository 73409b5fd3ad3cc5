// Package localstore implements the scm.Client contract on top of a local
// BoltDB file. It backs offline previews (`scmsync apply --local`) and gives
// tests a hermetic backend with real persistence and JSON round-tripping,
// the same attribute shapes a remote session produces.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/cdot65/scmsync/pkg/scm"
	"github.com/cdot65/scmsync/pkg/types"
)

// Store is a bbolt-backed scm.Client. One bucket per resource kind; keys are
// container-scoped (scope/container/name), matching the identity model.
type Store struct {
	db *bolt.DB
}

type record struct {
	ID    string         `json:"id"`
	Attrs map[string]any `json:"attrs"`
}

// Open opens (or creates) the store at path and ensures all kind buckets exist.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, kind := range types.Kinds {
			if _, err := tx.CreateBucketIfNotExists([]byte(kind)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", kind, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func objectKey(attrs map[string]any) ([]byte, error) {
	name, _ := attrs["name"].(string)
	if name == "" {
		return nil, fmt.Errorf("object attributes carry no name")
	}
	for _, scope := range []string{"folder", "snippet", "device"} {
		if v, _ := attrs[scope].(string); v != "" {
			return []byte(scope + "/" + v + "/" + name), nil
		}
	}
	return nil, fmt.Errorf("object attributes carry no container scope")
}

func identityKey(id types.Identity) []byte {
	return []byte(string(id.Container.Scope) + "/" + id.Container.Name + "/" + id.Name)
}

// Fetch looks up an object by identity. A missing key is *scm.NotFoundError.
func (s *Store) Fetch(ctx context.Context, id types.Identity) (*types.RemoteObject, error) {
	var rec record
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(id.Kind)).Get(identityKey(id))
		if data == nil {
			return &scm.NotFoundError{Identity: id}
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.object()
}

// Create stores the attributes under a freshly minted id.
func (s *Store) Create(ctx context.Context, kind types.ResourceKind, attrs map[string]any) (*types.RemoteObject, error) {
	key, err := objectKey(attrs)
	if err != nil {
		return nil, err
	}
	rec := record{ID: uuid.New().String(), Attrs: attrs}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(kind))
		if b.Get(key) != nil {
			return fmt.Errorf("%s %q already exists", kind, string(key))
		}
		return b.Put(key, data)
	})
	if err != nil {
		return nil, err
	}
	// Read back through the codec so callers observe the stored shape.
	return s.get(kind, key)
}

// Update replaces the attributes of the object holding the given id.
func (s *Store) Update(ctx context.Context, kind types.ResourceKind, obj *types.RemoteObject) (*types.RemoteObject, error) {
	key, err := objectKey(obj.Attrs)
	if err != nil {
		return nil, err
	}
	rec := record{ID: obj.ID.String(), Attrs: obj.Attrs}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(kind))
		existing := b.Get(key)
		if existing == nil {
			return fmt.Errorf("%s %q does not exist", kind, string(key))
		}
		var cur record
		if err := json.Unmarshal(existing, &cur); err != nil {
			return err
		}
		if cur.ID != rec.ID {
			return fmt.Errorf("%s %q holds id %s, not %s", kind, string(key), cur.ID, rec.ID)
		}
		return b.Put(key, data)
	})
	if err != nil {
		return nil, err
	}
	return s.get(kind, key)
}

// Delete removes the object holding the given id.
func (s *Store) Delete(ctx context.Context, kind types.ResourceKind, id uuid.UUID) error {
	want := id.String()
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(kind))
		var key []byte
		err := b.ForEach(func(k, v []byte) error {
			var rec record
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if rec.ID == want {
				key = append([]byte(nil), k...)
			}
			return nil
		})
		if err != nil {
			return err
		}
		if key == nil {
			return fmt.Errorf("%s with id %s does not exist", kind, want)
		}
		return b.Delete(key)
	})
}

func (s *Store) get(kind types.ResourceKind, key []byte) (*types.RemoteObject, error) {
	var rec record
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(kind)).Get(key)
		if data == nil {
			return fmt.Errorf("%s %q does not exist", kind, string(key))
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.object()
}

func (r *record) object() (*types.RemoteObject, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("stored object has invalid id %q: %w", r.ID, err)
	}
	return &types.RemoteObject{ID: id, Attrs: r.Attrs}, nil
}

var _ scm.Client = (*Store)(nil)
