package store

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/untillpro/goutils/logger"
	bolt "go.etcd.io/bbolt"

	"github.com/goliatone/go-formkit/pkg/model"
)

var formsBucket = []byte("forms")

// BoltRepository keeps schemas in a bbolt bucket keyed by an increasing
// sequence, so a cursor walk yields append order.
type BoltRepository struct {
	db *bolt.DB
}

var _ Repository = (*BoltRepository)(nil)

// OpenBolt opens (or creates) the database file at path.
func OpenBolt(path string) (*BoltRepository, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open bolt %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(formsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init bolt %s: %w", path, err)
	}
	return &BoltRepository{db: db}, nil
}

// Close releases the database file lock.
func (r *BoltRepository) Close() error {
	return r.db.Close()
}

func (r *BoltRepository) Load(ctx context.Context) ([]model.FormSchema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var schemas []model.FormSchema
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(formsBucket).ForEach(func(_, v []byte) error {
			schema, err := decodeSchema(v)
			if err != nil {
				return err
			}
			schemas = append(schemas, schema)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return schemas, nil
}

func (r *BoltRepository) Append(ctx context.Context, schema model.FormSchema) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeSchema(schema)
	if err != nil {
		return err
	}
	err = r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(formsBucket)
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return bucket.Put(key, data)
	})
	if err != nil {
		return fmt.Errorf("store: bolt append %q: %w", schema.ID, err)
	}
	if logger.IsVerbose() {
		logger.Verbose("store: bolt appended schema", schema.ID)
	}
	return nil
}
