// Package store persists form schemas behind the Repository boundary. Every
// backend keeps schemas in append order and round-trips them losslessly.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-formkit/pkg/model"
)

// ErrNotFound is returned by Find when no stored schema has the id.
var ErrNotFound = errors.New("store: schema not found")

// Repository is the persistence boundary consumed by the builder and CLI.
type Repository interface {
	// Load returns every stored schema in the order it was appended.
	Load(ctx context.Context) ([]model.FormSchema, error)
	// Append stores schema after the existing ones.
	Append(ctx context.Context, schema model.FormSchema) error
}

// Find returns the first stored schema whose id matches.
func Find(ctx context.Context, repo Repository, id string) (model.FormSchema, error) {
	schemas, err := repo.Load(ctx)
	if err != nil {
		return model.FormSchema{}, err
	}
	for _, schema := range schemas {
		if schema.ID == id {
			return schema, nil
		}
	}
	return model.FormSchema{}, fmt.Errorf("%w: %q", ErrNotFound, id)
}

func encodeSchema(schema model.FormSchema) ([]byte, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("store: encode schema %q: %w", schema.ID, err)
	}
	return data, nil
}

func decodeSchema(data []byte) (model.FormSchema, error) {
	var schema model.FormSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return model.FormSchema{}, fmt.Errorf("store: decode schema: %w", err)
	}
	return schema, nil
}
