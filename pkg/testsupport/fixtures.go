package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formkit/pkg/model"
)

// LoadSchemas reads a JSON or YAML fixture holding one schema or a list.
func LoadSchemas(path string) ([]model.FormSchema, error) {
	if path == "" {
		return nil, errors.New("testsupport: schema path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read schemas: %w", err)
	}
	schemas, err := model.DecodeSchemas(data)
	if err != nil {
		return nil, fmt.Errorf("testsupport: decode schemas: %w", err)
	}
	return schemas, nil
}

// MustLoadSchemas loads a schema fixture or fails the test.
func MustLoadSchemas(t *testing.T, path string) []model.FormSchema {
	t.Helper()

	schemas, err := LoadSchemas(path)
	if err != nil {
		t.Fatalf("load schemas: %v", err)
	}
	return schemas
}

// MustLoadSchema returns the schema with id from a fixture, failing the test
// when it is missing.
func MustLoadSchema(t *testing.T, path, id string) model.FormSchema {
	t.Helper()

	for _, schema := range MustLoadSchemas(t, path) {
		if schema.ID == id {
			return schema
		}
	}
	t.Fatalf("schema %q not found in %s", id, path)
	return model.FormSchema{}
}

// WriteGolden writes schemas to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, schemas []model.FormSchema) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := model.EncodeJSON(schemas)
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ. Nil and empty
// slices or maps compare equal.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got, cmpopts.EquateEmpty())
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
