package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-formkit/pkg/model"
)

// FileRepository stores every schema in a single document. Files ending in
// .yaml or .yml are written as YAML, anything else as JSON; either encoding
// is accepted on read.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

var _ Repository = (*FileRepository)(nil)

// NewFileRepository binds a repository to path. The file is created on the
// first Append.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Path returns the backing file.
func (r *FileRepository) Path() string { return r.path }

func (r *FileRepository) Load(ctx context.Context) ([]model.FormSchema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read()
}

func (r *FileRepository) Append(ctx context.Context, schema model.FormSchema) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	schemas, err := r.read()
	if err != nil {
		return err
	}
	schemas = append(schemas, schema)

	var data []byte
	if r.yaml() {
		data, err = model.EncodeYAML(schemas)
	} else {
		data, err = model.EncodeJSON(schemas)
	}
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := writeFileAtomic(r.path, data); err != nil {
		return fmt.Errorf("store: write %s: %w", r.path, err)
	}
	if logger.IsVerbose() {
		logger.Verbose("store: appended schema", schema.ID, "to", r.path)
	}
	return nil
}

func (r *FileRepository) read() ([]model.FormSchema, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", r.path, err)
	}
	schemas, err := model.DecodeSchemas(data)
	if err != nil {
		return nil, fmt.Errorf("store: %s: %w", r.path, err)
	}
	return schemas, nil
}

func (r *FileRepository) yaml() bool {
	switch strings.ToLower(filepath.Ext(r.path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".formkit-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
