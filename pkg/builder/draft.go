// Package builder is the editing model behind form authoring: a Draft holds
// an ordered field list that can be grown, edited, reordered and finally
// saved as a named FormSchema.
package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/store"
)

// DefaultLabel is given to freshly added fields.
const DefaultLabel = "New Field"

var (
	// ErrEmptyName is returned by Save when the form name is blank.
	ErrEmptyName = errors.New("builder: form name is required")
	// ErrBadOrder is returned by Reorder when ids is not a permutation of the
	// draft's field ids.
	ErrBadOrder = errors.New("builder: order must list every field exactly once")
)

// Option customises a Draft.
type Option func(*Draft)

// WithClock sets the source of CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(d *Draft) {
		if now != nil {
			d.now = now
		}
	}
}

// WithIDGenerator replaces uuid generation for field and schema ids.
func WithIDGenerator(next func() string) Option {
	return func(d *Draft) {
		if next != nil {
			d.newID = next
		}
	}
}

// Draft is an unsaved form under construction.
type Draft struct {
	fields []model.Field
	now    func() time.Time
	newID  func() string
}

// NewDraft returns an empty draft.
func NewDraft(opts ...Option) *Draft {
	d := &Draft{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Fields returns a copy of the draft's fields in display order.
func (d *Draft) Fields() []model.Field {
	out := make([]model.Field, len(d.fields))
	for i, field := range d.fields {
		out[i] = field.Clone()
	}
	return out
}

// Len reports the number of fields.
func (d *Draft) Len() int { return len(d.fields) }

// AddField appends a blank text field and returns it.
func (d *Draft) AddField() model.Field {
	field := model.Field{
		ID:    d.newID(),
		Type:  model.FieldTypeText,
		Label: DefaultLabel,
	}
	d.fields = append(d.fields, field)
	return field.Clone()
}

// AddFields appends prepared fields, such as an import result. Fields
// without an id get a generated one.
func (d *Draft) AddFields(fields ...model.Field) {
	for _, field := range fields {
		field = clean(field)
		if field.ID == "" {
			field.ID = d.newID()
		}
		d.fields = append(d.fields, field)
	}
}

// UpdateField replaces the field sharing field.ID. It reports false, and
// changes nothing, when no such field exists.
func (d *Draft) UpdateField(field model.Field) bool {
	i := d.index(field.ID)
	if i < 0 {
		return false
	}
	d.fields[i] = clean(field)
	return true
}

// DeleteField removes id and drops it from every other field's parents.
func (d *Draft) DeleteField(id string) bool {
	i := d.index(id)
	if i < 0 {
		return false
	}
	d.fields = append(d.fields[:i], d.fields[i+1:]...)
	for j := range d.fields {
		d.fields[j].ParentIDs = without(d.fields[j].ParentIDs, id)
	}
	return true
}

// Reorder arranges the fields to follow ids.
func (d *Draft) Reorder(ids []string) error {
	if len(ids) != len(d.fields) {
		return fmt.Errorf("%w: got %d ids for %d fields", ErrBadOrder, len(ids), len(d.fields))
	}
	seen := make(map[string]struct{}, len(ids))
	reordered := make([]model.Field, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %q repeated", ErrBadOrder, id)
		}
		seen[id] = struct{}{}
		i := d.index(id)
		if i < 0 {
			return fmt.Errorf("%w: unknown id %q", ErrBadOrder, id)
		}
		reordered = append(reordered, d.fields[i])
	}
	d.fields = reordered
	return nil
}

// ParentCandidates lists the fields id may derive from: every other field.
func (d *Draft) ParentCandidates(id string) []model.Field {
	var out []model.Field
	for _, field := range d.fields {
		if field.ID != id {
			out = append(out, field.Clone())
		}
	}
	return out
}

// Reset discards every field.
func (d *Draft) Reset() {
	d.fields = nil
}

// Preview returns an unsaved schema for the current fields, suitable for
// opening a session before the form is saved.
func (d *Draft) Preview() model.FormSchema {
	return model.FormSchema{Name: "Preview", Fields: d.Fields()}
}

// Save validates the draft, stores it under name and resets the draft. A
// blank name saves nothing and returns ErrEmptyName.
func (d *Draft) Save(ctx context.Context, repo store.Repository, name string) (model.FormSchema, error) {
	name = sanitizeText(name)
	if name == "" {
		return model.FormSchema{}, ErrEmptyName
	}

	schema := model.FormSchema{
		ID:        d.newID(),
		Name:      name,
		CreatedAt: d.now().UTC(),
		Fields:    d.Fields(),
	}
	if err := model.Check(schema); err != nil {
		return model.FormSchema{}, fmt.Errorf("builder: %w", err)
	}
	if err := repo.Append(ctx, schema); err != nil {
		return model.FormSchema{}, fmt.Errorf("builder: save %q: %w", name, err)
	}
	d.Reset()
	return schema, nil
}

func (d *Draft) index(id string) int {
	for i, field := range d.fields {
		if field.ID == id {
			return i
		}
	}
	return -1
}

func clean(field model.Field) model.Field {
	out := field.Clone()
	out.ID = strings.TrimSpace(out.ID)
	out.Label = sanitizeText(out.Label)
	out.Options = sanitizeOptions(out.Options)
	out.Formula = strings.TrimSpace(out.Formula)
	return out
}

func without(ids []string, drop string) []string {
	if len(ids) == 0 {
		return ids
	}
	out := ids[:0]
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
