package session

import (
	"sort"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// Snapshot is a detached, serialisable view of a Session.
type Snapshot struct {
	SchemaID  string            `json:"schemaId,omitempty" yaml:"schemaId,omitempty"`
	State     string            `json:"state" yaml:"state"`
	Valid     bool              `json:"valid" yaml:"valid"`
	Values    model.Values      `json:"values" yaml:"values"`
	Errors    validation.Errors `json:"errors,omitempty" yaml:"errors,omitempty"`
	Submitted bool              `json:"submitted" yaml:"submitted"`
}

// Snapshot captures the current values, errors and verdict.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		SchemaID:  s.schema.ID,
		State:     s.state.String(),
		Valid:     s.IsValid(),
		Values:    s.values.Clone(),
		Errors:    s.errors.Clone(),
		Submitted: s.state == Submitted,
	}
}

// Apply writes every value in values that targets an editable field, in
// schema order, so cascades run the way a user filling the form top to
// bottom would trigger them. Ids that are unknown or derived are returned
// as skipped.
func (s *Session) Apply(values model.Values) (skipped []string, err error) {
	for _, field := range s.schema.Fields {
		value, ok := values.Lookup(field.ID)
		if !ok {
			continue
		}
		if field.IsDerived {
			skipped = append(skipped, field.ID)
			continue
		}
		if err := s.SetValue(field.ID, value); err != nil {
			return skipped, err
		}
	}
	var unknown []string
	for id := range values {
		if _, ok := s.schema.Field(id); !ok {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	return append(skipped, unknown...), nil
}
