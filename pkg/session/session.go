// Package session holds the runtime state of one form being filled in: the
// current values, the current error lists and whether the form has been
// submitted. A Session is owned by a single caller and is not safe for
// concurrent use.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-formkit/pkg/derive"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/validation"
)

var (
	// ErrUnknownField is returned when a value targets an id the schema does
	// not define.
	ErrUnknownField = errors.New("session: unknown field")
	// ErrDerivedField is returned when a caller tries to write a derived field
	// directly.
	ErrDerivedField = errors.New("session: derived field is read-only")
)

// State is the lifecycle position of a Session.
type State int

const (
	// Pristine means no value has been edited and no submit happened.
	Pristine State = iota
	// Edited means values changed but the form was never submitted.
	Edited
	// Submitted means the form has been validated at least once.
	Submitted
)

func (s State) String() string {
	switch s {
	case Edited:
		return "edited"
	case Submitted:
		return "submitted"
	default:
		return "pristine"
	}
}

// Option customises a Session.
type Option func(*Session)

// WithClock injects the source of "today" for date-based formulas.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.derive = append(s.derive, derive.WithClock(now))
		}
	}
}

// WithStrictDerivation resolves chained derived fields to a fixed point,
// bounded by maxPasses.
func WithStrictDerivation(maxPasses int) Option {
	return func(s *Session) {
		s.derive = append(s.derive, derive.WithStrict(maxPasses))
	}
}

// WithCycleDetection makes New reject schemas with a derivation cycle.
func WithCycleDetection() Option {
	return func(s *Session) {
		s.detectCycles = true
	}
}

// WithDeriveOptions forwards raw derive options, for custom formulas.
func WithDeriveOptions(opts ...derive.Option) Option {
	return func(s *Session) {
		s.derive = append(s.derive, opts...)
	}
}

// Session is a Form Session bound to one schema.
type Session struct {
	schema       model.FormSchema
	values       model.Values
	errors       validation.Errors
	state        State
	derive       []derive.Option
	detectCycles bool
}

// New opens a session over a copy of schema. The schema must pass
// model.Check; non-derived fields with a default value are seeded.
func New(schema model.FormSchema, opts ...Option) (*Session, error) {
	if err := model.Check(schema); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	s := &Session{
		schema: schema.Clone(),
		values: make(model.Values),
		errors: make(validation.Errors),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.detectCycles {
		if cycles := derive.DetectCycles(s.schema); len(cycles) > 0 {
			return nil, fmt.Errorf("session: %w: %v", derive.ErrCycle, cycles[0])
		}
	}

	for _, field := range s.schema.Fields {
		if seed, ok := field.Seed(); ok {
			s.values[field.ID] = seed
		}
	}
	return s, nil
}

// SetValue writes a direct edit and cascades it into dependent derived
// fields. A number field receiving a non-empty, non-digit value gets a live
// format error; other error entries are left untouched until the next
// Submit.
//
// The edit is applied even when strict derivation reports an unresolved
// cycle; that error is returned alongside.
func (s *Session) SetValue(id string, value model.Value) error {
	field, ok := s.schema.Field(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	if field.IsDerived {
		return fmt.Errorf("%w: %q", ErrDerivedField, id)
	}

	next := s.values.Clone()
	next[id] = value.Clone()
	updated, err := derive.Recompute(s.schema, id, s.values, next, s.derive...)
	s.values = updated

	if field.Type == model.FieldTypeNumber && !value.IsEmpty() && !validation.IsDigits(value) {
		s.errors[id] = []string{validation.MsgOnlyNumbers}
	}
	if s.state == Pristine {
		s.state = Edited
	}

	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

// Submit validates every field, replaces the error map with the fresh result
// and marks the session submitted. It reports the aggregate verdict.
func (s *Session) Submit() bool {
	s.errors = validation.ValidateForm(s.schema, s.values)
	s.state = Submitted
	return s.IsValid()
}

// IsValid reports whether the session has been submitted, every required
// field is filled and no field carries an error.
func (s *Session) IsValid() bool {
	return s.state == Submitted && validation.Valid(s.schema, s.values, s.errors)
}

// Submitted reports whether Submit has run at least once.
func (s *Session) Submitted() bool { return s.state == Submitted }

// State returns the lifecycle position.
func (s *Session) State() State { return s.state }

// Schema returns a copy of the bound schema.
func (s *Session) Schema() model.FormSchema { return s.schema.Clone() }

// Value returns the current value of id.
func (s *Session) Value(id string) model.Value { return s.values.Get(id).Clone() }

// Values returns a copy of every current value.
func (s *Session) Values() model.Values { return s.values.Clone() }

// Errors returns a copy of the current error map.
func (s *Session) Errors() validation.Errors { return s.errors.Clone() }

// FieldErrors returns the ordered messages attached to id.
func (s *Session) FieldErrors(id string) []string {
	return append([]string(nil), s.errors[id]...)
}
