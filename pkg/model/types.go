package model

import (
	"strconv"
	"strings"
	"time"
)

// FieldType enumerates the widgets a field can be rendered as.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeDate     FieldType = "date"
)

// FieldTypes lists every recognised field type in editor order.
var FieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeNumber,
	FieldTypeTextarea,
	FieldTypeSelect,
	FieldTypeRadio,
	FieldTypeCheckbox,
	FieldTypeDate,
}

// Valid reports whether t is one of the recognised field types.
func (t FieldType) Valid() bool {
	for _, candidate := range FieldTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// HasOptions reports whether the type renders a fixed option list.
func (t FieldType) HasOptions() bool {
	switch t {
	case FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox:
		return true
	default:
		return false
	}
}

// Canonical rule names recognised inside a RuleSet.
const (
	RuleNotEmpty     = "notEmpty"
	RuleMinLength    = "minLength"
	RuleMaxLength    = "maxLength"
	RuleEmail        = "email"
	RulePasswordRule = "passwordRule"
)

// RuleNames lists the recognised rules in evaluation order.
var RuleNames = []string{RuleNotEmpty, RuleMinLength, RuleMaxLength, RuleEmail, RulePasswordRule}

// Rule is a single active validation constraint. Value carries the rule's
// threshold or pattern exactly as authored; numeric thresholds are parsed on
// demand through Int. ErrorMessage, when set, replaces the rule's default
// message verbatim.
type Rule struct {
	Value        string `json:"value,omitempty" yaml:"value,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty" yaml:"errorMessage,omitempty"`
}

// Int parses Value as an integer threshold.
func (r Rule) Int() (int, bool) {
	trimmed := strings.TrimSpace(r.Value)
	if trimmed == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}

// Message returns the configured error message or fallback when none is set.
func (r Rule) Message(fallback string) string {
	if r.ErrorMessage != "" {
		return r.ErrorMessage
	}
	return fallback
}

// RuleSet maps rule names to rules. A nil entry means the rule is inactive.
type RuleSet struct {
	NotEmpty     *Rule `json:"notEmpty,omitempty" yaml:"notEmpty,omitempty"`
	MinLength    *Rule `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength    *Rule `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Email        *Rule `json:"email,omitempty" yaml:"email,omitempty"`
	PasswordRule *Rule `json:"passwordRule,omitempty" yaml:"passwordRule,omitempty"`
}

// Lookup returns the rule registered under name, or nil.
func (s RuleSet) Lookup(name string) *Rule {
	switch name {
	case RuleNotEmpty:
		return s.NotEmpty
	case RuleMinLength:
		return s.MinLength
	case RuleMaxLength:
		return s.MaxLength
	case RuleEmail:
		return s.Email
	case RulePasswordRule:
		return s.PasswordRule
	default:
		return nil
	}
}

// Set activates (or, with a nil rule, deactivates) the named rule. Unknown
// names are ignored and reported through the boolean result.
func (s *RuleSet) Set(name string, rule *Rule) bool {
	switch name {
	case RuleNotEmpty:
		s.NotEmpty = rule
	case RuleMinLength:
		s.MinLength = rule
	case RuleMaxLength:
		s.MaxLength = rule
	case RuleEmail:
		s.Email = rule
	case RulePasswordRule:
		s.PasswordRule = rule
	default:
		return false
	}
	return true
}

// Active returns the names of the rules present in the set, in evaluation order.
func (s RuleSet) Active() []string {
	var out []string
	for _, name := range RuleNames {
		if s.Lookup(name) != nil {
			out = append(out, name)
		}
	}
	return out
}

func (s RuleSet) clone() RuleSet {
	var out RuleSet
	for _, name := range RuleNames {
		if rule := s.Lookup(name); rule != nil {
			copied := *rule
			out.Set(name, &copied)
		}
	}
	return out
}

// Field is one input definition inside a FormSchema. A nil DefaultValue and a
// pointer to Absent mean the same; Clone and the encoders keep the nil form.
type Field struct {
	ID           string    `json:"id" yaml:"id"`
	Type         FieldType `json:"type" yaml:"type"`
	Label        string    `json:"label" yaml:"label"`
	Required     bool      `json:"required,omitempty" yaml:"required,omitempty"`
	DefaultValue *Value    `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Options      []string  `json:"options,omitempty" yaml:"options,omitempty"`
	Validations  RuleSet   `json:"validations" yaml:"validations"`
	IsDerived    bool      `json:"isDerived,omitempty" yaml:"isDerived,omitempty"`
	ParentIDs    []string  `json:"parentIds,omitempty" yaml:"parentIds,omitempty"`
	Formula      string    `json:"formula,omitempty" yaml:"formula,omitempty"`
}

// MustBeFilled reports whether the field takes part in the presence check,
// either through Required or an active notEmpty rule.
func (f Field) MustBeFilled() bool {
	return f.Required || f.Validations.NotEmpty != nil
}

// Editable reports whether a renderer should accept direct input.
func (f Field) Editable() bool {
	return !f.IsDerived
}

// Seed returns the value a fresh session starts with. Derived fields are never
// seeded: their values are always computed.
func (f Field) Seed() (Value, bool) {
	if f.IsDerived || f.DefaultValue == nil || f.DefaultValue.IsAbsent() {
		return Value{}, false
	}
	return f.DefaultValue.Clone(), true
}

// DependsOn reports whether id is one of the field's parents.
func (f Field) DependsOn(id string) bool {
	for _, parent := range f.ParentIDs {
		if parent == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	out := f
	out.DefaultValue = nil
	if f.DefaultValue != nil && !f.DefaultValue.IsAbsent() {
		seed := f.DefaultValue.Clone()
		out.DefaultValue = &seed
	}
	out.Options = cloneStrings(f.Options)
	out.ParentIDs = cloneStrings(f.ParentIDs)
	out.Validations = f.Validations.clone()
	return out
}

// FormSchema is a persisted, named, ordered list of fields. Field order is the
// display order and the order derivation cascades scan in.
type FormSchema struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	Fields    []Field   `json:"fields" yaml:"fields"`
}

// Field returns the field with the given id.
func (s FormSchema) Field(id string) (Field, bool) {
	if idx := s.Index(id); idx >= 0 {
		return s.Fields[idx], true
	}
	return Field{}, false
}

// Index returns the position of the field with the given id, or -1.
func (s FormSchema) Index(id string) int {
	for i, field := range s.Fields {
		if field.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can share a schema between sessions
// without aliasing slices.
func (s FormSchema) Clone() FormSchema {
	out := s
	if s.Fields != nil {
		out.Fields = make([]Field, len(s.Fields))
		for i, field := range s.Fields {
			out.Fields[i] = field.Clone()
		}
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
