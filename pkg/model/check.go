package model

import (
	"fmt"
	"strings"
)

// Issue is one structural problem found in a schema.
type Issue struct {
	FieldID string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.FieldID == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.FieldID, i.Message)
}

// SchemaError aggregates the structural issues of a schema.
type SchemaError struct {
	SchemaID string
	Issues   []Issue
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	prefix := "model: invalid schema"
	if e.SchemaID != "" {
		prefix += " " + e.SchemaID
	}
	return prefix + ": " + strings.Join(parts, "; ")
}

// Check verifies the structural invariants of a schema: unique non-empty field
// ids, recognised types, options for option-based types, and derived fields
// whose parents exist, are distinct and never include the field itself.
// It returns nil or a *SchemaError listing every issue in field order.
func Check(schema FormSchema) error {
	var issues []Issue
	add := func(id, format string, args ...any) {
		issues = append(issues, Issue{FieldID: id, Message: fmt.Sprintf(format, args...)})
	}

	ids := make(map[string]struct{}, len(schema.Fields))
	for i, field := range schema.Fields {
		if strings.TrimSpace(field.ID) == "" {
			add("", "field %d has an empty id", i)
			continue
		}
		if _, dup := ids[field.ID]; dup {
			add(field.ID, "duplicate field id")
		}
		ids[field.ID] = struct{}{}
	}

	for _, field := range schema.Fields {
		if field.ID == "" {
			continue
		}
		if !field.Type.Valid() {
			add(field.ID, "unknown field type %q", field.Type)
		}
		if field.Type.HasOptions() && len(field.Options) == 0 {
			add(field.ID, "%s field requires at least one option", field.Type)
		}
		for _, name := range []string{RuleMinLength, RuleMaxLength} {
			if rule := field.Validations.Lookup(name); rule != nil {
				if _, ok := rule.Int(); !ok {
					add(field.ID, "%s value %q is not a number", name, rule.Value)
				}
			}
		}
		if !field.IsDerived {
			continue
		}
		if strings.TrimSpace(field.Formula) == "" {
			add(field.ID, "derived field has no formula")
		}
		seen := make(map[string]struct{}, len(field.ParentIDs))
		for _, parent := range field.ParentIDs {
			if parent == field.ID {
				add(field.ID, "derived field references itself")
				continue
			}
			if _, dup := seen[parent]; dup {
				add(field.ID, "parent %q listed twice", parent)
				continue
			}
			seen[parent] = struct{}{}
			if _, ok := ids[parent]; !ok {
				add(field.ID, "parent %q does not exist", parent)
			}
		}
	}

	if len(issues) == 0 {
		return nil
	}
	return &SchemaError{SchemaID: schema.ID, Issues: issues}
}
