package derive

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formkit/pkg/model"
)

var (
	// ErrUnresolvedCycle is returned in strict mode when values keep changing
	// after the maximum number of passes.
	ErrUnresolvedCycle = errors.New("derive: derived values did not settle")
	// ErrCycle is returned when cycle detection finds a loop in the
	// derivation graph.
	ErrCycle = errors.New("derive: derivation cycle")
)

// Recompute applies the derivation cascade triggered by an edit of changedID.
//
// next holds the values after the direct edit. Parents missing from next fall
// back to prev. The result is a fresh map; neither input is modified. Derived
// fields with a blank formula are left untouched, and unknown parent ids read
// as absent values.
//
// The returned error is nil in the default mode. With WithCycleDetection it
// reports ErrCycle (and no derived value is computed); with WithStrict it
// reports ErrUnresolvedCycle alongside the values reached at the bound.
func Recompute(schema model.FormSchema, changedID string, prev, next model.Values, opts ...Option) (model.Values, error) {
	cfg := newOptions(opts)
	out := next.Clone()

	if cfg.detectCycles {
		if cycles := DetectCycles(schema); len(cycles) > 0 {
			return out, fmt.Errorf("%w: %s", ErrCycle, strings.Join(cycles[0], " -> "))
		}
	}

	in := Inputs{
		lookup: func(id string) model.Value {
			if v, ok := out.Lookup(id); ok {
				return v
			}
			return prev.Get(id)
		},
		now: cfg.now(),
	}

	dirty := map[string]struct{}{changedID: {}}
	passes := 1
	if cfg.strict {
		passes = cfg.maxPasses
	}

	var changed map[string]struct{}
	for pass := 0; pass < passes; pass++ {
		changed = cfg.cascade(schema, in, out, dirty)
		if !cfg.strict || len(changed) == 0 {
			return out, nil
		}
		dirty = changed
	}

	return out, fmt.Errorf("%w after %d passes: %s", ErrUnresolvedCycle, passes, strings.Join(sortedKeys(changed), ", "))
}

// cascade runs one ordered scan. dirty grows as fields are recomputed; the
// returned set holds the fields whose value actually changed.
func (o options) cascade(schema model.FormSchema, in Inputs, out model.Values, dirty map[string]struct{}) map[string]struct{} {
	changed := make(map[string]struct{})
	for _, field := range schema.Fields {
		if !field.IsDerived || strings.TrimSpace(field.Formula) == "" {
			continue
		}
		if !dependsOnAny(field, dirty) {
			continue
		}
		value := o.compute(field, in)
		if current, ok := out.Lookup(field.ID); !ok || !current.Equal(value) {
			changed[field.ID] = struct{}{}
		}
		out[field.ID] = value
		dirty[field.ID] = struct{}{}
	}
	return changed
}

func dependsOnAny(field model.Field, ids map[string]struct{}) bool {
	for _, parent := range field.ParentIDs {
		if _, ok := ids[parent]; ok {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
