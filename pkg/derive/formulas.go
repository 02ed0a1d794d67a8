package derive

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-formkit/pkg/formula"
	"github.com/goliatone/go-formkit/pkg/model"
)

// Built-in formula names.
const (
	FormulaAgeFromDOB = "AGE_FROM_DOB"
	FormulaFullName   = "FULL_NAME"
	FormulaTotalPrice = "TOTAL_PRICE"
)

// Field ids read by TOTAL_PRICE regardless of the field's parent list.
const (
	QuantityFieldID = "quantity"
	PriceFieldID    = "price"
)

// ErrorPrefix starts every error marker value.
const ErrorPrefix = "Error: "

// Inputs gives a formula read access to current values and the clock.
type Inputs struct {
	lookup func(id string) model.Value
	now    time.Time
}

// Value returns the current value of field id.
func (in Inputs) Value(id string) model.Value {
	if in.lookup == nil {
		return model.Value{}
	}
	return in.lookup(id)
}

// Now returns the evaluation time.
func (in Inputs) Now() time.Time { return in.now }

// Func computes the value of a derived field. A returned error is contained:
// the field receives an error marker.
type Func func(field model.Field, in Inputs) (model.Value, error)

var builtins = map[string]Func{
	FormulaAgeFromDOB: ageFromDOB,
	FormulaFullName:   fullName,
	FormulaTotalPrice: totalPrice,
}

// ErrorMarker is the value stored in a derived field whose formula failed.
func ErrorMarker(formulaText string) model.Value {
	return model.Text(ErrorPrefix + formulaText)
}

// IsErrorMarker reports whether v is an error marker.
func IsErrorMarker(v model.Value) bool {
	return v.Kind() == model.KindText && strings.HasPrefix(v.String(), ErrorPrefix)
}

// Compute evaluates a single derived field. Failures yield ErrorMarker.
func Compute(field model.Field, lookup func(id string) model.Value, now time.Time, opts ...Option) model.Value {
	cfg := newOptions(opts)
	return cfg.compute(field, Inputs{lookup: lookup, now: now})
}

func (o options) compute(field model.Field, in Inputs) model.Value {
	fn, ok := o.formulas[field.Formula]
	if !ok {
		fn, ok = builtins[field.Formula]
	}
	if !ok {
		fn = expression
	}
	value, err := fn(field, in)
	if err != nil {
		return ErrorMarker(field.Formula)
	}
	return value
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate reads the date formats a date input produces.
func ParseDate(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AgeOn returns the whole years elapsed between dob and today, counting the
// current year only once the anniversary has been reached.
func AgeOn(dob, today time.Time) int {
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return age
}

func ageFromDOB(field model.Field, in Inputs) (model.Value, error) {
	if len(field.ParentIDs) == 0 {
		return model.Text(""), nil
	}
	dob, ok := ParseDate(in.Value(field.ParentIDs[0]).String())
	if !ok {
		return model.Text(""), nil
	}
	return model.Number(float64(AgeOn(dob, in.Now()))), nil
}

func fullName(field model.Field, in Inputs) (model.Value, error) {
	parts := make([]string, 0, len(field.ParentIDs))
	for _, id := range field.ParentIDs {
		if part := in.Value(id).String(); part != "" {
			parts = append(parts, part)
		}
	}
	return model.Text(strings.TrimSpace(strings.Join(parts, " "))), nil
}

func totalPrice(_ model.Field, in Inputs) (model.Value, error) {
	quantity, err := numberOrZero(in.Value(QuantityFieldID))
	if err != nil {
		return model.Value{}, err
	}
	price, err := numberOrZero(in.Value(PriceFieldID))
	if err != nil {
		return model.Value{}, err
	}
	return model.Number(quantity * price), nil
}

func numberOrZero(v model.Value) (float64, error) {
	if v.IsEmpty() {
		return 0, nil
	}
	f, ok := v.Float()
	if !ok {
		return 0, fmt.Errorf("derive: %q is not a number", v.String())
	}
	return f, nil
}

var errEmptyFormula = errors.New("derive: empty formula")

func expression(field model.Field, in Inputs) (model.Value, error) {
	if strings.TrimSpace(field.Formula) == "" {
		return model.Value{}, errEmptyFormula
	}
	text := formula.Substitute(field.Formula, field.ParentIDs, func(id string) string {
		v := in.Value(id)
		if v.IsEmpty() {
			return "0"
		}
		return v.String()
	})
	result, err := formula.Evaluate(text, nil)
	if err != nil {
		return model.Value{}, err
	}
	return model.Number(result), nil
}
