package validation

import "github.com/goliatone/go-formkit/pkg/model"

// ValidateForm validates every field of schema against values and returns the
// fresh error map.
func ValidateForm(schema model.FormSchema, values model.Values) Errors {
	errs := make(Errors)
	for _, field := range schema.Fields {
		if failures := Validate(field, values.Get(field.ID)); len(failures) > 0 {
			errs[field.ID] = failures
		}
	}
	return errs
}

// Filled reports whether value satisfies the presence requirement of field.
// Checkbox fields need a non-empty selection list; any other field needs a
// non-empty value.
func Filled(field model.Field, value model.Value) bool {
	if field.Type == model.FieldTypeCheckbox {
		return value.Kind() == model.KindList && !value.IsEmpty()
	}
	return !value.IsEmpty()
}

// RequiredFilled reports whether every field marked required (directly or via
// notEmpty) holds a value.
func RequiredFilled(schema model.FormSchema, values model.Values) bool {
	for _, field := range schema.Fields {
		if field.MustBeFilled() && !Filled(field, values.Get(field.ID)) {
			return false
		}
	}
	return true
}

// Valid is the aggregate verdict: all required fields are filled and no field
// carries an error.
func Valid(schema model.FormSchema, values model.Values, errs Errors) bool {
	return RequiredFilled(schema, values) && len(errs) == 0
}
