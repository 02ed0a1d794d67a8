package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/validation"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		field model.Field
		value model.Value
		want  []string
	}{
		{
			name:  "required absent",
			field: model.Field{ID: "f", Type: model.FieldTypeText, Required: true},
			value: model.Absent(),
			want:  []string{validation.MsgRequired},
		},
		{
			name:  "required empty string",
			field: model.Field{ID: "f", Type: model.FieldTypeText, Required: true},
			value: model.Text(""),
			want:  []string{validation.MsgRequired},
		},
		{
			name:  "notEmpty custom message",
			field: model.Field{ID: "f", Type: model.FieldTypeText, Validations: model.RuleSet{NotEmpty: &model.Rule{ErrorMessage: "Name please"}}},
			value: model.Absent(),
			want:  []string{"Name please"},
		},
		{
			name:  "zero is present",
			field: model.Field{ID: "f", Type: model.FieldTypeNumber, Required: true},
			value: model.Number(0),
		},
		{
			name:  "number digits pass",
			field: model.Field{ID: "f", Type: model.FieldTypeNumber},
			value: model.Text("12345"),
		},
		{
			name:  "negative number rejected",
			field: model.Field{ID: "f", Type: model.FieldTypeNumber},
			value: model.Text("-5"),
			want:  []string{validation.MsgOnlyNumbers},
		},
		{
			name:  "decimal rejected",
			field: model.Field{ID: "f", Type: model.FieldTypeNumber},
			value: model.Text("3.14"),
			want:  []string{validation.MsgOnlyNumbers},
		},
		{
			name:  "computed fraction rejected",
			field: model.Field{ID: "f", Type: model.FieldTypeNumber},
			value: model.Number(2.5),
			want:  []string{validation.MsgOnlyNumbers},
		},
		{
			name:  "empty number skips shape check",
			field: model.Field{ID: "f", Type: model.FieldTypeNumber},
			value: model.Absent(),
		},
		{
			name: "min length default message",
			field: model.Field{ID: "f", Type: model.FieldTypeText, Validations: model.RuleSet{
				MinLength: &model.Rule{Value: "3"},
			}},
			value: model.Text("ab"),
			want:  []string{"Minimum length is 3"},
		},
		{
			name: "max length custom message",
			field: model.Field{ID: "f", Type: model.FieldTypeText, Validations: model.RuleSet{
				MaxLength: &model.Rule{Value: "2", ErrorMessage: "Keep it short"},
			}},
			value: model.Text("abc"),
			want:  []string{"Keep it short"},
		},
		{
			name: "contradictory bounds report both",
			field: model.Field{ID: "f", Type: model.FieldTypeText, Validations: model.RuleSet{
				MinLength: &model.Rule{Value: "10"},
				MaxLength: &model.Rule{Value: "2"},
			}},
			value: model.Text("hello"),
			want:  []string{"Minimum length is 10", "Maximum length is 2"},
		},
		{
			name: "length counts characters",
			field: model.Field{ID: "f", Type: model.FieldTypeText, Validations: model.RuleSet{
				MaxLength: &model.Rule{Value: "4"},
			}},
			value: model.Text("héllo"),
			want:  []string{"Maximum length is 4"},
		},
		{
			name: "absent value has no length",
			field: model.Field{ID: "f", Type: model.FieldTypeText, Validations: model.RuleSet{
				MinLength: &model.Rule{Value: "3"},
			}},
			value: model.Absent(),
		},
		{
			name:  "email valid",
			field: model.Field{ID: "f", Type: model.FieldTypeText, Validations: model.RuleSet{Email: &model.Rule{}}},
			value: model.Text("ada@example.org"),
		},
		{
			name:  "email short tld",
			field: model.Field{ID: "f", Type: model.FieldTypeText, Validations: model.RuleSet{Email: &model.Rule{}}},
			value: model.Text("ada@example.o"),
			want:  []string{validation.MsgInvalidEmail},
		},
		{
			name:  "email with whitespace",
			field: model.Field{ID: "f", Type: model.FieldTypeText, Validations: model.RuleSet{Email: &model.Rule{ErrorMessage: "Bad email"}}},
			value: model.Text("ada @example.org"),
			want:  []string{"Bad email"},
		},
		{
			name:  "email skipped when empty",
			field: model.Field{ID: "f", Type: model.FieldTypeText, Validations: model.RuleSet{Email: &model.Rule{}}},
			value: model.Text(""),
		},
		{
			name:  "password strong",
			field: model.Field{ID: "f", Type: model.FieldTypeText, Validations: model.RuleSet{PasswordRule: &model.Rule{}}},
			value: model.Text("Secr3t!pw"),
		},
		{
			name:  "password missing symbol",
			field: model.Field{ID: "f", Type: model.FieldTypeText, Validations: model.RuleSet{PasswordRule: &model.Rule{}}},
			value: model.Text("Secr3tpw"),
			want:  []string{validation.MsgPasswordRules},
		},
		{
			name: "all failures collected in order",
			field: model.Field{ID: "f", Type: model.FieldTypeText, Validations: model.RuleSet{
				MinLength:    &model.Rule{Value: "12"},
				Email:        &model.Rule{},
				PasswordRule: &model.Rule{ErrorMessage: "weak"},
			}},
			value: model.Text("abc"),
			want:  []string{"Minimum length is 12", validation.MsgInvalidEmail, "weak"},
		},
		{
			name:  "checkbox required empty selection",
			field: model.Field{ID: "f", Type: model.FieldTypeCheckbox, Required: true, Options: []string{"a", "b"}},
			value: model.List(),
			want:  []string{validation.MsgRequired},
		},
		{
			name:  "checkbox required one checked",
			field: model.Field{ID: "f", Type: model.FieldTypeCheckbox, Required: true, Options: []string{"a", "b"}},
			value: model.List("b"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validation.Validate(tt.field, tt.value)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Validate mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNumberFieldsRejectNonDigits(t *testing.T) {
	field := model.Field{ID: "n", Type: model.FieldTypeNumber}
	for _, raw := range []string{"-5", "3.14", "1e3", "+7", " 4", "12a", "٣"} {
		got := validation.Validate(field, model.Text(raw))
		if diff := cmp.Diff([]string{validation.MsgOnlyNumbers}, got); diff != "" {
			t.Errorf("value %q (-want +got):\n%s", raw, diff)
		}
	}
}

func TestStrongPassword(t *testing.T) {
	tests := map[string]bool{
		"Aa1!aaaa":  true,
		"Aa1!aaa":   false,
		"aa1!aaaa":  false,
		"AA1!AAAA":  false,
		"Aaa!aaaa":  false,
		"Aa1aaaaa":  false,
		"Aa1\\aaaa": true,
		"Aa1~aaaa":  false,
	}
	for input, want := range tests {
		if got := validation.StrongPassword(input); got != want {
			t.Errorf("StrongPassword(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestValidateFormAndVerdict(t *testing.T) {
	schema := model.FormSchema{
		Fields: []model.Field{
			{ID: "name", Type: model.FieldTypeText, Required: true},
			{ID: "age", Type: model.FieldTypeNumber},
			{ID: "tags", Type: model.FieldTypeCheckbox, Options: []string{"x"}, Validations: model.RuleSet{NotEmpty: &model.Rule{}}},
		},
	}

	values := model.Values{"age": model.Text("4.5"), "tags": model.List()}
	errs := validation.ValidateForm(schema, values)
	want := validation.Errors{
		"name": {validation.MsgRequired},
		"age":  {validation.MsgOnlyNumbers},
		"tags": {validation.MsgRequired},
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if validation.Valid(schema, values, errs) {
		t.Fatal("form must not be valid")
	}

	values = model.Values{"name": model.Text("Ada"), "age": model.Text("36"), "tags": model.List("x")}
	errs = validation.ValidateForm(schema, values)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !validation.Valid(schema, values, errs) {
		t.Fatal("form should be valid")
	}
}

func TestFilledCheckboxNeedsList(t *testing.T) {
	field := model.Field{ID: "c", Type: model.FieldTypeCheckbox}
	if validation.Filled(field, model.Text("a")) {
		t.Fatal("checkbox text value must not count as filled")
	}
	if !validation.Filled(field, model.List("a")) {
		t.Fatal("checkbox selection should count as filled")
	}
}
