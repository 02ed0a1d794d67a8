package model_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formkit/pkg/model"
)

func sampleSchema() model.FormSchema {
	seed := model.Text("Ada")
	return model.FormSchema{
		ID:        "signup",
		Name:      "Sign up",
		CreatedAt: time.Date(2024, 6, 14, 9, 30, 0, 0, time.UTC),
		Fields: []model.Field{
			{
				ID:           "first",
				Type:         model.FieldTypeText,
				Label:        "First name",
				Required:     true,
				DefaultValue: &seed,
				Validations: model.RuleSet{
					MinLength: &model.Rule{Value: "2", ErrorMessage: "Too short"},
					MaxLength: &model.Rule{Value: "40"},
				},
			},
			{ID: "last", Type: model.FieldTypeText, Label: "Last name"},
			{
				ID:      "topics",
				Type:    model.FieldTypeCheckbox,
				Label:   "Topics",
				Options: []string{"go", "rust", "zig"},
				Validations: model.RuleSet{
					NotEmpty: &model.Rule{ErrorMessage: "Pick one"},
				},
			},
			{
				ID:          "email",
				Type:        model.FieldTypeText,
				Label:       "Email",
				Validations: model.RuleSet{Email: &model.Rule{}, PasswordRule: &model.Rule{Value: "^.{8,}$"}},
			},
			{
				ID:        "full",
				Type:      model.FieldTypeText,
				Label:     "Full name",
				IsDerived: true,
				ParentIDs: []string{"first", "last"},
				Formula:   "FULL_NAME",
			},
		},
	}
}

func TestSchemaJSONRoundTrip(t *testing.T) {
	want := []model.FormSchema{sampleSchema()}

	data, err := model.EncodeJSON(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := model.DecodeSchemas(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemaYAMLRoundTrip(t *testing.T) {
	want := []model.FormSchema{sampleSchema()}

	data, err := model.EncodeYAML(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := model.DecodeSchemas(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeSchemasAcceptsNumericRuleValues(t *testing.T) {
	doc := `{
		"id": "f1",
		"name": "Legacy",
		"createdAt": "2024-01-02T03:04:05Z",
		"fields": [
			{"id": "age", "type": "number", "label": "Age", "defaultValue": 42,
			 "validations": {"minLength": {"value": 1}, "maxLength": {"value": 3, "errorMessage": "Too long"}}},
			{"id": "tags", "type": "checkbox", "label": "Tags", "options": ["a", "b"], "defaultValue": ["b"]}
		]
	}`

	got, err := model.DecodeSchemas([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || len(got[0].Fields) != 2 {
		t.Fatalf("unexpected decode result: %+v", got)
	}

	age := got[0].Fields[0]
	if diff := cmp.Diff(&model.Rule{Value: "3", ErrorMessage: "Too long"}, age.Validations.MaxLength); diff != "" {
		t.Fatalf("maxLength mismatch (-want +got):\n%s", diff)
	}
	if n, ok := age.Validations.MinLength.Int(); !ok || n != 1 {
		t.Fatalf("minLength Int() = %d, %v", n, ok)
	}
	if !age.DefaultValue.Equal(model.Number(42)) {
		t.Fatalf("default value = %#v", age.DefaultValue)
	}
	if !got[0].Fields[1].DefaultValue.Equal(model.List("b")) {
		t.Fatalf("checkbox default = %#v", got[0].Fields[1].DefaultValue)
	}
}

func TestDecodeSchemasYAMLDocument(t *testing.T) {
	doc := `
- id: order
  name: Order
  createdAt: 2024-03-01T00:00:00Z
  fields:
    - id: quantity
      type: number
      label: Quantity
      validations:
        maxLength:
          value: 4
    - id: total
      type: number
      label: Total
      isDerived: true
      parentIds: [quantity, price]
      formula: TOTAL_PRICE
`
	got, err := model.DecodeSchemas([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one schema, got %d", len(got))
	}
	want := []string{"quantity", "price"}
	if diff := cmp.Diff(want, got[0].Fields[1].ParentIDs); diff != "" {
		t.Fatalf("parent ids mismatch (-want +got):\n%s", diff)
	}
	if got[0].Fields[0].Validations.MaxLength.Value != "4" {
		t.Fatalf("maxLength value = %q", got[0].Fields[0].Validations.MaxLength.Value)
	}
}

func TestValueSemantics(t *testing.T) {
	tests := []struct {
		name    string
		value   model.Value
		empty   bool
		text    string
		length  int
		hasLen  bool
		numeric bool
	}{
		{name: "absent", value: model.Absent(), empty: true},
		{name: "empty text", value: model.Text(""), empty: true, hasLen: true},
		{name: "text", value: model.Text("héllo"), text: "héllo", length: 5, hasLen: true},
		{name: "numeric text", value: model.Text(" 12 "), text: " 12 ", length: 4, hasLen: true, numeric: true},
		{name: "zero number", value: model.Number(0), text: "0", numeric: true},
		{name: "fraction", value: model.Number(2.5), text: "2.5", numeric: true},
		{name: "empty list", value: model.List(), empty: true, hasLen: true},
		{name: "list", value: model.List("a", "b"), text: "a,b", length: 2, hasLen: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.IsEmpty(); got != tt.empty {
				t.Fatalf("IsEmpty() = %v, want %v", got, tt.empty)
			}
			if got := tt.value.String(); got != tt.text {
				t.Fatalf("String() = %q, want %q", got, tt.text)
			}
			length, ok := tt.value.Len()
			if ok != tt.hasLen || length != tt.length {
				t.Fatalf("Len() = %d, %v, want %d, %v", length, ok, tt.length, tt.hasLen)
			}
			if _, ok := tt.value.Float(); ok != tt.numeric {
				t.Fatalf("Float() ok = %v, want %v", ok, tt.numeric)
			}
		})
	}
}

func TestValueJSON(t *testing.T) {
	values := model.Values{
		"a": model.Text("x"),
		"b": model.Number(3),
		"c": model.List("p", "q"),
		"d": model.Absent(),
	}
	data, err := json.Marshal(values)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got model.Values
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !values.Equal(got) {
		t.Fatalf("values mismatch: %s", data)
	}
}

func TestFieldSeedIgnoresDerivedDefaults(t *testing.T) {
	seed := model.Text("stale")
	derived := model.Field{ID: "age", IsDerived: true, DefaultValue: &seed}
	if _, ok := derived.Seed(); ok {
		t.Fatal("derived field must not be seeded")
	}
	plain := model.Field{ID: "name", DefaultValue: &seed}
	got, ok := plain.Seed()
	if !ok || !got.Equal(seed) {
		t.Fatalf("Seed() = %#v, %v", got, ok)
	}
}

func TestCheck(t *testing.T) {
	if err := model.Check(sampleSchema()); err != nil {
		t.Fatalf("sample schema should pass: %v", err)
	}

	broken := model.FormSchema{
		ID: "broken",
		Fields: []model.Field{
			{ID: "a", Type: model.FieldTypeText},
			{ID: "a", Type: model.FieldTypeText},
			{ID: "pick", Type: model.FieldTypeSelect},
			{ID: "odd", Type: "slider"},
			{ID: "len", Type: model.FieldTypeText, Validations: model.RuleSet{MinLength: &model.Rule{Value: "abc"}}},
			{ID: "self", Type: model.FieldTypeText, IsDerived: true, ParentIDs: []string{"self", "ghost", "a", "a"}, Formula: "a + 1"},
			{ID: "bare", Type: model.FieldTypeText, IsDerived: true},
		},
	}

	err := model.Check(broken)
	var schemaErr *model.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}

	want := []model.Issue{
		{FieldID: "a", Message: "duplicate field id"},
		{FieldID: "pick", Message: "select field requires at least one option"},
		{FieldID: "odd", Message: `unknown field type "slider"`},
		{FieldID: "len", Message: `minLength value "abc" is not a number`},
		{FieldID: "self", Message: "derived field references itself"},
		{FieldID: "self", Message: `parent "ghost" does not exist`},
		{FieldID: "self", Message: `parent "a" listed twice`},
		{FieldID: "bare", Message: "derived field has no formula"},
	}
	if diff := cmp.Diff(want, schemaErr.Issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemaCloneDoesNotAlias(t *testing.T) {
	original := sampleSchema()
	clone := original.Clone()
	clone.Fields[2].Options[0] = "changed"
	clone.Fields[0].Validations.MinLength.Value = "9"

	if original.Fields[2].Options[0] != "go" {
		t.Fatal("options slice aliased")
	}
	if original.Fields[0].Validations.MinLength.Value != "2" {
		t.Fatal("rule pointer aliased")
	}
}

func TestFromAnyDates(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want model.Value
	}{
		{name: "date", raw: time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC), want: model.Text("2000-06-15")},
		{name: "timestamp", raw: time.Date(2000, 6, 15, 10, 30, 0, 0, time.UTC), want: model.Text("2000-06-15T10:30:00Z")},
		{name: "list of dates", raw: []any{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "x"}, want: model.List("2024-01-02", "x")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.FromAny(tt.raw)
			if err != nil {
				t.Fatalf("FromAny: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeSchemasStructuredRuleValues(t *testing.T) {
	// A RegExp rule value is persisted as an empty object.
	doc := `[{
		"id": "f1",
		"name": "Account",
		"createdAt": "2024-01-02T03:04:05Z",
		"fields": [
			{"id": "pw", "type": "text", "label": "Password",
			 "validations": {"passwordRule": {"value": {}, "errorMessage": "weak"}, "email": {"value": true}}},
			{"id": "tags", "type": "text", "label": "Tags",
			 "validations": {"maxLength": {"value": [1, 2]}}}
		]
	}]`

	got, err := model.DecodeSchemas([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	pw := got[0].Fields[0].Validations
	if diff := cmp.Diff(&model.Rule{ErrorMessage: "weak"}, pw.PasswordRule); diff != "" {
		t.Fatalf("passwordRule mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(&model.Rule{Value: "true"}, pw.Email); diff != "" {
		t.Fatalf("email mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(&model.Rule{}, got[0].Fields[1].Validations.MaxLength); diff != "" {
		t.Fatalf("maxLength mismatch (-want +got):\n%s", diff)
	}

	yamlDoc := `
- id: f2
  name: Account
  fields:
    - id: pw
      type: text
      label: Password
      validations:
        passwordRule:
          value: {}
          errorMessage: weak
`
	got, err = model.DecodeSchemas([]byte(yamlDoc))
	if err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if diff := cmp.Diff(&model.Rule{ErrorMessage: "weak"}, got[0].Fields[0].Validations.PasswordRule); diff != "" {
		t.Fatalf("yaml passwordRule mismatch (-want +got):\n%s", diff)
	}
}

func TestAbsentDefaultIsCanonicalNil(t *testing.T) {
	absent := model.Absent()
	schema := model.FormSchema{
		ID:     "f",
		Fields: []model.Field{{ID: "a", Type: model.FieldTypeText, Label: "A", DefaultValue: &absent}},
	}
	want := []model.FormSchema{{
		ID:     "f",
		Fields: []model.Field{{ID: "a", Type: model.FieldTypeText, Label: "A"}},
	}}

	jsonData, err := model.EncodeJSON([]model.FormSchema{schema})
	if err != nil {
		t.Fatalf("encode json: %v", err)
	}
	yamlData, err := model.EncodeYAML([]model.FormSchema{schema})
	if err != nil {
		t.Fatalf("encode yaml: %v", err)
	}
	for name, data := range map[string][]byte{"json": jsonData, "yaml": yamlData} {
		got, err := model.DecodeSchemas(data)
		if err != nil {
			t.Fatalf("%s decode: %v", name, err)
		}
		if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("%s round trip mismatch (-want +got):\n%s", name, diff)
		}
	}

	if diff := cmp.Diff(want[0], schema.Clone(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("clone mismatch (-want +got):\n%s", diff)
	}
}
