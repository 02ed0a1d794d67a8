package session_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/session"
	"github.com/goliatone/go-formkit/pkg/testsupport"
	"github.com/goliatone/go-formkit/pkg/validation"
)

const formsFixture = "testdata/forms.yaml"

func TestOrderFixtureChain(t *testing.T) {
	s := mustNew(t, testsupport.MustLoadSchema(t, formsFixture, "order"))

	if diff := cmp.Diff(model.Text("5"), s.Value("price")); diff != "" {
		t.Fatalf("default price mismatch (-want +got):\n%s", diff)
	}

	mustSet(t, s, "quantity", model.Text("4"))
	if diff := cmp.Diff(model.Number(20), s.Value("total")); diff != "" {
		t.Fatalf("total mismatch (-want +got):\n%s", diff)
	}
	// discounted follows total in schema order, so one pass reaches it.
	if diff := cmp.Diff(model.Number(18), s.Value("discounted")); diff != "" {
		t.Fatalf("discounted mismatch (-want +got):\n%s", diff)
	}

	mustSet(t, s, "quantity", model.Text(""))
	s.Submit()
	if diff := cmp.Diff([]string{"Quantity is needed"}, s.FieldErrors("quantity")); diff != "" {
		t.Fatalf("notEmpty message mismatch (-want +got):\n%s", diff)
	}
}

func TestAccountFixtureValidation(t *testing.T) {
	s := mustNew(t, testsupport.MustLoadSchema(t, formsFixture, "account"))

	mustSet(t, s, "email", model.Text("ada@example"))
	mustSet(t, s, "password", model.Text("short"))
	mustSet(t, s, "bio", model.Text("abcdefg"))
	if s.Submit() {
		t.Fatal("expected an invalid form")
	}

	want := validation.Errors{
		"email":    {validation.MsgInvalidEmail},
		"password": {"Minimum length is 8", validation.MsgPasswordRules},
		"bio":      {"Minimum length is 10", "Maximum length is 5"},
	}
	if diff := testsupport.CompareGolden(want, s.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	mustSet(t, s, "email", model.Text("ada@example.org"))
	mustSet(t, s, "password", model.Text("Sup3r$ecret"))
	mustSet(t, s, "bio", model.Absent())
	if !s.Submit() {
		t.Fatalf("expected a valid form, got %v", s.Errors())
	}
	if s.State() != session.Submitted {
		t.Fatalf("unexpected state %s", s.State())
	}
}
