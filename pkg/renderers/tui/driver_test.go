package tui

import (
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/google/go-cmp/cmp"
)

func TestTextPrompt(t *testing.T) {
	secret, ok := textPrompt(Prompt{Message: "Password", Default: "old", Secret: true}).(*survey.Password)
	if !ok || secret.Message != "Password" {
		t.Fatalf("expected a password prompt, got %#v", secret)
	}

	multi, ok := textPrompt(Prompt{Message: "Bio", Default: "hi", Multiline: true}).(*survey.Multiline)
	if !ok || multi.Message != "Bio" || multi.Default != "hi" {
		t.Fatalf("expected a multiline prompt, got %#v", multi)
	}

	input, ok := textPrompt(Prompt{Message: "Name", Default: "Ada", Help: "first name"}).(*survey.Input)
	if !ok {
		t.Fatal("expected an input prompt")
	}
	got := []string{input.Message, input.Default, input.Help}
	if diff := cmp.Diff([]string{"Name", "Ada", "first name"}, got); diff != "" {
		t.Fatalf("input prompt mismatch (-want +got):\n%s", diff)
	}
}

func TestSurveyCheck(t *testing.T) {
	check := surveyCheck(validDate)
	if err := check("2000-06-15"); err != nil {
		t.Fatalf("valid date rejected: %v", err)
	}
	if check("15/06/2000") == nil {
		t.Fatal("expected an error for a non ISO date")
	}
	if err := check(42); err != nil {
		t.Fatalf("non-string answers are checked as empty, got %v", err)
	}
}

func TestChoiceHelpers(t *testing.T) {
	options := []string{"S", "M", "L"}
	if diff := cmp.Diff([]string{"M", "L"}, pick(options, []int{1, 5, 2, -1})); diff != "" {
		t.Fatalf("pick mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 2}, indicesOf(options, []string{"L", "S", "XL"})); diff != "" {
		t.Fatalf("indicesOf mismatch (-want +got):\n%s", diff)
	}
	if indexOf(options, "XL") != -1 {
		t.Fatal("unknown option should map to -1")
	}
}
