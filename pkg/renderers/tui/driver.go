package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// Prompt is a free-text question. Secret hides the answer and never shows
// Default; Multiline opens a multi-line editor.
type Prompt struct {
	Message   string
	Help      string
	Default   string
	Secret    bool
	Multiline bool
	Check     func(answer string) error
}

// Choice is a question answered by picking from Options. Selected holds the
// preselected indices; a single choice uses the first one.
type Choice struct {
	Message  string
	Help     string
	Options  []string
	Selected []int
}

// PromptDriver is the terminal seen by the renderer. Choose returns -1 when
// nothing was picked.
type PromptDriver interface {
	Ask(ctx context.Context, p Prompt) (string, error)
	Choose(ctx context.Context, c Choice) (int, error)
	ChooseMany(ctx context.Context, c Choice) ([]int, error)
	Confirm(ctx context.Context, message string, def bool) (bool, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct {
	out io.Writer
}

// NewSurveyDriver returns the interactive driver backed by survey. Info lines
// go to out, or stdout when out is nil.
func NewSurveyDriver(out io.Writer) PromptDriver {
	if out == nil {
		out = os.Stdout
	}
	return &surveyDriver{out: out}
}

func (d *surveyDriver) Ask(ctx context.Context, p Prompt) (string, error) {
	var opts []survey.AskOpt
	if p.Check != nil {
		opts = append(opts, survey.WithValidator(surveyCheck(p.Check)))
	}
	return askOne[string](ctx, textPrompt(p), opts...)
}

func (d *surveyDriver) Choose(ctx context.Context, c Choice) (int, error) {
	prompt := &survey.Select{Message: c.Message, Options: c.Options, Help: c.Help}
	if picked := pick(c.Options, c.Selected); len(picked) > 0 {
		prompt.Default = picked[0]
	}
	answer, err := askOne[string](ctx, prompt)
	if err != nil {
		return -1, err
	}
	return indexOf(c.Options, answer), nil
}

func (d *surveyDriver) ChooseMany(ctx context.Context, c Choice) ([]int, error) {
	prompt := &survey.MultiSelect{Message: c.Message, Options: c.Options, Help: c.Help}
	if picked := pick(c.Options, c.Selected); len(picked) > 0 {
		prompt.Default = picked
	}
	answers, err := askOne[[]string](ctx, prompt)
	if err != nil {
		return nil, err
	}
	return indicesOf(c.Options, answers), nil
}

func (d *surveyDriver) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	return askOne[bool](ctx, &survey.Confirm{Message: message, Default: def})
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

func askOne[T any](ctx context.Context, prompt survey.Prompt, opts ...survey.AskOpt) (T, error) {
	var answer T
	if err := ctx.Err(); err != nil {
		return answer, err
	}
	if err := survey.AskOne(prompt, &answer, opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return answer, ErrAborted
		}
		return answer, err
	}
	return answer, nil
}

// textPrompt maps a Prompt to the survey widget that renders it.
func textPrompt(p Prompt) survey.Prompt {
	switch {
	case p.Secret:
		return &survey.Password{Message: p.Message, Help: p.Help}
	case p.Multiline:
		return &survey.Multiline{Message: p.Message, Help: p.Help, Default: p.Default}
	default:
		return &survey.Input{Message: p.Message, Help: p.Help, Default: p.Default}
	}
}

// surveyCheck adapts a string check to survey's untyped validator.
func surveyCheck(check func(string) error) survey.Validator {
	return func(ans interface{}) error {
		s, _ := ans.(string)
		return check(s)
	}
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}

func indicesOf(options, values []string) []int {
	want := make(map[string]bool, len(values))
	for _, v := range values {
		want[v] = true
	}
	var out []int
	for i, option := range options {
		if want[option] {
			out = append(out, i)
		}
	}
	return out
}

func pick(options []string, indices []int) []string {
	var out []string
	for _, i := range indices {
		if i >= 0 && i < len(options) {
			out = append(out, options[i])
		}
	}
	return out
}
