// Package tui fills a form session from the terminal. Fields are prompted in
// schema order with a widget picked by field type; derived fields are never
// prompted, only echoed once computed.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/derive"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/session"
)

// Renderer drives a session through a PromptDriver.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	maxAttempts  int
	theme        Theme
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		maxAttempts:  DefaultMaxAttempts,
		theme:        Theme{RequiredSuffix: " *", ErrorPrefix: "  ! "},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatYAML, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// Fill prompts every editable field, submits, and re-prompts the fields that
// still carry errors until the form is valid, the user declines to retry, or
// the attempt bound is reached. The returned snapshot reports the final verdict; running out of
// attempts is not an error.
func (r *Renderer) Fill(ctx context.Context, s *session.Session) (session.Snapshot, error) {
	if ctx == nil {
		return session.Snapshot{}, errors.New("tui: context is required")
	}
	if s == nil {
		return session.Snapshot{}, ErrNoSession
	}
	schema := s.Schema()

	pending := make(map[string]struct{}, len(schema.Fields))
	for _, field := range schema.Fields {
		if field.Editable() {
			pending[field.ID] = struct{}{}
		}
	}

	for attempt := 1; ; attempt++ {
		for _, field := range schema.Fields {
			if _, ok := pending[field.ID]; !ok {
				continue
			}
			if err := ctx.Err(); err != nil {
				return session.Snapshot{}, err
			}
			value, err := r.promptField(ctx, field, s)
			if err != nil {
				return session.Snapshot{}, fmt.Errorf("tui: field %q: %w", field.ID, err)
			}
			if err := s.SetValue(field.ID, value); err != nil {
				return session.Snapshot{}, fmt.Errorf("tui: %w", err)
			}
		}

		if err := r.showDerived(ctx, schema, s); err != nil {
			return session.Snapshot{}, err
		}
		if s.Submit() {
			return s.Snapshot(), nil
		}
		if err := r.showErrors(ctx, schema, s); err != nil {
			return session.Snapshot{}, err
		}
		if attempt >= r.maxAttempts {
			return s.Snapshot(), nil
		}

		pending = retryFields(schema, s)
		if len(pending) == 0 {
			return s.Snapshot(), nil
		}
		retry, err := r.driver.Confirm(ctx, fmt.Sprintf("Fix %d field(s)?", len(pending)), true)
		if err != nil {
			return session.Snapshot{}, fmt.Errorf("tui: %w", err)
		}
		if !retry {
			return s.Snapshot(), nil
		}
	}
}

// retryFields lists the editable fields that failed validation. A session
// can be invalid with no editable culprit (a derived field failing its own
// rules); then there is nothing left to ask.
func retryFields(schema model.FormSchema, s *session.Session) map[string]struct{} {
	errs := s.Errors()
	out := make(map[string]struct{})
	for _, field := range schema.Fields {
		if !field.Editable() {
			continue
		}
		if len(errs[field.ID]) > 0 {
			out[field.ID] = struct{}{}
		}
	}
	return out
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, s *session.Session) (model.Value, error) {
	current := s.Value(field.ID)
	message := r.label(field)
	help := strings.Join(s.FieldErrors(field.ID), "; ")

	switch field.Type {
	case model.FieldTypeSelect, model.FieldTypeRadio:
		idx, err := r.driver.Choose(ctx, Choice{
			Message:  message,
			Help:     help,
			Options:  field.Options,
			Selected: indicesOf(field.Options, []string{current.String()}),
		})
		if err != nil {
			return model.Value{}, err
		}
		if idx < 0 || idx >= len(field.Options) {
			return model.Text(""), nil
		}
		return model.Text(field.Options[idx]), nil

	case model.FieldTypeCheckbox:
		indices, err := r.driver.ChooseMany(ctx, Choice{
			Message:  message,
			Help:     help,
			Options:  field.Options,
			Selected: indicesOf(field.Options, current.Items()),
		})
		if err != nil {
			return model.Value{}, err
		}
		return model.List(pick(field.Options, indices)...), nil
	}

	p := Prompt{Message: message, Help: help, Default: current.String()}
	switch {
	case field.Type == model.FieldTypeTextarea:
		p.Multiline = true
	case field.Type == model.FieldTypeDate:
		if p.Help == "" {
			p.Help = "YYYY-MM-DD"
		}
		p.Check = validDate
	case field.Validations.PasswordRule != nil:
		p.Secret = true
		p.Default = ""
	}
	out, err := r.driver.Ask(ctx, p)
	if err != nil {
		return model.Value{}, err
	}
	if field.Type == model.FieldTypeDate {
		out = strings.TrimSpace(out)
	}
	return model.Text(out), nil
}

func validDate(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if _, ok := derive.ParseDate(raw); !ok {
		return errors.New("enter a date as YYYY-MM-DD")
	}
	return nil
}

func (r *Renderer) label(field model.Field) string {
	label := field.Label
	if label == "" {
		label = field.ID
	}
	if field.MustBeFilled() {
		label += r.theme.RequiredSuffix
	}
	return label
}

func (r *Renderer) showDerived(ctx context.Context, schema model.FormSchema, s *session.Session) error {
	for _, field := range schema.Fields {
		if field.Editable() {
			continue
		}
		value := s.Value(field.ID)
		if value.IsAbsent() {
			continue
		}
		if err := r.driver.Info(ctx, fmt.Sprintf("%s%s = %s", r.theme.InfoPrefix, r.label(field), value.String())); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) showErrors(ctx context.Context, schema model.FormSchema, s *session.Session) error {
	errs := s.Errors()
	for _, field := range schema.Fields {
		for _, message := range errs[field.ID] {
			line := fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, r.label(field), message)
			if err := r.driver.Info(ctx, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// Encode serializes a snapshot in the configured output format.
func (r *Renderer) Encode(snapshot session.Snapshot) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatYAML:
		out, err := yaml.Marshal(snapshot)
		if err != nil {
			return nil, fmt.Errorf("tui: encode yaml: %w", err)
		}
		return out, nil
	case OutputFormatPrettyText:
		return prettyText(snapshot), nil
	default:
		out, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return out, nil
	}
}

func prettyText(snapshot session.Snapshot) []byte {
	var b strings.Builder
	verdict := "invalid"
	if snapshot.Valid {
		verdict = "valid"
	}
	fmt.Fprintf(&b, "form %s: %s\n", snapshot.SchemaID, verdict)

	ids := make([]string, 0, len(snapshot.Values))
	for id := range snapshot.Values {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(&b, "  %s: %s\n", id, snapshot.Values[id].String())
	}

	ids = ids[:0]
	for id := range snapshot.Errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		for _, message := range snapshot.Errors[id] {
			fmt.Fprintf(&b, "  ! %s: %s\n", id, message)
		}
	}
	return []byte(b.String())
}
