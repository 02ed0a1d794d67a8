package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/renderers/tui"
	"github.com/goliatone/go-formkit/pkg/session"
	"github.com/goliatone/go-formkit/pkg/store"
)

var errInvalidForm = errors.New("form is invalid")

func newValidateCmd(a *app) *cobra.Command {
	var (
		valuesPath string
		output     string
	)
	cmd := &cobra.Command{
		Use:   "validate <id>",
		Short: "Applies values from a file to a saved form and submits it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd); err != nil {
				return err
			}
			defer a.shutdown()

			schema, err := store.Find(cmd.Context(), a.repo, args[0])
			if err != nil {
				return err
			}
			values, err := readValues(valuesPath)
			if err != nil {
				return err
			}
			s, err := session.New(schema, a.sessionOptions()...)
			if err != nil {
				return err
			}
			skipped, err := s.Apply(values)
			if err != nil {
				return err
			}
			for _, id := range skipped {
				logger.Warning("ignoring value for", id)
			}
			s.Submit()

			renderer, err := tui.New(tui.WithOutputFormat(tui.OutputFormat(output)))
			if err != nil {
				return err
			}
			data, err := renderer.Encode(s.Snapshot())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			if !s.IsValid() {
				return errInvalidForm
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON or YAML file mapping field ids to values")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format: json, yaml or pretty")
	_ = cmd.MarkFlagRequired("values")
	return cmd
}

// readValues decodes a flat id to value mapping. YAML is a superset of JSON,
// so one decoder reads both.
func readValues(path string) (model.Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("values %s: %w", path, err)
	}
	values := make(model.Values, len(raw))
	// Numbers are kept as typed text, the way an input widget reports them.
	for id, item := range raw {
		v, err := model.FromAny(item)
		if err != nil {
			return nil, fmt.Errorf("values %s: field %q: %w", path, id, err)
		}
		if v.Kind() == model.KindNumber {
			v = model.Text(v.String())
		}
		values[id] = v
	}
	return values, nil
}
