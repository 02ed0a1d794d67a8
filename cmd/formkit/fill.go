package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-formkit/pkg/renderers/tui"
	"github.com/goliatone/go-formkit/pkg/session"
	"github.com/goliatone/go-formkit/pkg/store"
)

func newFillCmd(a *app) *cobra.Command {
	var (
		output   string
		attempts int
	)
	cmd := &cobra.Command{
		Use:   "fill <id>",
		Short: "Fills a saved form interactively",
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
			s, err := session.New(schema, a.sessionOptions()...)
			if err != nil {
				return err
			}
			renderer, err := tui.New(
				tui.WithPromptDriver(tui.NewSurveyDriver(cmd.ErrOrStderr())),
				tui.WithOutputFormat(tui.OutputFormat(output)),
				tui.WithMaxAttempts(attempts),
			)
			if err != nil {
				return err
			}
			snapshot, err := renderer.Fill(cmd.Context(), s)
			if err != nil {
				return err
			}
			data, err := renderer.Encode(snapshot)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			if !snapshot.Valid {
				return errInvalidForm
			}
			logger.Info("form", schema.ID, "submitted")
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format: json, yaml or pretty")
	cmd.Flags().IntVar(&attempts, "attempts", tui.DefaultMaxAttempts, "Submit attempts before giving up")
	return cmd
}
