package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-formkit/pkg/builder"
	"github.com/goliatone/go-formkit/pkg/openapi"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		specPath    string
		operationID string
		name        string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Creates a form from an OpenAPI operation's request body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(specPath)
			if err != nil {
				return err
			}
			if operationID == "" {
				ops, err := openapi.Operations(cmd.Context(), data)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, op := range ops {
					fmt.Fprintf(out, "%s\t%s %s\t%s\n", op.ID, op.Method, op.Path, op.Summary)
				}
				return fmt.Errorf("--operation is required")
			}

			fields, err := openapi.Import(cmd.Context(), data, operationID)
			if err != nil {
				return err
			}

			if err := a.open(cmd); err != nil {
				return err
			}
			defer a.shutdown()

			draft := builder.NewDraft()
			draft.AddFields(fields...)
			if name == "" {
				name = operationID
			}
			schema, err := draft.Save(cmd.Context(), a.repo, name)
			if err != nil {
				return err
			}
			logger.Info("imported", len(schema.Fields), "fields as", schema.ID)
			fmt.Fprintln(cmd.OutOrStdout(), schema.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&specPath, "openapi", "", "OpenAPI document (JSON or YAML)")
	cmd.Flags().StringVar(&operationID, "operation", "", "Operation id whose request body becomes the form")
	cmd.Flags().StringVar(&name, "name", "", "Form name (defaults to the operation id)")
	_ = cmd.MarkFlagRequired("openapi")
	return cmd
}
