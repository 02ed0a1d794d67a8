package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/store"
)

func newShowCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Prints a saved form definition",
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
			var data []byte
			switch output {
			case "yaml", "yml":
				data, err = yaml.Marshal(schema)
			case "json":
				data, err = json.MarshalIndent(schema, "", "  ")
				if err == nil {
					data = append(data, '\n')
				}
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format: json or yaml")
	return cmd
}
