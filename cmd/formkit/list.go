package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lists saved forms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd); err != nil {
				return err
			}
			defer a.shutdown()

			schemas, err := a.repo.Load(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(schemas) == 0 {
				fmt.Fprintln(out, "No forms saved yet.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tFIELDS\tCREATED")
			for _, schema := range schemas {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", schema.ID, schema.Name, len(schema.Fields), schema.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}
