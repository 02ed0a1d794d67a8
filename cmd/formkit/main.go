package main

import (
	_ "embed"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/cobrau"
	"github.com/untillpro/goutils/logger"
)

//go:embed version
var version string

func main() {
	if err := execRootCmd(os.Args, strings.TrimSpace(version)); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func execRootCmd(args []string, ver string) error {
	return cobrau.ExecCommandAndCatchInterrupt(newRootCmd(args, ver))
}

func newRootCmd(args []string, ver string) *cobra.Command {
	a := &app{}
	rootCmd := cobrau.PrepareRootCmd(
		"formkit",
		"Build, store and fill dynamic forms",
		args,
		ver,
		newListCmd(a),
		newShowCmd(a),
		newFillCmd(a),
		newValidateCmd(a),
		newImportCmd(a),
	)
	rootCmd.SetArgs(args[1:])
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().StringVar(&a.flags.store, "store", "", "Storage backend: memory, file, bolt, redis or postgres")
	rootCmd.PersistentFlags().StringVar(&a.flags.file, "file", "", "Schema file for the file store (.json, .yaml)")
	rootCmd.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "Log level: error, warning, info, verbose")
	rootCmd.PersistentFlags().BoolVar(&a.flags.strict, "strict", false, "Resolve chained derived fields to a fixed point")
	return rootCmd
}
