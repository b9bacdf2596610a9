// Command templgen regenerates *_templ.go files next to their .templ sources.
package main

import (
	"fmt"
	"os"

	"courseviewer/framework/templgen"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var genOpts struct {
	base    string
	check   bool
	verbose bool
}

var rootCmd = &cobra.Command{
	Use:   "templgen [path...]",
	Short: "Compile .templ files into Go",
	Long: `templgen compiles every .templ file under the given paths (files or
directories, default ".") into a sibling *_templ.go file. With --check it
writes nothing and fails when any generated file is out of date.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}

		logger := zap.NewNop()
		if genOpts.verbose {
			var err error
			if logger, err = zap.NewDevelopment(); err != nil {
				return err
			}
		}
		defer func() { _ = logger.Sync() }()

		report, err := templgen.Run(templgen.Config{
			Paths:    args,
			BasePath: genOpts.base,
			Check:    genOpts.check,
			Logger:   logger,
		})
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "templgen: %d generated, %d unchanged\n",
			len(report.Generated), len(report.Unchanged))
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&genOpts.base, "base", ".",
		"Base path for file names embedded in generated output")
	rootCmd.Flags().BoolVar(&genOpts.check, "check", false,
		"Fail instead of writing when generated output is stale")
	rootCmd.Flags().BoolVarP(&genOpts.verbose, "verbose", "v", false,
		"Log every file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "templgen: %v\n", err)
		os.Exit(1)
	}
}
