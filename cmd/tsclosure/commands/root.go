// Package commands provides the CLI commands for the tsclosure tool.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"martianoff/tsclosure/internal/config"
	"martianoff/tsclosure/internal/logger"
)

type rootOptions struct {
	dir     string
	verbose bool
	json    bool
}

// NewRootCmd builds the tsclosure command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "tsclosure",
		Short: "Closure annotation core for TypeScript output",
		Long: `tsclosure rewrites checked TypeScript syntax trees into JavaScript
annotated for the Closure Compiler.

Usage:
  tsclosure config              Print the effective configuration
  tsclosure manifest <file>     Print the load order of a module manifest
  tsclosure version             Print version`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.dir)
			if err != nil {
				return err
			}
			return logger.Initialize(opts.verbose || cfg.Log.Verbose, opts.json || cfg.Log.JSON)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.dir, "dir", "C", ".", "Directory to search for "+config.FileName)
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&opts.json, "log-json", false, "Log as JSON")

	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newManifestCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command.
func Execute() {
	defer logger.Sync()
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
