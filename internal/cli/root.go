// Package cli holds the lingua command line: the HTTP server and a few
// maintenance commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/lingua/internal/config"
	"github.com/mrlokans/lingua/internal/entrypoint"
)

// BuildInfo is the version metadata set at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
}

// NewRootCommand builds the command tree. Running the root without a
// subcommand starts the server.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:           "lingua",
		Short:         "Lingua vocabulary lesson server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFiles, info)
		},
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load before reading the environment (default .env)")

	root.AddCommand(
		newServeCommand(&envFiles, info),
		newCreateAdminCommand(&envFiles),
		newVersionCommand(info),
	)
	return root
}

// Execute runs the root command against os.Args.
func Execute(info BuildInfo) error {
	return NewRootCommand(info).Execute()
}

func newServeCommand(envFiles *[]string, info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default if no command given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*envFiles, info)
		},
	}
}

func runServe(envFiles []string, info BuildInfo) error {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return entrypoint.Run(cfg, info.Version)
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lingua %s (commit %s)\n", info.Version, info.Commit)
		},
	}
}
