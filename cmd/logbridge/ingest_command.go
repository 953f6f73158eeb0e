package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"logbridge/internal/daemonrun"
	"logbridge/internal/logging"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var static bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ingest [file]",
		Short: "Publish JSON-lines entries through the bridge once and exit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			input, closeInput, err := openInput(cmd, path)
			if err != nil {
				return err
			}
			defer closeInput()

			opts := ctx.runOptions(static)
			if opts.LogLevel == "" {
				opts.Logger = logging.NewNop()
			}
			result, err := daemonrun.Ingest(cmd.Context(), cfg, opts, input)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Published %d entries through %d binding(s)\n", result.Entries, result.Bindings)
			fmt.Fprintf(out, "Backend emitted %d event(s)\n", len(result.Events))
			fmt.Fprintln(out, renderLevels(cmd, result.Levels))
			return nil
		},
	}

	cmd.Flags().BoolVar(&static, "static", false, "Bind once at startup instead of tracking service arrivals")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
