package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"logbridge/internal/daemonrun"
	"logbridge/internal/logging"
)

func newLevelsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "levels",
		Short: "Show admin and backend levels after binding the configured registries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			opts := ctx.runOptions(false)
			if opts.LogLevel == "" {
				opts.Logger = logging.NewNop()
			}
			rt, err := daemonrun.Build(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}
			defer rt.Close()
			if err := rt.Start(); err != nil {
				return err
			}
			rows := rt.Levels()
			if asJSON {
				return writeJSON(cmd, rows)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderLevels(cmd, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func renderLevels(cmd *cobra.Command, rows []daemonrun.LevelRow) string {
	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		table = append(table, []string{row.Name, dash(row.Admin), dash(row.Backend), row.Effective})
	}
	return renderTable(cmd,
		[]string{"Logger", "Admin", "Backend", "Effective"},
		table,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
	)
}

func dash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
