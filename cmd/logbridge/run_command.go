package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"logbridge/internal/daemonrun"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var static bool
	var inputPath string
	var followPath string
	var echo bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the bridge in the foreground until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			input, closeInput, err := openInput(cmd, inputPath)
			if err != nil {
				return err
			}
			defer closeInput()
			opts := ctx.runOptions(static)
			opts.FollowPath = followPath
			if echo {
				opts.Echo = cmd.OutOrStdout()
			}
			return daemonrun.Run(cmd.Context(), cfg, opts, input)
		},
	}

	cmd.Flags().BoolVar(&static, "static", false, "Bind once at startup instead of tracking service arrivals")
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "JSON-lines entry file to publish (\"-\" for stdin)")
	cmd.Flags().StringVarP(&followPath, "follow", "f", "", "JSON-lines entry file to follow for appended entries")
	cmd.Flags().BoolVar(&echo, "echo", false, "Print backend stream events to stdout as JSON lines")
	return cmd
}

// openInput resolves the --input flag. An empty path yields a nil reader.
func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	switch path {
	case "":
		return nil, func() {}, nil
	case "-":
		return cmd.InOrStdin(), func() {}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return file, func() { _ = file.Close() }, nil
}
