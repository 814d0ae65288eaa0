package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jumpcut/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify ffmpeg, ffprobe, and the configured directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)

			out := cmd.OutOrStdout()
			colorize := isTerminal(out)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				rows = append(rows, []string{r.Name, renderStatus(kind, colorize), r.Detail})
			}
			fmt.Fprintln(out, tableSpec{
				title:   "Preflight",
				headers: []string{"Check", "Status", "Detail"},
				rows:    rows,
			}.render())
			return preflight.Err(results)
		},
	}
}
