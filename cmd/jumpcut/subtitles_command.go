package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"jumpcut/internal/subtitles"
)

func newSubtitlesCommand(ctx *commandContext) *cobra.Command {
	var language string
	var refresh bool

	cmd := &cobra.Command{
		Use:   "subtitles <media-file> <input.ass> <output.ass>",
		Short: "Retime an ASS subtitle file to match the warped media",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := resolveSource(args[0])
			if err != nil {
				return err
			}
			input, err := resolveSource(args[1])
			if err != nil {
				return err
			}
			output, err := filepath.Abs(args[2])
			if err != nil {
				return fmt.Errorf("resolve output: %w", err)
			}
			_, plan, err := ctx.planSource(cmd.Context(), source, language, refresh)
			if err != nil {
				return err
			}
			stats, err := subtitles.RemapFile(input, output, plan.Map)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Retimed %d dialogue lines (%d lines total) into %s\n", stats.Dialogues, stats.Lines, output)
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "Preferred audio language (ISO 639 code)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore cached loudness and re-extract audio")
	return cmd
}
