package main

import (
	"github.com/spf13/cobra"
)

const rootLong = `jumpcut measures the loudness of a recording, classifies each audio frame
as sounded or silent, and plays silent runs faster (or drops them).

Typical flow:
  jumpcut analyze talk.mkv          inspect loudness and cache it
  jumpcut plan talk.mkv --verify    print the timeline and setpts chunks
  jumpcut render talk.mkv out.mkv   produce the cut video
  jumpcut subtitles talk.mkv talk.ass out.ass`

func newRootCommand() *cobra.Command {
	var configFlag, levelFlag string
	ctx := newCommandContext(&configFlag, &levelFlag)

	rootCmd := &cobra.Command{
		Use:           "jumpcut",
		Short:         "Speed through the silent parts of a recording",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	flags.StringVar(&levelFlag, "log-level", "", "Override logging.level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newAnalyzeCommand(ctx),
		newPlanCommand(ctx),
		newSubtitlesCommand(ctx),
		newAudioCommand(ctx),
		newRenderCommand(ctx),
		newCacheCommand(ctx),
		newCheckCommand(ctx),
		newConfigCommand(ctx),
	)
	return rootCmd
}
