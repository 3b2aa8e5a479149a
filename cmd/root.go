package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool

	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "speechscore",
	Short: "Score spoken-English recordings",
	Long: `Speechscore assesses a spoken-English recording: it extracts acoustic
features from the audio, analyzes the transcript, and produces calibrated
sub-scores (pronunciation, fluency, completeness, accuracy) with an
aggregate grade and summary.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

func setupLogging() {
	level := logrus.InfoLevel
	if verbose {
		level = logrus.DebugLevel
	}
	if quiet {
		level = logrus.ErrorLevel
	}
	log.SetLevel(level)
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
}
