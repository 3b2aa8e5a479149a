package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fluentive/speechscore/audio"
	"github.com/fluentive/speechscore/clients"
	cfg "github.com/fluentive/speechscore/config"
	"github.com/fluentive/speechscore/pipeline"
	"github.com/fluentive/speechscore/report"
	"github.com/fluentive/speechscore/scorer"
)

var (
	reference   string
	rawText     string
	weightsPath string
	outDir      string
	asJSON      bool
)

var scoreCmd = &cobra.Command{
	Use:   "score <audio.wav>",
	Short: "Score a spoken-English WAV recording",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wavPath := args[0]

		conf, err := cfg.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		profile := weightsPath
		if profile == "" {
			profile = conf.WeightsProfile
		}
		weights, err := scorer.LoadWeights(profile)
		if err != nil {
			return err
		}

		var stt pipeline.Transcriber
		if conf.Services.Transcriber.URL != "" {
			stt = clients.NewTranscriber(conf.Services.Transcriber.URL)
		}
		var grammar pipeline.GrammarChecker
		if conf.Services.Grammar.URL != "" {
			grammar = clients.NewGrammarChecker(conf.Services.Grammar.URL)
		}

		p, err := pipeline.New(stt, grammar, pipeline.Options{
			Weights:        weights,
			GrammarTimeout: conf.GrammarTimeout,
			Log:            log,
		})
		if err != nil {
			return err
		}

		rep, err := scoreOne(cmd.Context(), p, wavPath)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(rep); err != nil {
				return err
			}
		} else {
			fmt.Println(rep.Summary)
			fmt.Printf("Grade: %s\n", rep.Grade)
		}

		dir := outDir
		if dir == "" {
			dir = conf.Outputs
		}
		if dir != "" {
			path, err := report.Save(dir, wavPath, rep)
			if err != nil {
				log.WithError(err).Warn("failed to persist report")
			} else {
				log.WithField("path", path).Info("report saved")
			}
		}
		return nil
	},
}

func scoreOne(ctx context.Context, p *pipeline.Pipeline, wavPath string) (report.ScoreReport, error) {
	if rawText != "" {
		sig, err := audio.LoadWAV(wavPath)
		if err != nil {
			return report.ScoreReport{}, err
		}
		return p.Score(ctx, sig, rawText, reference)
	}
	return p.ScoreFile(ctx, wavPath, reference)
}

func init() {
	scoreCmd.Flags().StringVarP(&reference, "reference", "r", "", "expected utterance for similarity bonuses")
	scoreCmd.Flags().StringVarP(&rawText, "transcript", "t", "", "use this transcript instead of calling speech-to-text")
	scoreCmd.Flags().StringVarP(&weightsPath, "weights", "w", "", "path to a YAML weights profile")
	scoreCmd.Flags().StringVarP(&outDir, "out", "o", "", "directory for the persisted report (overrides config)")
	scoreCmd.Flags().BoolVar(&asJSON, "json", false, "print the full report as JSON")
	rootCmd.AddCommand(scoreCmd)
}
