package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fluentive/speechscore/clients"
	cfg "github.com/fluentive/speechscore/config"
)

var checkCmd = &cobra.Command{
	Use:   "check <text>",
	Short: "Grammar-check a text directly",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")

		conf, err := cfg.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if conf.Services.Grammar.URL == "" {
			return fmt.Errorf("no grammar service configured (services.grammar.url)")
		}

		checker := clients.NewGrammarChecker(conf.Services.Grammar.URL)
		rep, err := checker.Check(cmd.Context(), text)
		if err != nil {
			return err
		}

		for _, e := range rep.Errors {
			fmt.Printf("%s: %q", e.Message, e.ErrText)
			if len(e.Suggestions) > 0 {
				fmt.Printf(" -> %s", strings.Join(e.Suggestions, ", "))
			}
			fmt.Println()
		}
		fmt.Printf("Errors: %d\n", rep.ErrorCount)
		fmt.Printf("Corrected: %s\n", rep.Corrected)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
