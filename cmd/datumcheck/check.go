package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/datum-lang/datumcheck/internal/cli/config"
	"github.com/datum-lang/datumcheck/internal/datum/loader"
	"github.com/datum-lang/datumcheck/internal/datum/report"
	"github.com/datum-lang/datumcheck/internal/datum/rules"
)

var (
	checkJSON      bool
	checkNoColor   bool
	checkNoPrelude bool
	checkVerbose   bool
)

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Output the report in JSON format")
	checkCmd.Flags().BoolVar(&checkNoColor, "no-color", false, "Disable colored output")
	checkCmd.Flags().BoolVar(&checkNoPrelude, "no-prelude", false, "Do not merge the built-in prelude definitions")
	checkCmd.Flags().BoolVar(&checkVerbose, "verbose", false, "Show detailed validation output")
}

var checkCmd = &cobra.Command{
	Use:   "check <graph.json>",
	Short: "Validate a parsed schema against the Plutus datum rules",
	Long:  "Load a type-definition graph produced by the grammar parser and check every definition against the datum encoding profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		startTime := time.Now()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		// config supplies defaults; explicit flags win
		if !cmd.Flags().Changed("json") {
			checkJSON = cfg.Output.JSON
		}
		if !cmd.Flags().Changed("no-color") {
			checkNoColor = cfg.Output.NoColor
		}
		if !cmd.Flags().Changed("no-prelude") {
			checkNoPrelude = !cfg.Prelude
		}

		logger := zap.NewNop()
		if checkVerbose {
			devLogger, err := zap.NewDevelopment()
			if err == nil {
				logger = devLogger
			}
		}
		defer logger.Sync()
		logger = logger.With(zap.String("run_id", uuid.NewString()))

		path := args[0]
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer file.Close()

		graph, err := loader.Decode(file, loader.Options{OmitPrelude: checkNoPrelude})
		if err != nil {
			// a malformed graph is the parser's bug, not a schema defect
			return fmt.Errorf("cannot validate %s: %w", path, err)
		}
		logger.Debug("graph loaded",
			zap.String("input", path),
			zap.Int("definitions", graph.Len()))

		rep, err := rules.Validate(graph)
		if err != nil {
			return fmt.Errorf("cannot validate %s: %w", path, err)
		}
		logger.Debug("validation finished",
			zap.Int("violations", rep.Len()),
			zap.Duration("elapsed", time.Since(startTime)))

		if checkJSON {
			out, err := rep.ToJSON()
			if err != nil {
				return err
			}
			fmt.Println(out)
		} else {
			report.Render(os.Stdout, rep, report.RenderOptions{NoColor: checkNoColor})
		}

		if !rep.IsAccepted() {
			return fmt.Errorf("schema rejected with %d violation(s)", rep.Len())
		}
		return nil
	},
}
