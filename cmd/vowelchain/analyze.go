package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/CTAG07/vowelchain/pkg/history"
	"github.com/CTAG07/vowelchain/pkg/letters"
	"github.com/spf13/cobra"
)

const stdinName = "-"

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Classify letters and report transition statistics",
		Long: `Reads the given files in order (standard input when none are given or
for "-") into a single letter sequence and prints its counts, pair tallies
and transition probabilities.`,
		RunE: runAnalyze,
	}
	cmd.Flags().StringP("format", "f", "", "output format: text, json or yaml (default from config)")
	cmd.Flags().String("record", "", "store the summary in the history under this name")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format := cfg.Analysis.OutputFormat
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		format = f
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	summary, err := analyzeInputs(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	logger.Debug("Analysis complete", "inputs", len(args), "total", summary.Total)

	name, _ := cmd.Flags().GetString("record")
	if name == "" && cfg.Analysis.RecordRuns {
		name = sourceName(args)
	}
	if name != "" {
		run, err := recordSummary(cmd.Context(), name, sourceName(args), summary)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "recorded run %s\n", run.ID)
	}

	return writeReport(cmd.OutOrStdout(), newReport(summary), format)
}

// analyzeInputs feeds every input into one sequence, so pairs are counted
// across input boundaries.
func analyzeInputs(paths []string, stdin io.Reader) (letters.Summary, error) {
	if len(paths) == 0 {
		paths = []string{stdinName}
	}

	seq := letters.New()
	for _, path := range paths {
		if err := feed(seq, path, stdin); err != nil {
			return letters.Summary{}, err
		}
	}
	return seq.Summary(), nil
}

func feed(seq *letters.Sequence, path string, stdin io.Reader) error {
	if path == stdinName {
		if err := seq.UpdateFrom(stdin); err != nil {
			return fmt.Errorf("stdin: %w", err)
		}
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	if err = seq.UpdateFrom(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func sourceName(paths []string) string {
	if len(paths) == 0 {
		return "stdin"
	}
	return strings.Join(paths, ",")
}

func recordSummary(ctx context.Context, name, source string, summary letters.Summary) (history.Run, error) {
	h, err := openHistory(cfg.Server, logger)
	if err != nil {
		return history.Run{}, err
	}
	defer h.Close(logger)

	return h.store.Record(ctx, name, source, summary)
}
