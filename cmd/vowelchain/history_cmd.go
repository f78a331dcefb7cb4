package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/CTAG07/vowelchain/pkg/history"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage recorded analysis runs",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE:  withHistory(runHistoryList),
	}
	listCmd.Flags().IntP("limit", "n", 0, "maximum runs to list (default from config)")

	showCmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show the report for one run",
		Args:  cobra.ExactArgs(1),
		RunE:  withHistory(runHistoryShow),
	}
	showCmd.Flags().StringP("format", "f", "", "output format: text, json or yaml (default from config)")

	rmCmd := &cobra.Command{
		Use:   "rm ID",
		Short: "Remove a run",
		Args:  cobra.ExactArgs(1),
		RunE:  withHistory(runHistoryRemove),
	}

	totalsCmd := &cobra.Command{
		Use:   "totals",
		Short: "Report over the sum of every recorded run",
		Args:  cobra.NoArgs,
		RunE:  withHistory(runHistoryTotals),
	}
	totalsCmd.Flags().StringP("format", "f", "", "output format: text, json or yaml (default from config)")

	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove runs older than a duration",
		Args:  cobra.NoArgs,
		RunE:  withHistory(runHistoryPrune),
	}
	pruneCmd.Flags().Duration("older-than", 0, "remove runs recorded before now minus this duration (e.g. 720h)")
	_ = pruneCmd.MarkFlagRequired("older-than")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write every run to a file or stdout",
		Args:  cobra.NoArgs,
		RunE:  withHistory(runHistoryExport),
	}
	exportCmd.Flags().String("format", "json", "export format: json or msgpack")
	exportCmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")

	importCmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import runs from an export file",
		Args:  cobra.ExactArgs(1),
		RunE:  withHistory(runHistoryImport),
	}
	importCmd.Flags().String("format", "json", "import format: json or msgpack")

	cmd.AddCommand(listCmd, showCmd, rmCmd, totalsCmd, pruneCmd, exportCmd, importCmd)
	return cmd
}

type historyRunFunc func(cmd *cobra.Command, args []string, store *history.Store) error

// withHistory opens the history database for the duration of one command.
func withHistory(fn historyRunFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		h, err := openHistory(cfg.Server, logger)
		if err != nil {
			return err
		}
		defer h.Close(logger)
		return fn(cmd, args, h.store)
	}
}

func runHistoryList(cmd *cobra.Command, _ []string, store *history.Store) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = cfg.Analysis.ListLimit
	}
	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	return writeRunList(cmd.OutOrStdout(), runs, time.Now())
}

func writeRunList(w io.Writer, runs []history.Run, now time.Time) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "no runs recorded")
		return err
	}

	r := lipgloss.NewRenderer(w)
	id := r.NewStyle().Width(38)
	name := r.NewStyle().Width(24)
	count := r.NewStyle().Width(10).Align(lipgloss.Right)
	faint := r.NewStyle().Faint(true)

	for _, run := range runs {
		line := id.Render(run.ID) + name.Render(run.Name) +
			count.Render(humanize.Comma(int64(run.Summary.Total))) + "  " +
			faint.Render(humanize.RelTime(run.CreatedAt, now, "ago", "from now"))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func reportFormat(cmd *cobra.Command) (string, error) {
	format := cfg.Analysis.OutputFormat
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		format = f
	}
	return format, validateFormat(format)
}

// runReport is the report for a single stored run.
type runReport struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Source    string    `json:"source" yaml:"source"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Report    `yaml:",inline"`
}

func runHistoryShow(cmd *cobra.Command, args []string, store *history.Store) error {
	format, err := reportFormat(cmd)
	if err != nil {
		return err
	}
	run, err := store.GetRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rr := runReport{ID: run.ID, Name: run.Name, Source: run.Source, CreatedAt: run.CreatedAt, Report: newReport(run.Summary)}
	switch format {
	case formatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rr)
	case formatYAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err = encoder.Encode(rr); err != nil {
			return err
		}
		return encoder.Close()
	}

	_, err = fmt.Fprintf(out, "%s  %s  (%s, %s)\n\n", run.ID, run.Name, run.Source,
		run.CreatedAt.Local().Format(time.DateTime))
	if err != nil {
		return err
	}
	return writeReport(out, rr.Report, formatText)
}

func runHistoryRemove(cmd *cobra.Command, args []string, store *history.Store) error {
	if err := store.RemoveRun(cmd.Context(), args[0]); err != nil {
		return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "removed run %s\n", args[0])
	return err
}

func runHistoryTotals(cmd *cobra.Command, _ []string, store *history.Store) error {
	format, err := reportFormat(cmd)
	if err != nil {
		return err
	}
	totals, err := store.Totals(cmd.Context())
	if err != nil {
		return err
	}
	report := newReport(totals.Summary)
	report.Runs = totals.Runs
	return writeReport(cmd.OutOrStdout(), report, format)
}

func runHistoryPrune(cmd *cobra.Command, _ []string, store *history.Store) error {
	olderThan, _ := cmd.Flags().GetDuration("older-than")
	if olderThan <= 0 {
		return fmt.Errorf("--older-than must be positive, got %s", olderThan)
	}
	removed, err := store.PruneRuns(cmd.Context(), time.Now().Add(-olderThan))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "pruned %d run(s)\n", removed)
	return err
}

func runHistoryExport(cmd *cobra.Command, _ []string, store *history.Store) error {
	dataFormat, _ := cmd.Flags().GetString("format")
	format, err := history.ParseFormat(dataFormat)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		return store.Export(cmd.Context(), cmd.OutOrStdout(), format)
	}

	var buf bytes.Buffer
	if err = store.Export(cmd.Context(), &buf, format); err != nil {
		return err
	}
	if err = atomic.WriteFile(output, &buf); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	logger.Info("History exported", "path", output, "format", format)
	return nil
}

func runHistoryImport(cmd *cobra.Command, args []string, store *history.Store) error {
	dataFormat, _ := cmd.Flags().GetString("format")
	format, err := history.ParseFormat(dataFormat)
	if err != nil {
		return err
	}
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	inserted, err := store.Import(cmd.Context(), f, format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d run(s)\n", inserted)
	return err
}
