package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/CTAG07/vowelchain/pkg/letters"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// Report is the rendered view of a summary and the model built from it. A nil
// transition means the class never had a successor.
type Report struct {
	Runs        int                 `json:"runs,omitempty" yaml:"runs,omitempty"`
	Summary     letters.Summary     `json:"summary" yaml:"summary"`
	Prior       *letters.Transition `json:"prior" yaml:"prior"`
	Transitions TransitionsReport   `json:"transitions" yaml:"transitions"`
}

// TransitionsReport holds the next-letter distribution per current class.
type TransitionsReport struct {
	FromConsonant *letters.Transition `json:"from_consonant" yaml:"from_consonant"`
	FromVowel     *letters.Transition `json:"from_vowel" yaml:"from_vowel"`
}

func optional(t letters.Transition, ok bool) *letters.Transition {
	if !ok {
		return nil
	}
	return &t
}

func newReport(summary letters.Summary) Report {
	m := summary.Model()
	return Report{
		Summary: summary,
		Prior:   optional(m.Prior()),
		Transitions: TransitionsReport{
			FromConsonant: optional(m.Next(letters.Consonant)),
			FromVowel:     optional(m.Next(letters.Vowel)),
		},
	}
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
}

func writeReport(w io.Writer, report Report, format string) error {
	switch format {
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(report); err != nil {
			return err
		}
		return encoder.Close()
	case formatText:
		_, err := io.WriteString(w, renderText(w, report))
		return err
	}
	return validateFormat(format)
}

func formatProb(p float64) string {
	return strconv.FormatFloat(p, 'f', 3, 64)
}

// renderText lays out a report as aligned sections. Styling follows the
// color profile of w, so plain writers get plain text.
func renderText(w io.Writer, report Report) string {
	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true)
	label := r.NewStyle().Width(14)
	value := r.NewStyle().Width(12).Align(lipgloss.Right)
	faint := r.NewStyle().Faint(true)

	row := func(name, v string) string {
		return label.Render(name) + value.Render(v)
	}
	count := func(n int) string {
		return humanize.Comma(int64(n))
	}

	var lines []string
	if report.Runs > 0 {
		lines = append(lines, row("Runs", count(report.Runs)))
	}
	s := report.Summary
	lines = append(lines,
		title.Render("Letters"),
		row("Total", count(s.Total)),
		row("Consonants", count(s.Consonants)),
		row("Vowels", count(s.Vowels)),
		"",
		title.Render("Pairs"),
		row("CC", count(s.Pairs.CC)),
		row("CV", count(s.Pairs.CV)),
		row("VC", count(s.Pairs.VC)),
		row("VV", count(s.Pairs.VV)),
		"",
		title.Render("Next letter")+faint.Render("  P(consonant)  P(vowel)"),
	)

	transition := func(name string, t *letters.Transition) string {
		if t == nil {
			return label.Render(name) + faint.Render("undefined (no data)")
		}
		return label.Render(name) + value.Render(formatProb(t.Consonant)) + value.Render(formatProb(t.Vowel))
	}
	lines = append(lines,
		transition("after C", report.Transitions.FromConsonant),
		transition("after V", report.Transitions.FromVowel),
		transition("overall", report.Prior),
	)

	return strings.Join(lines, "\n") + "\n"
}
