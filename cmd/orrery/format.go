package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/tgrange/orrery"
	"github.com/tgrange/orrery/internal/search"
	"github.com/tgrange/orrery/internal/store"
)

// validFormats lists accepted values for --format. Not every command can
// render every format; those that cannot reject the mismatch themselves.
var validFormats = []string{"text", "json", "jsonl", "dot", "scene"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be one of %s", format, strings.Join(validFormats, ", "))
}

// formatEdgesText formats relationships as aligned columns.
func formatEdgesText(w io.Writer, edges []orrery.Relationship) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FROM\tTO\tKIND\tLINE\tIDENTIFIER")
	for _, e := range edges {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			e.FromFile, e.ToFile, e.Kind, e.LineNumber, e.Identifier)
	}
	tw.Flush()
}

// formatHitsText formats search hits as aligned columns.
func formatHitsText(w io.Writer, hits []search.Hit) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tSCORE")
	for _, h := range hits {
		fmt.Fprintf(tw, "%s\t%.4f\n", h.Path, h.Score)
	}
	tw.Flush()
}

// rankEntry pairs a path with its centrality score for output.
type rankEntry struct {
	Path string  `json:"path"`
	Rank float64 `json:"rank"`
}

// formatRanksText formats rank entries as aligned columns.
func formatRanksText(w io.Writer, ranks []rankEntry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tRANK")
	for _, r := range ranks {
		fmt.Fprintf(tw, "%s\t%.6f\n", r.Path, r.Rank)
	}
	tw.Flush()
}

// formatSnapshotsText formats snapshots as aligned columns, newest first.
func formatSnapshotsText(w io.Writer, snaps []*store.Snapshot) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tCOMMIT\tFILES\tEDGES")
	for _, s := range snaps {
		commit := s.CommitSHA
		if len(commit) > 12 {
			commit = commit[:12]
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
			s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"), commit, s.FileCount, s.EdgeCount)
	}
	tw.Flush()
}

// formatDiffText formats a snapshot diff as +/- lines, added first.
func formatDiffText(w io.Writer, diff *store.SnapshotDiff) {
	for _, e := range diff.Added {
		fmt.Fprintf(w, "+ %s -> %s (%s)\n", e.FromFile, e.ToFile, e.Kind)
	}
	for _, e := range diff.Removed {
		fmt.Fprintf(w, "- %s -> %s (%s)\n", e.FromFile, e.ToFile, e.Kind)
	}
	if len(diff.Added) == 0 && len(diff.Removed) == 0 {
		fmt.Fprintln(w, "No changes")
	}
}
