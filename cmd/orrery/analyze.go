package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tgrange/orrery"
	"github.com/tgrange/orrery/internal/config"
	"github.com/tgrange/orrery/internal/export"
	"github.com/tgrange/orrery/internal/layout"
	"github.com/tgrange/orrery/internal/scan"
	"github.com/tgrange/orrery/internal/store"
)

var (
	flagOut         string
	flagSave        bool
	flagLanguages   string
	flagWorkers     int
	flagSerial      bool
	flagMaxFileSize int64
	flagExcludes    []string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Build the dependency graph for a repository",
	Long:  "Scans the repository, indexes every supported source file, extracts references, and resolves them to in-repository files. The graph goes to stdout in the selected format; timing goes to stderr.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&flagOut, "out", "", "write output to a file instead of stdout")
	analyzeCmd.Flags().BoolVar(&flagSave, "save", false, "persist this run as a snapshot in the database")
	analyzeCmd.Flags().StringVar(&flagLanguages, "languages", "", "comma-separated language filter (e.g. go,typescript)")
	analyzeCmd.Flags().IntVar(&flagWorkers, "workers", 0, "analysis worker cap (0 = NumCPU)")
	analyzeCmd.Flags().BoolVar(&flagSerial, "serial", false, "disable the parallel pipeline")
	analyzeCmd.Flags().Int64Var(&flagMaxFileSize, "max-file-size", 0, "content read cutoff in bytes")
	analyzeCmd.Flags().StringArrayVar(&flagExcludes, "exclude", nil, "glob pattern to drop from the scan (repeatable)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	start := time.Now()

	targetDir, err := resolveTargetDir(args)
	if err != nil {
		return err
	}
	repoRoot := findRepoRoot(targetDir)
	cfg, err := loadProjectConfig(repoRoot)
	if err != nil {
		return err
	}
	log := newLogger()

	scanStart := time.Now()
	idx, err := buildIndex(targetDir, cfg, log)
	if err != nil {
		return err
	}
	scanDuration := time.Since(scanStart)

	engine, err := newEngine(cfg, log)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	analyzeStart := time.Now()
	graph, err := engine.Analyze(cmd.Context(), idx)
	if err != nil {
		return fmt.Errorf("analyzing: %w", err)
	}
	analyzeDuration := time.Since(analyzeStart)

	out, closeOut, err := openOutput()
	if err != nil {
		return err
	}
	defer closeOut()

	if err := writeGraph(out, idx, graph); err != nil {
		return err
	}

	if flagSave {
		snap, err := saveSnapshot(repoRoot, cfg, idx, graph)
		if err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Snapshot: %s\n", snap.ID)
	}

	fmt.Fprintf(os.Stderr, "Analyzed %s in %s (scan: %s, analyze: %s): %d files, %d edges\n",
		targetDir,
		time.Since(start).Round(time.Millisecond),
		scanDuration.Round(time.Millisecond),
		analyzeDuration.Round(time.Millisecond),
		idx.Len(), graph.Len(),
	)
	return nil
}

// buildIndex scans targetDir with the merged flag/config options and
// indexes the resulting tree.
func buildIndex(targetDir string, cfg *config.Config, log *slog.Logger) (*orrery.FileIndex, error) {
	tree, err := scan.Repository(targetDir, scan.Options{
		MaxFileSize: pickInt64(flagMaxFileSize, cfg.Scan.MaxFileSize),
		Excludes:    append(append([]string{}, cfg.Scan.Excludes...), flagExcludes...),
		Logger:      log,
	})
	if err != nil {
		return nil, err
	}
	return orrery.BuildIndex(tree), nil
}

// newEngine builds an engine from the flags layered over the config.
func newEngine(cfg *config.Config, log *slog.Logger) (*orrery.Engine, error) {
	var opts []orrery.Option

	languages := flagLanguages
	if languages == "" && len(cfg.Engine.Languages) > 0 {
		languages = strings.Join(cfg.Engine.Languages, ",")
	}
	if languages != "" {
		parts := strings.Split(languages, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		opts = append(opts, orrery.WithLanguages(parts...))
	}

	if workers := pickInt(flagWorkers, cfg.Engine.Workers); workers > 0 {
		opts = append(opts, orrery.WithWorkers(workers))
	}
	if flagSerial || cfg.Engine.Serial {
		opts = append(opts, orrery.WithParallel(false))
	}
	if cfg.Engine.ResolverCacheSize > 0 {
		opts = append(opts, orrery.WithResolverCacheSize(cfg.Engine.ResolverCacheSize))
	}
	opts = append(opts, orrery.WithLogger(log))

	return orrery.New(opts...)
}

// openOutput returns the writer selected by --out, and a close func.
func openOutput() (io.Writer, func(), error) {
	if flagOut == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(flagOut)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", flagOut, err)
	}
	return f, func() { f.Close() }, nil
}

// writeGraph renders the graph in the selected format.
func writeGraph(w io.Writer, idx *orrery.FileIndex, graph *orrery.RelationshipGraph) error {
	switch flagFormat {
	case "json":
		return export.JSON(w, graph)
	case "jsonl":
		_, err := export.JSONL(w, graph)
		return err
	case "dot":
		return export.DOT(w, graph)
	case "scene":
		nodes := layout.Compute(idx.Records(), graph, layout.DefaultRadius)
		return export.Scene(w, nodes, graph)
	default:
		formatEdgesText(w, graph.Edges)
		return nil
	}
}

// saveSnapshot persists the run, creating and migrating the database as
// needed.
func saveSnapshot(repoRoot string, cfg *config.Config, idx *orrery.FileIndex, graph *orrery.RelationshipGraph) (*store.Snapshot, error) {
	s, err := store.NewStore(resolveDBPath(repoRoot, cfg))
	if err != nil {
		return nil, err
	}
	defer s.Close()
	if err := s.Migrate(); err != nil {
		return nil, err
	}
	return s.SaveSnapshot(repoRoot, scan.GitHead(repoRoot), idx.Records(), graph)
}

// pickInt returns the flag value when set, the config value otherwise.
func pickInt(flagValue, cfgValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return cfgValue
}

func pickInt64(flagValue, cfgValue int64) int64 {
	if flagValue > 0 {
		return flagValue
	}
	return cfgValue
}
