package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"idlwrap/pkg/cli"
	"idlwrap/pkg/index"
	"idlwrap/pkg/index/retention"
	"idlwrap/pkg/index/storage"
)

var indexFlags struct {
	file   string
	dir    string
	db     string
	driver string

	run       string
	name      string
	kind      string
	namespace string
	inFile    string
	allRuns   bool
	limit     int
	offset    int
	format    string

	runsLimit  int
	runsFormat string

	olderThan int
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Record declarations in the declaration index",
	Long: `Parse interface files and record every declaration in the declaration index.

Each invocation is one run. Declarations are stored with their qualified name,
enclosing namespace and location so other tools can look them up without
parsing the interface files.

Subcommands:
  query  - Query recorded declarations
  runs   - List recorded runs
  prune  - Delete runs older than the retention period

Examples:
  # Index a directory into the default database
  idlwrap index --dir interface/

  # Use the pure-Go SQLite driver
  idlwrap index --file gtsam.i --db build/decls.db --driver sqlite`,
	RunE: runIndex,
}

var indexQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query recorded declarations",
	Long: `Query declarations recorded by the latest run (or every run with --all-runs).

Examples:
  idlwrap index query --name Pose2
  idlwrap index query --namespace gtsam::noiseModel --format csv`,
	RunE: runIndexQuery,
}

var indexRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs, newest first",
	RunE:  runIndexRuns,
}

var indexPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs older than the retention period",
	RunE:  runIndexPrune,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexQueryCmd, indexRunsCmd, indexPruneCmd)

	indexCmd.PersistentFlags().StringVar(&indexFlags.db, "db", "", "override index.path")
	indexCmd.PersistentFlags().StringVar(&indexFlags.driver, "driver", "", "override index.driver: sqlite3, sqlite, memory")

	indexCmd.Flags().StringVarP(&indexFlags.file, "file", "f", "", "interface file to index")
	indexCmd.Flags().StringVarP(&indexFlags.dir, "dir", "d", "", "directory of interface files")

	indexQueryCmd.Flags().StringVar(&indexFlags.run, "run", "", "filter by run ID")
	indexQueryCmd.Flags().StringVar(&indexFlags.name, "name", "", "filter by declaration name")
	indexQueryCmd.Flags().StringVar(&indexFlags.kind, "kind", "", "filter by kind (class, function, ...)")
	indexQueryCmd.Flags().StringVar(&indexFlags.namespace, "namespace", "", "filter by enclosing namespace, e.g. gtsam::noiseModel")
	indexQueryCmd.Flags().StringVar(&indexFlags.inFile, "in-file", "", "filter by interface file")
	indexQueryCmd.Flags().BoolVar(&indexFlags.allRuns, "all-runs", false, "search every run, not only the latest")
	indexQueryCmd.Flags().IntVar(&indexFlags.limit, "limit", 100, "max results")
	indexQueryCmd.Flags().IntVar(&indexFlags.offset, "offset", 0, "pagination offset")
	indexQueryCmd.Flags().StringVar(&indexFlags.format, "format", "text", "output format: text, json, csv")

	indexRunsCmd.Flags().IntVar(&indexFlags.runsLimit, "limit", 20, "max runs")
	indexRunsCmd.Flags().StringVar(&indexFlags.runsFormat, "format", "text", "output format: text, json, csv")

	indexPruneCmd.Flags().IntVar(&indexFlags.olderThan, "older-than", 0, "retention in days (default: index.retention_days)")
}

// openIndex applies the --db and --driver overrides and opens the storage backend.
func openIndex(e *env) (index.Storage, error) {
	if indexFlags.db != "" {
		e.cfg.Index.Path = indexFlags.db
	}
	if indexFlags.driver != "" {
		switch indexFlags.driver {
		case "sqlite3", "sqlite", "memory":
			e.cfg.Index.Driver = indexFlags.driver
		default:
			return nil, cli.NewConfigError("driver", fmt.Sprintf("unknown index driver %q", indexFlags.driver))
		}
	}

	store, err := storage.New(e.cfg.Index, e.logger)
	if err != nil {
		return nil, cli.NewCommandError("index", err)
	}
	return store, nil
}

func runIndex(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}

	files, err := collectFiles(indexFlags.file, indexFlags.dir, e.cfg.Parser.Extensions, e.cfg.Watch.HiddenSkipped())
	if err != nil {
		return err
	}

	store, err := openIndex(e)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := commandContext(cmd)
	report, err := checkFiles(ctx, e, files, cli.NoProgress{})
	if err != nil {
		return cli.NewCommandError("index", err)
	}
	report.Source = indexFlags.dir
	if report.Source == "" {
		report.Source = indexFlags.file
	}

	run, err := recordReport(ctx, e, store, report)
	if err != nil {
		return cli.NewCommandError("index", err)
	}

	fmt.Fprintf(e.out, "✓ Recorded run %s: %d file(s), %d declaration(s)\n", run.ID, run.Files, run.Declarations)
	if report.Failed() {
		fmt.Fprintf(e.out, "⚠  %d reference error(s); run 'idlwrap check' for details\n", report.Errors)
	}
	return nil
}

// recordTable renders query results.
type recordTable []*index.Record

func (recordTable) Header() []string {
	return []string{"kind", "qualified_name", "file", "line", "column", "run_id"}
}

func (t recordTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, []string{
			r.Kind, r.QualifiedName, r.File, strconv.Itoa(r.Line), strconv.Itoa(r.Column), r.RunID,
		})
	}
	return rows
}

func runIndexQuery(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	_, formatter, err := e.formatter(indexFlags.format)
	if err != nil {
		return err
	}

	store, err := openIndex(e)
	if err != nil {
		return err
	}
	defer store.Close()

	query := &index.Query{
		RunID:     indexFlags.run,
		File:      indexFlags.inFile,
		Kind:      indexFlags.kind,
		Name:      indexFlags.name,
		Namespace: indexFlags.namespace,
		LatestRun: !indexFlags.allRuns,
		Limit:     indexFlags.limit,
		Offset:    indexFlags.offset,
	}
	if err := query.Validate(); err != nil {
		return cli.NewConfigError("query", err.Error())
	}

	records, err := store.Query(commandContext(cmd), query)
	if err != nil {
		return cli.NewCommandError("index query", err)
	}
	if records == nil {
		records = []*index.Record{}
	}

	if _, ok := formatter.(*cli.JSONFormatter); ok {
		return formatter.FormatTo(e.out, records)
	}
	return formatter.FormatTo(e.out, recordTable(records))
}

// runTable renders recorded runs.
type runTable []*index.Run

func (runTable) Header() []string {
	return []string{"id", "started_at", "files", "declarations", "source", "commit"}
}

func (t runTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, []string{
			r.ID, r.StartedAt.Format(time.RFC3339), strconv.Itoa(r.Files), strconv.Itoa(r.Declarations), r.Source, r.Commit,
		})
	}
	return rows
}

func runIndexRuns(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	_, formatter, err := e.formatter(indexFlags.runsFormat)
	if err != nil {
		return err
	}

	store, err := openIndex(e)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(commandContext(cmd), indexFlags.runsLimit)
	if err != nil {
		return cli.NewCommandError("index runs", err)
	}
	if runs == nil {
		runs = []*index.Run{}
	}

	if _, ok := formatter.(*cli.JSONFormatter); ok {
		return formatter.FormatTo(e.out, runs)
	}
	return formatter.FormatTo(e.out, runTable(runs))
}

func runIndexPrune(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	if indexFlags.olderThan < 0 {
		return cli.NewConfigError("older-than", "must be non-negative")
	}

	store, err := openIndex(e)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg := retention.ConfigFrom(e.cfg.Index)
	if indexFlags.olderThan > 0 {
		cfg.RetentionDays = indexFlags.olderThan
	}

	deleted, err := retention.NewPruner(store, cfg, e.logger).Prune(commandContext(cmd))
	if err != nil {
		return cli.NewCommandError("index prune", err)
	}

	fmt.Fprintf(e.out, "✓ Pruned %d run(s) older than %d day(s)\n", deleted, cfg.RetentionDays)
	return nil
}
