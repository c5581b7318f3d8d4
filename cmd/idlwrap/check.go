package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"idlwrap/pkg/cli"
	"idlwrap/pkg/idl"
	"idlwrap/pkg/index"
	"idlwrap/pkg/index/recorder"
	"idlwrap/pkg/index/storage"
	"idlwrap/pkg/source/git"
	"idlwrap/pkg/source/secrets"
	"idlwrap/pkg/telemetry/logging"
	"idlwrap/pkg/telemetry/tracing"
)

var checkFlags struct {
	file     string
	dir      string
	strict   bool
	format   string
	git      bool
	repo     string
	branch   string
	progress bool
	record   bool
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Parse interface files and check every type reference",
	Long: `Parse interface files and check that every type reference resolves to
exactly one declaration.

The check reports:
  - syntax errors reported by the grammar engine
  - qualified names that name no declaration
  - names that match more than one declaration
  - in strict mode, unqualified names that match nothing

Examples:
  # Check single file
  idlwrap check --file gtsam.i

  # Check directory
  idlwrap check --dir interface/

  # Strict mode (unresolved unqualified names are errors)
  idlwrap check --dir interface/ --strict

  # Check the interface files of the configured git repository
  idlwrap check --git --repo https://github.com/borglab/gtsam.git --branch develop

  # JSON output for CI/CD
  idlwrap check --file gtsam.i --format json`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.file, "file", "f", "", "interface file to check")
	checkCmd.Flags().StringVarP(&checkFlags.dir, "dir", "d", "", "directory of interface files")
	checkCmd.Flags().BoolVar(&checkFlags.strict, "strict", false, "treat unresolved unqualified names as errors")
	checkCmd.Flags().StringVar(&checkFlags.format, "format", "text", "output format: text, json, csv")
	checkCmd.Flags().BoolVar(&checkFlags.git, "git", false, "check the configured git repository (source.git)")
	checkCmd.Flags().StringVar(&checkFlags.repo, "repo", "", "override source.git.repository")
	checkCmd.Flags().StringVar(&checkFlags.branch, "branch", "", "override source.git.branch")
	checkCmd.Flags().BoolVar(&checkFlags.progress, "progress", false, "report progress on stderr")
	checkCmd.Flags().BoolVar(&checkFlags.record, "record", false, "record declarations in the index (index.enabled)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()
	if checkFlags.strict {
		e.cfg.Resolution.Strict = true
	}
	if checkFlags.record {
		e.cfg.Index.Enabled = true
	}

	format, formatter, err := e.formatter(checkFlags.format)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)

	src, err := resolveSource(ctx, e)
	if err != nil {
		return err
	}

	var progress cli.ProgressReporter = cli.NoProgress{}
	if checkFlags.progress {
		progress = cli.NewProgressReporter(e.errOut)
	}

	ctx, span := e.tracer.Start(ctx, tracing.SpanCheck)
	defer span.End()
	tracing.SetRunAttributes(span, src.name, src.commit, len(src.files))

	report, err := checkFiles(ctx, e, src.files, progress)
	if err != nil {
		tracing.SetError(span, err)
		return cli.NewCommandError("check", err)
	}
	report.Source, report.Commit = src.name, src.commit
	tracing.SetResultAttributes(span, report.total(), report.Errors)

	if err := finishRun(ctx, e, report); err != nil {
		return cli.NewCommandError("check", err)
	}

	if format == cli.FormatText {
		report.writeText(e.out)
	} else if err := formatter.FormatTo(e.out, report); err != nil {
		return err
	}

	if report.Failed() {
		return cli.NewCommandError("check", fmt.Errorf("%d error(s) found", report.Errors))
	}
	return nil
}

// source is the set of files one check covers.
type source struct {
	name   string // Directory, file or repository URL
	commit string
	files  []string
}

func resolveSource(ctx context.Context, e *env) (*source, error) {
	if !checkFlags.git {
		files, err := collectFiles(checkFlags.file, checkFlags.dir, e.cfg.Parser.Extensions, e.cfg.Watch.HiddenSkipped())
		if err != nil {
			return nil, err
		}
		name := checkFlags.dir
		if name == "" {
			name = checkFlags.file
		}
		return &source{name: name, files: files}, nil
	}

	gitCfg := e.cfg.Source.Git
	if checkFlags.repo != "" {
		gitCfg.Repository = checkFlags.repo
	}
	if checkFlags.branch != "" {
		gitCfg.Branch = checkFlags.branch
	}
	if gitCfg.Repository == "" {
		return nil, cli.NewConfigError("source.git.repository", "required with --git")
	}

	sm, err := secrets.FromConfig(e.cfg.Source, e.logger)
	if err != nil {
		return nil, cli.NewConfigError("source.secrets_dir", err.Error())
	}
	if err := sm.ResolveGit(ctx, &gitCfg); err != nil {
		return nil, cli.NewConfigError("source.git", err.Error())
	}

	repo, err := git.NewRepository(&gitCfg)
	if err != nil {
		return nil, cli.NewConfigError("source.git", err.Error())
	}

	e.logger.InfoContext(ctx, "fetching interface repository",
		"repository", gitCfg.Repository,
		"branch", gitCfg.Branch,
	)
	if err := repo.Clone(ctx); err != nil {
		return nil, cli.NewCommandError("check", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, cli.NewCommandError("check", err)
	}
	files, err := repo.ListFiles(e.cfg.Parser.Extensions, e.cfg.Watch.HiddenSkipped())
	if err != nil {
		return nil, cli.NewCommandError("check", err)
	}
	if len(files) == 0 {
		return nil, cli.NewCommandError("check", fmt.Errorf("no interface files found in %s", repo.Dir()))
	}

	e.logger.InfoContext(ctx, "checking repository",
		"commit", head.ShortSHA(),
		"files", len(files),
	)
	return &source{name: gitCfg.Repository, commit: head.SHA, files: files}, nil
}

// checkFiles parses and validates files on a pool of Parser.Workers goroutines.
// Results keep the order of files.
func checkFiles(ctx context.Context, e *env, files []string, progress cli.ProgressReporter) (*Report, error) {
	opts := idl.OptionsFromConfig(e.cfg, e.logger, e.metrics)

	results := make([]*FileResult, len(files))
	jobs := make(chan int)
	var done atomic.Int64
	var wg sync.WaitGroup

	progress.Start(int64(len(files)))
	workers := max(1, min(e.cfg.Parser.Workers, len(files)))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = checkFile(ctx, e.tracer, files[i], opts)
				progress.Update(done.Add(1))
			}
		}()
	}

feed:
	for i := range files {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		progress.Error(err)
		return nil, err
	}
	progress.Finish()

	return newReport("", results), nil
}

func checkFile(ctx context.Context, tracer *tracing.Tracer, path string, opts idl.Options) *FileResult {
	ctx = logging.WithSourceFile(ctx, path)
	ctx, span := tracer.Start(ctx, tracing.SpanCheckFile)
	defer span.End()
	tracing.SetFileAttributes(span, path)

	result := &FileResult{File: path, Valid: true}

	module, err := idl.Parse(ctx, path, opts)
	if err == nil {
		result.module = module
		for _, n := range declarationCounts(module) {
			result.Declarations += n
		}
		err = idl.Validate(ctx, module, opts)
	}
	if err != nil {
		result.Valid = false
		result.Errors = diagnostics(err)
	}
	tracing.SetResultAttributes(span, result.Declarations, len(result.Errors))
	tracing.SetError(span, err)
	return result
}

// finishRun publishes the declaration gauge, writes the metrics textfile and
// records the run in the index, as configured.
func finishRun(ctx context.Context, e *env, report *Report) error {
	e.metrics.SetDeclarations(report.Declarations)

	if path := e.cfg.Telemetry.Metrics.Textfile; path != "" && e.cfg.Telemetry.Metrics.IsEnabled() {
		if err := e.metrics.WriteTextfile(path); err != nil {
			return fmt.Errorf("failed to write metrics textfile: %w", err)
		}
	}

	if !e.cfg.Index.Enabled {
		return nil
	}

	store, err := storage.New(e.cfg.Index, e.logger)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer store.Close()

	_, err = recordReport(ctx, e, store, report)
	return err
}

func recordReport(ctx context.Context, e *env, store index.Storage, report *Report) (*index.Run, error) {
	ctx, span := e.tracer.Start(ctx, tracing.SpanRecord)
	defer span.End()

	rec := recorder.NewRecorder(store, &recorder.Config{Logger: e.logger})
	run, err := rec.RecordModules(ctx, report.Source, report.Commit, report.Modules())
	if err != nil {
		tracing.SetError(span, err)
		return nil, fmt.Errorf("failed to record declarations: %w", err)
	}
	span.SetAttributes(attribute.String(tracing.AttrRunID, run.ID))
	return run, nil
}
