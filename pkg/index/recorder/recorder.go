package recorder

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"idlwrap/pkg/idl/ast"
	"idlwrap/pkg/index"
	"idlwrap/pkg/telemetry/logging"
)

// Config contains configuration for the index recorder.
type Config struct {
	// WriteTimeout is the timeout for writing a run to storage.
	// Default: 30 seconds
	WriteTimeout time.Duration

	// Logger receives recording events. Default: discard.
	Logger *logging.Logger
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		WriteTimeout: 30 * time.Second,
	}
}

// Recorder writes indexing runs to a storage backend.
type Recorder struct {
	storage index.Storage
	config  *Config
	logger  *logging.Logger
	now     func() time.Time
}

// NewRecorder creates a new recorder with the provided storage backend and configuration.
func NewRecorder(storage index.Storage, config *Config) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = DefaultConfig().WriteTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Recorder{
		storage: storage,
		config:  config,
		logger:  logger.With("component", "index.recorder"),
		now:     time.Now,
	}
}

// Record indexes a single module as one run whose source is the module file.
func (r *Recorder) Record(ctx context.Context, module *ast.Module) (*index.Run, error) {
	return r.RecordModules(ctx, module.File, "", []*ast.Module{module})
}

// RecordModules indexes several modules as one run. commit may be empty.
func (r *Recorder) RecordModules(ctx context.Context, source, commit string, modules []*ast.Module) (*index.Run, error) {
	run := &index.Run{
		ID:        uuid.NewString(),
		Source:    source,
		Commit:    commit,
		StartedAt: r.now(),
		Files:     len(modules),
	}

	var records []*index.Record
	for _, module := range modules {
		records = append(records, Flatten(module, run.ID, run.StartedAt)...)
	}
	run.Declarations = len(records)

	writeCtx, cancel := context.WithTimeout(ctx, r.config.WriteTimeout)
	defer cancel()

	if err := r.storage.StoreRun(writeCtx, run, records); err != nil {
		r.logger.ErrorContext(ctx, "failed to store index run",
			"run_id", run.ID,
			"error", err,
		)
		return nil, err
	}

	r.logger.InfoContext(logging.WithRunID(ctx, run.ID), "index run recorded",
		"source", source,
		"files", run.Files,
		"declarations", run.Declarations,
	)
	return run, nil
}

// Flatten converts every declaration below the module root into a record.
// The root namespace itself is not recorded.
func Flatten(module *ast.Module, runID string, at time.Time) []*index.Record {
	if module.Root == nil {
		return nil
	}

	var records []*index.Record
	ast.Inspect(module.Root, func(decl ast.Declaration) {
		if decl == ast.Declaration(module.Root) {
			return
		}

		var namespace string
		if parent := decl.Parent(); parent != nil {
			namespace = strings.Join(parent.FullNamespaces(), "::")
		}

		pos := decl.Pos()
		file := pos.File
		if file == "" {
			file = module.File
		}

		records = append(records, &index.Record{
			RunID:         runID,
			File:          file,
			Kind:          string(decl.Kind()),
			Name:          decl.DeclName(),
			QualifiedName: strings.Join(ast.QualifiedPath(decl), "::"),
			Namespace:     namespace,
			Line:          pos.Line,
			Column:        pos.Column,
			RecordedAt:    at,
		})
	})
	return records
}
