// Package idl parses interface files and checks their type references.
//
// Most callers need only ParseAndValidate. The subpackages expose each stage:
// parser builds the namespace tree, resolver looks typenames up in it, and
// validator checks every reference of a module.
package idl

import (
	"context"

	"idlwrap/pkg/config"
	"idlwrap/pkg/idl/ast"
	"idlwrap/pkg/idl/parser"
	"idlwrap/pkg/idl/validator"
	"idlwrap/pkg/telemetry/logging"
	"idlwrap/pkg/telemetry/metrics"
)

// Options configures parsing and validation.
type Options struct {
	MaxFileSize int64 // 0 keeps the parser default
	Validation  validator.Options
}

// OptionsFromConfig builds Options from the parser and resolution sections of cfg.
func OptionsFromConfig(cfg *config.Config, logger *logging.Logger, collector *metrics.Collector) Options {
	return Options{
		MaxFileSize: cfg.Parser.MaxFileSize,
		Validation: validator.Options{
			ExternalTypes: cfg.Resolution.ExternalTypes,
			Strict:        cfg.Resolution.Strict,
			ScopeLookup:   cfg.Resolution.ScopeLookup(),
			Metrics:       collector,
			Logger:        logger,
		},
	}
}

func (o Options) parser() *parser.Parser {
	p := parser.NewParser().
		WithStrictMode(o.Validation.Strict).
		WithLogger(o.Validation.Logger).
		WithMetrics(o.Validation.Metrics)
	if o.MaxFileSize > 0 {
		p.WithMaxFileSize(o.MaxFileSize)
	}
	return p
}

// ParseAndValidate is a convenience function that parses and validates an interface file.
// It returns the parsed module if successful, or an error if parsing or validation fails.
func ParseAndValidate(ctx context.Context, path string, opts Options) (*ast.Module, error) {
	module, err := opts.parser().Parse(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := validator.NewValidator(opts.Validation).ValidateContext(ctx, module); err != nil {
		return nil, err
	}

	return module, nil
}

// ParseAndValidateBytes parses and validates interface source held in memory.
func ParseAndValidateBytes(ctx context.Context, data []byte, sourcePath string, opts Options) (*ast.Module, error) {
	module, err := opts.parser().ParseBytes(ctx, data, sourcePath)
	if err != nil {
		return nil, err
	}

	if err := validator.NewValidator(opts.Validation).ValidateContext(ctx, module); err != nil {
		return nil, err
	}

	return module, nil
}

// Parse parses an interface file without validation.
// Use this if you want to inspect the tree before validation.
func Parse(ctx context.Context, path string, opts Options) (*ast.Module, error) {
	return opts.parser().Parse(ctx, path)
}

// Validate validates a parsed module.
func Validate(ctx context.Context, module *ast.Module, opts Options) error {
	return validator.NewValidator(opts.Validation).ValidateContext(ctx, module)
}
