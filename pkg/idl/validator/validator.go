package validator

import (
	"context"

	"idlwrap/pkg/idl/ast"
	idlerrors "idlwrap/pkg/idl/errors"
	"idlwrap/pkg/telemetry/logging"
	"idlwrap/pkg/telemetry/metrics"
)

// Options configures validation.
type Options struct {
	// ExternalTypes are types provided outside the interface files. Entries are
	// exact names ("double", "gtsam::Key") or namespace wildcards ("std::*").
	ExternalTypes []string

	// Strict makes unresolved unqualified references errors.
	Strict bool

	// ScopeLookup resolves unqualified references from the enclosing namespaces
	// outward. When false they are resolved from the top level only.
	ScopeLookup bool

	Metrics *metrics.Collector
	Logger  *logging.Logger
}

// Validator is the main validator that orchestrates all validation passes.
type Validator struct {
	opts       Options
	structural *StructuralValidator
}

// NewValidator creates a new validator with all validation passes.
func NewValidator(opts Options) *Validator {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Validator{
		opts:       opts,
		structural: NewStructuralValidator(),
	}
}

// Validate runs all validation passes on a module.
// It accumulates errors from all passes and returns them together.
func (v *Validator) Validate(module *ast.Module) error {
	return v.ValidateContext(context.Background(), module)
}

// ValidateContext is Validate with a context for logging and cancellation.
func (v *Validator) ValidateContext(ctx context.Context, module *ast.Module) error {
	errors := idlerrors.NewErrorList()

	if err := v.structural.ValidateContext(ctx, module); err != nil {
		if errList, ok := err.(*idlerrors.ErrorList); ok {
			errors.Errors = append(errors.Errors, errList.Errors...)
		} else {
			return err
		}
	}

	if err := v.ValidateReferences(ctx, module); err != nil {
		if errList, ok := err.(*idlerrors.ErrorList); ok {
			errors.Errors = append(errors.Errors, errList.Errors...)
		} else {
			return err
		}
	}

	for _, e := range errors.Errors {
		v.opts.Metrics.RecordValidationError(string(e.Type))
	}

	return errors.ToError()
}

// ValidateStructural runs only structural validation.
func (v *Validator) ValidateStructural(module *ast.Module) error {
	return v.structural.Validate(module)
}

// ValidateReferences runs only reference validation.
func (v *Validator) ValidateReferences(ctx context.Context, module *ast.Module) error {
	return newReferenceValidator(ctx, module, v.opts).validate()
}
