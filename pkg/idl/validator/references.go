package validator

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"idlwrap/pkg/idl/ast"
	idlerrors "idlwrap/pkg/idl/errors"
	"idlwrap/pkg/idl/resolver"
	"idlwrap/pkg/telemetry/logging"
	"idlwrap/pkg/telemetry/metrics"
)

// referenceValidator resolves every type reference of a module.
type referenceValidator struct {
	ctx      context.Context
	module   *ast.Module
	opts     Options
	resolver *resolver.Resolver
	external *externalMatcher
	errors   *idlerrors.ErrorList

	// template holds the template parameters of the declaration being visited.
	template []string
}

func newReferenceValidator(ctx context.Context, module *ast.Module, opts Options) *referenceValidator {
	return &referenceValidator{
		ctx:      logging.WithSourceFile(ctx, module.File),
		module:   module,
		opts:     opts,
		external: newExternalMatcher(opts.ExternalTypes),
		errors:   idlerrors.NewErrorList(),
	}
}

func (v *referenceValidator) validate() error {
	if v.module.Root == nil {
		return nil
	}
	v.resolver = resolver.New(v.module.Root,
		resolver.WithMetrics(v.opts.Metrics),
		resolver.WithLogger(v.opts.Logger),
	)

	if err := ast.Walk(v.module.Root, v); err != nil {
		return err
	}
	return v.errors.ToError()
}

func (v *referenceValidator) VisitNamespace(*ast.Namespace) error {
	return v.ctx.Err()
}

func (v *referenceValidator) VisitClass(c *ast.Class) error {
	v.template = c.Template
	defer func() { v.template = nil }()

	scope := c.Parent()
	if c.ParentClass != nil {
		v.check(scope, *c.ParentClass, c.Location)
	}
	for _, m := range c.Methods {
		v.checkSignature(scope, m.ReturnType, m.Args, m.Location)
	}
	for _, p := range c.Properties {
		v.check(scope, p.Type.Typename, c.Location)
	}
	return nil
}

func (v *referenceValidator) VisitGlobalFunction(f *ast.GlobalFunction) error {
	v.template = f.Template
	defer func() { v.template = nil }()

	v.checkSignature(f.Parent(), f.ReturnType, f.Args, f.Location)
	return nil
}

func (v *referenceValidator) VisitForwardDeclaration(f *ast.ForwardDeclaration) error {
	if f.ParentClass != nil {
		v.check(f.Parent(), *f.ParentClass, f.Location)
	}
	return nil
}

func (v *referenceValidator) VisitEnum(*ast.Enum) error {
	return nil
}

func (v *referenceValidator) VisitVariable(variable *ast.Variable) error {
	v.check(variable.Parent(), variable.Type.Typename, variable.Location)
	return nil
}

func (v *referenceValidator) VisitTypedef(t *ast.TypedefTemplateInstantiation) error {
	v.check(t.Parent(), t.Typename, t.Location)
	return nil
}

func (v *referenceValidator) checkSignature(scope *ast.Namespace, ret ast.Type, args []*ast.Argument, loc ast.Location) {
	v.check(scope, ret.Typename, loc)
	for _, a := range args {
		v.check(scope, a.Type.Typename, loc)
	}
}

// check resolves tn as written inside scope, then its template arguments.
func (v *referenceValidator) check(scope *ast.Namespace, tn ast.Typename, loc ast.Location) {
	for _, arg := range tn.Instantiations {
		v.check(scope, arg, loc)
	}

	if tn.Name == "" {
		return
	}
	if !tn.IsQualified() && slices.Contains(v.template, tn.Name) {
		return
	}
	if v.external.matches(tn) {
		v.opts.Metrics.RecordResolution(metrics.OutcomeExternal, 0)
		return
	}

	var err error
	if !tn.IsQualified() && v.opts.ScopeLookup && scope != nil {
		_, err = v.resolver.ResolveFrom(v.ctx, scope, tn)
	} else {
		_, err = v.resolver.Resolve(v.ctx, tn)
	}
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, idlerrors.ErrAmbiguous):
		v.errors.AddErrorWithSuggestion(idlerrors.ErrorTypeAmbiguous, err.Error(), loc,
			idlerrors.SuggestQualify(tn.Name, v.resolver.Candidates(tn.Name)))

	case errors.Is(err, idlerrors.ErrNotFound):
		if v.namesAliasOrEnum(scope, tn) {
			return
		}
		if !tn.IsQualified() && !v.opts.Strict {
			v.opts.Logger.DebugContext(v.ctx, "unresolved unqualified type left to the compiler",
				"typename", tn.String(),
				"location", loc.String(),
			)
			return
		}
		v.errors.AddErrorWithSuggestion(idlerrors.ErrorTypeNotFound,
			fmt.Sprintf("%s (referenced as %q)", err.Error(), tn.String()), loc, v.suggest(tn))
	}
}

// namesAliasOrEnum reports whether tn names an enum or a typedef
// instantiation. Both are valid types in a signature even though they never
// take part in resolution.
func (v *referenceValidator) namesAliasOrEnum(scope *ast.Namespace, tn ast.Typename) bool {
	prefixes := [][]string{nil}
	if !tn.IsQualified() && v.opts.ScopeLookup && scope != nil {
		prefixes = prefixes[:0]
		for ns := scope; ns != nil; ns = ns.Parent() {
			prefixes = append(prefixes, ns.FullNamespaces())
		}
	}

	for _, prefix := range prefixes {
		path := append(slices.Clone(prefix), tn.Namespaces...)
		for _, ns := range resolver.FindSubNamespaces(v.resolver.Root(), path) {
			for _, decl := range ns.Content {
				switch decl.Kind() {
				case ast.KindEnum, ast.KindTypedefInstantiation:
					if decl.DeclName() == tn.Name {
						return true
					}
				}
			}
		}
	}
	return false
}

// suggest proposes a qualified spelling when the name exists elsewhere in the
// tree, and a close name otherwise.
func (v *referenceValidator) suggest(tn ast.Typename) string {
	if s := idlerrors.SuggestQualify(tn.Name, v.resolver.Candidates(tn.Name)); s != "" {
		return s
	}
	return idlerrors.SuggestName(tn.Name, v.resolver.Names())
}
