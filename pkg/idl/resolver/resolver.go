package resolver

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"idlwrap/pkg/idl/ast"
	idlerrors "idlwrap/pkg/idl/errors"
	"idlwrap/pkg/telemetry/logging"
	"idlwrap/pkg/telemetry/metrics"
)

// Resolver resolves typenames against one namespace tree and records each
// outcome. It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	root    *ast.Namespace
	metrics *metrics.Collector
	logger  *logging.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMetrics records every resolution on collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(r *Resolver) {
		r.metrics = collector
	}
}

// WithLogger logs failed resolutions at debug level.
func WithLogger(logger *logging.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Resolver over the tree containing root. Any namespace of the
// tree may be passed; lookups always start from its top level.
func New(root *ast.Namespace, opts ...Option) *Resolver {
	r := &Resolver{
		root:   root.TopLevel(),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the namespace qualified lookups start from.
func (r *Resolver) Root() *ast.Namespace {
	return r.root
}

// Resolve looks typename up from the root. See the package-level Resolve.
func (r *Resolver) Resolve(ctx context.Context, typename ast.Typename) (ast.Declaration, error) {
	start := time.Now()
	decl, err := Resolve(r.root, typename)
	r.record(ctx, typename, err, time.Since(start))
	return decl, err
}

// ResolveFrom looks typename up as if it were written inside scope. The
// typename's path is tried relative to scope, then to each enclosing namespace
// out to the root; the first level under which anything matches decides the
// result. Each level covers every block of that namespace in the tree, so a
// namespace reopened in several blocks is searched as a whole. An ambiguity at
// that level is returned as is. NotFound is returned only when no level
// matches, and it names scope as the starting point.
func (r *Resolver) ResolveFrom(ctx context.Context, scope *ast.Namespace, typename ast.Typename) (ast.Declaration, error) {
	start := time.Now()
	decl, err := r.resolveFrom(scope, typename)
	r.record(ctx, typename, err, time.Since(start))
	return decl, err
}

func (r *Resolver) resolveFrom(scope *ast.Namespace, typename ast.Typename) (ast.Declaration, error) {
	if scope == nil {
		return Resolve(r.root, typename)
	}
	for ns := scope; ns != nil; ns = ns.Parent() {
		matches := r.levelMatches(ns, typename)
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return nil, idlerrors.NewAmbiguous(typename.Name, typename.Namespaces, len(matches)).From(ns.FullNamespaces())
		}
	}
	return nil, idlerrors.NewNotFound(typename.Name, typename.Namespaces).From(scope.FullNamespaces())
}

// levelMatches collects the matches for typename relative to every block of
// the namespace ns belongs to. Blocks inside an anonymous namespace are only
// reachable lexically, so for those ns alone is searched.
func (r *Resolver) levelMatches(ns *ast.Namespace, typename ast.Typename) []ast.Declaration {
	blocks := []*ast.Namespace{ns}
	if path, ok := pathFrom(r.root, ns); ok {
		blocks = FindSubNamespaces(r.root, path)
		if !slices.Contains(blocks, ns) {
			blocks = append(blocks, ns)
		}
	}

	var matches []ast.Declaration
	for _, block := range blocks {
		matches = append(matches, Matches(block, typename)...)
	}
	return matches
}

// pathFrom returns the namespace names leading from root down to ns. It fails
// when ns is not below root or an anonymous namespace lies in between.
func pathFrom(root, ns *ast.Namespace) ([]string, bool) {
	var path []string
	for n := ns; n != nil; n = n.Parent() {
		if n == root {
			slices.Reverse(path)
			return path, true
		}
		if n.Name == "" {
			return nil, false
		}
		path = append(path, n.Name)
	}
	return nil, false
}

func (r *Resolver) record(ctx context.Context, typename ast.Typename, err error, elapsed time.Duration) {
	outcome := metrics.OutcomeResolved
	switch {
	case errors.Is(err, idlerrors.ErrNotFound):
		outcome = metrics.OutcomeNotFound
	case errors.Is(err, idlerrors.ErrAmbiguous):
		outcome = metrics.OutcomeAmbiguous
	}
	r.metrics.RecordResolution(outcome, elapsed)

	if err != nil {
		r.logger.DebugContext(ctx, "typename resolution failed",
			"typename", typename.String(),
			"outcome", outcome,
		)
	}
}

// Candidates returns the qualified names of every resolvable declaration in the
// tree whose name is name. It feeds "did you mean" suggestions after a failed
// lookup.
func (r *Resolver) Candidates(name string) []string {
	var result []string
	ast.Inspect(r.root, func(decl ast.Declaration) {
		if decl.Kind().Resolvable() && decl.DeclName() == name {
			result = append(result, strings.Join(ast.QualifiedPath(decl), "::"))
		}
	})
	return result
}

// Names returns the names of every resolvable declaration in the tree.
func (r *Resolver) Names() []string {
	seen := make(map[string]bool)
	var result []string
	ast.Inspect(r.root, func(decl ast.Declaration) {
		if decl.Kind().Resolvable() && !seen[decl.DeclName()] {
			seen[decl.DeclName()] = true
			result = append(result, decl.DeclName())
		}
	})
	return result
}
