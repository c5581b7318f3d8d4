package resolver

import (
	"idlwrap/pkg/idl/ast"
	idlerrors "idlwrap/pkg/idl/errors"
)

// FindSubNamespaces returns every namespace reached by following path from start.
// An empty path yields start itself. Each segment selects all direct sub-namespaces
// with that name, so repeated namespace blocks fan out; a segment with no match
// yields an empty result rather than an error. Results are in content order.
func FindSubNamespaces(start *ast.Namespace, path []string) []*ast.Namespace {
	if len(path) == 0 {
		return []*ast.Namespace{start}
	}

	var result []*ast.Namespace
	for _, decl := range start.Content {
		sub, ok := decl.(*ast.Namespace)
		if !ok || sub.Name != path[0] {
			continue
		}
		result = append(result, FindSubNamespaces(sub, path[1:])...)
	}
	return result
}

// Resolve returns the single class, global function or forward declaration named
// by typename, looking its namespace path up from root. It returns a
// *errors.ResolveError of type not_found when nothing matches and of type
// ambiguous when more than one declaration matches.
func Resolve(root *ast.Namespace, typename ast.Typename) (ast.Declaration, error) {
	matches := Matches(root, typename)

	switch len(matches) {
	case 0:
		return nil, idlerrors.NewNotFound(typename.Name, typename.Namespaces).From(root.FullNamespaces())
	case 1:
		return matches[0], nil
	default:
		return nil, idlerrors.NewAmbiguous(typename.Name, typename.Namespaces, len(matches)).From(root.FullNamespaces())
	}
}

// Matches returns every resolvable declaration named by typename under root, in
// content order. Resolve succeeds only when this has exactly one element.
func Matches(root *ast.Namespace, typename ast.Typename) []ast.Declaration {
	var matches []ast.Declaration
	for _, ns := range FindSubNamespaces(root, typename.Namespaces) {
		for _, decl := range ns.Content {
			if decl.Kind().Resolvable() && decl.DeclName() == typename.Name {
				matches = append(matches, decl)
			}
		}
	}
	return matches
}
