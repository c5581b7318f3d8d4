// Package resolver maps qualified typenames to the declaration they name in a
// namespace tree built by package ast.
//
// Resolve is the pure lookup: it follows the typename's namespace path from the
// namespace it is given, gathers every class, global function and forward
// declaration with the terminal name, and succeeds only on exactly one match.
// Zero matches and several matches are reported as a *errors.ResolveError,
// which callers identify with errors.Is against errors.ErrNotFound and
// errors.ErrAmbiguous.
//
// Resolver wraps the same lookup with metrics and logging, and adds
// ResolveFrom for references written inside a namespace, which are searched
// from that namespace outwards the way C++ looks up enclosing scopes.
//
// Enumerations and variables are never resolution targets.
package resolver
