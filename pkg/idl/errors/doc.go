// Package errors provides diagnostics for the interface front end.
//
// Two kinds of error live here. ResolveError is returned by the resolver when a
// typename names no declaration or more than one; callers test for the outcome
// with errors.Is against ErrNotFound and ErrAmbiguous. Error is a located
// diagnostic with optional source context and a suggestion, and ErrorList
// accumulates them so a whole file can be reported at once.
//
// Example:
//
//	decl, err := resolver.Resolve(root, tn)
//	if errors.Is(err, idlerrors.ErrNotFound) {
//	    list.AddErrorWithSuggestion(idlerrors.ErrorTypeNotFound, err.Error(), loc,
//	        idlerrors.SuggestName(tn.Name, known))
//	}
package errors
