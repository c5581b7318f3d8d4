package errors

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrNotFound matches any ResolveError of type not_found.
	ErrNotFound = errors.New("declaration not found")

	// ErrAmbiguous matches any ResolveError of type ambiguous.
	ErrAmbiguous = errors.New("ambiguous declaration")
)

// ResolveError reports a typename that resolved to zero or to several declarations.
type ResolveError struct {
	Type       ErrorType // ErrorTypeNotFound or ErrorTypeAmbiguous
	Name       string    // Terminal name that was looked up
	Namespaces []string  // Namespace path as written in the reference
	Matches    int       // Number of matching declarations

	// Scope is the qualified path of the namespace the lookup started from.
	// Empty means the root.
	Scope []string
}

// NewNotFound returns a not_found error for name under the given namespace path.
func NewNotFound(name string, namespaces []string) *ResolveError {
	return &ResolveError{
		Type:       ErrorTypeNotFound,
		Name:       name,
		Namespaces: namespaces,
	}
}

// NewAmbiguous returns an ambiguous error for name with the given number of matches.
func NewAmbiguous(name string, namespaces []string, matches int) *ResolveError {
	return &ResolveError{
		Type:       ErrorTypeAmbiguous,
		Name:       name,
		Namespaces: namespaces,
		Matches:    matches,
	}
}

// From records the namespace the lookup started from and returns e.
func (e *ResolveError) From(scope []string) *ResolveError {
	e.Scope = scope
	return e
}

func (e *ResolveError) Error() string {
	switch e.Type {
	case ErrorTypeAmbiguous:
		return fmt.Sprintf("found %d declarations named %q in %s", e.Matches, e.Name, e.scope())
	default:
		return fmt.Sprintf("cannot find declaration %q in %s", e.Name, e.scope())
	}
}

// Is reports whether target is the sentinel for this error's type.
func (e *ResolveError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Type == ErrorTypeNotFound
	case ErrAmbiguous:
		return e.Type == ErrorTypeAmbiguous
	}
	return false
}

// QualifiedName renders the searched reference as "a::b::Name".
func (e *ResolveError) QualifiedName() string {
	if len(e.Namespaces) == 0 {
		return e.Name
	}
	return strings.Join(e.Namespaces, "::") + "::" + e.Name
}

func (e *ResolveError) scope() string {
	path := append(slices.Clone(e.Scope), e.Namespaces...)
	if len(path) == 0 {
		return "global namespace"
	}
	return "namespace " + strings.Join(path, "::")
}

// AsResolveError unwraps err to a *ResolveError if it carries one.
func AsResolveError(err error) (*ResolveError, bool) {
	var re *ResolveError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
