package validator

import (
	"strings"

	"idlwrap/pkg/idl/ast"
)

// builtinTypes are C++ fundamental types. They never name a declaration.
var builtinTypes = map[string]bool{
	"void": true, "bool": true, "char": true, "wchar_t": true,
	"short": true, "int": true, "long": true, "float": true, "double": true,
	"size_t": true, "auto": true,
}

// externalMatcher matches typenames against configured external type patterns.
type externalMatcher struct {
	exact    map[string]bool
	prefixes []string
}

func newExternalMatcher(patterns []string) *externalMatcher {
	m := &externalMatcher{exact: make(map[string]bool, len(patterns))}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if prefix, ok := strings.CutSuffix(p, "*"); ok {
			m.prefixes = append(m.prefixes, prefix)
			continue
		}
		if p != "" {
			m.exact[p] = true
		}
	}
	return m
}

// matches reports whether tn is provided externally.
func (m *externalMatcher) matches(tn ast.Typename) bool {
	if !tn.IsQualified() && (builtinTypes[tn.Name] || strings.Contains(tn.Name, " ")) {
		return true
	}

	name := tn.QualifiedName()
	if m.exact[name] {
		return true
	}
	for _, prefix := range m.prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
