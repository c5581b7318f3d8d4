package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"idlwrap/pkg/idl/ast"
	idlerrors "idlwrap/pkg/idl/errors"
)

// Report is the result of checking a set of interface files.
type Report struct {
	Source       string         `json:"source"`
	Commit       string         `json:"commit,omitempty"`
	Files        []*FileResult  `json:"files"`
	Errors       int            `json:"errors"`
	Declarations map[string]int `json:"declarations"`
}

// FileResult represents the check result for a single interface file.
type FileResult struct {
	File         string       `json:"file"`
	Valid        bool         `json:"valid"`
	Declarations int          `json:"declarations"`
	Errors       []Diagnostic `json:"errors,omitempty"`

	module *ast.Module
}

// Diagnostic is a single problem found in a file.
type Diagnostic struct {
	Line       int    `json:"line,omitempty"`
	Column     int    `json:"column,omitempty"`
	Type       string `json:"type,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

func newReport(source string, results []*FileResult) *Report {
	r := &Report{
		Source:       source,
		Files:        results,
		Declarations: make(map[string]int),
	}
	for _, result := range results {
		r.Errors += len(result.Errors)
		if result.module == nil {
			continue
		}
		for kind, n := range declarationCounts(result.module) {
			r.Declarations[kind] += n
		}
	}
	return r
}

// Modules returns the parsed modules of the report, including modules whose
// references did not all resolve.
func (r *Report) Modules() []*ast.Module {
	var modules []*ast.Module
	for _, result := range r.Files {
		if result.module != nil {
			modules = append(modules, result.module)
		}
	}
	return modules
}

// total returns the number of declarations over all files.
func (r *Report) total() int {
	n := 0
	for _, result := range r.Files {
		n += result.Declarations
	}
	return n
}

// Failed reports whether any file has a diagnostic.
func (r *Report) Failed() bool {
	return r.Errors > 0
}

// Header implements cli.Table.
func (r *Report) Header() []string {
	return []string{"file", "line", "column", "type", "message", "suggestion"}
}

// Rows implements cli.Table with one row per diagnostic.
func (r *Report) Rows() [][]string {
	var rows [][]string
	for _, result := range r.Files {
		for _, d := range result.Errors {
			rows = append(rows, []string{
				result.File,
				strconv.Itoa(d.Line),
				strconv.Itoa(d.Column),
				d.Type,
				d.Message,
				d.Suggestion,
			})
		}
	}
	return rows
}

// writeText prints the report in the human-readable layout.
func (r *Report) writeText(w io.Writer) {
	for _, result := range r.Files {
		fmt.Fprintf(w, "Checking %s...\n", result.File)

		if result.Valid {
			fmt.Fprintf(w, "✓ %d declarations, all references resolved\n", result.Declarations)
		}

		for _, d := range result.Errors {
			fmt.Fprintf(w, "✗ Error: %s", d.Message)
			if d.Line > 0 {
				fmt.Fprintf(w, " (line %d", d.Line)
				if d.Column > 0 {
					fmt.Fprintf(w, ", col %d", d.Column)
				}
				fmt.Fprint(w, ")")
			}
			if d.Type != "" {
				fmt.Fprintf(w, " [%s]", d.Type)
			}
			fmt.Fprintln(w)
			if d.Suggestion != "" {
				fmt.Fprintf(w, "  %s\n", d.Suggestion)
			}
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  %d file(s), %d error(s)\n", len(r.Files), r.Errors)
	for _, kind := range slices.Sorted(maps.Keys(r.Declarations)) {
		fmt.Fprintf(w, "  %-22s %d\n", kind, r.Declarations[kind])
	}
}

// declarationCounts counts the declarations of module by kind. The synthetic
// root namespace is not counted.
func declarationCounts(module *ast.Module) map[string]int {
	counts := make(map[string]int)
	for kind, n := range ast.CountByKind(module.Root) {
		counts[string(kind)] = n
	}
	if counts[string(ast.KindNamespace)]--; counts[string(ast.KindNamespace)] == 0 {
		delete(counts, string(ast.KindNamespace))
	}
	return counts
}

// diagnostics converts a parse or validation error into diagnostics.
func diagnostics(err error) []Diagnostic {
	var list *idlerrors.ErrorList
	if errors.As(err, &list) {
		result := make([]Diagnostic, 0, len(list.Errors))
		for _, e := range list.Errors {
			result = append(result, diagnostic(e))
		}
		return result
	}

	var idlErr *idlerrors.Error
	if errors.As(err, &idlErr) {
		return []Diagnostic{diagnostic(idlErr)}
	}

	return []Diagnostic{{Message: err.Error()}}
}

func diagnostic(e *idlerrors.Error) Diagnostic {
	return Diagnostic{
		Line:       e.Location.Line,
		Column:     e.Location.Column,
		Type:       string(e.Type),
		Message:    e.Message,
		Suggestion: e.Suggestion,
	}
}
