package errors

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"idlwrap/pkg/idl/ast"
)

// ExtractContext reads the interface file and returns the lines surrounding location,
// numbered, with the error line marked and a caret under the column.
func ExtractContext(location ast.Location, contextLines int) string {
	if !location.IsValid() {
		return ""
	}

	file, err := os.Open(location.File)
	if err != nil {
		return ""
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return ""
	}

	return formatContext(lines, location, contextLines)
}

// ExtractContextFromBytes is ExtractContext for sources that are already in memory.
func ExtractContextFromBytes(data []byte, location ast.Location, contextLines int) string {
	if location.Line <= 0 {
		return ""
	}
	return formatContext(strings.Split(string(data), "\n"), location, contextLines)
}

func formatContext(lines []string, location ast.Location, contextLines int) string {
	errorLine := location.Line - 1
	if errorLine >= len(lines) {
		return ""
	}

	startLine := max(errorLine-contextLines, 0)
	endLine := min(errorLine+contextLines, len(lines)-1)

	var sb strings.Builder
	width := len(fmt.Sprintf("%d", endLine+1))

	for i := startLine; i <= endLine; i++ {
		prefix := "  "
		if i == errorLine {
			prefix = "->"
		}
		fmt.Fprintf(&sb, "%s %*d | %s\n", prefix, width, i+1, lines[i])

		if i == errorLine && location.Column > 0 {
			fmt.Fprintf(&sb, "   %s | %s^\n", strings.Repeat(" ", width), strings.Repeat(" ", location.Column-1))
		}
	}

	return sb.String()
}

// WithContext fills err.Context from the file named in its location.
func WithContext(err *Error, contextLines int) *Error {
	if err.Location.IsValid() {
		err.Context = ExtractContext(err.Location, contextLines)
	}
	return err
}

// AddContextToError adds two lines of context on each side of the error location.
func AddContextToError(err *Error) *Error {
	return WithContext(err, 2)
}
