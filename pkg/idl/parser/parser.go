package parser

import (
	"context"
	"fmt"
	"os"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"

	"idlwrap/pkg/idl/ast"
	idlerrors "idlwrap/pkg/idl/errors"
	"idlwrap/pkg/telemetry/logging"
	"idlwrap/pkg/telemetry/metrics"
)

// Parser parses interface files into modules.
// A Parser is safe for concurrent use; each call creates its own grammar engine.
type Parser struct {
	maxFileSize int64 // Maximum file size in bytes (default: 10MB)
	strictMode  bool  // Syntax errors fail the parse instead of being logged

	logger  *logging.Logger
	metrics *metrics.Collector
}

// NewParser creates a new parser with default configuration.
func NewParser() *Parser {
	return &Parser{
		maxFileSize: 10 * 1024 * 1024, // 10MB
		logger:      logging.Discard(),
	}
}

// WithMaxFileSize sets the maximum file size limit.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

// WithStrictMode makes syntax errors fatal.
func (p *Parser) WithStrictMode(strict bool) *Parser {
	p.strictMode = strict
	return p
}

// WithLogger sets the logger used for recoverable syntax errors.
func (p *Parser) WithLogger(logger *logging.Logger) *Parser {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// WithMetrics records parse durations and errors on collector.
func (p *Parser) WithMetrics(collector *metrics.Collector) *Parser {
	p.metrics = collector
	return p
}

// Parse parses the interface file at path.
func (p *Parser) Parse(ctx context.Context, path string) (*ast.Module, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, p.fail(&idlerrors.Error{
			Type:     idlerrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Failed to access file: %v", err),
			Location: ast.Location{File: path},
		})
	}

	if fileInfo.Size() > p.maxFileSize {
		return nil, p.fail(&idlerrors.Error{
			Type:     idlerrors.ErrorTypeIO,
			Message:  fmt.Sprintf("File size %d exceeds maximum %d bytes", fileInfo.Size(), p.maxFileSize),
			Location: ast.Location{File: path},
		})
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, p.fail(&idlerrors.Error{
			Type:     idlerrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Failed to read file: %v", err),
			Location: ast.Location{File: path},
		})
	}

	return p.parse(ctx, data, path, true)
}

// ParseBytes parses interface source held in memory. sourcePath is used for
// locations only.
func (p *Parser) ParseBytes(ctx context.Context, data []byte, sourcePath string) (*ast.Module, error) {
	if int64(len(data)) > p.maxFileSize {
		return nil, p.fail(&idlerrors.Error{
			Type:     idlerrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Data size %d exceeds maximum %d bytes", len(data), p.maxFileSize),
			Location: ast.Location{File: sourcePath},
		})
	}

	return p.parse(ctx, data, sourcePath, false)
}

func (p *Parser) parse(ctx context.Context, data []byte, sourcePath string, onDisk bool) (*ast.Module, error) {
	start := time.Now()
	ctx = logging.WithSourceFile(ctx, sourcePath)

	src, virtualAt := normalizeSource(data)

	engine := sitter.NewParser()
	defer engine.Close()
	engine.SetLanguage(cpp.GetLanguage())

	tree, err := engine.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", sourcePath, err)
	}
	defer tree.Close()
	root := tree.RootNode()

	if root.HasError() {
		synErr := syntaxError(root, data, sourcePath, onDisk)
		if p.strictMode {
			return nil, p.fail(synErr)
		}
		p.metrics.RecordParseError(string(idlerrors.ErrorTypeSyntax))
		p.logger.WarnContext(ctx, "interface file has syntax errors, keeping recognizable declarations",
			"location", synErr.Location.String(),
		)
	}

	b := newBuilder(sourcePath, src, virtualAt)
	module := b.buildModule(root)

	p.metrics.RecordParse(time.Since(start))
	p.logger.DebugContext(ctx, "parsed interface file",
		"includes", len(module.Includes),
		"declarations", len(module.Root.Content),
		"duration", time.Since(start),
	)

	return module, nil
}

func (p *Parser) fail(err *idlerrors.Error) error {
	p.metrics.RecordParseError(string(err.Type))
	return err
}

// syntaxError reports the first error or missing node of the tree.
func syntaxError(root *sitter.Node, data []byte, sourcePath string, onDisk bool) *idlerrors.Error {
	bad := firstErrorNode(root)
	if bad == nil {
		bad = root
	}

	err := &idlerrors.Error{
		Type:     idlerrors.ErrorTypeSyntax,
		Message:  "syntax error",
		Location: location(sourcePath, bad),
	}
	if bad.IsMissing() {
		err.Message = fmt.Sprintf("missing %q", bad.Type())
	} else if text := bad.Content(data); text != "" && len(text) < 40 {
		err.Message = fmt.Sprintf("unexpected %q", text)
	}

	if onDisk {
		return idlerrors.AddContextToError(err)
	}
	err.Context = idlerrors.ExtractContextFromBytes(data, err.Location, 2)
	return err
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

func location(file string, node *sitter.Node) ast.Location {
	pt := node.StartPoint()
	return ast.Location{
		File:   file,
		Line:   int(pt.Row) + 1,
		Column: int(pt.Column) + 1,
	}
}
