package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"idlwrap/pkg/cli"
	"idlwrap/pkg/idl"
	"idlwrap/pkg/idl/ast"
	idlerrors "idlwrap/pkg/idl/errors"
	"idlwrap/pkg/idl/parser"
	"idlwrap/pkg/idl/resolver"
	"idlwrap/pkg/telemetry/tracing"
)

var resolveFlags struct {
	file   string
	scope  string
	format string
}

var resolveCmd = &cobra.Command{
	Use:   "resolve TYPENAME",
	Short: "Look a typename up in an interface file",
	Long: `Look a typename up in the namespace tree of an interface file and print
the declaration it names.

Without --scope the typename is looked up from the top-level namespace. With
--scope it is looked up as if written inside that namespace: the enclosing
namespaces are tried from the innermost outwards.

Examples:
  # Qualified lookup
  idlwrap resolve gtsam::noiseModel::Base --file gtsam.i

  # Unqualified lookup from inside a namespace
  idlwrap resolve Pose2 --file gtsam.i --scope gtsam::noise`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVarP(&resolveFlags.file, "file", "f", "", "interface file to search")
	resolveCmd.Flags().StringVar(&resolveFlags.scope, "scope", "", "namespace the name is written in, e.g. gtsam::noiseModel")
	resolveCmd.Flags().StringVar(&resolveFlags.format, "format", "text", "output format: text, json")
}

// ResolveResult describes the declaration a typename names.
type ResolveResult struct {
	Typename      string `json:"typename"`
	Kind          string `json:"kind"`
	QualifiedName string `json:"qualified_name"`
	Location      string `json:"location"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()
	if resolveFlags.file == "" {
		return cli.NewConfigError("file", "--file must be specified")
	}
	format, formatter, err := e.formatter(resolveFlags.format)
	if err != nil {
		return err
	}

	typename, err := parser.ParseTypename(args[0])
	if err != nil {
		return cli.NewConfigError("typename", err.Error())
	}

	ctx, span := e.tracer.Start(commandContext(cmd), tracing.SpanResolve)
	defer span.End()
	tracing.SetResolveAttributes(span, typename.String(), resolveFlags.scope)

	module, err := idl.Parse(ctx, resolveFlags.file, idl.OptionsFromConfig(e.cfg, e.logger, e.metrics))
	if err != nil {
		tracing.SetError(span, err)
		return cli.NewCommandError("resolve", err)
	}

	r := resolver.New(module.Root, resolver.WithMetrics(e.metrics), resolver.WithLogger(e.logger))

	var decl ast.Declaration
	if resolveFlags.scope == "" {
		decl, err = r.Resolve(ctx, typename)
	} else {
		scopes := resolver.FindSubNamespaces(r.Root(), strings.Split(resolveFlags.scope, "::"))
		if len(scopes) == 0 {
			return cli.NewConfigError("scope", fmt.Sprintf("namespace %s not found in %s", resolveFlags.scope, resolveFlags.file))
		}
		// Every level of the lookup covers all blocks of that namespace, so
		// any block of --scope gives the same answer.
		decl, err = r.ResolveFrom(ctx, scopes[0], typename)
	}

	tracing.SetError(span, err)
	if err != nil {
		fmt.Fprintf(e.out, "✗ %v\n", err)
		if s := suggestFor(r, typename, err); s != "" {
			fmt.Fprintf(e.out, "  %s\n", s)
		}
		return cli.NewCommandError("resolve", err)
	}

	span.SetAttributes(attribute.String(tracing.AttrKind, string(decl.Kind())))
	result := ResolveResult{
		Typename:      typename.String(),
		Kind:          string(decl.Kind()),
		QualifiedName: strings.Join(ast.QualifiedPath(decl), "::"),
		Location:      decl.Pos().String(),
	}

	if format == cli.FormatText {
		fmt.Fprintf(e.out, "✓ %s %s\n", result.Kind, result.QualifiedName)
		fmt.Fprintf(e.out, "  declared at %s\n", result.Location)
		return nil
	}
	return formatter.FormatTo(e.out, result)
}

func suggestFor(r *resolver.Resolver, typename ast.Typename, err error) string {
	candidates := r.Candidates(typename.Name)
	if errors.Is(err, idlerrors.ErrAmbiguous) {
		if len(candidates) > 1 {
			return "candidates: " + strings.Join(candidates, ", ")
		}
		return ""
	}
	if s := idlerrors.SuggestQualify(typename.Name, candidates); s != "" {
		return s
	}
	return idlerrors.SuggestName(typename.Name, r.Names())
}
