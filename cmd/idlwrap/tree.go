package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"idlwrap/pkg/cli"
	"idlwrap/pkg/idl"
	"idlwrap/pkg/idl/ast"
)

var treeFlags struct {
	file   string
	format string
}

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the namespace tree of an interface file",
	Long: `Print the namespace tree of an interface file with the kind and location
of every declaration.

Examples:
  idlwrap tree --file gtsam.i
  idlwrap tree --file gtsam.i --format json`,
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)

	treeCmd.Flags().StringVarP(&treeFlags.file, "file", "f", "", "interface file to print")
	treeCmd.Flags().StringVar(&treeFlags.format, "format", "text", "output format: text, json")
}

// TreeNode is one declaration of a printed namespace tree.
type TreeNode struct {
	Kind     string      `json:"kind"`
	Name     string      `json:"name"`
	Location string      `json:"location"`
	Children []*TreeNode `json:"children,omitempty"`
}

// TreeOutput is the printed form of a module.
type TreeOutput struct {
	File     string    `json:"file"`
	Includes []string  `json:"includes,omitempty"`
	Root     *TreeNode `json:"root"`
}

func runTree(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	if treeFlags.file == "" {
		return cli.NewConfigError("file", "--file must be specified")
	}
	format, formatter, err := e.formatter(treeFlags.format)
	if err != nil {
		return err
	}

	module, err := idl.Parse(commandContext(cmd), treeFlags.file, idl.OptionsFromConfig(e.cfg, e.logger, e.metrics))
	if err != nil {
		return cli.NewCommandError("tree", err)
	}

	output := buildTree(module)
	if format == cli.FormatText {
		writeTree(e.out, output)
		return nil
	}
	return formatter.FormatTo(e.out, output)
}

func buildTree(module *ast.Module) *TreeOutput {
	output := &TreeOutput{File: module.File, Root: treeNode(module.Root)}
	for _, inc := range module.Includes {
		output.Includes = append(output.Includes, inc.Path)
	}
	return output
}

func treeNode(decl ast.Declaration) *TreeNode {
	node := &TreeNode{
		Kind:     string(decl.Kind()),
		Name:     decl.DeclName(),
		Location: decl.Pos().String(),
	}
	if ns, ok := decl.(*ast.Namespace); ok {
		for _, child := range ns.Content {
			node.Children = append(node.Children, treeNode(child))
		}
	}
	return node
}

func writeTree(w io.Writer, output *TreeOutput) {
	fmt.Fprintln(w, output.File)
	for _, inc := range output.Includes {
		fmt.Fprintf(w, "  #include %s\n", inc)
	}
	for _, child := range output.Root.Children {
		writeNode(w, child, 1)
	}
}

func writeNode(w io.Writer, node *TreeNode, depth int) {
	fmt.Fprintf(w, "%s%s %s  (%s)\n", strings.Repeat("  ", depth), node.Kind, node.Name, node.Location)
	for _, child := range node.Children {
		writeNode(w, child, depth+1)
	}
}
