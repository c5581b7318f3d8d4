package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"idlwrap/pkg/idl/ast"
)

// builder converts a tree-sitter C++ syntax tree into declarations.
type builder struct {
	file      string
	src       []byte
	virtualAt map[uint32]bool
	includes  []*ast.Include
}

func newBuilder(file string, src []byte, virtualAt map[uint32]bool) *builder {
	return &builder{
		file:      file,
		src:       src,
		virtualAt: virtualAt,
	}
}

// buildModule builds the unnamed root namespace from a translation_unit.
func (b *builder) buildModule(root *sitter.Node) *ast.Module {
	content := b.declarations(root)

	return &ast.Module{
		File:     b.file,
		Includes: b.includes,
		Root: ast.BuildNamespace(ast.RawNamespace{
			Name:     "",
			Content:  content,
			Location: ast.Location{File: b.file, Line: 1, Column: 1},
		}),
	}
}

// declarations converts the items of a translation unit or declaration list.
func (b *builder) declarations(list *sitter.Node) []ast.Declaration {
	var content []ast.Declaration

	for i := 0; i < int(list.NamedChildCount()); i++ {
		child := list.NamedChild(i)

		switch child.Type() {
		case "namespace_definition":
			content = append(content, b.namespace(child)...)

		case "class_specifier", "struct_specifier":
			if decl := b.class(child, nil); decl != nil {
				content = append(content, decl)
			}

		case "enum_specifier":
			if decl := b.enum(child); decl != nil {
				content = append(content, decl)
			}

		case "template_declaration":
			content = append(content, b.template(child)...)

		case "declaration":
			content = append(content, b.declaration(child, nil)...)

		case "function_definition":
			if fn := b.function(child, nil); fn != nil {
				content = append(content, fn)
			}

		case "type_definition":
			if td := b.typedef(child); td != nil {
				content = append(content, td)
			}

		case "preproc_include":
			b.include(child)

		case "linkage_specification":
			if body := child.ChildByFieldName("body"); body != nil {
				content = append(content, b.declarations(body)...)
			}

		case "preproc_ifdef", "preproc_if", "preproc_else", "preproc_elif", "ERROR":
			// Conditional blocks and recovered regions hold items directly.
			content = append(content, b.declarations(child)...)
		}
	}

	return content
}

// namespace builds a namespace_definition. "namespace a::b" yields a namespace
// a containing b; an anonymous namespace contributes its content to the
// enclosing one.
func (b *builder) namespace(node *sitter.Node) []ast.Declaration {
	var content []ast.Declaration
	if body := node.ChildByFieldName("body"); body != nil {
		content = b.declarations(body)
	}

	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return content
	}

	names := b.namespaceNames(nameNode)
	loc := location(b.file, node)
	for i := len(names) - 1; i >= 0; i-- {
		ns := ast.BuildNamespace(ast.RawNamespace{
			Name:     names[i],
			Content:  content,
			Location: loc,
		})
		content = []ast.Declaration{ns}
	}
	return content
}

func (b *builder) namespaceNames(node *sitter.Node) []string {
	if node.Type() != "nested_namespace_specifier" {
		return []string{b.text(node)}
	}

	var names []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		names = append(names, b.namespaceNames(node.NamedChild(i))...)
	}
	return names
}

// class builds a class_specifier or struct_specifier. Without a body it is a
// forward declaration.
func (b *builder) class(node *sitter.Node, template []string) ast.Declaration {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	typename := b.typename(nameNode)
	parent := b.baseClass(node)
	virtual := b.virtualAt[node.StartByte()]
	loc := location(b.file, node)

	body := node.ChildByFieldName("body")
	if body == nil {
		return &ast.ForwardDeclaration{
			Typename:    typename,
			ParentClass: parent,
			IsVirtual:   virtual,
			Location:    loc,
		}
	}

	class := &ast.Class{
		Name:        typename.Name,
		ParentClass: parent,
		Template:    template,
		IsVirtual:   virtual,
		Location:    loc,
	}
	b.members(body, class)
	return class
}

func (b *builder) baseClass(node *sitter.Node) *ast.Typename {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		clause := node.NamedChild(i)
		if clause.Type() != "base_class_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			switch base := clause.NamedChild(j); base.Type() {
			case "type_identifier", "qualified_identifier", "template_type":
				tn := b.typename(base)
				return &tn
			}
		}
	}
	return nil
}

// members fills the methods and properties of class from a field_declaration_list.
func (b *builder) members(body *sitter.Node, class *ast.Class) {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		if member.Type() == "template_declaration" {
			member = lastNamedChild(member)
			if member == nil {
				continue
			}
		}

		switch member.Type() {
		case "field_declaration", "declaration", "function_definition":
			b.member(member, class)
		}
	}
}

func (b *builder) member(node *sitter.Node, class *ast.Class) {
	if node.ChildByFieldName("type") == nil {
		// Constructors and destructors carry no type.
		return
	}

	if hasChildType(node, "virtual") {
		class.IsVirtual = true
	}

	for _, d := range b.declarators(node) {
		typ, inner := b.declaredType(node, d)
		if inner == nil {
			continue
		}

		if inner.Type() == "function_declarator" {
			class.Methods = append(class.Methods, &ast.Method{
				Name:       b.declaratorName(inner),
				ReturnType: typ,
				Args:       b.parameters(inner),
				IsStatic:   b.hasStorage(node, "static"),
				IsConst:    b.hasQualifier(inner, "const"),
				Location:   location(b.file, node),
			})
			continue
		}

		class.Properties = append(class.Properties, &ast.Argument{
			Name:    b.declaratorName(inner),
			Type:    typ,
			Default: b.defaultValue(inner),
		})
	}
}

// template builds the declaration wrapped by a template_declaration.
func (b *builder) template(node *sitter.Node) []ast.Declaration {
	params := b.templateParameters(node.ChildByFieldName("parameters"))

	var content []ast.Declaration
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "class_specifier", "struct_specifier":
			if decl := b.class(child, params); decl != nil {
				content = append(content, decl)
			}
		case "declaration":
			content = append(content, b.declaration(child, params)...)
		case "function_definition":
			if fn := b.function(child, params); fn != nil {
				content = append(content, fn)
			}
		case "template_declaration":
			content = append(content, b.template(child)...)
		}
	}
	return content
}

func (b *builder) templateParameters(list *sitter.Node) []string {
	if list == nil {
		return nil
	}

	var names []string
	for i := 0; i < int(list.NamedChildCount()); i++ {
		param := list.NamedChild(i)
		switch param.Type() {
		case "type_parameter_declaration", "variadic_type_parameter_declaration":
			if id := lastNamedChild(param); id != nil {
				names = append(names, b.text(id))
			}
		case "optional_type_parameter_declaration":
			if id := param.ChildByFieldName("name"); id != nil {
				names = append(names, b.text(id))
			}
		case "parameter_declaration", "optional_parameter_declaration":
			if d := param.ChildByFieldName("declarator"); d != nil {
				names = append(names, b.declaratorName(d))
			}
		}
	}
	return names
}

// declaration builds global functions and variables from a declaration.
func (b *builder) declaration(node *sitter.Node, template []string) []ast.Declaration {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return nil
	}

	declarators := b.declarators(node)
	if len(declarators) == 0 {
		// "class X;" can surface as a declaration with only a type.
		if typeNode.Type() == "class_specifier" || typeNode.Type() == "struct_specifier" {
			if decl := b.class(typeNode, template); decl != nil {
				return []ast.Declaration{decl}
			}
		}
		return nil
	}

	var content []ast.Declaration
	for _, d := range declarators {
		typ, inner := b.declaredType(node, d)
		if inner == nil {
			continue
		}

		if inner.Type() == "function_declarator" {
			content = append(content, &ast.GlobalFunction{
				Name:       b.declaratorName(inner),
				ReturnType: typ,
				Args:       b.parameters(inner),
				Template:   template,
				Location:   location(b.file, node),
			})
			continue
		}

		content = append(content, &ast.Variable{
			Name:     b.declaratorName(inner),
			Type:     typ,
			Default:  b.defaultValue(inner),
			Location: location(b.file, node),
		})
	}
	return content
}

// function builds a global function from a function_definition.
func (b *builder) function(node *sitter.Node, template []string) ast.Declaration {
	d := node.ChildByFieldName("declarator")
	if d == nil || node.ChildByFieldName("type") == nil {
		return nil
	}

	typ, inner := b.declaredType(node, d)
	if inner == nil || inner.Type() != "function_declarator" {
		return nil
	}

	return &ast.GlobalFunction{
		Name:       b.declaratorName(inner),
		ReturnType: typ,
		Args:       b.parameters(inner),
		Template:   template,
		Location:   location(b.file, node),
	}
}

// typedef builds a template instantiation alias. Typedefs of non-template types
// are not part of the declaration model and are skipped.
func (b *builder) typedef(node *sitter.Node) ast.Declaration {
	typeNode := node.ChildByFieldName("type")
	d := node.ChildByFieldName("declarator")
	if typeNode == nil || d == nil {
		return nil
	}

	typename := b.typename(typeNode)
	if len(typename.Instantiations) == 0 {
		return nil
	}

	return &ast.TypedefTemplateInstantiation{
		Name:     b.declaratorName(d),
		Typename: typename,
		Location: location(b.file, node),
	}
}

func (b *builder) enum(node *sitter.Node) ast.Declaration {
	nameNode := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")
	if nameNode == nil || body == nil {
		return nil
	}

	enum := &ast.Enum{
		Name:     b.text(nameNode),
		IsScoped: hasChildType(node, "class") || hasChildType(node, "struct"),
		Location: location(b.file, node),
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		e := body.NamedChild(i)
		if e.Type() != "enumerator" {
			continue
		}
		if name := e.ChildByFieldName("name"); name != nil {
			enum.Enumerators = append(enum.Enumerators, b.text(name))
		}
	}
	return enum
}

func (b *builder) include(node *sitter.Node) {
	path := node.ChildByFieldName("path")
	if path == nil {
		return
	}
	b.includes = append(b.includes, &ast.Include{
		Path:     strings.Trim(b.text(path), `"<>`),
		Location: location(b.file, node),
	})
}

func (b *builder) parameters(fn *sitter.Node) []*ast.Argument {
	list := fn.ChildByFieldName("parameters")
	if list == nil {
		return nil
	}

	var args []*ast.Argument
	for i := 0; i < int(list.NamedChildCount()); i++ {
		param := list.NamedChild(i)
		if param.Type() != "parameter_declaration" && param.Type() != "optional_parameter_declaration" {
			continue
		}

		arg := &ast.Argument{}
		d := param.ChildByFieldName("declarator")
		if d != nil {
			var inner *sitter.Node
			arg.Type, inner = b.declaredType(param, d)
			if inner != nil {
				arg.Name = b.declaratorName(inner)
			}
		} else {
			arg.Type = b.baseType(param)
		}
		if def := param.ChildByFieldName("default_value"); def != nil {
			arg.Default = b.text(def)
		}
		args = append(args, arg)
	}
	return args
}

// declarators returns the declarator children of a declaration-like node.
func (b *builder) declarators(node *sitter.Node) []*sitter.Node {
	var result []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "identifier", "field_identifier", "init_declarator", "function_declarator",
			"pointer_declarator", "reference_declarator", "array_declarator":
			result = append(result, child)
		}
	}
	return result
}

// declaredType combines the type specifier of node with the pointer and
// reference wrappers of declarator d, and returns the innermost declarator.
func (b *builder) declaredType(node, d *sitter.Node) (ast.Type, *sitter.Node) {
	typ := b.baseType(node)

	for d != nil {
		switch d.Type() {
		case "pointer_declarator":
			typ.IsPtr = true
		case "reference_declarator":
			typ.IsRef = true
		default:
			return typ, d
		}
		d = innerDeclarator(d)
	}
	return typ, d
}

func (b *builder) baseType(node *sitter.Node) ast.Type {
	typ := ast.Type{IsConst: b.hasQualifier(node, "const")}
	if t := node.ChildByFieldName("type"); t != nil {
		typ.Typename = b.typename(t)
	}
	return typ
}

// typename converts a type node into a Typename.
func (b *builder) typename(node *sitter.Node) ast.Typename {
	if node == nil {
		return ast.Typename{}
	}

	switch node.Type() {
	case "qualified_identifier":
		inner := b.typename(node.ChildByFieldName("name"))
		var namespaces []string
		if scope := node.ChildByFieldName("scope"); scope != nil {
			outer := b.typename(scope)
			namespaces = append(outer.Namespaces, outer.Name)
		}
		return ast.Typename{
			Namespaces:     append(namespaces, inner.Namespaces...),
			Name:           inner.Name,
			Instantiations: inner.Instantiations,
		}

	case "template_type":
		tn := b.typename(node.ChildByFieldName("name"))
		if args := node.ChildByFieldName("arguments"); args != nil {
			for i := 0; i < int(args.NamedChildCount()); i++ {
				arg := args.NamedChild(i)
				if arg.Type() == "type_descriptor" {
					tn.Instantiations = append(tn.Instantiations, b.typename(arg.ChildByFieldName("type")))
					continue
				}
				tn.Instantiations = append(tn.Instantiations, ast.Typename{Name: b.text(arg)})
			}
		}
		return tn

	case "type_descriptor":
		return b.typename(node.ChildByFieldName("type"))

	case "dependent_type":
		return b.typename(node.NamedChild(0))

	default:
		return ast.Typename{Name: strings.Join(strings.Fields(b.text(node)), " ")}
	}
}

// declaratorName returns the declared name of an innermost declarator.
func (b *builder) declaratorName(d *sitter.Node) string {
	if d == nil {
		return ""
	}

	switch d.Type() {
	case "function_declarator", "init_declarator", "array_declarator":
		if inner := d.ChildByFieldName("declarator"); inner != nil {
			return b.declaratorName(inner)
		}
	case "qualified_identifier":
		if name := d.ChildByFieldName("name"); name != nil {
			return b.declaratorName(name)
		}
	case "pointer_declarator", "reference_declarator":
		if inner := innerDeclarator(d); inner != nil {
			return b.declaratorName(inner)
		}
	}
	return b.text(d)
}

func (b *builder) defaultValue(d *sitter.Node) string {
	if d.Type() != "init_declarator" {
		return ""
	}
	if value := d.ChildByFieldName("value"); value != nil {
		return b.text(value)
	}
	return ""
}

func (b *builder) hasQualifier(node *sitter.Node, qualifier string) bool {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "type_qualifier" && b.text(child) == qualifier {
			return true
		}
	}
	return false
}

func (b *builder) hasStorage(node *sitter.Node, class string) bool {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "storage_class_specifier" && b.text(child) == class {
			return true
		}
	}
	return false
}

func (b *builder) text(node *sitter.Node) string {
	return node.Content(b.src)
}

// innerDeclarator returns the declarator wrapped by a pointer or reference
// declarator. Reference declarators have no field name for it.
func innerDeclarator(d *sitter.Node) *sitter.Node {
	if inner := d.ChildByFieldName("declarator"); inner != nil {
		return inner
	}
	return lastNamedChild(d)
}

func lastNamedChild(node *sitter.Node) *sitter.Node {
	n := int(node.NamedChildCount())
	if n == 0 {
		return nil
	}
	return node.NamedChild(n - 1)
}

func hasChildType(node *sitter.Node, typ string) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == typ {
			return true
		}
	}
	return false
}
