// Package ast provides the declaration tree produced by the idlwrap interface parser.
//
// An interface file is represented as a tree of namespaces. Each namespace owns an
// ordered list of declarations, and every declaration carries a non-owning reference
// back to the namespace that lexically contains it. The root namespace of a file has
// an empty name and no parent.
//
// # Core Types
//
// Namespace: Named (or root) container of declarations, possibly nested
//
// Class: Class declaration with optional base class, template parameters, methods and properties
//
// GlobalFunction: Free function declared inside a namespace
//
// ForwardDeclaration: Declaration of a class defined elsewhere
//
// Enum: Enumeration with its enumerators
//
// Variable: Namespace-level variable or constant
//
// TypedefTemplateInstantiation: Alias for an instantiated class template
//
// Typename: Qualified type reference (namespace path plus terminal name)
//
// Location: Source location (file, line, column)
//
// # Declaration Kinds
//
// Declaration is a closed interface: only the seven types above implement it. Use a
// type switch or Kind() to dispatch:
//
//	for _, decl := range ns.Content {
//	    switch d := decl.(type) {
//	    case *ast.Namespace:
//	        fmt.Println("namespace", d.Name)
//	    case *ast.Class:
//	        fmt.Println("class", d.Name)
//	    }
//	}
//
// # Building Trees
//
// Trees are built bottom-up. NewNamespace stamps the parent reference of every direct
// child, so nested namespaces are linked by their own constructor call:
//
//	inner := ast.NewNamespace("b", []ast.Declaration{&ast.Class{Name: "Widget"}})
//	outer := ast.NewNamespace("a", []ast.Declaration{inner})
//	root := ast.NewNamespace("", []ast.Declaration{outer})
//
//	fmt.Println(inner.FullNamespaces()) // [a b]
//	fmt.Println(inner.TopLevel() == root) // true
//
// A built tree must be treated as read-only. Queries never mutate it, so they may run
// concurrently.
package ast
