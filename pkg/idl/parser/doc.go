// Package parser turns C++-header-style interface files into namespace trees.
//
// The grammar engine is tree-sitter with its C++ grammar. The builder walks the
// concrete syntax tree once, maps the node types it understands to
// declarations, and assembles each namespace bottom-up with ast.BuildNamespace
// so that every declaration's parent is set when its namespace is constructed.
//
// Recognized constructs:
//
//	namespace a { ... }             nested namespace (a::b expands to two levels)
//	class X : Base { ... };         class with methods and properties
//	virtual class X { ... };        class marked virtual (wrapper extension)
//	class a::X;                     forward declaration
//	template <typename T> class X   class template parameters
//	R f(Args...);                   global function
//	enum [class] E { ... };         enumeration
//	const T name = value;           variable
//	typedef ns::T<A, B> Alias;      template instantiation typedef
//	#include <path>                 file-level include
//
// Everything else is skipped. Syntax errors fail the parse in strict mode;
// otherwise they are logged and the recognizable parts of the file are kept.
package parser
