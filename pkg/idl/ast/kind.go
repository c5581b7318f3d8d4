package ast

// Kind identifies the variant of a Declaration.
type Kind string

const (
	KindNamespace            Kind = "namespace"
	KindClass                Kind = "class"
	KindGlobalFunction       Kind = "function"
	KindForwardDeclaration   Kind = "forward_declaration"
	KindEnum                 Kind = "enum"
	KindVariable             Kind = "variable"
	KindTypedefInstantiation Kind = "typedef_instantiation"
)

// Kinds lists every declaration kind in a stable order.
var Kinds = []Kind{
	KindNamespace,
	KindClass,
	KindGlobalFunction,
	KindForwardDeclaration,
	KindEnum,
	KindVariable,
	KindTypedefInstantiation,
}

// Resolvable reports whether declarations of this kind are candidates for
// typename resolution. Only classes, global functions and forward declarations are.
func (k Kind) Resolvable() bool {
	switch k {
	case KindClass, KindGlobalFunction, KindForwardDeclaration:
		return true
	default:
		return false
	}
}

// IsValid returns true if k is one of the known declaration kinds.
func (k Kind) IsValid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}
