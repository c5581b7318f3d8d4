package validator

import (
	"context"
	"fmt"

	"idlwrap/pkg/idl/ast"
	idlerrors "idlwrap/pkg/idl/errors"
)

// StructuralValidator checks declaration shapes that need no name resolution.
type StructuralValidator struct {
	ctx    context.Context
	errors *idlerrors.ErrorList
}

// NewStructuralValidator creates a new structural validator.
func NewStructuralValidator() *StructuralValidator {
	return &StructuralValidator{
		ctx:    context.Background(),
		errors: idlerrors.NewErrorList(),
	}
}

// Validate performs structural validation on a module.
// It returns an ErrorList containing all structural errors found.
func (v *StructuralValidator) Validate(module *ast.Module) error {
	return v.ValidateContext(context.Background(), module)
}

// ValidateContext is Validate that stops with ctx's error once ctx is done.
func (v *StructuralValidator) ValidateContext(ctx context.Context, module *ast.Module) error {
	v.ctx = ctx
	v.errors = idlerrors.NewErrorList()

	if module.Root == nil {
		v.errors.AddError(idlerrors.ErrorTypeStructural, "module has no root namespace", ast.Location{File: module.File})
		return v.errors.ToError()
	}

	if err := ast.Walk(module.Root, v); err != nil {
		return err
	}
	return v.errors.ToError()
}

func (v *StructuralValidator) VisitNamespace(ns *ast.Namespace) error {
	if ns.Name == "" && ns.Parent() != nil {
		v.errors.AddError(idlerrors.ErrorTypeStructural, "nested namespace has no name", ns.Location)
	}
	return v.ctx.Err()
}

func (v *StructuralValidator) VisitClass(c *ast.Class) error {
	v.requireName(c)
	v.checkUnique("template parameter", c.Template, c.Location)

	for _, m := range c.Methods {
		v.checkArguments(c.Name+"::"+m.Name, m.Args, m.Location)
	}

	names := make([]string, 0, len(c.Properties))
	for _, p := range c.Properties {
		names = append(names, p.Name)
	}
	v.checkUnique(fmt.Sprintf("property of class %q", c.Name), names, c.Location)
	return nil
}

func (v *StructuralValidator) VisitGlobalFunction(f *ast.GlobalFunction) error {
	v.requireName(f)
	v.checkUnique("template parameter", f.Template, f.Location)
	v.checkArguments(f.Name, f.Args, f.Location)
	return nil
}

func (v *StructuralValidator) VisitForwardDeclaration(f *ast.ForwardDeclaration) error {
	v.requireName(f)
	return nil
}

func (v *StructuralValidator) VisitEnum(e *ast.Enum) error {
	v.requireName(e)
	v.checkUnique(fmt.Sprintf("enumerator of %q", e.Name), e.Enumerators, e.Location)
	return nil
}

func (v *StructuralValidator) VisitVariable(variable *ast.Variable) error {
	v.requireName(variable)
	return nil
}

func (v *StructuralValidator) VisitTypedef(t *ast.TypedefTemplateInstantiation) error {
	v.requireName(t)
	if len(t.Typename.Instantiations) == 0 {
		v.errors.AddError(idlerrors.ErrorTypeStructural,
			fmt.Sprintf("typedef %q does not instantiate a template", t.Name), t.Location)
	}
	return nil
}

func (v *StructuralValidator) requireName(decl ast.Declaration) {
	if decl.DeclName() == "" {
		v.errors.AddError(idlerrors.ErrorTypeStructural,
			fmt.Sprintf("%s declaration has no name", decl.Kind()), decl.Pos())
	}
}

func (v *StructuralValidator) checkArguments(owner string, args []*ast.Argument, loc ast.Location) {
	names := make([]string, 0, len(args))
	for _, a := range args {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	v.checkUnique(fmt.Sprintf("argument of %q", owner), names, loc)
}

func (v *StructuralValidator) checkUnique(what string, names []string, loc ast.Location) {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			v.errors.AddError(idlerrors.ErrorTypeStructural,
				fmt.Sprintf("duplicate %s %q", what, name), loc)
		}
		seen[name] = true
	}
}
