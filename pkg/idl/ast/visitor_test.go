package ast

import (
	"errors"
	"reflect"
	"testing"
)

type recordingVisitor struct {
	visited []string
	stopAt  string
}

func (v *recordingVisitor) record(kind Kind, name string) error {
	v.visited = append(v.visited, string(kind)+":"+name)
	if name != "" && name == v.stopAt {
		return errors.New("stop")
	}
	return nil
}

func (v *recordingVisitor) VisitNamespace(ns *Namespace) error { return v.record(ns.Kind(), ns.Name) }
func (v *recordingVisitor) VisitClass(c *Class) error           { return v.record(c.Kind(), c.Name) }
func (v *recordingVisitor) VisitGlobalFunction(f *GlobalFunction) error {
	return v.record(f.Kind(), f.Name)
}
func (v *recordingVisitor) VisitForwardDeclaration(f *ForwardDeclaration) error {
	return v.record(f.Kind(), f.DeclName())
}
func (v *recordingVisitor) VisitEnum(e *Enum) error         { return v.record(e.Kind(), e.Name) }
func (v *recordingVisitor) VisitVariable(x *Variable) error { return v.record(x.Kind(), x.Name) }
func (v *recordingVisitor) VisitTypedef(td *TypedefTemplateInstantiation) error {
	return v.record(td.Kind(), td.Name)
}

func sampleTree() *Namespace {
	return NewNamespace("", []Declaration{
		NewNamespace("a", []Declaration{
			&Class{Name: "Widget"},
			NewNamespace("b", []Declaration{
				&GlobalFunction{Name: "make"},
			}),
			&Enum{Name: "Color"},
		}),
		&ForwardDeclaration{Typename: NewTypename(nil, "Gadget")},
		&Variable{Name: "kPi"},
		&TypedefTemplateInstantiation{Name: "WidgetD"},
	})
}

func TestWalk(t *testing.T) {
	v := &recordingVisitor{}
	if err := Walk(sampleTree(), v); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	want := []string{
		"namespace:",
		"namespace:a",
		"class:Widget",
		"namespace:b",
		"function:make",
		"enum:Color",
		"forward_declaration:Gadget",
		"variable:kPi",
		"typedef_instantiation:WidgetD",
	}
	if !reflect.DeepEqual(v.visited, want) {
		t.Errorf("Walk() visited %v, want %v", v.visited, want)
	}
}

func TestWalk_StopsOnError(t *testing.T) {
	v := &recordingVisitor{stopAt: "make"}
	if err := Walk(sampleTree(), v); err == nil {
		t.Fatal("Walk() error = nil, want error")
	}
	if last := v.visited[len(v.visited)-1]; last != "function:make" {
		t.Errorf("last visited = %q, want function:make", last)
	}
}

func TestCountByKind(t *testing.T) {
	counts := CountByKind(sampleTree())

	want := map[Kind]int{
		KindNamespace:            3,
		KindClass:                1,
		KindGlobalFunction:       1,
		KindEnum:                 1,
		KindForwardDeclaration:   1,
		KindVariable:             1,
		KindTypedefInstantiation: 1,
	}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("CountByKind() = %v, want %v", counts, want)
	}
}
