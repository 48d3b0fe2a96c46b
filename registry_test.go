package salad_test

import (
	"testing"

	salad "github.com/giuseppe998e/schema-salad"
)

func TestRegistry_BuildHappyPath(t *testing.T) {
	reg, err := salad.NewRegistryBuilder().
		Enum("Color", "red", "green").
		Array("StringArray", "string").
		Record("Named", "",
			salad.IdentifierField("id", "string"),
			salad.DefaultedField("label", "string", "unnamed"),
		).
		Record("Tagged", "Named",
			salad.RequiredField("tags", "StringArray"),
		).
		Union("NamedOrString", "Named", "string").
		Build()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	ref := reg.MustRef("Tagged")
	td := reg.Resolve(ref)
	if td.Kind != salad.KindRecord || td.Name != "Tagged" {
		t.Fatalf("unexpected descriptor: %+v", td)
	}

	u := reg.MustRef("NamedOrString")
	cands := reg.CandidatesOf(u)
	if len(cands) != 2 || reg.Resolve(cands[0]).Name != "Named" || reg.Resolve(cands[1]).Name != "string" {
		t.Fatalf("candidate order not preserved: %v", cands)
	}

	// builtins are pre-declared
	if _, ok := reg.Ref("long"); !ok {
		t.Fatalf("builtin long missing")
	}
}

func TestRegistry_DanglingReferenceFailsLoad(t *testing.T) {
	_, err := salad.NewRegistryBuilder().
		Record("R", "", salad.RequiredField("x", "Missing")).
		Build()
	iss, ok := salad.AsIssues(err)
	if !ok || !iss.HasCode(salad.CodeDanglingTypeRef) {
		t.Fatalf("want dangling_type_reference, got %v", err)
	}
}

func TestRegistry_DanglingUnionCandidateFailsLoad(t *testing.T) {
	_, err := salad.NewRegistryBuilder().
		Union("U", "Nope").
		Build()
	iss, ok := salad.AsIssues(err)
	if !ok || !iss.HasCode(salad.CodeDanglingTypeRef) {
		t.Fatalf("want dangling_type_reference, got %v", err)
	}
}

func TestRegistry_EmptyUnionFailsLoad(t *testing.T) {
	_, err := salad.NewRegistryBuilder().
		Union("U").
		Build()
	iss, ok := salad.AsIssues(err)
	if !ok || !iss.HasCode(salad.CodeEmptyUnion) {
		t.Fatalf("want empty_union, got %v", err)
	}
}

func TestRegistry_InheritanceCycleFailsLoad(t *testing.T) {
	_, err := salad.NewRegistryBuilder().
		Record("A", "B").
		Record("B", "A").
		Build()
	iss, ok := salad.AsIssues(err)
	if !ok || !iss.HasCode(salad.CodeInheritanceCycle) {
		t.Fatalf("want inheritance_cycle, got %v", err)
	}
}

func TestRegistry_SelfCycleFailsLoad(t *testing.T) {
	_, err := salad.NewRegistryBuilder().
		Record("A", "A").
		Build()
	iss, ok := salad.AsIssues(err)
	if !ok || !iss.HasCode(salad.CodeInheritanceCycle) {
		t.Fatalf("want inheritance_cycle, got %v", err)
	}
}

func TestRegistry_DuplicateDeclarationFailsLoad(t *testing.T) {
	_, err := salad.NewRegistryBuilder().
		Enum("E", "a").
		Enum("E", "b").
		Build()
	if err == nil {
		t.Fatalf("expected load failure for duplicate declaration")
	}
}

func TestRegistry_NonRecordBaseFailsLoad(t *testing.T) {
	_, err := salad.NewRegistryBuilder().
		Record("R", "string").
		Build()
	if err == nil {
		t.Fatalf("expected load failure for non-record base")
	}
}

func TestRegistry_RecursiveTypesAreFine(t *testing.T) {
	// a record field typed as a union that includes the record itself
	reg, err := salad.NewRegistryBuilder().
		Union("TreeOrLeaf", "Tree", "string").
		Record("Tree", "", salad.OptionalField("child", "TreeOrLeaf")).
		Build()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := reg.Ref("Tree"); !ok {
		t.Fatalf("Tree missing")
	}
}
