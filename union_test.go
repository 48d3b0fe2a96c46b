package salad_test

import (
	"context"
	"testing"

	salad "github.com/giuseppe998e/schema-salad"
)

func resolveU(t *testing.T, reg *salad.Registry, union string, node any) (string, any) {
	t.Helper()
	ref, v, err := salad.ResolveUnion(context.Background(), reg, node,
		reg.CandidatesOf(reg.MustRef(union)), salad.NewContext("http://ex.org/", nil))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return reg.Resolve(ref).Name, v
}

func TestResolveUnion_ScalarKinds(t *testing.T) {
	reg, err := salad.NewRegistryBuilder().
		Enum("Color", "red", "green").
		Union("U", "null", "boolean", "Color", "long", "double", "string").
		Build()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if name, _ := resolveU(t, reg, "U", nil); name != "null" {
		t.Fatalf("nil resolved to %s", name)
	}
	if name, _ := resolveU(t, reg, "U", true); name != "boolean" {
		t.Fatalf("bool resolved to %s", name)
	}
	if name, v := resolveU(t, reg, "U", "red"); name != "Color" || v != "red" {
		t.Fatalf("enum member resolved to %s (%v)", name, v)
	}
	if name, _ := resolveU(t, reg, "U", "anything else"); name != "string" {
		t.Fatalf("plain string resolved to %s", name)
	}
	if name, v := resolveU(t, reg, "U", int64(7)); name != "long" || v != int64(7) {
		t.Fatalf("integer resolved to %s (%v)", name, v)
	}
	if name, _ := resolveU(t, reg, "U", 1.5); name != "double" {
		t.Fatalf("float resolved to %s", name)
	}
}

func TestResolveUnion_OrderIsAuthoritative(t *testing.T) {
	build := func(first, second string) *salad.Registry {
		reg, err := salad.NewRegistryBuilder().
			Array("LongArray", "long").
			Array("DoubleArray", "double").
			Union("U", first, second).
			Build()
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		return reg
	}

	// [1, 2] satisfies both array candidates by pure kind
	node := []any{int64(1), int64(2)}

	reg := build("LongArray", "DoubleArray")
	if name, _ := resolveU(t, reg, "U", node); name != "LongArray" {
		t.Fatalf("earlier candidate should win, got %s", name)
	}

	reg = build("DoubleArray", "LongArray")
	if name, _ := resolveU(t, reg, "U", node); name != "DoubleArray" {
		t.Fatalf("reordered candidate should win, got %s", name)
	}
}

func TestResolveUnion_NestedUnionsFlatten(t *testing.T) {
	reg, err := salad.NewRegistryBuilder().
		Union("Inner", "long", "string").
		Union("Outer", "boolean", "Inner").
		Build()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if name, _ := resolveU(t, reg, "Outer", "hi"); name != "string" {
		t.Fatalf("nested candidate not reachable, got %s", name)
	}
}

func TestResolveUnion_RecordBatchGoesToMatcher(t *testing.T) {
	reg, err := salad.NewRegistryBuilder().
		Record("Circle", "",
			salad.DiscriminantField("type", "string", "circle"),
			salad.RequiredField("radius", "double"),
		).
		Record("Square", "",
			salad.DiscriminantField("type", "string", "square"),
			salad.RequiredField("side", "long"),
		).
		Union("Shape", "Circle", "Square", "string").
		Build()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	name, v := resolveU(t, reg, "Shape", map[string]any{"type": "square", "side": int64(4)})
	if name != "Square" {
		t.Fatalf("got %s", name)
	}
	rec, ok := v.(map[string]any)
	if !ok || rec["side"] != int64(4) {
		t.Fatalf("decoded record wrong: %#v", v)
	}

	// strings remain reachable after the record batch fails
	if name, _ := resolveU(t, reg, "Shape", "free text"); name != "string" {
		t.Fatalf("got %s", name)
	}
}

func TestResolveUnion_NoMatchReportsAllCandidates(t *testing.T) {
	reg, err := salad.NewRegistryBuilder().
		Array("LongArray", "long").
		Union("U", "boolean", "LongArray").
		Build()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, _, err = salad.ResolveUnion(context.Background(), reg, "nope",
		reg.CandidatesOf(reg.MustRef("U")), salad.NewContext("", nil))
	iss, ok := salad.AsIssues(err)
	if !ok || !iss.HasCode(salad.CodeNoMatchingType) {
		t.Fatalf("want no_matching_type, got %v", err)
	}
	names, _ := iss[0].Params["candidates"].([]string)
	if len(names) != 2 || names[0] != "boolean" || names[1] != "LongArray" {
		t.Fatalf("candidates not reported: %v", iss[0].Params)
	}
}

func TestResolveUnion_ArrayElementMismatchFallsThrough(t *testing.T) {
	reg, err := salad.NewRegistryBuilder().
		Array("LongArray", "long").
		Array("StringArray", "string").
		Union("U", "LongArray", "StringArray").
		Build()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// element kinds disqualify the first candidate before commitment
	if name, _ := resolveU(t, reg, "U", []any{"a", "b"}); name != "StringArray" {
		t.Fatalf("got %s", name)
	}
}
