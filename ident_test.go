package salad_test

import (
	"testing"

	salad "github.com/giuseppe998e/schema-salad"
)

func TestNormalize_AbsolutePassesThrough(t *testing.T) {
	ctx := salad.NewContext("http://ex.org/", nil)
	got, err := salad.Normalize("https://other.org/x#y", ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "https://other.org/x#y" {
		t.Fatalf("absolute identifier rewritten: %q", got)
	}
}

func TestNormalize_RelativeAgainstBase(t *testing.T) {
	ctx := salad.NewContext("http://ex.org/", nil)
	got, err := salad.Normalize("foo", ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "http://ex.org/foo" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalize_DotSegmentsRemoved(t *testing.T) {
	ctx := salad.NewContext("http://ex.org/a/b/", nil)
	got, err := salad.Normalize("../c?q=1#frag", ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "http://ex.org/a/c?q=1#frag" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalize_VocabularyTerm(t *testing.T) {
	ctx := salad.NewContext("http://ex.org/", map[string]string{
		"label": "http://vocab.org/label",
	})
	got, err := salad.Normalize("label", ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "http://vocab.org/label" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalize_PrefixExpansionBeatsSchemeTest(t *testing.T) {
	ctx := salad.NewContext("http://ex.org/", map[string]string{
		"xsd": "http://www.w3.org/2001/XMLSchema#",
	})
	got, err := salad.Normalize("xsd:int", ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "http://www.w3.org/2001/XMLSchema#int" {
		t.Fatalf("got %q", got)
	}
	// an undeclared prefix with a scheme shape stays as-is
	got, err = salad.Normalize("urn:uuid:1234", ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "urn:uuid:1234" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	ctx := salad.NewContext("http://ex.org/", map[string]string{
		"label": "http://vocab.org/label",
	})
	for _, raw := range []string{"foo", "label", "https://abs.org/x", "a/b#c"} {
		once, err := salad.Normalize(raw, ctx)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		twice, err := salad.Normalize(once, ctx)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if once != twice {
			t.Fatalf("not idempotent: %q -> %q -> %q", raw, once, twice)
		}
	}
}

func TestContext_WithBaseResolvesAgainstParent(t *testing.T) {
	parent := salad.NewContext("http://ex.org/", nil)
	child, err := parent.WithBase("sub/")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got, err := salad.Normalize("bar", child)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "http://ex.org/sub/bar" {
		t.Fatalf("got %q", got)
	}
	// parent context untouched
	got, err = salad.Normalize("bar", parent)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "http://ex.org/bar" {
		t.Fatalf("parent base disturbed: %q", got)
	}
}

func TestContext_VocabularyOverridesShadow(t *testing.T) {
	parent := salad.NewContext("http://ex.org/", map[string]string{
		"a": "http://vocab.org/a",
		"b": "http://vocab.org/b",
	})
	child := parent.WithVocabulary(map[string]string{
		"a": "http://other.org/a",
	})

	if got, _ := salad.Normalize("a", child); got != "http://other.org/a" {
		t.Fatalf("override not visible: %q", got)
	}
	// non-overridden terms read through to the parent layer
	if got, _ := salad.Normalize("b", child); got != "http://vocab.org/b" {
		t.Fatalf("parent term lost: %q", got)
	}
	if got, _ := salad.Normalize("a", parent); got != "http://vocab.org/a" {
		t.Fatalf("parent shadowed in place: %q", got)
	}
}

func TestNormalize_EmptyBaseLeavesRelativeAlone(t *testing.T) {
	ctx := salad.NewContext("", nil)
	got, err := salad.Normalize("foo", ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "foo" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalize_MemoizedResultStable(t *testing.T) {
	ctx := salad.NewContext("http://ex.org/memo/", nil)
	first, err := salad.Normalize("x", ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for i := 0; i < 100; i++ {
		again, err := salad.Normalize("x", ctx)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if again != first {
			t.Fatalf("memoized value drifted: %q vs %q", again, first)
		}
	}
}
