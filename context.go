package salad

// ResolutionContext is the active base identifier and vocabulary mapping used
// to expand relative identifiers while decoding a document subtree. Contexts
// are immutable values: a nested document that declares its own base produces
// a child context for its subtree and the parent's context is simply used
// again afterwards, so concurrent decodes never share mutable state.
type ResolutionContext struct {
	base  string
	vocab *vocabLayer
}

// vocabLayer is one link of a read-through scope chain: overrides shadow,
// non-overridden terms remain visible through parent. The pointer doubles as
// the vocabulary's identity for memoization.
type vocabLayer struct {
	terms  map[string]string
	parent *vocabLayer
}

// NewContext builds a root resolution context. base should be absolute; vocab
// maps short vocabulary terms to absolute identifiers or prefixes and may be
// nil.
func NewContext(base string, vocab map[string]string) ResolutionContext {
	c := ResolutionContext{base: base}
	if len(vocab) > 0 {
		c.vocab = &vocabLayer{terms: cloneTerms(vocab)}
	}
	return c
}

// Base returns the context's absolute base identifier.
func (c ResolutionContext) Base() string { return c.base }

// WithBase derives a child context whose base is ref normalized against the
// receiver. The vocabulary chain is shared untouched.
func (c ResolutionContext) WithBase(ref string) (ResolutionContext, error) {
	abs, err := Normalize(ref, c)
	if err != nil {
		return c, err
	}
	return ResolutionContext{base: abs, vocab: c.vocab}, nil
}

// WithVocabulary derives a child context layering term overrides on top of the
// receiver's vocabulary. Terms not overridden stay visible.
func (c ResolutionContext) WithVocabulary(terms map[string]string) ResolutionContext {
	if len(terms) == 0 {
		return c
	}
	return ResolutionContext{base: c.base, vocab: &vocabLayer{terms: cloneTerms(terms), parent: c.vocab}}
}

// Term resolves a vocabulary term through the scope chain.
func (c ResolutionContext) Term(name string) (string, bool) {
	for l := c.vocab; l != nil; l = l.parent {
		if v, ok := l.terms[name]; ok {
			return v, true
		}
	}
	return "", false
}

func cloneTerms(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
