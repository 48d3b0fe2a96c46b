package salad

import (
	"net/url"
	"strings"
	"sync"

	"github.com/giuseppe998e/schema-salad/i18n"
)

// identMemo caches normalization results keyed by the raw string plus the
// context's identity. Concurrent decodes may race to populate the same entry;
// the computation is idempotent, so a duplicate store is benign. Entries are
// never removed or overwritten with a different value.
var identMemo sync.Map // identKey -> string

type identKey struct {
	raw   string
	base  string
	vocab *vocabLayer
}

// Normalize expands an identifier read from a document into canonical
// absolute form under ctx. Rules, applied in order: a vocabulary term (or a
// term-prefixed compact form) substitutes its mapped absolute value; an
// already-absolute identifier passes through unchanged; anything else is
// resolved against ctx.Base with standard relative-reference resolution.
// Resolution is pure string algebra; no file or network access ever happens
// here.
func Normalize(raw string, ctx ResolutionContext) (string, error) {
	key := identKey{raw: raw, base: ctx.base, vocab: ctx.vocab}
	if v, ok := identMemo.Load(key); ok {
		return v.(string), nil
	}
	abs, err := normalize(raw, ctx)
	if err != nil {
		return "", err
	}
	identMemo.Store(key, abs)
	return abs, nil
}

func normalize(raw string, ctx ResolutionContext) (string, error) {
	if raw == "" {
		return ctx.base, nil
	}
	if mapped, ok := ctx.Term(raw); ok {
		return mapped, nil
	}
	// Compact form: the part before ':' may be a declared vocabulary prefix.
	// Checked before the scheme test, otherwise every prefixed identifier
	// would look absolute.
	if i := strings.IndexByte(raw, ':'); i > 0 {
		if mapped, ok := ctx.Term(raw[:i]); ok {
			return mapped + raw[i+1:], nil
		}
	}
	if hasScheme(raw) {
		return raw, nil
	}
	if ctx.base == "" {
		return raw, nil
	}
	base, err := url.Parse(ctx.base)
	if err != nil {
		return "", Issues{Issue{
			Path: "/", Code: CodeInvalidIdentifier,
			Message: i18n.T(CodeInvalidIdentifier, nil),
			Hint:    "unparsable base: " + ctx.base, Cause: err,
		}}
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", Issues{Issue{
			Path: "/", Code: CodeInvalidIdentifier,
			Message: i18n.T(CodeInvalidIdentifier, nil),
			Hint:    "unparsable identifier: " + raw, Cause: err,
		}}
	}
	return base.ResolveReference(ref).String(), nil
}

// hasScheme reports whether s starts with an RFC 3986 scheme followed by ':'.
func hasScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ':':
			return i > 0
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return false
}
