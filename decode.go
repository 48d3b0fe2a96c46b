package salad

import (
	"context"
	"math"
	"sort"
	"strconv"

	"github.com/giuseppe998e/schema-salad/i18n"
)

// Decode walks a generic value tree against the expected type and returns the
// effective-field-complete value, or Issues carrying the failing paths. The
// resolution context threads down the call tree by value; a subtree declaring
// its own base never disturbs its siblings.
func Decode(ctx context.Context, reg *Registry, ref TypeRef, node any, rctx ResolutionContext, opts ...DecodeOpt) (any, error) {
	d, dc := newDecode(ctx, reg, opts, false)
	v, iss := d.decodeValue(dc, node, ref, rctx, "")
	if len(iss) > 0 {
		return nil, iss
	}
	return v, nil
}

// DecodeWithMeta decodes like Decode and additionally collects presence
// metadata (seen / was-null / default-applied per JSON Pointer), which keeps
// "absent" distinguishable from "explicitly null" in the result.
func DecodeWithMeta(ctx context.Context, reg *Registry, ref TypeRef, node any, rctx ResolutionContext, opts ...DecodeOpt) (Decoded[any], error) {
	d, dc := newDecode(ctx, reg, opts, true)
	v, iss := d.decodeValue(dc, node, ref, rctx, "")
	out := Decoded[any]{Value: v, Presence: dc.pm}
	if len(iss) > 0 {
		return out, iss
	}
	return out, nil
}

// ResolveUnion is the entry point generated decode functions use when a
// field's declared type is a union: it picks the concrete candidate for the
// node and returns the decoded value alongside the winning ref.
func ResolveUnion(ctx context.Context, reg *Registry, node any, candidates []TypeRef, rctx ResolutionContext, opts ...DecodeOpt) (TypeRef, any, error) {
	d, dc := newDecode(ctx, reg, opts, false)
	ref, v, iss := d.resolveUnion(dc, node, candidates, rctx, "")
	if len(iss) > 0 {
		return NoRef, nil, iss
	}
	return ref, v, nil
}

// MatchRecord exposes the record matcher's discriminant-first policy for
// callers that only need the winning type, not a decoded value.
func MatchRecord(reg *Registry, node map[string]any, candidates []TypeRef) (TypeRef, error) {
	d := &decoder{reg: reg}
	ref, iss := d.matchRecord(node, candidates, "")
	if len(iss) > 0 {
		return NoRef, iss
	}
	return ref, nil
}

// ---- decode-time context flags (mirrors the option struct onto ctx so deep
// recursion does not have to thread DecodeOpt explicitly) ----

type contextKey int

const _ctxKeyFailFast contextKey = iota

// WithFailFast returns a child context that marks fail-fast decoding behavior.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current decode should stop on the first issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}

// ---- decoder ----

type decoder struct {
	reg *Registry
	opt DecodeOpt
}

// decodeCall is the per-document state: identifiers seen so far (duplicate
// detection) and the presence map under construction. The registry and the
// effective-field cache stay shared and read-only.
type decodeCall struct {
	ctx context.Context
	ids map[string]struct{}
	pm  PresenceMap
}

func newDecode(ctx context.Context, reg *Registry, opts []DecodeOpt, meta bool) (*decoder, *decodeCall) {
	var opt DecodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.FailFast {
		ctx = WithFailFast(ctx, true)
	}
	dc := &decodeCall{ctx: ctx, ids: make(map[string]struct{})}
	if meta || opt.Presence.Collect {
		dc.pm = PresenceMap{"/": PresenceSeen}
	}
	return &decoder{reg: reg, opt: opt}, dc
}

func (d *decoder) mark(dc *decodeCall, path string, flags Presence) {
	markPresence(dc.pm, path, flags, d.opt.Presence)
}

func atPath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func (d *decoder) decodeValue(dc *decodeCall, node any, ref TypeRef, rctx ResolutionContext, path string) (any, Issues) {
	td := d.reg.Resolve(ref)
	switch td.Kind {
	case KindPrimitive:
		return decodePrimitive(node, td.Primitive, path)
	case KindEnum:
		s, ok := node.(string)
		if !ok {
			return nil, Issues{Issue{Path: atPath(path), Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: "expected " + td.Name + " symbol"}}
		}
		if !enumHas(td, s) {
			return nil, Issues{Issue{Path: atPath(path), Code: CodeInvalidEnum, Message: i18n.T(CodeInvalidEnum, nil), Hint: "not a " + td.Name + " symbol: " + s}}
		}
		return s, nil
	case KindArray:
		return d.decodeArray(dc, node, td, rctx, path)
	case KindRecord:
		return d.decodeRecord(dc, node, ref, rctx, path)
	case KindUnion:
		_, v, iss := d.resolveUnion(dc, node, td.Candidates, rctx, path)
		return v, iss
	}
	return nil, Issues{Issue{Path: atPath(path), Code: CodeInternalInvariant, Message: i18n.T(CodeInternalInvariant, nil), Hint: "unknown descriptor kind"}}
}

func (d *decoder) decodeArray(dc *decodeCall, node any, td *TypeDescriptor, rctx ResolutionContext, path string) (any, Issues) {
	seq, ok := node.([]any)
	if !ok {
		return nil, Issues{Issue{Path: atPath(path), Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: "expected array"}}
	}
	out := make([]any, 0, len(seq))
	var iss Issues
	for i, it := range seq {
		p := path + "/" + strconv.Itoa(i)
		d.mark(dc, p, presenceFor(it))
		v, i2 := d.decodeValue(dc, it, td.Elem, rctx, p)
		if len(i2) > 0 {
			iss = AppendIssues(iss, i2...)
			if IsFailFast(dc.ctx) {
				return nil, iss
			}
			continue
		}
		out = append(out, v)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// reserved document keys consumed by the decoder itself.
const (
	keyBase  = "@base"
	keyVocab = "@vocab"
)

func (d *decoder) decodeRecord(dc *decodeCall, node any, ref TypeRef, rctx ResolutionContext, path string) (any, Issues) {
	m, ok := node.(map[string]any)
	if !ok {
		return nil, Issues{Issue{Path: atPath(path), Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: "expected " + d.reg.Resolve(ref).Name + " object"}}
	}

	var iss Issues

	// Document-local context declarations apply to this subtree only.
	if bv, present := m[keyBase]; present {
		bs, ok := bv.(string)
		if !ok {
			iss = AppendIssues(iss, Issue{Path: path + "/" + keyBase, Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: "expected string"})
		} else if child, err := rctx.WithBase(bs); err != nil {
			iss = AppendIssues(iss, rebaseIssues(path+"/"+keyBase, issuesFromErr("/", err))...)
		} else {
			rctx = child
		}
	}
	if vv, present := m[keyVocab]; present {
		vm, ok := vv.(map[string]any)
		if !ok {
			iss = AppendIssues(iss, Issue{Path: path + "/" + keyVocab, Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: "expected mapping"})
		} else {
			terms := make(map[string]string, len(vm))
			for k, v := range vm {
				s, ok := v.(string)
				if !ok {
					iss = AppendIssues(iss, Issue{Path: path + "/" + keyVocab + "/" + k, Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: "expected string"})
					continue
				}
				terms[k] = s
			}
			rctx = rctx.WithVocabulary(terms)
		}
	}
	if IsFailFast(dc.ctx) && len(iss) > 0 {
		return nil, iss
	}

	efs := d.reg.EffectiveFields(ref)

	// A present identifier field scopes every other identifier in this record's
	// subtree: its normalized value becomes the subtree base.
	fieldCtx := rctx
	scopeField := ""
	if idf, ok := efs.identifierField(); ok {
		if raw, present := m[idf.Name]; present {
			if s, ok := raw.(string); ok {
				if abs, err := Normalize(s, rctx); err == nil {
					scopeField = idf.Name
					if child, err := rctx.WithBase(abs); err == nil {
						fieldCtx = child
					}
				}
			}
		}
	}

	out := make(map[string]any, len(efs.Ordered))
	for _, f := range efs.Ordered {
		fp := path + "/" + f.Name
		val, present := m[f.Name]
		if !present {
			if f.HasDefault {
				out[f.Name] = cloneValue(f.Default)
				d.mark(dc, fp, PresenceDefaultApplied)
				continue
			}
			if f.Required {
				iss = AppendIssues(iss, Issue{Path: fp, Code: CodeRequired, Message: i18n.T(CodeRequired, nil), Hint: "missing field: " + f.Name})
				if IsFailFast(dc.ctx) {
					return nil, iss
				}
			}
			continue // absent optional stays absent, not null
		}

		d.mark(dc, fp, presenceFor(val))

		if f.Const != nil && !scalarEqual(val, f.Const) {
			iss = AppendIssues(iss, Issue{Path: fp, Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: "value pinned by schema"})
			if IsFailFast(dc.ctx) {
				return nil, iss
			}
			continue
		}

		if f.Identifier {
			v, i2 := d.decodeIdentifier(dc, val, f, scopeField, rctx, fieldCtx, fp)
			if len(i2) > 0 {
				iss = AppendIssues(iss, i2...)
				if IsFailFast(dc.ctx) {
					return nil, iss
				}
				continue
			}
			out[f.Name] = v
			continue
		}

		v, i2 := d.decodeValue(dc, val, f.Type, fieldCtx, fp)
		if len(i2) > 0 {
			iss = AppendIssues(iss, i2...)
			if IsFailFast(dc.ctx) {
				return nil, iss
			}
			continue
		}
		out[f.Name] = v
	}

	iss = AppendIssues(iss, d.collectUnknown(m, efs, out, path)...)
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// decodeIdentifier normalizes an identifier-typed field value and records it
// for duplicate detection. The scoping field itself resolves against the
// parent context; every other identifier resolves against the subtree context.
func (d *decoder) decodeIdentifier(dc *decodeCall, val any, f FieldDescriptor, scopeField string, parent, subtree ResolutionContext, fp string) (string, Issues) {
	s, ok := val.(string)
	if !ok {
		return "", Issues{Issue{Path: fp, Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: "expected identifier string"}}
	}
	ctx := subtree
	if f.Name == scopeField {
		ctx = parent
	}
	abs, err := Normalize(s, ctx)
	if err != nil {
		return "", rebaseIssues(fp, issuesFromErr("/", err))
	}
	if _, dup := dc.ids[abs]; dup {
		return "", Issues{Issue{Path: fp, Code: CodeDuplicateIdentifier, Message: i18n.T(CodeDuplicateIdentifier, nil), Hint: "already declared: " + abs}}
	}
	dc.ids[abs] = struct{}{}
	return abs, nil
}

func (d *decoder) collectUnknown(m map[string]any, efs *EffectiveFieldSet, out map[string]any, path string) Issues {
	var unknown []string
	for k := range m {
		if k == keyBase || k == keyVocab || efs.Has(k) {
			continue
		}
		unknown = append(unknown, k)
	}
	sort.Strings(unknown)
	var iss Issues
	for _, k := range unknown {
		switch d.opt.Unknown {
		case UnknownStrict:
			iss = AppendIssues(iss, Issue{Path: path + "/" + k, Code: CodeUnknownKey, Message: i18n.T(CodeUnknownKey, nil)})
		case UnknownStrip:
			// drop
		case UnknownPassthrough:
			out[k] = m[k]
		}
	}
	return iss
}

func presenceFor(v any) Presence {
	if v == nil {
		return PresenceSeen | PresenceWasNull
	}
	return PresenceSeen
}

// ---- primitive decoding ----

// primitiveMatches is the structural kind test used during union resolution;
// it must stay in lockstep with decodePrimitive.
func primitiveMatches(kind PrimitiveKind, node any) bool {
	switch kind {
	case PrimitiveNull:
		return node == nil
	case PrimitiveBool:
		_, ok := node.(bool)
		return ok
	case PrimitiveInt:
		i, ok := toInt64(node)
		return ok && i >= math.MinInt32 && i <= math.MaxInt32
	case PrimitiveLong:
		_, ok := toInt64(node)
		return ok
	case PrimitiveFloat, PrimitiveDouble:
		_, ok := toFloat64(node)
		return ok
	case PrimitiveString:
		_, ok := node.(string)
		return ok
	case PrimitiveAny:
		return node != nil
	}
	return false
}

func decodePrimitive(node any, kind PrimitiveKind, path string) (any, Issues) {
	invalid := func(hint string) Issues {
		return Issues{Issue{Path: atPath(path), Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: hint}}
	}
	switch kind {
	case PrimitiveNull:
		if node != nil {
			return nil, invalid("expected null")
		}
		return nil, nil
	case PrimitiveBool:
		b, ok := node.(bool)
		if !ok {
			return nil, invalid("expected boolean")
		}
		return b, nil
	case PrimitiveInt:
		i, ok := toInt64(node)
		if !ok {
			return nil, invalid("expected int")
		}
		if i < math.MinInt32 || i > math.MaxInt32 {
			return nil, Issues{Issue{Path: atPath(path), Code: CodeOverflow, Message: i18n.T(CodeOverflow, nil), Hint: "int is 32-bit"}}
		}
		return i, nil
	case PrimitiveLong:
		i, ok := toInt64(node)
		if !ok {
			return nil, invalid("expected long")
		}
		return i, nil
	case PrimitiveFloat, PrimitiveDouble:
		f, ok := toFloat64(node)
		if !ok {
			return nil, invalid("expected number")
		}
		return f, nil
	case PrimitiveString:
		s, ok := node.(string)
		if !ok {
			return nil, invalid("expected string")
		}
		return s, nil
	case PrimitiveAny:
		if node == nil {
			return nil, invalid("Any does not accept null")
		}
		return node, nil
	}
	return nil, invalid("unknown primitive kind")
}
