package salad

import (
	"github.com/giuseppe998e/schema-salad/i18n"
)

// flattenCandidates expands nested union candidates into the outer candidate
// list in declared order (transparent union composition). The visited set
// guards against unions that reach themselves through other unions.
func flattenCandidates(reg *Registry, candidates []TypeRef, visited map[TypeRef]struct{}) []TypeRef {
	out := make([]TypeRef, 0, len(candidates))
	for _, c := range candidates {
		td := reg.Resolve(c)
		if td.Kind != KindUnion {
			out = append(out, c)
			continue
		}
		if _, seen := visited[c]; seen {
			continue
		}
		visited[c] = struct{}{}
		out = append(out, flattenCandidates(reg, td.Candidates, visited)...)
	}
	return out
}

// resolveUnion selects the first candidate whose shape the node structurally
// satisfies, in the union's declared candidate order. Record candidates are
// handed to the record matcher as one batch: its discriminant/structural
// policy needs the full candidate set to pick correctly. Order in the schema
// is authoritative when several kinds could match the same node.
func (d *decoder) resolveUnion(dc *decodeCall, node any, candidates []TypeRef, rctx ResolutionContext, path string) (TypeRef, any, Issues) {
	flat := flattenCandidates(d.reg, candidates, map[TypeRef]struct{}{})

	recordsTried := false
	for _, c := range flat {
		td := d.reg.Resolve(c)
		switch td.Kind {
		case KindRecord:
			m, ok := node.(map[string]any)
			if !ok || recordsTried {
				continue
			}
			recordsTried = true
			batch := recordCandidates(d.reg, flat)
			ref, iss := d.matchRecord(m, batch, path)
			if len(iss) > 0 {
				if iss.HasCode(CodeAmbiguousType) {
					return NoRef, nil, iss
				}
				continue // no eligible record; later non-record candidates may still match
			}
			v, iss2 := d.decodeValue(dc, node, ref, rctx, path)
			if len(iss2) > 0 {
				return NoRef, nil, iss2
			}
			return ref, v, nil
		case KindPrimitive:
			if !primitiveMatches(td.Primitive, node) {
				continue
			}
			v, iss := d.decodeValue(dc, node, c, rctx, path)
			if len(iss) > 0 {
				return NoRef, nil, iss
			}
			return c, v, nil
		case KindEnum:
			s, ok := node.(string)
			if !ok || !enumHas(td, s) {
				continue
			}
			return c, s, nil
		case KindArray:
			seq, ok := node.([]any)
			if !ok {
				continue
			}
			if !d.arrayCompatible(seq, td.Elem) {
				continue
			}
			v, iss := d.decodeValue(dc, node, c, rctx, path)
			if len(iss) > 0 {
				return NoRef, nil, iss
			}
			return c, v, nil
		}
	}

	return NoRef, nil, Issues{Issue{
		Path: atPath(path), Code: CodeNoMatchingType,
		Message: i18n.T(CodeNoMatchingType, nil),
		Hint:    "tried: " + joinTypeNames(d.reg, flat),
		Params:  map[string]any{"candidates": typeNames(d.reg, flat)},
	}}
}

// arrayCompatible is the shape pre-test for an array candidate: every element
// must be structurally compatible with the element type before the candidate
// is committed to, so a later candidate can still win on a partial mismatch.
func (d *decoder) arrayCompatible(seq []any, elem TypeRef) bool {
	for _, it := range seq {
		if !d.compatible(it, elem, map[TypeRef]struct{}{}) {
			return false
		}
	}
	return true
}

// compatible is the recursive structural test used by the matcher and the
// union resolver. It checks shape only; value decoding happens afterwards.
func (d *decoder) compatible(node any, ref TypeRef, unions map[TypeRef]struct{}) bool {
	td := d.reg.Resolve(ref)
	switch td.Kind {
	case KindPrimitive:
		return primitiveMatches(td.Primitive, node)
	case KindEnum:
		s, ok := node.(string)
		return ok && enumHas(td, s)
	case KindArray:
		seq, ok := node.([]any)
		if !ok {
			return false
		}
		for _, it := range seq {
			if !d.compatible(it, td.Elem, unions) {
				return false
			}
		}
		return true
	case KindRecord:
		m, ok := node.(map[string]any)
		if !ok {
			return false
		}
		efs := d.reg.EffectiveFields(ref)
		for _, f := range efs.Ordered {
			v, present := m[f.Name]
			if !present {
				if f.Required {
					return false
				}
				continue
			}
			if f.Const != nil {
				if !scalarEqual(v, f.Const) {
					return false
				}
				continue
			}
			if !d.compatible(v, f.Type, unions) {
				return false
			}
		}
		return true
	case KindUnion:
		if _, seen := unions[ref]; seen {
			return false
		}
		unions[ref] = struct{}{}
		for _, c := range td.Candidates {
			if d.compatible(node, c, unions) {
				delete(unions, ref)
				return true
			}
		}
		delete(unions, ref)
		return false
	}
	return false
}

func recordCandidates(reg *Registry, flat []TypeRef) []TypeRef {
	out := make([]TypeRef, 0, len(flat))
	for _, c := range flat {
		if reg.Resolve(c).Kind == KindRecord {
			out = append(out, c)
		}
	}
	return out
}

func enumHas(td *TypeDescriptor, s string) bool {
	for _, sym := range td.Symbols {
		if sym == s {
			return true
		}
	}
	return false
}

func typeNames(reg *Registry, refs []TypeRef) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, reg.Resolve(r).Name)
	}
	return out
}

func joinTypeNames(reg *Registry, refs []TypeRef) string {
	s := ""
	for i, r := range refs {
		if i > 0 {
			s += ", "
		}
		s += reg.Resolve(r).Name
	}
	return s
}
