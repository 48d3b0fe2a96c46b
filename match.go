package salad

import (
	"encoding/json"
	"strconv"

	"github.com/giuseppe998e/schema-salad/i18n"
)

// matchRecord determines which single record type a mapping-shaped node
// instantiates, out of the record candidates sharing a union slot.
//
// Policy: discriminant-first, then ordered structural fallback. A candidate
// declaring a discriminant (a required field pinned to a fixed value,
// conventionally named "type") is eligible only when the node carries exactly
// that value; the first discriminant-eligible candidate wins outright. Only
// when no discriminant fires do the remaining non-discriminated candidates get
// a structural pass, first declared candidate winning. Never "best match by
// field count": that would make the outcome depend on unrelated optional
// fields.
func (d *decoder) matchRecord(node map[string]any, candidates []TypeRef, path string) (TypeRef, Issues) {
	var discEligible []TypeRef
	var structural []TypeRef

	for _, c := range candidates {
		efs := d.reg.EffectiveFields(c)
		disc, ok := efs.Discriminant()
		if !ok {
			structural = append(structural, c)
			continue
		}
		if v, present := node[disc.Name]; present && scalarEqual(v, disc.Const) {
			discEligible = append(discEligible, c)
		}
	}

	if len(discEligible) > 1 {
		// Two candidates pinning the same discriminant value is a schema
		// defect; picking one silently would hide it.
		return NoRef, Issues{Issue{
			Path: atPath(path), Code: CodeAmbiguousType,
			Message: i18n.T(CodeAmbiguousType, nil),
			Hint:    "discriminant matches: " + joinTypeNames(d.reg, discEligible),
			Params:  map[string]any{"candidates": typeNames(d.reg, discEligible)},
		}}
	}
	if len(discEligible) == 1 {
		return discEligible[0], nil
	}

	for _, c := range structural {
		if d.structurallyCompatible(node, c) {
			return c, nil
		}
	}

	return NoRef, Issues{Issue{
		Path: atPath(path), Code: CodeNoMatchingType,
		Message: i18n.T(CodeNoMatchingType, nil),
		Hint:    "tried: " + joinTypeNames(d.reg, candidates),
		Params:  map[string]any{"candidates": typeNames(d.reg, candidates)},
	}}
}

// structurallyCompatible reports whether every required effective field of the
// candidate is present in the node with a type-compatible value.
func (d *decoder) structurallyCompatible(node map[string]any, ref TypeRef) bool {
	efs := d.reg.EffectiveFields(ref)
	for _, f := range efs.Ordered {
		if !f.Required {
			continue
		}
		v, present := node[f.Name]
		if !present {
			return false
		}
		if f.Const != nil {
			if !scalarEqual(v, f.Const) {
				return false
			}
			continue
		}
		if !d.compatible(v, f.Type, map[TypeRef]struct{}{}) {
			return false
		}
	}
	return true
}

// scalarEqual compares a document scalar against a schema-declared constant,
// bridging the numeric representations the loaders produce (json.Number,
// int64, float64) and the plain Go literals schemas are declared with.
func scalarEqual(doc, want any) bool {
	if doc == nil || want == nil {
		return doc == nil && want == nil
	}
	if ds, ok := doc.(string); ok {
		ws, ok2 := want.(string)
		return ok2 && ds == ws
	}
	if db, ok := doc.(bool); ok {
		wb, ok2 := want.(bool)
		return ok2 && db == wb
	}
	di, dok := toInt64(doc)
	wi, wok := toInt64(want)
	if dok && wok {
		return di == wi
	}
	df, dok := toFloat64(doc)
	wf, wok := toFloat64(want)
	return dok && wok && df == wf
}

// toInt64 widens the integral representations a value tree may carry.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case float64:
		i := int64(n)
		if float64(i) == n {
			return i, true
		}
	}
	return 0, false
}

// toFloat64 widens the floating representations a value tree may carry.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := strconv.ParseFloat(n.String(), 64)
		return f, err == nil
	}
	return 0, false
}
