package salad

import "github.com/giuseppe998e/schema-salad/i18n"

// InjectDefaults completes a partially decoded record: every effective field
// absent from partial receives its schema-declared default when one exists;
// optional undefaulted fields simply stay absent, which is distinct from an
// explicit null; presence metadata keeps the two apart. It is exported for
// generated decode functions that drive field decoding themselves.
//
// A required field that is still absent here means the matcher admitted a
// non-conforming node: that is a bug in the matcher/merger pairing, reported
// as internal_invariant, never silently defaulted.
func InjectDefaults(efs *EffectiveFieldSet, partial map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(efs.Ordered))
	for k, v := range partial {
		out[k] = v
	}
	var iss Issues
	for _, f := range efs.Ordered {
		if _, present := out[f.Name]; present {
			continue
		}
		if f.HasDefault {
			out[f.Name] = cloneValue(f.Default)
			continue
		}
		if f.Required {
			iss = AppendIssues(iss, Issue{
				Path: "/" + f.Name, Code: CodeInternalInvariant,
				Message: i18n.T(CodeInternalInvariant, nil),
				Hint:    "required field absent after successful match: " + f.Name,
			})
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// cloneValue deep-copies container defaults so a caller mutating an injected
// value cannot corrupt the shared registry descriptors.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
