package salad

import "github.com/giuseppe998e/schema-salad/i18n"

// EffectiveFieldSet is the fully merged (inherited + overridden) field list of
// a record type. Ordered drives deterministic decode order; overrides keep the
// base's position so that specializing a record does not reorder unrelated
// fields.
type EffectiveFieldSet struct {
	Ordered []FieldDescriptor
	byName  map[string]int
}

// Lookup returns the winning declaration for a field name.
func (s *EffectiveFieldSet) Lookup(name string) (FieldDescriptor, bool) {
	i, ok := s.byName[name]
	if !ok {
		return FieldDescriptor{}, false
	}
	return s.Ordered[i], true
}

// Has reports whether the record declares or inherits the field.
func (s *EffectiveFieldSet) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Discriminant returns the record's discriminant field (a required field with
// a pinned Const value), if it declares one.
func (s *EffectiveFieldSet) Discriminant() (FieldDescriptor, bool) {
	for _, f := range s.Ordered {
		if f.Required && f.Const != nil {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// identifierField returns the record's first identifier-typed field, which
// scopes nested identifiers when present in a document.
func (s *EffectiveFieldSet) identifierField() (FieldDescriptor, bool) {
	for _, f := range s.Ordered {
		if f.Identifier {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// mergeFields computes a record's effective field set: the base chain is
// walked root to leaf, a leaf field with the same name as a base field
// replaces the base one in place, all other base fields are inherited in their
// original order. Registry.Build already rejects base cycles; the walk still
// guards against them so a corrupted registry cannot loop forever.
func mergeFields(reg *Registry, ref TypeRef) (*EffectiveFieldSet, error) {
	// base chain, leaf first
	chain := make([]TypeRef, 0, 4)
	seen := make(map[TypeRef]struct{}, 4)
	for cur := ref; cur != NoRef; cur = reg.Resolve(cur).Base {
		if _, dup := seen[cur]; dup {
			return nil, Issues{Issue{
				Path: "/" + reg.Resolve(ref).Name, Code: CodeInheritanceCycle,
				Message: i18n.T(CodeInheritanceCycle, nil),
			}}
		}
		seen[cur] = struct{}{}
		chain = append(chain, cur)
	}

	efs := &EffectiveFieldSet{byName: make(map[string]int)}
	for i := len(chain) - 1; i >= 0; i-- {
		for _, f := range reg.Resolve(chain[i]).Fields {
			if at, override := efs.byName[f.Name]; override {
				efs.Ordered[at] = f // keep the base's position
				continue
			}
			efs.byName[f.Name] = len(efs.Ordered)
			efs.Ordered = append(efs.Ordered, f)
		}
	}
	return efs, nil
}
