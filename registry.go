package salad

import (
	"github.com/giuseppe998e/schema-salad/i18n"
)

// Registry is the immutable catalog of every declared type of one schema. It
// is populated in a single batch from the schema compiler's descriptor set and
// read concurrently without locks afterwards; it exposes no mutation API.
type Registry struct {
	types     []TypeDescriptor
	byName    map[string]TypeRef
	effective []*EffectiveFieldSet // indexed by TypeRef; nil for non-records
}

// Resolve returns the descriptor behind a ref. Refs are validated at Build
// time, so resolution never fails for refs produced by this registry.
func (r *Registry) Resolve(ref TypeRef) *TypeDescriptor {
	return &r.types[ref]
}

// Ref looks up a type by name.
func (r *Registry) Ref(name string) (TypeRef, bool) {
	ref, ok := r.byName[name]
	return ref, ok
}

// MustRef looks up a type by name and panics when it is not declared. Intended
// for generated code, where the name set is fixed at compile time.
func (r *Registry) MustRef(name string) TypeRef {
	ref, ok := r.byName[name]
	if !ok {
		panic("salad: undeclared type " + name)
	}
	return ref
}

// CandidatesOf returns a union's candidates in declared order. For non-union
// types it returns nil.
func (r *Registry) CandidatesOf(ref TypeRef) []TypeRef {
	td := r.Resolve(ref)
	if td.Kind != KindUnion {
		return nil
	}
	return td.Candidates
}

// EffectiveFields returns the cached merged field set of a record type,
// computed once at Build time. Nil for non-record types.
func (r *Registry) EffectiveFields(ref TypeRef) *EffectiveFieldSet {
	return r.effective[ref]
}

// Len reports the number of declared types.
func (r *Registry) Len() int { return len(r.types) }

// ---- builder ----

// declared is the pre-resolution form of a type: references are still names.
type declared struct {
	name       string
	kind       Kind
	prim       PrimitiveKind
	symbols    []string
	elem       string
	base       string
	fields     []Field
	candidates []string
}

// RegistryBuilder accumulates the schema compiler's descriptor set. The
// builtin primitives (null, boolean, int, long, float, double, string, Any)
// are pre-declared.
type RegistryBuilder struct {
	decls  []declared
	byName map[string]int
	iss    Issues
}

// NewRegistryBuilder returns a builder seeded with the builtin primitives.
func NewRegistryBuilder() *RegistryBuilder {
	b := &RegistryBuilder{byName: make(map[string]int)}
	for _, pk := range []PrimitiveKind{
		PrimitiveNull, PrimitiveBool, PrimitiveInt, PrimitiveLong,
		PrimitiveFloat, PrimitiveDouble, PrimitiveString, PrimitiveAny,
	} {
		b.add(declared{name: pk.String(), kind: KindPrimitive, prim: pk})
	}
	return b
}

func (b *RegistryBuilder) add(d declared) {
	if _, dup := b.byName[d.name]; dup {
		b.iss = AppendIssues(b.iss, Issue{
			Path: "/" + d.name, Code: CodeParseError,
			Message: i18n.T(CodeParseError, nil), Hint: "type declared twice: " + d.name,
		})
		return
	}
	b.byName[d.name] = len(b.decls)
	b.decls = append(b.decls, d)
}

// Enum declares a closed set of literal tags.
func (b *RegistryBuilder) Enum(name string, symbols ...string) *RegistryBuilder {
	b.add(declared{name: name, kind: KindEnum, symbols: symbols})
	return b
}

// Array declares an array type over the named element type.
func (b *RegistryBuilder) Array(name, elem string) *RegistryBuilder {
	b.add(declared{name: name, kind: KindArray, elem: elem})
	return b
}

// Record declares a record with its own fields; base names the record it
// specializes ("" for none).
func (b *RegistryBuilder) Record(name, base string, fields ...Field) *RegistryBuilder {
	b.add(declared{name: name, kind: KindRecord, base: base, fields: fields})
	return b
}

// Union declares a named union; candidate order is authoritative for
// resolution.
func (b *RegistryBuilder) Union(name string, candidates ...string) *RegistryBuilder {
	b.add(declared{name: name, kind: KindUnion, candidates: candidates})
	return b
}

// Build resolves every name reference, validates the type lattice, and
// precomputes each record's effective field set. Any problem aborts the load:
// there is no partially usable registry.
func (b *RegistryBuilder) Build() (*Registry, error) {
	iss := b.iss

	resolve := func(path, name string) TypeRef {
		if i, ok := b.byName[name]; ok {
			return TypeRef(i)
		}
		iss = AppendIssues(iss, Issue{
			Path: path, Code: CodeDanglingTypeRef,
			Message: i18n.T(CodeDanglingTypeRef, nil), Hint: "undeclared type: " + name,
		})
		return NoRef
	}

	reg := &Registry{
		types:     make([]TypeDescriptor, len(b.decls)),
		byName:    make(map[string]TypeRef, len(b.decls)),
		effective: make([]*EffectiveFieldSet, len(b.decls)),
	}
	for i, d := range b.decls {
		reg.byName[d.name] = TypeRef(i)
		td := TypeDescriptor{Name: d.name, Kind: d.kind, Primitive: d.prim, Elem: NoRef, Base: NoRef}
		path := "/" + d.name
		switch d.kind {
		case KindEnum:
			td.Symbols = append([]string(nil), d.symbols...)
		case KindArray:
			td.Elem = resolve(path, d.elem)
		case KindRecord:
			if d.base != "" {
				td.Base = resolve(path, d.base)
			}
			td.Fields = make([]FieldDescriptor, 0, len(d.fields))
			for _, f := range d.fields {
				td.Fields = append(td.Fields, FieldDescriptor{
					Name:       f.Name,
					Type:       resolve(path+"/"+f.Name, f.Type),
					Required:   f.Required,
					HasDefault: f.HasDefault,
					Default:    f.Default,
					Identifier: f.Identifier,
					Const:      f.Const,
				})
			}
		case KindUnion:
			if len(d.candidates) == 0 {
				iss = AppendIssues(iss, Issue{
					Path: path, Code: CodeEmptyUnion, Message: i18n.T(CodeEmptyUnion, nil),
				})
			}
			td.Candidates = make([]TypeRef, 0, len(d.candidates))
			for _, c := range d.candidates {
				td.Candidates = append(td.Candidates, resolve(path, c))
			}
		}
		reg.types[i] = td
	}
	if len(iss) > 0 {
		return nil, iss
	}

	// Base-chain cycle detection before field merging; the merger re-checks
	// defensively but reports here with the offending type's name.
	for i := range reg.types {
		if reg.types[i].Kind != KindRecord {
			continue
		}
		if base := reg.types[i].Base; base != NoRef && reg.types[base].Kind != KindRecord {
			iss = AppendIssues(iss, Issue{
				Path: "/" + reg.types[i].Name, Code: CodeParseError,
				Message: i18n.T(CodeParseError, nil),
				Hint:    "base is not a record: " + reg.types[base].Name,
			})
			continue
		}
		if cyclic(reg, TypeRef(i)) {
			iss = AppendIssues(iss, Issue{
				Path: "/" + reg.types[i].Name, Code: CodeInheritanceCycle,
				Message: i18n.T(CodeInheritanceCycle, nil),
			})
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}

	for i := range reg.types {
		if reg.types[i].Kind != KindRecord {
			continue
		}
		efs, err := mergeFields(reg, TypeRef(i))
		if err != nil {
			return nil, err
		}
		reg.effective[i] = efs
	}
	return reg, nil
}

// MustBuild is Build for schema-compiler output known to be well formed.
func (b *RegistryBuilder) MustBuild() *Registry {
	reg, err := b.Build()
	if err != nil {
		panic("salad: registry build failed: " + err.Error())
	}
	return reg
}

// cyclic walks the base chain with the two-pointer trick; chains are short, so
// a visited set would be overkill.
func cyclic(reg *Registry, ref TypeRef) bool {
	slow, fast := ref, ref
	for {
		fast = baseOf(reg, fast)
		if fast == NoRef {
			return false
		}
		fast = baseOf(reg, fast)
		if fast == NoRef {
			return false
		}
		slow = baseOf(reg, slow)
		if slow == fast {
			return true
		}
	}
}

func baseOf(reg *Registry, ref TypeRef) TypeRef {
	td := reg.Resolve(ref)
	if td.Kind != KindRecord {
		return NoRef
	}
	return td.Base
}
