package salad

// Kind discriminates TypeDescriptor variants.
type Kind int

const (
	KindPrimitive Kind = iota
	KindEnum
	KindArray
	KindRecord
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindEnum:
		return "enum"
	case KindArray:
		return "array"
	case KindRecord:
		return "record"
	case KindUnion:
		return "union"
	}
	return "unknown"
}

// TypeRef is a lightweight handle into a Registry. Descriptors refer to each
// other through refs rather than embedded pointers because types may be
// mutually recursive (a record field may be typed as a union that includes the
// record itself).
type TypeRef int32

// NoRef marks the absence of a type reference (e.g. a record with no base).
const NoRef TypeRef = -1

// TypeDescriptor describes one declared type. Exactly the fields relevant to
// Kind are populated; descriptors are immutable once registered.
type TypeDescriptor struct {
	Name string
	Kind Kind

	Primitive  PrimitiveKind     // KindPrimitive
	Symbols    []string          // KindEnum: closed set of literal tags.
	Elem       TypeRef           // KindArray
	Base       TypeRef           // KindRecord: type this record specializes, or NoRef.
	Fields     []FieldDescriptor // KindRecord: own (non-inherited) fields, declaration order.
	Candidates []TypeRef         // KindUnion: declared candidate order is authoritative.
}

// FieldDescriptor describes one record field after registry resolution.
type FieldDescriptor struct {
	Name       string
	Type       TypeRef
	Required   bool
	HasDefault bool
	Default    any
	// Identifier marks the field value as subject to identifier normalization;
	// a present identifier also scopes nested identifiers of the same record.
	Identifier bool
	// Const pins the field to a fixed expected value. A required field with a
	// Const acts as the record's discriminant during union matching.
	Const any
}

// Field is the builder-level form of a FieldDescriptor: the declared type is
// still a name, resolved to a TypeRef by RegistryBuilder.Build.
type Field struct {
	Name       string
	Type       string
	Required   bool
	HasDefault bool
	Default    any
	Identifier bool
	Const      any
}

// OptionalField is shorthand for an optional field declaration.
func OptionalField(name, typ string) Field {
	return Field{Name: name, Type: typ}
}

// RequiredField is shorthand for a required field declaration.
func RequiredField(name, typ string) Field {
	return Field{Name: name, Type: typ, Required: true}
}

// DefaultedField declares an optional field with a schema default.
func DefaultedField(name, typ string, def any) Field {
	return Field{Name: name, Type: typ, HasDefault: true, Default: def}
}

// DiscriminantField declares a required field pinned to a fixed value,
// conventionally named "type".
func DiscriminantField(name, typ string, value any) Field {
	return Field{Name: name, Type: typ, Required: true, Const: value}
}

// IdentifierField declares a required identifier-typed field.
func IdentifierField(name, typ string) Field {
	return Field{Name: name, Type: typ, Required: true, Identifier: true}
}
