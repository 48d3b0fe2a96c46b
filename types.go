package salad

// UnknownPolicy controls how unknown keys on record nodes are handled.
type UnknownPolicy int

const (
	UnknownStrict      UnknownPolicy = iota // Reject unknown keys with an error.
	UnknownStrip                            // Drop unknown keys.
	UnknownPassthrough                      // Copy unknown keys into the output untouched.
)

// PresenceOpt configures presence collection for WithMeta-style decoding.
type PresenceOpt struct {
	Collect bool
	Intern  bool // Intern JSON Pointer keys; useful when many documents share field names.
}

// DecodeOpt bundles decoding options.
type DecodeOpt struct {
	Unknown  UnknownPolicy
	Presence PresenceOpt
	FailFast bool
}

// PrimitiveKind enumerates Schema Salad's primitive value kinds.
type PrimitiveKind int

const (
	PrimitiveNull   PrimitiveKind = iota
	PrimitiveBool                 // A binary value.
	PrimitiveInt                  // 32-bit signed integer.
	PrimitiveLong                 // 64-bit signed integer.
	PrimitiveFloat                // Single precision IEEE 754 floating point.
	PrimitiveDouble               // Double precision IEEE 754 floating point.
	PrimitiveString               // Unicode character sequence.
	PrimitiveAny                  // Validates for any non-null value.
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveNull:
		return "null"
	case PrimitiveBool:
		return "boolean"
	case PrimitiveInt:
		return "int"
	case PrimitiveLong:
		return "long"
	case PrimitiveFloat:
		return "float"
	case PrimitiveDouble:
		return "double"
	case PrimitiveString:
		return "string"
	case PrimitiveAny:
		return "Any"
	}
	return "unknown"
}
