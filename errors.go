package salad

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType         = "invalid_type"
	CodeRequired            = "required"
	CodeUnknownKey          = "unknown_key"
	CodeInvalidEnum         = "invalid_enum"
	CodeOverflow            = "overflow"
	CodeParseError          = "parse_error"
	CodeInvalidIdentifier   = "invalid_identifier"
	CodeDuplicateIdentifier = "duplicate_identifier"
	// Union/record disambiguation (decode-time, recoverable by the caller)
	CodeNoMatchingType = "no_matching_type"
	CodeAmbiguousType  = "ambiguous_type"
	// Registry load (fatal; a malformed generated schema is a build-time bug)
	CodeDanglingTypeRef  = "dangling_type_reference"
	CodeInheritanceCycle = "inheritance_cycle"
	CodeEmptyUnion       = "empty_union"
	// A required field missing after matching succeeded indicates a bug in the
	// matcher/merger pairing, never a document problem.
	CodeInternalInvariant = "internal_invariant"
)

// Issue represents a single decode or registry-load entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /steps/2/run).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected values, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"candidates": [...]}) for
	// i18n and observability. Union failures record the tried candidate type
	// names here.
	Params map[string]any
}

// Issues is a collection of decode errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. no_matching_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether any issue carries the given code.
func (iss Issues) HasCode(code string) bool {
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// rebaseIssues shifts child issue paths under the given parent step so that a
// failure deep in a record field reports its full path from the document root.
func rebaseIssues(base string, child Issues) Issues {
	out := make(Issues, 0, len(child))
	for _, it := range child {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out = append(out, it)
	}
	return out
}

// issuesFromErr converts an error into Issues, wrapping non-Issues with
// CodeParseError.
func issuesFromErr(path string, err error) Issues {
	if err == nil {
		return nil
	}
	if i2, ok := AsIssues(err); ok {
		return i2
	}
	return Issues{Issue{Path: path, Code: CodeParseError, Message: err.Error(), Cause: err}}
}
