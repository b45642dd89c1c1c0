package hive

import (
	"errors"
	"fmt"

	"github.com/joshuapare/hivequery/internal/format"
)

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindTruncatedHeader      ErrKind = iota // buffer shorter than the base block
	ErrKindBadSignature                        // base block lacks "regf"
	ErrKindOutOfBounds                         // offset or length escapes the data region
	ErrKindBadRecordTag                        // record tag differs from the expected one
	ErrKindKeyNotFound                         // path segment has no matching child
	ErrKindValueNotFound                       // key has no value with the name
	ErrKindUnsupportedValueType                // value exists but is not REG_SZ
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindTruncatedHeader:
		return "TruncatedHeader"
	case ErrKindBadSignature:
		return "BadSignature"
	case ErrKindOutOfBounds:
		return "OutOfBounds"
	case ErrKindBadRecordTag:
		return "BadRecordTag"
	case ErrKindKeyNotFound:
		return "KeyNotFound"
	case ErrKindValueNotFound:
		return "ValueNotFound"
	case ErrKindUnsupportedValueType:
		return "UnsupportedValueType"
	default:
		return fmt.Sprintf("ErrKind(%d)", int(k))
	}
}

// Error is a typed lookup error with an optional underlying cause.
type Error struct {
	Kind    ErrKind
	Segment string // unmatched path segment, set for ErrKindKeyNotFound
	Offset  uint32 // cell offset involved, NoOffset when not applicable
	Msg     string
	Err     error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind. A target with a Segment also has
// to agree on the segment.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return t.Kind == e.Kind && (t.Segment == "" || t.Segment == e.Segment)
}

// Sentinels for errors.Is.
var (
	ErrTruncatedHeader      = &Error{Kind: ErrKindTruncatedHeader, Offset: NoOffset, Msg: "truncated hive header"}
	ErrBadSignature         = &Error{Kind: ErrKindBadSignature, Offset: NoOffset, Msg: "not a registry hive (bad regf signature)"}
	ErrOutOfBounds          = &Error{Kind: ErrKindOutOfBounds, Offset: NoOffset, Msg: "offset out of bounds"}
	ErrBadRecordTag         = &Error{Kind: ErrKindBadRecordTag, Offset: NoOffset, Msg: "unexpected record tag"}
	ErrKeyNotFound          = &Error{Kind: ErrKindKeyNotFound, Offset: NoOffset, Msg: "key not found"}
	ErrValueNotFound        = &Error{Kind: ErrKindValueNotFound, Offset: NoOffset, Msg: "value not found"}
	ErrUnsupportedValueType = &Error{Kind: ErrKindUnsupportedValueType, Offset: NoOffset, Msg: "unsupported value type"}
)

// KeyNotFound returns a target for errors.Is that matches only a missing
// segment with this exact name.
func KeyNotFound(segment string) error {
	return &Error{Kind: ErrKindKeyNotFound, Segment: segment, Offset: NoOffset, Msg: fmt.Sprintf("key %q not found", segment)}
}

// IsAbsent reports whether err means the requested key or value does not
// exist in an otherwise readable hive.
func IsAbsent(err error) bool {
	return errors.Is(err, ErrKeyNotFound) || errors.Is(err, ErrValueNotFound)
}

// IsCorrupt reports whether err means the bytes are not a well-formed hive.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrTruncatedHeader) ||
		errors.Is(err, ErrBadSignature) ||
		errors.Is(err, ErrOutOfBounds) ||
		errors.Is(err, ErrBadRecordTag)
}

func outOfBounds(off uint32, msg string, args ...any) error {
	return &Error{Kind: ErrKindOutOfBounds, Offset: off, Msg: fmt.Sprintf(msg, args...)}
}

func badRecordTag(off uint32, what string) error {
	return &Error{Kind: ErrKindBadRecordTag, Offset: off, Msg: fmt.Sprintf("%s at %#x: unexpected record tag", what, off)}
}

// decodeErr maps an internal/format decoding failure onto the taxonomy.
func decodeErr(off uint32, what string, err error) error {
	kind := ErrKindOutOfBounds
	if errors.Is(err, format.ErrSignatureMismatch) {
		kind = ErrKindBadRecordTag
	}
	return &Error{Kind: kind, Offset: off, Msg: fmt.Sprintf("%s at %#x", what, off), Err: err}
}
