package format

import (
	"bytes"
	"fmt"
	"unicode"

	"github.com/joshuapare/hivequery/internal/buf"
)

// IndexKind identifies the subkey list variant of a payload.
type IndexKind int

const (
	IndexUnknown IndexKind = iota
	IndexLI
	IndexLF
	IndexLH
	IndexRI
)

func (k IndexKind) String() string {
	switch k {
	case IndexLI:
		return "li"
	case IndexLF:
		return "lf"
	case IndexLH:
		return "lh"
	case IndexRI:
		return "ri"
	default:
		return "unknown"
	}
}

// DetectIndexKind inspects the two-letter tag of a subkey list payload.
func DetectIndexKind(b []byte) IndexKind {
	if len(b) < SignatureSize {
		return IndexUnknown
	}
	sig := b[:SignatureSize]
	switch {
	case bytes.Equal(sig, LISignature):
		return IndexLI
	case bytes.Equal(sig, LFSignature):
		return IndexLF
	case bytes.Equal(sig, LHSignature):
		return IndexLH
	case bytes.Equal(sig, RISignature):
		return IndexRI
	default:
		return IndexUnknown
	}
}

// IndexEntry is one element of a subkey list. For lf the Hash is the 4-byte
// name hint, for lh the registry name hash; li and ri carry no hash.
type IndexEntry struct {
	Offset  uint32
	Hash    uint32
	HasHash bool
}

// Index is a decoded subkey list. Declared is the on-disk entry count,
// len(Entries) is what was actually decoded after clamping.
type Index struct {
	Kind     IndexKind
	Declared int
	Entries  []IndexEntry
}

// DecodeIndex decodes an li/lf/lh/ri payload. At most limit entries are
// returned (limit < 0 means no extra cap), and never more than the payload
// can hold: a declared count larger than the cell is clamped, not trusted.
func DecodeIndex(b []byte, limit int) (Index, error) {
	if len(b) < IdxMinHeader {
		return Index{}, fmt.Errorf("subkey list: %w (have %d, need %d)", ErrTruncated, len(b), IdxMinHeader)
	}
	kind := DetectIndexKind(b)
	if kind == IndexUnknown {
		return Index{}, fmt.Errorf("subkey list: %w: %q", ErrSignatureMismatch, b[:SignatureSize])
	}

	declared := int(buf.U16LE(b[IdxCountOffset:]))
	entrySize := LIEntrySize
	if kind == IndexLF || kind == IndexLH {
		entrySize = LFEntrySize
	}
	caps := []int{declared}
	if limit >= 0 {
		caps = append(caps, limit)
	}
	n := buf.FitCount(len(b)-IdxListOffset, entrySize, caps...)

	entries := make([]IndexEntry, n)
	for i := range n {
		off := IdxListOffset + i*entrySize
		e := IndexEntry{Offset: buf.U32LE(b[off:])}
		if entrySize == LFEntrySize {
			e.Hash = buf.U32LE(b[off+OffsetFieldSize:])
			e.HasHash = true
		}
		entries[i] = e
	}
	return Index{Kind: kind, Declared: declared, Entries: entries}, nil
}

// LHHash computes the lh name hash: h = h*37 + upper(char) over the name's
// characters.
func LHHash(name string) uint32 {
	var h uint32
	for _, r := range name {
		h = h*LHHashMultiplier + uint32(unicode.ToUpper(r))
	}
	return h
}

// LFHint computes the lf name hint: the first four characters of the name,
// one byte each, zero padded. Characters outside ASCII contribute zero.
func LFHint(name string) uint32 {
	var hint [LFHintSize]byte
	i := 0
	for _, r := range name {
		if i == LFHintSize {
			break
		}
		if r <= unicode.MaxASCII {
			hint[i] = byte(r)
		}
		i++
	}
	return buf.U32LE(hint[:])
}

// DecodeValueList decodes a value list: a bare array of VK cell offsets with
// no header. The result holds at most count entries and never more than b
// can hold.
func DecodeValueList(b []byte, count uint32) []uint32 {
	n := buf.FitCount(len(b), OffsetFieldSize, int(min(count, uint32(len(b)))))
	out := make([]uint32, n)
	for i := range n {
		out[i] = buf.U32LE(b[i*OffsetFieldSize:])
	}
	return out
}
