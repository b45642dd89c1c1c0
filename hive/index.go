package hive

import (
	"math"

	"github.com/joshuapare/hivequery/internal/format"
)

// ChildEntry is one element of a key's child index. For lh leaves Hash is
// the registry name hash, for lf leaves the four-byte name hint; li leaves
// carry no hash.
type ChildEntry struct {
	Offset  uint32
	Hash    uint32
	HasHash bool
	hint    bool // Hash is an lf hint rather than an lh hash
}

// matches reports whether the stored hash agrees with name. Entries without
// a hash never match.
func (e ChildEntry) matches(lhHash, lfHint uint32) bool {
	switch {
	case !e.HasHash:
		return false
	case e.hint:
		return e.Hash == lfHint
	default:
		return e.Hash == lhHash
	}
}

// Children returns the child index of key in on-disk order. At most
// key.ChildCount entries are returned, and no list is read past its cell.
func (h *Hive) Children(key KeyNode) ([]ChildEntry, error) {
	if key.ChildCount == 0 || key.ChildListOffset == NoOffset {
		return nil, nil
	}
	budget := int(min(key.ChildCount, math.MaxInt32))

	payload, err := h.cell(key.ChildListOffset)
	if err != nil {
		return nil, err
	}
	idx, err := format.DecodeIndex(payload, budget)
	if err != nil {
		return nil, decodeErr(key.ChildListOffset, "child index", err)
	}
	if idx.Kind != format.IndexRI {
		return appendLeaf(nil, idx), nil
	}

	// ri: one level of indirection, leaves share the child budget
	var out []ChildEntry
	for _, leafRef := range idx.Entries {
		if len(out) >= budget {
			break
		}
		leafPayload, err := h.cell(leafRef.Offset)
		if err != nil {
			return nil, err
		}
		leaf, err := format.DecodeIndex(leafPayload, budget-len(out))
		if err != nil {
			return nil, decodeErr(leafRef.Offset, "child index leaf", err)
		}
		if leaf.Kind == format.IndexRI {
			return nil, badRecordTag(leafRef.Offset, "child index leaf")
		}
		out = appendLeaf(out, leaf)
	}
	return out, nil
}

func appendLeaf(out []ChildEntry, idx format.Index) []ChildEntry {
	for _, e := range idx.Entries {
		out = append(out, ChildEntry{
			Offset:  e.Offset,
			Hash:    e.Hash,
			HasHash: e.HasHash,
			hint:    idx.Kind == format.IndexLF,
		})
	}
	return out
}

// FindChild returns the cell offset of the child of key named segment.
// Entries whose hash agrees with segment are compared first; the remaining
// entries are compared afterwards so a stale hash cannot hide a child.
// Names compare exactly. The first match wins.
func (h *Hive) FindChild(key KeyNode, segment string) (uint32, error) {
	entries, err := h.Children(key)
	if err != nil {
		return 0, err
	}
	lhHash, lfHint := format.LHHash(segment), format.LFHint(segment)

	for _, pass := range []bool{true, false} {
		for _, e := range entries {
			if e.matches(lhHash, lfHint) != pass {
				continue
			}
			child, err := h.DecodeKey(e.Offset)
			if err != nil {
				return 0, err
			}
			if child.Name == segment {
				return e.Offset, nil
			}
		}
	}
	return 0, KeyNotFound(segment)
}
