package hive

import (
	"time"

	"github.com/joshuapare/hivequery/internal/format"
)

// KeyNode is a decoded nk record. Counts are taken from disk as-is and are
// only upper bounds; list offsets are NoOffset when absent.
type KeyNode struct {
	Offset          uint32
	Name            string
	ChildListOffset uint32
	ValueListOffset uint32
	ChildCount      uint32
	ValueCount      uint32
	LastWrite       time.Time
}

// DecodeKey decodes the key node stored in the cell at off.
func (h *Hive) DecodeKey(off uint32) (KeyNode, error) {
	payload, err := h.cell(off)
	if err != nil {
		return KeyNode{}, err
	}
	nk, err := format.DecodeNK(payload)
	if err != nil {
		return KeyNode{}, decodeErr(off, "key node", err)
	}
	return KeyNode{
		Offset:          off,
		Name:            decodeName(nk.NameRaw, nk.NameIsCompressed()),
		ChildListOffset: nk.SubkeyListOffset,
		ValueListOffset: nk.ValueListOffset,
		ChildCount:      nk.SubkeyCount,
		ValueCount:      nk.ValueCount,
		LastWrite:       format.FiletimeToTime(nk.LastWriteRaw),
	}, nil
}
