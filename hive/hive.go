package hive

import (
	"errors"
	"fmt"
	"time"

	"github.com/joshuapare/hivequery/internal/buf"
	"github.com/joshuapare/hivequery/internal/format"
)

// NoOffset marks an absent list or cell reference (0xFFFFFFFF on disk).
const NoOffset uint32 = format.InvalidOffset

// Hive is a parsed view over one immutable hive buffer. All offsets are
// relative to the data region that starts at file offset 0x1000.
type Hive struct {
	data       []byte // data region, len(data) == Size
	header     format.Header
	fileSize   int
	Signature  [4]byte
	Size       uint32 // usable data region bytes
	RootOffset uint32
}

// Info is the base block summary shown by the info command.
type Info struct {
	Signature         string
	PrimarySequence   uint32
	SecondarySequence uint32
	Clean             bool
	MajorVersion      uint32
	MinorVersion      uint32
	Type              uint32
	LastWrite         time.Time
	RootOffset        uint32
	DeclaredDataSize  uint32
	DataSize          uint32
	FileSize          int
}

// ReadHeader validates the base block of b and returns a Hive over it.
// The declared data size is clamped to the bytes actually present, and the
// root cell offset must fall inside the result.
func ReadHeader(b []byte) (*Hive, error) {
	hdr, err := format.ParseHeader(b)
	switch {
	case errors.Is(err, format.ErrTruncated):
		return nil, &Error{Kind: ErrKindTruncatedHeader, Offset: NoOffset,
			Msg: fmt.Sprintf("truncated hive header: have %d bytes, need %d", len(b), format.HeaderSize)}
	case errors.Is(err, format.ErrSignatureMismatch):
		return nil, &Error{Kind: ErrKindBadSignature, Offset: NoOffset, Msg: "hive header", Err: err}
	case err != nil:
		return nil, err
	}

	size := min(uint64(hdr.HiveBinsDataSize), uint64(len(b)-format.HiveDataBase))
	h := &Hive{
		data:       b[format.HiveDataBase : format.HiveDataBase+int(size)],
		header:     hdr,
		fileSize:   len(b),
		Size:       uint32(size),
		RootOffset: hdr.RootCellOffset,
	}
	copy(h.Signature[:], b[:format.REGFSignatureSize])
	if h.RootOffset >= h.Size {
		return nil, outOfBounds(h.RootOffset, "root cell offset %#x beyond data size %#x", h.RootOffset, h.Size)
	}
	return h, nil
}

// Info summarizes the base block.
func (h *Hive) Info() Info {
	return Info{
		Signature:         string(h.Signature[:]),
		PrimarySequence:   h.header.PrimarySequence,
		SecondarySequence: h.header.SecondarySequence,
		Clean:             h.header.IsClean(),
		MajorVersion:      h.header.MajorVersion,
		MinorVersion:      h.header.MinorVersion,
		Type:              h.header.Type,
		LastWrite:         format.FiletimeToTime(h.header.LastWriteRaw),
		RootOffset:        h.RootOffset,
		DeclaredDataSize:  h.header.HiveBinsDataSize,
		DataSize:          h.Size,
		FileSize:          h.fileSize,
	}
}

// Root decodes the root key node.
func (h *Hive) Root() (KeyNode, error) {
	return h.DecodeKey(h.RootOffset)
}

// cell returns the payload of the cell at off. The whole cell, size header
// included, must lie inside the data region. Free cells are accepted.
//
//	int32 Size  (negative => allocated; absolute value includes the header)
//	...payload...
func (h *Hive) cell(off uint32) ([]byte, error) {
	if off == NoOffset {
		return nil, outOfBounds(off, "cell offset is unset")
	}
	if !buf.Has(h.data, int(off), format.CellHeaderSize) {
		return nil, outOfBounds(off, "cell header at %#x beyond data size %#x", off, h.Size)
	}
	total := int64(buf.I32LE(h.data[off:]))
	if total < 0 {
		total = -total
	}
	if total < format.CellHeaderSize {
		return nil, outOfBounds(off, "cell at %#x: size %d too small", off, total)
	}
	if int64(off)+total > int64(h.Size) {
		return nil, outOfBounds(off, "cell at %#x: size %d runs past data size %#x", off, total, h.Size)
	}
	return h.data[int64(off)+format.CellHeaderSize : int64(off)+total], nil
}
