package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/hivequery/internal/buf"
)

// NKRecord captures the fields of an NK record the lookup engine needs.
//
//	Offset  Size  Field
//	0x00    2     'n' 'k'
//	0x02    2     Flags (bit 0x20 => name stored as 8-bit text)
//	0x04    8     Last write time (FILETIME)
//	0x10    4     Parent cell offset
//	0x14    4     Number of subkeys
//	0x1C    4     Offset to subkey list
//	0x24    4     Number of values
//	0x28    4     Offset to value list
//	0x48    2     Name length
//	0x4C    n     Name bytes
type NKRecord struct {
	Flags            uint16
	LastWriteRaw     uint64
	ParentOffset     uint32
	SubkeyCount      uint32
	SubkeyListOffset uint32
	ValueCount       uint32
	ValueListOffset  uint32
	NameLength       uint16
	NameRaw          []byte
}

// NameIsCompressed returns true when the name is stored in 8-bit form.
func (nk NKRecord) NameIsCompressed() bool {
	return nk.Flags&NKFlagCompressedName != 0
}

// DecodeNK decodes an NK record payload. The returned NameRaw aliases b.
func DecodeNK(b []byte) (NKRecord, error) {
	if len(b) < SignatureSize {
		return NKRecord{}, fmt.Errorf("nk: %w (have %d, need %d)", ErrTruncated, len(b), SignatureSize)
	}
	// The tag is checked before the fixed header, so a short cell of another
	// type reports a signature mismatch rather than truncation.
	if !bytes.Equal(b[:SignatureSize], NKSignature) {
		return NKRecord{}, fmt.Errorf("nk: %w: %q", ErrSignatureMismatch, b[:SignatureSize])
	}
	if len(b) < NKFixedHeaderSize {
		return NKRecord{}, fmt.Errorf("nk: %w (have %d, need %d)", ErrTruncated, len(b), NKFixedHeaderSize)
	}

	nameLen := buf.U16LE(b[NKNameLenOffset:])
	name, ok := buf.Slice(b, NKNameOffset, int(nameLen))
	if !ok {
		return NKRecord{}, fmt.Errorf("nk name: %w (need %d bytes from %d, have %d)",
			ErrTruncated, nameLen, NKNameOffset, len(b))
	}

	return NKRecord{
		Flags:            buf.U16LE(b[NKFlagsOffset:]),
		LastWriteRaw:     buf.U64LE(b[NKLastWriteOffset:]),
		ParentOffset:     buf.U32LE(b[NKParentOffset:]),
		SubkeyCount:      buf.U32LE(b[NKSubkeyCountOffset:]),
		SubkeyListOffset: buf.U32LE(b[NKSubkeyListOffset:]),
		ValueCount:       buf.U32LE(b[NKValueCountOffset:]),
		ValueListOffset:  buf.U32LE(b[NKValueListOffset:]),
		NameLength:       nameLen,
		NameRaw:          name,
	}, nil
}
