package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/hivequery/internal/buf"
)

// Header captures the REGF base block fields the lookup engine and the
// info command read. Offsets are listed next to the REGF* constants.
type Header struct {
	PrimarySequence   uint32
	SecondarySequence uint32
	LastWriteRaw      uint64
	MajorVersion      uint32
	MinorVersion      uint32
	Type              uint32
	Format            uint32
	RootCellOffset    uint32
	HiveBinsDataSize  uint32
}

// ParseHeader validates the signature and extracts the header fields.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("regf header: %w (have %d, need %d)", ErrTruncated, len(b), HeaderSize)
	}
	if !bytes.Equal(b[REGFSignatureOffset:REGFSignatureOffset+REGFSignatureSize], REGFSignature) {
		return Header{}, fmt.Errorf("regf header: %w: %q", ErrSignatureMismatch, b[:REGFSignatureSize])
	}
	return Header{
		PrimarySequence:   buf.U32LE(b[REGFPrimarySeqOffset:]),
		SecondarySequence: buf.U32LE(b[REGFSecondarySeqOffset:]),
		LastWriteRaw:      buf.U64LE(b[REGFTimeStampOffset:]),
		MajorVersion:      buf.U32LE(b[REGFMajorVersionOffset:]),
		MinorVersion:      buf.U32LE(b[REGFMinorVersionOffset:]),
		Type:              buf.U32LE(b[REGFTypeOffset:]),
		Format:            buf.U32LE(b[REGFFormatOffset:]),
		RootCellOffset:    buf.U32LE(b[REGFRootCellOffset:]),
		HiveBinsDataSize:  buf.U32LE(b[REGFDataSizeOffset:]),
	}, nil
}

// IsClean reports whether both sequence numbers agree (no interrupted write).
func (h Header) IsClean() bool { return h.PrimarySequence == h.SecondarySequence }
