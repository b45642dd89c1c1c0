package format

import (
	"fmt"

	"github.com/joshuapare/hivequery/internal/buf"
)

// DBRecord represents a "db" (Big Data) record. Values longer than
// DBThreshold are split into segments; the record points at a cell holding
// the segment offsets.
//
//	Offset  Size  Field
//	0x00    2     'd' 'b'
//	0x02    2     Number of segments
//	0x04    4     Offset of the segment list cell
type DBRecord struct {
	NumBlocks       uint16
	BlocklistOffset uint32
}

// IsDBRecord checks if the given cell data starts with the "db" signature.
func IsDBRecord(b []byte) bool {
	return len(b) >= SignatureSize && b[0] == DBSignature[0] && b[1] == DBSignature[1]
}

// DecodeDB decodes a Big Data (db) record from a cell payload.
func DecodeDB(b []byte) (DBRecord, error) {
	if len(b) < DBMinSize {
		return DBRecord{}, fmt.Errorf("db: %w (need %d bytes, have %d)", ErrTruncated, DBMinSize, len(b))
	}
	if !IsDBRecord(b) {
		return DBRecord{}, fmt.Errorf("db: %w", ErrSignatureMismatch)
	}
	return DBRecord{
		NumBlocks:       buf.U16LE(b[DBCountOffset:]),
		BlocklistOffset: buf.U32LE(b[DBListOffset:]),
	}, nil
}
