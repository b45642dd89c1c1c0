package format

import "encoding/binary"

// Little-endian writers used when assembling hive images. Callers own the
// bounds; these panic on a short buffer like encoding/binary does.

// PutU16 writes v at b[off:off+2].
func PutU16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:off+2], v)
}

// PutU32 writes v at b[off:off+4].
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// PutI32 writes v at b[off:off+4].
func PutI32(b []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(b[off:off+4], uint32(v))
}

// PutU64 writes v at b[off:off+8].
func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}
