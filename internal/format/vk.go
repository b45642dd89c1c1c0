package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/hivequery/internal/buf"
)

// VKRecord models a value key record header. VK cells describe registry values
// and reference the actual data payload (either inline or via another cell).
type VKRecord struct {
	NameLength uint16
	DataLength uint32 // raw field, including the inline bit
	DataOffset uint32
	Type       uint32
	Flags      uint16
	NameRaw    []byte
}

// NameIsCompressed reports whether the name is stored as 8-bit text.
func (vk VKRecord) NameIsCompressed() bool {
	return vk.Flags&VKFlagNameCompressed != 0
}

// DataInline reports whether the data is stored within the DataOffset field.
func (vk VKRecord) DataInline() bool {
	return vk.DataLength&VKDataInlineBit != 0
}

// Length returns the declared data length with the inline bit masked off.
func (vk VKRecord) Length() int {
	return int(vk.DataLength & VKDataLengthMask)
}

// InlineBytes returns the DataOffset field as the little-endian bytes it
// holds when DataInline is true.
func (vk VKRecord) InlineBytes() [VKInlineMax]byte {
	return [VKInlineMax]byte{
		byte(vk.DataOffset),
		byte(vk.DataOffset >> 8),
		byte(vk.DataOffset >> 16),
		byte(vk.DataOffset >> 24),
	}
}

// DecodeVK decodes a VK record payload. The returned NameRaw aliases b.
func DecodeVK(b []byte) (VKRecord, error) {
	if len(b) < SignatureSize {
		return VKRecord{}, fmt.Errorf("vk: %w (have %d, need %d)", ErrTruncated, len(b), SignatureSize)
	}
	if !bytes.Equal(b[:SignatureSize], VKSignature) {
		return VKRecord{}, fmt.Errorf("vk: %w: %q", ErrSignatureMismatch, b[:SignatureSize])
	}
	if len(b) < VKFixedHeaderSize {
		return VKRecord{}, fmt.Errorf("vk: %w (have %d, need %d)", ErrTruncated, len(b), VKFixedHeaderSize)
	}

	nameLen := buf.U16LE(b[VKNameLenOffset:])
	name, ok := buf.Slice(b, VKNameOffset, int(nameLen))
	if !ok {
		return VKRecord{}, fmt.Errorf("vk name: %w (need %d bytes from %d, have %d)",
			ErrTruncated, nameLen, VKNameOffset, len(b))
	}

	return VKRecord{
		NameLength: nameLen,
		DataLength: buf.U32LE(b[VKDataLenOffset:]),
		DataOffset: buf.U32LE(b[VKDataOffOffset:]),
		Type:       buf.U32LE(b[VKTypeOffset:]),
		Flags:      buf.U16LE(b[VKFlagsOffset:]),
		NameRaw:    name,
	}, nil
}
