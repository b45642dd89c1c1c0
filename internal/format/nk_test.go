package format

import (
	"encoding/binary"
	"errors"
	"testing"
)

func nkPayload(name []byte, flags uint16) []byte {
	buf := make([]byte, NKFixedHeaderSize+len(name))
	copy(buf, NKSignature)
	binary.LittleEndian.PutUint16(buf[NKFlagsOffset:], flags)
	binary.LittleEndian.PutUint32(buf[NKParentOffset:], InvalidOffset)
	binary.LittleEndian.PutUint32(buf[NKSubkeyCountOffset:], 1)
	binary.LittleEndian.PutUint32(buf[NKSubkeyListOffset:], 0x200)
	binary.LittleEndian.PutUint32(buf[NKValueCountOffset:], 2)
	binary.LittleEndian.PutUint32(buf[NKValueListOffset:], 0x300)
	binary.LittleEndian.PutUint16(buf[NKNameLenOffset:], uint16(len(name)))
	copy(buf[NKNameOffset:], name)
	return buf
}

func TestDecodeNKCompressedName(t *testing.T) {
	nk, err := DecodeNK(nkPayload([]byte("ROOT"), NKFlagCompressedName))
	if err != nil {
		t.Fatalf("DecodeNK: %v", err)
	}
	if string(nk.NameRaw) != "ROOT" || !nk.NameIsCompressed() {
		t.Fatalf("unexpected name: %+v", nk)
	}
	if nk.SubkeyCount != 1 || nk.ValueCount != 2 {
		t.Fatalf("unexpected counts: %+v", nk)
	}
	if nk.SubkeyListOffset != 0x200 || nk.ValueListOffset != 0x300 {
		t.Fatalf("unexpected list offsets: %+v", nk)
	}
}

func TestDecodeNKUTF16Name(t *testing.T) {
	name := []byte{'K', 0, 'e', 0, 'y', 0}
	nk, err := DecodeNK(nkPayload(name, 0))
	if err != nil {
		t.Fatalf("DecodeNK: %v", err)
	}
	if nk.NameIsCompressed() || len(nk.NameRaw) != len(name) {
		t.Fatalf("unexpected name: %+v", nk)
	}
}

func TestDecodeNKErrors(t *testing.T) {
	if _, err := DecodeNK([]byte{'n'}); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncation for 1 byte, got %v", err)
	}
	short := make([]byte, 10)
	copy(short, NKSignature)
	if _, err := DecodeNK(short); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncation for short header, got %v", err)
	}

	shortVK := make([]byte, 10)
	copy(shortVK, VKSignature)
	if _, err := DecodeNK(shortVK); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected signature mismatch for short cell with vk tag, got %v", err)
	}

	bad := nkPayload([]byte("X"), 0)
	copy(bad, VKSignature)
	if _, err := DecodeNK(bad); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected signature mismatch, got %v", err)
	}

	// name length claims more bytes than the payload holds
	long := nkPayload([]byte("AB"), NKFlagCompressedName)
	binary.LittleEndian.PutUint16(long[NKNameLenOffset:], 0xFFFF)
	if _, err := DecodeNK(long); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncated name, got %v", err)
	}
}
