package hive

import (
	"fmt"

	"github.com/joshuapare/hivequery/internal/format"
)

// ValueType is the registry data type tag of a value record.
type ValueType uint32

const (
	REG_NONE      ValueType = ValueType(format.REGNone)
	REG_SZ        ValueType = ValueType(format.REGSZ)
	REG_EXPAND_SZ ValueType = ValueType(format.REGExpandSZ)
	REG_BINARY    ValueType = ValueType(format.REGBinary)
	REG_DWORD     ValueType = ValueType(format.REGDWORD)
	REG_DWORD_BE  ValueType = ValueType(format.REGDWORDBE)
	REG_LINK      ValueType = ValueType(format.REGLink)
	REG_MULTI_SZ  ValueType = ValueType(format.REGMultiSZ)
	REG_QWORD     ValueType = ValueType(format.REGQWORD)
)

// String implements the Stringer interface for ValueType.
func (t ValueType) String() string {
	switch t {
	case REG_NONE:
		return "REG_NONE"
	case REG_SZ:
		return "REG_SZ"
	case REG_EXPAND_SZ:
		return "REG_EXPAND_SZ"
	case REG_BINARY:
		return "REG_BINARY"
	case REG_DWORD:
		return "REG_DWORD"
	case REG_DWORD_BE:
		return "REG_DWORD_BE"
	case REG_LINK:
		return "REG_LINK"
	case REG_MULTI_SZ:
		return "REG_MULTI_SZ"
	case REG_QWORD:
		return "REG_QWORD"
	default:
		return fmt.Sprintf("UNKNOWN_TYPE_%d", int32(t))
	}
}

// ValueRecord is a decoded vk record. Resident values keep up to four data
// bytes inside the record; the others point at a data cell via DataOffset.
type ValueRecord struct {
	Offset     uint32
	Name       string
	Type       ValueType
	DataSize   int32
	Resident   bool
	DataOffset uint32
	inline     [format.VKInlineMax]byte
}

// DecodeValue decodes the value record stored in the cell at off.
func (h *Hive) DecodeValue(off uint32) (ValueRecord, error) {
	payload, err := h.cell(off)
	if err != nil {
		return ValueRecord{}, err
	}
	vk, err := format.DecodeVK(payload)
	if err != nil {
		return ValueRecord{}, decodeErr(off, "value record", err)
	}
	return ValueRecord{
		Offset:     off,
		Name:       decodeName(vk.NameRaw, vk.NameIsCompressed()),
		Type:       ValueType(vk.Type),
		DataSize:   int32(vk.Length()),
		Resident:   vk.DataInline(),
		DataOffset: vk.DataOffset,
		inline:     vk.InlineBytes(),
	}, nil
}

// valueOffsets reads the value list of key, clamped to its cell.
func (h *Hive) valueOffsets(key KeyNode) ([]uint32, error) {
	if key.ValueCount == 0 || key.ValueListOffset == NoOffset {
		return nil, nil
	}
	payload, err := h.cell(key.ValueListOffset)
	if err != nil {
		return nil, err
	}
	return format.DecodeValueList(payload, key.ValueCount), nil
}

// Values decodes every value record of key in list order.
func (h *Hive) Values(key KeyNode) ([]ValueRecord, error) {
	offs, err := h.valueOffsets(key)
	if err != nil {
		return nil, err
	}
	out := make([]ValueRecord, 0, len(offs))
	for _, off := range offs {
		v, err := h.DecodeValue(off)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// FindValue returns the REG_SZ value of key named name. Names compare
// exactly; the empty name selects the key's default value.
func (h *Hive) FindValue(key KeyNode, name string) (string, error) {
	offs, err := h.valueOffsets(key)
	if err != nil {
		return "", err
	}
	for _, off := range offs {
		v, err := h.DecodeValue(off)
		if err != nil {
			return "", err
		}
		if v.Name == name {
			return h.ValueString(v)
		}
	}
	return "", &Error{Kind: ErrKindValueNotFound, Offset: key.Offset,
		Msg: fmt.Sprintf("value %q not found under key %q", name, key.Name)}
}

// ValueString decodes v as a string. Only REG_SZ is supported.
func (h *Hive) ValueString(v ValueRecord) (string, error) {
	if v.Type != REG_SZ {
		return "", &Error{Kind: ErrKindUnsupportedValueType, Offset: v.Offset,
			Msg: fmt.Sprintf("value %q has type %s, want REG_SZ", v.Name, v.Type)}
	}
	data, err := h.ValueData(v)
	if err != nil {
		return "", err
	}
	return decodeString(data), nil
}

// ValueData returns the raw data bytes of v. The declared size is clamped
// to the bytes actually present. Values stored as big data (db) records are
// reassembled from their segments; the result then is a copy.
func (h *Hive) ValueData(v ValueRecord) ([]byte, error) {
	n := int(v.DataSize)
	if v.Resident {
		b := v.inline
		return b[:min(n, format.VKInlineMax)], nil
	}
	if n == 0 {
		return nil, nil
	}
	payload, err := h.cell(v.DataOffset)
	if err != nil {
		return nil, err
	}
	if n > format.DBThreshold && format.IsDBRecord(payload) {
		return h.bigData(v.DataOffset, payload, n)
	}
	return payload[:min(n, len(payload))], nil
}

// bigData concatenates the segments of a db record. Output never exceeds
// the declared size nor the size of the data region.
func (h *Hive) bigData(off uint32, payload []byte, n int) ([]byte, error) {
	db, err := format.DecodeDB(payload)
	if err != nil {
		return nil, decodeErr(off, "big data record", err)
	}
	list, err := h.cell(db.BlocklistOffset)
	if err != nil {
		return nil, err
	}
	remaining := min(n, int(h.Size))
	var out []byte
	for _, seg := range format.DecodeValueList(list, uint32(db.NumBlocks)) {
		if remaining == 0 {
			break
		}
		chunk, err := h.cell(seg)
		if err != nil {
			return nil, err
		}
		take := min(remaining, format.DBChunkSize, len(chunk))
		out = append(out, chunk[:take]...)
		remaining -= take
	}
	return out, nil
}
