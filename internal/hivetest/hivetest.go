// Package hivetest assembles small, well-formed hive images in memory so the
// lookup engine can be tested without binary fixtures. Images can be patched
// afterwards to model corruption.
package hivetest

import (
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/joshuapare/hivequery/internal/buf"
	"github.com/joshuapare/hivequery/internal/format"
)

// Timestamp is the last write time stamped on the base block and every key.
var Timestamp = time.Date(2008, time.April, 14, 12, 0, 0, 0, time.UTC)

// IndexKind selects the subkey list layout a Key is written with.
type IndexKind int

const (
	LH IndexKind = iota // hash leaf (default)
	LF                  // hint leaf
	LI                  // bare offsets
	RI                  // ri root over two lh leaves
)

// Key describes one key node and everything below it.
type Key struct {
	Name        string
	WideName    bool // store the name as UTF-16LE
	Index       IndexKind
	StaleHashes bool // write lf/lh hashes that match none of the names
	Subkeys     []*Key
	Values      []Value
}

// Value describes one value record.
type Value struct {
	Name     string
	WideName bool
	Type     uint32
	Data     []byte
}

// String returns a REG_SZ value holding s as NUL-terminated UTF-16LE.
func String(name, s string) Value {
	return Value{Name: name, Type: format.REGSZ, Data: append(UTF16(s), 0, 0)}
}

// DWORD returns a REG_DWORD value.
func DWORD(name string, v uint32) Value {
	b := make([]byte, 4)
	format.PutU32(b, 0, v)
	return Value{Name: name, Type: format.REGDWORD, Data: b}
}

// UTF16 encodes s as UTF-16LE without a terminator.
func UTF16(s string) []byte {
	b, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
	if err != nil {
		panic(err)
	}
	return b
}

// Image is a built hive plus the cell offsets of its records.
type Image struct {
	Bytes  []byte
	keys   map[string]uint32
	values map[string]uint32
}

// Key returns the nk cell offset of the key at path ("" is the root;
// segments joined with `\`, no leading separator).
func (im *Image) Key(path string) uint32 {
	off, ok := im.keys[path]
	if !ok {
		panic("hivetest: no key " + path)
	}
	return off
}

// Value returns the vk cell offset of value name under the key at path.
func (im *Image) Value(path, name string) uint32 {
	off, ok := im.values[valueID(path, name)]
	if !ok {
		panic("hivetest: no value " + name + " under " + path)
	}
	return off
}

// PutU32 overwrites a little-endian u32 at field offset off within the
// payload of the cell at rel.
func (im *Image) PutU32(rel uint32, off int, v uint32) {
	format.PutU32(im.Bytes, payloadStart(rel)+off, v)
}

// PutU16 overwrites a little-endian u16 within a cell payload.
func (im *Image) PutU16(rel uint32, off int, v uint16) {
	format.PutU16(im.Bytes, payloadStart(rel)+off, v)
}

// PutBytes overwrites raw bytes within a cell payload.
func (im *Image) PutBytes(rel uint32, off int, b []byte) {
	copy(im.Bytes[payloadStart(rel)+off:], b)
}

// SetCellSize overwrites the signed size header of the cell at rel.
func (im *Image) SetCellSize(rel uint32, size int32) {
	format.PutI32(im.Bytes, format.HiveDataBase+int(rel), size)
}

// SetRoot overwrites the root cell offset in the base block.
func (im *Image) SetRoot(rel uint32) {
	format.PutU32(im.Bytes, format.REGFRootCellOffset, rel)
}

// SetDataSize overwrites the hive bins data size in the base block.
func (im *Image) SetDataSize(n uint32) {
	format.PutU32(im.Bytes, format.REGFDataSizeOffset, n)
}

// Build writes root and its descendants into a fresh hive image.
func Build(root *Key) *Image {
	w := &writer{
		data:   make([]byte, hbinHeaderSize),
		keys:   make(map[string]uint32),
		values: make(map[string]uint32),
	}
	rootOff := w.key(root, format.InvalidOffset, "", true)

	// round the single bin up to a page
	size := (len(w.data) + hbinAlign - 1) / hbinAlign * hbinAlign
	w.data = append(w.data, make([]byte, size-len(w.data))...)
	copy(w.data, hbinSignature)
	format.PutU32(w.data, hbinOffsetField, 0)
	format.PutU32(w.data, hbinSizeField, uint32(size))

	out := make([]byte, format.HeaderSize, format.HeaderSize+size)
	copy(out, format.REGFSignature)
	format.PutU32(out, format.REGFPrimarySeqOffset, 1)
	format.PutU32(out, format.REGFSecondarySeqOffset, 1)
	format.PutU64(out, format.REGFTimeStampOffset, format.TimeToFiletime(Timestamp))
	format.PutU32(out, format.REGFMajorVersionOffset, 1)
	format.PutU32(out, format.REGFMinorVersionOffset, 5)
	format.PutU32(out, format.REGFFormatOffset, 1)
	format.PutU32(out, format.REGFRootCellOffset, rootOff)
	format.PutU32(out, format.REGFDataSizeOffset, uint32(size))
	var sum uint32
	for i := 0; i < checksumOffset; i += 4 {
		sum ^= buf.U32LE(out[i:])
	}
	format.PutU32(out, checksumOffset, sum)

	return &Image{Bytes: append(out, w.data...), keys: w.keys, values: w.values}
}

const (
	hbinHeaderSize  = 0x20
	hbinAlign       = 0x1000
	hbinOffsetField = 0x04
	hbinSizeField   = 0x08
	checksumOffset  = 0x1FC
	cellAlign       = 8

	nkFlagHiveEntry = 0x0004
	nkFlagNoDelete  = 0x0008
)

var hbinSignature = []byte("hbin")

func payloadStart(rel uint32) int {
	return format.HiveDataBase + int(rel) + format.CellHeaderSize
}

func valueID(path, name string) string { return path + "\x00" + name }

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + `\` + name
}

type writer struct {
	data   []byte
	keys   map[string]uint32
	values map[string]uint32
}

// cell appends an allocated cell holding payload and returns its offset.
func (w *writer) cell(payload []byte) uint32 {
	size := format.CellHeaderSize + len(payload)
	size = (size + cellAlign - 1) / cellAlign * cellAlign
	rel := len(w.data)
	w.data = append(w.data, make([]byte, size)...)
	format.PutI32(w.data, rel, int32(-size))
	copy(w.data[rel+format.CellHeaderSize:], payload)
	return uint32(rel)
}

func (w *writer) put32(rel uint32, off int, v uint32) {
	format.PutU32(w.data, int(rel)+format.CellHeaderSize+off, v)
}

// encodeName returns the on-disk name bytes and whether they are 8-bit.
func encodeName(name string, wide bool) ([]byte, bool) {
	if !wide {
		if b, err := charmap.Windows1252.NewEncoder().Bytes([]byte(name)); err == nil {
			return b, true
		}
	}
	return UTF16(name), false
}

func (w *writer) key(k *Key, parent uint32, path string, root bool) uint32 {
	name, compressed := encodeName(k.Name, k.WideName)
	nk := make([]byte, format.NKFixedHeaderSize+len(name))
	copy(nk, format.NKSignature)
	var flags uint16
	if compressed {
		flags |= format.NKFlagCompressedName
	}
	if root {
		flags |= nkFlagHiveEntry | nkFlagNoDelete
	}
	format.PutU16(nk, format.NKFlagsOffset, flags)
	format.PutU64(nk, format.NKLastWriteOffset, format.TimeToFiletime(Timestamp))
	format.PutU32(nk, format.NKParentOffset, parent)
	format.PutU32(nk, format.NKSubkeyListOffset, format.InvalidOffset)
	format.PutU32(nk, format.NKVolSubkeyListOffset, format.InvalidOffset)
	format.PutU32(nk, format.NKValueListOffset, format.InvalidOffset)
	format.PutU32(nk, format.NKSecurityOffset, format.InvalidOffset)
	format.PutU32(nk, format.NKClassNameOffset, format.InvalidOffset)
	format.PutU16(nk, format.NKNameLenOffset, uint16(len(name)))
	copy(nk[format.NKNameOffset:], name)
	off := w.cell(nk)
	w.keys[path] = off

	children := make([]uint32, len(k.Subkeys))
	for i, sk := range k.Subkeys {
		children[i] = w.key(sk, off, joinPath(path, sk.Name), false)
	}
	if len(children) > 0 {
		w.put32(off, format.NKSubkeyCountOffset, uint32(len(children)))
		w.put32(off, format.NKSubkeyListOffset, w.index(k, children))
	}

	if len(k.Values) > 0 {
		list := make([]byte, len(k.Values)*format.OffsetFieldSize)
		for i, v := range k.Values {
			vk := w.value(v)
			w.values[valueID(path, v.Name)] = vk
			format.PutU32(list, i*format.OffsetFieldSize, vk)
		}
		w.put32(off, format.NKValueCountOffset, uint32(len(k.Values)))
		w.put32(off, format.NKValueListOffset, w.cell(list))
	}
	return off
}

func (w *writer) index(k *Key, children []uint32) uint32 {
	switch k.Index {
	case LI:
		return w.leaf(format.LISignature, k.Subkeys, children, nil)
	case LF:
		return w.leaf(format.LFSignature, k.Subkeys, children, hashFunc(format.LFHint, k.StaleHashes))
	case RI:
		h := hashFunc(format.LHHash, k.StaleHashes)
		half := (len(children) + 1) / 2
		leaves := []uint32{w.leaf(format.LHSignature, k.Subkeys[:half], children[:half], h)}
		if half < len(children) {
			leaves = append(leaves, w.leaf(format.LHSignature, k.Subkeys[half:], children[half:], h))
		}
		ri := make([]byte, format.IdxListOffset+len(leaves)*format.LIEntrySize)
		copy(ri, format.RISignature)
		format.PutU16(ri, format.IdxCountOffset, uint16(len(leaves)))
		for i, l := range leaves {
			format.PutU32(ri, format.IdxListOffset+i*format.LIEntrySize, l)
		}
		return w.cell(ri)
	default:
		return w.leaf(format.LHSignature, k.Subkeys, children, hashFunc(format.LHHash, k.StaleHashes))
	}
}

func hashFunc(f func(string) uint32, stale bool) func(string) uint32 {
	if !stale {
		return f
	}
	return func(name string) uint32 { return ^f(name) }
}

// leaf writes an li (hash == nil) or lf/lh list.
func (w *writer) leaf(sig []byte, keys []*Key, children []uint32, hash func(string) uint32) uint32 {
	entry := format.LIEntrySize
	if hash != nil {
		entry = format.LFEntrySize
	}
	b := make([]byte, format.IdxListOffset+len(children)*entry)
	copy(b, sig)
	format.PutU16(b, format.IdxCountOffset, uint16(len(children)))
	for i, c := range children {
		at := format.IdxListOffset + i*entry
		format.PutU32(b, at, c)
		if hash != nil {
			format.PutU32(b, at+format.OffsetFieldSize, hash(keys[i].Name))
		}
	}
	return w.cell(b)
}

func (w *writer) value(v Value) uint32 {
	name, compressed := encodeName(v.Name, v.WideName)
	vk := make([]byte, format.VKFixedHeaderSize+len(name))
	copy(vk, format.VKSignature)
	format.PutU16(vk, format.VKNameLenOffset, uint16(len(name)))
	format.PutU32(vk, format.VKTypeOffset, v.Type)
	if compressed {
		format.PutU16(vk, format.VKFlagsOffset, format.VKFlagNameCompressed)
	}
	copy(vk[format.VKNameOffset:], name)

	n := len(v.Data)
	switch {
	case n <= format.VKInlineMax:
		var inline [format.VKInlineMax]byte
		copy(inline[:], v.Data)
		format.PutU32(vk, format.VKDataLenOffset, uint32(n)|format.VKDataInlineBit)
		copy(vk[format.VKDataOffOffset:], inline[:])
	case n > format.DBThreshold:
		format.PutU32(vk, format.VKDataLenOffset, uint32(n))
		format.PutU32(vk, format.VKDataOffOffset, w.bigData(v.Data))
	default:
		format.PutU32(vk, format.VKDataLenOffset, uint32(n))
		format.PutU32(vk, format.VKDataOffOffset, w.cell(v.Data))
	}
	return w.cell(vk)
}

func (w *writer) bigData(data []byte) uint32 {
	var blocks []uint32
	for len(data) > 0 {
		n := min(len(data), format.DBChunkSize)
		blocks = append(blocks, w.cell(data[:n]))
		data = data[n:]
	}
	list := make([]byte, len(blocks)*format.OffsetFieldSize)
	for i, b := range blocks {
		format.PutU32(list, i*format.OffsetFieldSize, b)
	}
	listOff := w.cell(list)

	db := make([]byte, format.DBMinSize)
	copy(db, format.DBSignature)
	format.PutU16(db, format.DBCountOffset, uint16(len(blocks)))
	format.PutU32(db, format.DBListOffset, listOff)
	return w.cell(db)
}

// Path renders segments as a `\`-prefixed key path.
func Path(segments ...string) string {
	return `\` + strings.Join(segments, `\`)
}
