// Package format houses low-level decoders for the Windows Registry hive file
// format. Decoders take a record payload (the bytes after a cell's size
// header) and return plain structs; they never follow offsets. Navigation
// between records and the bounds that go with it live in package hive.
package format

var (
	// REGFSignature is the four-byte signature at the start of every hive file.
	REGFSignature = []byte{'r', 'e', 'g', 'f'}

	// NKSignature identifies an NK (Node Key) cell payload.
	NKSignature = []byte{'n', 'k'}

	// VKSignature identifies a VK (Value Key) cell payload.
	VKSignature = []byte{'v', 'k'}

	// LFSignature, LHSignature, and LISignature identify subkey list leaves.
	// LF/LH pair every offset with a name hint or hash, LI stores bare offsets.
	LFSignature = []byte{'l', 'f'}
	LHSignature = []byte{'l', 'h'}
	LISignature = []byte{'l', 'i'}

	// RISignature identifies an RI (index root) list whose entries point at
	// leaves rather than at key nodes.
	RISignature = []byte{'r', 'i'}

	// DBSignature identifies a Big Data (DB) record for large registry values.
	DBSignature = []byte{'d', 'b'}
)

const (
	// HeaderSize is the size of the REGF base block. The data region (first
	// HBIN) starts right after it.
	HeaderSize = 4096

	// HiveDataBase is the file offset every cell offset is relative to.
	HiveDataBase = 0x1000

	// CellHeaderSize is the signed 32-bit size that precedes every cell.
	CellHeaderSize = 4

	// SignatureSize is the size of the two-letter record tags (nk, vk, lf...).
	SignatureSize = 2

	// InvalidOffset marks an absent list or cell reference.
	InvalidOffset = 0xFFFFFFFF

	// OffsetFieldSize is the size of a cell offset (HCELL_INDEX).
	OffsetFieldSize = 4
)

// REGF header field offsets.
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	 0x000   4    'r' 'e' 'g' 'f'
//	 0x004   4    Primary sequence number
//	 0x008   4    Secondary sequence number
//	 0x00C   8    Last write timestamp (FILETIME)
//	 0x014   4    Major version
//	 0x018   4    Minor version
//	 0x01C   4    Type (0 = primary, 1 = alternate)
//	 0x020   4    Format
//	 0x024   4    Root cell offset (relative to 0x1000)
//	 0x028   4    Total size of HBIN data
const (
	REGFSignatureOffset    = 0x000
	REGFSignatureSize      = 4
	REGFPrimarySeqOffset   = 0x004
	REGFSecondarySeqOffset = 0x008
	REGFTimeStampOffset    = 0x00C
	REGFMajorVersionOffset = 0x014
	REGFMinorVersionOffset = 0x018
	REGFTypeOffset         = 0x01C
	REGFFormatOffset       = 0x020
	REGFRootCellOffset     = 0x024
	REGFDataSizeOffset     = 0x028
)

// NK field offsets within the record (payload start == "nk").
const (
	NKSignatureOffset      = 0x00
	NKFlagsOffset          = 0x02
	NKLastWriteOffset      = 0x04
	NKParentOffset         = 0x10
	NKSubkeyCountOffset    = 0x14
	NKVolSubkeyCountOffset = 0x18
	NKSubkeyListOffset     = 0x1C
	NKVolSubkeyListOffset  = 0x20
	NKValueCountOffset     = 0x24
	NKValueListOffset      = 0x28
	NKSecurityOffset       = 0x2C
	NKClassNameOffset      = 0x30
	NKNameLenOffset        = 0x48
	NKClassLenOffset       = 0x4A
	NKNameOffset           = 0x4C

	// NKFixedHeaderSize is where the variable-length name begins.
	NKFixedHeaderSize = NKNameOffset

	// NKFlagCompressedName marks an 8-bit (Windows-1252) key name.
	NKFlagCompressedName = 0x20
)

// Subkey list header (_CM_KEY_INDEX) and entry sizes.
const (
	IdxSignatureOffset = 0x00
	IdxCountOffset     = 0x02
	IdxListOffset      = 0x04

	// IdxMinHeader is the payload size of a list with no entries.
	IdxMinHeader = IdxListOffset

	// LIEntrySize is one uint32 cell index (li and ri lists).
	LIEntrySize = 4

	// LFEntrySize is one {Cell uint32; HintOrHash uint32} pair (lf and lh lists).
	LFEntrySize = 8

	// LFHintSize is the number of leading name bytes stored in an lf hint.
	LFHintSize = 4

	// LHHashMultiplier drives the lh name hash: h = h*37 + upper(char).
	LHHashMultiplier = 37
)

// VK field offsets within the record (payload start == "vk").
const (
	VKSignatureOffset = 0x00
	VKNameLenOffset   = 0x02
	VKDataLenOffset   = 0x04 // high bit = data stored inline
	VKDataOffOffset   = 0x08 // data cell offset, or the inline bytes
	VKTypeOffset      = 0x0C
	VKFlagsOffset     = 0x10
	VKNameOffset      = 0x14

	VKFixedHeaderSize = VKNameOffset

	VKFlagNameCompressed = 0x0001
	VKDataInlineBit      = 0x80000000
	VKDataLengthMask     = 0x7FFFFFFF

	// VKInlineMax is the most data the DataOff field can hold.
	VKInlineMax = 4
)

// DB record (_CM_BIG_DATA) layout.
const (
	DBSignatureOffset = 0x00
	DBCountOffset     = 0x02 // number of segments
	DBListOffset      = 0x04 // cell offset of the segment list
	DBMinSize         = 0x08

	// DBChunkSize is the payload carried by every segment but the last.
	DBChunkSize = 16344

	// DBThreshold is the largest value stored in a single data cell; longer
	// values on hives >= 1.4 use a db record.
	DBThreshold = DBChunkSize
)

// Registry value type codes.
const (
	REGNone     uint32 = 0
	REGSZ       uint32 = 1
	REGExpandSZ uint32 = 2
	REGBinary   uint32 = 3
	REGDWORD    uint32 = 4
	REGDWORDBE  uint32 = 5
	REGLink     uint32 = 6
	REGMultiSZ  uint32 = 7
	REGQWORD    uint32 = 11
)
