package hivetest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hivequery/internal/buf"
	"github.com/joshuapare/hivequery/internal/format"
)

func payload(t *testing.T, im *Image, rel uint32) []byte {
	t.Helper()
	abs := format.HiveDataBase + int(rel)
	size := -int(buf.I32LE(im.Bytes[abs:]))
	require.Positive(t, size, "cell at %#x is not allocated", rel)
	return im.Bytes[abs+format.CellHeaderSize : abs+size]
}

func TestBuildLayout(t *testing.T) {
	im := Build(&Key{
		Name: "ROOT",
		Subkeys: []*Key{
			{Name: "Software", Values: []Value{String("Path", `C:\x`)}},
		},
	})

	require.Zero(t, len(im.Bytes)%0x1000)
	hdr, err := format.ParseHeader(im.Bytes)
	require.NoError(t, err)
	require.Equal(t, im.Key(""), hdr.RootCellOffset)
	require.Equal(t, uint32(len(im.Bytes)-format.HeaderSize), hdr.HiveBinsDataSize)
	require.Equal(t, "hbin", string(im.Bytes[format.HiveDataBase:format.HiveDataBase+4]))

	root, err := format.DecodeNK(payload(t, im, im.Key("")))
	require.NoError(t, err)
	require.Equal(t, "ROOT", string(root.NameRaw))
	require.Equal(t, uint32(1), root.SubkeyCount)
	require.Equal(t, uint32(format.InvalidOffset), root.ValueListOffset)

	idx, err := format.DecodeIndex(payload(t, im, root.SubkeyListOffset), -1)
	require.NoError(t, err)
	require.Equal(t, format.IndexLH, idx.Kind)
	require.Equal(t, im.Key("Software"), idx.Entries[0].Offset)
	require.Equal(t, format.LHHash("Software"), idx.Entries[0].Hash)

	vk, err := format.DecodeVK(payload(t, im, im.Value("Software", "Path")))
	require.NoError(t, err)
	require.Equal(t, format.REGSZ, vk.Type)
	require.Equal(t, 10, vk.Length())
	require.False(t, vk.DataInline())
}

func TestBuildWideNamesAndInline(t *testing.T) {
	im := Build(&Key{
		Name:   "ROOT",
		Values: []Value{{Name: "Ω", Type: format.REGSZ, Data: []byte{'a', 0}}},
	})
	vk, err := format.DecodeVK(payload(t, im, im.Value("", "Ω")))
	require.NoError(t, err)
	// Ω is outside Windows-1252, so the name falls back to UTF-16LE
	require.False(t, vk.NameIsCompressed())
	require.Equal(t, []byte{0xA9, 0x03}, vk.NameRaw)
	require.True(t, vk.DataInline())
	require.Equal(t, [4]byte{'a', 0, 0, 0}, vk.InlineBytes())
}

func TestBuildRIAndBigData(t *testing.T) {
	big := make([]byte, format.DBChunkSize+10)
	im := Build(&Key{
		Name:  "ROOT",
		Index: RI,
		Subkeys: []*Key{
			{Name: "A"}, {Name: "B"}, {Name: "C"},
		},
		Values: []Value{{Name: "Big", Type: format.REGSZ, Data: big}},
	})
	root, err := format.DecodeNK(payload(t, im, im.Key("")))
	require.NoError(t, err)
	ri, err := format.DecodeIndex(payload(t, im, root.SubkeyListOffset), -1)
	require.NoError(t, err)
	require.Equal(t, format.IndexRI, ri.Kind)
	require.Len(t, ri.Entries, 2)

	vk, err := format.DecodeVK(payload(t, im, im.Value("", "Big")))
	require.NoError(t, err)
	db, err := format.DecodeDB(payload(t, im, vk.DataOffset))
	require.NoError(t, err)
	require.Equal(t, uint16(2), db.NumBlocks)
}

func TestImagePatch(t *testing.T) {
	im := Build(&Key{Name: "ROOT", Subkeys: []*Key{{Name: "A"}}})
	im.PutU32(im.Key(""), format.NKSubkeyCountOffset, 10000)
	root, err := format.DecodeNK(payload(t, im, im.Key("")))
	require.NoError(t, err)
	require.Equal(t, uint32(10000), root.SubkeyCount)

	require.Equal(t, `\Software\Vendor`, Path("Software", "Vendor"))
}
