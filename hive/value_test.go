package hive

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hivequery/internal/format"
	"github.com/joshuapare/hivequery/internal/hivetest"
)

func vendorKey(t *testing.T, im *hivetest.Image) (*Hive, KeyNode) {
	t.Helper()
	h, err := ReadHeader(im.Bytes)
	require.NoError(t, err)
	k, err := h.DecodeKey(im.Key(`Software\Vendor`))
	require.NoError(t, err)
	return h, k
}

func TestValues(t *testing.T) {
	h, k := vendorKey(t, scenarioImage())
	vals, err := h.Values(k)
	require.NoError(t, err)
	require.Len(t, vals, 4)

	require.Equal(t, "Version", vals[0].Name)
	require.Equal(t, REG_DWORD, vals[0].Type)
	require.True(t, vals[0].Resident)
	require.Equal(t, int32(4), vals[0].DataSize)
	data, err := h.ValueData(vals[0])
	require.NoError(t, err)
	require.Equal(t, []byte{7, 0, 0, 0}, data)

	require.Equal(t, "InstallPath", vals[1].Name)
	require.Equal(t, REG_SZ, vals[1].Type)
	require.False(t, vals[1].Resident)
	require.Equal(t, int32(2*len(`C:\Program Files\App`)+2), vals[1].DataSize)

	require.Equal(t, "", vals[3].Name)
}

func TestFindValue(t *testing.T) {
	h, k := vendorKey(t, scenarioImage())

	s, err := h.FindValue(k, "InstallPath")
	require.NoError(t, err)
	require.Equal(t, `C:\Program Files\App`, s)

	s, err = h.FindValue(k, "Short")
	require.NoError(t, err)
	require.Equal(t, "a", s)

	s, err = h.FindValue(k, "")
	require.NoError(t, err)
	require.Equal(t, "default", s)

	_, err = h.FindValue(k, "installpath")
	requireKind(t, err, ErrKindValueNotFound)
	require.True(t, IsAbsent(err))

	_, err = h.FindValue(k, "Version")
	requireKind(t, err, ErrKindUnsupportedValueType)
	require.False(t, IsAbsent(err))
	require.False(t, IsCorrupt(err))
}

func TestFindValueNoValues(t *testing.T) {
	im := scenarioImage()
	h, err := ReadHeader(im.Bytes)
	require.NoError(t, err)
	root, err := h.Root()
	require.NoError(t, err)
	_, err = h.FindValue(root, "X")
	requireKind(t, err, ErrKindValueNotFound)
}

func TestValueStringEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"empty", nil, ""},
		{"nul only", []byte{0, 0}, ""},
		{"no terminator", hivetest.UTF16("abc"), "abc"},
		{"odd trailing byte", append(hivetest.UTF16("abc"), 'x'), "abc"},
		{"stops at first nul", append(append(hivetest.UTF16("ab"), 0, 0), hivetest.UTF16("cd")...), "ab"},
		{"non-ascii", append(hivetest.UTF16("Größe €"), 0, 0), "Größe €"},
		{"surrogate pair", append(hivetest.UTF16("😀"), 0, 0), "😀"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im := hivetest.Build(&hivetest.Key{
				Name:   "ROOT",
				Values: []hivetest.Value{{Name: "V", Type: format.REGSZ, Data: tt.data}},
			})
			got, err := Lookup(im.Bytes, "", "V")
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestValueDataClamped(t *testing.T) {
	im := scenarioImage()
	off := im.Value(`Software\Vendor`, "InstallPath")
	im.PutU32(off, format.VKDataLenOffset, 0x7FFFFFF0)
	h, k := vendorKey(t, im)

	s, err := h.FindValue(k, "InstallPath")
	require.NoError(t, err)
	require.Equal(t, `C:\Program Files\App`, s)

	// resident data never exceeds the four inline bytes
	im.PutU32(im.Value(`Software\Vendor`, "Short"), format.VKDataLenOffset, 0x7FFF|format.VKDataInlineBit)
	s, err = h.FindValue(k, "Short")
	require.NoError(t, err)
	require.Equal(t, "a", s)
}

func TestValueCorruption(t *testing.T) {
	t.Run("data offset outside data", func(t *testing.T) {
		im := scenarioImage()
		im.PutU32(im.Value(`Software\Vendor`, "InstallPath"), format.VKDataOffOffset, 0x7FFFFFF0)
		h, k := vendorKey(t, im)
		_, err := h.FindValue(k, "InstallPath")
		requireKind(t, err, ErrKindOutOfBounds)
	})

	t.Run("value list points at key node", func(t *testing.T) {
		im := scenarioImage()
		h, k := vendorKey(t, im)
		im.PutU32(k.ValueListOffset, 0, k.Offset)
		_, err := h.FindValue(k, "InstallPath")
		requireKind(t, err, ErrKindBadRecordTag)
	})

	t.Run("value count beyond list", func(t *testing.T) {
		im := scenarioImage()
		im.PutU32(im.Key(`Software\Vendor`), format.NKValueCountOffset, 0xFFFFFFFF)
		h, k := vendorKey(t, im)
		s, err := h.FindValue(k, "InstallPath")
		require.NoError(t, err)
		require.Equal(t, `C:\Program Files\App`, s)
	})

	t.Run("value name past cell", func(t *testing.T) {
		im := scenarioImage()
		im.PutU16(im.Value(`Software\Vendor`, "Version"), format.VKNameLenOffset, 0x4000)
		h, k := vendorKey(t, im)
		_, err := h.FindValue(k, "InstallPath")
		requireKind(t, err, ErrKindOutOfBounds)
	})
}

func TestBigDataString(t *testing.T) {
	long := strings.Repeat("0123456789", 900)
	im := hivetest.Build(&hivetest.Key{
		Name:   "ROOT",
		Values: []hivetest.Value{hivetest.String("Long", long)},
	})
	got, err := Lookup(im.Bytes, `\`, "Long")
	require.NoError(t, err)
	require.Equal(t, long, got)

	h, err := ReadHeader(im.Bytes)
	require.NoError(t, err)
	root, err := h.Root()
	require.NoError(t, err)
	vals, err := h.Values(root)
	require.NoError(t, err)
	data, err := h.ValueData(vals[0])
	require.NoError(t, err)
	require.Len(t, data, 2*len(long)+2)
}

func TestValueNames(t *testing.T) {
	im := hivetest.Build(&hivetest.Key{
		Name: "ROOT",
		Values: []hivetest.Value{
			{Name: "Wide", WideName: true, Type: format.REGSZ, Data: hivetest.UTF16("w")},
			hivetest.String("Müller", "m"),
		},
	})
	s, err := Lookup(im.Bytes, "", "Wide")
	require.NoError(t, err)
	require.Equal(t, "w", s)
	s, err = Lookup(im.Bytes, "", "Müller")
	require.NoError(t, err)
	require.Equal(t, "m", s)
}

func TestValueTypeString(t *testing.T) {
	require.Equal(t, "REG_SZ", REG_SZ.String())
	require.Equal(t, "REG_MULTI_SZ", REG_MULTI_SZ.String())
	require.Equal(t, "UNKNOWN_TYPE_99", ValueType(99).String())
}
