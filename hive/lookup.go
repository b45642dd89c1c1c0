package hive

import (
	"fmt"
	"strings"

	"github.com/joshuapare/hivequery/internal/hivefile"
)

// PathSeparator separates key path segments.
const PathSeparator = '\\'

// SplitPath splits a key path on backslashes. Empty segments, including the
// one before a leading separator, are dropped. Segments keep their case.
func SplitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == PathSeparator })
}

// Lookup parses b and returns the REG_SZ value valueName under keyPath.
// Each call parses b afresh; nothing is cached between calls.
func Lookup(b []byte, keyPath, valueName string) (string, error) {
	h, err := ReadHeader(b)
	if err != nil {
		return "", err
	}
	return h.Lookup(keyPath, valueName)
}

// Resolve walks keyPath from the root key. The empty path is the root.
func (h *Hive) Resolve(keyPath string) (KeyNode, error) {
	key, err := h.Root()
	if err != nil {
		return KeyNode{}, err
	}
	for _, seg := range SplitPath(keyPath) {
		off, err := h.FindChild(key, seg)
		if err != nil {
			return KeyNode{}, err
		}
		if key, err = h.DecodeKey(off); err != nil {
			return KeyNode{}, err
		}
	}
	return key, nil
}

// Lookup returns the REG_SZ value valueName under keyPath.
func (h *Hive) Lookup(keyPath, valueName string) (string, error) {
	key, err := h.Resolve(keyPath)
	if err != nil {
		return "", err
	}
	return h.FindValue(key, valueName)
}

// LookupFile reads the whole hive at path into memory and performs one
// Lookup against that copy.
func LookupFile(path, keyPath, valueName string) (string, error) {
	data, err := hivefile.Read(path)
	if err != nil {
		return "", fmt.Errorf("open hive %s: %w", path, err)
	}
	return Lookup(data, keyPath, valueName)
}

// FindKey looks up fullPath in the hive file at path, where the last
// segment of fullPath names the value and the rest the key:
//
//	FindKey(ntuser, `\Software\Yahoo\Pager\Yahoo! User ID`)
func FindKey(path, fullPath string) (string, error) {
	segs := SplitPath(fullPath)
	if len(segs) == 0 {
		return "", &Error{Kind: ErrKindValueNotFound, Offset: NoOffset,
			Msg: fmt.Sprintf("path %q names no value", fullPath)}
	}
	keyPath := strings.Join(segs[:len(segs)-1], string(PathSeparator))
	return LookupFile(path, keyPath, segs[len(segs)-1])
}
