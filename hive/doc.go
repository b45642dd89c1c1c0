// Package hive decodes Windows NT registry hive files ("regf") and answers
// one question about them: what string does value V under key K hold?
//
// # File Structure
//
// A hive consists of a 4 KiB base block followed by the data region:
//
//	[REGF header - 4KB] [HBIN 0] [HBIN 1] ... [HBIN N]
//
// Every record lives in a cell: a signed 32-bit size (negative when
// allocated) followed by the payload. Cells reference each other by offsets
// relative to the start of the data region (file offset 0x1000).
//
// # Lookups
//
// The common entry point parses a buffer and resolves a path in one call:
//
//	s, err := hive.Lookup(data, `\Software\Vendor`, "InstallPath")
//	switch {
//	case hive.IsAbsent(err):
//	    // key or value missing
//	case err != nil:
//	    // not a well-formed hive, or not a REG_SZ value
//	}
//
// LookupFile does the same for a file on disk, and ReadHeader returns a
// *Hive for callers that issue several queries against one buffer.
//
// # Safety
//
// Hive bytes are untrusted. Every offset is validated against the data
// region before it is dereferenced, declared counts are clamped to what the
// enclosing cell can hold, and malformed input yields an *Error instead of a
// panic. A *Hive is immutable after ReadHeader and safe for concurrent use.
// Nothing in this package logs.
package hive
