// Package pe parses 32-bit (PE32) and 64-bit (PE32+) Portable Executable
// images from a filesystem path or an in-memory byte range, exposing their
// headers, directories, and tables for inspection, disassembly front-ends,
// forensic analysis, and security tooling.
//
// The parser is defensive: every pointer derived from file-supplied offsets
// is validated against the mapped extent before it is dereferenced, pointer
// arithmetic is overflow-checked, and malformed or adversarial input yields
// an absent result rather than a crash. It does not load, relocate, execute,
// verify, disassemble, or rewrite images.
package pe

import (
	"bytes"
	"encoding/binary"
	"sync"
)

// Handle owns a byte range's lifetime, memoizes the header parse exactly
// once, and exposes every directory query as an independent, idempotent
// lookup. A Handle is read-only after Open/OpenBytes returns and may be
// shared freely across concurrent readers.
type Handle struct {
	src  byteSource
	size uint32

	opts options

	once    sync.Once
	openErr error

	dos      DOSHeader
	hasDOS   bool
	nt       NTHeader
	hasNT    bool
	is32     bool
	is64     bool
	sections []SectionHeader
	strTable StringTable
	rich     *RichHeader
}

// Open memory-maps the file at path (falling back to a single read if the
// mapping fails) and parses its headers.
func Open(path string, opts ...Option) (*Handle, Status, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	src, status, err := openFileSource(path)
	if err != nil {
		return nil, status, err
	}
	h := &Handle{src: src, size: uint32(src.Len()), opts: o}
	status, err = h.parseHeader()
	return h, status, err
}

// OpenBytes treats buf as a borrowed, immutable byte range. buf must
// outlive the Handle; the Handle never copies or frees it.
func OpenBytes(buf []byte, opts ...Option) (*Handle, Status, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if len(buf) < MinFileSize {
		return nil, StatusFileTooSmall, ErrInvalidPESize
	}
	src := newBufferSource(buf)
	h := &Handle{src: src, size: uint32(src.Len()), opts: o}
	status, err := h.parseHeader()
	if err != nil {
		return nil, status, err
	}
	return h, status, nil
}

// Close releases any OS resources the Handle owns (file descriptor, memory
// map). It is idempotent; closing an externally-supplied buffer is a no-op
// beyond resetting cached pointers.
func (h *Handle) Close() error {
	h.hasDOS = false
	h.hasNT = false
	h.sections = nil
	h.rich = nil
	if h.src == nil {
		return nil
	}
	err := h.src.Close()
	h.src = nil
	return err
}

// parseHeader performs the one-time header parse described in SPEC_FULL.md
// §4.2. It is invoked synchronously from Open/OpenBytes (not lazily) so the
// returned Status/error pair is meaningful; sync.Once still guards it so a
// Handle built by some future alternate constructor can't double-run it.
func (h *Handle) parseHeader() (Status, error) {
	var status Status
	h.once.Do(func() {
		if err := h.readDOSHeader(); err != nil {
			status = StatusBadDOSSignature
			h.openErr = err
			h.logf(LevelError, "dos header: %v", err)
			return
		}
		h.hasDOS = true
		status = StatusOK

		// A DOS-only buffer is still fully reportable for getDOSHeader;
		// every NT-dependent query simply returns absent (spec.md §4.2).
		if err := h.readNTHeader(); err != nil {
			h.logf(LevelWarn, "nt header absent: %v", err)
			return
		}
		h.hasNT = true

		if err := h.readStringTable(); err != nil {
			h.logf(LevelWarn, "string table: %v", err)
		}
		if err := h.readSections(); err != nil {
			h.logf(LevelWarn, "section table: %v", err)
		}
		if err := h.readRichHeader(); err != nil {
			h.logf(LevelWarn, "rich header: %v", err)
		}
	})
	return status, h.openErr
}

// Size reports the total length of the underlying byte range.
func (h *Handle) Size() uint32 { return h.size }

// ---- address-safety primitives (spec.md §4.1) ----

// isSafe reports whether addr lies within the mapped extent. allowBoundary
// permits addr == size, needed for "one past the end" sentinels such as an
// empty trailing directory.
func (h *Handle) isSafe(addr uint32, allowBoundary bool) bool {
	if allowBoundary {
		return addr <= h.size
	}
	return addr < h.size
}

// sumOverflows reports whether a+b overflows uint32 arithmetic. Every
// pointer derived from an attacker-controlled offset must be preceded by
// this check; the addition itself is carried out in a wider type so the
// check can never be fooled by wraparound.
func sumOverflows(a, b uint32) bool {
	return uint64(a)+uint64(b) > 0xFFFFFFFF
}

// rvaToOffset resolves rva to a file offset using the section table
// (spec.md §3's field interpretation rule), returning false if rva lies
// outside every section or if the resulting offset would be unsafe. An rva
// is taken as a file offset only when the image has no section table.
func (h *Handle) rvaToOffset(rva uint32) (uint32, bool) {
	if sec := h.sectionForRVA(rva); sec != nil {
		if rva < sec.VirtualAddress {
			return 0, false
		}
		delta := rva - sec.VirtualAddress
		if sumOverflows(delta, sec.PointerToRawData) {
			return 0, false
		}
		off := delta + sec.PointerToRawData
		if !h.isSafe(off, true) {
			return 0, false
		}
		return off, true
	}

	// No section covers this RVA. Only an unmapped/headerless image (no
	// section table at all) falls back to treating the RVA as already
	// being a file offset; once a section table exists, a gap between
	// sections is genuinely unmapped and must not resolve to an arbitrary
	// in-file byte (spec.md §3).
	if len(h.sections) == 0 && h.isSafe(rva, true) {
		return rva, true
	}
	return 0, false
}

func (h *Handle) sectionForRVA(rva uint32) *SectionHeader {
	for i := range h.sections {
		s := &h.sections[i]
		if s.VirtualSize == 0 && s.SizeOfRawData > 0 {
			if rva >= s.VirtualAddress && rva < s.VirtualAddress+s.SizeOfRawData {
				return s
			}
			continue
		}
		if rva >= s.VirtualAddress && rva < s.VirtualAddress+s.VirtualSize {
			return s
		}
	}
	return nil
}

// pointerToOffset is the inverse of treating a value as already being a
// file offset: it exists as a named operation (spec.md §4.1) even though,
// absent real pointer arithmetic, it degenerates to a bounds check.
func (h *Handle) pointerToOffset(p uint32) (uint32, bool) {
	if !h.isSafe(p, true) {
		return 0, false
	}
	return p, true
}

// readAt returns the n bytes at offset if they lie entirely within the
// mapped extent, else (nil, false). This is the single chokepoint every
// directory parser must use instead of raw ReadAt calls.
func (h *Handle) readAt(offset, n uint32) ([]byte, bool) {
	if n == 0 {
		return nil, true
	}
	if sumOverflows(offset, n) || offset+n > h.size {
		return nil, false
	}
	buf := make([]byte, n)
	if _, err := h.src.ReadAt(buf, int64(offset)); err != nil {
		return nil, false
	}
	return buf, true
}

func (h *Handle) readUint16(offset uint32) (uint16, bool) {
	b, ok := h.readAt(offset, 2)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint16(b), true
}

func (h *Handle) readUint32(offset uint32) (uint32, bool) {
	b, ok := h.readAt(offset, 4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

func (h *Handle) readUint64(offset uint32) (uint64, bool) {
	b, ok := h.readAt(offset, 8)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b), true
}

func (h *Handle) readByte(offset uint32) (byte, bool) {
	b, ok := h.readAt(offset, 1)
	if !ok {
		return 0, false
	}
	return b[0], true
}

// readTyped reads a fixed-layout little-endian struct at offset, returning
// a zero-valued T and false if the read would cross the mapped extent.
func readTyped[T any](h *Handle, offset uint32) (T, bool) {
	var v T
	size := uint32(binary.Size(v))
	b, ok := h.readAt(offset, size)
	if !ok {
		return v, false
	}
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// getDataAtRVA resolves rva to a file offset and reads length bytes,
// bounded by the mapped extent (spec.md invariant: offset+size ≤ N).
func (h *Handle) getDataAtRVA(rva, length uint32) ([]byte, bool) {
	off, ok := h.rvaToOffset(rva)
	if !ok {
		return nil, false
	}
	return h.readAt(off, length)
}

// getCStringAtRVA reads a null-terminated ASCII string at rva, bounded at
// maxBytes (the spec's MAX_PATH=260 cap applies almost everywhere this is
// called; callers pass a different bound only for the rare exception).
func (h *Handle) getCStringAtRVA(rva uint32, maxBytes uint32) string {
	if rva == 0 {
		return ""
	}
	off, ok := h.rvaToOffset(rva)
	if !ok {
		return ""
	}
	return h.getCStringAt(off, maxBytes)
}

func (h *Handle) getCStringAt(offset uint32, maxBytes uint32) string {
	if offset >= h.size {
		return ""
	}
	end := offset + maxBytes
	if end > h.size || end < offset {
		end = h.size
	}
	buf, ok := h.readAt(offset, end-offset)
	if !ok {
		return ""
	}
	return cString(buf)
}

// readUnicodeStringAtRVA reads up to maxChars UTF-16LE code units starting
// at rva, stopping at the first NUL or the first unreadable code unit.
func (h *Handle) readUnicodeStringAtRVA(rva uint32, maxChars uint32) string {
	off, ok := h.rvaToOffset(rva)
	if !ok {
		return ""
	}
	units := make([]uint16, 0, maxChars)
	for i := uint32(0); i < maxChars; i++ {
		u, ok := h.readUint16(off + i*2)
		if !ok || u == 0 {
			break
		}
		units = append(units, u)
	}
	return decodeUTF16(units)
}
