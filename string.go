package pe

import "unicode/utf16"

// StringTable is the COFF string table trailing the symbol table, indexed
// by byte offset. Section names beginning with "/" resolve through it
// (spec.md §4.4).
type StringTable struct {
	base uint32
	size uint32
}

func (h *Handle) readStringTable() error {
	fh := h.nt.FileHeader
	if fh.PointerToSymbolTable == 0 || fh.NumberOfSymbols == 0 {
		return nil
	}

	symTableBytes := uint64(fh.NumberOfSymbols) * 18
	base64 := uint64(fh.PointerToSymbolTable) + symTableBytes
	if base64 > 0xFFFFFFFF {
		return ErrOverflow
	}
	base := uint32(base64)
	if !h.isSafe(base, true) {
		return ErrOutsideBoundary
	}

	size, ok := h.readUint32(base)
	if !ok {
		return ErrOutsideBoundary
	}

	h.strTable = StringTable{base: base, size: size}
	return nil
}

// lookup resolves a decimal byte offset into the string table, returning
// the NUL-terminated string stored there.
func (h *Handle) lookupStringTable(offset uint32) (string, bool) {
	if h.strTable.base == 0 {
		return "", false
	}
	if sumOverflows(h.strTable.base, offset) {
		return "", false
	}
	addr := h.strTable.base + offset
	if addr >= h.strTable.base+h.strTable.size {
		return "", false
	}
	return h.getCStringAt(addr, maxPath), true
}

// cString trims buf at its first NUL byte, treating an unterminated buffer
// as spanning its entire length.
func cString(buf []byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}

// decodeUTF16 converts a slice of little-endian UTF-16 code units already
// extracted from the buffer into a Go string, replacing invalid surrogate
// sequences with the standard replacement character.
func decodeUTF16(units []uint16) string {
	return string(utf16.Decode(units))
}
