package pe

// rawDebugDirectory is the on-disk IMAGE_DEBUG_DIRECTORY layout.
type rawDebugDirectory struct {
	Characteristics  uint32
	TimeDateStamp    uint32
	MajorVersion     uint16
	MinorVersion     uint16
	Type             uint32
	SizeOfData       uint32
	AddressOfRawData uint32
	PointerToRawData uint32
}

const debugDirectorySize = 28

// DebugEntry is one IMAGE_DEBUG_DIRECTORY record. PDBPath is populated
// only for CodeView entries carrying an RSDS or NB10 signature.
type DebugEntry struct {
	Type             uint32
	TimeDateStamp    uint32
	SizeOfData       uint32
	AddressOfRawData uint32
	PointerToRawData uint32
	PDBPath          string
}

func (h *Handle) Debug() ([]DebugEntry, bool) {
	dd, ok := h.dataDirectory(ImageDirectoryEntryDebug)
	if !ok {
		return nil, false
	}

	off, ok := h.debugDirectoryOffset(dd.VirtualAddress)
	if !ok {
		return nil, false
	}

	count := dd.Size / debugDirectorySize
	if count == 0 {
		return nil, false
	}

	var out []DebugEntry
	for i := uint32(0); i < count; i++ {
		raw, ok := readTyped[rawDebugDirectory](h, off+i*debugDirectorySize)
		if !ok {
			break
		}
		entry := DebugEntry{
			Type:             raw.Type,
			TimeDateStamp:    raw.TimeDateStamp,
			SizeOfData:       raw.SizeOfData,
			AddressOfRawData: raw.AddressOfRawData,
			PointerToRawData: raw.PointerToRawData,
		}
		if raw.Type == DebugTypeCodeView {
			entry.PDBPath = h.readCodeViewPath(raw.PointerToRawData)
		}
		out = append(out, entry)
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// debugDirectoryOffset resolves the debug directory array's file offset,
// preferring the ".debug" section when its VirtualAddress matches the
// directory RVA exactly (spec.md §4.11).
func (h *Handle) debugDirectoryOffset(rva uint32) (uint32, bool) {
	for _, s := range h.sections {
		if s.Name == ".debug" && s.VirtualAddress == rva {
			return s.PointerToRawData, true
		}
	}
	return h.rvaToOffset(rva)
}

func (h *Handle) readCodeViewPath(pointerToRawData uint32) string {
	header, ok := h.readAt(pointerToRawData, 24)
	if !ok || len(header) < 4 {
		return ""
	}
	sig := uint32(header[0]) | uint32(header[1])<<8 | uint32(header[2])<<16 | uint32(header[3])<<24
	switch sig {
	case codeViewSignatureRSDS:
		return h.getCStringAt(pointerToRawData+24, maxPath)
	case codeViewSignatureNB10:
		return h.getCStringAt(pointerToRawData+16, maxPath)
	default:
		return ""
	}
}
