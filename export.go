package pe

// exportDirectory is the on-disk IMAGE_EXPORT_DIRECTORY layout.
type exportDirectory struct {
	Characteristics       uint32
	TimeDateStamp         uint32
	MajorVersion          uint16
	MinorVersion          uint16
	Name                  uint32
	Base                  uint32
	NumberOfFunctions     uint32
	NumberOfNames         uint32
	AddressOfFunctions    uint32
	AddressOfNames        uint32
	AddressOfNameOrdinals uint32
}

// ExportEntry is one resolved export: either a local code/data address or,
// when its RVA falls inside the export directory's own extent, a
// forwarder string naming another module's export (spec.md §4.5).
type ExportEntry struct {
	RVA       uint32
	Ordinal   uint32
	Name      string
	Forwarder string
}

// Export is the parsed Export directory: the owning module's declared
// name plus its resolved entries.
type Export struct {
	Name    string
	Base    uint32
	Entries []ExportEntry
}

func (h *Handle) Export() (*Export, bool) {
	dd, ok := h.dataDirectory(ImageDirectoryEntryExport)
	if !ok {
		return nil, false
	}

	off, ok := h.rvaToOffset(dd.VirtualAddress)
	if !ok {
		return nil, false
	}
	dir, ok := readTyped[exportDirectory](h, off)
	if !ok {
		return nil, false
	}

	exportStart := dd.VirtualAddress
	exportEnd := dd.VirtualAddress + dd.Size

	funcRVAOff, ok := h.rvaToOffset(dir.AddressOfFunctions)
	if !ok {
		return nil, false
	}
	nameRVAOff, hasNames := h.rvaToOffset(dir.AddressOfNames)
	ordOff, hasOrds := h.rvaToOffset(dir.AddressOfNameOrdinals)

	names := make(map[uint32]string)
	if hasNames && hasOrds && dir.NumberOfNames > 0 {
		for i := uint32(0); i < dir.NumberOfNames; i++ {
			ord, ok := h.readUint16(ordOff + i*2)
			if !ok {
				break
			}
			nameRVA, ok := h.readUint32(nameRVAOff + i*4)
			if !ok {
				break
			}
			names[uint32(ord)] = h.getCStringAtRVA(nameRVA, maxPath)
		}
	}

	var entries []ExportEntry
	for i := uint32(0); i < dir.NumberOfFunctions; i++ {
		rva, ok := h.readUint32(funcRVAOff + i*4)
		if !ok {
			break
		}
		if rva == 0 {
			continue
		}
		entry := ExportEntry{RVA: rva, Ordinal: dir.Base + i, Name: names[i]}
		if rva >= exportStart && rva < exportEnd {
			entry.Forwarder = h.getCStringAtRVA(rva, maxPath)
		}
		entries = append(entries, entry)
	}

	return &Export{
		Name:    h.getCStringAtRVA(dir.Name, maxPath),
		Base:    dir.Base,
		Entries: entries,
	}, true
}
