package pe

import "strconv"

// SectionHeader is a 40-byte IMAGE_SECTION_HEADER record. Name holds the
// resolved name: either the raw 8-byte field (trimmed at the first NUL) or,
// for a "/offset" encoded name, the string recovered from the COFF string
// table. If resolution fails the raw "/offset" text is kept (spec.md Open
// Questions).
type SectionHeader struct {
	Name                 string
	RawName              [8]byte
	VirtualSize          uint32
	VirtualAddress       uint32
	SizeOfRawData        uint32
	PointerToRawData     uint32
	PointerToRelocations uint32
	PointerToLinenumbers uint32
	NumberOfRelocations  uint16
	NumberOfLinenumbers  uint16
	Characteristics      uint32
}

// rawSectionHeader is the on-disk layout read via readTyped.
type rawSectionHeader struct {
	Name                 [8]byte
	VirtualSize          uint32
	VirtualAddress       uint32
	SizeOfRawData        uint32
	PointerToRawData     uint32
	PointerToRelocations uint32
	PointerToLinenumbers uint32
	NumberOfRelocations  uint16
	NumberOfLinenumbers  uint16
	Characteristics      uint32
}

const sectionHeaderSize = 40

func (h *Handle) firstSectionOffset() (uint32, bool) {
	lfanew := h.dos.AddressOfNewEXEHeader
	fh := h.nt.FileHeader
	off := lfanew + 4 + uint32(fileHeaderSize)
	if sumOverflows(off, uint32(fh.SizeOfOptionalHeader)) {
		return 0, false
	}
	return off + uint32(fh.SizeOfOptionalHeader), true
}

func (h *Handle) readSections() error {
	fh := h.nt.FileHeader
	if fh.NumberOfSections == 0 {
		return nil
	}

	start, ok := h.firstSectionOffset()
	if !ok {
		return ErrOverflow
	}

	sections := make([]SectionHeader, 0, fh.NumberOfSections)
	for i := uint16(0); i < fh.NumberOfSections; i++ {
		off := start + uint32(i)*sectionHeaderSize
		raw, ok := readTyped[rawSectionHeader](h, off)
		if !ok {
			// Bounds failure on one header truncates the table; preceding
			// entries remain valid (spec.md §7 partial-success rule).
			break
		}
		sections = append(sections, h.resolveSectionName(raw))
	}

	h.sections = sections
	return nil
}

func (h *Handle) resolveSectionName(raw rawSectionHeader) SectionHeader {
	sh := SectionHeader{
		RawName:              raw.Name,
		VirtualSize:          raw.VirtualSize,
		VirtualAddress:       raw.VirtualAddress,
		SizeOfRawData:        raw.SizeOfRawData,
		PointerToRawData:     raw.PointerToRawData,
		PointerToRelocations: raw.PointerToRelocations,
		PointerToLinenumbers: raw.PointerToLinenumbers,
		NumberOfRelocations:  raw.NumberOfRelocations,
		NumberOfLinenumbers:  raw.NumberOfLinenumbers,
		Characteristics:      raw.Characteristics,
	}

	name := cString(raw.Name[:])
	if len(name) == 0 || name[0] != '/' {
		sh.Name = name
		return sh
	}

	offset, err := strconv.ParseUint(name[1:], 10, 32)
	if err != nil {
		// strconv failure: keep the raw "/offset" text rather than
		// dropping the section entry (spec.md Open Questions).
		sh.Name = name
		return sh
	}
	resolved, ok := h.lookupStringTable(uint32(offset))
	if !ok {
		sh.Name = name
		return sh
	}
	sh.Name = resolved
	return sh
}

// SectionHeaders returns the parsed section table, or absent if the image
// has no sections.
func (h *Handle) SectionHeaders() ([]SectionHeader, bool) {
	if len(h.sections) == 0 {
		return nil, false
	}
	return h.sections, true
}
