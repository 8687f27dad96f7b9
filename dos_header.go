package pe

// DOSHeader is the first 64 bytes of every PE image: the MS-DOS stub
// header. AddressOfNewEXEHeader (e_lfanew) gives the file offset of the
// NT header that follows the stub.
type DOSHeader struct {
	Magic                    uint16
	BytesOnLastPageOfFile    uint16
	PagesInFile              uint16
	Relocations              uint16
	SizeOfHeader             uint16
	MinExtraParagraphsNeeded uint16
	MaxExtraParagraphsNeeded uint16
	InitialSS                uint16
	InitialSP                uint16
	Checksum                 uint16
	InitialIP                uint16
	InitialCS                uint16
	AddressOfRelocationTable uint16
	OverlayNumber            uint16
	ReservedWords1           [4]uint16
	OEMIdentifier            uint16
	OEMInformation           uint16
	ReservedWords2           [10]uint16
	AddressOfNewEXEHeader    uint32
}

func (h *Handle) readDOSHeader() error {
	dos, ok := readTyped[DOSHeader](h, 0)
	if !ok {
		return ErrInvalidPESize
	}

	if dos.Magic != ImageDOSSignature && dos.Magic != ImageDOSZMSignature {
		return ErrInvalidDOSSig
	}

	h.dos = dos
	return nil
}

// DOSHeader returns the parsed DOS header. It is reportable even when the
// NT header could not be located (spec.md §4.2).
func (h *Handle) DOSHeader() (DOSHeader, bool) {
	if !h.hasDOS {
		return DOSHeader{}, false
	}
	return h.dos, true
}
