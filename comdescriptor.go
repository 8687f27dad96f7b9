package pe

// COMDescriptor is the single IMAGE_COR20_HEADER record identifying a
// .NET (CLR) image.
type COMDescriptor struct {
	SizeOfHeader            uint32
	MajorRuntimeVersion     uint16
	MinorRuntimeVersion     uint16
	MetaData                DataDirectory
	Flags                   uint32
	EntryPointToken         uint32
	Resources               DataDirectory
	StrongNameSignature     DataDirectory
	CodeManagerTable        DataDirectory
	VTableFixups            DataDirectory
	ExportAddressTableJumps DataDirectory
	ManagedNativeHeader     DataDirectory
}

func (h *Handle) COMDescriptor() (*COMDescriptor, bool) {
	dd, ok := h.dataDirectory(ImageDirectoryEntryComDescriptor)
	if !ok {
		return nil, false
	}
	off, ok := h.rvaToOffset(dd.VirtualAddress)
	if !ok {
		return nil, false
	}
	cd, ok := readTyped[COMDescriptor](h, off)
	if !ok {
		return nil, false
	}
	return &cd, true
}
