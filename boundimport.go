package pe

type rawBoundImportDescriptor struct {
	TimeDateStamp               uint32
	OffsetModuleName            uint16
	NumberOfModuleForwarderRefs uint16
}

type rawBoundForwarderRef struct {
	TimeDateStamp    uint32
	OffsetModuleName uint16
	Reserved         uint16
}

const (
	boundImportDescriptorSize = 8
	boundForwarderRefSize     = 8
)

// BoundForwarderRef is one forwarder record trailing a bound import
// descriptor.
type BoundForwarderRef struct {
	ModuleName    string
	TimeDateStamp uint32
}

// BoundImportDescriptor is one IMAGE_BOUND_IMPORT_DESCRIPTOR plus its
// forwarder records (spec.md §4.13).
type BoundImportDescriptor struct {
	ModuleName    string
	TimeDateStamp uint32
	Forwarders    []BoundForwarderRef
}

func (h *Handle) BoundImport() ([]BoundImportDescriptor, bool) {
	dd, ok := h.dataDirectory(ImageDirectoryEntryBoundImport)
	if !ok {
		return nil, false
	}

	// The directory RVA is resolved through rvaToOffset like any other
	// RVA: a value that no section covers resolves only when the image
	// has no section table at all.
	base, ok := h.rvaToOffset(dd.VirtualAddress)
	if !ok {
		return nil, false
	}

	var descriptors []BoundImportDescriptor
	off := base
	for {
		raw, ok := readTyped[rawBoundImportDescriptor](h, off)
		if !ok {
			break
		}
		if raw.TimeDateStamp == 0 {
			break
		}

		desc := BoundImportDescriptor{
			ModuleName:    h.getCStringAt(base+uint32(raw.OffsetModuleName), maxPath),
			TimeDateStamp: raw.TimeDateStamp,
		}

		fwdOff := off + boundImportDescriptorSize
		for i := uint16(0); i < raw.NumberOfModuleForwarderRefs; i++ {
			fwd, ok := readTyped[rawBoundForwarderRef](h, fwdOff)
			if !ok {
				break
			}
			desc.Forwarders = append(desc.Forwarders, BoundForwarderRef{
				ModuleName:    h.getCStringAt(base+uint32(fwd.OffsetModuleName), maxPath),
				TimeDateStamp: fwd.TimeDateStamp,
			})
			fwdOff += boundForwarderRefSize
		}

		descriptors = append(descriptors, desc)
		off = fwdOff
	}

	if len(descriptors) == 0 {
		return nil, false
	}
	return descriptors, true
}
