package pe

type rawDelayImportDescriptor struct {
	Attributes                 uint32
	DllNameRVA                 uint32
	ModuleHandleRVA            uint32
	ImportAddressTableRVA      uint32
	ImportNameTableRVA         uint32
	BoundImportAddressTableRVA uint32
	UnloadInformationTableRVA  uint32
	TimeDateStamp              uint32
}

const delayImportDescriptorSize = 32

// DelayImportFunction is one resolved delay-load thunk, with the
// corresponding IAT/BoundIAT/UnloadIAT slots sampled in parallel when
// those tables are present (spec.md §4.13).
type DelayImportFunction struct {
	Name      string
	Ordinal   uint16
	IAT       uint64
	BoundIAT  uint64
	UnloadIAT uint64
}

// DelayImport is one delay-load descriptor plus its resolved functions.
type DelayImport struct {
	Name      string
	Functions []DelayImportFunction
}

func (h *Handle) DelayImport() ([]*DelayImport, bool) {
	dd, ok := h.dataDirectory(ImageDirectoryEntryDelayImport)
	if !ok {
		return nil, false
	}
	off, ok := h.rvaToOffset(dd.VirtualAddress)
	if !ok {
		return nil, false
	}

	var modules []*DelayImport
	for i := 0; i < maxImportModules; i++ {
		descOff := off + uint32(i)*delayImportDescriptorSize
		desc, ok := readTyped[rawDelayImportDescriptor](h, descOff)
		if !ok {
			break
		}
		if desc.DllNameRVA == 0 && desc.ImportNameTableRVA == 0 {
			break
		}

		mod := &DelayImport{Name: h.getCStringAtRVA(desc.DllNameRVA, maxPath)}
		mod.Functions = h.walkDelayThunks(desc)
		modules = append(modules, mod)
	}

	if len(modules) == 0 {
		return nil, false
	}
	return modules, true
}

func (h *Handle) walkDelayThunks(desc rawDelayImportDescriptor) []DelayImportFunction {
	intOff, ok := h.rvaToOffset(desc.ImportNameTableRVA)
	if !ok {
		return nil
	}
	iatOff, hasIAT := h.rvaToOffset(desc.ImportAddressTableRVA)
	boundOff, hasBound := h.rvaToOffset(desc.BoundImportAddressTableRVA)
	unloadOff, hasUnload := h.rvaToOffset(desc.UnloadInformationTableRVA)

	stride := uint32(4)
	if h.is64 {
		stride = 8
	}

	var fns []DelayImportFunction
	for i := uint32(0); i < maxImportFunctions; i++ {
		var val uint64
		var ok bool
		if h.is64 {
			val, ok = h.readUint64(intOff + i*stride)
		} else {
			var v32 uint32
			v32, ok = h.readUint32(intOff + i*stride)
			val = uint64(v32)
		}
		if !ok || val == 0 {
			break
		}

		fn := DelayImportFunction{}
		ordFlag := imageOrdinalFlag32
		addrMask := uint64(addressMask32)
		if h.is64 {
			ordFlag64 := imageOrdinalFlag64
			if val&ordFlag64 != 0 {
				fn.Ordinal = uint16(val & 0xFFFF)
			} else {
				fn.Name = h.readHintName(uint32(val & addressMask64)).Name
			}
		} else {
			if uint32(val)&ordFlag != 0 {
				fn.Ordinal = uint16(val & 0xFFFF)
			} else {
				fn.Name = h.readHintName(uint32(val) & uint32(addrMask)).Name
			}
		}

		if hasIAT {
			fn.IAT, _ = h.readTableSlot(iatOff+i*stride, stride)
		}
		if hasBound {
			fn.BoundIAT, _ = h.readTableSlot(boundOff+i*stride, stride)
		}
		if hasUnload {
			fn.UnloadIAT, _ = h.readTableSlot(unloadOff+i*stride, stride)
		}

		fns = append(fns, fn)
	}
	return fns
}

func (h *Handle) readTableSlot(off, stride uint32) (uint64, bool) {
	if stride == 8 {
		return h.readUint64(off)
	}
	v, ok := h.readUint32(off)
	return uint64(v), ok
}
