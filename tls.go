package pe

type rawTLSDirectory32 struct {
	StartAddressOfRawData uint32
	EndAddressOfRawData   uint32
	AddressOfIndex        uint32
	AddressOfCallBacks    uint32
	SizeOfZeroFill        uint32
	Characteristics       uint32
}

type rawTLSDirectory64 struct {
	StartAddressOfRawData uint64
	EndAddressOfRawData   uint64
	AddressOfIndex        uint64
	AddressOfCallBacks    uint64
	SizeOfZeroFill        uint32
	Characteristics       uint32
}

// TLSDirectory is the architecture-normalized Thread Local Storage
// directory: VA fields as declared, plus the resolved callback RVAs.
type TLSDirectory struct {
	StartAddressOfRawData uint64
	EndAddressOfRawData   uint64
	AddressOfIndex        uint64
	AddressOfCallBacks    uint64
	SizeOfZeroFill        uint32
	Characteristics       uint32
	Callbacks             []uint64
}

func (h *Handle) TLS() (*TLSDirectory, bool) {
	dd, ok := h.dataDirectory(ImageDirectoryEntryTls)
	if !ok {
		return nil, false
	}
	off, ok := h.rvaToOffset(dd.VirtualAddress)
	if !ok {
		return nil, false
	}

	imageBase := h.imageBase()
	var dir TLSDirectory
	if h.is64 {
		raw, ok := readTyped[rawTLSDirectory64](h, off)
		if !ok {
			return nil, false
		}
		dir = TLSDirectory{
			StartAddressOfRawData: raw.StartAddressOfRawData,
			EndAddressOfRawData:   raw.EndAddressOfRawData,
			AddressOfIndex:        raw.AddressOfIndex,
			AddressOfCallBacks:    raw.AddressOfCallBacks,
			SizeOfZeroFill:        raw.SizeOfZeroFill,
			Characteristics:       raw.Characteristics,
		}
	} else {
		raw, ok := readTyped[rawTLSDirectory32](h, off)
		if !ok {
			return nil, false
		}
		dir = TLSDirectory{
			StartAddressOfRawData: uint64(raw.StartAddressOfRawData),
			EndAddressOfRawData:   uint64(raw.EndAddressOfRawData),
			AddressOfIndex:        uint64(raw.AddressOfIndex),
			AddressOfCallBacks:    uint64(raw.AddressOfCallBacks),
			SizeOfZeroFill:        raw.SizeOfZeroFill,
			Characteristics:       raw.Characteristics,
		}
	}

	dir.Callbacks = h.walkTLSCallbacks(dir.AddressOfCallBacks, imageBase)
	return &dir, true
}

func (h *Handle) walkTLSCallbacks(callbacksVA, imageBase uint64) []uint64 {
	if callbacksVA == 0 || callbacksVA < imageBase {
		return nil
	}
	arrayRVA := uint32(callbacksVA - imageBase)
	off, ok := h.rvaToOffset(arrayRVA)
	if !ok {
		return nil
	}

	var callbacks []uint64
	stride := uint32(4)
	if h.is64 {
		stride = 8
	}
	for i := 0; i < maxImportFunctions; i++ {
		entryOff := off + uint32(i)*stride
		var va uint64
		var ok bool
		if h.is64 {
			va, ok = h.readUint64(entryOff)
		} else {
			var v32 uint32
			v32, ok = h.readUint32(entryOff)
			va = uint64(v32)
		}
		if !ok || va == 0 {
			break
		}
		if va < imageBase {
			break
		}
		callbacks = append(callbacks, va-imageBase)
	}
	return callbacks
}
