package pe

type rawLoadConfig32 struct {
	Size                          uint32
	TimeDateStamp                 uint32
	MajorVersion                  uint16
	MinorVersion                  uint16
	GlobalFlagsClear              uint32
	GlobalFlagsSet                uint32
	CriticalSectionDefaultTimeout uint32
	DeCommitFreeBlockThreshold    uint32
	DeCommitTotalFreeThreshold    uint32
	LockPrefixTable               uint32
	MaximumAllocationSize         uint32
	VirtualMemoryThreshold        uint32
	ProcessHeapFlags              uint32
	ProcessAffinityMask           uint32
	CSDVersion                    uint16
	DependentLoadFlags            uint16
	EditList                      uint32
	SecurityCookie                uint32
	SEHandlerTable                uint32
	SEHandlerCount                uint32
}

type rawLoadConfig64 struct {
	Size                          uint32
	TimeDateStamp                 uint32
	MajorVersion                  uint16
	MinorVersion                  uint16
	GlobalFlagsClear              uint32
	GlobalFlagsSet                uint32
	CriticalSectionDefaultTimeout uint32
	DeCommitFreeBlockThreshold    uint64
	DeCommitTotalFreeThreshold    uint64
	LockPrefixTable               uint64
	MaximumAllocationSize         uint64
	VirtualMemoryThreshold        uint64
	ProcessAffinityMask           uint64
	ProcessHeapFlags              uint32
	CSDVersion                    uint16
	DependentLoadFlags            uint16
	EditList                      uint64
	SecurityCookie                uint64
	SEHandlerTable                uint64
	SEHandlerCount                uint64
}

// LoadConfig is the architecture-normalized IMAGE_LOAD_CONFIG_DIRECTORY,
// carrying only the fields stable across the Windows versions that added
// fields to this structure over time (spec.md §4.13 treats it as "a
// single architecture-discriminated record").
type LoadConfig struct {
	Size                          uint32
	TimeDateStamp                 uint32
	GlobalFlagsClear              uint32
	GlobalFlagsSet                uint32
	CriticalSectionDefaultTimeout uint32
	SecurityCookie                uint64
	SEHandlerTable                uint64
	SEHandlerCount                uint64
}

func (h *Handle) LoadConfig() (*LoadConfig, bool) {
	dd, ok := h.dataDirectory(ImageDirectoryEntryLoadConfig)
	if !ok {
		return nil, false
	}
	off, ok := h.rvaToOffset(dd.VirtualAddress)
	if !ok {
		return nil, false
	}

	if h.is64 {
		raw, ok := readTyped[rawLoadConfig64](h, off)
		if !ok {
			return nil, false
		}
		return &LoadConfig{
			Size:                          raw.Size,
			TimeDateStamp:                 raw.TimeDateStamp,
			GlobalFlagsClear:              raw.GlobalFlagsClear,
			GlobalFlagsSet:                raw.GlobalFlagsSet,
			CriticalSectionDefaultTimeout: raw.CriticalSectionDefaultTimeout,
			SecurityCookie:                raw.SecurityCookie,
			SEHandlerTable:                raw.SEHandlerTable,
			SEHandlerCount:                raw.SEHandlerCount,
		}, true
	}

	raw, ok := readTyped[rawLoadConfig32](h, off)
	if !ok {
		return nil, false
	}
	return &LoadConfig{
		Size:                          raw.Size,
		TimeDateStamp:                 raw.TimeDateStamp,
		GlobalFlagsClear:              raw.GlobalFlagsClear,
		GlobalFlagsSet:                raw.GlobalFlagsSet,
		CriticalSectionDefaultTimeout: raw.CriticalSectionDefaultTimeout,
		SecurityCookie:                uint64(raw.SecurityCookie),
		SEHandlerTable:                uint64(raw.SEHandlerTable),
		SEHandlerCount:                uint64(raw.SEHandlerCount),
	}, true
}
