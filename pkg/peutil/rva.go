package peutil

import "github.com/halsec/pe"

// RVAToOffset reimplements the core's section-lookup rule as a standalone
// function over already-parsed section headers, for callers (disassembly
// front ends) that want the RVA→file-offset mapping without holding a
// pe.Handle open. It returns false for any RVA it cannot place within
// size, mirroring the core's invariant that every reported offset must
// satisfy offset+readSize ≤ N.
func RVAToOffset(sections []pe.SectionHeader, size uint32, rva uint32) (uint32, bool) {
	for _, s := range sections {
		extent := s.VirtualSize
		if extent == 0 {
			extent = s.SizeOfRawData
		}
		if rva < s.VirtualAddress || rva >= s.VirtualAddress+extent {
			continue
		}
		delta := rva - s.VirtualAddress
		if overflowsUint32(delta, s.PointerToRawData) {
			return 0, false
		}
		off := delta + s.PointerToRawData
		if off > size {
			return 0, false
		}
		return off, true
	}
	if rva <= size {
		return rva, true
	}
	return 0, false
}

func overflowsUint32(a, b uint32) bool {
	return uint64(a)+uint64(b) > 0xFFFFFFFF
}
