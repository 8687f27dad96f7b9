package pe

import "testing"

func TestRelocationsOneBlockTwoEntries(t *testing.T) {
	b := newImageBuilder()
	lfanew := uint32(0x80)
	b.withDOSHeader(lfanew)
	sectionTableOff := b.withPE32(lfanew, 1, 16)

	const sectionRVA = 0x5000
	const sectionRaw = 0x400
	b.writeSectionHeader(int(sectionTableOff), ".reloc", 0x100, sectionRVA, 0x100, sectionRaw)

	blockOff := sectionRaw
	b.putU32(blockOff, 0x1000) // PageRVA
	b.putU32(blockOff+4, 12)   // SizeOfBlock: 8 header + 2 entries
	b.putU16(blockOff+8, (uint16(RelBasedHighLow)<<12)|0x004)
	b.putU16(blockOff+10, (uint16(RelBasedAbsolute)<<12)|0x000)

	// Terminate with a zero block.
	b.putU32(blockOff+12, 0)
	b.putU32(blockOff+16, 0)

	b.setDataDirectory32(ImageDirectoryEntryBaseReLoc, sectionRVA, 12)
	b.padTo(sectionRaw + 0x100)

	h, _, err := OpenBytes(b.bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	blocks, ok := h.Relocations()
	if !ok || len(blocks) != 1 {
		t.Fatalf("Relocations() = %+v, %v; want one block", blocks, ok)
	}
	blk := blocks[0]
	if blk.PageRVA != 0x1000 {
		t.Fatalf("PageRVA = 0x%x, want 0x1000", blk.PageRVA)
	}
	if len(blk.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(blk.Entries))
	}
	if blk.Entries[0].Type != RelBasedHighLow || blk.Entries[0].Offset != 0x004 {
		t.Fatalf("entry 0 = %+v", blk.Entries[0])
	}
	if blk.Entries[1].Type != RelBasedAbsolute {
		t.Fatalf("entry 1 = %+v", blk.Entries[1])
	}
}

// TestRelocationsUndersizedBlockHaltsWithEmptyEntries covers the boundary
// case where SizeOfBlock is smaller than the 8-byte block header itself.
func TestRelocationsUndersizedBlockHaltsWithEmptyEntries(t *testing.T) {
	b := newImageBuilder()
	lfanew := uint32(0x80)
	b.withDOSHeader(lfanew)
	sectionTableOff := b.withPE32(lfanew, 1, 16)

	const sectionRVA = 0x5000
	const sectionRaw = 0x400
	b.writeSectionHeader(int(sectionTableOff), ".reloc", 0x100, sectionRVA, 0x100, sectionRaw)

	blockOff := sectionRaw
	b.putU32(blockOff, 0x2000) // PageRVA
	b.putU32(blockOff+4, 4)    // SizeOfBlock < 8

	b.setDataDirectory32(ImageDirectoryEntryBaseReLoc, sectionRVA, 4)
	b.padTo(sectionRaw + 0x100)

	h, _, err := OpenBytes(b.bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	blocks, ok := h.Relocations()
	if !ok || len(blocks) != 1 {
		t.Fatalf("Relocations() = %+v, %v; want one block", blocks, ok)
	}
	if blocks[0].PageRVA != 0x2000 || len(blocks[0].Entries) != 0 {
		t.Fatalf("block = %+v, want empty entries", blocks[0])
	}
}
