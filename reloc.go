package pe

import "github.com/pkg/errors"

// relocationBlockHeader is the on-disk (PageRVA, SizeOfBlock) pair
// heading each base relocation block.
type relocationBlockHeader struct {
	VirtualAddress uint32
	SizeOfBlock    uint32
}

const relocationBlockHeaderSize = 8

// RelocationEntry is one 16-bit relocation slot: a type and an
// intra-page offset. HighAdjLow is only meaningful when Type is
// RelBasedHighAdj, in which case it carries the consumed following slot.
type RelocationEntry struct {
	Type       uint8
	Offset     uint16
	HighAdjLow uint16
}

// RelocationBlock is one base relocation block: a page RVA and its
// decoded entries.
type RelocationBlock struct {
	PageRVA uint32
	Entries []RelocationEntry
}

func (h *Handle) Relocations() ([]RelocationBlock, bool) {
	dd, ok := h.dataDirectory(ImageDirectoryEntryBaseReLoc)
	if !ok {
		return nil, false
	}
	off, ok := h.rvaToOffset(dd.VirtualAddress)
	if !ok {
		return nil, false
	}
	end := dd.VirtualAddress + dd.Size

	var blocks []RelocationBlock
	for off < end {
		hdr, ok := readTyped[relocationBlockHeader](h, off)
		if !ok {
			break
		}
		if hdr.SizeOfBlock == 0 || hdr.VirtualAddress == 0 {
			break
		}

		block := RelocationBlock{PageRVA: hdr.VirtualAddress}
		if hdr.SizeOfBlock < relocationBlockHeaderSize {
			// Emitted with an empty entry vector; parsing halts
			// (spec.md boundary case).
			h.logf(LevelWarn, "reloc: %v", errors.Wrapf(ErrRelocBlockTooSmall, "block at rva 0x%x declares size %d", hdr.VirtualAddress, hdr.SizeOfBlock))
			blocks = append(blocks, block)
			break
		}

		count := (hdr.SizeOfBlock - relocationBlockHeaderSize) / 2
		entryOff := off + relocationBlockHeaderSize
		for i := uint32(0); i < count; i++ {
			raw, ok := h.readUint16(entryOff + i*2)
			if !ok {
				break
			}
			typ := uint8(raw >> 12)
			entry := RelocationEntry{Type: typ, Offset: raw & 0x0FFF}
			if typ == RelBasedHighAdj && i+1 < count {
				i++
				low, ok := h.readUint16(entryOff + i*2)
				if ok {
					entry.HighAdjLow = low
				}
			}
			block.Entries = append(block.Entries, entry)
		}

		blocks = append(blocks, block)

		if sumOverflows(off, hdr.SizeOfBlock) {
			break
		}
		next := off + hdr.SizeOfBlock
		if next <= off {
			break
		}
		off = next
	}

	if len(blocks) == 0 {
		return nil, false
	}
	return blocks, true
}
