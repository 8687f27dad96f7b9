package pe

import "github.com/pkg/errors"

const (
	resourceNameIsStringBit   = uint32(0x80000000)
	resourceDataIsDirBit      = uint32(0x80000000)
	resourceDirectoryHeaderSz = 16
	resourceDirectoryEntrySz  = 8
)

// rawResourceDirectory is the on-disk IMAGE_RESOURCE_DIRECTORY header.
type rawResourceDirectory struct {
	Characteristics      uint32
	TimeDateStamp        uint32
	MajorVersion         uint16
	MinorVersion         uint16
	NumberOfNamedEntries uint16
	NumberOfIdEntries    uint16
}

type rawResourceDirectoryEntry struct {
	Name         uint32
	OffsetToData uint32
}

type rawResourceDataEntry struct {
	OffsetToData uint32
	Size         uint32
	CodePage     uint32
	Reserved     uint32
}

// ResourceDataEntry is a resource leaf: a byte span of raw resource data.
type ResourceDataEntry struct {
	RVA      uint32
	Size     uint32
	CodePage uint32
}

// ResourceEntry is one entry at any tree level: identified by a numeric ID
// or, when NameIsString, a resolved UTF-16 name, leading either to a
// sub-directory or (at the leaf level) a data entry.
type ResourceEntry struct {
	ID        uint32
	Name      string
	IsString  bool
	Directory *ResourceDirectory
	Data      *ResourceDataEntry
}

// ResourceDirectory is one level of the three-level resource tree
// (Type → Name → Language, spec.md §4.7).
type ResourceDirectory struct {
	Characteristics uint32
	TimeDateStamp   uint32
	MajorVersion    uint16
	MinorVersion    uint16
	Entries         []ResourceEntry
}

func (h *Handle) Resources() (*ResourceDirectory, bool) {
	dd, ok := h.dataDirectory(ImageDirectoryEntryResource)
	if !ok {
		return nil, false
	}
	root, ok := h.rvaToOffset(dd.VirtualAddress)
	if !ok {
		return nil, false
	}

	budget := maxResourceEntries
	dir := h.readResourceDirectory(root, root, root, &budget)
	if dir == nil {
		return nil, false
	}
	return dir, true
}

// readResourceDirectory parses the directory at off. root, parent, and off
// itself are all used for the cycle guard: a sub-directory pointer equal
// to the current directory, its immediate parent, or the tree root is
// emitted as an empty sub-directory rather than recursed into (spec.md
// §4.7, §9).
func (h *Handle) readResourceDirectory(root, parent, off uint32, budget *int) *ResourceDirectory {
	if *budget <= 0 {
		return nil
	}
	hdr, ok := readTyped[rawResourceDirectory](h, off)
	if !ok {
		return nil
	}

	total := int(hdr.NumberOfNamedEntries) + int(hdr.NumberOfIdEntries)
	dir := &ResourceDirectory{
		Characteristics: hdr.Characteristics,
		TimeDateStamp:   hdr.TimeDateStamp,
		MajorVersion:    hdr.MajorVersion,
		MinorVersion:    hdr.MinorVersion,
	}

	entryBase := off + resourceDirectoryHeaderSz
	for i := 0; i < total && *budget > 0; i++ {
		*budget--
		entOff := entryBase + uint32(i)*resourceDirectoryEntrySz
		raw, ok := readTyped[rawResourceDirectoryEntry](h, entOff)
		if !ok {
			break
		}

		entry := ResourceEntry{}
		if raw.Name&resourceNameIsStringBit != 0 {
			entry.IsString = true
			entry.Name = h.readResourceString(root, raw.Name&^resourceNameIsStringBit)
		} else {
			entry.ID = raw.Name
		}

		if raw.OffsetToData&resourceDataIsDirBit != 0 {
			subOff := root + (raw.OffsetToData &^ resourceDataIsDirBit)
			if subOff == off || subOff == root || subOff == parent {
				h.logf(LevelWarn, "resources: %v", errors.Wrapf(ErrCyclicResourceTree, "sub-directory at 0x%x cycles back to an ancestor", subOff))
				entry.Directory = &ResourceDirectory{}
			} else {
				entry.Directory = h.readResourceDirectory(root, off, subOff, budget)
			}
		} else {
			dataOff := root + raw.OffsetToData
			if de, ok := readTyped[rawResourceDataEntry](h, dataOff); ok {
				entry.Data = &ResourceDataEntry{RVA: de.OffsetToData, Size: de.Size, CodePage: de.CodePage}
			}
		}

		dir.Entries = append(dir.Entries, entry)
	}

	return dir
}

// readResourceString reads a length-prefixed UTF-16 name at
// root+nameOffset, capped at 260 code units (spec.md §4.7).
func (h *Handle) readResourceString(root, nameOffset uint32) string {
	addr := root + nameOffset
	length, ok := h.readUint16(addr)
	if !ok {
		return ""
	}
	if length > maxPath {
		length = maxPath
	}
	units := make([]uint16, 0, length)
	for i := uint16(0); i < length; i++ {
		u, ok := h.readUint16(addr + 2 + uint32(i)*2)
		if !ok {
			break
		}
		units = append(units, u)
	}
	return decodeUTF16(units)
}

// PeekResourceData reads the raw bytes a resource data leaf describes.
// entry.RVA is an RVA into the image, not a local offset relative to the
// resource directory root (spec.md §4.7).
func (h *Handle) PeekResourceData(entry ResourceDataEntry) ([]byte, bool) {
	return h.getDataAtRVA(entry.RVA, entry.Size)
}
