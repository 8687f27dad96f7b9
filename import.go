package pe

import "github.com/pkg/errors"

// importDescriptor is the on-disk IMAGE_IMPORT_DESCRIPTOR layout.
type importDescriptor struct {
	OriginalFirstThunk uint32
	TimeDateStamp      uint32
	ForwarderChain     uint32
	Name               uint32
	FirstThunk         uint32
}

// ImportFunction is one resolved import thunk: either an ordinal-only
// import (Name empty) or a named import with its hint.
type ImportFunction struct {
	Name    string
	Hint    uint16
	Ordinal uint16
}

// Import is one module's import descriptor plus its resolved thunks.
type Import struct {
	Name      string
	Functions []ImportFunction
}

const importDescriptorSize = 20

func (h *Handle) Import() ([]*Import, bool) {
	dd, ok := h.dataDirectory(ImageDirectoryEntryImport)
	if !ok {
		return nil, false
	}
	off, ok := h.rvaToOffset(dd.VirtualAddress)
	if !ok {
		h.logf(LevelWarn, "import: %v", errors.Wrap(ErrDamagedImportTable, "directory RVA does not resolve to a file offset"))
		return nil, false
	}

	var modules []*Import
	for i := 0; i < maxImportModules; i++ {
		descOff := off + uint32(i)*importDescriptorSize
		desc, ok := readTyped[importDescriptor](h, descOff)
		if !ok {
			h.logf(LevelWarn, "import: %v", errors.Wrap(ErrDamagedImportTable, "descriptor table truncated before a null terminator"))
			break
		}
		if desc.OriginalFirstThunk == 0 && desc.TimeDateStamp == 0 &&
			desc.ForwarderChain == 0 && desc.Name == 0 && desc.FirstThunk == 0 {
			break
		}

		mod := &Import{Name: h.getCStringAtRVA(desc.Name, maxPath)}

		thunkRVA := desc.OriginalFirstThunk
		if thunkRVA == 0 {
			thunkRVA = desc.FirstThunk
		}
		mod.Functions = h.walkThunks(thunkRVA)

		modules = append(modules, mod)
	}

	if len(modules) == 0 {
		return nil, false
	}
	return modules, true
}

func (h *Handle) walkThunks(thunkRVA uint32) []ImportFunction {
	if thunkRVA == 0 {
		return nil
	}
	thunkOff, ok := h.rvaToOffset(thunkRVA)
	if !ok {
		return nil
	}

	var fns []ImportFunction
	for i := 0; i < maxImportFunctions; i++ {
		if h.is64 {
			val, ok := h.readUint64(thunkOff + uint32(i)*8)
			if !ok || val == 0 {
				break
			}
			if val&imageOrdinalFlag64 != 0 {
				fns = append(fns, ImportFunction{Ordinal: uint16(val & 0xFFFF)})
				continue
			}
			addr := uint32(val & addressMask64)
			fns = append(fns, h.readHintName(addr))
		} else {
			val, ok := h.readUint32(thunkOff + uint32(i)*4)
			if !ok || val == 0 {
				break
			}
			if val&imageOrdinalFlag32 != 0 {
				fns = append(fns, ImportFunction{Ordinal: uint16(val & 0xFFFF)})
				continue
			}
			addr := val & addressMask32
			fns = append(fns, h.readHintName(addr))
		}
	}
	return fns
}

func (h *Handle) readHintName(rva uint32) ImportFunction {
	off, ok := h.rvaToOffset(rva)
	if !ok {
		return ImportFunction{}
	}
	hint, _ := h.readUint16(off)
	name := h.getCStringAt(off+2, maxPath)
	return ImportFunction{Name: name, Hint: hint}
}
