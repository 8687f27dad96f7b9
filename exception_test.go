package pe

import "testing"

func TestExceptionsTwoRuntimeFunctions(t *testing.T) {
	b := newImageBuilder()
	lfanew := uint32(0x80)
	b.withDOSHeader(lfanew)
	sectionTableOff := b.withPE32(lfanew, 1, 16)

	const sectionRVA = 0x8000
	const sectionRaw = 0x400
	b.writeSectionHeader(int(sectionTableOff), ".pdata", 0x100, sectionRVA, 0x100, sectionRaw)
	b.setDataDirectory32(ImageDirectoryEntryException, sectionRVA, 2*runtimeFunctionSize)

	off := sectionRaw
	b.putU32(off, 0x1000)
	b.putU32(off+4, 0x1010)
	b.putU32(off+8, 0x9000)
	b.putU32(off+12, 0x1010)
	b.putU32(off+16, 0x1030)
	b.putU32(off+20, 0x9010)

	b.padTo(sectionRaw + 0x100)

	h, _, err := OpenBytes(b.bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	funcs, ok := h.Exceptions()
	if !ok || len(funcs) != 2 {
		t.Fatalf("Exceptions() = %+v, %v; want two entries", funcs, ok)
	}
	if funcs[0] != (RuntimeFunction{BeginAddress: 0x1000, EndAddress: 0x1010, UnwindInfo: 0x9000}) {
		t.Fatalf("entry 0 = %+v", funcs[0])
	}
	if funcs[1] != (RuntimeFunction{BeginAddress: 0x1010, EndAddress: 0x1030, UnwindInfo: 0x9010}) {
		t.Fatalf("entry 1 = %+v", funcs[1])
	}
}

// TestExceptionsTruncatedExtentIsAbsent covers the full-extent-up-front
// bounds check: a directory size claiming more entries than the buffer
// holds must be reported absent, not partially parsed.
func TestExceptionsTruncatedExtentIsAbsent(t *testing.T) {
	b := newImageBuilder()
	lfanew := uint32(0x80)
	b.withDOSHeader(lfanew)
	sectionTableOff := b.withPE32(lfanew, 1, 16)

	const sectionRVA = 0x8000
	const sectionRaw = 0x400
	b.writeSectionHeader(int(sectionTableOff), ".pdata", 0x20, sectionRVA, 0x20, sectionRaw)
	// Claim 10 entries' worth of size though the section only holds 0x20 bytes.
	b.setDataDirectory32(ImageDirectoryEntryException, sectionRVA, 10*runtimeFunctionSize)
	b.padTo(sectionRaw + 0x20)

	h, _, err := OpenBytes(b.bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := h.Exceptions(); ok {
		t.Fatal("expected Exceptions() absent when claimed extent exceeds buffer")
	}
}
