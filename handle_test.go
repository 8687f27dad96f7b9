package pe

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOpenBytesTooSmall(t *testing.T) {
	buf := make([]byte, 63)
	h, status, err := OpenBytes(buf)
	if err == nil {
		t.Fatal("expected error for undersized buffer")
	}
	if status != StatusFileTooSmall {
		t.Fatalf("status = %v, want StatusFileTooSmall", status)
	}
	if h != nil {
		t.Fatal("expected nil handle on failure")
	}
}

func TestOpenBytesBadDOSSignature(t *testing.T) {
	buf := make([]byte, 64)
	h, status, err := OpenBytes(buf)
	if err == nil {
		t.Fatal("expected error for missing DOS signature")
	}
	if status != StatusBadDOSSignature {
		t.Fatalf("status = %v, want StatusBadDOSSignature", status)
	}
	if h != nil {
		t.Fatal("expected nil handle on failure")
	}
}

func TestOpenBytesELfanewPastEOF(t *testing.T) {
	b := newImageBuilder()
	b.withDOSHeader(0x200)
	buf := b.bytes()[:64]

	h, status, err := OpenBytes(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusOK {
		t.Fatalf("status = %v, want StatusOK", status)
	}
	if _, ok := h.DOSHeader(); !ok {
		t.Fatal("expected DOS header present")
	}
	if _, ok := h.NTHeader(); ok {
		t.Fatal("expected NT header absent")
	}
}

func TestOpenBytesMinimalPE32(t *testing.T) {
	b := newImageBuilder()
	b.withDOSHeader(0x80)
	b.withPE32(0x80, 0, 16)

	h, status, err := OpenBytes(b.bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusOK {
		t.Fatalf("status = %v, want StatusOK", status)
	}
	nt, ok := h.NTHeader()
	if !ok {
		t.Fatal("expected NT header present")
	}
	if _, ok := nt.OptionalHeader.(*OptionalHeader32); !ok {
		t.Fatalf("OptionalHeader type = %T, want *OptionalHeader32", nt.OptionalHeader)
	}
	if h.MachineWidth() != MachinePE32 {
		t.Fatalf("MachineWidth() = %v, want MachinePE32", h.MachineWidth())
	}
	if _, ok := h.SectionHeaders(); ok {
		t.Fatal("expected no sections")
	}
}

func TestOpenBytesIdempotentDoubleOpen(t *testing.T) {
	b := newImageBuilder()
	b.withDOSHeader(0x80)
	b.withPE32(0x80, 0, 16)
	buf := b.bytes()

	h1, s1, err1 := OpenBytes(buf)
	h2, s2, err2 := OpenBytes(buf)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if s1 != s2 {
		t.Fatalf("status mismatch across opens: %v vs %v", s1, s2)
	}
	nt1, _ := h1.NTHeader()
	nt2, _ := h2.NTHeader()
	if diff := cmp.Diff(nt1, nt2); diff != "" {
		t.Fatalf("NT header differs across independent opens of identical bytes (-first +second):\n%s", diff)
	}
}

func TestRVAResolutionAcrossSections(t *testing.T) {
	b := newImageBuilder()
	b.withDOSHeader(0x80)
	sectionTableOff := b.withPE32(0x80, 3, 16)

	off := int(sectionTableOff)
	b.writeSectionHeader(off, ".text", 0x1000, 0x1000, 0x400, 0x400)
	b.writeSectionHeader(off+40, ".rdata", 0x800, 0x2000, 0x800, 0x800)
	b.writeSectionHeader(off+80, ".rsrc", 0xC00, 0x3000, 0xC00, 0x1000)
	b.padTo(0x1C00)

	h, status, err := OpenBytes(b.bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusOK {
		t.Fatalf("status = %v", status)
	}

	sections, ok := h.SectionHeaders()
	if !ok || len(sections) != 3 {
		t.Fatalf("SectionHeaders() = %v, %v; want 3 sections", sections, ok)
	}

	fileOff, ok := h.rvaToOffset(0x1500)
	if !ok {
		t.Fatal("expected RVA 0x1500 to resolve")
	}
	if fileOff != 0x900 {
		t.Fatalf("rvaToOffset(0x1500) = 0x%x, want 0x900", fileOff)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	b := newImageBuilder()
	b.withDOSHeader(0x80)
	b.withPE32(0x80, 0, 16)
	h, _, err := OpenBytes(b.bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestFuzzedBuffersNeverPanic(t *testing.T) {
	sizes := []int{0, 1, 63, 64, 65, 128, 512, 4096}
	for _, size := range sizes {
		buf := make([]byte, size)
		for i := range buf {
			buf[i] = byte(i*2654435761 + size)
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("size=%d: panic: %v", size, r)
				}
			}()
			h, _, _ := OpenBytes(buf)
			if h == nil {
				return
			}
			_, _ = h.NTHeader()
			_, _ = h.SectionHeaders()
			_, _ = h.Export()
			_, _ = h.Import()
			_, _ = h.Resources()
			_, _ = h.Relocations()
			_, _ = h.Debug()
			_, _ = h.TLS()
			_, _ = h.LoadConfig()
			_, _ = h.BoundImport()
			_, _ = h.DelayImport()
			_, _ = h.COMDescriptor()
			_, _ = h.Security()
			_, _ = h.Exceptions()
		}()
	}
}
