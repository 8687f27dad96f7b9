package peutil

import (
	"testing"

	"github.com/halsec/pe"
)

func TestRVAToOffsetAcrossSections(t *testing.T) {
	sections := []pe.SectionHeader{
		{Name: ".text", VirtualAddress: 0x1000, VirtualSize: 0x400, PointerToRawData: 0x400, SizeOfRawData: 0x400},
		{Name: ".rdata", VirtualAddress: 0x2000, VirtualSize: 0x800, PointerToRawData: 0x800, SizeOfRawData: 0x800},
		{Name: ".rsrc", VirtualAddress: 0x3000, VirtualSize: 0xC00, PointerToRawData: 0x1000, SizeOfRawData: 0xC00},
	}

	off, ok := RVAToOffset(sections, 0x1C00, 0x1500)
	if !ok {
		t.Fatal("expected RVA 0x1500 to resolve")
	}
	if off != 0x900 {
		t.Fatalf("RVAToOffset(0x1500) = 0x%x, want 0x900", off)
	}
}

func TestRVAToOffsetOutsideAnySectionFallsBackToHeaderRegion(t *testing.T) {
	sections := []pe.SectionHeader{
		{Name: ".text", VirtualAddress: 0x1000, VirtualSize: 0x400, PointerToRawData: 0x400, SizeOfRawData: 0x400},
	}
	off, ok := RVAToOffset(sections, 0x1000, 0x80)
	if !ok || off != 0x80 {
		t.Fatalf("RVAToOffset(0x80) = 0x%x, %v; want 0x80, true (header region)", off, ok)
	}
}

func TestRVAToOffsetBeyondFileSizeIsAbsent(t *testing.T) {
	sections := []pe.SectionHeader{
		{Name: ".text", VirtualAddress: 0x1000, VirtualSize: 0x400, PointerToRawData: 0x400, SizeOfRawData: 0x400},
	}
	if _, ok := RVAToOffset(sections, 0x1000, 0x9999); ok {
		t.Fatal("expected RVA far outside any section and past file size to be absent")
	}
}
