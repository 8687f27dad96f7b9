package pe

import "testing"

func TestRichHeaderAbsentAtExactBoundary(t *testing.T) {
	b := newImageBuilder()
	b.withDOSHeader(0x80)
	b.withPE32(0x80, 0, 16)

	h, _, err := OpenBytes(b.bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := h.RichHeader(); ok {
		t.Fatal("expected Rich header absent when e_lfanew == 0x80 exactly")
	}
}

func TestRichHeaderRoundTrip(t *testing.T) {
	b := newImageBuilder()
	lfanew := uint32(0xA0)
	b.withDOSHeader(lfanew)

	mask := uint32(0xDEADBEEF)
	dans := DansSignature ^ mask
	b.putU32(0x80, dans)
	b.putU32(0x84, mask)

	entries := []CompID{{ID: 0x0100, Version: 0x1234, Count: 7}}
	off := 0x90
	for _, e := range entries {
		a := (uint32(e.ID) << 16) | uint32(e.Version)
		b.putU32(off, a^mask)
		b.putU32(off+4, e.Count^mask)
		off += 8
	}
	b.putU32(off, richSignature)
	b.putU32(off+4, mask)

	b.withPE32(lfanew, 0, 16)

	h, _, err := OpenBytes(b.bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rich, ok := h.RichHeader()
	if !ok {
		t.Fatal("expected Rich header present")
	}
	if len(rich.Entries) != len(entries) {
		t.Fatalf("got %d entries, want %d", len(rich.Entries), len(entries))
	}
	if rich.Entries[0] != entries[0] {
		t.Fatalf("entry = %+v, want %+v", rich.Entries[0], entries[0])
	}
}
