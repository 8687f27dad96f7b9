package pe

import "testing"

func TestTLSWithTwoCallbacks(t *testing.T) {
	b := newImageBuilder()
	lfanew := uint32(0x80)
	b.withDOSHeader(lfanew)
	sectionTableOff := b.withPE32(lfanew, 1, 16)

	const imageBase = 0x1000
	const sectionRVA = 0x6000
	const sectionRaw = 0x400
	b.writeSectionHeader(int(sectionTableOff), ".tls", 0x100, sectionRVA, 0x100, sectionRaw)
	b.setDataDirectory32(ImageDirectoryEntryTls, sectionRVA, 24)
	b.putU32(b.ohOff+28, imageBase)

	dirOff := sectionRaw
	callbacksOff := dirOff + 40
	callbacksRVA := sectionRVA + uint32(callbacksOff-sectionRaw)

	b.putU32(dirOff, imageBase+0x7000)      // StartAddressOfRawData
	b.putU32(dirOff+4, imageBase+0x7100)    // EndAddressOfRawData
	b.putU32(dirOff+8, imageBase+0x7200)    // AddressOfIndex
	b.putU32(dirOff+12, imageBase+callbacksRVA) // AddressOfCallBacks
	b.putU32(dirOff+16, 0)                  // SizeOfZeroFill
	b.putU32(dirOff+20, 0)                  // Characteristics

	b.putU32(callbacksOff, imageBase+0x7300)
	b.putU32(callbacksOff+4, imageBase+0x7400)
	b.putU32(callbacksOff+8, 0)

	b.padTo(sectionRaw + 0x100)

	h, _, err := OpenBytes(b.bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tls, ok := h.TLS()
	if !ok {
		t.Fatal("expected TLS directory present")
	}
	if tls.StartAddressOfRawData != imageBase+0x7000 {
		t.Fatalf("StartAddressOfRawData = 0x%x", tls.StartAddressOfRawData)
	}
	if len(tls.Callbacks) != 2 {
		t.Fatalf("got %d callbacks, want 2: %+v", len(tls.Callbacks), tls.Callbacks)
	}
	if tls.Callbacks[0] != 0x7300 || tls.Callbacks[1] != 0x7400 {
		t.Fatalf("callbacks = %+v, want [0x7300, 0x7400]", tls.Callbacks)
	}
}
