package pe

import (
	"github.com/pkg/errors"
	"go.mozilla.org/pkcs7"
)

// winCertificateHeader is the fixed 8-byte WIN_CERTIFICATE prefix.
type winCertificateHeader struct {
	Length          uint32
	Revision        uint16
	CertificateType uint16
}

const winCertificateHeaderSize = 8

// SecurityEntry is one WIN_CERTIFICATE record from the certificate table.
// PKCS7 is populated only for WinCertTypePKCSSignedData entries that
// parse as a structurally valid PKCS#7 envelope; no signature is verified
// (spec.md Non-goals) — this is a structural decode for caller
// convenience only.
type SecurityEntry struct {
	Length          uint32
	Revision        uint16
	CertificateType uint16
	Data            []byte
	PKCS7           *pkcs7.PKCS7
}

// Security iterates the certificate table. Unlike every other directory,
// its data directory RVA field is actually a file offset (spec.md §9).
func (h *Handle) Security() ([]SecurityEntry, bool) {
	dd, ok := h.dataDirectory(ImageDirectoryEntrySecurity)
	if !ok {
		return nil, false
	}

	start := dd.VirtualAddress
	end := start
	if sumOverflows(start, dd.Size) {
		return nil, false
	}
	end = start + dd.Size

	var entries []SecurityEntry
	off := start
	for off < end {
		hdr, ok := readTyped[winCertificateHeader](h, off)
		if !ok {
			break
		}
		if hdr.Length < winCertificateHeaderSize {
			h.logf(LevelWarn, "security: %v", errors.Wrapf(ErrCertificateMisalign, "certificate at offset 0x%x declares length %d shorter than its own header", off, hdr.Length))
			break
		}

		bodyLen := hdr.Length - winCertificateHeaderSize
		body, ok := h.readAt(off+winCertificateHeaderSize, bodyLen)
		if !ok {
			break
		}

		entry := SecurityEntry{
			Length:          hdr.Length,
			Revision:        hdr.Revision,
			CertificateType: hdr.CertificateType,
			Data:            body,
		}
		if hdr.CertificateType == WinCertTypePKCSSignedData {
			if p7, err := pkcs7.Parse(body); err == nil {
				entry.PKCS7 = p7
			}
		}
		entries = append(entries, entry)

		advance := hdr.Length + ((certificateAlignment - (hdr.Length & (certificateAlignment - 1))) & (certificateAlignment - 1))
		if sumOverflows(off, advance) {
			break
		}
		next := off + advance
		if next <= off || next > end {
			h.logf(LevelWarn, "security: %v", errors.Wrapf(ErrCertificateMisalign, "certificate at offset 0x%x advances past the directory end", off))
			break
		}
		off = next
	}

	if len(entries) == 0 {
		return nil, false
	}
	return entries, true
}
