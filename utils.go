package pe

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"math"
	"strings"
)

func formatHex64(v uint64) string {
	return fmt.Sprintf("%016x", v)
}

// AuthentihashAlgorithm selects the digest used by Authentihash.
type AuthentihashAlgorithm int

const (
	AuthentihashMD5 AuthentihashAlgorithm = iota
	AuthentihashSHA1
	AuthentihashSHA256
	AuthentihashSHA512
)

func newHasher(algo AuthentihashAlgorithm) hash.Hash {
	switch algo {
	case AuthentihashSHA1:
		return sha1.New()
	case AuthentihashSHA256:
		return sha256.New()
	case AuthentihashSHA512:
		return sha512.New()
	default:
		return md5.New()
	}
}

// Authentihash computes the Authenticode-style digest of the image: every
// byte except the Optional Header checksum field, the Security data
// directory entry itself, and the certificate table bytes it points at.
// This is a structural convenience only — no signature is verified
// (spec.md Non-goals).
func (h *Handle) Authentihash(algo AuthentihashAlgorithm) (string, bool) {
	if !h.hasNT {
		return "", false
	}

	checksumOff, ok := h.checksumFieldOffset()
	if !ok {
		return "", false
	}
	secDirOff, secDirLen, ok := h.securityDirectoryFieldOffset()
	if !ok {
		return "", false
	}

	var certStart, certEnd uint32
	if dd, present := h.dataDirectory(ImageDirectoryEntrySecurity); present && dd.Size > 0 {
		certStart = dd.VirtualAddress
		certEnd = dd.VirtualAddress + dd.Size
	}

	hasher := newHasher(algo)
	var pos uint32
	write := func(from, to uint32) {
		if to <= from || to > h.size {
			return
		}
		b, ok := h.readAt(from, to-from)
		if !ok {
			return
		}
		hasher.Write(b)
	}

	write(pos, checksumOff)
	pos = checksumOff + 4

	write(pos, secDirOff)
	pos = secDirOff + secDirLen

	if certStart > 0 && certStart >= pos {
		write(pos, certStart)
		pos = certEnd
	}

	write(pos, h.size)

	return hex.EncodeToString(hasher.Sum(nil)), true
}

func (h *Handle) checksumFieldOffset() (uint32, bool) {
	lfanew := h.dos.AddressOfNewEXEHeader
	ohOffset := lfanew + 4 + uint32(fileHeaderSize)
	switch h.nt.OptionalHeader.(type) {
	case *OptionalHeader32:
		return ohOffset + 64, true
	case *OptionalHeader64:
		return ohOffset + 64, true
	default:
		return 0, false
	}
}

func (h *Handle) securityDirectoryFieldOffset() (uint32, uint32, bool) {
	lfanew := h.dos.AddressOfNewEXEHeader
	ohOffset := lfanew + 4 + uint32(fileHeaderSize)
	const ddEntrySize = 8
	switch h.nt.OptionalHeader.(type) {
	case *OptionalHeader32:
		return ohOffset + 96 + ImageDirectoryEntrySecurity*ddEntrySize, ddEntrySize, true
	case *OptionalHeader64:
		return ohOffset + 112 + ImageDirectoryEntrySecurity*ddEntrySize, ddEntrySize, true
	default:
		return 0, 0, false
	}
}

// Overlay returns any trailing bytes past the last section's raw data
// extent — data appended after the image proper (installer payloads,
// signatures stapled without updating headers, etc.).
func (h *Handle) Overlay() ([]byte, bool) {
	if len(h.sections) == 0 {
		return nil, false
	}
	var end uint32
	for _, s := range h.sections {
		if sumOverflows(s.PointerToRawData, s.SizeOfRawData) {
			continue
		}
		if e := s.PointerToRawData + s.SizeOfRawData; e > end {
			end = e
		}
	}
	if end >= h.size {
		return nil, false
	}
	b, ok := h.readAt(end, h.size-end)
	if !ok {
		return nil, false
	}
	return b, true
}

// SectionEntropy computes the Shannon entropy (bits per byte, 0..8) of a
// section's raw on-disk bytes — a common packing/encryption heuristic in
// forensic triage.
func (h *Handle) SectionEntropy(s SectionHeader) (float64, bool) {
	b, ok := h.readAt(s.PointerToRawData, s.SizeOfRawData)
	if !ok || len(b) == 0 {
		return 0, false
	}
	var counts [256]int
	for _, c := range b {
		counts[c]++
	}
	entropy := 0.0
	total := float64(len(b))
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		entropy -= p * math.Log2(p)
	}
	return entropy, true
}

// SectionMD5 hashes a section's raw on-disk bytes.
func (h *Handle) SectionMD5(s SectionHeader) (string, bool) {
	b, ok := h.readAt(s.PointerToRawData, s.SizeOfRawData)
	if !ok {
		return "", false
	}
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:]), true
}

// ImpHash computes an import-hash in the widely used mandiant/fireeye
// style: lowercase "module.function_or_ord%d" tuples joined by commas,
// hashed with MD5. It degrades ordinal-only imports to "ord<N>" rather
// than requiring an ordinal-name database (out of scope for this module).
func (h *Handle) ImpHash() (string, bool) {
	imports, ok := h.Import()
	if !ok || len(imports) == 0 {
		return "", false
	}

	var parts []string
	for _, imp := range imports {
		mod := strings.TrimSuffix(strings.ToLower(imp.Name), ".dll")
		for _, fn := range imp.Functions {
			if fn.Name != "" {
				parts = append(parts, fmt.Sprintf("%s.%s", mod, strings.ToLower(fn.Name)))
			} else {
				parts = append(parts, fmt.Sprintf("%s.ord%d", mod, fn.Ordinal))
			}
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	sum := md5.Sum([]byte(strings.Join(parts, ",")))
	return hex.EncodeToString(sum[:]), true
}
