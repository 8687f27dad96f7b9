package pe

import (
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

// byteSource is the Byte-Range Provider (SPEC_FULL.md §4.0): an abstract,
// immutable, contiguous byte sequence of known length. It is the only
// thing the address-safety layer (handle.go's isSafe/rvaToOffset/readAt)
// is allowed to read through.
type byteSource interface {
	io.ReaderAt
	Len() int
	Close() error
}

// bufferSource wraps a caller-supplied buffer. The Handle never copies or
// mutates it and never closes anything owned by the caller; its lifetime
// must exceed the Handle's, same as the teacher's f.sr over a borrowed
// []byte would require.
type bufferSource struct {
	buf []byte
}

func newBufferSource(buf []byte) *bufferSource { return &bufferSource{buf: buf} }

func (b *bufferSource) Len() int { return len(b.buf) }

func (b *bufferSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(b.buf)) {
		return 0, io.EOF
	}
	n := copy(p, b.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *bufferSource) Close() error { return nil }

// fileSource memory-maps a file read-only via mmap-go. If the mapping
// fails (e.g. a zero-length file, or a filesystem/OS combination that
// rejects the mmap syscall) it falls back to reading the whole file into
// an owned buffer, matching the teacher's plain io.SectionReader-over-
// *os.File approach for that fallback path.
type fileSource struct {
	f      *os.File
	mapped mmap.MMap
	owned  []byte
}

func openFileSource(path string) (*fileSource, Status, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, StatusFileOpenFailed, errors.Wrap(err, "opening PE image")
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, StatusFileOpenFailed, errors.Wrap(err, "stat PE image")
	}
	if stat.Size() < MinFileSize {
		_ = f.Close()
		return nil, StatusFileTooSmall, ErrInvalidPESize
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		// Fall back to a plain read rather than failing outright: some
		// filesystems (overlayfs variants, certain network mounts) or
		// zero-length regions reject the mmap syscall outright.
		buf := make([]byte, stat.Size())
		if _, err2 := io.ReadFull(io.NewSectionReader(f, 0, stat.Size()), buf); err2 != nil {
			_ = f.Close()
			return nil, StatusMapFailed, errors.Wrapf(ErrMapFailed, "mmap: %v; fallback read: %v", err, err2)
		}
		return &fileSource{f: f, owned: buf}, StatusOK, nil
	}

	adviseSequential(m)
	return &fileSource{f: f, mapped: m}, StatusOK, nil
}

func (s *fileSource) Len() int {
	if s.mapped != nil {
		return len(s.mapped)
	}
	return len(s.owned)
}

func (s *fileSource) ReadAt(p []byte, off int64) (int, error) {
	if s.mapped != nil {
		if off < 0 || off > int64(len(s.mapped)) {
			return 0, io.EOF
		}
		n := copy(p, s.mapped[off:])
		if n < len(p) {
			return n, io.EOF
		}
		return n, nil
	}
	if off < 0 || off > int64(len(s.owned)) {
		return 0, io.EOF
	}
	n := copy(p, s.owned[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (s *fileSource) Close() error {
	var err error
	if s.mapped != nil {
		err = s.mapped.Unmap()
	}
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}
