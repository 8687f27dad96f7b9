package pe

import "github.com/pkg/errors"

var (
	ErrInvalidPESize  = errors.New("not a PE file, smaller than the minimum DOS header size")
	ErrInvalidDOSSig  = errors.New("invalid PE file signature")
	ErrInvalidELfanew = errors.New("invalid e_lfanew value")
	ErrMapFailed      = errors.New("failed to memory-map file")
)

var (
	ErrOutsideBoundary     = errors.New("reading data outside boundary")
	ErrOverflow            = errors.New("pointer arithmetic overflow")
	ErrDamagedImportTable  = errors.New("damaged Import Table information. ILT and/or IAT appear to be broken")
	ErrRelocBlockTooSmall  = errors.New("base relocation block smaller than its own header")
	ErrCertificateMisalign = errors.New("security directory certificate entry misaligned or truncated")
	ErrCyclicResourceTree  = errors.New("resource directory is self-referential")
)
