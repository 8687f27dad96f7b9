package pe

// MinFileSize is the smallest buffer that can possibly hold a DOS header.
const MinFileSize = 64

const (
	ImageDOSSignature   = 0x5A4D // MZ
	ImageDOSZMSignature = 0x4D5A // ZM
)

const ImageNTHeaderSignature = 0x00004550

const (
	OptHdr32Magic = 0x10b // PE32
	OptHdr64Magic = 0x20b // PE32+
	OptHdrROMMagic = 0x107 // ROM image
)

// IMAGE_DIRECTORY_ENTRY constants.
const (
	ImageDirectoryEntryExport        = 0
	ImageDirectoryEntryImport        = 1
	ImageDirectoryEntryResource      = 2
	ImageDirectoryEntryException     = 3
	ImageDirectoryEntrySecurity      = 4
	ImageDirectoryEntryBaseReLoc     = 5
	ImageDirectoryEntryDebug         = 6
	ImageDirectoryEntryArchitecture  = 7
	ImageDirectoryEntryGlobalPtr     = 8
	ImageDirectoryEntryTls           = 9
	ImageDirectoryEntryLoadConfig    = 10
	ImageDirectoryEntryBoundImport   = 11
	ImageDirectoryEntryIat           = 12
	ImageDirectoryEntryDelayImport   = 13
	ImageDirectoryEntryComDescriptor = 14

	numDataDirectories = 16
	// maxReportedDataDirectories reproduces an apparent off-by-one in the
	// original libpe implementation, which caps reporting at 15 entries
	// rather than the 16 the PE spec allows. See SPEC_FULL.md Open Questions.
	maxReportedDataDirectories = 15
)

const (
	ImageScnMemExecute = 0x20000000
	ImageScnMemRead    = 0x40000000
	ImageScnMemWrite   = 0x80000000
)

const FileAlignmentHardcodedValue = 0x200

const (
	DansSignature = 0x536E6144 // "DanS"
	RichSignature = "Rich"
)

const (
	imageOrdinalFlag32 = uint32(0x80000000)
	imageOrdinalFlag64 = uint64(0x8000000000000000)
	addressMask32      = uint32(0x7fffffff)
	addressMask64      = uint64(0x7fffffffffffffff)
)

// Limit constants preserved from the original implementation (SPEC_FULL.md
// §9 "Limit constants to preserve"). These are policy, not format, and are
// kept adjustable rather than baked into call sites.
const (
	maxPath      = 260  // MAX_PATH: cap for every ASCII/UTF-16 string read
	maxImportModules   = 1000 // iMaxModules: import descriptor traversal guard
	maxImportFunctions = 5000 // iMaxFuncs: per-module thunk traversal guard
	maxResourceEntries = 0x1000
)

// Base relocation types (IMAGE_REL_BASED_*).
const (
	RelBasedAbsolute      = 0
	RelBasedHigh          = 1
	RelBasedLow           = 2
	RelBasedHighLow       = 3
	RelBasedHighAdj       = 4
	RelBasedMIPSJmpAddr   = 5
	RelBasedArmMov32      = 5
	RelBasedRiscvHigh20   = 5
	RelBasedThumbMov32    = 7
	RelBasedRiscvLow12I   = 7
	RelBasedRiscvLow12S   = 8
	RelBasedMIPSJmpAddr16 = 9
	RelBasedDir64         = 10
)

// Debug directory types (IMAGE_DEBUG_TYPE_*) relevant to this parser.
const (
	DebugTypeUnknown  = 0
	DebugTypeCOFF     = 1
	DebugTypeCodeView = 2
	DebugTypeFPO      = 3
	DebugTypeMisc     = 4
)

const (
	codeViewSignatureRSDS = 0x53445352 // "RSDS"
	codeViewSignatureNB10 = 0x3031424E // "NB10"
)

// WIN_CERTIFICATE revisions/types used by the Security directory.
const (
	WinCertTypeX509            = 0x0001
	WinCertTypePKCSSignedData  = 0x0002
	WinCertTypeReserved1       = 0x0003
	WinCertTypePKCS1Sign       = 0x0009
	certificateAlignment       = 8
)

var fileHeaderSize = 20
