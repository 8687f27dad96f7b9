// Package peutil holds presentation and derivation helpers layered on top
// of github.com/halsec/pe's validated parse results: enumeration
// pretty-printing, resource-tree flattening, and a standalone RVA→offset
// helper for callers that don't want to hold a Handle open. None of it
// performs its own bounds-checking; it trusts the core's already-validated
// output.
package peutil

import "fmt"

// MachineName returns the human-readable name for an IMAGE_FILE_HEADER
// Machine field, or a hex fallback for unrecognized values.
func MachineName(machine uint16) string {
	switch machine {
	case 0x0:
		return "UNKNOWN"
	case 0x14c:
		return "I386"
	case 0x8664:
		return "AMD64"
	case 0x1c0:
		return "ARM"
	case 0xaa64:
		return "ARM64"
	case 0x200:
		return "IA64"
	case 0x1c4:
		return "ARMNT"
	case 0x266:
		return "MIPS16"
	case 0x366:
		return "MIPSFPU"
	case 0x9041:
		return "MIPSFPU16"
	case 0xebc:
		return "EBC"
	case 0x5032:
		return "RISCV32"
	case 0x5064:
		return "RISCV64"
	default:
		return fmt.Sprintf("UNKNOWN(0x%x)", machine)
	}
}

var characteristicsFlags = []struct {
	bit  uint16
	name string
}{
	{0x0001, "RELOCS_STRIPPED"},
	{0x0002, "EXECUTABLE_IMAGE"},
	{0x0004, "LINE_NUMS_STRIPPED"},
	{0x0008, "LOCAL_SYMS_STRIPPED"},
	{0x0020, "LARGE_ADDRESS_AWARE"},
	{0x0100, "32BIT_MACHINE"},
	{0x0200, "DEBUG_STRIPPED"},
	{0x1000, "SYSTEM"},
	{0x2000, "DLL"},
	{0x4000, "UP_SYSTEM_ONLY"},
}

// CharacteristicsNames decodes an IMAGE_FILE_HEADER Characteristics
// bitmask into its set flag names.
func CharacteristicsNames(characteristics uint16) []string {
	var names []string
	for _, f := range characteristicsFlags {
		if characteristics&f.bit != 0 {
			names = append(names, f.name)
		}
	}
	return names
}

// SubsystemName returns the human-readable name for an Optional Header
// Subsystem field.
func SubsystemName(subsystem uint16) string {
	switch subsystem {
	case 0:
		return "UNKNOWN"
	case 1:
		return "NATIVE"
	case 2:
		return "WINDOWS_GUI"
	case 3:
		return "WINDOWS_CUI"
	case 5:
		return "OS2_CUI"
	case 7:
		return "POSIX_CUI"
	case 9:
		return "WINDOWS_CE_GUI"
	case 10:
		return "EFI_APPLICATION"
	case 11:
		return "EFI_BOOT_SERVICE_DRIVER"
	case 12:
		return "EFI_RUNTIME_DRIVER"
	case 13:
		return "EFI_ROM"
	case 14:
		return "XBOX"
	default:
		return fmt.Sprintf("UNKNOWN(0x%x)", subsystem)
	}
}

var dllCharacteristicsFlags = []struct {
	bit  uint16
	name string
}{
	{0x0040, "DYNAMIC_BASE"},
	{0x0080, "FORCE_INTEGRITY"},
	{0x0100, "NX_COMPAT"},
	{0x0200, "NO_ISOLATION"},
	{0x0400, "NO_SEH"},
	{0x0800, "NO_BIND"},
	{0x1000, "APPCONTAINER"},
	{0x2000, "WDM_DRIVER"},
	{0x4000, "GUARD_CF"},
	{0x8000, "TERMINAL_SERVER_AWARE"},
}

// DllCharacteristicsNames decodes an Optional Header DllCharacteristics
// bitmask into its set flag names.
func DllCharacteristicsNames(dllCharacteristics uint16) []string {
	var names []string
	for _, f := range dllCharacteristicsFlags {
		if dllCharacteristics&f.bit != 0 {
			names = append(names, f.name)
		}
	}
	return names
}

// resourceTypeNames maps the predefined RT_* resource type IDs.
var resourceTypeNames = map[uint32]string{
	1: "CURSOR", 2: "BITMAP", 3: "ICON", 4: "MENU", 5: "DIALOG",
	6: "STRING", 7: "FONTDIR", 8: "FONT", 9: "ACCELERATOR", 10: "RCDATA",
	11: "MESSAGETABLE", 12: "GROUP_CURSOR", 14: "GROUP_ICON", 16: "VERSION",
	17: "DLGINCLUDE", 19: "PLUGPLAY", 20: "VXD", 21: "ANICURSOR",
	22: "ANIICON", 23: "HTML", 24: "MANIFEST",
}

// ResourceTypeName resolves a numeric resource type ID to its predefined
// RT_* name, or a numeric fallback for custom/user-defined types.
func ResourceTypeName(id uint32) string {
	if name, ok := resourceTypeNames[id]; ok {
		return name
	}
	return fmt.Sprintf("%d", id)
}

// primaryLangNames maps a subset of the PRIMARYLANGID values most
// commonly seen in resource tables.
var primaryLangNames = map[uint16]string{
	0x00: "NEUTRAL", 0x04: "CHINESE", 0x07: "GERMAN", 0x09: "ENGLISH",
	0x0a: "SPANISH", 0x0c: "FRENCH", 0x10: "ITALIAN", 0x11: "JAPANESE",
	0x12: "KOREAN", 0x19: "RUSSIAN", 0x16: "PORTUGUESE",
}

// SubLangName renders a resource language ID (LangID = primary | (sub <<
// 10)) as a readable "PRIMARY/sub=N" label. Full sublanguage tables are a
// large generated lookup that adds no parsing value; the primary language
// name plus the raw sublanguage ordinal is sufficient for triage.
func SubLangName(langID uint16) string {
	primary := langID & 0x3ff
	sub := langID >> 10
	name, ok := primaryLangNames[primary]
	if !ok {
		name = fmt.Sprintf("0x%x", primary)
	}
	return fmt.Sprintf("%s/sub=%d", name, sub)
}
