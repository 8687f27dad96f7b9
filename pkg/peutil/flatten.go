package peutil

import "github.com/halsec/pe"

// ResourceLeaf is one language-level entry flattened out of the
// three-level resource tree, carrying resolved type/name/language
// identifiers and a reference to the raw data span.
type ResourceLeaf struct {
	TypeID   uint32
	TypeName string
	NameID   uint32
	NameName string
	LangID   uint32
	LangName string
	Data     pe.ResourceDataEntry
}

// FlattenResources walks an already-parsed resource tree (pe.Handle.Resources)
// and emits one ResourceLeaf per language-level entry. It performs no
// further bounds-checking of its own — it trusts the tree it's given.
func FlattenResources(root *pe.ResourceDirectory) []ResourceLeaf {
	if root == nil {
		return nil
	}
	var leaves []ResourceLeaf
	for _, typeEntry := range root.Entries {
		if typeEntry.Directory == nil {
			continue
		}
		for _, nameEntry := range typeEntry.Directory.Entries {
			if nameEntry.Directory == nil {
				continue
			}
			for _, langEntry := range nameEntry.Directory.Entries {
				if langEntry.Data == nil {
					continue
				}
				leaf := ResourceLeaf{
					TypeID:   typeEntry.ID,
					TypeName: resourceEntryName(typeEntry),
					NameID:   nameEntry.ID,
					NameName: resourceEntryName(nameEntry),
					LangID:   langEntry.ID,
					LangName: SubLangName(uint16(langEntry.ID)),
					Data:     *langEntry.Data,
				}
				if !typeEntry.IsString {
					leaf.TypeName = ResourceTypeName(typeEntry.ID)
				}
				leaves = append(leaves, leaf)
			}
		}
	}
	return leaves
}

func resourceEntryName(e pe.ResourceEntry) string {
	if e.IsString {
		return e.Name
	}
	return ""
}
