package peutil

import (
	"testing"

	"github.com/halsec/pe"
)

func TestFlattenResourcesThreeLevelTree(t *testing.T) {
	data := pe.ResourceDataEntry{RVA: 0x4000, Size: 32, CodePage: 0}
	tree := &pe.ResourceDirectory{
		Entries: []pe.ResourceEntry{
			{
				ID: 24, // RT_MANIFEST
				Directory: &pe.ResourceDirectory{
					Entries: []pe.ResourceEntry{
						{
							ID: 1,
							Directory: &pe.ResourceDirectory{
								Entries: []pe.ResourceEntry{
									{ID: 0x0409, Data: &data},
								},
							},
						},
					},
				},
			},
		},
	}

	leaves := FlattenResources(tree)
	if len(leaves) != 1 {
		t.Fatalf("got %d leaves, want 1", len(leaves))
	}
	leaf := leaves[0]
	if leaf.TypeID != 24 || leaf.NameID != 1 || leaf.LangID != 0x0409 {
		t.Fatalf("leaf = %+v", leaf)
	}
	if leaf.Data != data {
		t.Fatalf("Data = %+v, want %+v", leaf.Data, data)
	}
	if leaf.TypeName != "MANIFEST" {
		t.Fatalf("TypeName = %q, want MANIFEST", leaf.TypeName)
	}
}

func TestFlattenResourcesSkipsEmptyBranches(t *testing.T) {
	tree := &pe.ResourceDirectory{
		Entries: []pe.ResourceEntry{
			{ID: 3, Directory: nil}, // no sub-directory: nothing to flatten
		},
	}
	if leaves := FlattenResources(tree); len(leaves) != 0 {
		t.Fatalf("got %d leaves, want 0", len(leaves))
	}
}

func TestFlattenResourcesNilTree(t *testing.T) {
	if leaves := FlattenResources(nil); leaves != nil {
		t.Fatalf("got %v, want nil", leaves)
	}
}
