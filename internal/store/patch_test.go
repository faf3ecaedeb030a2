package store

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/roamark/roamark_api/internal/model"
	"github.com/roamark/roamark_api/util"
)

func TestBuildLocationPatchOnlyNamedFields(t *testing.T) {
	modifier := uuid.New()

	testCases := []struct {
		name         string
		patch        model.LocationPatch
		wantColumns  []string
		wantArgCount int
	}{
		{
			name:         "Empty",
			patch:        model.LocationPatch{},
			wantColumns:  nil,
			wantArgCount: 1, // modifier only
		},
		{
			name:         "NameOnly",
			patch:        model.LocationPatch{Name: util.StrPtr("Cape Greco")},
			wantColumns:  []string{"name = $1"},
			wantArgCount: 2,
		},
		{
			name: "SeveralFields",
			patch: model.LocationPatch{
				Name:     util.StrPtr("Cape Greco"),
				City:     util.StrPtr("Protaras"),
				Latitude: util.Float64Ptr(34.96),
				Indoor:   util.BoolPtr(false),
			},
			wantColumns:  []string{"name = $1", "city = $2", "latitude = $3", "indoor = $4"},
			wantArgCount: 5,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			set, args := buildLocationPatch(tc.patch, modifier)

			for _, col := range tc.wantColumns {
				if !strings.Contains(set, col) {
					t.Errorf("SET clause %q missing %q", set, col)
				}
			}
			if len(args) != tc.wantArgCount {
				t.Errorf("arg count = %d; want %d", len(args), tc.wantArgCount)
			}
			// Audit stamps are always present, exactly once.
			if strings.Count(set, "last_modified_by") != 1 ||
				strings.Count(set, "last_modified_at = NOW()") != 1 ||
				strings.Count(set, "updated_at = NOW()") != 1 {
				t.Errorf("audit stamps wrong in SET clause %q", set)
			}
			if args[len(args)-1] != any(modifier) {
				t.Errorf("last arg = %v; want modifier %v", args[len(args)-1], modifier)
			}
		})
	}
}

func TestBuildLocationPatchOmitsAbsentFields(t *testing.T) {
	set, _ := buildLocationPatch(model.LocationPatch{Name: util.StrPtr("x")}, uuid.New())
	for _, absent := range []string{"address", "latitude", "longitude", "notes", "rating"} {
		if strings.Contains(set, absent) {
			t.Errorf("SET clause %q includes absent field %q", set, absent)
		}
	}
}

func TestBuildSavePatch(t *testing.T) {
	tags := []string{"dive", "cliff"}

	set, args := buildSavePatch(model.SavePatch{Tags: &tags, IsFavorite: util.BoolPtr(true)})
	if !strings.Contains(set, "is_favorite = $1") || !strings.Contains(set, "tags = $2") {
		t.Errorf("SET clause = %q; want is_favorite and tags", set)
	}
	if len(args) != 2 {
		t.Errorf("arg count = %d; want 2", len(args))
	}

	set, args = buildSavePatch(model.SavePatch{})
	if set != "" || len(args) != 0 {
		t.Errorf("empty patch produced set %q with %d args", set, len(args))
	}
}
