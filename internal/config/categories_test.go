package config

import (
	"testing"

	"github.com/theirongolddev/paycycle/internal/model"
)

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Food", model.CategoryFood},
		{"  housing ", model.CategoryHousing},
		{"Alimentação", model.CategoryFood},
		{"Saúde", model.CategoryHealth},
		{"EDUCAÇÃO", model.CategoryEducation},
		{"Vestuário", model.CategoryClothing},
		{"Outros", model.CategoryOther},
		{"", model.CategoryOther},
		{"Crypto", model.CategoryOther},
	}
	for _, tt := range tests {
		if got := NormalizeCategory(tt.raw); got != tt.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestLookupCategory_FallsBackToOther(t *testing.T) {
	got := LookupCategory("nope")
	if got.Name != model.CategoryOther {
		t.Fatalf("LookupCategory(unknown).Name = %q, want %q", got.Name, model.CategoryOther)
	}
	for _, c := range model.Categories {
		if LookupCategory(c).Color == "" {
			t.Errorf("category %q has no color", c)
		}
	}
}
