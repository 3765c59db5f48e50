package classify

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "MKV", "M K V"},
		{"uncommon residues", "MUOBZK", "M X X X X K"},
		{"single residue", "M", "M"},
		{"empty", "", ""},
		{"all uncommon", "UOBZ", "X X X X"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeSubstitutionIsStable(t *testing.T) {
	normalized := Normalize("MUOBZKAU")
	if strings.ContainsAny(normalized, "UOBZ") {
		t.Fatalf("uncommon residues survived normalization: %q", normalized)
	}
	// re-substituting an already substituted sequence changes nothing
	resubstituted := strings.NewReplacer("U", "X", "O", "X", "B", "X", "Z", "X").Replace(normalized)
	if resubstituted != normalized {
		t.Fatalf("substitution not idempotent: %q vs %q", resubstituted, normalized)
	}
}

func TestNormalizePreservesResidueCount(t *testing.T) {
	in := "MKVLUZ"
	got := Normalize(in)
	if tokens := len(strings.Fields(got)); tokens != len(in) {
		t.Fatalf("expected %d tokens, got %d (%q)", len(in), tokens, got)
	}
}
