package classify

import "strings"

// Normalize rewrites a raw amino-acid sequence into the form the ProtBERT
// vocabulary expects: one space between residues, with the rare residue codes
// U, O, B and Z mapped to the ambiguity code X. Normalize accepts any string;
// an empty input yields an empty output.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(raw) * 2)
	first := true
	for _, r := range raw {
		if !first {
			b.WriteByte(' ')
		}
		first = false
		switch r {
		case 'U', 'O', 'B', 'Z':
			b.WriteByte('X')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
