package haplotype

import "testing"

func TestTranslate(t *testing.T) {
	for _, tc := range []struct {
		seq, want string
	}{
		{"", ""},
		{"ATG", "M"},
		{"ATGAAATGA", "MK*"},
		{"TGTTGC", "CC"},
		{"atgtgt", "MC"}, // case-insensitive
		{"ATGAA", "M"},   // trailing partial codon ignored
		{"ATGNNNTGT", "MXC"},
		{"TAATAGTGA", "***"},
	} {
		if got := Translate(tc.seq); got != tc.want {
			t.Errorf("Translate(%q): got %q, want %q", tc.seq, got, tc.want)
		}
	}
}

func TestTranslateFullCode(t *testing.T) {
	// Spot-check one codon per amino acid.
	for _, tc := range []struct {
		codon string
		want  byte
	}{
		{"TTT", 'F'}, {"CTG", 'L'}, {"ATT", 'I'}, {"GTA", 'V'},
		{"TCT", 'S'}, {"CCC", 'P'}, {"ACA", 'T'}, {"GCG", 'A'},
		{"TAC", 'Y'}, {"CAT", 'H'}, {"CAA", 'Q'}, {"AAT", 'N'},
		{"AAA", 'K'}, {"GAC", 'D'}, {"GAG", 'E'}, {"TGG", 'W'},
		{"CGA", 'R'}, {"AGC", 'S'}, {"GGG", 'G'}, {"ATG", 'M'},
	} {
		if got := Translate(tc.codon); got != string(tc.want) {
			t.Errorf("Translate(%q): got %q, want %q", tc.codon, got, string(tc.want))
		}
	}
}
