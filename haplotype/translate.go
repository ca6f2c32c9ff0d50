package haplotype

import "strings"

// Protein symbols used by the plausibility checks.
const (
	// Stop marks a translation stop. Stops are not truncated; they appear
	// explicitly in translated output.
	Stop = '*'
	// Cysteine is counted for the disulfide-bridge plausibility check.
	Cysteine = 'C'
	// Unknown stands in for codons containing non-ACGT bytes (N, IUPAC
	// ambiguity codes). It never trips the cysteine or stop counters.
	Unknown = 'X'
)

// codons is the standard genetic code.
var codons = map[string]byte{
	"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
	"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"TAT": 'Y', "TAC": 'Y', "TAA": Stop, "TAG": Stop,
	"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"TGT": Cysteine, "TGC": Cysteine, "TGA": Stop, "TGG": 'W',
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',
	"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

// Translate translates a nucleotide sequence to a protein sequence using
// the standard genetic code, reading frame 0. Trailing bases that do not
// fill a codon are ignored. Callers must strip gap characters first.
func Translate(seq string) string {
	var b strings.Builder
	b.Grow(len(seq) / 3)
	for i := 0; i+3 <= len(seq); i += 3 {
		aa, ok := codons[strings.ToUpper(seq[i:i+3])]
		if !ok {
			aa = Unknown
		}
		b.WriteByte(aa)
	}
	return b.String()
}
