package reference

import "strings"

// ReverseComplement mirrors fusion/parsegencode.reverseComplement,
// generalised to pass lowercase through and treat any unrecognised byte
// as 'N' rather than fatal-ing, since reference windows fetched here may
// include arbitrary FASTA content (ambiguity codes, soft-masking).
func ReverseComplement(seq string) string {
	var b strings.Builder
	b.Grow(len(seq))
	for i := len(seq) - 1; i >= 0; i-- {
		switch seq[i] {
		case 'A':
			b.WriteByte('T')
		case 'C':
			b.WriteByte('G')
		case 'G':
			b.WriteByte('C')
		case 'T':
			b.WriteByte('A')
		case 'a':
			b.WriteByte('t')
		case 'c':
			b.WriteByte('g')
		case 'g':
			b.WriteByte('c')
		case 't':
			b.WriteByte('a')
		default:
			b.WriteByte('N')
		}
	}
	return b.String()
}
