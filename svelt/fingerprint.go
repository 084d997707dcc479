package svelt

import "blainsmith.com/go/seahash"

// seahash64 computes the stable 64-bit content hash used for AltHash
// (spec §4.1) and elsewhere the pipeline needs a cheap fingerprint of a
// nucleotide string. Grounded on the teacher's use of the same library
// for BAM record-name hashing (encoding/bamprovider/concurrentmap.go).
func seahash64(s string) uint64 {
	return seahash.Sum64([]byte(s))
}

// exactKey is the strict-identity key of rule 1 (spec §4.2). Two records
// with equal exactKeys are always merged.
type exactKey struct {
	chrom, chrom2   string
	start, end, end2 int
	length          int
	kind            SvKind
	altHash         uint64
	hasAltHash      bool
	orient          Orient
}

// ExactKey computes r's rule-1 identity, or ok=false when r cannot
// participate in exact matching: passthrough records, BND records without
// a parsed mate, and non-BND records without an AltHash (rule 1 compares
// ALT hashes only when both sides have one, so a symbolic-ALT record can
// merge by rule 2 but never by rule 1).
func ExactKey(r *SvRecord) (exactKey, bool) {
	if r.Passthrough {
		return exactKey{}, false
	}
	if r.Kind == KindBND {
		if r.Bnd == nil {
			return exactKey{}, false
		}
		return exactKey{
			chrom:  r.Chrom,
			chrom2: r.Bnd.Chrom2,
			end:    r.End,
			end2:   r.Bnd.End2,
			kind:   KindBND,
			orient: r.Bnd.Orient,
		}, true
	}
	k := exactKey{
		chrom:  r.Chrom,
		start:  r.Start,
		end:    r.End,
		length: r.Length,
		kind:   r.Kind,
	}
	if r.AltHash == nil {
		return exactKey{}, false
	}
	k.altHash = *r.AltHash
	k.hasAltHash = true
	return k, true
}
