package svelt

import "github.com/grailbio/svelt/reference"

// FlipWindow is the half-width of reference context pulled around each
// BND end for rule 3's identity check (spec §4.4).
const FlipWindow = 50

// MinFlipIdentity is the minimum fraction of matching non-N bases
// required for rule 3 to accept a flipped BND pair (spec §4.4).
const MinFlipIdentity = 0.9

// flipped returns the mate-side view of r: chrom/end and chrom2/end2
// exchanged, orientation swapped (spec §4.4). r must be a BND record
// with a parsed mate.
func flipped(r *SvRecord) (chrom string, end int, chrom2 string, end2 int, orient Orient) {
	return r.Bnd.Chrom2, r.Bnd.End2, r.Chrom, r.End, r.Bnd.Orient.Swap()
}

// bndFlipMatch decides whether a and b satisfy rule 3 (spec §4.2, §4.4).
// ref is nil disables rule 3 entirely, as spec.md requires.
func bndFlipMatch(a, b *SvRecord, ref ReferenceProvider, opts Options) (bool, *Diagnostic) {
	if ref == nil || a.Kind != KindBND || b.Kind != KindBND || a.Bnd == nil || b.Bnd == nil {
		return false, nil
	}
	if a.Bnd.Chrom2 != b.Chrom || a.Chrom != b.Bnd.Chrom2 {
		return false, nil
	}
	if absInt(a.Bnd.End2-b.End) > opts.PositionWindow {
		return false, nil
	}
	if absInt(a.End-b.Bnd.End2) > opts.FarWindow {
		return false, nil
	}
	flippedOrient := a.Bnd.Orient.Swap()
	if flippedOrient != b.Bnd.Orient {
		return false, nil
	}

	flipWindow := opts.FlipWindow
	if flipWindow == 0 {
		flipWindow = FlipWindow
	}
	fChrom, fEnd, _, _, _ := flipped(a)
	aSeq, err := fetchWindow(ref, fChrom, fEnd, flipWindow)
	if err != nil {
		return false, &Diagnostic{Kind: DiagReferenceMiss, InputID: a.InputID, RowIndex: a.RowIndex,
			Message: err.Error()}
	}
	bSeq, err := fetchWindow(ref, b.Chrom, b.End, flipWindow)
	if err != nil {
		return false, &Diagnostic{Kind: DiagReferenceMiss, InputID: b.InputID, RowIndex: b.RowIndex,
			Message: err.Error()}
	}

	if a.Bnd.Orient.Here != a.Bnd.Orient.There {
		bSeq = reference.ReverseComplement(bSeq)
	}
	return hammingIdentity(aSeq, bSeq) >= MinFlipIdentity, nil
}

func fetchWindow(ref ReferenceProvider, contig string, pos1based, halfWidth int) (string, error) {
	start := pos1based - 1 - halfWidth
	if start < 0 {
		start = 0
	}
	end := pos1based - 1 + halfWidth
	return ref.Fetch(contig, start, end)
}

// hammingIdentity computes the fraction of aligned, non-N positions that
// agree between a and b. Positions where either side is 'N' (case
// insensitive) are skipped, per spec §4.4's "reference may contain Ns
// which are treated as wildcards".
func hammingIdentity(a, b string) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	compared, matches := 0, 0
	for i := 0; i < n; i++ {
		ca, cb := upperByte(a[i]), upperByte(b[i])
		if ca == 'N' || cb == 'N' {
			continue
		}
		compared++
		if ca == cb {
			matches++
		}
	}
	if compared == 0 {
		return 0
	}
	return float64(matches) / float64(compared)
}

func upperByte(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
