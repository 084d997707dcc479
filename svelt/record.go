package svelt

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/grailbio/svelt/vcf"
)

// literalAltRE matches an ALT that is a literal nucleotide sequence
// rather than a symbolic allele like <DEL> or a breakend expression.
var literalAltRE = regexp.MustCompile(`^[ACGTNacgtn]+$`)

// Orient encodes the two strand signs implied by the bracket direction of
// a BND ALT: Here is the sign of the local breakend, There is the sign of
// the mate breakend, each '+' or '-'.
type Orient struct {
	Here, There byte
}

// Swap exchanges the two sign bits, used when re-orienting a BND record
// from the mate's point of view (spec §4.4).
func (o Orient) Swap() Orient {
	return Orient{Here: o.There, There: o.Here}
}

func (o Orient) String() string {
	return string([]byte{o.Here, o.There})
}

// The bnd* patterns cover the four VCF breakend ALT forms. A reciprocal
// mate of t]p] is t]p] and of [p[t is [p[t, so those two map to
// orientations that Swap leaves unchanged, while t[p[ and ]p]t (each
// other's mates) map to orientations that Swap exchanges:
//
//	t[p[  -> -+   piece after p (read forward) joins after t
//	t]p]  -> --   piece before p (reverse complemented) joins after t
//	]p]t  -> +-   piece before p joins before t
//	[p[t  -> ++   piece after p (reverse complemented) joins before t
var (
	bndForwardAfter  = regexp.MustCompile(`^[ACGTNacgtn]+\[([^:\[\]]+):(\d+)\[$`)
	bndForwardBefore = regexp.MustCompile(`^[ACGTNacgtn]+\]([^:\[\]]+):(\d+)\]$`)
	bndReverseBefore = regexp.MustCompile(`^\]([^:\[\]]+):(\d+)\][ACGTNacgtn]+$`)
	bndReverseAfter  = regexp.MustCompile(`^\[([^:\[\]]+):(\d+)\[[ACGTNacgtn]+$`)
)

// parseBreakend decodes a BND ALT into the mate contig, mate position and
// orientation. It reports ok=false when alt does not match one of the
// four recognised breakend forms.
func parseBreakend(alt string) (chrom2 string, pos2 int, orient Orient, ok bool) {
	if m := bndForwardAfter.FindStringSubmatch(alt); m != nil {
		pos2, _ = strconv.Atoi(m[2])
		return m[1], pos2, Orient{'-', '+'}, true
	}
	if m := bndForwardBefore.FindStringSubmatch(alt); m != nil {
		pos2, _ = strconv.Atoi(m[2])
		return m[1], pos2, Orient{'-', '-'}, true
	}
	if m := bndReverseBefore.FindStringSubmatch(alt); m != nil {
		pos2, _ = strconv.Atoi(m[2])
		return m[1], pos2, Orient{'+', '-'}, true
	}
	if m := bndReverseAfter.FindStringSubmatch(alt); m != nil {
		pos2, _ = strconv.Atoi(m[2])
		return m[1], pos2, Orient{'+', '+'}, true
	}
	return "", 0, Orient{}, false
}

// BndInfo carries the mate locus of a BND record, parsed from ALT.
type BndInfo struct {
	Chrom2 string
	End2   int
	Orient Orient
}

// SvRecord is the normalised, immutable-after-construction internal
// representation of one input VCF row (spec §3).
type SvRecord struct {
	ID       int // dense arena ID, assigned by the caller of Normalize.
	InputID  int
	RowIndex int

	Chrom  string
	Start  int
	End    int
	Length int
	Kind   SvKind

	RecID  string // the VCF ID column, carried through for representative selection.
	Ref    string
	Alt    string
	Qual   *float64
	Filter []string

	AltHash *uint64
	Bnd     *BndInfo

	Genotypes []string // one per sample of InputID, GT text as decoded.
	RawInfo   vcf.Info

	// Passthrough is set when normalisation could not make sense of the
	// record (spec §7 kinds 1-3): the record is never matched, and is
	// emitted unchanged keyed by InputID:RowIndex.
	Passthrough bool
}

// Normalize decodes a raw VCF record into an SvRecord. It never returns
// an error: malformed records are demoted to KindOTHER and marked
// Passthrough, with the reason reported via the returned Diagnostic.
func Normalize(rec *vcf.Record, inputID, rowIndex int) (*SvRecord, *Diagnostic) {
	sv := &SvRecord{
		InputID:   inputID,
		RowIndex:  rowIndex,
		Chrom:     rec.Chrom,
		Start:     rec.Pos,
		RecID:     rec.ID,
		Ref:       rec.Ref,
		Alt:       rec.Alt,
		Qual:      rec.Qual,
		Filter:    normalizeFilter(rec.Filter),
		Genotypes: extractGT(rec),
		RawInfo:   rec.Info,
	}

	svtype, hasType := rec.Info.Get("SVTYPE")
	if !hasType || svtype == "" {
		sv.Kind = KindOTHER
		sv.Passthrough = true
		return sv, &Diagnostic{Kind: DiagUnsupportedSVTYPE, InputID: inputID, RowIndex: rowIndex,
			Message: "missing SVTYPE"}
	}
	sv.Kind = kindFromSVTYPE(svtype)

	if sv.Kind == KindBND {
		chrom2, pos2, orient, ok := parseBreakend(rec.Alt)
		if !ok {
			sv.Kind = KindOTHER
			sv.Passthrough = true
			return sv, &Diagnostic{Kind: DiagBadBreakend, InputID: inputID, RowIndex: rowIndex,
				Message: "malformed breakend ALT: " + rec.Alt}
		}
		sv.End = rec.Pos
		sv.Length = 0
		sv.Bnd = &BndInfo{Chrom2: chrom2, End2: pos2, Orient: orient}
		return sv, nil
	}
	if sv.Kind == KindOTHER {
		sv.Passthrough = true
		return sv, &Diagnostic{Kind: DiagUnsupportedSVTYPE, InputID: inputID, RowIndex: rowIndex,
			Message: "unsupported SVTYPE: " + svtype}
	}

	end, length, ok := deriveEnd(rec, sv.Kind)
	if !ok {
		sv.Kind = KindOTHER
		sv.Passthrough = true
		return sv, &Diagnostic{Kind: DiagBadEnd, InputID: inputID, RowIndex: rowIndex,
			Message: "inconsistent END/SVLEN"}
	}
	sv.End = end
	sv.Length = length

	if literalAltRE.MatchString(rec.Alt) {
		h := seahash64(strings.ToUpper(rec.Alt))
		sv.AltHash = &h
	}
	return sv, nil
}

func normalizeFilter(f []string) []string {
	if len(f) == 0 {
		return nil
	}
	out := make([]string, 0, len(f))
	for _, v := range f {
		if v == "" || v == "." {
			continue
		}
		out = append(out, v)
	}
	return out
}

func extractGT(rec *vcf.Record) []string {
	gtCol := -1
	for i, f := range rec.Format {
		if f == "GT" {
			gtCol = i
			break
		}
	}
	if gtCol < 0 {
		return make([]string, len(rec.Samples))
	}
	gts := make([]string, len(rec.Samples))
	for i, sample := range rec.Samples {
		fields := strings.Split(sample, ":")
		if gtCol < len(fields) {
			gts[i] = fields[gtCol]
		} else {
			gts[i] = "./."
		}
	}
	return gts
}

// deriveEnd computes (end, length) for a non-BND record per spec §4.1:
// END info wins when present; else start+|SVLEN|-1 for intervallic kinds
// (kind.isIntervallic()); else start for INS. ok is false when END
// precedes the start or disagrees with SVLEN, or when an intervallic kind
// has neither END nor a nonzero SVLEN; a non-intervallic kind with
// neither is accepted with length 1.
func deriveEnd(rec *vcf.Record, kind SvKind) (end, length int, ok bool) {
	if endStr, present := rec.Info.Get("END"); present {
		e, err := strconv.Atoi(endStr)
		if err != nil || e < rec.Pos {
			return 0, 0, false
		}
		length = e - rec.Pos + 1
		if svlenStr, present := rec.Info.Get("SVLEN"); present && kind != KindINS {
			svlen, err := strconv.Atoi(svlenStr)
			if err == nil {
				if absInt(svlen) != length {
					return 0, 0, false
				}
			}
		}
		return e, length, true
	}
	if !kind.isIntervallic() {
		length = 1
		if svlenStr, present := rec.Info.Get("SVLEN"); present {
			svlen, err := strconv.Atoi(svlenStr)
			if err == nil && svlen != 0 {
				length = absInt(svlen)
			}
		}
		return rec.Pos, length, true
	}
	svlenStr, present := rec.Info.Get("SVLEN")
	if !present {
		return 0, 0, false
	}
	svlen, err := strconv.Atoi(svlenStr)
	if err != nil || svlen == 0 {
		return 0, 0, false
	}
	length = absInt(svlen)
	return rec.Pos + length - 1, length, true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
