package svelt

import (
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/svelt/vcf"
)

// SampleLayout maps each input's sample columns into their position in
// the merged output's sample list (spec §4.6: "concatenation in input
// order of each input's sample list").
type SampleLayout struct {
	InputSamples [][]string // InputSamples[inputID] = that input's sample names, in column order.
}

// Samples returns the concatenated output sample list.
func (l SampleLayout) Samples() []string {
	var out []string
	for _, s := range l.InputSamples {
		out = append(out, s...)
	}
	return out
}

func (l SampleLayout) offset(inputID int) int {
	off := 0
	for i := 0; i < inputID; i++ {
		off += len(l.InputSamples[i])
	}
	return off
}

// MergeTableRow is one line of the optional merge-table TSV (spec §6).
type MergeTableRow struct {
	InputID    int
	InputRow   int
	Criterion  string
}

// Synthesize builds one output vcf.Record from a component (spec §4.5),
// plus the merge-table rows describing which input records fed it.
func Synthesize(group *MergeGroup, records []*SvRecord, layout SampleLayout, classifier Classifier, opts Options) (*vcf.Record, []MergeTableRow, []*Diagnostic) {
	members := make([]*SvRecord, len(group.Members))
	for i, id := range group.Members {
		members[i] = records[id]
	}
	rep := representative(members)

	out := &vcf.Record{
		Chrom: rep.Chrom,
		Pos:   rep.Start,
		ID:    rep.RecID,
		Ref:   rep.Ref,
		Alt:   rep.Alt,
	}
	out.Qual = maxQual(members)
	out.Filter = unionFilter(members)
	out.Info = rep.RawInfo.Clone()
	for _, key := range opts.DropInfo {
		out.Info.Delete(key)
	}
	if rep.Kind != KindBND {
		out.Info.Set("END", strconv.Itoa(rep.End))
	}

	literalAlts := collectLiteralAlts(members)
	var diags []*Diagnostic
	if len(literalAlts) > 0 {
		if opts.ForceAltTags {
			out.Alt = symbolicAlt(rep.Kind)
		} else if !literalAltRE.MatchString(out.Alt) {
			out.Alt = literalAlts[0]
		}
		out.Info.Set("SVELT_ALT_SEQ", strings.Join(stripAnchors(literalAlts), ","))
	}

	if classifier != nil && (rep.Kind == KindINS || rep.Kind == KindDUP) && len(literalAlts) > 0 {
		if label, ok := classifier.Classify(stripAnchor(literalAlts[0])); ok {
			out.Info.Set("SVELT_ALT_CLASS", label)
		}
	}

	if len(group.Criteria) > 0 {
		out.Info.Set("SVELT_CRITERIA", criteriaLabel(group.Criteria))
	}

	out.Format = []string{"GT"}
	out.Samples = make([]string, len(layout.Samples()))
	for i := range out.Samples {
		out.Samples[i] = "./."
	}

	var rows []MergeTableRow
	byInput := make(map[int]*SvRecord)
	for _, m := range members {
		cur, ok := byInput[m.InputID]
		if !ok || m.RowIndex < cur.RowIndex {
			byInput[m.InputID] = m
		}
	}
	for _, m := range members {
		if byInput[m.InputID] != m {
			diags = append(diags, &Diagnostic{Kind: DiagParseError, InputID: m.InputID, RowIndex: m.RowIndex,
				Message: "second record from this input in the same component; genotype discarded"})
			continue
		}
		off := layout.offset(m.InputID)
		for i, gt := range m.Genotypes {
			if off+i < len(out.Samples) {
				out.Samples[off+i] = gt
			}
		}
	}
	criterion := criteriaLabel(group.Criteria)
	for _, m := range members {
		rows = append(rows, MergeTableRow{InputID: m.InputID, InputRow: m.RowIndex, Criterion: criterion})
	}

	return out, rows, diags
}

// SynthesizePassthrough converts a single Passthrough record (spec §7
// kinds 1-3) directly into an output row: original fields preserved
// verbatim, no SVELT_* INFO added, genotype placed in its own input's
// sample columns and "./." elsewhere. Unlike Synthesize, it never
// touches INFO/END, since a passthrough record's End is meaningless.
func SynthesizePassthrough(r *SvRecord, layout SampleLayout) *vcf.Record {
	out := &vcf.Record{
		Chrom:  r.Chrom,
		Pos:    r.Start,
		ID:     r.RecID,
		Ref:    r.Ref,
		Alt:    r.Alt,
		Qual:   r.Qual,
		Filter: r.Filter,
		Info:   r.RawInfo.Clone(),
		Format: []string{"GT"},
	}
	out.Samples = make([]string, len(layout.Samples()))
	for i := range out.Samples {
		out.Samples[i] = "./."
	}
	off := layout.offset(r.InputID)
	for i, gt := range r.Genotypes {
		if off+i < len(out.Samples) {
			out.Samples[off+i] = gt
		}
	}
	return out
}

func representative(members []*SvRecord) *SvRecord {
	rep := members[0]
	for _, m := range members[1:] {
		if m.InputID < rep.InputID || (m.InputID == rep.InputID && m.RowIndex < rep.RowIndex) {
			rep = m
		}
	}
	return rep
}

func maxQual(members []*SvRecord) *float64 {
	var best *float64
	for _, m := range members {
		if m.Qual == nil {
			continue
		}
		if best == nil || *m.Qual > *best {
			v := *m.Qual
			best = &v
		}
	}
	return best
}

func unionFilter(members []*SvRecord) []string {
	set := make(map[string]bool)
	for _, m := range members {
		for _, f := range m.Filter {
			set[f] = true
		}
	}
	if len(set) == 0 || (len(set) == 1 && set["PASS"]) {
		return []string{"PASS"}
	}
	delete(set, "PASS")
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func collectLiteralAlts(members []*SvRecord) []string {
	sort.Slice(members, func(i, j int) bool {
		if members[i].InputID != members[j].InputID {
			return members[i].InputID < members[j].InputID
		}
		return members[i].RowIndex < members[j].RowIndex
	})
	seen := make(map[string]bool)
	var out []string
	for _, m := range members {
		if literalAltRE.MatchString(m.Alt) && !seen[m.Alt] {
			seen[m.Alt] = true
			out = append(out, m.Alt)
		}
	}
	return out
}

func stripAnchor(alt string) string {
	if len(alt) > 1 {
		return alt[1:]
	}
	return alt
}

func stripAnchors(alts []string) []string {
	out := make([]string, len(alts))
	for i, a := range alts {
		out[i] = stripAnchor(a)
	}
	return out
}

func symbolicAlt(kind SvKind) string {
	return "<" + kind.String() + ">"
}

func criteriaLabel(criteria map[Criterion]bool) string {
	order := []Criterion{CriterionExact, CriterionNear, CriterionFlipped}
	var out []string
	for _, c := range order {
		if criteria[c] {
			out = append(out, c.String())
		}
	}
	return strings.Join(out, ",")
}
