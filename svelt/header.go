package svelt

import (
	"github.com/grailbio/svelt/vcf"
	"github.com/pkg/errors"
)

// svelInfoDefs are the three INFO declarations the Row Synthesiser adds
// (spec §6), always present on merged output regardless of input.
var svelInfoDefs = []vcf.FieldDef{
	{ID: "SVELT_CRITERIA", Number: "1", Type: "String", Description: "Merge criteria that joined this component (exact,near,flipped)"},
	{ID: "SVELT_ALT_SEQ", Number: ".", Type: "String", Description: "Literal ALT sequences from contributing records, anchor base stripped"},
	{ID: "SVELT_ALT_CLASS", Number: "1", Type: "String", Description: "Classifier label for the insertion/duplication sequence"},
}

// MergeHeaders builds the union header of spec §4.6: contigs in order of
// first appearance, union of FILTER/INFO definitions plus the SVELT_*
// additions, and the concatenated sample list. A sample name repeated
// across inputs is a fatal error (spec §7 kind 5); a header missing the
// SVTYPE INFO declaration required to normalise its records is a fatal
// error (spec §6).
func MergeHeaders(headers []*vcf.Header) (*vcf.Header, SampleLayout, error) {
	out := &vcf.Header{
		Infos:   make(map[string]vcf.FieldDef),
		Formats: make(map[string]vcf.FieldDef),
		Filters: make(map[string]vcf.FilterDef),
	}
	contigSeen := make(map[string]bool)
	sampleSeen := make(map[string]int) // sample name -> owning input ID.
	layout := SampleLayout{InputSamples: make([][]string, len(headers))}

	for i, h := range headers {
		if _, ok := h.Infos["SVTYPE"]; !ok {
			return nil, layout, &FatalError{Kind: FatalMalformedInput,
				Err: errors.Errorf("input %d: header declares no SVTYPE INFO field", i)}
		}
		for _, c := range h.Contigs {
			if !contigSeen[c.ID] {
				contigSeen[c.ID] = true
				out.Contigs = append(out.Contigs, c)
				continue
			}
			for j, existing := range out.Contigs {
				if existing.ID != c.ID {
					continue
				}
				if existing.Length != 0 && c.Length != 0 && existing.Length != c.Length {
					return nil, layout, &FatalError{Kind: FatalInvariant,
						Err: errors.Errorf("contig %s: length %d in input %d conflicts with %d already seen",
							c.ID, c.Length, i, existing.Length)}
				}
				if existing.Length == 0 && c.Length != 0 {
					out.Contigs[j].Length = c.Length
				}
			}
		}
		for id, def := range h.Infos {
			out.Infos[id] = def
		}
		for id, def := range h.Formats {
			out.Formats[id] = def
		}
		for id, def := range h.Filters {
			out.Filters[id] = def
		}
		out.Other = append(out.Other, h.Other...)

		layout.InputSamples[i] = h.Samples
		for _, s := range h.Samples {
			if owner, ok := sampleSeen[s]; ok {
				return nil, layout, &FatalError{Kind: FatalSampleCollision,
					Err: errors.Errorf("sample %q declared by both input %d and input %d", s, owner, i)}
			}
			sampleSeen[s] = i
		}
	}
	for _, def := range svelInfoDefs {
		out.Infos[def.ID] = def
	}
	if _, ok := out.Formats["GT"]; !ok {
		out.Formats["GT"] = vcf.FieldDef{ID: "GT", Number: "1", Type: "String", Description: "Genotype"}
	}
	out.Samples = layout.Samples()
	out.Other = append(out.Other, "##svelt_idPolicy=representative")
	return out, layout, nil
}
