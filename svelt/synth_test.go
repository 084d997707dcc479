package svelt_test

import (
	"testing"

	"github.com/grailbio/svelt/svelt"
	"github.com/grailbio/svelt/vcf"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func layoutOf(counts ...int) svelt.SampleLayout {
	l := svelt.SampleLayout{}
	for i, n := range counts {
		samples := make([]string, n)
		for j := range samples {
			samples[j] = "s" + itoa(i) + "_" + itoa(j)
		}
		l.InputSamples = append(l.InputSamples, samples)
	}
	return l
}

func TestSynthesizeRepresentativeAndCriteria(t *testing.T) {
	a := mustNormalize(t, delRecord("chr1", 100, 1000), 0, 0)
	b := mustNormalize(t, delRecord("chr1", 110, 1005), 1, 0)
	records := []*svelt.SvRecord{a, b}
	for i, r := range records {
		r.ID = i
	}
	idx := svelt.NewIndexer(records)
	groups, _ := svelt.Match(records, idx, nil, svelt.DefaultOptions())
	assert.EQ(t, len(groups), 1)

	layout := layoutOf(1, 1)
	rec, rows, diags := svelt.Synthesize(groups[0], records, layout, nil, svelt.DefaultOptions())
	expect.EQ(t, len(diags), 0)
	expect.EQ(t, rec.Chrom, "chr1")
	expect.EQ(t, rec.Pos, 100)
	end, ok := rec.Info.Get("END")
	expect.True(t, ok)
	expect.EQ(t, end, "1000")
	criteria, ok := rec.Info.Get("SVELT_CRITERIA")
	expect.True(t, ok)
	expect.EQ(t, criteria, "near")
	expect.EQ(t, len(rows), 2)
}

func TestSynthesizeQualIsMaxNonNull(t *testing.T) {
	a := mustNormalize(t, delRecord("chr1", 100, 1000), 0, 0)
	q1, q2 := 10.0, 40.0
	a.Qual = &q1
	b := mustNormalize(t, delRecord("chr1", 110, 1005), 1, 0)
	b.Qual = &q2
	group := &svelt.MergeGroup{Members: []int{0, 1}, Criteria: map[svelt.Criterion]bool{svelt.CriterionNear: true}}
	a.ID, b.ID = 0, 1
	rec, _, _ := svelt.Synthesize(group, []*svelt.SvRecord{a, b}, layoutOf(1, 1), nil, svelt.DefaultOptions())
	assert.NotNil(t, rec.Qual)
	expect.EQ(t, *rec.Qual, 40.0)
}

func TestSynthesizeForceAltTags(t *testing.T) {
	info := vcf.NewInfo(nil, nil)
	info.Set("SVTYPE", "INS")
	rec := &vcf.Record{Chrom: "chr3", Pos: 1000, Ref: "A", Alt: "AGGGGTTT", Info: info}
	a := mustNormalize(t, rec, 0, 0)
	a.ID = 0
	group := &svelt.MergeGroup{Members: []int{0}, Criteria: map[svelt.Criterion]bool{}}

	opts := svelt.DefaultOptions()
	opts.ForceAltTags = true
	out, _, _ := svelt.Synthesize(group, []*svelt.SvRecord{a}, layoutOf(1), nil, opts)
	expect.EQ(t, out.Alt, "<INS>")
	seqs, ok := out.Info.Get("SVELT_ALT_SEQ")
	expect.True(t, ok)
	expect.EQ(t, seqs, "GGGGTTT")
}

func TestSynthesizeDropInfo(t *testing.T) {
	a := mustNormalize(t, delRecord("chr1", 100, 1000), 0, 0)
	a.RawInfo.Set("CALLER_CONF", "0.5")
	a.ID = 0
	group := &svelt.MergeGroup{Members: []int{0}, Criteria: map[svelt.Criterion]bool{}}

	opts := svelt.DefaultOptions()
	opts.DropInfo = []string{"CALLER_CONF"}
	out, _, _ := svelt.Synthesize(group, []*svelt.SvRecord{a}, layoutOf(1), nil, opts)
	_, ok := out.Info.Get("CALLER_CONF")
	expect.False(t, ok)
}

// stubClassifier always reports "ALU" for any non-empty query.
type stubClassifier struct{}

func (stubClassifier) Classify(seq string) (string, bool) {
	if seq == "" {
		return "", false
	}
	return "ALU", true
}

func TestSynthesizeClassifiesInsertion(t *testing.T) {
	info := vcf.NewInfo(nil, nil)
	info.Set("SVTYPE", "INS")
	rec := &vcf.Record{Chrom: "chr3", Pos: 1000, Ref: "A", Alt: "AGGGGTTT", Info: info}
	a := mustNormalize(t, rec, 0, 0)
	a.ID = 0
	group := &svelt.MergeGroup{Members: []int{0}, Criteria: map[svelt.Criterion]bool{}}

	out, _, _ := svelt.Synthesize(group, []*svelt.SvRecord{a}, layoutOf(1), stubClassifier{}, svelt.DefaultOptions())
	label, ok := out.Info.Get("SVELT_ALT_CLASS")
	expect.True(t, ok)
	expect.EQ(t, label, "ALU")
}

func TestSynthesizePassthroughPreservesOriginalFields(t *testing.T) {
	rec := &vcf.Record{Chrom: "chr1", Pos: 42, ID: "weird", Ref: "A", Alt: "<XYZ>", Info: vcf.NewInfo(nil, nil)}
	sv, diag := svelt.Normalize(rec, 1, 3)
	assert.NotNil(t, diag)
	expect.True(t, sv.Passthrough)

	out := svelt.SynthesizePassthrough(sv, layoutOf(2, 1))
	expect.EQ(t, out.Chrom, "chr1")
	expect.EQ(t, out.Pos, 42)
	expect.EQ(t, out.ID, "weird")
	expect.EQ(t, out.Alt, "<XYZ>")
	_, hasEnd := out.Info.Get("END")
	expect.False(t, hasEnd)
}
