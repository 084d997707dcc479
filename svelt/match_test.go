package svelt_test

import (
	"testing"

	"github.com/grailbio/svelt/svelt"
	"github.com/grailbio/svelt/vcf"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func mustNormalize(t *testing.T, rec *vcf.Record, inputID, rowIndex int) *svelt.SvRecord {
	sv, diag := svelt.Normalize(rec, inputID, rowIndex)
	expect.Nil(t, diag)
	return sv
}

func matchAll(t *testing.T, records []*svelt.SvRecord, ref svelt.ReferenceProvider, opts svelt.Options) []*svelt.MergeGroup {
	for i, r := range records {
		r.ID = i
	}
	idx := svelt.NewIndexer(records)
	groups, _ := svelt.Match(records, idx, ref, opts)
	return groups
}

// Boundary scenario 1: near match on DEL, ratio 0.9944 clears R_len=0.9.
func TestBoundaryNearMatchDEL(t *testing.T) {
	a := mustNormalize(t, delRecord("chr1", 100, 1000), 0, 0)
	b := mustNormalize(t, delRecord("chr1", 110, 1005), 1, 0)
	groups := matchAll(t, []*svelt.SvRecord{a, b}, nil, svelt.DefaultOptions())
	assert.EQ(t, len(groups), 1)
	expect.EQ(t, len(groups[0].Members), 2)
	expect.True(t, groups[0].Criteria[svelt.CriterionNear])
}

// Boundary scenario 2: same shape but length ratio drops below R_len.
func TestBoundaryNoMergeLengthRatio(t *testing.T) {
	a := mustNormalize(t, delRecord("chr1", 100, 1000), 0, 0)
	b := mustNormalize(t, delRecord("chr1", 110, 2000), 1, 0)
	groups := matchAll(t, []*svelt.SvRecord{a, b}, nil, svelt.DefaultOptions())
	assert.EQ(t, len(groups), 2)
}

func bndRecord(chrom string, pos int, mateChrom string, matePos int) *vcf.Record {
	info := vcf.NewInfo(nil, nil)
	info.Set("SVTYPE", "BND")
	return &vcf.Record{Chrom: chrom, Pos: pos, Ref: "N", Alt: "N]" + mateChrom + ":" + itoa(matePos) + "]", Info: info}
}

// Boundary scenario 3: BND near match, both deltas within window.
func TestBoundaryBNDNearMatch(t *testing.T) {
	a := mustNormalize(t, bndRecord("chr1", 500, "chr2", 800), 0, 0)
	b := mustNormalize(t, bndRecord("chr1", 503, "chr2", 950), 1, 0)
	groups := matchAll(t, []*svelt.SvRecord{a, b}, nil, svelt.DefaultOptions())
	assert.EQ(t, len(groups), 1)
	expect.True(t, groups[0].Criteria[svelt.CriterionNear])
}

// fakeReference reports two windows as identical, letting a flipped BND
// pair pass rule 3's identity check regardless of the literal sequence.
type fakeReference struct{}

func (fakeReference) Fetch(contig string, start, end int) (string, error) {
	n := end - start
	if n < 0 {
		n = 0
	}
	seq := make([]byte, n)
	for i := range seq {
		seq[i] = 'A'
	}
	return string(seq), nil
}

// Boundary scenario 4: BND flip, no merge without a reference, merge with one.
func TestBoundaryBNDFlip(t *testing.T) {
	a := mustNormalize(t, bndRecord("chr1", 500, "chr2", 800), 0, 0)
	b := mustNormalize(t, bndRecord("chr2", 802, "chr1", 502), 1, 0)

	groups := matchAll(t, []*svelt.SvRecord{a, b}, nil, svelt.DefaultOptions())
	assert.EQ(t, len(groups), 2)

	a2 := mustNormalize(t, bndRecord("chr1", 500, "chr2", 800), 0, 0)
	b2 := mustNormalize(t, bndRecord("chr2", 802, "chr1", 502), 1, 0)
	groups = matchAll(t, []*svelt.SvRecord{a2, b2}, fakeReference{}, svelt.DefaultOptions())
	assert.EQ(t, len(groups), 1)
	expect.True(t, groups[0].Criteria[svelt.CriterionFlipped])
}

func insRecord(chrom string, pos int, alt string) *vcf.Record {
	info := vcf.NewInfo(nil, nil)
	info.Set("SVTYPE", "INS")
	return &vcf.Record{Chrom: chrom, Pos: pos, Ref: "A", Alt: alt, Info: info}
}

// Boundary scenario 5: same literal ALT, small start delta, ratio 1.0.
func TestBoundaryInsertionAltHashMatch(t *testing.T) {
	a := mustNormalize(t, insRecord("chr3", 1000, "AGGGGTTT"), 0, 0)
	b := mustNormalize(t, insRecord("chr3", 1001, "AGGGGTTT"), 1, 0)
	groups := matchAll(t, []*svelt.SvRecord{a, b}, nil, svelt.DefaultOptions())
	assert.EQ(t, len(groups), 1)
}

// Boundary scenario 6: A-B and B-C near, A-C alone would fail the window,
// but transitivity through union-find still joins all three.
func TestBoundaryTransitiveChain(t *testing.T) {
	a := mustNormalize(t, delRecord("chr1", 100, 1000), 0, 0)
	b := mustNormalize(t, delRecord("chr1", 120, 1020), 1, 0)
	c := mustNormalize(t, delRecord("chr1", 140, 1040), 2, 0)
	groups := matchAll(t, []*svelt.SvRecord{a, b, c}, nil, svelt.DefaultOptions())
	assert.EQ(t, len(groups), 1)
	expect.EQ(t, len(groups[0].Members), 3)
}

// Exact ⇒ Near invariant (spec §8): two identical DEL records with the
// same literal ALT satisfy both rule 1 and rule 2, and are reported with
// the exact criterion.
func TestExactImpliesNear(t *testing.T) {
	ra, rb := delRecord("chr1", 100, 1000), delRecord("chr1", 100, 1000)
	ra.Alt, rb.Alt = "A", "A"
	a := mustNormalize(t, ra, 0, 0)
	b := mustNormalize(t, rb, 1, 0)
	groups := matchAll(t, []*svelt.SvRecord{a, b}, nil, svelt.DefaultOptions())
	assert.EQ(t, len(groups), 1)
	expect.True(t, groups[0].Criteria[svelt.CriterionExact])
}

// Window tightness (spec §8): a pair outside W_pos on start never merges
// under rule 2 even with a perfect length ratio.
func TestWindowTightness(t *testing.T) {
	a := mustNormalize(t, delRecord("chr1", 100, 1000), 0, 0)
	b := mustNormalize(t, delRecord("chr1", 200, 1100), 1, 0)
	groups := matchAll(t, []*svelt.SvRecord{a, b}, nil, svelt.DefaultOptions())
	assert.EQ(t, len(groups), 2)
}
