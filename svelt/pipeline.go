package svelt

import (
	"io"
	"sort"

	"github.com/grailbio/base/traverse"
	"github.com/grailbio/svelt/mergetable"
	"github.com/grailbio/svelt/vcf"
	"github.com/pkg/errors"
)

// Driver runs the full merge pipeline of spec §4.6 over a set of opened
// inputs: normalise, partition, match, synthesise, write, in that order.
type Driver struct {
	Options     Options
	Reference   ReferenceProvider // nil disables rule 3 (BND flip matching) entirely.
	Classifier  Classifier        // nil disables SVELT_ALT_CLASS.
	Parallelism int               // 0 runs partitions sequentially.
}

// outputRow pairs a synthesised record with the merge-table rows that
// fed it, before output_row_id is known.
type outputRow struct {
	rec  *vcf.Record
	rows []MergeTableRow
}

// Merge streams inputs through the pipeline and writes merged output to
// out, plus merge-table rows to mt if non-nil. Diagnostics accumulate
// across the whole run and are returned regardless of whether the run
// otherwise succeeds; a non-nil error is always a *FatalError.
func (d *Driver) Merge(inputs []vcf.Reader, out vcf.Writer, mt *mergetable.Writer) ([]*Diagnostic, error) {
	headers := make([]*vcf.Header, len(inputs))
	for i, r := range inputs {
		h, err := r.Header()
		if err != nil {
			return nil, &FatalError{Kind: FatalIO, Err: errors.Wrapf(err, "reading header of input %d", i)}
		}
		headers[i] = h
	}
	mergedHeader, layout, err := MergeHeaders(headers)
	if err != nil {
		return nil, err
	}

	var diags []*Diagnostic
	var all []*SvRecord
	for inputID, r := range inputs {
		rowIndex := 0
		for {
			rec, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, &FatalError{Kind: FatalIO, Err: errors.Wrapf(err, "reading input %d row %d", inputID, rowIndex)}
			}
			sv, diag := Normalize(rec, inputID, rowIndex)
			if diag != nil {
				diags = append(diags, diag)
			}
			all = append(all, sv)
			rowIndex++
		}
	}

	partitions := partitionRecords(all)
	partitionKeys := make([]string, 0, len(partitions))
	for k := range partitions {
		partitionKeys = append(partitionKeys, k)
	}
	sort.Strings(partitionKeys)

	partitionRows := make([][]outputRow, len(partitionKeys))
	partitionDiags := make([][]*Diagnostic, len(partitionKeys))
	runOne := func(i int) error {
		rows, pdiags := d.mergePartition(partitions[partitionKeys[i]], layout)
		partitionRows[i] = rows
		partitionDiags[i] = pdiags
		return nil
	}
	if d.Parallelism != 0 && len(partitionKeys) > 1 {
		if err := traverse.Each(len(partitionKeys), runOne); err != nil {
			return nil, &FatalError{Kind: FatalInvariant, Err: err}
		}
	} else {
		for i := range partitionKeys {
			if err := runOne(i); err != nil {
				return nil, &FatalError{Kind: FatalInvariant, Err: err}
			}
		}
	}

	var allRows []outputRow
	for i := range partitionKeys {
		allRows = append(allRows, partitionRows[i]...)
		diags = append(diags, partitionDiags[i]...)
	}
	for _, sv := range all {
		if sv.Passthrough {
			rec := SynthesizePassthrough(sv, layout)
			allRows = append(allRows, outputRow{rec: rec, rows: []MergeTableRow{
				{InputID: sv.InputID, InputRow: sv.RowIndex, Criterion: ""},
			}})
		}
	}

	contigOrder := mergedHeader.ContigOrder()
	sort.SliceStable(allRows, func(i, j int) bool {
		ci, cj := contigOrder[allRows[i].rec.Chrom], contigOrder[allRows[j].rec.Chrom]
		if ci != cj {
			return ci < cj
		}
		return allRows[i].rec.Pos < allRows[j].rec.Pos
	})

	if err := out.WriteHeader(mergedHeader); err != nil {
		return diags, &FatalError{Kind: FatalIO, Err: errors.Wrap(err, "writing merged header")}
	}
	for outRowID, row := range allRows {
		if err := out.Write(row.rec); err != nil {
			return diags, &FatalError{Kind: FatalIO, Err: errors.Wrap(err, "writing merged record")}
		}
		if mt != nil {
			for _, r := range row.rows {
				mt.Write(mergetable.Row{
					OutputRowID: outRowID,
					InputID:     r.InputID,
					InputRowID:  r.InputRow,
					Criterion:   r.Criterion,
				})
			}
		}
	}
	return diags, nil
}

// mergePartition runs the Indexer and Matcher over one chromosome (or
// BND chromosome-pair) partition and synthesises its output rows. It
// mutates each record's ID to its position within part, which is safe
// because partitions never share records (spec §5).
func (d *Driver) mergePartition(part []*SvRecord, layout SampleLayout) ([]outputRow, []*Diagnostic) {
	for i, r := range part {
		r.ID = i
	}
	idx := NewIndexer(part)
	groups, diags := Match(part, idx, d.Reference, d.Options)

	rows := make([]outputRow, 0, len(groups))
	for _, g := range groups {
		rec, mtRows, sdiags := Synthesize(g, part, layout, d.Classifier, d.Options)
		diags = append(diags, sdiags...)
		rows = append(rows, outputRow{rec: rec, rows: mtRows})
	}
	return rows, diags
}

// partitionKey groups matchable records the way spec §5 requires:
// non-BND records by chrom alone, BND records by the unordered pair
// {chrom, chrom2} so a flipped mate always lands in its partner's
// partition too.
func partitionKey(r *SvRecord) string {
	if r.Kind != KindBND || r.Bnd == nil {
		return "c:" + r.Chrom
	}
	a, b := r.Chrom, r.Bnd.Chrom2
	if a > b {
		a, b = b, a
	}
	return "b:" + a + "\x00" + b
}

// partitionRecords buckets every non-Passthrough record by partitionKey.
func partitionRecords(all []*SvRecord) map[string][]*SvRecord {
	out := make(map[string][]*SvRecord)
	for _, r := range all {
		if r.Passthrough {
			continue
		}
		k := partitionKey(r)
		out[k] = append(out[k], r)
	}
	return out
}
