// Package mergetable writes the optional --write-merge-table TSV (spec
// §6): one line per input record naming the output row and merge
// criterion it contributed to. This is the "merge-table TSV writing"
// external collaborator named in spec.md §1 — the svelt core only
// returns the rows; this package is the one place they get serialised.
package mergetable

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Row is one output line: which output row an input record ended up in,
// and by which criterion.
type Row struct {
	OutputRowID int
	InputID     int
	InputRowID  int
	Criterion   string
}

// Writer serialises Rows as a tab-separated table with a header line,
// mirroring the teacher's hand-rolled tabular writers
// (cmd/bio-pamtool/checksum.go) rather than pulling in a CSV dependency:
// the format has no quoting or escaping needs.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter wraps w and writes the column header immediately.
func NewWriter(w io.Writer) (*Writer, error) {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, "output_row_id\tinput_id\tinput_row_id\tcriterion"); err != nil {
		return nil, errors.Wrap(err, "writing merge table header")
	}
	if err := bw.Flush(); err != nil {
		return nil, errors.Wrap(err, "writing merge table header")
	}
	return &Writer{w: bw}, nil
}

// Write appends one row. Errors are sticky: once Write fails, subsequent
// calls are no-ops until Close reports the first error.
func (w *Writer) Write(r Row) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, "%d\t%d\t%d\t%s\n", r.OutputRowID, r.InputID, r.InputRowID, r.Criterion)
}

// Close flushes buffered output and returns the first error encountered.
func (w *Writer) Close() error {
	if w.err != nil {
		return errors.Wrap(w.err, "writing merge table row")
	}
	return errors.Wrap(w.w.Flush(), "flushing merge table")
}
