package mergetable_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grailbio/svelt/mergetable"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/pkg/errors"
)

func TestWriterEmitsHeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	w, err := mergetable.NewWriter(&buf)
	assert.NoError(t, err)
	w.Write(mergetable.Row{OutputRowID: 0, InputID: 0, InputRowID: 3, Criterion: "near"})
	w.Write(mergetable.Row{OutputRowID: 0, InputID: 1, InputRowID: 7, Criterion: "near"})
	assert.NoError(t, w.Close())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.EQ(t, len(lines), 3)
	expect.EQ(t, lines[0], "output_row_id\tinput_id\tinput_row_id\tcriterion")
	expect.EQ(t, lines[1], "0\t0\t3\tnear")
	expect.EQ(t, lines[2], "0\t1\t7\tnear")
}

// failingWriter errors on the first byte written, so NewWriter's header
// write fails before any row is written.
type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestNewWriterSurfacesHeaderWriteError(t *testing.T) {
	_, err := mergetable.NewWriter(failingWriter{})
	assert.NotNil(t, err)
}
