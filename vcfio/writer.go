package vcfio

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/biogo/hts/bgzf"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/svelt/vcf"
	"github.com/pkg/errors"
)

const bgzfWriteWorkers = 1

// writer is a vcf.Writer over a plain or BGZF VCF stream.
type writer struct {
	f       file.File
	inner   io.Writer // the bgzf.Writer, if any; nil for plain text.
	bw      *bufio.Writer
	written bool
}

// Create opens path for writing. A ".bgz" or ".gz" suffix selects a
// BGZF-wrapped output, so the result stays tabix-indexable, matching the
// symmetric plain-or-compressed contract Open applies to inputs. The
// caller must still call WriteHeader before the first Write, per the
// vcf.Writer contract.
func Create(path string) (vcf.Writer, error) {
	ctx := vcontext.Background()
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", path)
	}
	w := &writer{f: f}
	dst := f.Writer(ctx)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".bgz":
		bz := bgzf.NewWriter(dst, bgzfWriteWorkers)
		w.inner = bz
		w.bw = bufio.NewWriter(bz)
	default:
		w.bw = bufio.NewWriter(dst)
	}
	return w, nil
}

func (w *writer) WriteHeader(h *vcf.Header) error {
	if w.written {
		return errors.New("WriteHeader called more than once")
	}
	w.written = true
	return writeHeader(w.bw, h)
}

func (w *writer) Write(rec *vcf.Record) error {
	return writeRecord(w.bw, rec)
}

func (w *writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		return errors.Wrap(err, "flushing VCF output")
	}
	if closer, ok := w.inner.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return errors.Wrap(err, "closing compressed VCF output")
		}
	}
	if w.f == nil {
		return nil
	}
	return w.f.Close(vcontext.Background())
}

// NewStdoutWriter wraps os.Stdout as a vcf.Writer, for callers that treat
// an empty --out flag as "write to standard output" the way most
// Unix filters do.
func NewStdoutWriter() vcf.Writer {
	return &writer{bw: bufio.NewWriter(os.Stdout)}
}
