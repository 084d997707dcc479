// Package vcfio supplies the concrete vcf.Reader/vcf.Writer pair the
// svelt core is written against but never imports directly, plain-text
// or compressed. Plain gzip inputs are decoded with the teacher's
// klauspost/compress/gzip dependency; BGZF inputs (block-gzipped, as
// produced by bgzip/tabix) are decoded with biogo/hts/bgzf the same way
// the teacher's encoding/bam package does for .bam files.
package vcfio

import (
	"bufio"
	"io"

	"github.com/biogo/hts/bgzf"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/svelt/vcf"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

const bgzfWorkers = 1

// reader is a vcf.Reader over a plain, gzip, or bgzf VCF stream.
type reader struct {
	f      file.File
	closer io.Closer // the innermost decompressor, if any; nil for plain text.
	br     *bufio.Reader
	header *vcf.Header
}

// Open opens path for reading, sniffing its compression from the first
// two bytes rather than the file extension (bgzip output commonly keeps
// a plain ".vcf" name under tabix conventions).
func Open(path string) (vcf.Reader, error) {
	ctx := vcontext.Background()
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	src := bufio.NewReader(f.Reader(ctx))
	magic, err := src.Peek(2)
	isGzipMagic := err == nil && len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b

	r := &reader{f: f}
	var body *bufio.Reader
	switch {
	case isGzipMagic:
		if bz, err := bgzf.NewReader(src, bgzfWorkers); err == nil {
			r.closer = bz
			body = bufio.NewReader(bz)
		} else {
			gz, err := gzip.NewReader(src)
			if err != nil {
				f.Close(ctx)
				return nil, errors.Wrapf(err, "opening %s as gzip", path)
			}
			r.closer = gz
			body = bufio.NewReader(gz)
		}
	default:
		body = src
	}
	r.br = body

	header, err := parseHeader(r.br)
	if err != nil {
		r.Close()
		return nil, errors.Wrapf(err, "parsing header of %s", path)
	}
	r.header = header
	return r, nil
}

func (r *reader) Header() (*vcf.Header, error) {
	return r.header, nil
}

func (r *reader) Read() (*vcf.Record, error) {
	line, err := r.br.ReadString('\n')
	if err != nil && line == "" {
		return nil, err // propagates io.EOF unchanged.
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	if line == "" {
		return r.Read()
	}
	return parseRecord(line)
}

func (r *reader) Close() error {
	ctx := vcontext.Background()
	if r.closer != nil {
		r.closer.Close()
	}
	return r.f.Close(ctx)
}
