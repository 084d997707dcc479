package vcfio

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/grailbio/svelt/vcf"
	"github.com/pkg/errors"
)

// parseRecord decodes one tab-separated VCF data line. Column layout
// follows the standard fixed VCF columns; FORMAT and sample columns are
// optional (a header with zero samples has no FORMAT column either).
func parseRecord(line string) (*vcf.Record, error) {
	cols := splitTab(line)
	if len(cols) < 8 {
		return nil, errors.Errorf("VCF data line has %d columns, want at least 8: %q", len(cols), line)
	}
	rec := &vcf.Record{
		Chrom: cols[0],
		ID:    cols[2],
		Ref:   cols[3],
		Alt:   cols[4],
	}
	pos, err := strconv.Atoi(cols[1])
	if err != nil {
		return nil, errors.Wrapf(err, "parsing POS in %q", line)
	}
	rec.Pos = pos
	if cols[5] != "." {
		q, err := strconv.ParseFloat(cols[5], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing QUAL in %q", line)
		}
		rec.Qual = &q
	}
	if cols[6] != "." && cols[6] != "" {
		rec.Filter = strings.Split(cols[6], ";")
	}
	rec.Info = parseInfo(cols[7])
	if len(cols) > 8 {
		rec.Format = strings.Split(cols[8], ":")
		rec.Samples = append(rec.Samples, cols[9:]...)
	}
	return rec, nil
}

func parseInfo(s string) vcf.Info {
	info := vcf.NewInfo(nil, nil)
	if s == "." || s == "" {
		return info
	}
	for _, entry := range strings.Split(s, ";") {
		if entry == "" {
			continue
		}
		if eq := strings.IndexByte(entry, '='); eq >= 0 {
			info.Set(entry[:eq], entry[eq+1:])
		} else {
			info.Set(entry, "")
		}
	}
	return info
}

func formatInfo(info vcf.Info) string {
	keys := info.Keys()
	if len(keys) == 0 {
		return "."
	}
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(';')
		}
		v, _ := info.Get(k)
		if v == "" {
			sb.WriteString(k)
		} else {
			sb.WriteString(k)
			sb.WriteByte('=')
			sb.WriteString(v)
		}
	}
	return sb.String()
}

// writeRecord serialises rec as one tab-separated VCF data line.
func writeRecord(w *bufio.Writer, rec *vcf.Record) error {
	if _, err := fmt.Fprintf(w, "%s\t%d\t", rec.Chrom, rec.Pos); err != nil {
		return err
	}
	if rec.ID == "" {
		if _, err := w.WriteString(".\t"); err != nil {
			return err
		}
	} else if _, err := fmt.Fprintf(w, "%s\t", rec.ID); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\t%s\t", rec.Ref, rec.Alt); err != nil {
		return err
	}
	if rec.Qual == nil {
		if _, err := w.WriteString(".\t"); err != nil {
			return err
		}
	} else if _, err := fmt.Fprintf(w, "%s\t", strconv.FormatFloat(*rec.Qual, 'f', -1, 64)); err != nil {
		return err
	}
	if len(rec.Filter) == 0 {
		if _, err := w.WriteString(".\t"); err != nil {
			return err
		}
	} else if _, err := fmt.Fprintf(w, "%s\t", strings.Join(rec.Filter, ";")); err != nil {
		return err
	}
	if _, err := w.WriteString(formatInfo(rec.Info)); err != nil {
		return err
	}
	if len(rec.Format) > 0 {
		if _, err := fmt.Fprintf(w, "\t%s", strings.Join(rec.Format, ":")); err != nil {
			return err
		}
		for _, s := range rec.Samples {
			if _, err := fmt.Fprintf(w, "\t%s", s); err != nil {
				return err
			}
		}
	}
	return w.WriteByte('\n')
}
