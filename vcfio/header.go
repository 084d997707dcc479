package vcfio

import (
	"bufio"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/svelt/vcf"
	"github.com/pkg/errors"
)

const chromColumnPrefix = "#CHROM"

// parseHeader reads the ##meta-information lines and the #CHROM column
// header from r, dispatching on the meta-information key the way
// ExaScience/elprep's ParseHeader dispatches on "fileformat"/"INFO"/
// "FORMAT", but folding contig/FILTER handling into the same switch
// since svelt's Header models them too.
func parseHeader(r *bufio.Reader) (*vcf.Header, error) {
	h := &vcf.Header{
		Infos:   make(map[string]vcf.FieldDef),
		Formats: make(map[string]vcf.FieldDef),
		Filters: make(map[string]vcf.FilterDef),
	}
	for {
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return nil, errors.Wrap(err, "reading VCF header")
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.HasPrefix(line, chromColumnPrefix) {
			cols := splitTab(line)
			if len(cols) > 9 {
				h.Samples = append(h.Samples, cols[9:]...)
			}
			return h, nil
		}
		if !strings.HasPrefix(line, "##") {
			return nil, errors.Errorf("malformed VCF header line: %q", line)
		}
		body := line[2:]
		eq := strings.IndexByte(body, '=')
		if eq < 0 {
			h.Other = append(h.Other, line)
			continue
		}
		key, rest := body[:eq], body[eq+1:]
		switch key {
		case "contig":
			if err := parseContigLine(h, rest); err != nil {
				return nil, errors.Wrap(err, "parsing ##contig")
			}
		case "INFO":
			def, err := parseFieldDefLine(rest)
			if err != nil {
				return nil, errors.Wrap(err, "parsing ##INFO")
			}
			h.Infos[def.ID] = def
		case "FORMAT":
			def, err := parseFieldDefLine(rest)
			if err != nil {
				return nil, errors.Wrap(err, "parsing ##FORMAT")
			}
			h.Formats[def.ID] = def
		case "FILTER":
			fields, err := parseAngleBody(rest)
			if err != nil {
				return nil, errors.Wrap(err, "parsing ##FILTER")
			}
			h.Filters[fields["ID"]] = vcf.FilterDef{ID: fields["ID"], Description: fields["Description"]}
		default:
			h.Other = append(h.Other, line)
		}
	}
}

func parseContigLine(h *vcf.Header, rest string) error {
	fields, err := parseAngleBody(rest)
	if err != nil {
		return err
	}
	c := vcf.ContigDef{ID: fields["ID"]}
	if l, ok := fields["length"]; ok {
		if n, err := strconv.ParseInt(l, 10, 64); err == nil {
			c.Length = n
		}
	}
	h.Contigs = append(h.Contigs, c)
	return nil
}

func parseFieldDefLine(rest string) (vcf.FieldDef, error) {
	fields, err := parseAngleBody(rest)
	if err != nil {
		return vcf.FieldDef{}, err
	}
	return vcf.FieldDef{
		ID:          fields["ID"],
		Number:      fields["Number"],
		Type:        fields["Type"],
		Description: fields["Description"],
	}, nil
}

// writeHeader serialises h in declaration order for contigs (order of
// first appearance is significant to spec §8's round-trip property) and
// in ID order for INFO/FORMAT/FILTER, whose relative order carries no
// documented meaning.
func writeHeader(w *bufio.Writer, h *vcf.Header) error {
	if _, err := w.WriteString("##fileformat=VCFv4.2\n"); err != nil {
		return err
	}
	for _, line := range h.Other {
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return err
		}
	}
	for _, c := range h.Contigs {
		var err error
		if c.Length > 0 {
			_, err = fmt.Fprintf(w, "##contig=<ID=%s,length=%d>\n", c.ID, c.Length)
		} else {
			_, err = fmt.Fprintf(w, "##contig=<ID=%s>\n", c.ID)
		}
		if err != nil {
			return err
		}
	}
	for _, id := range sortedFieldDefKeys(h.Infos) {
		d := h.Infos[id]
		if _, err := fmt.Fprintf(w, "##INFO=<ID=%s,Number=%s,Type=%s,Description=\"%s\">\n",
			d.ID, d.Number, d.Type, d.Description); err != nil {
			return err
		}
	}
	for _, id := range sortedFieldDefKeys(h.Formats) {
		d := h.Formats[id]
		if _, err := fmt.Fprintf(w, "##FORMAT=<ID=%s,Number=%s,Type=%s,Description=\"%s\">\n",
			d.ID, d.Number, d.Type, d.Description); err != nil {
			return err
		}
	}
	filterIDs := make([]string, 0, len(h.Filters))
	for id := range h.Filters {
		filterIDs = append(filterIDs, id)
	}
	sort.Strings(filterIDs)
	for _, id := range filterIDs {
		f := h.Filters[id]
		if _, err := fmt.Fprintf(w, "##FILTER=<ID=%s,Description=\"%s\">\n", f.ID, f.Description); err != nil {
			return err
		}
	}
	if _, err := w.WriteString("#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO"); err != nil {
		return err
	}
	if len(h.Samples) > 0 {
		if _, err := w.WriteString("\tFORMAT"); err != nil {
			return err
		}
		for _, s := range h.Samples {
			if _, err := fmt.Fprintf(w, "\t%s", s); err != nil {
				return err
			}
		}
	}
	return w.WriteByte('\n')
}

func sortedFieldDefKeys(m map[string]vcf.FieldDef) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
