// Package reference is the random-access (contig, start, end) fetch
// contract the svelt core assumes for a reference-sequence provider (spec
// §1): FASTA parsing (adapted from the teacher's encoding/fasta at the
// scale a merge run actually needs it, in-memory only), the windowed
// cache, and the reverse-complement helper the BND Flipper (spec §4.4)
// needs around it.
package reference

import (
	"github.com/pkg/errors"
)

// Provider is the reference-sequence fetch contract: a 0-based
// half-open window on a named contig. It satisfies svelt.ReferenceProvider
// structurally, without either package importing the other.
type Provider interface {
	Fetch(contig string, start, end int) (string, error)
}

// fastaProvider adapts an in-memory Fasta to Provider.
type fastaProvider struct {
	f Fasta
}

// FromFasta wraps f as a Provider.
func FromFasta(f Fasta) Provider {
	return &fastaProvider{f: f}
}

func (p *fastaProvider) Fetch(contig string, start, end int) (string, error) {
	if start < 0 || end <= start {
		return "", errors.Errorf("invalid fetch range [%d, %d) on %s", start, end, contig)
	}
	length, err := p.f.Len(contig)
	if err != nil {
		return "", errors.Wrapf(err, "fetching %s:%d-%d", contig, start, end)
	}
	if uint64(end) > length {
		end = int(length)
	}
	if uint64(start) >= length || end <= start {
		return "", errors.Errorf("fetch range [%d, %d) is past end of %s (length %d)", start, end, contig, length)
	}
	seq, err := p.f.Get(contig, uint64(start), uint64(end))
	if err != nil {
		return "", errors.Wrapf(err, "fetching %s:%d-%d", contig, start, end)
	}
	return seq, nil
}
