// Package classify provides a k-mer feature classifier for novel SV
// insertion sequences: the "external collaborator" spec.md §1 names but
// leaves out of the merge core's scope. SeedClassifier hashes k-mers with
// the teacher's farmhash dependency (github.com/dgryski/go-farm), the
// same function fusion/kmer_index.go uses for its gene-fusion junction
// index, but keyed into a plain map since a seed panel of mobile-element
// consensus sequences is orders of magnitude smaller than a transcriptome
// k-mer table and doesn't need fusion's sharded, mmap'd hash table.
package classify

import (
	"strings"

	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/svelt/reference"
	"github.com/pkg/errors"
)

// DefaultK is the k-mer length used to build and query the seed index,
// matching the short-read k-mer sizes the teacher's fusion package uses
// for junction detection.
const DefaultK = 21

// SeedClassifier classifies a query sequence by k-mer containment against
// a small labelled panel of seed sequences (e.g. mobile-element consensus
// sequences such as ALU/LINE1/SVA).
type SeedClassifier struct {
	k         int
	threshold float64
	labels    []string          // seedID -> label
	index     map[uint64][]int  // kmer hash -> seedIDs containing it
	seedKmers []int             // seedID -> total distinct kmer count
}

// NewSeedClassifier builds a classifier from a labelled FASTA panel: each
// sequence name is the label assigned to matches against it. threshold is
// the minimum fraction of the query's k-mers that must be found in a
// seed's k-mer set for that seed to be reported.
func NewSeedClassifier(panel reference.Fasta, k int, threshold float64) (*SeedClassifier, error) {
	if k <= 0 {
		return nil, errors.Errorf("invalid k-mer length %d", k)
	}
	c := &SeedClassifier{
		k:         k,
		threshold: threshold,
		index:     make(map[uint64][]int),
	}
	for _, name := range panel.SeqNames() {
		length, err := panel.Len(name)
		if err != nil {
			return nil, err
		}
		seq, err := panel.Get(name, 0, length)
		if err != nil {
			return nil, err
		}
		seedID := len(c.labels)
		c.labels = append(c.labels, name)
		kmers := kmerSet(seq, k)
		c.seedKmers = append(c.seedKmers, len(kmers))
		for h := range kmers {
			c.index[h] = append(c.index[h], seedID)
		}
	}
	return c, nil
}

// Classify reports the best-matching seed's label for seq, by fraction of
// seq's own k-mers found in each seed's k-mer set. ok is false when seq is
// shorter than k or no seed clears the containment threshold.
func (c *SeedClassifier) Classify(seq string) (label string, ok bool) {
	kmers := kmerSet(seq, c.k)
	if len(kmers) == 0 {
		return "", false
	}
	hits := make(map[int]int, len(c.labels))
	for h := range kmers {
		for _, seedID := range c.index[h] {
			hits[seedID]++
		}
	}
	bestSeed, bestFrac := -1, 0.0
	for seedID, n := range hits {
		frac := float64(n) / float64(len(kmers))
		if frac > bestFrac {
			bestSeed, bestFrac = seedID, frac
		}
	}
	if bestSeed < 0 || bestFrac < c.threshold {
		return "", false
	}
	return c.labels[bestSeed], true
}

func kmerSet(seq string, k int) map[uint64]struct{} {
	seq = strings.ToUpper(seq)
	if len(seq) < k {
		return nil
	}
	set := make(map[uint64]struct{}, len(seq)-k+1)
	for i := 0; i+k <= len(seq); i++ {
		set[hashKmer(seq[i:i+k])] = struct{}{}
	}
	return set
}

func hashKmer(kmer string) uint64 {
	return farm.Hash64WithSeed([]byte(kmer), 0)
}
