package svelt

import "github.com/biogo/store/llrb"

// posEntry is one leaf of a position tree: a record's coordinate paired
// with its arena ID so several records at the same coordinate coexist.
type posEntry struct {
	pos int
	id  int
}

// Compare implements llrb.Comparable, ordering by position then by ID to
// break ties deterministically. Grounded on
// encoding/bampair/shard_info.go's key.Compare.
func (e posEntry) Compare(c llrb.Comparable) int {
	o := c.(posEntry)
	if d := e.pos - o.pos; d != 0 {
		return d
	}
	return e.id - o.id
}

type startBucketKey struct {
	chrom string
	kind  SvKind
}

// Indexer builds, per (chrom, kind), an ordered tree of record starts
// (spec §4.3). BND records set Start equal to their own locus (End is
// derived the same way), so rule 3's flipped-mate lookup queries this
// same tree keyed by (mate chrom, End2) rather than needing a second
// tree keyed by mate coordinates: a candidate's own Start already sits
// at the physical breakend location rule 3 is searching for.
type Indexer struct {
	records []*SvRecord

	byStart map[startBucketKey]*llrb.Tree
}

// NewIndexer builds an Indexer over records. Passthrough records are
// excluded; they never participate in matching.
func NewIndexer(records []*SvRecord) *Indexer {
	idx := &Indexer{
		records: records,
		byStart: make(map[startBucketKey]*llrb.Tree),
	}
	for _, r := range records {
		if r.Passthrough {
			continue
		}
		sk := startBucketKey{chrom: r.Chrom, kind: r.Kind}
		tree, ok := idx.byStart[sk]
		if !ok {
			tree = &llrb.Tree{}
			idx.byStart[sk] = tree
		}
		tree.Insert(posEntry{pos: r.Start, id: r.ID})
	}
	return idx
}

// QueryStart returns the IDs of records of kind on chrom whose Start
// falls in [center-window, center+window], in ascending Start order.
func (idx *Indexer) QueryStart(chrom string, kind SvKind, center, window int) []int {
	tree, ok := idx.byStart[startBucketKey{chrom: chrom, kind: kind}]
	if !ok {
		return nil
	}
	return rangeScan(tree, center-window, center+window)
}

func rangeScan(tree *llrb.Tree, lo, hi int) []int {
	var out []int
	tree.DoRange(func(c llrb.Comparable) (done bool) {
		out = append(out, c.(posEntry).id)
		return false
	}, posEntry{pos: lo, id: -1 << 31}, posEntry{pos: hi + 1, id: -1 << 31})
	return out
}

// Chroms returns the distinct chromosomes present in the start index, for
// the driver's per-chromosome partitioning (spec §5).
func (idx *Indexer) Chroms() []string {
	seen := make(map[string]bool)
	var out []string
	for k := range idx.byStart {
		if !seen[k.chrom] {
			seen[k.chrom] = true
			out = append(out, k.chrom)
		}
	}
	return out
}
