package svelt

import "sort"

// Criterion is the merge rule responsible for one edge of a component
// (spec §3's "Criterion").
type Criterion int

const (
	CriterionExact Criterion = iota
	CriterionNear
	CriterionFlipped
)

func (c Criterion) String() string {
	switch c {
	case CriterionExact:
		return "exact"
	case CriterionNear:
		return "near"
	case CriterionFlipped:
		return "flipped"
	default:
		return "unknown"
	}
}

// MergeGroup is one connected component of records judged to describe a
// single underlying event (spec §3).
type MergeGroup struct {
	Members  []int // record arena IDs, ascending.
	Criteria map[Criterion]bool
}

// mergeEdge records provenance for one pairwise merge decision, used
// after union-find settles to attribute a Criterion to the component it
// ended up in.
type mergeEdge struct {
	a, b      int
	criterion Criterion
}

// Match runs the equivalence relation of spec §4.2 to a fixed point over
// records, returning one MergeGroup per component and the diagnostics
// raised along the way (spec §7 kind 4: reference misses disable rule 3
// for a pair, without failing the run).
func Match(records []*SvRecord, idx *Indexer, ref ReferenceProvider, opts Options) ([]*MergeGroup, []*Diagnostic) {
	uf := newUnionFind(len(records))
	var edges []mergeEdge
	var diags []*Diagnostic

	// Rule 1: exact. Group by identity key; chain each group's members to
	// its first so union-find connects them all with O(group) edges.
	byExact := make(map[exactKey][]int)
	for _, r := range records {
		if r.Passthrough {
			continue
		}
		key, ok := ExactKey(r)
		if !ok {
			continue
		}
		byExact[key] = append(byExact[key], r.ID)
	}
	for _, ids := range byExact {
		if len(ids) < 2 {
			continue
		}
		sort.Ints(ids)
		for _, id := range ids[1:] {
			uf.union(ids[0], id)
			edges = append(edges, mergeEdge{ids[0], id, CriterionExact})
		}
	}

	// Rule 2: near.
	for _, r := range records {
		if r.Passthrough {
			continue
		}
		if r.Kind == KindBND {
			continue // BND near-matching handled separately below.
		}
		candidates := idx.QueryStart(r.Chrom, r.Kind, r.Start, opts.PositionWindow)
		for _, cid := range candidates {
			if cid <= r.ID {
				continue
			}
			c := records[cid]
			if nearMatchNonBND(r, c, opts) {
				uf.union(r.ID, cid)
				edges = append(edges, mergeEdge{r.ID, cid, CriterionNear})
			}
		}
	}
	for _, r := range records {
		if r.Passthrough || r.Kind != KindBND || r.Bnd == nil {
			continue
		}
		candidates := idx.QueryStart(r.Chrom, KindBND, r.Start, opts.PositionWindow)
		for _, cid := range candidates {
			if cid <= r.ID {
				continue
			}
			c := records[cid]
			if nearMatchBND(r, c, opts) {
				uf.union(r.ID, cid)
				edges = append(edges, mergeEdge{r.ID, cid, CriterionNear})
			}
		}
	}

	// Rule 3: flipped BND, emitted last per spec's tie-break ordering.
	if ref != nil {
		for _, r := range records {
			if r.Passthrough || r.Kind != KindBND || r.Bnd == nil {
				continue
			}
			candidates := idx.QueryStart(r.Bnd.Chrom2, KindBND, r.Bnd.End2, opts.PositionWindow)
			for _, cid := range candidates {
				if cid == r.ID {
					continue
				}
				c := records[cid]
				if uf.find(r.ID) == uf.find(cid) {
					continue // already joined by a stronger rule.
				}
				ok, diag := bndFlipMatch(r, c, ref, opts)
				if diag != nil {
					diags = append(diags, diag)
				}
				if ok && r.ID < cid {
					uf.union(r.ID, cid)
					edges = append(edges, mergeEdge{r.ID, cid, CriterionFlipped})
				}
			}
		}
	}

	return buildGroups(uf, len(records), edges), diags
}

func nearMatchNonBND(a, b *SvRecord, opts Options) bool {
	if a.Kind != b.Kind || a.Chrom != b.Chrom {
		return false
	}
	if absInt(a.Start-b.Start) > opts.PositionWindow {
		return false
	}
	if absInt(a.End-b.End) > opts.PositionWindow {
		return false
	}
	minLen, maxLen := a.Length, b.Length
	if minLen > maxLen {
		minLen, maxLen = maxLen, minLen
	}
	if maxLen == 0 {
		return false
	}
	return float64(minLen)/float64(maxLen) > opts.LengthRatio
}

func nearMatchBND(a, b *SvRecord, opts Options) bool {
	if a.Chrom != b.Chrom || a.Bnd.Chrom2 != b.Bnd.Chrom2 || a.Bnd.Orient != b.Bnd.Orient {
		return false
	}
	if absInt(a.End-b.End) > opts.PositionWindow {
		return false
	}
	return absInt(a.Bnd.End2-b.Bnd.End2) <= opts.FarWindow
}

func buildGroups(uf *unionFind, n int, edges []mergeEdge) []*MergeGroup {
	byRoot := make(map[int]*MergeGroup)
	order := make([]int, 0)
	for i := 0; i < n; i++ {
		r := uf.find(i)
		g, ok := byRoot[r]
		if !ok {
			g = &MergeGroup{Criteria: make(map[Criterion]bool)}
			byRoot[r] = g
			order = append(order, r)
		}
		g.Members = append(g.Members, i)
	}
	for _, e := range edges {
		byRoot[uf.find(e.a)].Criteria[e.criterion] = true
	}
	groups := make([]*MergeGroup, 0, len(order))
	for _, r := range order {
		groups = append(groups, byRoot[r])
	}
	return groups
}
