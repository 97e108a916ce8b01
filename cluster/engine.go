package cluster

import (
	"sort"

	"github.com/gem-pasteur/macsylib/catalog"
	"github.com/gem-pasteur/macsylib/hitstream"
	"github.com/gem-pasteur/macsylib/replicon"
)

// Result is the output of Build for one Model on one Replicon: the regular
// (non-degenerate) clusters found by the sweep, one degenerate loner
// Cluster per loner hit, the pool of multi-model hits kept aside, and the
// forbidden-gene hits retained only for later rejection reasoning.
type Result struct {
	Clusters   []*Cluster
	Loners     []*Cluster
	MultiModel []ModelHit
	Forbidden  []ModelHit
}

// Build runs the per-model clustering sweep over the selected hits of one
// replicon. Clustering is pure and cannot fail; an empty Result is a valid
// outcome.
func Build(rep replicon.Replicon, hits []hitstream.Hit, m *catalog.Model) Result {
	all := materialize(hits, m)

	var eligible, loners, multiModel, forbidden []ModelHit
	for _, mh := range all {
		switch {
		case mh.Status == catalog.Forbidden:
			forbidden = append(forbidden, mh)
		case mh.Loner:
			loners = append(loners, mh)
		case mh.MultiModel:
			multiModel = append(multiModel, mh)
		default:
			eligible = append(eligible, mh)
		}
	}

	sort.Slice(eligible, func(i, j int) bool { return eligible[i].Position() < eligible[j].Position() })

	clusters := sweep(eligible, m, rep.GenesBetween)

	if rep.Topology == replicon.Circular && len(clusters) >= 2 {
		clusters = mergeWrap(clusters, rep, m)
	}

	for i, c := range clusters {
		c.LocusNum = i + 1
	}

	lonerClusters := make([]*Cluster, 0, len(loners))
	for i, mh := range loners {
		lonerClusters = append(lonerClusters, &Cluster{
			Hits:     []ModelHit{mh},
			LocusNum: -(i + 1),
		})
	}

	return Result{Clusters: clusters, Loners: lonerClusters, MultiModel: multiModel, Forbidden: forbidden}
}

// effectiveMaxSpace is the maximum of the two ModelGenes' per-gene
// inter_gene_max_space overrides, falling back to the Model default.
func effectiveMaxSpace(a, b *catalog.ModelGene, modelDefault int) int {
	ea := a.InterGeneMaxSpace(modelDefault)
	eb := b.InterGeneMaxSpace(modelDefault)
	if ea > eb {
		return ea
	}
	return eb
}

// sweep does a left-to-right scan opening and closing clusters by the
// effective inter-gene distance. A singleton cluster is discarded (it can
// only arise from a non-loner, non-multi-model hit here, since loners were
// already pulled into their own pool).
func sweep(hits []ModelHit, m *catalog.Model, repInterGenesBetween func(p1, p2 int) int) []*Cluster {
	var clusters []*Cluster
	var cur []ModelHit
	for i, h := range hits {
		if i == 0 {
			cur = []ModelHit{h}
			continue
		}
		prev := cur[len(cur)-1]
		maxSpace := effectiveMaxSpace(prev.ModelGene, h.ModelGene, m.InterGeneMaxSpace)
		if repInterGenesBetween(prev.Position(), h.Position()) <= maxSpace {
			cur = append(cur, h)
			continue
		}
		clusters = append(clusters, finishCluster(cur))
		cur = []ModelHit{h}
	}
	if len(cur) > 0 {
		clusters = append(clusters, finishCluster(cur))
	}

	out := clusters[:0]
	for _, c := range clusters {
		if c != nil && len(c.Hits) > 1 {
			out = append(out, c)
		}
	}
	return out
}

func finishCluster(hits []ModelHit) *Cluster {
	if len(hits) <= 1 {
		return nil
	}
	return &Cluster{Hits: append([]ModelHit(nil), hits...)}
}

// mergeWrap, on a circular replicon, tries to fold the last cluster's tail
// into the first cluster's head across the origin. On success the merged
// cluster's Hits are the ordered pair (tail-segment, head-segment) and the
// effective locus count drops by one.
func mergeWrap(clusters []*Cluster, rep replicon.Replicon, m *catalog.Model) []*Cluster {
	first, last := clusters[0], clusters[len(clusters)-1]
	firstHead := first.Hits[0]
	lastTail := last.Hits[len(last.Hits)-1]

	maxSpace := effectiveMaxSpace(lastTail.ModelGene, firstHead.ModelGene, m.InterGeneMaxSpace)
	wrapDist := rep.WrapGenesBetween(lastTail.Position(), firstHead.Position())
	if wrapDist < 0 || wrapDist > maxSpace {
		return clusters
	}

	merged := &Cluster{
		Hits:    append(append([]ModelHit(nil), last.Hits...), first.Hits...),
		Wrapped: true,
	}
	if len(clusters) == 2 {
		return []*Cluster{merged}
	}
	middle := clusters[1 : len(clusters)-1]
	return append([]*Cluster{merged}, middle...)
}
