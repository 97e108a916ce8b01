package score

import (
	"sort"

	"github.com/gem-pasteur/macsylib/candidate"
	"github.com/gem-pasteur/macsylib/catalog"
	"github.com/gem-pasteur/macsylib/cluster"
)

// contribution is one ModelHit's base score before redundancy penalty,
// kept alongside its owning ModelGene so contributions can be grouped.
type contribution struct {
	gene *catalog.ModelGene
	base float64
}

// baseValue implements base(h) = w_status * w_source * w_ref.
func baseValue(w Weights, mh cluster.ModelHit, inCluster bool) float64 {
	wStatus := w.statusWeight(mh.ModelGene.Role)
	if wStatus == 0 {
		return 0
	}
	wSource := 1.0
	if mh.ModelGene.IsExchangeable(mh.Hit.Gene.ID) {
		wSource = w.ExchangeableWeight
	}
	wRef := 1.0
	if !inCluster {
		wRef = w.OutOfCluster
	}
	return wStatus * wSource * wRef
}

// Score computes and stores sys.Score: per-ModelGene contributions are
// penalised for redundancy, then summed.
func Score(sys *candidate.System, w Weights) float64 {
	byGene := make(map[*catalog.ModelGene][]float64)
	var order []*catalog.ModelGene

	addHit := func(mh cluster.ModelHit, inCluster bool) {
		v := baseValue(w, mh, inCluster)
		if v == 0 {
			return
		}
		if _, ok := byGene[mh.ModelGene]; !ok {
			order = append(order, mh.ModelGene)
		}
		byGene[mh.ModelGene] = append(byGene[mh.ModelGene], v)
	}

	for _, c := range sys.Clusters {
		for _, mh := range c.Hits {
			addHit(mh, true)
		}
	}
	for _, mh := range sys.Outside {
		addHit(mh, false)
	}

	total := 0.0
	for _, g := range order {
		contribs := byGene[g]
		sort.Sort(sort.Reverse(sort.Float64Slice(contribs)))
		for i, v := range contribs {
			if i == 0 {
				total += v
				continue
			}
			total += v / w.RedundancyPenalty
		}
	}

	sys.Score = total
	return total
}
