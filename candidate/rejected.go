package candidate

import (
	"github.com/gem-pasteur/macsylib/catalog"
	"github.com/gem-pasteur/macsylib/cluster"
)

// Rejected is a candidate that failed one or more of the Candidate
// Builder's checks. It carries the same provenance as a
// System so rejected_candidates.* can reconstruct which hits were
// considered.
type Rejected struct {
	Replicon string
	Model    *catalog.Model
	Clusters []*cluster.Cluster
	Outside  []cluster.ModelHit
	Reasons  []Reason
}

// AllHits mirrors System.AllHits for reporting.
func (r *Rejected) AllHits() []cluster.ModelHit {
	var out []cluster.ModelHit
	for _, c := range r.Clusters {
		out = append(out, c.Hits...)
	}
	return append(out, r.Outside...)
}
