// Package cluster forms Clusters of HMM hits along one replicon, honouring
// per-gene spacing rules and the loner/multi-model exceptions.
package cluster

import (
	"github.com/gem-pasteur/macsylib/catalog"
	"github.com/gem-pasteur/macsylib/hitstream"
)

// ModelHit binds a selected Hit to a ModelGene within one Model, carrying
// the status and flags the ModelGene propagates.
type ModelHit struct {
	Hit         hitstream.Hit
	ModelGene   *catalog.ModelGene
	Status      catalog.Role
	Loner       bool
	MultiModel  bool
	MultiSystem bool
}

// Position is a convenience accessor used throughout sorting/merging code.
func (mh ModelHit) Position() int { return mh.Hit.Position }

// materialize turns every selected Hit on replicon whose CoreGene belongs to
// m (directly or via an exchangeable) into a ModelHit.
// Hits of a forbidden gene are materialized too, but are reported
// separately since they are never eligible for cluster membership.
func materialize(hits []hitstream.Hit, m *catalog.Model) []ModelHit {
	out := make([]ModelHit, 0, len(hits))
	for _, h := range hits {
		mg := m.ModelGeneFor(h.Gene.ID)
		if mg == nil {
			continue
		}
		out = append(out, ModelHit{
			Hit:         h,
			ModelGene:   mg,
			Status:      mg.Role,
			Loner:       mg.Loner,
			MultiModel:  mg.MultiModel,
			MultiSystem: mg.MultiSystem,
		})
	}
	return out
}
