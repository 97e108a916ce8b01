// Package hitstream turns per-gene HMM tabular reports into a filtered,
// indexed stream of selected Hits.
package hitstream

import "github.com/gem-pasteur/macsylib/catalog"

// Hit is an immutable record of one HMM match.
type Hit struct {
	Replicon         string
	Position         int // 1-based rank of ProteinID within Replicon
	ProteinID        string
	Gene             *catalog.CoreGene
	IEvalue          float64
	Score            float64
	ProfileCoverage  float64
	SequenceCoverage float64
	SeqLength        int
	MatchBegin       int
	MatchEnd         int
}

// Selected reports whether h passes the selection thresholds: a hit is
// selected iff i_evalue <= i_evalue_sel AND coverage >= coverage_profile.
func (h Hit) Selected(iEvalueSel, coverageProfile float64) bool {
	return h.IEvalue <= iEvalueSel && h.ProfileCoverage >= coverageProfile
}
