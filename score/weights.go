// Package score computes CandidateSystem scores using a weighted,
// redundancy-penalised model.
package score

import "github.com/gem-pasteur/macsylib/catalog"

// Weights holds the score_opt configuration group. Defaults match the
// values macsylib ships with.
type Weights struct {
	MandatoryWeight    float64
	AccessoryWeight    float64
	ExchangeableWeight float64
	OutOfCluster       float64
	RedundancyPenalty  float64
}

// DefaultWeights is a package-level constructor rather than bare
// zero-value struct literals scattered through callers.
func DefaultWeights() Weights {
	return Weights{
		MandatoryWeight:    1.0,
		AccessoryWeight:    0.5,
		ExchangeableWeight: 0.8,
		OutOfCluster:       0.7,
		RedundancyPenalty:  1.5,
	}
}

func (w Weights) statusWeight(role catalog.Role) float64 {
	switch role {
	case catalog.Mandatory:
		return w.MandatoryWeight
	case catalog.Accessory:
		return w.AccessoryWeight
	default:
		return 0
	}
}
