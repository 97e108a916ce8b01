// Package candidate assembles Clusters (and loner/multi-model hits) into
// CandidateSystems that satisfy a Model's quorum, status and forbidden-gene
// rules, or RejectedCandidates carrying the reason they didn't.
package candidate

import "fmt"

// ReasonCode enumerates the candidate-rejection reasons. These are data,
// never Go errors: they are accumulated and reported via
// rejected_candidates.*, never fatal.
type ReasonCode int

const (
	ForbiddenPresent ReasonCode = iota
	MandatoryQuorumNotReached
	GenesQuorumNotReached
	NoCluster
	LonerUndersupplied
)

// Reason is one rejection (or warning) reason attached to a candidate,
// carrying whatever counts the code needs to be self-explanatory in
// rejected_candidates.tsv's "reasons" column.
type Reason struct {
	Code     ReasonCode
	Required int
	Observed int
	Detail   string
}

func (r Reason) String() string {
	switch r.Code {
	case ForbiddenPresent:
		return "FORBIDDEN_PRESENT"
	case MandatoryQuorumNotReached:
		return fmt.Sprintf("MANDATORY_QUORUM_NOT_REACHED(%d,%d)", r.Required, r.Observed)
	case GenesQuorumNotReached:
		return fmt.Sprintf("GENES_QUORUM_NOT_REACHED(%d,%d)", r.Required, r.Observed)
	case NoCluster:
		return "NO_CLUSTER"
	case LonerUndersupplied:
		return fmt.Sprintf("LONER_UNDERSUPPLIED(%s,%d,%d)", r.Detail, r.Required, r.Observed)
	default:
		return "UNKNOWN"
	}
}
