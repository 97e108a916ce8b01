// Package report projects a resolve.Solution (or candidate.Rejected list)
// into the tabular and human-readable output files. It never recomputes
// scores or reorders hits — it only projects.
package report

import (
	"fmt"

	"github.com/gem-pasteur/macsylib/candidate"
	"github.com/gem-pasteur/macsylib/cluster"
)

// Row is one hit-line of best_solution.tsv / all_systems.tsv /
// best_solution_loners.tsv / best_solution_multisystems.tsv, in the
// normative column order.
type Row struct {
	Replicon        string
	HitID           string
	GeneName        string
	HitPos          int
	ModelFQN        string
	SysID           string
	SysLoci         int
	LocusNum        int
	SysWholeness    float64
	SysScore        float64
	SysOcc          int
	HitGeneRef      string
	HitStatus       string
	HitSeqLen       int
	HitIEvalue      float64
	HitScore        float64
	HitProfileCov   float64
	HitSeqCov       float64
	HitBeginMatch   int
	HitEndMatch     int
	Counterpart     string
	UsedIn          string
}

// SystemRows projects one System into its per-hit Rows. usedIn maps a hit's
// (replicon, protein) identity to the other system IDs it also appears in,
// populated by the caller from the full solution (multi_model/multi_system
// hits can be shared across systems).
func SystemRows(sys *candidate.System, usedIn map[string][]string) []Row {
	var rows []Row
	appendHit := func(h cluster.ModelHit, locusNum int) {
		counterpart := ""
		if h.ModelGene.IsExchangeable(h.Hit.Gene.ID) {
			counterpart = h.ModelGene.Gene.Name
		}
		key := h.Hit.Replicon + "#" + h.Hit.ProteinID
		used := ""
		for i, other := range usedIn[key] {
			if i > 0 {
				used += ","
			}
			used += other
		}
		rows = append(rows, Row{
			Replicon:      h.Hit.Replicon,
			HitID:         h.Hit.ProteinID,
			GeneName:      h.Hit.Gene.Name,
			HitPos:        h.Hit.Position,
			ModelFQN:      sys.Model.FQN,
			SysID:         sys.SystemID(),
			SysLoci:       sys.Loci(),
			LocusNum:      locusNum,
			SysWholeness:  sys.Wholeness(),
			SysScore:      sys.Score,
			SysOcc:        sys.Occ(),
			HitGeneRef:    h.ModelGene.Gene.Name,
			HitStatus:     h.Status.String(),
			HitSeqLen:     h.Hit.SeqLength,
			HitIEvalue:    h.Hit.IEvalue,
			HitScore:      h.Hit.Score,
			HitProfileCov: h.Hit.ProfileCoverage,
			HitSeqCov:     h.Hit.SequenceCoverage,
			HitBeginMatch: h.Hit.MatchBegin,
			HitEndMatch:   h.Hit.MatchEnd,
			Counterpart:   counterpart,
			UsedIn:        used,
		})
	}
	for _, c := range sys.Clusters {
		for _, h := range c.Hits {
			appendHit(h, c.LocusNum)
		}
	}
	for _, h := range sys.Outside {
		locusNum := 0
		if h.Loner {
			locusNum = -1
		}
		appendHit(h, locusNum)
	}
	return rows
}

// BuildUsedIn scans every system in a solution and records, for every hit
// shared by more than one system (multi_model/multi_system hits, and loner
// hits the resolver lets systems share), the list of system IDs it's used in.
func BuildUsedIn(systems []*candidate.System) map[string][]string {
	usedIn := make(map[string][]string)
	for _, sys := range systems {
		for _, h := range sys.AllHits() {
			key := h.Hit.Replicon + "#" + h.Hit.ProteinID
			usedIn[key] = append(usedIn[key], sys.SystemID())
		}
	}
	for k, v := range usedIn {
		if len(v) < 2 {
			delete(usedIn, k)
		}
	}
	return usedIn
}

// RejectedRow is one line of rejected_candidates.tsv.
type RejectedRow struct {
	CandidateID string
	Replicon    string
	ModelFQN    string
	ClusterID   int
	HitID       string
	HitPos      int
	GeneName    string
	Function    string
	Reasons     string
}

// RejectedRows projects a Rejected candidate into its per-hit rows.
func RejectedRows(idx int, r *candidate.Rejected) []RejectedRow {
	candidateID := fmt.Sprintf("%s_%s_rejected_%d", r.Replicon, r.Model.FQN, idx)
	reasons := ""
	for i, reason := range r.Reasons {
		if i > 0 {
			reasons += "/"
		}
		reasons += reason.String()
	}

	var rows []RejectedRow
	appendHit := func(h cluster.ModelHit, clusterID int) {
		rows = append(rows, RejectedRow{
			CandidateID: candidateID,
			Replicon:    r.Replicon,
			ModelFQN:    r.Model.FQN,
			ClusterID:   clusterID,
			HitID:       h.Hit.ProteinID,
			HitPos:      h.Hit.Position,
			GeneName:    h.Hit.Gene.Name,
			Function:    h.Status.String(),
			Reasons:     reasons,
		})
	}
	for _, c := range r.Clusters {
		for _, h := range c.Hits {
			appendHit(h, c.LocusNum)
		}
	}
	for _, h := range r.Outside {
		appendHit(h, 0)
	}
	if len(rows) == 0 {
		// NO_CLUSTER candidates carry no hits at all; still emit one row so
		// the rejection is visible in the report.
		rows = append(rows, RejectedRow{CandidateID: candidateID, Replicon: r.Replicon, ModelFQN: r.Model.FQN, Reasons: reasons})
	}
	return rows
}
