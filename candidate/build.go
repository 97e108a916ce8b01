package candidate

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dgryski/go-farm"
	"github.com/gem-pasteur/macsylib/catalog"
	"github.com/gem-pasteur/macsylib/cluster"
	"github.com/grailbio/base/log"
)

// roleCounts tallies, per ModelGene, how many hits in a prospective
// combination satisfy it.
type roleCounts map[*catalog.ModelGene]int

func tally(hits []cluster.ModelHit) roleCounts {
	rc := make(roleCounts, len(hits))
	for _, h := range hits {
		rc[h.ModelGene]++
	}
	return rc
}

func (rc roleCounts) countWithRole(m *catalog.Model, role catalog.Role) int {
	n := 0
	for _, mg := range m.GenesWithRole(role) {
		if rc[mg] > 0 {
			n++
		}
	}
	return n
}

// Build runs the Candidate Builder for one Model over one
// replicon's clustering Result, returning every accepted System and every
// Rejected combination, plus any loner-adequacy warnings.
func Build(replicon string, m *catalog.Model, res cluster.Result) ([]*System, []*Rejected, []Warning) {
	if len(res.Clusters) == 0 {
		return nil, []*Rejected{{
			Replicon: replicon,
			Model:    m,
			Reasons:  []Reason{{Code: NoCluster}},
		}}, nil
	}

	combos := clusterCombinations(res.Clusters, m)

	pool := make([]cluster.ModelHit, 0, len(res.Loners)+len(res.MultiModel))
	for _, lc := range res.Loners {
		pool = append(pool, lc.Hits[0])
	}
	pool = append(pool, res.MultiModel...)

	var accepted []*System
	var rejected []*Rejected
	seenHitSets := make(map[string]bool) // dedup variants that end up with identical hit contents

	tryVariant := func(clusters []*cluster.Cluster, outside []cluster.ModelHit) {
		hits := make([]cluster.ModelHit, 0, 8)
		for _, c := range clusters {
			hits = append(hits, c.Hits...)
		}
		hits = append(hits, outside...)

		key := hitSetKey(hits)
		if seenHitSets[key] {
			return
		}

		if fp, bad := forbiddenWithinSpan(res.Forbidden, clusters); bad {
			rejected = append(rejected, &Rejected{
				Replicon: replicon, Model: m, Clusters: clusters, Outside: outside,
				Reasons: []Reason{{Code: ForbiddenPresent, Detail: fp.Hit.Gene.Name}},
			})
			seenHitSets[key] = true
			return
		}

		rc := tally(hits)
		mandObserved := rc.countWithRole(m, catalog.Mandatory)
		if mandObserved < m.MinMandatoryGenesRequired {
			rejected = append(rejected, &Rejected{
				Replicon: replicon, Model: m, Clusters: clusters, Outside: outside,
				Reasons: []Reason{{Code: MandatoryQuorumNotReached, Required: m.MinMandatoryGenesRequired, Observed: mandObserved}},
			})
			seenHitSets[key] = true
			return
		}

		genesObserved := mandObserved + rc.countWithRole(m, catalog.Accessory)
		if genesObserved < m.MinGenesRequired {
			rejected = append(rejected, &Rejected{
				Replicon: replicon, Model: m, Clusters: clusters, Outside: outside,
				Reasons: []Reason{{Code: GenesQuorumNotReached, Required: m.MinGenesRequired, Observed: genesObserved}},
			})
			seenHitSets[key] = true
			return
		}

		seenHitSets[key] = true
		accepted = append(accepted, &System{Model: m, Clusters: clusters, Outside: outside})
	}

	subsets := poolSubsets(pool, m)
	for _, combo := range combos {
		comboSize := 0
		for _, c := range combo {
			comboSize += len(c.Hits)
		}
		for _, outside := range subsets {
			if m.MaxNbGenes > 0 && comboSize+len(outside) > m.MaxNbGenes {
				continue
			}
			tryVariant(combo, outside)
		}
	}

	accepted = dropSubsumed(accepted)
	assignSystemKeys(replicon, m.FQN, accepted)

	warnings := lonerWarnings(m, accepted)
	for _, w := range warnings {
		rejected = append(rejected, &Rejected{
			Replicon: replicon, Model: m,
			Outside: []cluster.ModelHit{w.Hit},
			Reasons: []Reason{{Code: LonerUndersupplied, Detail: w.Gene, Required: w.Occurrences, Observed: w.Systems}},
		})
	}
	return accepted, rejected, warnings
}

// forbiddenWithinSpan reports whether any forbidden-gene hit falls within
// the position span covered by clusters: a forbidden gene's role forbids
// inclusion in an occurrence even though it was never cluster-eligible, so
// its mere co-location with an otherwise acceptable cluster set still
// disqualifies the candidate.
func forbiddenWithinSpan(forbidden []cluster.ModelHit, clusters []*cluster.Cluster) (cluster.ModelHit, bool) {
	if len(forbidden) == 0 || len(clusters) == 0 {
		return cluster.ModelHit{}, false
	}
	for _, c := range clusters {
		lo, hi := spanOf(c)
		for _, fh := range forbidden {
			if fh.Position() >= lo && fh.Position() <= hi {
				return fh, true
			}
		}
	}
	return cluster.ModelHit{}, false
}

func spanOf(c *cluster.Cluster) (lo, hi int) {
	lo, hi = c.Hits[0].Position(), c.Hits[0].Position()
	for _, h := range c.Hits[1:] {
		if h.Position() < lo {
			lo = h.Position()
		}
		if h.Position() > hi {
			hi = h.Position()
		}
	}
	return
}

// hitSetKey renders a content-addressable key for a set of ModelHits so
// identical combinations (arising from different enumeration paths) dedupe.
// The sorted identity strings are reduced to a 64-bit fingerprint with
// farm.Hash64, the same non-cryptographic hashing idiom fusion/kmer_index.go
// uses for its k-mer index keys, rather than keying the dedup map on the
// full concatenated string.
func hitSetKey(hits []cluster.ModelHit) string {
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.Hit.Replicon + "#" + h.Hit.ProteinID
	}
	sort.Strings(ids)
	joined := ""
	for _, id := range ids {
		joined += id + "|"
	}
	return strconv.FormatUint(farm.Hash64([]byte(joined)), 16)
}

// clusterCombinations enumerates the cluster sets to try: singletons only
// when the Model isn't multi_loci, otherwise every non-empty subset bounded
// by max_nb_genes. With more than 20 clusters the powerset is capped to
// singletons plus the full set, logged rather than silently truncated.
func clusterCombinations(clusters []*cluster.Cluster, m *catalog.Model) [][]*cluster.Cluster {
	if !m.MultiLoci {
		out := make([][]*cluster.Cluster, len(clusters))
		for i, c := range clusters {
			out[i] = []*cluster.Cluster{c}
		}
		return out
	}

	n := len(clusters)
	if n > 20 {
		log.Printf("candidate: model %s has %d clusters on this replicon; capping multi_loci enumeration to singletons and the full set", m.FQN, n)
		out := make([][]*cluster.Cluster, 0, n+1)
		for _, c := range clusters {
			out = append(out, []*cluster.Cluster{c})
		}
		out = append(out, append([]*cluster.Cluster(nil), clusters...))
		return out
	}

	var out [][]*cluster.Cluster
	for mask := 1; mask < (1 << uint(n)); mask++ {
		var combo []*cluster.Cluster
		size := 0
		for i := 0; i < n; i++ {
			if mask&(1<<uint(i)) != 0 {
				combo = append(combo, clusters[i])
				size += len(clusters[i].Hits)
			}
		}
		if m.MaxNbGenes > 0 && size > m.MaxNbGenes {
			continue
		}
		out = append(out, combo)
	}
	return out
}

// poolSubsets enumerates the loner/multi-model pool subsets to augment a
// cluster combo with: every subset including the empty one when the pool is
// small, capped to the empty and full subsets beyond 20 members, the same
// bound clusterCombinations applies to cluster subsets.
func poolSubsets(pool []cluster.ModelHit, m *catalog.Model) [][]cluster.ModelHit {
	out := [][]cluster.ModelHit{nil}
	n := len(pool)
	if n == 0 {
		return out
	}
	if n > 20 {
		log.Printf("candidate: model %s has %d loner/multi-model pool hits on this replicon; capping pool enumeration to the empty and full subsets", m.FQN, n)
		return append(out, append([]cluster.ModelHit(nil), pool...))
	}
	for mask := 1; mask < (1 << uint(n)); mask++ {
		var subset []cluster.ModelHit
		for i := 0; i < n; i++ {
			if mask&(1<<uint(i)) != 0 {
				subset = append(subset, pool[i])
			}
		}
		out = append(out, subset)
	}
	return out
}

// dropSubsumed discards any accepted System whose hit set is a strict
// subset of another accepted System's hit set.
func dropSubsumed(systems []*System) []*System {
	type withKeys struct {
		sys  *System
		keys map[string]bool
	}
	withK := make([]withKeys, len(systems))
	for i, s := range systems {
		keys := make(map[string]bool)
		for _, h := range s.AllHits() {
			keys[h.Hit.Replicon+"#"+h.Hit.ProteinID] = true
		}
		withK[i] = withKeys{s, keys}
	}
	sort.Slice(withK, func(i, j int) bool { return len(withK[i].keys) > len(withK[j].keys) })

	var kept []withKeys
	for _, cand := range withK {
		subsumed := false
		for _, k := range kept {
			if isStrictSubset(cand.keys, k.keys) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			kept = append(kept, cand)
		}
	}
	out := make([]*System, len(kept))
	for i, k := range kept {
		out[i] = k.sys
	}
	return out
}

func isStrictSubset(a, b map[string]bool) bool {
	if len(a) >= len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// assignSystemKeys sorts accepted systems by ascending minimum hit position
// and assigns deterministic ordinals.
func assignSystemKeys(replicon, modelFQN string, systems []*System) {
	sort.Slice(systems, func(i, j int) bool { return minPos(systems[i]) < minPos(systems[j]) })
	for i, s := range systems {
		s.Key = SystemKey{Replicon: replicon, ModelFQN: modelFQN, MinPosition: minPos(s), Ordinal: i}
	}
}

func minPos(s *System) int {
	hits := s.AllHits()
	min := hits[0].Position()
	for _, h := range hits[1:] {
		if h.Position() < min {
			min = h.Position()
		}
	}
	return min
}

// Warning is a loner-adequacy notice: fewer physical occurrences of a loner
// gene exist than the number of candidate systems relying on one of them.
// Every accepted system involved still stands; this is surfaced as a
// "# WARNING" comment line in the report files, and Build also records it
// as a LonerUndersupplied entry in its rejected list.
type Warning struct {
	Gene        string
	Occurrences int // distinct loner hits of this gene shared across systems
	Systems     int // candidate systems depending on one of those hits
	Hit         cluster.ModelHit
}

func (w Warning) String() string {
	return fmt.Sprintf("Loner: there is only %d occurrence(s) of loner '%s' and %d potential systems [...]", w.Occurrences, w.Gene, w.Systems)
}

// lonerWarnings checks whether several accepted systems of the same model
// rely on a loner gene with fewer physical hits than systems using it; if so
// that is surfaced as a warning, not a rejection.
func lonerWarnings(m *catalog.Model, systems []*System) []Warning {
	type usage struct {
		hits    map[string]cluster.ModelHit
		systems int
	}
	byGene := make(map[string]*usage)
	for _, s := range systems {
		seenGene := make(map[string]bool)
		for _, h := range s.Outside {
			if !h.Loner || h.MultiSystem {
				continue
			}
			name := h.ModelGene.Gene.Name
			u, ok := byGene[name]
			if !ok {
				u = &usage{hits: make(map[string]cluster.ModelHit)}
				byGene[name] = u
			}
			u.hits[h.Hit.Replicon+"#"+h.Hit.ProteinID] = h
			if !seenGene[name] {
				seenGene[name] = true
				u.systems++
			}
		}
	}

	names := make([]string, 0, len(byGene))
	for name := range byGene {
		names = append(names, name)
	}
	sort.Strings(names)

	var warnings []Warning
	for _, name := range names {
		u := byGene[name]
		if len(u.hits) >= u.systems {
			continue
		}
		ids := make([]string, 0, len(u.hits))
		for id := range u.hits {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		warnings = append(warnings, Warning{Gene: name, Occurrences: len(u.hits), Systems: u.systems, Hit: u.hits[ids[0]]})
	}
	return warnings
}
