package resolve

import (
	"context"
	"sort"

	"github.com/gem-pasteur/macsylib/candidate"
	"github.com/grailbio/base/traverse"
)

// RepliconResult pairs one replicon's name with its solve Result.
type RepliconResult struct {
	Replicon string
	Result   Result
}

// ResolveAll solves every replicon's compatibility graph concurrently,
// exactly as cmd/bio-fusion's processFASTQ and pileup/snp/pileup.go farm out
// per-shard work with traverse.Each: each replicon is an independent graph,
// so there is no cross-replicon shared mutable state to guard.
// ctx's deadline, if any, is shared by every replicon's branch-and-bound
// search.
func ResolveAll(ctx context.Context, byReplicon map[string][]*candidate.System) ([]RepliconResult, error) {
	replicons := make([]string, 0, len(byReplicon))
	for r := range byReplicon {
		replicons = append(replicons, r)
	}
	sort.Strings(replicons)

	results := make([]RepliconResult, len(replicons))
	err := traverse.Each(len(replicons), func(i int) error {
		rep := replicons[i]
		g := BuildGraph(byReplicon[rep])
		results[i] = RepliconResult{Replicon: rep, Result: Solve(ctx, g)}
		return nil
	})
	return results, err
}
