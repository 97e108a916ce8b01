package hitstream

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gem-pasteur/macsylib/catalog"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
	"github.com/pkg/errors"
)

func TestCheckpointRoundTrip(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "hitstream-checkpoint")
	defer cleanup()
	path := filepath.Join(dir, "hits.checkpoint")

	bank := catalog.NewGeneBank()
	geneA, err := bank.Intern("TXSS", "geneA", "")
	if err != nil {
		t.Fatal(err)
	}
	geneB, err := bank.Intern("TXSS", "geneB", "")
	if err != nil {
		t.Fatal(err)
	}

	want := []Hit{
		{Replicon: "rep1", Position: 1, ProteinID: "p1", Gene: geneA, IEvalue: 1e-10, Score: 50, ProfileCoverage: 0.9, SequenceCoverage: 0.85, SeqLength: 200, MatchBegin: 10, MatchEnd: 190},
		{Replicon: "rep1", Position: 2, ProteinID: "p2", Gene: geneB, IEvalue: 1e-8, Score: 40, ProfileCoverage: 0.7, SequenceCoverage: 0.6, SeqLength: 150, MatchBegin: 5, MatchEnd: 140},
	}

	ctx := vcontext.Background()
	if err := WriteCheckpoint(ctx, path, want); err != nil {
		t.Fatalf("WriteCheckpoint() = %v", err)
	}

	got, err := ReadCheckpoint(ctx, path, bank)
	if err != nil {
		t.Fatalf("ReadCheckpoint() = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d hits, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Replicon != want[i].Replicon || got[i].ProteinID != want[i].ProteinID || got[i].Gene.Name != want[i].Gene.Name {
			t.Errorf("hit %d = %+v, want replicon/protein/gene matching %+v", i, got[i], want[i])
		}
	}
}

func TestReadCheckpointMissingFileIsNotExist(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "hitstream-checkpoint")
	defer cleanup()
	bank := catalog.NewGeneBank()
	_, err := ReadCheckpoint(vcontext.Background(), filepath.Join(dir, "missing.checkpoint"), bank)
	if err == nil {
		t.Fatal("ReadCheckpoint() on a missing file = nil error, want one wrapping os.IsNotExist")
	}
	if !os.IsNotExist(errors.Cause(err)) {
		t.Errorf("ReadCheckpoint() on a missing file = %v, want one wrapping os.IsNotExist", err)
	}
}
