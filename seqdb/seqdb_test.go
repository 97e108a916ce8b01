package seqdb

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
)

func TestParseDBType(t *testing.T) {
	cases := map[string]DBType{"unordered": Unordered, "ordered_replicon": OrderedReplicon, "gembase": Gembase}
	for s, want := range cases {
		got, err := ParseDBType(s)
		if err != nil || got != want {
			t.Errorf("ParseDBType(%q) = %v, %v; want %v, nil", s, got, err, want)
		}
	}
	if _, err := ParseDBType("bogus"); err == nil {
		t.Error("ParseDBType(\"bogus\") = nil error, want error")
	}
}

func TestRepliconForGembaseExtractsPrefix(t *testing.T) {
	rep, err := RepliconFor(Gembase, "ACBA.0917.00019.i0001_00001")
	if err != nil {
		t.Fatal(err)
	}
	if want := trimGembaseSuffix("ACBA.0917.00019.i0001_00001"); rep != want {
		t.Errorf("RepliconFor(gembase) = %q, want %q", rep, want)
	}
}

func TestRepliconForGembaseRejectsIDWithoutUnderscore(t *testing.T) {
	if _, err := RepliconFor(Gembase, "noUnderscoreHere"); err == nil {
		t.Error("RepliconFor(gembase, \"noUnderscoreHere\") = nil error, want error")
	}
}

func TestRepliconForUnorderedAndOrderedAlwaysEmpty(t *testing.T) {
	for _, dt := range []DBType{Unordered, OrderedReplicon} {
		rep, err := RepliconFor(dt, "anything_001")
		if err != nil || rep != "" {
			t.Errorf("RepliconFor(%v) = %q, %v; want \"\", nil", dt, rep, err)
		}
	}
}

func TestRepliconNameFromPathStripsFASTAExtensions(t *testing.T) {
	cases := map[string]string{
		"/data/chrom1.fasta":   "chrom1",
		"/data/chrom1.fa":      "chrom1",
		"/data/chrom1.fna.gz":  "chrom1",
		"/data/plasmidA.FASTA": "plasmidA",
		"proteins":             "proteins",
	}
	for path, want := range cases {
		if got := RepliconNameFromPath(path); got != want {
			t.Errorf("RepliconNameFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestTopologyLookupDefaultsToLinear(t *testing.T) {
	topo := Topology{"rep1": 1}
	if got := topo.Lookup("rep2"); got.String() != "linear" {
		t.Errorf("Lookup(unmentioned replicon) = %v, want linear", got)
	}
}

func TestCountProteinsTalliesPerGembaseReplicon(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "seqdb")
	defer cleanup()

	fasta := "" +
		">repA_001 some protein\nMKV\n" +
		">repA_002 another\nMKL\n" +
		">repB_001 third\nMKA\n"
	path := filepath.Join(dir, "proteins.fasta")
	if err := ioutil.WriteFile(path, []byte(fasta), 0644); err != nil {
		t.Fatal(err)
	}

	ctx := vcontext.Background()
	counts, err := CountProteins(ctx, Gembase, path)
	if err != nil {
		t.Fatal(err)
	}
	if counts["repA"] != 2 || counts["repB"] != 1 {
		t.Errorf("counts = %+v, want repA:2 repB:1", counts)
	}
}

func TestCountProteinsOrderedRepliconTalliesUnderDatabaseName(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "seqdb")
	defer cleanup()

	fasta := ">p1 some protein\nMKV\n>p2 another\nMKL\n>p3 third\nMKA\n"
	path := filepath.Join(dir, "chrom1.fasta")
	if err := ioutil.WriteFile(path, []byte(fasta), 0644); err != nil {
		t.Fatal(err)
	}

	ctx := vcontext.Background()
	counts, err := CountProteins(ctx, OrderedReplicon, path)
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 1 || counts["chrom1"] != 3 {
		t.Errorf("counts = %+v, want {chrom1:3}", counts)
	}
}

func TestCountProteinsUnorderedIsAlwaysEmpty(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "seqdb")
	defer cleanup()
	path := filepath.Join(dir, "proteins.fasta")
	if err := ioutil.WriteFile(path, []byte(">p1\nMKV\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx := vcontext.Background()
	counts, err := CountProteins(ctx, Unordered, path)
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 0 {
		t.Errorf("counts = %+v, want empty map for unordered db_type", counts)
	}
}

func TestLoadTopologyParsesTabDelimitedFile(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "seqdb")
	defer cleanup()
	path := filepath.Join(dir, "topology.tsv")
	if err := ioutil.WriteFile(path, []byte("rep1\tcircular\nrep2\tlinear\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx := vcontext.Background()
	topo, err := LoadTopology(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if topo.Lookup("rep1").String() != "circular" {
		t.Errorf("Lookup(rep1) = %v, want circular", topo.Lookup("rep1"))
	}
	if topo.Lookup("rep2").String() != "linear" {
		t.Errorf("Lookup(rep2) = %v, want linear", topo.Lookup("rep2"))
	}
}
