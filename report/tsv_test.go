package report

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
)

func TestWriteRowsEmitsCommentsHeaderAndData(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "report")
	defer cleanup()
	path := filepath.Join(dir, "best_solution.tsv")

	comments := CommentLines("1.0", "macsylib --models TXSS all", "")
	rows := []Row{{Replicon: "rep1", HitID: "p1", GeneName: "geneA", HitPos: 1, ModelFQN: "TXSS/T2SS", SysID: "sys1"}}

	ctx := vcontext.Background()
	if err := WriteRows(ctx, path, comments, rows); err != nil {
		t.Fatal(err)
	}
	body, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(body), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5 (3 comments + header + 1 data row): %q", len(lines), body)
	}
	if !strings.HasPrefix(lines[0], "# macsylib 1.0") {
		t.Errorf("first line = %q, want tool version comment", lines[0])
	}
	if lines[3] != strings.Join(bestSolutionHeader, "\t") {
		t.Errorf("header line = %q, want %q", lines[3], strings.Join(bestSolutionHeader, "\t"))
	}
	if !strings.HasPrefix(lines[4], "rep1\tp1\tgeneA\t1\tTXSS/T2SS\tsys1") {
		t.Errorf("data line = %q", lines[4])
	}
}

func TestWriteRejectedEmitsOneLinePerRow(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "report")
	defer cleanup()
	path := filepath.Join(dir, "rejected_candidates.tsv")

	rows := []RejectedRow{
		{CandidateID: "rep1_TXSS/T2SS_rejected_0", Replicon: "rep1", ModelFQN: "TXSS/T2SS", Reasons: "NO_CLUSTER"},
	}
	ctx := vcontext.Background()
	if err := WriteRejected(ctx, path, nil, rows); err != nil {
		t.Fatal(err)
	}
	body, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(body), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2 (header + 1 row): %q", len(lines), body)
	}
	if !strings.Contains(lines[1], "NO_CLUSTER") {
		t.Errorf("data line = %q, want it to carry the reason", lines[1])
	}
}

func TestWriteAllBestSolutionsPrefixesEachRowWithSolutionID(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "report")
	defer cleanup()
	path := filepath.Join(dir, "all_best_solutions.tsv")

	bySolution := map[string][]Row{
		"sol_0": {{Replicon: "rep1", HitID: "p1", ModelFQN: "TXSS/T2SS"}},
	}
	ctx := vcontext.Background()
	if err := WriteAllBestSolutions(ctx, path, nil, bySolution); err != nil {
		t.Fatal(err)
	}
	body, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "sol_0\trep1\tp1") {
		t.Errorf("body = %q, want a data row prefixed with sol_0", body)
	}
}
