package report

import (
	"context"
	"sort"
	"strconv"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

var bestSolutionHeader = []string{
	"replicon", "hit_id", "gene_name", "hit_pos", "model_fqn", "sys_id",
	"sys_loci", "locus_num", "sys_wholeness", "sys_score", "sys_occ",
	"hit_gene_ref", "hit_status", "hit_seq_len", "hit_i_eval", "hit_score",
	"hit_profile_cov", "hit_seq_cov", "hit_begin_match", "hit_end_match",
	"counterpart", "used_in",
}

var rejectedHeader = []string{
	"candidate_id", "replicon", "model_fqn", "cluster_id", "hit_id",
	"hit_pos", "gene_name", "function", "reasons",
}

// CommentLines returns the "#"-prefixed preamble every output file carries:
// tool version, command line, and model package version.
func CommentLines(toolVersion, commandLine, packageVersion string) []string {
	return []string{
		"# macsylib " + toolVersion,
		"# " + commandLine,
		"# model package version " + packageVersion,
	}
}

func writeHeaderAndComments(w *tsv.Writer, comments []string, header []string) error {
	for _, c := range comments {
		if err := w.WriteString(c); err != nil {
			return err
		}
		if err := w.EndLine(); err != nil {
			return err
		}
	}
	for i, h := range header {
		if i > 0 {
			if err := w.WriteByte('\t'); err != nil {
				return err
			}
		}
		if err := w.WriteString(h); err != nil {
			return err
		}
	}
	return w.EndLine()
}

func writeRow(w *tsv.Writer, r Row) error {
	fields := []string{
		r.Replicon, r.HitID, r.GeneName, strconv.Itoa(r.HitPos), r.ModelFQN,
		r.SysID, strconv.Itoa(r.SysLoci), strconv.Itoa(r.LocusNum),
		strconv.FormatFloat(r.SysWholeness, 'f', 3, 64),
		strconv.FormatFloat(r.SysScore, 'f', 3, 64),
		strconv.Itoa(r.SysOcc), r.HitGeneRef, r.HitStatus,
		strconv.Itoa(r.HitSeqLen),
		strconv.FormatFloat(r.HitIEvalue, 'g', -1, 64),
		strconv.FormatFloat(r.HitScore, 'f', 3, 64),
		strconv.FormatFloat(r.HitProfileCov, 'f', 3, 64),
		strconv.FormatFloat(r.HitSeqCov, 'f', 3, 64),
		strconv.Itoa(r.HitBeginMatch), strconv.Itoa(r.HitEndMatch),
		r.Counterpart, r.UsedIn,
	}
	return writeFields(w, fields)
}

func writeFields(w *tsv.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte('\t'); err != nil {
				return err
			}
		}
		if err := w.WriteString(f); err != nil {
			return err
		}
	}
	return w.EndLine()
}

// WriteRows writes one of the Row-shaped TSV files (best_solution.tsv,
// all_systems.tsv, best_solution_loners.tsv, best_solution_multisystems.tsv)
// through grailbio/base/file + grailbio/base/tsv, the same stack
// fusion/gene_db.go and pileup/snp/output.go use for tabular output.
func WriteRows(ctx context.Context, path string, comments []string, rows []Row) (err error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, f, &err)

	w := tsv.NewWriter(f.Writer(ctx))
	if err = writeHeaderAndComments(w, comments, bestSolutionHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err = writeRow(w, r); err != nil {
			return err
		}
	}
	return w.Flush()
}

// WriteAllBestSolutions writes all_best_solutions.tsv, whose rows are the
// same shape as WriteRows' prefixed by sol_id.
func WriteAllBestSolutions(ctx context.Context, path string, comments []string, bySolution map[string][]Row) (err error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, f, &err)

	w := tsv.NewWriter(f.Writer(ctx))
	header := append([]string{"sol_id"}, bestSolutionHeader...)
	if err = writeHeaderAndComments(w, comments, header); err != nil {
		return err
	}

	solIDs := make([]string, 0, len(bySolution))
	for id := range bySolution {
		solIDs = append(solIDs, id)
	}
	sort.Strings(solIDs)

	for _, solID := range solIDs {
		for _, r := range bySolution[solID] {
			fields := append([]string{solID},
				r.Replicon, r.HitID, r.GeneName, strconv.Itoa(r.HitPos), r.ModelFQN,
				r.SysID, strconv.Itoa(r.SysLoci), strconv.Itoa(r.LocusNum),
				strconv.FormatFloat(r.SysWholeness, 'f', 3, 64),
				strconv.FormatFloat(r.SysScore, 'f', 3, 64),
				strconv.Itoa(r.SysOcc), r.HitGeneRef, r.HitStatus,
				strconv.Itoa(r.HitSeqLen),
				strconv.FormatFloat(r.HitIEvalue, 'g', -1, 64),
				strconv.FormatFloat(r.HitScore, 'f', 3, 64),
				strconv.FormatFloat(r.HitProfileCov, 'f', 3, 64),
				strconv.FormatFloat(r.HitSeqCov, 'f', 3, 64),
				strconv.Itoa(r.HitBeginMatch), strconv.Itoa(r.HitEndMatch),
				r.Counterpart, r.UsedIn,
			)
			if err = writeFields(w, fields); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

// WriteRejected writes rejected_candidates.tsv.
func WriteRejected(ctx context.Context, path string, comments []string, rows []RejectedRow) (err error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, f, &err)

	w := tsv.NewWriter(f.Writer(ctx))
	if err = writeHeaderAndComments(w, comments, rejectedHeader); err != nil {
		return err
	}
	for _, r := range rows {
		fields := []string{
			r.CandidateID, r.Replicon, r.ModelFQN, strconv.Itoa(r.ClusterID),
			r.HitID, strconv.Itoa(r.HitPos), r.GeneName, r.Function, r.Reasons,
		}
		if err = writeFields(w, fields); err != nil {
			return err
		}
	}
	return w.Flush()
}
