package report

import (
	"bufio"
	"context"
	"fmt"
	"sort"

	"github.com/grailbio/base/file"
)

// WriteText renders the human-readable counterpart of a Row-shaped TSV
// file: one block per system, fields as "key: value" lines, blank line
// separated. Uses direct io.Writer calls, the same style as writeFASTA in
// cmd/bio-fusion/main.go, rather than a templating library.
func WriteText(ctx context.Context, path string, comments []string, bySystem map[string][]Row) (err error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, f, &err)

	w := bufio.NewWriter(f.Writer(ctx))
	for _, c := range comments {
		if _, err = fmt.Fprintln(w, c); err != nil {
			return err
		}
	}

	sysIDs := sortedKeys(bySystem)
	for i, sysID := range sysIDs {
		if i > 0 {
			if _, err = fmt.Fprintln(w); err != nil {
				return err
			}
		}
		rows := bySystem[sysID]
		if len(rows) == 0 {
			continue
		}
		head := rows[0]
		if _, err = fmt.Fprintf(w, "system id: %s\n", head.SysID); err != nil {
			return err
		}
		if _, err = fmt.Fprintf(w, "model: %s\n", head.ModelFQN); err != nil {
			return err
		}
		if _, err = fmt.Fprintf(w, "replicon: %s\n", head.Replicon); err != nil {
			return err
		}
		if _, err = fmt.Fprintf(w, "loci: %d\n", head.SysLoci); err != nil {
			return err
		}
		if _, err = fmt.Fprintf(w, "wholeness: %.3f\n", head.SysWholeness); err != nil {
			return err
		}
		if _, err = fmt.Fprintf(w, "score: %.3f\n", head.SysScore); err != nil {
			return err
		}
		if _, err = fmt.Fprintf(w, "occurrence: %d\n", head.SysOcc); err != nil {
			return err
		}
		for _, r := range rows {
			if _, err = fmt.Fprintf(w, "  %s\t%s\t%d\t%s\tlocus=%d\n", r.HitID, r.GeneName, r.HitPos, r.HitStatus, r.LocusNum); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

// WriteRejectedText is rejected_candidates.txt's counterpart.
func WriteRejectedText(ctx context.Context, path string, comments []string, byCandidate map[string][]RejectedRow) (err error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, f, &err)

	w := bufio.NewWriter(f.Writer(ctx))
	for _, c := range comments {
		if _, err = fmt.Fprintln(w, c); err != nil {
			return err
		}
	}

	ids := sortedKeysRejected(byCandidate)
	for i, id := range ids {
		if i > 0 {
			if _, err = fmt.Fprintln(w); err != nil {
				return err
			}
		}
		rows := byCandidate[id]
		if len(rows) == 0 {
			continue
		}
		if _, err = fmt.Fprintf(w, "candidate id: %s\n", rows[0].CandidateID); err != nil {
			return err
		}
		if _, err = fmt.Fprintf(w, "model: %s\n", rows[0].ModelFQN); err != nil {
			return err
		}
		if _, err = fmt.Fprintf(w, "reasons: %s\n", rows[0].Reasons); err != nil {
			return err
		}
		for _, r := range rows {
			if r.HitID == "" {
				continue
			}
			if _, err = fmt.Fprintf(w, "  %s\t%s\t%d\n", r.HitID, r.GeneName, r.HitPos); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

func sortedKeys(m map[string][]Row) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeysRejected(m map[string][]RejectedRow) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
