package seqdb

import (
	"bufio"
	"context"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/pkg/errors"
)

// CountProteins scans a FASTA sequence database and tallies, per replicon,
// how many proteins it contains. unordered has no replicon concept, so the result is always
// empty for it. ordered_replicon holds exactly one replicon per database
// file, named by RepliconNameFromPath, so every record is tallied under that
// one name rather than resolved protein by protein.
func CountProteins(ctx context.Context, dbType DBType, path string) (map[string]int, error) {
	counts := make(map[string]int)
	if dbType == Unordered {
		return counts, nil
	}

	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	defer f.Close(ctx)

	orderedName := RepliconNameFromPath(path)
	sc := bufio.NewScanner(f.Reader(ctx))
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, ">") {
			continue
		}
		if dbType == OrderedReplicon {
			counts[orderedName]++
			continue
		}
		id := strings.Fields(strings.TrimPrefix(line, ">"))[0]
		rep, err := RepliconFor(dbType, id)
		if err != nil {
			return nil, err
		}
		counts[rep]++
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return counts, nil
}
