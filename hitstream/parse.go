package hitstream

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gem-pasteur/macsylib/catalog"
	"github.com/grailbio/base/file"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// Record order in a per-gene HMM report:
//
//	replicon  position  protein_id  i_evalue  score  profile_coverage  sequence_coverage  seq_length  match_begin  match_end
//
// Lines beginning with '#' are comments and are skipped, the same
// convention package report uses on output.
const numFields = 10

// ParseReport reads one gene's HMM report from path (optionally
// gzip-compressed, detected by a ".gz" suffix) and returns every parsed
// Hit, in file order, bound to gene.
func ParseReport(ctx context.Context, path string, gene *catalog.CoreGene) ([]Hit, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	defer f.Close(ctx)

	var r io.Reader = f.Reader(ctx)
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, path)
		}
		defer gz.Close()
		r = gz
	}
	return parse(r, path, gene)
}

func parse(r io.Reader, path string, gene *catalog.CoreGene) ([]Hit, error) {
	var hits []Hit
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != numFields {
			return nil, fmt.Errorf("%s:%d: expected %d tab-separated fields, got %d", path, lineNo, numFields, len(fields))
		}
		h, err := parseFields(fields, gene)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %v", path, lineNo, err)
		}
		hits = append(hits, h)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return hits, nil
}

func parseFields(f []string, gene *catalog.CoreGene) (Hit, error) {
	pos, err := strconv.Atoi(f[1])
	if err != nil {
		return Hit{}, fmt.Errorf("position: %v", err)
	}
	iEvalue, err := strconv.ParseFloat(f[3], 64)
	if err != nil {
		return Hit{}, fmt.Errorf("i_evalue: %v", err)
	}
	score, err := strconv.ParseFloat(f[4], 64)
	if err != nil {
		return Hit{}, fmt.Errorf("score: %v", err)
	}
	profCov, err := strconv.ParseFloat(f[5], 64)
	if err != nil {
		return Hit{}, fmt.Errorf("profile_coverage: %v", err)
	}
	seqCov, err := strconv.ParseFloat(f[6], 64)
	if err != nil {
		return Hit{}, fmt.Errorf("sequence_coverage: %v", err)
	}
	seqLen, err := strconv.Atoi(f[7])
	if err != nil {
		return Hit{}, fmt.Errorf("seq_length: %v", err)
	}
	matchBegin, err := strconv.Atoi(f[8])
	if err != nil {
		return Hit{}, fmt.Errorf("match_begin: %v", err)
	}
	matchEnd, err := strconv.Atoi(f[9])
	if err != nil {
		return Hit{}, fmt.Errorf("match_end: %v", err)
	}
	return Hit{
		Replicon:         f[0],
		Position:         pos,
		ProteinID:        f[2],
		Gene:             gene,
		IEvalue:          iEvalue,
		Score:            score,
		ProfileCoverage:  profCov,
		SequenceCoverage: seqCov,
		SeqLength:        seqLen,
		MatchBegin:       matchBegin,
		MatchEnd:         matchEnd,
	}, nil
}
