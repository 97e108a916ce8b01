package hitstream

import (
	"bytes"
	"context"
	"encoding/gob"

	"github.com/gem-pasteur/macsylib/catalog"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/recordio"
	"github.com/grailbio/base/recordio/recordiozstd"
	"github.com/pkg/errors"
)

// checkpointVersionHeader/Value identify the on-disk format, the same
// versioning idiom cmd/bio-fusion/io.go uses for its recordio dumps.
const (
	checkpointVersionHeader = "macsylib.hitstream.version"
	checkpointVersion       = "HITSTREAM_V1"
)

// wireHit is Hit with its CoreGene replaced by (family, name) so the
// checkpoint doesn't need to serialise pointer identity; genes are
// re-interned into the caller's GeneBank on read.
type wireHit struct {
	Replicon                             string
	Position                             int
	ProteinID                            string
	Family, GeneName                     string
	IEvalue, Score, ProfileCov, SeqCov    float64
	SeqLength, MatchBegin, MatchEnd      int
}

// WriteCheckpoint dumps the parsed Hits (before threshold filtering) to path
// as a zstd-compressed recordio file, so a later run can resume without
// re-running the HMM searches or re-reading their reports. The pattern mirrors cmd/bio-fusion/io.go's fusionWriter.
func WriteCheckpoint(ctx context.Context, path string, hits []Hit) error {
	recordiozstd.Init()
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.Wrap(err, path)
	}
	w := recordio.NewWriter(out.Writer(ctx), recordio.WriterOpts{
		Transformers: []string{recordiozstd.Name},
	})
	w.AddHeader(checkpointVersionHeader, checkpointVersion)
	for _, h := range hits {
		b := bytes.NewBuffer(nil)
		wh := wireHit{
			Replicon: h.Replicon, Position: h.Position, ProteinID: h.ProteinID,
			Family: h.Gene.Family, GeneName: h.Gene.Name,
			IEvalue: h.IEvalue, Score: h.Score, ProfileCov: h.ProfileCoverage, SeqCov: h.SequenceCoverage,
			SeqLength: h.SeqLength, MatchBegin: h.MatchBegin, MatchEnd: h.MatchEnd,
		}
		if err := gob.NewEncoder(b).Encode(wh); err != nil {
			return errors.Wrap(err, path)
		}
		w.Append(b.Bytes())
	}
	if err := w.Finish(); err != nil {
		return errors.Wrap(err, path)
	}
	return errors.Wrap(out.Close(ctx), path)
}

// ReadCheckpoint reverses WriteCheckpoint, re-interning each hit's gene into
// bank (which must already know every gene referenced in the checkpoint;
// callers load the Catalog before resuming from a checkpoint).
func ReadCheckpoint(ctx context.Context, path string, bank *catalog.GeneBank) ([]Hit, error) {
	recordiozstd.Init()
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	defer in.Close(ctx)

	r := recordio.NewScanner(in.Reader(ctx), recordio.ScannerOpts{})
	var hits []Hit
	for r.Scan() {
		var wh wireHit
		if err := gob.NewDecoder(bytes.NewReader(r.Get().([]byte))).Decode(&wh); err != nil {
			return nil, errors.Wrap(err, path)
		}
		gene, err := bank.Intern(wh.Family, wh.GeneName, "")
		if err != nil {
			return nil, errors.Wrap(err, path)
		}
		hits = append(hits, Hit{
			Replicon: wh.Replicon, Position: wh.Position, ProteinID: wh.ProteinID, Gene: gene,
			IEvalue: wh.IEvalue, Score: wh.Score, ProfileCoverage: wh.ProfileCov, SequenceCoverage: wh.SeqCov,
			SeqLength: wh.SeqLength, MatchBegin: wh.MatchBegin, MatchEnd: wh.MatchEnd,
		})
	}
	return hits, errors.Wrap(r.Err(), path)
}
