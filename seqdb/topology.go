package seqdb

import (
	"context"
	"encoding/csv"

	"github.com/gem-pasteur/macsylib/replicon"
	"github.com/grailbio/base/file"
	"github.com/pkg/errors"
)

// LoadTopology parses a topology file: tab-delimited lines of
// `<replicon>\t<linear|circular>`, using the standard library's
// encoding/csv (no ecosystem CSV/TSV parsing library is needed for a
// two-column format). Lines starting with '#' are skipped as comments.
func LoadTopology(ctx context.Context, path string) (topo Topology, err error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	defer file.CloseAndReport(ctx, f, &err)

	r := csv.NewReader(f.Reader(ctx))
	r.Comma = '\t'
	r.FieldsPerRecord = 2
	r.Comment = '#'

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, path)
	}

	topo = make(Topology, len(records))
	for _, rec := range records {
		t, err := replicon.ParseTopology(rec[1])
		if err != nil {
			return nil, errors.Wrap(err, path)
		}
		topo[rec[0]] = t
	}
	return topo, nil
}
