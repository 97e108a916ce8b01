// Package seqdb resolves a replicon name and topology for every protein in
// the sequence database, per the db_type rules.
package seqdb

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gem-pasteur/macsylib/replicon"
)

// DBType is the db_type enumeration.
type DBType int

const (
	Unordered DBType = iota
	OrderedReplicon
	Gembase
)

func ParseDBType(s string) (DBType, error) {
	switch s {
	case "unordered":
		return Unordered, nil
	case "ordered_replicon":
		return OrderedReplicon, nil
	case "gembase":
		return Gembase, nil
	default:
		return Unordered, fmt.Errorf("seqdb: unknown db_type %q", s)
	}
}

// gembaseProteinRE extracts the replicon-name prefix from a gembase protein
// ID: everything up to (not including) the last underscore, the same
// prefix-up-to-a-delimiter idiom fusion/gene_db.go uses for transcriptome
// keys (transcriptomeRefRE), adapted to gembase's simpler "prefix_suffix"
// scheme instead of a pipe-delimited composite key.
var gembaseProteinRE = regexp.MustCompile(`^(.+)_[^_]+$`)

// orderedRepliconSuffixRE strips the common FASTA extensions (optionally
// gzipped) from a sequence database path to recover its bare name.
var orderedRepliconSuffixRE = regexp.MustCompile(`(?i)\.(fasta|fa|fna|faa)(\.gz)?$`)

// RepliconNameFromPath derives the replicon name for an ordered_replicon
// sequence database: one FASTA file holds exactly one replicon's proteins in
// genomic order, so the replicon takes the file's own base name, stripped of
// its FASTA (and optional .gz) extension.
func RepliconNameFromPath(path string) string {
	base := filepath.Base(path)
	return orderedRepliconSuffixRE.ReplaceAllString(base, "")
}

// RepliconFor returns the replicon name a protein ID belongs to, for the
// given db_type. unordered has no replicon concept and always returns "".
// ordered_replicon also returns "": a protein ID alone carries no replicon
// information in that layout, since every protein in the database belongs to
// the single replicon named by RepliconNameFromPath.
func RepliconFor(dbType DBType, proteinID string) (string, error) {
	switch dbType {
	case Unordered:
		return "", nil
	case OrderedReplicon:
		return "", nil
	case Gembase:
		m := gembaseProteinRE.FindStringSubmatch(proteinID)
		if m == nil {
			return "", fmt.Errorf("seqdb: gembase protein id %q has no replicon prefix", proteinID)
		}
		return m[1], nil
	default:
		return "", fmt.Errorf("seqdb: unhandled db_type %d", dbType)
	}
}

// Topology maps a replicon name to its declared topology, loaded from the
// optional topology file: lines of `<replicon>\t<linear|circular>`.
type Topology map[string]replicon.Topology

// Lookup returns the declared topology for name, defaulting to Linear when
// the topology file didn't mention it.
func (t Topology) Lookup(name string) replicon.Topology {
	if topo, ok := t[name]; ok {
		return topo
	}
	return replicon.Linear
}

// trimGembaseSuffix is used by tests to sanity-check RepliconFor against
// hand-constructed protein IDs without a regexp round-trip.
func trimGembaseSuffix(proteinID string) string {
	idx := strings.LastIndexByte(proteinID, '_')
	if idx < 0 {
		return proteinID
	}
	return proteinID[:idx]
}
