package bench

import (
	"bufio"
	"encoding/gob"
	"io"
	"os"

	"github.com/golang/snappy"

	"github.com/grailbio/base/errors"

	"github.com/grailbio/lsi/lsi"
)

// datasetCacheMagic and datasetCacheVersion identify this package's cache
// file format, the same magic-plus-version-string idiom
// encoding/pam/pamutil.ShardIndexMagic/DefaultVersion use to guard against
// loading a stale or foreign index file.
const (
	datasetCacheMagic   = uint64(0x4c5349444154415f) // "LSIDATA_" as bytes
	datasetCacheVersion = "LSICACHE1"
)

// datasetCacheHeader is gob-encoded at the start of a cache file; the
// snappy-compressed key stream follows it.
type datasetCacheHeader struct {
	Magic    uint64
	Version  string
	N        int
	Checksum uint64
}

// SaveDataset writes relation to path as a snappy-compressed cache file,
// the same snappy.NewBufferedWriter idiom
// encoding/bampair/disk_mate_shard.go uses for its distant-mate shard
// files. A header carrying the dataset's seahash checksum (checksum.go)
// lets LoadDataset detect a mismatched or corrupted cache.
func SaveDataset(path string, relation lsi.Relation) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.E(err, path)
	}
	defer f.Close()

	header := datasetCacheHeader{
		Magic:    datasetCacheMagic,
		Version:  datasetCacheVersion,
		N:        len(relation),
		Checksum: DatasetChecksum(relation),
	}
	if err := gob.NewEncoder(f).Encode(header); err != nil {
		return errors.E(err, path)
	}

	w := snappy.NewBufferedWriter(f)
	enc := gob.NewEncoder(w)
	if err := enc.Encode([]lsi.Key(relation)); err != nil {
		return errors.E(err, path)
	}
	if err := w.Close(); err != nil {
		return errors.E(err, path)
	}
	return nil
}

// LoadDataset reads back a relation written by SaveDataset, verifying the
// header's magic, version, and checksum before returning it.
func LoadDataset(path string) (lsi.Relation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.E(err, path)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var header datasetCacheHeader
	if err := gob.NewDecoder(r).Decode(&header); err != nil {
		return nil, errors.E(err, path)
	}
	if header.Magic != datasetCacheMagic {
		return nil, errors.Errorf("bench: bad cache magic in %s", path)
	}
	if header.Version != datasetCacheVersion {
		return nil, errors.Errorf("bench: unsupported cache version %q in %s", header.Version, path)
	}

	sr := snappy.NewReader(r)
	var keys []lsi.Key
	if err := gob.NewDecoder(sr).Decode(&keys); err != nil && err != io.EOF {
		return nil, errors.E(err, path)
	}
	relation := lsi.Relation(keys)
	if len(relation) != header.N {
		return nil, errors.Errorf("bench: cache %s: header says %d keys, got %d", path, header.N, len(relation))
	}
	if got := DatasetChecksum(relation); got != header.Checksum {
		return nil, errors.Errorf("bench: cache %s: checksum mismatch (want %x, got %x)", path, header.Checksum, got)
	}
	return relation, nil
}
