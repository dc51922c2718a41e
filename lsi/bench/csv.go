package bench

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/klauspost/compress/flate"

	"github.com/grailbio/base/errors"

	"github.com/grailbio/lsi/lsi"
)

// SaveDatasetCSV writes relation as one decimal key per line, flate
// compressed, the same klauspost/compress flate factory
// encoding/bgzf/writer.go uses for its gzip blocks. Unlike SaveDataset's
// gob-plus-snappy binary cache (meant for this package's own round trip),
// this format is meant for interchange: a line-oriented, external-tool
// friendly dump of the generated dataset.
func SaveDatasetCSV(path string, relation lsi.Relation) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.E(err, path)
	}
	defer f.Close()

	w, err := flate.NewWriter(f, flate.DefaultCompression)
	if err != nil {
		return errors.E(err, path)
	}
	bw := bufio.NewWriter(w)
	for _, k := range relation {
		if _, err := fmt.Fprintln(bw, uint64(k)); err != nil {
			return errors.E(err, path)
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.E(err, path)
	}
	if err := w.Close(); err != nil {
		return errors.E(err, path)
	}
	return nil
}

// LoadDatasetCSV reads back a dataset written by SaveDatasetCSV.
func LoadDatasetCSV(path string) (lsi.Relation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.E(err, path)
	}
	defer f.Close()

	r := flate.NewReader(f)
	defer r.Close()

	var relation lsi.Relation
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		v, err := strconv.ParseUint(scanner.Text(), 10, 64)
		if err != nil {
			return nil, errors.E(err, path)
		}
		relation = append(relation, lsi.Key(v))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.E(err, path)
	}
	return relation, nil
}
