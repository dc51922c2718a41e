package bench

import (
	"encoding/binary"

	"blainsmith.com/go/seahash"

	"github.com/grailbio/lsi/lsi"
)

// DatasetChecksum folds every key's (position, value) pair into a running
// seahash, the same accumulate-then-Sum64 pattern cmd/bio-pamtool's
// checksum command uses to checksum BAM records field by field. It is used
// by the dataset cache (cache.go) to detect a stale or corrupted cache
// entry, and is handy in ad hoc benchmark scripts to confirm two runs saw
// the same relation.
func DatasetChecksum(relation lsi.Relation) uint64 {
	h := seahash.New()
	var buf [16]byte
	for i, k := range relation {
		binary.LittleEndian.PutUint64(buf[0:8], uint64(i))
		binary.LittleEndian.PutUint64(buf[8:16], uint64(k))
		h.Write(buf[:])
	}
	return h.Sum64()
}
