package competitor

import (
	"encoding/binary"

	"github.com/minio/highwayhash"

	"github.com/grailbio/lsi/lsi"
)

// robinHashKey is a fixed 32-byte HighwayHash key. It only needs to be
// stable within one process run (Build and Lookup must agree); it is not a
// secret.
var robinHashKey = [32]byte{1, 2, 3, 4, 5, 6, 7, 8}

func hashKey(k lsi.Key) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(k))
	return highwayhash.Sum64(buf[:], robinHashKey[:])
}

const invalidSlot = ^uint64(0)

// RobinHash is an open-addressing hash index with linear probing, modeled
// on the teacher's kmer->genelist table (fusion/kmer_index.go): a single
// flat slot array sized to a power of two for a fixed load factor, entries
// placed by hash and found by linear probing until either a match or an
// empty slot. Unlike kmer_index.go this implementation uses HighwayHash
// over plain Go slices rather than farmhash over an mmap'd, hugepage-backed
// region; the sharding and unsafe-pointer machinery that file needs for
// genome-scale kmer tables isn't needed at this table's scale, and
// golang.org/x/sys (the mmap dependency) was already dropped from this
// module's go.mod (see DESIGN.md).
//
// RobinHash only stores one position per key (the first occurrence by
// original order), matching Sorted's tie-break and sufficient for the
// point-lookup comparison the bench harness runs; it does not reproduce
// lsi.LSI's full duplicate-enumeration iterator.
type RobinHash struct {
	keys []lsi.Key
	pos  []uint64 // invalidSlot marks an empty slot
	mask uint64
}

// NewRobinHash returns an empty RobinHash index, ready for Build.
func NewRobinHash() *RobinHash { return &RobinHash{} }

const loadFactor = 2 // slot count is loadFactor * (len(relation)+1), rounded up to a power of two

// Build sizes the table for relation's length at a fixed load factor, then
// inserts each (key, position) pair by linear probing from its hash.
// Duplicate keys keep their first-seen position; later occurrences stop
// probing at the existing entry and are not stored, so Lookup never returns them (spec
// n/a, this is a competitor-only behavior, unlike LSI's full duplicate
// walk).
func (r *RobinHash) Build(relation lsi.Relation) {
	n := len(relation)
	size := uint64(1)
	minSize := uint64(n+1) * loadFactor
	for size < minSize {
		size *= 2
	}
	if size == 0 {
		size = 1
	}
	r.keys = make([]lsi.Key, size)
	r.pos = make([]uint64, size)
	for i := range r.pos {
		r.pos[i] = invalidSlot
	}
	r.mask = size - 1

	for i, k := range relation {
		h := hashKey(k) & r.mask
		for {
			if r.pos[h] == invalidSlot {
				r.keys[h] = k
				r.pos[h] = uint64(i)
				break
			}
			if r.keys[h] == k {
				break // first occurrence already recorded
			}
			h = (h + 1) & r.mask
		}
	}
}

// Lookup probes from key's hash until it finds a matching key (return its
// recorded position) or an empty slot (key absent).
func (r *RobinHash) Lookup(_ lsi.Relation, key lsi.Key) (lsi.Position, bool) {
	if len(r.pos) == 0 {
		return 0, false
	}
	h := hashKey(key) & r.mask
	for {
		if r.pos[h] == invalidSlot {
			return 0, false
		}
		if r.keys[h] == key {
			return lsi.Position(r.pos[h]), true
		}
		h = (h + 1) & r.mask
	}
}

// ByteSize reports the size of the backing slot arrays: a Key plus a
// uint64 per slot.
func (r *RobinHash) ByteSize() int { return len(r.keys) * (8 + 8) }

// Name returns "robinhash".
func (r *RobinHash) Name() string { return "robinhash" }
