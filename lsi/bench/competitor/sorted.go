package competitor

import (
	"sort"

	"github.com/grailbio/lsi/lsi"
)

// Sorted is a conventional sorted-array index: Build copies (key, position)
// pairs out of the relation, stably sorts them by key, and Lookup binary
// searches the result with sort.Search. It stands in for the B-tree leaf
// layer that learned-index papers compare against; the asymptotics are the
// same (O(log N) comparisons per lookup, O(N) extra storage) without the
// internal-node overhead a real B-tree would add.
type Sorted struct {
	entries []sortedEntry
}

type sortedEntry struct {
	key lsi.Key
	pos lsi.Position
}

// NewSorted returns an empty Sorted index, ready for Build.
func NewSorted() *Sorted { return &Sorted{} }

// Build sorts a copy of relation's (key, position) pairs by key, breaking
// ties by original position so the first occurrence of a duplicated key is
// always the one Lookup returns.
func (s *Sorted) Build(relation lsi.Relation) {
	entries := make([]sortedEntry, len(relation))
	for i, k := range relation {
		entries[i] = sortedEntry{key: k, pos: lsi.Position(i)}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	s.entries = entries
}

// Lookup returns the position of the first occurrence of key, if present.
func (s *Sorted) Lookup(_ lsi.Relation, key lsi.Key) (lsi.Position, bool) {
	i := sort.Search(len(s.entries), func(i int) bool { return s.entries[i].key >= key })
	if i >= len(s.entries) || s.entries[i].key != key {
		return 0, false
	}
	return s.entries[i].pos, true
}

// ByteSize reports the size of the sorted (key, position) array: two
// uint64-sized fields per entry.
func (s *Sorted) ByteSize() int { return len(s.entries) * 16 }

// Name returns "sorted".
func (s *Sorted) Name() string { return "sorted" }
