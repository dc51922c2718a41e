// Package lsi implements a learned secondary index: a read-only index that
// accelerates equality and lower-bound lookups over an unsorted base array
// of keys without physically reordering it. See spec §1-§2 for the overall
// design; this file orchestrates the three core subsystems (BitPackedLane
// via PermVector, the model-bounded search in search.go, and the build
// pipeline below).
package lsi

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/grailbio/base/log"
)

// Config holds the build-time parameters of an LSI that are independent of
// the Model (spec §4.2, §4.5, §9).
type Config struct {
	// Fingerprint configures the per-rank fingerprint lane. The zero value
	// (width 0) disables fingerprinting entirely.
	Fingerprint Fingerprinter

	// ForceLinear forces linear-with-fingerprints-style search even when
	// fingerprinting is disabled. Spec §9 calls this out as a
	// compile-time branch in the source; here it's a runtime field
	// checked once per Lookup, outside the inner loop, never inside it.
	ForceLinear bool
}

// LSI is a learned secondary index generic over a CDF Model. The type
// parameter lets Predict monomorphize on the lookup hot path instead of
// going through an interface call on every comparison (spec §9).
//
// An LSI is created empty by New, populated by exactly one call to Fit,
// then queried read-only by Lookup (spec §3 "Lifecycle"). After Fit
// returns, the only mutable state is the two debug counters, which are
// interior-mutable atomics so that Lookup can remain logically read-only
// while still being safe for concurrent callers (spec §5, §9).
type LSI[M Model] struct {
	cfg   Config
	model M

	n        int
	pv       PermVector
	maxError int64

	baseAccesses          atomic.Int64
	falsePositiveAccesses atomic.Int64
}

// New constructs an empty LSI around the given Model instance and
// configuration. It performs no allocation (spec §6 "construct").
func New[M Model](model M, cfg Config) *LSI[M] {
	if cfg.Fingerprint.bits > maxFingerprintBits {
		log.Panicf("lsi: fingerprint width %d exceeds %d bits", cfg.Fingerprint.bits, maxFingerprintBits)
	}
	return &LSI[M]{model: model, cfg: cfg}
}

// Fit builds the index from relation, which becomes the base relation for
// every subsequent Lookup. Fit is idempotent-replace: calling it again
// rebuilds the index from scratch and invalidates every iterator obtained
// before the call (spec §4.4, §4.6).
//
// Fit runs in O(N log N) time and O(N) auxiliary memory: it stably sorts
// an auxiliary (key, original position) buffer by key, builds the
// PermVector from it, trains the model on the sorted key sequence, then
// walks the sorted buffer once more to measure the max prediction error
// against each key's first (lower-bound) rank (spec §4.4).
func (l *LSI[M]) Fit(relation Relation) {
	n := len(relation)
	entries := make([]permEntry, n)
	for i, k := range relation {
		entries[i] = permEntry{key: k, pos: Position(i)}
	}
	// sort.SliceStable preserves the original ascending-position order of
	// equal keys, which is exactly spec §3's tie-break rule, without
	// needing an explicit secondary comparison on pos.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})

	l.n = n
	l.pv = buildPermVector(entries, l.cfg.Fingerprint)

	sortedKeys := make([]Key, n)
	for i, e := range entries {
		sortedKeys[i] = e.key
	}
	l.model.Train(sortedKeys)

	var maxError int64
	var currentLB int
	for j, e := range entries {
		if j == 0 || e.key != entries[j-1].key {
			currentLB = j
		}
		pred := l.model.Predict(e.key)
		err := pred - int64(currentLB)
		if err < 0 {
			err = -err
		}
		if err > maxError {
			maxError = err
		}
	}
	l.maxError = maxError

	l.baseAccesses.Store(0)
	l.falsePositiveAccesses.Store(0)
}

// predictInterval returns the clamped, saturating search interval [lo, hi)
// for key k, per spec §4.5.
func (l *LSI[M]) predictInterval(k Key) (lo, hi int) {
	pred := l.model.Predict(k)
	loU := saturatingSub(pred, l.maxError)
	hiU := pred + l.maxError + 1
	if hiU < 0 {
		hiU = 0
	}
	if hiU > int64(l.n) {
		hiU = int64(l.n)
	}
	if loU > hiU {
		loU = hiU
	}
	return int(loU), int(hiU)
}

// Lookup finds k in relation, which must be the same range passed to Fit.
// When lowerBound is false it performs an equality lookup: the returned
// iterator dereferences to a position holding exactly k, and End() signals
// "not found". When lowerBound is true it returns an iterator at the first
// position whose relation value is >= k, or End() if k is greater than
// every indexed key (spec §4.5).
func (l *LSI[M]) Lookup(relation Relation, k Key, lowerBound bool) Iterator[M] {
	if l.n == 0 {
		return l.End()
	}

	lo, hi := l.predictInterval(k)
	useLinear := l.cfg.Fingerprint.Enabled() || l.cfg.ForceLinear

	var i int
	if useLinear {
		// Fingerprints are only meaningful for equality; a lower-bound
		// scan must not skip ranks whose key differs from k, since those
		// ranks still matter for ordering (spec §4.5).
		useFingerprint := l.cfg.Fingerprint.Enabled() && !lowerBound
		i = l.linearSearch(relation, k, lo, hi, useFingerprint)
		if lowerBound {
			i = l.completionWalk(relation, k, i)
		} else if i >= l.n || l.readBase(relation, i) != k {
			// When the bounded scan exhausts without reaching a value
			// >= k, i == hi here, and this check reads one rank past
			// the interval the model predicted. That is only safe
			// because of the model-error invariant (spec §8 property
			// 6).
			return l.End()
		}
	} else {
		i = l.binarySearchLowerBound(relation, k, lo, hi)
		i = l.completionWalk(relation, k, i)
		if !lowerBound && (i >= l.n || l.readBase(relation, i) != k) {
			return l.End()
		}
	}
	return Iterator[M]{lsi: l, rank: i}
}

// Begin returns an iterator at rank 0.
func (l *LSI[M]) Begin() Iterator[M] { return Iterator[M]{lsi: l, rank: 0} }

// End returns the sentinel "not found" / past-the-end iterator, at rank N.
func (l *LSI[M]) End() Iterator[M] { return Iterator[M]{lsi: l, rank: l.n} }

// ByteSize returns the self-reported total memory footprint of the index:
// the model plus the PermVector (spec §6).
func (l *LSI[M]) ByteSize() int { return l.ModelByteSize() + l.PermVectorByteSize() }

// ModelByteSize returns the model's self-reported serialized size.
func (l *LSI[M]) ModelByteSize() int { return l.model.ByteSize() }

// PermVectorByteSize returns the PermVector's backing buffer size.
func (l *LSI[M]) PermVectorByteSize() int { return l.pv.ByteSize() }

// BaseDataAccesses returns the running count of reads of the base
// relation performed by Lookup calls since the last Fit. It is an atomic
// counter, so concurrent lookups all add to the same total (spec §4.5, §5,
// §9).
func (l *LSI[M]) BaseDataAccesses() int64 { return l.baseAccesses.Load() }

// FalsePositiveAccesses returns the running count of base-relation reads
// that turned out to be too small (candidates the model interval included
// but weren't the answer). It is only incremented on the linear-search
// path; the binary-search path never touches it, so its meaning depends on
// the search mode (spec §9).
func (l *LSI[M]) FalsePositiveAccesses() int64 { return l.falsePositiveAccesses.Load() }

// Name returns a human-readable string encoding the model name,
// fingerprint width, and forced-linear flag (spec §6).
func (l *LSI[M]) Name() string {
	linear := l.cfg.Fingerprint.Enabled() || l.cfg.ForceLinear
	return fmt.Sprintf("LSI[model=%s,fingerprint=%d,linear=%v]", l.model.Name(), l.cfg.Fingerprint.Bits(), linear)
}
