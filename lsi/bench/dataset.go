// Package bench generates synthetic base relations and probe sets, and
// drives a benchmark harness comparing lsi.LSI against the conventional
// indexes in lsi/bench/competitor. None of this package is needed to build
// or query an LSI; it exists to exercise and measure the index the way
// spec §8's scenario list (S1-S6) describes, the way a learned-index paper
// or the teacher's own cmd/bio-pamtool benchmarking tools would.
package bench

import (
	"math/rand"
	"sort"

	"github.com/grailbio/lsi/lsi"
)

// Scenario names a synthetic key distribution, mirroring spec §8's S1-S3
// base-relation shapes.
type Scenario int

const (
	// Sequential lays out 0..n-1 in a random permutation: every key is
	// unique, and the learned model's line is closest to exact (spec S1).
	Sequential Scenario = iota
	// Duplicates repeats each of n/groupSize distinct keys groupSize
	// times, in a random order, so lookups must walk duplicate runs
	// (spec S2).
	Duplicates
	// Sparse spreads n keys out over a much larger key space with gaps,
	// exercising lower-bound lookups that land between indexed keys
	// (spec S3).
	Sparse
)

// GenerateDataset returns a random, unsorted relation of n keys shaped by
// scenario. rng must be supplied by the caller so results are
// reproducible; the tests in bench_test.go all pass
// rand.New(rand.NewSource(42)).
func GenerateDataset(scenario Scenario, n int, rng *rand.Rand) lsi.Relation {
	switch scenario {
	case Duplicates:
		return generateDuplicates(n, rng)
	case Sparse:
		return generateSparse(n, rng)
	default:
		return generateSequential(n, rng)
	}
}

func generateSequential(n int, rng *rand.Rand) lsi.Relation {
	relation := make(lsi.Relation, n)
	for i := range relation {
		relation[i] = lsi.Key(i)
	}
	rng.Shuffle(n, func(i, j int) { relation[i], relation[j] = relation[j], relation[i] })
	return relation
}

const duplicateGroupSize = 8

func generateDuplicates(n int, rng *rand.Rand) lsi.Relation {
	relation := make(lsi.Relation, n)
	for i := range relation {
		relation[i] = lsi.Key(i / duplicateGroupSize)
	}
	rng.Shuffle(n, func(i, j int) { relation[i], relation[j] = relation[j], relation[i] })
	return relation
}

const sparseSpread = 1000

func generateSparse(n int, rng *rand.Rand) lsi.Relation {
	seen := make(map[lsi.Key]bool, n)
	relation := make(lsi.Relation, 0, n)
	for len(relation) < n {
		k := lsi.Key(rng.Intn(n * sparseSpread))
		if seen[k] {
			continue
		}
		seen[k] = true
		relation = append(relation, k)
	}
	return relation
}

// GenerateProbes returns a set of nProbes keys to look up against
// relation. hitFraction (0..1) controls what fraction are drawn from
// relation itself (guaranteed hits); the remainder are keys greater than
// every key in relation, so they are always misses.
func GenerateProbes(relation lsi.Relation, nProbes int, hitFraction float64, rng *rand.Rand) []lsi.Key {
	probes := make([]lsi.Key, nProbes)
	if len(relation) == 0 {
		return probes
	}
	maxKey := maxOf(relation)
	nHits := int(float64(nProbes) * hitFraction)
	for i := 0; i < nProbes; i++ {
		if i < nHits {
			probes[i] = relation[rng.Intn(len(relation))]
		} else {
			probes[i] = maxKey + 1 + lsi.Key(rng.Intn(nProbes+1))
		}
	}
	rng.Shuffle(len(probes), func(i, j int) { probes[i], probes[j] = probes[j], probes[i] })
	return probes
}

func maxOf(relation lsi.Relation) lsi.Key {
	max := relation[0]
	for _, k := range relation[1:] {
		if k > max {
			max = k
		}
	}
	return max
}

// SortedKeys returns a copy of relation's distinct keys in ascending
// order, useful for generating lower-bound probe targets that are known
// to fall strictly between two indexed keys.
func SortedKeys(relation lsi.Relation) []lsi.Key {
	keys := append(lsi.Relation(nil), relation...)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	distinct := keys[:0]
	for _, k := range keys {
		if len(distinct) == 0 || distinct[len(distinct)-1] != k {
			distinct = append(distinct, k)
		}
	}
	return distinct
}
