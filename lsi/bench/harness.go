package bench

import (
	"time"

	"github.com/grailbio/lsi/lsi"
	"github.com/grailbio/lsi/lsi/bench/competitor"
)

// Result summarizes one index's performance against one probe set.
type Result struct {
	Name                  string
	ByteSize              int
	NanosPerLookup        float64
	Hits                  int
	Misses                int
	BaseDataAccesses      int64 // 0 for competitor indexes, which don't track it
	FalsePositiveAccesses int64 // 0 for competitor indexes
}

// RunCompetitor builds index from relation and times a Lookup for every
// key in probes, reporting aggregate timing and hit/miss counts.
func RunCompetitor(index competitor.Index, relation lsi.Relation, probes []lsi.Key) Result {
	index.Build(relation)

	start := time.Now()
	var hits, misses int
	for _, k := range probes {
		if _, ok := index.Lookup(relation, k); ok {
			hits++
		} else {
			misses++
		}
	}
	elapsed := time.Since(start)

	return Result{
		Name:           index.Name(),
		ByteSize:       index.ByteSize(),
		NanosPerLookup: nanosPerOp(elapsed, len(probes)),
		Hits:           hits,
		Misses:         misses,
	}
}

// RunLSI times an equality Lookup for every key in probes against an
// already-fitted LSI, reporting the same aggregate stats as
// RunCompetitor plus the two debug counters spec §4.5/§9 define.
func RunLSI[M lsi.Model](index *lsi.LSI[M], relation lsi.Relation, probes []lsi.Key) Result {
	start := time.Now()
	var hits, misses int
	for _, k := range probes {
		if index.Lookup(relation, k, false).Valid() {
			hits++
		} else {
			misses++
		}
	}
	elapsed := time.Since(start)

	return Result{
		Name:                  index.Name(),
		ByteSize:              index.ByteSize(),
		NanosPerLookup:        nanosPerOp(elapsed, len(probes)),
		Hits:                  hits,
		Misses:                misses,
		BaseDataAccesses:      index.BaseDataAccesses(),
		FalsePositiveAccesses: index.FalsePositiveAccesses(),
	}
}

func nanosPerOp(elapsed time.Duration, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(elapsed.Nanoseconds()) / float64(n)
}
