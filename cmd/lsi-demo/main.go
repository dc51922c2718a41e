// lsi-demo builds a learned secondary index over a synthetic dataset and
// reports its size and lookup behavior, in the same small single-purpose
// cmd/* shape as the teacher's cmd/bio-bam-gindex.
package main

import (
	"flag"
	"fmt"
	"math/rand"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/grailbio/lsi/lsi"
	"github.com/grailbio/lsi/lsi/bench"
	"github.com/grailbio/lsi/lsi/model"
)

var (
	n           = flag.Int("n", 1000000, "number of keys in the synthetic base relation")
	scenario    = flag.String("scenario", "sequential", "one of: sequential, duplicates, sparse")
	maxSegError = flag.Int64("max-seg-error", 64, "max rank error per piecewise segment (0 uses a single-line linear model)")
	fingerprint = flag.Uint("fingerprint-bits", 8, "fingerprint width in bits (0 disables fingerprinting)")
	nProbes     = flag.Int("probes", 10000, "number of probe keys to look up")
	seed        = flag.Int64("seed", 42, "RNG seed for dataset and probe generation")
)

func parseScenario(s string) bench.Scenario {
	switch s {
	case "duplicates":
		return bench.Duplicates
	case "sparse":
		return bench.Sparse
	default:
		return bench.Sequential
	}
}

func main() {
	shutdown := grail.Init()
	defer shutdown()
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	relation := bench.GenerateDataset(parseScenario(*scenario), *n, rng)
	probes := bench.GenerateProbes(relation, *nProbes, 0.8, rng)

	cfg := lsi.Config{Fingerprint: lsi.NewFingerprinter(*fingerprint)}

	if *maxSegError > 0 {
		index := lsi.New(model.NewPiecewise(*maxSegError), cfg)
		runDemo(index, relation, probes)
		return
	}
	index := lsi.New(model.NewLinear(), cfg)
	runDemo(index, relation, probes)
}

func runDemo[M lsi.Model](index *lsi.LSI[M], relation lsi.Relation, probes []lsi.Key) {
	log.Printf("fitting %s over %d keys", index.Name(), len(relation))
	index.Fit(relation)

	result := bench.RunLSI(index, relation, probes)
	fmt.Printf("index:                  %s\n", result.Name)
	fmt.Printf("byte size:              %d (model %d, permvector %d)\n",
		index.ByteSize(), index.ModelByteSize(), index.PermVectorByteSize())
	fmt.Printf("probes:                 %d (%d hits, %d misses)\n", len(probes), result.Hits, result.Misses)
	fmt.Printf("ns/lookup:              %.1f\n", result.NanosPerLookup)
	fmt.Printf("base data accesses:     %d\n", result.BaseDataAccesses)
	fmt.Printf("false positive accesses: %d\n", result.FalsePositiveAccesses)
}
