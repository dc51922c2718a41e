package lsi

// Key is the type of values stored in the base relation. The reference
// width is 64 bits (spec §3); narrower key domains still fit since Key is
// simply the widest integer the rest of the core (bit-packing, hashing)
// assumes.
type Key uint64

// Position identifies a slot in the caller's base relation, in
// [0, len(relation)). PermVector's offsets lane stores one Position per
// rank.
type Position uint64

// Relation is the caller-owned, unsorted base array of keys the LSI is
// fit against. The LSI never copies, reorders, or mutates it: Fit reads it
// once to build the index, and every Lookup re-reads it through the same
// slice the caller must keep alive and unchanged (spec §3 "Ownership", §5
// "Shared resources"). Passing a different Relation (by content or length)
// to Lookup than the one passed to Fit is a caller contract violation with
// undefined results (spec §4.7).
type Relation []Key

// Model is the external CDF-prediction collaborator the core is built
// against (spec §6's Model contract). It is intentionally a small
// capability set — Train, Predict, ByteSize, Name — so that training and
// evaluation strategy stays entirely outside the core's concern (spec §1
// "out of scope"); LSI is generic over it so the hot Predict path
// monomorphizes rather than going through an interface vtable on every
// lookup (spec §9's "heterogeneous polymorphism" note).
//
// Implementations live in package lsi/model; the core package never
// imports it, so that adding a model never risks perturbing PermVector or
// search-path code.
type Model interface {
	// Train fits the model to sortedKeys, which is sorted ascending and
	// has length n. Train failure is fatal and must be reported by
	// panicking (spec §4.7: "Model training failure is propagated from
	// the model, treated as fatal by the core").
	Train(sortedKeys []Key)

	// Predict returns the model's predicted rank for key. It is never
	// called before Train and must be safe to call concurrently from
	// many readers once Train has returned (spec §5).
	Predict(key Key) int64

	// ByteSize reports the model's serialized footprint in bytes,
	// surfaced through LSI.ModelByteSize (spec §6).
	ByteSize() int

	// Name returns a short human-readable identifier folded into
	// LSI.Name() (spec §6).
	Name() string
}
