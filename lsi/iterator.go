package lsi

// Iterator is a random-access iterator over LSI lookup results. It
// dereferences to a Position in the caller's base relation; End() is the
// sentinel at rank N. Comparisons are rank equality plus identity of the
// underlying LSI (spec §4.6). Both this type and PermVectorIter are
// invalidated by a subsequent Fit or by the LSI going out of scope.
//
// Because the sort underlying the PermVector is stable, repeatedly calling
// Next on the iterator returned by an equality Lookup yields every
// occurrence of the queried key in original-insertion order, then
// continues into keys greater than it (spec §3, §4.5 "Tie/duplicate
// semantics").
type Iterator[M Model] struct {
	lsi  *LSI[M]
	rank int
}

// Rank returns the iterator's current rank.
func (it Iterator[M]) Rank() int { return it.rank }

// Valid reports whether the iterator is not past the end.
func (it Iterator[M]) Valid() bool { return it.rank < it.lsi.n }

// Deref returns the original-relation position at the iterator's current
// rank. It is undefined behavior to call Deref on an iterator at or past
// End() (spec §4.7).
func (it Iterator[M]) Deref() Position { return it.lsi.pv.Position(it.rank) }

// Next returns the iterator advanced by one rank.
func (it Iterator[M]) Next() Iterator[M] { return Iterator[M]{lsi: it.lsi, rank: it.rank + 1} }

// Prev returns the iterator moved back by one rank.
func (it Iterator[M]) Prev() Iterator[M] { return Iterator[M]{lsi: it.lsi, rank: it.rank - 1} }

// Seek returns an iterator over the same LSI repositioned at rank.
func (it Iterator[M]) Seek(rank int) Iterator[M] { return Iterator[M]{lsi: it.lsi, rank: rank} }

// Equal reports whether it and other refer to the same rank of the same
// LSI.
func (it Iterator[M]) Equal(other Iterator[M]) bool {
	return it.lsi == other.lsi && it.rank == other.rank
}
