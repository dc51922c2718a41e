package lsi

import "bytes"

// permEntry is one (key, original position) pair in sorted-by-key order,
// the input PermVector.build consumes (spec §4.3).
type permEntry struct {
	key Key
	pos Position
}

// PermVector is the compact rank -> (original position, fingerprint bits)
// mapping at the heart of the index (spec §3, §4.3). It holds N, a single
// shared byte buffer, and two bit-packed lane readers over that buffer: the
// offsets lane is always present; the fingerprint lane is present but
// zero-width (and never consulted) when fingerprinting is disabled.
//
// PermVector is built once by buildPermVector and is read-only afterward;
// it is safe for concurrent readers.
type PermVector struct {
	n       int
	buf     []byte
	offsets bitPackedLane
	fprints bitPackedLane
}

// buildPermVector builds a PermVector from entries, which must already be
// sorted ascending by key with ties broken by ascending pos (spec §3's
// stable-tie invariant — enforced by the caller, LSI.Fit, via a stable
// sort). fp computes the fingerprint stored alongside each entry's key.
//
// The backing buffer layout is:
//
//	[offsets lane bits][slop][fingerprint lane bits][slop]
//
// both lanes little-bit-first, offsets lane built first. Each lane is
// written by its own appendBitPacked call, so each is followed by its own
// slopBytes of zero padding and the fingerprint lane starts on the byte
// boundary after the offsets lane's padding, not directly after its last
// bit.
func buildPermVector(entries []permEntry, fp Fingerprinter) PermVector {
	n := len(entries)
	positions := make([]uint64, n)
	fingerprints := make([]uint64, n)
	for i, e := range entries {
		positions[i] = uint64(e.pos)
		if fp.Enabled() {
			fingerprints[i] = fp.Fingerprint(e.key)
		}
	}

	offWidth := widthFor(positions)
	var buf []byte
	buf, offBitOff := appendBitPacked(buf, positions, offWidth)
	// The fingerprint lane's width is the Fingerprinter's configured width,
	// not widthFor(fingerprints): the field must stay f bits wide even if
	// every observed fingerprint in this particular build happens to fit in
	// fewer bits, so that PermVector.ByteSize and equality are independent
	// of incidental data (an Open Question resolved this way; see
	// DESIGN.md).
	buf, fpBitOff := appendBitPacked(buf, fingerprints, fp.Bits())

	return PermVector{
		n:       n,
		buf:     buf,
		offsets: newBitPackedLane(buf, offBitOff, offWidth, n),
		fprints: newBitPackedLane(buf, fpBitOff, fp.Bits(), n),
	}
}

// Len returns N, the number of ranks in the PermVector.
func (pv *PermVector) Len() int { return pv.n }

// At returns the (position, fingerprint bits) pair stored at rank r. It is
// undefined behavior to call At with r outside [0, Len()) (spec §4.7).
func (pv *PermVector) At(r int) (Position, uint64) {
	return Position(pv.offsets.Get(r)), pv.fprints.Get(r)
}

// Position returns just the original position stored at rank r.
func (pv *PermVector) Position(r int) Position {
	return Position(pv.offsets.Get(r))
}

// ByteSize returns the size in bytes of the shared backing buffer, i.e. the
// self-reported memory footprint of both lanes together (spec §6).
func (pv *PermVector) ByteSize() int { return len(pv.buf) }

// Equal reports whether a and b are byte-exact: same N and byte-identical
// backing buffers (spec §4.3, §6 — "a useful property for tests and
// serialization if added later").
func (a PermVector) Equal(b PermVector) bool {
	return a.n == b.n && bytes.Equal(a.buf, b.buf)
}

// Iter returns a random-access iterator over this PermVector's ranks,
// starting at rank 0 (spec §4.6).
func (pv *PermVector) Iter() PermVectorIter {
	return PermVectorIter{pv: pv, rank: 0}
}

// PermVectorIter is a random-access iterator over PermVector ranks.
// Dereferencing yields the (position, fingerprint bits) pair at the
// current rank; iterator arithmetic is rank arithmetic (spec §4.3, §4.6).
// It is invalidated when the underlying LSI is rebuilt or destroyed.
type PermVectorIter struct {
	pv   *PermVector
	rank int
}

// Rank returns the current rank.
func (it PermVectorIter) Rank() int { return it.rank }

// Valid reports whether the iterator still refers to an in-range rank.
func (it PermVectorIter) Valid() bool { return it.rank >= 0 && it.rank < it.pv.n }

// Deref returns the (position, fingerprint bits) pair at the current rank.
func (it PermVectorIter) Deref() (Position, uint64) { return it.pv.At(it.rank) }

// Next advances the iterator by one rank and returns the advanced iterator.
func (it PermVectorIter) Next() PermVectorIter { return PermVectorIter{pv: it.pv, rank: it.rank + 1} }

// Seek returns an iterator positioned at the given rank.
func (it PermVectorIter) Seek(rank int) PermVectorIter { return PermVectorIter{pv: it.pv, rank: rank} }
