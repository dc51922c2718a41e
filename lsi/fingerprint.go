package lsi

import (
	farm "github.com/dgryski/go-farm"

	"github.com/grailbio/base/log"
)

// maxFingerprintBits is the widest fingerprint the design supports; widths
// at or above 64 make the fingerprint lane as large as storing the key
// itself, which defeats its purpose. Per spec §4.7 this is a build-time
// configuration error, not a runtime one.
const maxFingerprintBits = 63

// Fingerprinter maps a Key to an f-bit fingerprint via a fixed, deterministic
// avalanche hash. f == 0 disables fingerprinting: Fingerprint is never
// called by the core in that mode, and Test always reports a match so that
// equality resolution falls through entirely to base-data comparison (spec
// §4.2).
//
// The same Fingerprinter instance (hence the same underlying hash) must be
// used at build time and at query time; mixing Fingerprinters with
// different widths against one PermVector is a caller contract violation
// (spec §4.7).
type Fingerprinter struct {
	bits uint
	mask uint64
}

// NewFingerprinter constructs a Fingerprinter with the given width in bits.
// It panics if f is outside [0, maxFingerprintBits], matching spec §4.7's
// "fingerprint width > 63 is a build-time configuration error".
func NewFingerprinter(f uint) Fingerprinter {
	if f > maxFingerprintBits {
		log.Panicf("lsi: fingerprint width %d exceeds %d bits", f, maxFingerprintBits)
	}
	return Fingerprinter{bits: f, mask: maskFor(f)}
}

// Bits reports the configured fingerprint width.
func (fp Fingerprinter) Bits() uint { return fp.bits }

// Enabled reports whether this Fingerprinter produces nonempty fingerprints.
func (fp Fingerprinter) Enabled() bool { return fp.bits > 0 }

// Fingerprint returns the f-bit fingerprint of k. The finalizer is
// farmhash's 64-bit avalanche mix (the same hash the teacher stack already
// uses to shard and probe its kmer index, see fusion.hashKmer), truncated to
// the low f bits. Any fixed 64-bit avalanche function would satisfy spec
// §4.2; farmhash is reused here rather than inventing a second one, since it
// is already a dependency of this module's domain stack.
func (fp Fingerprinter) Fingerprint(k Key) uint64 {
	if fp.bits == 0 {
		return 0
	}
	return farm.Hash64WithSeed(nil, uint64(k)) & fp.mask
}

// Test reports whether bits is the fingerprint of k under this
// Fingerprinter. When fingerprinting is disabled this is trivially true;
// callers in that mode are expected to fall back to a base-data comparison
// instead of relying on Test (spec §4.2).
func (fp Fingerprinter) Test(k Key, bits uint64) bool {
	if fp.bits == 0 {
		return true
	}
	return fp.Fingerprint(k) == bits
}
