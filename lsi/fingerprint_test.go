package lsi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintDisabled(t *testing.T) {
	fp := NewFingerprinter(0)
	assert.False(t, fp.Enabled())
	assert.True(t, fp.Test(42, 0xdeadbeef), "Test must be trivially true when fingerprinting is disabled")
}

func TestFingerprintWidthBounds(t *testing.T) {
	for _, f := range []uint{0, 1, 8, 16, 32, 63} {
		fp := NewFingerprinter(f)
		got := fp.Fingerprint(Key(123456789))
		assert.Less(t, got, uint64(1)<<f, "fingerprint for width %d must fit in %d bits", f, f)
	}
}

func TestFingerprintWidthTooWide(t *testing.T) {
	assert.Panics(t, func() { NewFingerprinter(64) })
}

func TestFingerprintDeterministic(t *testing.T) {
	fp := NewFingerprinter(16)
	a := fp.Fingerprint(Key(7))
	b := fp.Fingerprint(Key(7))
	assert.Equal(t, a, b)
}

// TestFingerprintTestAgreesWithFingerprint checks the trivial direction of
// property 8 from spec §8 (the fingerprint a key produces always tests
// true against itself). At the LSI level, TestScenarioFingerprintWidths in
// lsi_test.go checks that enabling fingerprints never changes a lookup's
// answer.
func TestFingerprintTestAgreesWithFingerprint(t *testing.T) {
	fp := NewFingerprinter(8)
	for _, k := range []Key{0, 1, 100, 1 << 40} {
		assert.True(t, fp.Test(k, fp.Fingerprint(k)))
	}
}
