// Package model provides concrete implementations of lsi.Model, the
// external CDF-prediction collaborator spec §1/§6 deliberately keeps out
// of the index core. The core never imports this package; only callers
// wiring up a concrete lsi.LSI do.
package model

import (
	"encoding/binary"
	"math"

	"github.com/grailbio/lsi/lsi"
)

// Linear is a single-line least-squares regression model over the sorted
// key sequence: predicted rank = slope*key + intercept. The regression
// math is the same sums-of-x/y/xy/x2 technique the pack's learned-index
// hybrid filter trains with (TrainHybridFilter in
// maybeandrews-badger-learnedindex/y/hybrid_filter.go), adapted here to
// train directly against rank rather than block index, and to satisfy
// lsi.Model instead of returning a value struct.
type Linear struct {
	slope     float64
	intercept float64
	trained   bool
}

// NewLinear returns an untrained Linear model, ready for lsi.New.
func NewLinear() *Linear { return &Linear{} }

// Train fits slope and intercept to sortedKeys by ordinary least squares
// against rank indices 0..n-1. A single key (or a degenerate all-equal
// key sequence, which makes the regression denominator ~0) collapses to a
// constant predictor at the mean rank, matching the degenerate-input
// fallback in TrainHybridFilter.
func (m *Linear) Train(sortedKeys []lsi.Key) {
	n := len(sortedKeys)
	if n == 0 {
		m.slope, m.intercept, m.trained = 0, 0, true
		return
	}
	if n == 1 {
		m.slope, m.intercept, m.trained = 0, 0, true
		return
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, k := range sortedKeys {
		x := float64(k)
		y := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	nf := float64(n)
	denom := nf*sumX2 - sumX*sumX
	if math.Abs(denom) < 1e-9 {
		m.slope = 0
		m.intercept = sumY / nf
	} else {
		m.slope = (nf*sumXY - sumX*sumY) / denom
		m.intercept = (sumY - m.slope*sumX) / nf
	}
	m.trained = true
}

// Predict returns round(slope*key + intercept).
func (m *Linear) Predict(key lsi.Key) int64 {
	return int64(math.Round(m.slope*float64(key) + m.intercept))
}

// ByteSize reports the serialized size of a Linear model: two float64s.
func (m *Linear) ByteSize() int { return 2 * 8 }

// Name returns "linear".
func (m *Linear) Name() string { return "linear" }

// Marshal serializes the model's two coefficients, little-endian, mirroring
// the fixed-width float64 encoding the teacher's byteBuffer helper uses
// (encoding/pam/fieldio/bytebuffer.go's PutFloat64/Float64).
func (m *Linear) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(m.slope))
	binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(m.intercept))
	return buf
}

// UnmarshalLinear reconstructs a trained Linear model from bytes written
// by Marshal.
func UnmarshalLinear(buf []byte) *Linear {
	return &Linear{
		slope:     math.Float64frombits(binary.LittleEndian.Uint64(buf[0:8])),
		intercept: math.Float64frombits(binary.LittleEndian.Uint64(buf[8:16])),
		trained:   true,
	}
}
