package model

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/grailbio/lsi/lsi"
)

// segment is one piece of a Piecewise model: a Linear-style regression line
// valid for keys in [firstKey, nextFirstKey), plus the rank offset of the
// segment's first trained key (segments are trained back-to-back over
// disjoint rank ranges, so Predict needs to know where each segment starts
// to turn "predicted offset within the segment" into an absolute rank).
type segment struct {
	firstKey  lsi.Key
	startRank int64
	slope     float64
	intercept float64
}

// Piecewise is a greedy piecewise-linear CDF model: it walks the sorted key
// sequence accumulating points into the current segment's regression until
// that regression's error against the true rank would exceed maxSegError,
// at which point it closes the segment and starts a new one. This is the
// natural multi-segment generalization of Linear that every learned-index
// design in this space (including the pack's
// maybeandrews-badger-learnedindex/y/hybrid_filter.go, which trains exactly
// one such segment per SSTable) gestures toward; Piecewise supplements the
// spec with the multi-segment case so lsi.Model has a second, meaningfully
// different implementation to exercise (spec §9's model-family
// genericity).
type Piecewise struct {
	maxSegError int64
	segments    []segment
}

// NewPiecewise returns an untrained Piecewise model. maxSegError bounds how
// far a single segment's regression line may drift from the true rank
// before a new segment is started; smaller values produce more segments
// (larger model, tighter lsi.LSI max_error) and vice versa.
func NewPiecewise(maxSegError int64) *Piecewise {
	if maxSegError < 1 {
		maxSegError = 1
	}
	return &Piecewise{maxSegError: maxSegError}
}

// Train greedily partitions sortedKeys into segments, fitting an OLS line
// to each and cutting a new segment as soon as the running line's error
// against any key seen so far would exceed maxSegError.
func (m *Piecewise) Train(sortedKeys []lsi.Key) {
	m.segments = m.segments[:0]
	n := len(sortedKeys)
	if n == 0 {
		return
	}

	start := 0
	for start < n {
		end := m.growSegment(sortedKeys, start)
		m.segments = append(m.segments, fitSegment(sortedKeys, start, end))
		start = end
	}
}

// growSegment returns the exclusive end of the longest run starting at
// start whose OLS fit keeps every point within maxSegError of its true
// rank offset. It always includes at least one key, so Train always makes
// progress.
func (m *Piecewise) growSegment(sortedKeys []lsi.Key, start int) int {
	n := len(sortedKeys)
	end := start + 1
	for end < n {
		seg := fitSegment(sortedKeys, start, end+1)
		if segmentMaxError(sortedKeys, start, end+1, seg) > m.maxSegError {
			break
		}
		end++
	}
	return end
}

func fitSegment(sortedKeys []lsi.Key, start, end int) segment {
	n := end - start
	seg := segment{firstKey: sortedKeys[start], startRank: int64(start)}
	if n == 1 {
		seg.slope, seg.intercept = 0, 0
		return seg
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i := start; i < end; i++ {
		x := float64(sortedKeys[i])
		y := float64(i - start)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	nf := float64(n)
	denom := nf*sumX2 - sumX*sumX
	if math.Abs(denom) < 1e-9 {
		seg.slope = 0
		seg.intercept = sumY / nf
	} else {
		seg.slope = (nf*sumXY - sumX*sumY) / denom
		seg.intercept = (sumY - seg.slope*sumX) / nf
	}
	return seg
}

func segmentMaxError(sortedKeys []lsi.Key, start, end int, seg segment) int64 {
	var maxErr int64
	for i := start; i < end; i++ {
		pred := seg.slope*float64(sortedKeys[i]) + seg.intercept
		actual := float64(i - start)
		err := int64(math.Round(actual - pred))
		if err < 0 {
			err = -err
		}
		if err > maxErr {
			maxErr = err
		}
	}
	return maxErr
}

// Predict finds the segment covering key by binary-searching segment
// start keys, then evaluates that segment's line and offsets it by the
// segment's starting rank.
func (m *Piecewise) Predict(key lsi.Key) int64 {
	if len(m.segments) == 0 {
		return 0
	}
	// last segment whose firstKey <= key
	lo, hi := 0, len(m.segments)
	for lo < hi {
		mid := (lo + hi) / 2
		if m.segments[mid].firstKey <= key {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	idx := lo - 1
	if idx < 0 {
		idx = 0
	}
	seg := m.segments[idx]
	offset := int64(math.Round(seg.slope*float64(key) + seg.intercept))
	return seg.startRank + offset
}

// ByteSize reports the serialized footprint: one fixed-width record per
// segment (key + startRank + 2 floats).
func (m *Piecewise) ByteSize() int { return len(m.segments) * (8 + 8 + 8 + 8) }

// Name returns "piecewise(k)" where k is the number of trained segments.
func (m *Piecewise) Name() string {
	return "piecewise(" + strconv.Itoa(len(m.segments)) + ")"
}

// NumSegments reports how many segments Train produced.
func (m *Piecewise) NumSegments() int { return len(m.segments) }

// Marshal serializes all segments as fixed-width little-endian records,
// following the same PutUint64/PutFloat64 fixed-width idiom as
// encoding/pam/fieldio/bytebuffer.go.
func (m *Piecewise) Marshal() []byte {
	buf := make([]byte, 0, len(m.segments)*32)
	tmp := make([]byte, 8)
	for _, seg := range m.segments {
		binary.LittleEndian.PutUint64(tmp, uint64(seg.firstKey))
		buf = append(buf, tmp...)
		binary.LittleEndian.PutUint64(tmp, uint64(seg.startRank))
		buf = append(buf, tmp...)
		binary.LittleEndian.PutUint64(tmp, math.Float64bits(seg.slope))
		buf = append(buf, tmp...)
		binary.LittleEndian.PutUint64(tmp, math.Float64bits(seg.intercept))
		buf = append(buf, tmp...)
	}
	return buf
}
