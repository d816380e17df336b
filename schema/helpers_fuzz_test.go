package schema

import (
	"math"
	"testing"
)

// FuzzRound2 fuzzes rounding with random floats.
func FuzzRound2(f *testing.F) {
	seeds := []float64{0, 1.005, -2.675, 99.999, 133.333333, 100}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > 1e6 {
			return
		}
		got := Round2(v)

		// Rounding is idempotent and moves the value by half a cent at most.
		if Round2(got) != got {
			t.Errorf("Round2 not idempotent for %v: got %v", v, got)
		}
		if math.Abs(got-v) > 0.006 {
			t.Errorf("Round2(%v) = %v moved too far", v, got)
		}
	})
}

// FuzzClamp fuzzes clamping with random values and bounds.
func FuzzClamp(f *testing.F) {
	seeds := [][3]float64{
		{5, 0, 10},
		{-1, 0, 100},
		{250, 0, 100},
		{3, 3, 3},
	}
	for _, seed := range seeds {
		f.Add(seed[0], seed[1], seed[2])
	}

	f.Fuzz(func(t *testing.T, v, lo, hi float64) {
		if math.IsNaN(v) || math.IsNaN(lo) || math.IsNaN(hi) || lo > hi {
			return
		}
		got := Clamp(v, lo, hi)
		if got < lo || got > hi {
			t.Errorf("Clamp(%v, %v, %v) = %v escaped the interval", v, lo, hi, got)
		}
		if v >= lo && v <= hi && got != v {
			t.Errorf("Clamp(%v, %v, %v) = %v changed an in-range value", v, lo, hi, got)
		}
	})
}
