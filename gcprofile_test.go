package main

import (
	"math"
	"testing"
)

// gcFraction counts G/C bases in seq[from:to] directly.
func gcFraction(seq string, from, to int) float64 {
	n := 0
	for i := from; i < to; i++ {
		if seq[i] == 'C' || seq[i] == 'G' || seq[i] == 'c' || seq[i] == 'g' {
			n++
		}
	}
	return float64(n) / float64(to-from)
}

func TestGCProfileCenteredWindows(t *testing.T) {
	seq := "ACGTACGTAC"
	width := 4
	gc := gcProfile([]byte(seq), width)

	if len(gc) != len(seq) {
		t.Fatalf("track length: got %d, want %d", len(gc), len(seq))
	}
	for _, i := range []int{0, 1, 8, 9} {
		if !math.IsNaN(gc[i]) {
			t.Errorf("position %d: got %v, want NaN", i, gc[i])
		}
	}
	for i := 2; i <= 7; i++ {
		want := gcFraction(seq, i-2, i+2)
		if gc[i] != want {
			t.Errorf("position %d: got %v, want %v", i, gc[i], want)
		}
	}
}

func TestGCProfileMatchesDirectCount(t *testing.T) {
	seq := "GGGCCCATATATNNNNACGTGGGGTTTTACACNNGC"
	for _, width := range []int{2, 4, 6, 10} {
		gc := gcProfile([]byte(seq), width)
		half := width / 2
		for i := range gc {
			if i < half || i >= len(seq)-half {
				if !math.IsNaN(gc[i]) {
					t.Errorf("width %d position %d: got %v, want NaN", width, i, gc[i])
				}
				continue
			}
			want := float64(0)
			for j := i - half; j < i+half; j++ {
				if seq[j] == 'C' || seq[j] == 'G' {
					want++
				}
			}
			want /= float64(width)
			if gc[i] != want {
				t.Errorf("width %d position %d: got %v, want %v", width, i, gc[i], want)
			}
		}
	}
}

func TestGCProfileLowercase(t *testing.T) {
	upper := gcProfile([]byte("ACGTACGT"), 4)
	lower := gcProfile([]byte("acgtacgt"), 4)
	for i := range upper {
		if math.Float64bits(upper[i]) != math.Float64bits(lower[i]) {
			t.Errorf("position %d: upper %v, lower %v", i, upper[i], lower[i])
		}
	}
}

func TestGCProfileShortSequence(t *testing.T) {
	gc := gcProfile([]byte("ACG"), 4)
	for i, v := range gc {
		if !math.IsNaN(v) {
			t.Errorf("position %d: got %v, want NaN", i, v)
		}
	}
}

func TestGCProfileIdempotent(t *testing.T) {
	seq := []byte("ACGTACGTACNNGGCC")
	a := gcProfile(seq, 6)
	b := gcProfile(seq, 6)
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			t.Errorf("position %d: %v != %v", i, a[i], b[i])
		}
	}
}
