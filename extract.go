package main

import (
	"fmt"
	"math"

	gn "github.com/pbenner/gonetics"
)

// claimMasks marks genomic positions already consumed by a peak or by a
// selected negative. One bool per base, allocated lazily per chromosome.
// Positions are only ever set, never cleared, within a run.
type claimMasks map[string][]bool

// claim marks [from, to) on the chromosome's mask, clipped to its bounds.
func (m claimMasks) claim(track genomeTrack, chrom string, from, to int) {
	seq := track.Data[chrom]
	mask, ok := m[chrom]
	if !ok {
		mask = make([]bool, len(seq))
		m[chrom] = mask
	}
	if from < 0 {
		from = 0
	}
	if to > len(mask) {
		to = len(mask)
	}
	for i := from; i < to; i++ {
		mask[i] = true
	}
}

// claimWindow returns the 2*width window around a peak midpoint, re-anchored
// when the midpoint is within width of a chromosome end so the window stays
// inside the chromosome.
func claimWindow(mid, width, chromLen int) (int, int) {
	start := mid - width
	if mid < width {
		start = 0
	}
	if mid > chromLen-width {
		start = chromLen - 2*width
	}
	if start < 0 {
		start = 0
	}
	end := start + 2*width
	if end > chromLen {
		end = chromLen
	}
	return start, end
}

// extractPeakSignals reads, for each peak, the track value at the midpoint
// of a 2*width window around the peak center, and claims that window in the
// masks. Peaks on chromosomes absent from the track, or whose midpoint value
// is undefined, are skipped. Returns the values and the indices of the peaks
// that were kept, both in input order.
func extractPeakSignals(peaks gn.GRanges, track genomeTrack, width int, masks claimMasks, verbose bool) ([]float64, []int) {
	values := []float64{}
	kept := []int{}
	skipped := 0

	for i := 0; i < peaks.Length(); i++ {
		chrom := peaks.Seqnames[i]
		seq, ok := track.Data[chrom]
		if !ok {
			skipped++
			continue
		}
		mid := (peaks.Ranges[i].From + peaks.Ranges[i].To) / 2
		start, end := claimWindow(mid, width, len(seq))
		if end == start {
			// zero-length chromosome, nothing to read or claim
			skipped++
			continue
		}
		v := seq[(start+end)/2]
		if math.IsNaN(v) {
			skipped++
			continue
		}
		masks.claim(track, chrom, start, end)
		values = append(values, v)
		kept = append(kept, i)
	}

	if verbose && skipped > 0 {
		fmt.Printf("  Skipped %d peaks with no usable track value\n", skipped)
	}
	return values, kept
}
