package main

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// binIndex discretizes a continuous value into a fixed-width bin. The shift
// by half a bin width centers each bin on a multiple of binWidth.
func binIndex(v float64, binWidth float64) int {
	return int(math.Floor((v + binWidth/2) / binWidth))
}

// histogram is the sampling target: the distinct bins observed among peak
// values (ascending) and the number of peaks in each.
type histogram struct {
	Bins   []int
	Counts map[int]int
}

func makeHistogram(values []float64, binWidth float64) histogram {
	counts := make(map[int]int)
	bins := []int{}
	for _, v := range values {
		b := binIndex(v, binWidth)
		if _, ok := counts[b]; !ok {
			bins = append(bins, b)
		}
		counts[b]++
	}
	sort.Ints(bins)
	return histogram{bins, counts}
}

// candidate is one unclaimed genomic window, centered at Pos.
type candidate struct {
	Chrom    string
	Pos      int
	ChromLen int
}

// suppressed marks a position unusable in the per-chromosome discretized
// track copy.
const suppressed = -1

// buildReservoirs scans every chromosome for unclaimed positions whose
// discretized track value matches a target bin. Candidate positions for a
// bin are visited in a shuffled order; each accepted candidate claims a
// 2*width window in the local copy so no two accepted candidates overlap.
// Each chromosome attempts the full genome-wide count for every bin, so a
// shortfall on one chromosome can be made up from another.
func buildReservoirs(track genomeTrack, masks claimMasks, hist histogram, width int, binWidth float64, rng *rand.Rand, verbose bool) map[int][]candidate {
	reservoirs := make(map[int][]candidate)

	for c, chrom := range track.Genome.Seqnames {
		seq := track.Data[chrom]
		mask := masks[chrom]

		if verbose {
			fmt.Printf("  Scanning %s (%d/%d)...\n", chrom, c+1, track.Genome.Length())
		}

		// discretized copy with peak-claimed and undefined positions
		// suppressed; candidate claims accumulate here across bins
		binned := make([]int, len(seq))
		for i, v := range seq {
			if math.IsNaN(v) || (mask != nil && mask[i]) {
				binned[i] = suppressed
			} else {
				binned[i] = binIndex(v, binWidth)
			}
		}

		for _, bin := range hist.Bins {
			want := hist.Counts[bin]

			idx := []int{}
			for i, b := range binned {
				if b == bin {
					idx = append(idx, i)
				}
			}
			rng.Shuffle(len(idx), func(i, j int) {
				idx[i], idx[j] = idx[j], idx[i]
			})

			taken := 0
			for _, i := range idx {
				if binned[i] != bin {
					// suppressed by an earlier acceptance
					continue
				}
				reservoirs[bin] = append(reservoirs[bin], candidate{chrom, i, len(seq)})
				from := i - width
				if from < 0 {
					from = 0
				}
				to := i + width
				if to > len(binned) {
					to = len(binned)
				}
				for j := from; j < to; j++ {
					binned[j] = suppressed
				}
				taken++
				if taken == want {
					break
				}
			}
		}
	}
	return reservoirs
}

// balanceQuotas redistributes per-bin deficits to neighboring bins. The
// ascending pass pushes unmet demand to the next higher bin, the descending
// pass to the next lower bin; the pass order determines bin priority and is
// load-bearing. Residual demand that no neighbor can absorb is left short.
func balanceQuotas(bins []int, requested, available map[int]int) map[int]int {
	final := make(map[int]int)
	for _, b := range bins {
		final[b] = requested[b]
	}
	for i := 0; i < len(bins)-1; i++ {
		b := bins[i]
		if k := final[b] - available[b]; k > 0 {
			final[b] -= k
			final[bins[i+1]] += k
		}
	}
	for i := len(bins) - 1; i > 0; i-- {
		b := bins[i]
		if k := final[b] - available[b]; k > 0 {
			final[b] -= k
			final[bins[i-1]] += k
		}
	}
	return final
}

// selectCandidates draws, for each bin, its final quota from the reservoir
// without replacement, weighted by chromosome length. Drawn entries are
// consumed. Bins whose reservoir cannot cover the quota yield what they
// have; the shortfall surfaces during assignment.
func selectCandidates(reservoirs map[int][]candidate, bins []int, final map[int]int, src rand.Source) map[int][]candidate {
	chosen := make(map[int][]candidate)

	for _, bin := range bins {
		pool := reservoirs[bin]
		n := final[bin]
		if n > len(pool) {
			n = len(pool)
		}
		if n == 0 {
			continue
		}

		weights := make([]float64, len(pool))
		for i, c := range pool {
			weights[i] = float64(c.ChromLen)
		}
		w := sampleuv.NewWeighted(weights, src)

		picked := make(map[int]bool)
		for k := 0; k < n; k++ {
			i, ok := w.Take()
			if !ok {
				break
			}
			picked[i] = true
			chosen[bin] = append(chosen[bin], pool[i])
		}

		// consume the drawn entries
		rest := pool[:0]
		for i, c := range pool {
			if !picked[i] {
				rest = append(rest, c)
			}
		}
		reservoirs[bin] = rest
	}
	return chosen
}
