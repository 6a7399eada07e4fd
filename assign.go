package main

import (
	"fmt"
	"sort"

	gn "github.com/pbenner/gonetics"
)

// peakRanks returns, for each peak value, its ordinal rank among all values.
// Ties keep input order (stable sort), which the rank-matched assignment
// below depends on.
func peakRanks(values []float64) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return values[order[i]] < values[order[j]]
	})
	ranks := make([]int, len(values))
	for r, i := range order {
		ranks[i] = r
	}
	return ranks
}

// assignRegions maps the selected loci back onto the original peak order:
// the peak with the i-th smallest value receives a locus from the i-th
// smallest realized bin, popped FIFO from that bin's selection. Emitted
// regions span width bases centered on the selected position. An exhausted
// bin is fatal, since partial output would break the peak-to-output contract.
func assignRegions(values []float64, chosen map[int][]candidate, bins []int, final map[int]int, width int) (gn.GRanges, error) {
	// realized bin labels in ascending order, one per selected locus
	labels := []int{}
	for _, b := range bins {
		for range chosen[b] {
			labels = append(labels, b)
		}
	}
	if len(labels) < len(values) {
		return gn.GRanges{}, fmt.Errorf("only %d candidates selected for %d peaks: %s",
			len(labels), len(values), shortfallDetail(chosen, bins, final))
	}

	ranks := peakRanks(values)
	queues := make(map[int][]candidate)
	for b, c := range chosen {
		queues[b] = append([]candidate{}, c...)
	}

	seqnames := make([]string, len(values))
	from := make([]int, len(values))
	to := make([]int, len(values))
	strand := make([]byte, len(values))
	for i := range values {
		b := labels[ranks[i]]
		q := queues[b]
		if len(q) == 0 {
			return gn.GRanges{}, fmt.Errorf("bin %d ran out of candidates", b)
		}
		c := q[0]
		queues[b] = q[1:]
		seqnames[i] = c.Chrom
		from[i] = c.Pos - width/2
		to[i] = c.Pos + width/2
		strand[i] = '*'
	}
	return gn.NewGRanges(seqnames, from, to, strand), nil
}

// shortfallDetail names the bins whose supply fell short of their
// post-rebalancing quota.
func shortfallDetail(chosen map[int][]candidate, bins []int, final map[int]int) string {
	s := ""
	for _, b := range bins {
		if len(chosen[b]) < final[b] {
			if s != "" {
				s += ", "
			}
			s += fmt.Sprintf("bin %d supplied %d of %d", b, len(chosen[b]), final[b])
		}
	}
	if s == "" {
		s = "reservoirs exhausted across all bins"
	}
	return s
}
