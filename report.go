package main

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/montanaflynn/stats"
)

// printQuotaTable renders the per-bin sampling quotas as a dataframe:
// requested counts from the peak histogram, reservoir availability, and the
// allocation after the deficit cascade.
func printQuotaTable(hist histogram, reservoirs map[int][]candidate, final map[int]int, binWidth float64) {
	labels := []float64{}
	requested := []int{}
	available := []int{}
	allocated := []int{}
	for _, b := range hist.Bins {
		labels = append(labels, float64(b)*binWidth)
		requested = append(requested, hist.Counts[b])
		available = append(available, len(reservoirs[b]))
		allocated = append(allocated, final[b])
	}
	df := dataframe.New(
		series.New(labels, series.Float, "gc_bin"),
		series.New(requested, series.Int, "requested"),
		series.New(available, series.Int, "available"),
		series.New(allocated, series.Int, "final"),
	)
	fmt.Println(df)
}

// printMatchSummary compares the GC distribution of the peaks with that of
// the selected negatives.
func printMatchSummary(peakValues []float64, chosen map[int][]candidate, track genomeTrack) {
	selected := []float64{}
	for _, cands := range chosen {
		for _, c := range cands {
			selected = append(selected, track.Data[c.Chrom][c.Pos])
		}
	}
	printDistribution("peaks", peakValues)
	printDistribution("negatives", selected)
}

func printDistribution(name string, values []float64) {
	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	sd, _ := stats.StandardDeviation(values)
	fmt.Printf("  %s: n=%d mean=%.4f median=%.4f sd=%.4f\n", name, len(values), mean, median, sd)
}
