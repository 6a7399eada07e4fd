package main

import (
	"fmt"
	"math"
	"os"
	"sort"

	gn "github.com/pbenner/gonetics"
)

// gcProfile computes the rolling GC fraction of a sequence: gc[i] is the
// fraction of G/C bases in the window [i-width/2, i+width/2). Positions
// within width/2 of either end have no full window and are set to NaN.
// Runs in O(n) via a single cumulative sum over a C/G indicator.
func gcProfile(sequence []byte, width int) []float64 {
	n := len(sequence)
	half := width / 2

	gc := make([]float64, n)
	for i := range gc {
		gc[i] = math.NaN()
	}
	// sequences shorter than the window have no defined position
	if n < width {
		return gc
	}

	// prefix[i] = number of C/G bases in sequence[0:i]
	prefix := make([]int, n+1)
	for i := 0; i < n; i++ {
		b := sequence[i]
		prefix[i+1] = prefix[i]
		if b == 'c' || b == 'C' || b == 'g' || b == 'G' {
			prefix[i+1] += 1
		}
	}

	for i := half; i < n-half; i++ {
		gc[i] = float64(prefix[i+half]-prefix[i-half]) / float64(width)
	}
	return gc
}

// genomeTrack is the in-memory per-base signal for a set of chromosomes.
// BinSize is always 1 here; the BigWig store is only touched at the edges.
type genomeTrack struct {
	Genome gn.Genome
	Data   map[string][]float64
}

// computeGCTracks builds the per-base GC track for every sequence in the
// string set. Sequence names are sorted so the track order is deterministic.
func computeGCTracks(sequences gn.StringSet, width int, verbose bool) genomeTrack {
	names := []string{}
	for name := range sequences {
		names = append(names, name)
	}
	sort.Strings(names)

	seqnames := []string{}
	lengths := []int{}
	data := make(map[string][]float64)
	for i, name := range names {
		if verbose {
			fmt.Printf("  Computing GC profile for %s (%d/%d)...\n", name, i+1, len(names))
		}
		seq := sequences[name]
		seqnames = append(seqnames, name)
		lengths = append(lengths, len(seq))
		data[name] = gcProfile(seq, width)
	}
	return genomeTrack{gn.NewGenome(seqnames, lengths), data}
}

// writeTrack exports the per-base track to a BigWig file with span/step 1.
func writeTrack(track genomeTrack, filename string) error {
	sequences := [][]float64{}
	for _, name := range track.Genome.Seqnames {
		sequences = append(sequences, track.Data[name])
	}
	t, err := gn.NewSimpleTrack("GC", sequences, track.Genome, 1)
	if err != nil {
		return err
	}
	return t.ExportBigWig(filename)
}

// readTrack loads a per-base track back from a BigWig file. Missing
// positions come back as NaN, matching what gcProfile writes at the edges.
func readTrack(filename string) (genomeTrack, error) {
	f, err := os.Open(filename)
	if err != nil {
		return genomeTrack{}, err
	}
	defer f.Close()

	reader, err := gn.NewBigWigReader(f)
	if err != nil {
		return genomeTrack{}, err
	}
	track := genomeTrack{reader.Genome.Clone(), make(map[string][]float64)}
	for _, name := range track.Genome.Seqnames {
		s, _, err := reader.QuerySequence(name, gn.BinMean, 1, 0, math.NaN())
		if err != nil {
			return genomeTrack{}, fmt.Errorf("reading track for `%s' failed: %v", name, err)
		}
		track.Data[name] = s
	}
	return track, nil
}
