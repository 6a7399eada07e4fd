package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/akamensky/argparse"
	gn "github.com/pbenner/gonetics"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
)

const cultivator_version = "1.0.0"

type Metrics struct {
	Version   string `json:"cultivator_version"`
	Date      string `json:"date"`
	Elapsed   string `json:"elapsed"`
	Command   string `json:"command"`
	Peaks     int    `json:"peak_count"`
	Used      int    `json:"peaks_used"`
	Negatives int    `json:"negative_count"`
}

func (m *Metrics) Log(op string) {
	resp, err := json.MarshalIndent(m, "", "\t")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	f, err := os.Create(op + "_cultivator.json")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer f.Close()

	f.WriteString(string(resp))
	f.WriteString("\n")
}

func main() {

	startTime := time.Now()

	parser := argparse.NewParser("cultivator", `Cultivator builds GC-matched negative training regions for genomics models. The "gc" command turns a genome FASTA into a per-base rolling GC-content bigWig. The "negatives" command samples, for a BED file of peaks, an equal number of non-overlapping loci elsewhere in the genome whose GC distribution matches the peaks.`)
	version := parser.Flag("v", "version", &argparse.Options{Help: "Print the current cultivator version"})

	gcCmd := parser.NewCommand("gc", "Compute a per-base rolling GC-content track from a genome FASTA")
	gcGenome := gcCmd.String("g", "genome", &argparse.Options{Help: "Input genome FASTA"})
	gcOut := gcCmd.String("o", "output", &argparse.Options{Help: "Output bigWig track"})
	gcWidth := gcCmd.Int("w", "width", &argparse.Options{Help: "Window width (bp) for the rolling GC fraction", Default: 2114})
	gcVerbose := gcCmd.Flag("", "verbose", &argparse.Options{Help: "Run in verbose mode"})

	negCmd := parser.NewCommand("negatives", "Sample GC-matched non-overlapping negative regions for a peak set")
	negTrack := negCmd.String("b", "bigwig", &argparse.Options{Help: "Precomputed GC-content bigWig from the gc command"})
	negPeaks := negCmd.String("p", "peaks", &argparse.Options{Help: "Input peaks BED file (chrom, start, end)"})
	negOut := negCmd.String("o", "output", &argparse.Options{Help: "Output BED file of matched negatives"})
	negWidth := negCmd.Int("w", "width", &argparse.Options{Help: "Window width (bp), must match the gc run", Default: 2114})
	negBinWidth := negCmd.Float("", "binwidth", &argparse.Options{Help: "GC-content bin width for matching", Default: 0.2})
	negSeed := negCmd.Int("s", "seed", &argparse.Options{Help: "Random seed", Default: 1718})
	negVerbose := negCmd.Flag("", "verbose", &argparse.Options{Help: "Run in verbose mode"})

	err := parser.Parse(os.Args)

	if *version == true {
		fmt.Println("cultivator version:", cultivator_version)
		os.Exit(0)
	}

	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	switch {
	case gcCmd.Happened():
		if *gcGenome == "" || *gcOut == "" {
			fmt.Println(parser.Help(nil))
			os.Exit(1)
		}
		runGC(*gcGenome, *gcOut, *gcWidth, *gcVerbose)
	case negCmd.Happened():
		if *negTrack == "" || *negPeaks == "" || *negOut == "" {
			fmt.Println(parser.Help(nil))
			os.Exit(1)
		}
		runNegatives(*negTrack, *negPeaks, *negOut, *negWidth, *negBinWidth, *negSeed, *negVerbose, startTime)
	default:
		fmt.Println(parser.Help(nil))
		os.Exit(1)
	}
}

func runGC(genomeFile, outFile string, width int, verbose bool) {
	sequences := gn.EmptyStringSet()
	if err := sequences.ImportFasta(genomeFile); err != nil {
		logrus.Errorf("Error %s", err.Error())
		os.Exit(1)
	}

	if verbose {
		fmt.Printf("Computing GC profiles for %d sequences (width=%d)...\n", len(sequences), width)
	}
	track := computeGCTracks(sequences, width, verbose)

	if verbose {
		fmt.Printf("Writing track to %s...\n", outFile)
	}
	if err := writeTrack(track, outFile); err != nil {
		logrus.Errorf("Error %s", err.Error())
		os.Exit(1)
	}
}

func runNegatives(trackFile, peakFile, outFile string, width int, binWidth float64, seed int, verbose bool, startTime time.Time) {
	track, err := readTrack(trackFile)
	if err != nil {
		logrus.Errorf("Error %s", err.Error())
		os.Exit(1)
	}

	peaks := gn.GRanges{}
	if err := peaks.ImportBed3(peakFile); err != nil {
		logrus.Errorf("Error %s", err.Error())
		os.Exit(1)
	}

	if verbose {
		fmt.Printf("Extracting signal for %d peaks...\n", peaks.Length())
	}
	masks := make(claimMasks)
	values, kept := extractPeakSignals(peaks, track, width, masks, verbose)
	if len(values) == 0 {
		logrus.Errorln("No peaks with usable track values")
		os.Exit(1)
	}

	hist := makeHistogram(values, binWidth)
	src := rand.NewSource(uint64(seed))
	rng := rand.New(src)

	if verbose {
		fmt.Printf("Building reservoirs for %d bins over %d chromosomes...\n",
			len(hist.Bins), track.Genome.Length())
	}
	reservoirs := buildReservoirs(track, masks, hist, width, binWidth, rng, verbose)

	available := make(map[int]int)
	for _, b := range hist.Bins {
		available[b] = len(reservoirs[b])
	}
	final := balanceQuotas(hist.Bins, hist.Counts, available)

	if verbose {
		printQuotaTable(hist, reservoirs, final, binWidth)
	}

	chosen := selectCandidates(reservoirs, hist.Bins, final, src)

	if verbose {
		printMatchSummary(values, chosen, track)
	}

	negatives, err := assignRegions(values, chosen, hist.Bins, final, width)
	if err != nil {
		logrus.Errorf("Error %s", err.Error())
		os.Exit(1)
	}

	if err := negatives.ExportBed3(outFile, false); err != nil {
		logrus.Errorln(err)
		os.Exit(1)
	}

	metrics := &Metrics{
		Version:   cultivator_version,
		Date:      time.Now().Format("2006-01-02 3:4:5 PM"),
		Elapsed:   time.Since(startTime).String(),
		Command:   strings.Join(os.Args, " "),
		Peaks:     peaks.Length(),
		Used:      len(kept),
		Negatives: negatives.Length(),
	}
	metrics.Log(strings.TrimSuffix(outFile, ".bed"))
}
