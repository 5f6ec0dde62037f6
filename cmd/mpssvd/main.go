// Command mpssvd runs repeated random-matrix SVD trials over a
// growing range of dimensions, exercising both the in-house kernel
// and the library-backed providers, and writes one results file and
// one progress file per matrix dimension under the given base
// directory.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	svd "github.com/predrag3141/mps-svd"
	"github.com/predrag3141/mps-svd/internal/report"
)

const (
	minDimension    = 4
	dimensionIncr   = 4
	maxDimension    = 40
	numTrialsPerDim = 10
	reportingPeriod = 5
	maxRank         = 1 << 30
	truncationBudget = 0.0
)

func main() {
	baseDir := flag.String("base-dir", "", "directory to write progress/ and results/ into")
	useLibrary := flag.Bool("use-library", false, "dispatch to the dense-library/GPU provider instead of the in-house kernel")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed for the trial matrices")
	flag.Parse()

	if *baseDir == "" {
		fmt.Println("usage: mpssvd -base-dir <dir> [-use-library] [-seed N]")
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))

	for dim := minDimension; dim <= maxDimension; dim += dimensionIncr {
		log, err := report.NewLog(*baseDir, dim, reportingPeriod)
		if err != nil {
			fmt.Printf("could not open log for dimension %d: %q\n", dim, err.Error())
			os.Exit(1)
		}

		for trial := 0; trial < numTrialsPerDim; trial++ {
			result := runTrial(rng, dim, dim, *useLibrary)
			if err := log.ReportResult(result); err != nil {
				fmt.Printf("could not report result: %q\n", err.Error())
			}
			if err := log.ReportProgress(trial, result); err != nil {
				fmt.Printf("could not report progress: %q\n", err.Error())
			}
		}

		if err := log.Close(); err != nil {
			fmt.Printf("could not close log for dimension %d: %q\n", dim, err.Error())
		}
	}
}

func runTrial(rng *rand.Rand, rows, cols int, useLibrary bool) report.TrialResult {
	start := time.Now()
	a := randomComplexMatrix(rng, rows, cols)

	res := report.TrialResult{Rows: rows, Cols: cols, UsedLibrary: useLibrary}

	decomposed, err := svd.Decompose(a, useLibrary)
	if err != nil {
		res.Error = err.Error()
		res.DurationSeconds = time.Since(start).Seconds()
		return res
	}
	res.RetryAttempts = decomposed.Attempts

	truncatedS, discarded, err := svd.TruncateAndRenormalize(
		decomposed.U, decomposed.S, decomposed.V, maxRank, truncationBudget, decomposed.VIsDagger,
	)
	if err != nil {
		res.Error = err.Error()
		res.DurationSeconds = time.Since(start).Seconds()
		return res
	}

	if recErr, err := svd.ReconstructionError(a, decomposed.U, truncatedS, decomposed.V, decomposed.VIsDagger); err == nil {
		res.MaxReconstruction = recErr
	}
	if err := svd.Validate(a, decomposed.U, truncatedS, decomposed.V, decomposed.VIsDagger); err != nil {
		res.Error = err.Error()
	}

	res.KeptRank = len(truncatedS)
	res.DiscardedWeight = discarded
	res.DurationSeconds = time.Since(start).Seconds()
	return res
}

func randomComplexMatrix(rng *rand.Rand, rows, cols int) *svd.ComplexMatrix {
	m := svd.NewComplexMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, complex(rng.NormFloat64(), rng.NormFloat64()))
		}
	}
	return m
}
