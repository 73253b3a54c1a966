// This file contains code to help debugging, and is
// separated in from the rest in order not to litter
// the main code with debugging stuff

package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/524D/xlscore/internal/score"
)

// Largest value seen for each sub-score, to check how the score weights
// behave on the data at hand
var maxSubScores = map[string]float64{}
var maxSubScoresMux sync.Mutex

func debugLogScores(csms []score.CSM) {
	maxSubScoresMux.Lock()
	defer maxSubScoresMux.Unlock()
	for _, csm := range csms {
		updateMax(`score`, csm.Score)
		updateMax(`prescore`, csm.PreScore)
		updateMax(`match_odds`, csm.MatchOdds)
		updateMax(`xcorrx`, csm.XCorrX)
		updateMax(`xcorrc`, csm.XCorrC)
		updateMax(`TIC`, csm.TIC)
		updateMax(`wTIC`, csm.WTIC)
		updateMax(`intsum`, csm.IntSum)
	}
}

func updateMax(name string, v float64) {
	if v > maxSubScores[name] {
		maxSubScores[name] = v
	}
}

func debugPrintScores() {
	maxSubScoresMux.Lock()
	defer maxSubScoresMux.Unlock()
	fmt.Fprintf(os.Stderr, "Maximum sub-score values:\n")
	for _, name := range []string{`score`, `prescore`, `match_odds`,
		`xcorrx`, `xcorrc`, `TIC`, `wTIC`, `intsum`} {
		fmt.Fprintf(os.Stderr, "  %s: %f\n", name, maxSubScores[name])
	}
}
