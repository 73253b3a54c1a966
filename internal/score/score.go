// Package score computes the sub-scores and the weighted composite score
// of a candidate spectrum match: pre-score, match-odds, cross-correlation,
// intensity sums and weighted total ion current.
package score

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/524D/xlscore/internal/spectrum"
)

// weights of the sub-scores in the composite score
const (
	weightXCorrX    = 2.488
	weightXCorrC    = 21.279
	weightMatchOdds = 1.973
	weightWTIC      = 12.829
	weightIntSum    = 1.8
)

// PreScore is the fraction of theoretical ions found in the experimental
// spectrum. Returns 0 when no ions were generated.
func PreScore(matched, theoretical int) float64 {
	if theoretical == 0 {
		return 0
	}
	return float64(matched) / float64(theoretical)
}

// PreScoreBoth combines the per-chain ion fractions of a cross-link as
// the geometric mean
func PreScoreBoth(matchedAlpha, theorAlpha, matchedBeta, theorBeta int) float64 {
	return math.Sqrt(PreScore(matchedAlpha, theorAlpha) * PreScore(matchedBeta, theorBeta))
}

// MatchOdds scores how unlikely the observed number of matches is under
// random peak placement. The a-priori single-ion match probability
// follows from the fragment tolerance and the spectrum's m/z range;
// the score is the -log of the binomial survival probability of seeing
// at least the observed match count among the theoretical ions.
func MatchOdds(theoretical *spectrum.Spectrum, matched int, fragmentTol float64, tolPPM bool, isXlink bool, charges int) float64 {
	n := len(theoretical.Peaks)
	if n == 0 || matched == 0 {
		return 0
	}
	rangeMz := theoretical.Peaks[n-1].Mz - theoretical.Peaks[0].Mz
	if rangeMz <= 0 {
		return 0
	}
	tolDa := fragmentTol
	if tolPPM {
		// tolerance at the center of the range
		tolDa = fragmentTol * 1e-6 * (theoretical.Peaks[0].Mz + rangeMz/2)
	}
	if !isXlink {
		charges = 1
	}
	pSingle := 2 * tolDa / (0.5 * rangeMz)
	if pSingle >= 1 {
		pSingle = 1 - 1e-10
	}
	p := 1 - math.Pow(1-pSingle, float64(charges))

	bin := distuv.Binomial{N: float64(n), P: p}
	cum := bin.CDF(float64(matched - 1))
	odds := -math.Log(1 - cum + 1e-5)
	if odds < 0 {
		return 0
	}
	return odds
}

// numShifts of the cross-correlation window, applied in both directions
const numShifts = 5

// bin widths of the cross-correlation, per ion class
const (
	BinWidthCommon = 0.2
	BinWidthXlink  = 0.3
)

// XCorrelation computes a normalized cross-correlation between two
// spectra over shifts of -numShifts..numShifts bins, returning one value
// per shift (length 2*numShifts+1). Peaks are collapsed to occupancy
// bins before correlating; intensities do not enter the score.
func XCorrelation(s1, s2 *spectrum.Spectrum, binWidth float64) []float64 {
	out := make([]float64, 2*numShifts+1)
	if len(s1.Peaks) == 0 || len(s2.Peaks) == 0 {
		return out
	}
	max1 := s1.Peaks[len(s1.Peaks)-1].Mz
	max2 := s2.Peaks[len(s2.Peaks)-1].Mz
	maxMz := math.Max(max1, max2)
	nBins := int(maxMz/binWidth) + 1

	binned1 := binOccupancy(s1, binWidth, nBins)
	binned2 := binOccupancy(s2, binWidth, nBins)
	meanCenter(binned1)
	meanCenter(binned2)

	norm := math.Sqrt(dot(binned1, binned1) * dot(binned2, binned2))
	if norm == 0 {
		return out
	}
	for shift := -numShifts; shift <= numShifts; shift++ {
		var sum float64
		for i := range binned1 {
			j := i + shift
			if j < 0 || j >= nBins {
				continue
			}
			sum += binned1[i] * binned2[j]
		}
		out[shift+numShifts] = sum / norm
	}
	return out
}

func binOccupancy(s *spectrum.Spectrum, binWidth float64, nBins int) []float64 {
	binned := make([]float64, nBins)
	for _, p := range s.Peaks {
		bin := int(p.Mz / binWidth)
		if bin >= 0 && bin < nBins {
			binned[bin] = 10.0
		}
	}
	return binned
}

func meanCenter(v []float64) {
	var sum float64
	for _, x := range v {
		sum += x
	}
	mean := sum / float64(len(v))
	for i := range v {
		v[i] -= mean
	}
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// MatchedCurrent sums the experimental intensities at the matched peak
// positions given by alignment pairs (theoretical index, experimental
// index)
func MatchedCurrent(exp *spectrum.Spectrum, alignment [][2]int) float64 {
	seen := make(map[int]bool, len(alignment))
	var sum float64
	for _, pair := range alignment {
		if seen[pair[1]] {
			continue
		}
		seen[pair[1]] = true
		sum += exp.Peaks[pair[1]].Intens
	}
	return sum
}

// WTIC weights each chain's matched intensity by the length of the other
// chain, relative to the spectrum's total ion current. intsum is the
// deduplicated matched current of both chains together; the per-chain
// sums are rescaled to add up to it, since a peak matching ions of both
// chains contributes to either per-chain sum but only once to intsum.
// For single-peptide matches (lenBeta 0) this reduces to the plain
// matched-current fraction.
func WTIC(intsumAlpha, intsumBeta, intsum float64, lenAlpha, lenBeta int, totalCurrent float64) float64 {
	if totalCurrent <= 0 {
		return 0
	}
	if lenBeta == 0 {
		return intsum / totalCurrent
	}
	if chainSum := intsumAlpha + intsumBeta; chainSum > 0 {
		intsumAlpha = intsumAlpha / chainSum * intsum
		intsumBeta = intsumBeta / chainSum * intsum
	}
	weighted := (intsumAlpha*float64(lenBeta) + intsumBeta*float64(lenAlpha)) /
		float64(lenAlpha+lenBeta)
	return weighted / totalCurrent
}

// Composite combines the sub-scores with fixed weights
func Composite(xcorrX, xcorrC, matchOdds, wTIC, intSum float64) float64 {
	return weightXCorrX*xcorrX +
		weightXCorrC*xcorrC +
		weightMatchOdds*matchOdds +
		weightWTIC*wTIC +
		weightIntSum*intSum
}
