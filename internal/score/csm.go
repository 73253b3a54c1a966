package score

import (
	"sort"

	"github.com/524D/xlscore/internal/digest"
	"github.com/524D/xlscore/internal/fragment"
	"github.com/524D/xlscore/internal/spectrum"
	"github.com/524D/xlscore/internal/xlink"
)

// FragmentAnnotation links one matched experimental peak to the
// theoretical ion it was matched by
type FragmentAnnotation struct {
	Name   string  `json:"name"`
	TheoMz float64 `json:"theoMz"`
	ExpMz  float64 `json:"expMz"`
	Intens float64 `json:"intensity"`
	Charge int     `json:"charge"`
}

// CSM is one scored candidate spectrum match
type CSM struct {
	Candidate       xlink.Candidate
	ScanIndexLight  int
	ScanIndexHeavy  int
	PrecursorMass   float64
	PrecursorCharge int
	PrecursorErrPPM float64
	Rank            int

	Score     float64
	PreScore  float64
	MatchOdds float64
	XCorrX    float64
	XCorrC    float64
	TIC       float64
	WTIC      float64
	IntSum    float64

	MatchedCommonAlpha int
	MatchedCommonBeta  int
	MatchedXlinkAlpha  int
	MatchedXlinkBeta   int

	Annotations []FragmentAnnotation

	// filled in by protein reindexing
	ProteinsAlpha []string
	ProteinsBeta  []string
	DecoyAlpha    bool
	DecoyBeta     bool
}

// Scorer evaluates cross-link candidates against preprocessed spectrum
// pairs. Safe for concurrent use; the fragment generator caches across
// goroutines.
type Scorer struct {
	Gen              *fragment.Generator
	Index            digest.Index
	FragmentTol      float64
	FragmentTolXlink float64
	TolPPM           bool
}

// maximum charge of common (linker-free) fragment ions
const maxCommonCharge = 2

// NXlinkCharges returns the number of charge states considered for
// linker-carrying fragments of a precursor: the precursor charge minus
// the three protons assumed bound to the linked region, at least one
func NXlinkCharges(precursorCharge int) int {
	n := precursorCharge - 3
	if n < 1 {
		n = 1
	}
	return n
}

// ScoreCandidate computes all sub-scores of one candidate against a
// preprocessed pair. aucorrSumC and aucorrSumX are the summed
// autocorrelations of the pair's merged spectrum at the common and
// cross-link bin widths; they normalize the correlation scores so pairs
// of different peak density are comparable. Returns false when not a
// single theoretical ion matched.
func (sc *Scorer) ScoreCandidate(cand xlink.Candidate, pair *spectrum.PairSpectra, precursorMass float64, precursorCharge int, aucorrSumC, aucorrSumX float64) (CSM, bool) {
	alpha := &sc.Index.Peptides[cand.Alpha]
	var beta *digest.Peptide
	if cand.Type == xlink.Cross {
		beta = &sc.Index.Peptides[cand.Beta]
	}

	posA, posB := cand.PosAlpha, -1
	if cand.Type == xlink.Loop {
		posB = cand.PosBeta
	}

	minXCharge := 1
	if cand.Type != xlink.Cross {
		minXCharge = 2
	}

	commonAlpha := sc.Gen.CommonIons(alpha, posA, posB, true, maxCommonCharge)
	xlinkAlpha := sc.Gen.XLinkIons(alpha, posA, posB, precursorMass, true, minXCharge, precursorCharge)
	var commonBeta, xlinkBeta fragment.Spec
	if beta != nil {
		commonBeta = sc.Gen.CommonIons(beta, cand.PosBeta, -1, false, maxCommonCharge)
		xlinkBeta = sc.Gen.XLinkIons(beta, cand.PosBeta, -1, precursorMass, false, minXCharge, precursorCharge)
	}

	// matching uses no intensity cutoff; the preprocessor already
	// filtered the experimental peaks
	alignCA := spectrum.Align(commonAlpha.Peaks, pair.Common.Peaks, sc.FragmentTol, sc.TolPPM, 0)
	alignXA := spectrum.Align(xlinkAlpha.Peaks, pair.Xlink.Peaks, sc.FragmentTolXlink, sc.TolPPM, 0)
	var alignCB, alignXB [][2]int
	if beta != nil {
		alignCB = spectrum.Align(commonBeta.Peaks, pair.Common.Peaks, sc.FragmentTol, sc.TolPPM, 0)
		alignXB = spectrum.Align(xlinkBeta.Peaks, pair.Xlink.Peaks, sc.FragmentTolXlink, sc.TolPPM, 0)
	}

	matched := len(alignCA) + len(alignXA) + len(alignCB) + len(alignXB)
	if matched == 0 {
		return CSM{}, false
	}

	csm := CSM{
		Candidate:          cand,
		PrecursorMass:      precursorMass,
		PrecursorCharge:    precursorCharge,
		MatchedCommonAlpha: len(alignCA),
		MatchedCommonBeta:  len(alignCB),
		MatchedXlinkAlpha:  len(alignXA),
		MatchedXlinkBeta:   len(alignXB),
	}

	theorAlpha := len(commonAlpha.Peaks) + len(xlinkAlpha.Peaks)
	if beta != nil {
		theorBeta := len(commonBeta.Peaks) + len(xlinkBeta.Peaks)
		csm.PreScore = PreScoreBoth(len(alignCA)+len(alignXA), theorAlpha,
			len(alignCB)+len(alignXB), theorBeta)
	} else {
		csm.PreScore = PreScore(matched, theorAlpha)
	}

	nxc := NXlinkCharges(precursorCharge)
	moCA := MatchOdds(&spectrum.Spectrum{Peaks: commonAlpha.Peaks}, len(alignCA), sc.FragmentTol, sc.TolPPM, false, 1)
	moXA := MatchOdds(&spectrum.Spectrum{Peaks: xlinkAlpha.Peaks}, len(alignXA), sc.FragmentTolXlink, sc.TolPPM, true, nxc)
	if beta != nil {
		moCB := MatchOdds(&spectrum.Spectrum{Peaks: commonBeta.Peaks}, len(alignCB), sc.FragmentTol, sc.TolPPM, false, 1)
		moXB := MatchOdds(&spectrum.Spectrum{Peaks: xlinkBeta.Peaks}, len(alignXB), sc.FragmentTolXlink, sc.TolPPM, true, nxc)
		csm.MatchOdds = (moCA + moXA + moCB + moXB) / 4
	} else {
		csm.MatchOdds = (moCA + moXA) / 2
	}

	theoCommon := fragment.Merge(commonAlpha, commonBeta)
	theoXlink := fragment.Merge(xlinkAlpha, xlinkBeta)
	xcorrC := XCorrelation(&pair.Common, &spectrum.Spectrum{Peaks: theoCommon.Peaks}, BinWidthCommon)
	xcorrX := XCorrelation(&pair.Xlink, &spectrum.Spectrum{Peaks: theoXlink.Peaks}, BinWidthXlink)
	if aucorrSumC > 0 {
		csm.XCorrC = sum(xcorrC) / aucorrSumC
	}
	if aucorrSumX > 0 {
		csm.XCorrX = sum(xcorrX) / aucorrSumX
	}

	intsumAlpha := MatchedCurrent(&pair.Common, alignCA) + MatchedCurrent(&pair.Xlink, alignXA)
	intsumBeta := MatchedCurrent(&pair.Common, alignCB) + MatchedCurrent(&pair.Xlink, alignXB)
	intsum := matchedCurrentDedup(&pair.Common, alignCA, alignCB) +
		matchedCurrentDedup(&pair.Xlink, alignXA, alignXB)

	total := pair.All.TotalCurrent()
	csm.IntSum = intsum
	if total > 0 {
		csm.TIC = intsum / total
	}
	lenBeta := 0
	if beta != nil {
		lenBeta = len(beta.Sequence)
	}
	csm.WTIC = WTIC(intsumAlpha, intsumBeta, intsum, len(alpha.Sequence), lenBeta, total)

	csm.Score = Composite(csm.XCorrX, csm.XCorrC, csm.MatchOdds, csm.WTIC, csm.IntSum)

	csm.Annotations = collectAnnotations(
		annotationSource{&commonAlpha, &pair.Common, alignCA},
		annotationSource{&xlinkAlpha, &pair.Xlink, alignXA},
		annotationSource{&commonBeta, &pair.Common, alignCB},
		annotationSource{&xlinkBeta, &pair.Xlink, alignXB},
	)
	return csm, true
}

func sum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

// matchedCurrentDedup sums the experimental intensity over the union of
// peak positions matched by either alignment
func matchedCurrentDedup(exp *spectrum.Spectrum, alignA, alignB [][2]int) float64 {
	seen := make(map[int]bool, len(alignA)+len(alignB))
	var s float64
	for _, align := range [][][2]int{alignA, alignB} {
		for _, pair := range align {
			if seen[pair[1]] {
				continue
			}
			seen[pair[1]] = true
			s += exp.Peaks[pair[1]].Intens
		}
	}
	return s
}

type annotationSource struct {
	theo  *fragment.Spec
	exp   *spectrum.Spectrum
	align [][2]int
}

// collectAnnotations turns alignments into per-peak ion annotations,
// deduplicated on name and experimental position
func collectAnnotations(sources ...annotationSource) []FragmentAnnotation {
	var out []FragmentAnnotation
	for _, src := range sources {
		for _, pair := range src.align {
			expPeak := src.exp.Peaks[pair[1]]
			out = append(out, FragmentAnnotation{
				Name:   src.theo.Names[pair[0]],
				TheoMz: src.theo.Peaks[pair[0]].Mz,
				ExpMz:  expPeak.Mz,
				Intens: expPeak.Intens,
				Charge: src.theo.Peaks[pair[0]].Charge,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ExpMz != out[j].ExpMz {
			return out[i].ExpMz < out[j].ExpMz
		}
		return out[i].Name < out[j].Name
	})
	// drop duplicates from isotope peaks of the same ion landing on one
	// experimental peak
	dedup := out[:0]
	for i, a := range out {
		if i > 0 && a.Name == out[i-1].Name && a.ExpMz == out[i-1].ExpMz {
			continue
		}
		dedup = append(dedup, a)
	}
	return dedup
}

// AutoCorrSums computes the summed autocorrelation of a spectrum at the
// common and cross-link bin widths. The sums normalize candidate
// correlation scores across pairs of different peak density.
func AutoCorrSums(s *spectrum.Spectrum) (sumC, sumX float64) {
	sumC = sum(XCorrelation(s, s, BinWidthCommon))
	sumX = sum(XCorrelation(s, s, BinWidthXlink))
	return sumC, sumX
}

// TopN keeps the n highest scoring matches, ranked from 1. Equal scores
// keep their construction order, the earlier match ranking higher.
func TopN(csms []CSM, n int) []CSM {
	if n <= 0 {
		return nil
	}
	pool := make([]CSM, len(csms))
	copy(pool, csms)
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]CSM, 0, n)
	for rank := 1; rank <= n; rank++ {
		best := 0
		for i := 1; i < len(pool); i++ {
			if pool[i].Score > pool[best].Score {
				best = i
			}
		}
		csm := pool[best]
		csm.Rank = rank
		out = append(out, csm)
		pool = append(pool[:best], pool[best+1:]...)
	}
	return out
}
