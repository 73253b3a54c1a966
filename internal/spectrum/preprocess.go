package spectrum

// intensityRatioCutoff is the minimal min/max intensity ratio for two
// peaks of a light/heavy pair to be considered the same fragment
const intensityRatioCutoff = 0.3

// maxPairPeaks caps the common and cross-link peak sets; the merged set
// can hold up to twice as many
const maxPairPeaks = 250

// PairSpectra are the derived peak sets for one light/heavy spectrum
// pair. Created once per pair and read-only afterwards.
type PairSpectra struct {
	Common Spectrum // peaks shared by light and heavy without shift
	Xlink  Spectrum // peaks matching after the isotope shift, charge-annotated
	All    Spectrum // union of Common and Xlink
}

// PreprocessConfig holds the parameters of pair preprocessing
type PreprocessConfig struct {
	FragmentTol      float64 // generic fragment mass tolerance
	FragmentTolXlink float64 // tolerance for cross-link carrying fragments
	TolPPM           bool
	IsoShift         float64 // mass difference between heavy and light linker
}

// PreprocessPair derives the common, cross-link and merged peak sets for
// one light/heavy spectrum pair. Peaks of the light spectrum that match
// the heavy spectrum without shift become common peaks. Peaks that match
// after shifting the heavy spectrum down by isoShift/charge, for any
// charge from 1 up to the light precursor charge, become cross-link
// peaks annotated with that charge; a peak may appear once per matching
// charge hypothesis. Safe to call concurrently for different pairs.
func PreprocessPair(light, heavy *Spectrum, cfg PreprocessConfig) PairSpectra {
	var out PairSpectra

	// unshifted alignment: fragments without the linker
	matchedNoShift := Align(light.Peaks, heavy.Peaks, cfg.FragmentTol, cfg.TolPPM, intensityRatioCutoff)
	out.Common.Peaks = make([]Peak, 0, len(matchedNoShift))
	for _, m := range matchedNoShift {
		out.Common.Peaks = append(out.Common.Peaks, light.Peaks[m[0]])
	}

	// shift the heavy spectrum for every trial charge and collect the
	// light peaks that match under it
	maxCharge := light.PrecursorCharge
	if maxCharge < 1 {
		maxCharge = 1
	}
	for charge := 1; charge <= maxCharge; charge++ {
		massShift := cfg.IsoShift / float64(charge)
		shifted := make([]Peak, 0, len(heavy.Peaks))
		for _, p := range heavy.Peaks {
			// skip peaks whose deisotoping charge disagrees with the trial charge
			if p.Charge != 0 && p.Charge != charge {
				continue
			}
			shifted = append(shifted, Peak{Mz: p.Mz - massShift, Intens: p.Intens, Charge: charge})
		}
		if len(shifted) == 0 {
			continue
		}
		matchedShift := Align(light.Peaks, shifted, cfg.FragmentTolXlink, cfg.TolPPM, intensityRatioCutoff)
		for _, m := range matchedShift {
			p := light.Peaks[m[0]]
			p.Charge = charge
			out.Xlink.Peaks = append(out.Xlink.Peaks, p)
		}
	}

	out.Common.NLargest(maxPairPeaks)
	out.Xlink.NLargest(maxPairPeaks)
	out.Xlink.SortByPosition()

	out.Common.PrecursorMz = light.PrecursorMz
	out.Common.PrecursorCharge = light.PrecursorCharge
	out.Xlink.PrecursorMz = light.PrecursorMz
	out.Xlink.PrecursorCharge = light.PrecursorCharge
	out.All = Merge(&out.Common, &out.Xlink)
	return out
}
