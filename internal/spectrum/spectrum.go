// Package spectrum holds MS2 peak data and the peak-level operations of
// the cross-link search: tolerance-bounded spectrum alignment, intensity
// filtering, annotated merging and the light/heavy pair preprocessing.
package spectrum

import (
	"sort"
)

// Peak is one fragment peak. Charge is a per-peak annotation from a
// prior deisotoping step (0 when unknown) or, on derived cross-link
// peak sets, the trial charge the peak matched under.
type Peak struct {
	Mz     float64
	Intens float64
	Charge int
}

// Spectrum is an ordered sequence of peaks for one scan
type Spectrum struct {
	Peaks           []Peak
	PrecursorMz     float64
	PrecursorCharge int
}

// PrecursorMass returns the neutral monoisotopic mass inferred from the
// precursor m/z and charge
func (s *Spectrum) PrecursorMass(massProton float64) float64 {
	c := float64(s.PrecursorCharge)
	return s.PrecursorMz*c - c*massProton
}

// SortByPosition sorts the peaks of the spectrum ascending by m/z.
// The sort is stable so charge-duplicated peaks keep their order.
func (s *Spectrum) SortByPosition() {
	sort.SliceStable(s.Peaks, func(i, j int) bool { return s.Peaks[i].Mz < s.Peaks[j].Mz })
}

// TotalCurrent returns the summed intensity of all peaks
func (s *Spectrum) TotalCurrent() float64 {
	var sum float64
	for _, p := range s.Peaks {
		sum += p.Intens
	}
	return sum
}

// tolWindow converts a tolerance to an absolute m/z window at position mz
func tolWindow(tol float64, ppm bool, mz float64) float64 {
	if ppm {
		return mz * tol * 1e-6
	}
	return tol
}

// Align matches peaks of two position-sorted peak lists within the given
// tolerance. Each peak is used at most once; of multiple peaks in range
// the nearest one is taken. When intensityCutoff > 0, a match is only
// accepted if the smaller of the two intensities is at least
// intensityCutoff times the larger one. The result is a list of
// (index in s1, index in s2) pairs, ascending in both components.
func Align(s1, s2 []Peak, tol float64, ppm bool, intensityCutoff float64) [][2]int {
	var matches [][2]int
	i, j := 0, 0
	for i < len(s1) && j < len(s2) {
		maxDist := tolWindow(tol, ppm, s1[i].Mz)
		d := s2[j].Mz - s1[i].Mz
		switch {
		case d < -maxDist:
			j++
		case d > maxDist:
			i++
		default:
			// prefer the closest peak in range
			for j+1 < len(s2) && abs(s2[j+1].Mz-s1[i].Mz) < abs(s2[j].Mz-s1[i].Mz) {
				j++
			}
			if intensityRatioOK(s1[i].Intens, s2[j].Intens, intensityCutoff) {
				matches = append(matches, [2]int{i, j})
				j++
			}
			i++
		}
	}
	return matches
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func intensityRatioOK(a, b, cutoff float64) bool {
	if cutoff <= 0 {
		return true
	}
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi == 0 {
		return false
	}
	return lo/hi >= cutoff
}

// NLargest reduces the spectrum to its n highest-intensity peaks,
// re-sorted by position
func (s *Spectrum) NLargest(n int) {
	if n <= 0 || len(s.Peaks) <= n {
		return
	}
	// sort a copy by intensity so the most intense peaks are at the front
	byIntens := make([]Peak, len(s.Peaks))
	copy(byIntens, s.Peaks)
	sort.SliceStable(byIntens, func(i, j int) bool { return byIntens[i].Intens > byIntens[j].Intens })
	s.Peaks = byIntens[:n]
	s.SortByPosition()
}

// Merge returns the peak-wise union of two spectra, sorted by position.
// Peak annotations are retained. Precursor info is taken from a.
func Merge(a, b *Spectrum) Spectrum {
	merged := Spectrum{
		Peaks:           make([]Peak, 0, len(a.Peaks)+len(b.Peaks)),
		PrecursorMz:     a.PrecursorMz,
		PrecursorCharge: a.PrecursorCharge,
	}
	merged.Peaks = append(merged.Peaks, a.Peaks...)
	merged.Peaks = append(merged.Peaks, b.Peaks...)
	merged.SortByPosition()
	return merged
}
