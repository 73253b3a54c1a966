package spectrum

import (
	"testing"
)

const isoShiftDSS = 12.075321

func TestPreprocessPairCommon(t *testing.T) {
	// identical peaks in both spectra are common peaks
	light := Spectrum{
		Peaks:           []Peak{{Mz: 300.0, Intens: 10}, {Mz: 400.0, Intens: 10}},
		PrecursorCharge: 1,
	}
	heavy := Spectrum{
		Peaks:           []Peak{{Mz: 300.0, Intens: 10}, {Mz: 450.0, Intens: 10}},
		PrecursorCharge: 1,
	}
	cfg := PreprocessConfig{FragmentTol: 0.2, FragmentTolXlink: 0.3, IsoShift: isoShiftDSS}
	pair := PreprocessPair(&light, &heavy, cfg)
	if len(pair.Common.Peaks) != 1 || pair.Common.Peaks[0].Mz != 300.0 {
		t.Errorf("PreprocessPair: common peaks %v, should be the 300.0 peak", pair.Common.Peaks)
	}
}

func TestPreprocessPairXlinkShift(t *testing.T) {
	// a light peak at 500.0 with the heavy counterpart exactly one
	// isotope shift higher is a cross-link peak at charge 1
	light := Spectrum{
		Peaks:           []Peak{{Mz: 500.0, Intens: 10}},
		PrecursorCharge: 1,
	}
	heavy := Spectrum{
		Peaks:           []Peak{{Mz: 500.0 + isoShiftDSS, Intens: 10}},
		PrecursorCharge: 1,
	}
	cfg := PreprocessConfig{FragmentTol: 0.2, FragmentTolXlink: 0.3, IsoShift: isoShiftDSS}
	pair := PreprocessPair(&light, &heavy, cfg)
	if len(pair.Xlink.Peaks) != 1 {
		t.Fatalf("PreprocessPair: %d cross-link peaks, should be 1", len(pair.Xlink.Peaks))
	}
	p := pair.Xlink.Peaks[0]
	if p.Mz != 500.0 || p.Charge != 1 {
		t.Errorf("PreprocessPair: cross-link peak %+v, should be mz 500.0 charge 1", p)
	}
	if len(pair.Common.Peaks) != 0 {
		t.Errorf("PreprocessPair: shifted peak also reported as common")
	}
}

func TestPreprocessPairChargeTrials(t *testing.T) {
	// with precursor charge 2, a heavy peak shifted by isoShift/2
	// matches under the charge 2 hypothesis
	light := Spectrum{
		Peaks:           []Peak{{Mz: 500.0, Intens: 10}},
		PrecursorCharge: 2,
	}
	heavy := Spectrum{
		Peaks:           []Peak{{Mz: 500.0 + isoShiftDSS/2, Intens: 10}},
		PrecursorCharge: 2,
	}
	cfg := PreprocessConfig{FragmentTol: 0.2, FragmentTolXlink: 0.3, IsoShift: isoShiftDSS}
	pair := PreprocessPair(&light, &heavy, cfg)
	if len(pair.Xlink.Peaks) != 1 || pair.Xlink.Peaks[0].Charge != 2 {
		t.Errorf("PreprocessPair: cross-link peaks %v, should be one match at charge 2",
			pair.Xlink.Peaks)
	}
}

func TestPreprocessPairChargeAnnotation(t *testing.T) {
	// a heavy peak deisotoped to charge 1 is not tried at charge 2
	light := Spectrum{
		Peaks:           []Peak{{Mz: 500.0, Intens: 10}},
		PrecursorCharge: 2,
	}
	heavy := Spectrum{
		Peaks:           []Peak{{Mz: 500.0 + isoShiftDSS/2, Intens: 10, Charge: 1}},
		PrecursorCharge: 2,
	}
	cfg := PreprocessConfig{FragmentTol: 0.2, FragmentTolXlink: 0.3, IsoShift: isoShiftDSS}
	pair := PreprocessPair(&light, &heavy, cfg)
	if len(pair.Xlink.Peaks) != 0 {
		t.Errorf("PreprocessPair: charge 1 peak matched under charge 2 hypothesis")
	}
}

func TestPreprocessPairIntensityRatio(t *testing.T) {
	// light/heavy intensity ratio below 0.3 disqualifies the pair
	light := Spectrum{
		Peaks:           []Peak{{Mz: 300.0, Intens: 100}},
		PrecursorCharge: 1,
	}
	heavy := Spectrum{
		Peaks:           []Peak{{Mz: 300.0, Intens: 10}},
		PrecursorCharge: 1,
	}
	cfg := PreprocessConfig{FragmentTol: 0.2, FragmentTolXlink: 0.3, IsoShift: isoShiftDSS}
	pair := PreprocessPair(&light, &heavy, cfg)
	if len(pair.Common.Peaks) != 0 {
		t.Errorf("PreprocessPair: dissimilar intensities reported as common peak")
	}
}

func TestPreprocessPairAll(t *testing.T) {
	light := Spectrum{
		Peaks: []Peak{
			{Mz: 300.0, Intens: 10},
			{Mz: 500.0, Intens: 10},
		},
		PrecursorMz:     600.0,
		PrecursorCharge: 1,
	}
	heavy := Spectrum{
		Peaks: []Peak{
			{Mz: 300.0, Intens: 10},
			{Mz: 500.0 + isoShiftDSS, Intens: 10},
		},
		PrecursorCharge: 1,
	}
	cfg := PreprocessConfig{FragmentTol: 0.2, FragmentTolXlink: 0.3, IsoShift: isoShiftDSS}
	pair := PreprocessPair(&light, &heavy, cfg)
	if len(pair.All.Peaks) != 2 {
		t.Errorf("PreprocessPair: merged set has %d peaks, should be 2", len(pair.All.Peaks))
	}
	if pair.All.PrecursorMz != 600.0 {
		t.Errorf("PreprocessPair: precursor info not taken from light spectrum")
	}
}

func TestPreprocessPairEmpty(t *testing.T) {
	var light, heavy Spectrum
	cfg := PreprocessConfig{FragmentTol: 0.2, FragmentTolXlink: 0.3, IsoShift: isoShiftDSS}
	pair := PreprocessPair(&light, &heavy, cfg)
	if len(pair.Common.Peaks) != 0 || len(pair.Xlink.Peaks) != 0 || len(pair.All.Peaks) != 0 {
		t.Errorf("PreprocessPair: empty input produced peaks")
	}
}
