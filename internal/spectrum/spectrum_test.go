package spectrum

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAlign(t *testing.T) {
	s1 := []Peak{{Mz: 100.0, Intens: 10}, {Mz: 200.0, Intens: 10}, {Mz: 300.0, Intens: 10}}
	s2 := []Peak{{Mz: 100.05, Intens: 10}, {Mz: 200.3, Intens: 10}, {Mz: 300.02, Intens: 10}}

	matches := Align(s1, s2, 0.1, false, 0)
	want := [][2]int{{0, 0}, {2, 2}}
	if diff := cmp.Diff(want, matches); diff != "" {
		t.Errorf("Align: mismatch (-want +got):\n%s", diff)
	}
}

func TestAlignBoundary(t *testing.T) {
	// a distance of exactly the tolerance is a match
	s1 := []Peak{{Mz: 100.0, Intens: 1}}
	s2 := []Peak{{Mz: 100.1, Intens: 1}}
	matches := Align(s1, s2, 0.1, false, 0)
	if len(matches) != 1 {
		t.Errorf("Align: distance equal to tolerance not matched")
	}
	s2[0].Mz = math.Nextafter(100.1, 200.0)
	matches = Align(s1, s2, 0.1, false, 0)
	if len(matches) != 0 {
		t.Errorf("Align: distance beyond tolerance matched")
	}
}

func TestAlignNearest(t *testing.T) {
	// of two peaks in range, the nearest one is matched
	s1 := []Peak{{Mz: 100.0, Intens: 1}}
	s2 := []Peak{{Mz: 99.95, Intens: 1}, {Mz: 100.01, Intens: 1}}
	matches := Align(s1, s2, 0.1, false, 0)
	if len(matches) != 1 || matches[0][1] != 1 {
		t.Errorf("Align: nearest peak not preferred, got %v", matches)
	}
}

func TestAlignIntensityRatio(t *testing.T) {
	s1 := []Peak{{Mz: 100.0, Intens: 100}}
	s2 := []Peak{{Mz: 100.0, Intens: 10}}
	if m := Align(s1, s2, 0.1, false, 0.3); len(m) != 0 {
		t.Errorf("Align: intensity ratio 0.1 accepted with cutoff 0.3")
	}
	s2[0].Intens = 30
	if m := Align(s1, s2, 0.1, false, 0.3); len(m) != 1 {
		t.Errorf("Align: intensity ratio 0.3 rejected with cutoff 0.3")
	}
}

func TestAlignPPM(t *testing.T) {
	s1 := []Peak{{Mz: 1000.0, Intens: 1}}
	s2 := []Peak{{Mz: 1000.005, Intens: 1}}
	if m := Align(s1, s2, 10.0, true, 0); len(m) != 1 {
		t.Errorf("Align: 5 ppm deviation not matched at 10 ppm tolerance")
	}
	if m := Align(s1, s2, 2.0, true, 0); len(m) != 0 {
		t.Errorf("Align: 5 ppm deviation matched at 2 ppm tolerance")
	}
}

func TestAlignEmpty(t *testing.T) {
	if m := Align(nil, nil, 0.1, false, 0); len(m) != 0 {
		t.Errorf("Align: empty input returned matches")
	}
	if m := Align([]Peak{{Mz: 1.0}}, nil, 0.1, false, 0); len(m) != 0 {
		t.Errorf("Align: empty second input returned matches")
	}
}

func TestPrecursorMass(t *testing.T) {
	const massProton = 1.007276466879
	s := Spectrum{PrecursorMz: 501.007276466879, PrecursorCharge: 2}
	mass := s.PrecursorMass(massProton)
	if math.Abs(mass-1000.0) > 1e-6 {
		t.Errorf("PrecursorMass: %f, should be 1000.0", mass)
	}
}

func TestNLargest(t *testing.T) {
	s := Spectrum{Peaks: []Peak{
		{Mz: 100, Intens: 5},
		{Mz: 200, Intens: 50},
		{Mz: 300, Intens: 1},
		{Mz: 400, Intens: 20},
	}}
	s.NLargest(2)
	want := []Peak{{Mz: 200, Intens: 50}, {Mz: 400, Intens: 20}}
	if diff := cmp.Diff(want, s.Peaks); diff != "" {
		t.Errorf("NLargest: mismatch (-want +got):\n%s", diff)
	}
	// n larger than the peak count leaves the spectrum unchanged
	s.NLargest(10)
	if len(s.Peaks) != 2 {
		t.Errorf("NLargest: peak count changed, got %d", len(s.Peaks))
	}
}

func TestMerge(t *testing.T) {
	a := Spectrum{Peaks: []Peak{{Mz: 100}, {Mz: 300}}, PrecursorMz: 500.0, PrecursorCharge: 3}
	b := Spectrum{Peaks: []Peak{{Mz: 200}}}
	m := Merge(&a, &b)
	if len(m.Peaks) != 3 || m.Peaks[1].Mz != 200 {
		t.Errorf("Merge: not sorted by position, got %v", m.Peaks)
	}
	if m.PrecursorMz != 500.0 || m.PrecursorCharge != 3 {
		t.Errorf("Merge: precursor info not taken from first spectrum")
	}
}
