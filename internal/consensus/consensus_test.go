package consensus

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testConsensusXML = `<?xml version="1.0" encoding="ISO-8859-1"?>
<consensusXML version="1.7">
  <mapList count="2">
    <map id="0" name="light"/>
    <map id="1" name="heavy"/>
  </mapList>
  <consensusElementList>
    <consensusElement id="e_1" charge="4">
      <centroid rt="1200.5" mz="600.25"/>
      <groupedElementList>
        <element map="0" id="1" rt="1200.5" mz="600.25" it="1e6" charge="4"/>
        <element map="1" id="2" rt="1201.0" mz="603.27" it="9e5" charge="4"/>
      </groupedElementList>
      <PeptideIdentification score_type="" higher_score_better="true">
        <UserParam type="int" name="map_index" value="0"/>
        <UserParam type="int" name="spectrum_index" value="100"/>
      </PeptideIdentification>
      <PeptideIdentification score_type="" higher_score_better="true">
        <UserParam type="int" name="map_index" value="1"/>
        <UserParam type="int" name="spectrum_index" value="101"/>
      </PeptideIdentification>
    </consensusElement>
    <consensusElement id="e_2" charge="3">
      <centroid rt="900.0" mz="500.0"/>
      <groupedElementList>
        <element map="0" id="3" rt="900.0" mz="500.0" it="1e5"/>
        <element map="1" id="4" rt="901.0" mz="504.0" it="1e5"/>
      </groupedElementList>
    </consensusElement>
    <consensusElement id="e_3" charge="2">
      <centroid rt="700.0" mz="400.0"/>
      <groupedElementList>
        <element map="0" id="5" rt="700.0" mz="400.0" it="1e5" charge="2"/>
      </groupedElementList>
    </consensusElement>
  </consensusElementList>
</consensusXML>
`

func TestRead(t *testing.T) {
	pairs, err := Read(strings.NewReader(testConsensusXML))
	if err != nil {
		t.Fatalf("Read: error return %v", err)
	}
	// e_3 has only one member and is skipped
	if len(pairs) != 2 {
		t.Fatalf("Read: %d pairs, should be 2", len(pairs))
	}
	want := FeaturePair{
		Light: Feature{MapIndex: 0, SpectrumIndex: 100, RT: 1200.5, Mz: 600.25, Charge: 4},
		Heavy: Feature{MapIndex: 1, SpectrumIndex: 101, RT: 1201.0, Mz: 603.27, Charge: 4},
	}
	if diff := cmp.Diff(want, pairs[0]); diff != "" {
		t.Errorf("Read: pair 0 mismatch (-want +got):\n%s", diff)
	}
	// elements without their own charge inherit the element charge
	if pairs[1].Light.Charge != 3 || pairs[1].Heavy.Charge != 3 {
		t.Errorf("Read: pair 1 charges %d/%d, should inherit 3",
			pairs[1].Light.Charge, pairs[1].Heavy.Charge)
	}
	// elements without identifications carry no spectrum index
	if pairs[1].Light.SpectrumIndex != -1 || pairs[1].Heavy.SpectrumIndex != -1 {
		t.Errorf("Read: pair 1 spectrum indices %d/%d, should be -1",
			pairs[1].Light.SpectrumIndex, pairs[1].Heavy.SpectrumIndex)
	}
}

func TestReadNoPairs(t *testing.T) {
	const empty = `<?xml version="1.0"?><consensusXML><consensusElementList/></consensusXML>`
	_, err := Read(strings.NewReader(empty))
	if err != ErrNoPairs {
		t.Errorf("Read: error %v, should be ErrNoPairs", err)
	}
}

func testRefs() []SpectrumRef {
	return []SpectrumRef{
		{ScanIndex: 10, RT: 1190.0, Mz: 600.26, Charge: 4},
		{ScanIndex: 11, RT: 1195.0, Mz: 603.28, Charge: 4},
		{ScanIndex: 12, RT: 1600.0, Mz: 600.25, Charge: 4},
	}
}

func TestMapToSpectra(t *testing.T) {
	pairs := []FeaturePair{{
		Light: Feature{SpectrumIndex: -1, RT: 1200.0, Mz: 600.25, Charge: 4},
		Heavy: Feature{SpectrumIndex: -1, RT: 1200.0, Mz: 603.27, Charge: 4},
	}}
	got := MapToSpectra(pairs, testRefs(), 30.0, 0.05, false)
	want := [][2]int{{10, 11}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MapToSpectra: mismatch (-want +got):\n%s", diff)
	}
}

func TestMapToSpectraSpectrumIndex(t *testing.T) {
	// a carried spectrum_index back-reference overrides RT/m-z matching:
	// the feature coordinates point at scans 10/11, the indices elsewhere
	pairs := []FeaturePair{{
		Light: Feature{SpectrumIndex: 20, RT: 1200.0, Mz: 600.25, Charge: 4},
		Heavy: Feature{SpectrumIndex: 21, RT: 1200.0, Mz: 603.27, Charge: 4},
	}}
	got := MapToSpectra(pairs, testRefs(), 30.0, 0.05, false)
	want := [][2]int{{20, 21}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MapToSpectra: mismatch (-want +got):\n%s", diff)
	}

	// identical indices on both sides cannot form a pair
	pairs[0].Heavy.SpectrumIndex = 20
	if got := MapToSpectra(pairs, testRefs(), 30.0, 0.05, false); len(got) != 0 {
		t.Errorf("MapToSpectra: same-spectrum pair accepted, got %v", got)
	}

	// one-sided index falls back to RT/m-z matching
	pairs[0].Heavy.SpectrumIndex = -1
	got = MapToSpectra(pairs, testRefs(), 30.0, 0.05, false)
	want = [][2]int{{10, 11}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MapToSpectra: fallback mismatch (-want +got):\n%s", diff)
	}
}

func TestMapToSpectraRTWindow(t *testing.T) {
	// scan 12 matches the light feature m/z exactly but is 400 s away
	pairs := []FeaturePair{{
		Light: Feature{SpectrumIndex: -1, RT: 1200.0, Mz: 600.25, Charge: 4},
		Heavy: Feature{SpectrumIndex: -1, RT: 1200.0, Mz: 603.27, Charge: 4},
	}}
	got := MapToSpectra(pairs, testRefs(), 30.0, 0.05, false)
	if len(got) != 1 || got[0][0] == 12 {
		t.Errorf("MapToSpectra: out-of-window spectrum matched, got %v", got)
	}
}

func TestMapToSpectraBestMz(t *testing.T) {
	// two spectra in the RT window, the closer m/z wins
	refs := []SpectrumRef{
		{ScanIndex: 1, RT: 1200.0, Mz: 600.30},
		{ScanIndex: 2, RT: 1201.0, Mz: 600.26},
		{ScanIndex: 3, RT: 1202.0, Mz: 603.27},
	}
	pairs := []FeaturePair{{
		Light: Feature{SpectrumIndex: -1, RT: 1200.0, Mz: 600.25},
		Heavy: Feature{SpectrumIndex: -1, RT: 1200.0, Mz: 603.27},
	}}
	got := MapToSpectra(pairs, refs, 30.0, 0.1, false)
	if len(got) != 1 || got[0][0] != 2 {
		t.Errorf("MapToSpectra: closest m/z not preferred, got %v", got)
	}
}

func TestMapToSpectraChargeMismatch(t *testing.T) {
	refs := []SpectrumRef{
		{ScanIndex: 1, RT: 1200.0, Mz: 600.25, Charge: 3},
		{ScanIndex: 2, RT: 1200.0, Mz: 603.27, Charge: 4},
	}
	pairs := []FeaturePair{{
		Light: Feature{SpectrumIndex: -1, RT: 1200.0, Mz: 600.25, Charge: 4},
		Heavy: Feature{SpectrumIndex: -1, RT: 1200.0, Mz: 603.27, Charge: 4},
	}}
	// light feature only matches a charge 3 spectrum, so the pair drops
	if got := MapToSpectra(pairs, refs, 30.0, 0.05, false); len(got) != 0 {
		t.Errorf("MapToSpectra: charge mismatch accepted, got %v", got)
	}
}

func TestMapToSpectraEmpty(t *testing.T) {
	if got := MapToSpectra(nil, testRefs(), 30.0, 0.05, false); len(got) != 0 {
		t.Errorf("MapToSpectra: no pairs produced %v", got)
	}
	pairs := []FeaturePair{{
		Light: Feature{SpectrumIndex: -1, RT: 1200.0, Mz: 600.25},
		Heavy: Feature{SpectrumIndex: -1, RT: 1200.0, Mz: 603.27},
	}}
	if got := MapToSpectra(pairs, nil, 30.0, 0.05, false); len(got) != 0 {
		t.Errorf("MapToSpectra: no spectra produced %v", got)
	}
}
