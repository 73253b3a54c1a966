// Package consensus reads consensusXML files produced by MS1 feature
// linking (e.g. FeatureFinderMultiplex) and maps the linked light/heavy
// feature pairs to MS2 spectra.
package consensus

import (
	"encoding/xml"
	"errors"
	"io"
	"math"
	"sort"
	"strconv"

	"golang.org/x/net/html/charset"
)

// Feature is one member of a consensus element: an MS1 feature from
// either the light map (map index 0) or the heavy map (map index 1).
// SpectrumIndex is the scan index of the MS2 spectrum recorded by a
// previous precursor mapping step, or -1 when the file carries none.
type Feature struct {
	MapIndex      int
	SpectrumIndex int
	RT            float64 // seconds
	Mz            float64
	Charge        int
}

// FeaturePair links the light and heavy version of one cross-linked species
type FeaturePair struct {
	Light Feature
	Heavy Feature
}

// SpectrumRef identifies an MS2 spectrum by its scan index, with the
// precursor coordinates needed for feature matching
type SpectrumRef struct {
	ScanIndex int
	RT        float64
	Mz        float64
	Charge    int
}

var ErrNoPairs = errors.New("consensus: no light/heavy feature pairs found")

type consensusXML struct {
	XMLName     xml.Name           `xml:"consensusXML"`
	ElementList []consensusElement `xml:"consensusElementList>consensusElement"`
}

type consensusElement struct {
	ID         string                  `xml:"id,attr"`
	Charge     int                     `xml:"charge,attr"`
	Elements   []groupedElement        `xml:"groupedElementList>element"`
	PeptideIDs []peptideIdentification `xml:"PeptideIdentification"`
}

type groupedElement struct {
	Map    int     `xml:"map,attr"`
	RT     float64 `xml:"rt,attr"`
	Mz     float64 `xml:"mz,attr"`
	Charge int     `xml:"charge,attr"`
}

// peptideIdentification holds the user params a precursor mapping step
// attached to the consensus element, among them map_index and
// spectrum_index
type peptideIdentification struct {
	Params []userParam `xml:"UserParam"`
}

type userParam struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

func (p *peptideIdentification) intParam(name string) (int, bool) {
	for _, up := range p.Params {
		if up.Name == name {
			if v, err := strconv.Atoi(up.Value); err == nil {
				return v, true
			}
		}
	}
	return 0, false
}

// Read parses a consensusXML file and returns all consensus elements
// that group exactly one light (map 0) and one heavy (map 1) feature.
// Elements with any other composition are ignored. When an element
// carries PeptideIdentification user params from a precursor mapping
// step, the spectrum_index of each map side is taken over.
func Read(reader io.Reader) ([]FeaturePair, error) {
	var content consensusXML
	d := xml.NewDecoder(reader)
	d.CharsetReader = charset.NewReaderLabel
	if err := d.Decode(&content); err != nil {
		return nil, err
	}

	var pairs []FeaturePair
	for _, elem := range content.ElementList {
		if len(elem.Elements) != 2 {
			continue
		}
		var light, heavy *groupedElement
		for i := range elem.Elements {
			switch elem.Elements[i].Map {
			case 0:
				light = &elem.Elements[i]
			case 1:
				heavy = &elem.Elements[i]
			}
		}
		if light == nil || heavy == nil {
			continue
		}
		pair := FeaturePair{
			Light: Feature{MapIndex: 0, SpectrumIndex: -1, RT: light.RT, Mz: light.Mz, Charge: charge(light, elem.Charge)},
			Heavy: Feature{MapIndex: 1, SpectrumIndex: -1, RT: heavy.RT, Mz: heavy.Mz, Charge: charge(heavy, elem.Charge)},
		}
		for i := range elem.PeptideIDs {
			pid := &elem.PeptideIDs[i]
			mapIndex, okMap := pid.intParam("map_index")
			specIndex, okSpec := pid.intParam("spectrum_index")
			if !okMap || !okSpec {
				continue
			}
			switch mapIndex {
			case 0:
				pair.Light.SpectrumIndex = specIndex
			case 1:
				pair.Heavy.SpectrumIndex = specIndex
			}
		}
		pairs = append(pairs, pair)
	}
	if len(pairs) == 0 {
		return nil, ErrNoPairs
	}
	return pairs, nil
}

func charge(e *groupedElement, elemCharge int) int {
	if e.Charge != 0 {
		return e.Charge
	}
	return elemCharge
}

// MapToSpectra resolves each feature pair to MS2 scan indices. Pairs
// whose features carry a spectrum_index back-reference use it directly.
// All others are matched by precursor retention time and m/z: of
// multiple spectra in the RT window the one with the smallest m/z
// deviation is used, and charge must agree when both sides declare one.
// A pair is only reported when both sides resolve to distinct spectra.
// Results are (light scan index, heavy scan index).
func MapToSpectra(pairs []FeaturePair, specs []SpectrumRef,
	rtTol float64, mzTol float64, mzTolPPM bool) [][2]int {

	// sort a copy by RT for window queries
	byRT := make([]SpectrumRef, len(specs))
	copy(byRT, specs)
	sort.Slice(byRT, func(i, j int) bool { return byRT[i].RT < byRT[j].RT })

	var scanPairs [][2]int
	for _, pair := range pairs {
		if pair.Light.SpectrumIndex >= 0 && pair.Heavy.SpectrumIndex >= 0 {
			if pair.Light.SpectrumIndex != pair.Heavy.SpectrumIndex {
				scanPairs = append(scanPairs, [2]int{pair.Light.SpectrumIndex, pair.Heavy.SpectrumIndex})
			}
			continue
		}
		lightIdx, okLight := matchFeature(pair.Light, byRT, rtTol, mzTol, mzTolPPM)
		heavyIdx, okHeavy := matchFeature(pair.Heavy, byRT, rtTol, mzTol, mzTolPPM)
		if okLight && okHeavy && lightIdx != heavyIdx {
			scanPairs = append(scanPairs, [2]int{lightIdx, heavyIdx})
		}
	}
	return scanPairs
}

func matchFeature(f Feature, byRT []SpectrumRef,
	rtTol float64, mzTol float64, mzTolPPM bool) (int, bool) {

	i1 := sort.Search(len(byRT), func(i int) bool { return byRT[i].RT >= f.RT-rtTol })
	i2 := sort.Search(len(byRT), func(i int) bool { return byRT[i].RT > f.RT+rtTol })

	bestIdx := -1
	bestErr := math.MaxFloat64
	for i := i1; i < i2; i++ {
		s := byRT[i]
		if f.Charge != 0 && s.Charge != 0 && f.Charge != s.Charge {
			continue
		}
		allowed := mzTol
		if mzTolPPM {
			allowed = f.Mz * mzTol * 1e-6
		}
		mzErr := math.Abs(s.Mz - f.Mz)
		if mzErr <= allowed && mzErr < bestErr {
			bestErr = mzErr
			bestIdx = s.ScanIndex
		}
	}
	return bestIdx, bestIdx >= 0
}
