// Package xquestxml writes search results in the xQuest XML layout:
// one results file with the scored matches per spectrum pair, and one
// spectrum file with the matched peak annotations.
package xquestxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Results is the root of the results document
type Results struct {
	XMLName    xml.Name         `xml:"xquest_results"`
	Version    string           `xml:"xlscore_version,attr"`
	Date       string           `xml:"date,attr"`
	Database   string           `xml:"database,attr"`
	Enzyme     string           `xml:"enzyme,attr"`
	LinkerMass float64          `xml:"crosslinker_mass,attr"`
	IsoShift   float64          `xml:"isotope_shift,attr"`
	Spectra    []SpectrumSearch `xml:"spectrum_search"`
}

// SpectrumSearch groups the matches of one light/heavy spectrum pair
type SpectrumSearch struct {
	Spectrum        string      `xml:"spectrum,attr"` // "lightID,heavyID"
	MzPrecursor     float64     `xml:"mz_precursor,attr"`
	ChargePrecursor int         `xml:"charge_precursor,attr"`
	RTSec           float64     `xml:"rt,attr"`
	Hits            []SearchHit `xml:"search_hit"`
}

// SearchHit is one scored candidate of a spectrum pair
type SearchHit struct {
	Rank            int     `xml:"search_rank,attr"`
	ID              string  `xml:"id,attr"` // SEQ1-SEQ2-a3-b2
	Type            string  `xml:"type,attr"`
	Seq1            string  `xml:"seq1,attr"`
	Seq2            string  `xml:"seq2,attr,omitempty"`
	Prot1           string  `xml:"prot1,attr"`
	Prot2           string  `xml:"prot2,attr,omitempty"`
	LinkPos1        int     `xml:"xlinkposition1,attr"`
	LinkPos2        int     `xml:"xlinkposition2,attr"`
	MassTheoretical float64 `xml:"mass_theoretical,attr"`
	ErrorPPM        float64 `xml:"error_rel,attr"`
	TargetDecoy     string  `xml:"target_decoy,attr"`
	Score           float64 `xml:"score,attr"`
	PreScore        float64 `xml:"prescore,attr"`
	MatchOdds       float64 `xml:"match_odds,attr"`
	XCorrX          float64 `xml:"xcorrx,attr"`
	XCorrC          float64 `xml:"xcorrc,attr"`
	TIC             float64 `xml:"TIC,attr"`
	WTIC            float64 `xml:"wTIC,attr"`
	IntSum          float64 `xml:"intsum,attr"`
	MatchedCommon   int     `xml:"num_of_matched_common_ions,attr"`
	MatchedXlink    int     `xml:"num_of_matched_xlink_ions,attr"`
}

// HitID composes the xQuest match identifier from the sequences and
// link positions, 1-based
func HitID(seq1, seq2 string, pos1, pos2 int) string {
	if seq2 == "" {
		return fmt.Sprintf("%s-a%d", seq1, pos1+1)
	}
	return fmt.Sprintf("%s-%s-a%d-b%d", seq1, seq2, pos1+1, pos2+1)
}

// NewResults returns a results document with the run metadata filled in
func NewResults(version, database, enzyme string, linkerMass, isoShift float64) *Results {
	return &Results{
		Version:    version,
		Date:       time.Now().Format(time.RFC3339),
		Database:   database,
		Enzyme:     enzyme,
		LinkerMass: linkerMass,
		IsoShift:   isoShift,
	}
}

func (r *Results) Write(writer io.Writer) error {
	writer.Write([]byte("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n"))
	enc := xml.NewEncoder(writer)
	enc.Indent(``, ` `)
	return enc.Encode(r)
}

// WriteFile writes the results document to path
func (r *Results) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.Write(f)
}

// Spectra is the root of the matched-spectrum document, one entry per
// spectrum pair with the annotated peaks of its top hit
type Spectra struct {
	XMLName xml.Name       `xml:"spectra"`
	Entries []SpectrumPair `xml:"spectrum"`
}

// SpectrumPair carries the peak annotations of one pair's best match
type SpectrumPair struct {
	Spectrum string      `xml:"spectrum,attr"`
	HitID    string      `xml:"id,attr"`
	Peaks    []PeakMatch `xml:"peak"`
}

// PeakMatch is one experimental peak matched by a theoretical ion
type PeakMatch struct {
	Ion    string  `xml:"ion,attr"`
	TheoMz float64 `xml:"mz_theoretical,attr"`
	ExpMz  float64 `xml:"mz,attr"`
	Intens float64 `xml:"intensity,attr"`
	Charge int     `xml:"charge,attr"`
}

func (s *Spectra) Write(writer io.Writer) error {
	writer.Write([]byte("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n"))
	enc := xml.NewEncoder(writer)
	enc.Indent(``, ` `)
	return enc.Encode(s)
}

// WriteFile writes the matched-spectrum document to path
func (s *Spectra) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.Write(f)
}

// JoinAccessions renders a protein accession list as a comma separated
// attribute value
func JoinAccessions(accessions []string) string {
	return strings.Join(accessions, ",")
}

// TargetDecoy renders the xQuest target/decoy class of a match
func TargetDecoy(decoyAlpha, decoyBeta, hasBeta bool) string {
	if !hasBeta {
		if decoyAlpha {
			return "decoy"
		}
		return "target"
	}
	switch {
	case decoyAlpha && decoyBeta:
		return "decoy"
	case decoyAlpha || decoyBeta:
		return "target+decoy"
	default:
		return "target"
	}
}
