// Package mzidentml writes peptide identifications as mzIdentML 1.1,
// the HUPO-PSI interchange format. Cross-linked peptide pairs follow
// the PSI convention of two spectrum identification items tied
// together by a cross-link identifier, with donor and acceptor
// modifications marking the linked residues.
package mzidentml

import "encoding/xml"

// Types for writing mzIdentML

type mzIdentML struct {
	XMLName          xml.Name           `xml:"MzIdentML"`
	Xmlns            string             `xml:"xmlns,attr"`
	ID               string             `xml:"id,attr"`
	Version          string             `xml:"version,attr"`
	CreationDate     string             `xml:"creationDate,attr"`
	CvList           []cv               `xml:"cvList>cv"`
	AnalysisSoftware analysisSoftware   `xml:"AnalysisSoftwareList>AnalysisSoftware"`
	Sequences        sequenceCollection `xml:"SequenceCollection"`
	Data             dataCollection     `xml:"DataCollection"`
}

type cv struct {
	ID       string `xml:"id,attr"`
	FullName string `xml:"fullName,attr"`
	URI      string `xml:"uri,attr"`
}

type analysisSoftware struct {
	ID      string `xml:"id,attr"`
	Name    string `xml:"name,attr"`
	Version string `xml:"version,attr"`
}

type sequenceCollection struct {
	DBSequences []dbSequence      `xml:"DBSequence"`
	Peptides    []Peptide         `xml:"Peptide"`
	Evidences   []peptideEvidence `xml:"PeptideEvidence"`
}

type dbSequence struct {
	ID                string `xml:"id,attr"`
	Accession         string `xml:"accession,attr"`
	SearchDatabaseRef string `xml:"searchDatabase_ref,attr"`
}

// Peptide is one sequence entry with its modifications
type Peptide struct {
	ID            string         `xml:"id,attr"`
	Sequence      string         `xml:"PeptideSequence"`
	Modifications []Modification `xml:"Modification"`
}

// Modification is a mass delta at a 1-based sequence location; location
// 0 denotes the N-terminus
type Modification struct {
	Location              int       `xml:"location,attr"`
	MonoisotopicMassDelta float64   `xml:"monoisotopicMassDelta,attr"`
	CvPar                 []CVParam `xml:"cvParam"`
}

type peptideEvidence struct {
	ID            string `xml:"id,attr"`
	PeptideRef    string `xml:"peptide_ref,attr"`
	DBSequenceRef string `xml:"dBSequence_ref,attr"`
	IsDecoy       bool   `xml:"isDecoy,attr"`
}

type dataCollection struct {
	SearchDatabase searchDatabase             `xml:"Inputs>SearchDatabase"`
	SpectraData    spectraData                `xml:"Inputs>SpectraData"`
	List           spectrumIdentificationList `xml:"AnalysisData>SpectrumIdentificationList"`
}

type searchDatabase struct {
	ID       string `xml:"id,attr"`
	Location string `xml:"location,attr"`
}

type spectraData struct {
	ID       string `xml:"id,attr"`
	Location string `xml:"location,attr"`
}

type spectrumIdentificationList struct {
	ID      string                          `xml:"id,attr"`
	Results []*SpectrumIdentificationResult `xml:"SpectrumIdentificationResult"`
}

// SpectrumIdentificationResult groups the identification items of one
// spectrum
type SpectrumIdentificationResult struct {
	ID             string                       `xml:"id,attr"`
	SpectrumID     string                       `xml:"spectrumID,attr"`
	SpectraDataRef string                       `xml:"spectraData_ref,attr"`
	Items          []SpectrumIdentificationItem `xml:"SpectrumIdentificationItem"`
	CvPar          []CVParam                    `xml:"cvParam"`
}

// SpectrumIdentificationItem is one scored peptide-to-spectrum match
type SpectrumIdentificationItem struct {
	ID             string        `xml:"id,attr"`
	Rank           int           `xml:"rank,attr"`
	ChargeState    int           `xml:"chargeState,attr"`
	ExperimentalMz float64       `xml:"experimentalMassToCharge,attr"`
	CalculatedMz   float64       `xml:"calculatedMassToCharge,attr"`
	PeptideRef     string        `xml:"peptide_ref,attr"`
	PassThreshold  bool          `xml:"passThreshold,attr"`
	EvidenceRefs   []evidenceRef `xml:"PeptideEvidenceRef"`
	CvPar          []CVParam     `xml:"cvParam"`
}

type evidenceRef struct {
	PeptideEvidenceRef string `xml:"peptideEvidence_ref,attr"`
}

// CVParam is a controlled vocabulary term with an optional value
type CVParam struct {
	CvRef         string `xml:"cvRef,attr"`
	Accession     string `xml:"accession,attr"`
	Name          string `xml:"name,attr"`
	Value         string `xml:"value,attr,omitempty"`
	UnitAccession string `xml:"unitAccession,attr,omitempty"`
}
