package mzidentml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"time"
)

// Document accumulates identifications and renders them as one
// mzIdentML file. Sequences, peptides and evidences are deduplicated
// by content; references returned by the Add methods are stable.
type Document struct {
	root    mzIdentML
	pepRefs map[string]string
	seqRefs map[string]string
	evRefs  map[string]string
	items   int
}

// NewDocument returns an empty document with the run metadata filled in
func NewDocument(software, version, database, spectraFile string) *Document {
	d := &Document{
		pepRefs: make(map[string]string),
		seqRefs: make(map[string]string),
		evRefs:  make(map[string]string),
	}
	d.root = mzIdentML{
		Xmlns:        "http://psidev.info/psi/pi/mzIdentML/1.1",
		ID:           software,
		Version:      "1.1.0",
		CreationDate: time.Now().Format(time.RFC3339),
		CvList: []cv{
			{ID: "PSI-MS", FullName: "Proteomics Standards Initiative Mass Spectrometry Vocabularies",
				URI: "https://raw.githubusercontent.com/HUPO-PSI/psi-ms-CV/master/psi-ms.obo"},
			{ID: "UO", FullName: "UNIT-ONTOLOGY",
				URI: "https://raw.githubusercontent.com/bio-ontology-research-group/unit-ontology/master/unit.obo"},
		},
		AnalysisSoftware: analysisSoftware{ID: "AS_1", Name: software, Version: version},
	}
	d.root.Data.SearchDatabase = searchDatabase{ID: "SDB_1", Location: database}
	d.root.Data.SpectraData = spectraData{ID: "SD_1", Location: spectraFile}
	d.root.Data.List.ID = "SIL_1"
	return d
}

// CrossLinkDonor marks the residue carrying the linker. pairID ties the
// donor to its acceptor across the two peptides of a cross-link.
func CrossLinkDonor(location int, massDelta float64, pairID string) Modification {
	return Modification{
		Location:              location,
		MonoisotopicMassDelta: massDelta,
		CvPar: []CVParam{{CvRef: "PSI-MS", Accession: "MS:1002509",
			Name: "cross-link donor", Value: pairID}},
	}
}

// CrossLinkAcceptor marks the residue the linker's second side attaches
// to; the linker mass is carried by the donor
func CrossLinkAcceptor(location int, pairID string) Modification {
	return Modification{
		Location: location,
		CvPar: []CVParam{{CvRef: "PSI-MS", Accession: "MS:1002510",
			Name: "cross-link acceptor", Value: pairID}},
	}
}

// CrossLinkItem ties the two identification items of one cross-link
// together
func CrossLinkItem(pairID string) CVParam {
	return CVParam{CvRef: "PSI-MS", Accession: "MS:1002511",
		Name: "cross-link spectrum identification item", Value: pairID}
}

// Score renders a score value as a PSI-MS CV term
func Score(accession, name string, value float64) CVParam {
	return CVParam{CvRef: "PSI-MS", Accession: accession, Name: name,
		Value: fmt.Sprintf("%g", value)}
}

// AddPeptide registers a peptide with its modifications and returns its
// reference. Identical content maps to one entry.
func (d *Document) AddPeptide(sequence string, mods []Modification) string {
	key := fmt.Sprint(sequence, mods)
	if ref, ok := d.pepRefs[key]; ok {
		return ref
	}
	ref := fmt.Sprintf("PEP_%d", len(d.root.Sequences.Peptides)+1)
	d.pepRefs[key] = ref
	d.root.Sequences.Peptides = append(d.root.Sequences.Peptides,
		Peptide{ID: ref, Sequence: sequence, Modifications: mods})
	return ref
}

// AddDBSequence registers a protein accession and returns its reference
func (d *Document) AddDBSequence(accession string) string {
	if ref, ok := d.seqRefs[accession]; ok {
		return ref
	}
	ref := fmt.Sprintf("DBSEQ_%d", len(d.root.Sequences.DBSequences)+1)
	d.seqRefs[accession] = ref
	d.root.Sequences.DBSequences = append(d.root.Sequences.DBSequences,
		dbSequence{ID: ref, Accession: accession, SearchDatabaseRef: "SDB_1"})
	return ref
}

// AddEvidence links a peptide to a protein and returns the evidence
// reference
func (d *Document) AddEvidence(pepRef, dbSeqRef string, isDecoy bool) string {
	key := pepRef + "|" + dbSeqRef
	if ref, ok := d.evRefs[key]; ok {
		return ref
	}
	ref := fmt.Sprintf("PE_%d", len(d.root.Sequences.Evidences)+1)
	d.evRefs[key] = ref
	d.root.Sequences.Evidences = append(d.root.Sequences.Evidences,
		peptideEvidence{ID: ref, PeptideRef: pepRef, DBSequenceRef: dbSeqRef, IsDecoy: isDecoy})
	return ref
}

// AddResult opens the identification list entry of one spectrum. rt is
// the scan start time in seconds, ignored when negative.
func (d *Document) AddResult(spectrumID string, rt float64) *SpectrumIdentificationResult {
	r := &SpectrumIdentificationResult{
		ID:             fmt.Sprintf("SIR_%d", len(d.root.Data.List.Results)+1),
		SpectrumID:     spectrumID,
		SpectraDataRef: "SD_1",
	}
	if rt >= 0 {
		r.CvPar = append(r.CvPar, CVParam{CvRef: "PSI-MS", Accession: "MS:1000016",
			Name: "scan start time", Value: fmt.Sprintf("%g", rt),
			UnitAccession: "UO:0000010"})
	}
	d.root.Data.List.Results = append(d.root.Data.List.Results, r)
	return r
}

// AddEvidenceRef attaches a peptide evidence reference to an item
func (item *SpectrumIdentificationItem) AddEvidenceRef(ref string) {
	item.EvidenceRefs = append(item.EvidenceRefs, evidenceRef{PeptideEvidenceRef: ref})
}

// AddItem appends an identification item to a result, assigning its ID
func (d *Document) AddItem(r *SpectrumIdentificationResult, item SpectrumIdentificationItem) {
	d.items++
	item.ID = fmt.Sprintf("SII_%d", d.items)
	r.Items = append(r.Items, item)
}

func (d *Document) Write(writer io.Writer) error {
	writer.Write([]byte("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n"))
	enc := xml.NewEncoder(writer)
	enc.Indent(``, ` `)
	return enc.Encode(&d.root)
}

// WriteFile writes the document to path
func (d *Document) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return d.Write(f)
}
