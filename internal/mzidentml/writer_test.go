package mzidentml

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
)

func TestDocumentRefs(t *testing.T) {
	doc := NewDocument("xlScore", "1.0", "test.fasta", "test.mzML")

	pepRef := doc.AddPeptide("AAKAR", []Modification{CrossLinkDonor(3, 138.068, "1")})
	if again := doc.AddPeptide("AAKAR", []Modification{CrossLinkDonor(3, 138.068, "1")}); again != pepRef {
		t.Errorf("AddPeptide: %s and %s, identical content should share one entry", pepRef, again)
	}
	if other := doc.AddPeptide("AAKAR", []Modification{CrossLinkDonor(3, 138.068, "2")}); other == pepRef {
		t.Errorf("AddPeptide: different modifications mapped to one entry")
	}

	dbRef := doc.AddDBSequence("P1")
	if doc.AddDBSequence("P1") != dbRef {
		t.Errorf("AddDBSequence: accession not deduplicated")
	}
	evRef := doc.AddEvidence(pepRef, dbRef, false)
	if doc.AddEvidence(pepRef, dbRef, false) != evRef {
		t.Errorf("AddEvidence: evidence not deduplicated")
	}
}

func TestDocumentWrite(t *testing.T) {
	doc := NewDocument("xlScore", "1.0", "test.fasta", "test.mzML")
	pairID := "1"
	pepA := doc.AddPeptide("AAKAR", []Modification{CrossLinkDonor(3, 138.0680796, pairID)})
	pepB := doc.AddPeptide("DLKER", []Modification{CrossLinkAcceptor(3, pairID)})
	evA := doc.AddEvidence(pepA, doc.AddDBSequence("P1"), false)
	evB := doc.AddEvidence(pepB, doc.AddDBSequence("DECOY_P2"), true)

	res := doc.AddResult("scan=2", 1200.5)
	itemA := SpectrumIdentificationItem{
		Rank:           1,
		ChargeState:    4,
		ExperimentalMz: 600.25,
		CalculatedMz:   600.2501,
		PeptideRef:     pepA,
		PassThreshold:  true,
		CvPar: []CVParam{
			CrossLinkItem(pairID),
			Score("MS:1002681", "OpenXQuest:combined score", 42.5),
		},
	}
	itemA.AddEvidenceRef(evA)
	doc.AddItem(res, itemA)
	itemB := itemA
	itemB.PeptideRef = pepB
	itemB.EvidenceRefs = nil
	itemB.AddEvidenceRef(evB)
	doc.AddItem(res, itemB)

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		t.Fatalf("Write: error return %v", err)
	}
	if !strings.HasPrefix(buf.String(), `<?xml version="1.0" encoding="utf-8"?>`) {
		t.Errorf("Write: missing XML declaration")
	}

	var parsed mzIdentML
	if err := xml.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Unmarshal: error return %v", err)
	}
	if len(parsed.Sequences.Peptides) != 2 || len(parsed.Sequences.DBSequences) != 2 {
		t.Fatalf("Unmarshal: %d peptides, %d sequences", len(parsed.Sequences.Peptides),
			len(parsed.Sequences.DBSequences))
	}
	if parsed.Sequences.Peptides[0].Sequence != "AAKAR" {
		t.Errorf("Unmarshal: peptide sequence %s", parsed.Sequences.Peptides[0].Sequence)
	}
	if !parsed.Sequences.Evidences[1].IsDecoy {
		t.Errorf("Unmarshal: decoy evidence lost")
	}
	results := parsed.Data.List.Results
	if len(results) != 1 || len(results[0].Items) != 2 {
		t.Fatalf("Unmarshal: results %+v", results)
	}
	if results[0].SpectrumID != "scan=2" {
		t.Errorf("Unmarshal: spectrumID %s", results[0].SpectrumID)
	}
	if results[0].Items[0].ID != "SII_1" || results[0].Items[1].ID != "SII_2" {
		t.Errorf("Unmarshal: item IDs %s, %s", results[0].Items[0].ID, results[0].Items[1].ID)
	}
	// the two items of a cross-link share the pair identifier
	for _, item := range results[0].Items {
		found := false
		for _, cv := range item.CvPar {
			if cv.Accession == "MS:1002511" && cv.Value == pairID {
				found = true
			}
		}
		if !found {
			t.Errorf("Unmarshal: item %s lacks the cross-link identifier", item.ID)
		}
	}
}
