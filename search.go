package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/524D/xlscore/internal/consensus"
	"github.com/524D/xlscore/internal/digest"
	"github.com/524D/xlscore/internal/fasta"
	"github.com/524D/xlscore/internal/fragment"
	"github.com/524D/xlscore/internal/mzidentml"
	"github.com/524D/xlscore/internal/mzml"
	"github.com/524D/xlscore/internal/reindex"
	"github.com/524D/xlscore/internal/score"
	"github.com/524D/xlscore/internal/spectrum"
	"github.com/524D/xlscore/internal/xlink"
	"github.com/524D/xlscore/internal/xquestxml"
)

// searchSpec is one MS2 spectrum prepared for searching
type searchSpec struct {
	scanIndex int
	scanID    string
	rt        float64
	spec      spectrum.Spectrum
}

// pairTask is one light/heavy spectrum pair to be searched
type pairTask struct {
	light           *searchSpec
	heavy           *searchSpec
	precursorMass   float64
	precursorCharge int
}

// loadSpectra reads all centroided MS2 spectra of an mzML file, with
// their peaks, charge annotations and precursor coordinates
func loadSpectra(par params) ([]searchSpec, []consensus.SpectrumRef, error) {
	mzFile, err := os.Open(*par.mzMLFilename)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", *par.mzMLFilename, err)
	}
	defer mzFile.Close()
	mz, err := mzml.Read(mzFile)
	if err != nil {
		return nil, nil, fmt.Errorf("mzml.Read: %w", err)
	}

	var specs []searchSpec
	var refs []consensus.SpectrumRef
	warnProfile := true
	for i := 0; i < mz.NumSpecs(); i++ {
		msLevel, err := mz.MSLevel(i)
		if err != nil || msLevel != 2 {
			continue
		}
		centroid, err := mz.Centroid(i)
		if err != nil {
			continue
		}
		if !centroid {
			if par.verbosity != infoSilent && warnProfile {
				log.Printf("skipping profile spectra, input must be peak picked")
				warnProfile = false
			}
			continue
		}
		precursorMz, err := mz.PrecursorMz(i)
		if err != nil {
			continue
		}
		peaks, err := mz.ReadScan(i)
		if err != nil {
			return nil, nil, fmt.Errorf("mzml.ReadScan %d: %w", i, err)
		}
		rt, _ := mz.RetentionTime(i)
		charge, _ := mz.PrecursorCharge(i)
		scanID, _ := mz.ScanID(i)

		s := spectrum.Spectrum{
			Peaks:           make([]spectrum.Peak, len(peaks)),
			PrecursorMz:     precursorMz,
			PrecursorCharge: charge,
		}
		for j, p := range peaks {
			s.Peaks[j] = spectrum.Peak{Mz: p.Mz, Intens: p.Intens}
		}
		if chargeArray, err := mz.ChargeArray(i); err == nil && len(chargeArray) == len(s.Peaks) {
			for j := range s.Peaks {
				s.Peaks[j].Charge = chargeArray[j]
			}
		}
		s.SortByPosition()

		specs = append(specs, searchSpec{scanIndex: i, scanID: scanID, rt: rt, spec: s})
		refs = append(refs, consensus.SpectrumRef{
			ScanIndex: i,
			RT:        rt,
			Mz:        precursorMz,
			Charge:    charge,
		})
	}
	return specs, refs, nil
}

// makePairTasks turns the feature pair to scan index mapping into search
// tasks, dropping pairs outside the selected precursor charge range
func makePairTasks(scanPairs [][2]int, specs []searchSpec, par params) []pairTask {
	byScan := make(map[int]*searchSpec, len(specs))
	for i := range specs {
		byScan[specs[i].scanIndex] = &specs[i]
	}

	var tasks []pairTask
	for _, sp := range scanPairs {
		light, okL := byScan[sp[0]]
		heavy, okH := byScan[sp[1]]
		if !okL || !okH {
			continue
		}
		charge := light.spec.PrecursorCharge
		if charge == 0 {
			charge = heavy.spec.PrecursorCharge
		}
		if charge < par.minCharge || charge > par.maxCharge {
			continue
		}
		// the mass uses the same charge fallback as the range filter
		withCharge := light.spec
		withCharge.PrecursorCharge = charge
		tasks = append(tasks, pairTask{
			light:           light,
			heavy:           heavy,
			precursorMass:   withCharge.PrecursorMass(digest.MassProton),
			precursorCharge: charge,
		})
	}
	return tasks
}

// pairResult holds the ranked matches of one searched pair
type pairResult struct {
	task pairTask
	csms []score.CSM
}

// searchPairs preprocesses and scores all spectrum pairs concurrently
func searchPairs(tasks []pairTask, precursors []xlink.Precursor,
	idx digest.Index, xpar xlink.Params, par params) []pairResult {

	gen := fragment.NewGenerator()
	scorer := &score.Scorer{
		Gen:              gen,
		Index:            idx,
		FragmentTol:      *par.fragmentTol,
		FragmentTolXlink: *par.fragmentTolXlink,
		TolPPM:           *par.fragmentTolIsPPM,
	}
	preCfg := spectrum.PreprocessConfig{
		FragmentTol:      *par.fragmentTol,
		FragmentTolXlink: *par.fragmentTolXlink,
		TolPPM:           *par.fragmentTolIsPPM,
		IsoShift:         *par.isoShift,
	}

	results := make([]pairResult, len(tasks))
	var g errgroup.Group
	g.SetLimit(*par.threads)
	for i := range tasks {
		i := i
		g.Go(func() error {
			task := tasks[i]
			pair := spectrum.PreprocessPair(&task.light.spec, &task.heavy.spec, preCfg)
			// a pair with fewer peaks than the shortest peptide has
			// fragments cannot produce a credible match
			if len(pair.All.Peaks) < *par.minPepLen {
				return nil
			}
			aucorrSumC, aucorrSumX := score.AutoCorrSums(&pair.All)

			candidates := xlink.BuildCandidates(precursors, idx, task.precursorMass, xpar)
			var csms []score.CSM
			for _, cand := range candidates {
				csm, ok := scorer.ScoreCandidate(cand, &pair, task.precursorMass,
					task.precursorCharge, aucorrSumC, aucorrSumX)
				if !ok {
					continue
				}
				csm.ScanIndexLight = task.light.scanIndex
				csm.ScanIndexHeavy = task.heavy.scanIndex
				csm.PrecursorErrPPM = precursorErrPPM(task.precursorMass, &cand, idx)
				csms = append(csms, csm)
			}
			results[i] = pairResult{task: task, csms: score.TopN(csms, *par.topN)}
			if par.debug {
				debugLogScores(results[i].csms)
			}
			return nil
		})
	}
	g.Wait()

	// drop pairs without matches
	out := results[:0]
	for _, r := range results {
		if len(r.csms) > 0 {
			out = append(out, r)
		}
	}
	return out
}

// precursorErrPPM is the relative deviation of the observed precursor
// mass from the candidate's theoretical mass
func precursorErrPPM(observed float64, cand *xlink.Candidate, idx digest.Index) float64 {
	theoretical := idx.Peptides[cand.Alpha].Mass + cand.LinkerMass
	if cand.Beta >= 0 {
		theoretical += idx.Peptides[cand.Beta].Mass
	}
	return (observed - theoretical) / theoretical * 1e6
}

// candidateMass is the theoretical mass of a positioned candidate
func candidateMass(cand *xlink.Candidate, idx digest.Index) float64 {
	m := idx.Peptides[cand.Alpha].Mass + cand.LinkerMass
	if cand.Beta >= 0 {
		m += idx.Peptides[cand.Beta].Mass
	}
	return m
}

// JSON result output

type jsonMatch struct {
	SpectrumLight   string                     `json:"spectrumLight"`
	SpectrumHeavy   string                     `json:"spectrumHeavy"`
	Rank            int                        `json:"rank"`
	Type            string                     `json:"type"`
	SequenceAlpha   string                     `json:"sequenceAlpha"`
	SequenceBeta    string                     `json:"sequenceBeta,omitempty"`
	LinkPosAlpha    int                        `json:"linkPosAlpha"`
	LinkPosBeta     int                        `json:"linkPosBeta"`
	ProteinsAlpha   []string                   `json:"proteinsAlpha"`
	ProteinsBeta    []string                   `json:"proteinsBeta,omitempty"`
	TargetDecoy     string                     `json:"targetDecoy"`
	PrecursorMass   float64                    `json:"precursorMass"`
	PrecursorCharge int                        `json:"precursorCharge"`
	MassTheoretical float64                    `json:"massTheoretical"`
	ErrorPPM        float64                    `json:"errorPPM"`
	Score           float64                    `json:"score"`
	PreScore        float64                    `json:"preScore"`
	MatchOdds       float64                    `json:"matchOdds"`
	XCorrX          float64                    `json:"xCorrX"`
	XCorrC          float64                    `json:"xCorrC"`
	TIC             float64                    `json:"tic"`
	WTIC            float64                    `json:"wTic"`
	IntSum          float64                    `json:"intSum"`
	MatchedCommon   int                        `json:"matchedCommonIons"`
	MatchedXlink    int                        `json:"matchedXlinkIons"`
	Fragments       []score.FragmentAnnotation `json:"fragments,omitempty"`
}

type searchResults struct {
	XlScoreVersion string      `json:"xlScoreVersion"`
	FormatVersion  string      `json:"formatVersion"`
	MzML           string      `json:"mzML"`
	Pairs          string      `json:"pairs"`
	Database       string      `json:"database"`
	LinkerMass     float64     `json:"linkerMass"`
	IsoShift       float64     `json:"isoShift"`
	Matches        []jsonMatch `json:"matches"`
}

func writeResultsJSON(results []pairResult, idx digest.Index, par params) error {
	out := searchResults{
		XlScoreVersion: progVersion,
		FormatVersion:  outputFormatVersion,
		MzML:           *par.mzMLFilename,
		Pairs:          *par.pairsFilename,
		Database:       *par.dbFilename,
		LinkerMass:     *par.linkerMass,
		IsoShift:       *par.isoShift,
	}
	for _, r := range results {
		for _, csm := range r.csms {
			cand := csm.Candidate
			alpha := &idx.Peptides[cand.Alpha]
			m := jsonMatch{
				SpectrumLight:   r.task.light.scanID,
				SpectrumHeavy:   r.task.heavy.scanID,
				Rank:            csm.Rank,
				Type:            cand.Type.String(),
				SequenceAlpha:   alpha.ModifiedSequence(),
				LinkPosAlpha:    cand.PosAlpha + 1,
				LinkPosBeta:     cand.PosBeta + 1,
				ProteinsAlpha:   csm.ProteinsAlpha,
				ProteinsBeta:    csm.ProteinsBeta,
				TargetDecoy:     xquestxml.TargetDecoy(csm.DecoyAlpha, csm.DecoyBeta, cand.Beta >= 0),
				PrecursorMass:   csm.PrecursorMass,
				PrecursorCharge: csm.PrecursorCharge,
				MassTheoretical: candidateMass(&cand, idx),
				ErrorPPM:        csm.PrecursorErrPPM,
				Score:           csm.Score,
				PreScore:        csm.PreScore,
				MatchOdds:       csm.MatchOdds,
				XCorrX:          csm.XCorrX,
				XCorrC:          csm.XCorrC,
				TIC:             csm.TIC,
				WTIC:            csm.WTIC,
				IntSum:          csm.IntSum,
				MatchedCommon:   csm.MatchedCommonAlpha + csm.MatchedCommonBeta,
				MatchedXlink:    csm.MatchedXlinkAlpha + csm.MatchedXlinkBeta,
				Fragments:       csm.Annotations,
			}
			if cand.Beta >= 0 {
				m.SequenceBeta = idx.Peptides[cand.Beta].ModifiedSequence()
			}
			out.Matches = append(out.Matches, m)
		}
	}

	f, err := os.Create(*par.jsonFilename)
	if err != nil {
		return err
	}
	defer f.Close()
	e := json.NewEncoder(f)
	e.SetIndent(``, `  `) // Make output easier to read for humans
	return e.Encode(out)
}

func writeResultsXML(results []pairResult, idx digest.Index, par params) error {
	doc := xquestxml.NewResults(progVersion, *par.dbFilename, *par.enzyme,
		*par.linkerMass, *par.isoShift)
	var specDoc xquestxml.Spectra

	for _, r := range results {
		ss := xquestxml.SpectrumSearch{
			Spectrum:        r.task.light.scanID + "," + r.task.heavy.scanID,
			MzPrecursor:     r.task.light.spec.PrecursorMz,
			ChargePrecursor: r.task.precursorCharge,
			RTSec:           r.task.light.rt,
		}
		for _, csm := range r.csms {
			cand := csm.Candidate
			alpha := &idx.Peptides[cand.Alpha]
			hit := xquestxml.SearchHit{
				Rank:            csm.Rank,
				Type:            cand.Type.String(),
				Seq1:            alpha.ModifiedSequence(),
				Prot1:           xquestxml.JoinAccessions(csm.ProteinsAlpha),
				LinkPos1:        cand.PosAlpha + 1,
				LinkPos2:        cand.PosBeta + 1,
				MassTheoretical: candidateMass(&cand, idx),
				ErrorPPM:        csm.PrecursorErrPPM,
				TargetDecoy:     xquestxml.TargetDecoy(csm.DecoyAlpha, csm.DecoyBeta, cand.Beta >= 0),
				Score:           csm.Score,
				PreScore:        csm.PreScore,
				MatchOdds:       csm.MatchOdds,
				XCorrX:          csm.XCorrX,
				XCorrC:          csm.XCorrC,
				TIC:             csm.TIC,
				WTIC:            csm.WTIC,
				IntSum:          csm.IntSum,
				MatchedCommon:   csm.MatchedCommonAlpha + csm.MatchedCommonBeta,
				MatchedXlink:    csm.MatchedXlinkAlpha + csm.MatchedXlinkBeta,
			}
			if cand.Beta >= 0 {
				hit.Seq2 = idx.Peptides[cand.Beta].ModifiedSequence()
				hit.Prot2 = xquestxml.JoinAccessions(csm.ProteinsBeta)
			}
			hit.ID = xquestxml.HitID(hit.Seq1, hit.Seq2, cand.PosAlpha, cand.PosBeta)
			ss.Hits = append(ss.Hits, hit)

			if csm.Rank == 1 {
				pair := xquestxml.SpectrumPair{
					Spectrum: ss.Spectrum,
					HitID:    hit.ID,
				}
				for _, a := range csm.Annotations {
					pair.Peaks = append(pair.Peaks, xquestxml.PeakMatch{
						Ion:    a.Name,
						TheoMz: a.TheoMz,
						ExpMz:  a.ExpMz,
						Intens: a.Intens,
						Charge: a.Charge,
					})
				}
				specDoc.Entries = append(specDoc.Entries, pair)
			}
		}
		doc.Spectra = append(doc.Spectra, ss)
	}

	if err := doc.WriteFile(*par.outFilename); err != nil {
		return err
	}
	return specDoc.WriteFile(*par.specOutFilename)
}

// residueMods renders a peptide's per-residue modification masses as
// mzIdentML modifications, 1-based locations
func residueMods(pep *digest.Peptide) []mzidentml.Modification {
	var mods []mzidentml.Modification
	for i, m := range pep.ModMass {
		if m != 0 {
			mods = append(mods, mzidentml.Modification{
				Location:              i + 1,
				MonoisotopicMassDelta: m,
			})
		}
	}
	return mods
}

func mzAtCharge(mass float64, charge int) float64 {
	c := float64(charge)
	return (mass + c*digest.MassProton) / c
}

func mzidScores(csm *score.CSM) []mzidentml.CVParam {
	return []mzidentml.CVParam{
		mzidentml.Score("MS:1002681", "OpenXQuest:combined score", csm.Score),
		mzidentml.Score("MS:1002682", "OpenXQuest:xcorr xlink", csm.XCorrX),
		mzidentml.Score("MS:1002683", "OpenXQuest:xcorr common", csm.XCorrC),
		mzidentml.Score("MS:1002684", "OpenXQuest:match-odds", csm.MatchOdds),
		mzidentml.Score("MS:1002685", "OpenXQuest:intsum", csm.IntSum),
		mzidentml.Score("MS:1002686", "OpenXQuest:wTIC", csm.WTIC),
	}
}

// writeResultsMzID writes the matches as mzIdentML. Cross-links become
// two identification items tied together by a cross-link identifier;
// the linker mass rides on the alpha peptide's donor modification.
func writeResultsMzID(results []pairResult, idx digest.Index, par params) error {
	doc := mzidentml.NewDocument(progName, progVersion, *par.dbFilename, *par.mzMLFilename)

	pairNum := 0
	for _, r := range results {
		res := doc.AddResult(r.task.light.scanID, r.task.light.rt)
		for i := range r.csms {
			csm := &r.csms[i]
			cand := csm.Candidate
			alpha := &idx.Peptides[cand.Alpha]
			pairNum++
			pairID := strconv.Itoa(pairNum)

			modsA := residueMods(alpha)
			var itemCv []mzidentml.CVParam
			switch cand.Type {
			case xlink.Cross:
				modsA = append(modsA, mzidentml.CrossLinkDonor(cand.PosAlpha+1, cand.LinkerMass, pairID))
				itemCv = append(itemCv, mzidentml.CrossLinkItem(pairID))
			case xlink.Loop:
				modsA = append(modsA,
					mzidentml.CrossLinkDonor(cand.PosAlpha+1, cand.LinkerMass, pairID),
					mzidentml.CrossLinkAcceptor(cand.PosBeta+1, pairID))
			case xlink.Mono:
				modsA = append(modsA, mzidentml.Modification{
					Location:              cand.PosAlpha + 1,
					MonoisotopicMassDelta: cand.LinkerMass,
				})
			}
			itemCv = append(itemCv, mzidScores(csm)...)

			pepRef := doc.AddPeptide(alpha.Sequence, modsA)
			item := mzidentml.SpectrumIdentificationItem{
				Rank:           csm.Rank,
				ChargeState:    csm.PrecursorCharge,
				ExperimentalMz: r.task.light.spec.PrecursorMz,
				CalculatedMz:   mzAtCharge(candidateMass(&cand, idx), csm.PrecursorCharge),
				PeptideRef:     pepRef,
				PassThreshold:  true,
				CvPar:          itemCv,
			}
			for _, acc := range csm.ProteinsAlpha {
				item.AddEvidenceRef(doc.AddEvidence(pepRef, doc.AddDBSequence(acc), csm.DecoyAlpha))
			}
			doc.AddItem(res, item)

			if cand.Type != xlink.Cross {
				continue
			}
			beta := &idx.Peptides[cand.Beta]
			modsB := append(residueMods(beta), mzidentml.CrossLinkAcceptor(cand.PosBeta+1, pairID))
			pepRefB := doc.AddPeptide(beta.Sequence, modsB)
			itemB := mzidentml.SpectrumIdentificationItem{
				Rank:           csm.Rank,
				ChargeState:    csm.PrecursorCharge,
				ExperimentalMz: r.task.light.spec.PrecursorMz,
				CalculatedMz:   mzAtCharge(candidateMass(&cand, idx), csm.PrecursorCharge),
				PeptideRef:     pepRefB,
				PassThreshold:  true,
				CvPar:          append([]mzidentml.CVParam{mzidentml.CrossLinkItem(pairID)}, mzidScores(csm)...),
			}
			for _, acc := range csm.ProteinsBeta {
				itemB.AddEvidenceRef(doc.AddEvidence(pepRefB, doc.AddDBSequence(acc), csm.DecoyBeta))
			}
			doc.AddItem(res, itemB)
		}
	}
	return doc.WriteFile(*par.mzidFilename)
}

// doSearch runs the full identification pipeline: load spectra and
// feature pairs, digest the database, enumerate and score candidates,
// reindex proteins and write the result files
func doSearch(par params) {
	t := time.Now()
	if par.verbosity == infoVerbose {
		fmt.Fprintf(os.Stderr, "Reading MS data: ")
	}
	specs, refs, err := loadSpectra(par)
	if err != nil {
		log.Fatalf("loadSpectra: %v", err)
	}
	if par.verbosity == infoVerbose {
		fmt.Fprintf(os.Stderr, "%s\n", time.Since(t))
		t = time.Now()
		fmt.Fprintf(os.Stderr, "Matching feature pairs to spectra: ")
	}

	pairsFile, err := os.Open(*par.pairsFilename)
	if err != nil {
		log.Fatalf("Open %s: %v", *par.pairsFilename, err)
	}
	featurePairs, err := consensus.Read(pairsFile)
	pairsFile.Close()
	if err != nil {
		log.Fatalf("consensus.Read: %v", err)
	}
	scanPairs := consensus.MapToSpectra(featurePairs, refs,
		rtMatchTol, *par.precursorTolPPM, true)
	tasks := makePairTasks(scanPairs, specs, par)
	if par.verbosity == infoVerbose {
		fmt.Fprintf(os.Stderr, "%s\n", time.Since(t))
		t = time.Now()
		fmt.Fprintf(os.Stderr, "Digesting database: ")
	}

	dbFile, err := os.Open(*par.dbFilename)
	if err != nil {
		log.Fatalf("Open %s: %v", *par.dbFilename, err)
	}
	entries, err := fasta.Read(dbFile)
	dbFile.Close()
	if err != nil {
		log.Fatalf("fasta.Read: %v", err)
	}
	idx := digest.Build(entries, digest.Config{
		Enzyme:           digest.EnzymeByName(*par.enzyme),
		MissedCleavages:  *par.missedCleavages,
		MinPeptideLength: *par.minPepLen,
		LinkResidues1:    *par.linkResidues1,
		LinkResidues2:    *par.linkResidues2,
		FixedMods:        par.fixedMods,
		VarMods:          par.varMods,
		MaxVarMods:       *par.maxVarMods,
		NTermLinker:      *par.ntermLinker,
		CTermLinker:      *par.ctermLinker,
	})
	if par.verbosity == infoVerbose {
		fmt.Fprintf(os.Stderr, "%s\n", time.Since(t))
		t = time.Now()
		fmt.Fprintf(os.Stderr, "Enumerating candidates: ")
	}

	xpar := xlink.Params{
		LinkerMass:   *par.linkerMass,
		MonoMasses:   par.monoMassList,
		PrecursorTol: *par.precursorTolPPM,
		TolPPM:       true,
	}
	precursorMasses := make([]float64, len(tasks))
	var maxMass float64
	for i, task := range tasks {
		precursorMasses[i] = task.precursorMass
		if task.precursorMass > maxMass {
			maxMass = task.precursorMass
		}
	}
	sort.Float64s(precursorMasses)
	searchIdx := idx.Filtered(maxMass + xpar.AllowedError(maxMass))
	precursors := xlink.Enumerate(searchIdx, precursorMasses, xpar)
	if par.verbosity == infoVerbose {
		fmt.Fprintf(os.Stderr, "%s\n", time.Since(t))
		t = time.Now()
		fmt.Fprintf(os.Stderr, "Scoring %d spectrum pairs: ", len(tasks))
	}

	results := searchPairs(tasks, precursors, searchIdx, xpar, par)
	if par.verbosity == infoVerbose {
		fmt.Fprintf(os.Stderr, "%s\n", time.Since(t))
		t = time.Now()
		fmt.Fprintf(os.Stderr, "Reindexing proteins: ")
	}

	var allCSMs []score.CSM
	for _, r := range results {
		allCSMs = append(allCSMs, r.csms...)
	}
	stats := reindex.Annotate(allCSMs, searchIdx, entries,
		reindex.Config{DecoyString: *par.decoyString, DecoyPrefix: *par.decoyPrefix})
	// Annotate works on a flattened copy, write the annotations back
	k := 0
	for i := range results {
		for j := range results[i].csms {
			results[i].csms[j] = allCSMs[k]
			k++
		}
	}
	if par.verbosity == infoVerbose {
		fmt.Fprintf(os.Stderr, "%s\n", time.Since(t))
		t = time.Now()
		fmt.Fprintf(os.Stderr, "Writing results: ")
	}

	if err := writeResultsJSON(results, searchIdx, par); err != nil {
		log.Fatalf("writeResultsJSON: %v", err)
	}
	if err := writeResultsXML(results, searchIdx, par); err != nil {
		log.Fatalf("writeResultsXML: %v", err)
	}
	if err := writeResultsMzID(results, searchIdx, par); err != nil {
		log.Fatalf("writeResultsMzID: %v", err)
	}
	if par.verbosity == infoVerbose {
		fmt.Fprintf(os.Stderr, "%s\n", time.Since(t))
	}

	if par.verbosity != infoSilent {
		fmt.Fprintf(os.Stderr,
			"Spectrum pairs: %d Matched pairs: %d Peptides: %d Decoy matches: %d\n",
			len(tasks), len(results), stats.Peptides, stats.Decoys)
	}
	if par.debug {
		debugPrintScores()
	}
}
