// Copyright 2026 Rob Marissen.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/524D/xlscore/internal/digest"

	flag "github.com/spf13/pflag"
)

// Program name and version, written to the result files
const progName = "xlScore"

var progVersion = `Unknown`

// Format of JSON output, if it ever changes we should still be able to
// parse output from old versions
const outputFormatVersion = "1.0"

// DSS cross-linker, light form, both NHS esters reacted
const defaultLinkerMass = float64(138.0680796)

// mass difference between the d12 heavy and d0 light DSS linker
const defaultIsoShift = float64(12.075321)

// linker attached on one side only, hydrolyzed and aminated form
const defaultMonoMasses = "156.07864431,155.094628715"

// retention time window for matching MS1 features to MS2 spectra
const rtMatchTol = float64(30.0)

// Command line parameters
type params struct {
	mzMLFilename     *string
	pairsFilename    *string // consensusXML with light/heavy feature pairs
	dbFilename       *string // FASTA sequence database
	outFilename      *string // result XML
	specOutFilename  *string // matched spectrum XML
	jsonFilename     *string // JSON result file
	mzidFilename     *string // mzIdentML result file
	linkerMass       *float64
	isoShift         *float64
	monoMasses       *string // comma separated mono-link masses
	monoMassList     []float64
	linkResidues1    *string // residues the linker's first side reacts with
	linkResidues2    *string // residues the linker's second side reacts with
	ntermLinker      *bool   // linker can react with the protein N-terminus
	ctermLinker      *bool   // linker can react with the protein C-terminus
	enzyme           *string
	missedCleavages  *int
	minPepLen        *int
	precursorTolPPM  *float64
	fragmentTol      *float64 // generic fragment tolerance
	fragmentTolXlink *float64 // tolerance for linker carrying fragments
	fragmentTolIsPPM *bool
	fixedModsStr     *string // e.g. "C:57.02146"
	varModsStr       *string
	fixedMods        []digest.Modification
	varMods          []digest.Modification
	maxVarMods       *int
	topN             *int
	charge           *string // precursor charge range of spectra to search
	minCharge        int
	maxCharge        int
	decoyString      *string
	decoyPrefix      *bool
	threads          *int
	verbosity        int      // Verbosity of progress messages (infoDefault...)
	args             []string // Additional values passed on the command line
	debug            bool     // Enable debug info (environment variable XLSCORE_DEBUG=1)
}

const (
	infoDefault = iota
	infoSilent
	infoVerbose
)

// Parse string like "3:7" into 2 values, 3 and 7.
// Parameters min and max are the "default" min/max values,
// when a value is not specified (e.g. "3:"), the default is assigned
func parseIntRange(r string, min int, max int) (int, int, error) {
	var minOut = min
	var maxOut = max
	var err error

	before, after, found := strings.Cut(r, ":")
	if !found {
		return 0, 0, errInvalidRange
	}
	if before != "" {
		minOut, err = strconv.Atoi(before)
		if err != nil {
			return 0, 0, errInvalidRange
		}
	}
	if after != "" {
		maxOut, err = strconv.Atoi(after)
		if err != nil {
			return 0, 0, errInvalidRange
		}
	}
	if minOut < min {
		minOut = min
	}
	if maxOut > max {
		maxOut = max
	}
	if minOut > maxOut {
		return 0, 0, errInvalidRange
	}
	return minOut, maxOut, nil
}

var errInvalidRange = fmt.Errorf("invalid range specified")

// parseModList parses a modification list like "C:57.02146,M:15.9949"
func parseModList(s string) ([]digest.Modification, error) {
	if s == "" {
		return nil, nil
	}
	var mods []digest.Modification
	for _, part := range strings.Split(s, ",") {
		res, massStr, found := strings.Cut(part, ":")
		if !found || len(res) != 1 {
			return nil, fmt.Errorf("invalid modification %q", part)
		}
		mass, err := strconv.ParseFloat(massStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid modification mass %q", massStr)
		}
		mods = append(mods, digest.Modification{
			Name:    part,
			Residue: res[0],
			Mass:    mass,
		})
	}
	return mods, nil
}

// parseMassList parses a comma separated list of masses
func parseMassList(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	var masses []float64
	for _, part := range strings.Split(s, ",") {
		m, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		masses = append(masses, m)
	}
	return masses, nil
}

func sanitizeParams(par *params) {
	exeName := filepath.Base(os.Args[0])

	if len(par.args) != 1 {
		fmt.Fprintf(os.Stderr, `Last argument must be name of mzML file.
Type %s --help for usage
`, exeName)
		os.Exit(2)
	}

	mzml := par.args[0]
	par.mzMLFilename = &mzml
	var extension = filepath.Ext(mzml)
	var startName = mzml[0 : len(mzml)-len(extension)]

	if *par.pairsFilename == "" {
		*par.pairsFilename = startName + ".consensusXML"
	}
	if *par.outFilename == "" {
		*par.outFilename = startName + "-xlink.xml"
	}
	if *par.specOutFilename == "" {
		*par.specOutFilename = startName + "-xlink.spec.xml"
	}
	if *par.jsonFilename == "" {
		*par.jsonFilename = startName + "-xlink.json"
	}
	if *par.mzidFilename == "" {
		*par.mzidFilename = startName + "-xlink.mzid"
	}
	if *par.dbFilename == "" {
		fmt.Fprintf(os.Stderr, `No sequence database specified (option -db).
Type %s --help for usage
`, exeName)
		os.Exit(2)
	}

	var err error
	par.minCharge, par.maxCharge, err = parseIntRange(*par.charge, 1, math.MaxInt32)
	if err != nil {
		fmt.Fprintf(os.Stderr, `Invalid charge range.
Type %s --help for usage
`, exeName)
		os.Exit(2)
	}
	par.fixedMods, err = parseModList(*par.fixedModsStr)
	if err == nil {
		par.varMods, err = parseModList(*par.varModsStr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, `Invalid modification list: %v.
Type %s --help for usage
`, err, exeName)
		os.Exit(2)
	}
	par.monoMassList, err = parseMassList(*par.monoMasses)
	if err != nil {
		fmt.Fprintf(os.Stderr, `Invalid mono-link mass list.
Type %s --help for usage
`, exeName)
		os.Exit(2)
	}
	// linker carrying fragments are never matched tighter than common ones
	if *par.fragmentTolXlink < *par.fragmentTol {
		*par.fragmentTolXlink = *par.fragmentTol
	}
	if *par.threads < 1 {
		*par.threads = runtime.NumCPU()
	}
}

func usage() {
	exeName := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr,
		`USAGE:
  %s [options] -db <FASTAfile> <mzMLfile>

  This program identifies isotope-labeled cross-linked peptides in MS data.
  Light/heavy MS1 feature pairs from an accompanying consensusXML file are
  matched to MS2 spectra, candidate peptide pairs from a digest of the
  sequence database are scored against each spectrum pair, and the best
  matches are written in xQuest-style XML and JSON.

OPTIONS:
`, exeName)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr,
		`
ENVIRONMENT VARIABLES:
    When environment variable XLSCORE_DEBUG=1, extra score diagnostics are
    printed to help checking the performance of %s.

USAGE EXAMPLES:
  %s -db yeast.fasta yeast.mzML
    Search yeast.mzML using feature pairs in yeast.consensusXML, write
    results to yeast-xlink.xml, yeast-xlink.spec.xml, yeast-xlink.json
    and yeast-xlink.mzid.
    Default parameters are for DSS d0/d12 cross-linking.

  %s -db yeast.fasta -varmods 'M:15.9949' -topn 1 yeast.mzML
    Idem, with oxidized methionine as variable modification, reporting
    only the best match per spectrum pair.
`, exeName, exeName, exeName)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	var par params

	par.pairsFilename = flag.String("pairs",
		"",
		"`filename` of consensusXML with light/heavy feature pairs")
	par.dbFilename = flag.String("db",
		"",
		"`filename` of FASTA sequence database to search")
	par.outFilename = flag.String("o",
		"",
		"`filename` of XML result output")
	par.specOutFilename = flag.String("specout",
		"",
		"`filename` of XML matched spectrum output")
	par.jsonFilename = flag.String("json",
		"",
		"`filename` of JSON result output")
	par.mzidFilename = flag.String("mzid",
		"",
		"`filename` of mzIdentML result output")
	par.linkerMass = flag.Float64("linkermass",
		defaultLinkerMass,
		`mass of the light cross-linker with both sides reacted`)
	par.isoShift = flag.Float64("isoshift",
		defaultIsoShift,
		`mass difference between the heavy and light cross-linker`)
	par.monoMasses = flag.String("monomasses",
		defaultMonoMasses,
		"comma separated `masses` of the linker attached to one peptide only")
	par.linkResidues1 = flag.String("linkres1",
		"K",
		"`residues` the first side of the linker reacts with")
	par.linkResidues2 = flag.String("linkres2",
		"K",
		"`residues` the second side of the linker reacts with")
	par.ntermLinker = flag.Bool("ntermlink", true,
		`allow the linker to react with the protein N-terminus`)
	par.ctermLinker = flag.Bool("ctermlink", false,
		`allow the linker to react with the protein C-terminus`)
	par.enzyme = flag.String("enzyme",
		"Trypsin",
		"digestion `enzyme` (Trypsin, Trypsin/P, Lys-C, Arg-C)")
	par.missedCleavages = flag.Int("misscleave", 2,
		`maximum number of missed cleavages`)
	par.minPepLen = flag.Int("minlen", 5,
		`minimum peptide length to consider`)
	par.precursorTolPPM = flag.Float64("ppmprec", 10.0,
		`precursor mass tolerance (ppm)`)
	par.fragmentTol = flag.Float64("fragtol", 0.2,
		`fragment mass tolerance`)
	par.fragmentTolXlink = flag.Float64("fragtolxlink", 0.3,
		`fragment mass tolerance for linker carrying fragments.
Never smaller than the generic fragment tolerance.`)
	par.fragmentTolIsPPM = flag.Bool("fragppm", false,
		`interpret fragment tolerances as ppm instead of Da`)
	par.fixedModsStr = flag.String("fixedmods",
		"C:57.02146",
		"fixed `modifications`, format <residue>:<mass>[,...]")
	par.varModsStr = flag.String("varmods",
		"M:15.9949",
		"variable `modifications`, format <residue>:<mass>[,...]")
	par.maxVarMods = flag.Int("maxvarmods", 2,
		`maximum number of variable modifications per peptide`)
	par.topN = flag.Int("topn", 5,
		`number of top matches to report per spectrum pair`)
	par.charge = flag.String("charge",
		"3:7",
		"precursor charge `range` of spectra to search")
	par.decoyString = flag.String("decoy",
		"DECOY_",
		"accession `prefix`/suffix marking decoy proteins")
	par.decoyPrefix = flag.Bool("decoyprefix", true,
		`decoy string is a prefix of the accession (suffix otherwise)`)
	par.threads = flag.Int("threads", 0,
		`number of concurrent spectrum pair searches. 0 means one per CPU`)
	version := flag.Bool("version", false,
		`Show software version`)
	verbose := flag.Bool("verbose", false,
		`Print more verbose progress information`)
	quiet := flag.Bool("quiet", false,
		`Don't print any output except for errors`)
	flag.Usage = usage
	flag.Parse()
	if *version {
		if progVersion == `Unknown` {
			progVersion = `Unknown
Please build this program with script 'build.sh' so that the git version is shown here.`
		}
		fmt.Fprintf(os.Stderr, "%s version %s\n", progName, progVersion)
		return
	}
	if *verbose {
		par.verbosity = infoVerbose
	}
	if *quiet {
		par.verbosity = infoSilent
	}
	par.args = flag.Args()
	// Check if debug output should be enabled
	par.debug = os.Getenv("XLSCORE_DEBUG") == `1`

	sanitizeParams(&par)
	doSearch(par)
}
