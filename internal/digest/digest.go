// Package digest turns a protein database into a mass-sorted index of
// peptide candidates annotated with cross-linkable residue positions.
package digest

import (
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/524D/xlscore/internal/fasta"
)

const (
	MassProton = float64(1.007276466879)
	MassH2O    = float64(18.0105647)
)

// Masses of amino acids (minus H2O)
var aaMass = map[byte]float64{
	'A': 71.0371138,
	'C': 103.0091848,
	'D': 115.0269430,
	'E': 129.0425931,
	'F': 147.0684139,
	'G': 57.0214637,
	'H': 137.0589119,
	'I': 113.0840640,
	'K': 128.0949630,
	'L': 113.0840640,
	'M': 131.0404849,
	'N': 114.0429274,
	'P': 97.0527638,
	'O': 237.1477269, // Pyrrolysine
	'Q': 128.0585775,
	'R': 156.1011110,
	'S': 87.0320284,
	'T': 101.0476785,
	'U': 144.9595902, // Selenocysteine
	'V': 99.0684139,
	'W': 186.0793129,
	'Y': 163.0633285,
}

// Modification is a fixed or variable residue modification
type Modification struct {
	Name    string
	Residue byte    // one-letter code of the modified residue
	Mass    float64 // monoisotopic mass delta
}

// Enzyme describes a cleavage rule: cut after any residue in CleaveAfter
// unless the next residue is in NoCleaveBefore
type Enzyme struct {
	Name           string
	CleaveAfter    string
	NoCleaveBefore string
}

var Trypsin = Enzyme{Name: "Trypsin", CleaveAfter: "KR", NoCleaveBefore: "P"}

// EnzymeByName returns the enzyme for a given name, or Trypsin when the
// name is unknown
func EnzymeByName(name string) Enzyme {
	switch strings.ToLower(name) {
	case "trypsin":
		return Trypsin
	case "trypsin/p":
		return Enzyme{Name: "Trypsin/P", CleaveAfter: "KR"}
	case "lys-c":
		return Enzyme{Name: "Lys-C", CleaveAfter: "K", NoCleaveBefore: "P"}
	case "arg-c":
		return Enzyme{Name: "Arg-C", CleaveAfter: "R", NoCleaveBefore: "P"}
	}
	return Trypsin
}

// fragment is a digested substring of a protein
type fragment struct {
	seq   string
	start int // position in the protein
}

// Digest cleaves a protein sequence according to the enzyme rule,
// allowing up to missedCleavages missed cleavage sites
func (e Enzyme) Digest(protein string, missedCleavages int) []fragment {
	// find cleavage boundaries (index after which a cut occurs)
	cuts := []int{0}
	for i := 0; i < len(protein)-1; i++ {
		if strings.IndexByte(e.CleaveAfter, protein[i]) >= 0 &&
			strings.IndexByte(e.NoCleaveBefore, protein[i+1]) < 0 {
			cuts = append(cuts, i+1)
		}
	}
	cuts = append(cuts, len(protein))

	var frags []fragment
	for i := 0; i < len(cuts)-1; i++ {
		for j := i + 1; j < len(cuts) && j-i <= missedCleavages+1; j++ {
			frags = append(frags, fragment{seq: protein[cuts[i]:cuts[j]], start: cuts[i]})
		}
	}
	return frags
}

// Peptide is one modified peptide variant with its monoisotopic mass and
// the positions a cross-linker can attach to, per reactive-group side
type Peptide struct {
	Sequence string
	ModMass  []float64 // per-residue modification mass, nil when unmodified
	Mass     float64
	LinkPos1 []int // attachable positions for linker side 1
	LinkPos2 []int // attachable positions for linker side 2
	Protein  int   // index of the first protein the peptide was seen in
}

// ModifiedSequence returns the sequence with modification masses in
// bracket notation, e.g. PEPTM[15.9949]IDE. Used as identity key and in
// result output.
func (p *Peptide) ModifiedSequence() string {
	if p.ModMass == nil {
		return p.Sequence
	}
	var b strings.Builder
	for i := 0; i < len(p.Sequence); i++ {
		b.WriteByte(p.Sequence[i])
		if p.ModMass[i] != 0 {
			b.WriteByte('[')
			b.WriteString(strconv.FormatFloat(p.ModMass[i], 'f', 4, 64))
			b.WriteByte(']')
		}
	}
	return b.String()
}

// MonoMass computes the lowest isotope mass of a peptide sequence plus
// its modification masses
func MonoMass(seq string, modMass []float64) (float64, bool) {
	m := MassH2O
	for i := 0; i < len(seq); i++ {
		aam, ok := aaMass[seq[i]]
		if !ok {
			return 0.0, false
		}
		m += aam
	}
	for _, mm := range modMass {
		m += mm
	}
	return m, true
}

// Config holds the digestion parameters
type Config struct {
	Enzyme           Enzyme
	MissedCleavages  int
	MinPeptideLength int
	LinkResidues1    string // residues side 1 of the linker reacts with
	LinkResidues2    string // residues side 2 of the linker reacts with
	FixedMods        []Modification
	VarMods          []Modification
	MaxVarMods       int
	NTermLinker      bool // linker can attach to the protein N-terminus
	CTermLinker      bool // linker can attach to the protein C-terminus
}

// Index is the peptide candidate list, sorted ascending by mass
type Index struct {
	Peptides []Peptide
}

// Build digests all proteins, applies fixed modifications, generates all
// variable-modification placements up to cfg.MaxVarMods, and returns the
// deduplicated, mass-sorted peptide index. Peptides without at least one
// attachable position on each linker side are dropped.
func Build(entries []fasta.Entry, cfg Config) Index {
	seen := make(map[string]bool)
	var peptides []Peptide

	for protIdx, entry := range entries {
		protein := entry.Sequence
		for _, frag := range cfg.Enzyme.Digest(protein, cfg.MissedCleavages) {
			if len(frag.seq) < cfg.MinPeptideLength {
				continue
			}
			fixed, ok := fixedModMasses(frag.seq, cfg.FixedMods)
			if !ok {
				continue // unknown residue
			}
			for _, modMass := range modVariants(frag.seq, fixed, cfg.VarMods, cfg.MaxVarMods) {
				pep := Peptide{Sequence: frag.seq, ModMass: modMass, Protein: protIdx}
				key := pep.ModifiedSequence()
				if seen[key] {
					continue
				}
				seen[key] = true

				mass, ok := MonoMass(frag.seq, modMass)
				if !ok {
					continue
				}
				pep.Mass = mass
				protNTerm := frag.start == 0
				protCTerm := frag.start+len(frag.seq) == len(protein)
				pep.LinkPos1 = linkPositions(frag.seq, modMass, cfg.LinkResidues1, cfg.NTermLinker && protNTerm, cfg.CTermLinker && protCTerm)
				pep.LinkPos2 = linkPositions(frag.seq, modMass, cfg.LinkResidues2, cfg.NTermLinker && protNTerm, cfg.CTermLinker && protCTerm)
				if len(pep.LinkPos1) == 0 || len(pep.LinkPos2) == 0 {
					continue
				}
				peptides = append(peptides, pep)
			}
		}
	}

	sort.SliceStable(peptides, func(i, j int) bool { return peptides[i].Mass < peptides[j].Mass })
	return Index{Peptides: peptides}
}

// fixedModMasses returns the per-residue mass deltas of the fixed
// modifications, or nil when none apply
func fixedModMasses(seq string, fixedMods []Modification) ([]float64, bool) {
	var masses []float64
	for i := 0; i < len(seq); i++ {
		if _, ok := aaMass[seq[i]]; !ok {
			return nil, false
		}
		for _, mod := range fixedMods {
			if mod.Residue == seq[i] {
				if masses == nil {
					masses = make([]float64, len(seq))
				}
				masses[i] += mod.Mass
			}
		}
	}
	return masses, true
}

// modVariants generates every placement of up to maxVar variable
// modifications on residues not already carrying a fixed modification.
// The unmodified variant is always included and comes first.
func modVariants(seq string, fixed []float64, varMods []Modification, maxVar int) [][]float64 {
	variants := [][]float64{fixed}
	if len(varMods) == 0 || maxVar <= 0 {
		return variants
	}

	// candidate (position, mod) placements
	type placement struct {
		pos int
		mod Modification
	}
	var placements []placement
	for i := 0; i < len(seq); i++ {
		if fixed != nil && fixed[i] != 0 {
			continue
		}
		for _, mod := range varMods {
			if mod.Residue == seq[i] {
				placements = append(placements, placement{pos: i, mod: mod})
			}
		}
	}
	if len(placements) == 0 {
		return variants
	}

	for k := 1; k <= maxVar && k <= len(placements); k++ {
		for _, comb := range combin.Combinations(len(placements), k) {
			masses := make([]float64, len(seq))
			copy(masses, fixed)
			valid := true
			for _, ci := range comb {
				p := placements[ci]
				if masses[p.pos] != 0 {
					valid = false // two variable mods on one residue
					break
				}
				masses[p.pos] = p.mod.Mass
			}
			if valid {
				variants = append(variants, masses)
			}
		}
	}
	return variants
}

// linkPositions finds the positions a linker side can attach to:
// residues from the given set not blocked by a fixed or variable
// modification, plus the peptide termini when the linker targets them
func linkPositions(seq string, modMass []float64, residues string, nTerm, cTerm bool) []int {
	var positions []int
	for i := 0; i < len(seq); i++ {
		if strings.IndexByte(residues, seq[i]) < 0 {
			continue
		}
		if modMass != nil && modMass[i] != 0 {
			continue // site blocked by a modification
		}
		positions = append(positions, i)
	}
	if nTerm && (len(positions) == 0 || positions[0] != 0) {
		positions = append([]int{0}, positions...)
	}
	if cTerm && (len(positions) == 0 || positions[len(positions)-1] != len(seq)-1) {
		positions = append(positions, len(seq)-1)
	}
	return positions
}

// MaxMassBound returns the number of peptides with mass <= maxMass.
// The index is sorted, so Peptides[:MaxMassBound(m)] is the filtered set.
func (x *Index) MaxMassBound(maxMass float64) int {
	return sort.Search(len(x.Peptides), func(i int) bool { return x.Peptides[i].Mass > maxMass })
}

// Filtered returns the sub-index of peptides with mass <= maxMass
func (x *Index) Filtered(maxMass float64) Index {
	return Index{Peptides: x.Peptides[:x.MaxMassBound(maxMass)]}
}
