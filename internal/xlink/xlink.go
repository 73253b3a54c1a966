// Package xlink enumerates cross-linked peptide-pair precursor
// candidates against observed precursor masses and expands them into
// fully positioned cross-link candidates.
package xlink

import (
	"sort"

	"github.com/524D/xlscore/internal/digest"
)

// LinkType tags how the linker connects peptides
type LinkType int

const (
	// Cross links two peptides
	Cross LinkType = iota
	// Mono is a linker attached to a single site, the second reactive
	// group quenched
	Mono
	// Loop links two positions of the same peptide
	Loop
)

func (t LinkType) String() string {
	switch t {
	case Cross:
		return "cross-link"
	case Mono:
		return "mono-link"
	case Loop:
		return "loop-link"
	}
	return "unknown"
}

// Precursor is one enumerated candidate precursor mass with
// back-references into the peptide index. Beta is -1 for single-peptide
// candidates (mono- and loop-links).
type Precursor struct {
	Mass  float64
	Alpha int
	Beta  int
}

// Candidate is one fully positioned cross-link candidate. PosBeta is the
// second loop position for loop-links and -1 for mono-links.
type Candidate struct {
	Alpha      int
	Beta       int // -1 for mono- and loop-links
	PosAlpha   int
	PosBeta    int
	Type       LinkType
	LinkerMass float64
}

// Params holds the linker definition used by enumeration and candidate
// building
type Params struct {
	LinkerMass   float64   // light cross-linker, both sides reacted
	MonoMasses   []float64 // linker attached to one peptide only
	PrecursorTol float64
	TolPPM       bool
}

// allowedError converts the precursor tolerance into an absolute mass
// window at the given mass
func (p *Params) allowedError(mass float64) float64 {
	if p.TolPPM {
		return mass * p.PrecursorTol * 1e-6
	}
	return p.PrecursorTol
}

// matchesPrecursor reports whether mass lies within tolerance of at
// least one observed precursor mass. precursors must be sorted.
func matchesPrecursor(mass float64, precursors []float64, par *Params) bool {
	// widest possible window over the candidate range
	maxErr := par.allowedError(mass + 1.0)
	i := sort.SearchFloat64s(precursors, mass-maxErr)
	for ; i < len(precursors) && precursors[i] <= mass+maxErr; i++ {
		if diff := mass - precursors[i]; diff <= par.allowedError(precursors[i]) && -diff <= par.allowedError(precursors[i]) {
			return true
		}
	}
	return false
}

// Enumerate lists all candidate precursor masses explainable by the
// peptide index: single peptides with a mono-link, single peptides with
// a loop-link, and distinct pairs (i, j) with i < j joined by the
// cross-linker.
// Only masses within tolerance of at least one observed precursor are
// kept. The peptide index and the observed precursor masses must be
// sorted ascending. The result is sorted ascending by mass; entries of
// equal mass keep generation order (alpha index, then beta index), so
// the output is deterministic for a given input.
func Enumerate(idx digest.Index, precursors []float64, par Params) []Precursor {
	var out []Precursor
	if len(precursors) == 0 || len(idx.Peptides) == 0 {
		return out
	}
	maxPrecursor := precursors[len(precursors)-1]
	maxBound := maxPrecursor + par.allowedError(maxPrecursor)

	for i, p1 := range idx.Peptides {
		// mono-links
		for _, mono := range par.MonoMasses {
			mass := p1.Mass + mono
			if matchesPrecursor(mass, precursors, &par) {
				out = append(out, Precursor{Mass: mass, Alpha: i, Beta: -1})
			}
		}

		// loop-links need two distinct attachable positions
		if hasLoopPositions(&idx.Peptides[i]) {
			mass := p1.Mass + par.LinkerMass
			if matchesPrecursor(mass, precursors, &par) {
				out = append(out, Precursor{Mass: mass, Alpha: i, Beta: -1})
			}
		}

		// cross-links between two distinct index entries; the index is
		// mass-sorted, so stop once the summed mass exceeds the largest
		// observed precursor
		for j := i + 1; j < len(idx.Peptides); j++ {
			p2 := idx.Peptides[j]
			mass := p1.Mass + p2.Mass + par.LinkerMass
			if mass > maxBound {
				break
			}
			if !sidesCompatible(&idx.Peptides[i], &idx.Peptides[j]) {
				continue
			}
			if matchesPrecursor(mass, precursors, &par) {
				out = append(out, Precursor{Mass: mass, Alpha: i, Beta: j})
			}
		}
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].Mass < out[b].Mass })
	return out
}

// hasLoopPositions reports whether a peptide can carry a loop-link:
// one position for each linker side, distinct from each other
func hasLoopPositions(p *digest.Peptide) bool {
	for _, a := range p.LinkPos1 {
		for _, b := range p.LinkPos2 {
			if a != b {
				return true
			}
		}
	}
	return false
}

// sidesCompatible reports whether the two peptides can take opposite
// sides of the linker in at least one orientation
func sidesCompatible(a, b *digest.Peptide) bool {
	return (len(a.LinkPos1) > 0 && len(b.LinkPos2) > 0) ||
		(len(a.LinkPos2) > 0 && len(b.LinkPos1) > 0)
}

// RangeQuery returns the slice of enumerated precursors with mass in
// [target-allowedError, target+allowedError]. The list must be sorted.
func RangeQuery(list []Precursor, target, allowedError float64) []Precursor {
	lo := sort.Search(len(list), func(i int) bool { return list[i].Mass >= target-allowedError })
	hi := sort.Search(len(list), func(i int) bool { return list[i].Mass > target+allowedError })
	return list[lo:hi]
}

// AllowedError converts the configured precursor tolerance into an
// absolute window at the given mass
func (p *Params) AllowedError(mass float64) float64 {
	return p.allowedError(mass)
}

type candidateKey struct {
	alpha, beta, posAlpha, posBeta int
	linkType                       LinkType
}

// BuildCandidates expands the enumerated precursors matching an observed
// precursor mass into positioned cross-link candidates: one candidate
// per valid combination of attachable positions, with no duplicate
// (alpha, beta, posAlpha, posBeta, type) tuples.
func BuildCandidates(list []Precursor, idx digest.Index, precursorMass float64, par Params) []Candidate {
	allowedError := par.allowedError(precursorMass)
	seen := make(map[candidateKey]bool)
	var out []Candidate

	add := func(c Candidate) {
		key := candidateKey{c.Alpha, c.Beta, c.PosAlpha, c.PosBeta, c.Type}
		if !seen[key] {
			seen[key] = true
			out = append(out, c)
		}
	}

	for _, prec := range RangeQuery(list, precursorMass, allowedError) {
		alpha := &idx.Peptides[prec.Alpha]
		if prec.Beta >= 0 {
			beta := &idx.Peptides[prec.Beta]
			// both linker orientations produce valid candidates
			for _, pa := range alpha.LinkPos1 {
				for _, pb := range beta.LinkPos2 {
					add(Candidate{Alpha: prec.Alpha, Beta: prec.Beta, PosAlpha: pa, PosBeta: pb, Type: Cross, LinkerMass: par.LinkerMass})
				}
			}
			for _, pa := range alpha.LinkPos2 {
				for _, pb := range beta.LinkPos1 {
					add(Candidate{Alpha: prec.Alpha, Beta: prec.Beta, PosAlpha: pa, PosBeta: pb, Type: Cross, LinkerMass: par.LinkerMass})
				}
			}
			continue
		}

		// single-peptide precursor: decide between mono- and loop-link
		// interpretations by which linker mass explains the precursor
		for _, mono := range par.MonoMasses {
			if !within(precursorMass, alpha.Mass+mono, allowedError) {
				continue
			}
			for _, pos := range unionPositions(alpha) {
				add(Candidate{Alpha: prec.Alpha, Beta: -1, PosAlpha: pos, PosBeta: -1, Type: Mono, LinkerMass: mono})
			}
		}
		if within(precursorMass, alpha.Mass+par.LinkerMass, allowedError) {
			for _, pa := range alpha.LinkPos1 {
				for _, pb := range alpha.LinkPos2 {
					if pa == pb {
						continue
					}
					lo, hi := pa, pb
					if lo > hi {
						lo, hi = hi, lo
					}
					add(Candidate{Alpha: prec.Alpha, Beta: -1, PosAlpha: lo, PosBeta: hi, Type: Loop, LinkerMass: par.LinkerMass})
				}
			}
		}
	}
	return out
}

func within(a, b, tol float64) bool {
	d := a - b
	return d <= tol && -d <= tol
}

// unionPositions merges the attachable positions of both linker sides,
// ascending without duplicates
func unionPositions(p *digest.Peptide) []int {
	seen := make(map[int]bool, len(p.LinkPos1)+len(p.LinkPos2))
	var all []int
	for _, pos := range p.LinkPos1 {
		if !seen[pos] {
			seen[pos] = true
			all = append(all, pos)
		}
	}
	for _, pos := range p.LinkPos2 {
		if !seen[pos] {
			seen[pos] = true
			all = append(all, pos)
		}
	}
	sort.Ints(all)
	return all
}
