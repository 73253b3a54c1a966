// Package fragment generates theoretical fragment ion spectra for
// cross-linked peptides: b/y common ions that do not carry the linker,
// and cross-link ions that carry the linker plus everything attached to
// it. Generation is pure, so results are cached; candidates across
// spectrum pairs reuse the same peptides heavily.
package fragment

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/524D/xlscore/internal/digest"
	"github.com/524D/xlscore/internal/spectrum"
)

// mass difference between the C13 and C12 isotope
const isotopeDiff = float64(1.0033548378)

const defaultCacheSize = 16384

// Spec is a theoretical spectrum: position-sorted peaks with a parallel
// ion annotation per peak, e.g. "[alpha|ci$b3]"
type Spec struct {
	Peaks []spectrum.Peak
	Names []string
}

func (s *Spec) sortByPosition() {
	idx := make([]int, len(s.Peaks))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return s.Peaks[idx[a]].Mz < s.Peaks[idx[b]].Mz })
	peaks := make([]spectrum.Peak, len(s.Peaks))
	names := make([]string, len(s.Names))
	for i, j := range idx {
		peaks[i] = s.Peaks[j]
		names[i] = s.Names[j]
	}
	s.Peaks = peaks
	s.Names = names
}

// Merge combines two theoretical spectra, keeping annotations, sorted by
// position
func Merge(a, b Spec) Spec {
	out := Spec{
		Peaks: make([]spectrum.Peak, 0, len(a.Peaks)+len(b.Peaks)),
		Names: make([]string, 0, len(a.Names)+len(b.Names)),
	}
	out.Peaks = append(out.Peaks, a.Peaks...)
	out.Peaks = append(out.Peaks, b.Peaks...)
	out.Names = append(out.Names, a.Names...)
	out.Names = append(out.Names, b.Names...)
	out.sortByPosition()
	return out
}

// Generator produces theoretical ion spectra. Safe for concurrent use.
type Generator struct {
	AddIsotopes bool // add the +1 isotope peak for every ion
	cache       *lru.Cache[string, Spec]
}

// NewGenerator returns a Generator with isotope peaks enabled and a
// bounded spectrum cache
func NewGenerator() *Generator {
	cache, _ := lru.New[string, Spec](defaultCacheSize)
	return &Generator{AddIsotopes: true, cache: cache}
}

// prefixMasses returns the cumulative residue+modification masses of the
// peptide, prefixMasses[i] = mass of residues [0, i)
func prefixMasses(pep *digest.Peptide) []float64 {
	masses := make([]float64, len(pep.Sequence)+1)
	for i := 0; i < len(pep.Sequence); i++ {
		m, _ := digest.MonoMass(pep.Sequence[i:i+1], nil)
		m -= digest.MassH2O
		if pep.ModMass != nil {
			m += pep.ModMass[i]
		}
		masses[i+1] = masses[i] + m
	}
	return masses
}

func chainTag(isAlpha bool) string {
	if isAlpha {
		return "alpha"
	}
	return "beta"
}

func (g *Generator) addIon(spec *Spec, neutralMass float64, charge int, name string) {
	mz := (neutralMass + float64(charge)*digest.MassProton) / float64(charge)
	spec.Peaks = append(spec.Peaks, spectrum.Peak{Mz: mz, Intens: 1.0, Charge: charge})
	spec.Names = append(spec.Names, name)
	if g.AddIsotopes {
		spec.Peaks = append(spec.Peaks, spectrum.Peak{
			Mz:     mz + isotopeDiff/float64(charge),
			Intens: 0.5,
			Charge: charge,
		})
		spec.Names = append(spec.Names, name)
	}
}

// CommonIons generates the b and y ions that do not contain the linker
// position (nor, for loop-links, the region between linkPos and
// linkPosB). Charge states 1 up to maxCharge. linkPosB is ignored when
// negative.
func (g *Generator) CommonIons(pep *digest.Peptide, linkPos, linkPosB int, isAlpha bool, maxCharge int) Spec {
	key := cacheKey("ci", pep, linkPos, linkPosB, isAlpha, 1, maxCharge, 0)
	if cached, ok := g.cache.Get(key); ok {
		return cached
	}

	n := len(pep.Sequence)
	prefix := prefixMasses(pep)
	lastLinked := linkPos
	if linkPosB > lastLinked {
		lastLinked = linkPosB
	}

	var spec Spec
	chain := chainTag(isAlpha)
	for charge := 1; charge <= maxCharge; charge++ {
		// b_i contains residues [0, i); linker-free iff i <= linkPos
		for i := 1; i <= linkPos && i < n; i++ {
			name := fmt.Sprintf("[%s|ci$b%d]", chain, i)
			g.addIon(&spec, prefix[i], charge, name)
		}
		// y_i contains residues [n-i, n); linker-free iff n-i > lastLinked
		for i := 1; i < n-lastLinked; i++ {
			name := fmt.Sprintf("[%s|ci$y%d]", chain, i)
			g.addIon(&spec, prefix[n]-prefix[n-i]+digest.MassH2O, charge, name)
		}
	}
	spec.sortByPosition()
	g.cache.Add(key, spec)
	return spec
}

// XLinkIons generates the b and y ions that contain the linker position.
// Such fragments carry the linker and everything attached to it, so
// their mass includes precursorMass minus the peptide's own mass.
// Charge states minCharge up to maxCharge. For loop-links linkPosB
// marks the second linked position; ions fully containing the loop are
// generated, ions cutting into it are not.
func (g *Generator) XLinkIons(pep *digest.Peptide, linkPos, linkPosB int, precursorMass float64, isAlpha bool, minCharge, maxCharge int) Spec {
	key := cacheKey("xi", pep, linkPos, linkPosB, isAlpha, minCharge, maxCharge, precursorMass)
	if cached, ok := g.cache.Get(key); ok {
		return cached
	}

	n := len(pep.Sequence)
	prefix := prefixMasses(pep)
	pepMass := prefix[n] + digest.MassH2O
	attached := precursorMass - pepMass
	firstLinked := linkPos
	lastLinked := linkPos
	if linkPosB >= 0 && linkPosB > lastLinked {
		lastLinked = linkPosB
	}
	if linkPosB >= 0 && linkPosB < firstLinked {
		firstLinked = linkPosB
	}

	var spec Spec
	chain := chainTag(isAlpha)
	for charge := minCharge; charge <= maxCharge; charge++ {
		// b_i contains the full linked region iff i > lastLinked
		for i := lastLinked + 1; i < n; i++ {
			name := fmt.Sprintf("[%s|xi$b%d]", chain, i)
			g.addIon(&spec, prefix[i]+attached, charge, name)
		}
		// y_i contains the full linked region iff n-i <= firstLinked
		for i := n - firstLinked; i < n; i++ {
			name := fmt.Sprintf("[%s|xi$y%d]", chain, i)
			g.addIon(&spec, prefix[n]-prefix[n-i]+digest.MassH2O+attached, charge, name)
		}
	}
	spec.sortByPosition()
	g.cache.Add(key, spec)
	return spec
}

func cacheKey(kind string, pep *digest.Peptide, linkPos, linkPosB int, isAlpha bool, minCharge, maxCharge int, precursorMass float64) string {
	var b strings.Builder
	b.WriteString(kind)
	b.WriteByte('|')
	b.WriteString(pep.ModifiedSequence())
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(linkPos))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(linkPosB))
	b.WriteByte('|')
	b.WriteString(chainTag(isAlpha))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(minCharge))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(maxCharge))
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(precursorMass, 'f', 6, 64))
	return b.String()
}
