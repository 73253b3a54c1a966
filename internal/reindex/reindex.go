// Package reindex maps scored peptides back to the proteins of the
// sequence database and classifies matches as target or decoy.
package reindex

import (
	"log"
	"strings"

	"github.com/524D/xlscore/internal/digest"
	"github.com/524D/xlscore/internal/fasta"
	"github.com/524D/xlscore/internal/score"
)

// Config controls decoy recognition. A protein is a decoy when its
// accession carries DecoyString as prefix or suffix, depending on
// DecoyPrefix.
type Config struct {
	DecoyString string
	DecoyPrefix bool
}

// Stats summarizes one reindexing run
type Stats struct {
	Peptides  int // distinct peptide sequences looked up
	Unmatched int // peptides found in no database protein
	Decoys    int // matches classified as decoy on either chain
}

func (cfg *Config) isDecoy(accession string) bool {
	if cfg.DecoyString == "" {
		return false
	}
	if cfg.DecoyPrefix {
		return strings.HasPrefix(accession, cfg.DecoyString)
	}
	return strings.HasSuffix(accession, cfg.DecoyString)
}

// lookup finds all database proteins containing the peptide sequence as
// substring. A match is a decoy only when every containing protein is a
// decoy.
func lookup(seq string, entries []fasta.Entry, cfg *Config, cache map[string]hit) hit {
	if h, ok := cache[seq]; ok {
		return h
	}
	h := hit{decoy: true}
	for i := range entries {
		if !strings.Contains(entries[i].Sequence, seq) {
			continue
		}
		h.accessions = append(h.accessions, entries[i].Accession)
		if !cfg.isDecoy(entries[i].Accession) {
			h.decoy = false
		}
	}
	if len(h.accessions) == 0 {
		h.decoy = false
		log.Printf("WARNING: peptide %s not found in any database protein", seq)
	}
	cache[seq] = h
	return h
}

type hit struct {
	accessions []string
	decoy      bool
}

// Annotate fills the protein accessions and decoy flags of every match
// from the sequence database
func Annotate(csms []score.CSM, idx digest.Index, entries []fasta.Entry, cfg Config) Stats {
	cache := make(map[string]hit)
	var stats Stats
	for i := range csms {
		alpha := idx.Peptides[csms[i].Candidate.Alpha].Sequence
		h := lookup(alpha, entries, &cfg, cache)
		csms[i].ProteinsAlpha = h.accessions
		csms[i].DecoyAlpha = h.decoy
		decoy := h.decoy
		if csms[i].Candidate.Beta >= 0 {
			beta := idx.Peptides[csms[i].Candidate.Beta].Sequence
			hb := lookup(beta, entries, &cfg, cache)
			csms[i].ProteinsBeta = hb.accessions
			csms[i].DecoyBeta = hb.decoy
			decoy = decoy || hb.decoy
		}
		if decoy {
			stats.Decoys++
		}
	}
	stats.Peptides = len(cache)
	for _, h := range cache {
		if len(h.accessions) == 0 {
			stats.Unmatched++
		}
	}
	return stats
}
