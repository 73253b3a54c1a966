// Package fasta loads protein sequence databases in FASTA format.
package fasta

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// Entry is one protein record
type Entry struct {
	Accession   string
	Description string
	Sequence    string
}

var ErrEmptyDatabase = errors.New("fasta: no entries found")

// Read parses FASTA entries from a reader. The accession is the first
// whitespace-delimited token of the header line, the rest is the
// description. Sequence lines are concatenated and upper-cased.
func Read(reader io.Reader) ([]Entry, error) {
	var entries []Entry
	var cur *Entry
	var seq strings.Builder

	flush := func() {
		if cur != nil {
			cur.Sequence = strings.ToUpper(seq.String())
			entries = append(entries, *cur)
			seq.Reset()
		}
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			header := strings.TrimPrefix(line, ">")
			accession, description, _ := strings.Cut(header, " ")
			cur = &Entry{Accession: accession, Description: description}
			continue
		}
		if cur == nil {
			continue // sequence data before any header, skip
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	if len(entries) == 0 {
		return nil, ErrEmptyDatabase
	}
	return entries, nil
}
