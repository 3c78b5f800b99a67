// Package scimago loads Scimago Journal Rank (SJR) data from the
// semicolon-delimited CSV published at scimagojr.com and exposes an
// ISSN keyed lookup used to annotate bibliography entries.
package scimago

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// issnPattern matches an ISSN with or without the middle hyphen,
// e.g. "0028-0836" or "00280836", with an optional X check digit.
var issnPattern = regexp.MustCompile(`^[0-9]{4}-?[0-9]{3}[0-9Xx]$`)

// Rankings maps ISSNs to rounded SJR scores. The zero value is an empty
// table whose Lookup always misses, so a service configured without a
// Scimago CSV can carry a nil *Rankings safely.
type Rankings struct {
	byISSN map[string]int
}

// Lookup returns the SJR score for an ISSN. Spaces are stripped from the
// query before matching, the middle hyphen must match how the CSV listed
// the ISSN.
func (r *Rankings) Lookup(issn string) (int, bool) {
	if r == nil || r.byISSN == nil {
		return 0, false
	}
	score, ok := r.byISSN[strings.ReplaceAll(issn, " ", "")]
	return score, ok
}

// Len returns the number of distinct ISSNs in the table.
func (r *Rankings) Len() int {
	if r == nil {
		return 0
	}
	return len(r.byISSN)
}

// LoadFile parses a Scimago CSV from disk.
func LoadFile(path string) (*Rankings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scimago csv: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a semicolon-delimited Scimago CSV. The header must contain
// "Issn" and "SJR" columns; row order and other columns are ignored. The
// Issn column may list several comma-separated ISSNs, each of which maps
// to the row's SJR score. When the same ISSN appears in multiple rows the
// highest score wins.
func Parse(r io.Reader) (*Rankings, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read scimago header: %w", err)
	}

	issnCol, sjrCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "Issn":
			issnCol = i
		case "SJR":
			sjrCol = i
		}
	}
	if issnCol < 0 || sjrCol < 0 {
		return nil, fmt.Errorf("scimago header missing required columns Issn, SJR")
	}

	byISSN := make(map[string]int)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read scimago row: %w", err)
		}
		if issnCol >= len(row) || sjrCol >= len(row) {
			continue
		}

		score, ok := parseSJR(row[sjrCol])
		if !ok {
			continue
		}
		for _, issn := range parseISSNs(row[issnCol]) {
			if existing, seen := byISSN[issn]; !seen || score > existing {
				byISSN[issn] = score
			}
		}
	}

	return &Rankings{byISSN: byISSN}, nil
}

// parseISSNs splits the CSV's comma-separated ISSN field, keeping only
// values that look like ISSNs.
func parseISSNs(field string) []string {
	if field == "" {
		return nil
	}
	var issns []string
	for _, part := range strings.Split(field, ",") {
		cleaned := strings.ReplaceAll(strings.TrimSpace(part), " ", "")
		if cleaned != "" && issnPattern.MatchString(cleaned) {
			issns = append(issns, cleaned)
		}
	}
	return issns
}

// parseSJR parses an SJR cell and rounds to the nearest integer.
// Scimago publishes European-formatted numbers ("12,345" meaning 12.345,
// or "1.234,56" with thousands separators), so commas and periods are
// disambiguated before parsing.
func parseSJR(value string) (int, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), " ", "")
	if cleaned == "" {
		return 0, false
	}
	switch {
	case strings.Contains(cleaned, ",") && strings.Contains(cleaned, "."):
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case strings.Contains(cleaned, ","):
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	numeric, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return int(math.Round(numeric)), true
}
