package main

import (
	"errors"
	"testing"

	"github.com/524D/xlscore/internal/digest"
	"github.com/google/go-cmp/cmp"
)

func TestParseIntRange(t *testing.T) {
	// Test case 1: Valid input range
	min, max, err := parseIntRange("3:7", 1, 100)
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if min != 3 {
		t.Errorf("Expected min to be 3, got: %d", min)
	}
	if max != 7 {
		t.Errorf("Expected max to be 7, got: %d", max)
	}

	// Test case 2: Only max specified
	min, max, err = parseIntRange(":7", 1, 100)
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if min != 1 {
		t.Errorf("Expected min to be 1, got: %d", min)
	}
	if max != 7 {
		t.Errorf("Expected max to be 7, got: %d", max)
	}

	// Test case 3: Only min specified
	min, max, err = parseIntRange("3:", 1, 100)
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if min != 3 {
		t.Errorf("Expected min to be 3, got: %d", min)
	}
	if max != 100 {
		t.Errorf("Expected max to be 100, got: %d", max)
	}

	// Test case 4: Missing separator
	_, _, err = parseIntRange("3", 1, 100)
	if !errors.Is(err, errInvalidRange) {
		t.Errorf("Expected error: %v, got: %v", errInvalidRange, err)
	}

	// Test case 5: Inverted range
	_, _, err = parseIntRange("7:3", 1, 100)
	if !errors.Is(err, errInvalidRange) {
		t.Errorf("Expected error: %v, got: %v", errInvalidRange, err)
	}

	// Test case 6: Values outside the allowed range are clamped
	min, max, err = parseIntRange("0:200", 1, 100)
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if min != 1 {
		t.Errorf("Expected min to be 1, got: %d", min)
	}
	if max != 100 {
		t.Errorf("Expected max to be 100, got: %d", max)
	}

	// Test case 7: Non-numeric value
	_, _, err = parseIntRange("a:7", 1, 100)
	if !errors.Is(err, errInvalidRange) {
		t.Errorf("Expected error: %v, got: %v", errInvalidRange, err)
	}
}

func TestParseModList(t *testing.T) {
	mods, err := parseModList("C:57.02146,M:15.9949")
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	want := []digest.Modification{
		{Name: "C:57.02146", Residue: 'C', Mass: 57.02146},
		{Name: "M:15.9949", Residue: 'M', Mass: 15.9949},
	}
	if diff := cmp.Diff(want, mods); diff != "" {
		t.Errorf("parseModList() mismatch (-want +got):\n%s", diff)
	}

	mods, err = parseModList("")
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if mods != nil {
		t.Errorf("Expected nil for empty list, got: %v", mods)
	}

	_, err = parseModList("C")
	if err == nil {
		t.Errorf("Expected error for missing mass, got nil")
	}
	_, err = parseModList("CC:57.02146")
	if err == nil {
		t.Errorf("Expected error for multi-residue modification, got nil")
	}
	_, err = parseModList("C:heavy")
	if err == nil {
		t.Errorf("Expected error for non-numeric mass, got nil")
	}
}

func TestParseMassList(t *testing.T) {
	masses, err := parseMassList("156.07864431, 155.094628715")
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	want := []float64{156.07864431, 155.094628715}
	if diff := cmp.Diff(want, masses); diff != "" {
		t.Errorf("parseMassList() mismatch (-want +got):\n%s", diff)
	}

	masses, err = parseMassList("")
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if masses != nil {
		t.Errorf("Expected nil for empty list, got: %v", masses)
	}

	_, err = parseMassList("156.07,x")
	if err == nil {
		t.Errorf("Expected error for non-numeric mass, got nil")
	}
}
