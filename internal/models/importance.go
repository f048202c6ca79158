package models

import (
	"strings"
	"unicode"
)

// Importance ranks how much a contact matters: Low, Medium or High.
type Importance struct {
	value string
}

var (
	ImportanceLow    = Importance{value: "Low"}
	ImportanceMedium = Importance{value: "Medium"}
	ImportanceHigh   = Importance{value: "High"}
)

// ParseImportance matches s case-insensitively against low, medium and high.
// Leading whitespace is rejected, trailing whitespace is ignored.
func ParseImportance(s string) (Importance, error) {
	if s == "" || unicode.IsSpace(rune(s[0])) {
		return Importance{}, invalid("importance", s, "must be one of low, medium or high")
	}
	switch strings.ToLower(strings.TrimRightFunc(s, unicode.IsSpace)) {
	case "low":
		return ImportanceLow, nil
	case "medium":
		return ImportanceMedium, nil
	case "high":
		return ImportanceHigh, nil
	}
	return Importance{}, invalid("importance", s, "must be one of low, medium or high")
}

// Rank orders importance levels: 1 for Low up to 3 for High, 0 if unset.
func (i Importance) Rank() int {
	switch i {
	case ImportanceLow:
		return 1
	case ImportanceMedium:
		return 2
	case ImportanceHigh:
		return 3
	}
	return 0
}

func (i Importance) String() string { return i.value }
