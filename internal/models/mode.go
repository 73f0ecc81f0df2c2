package models

import (
	"fmt"
	"strings"
)

// ConsensusMode selects which interaction categories take part in a consensus.
type ConsensusMode string

const (
	ModeCanonical    ConsensusMode = "canonical"
	ModeNonCanonical ConsensusMode = "non_canonical"
	ModeStacking     ConsensusMode = "stacking"
	ModeAll          ConsensusMode = "all"
)

// AllModes lists every consensus mode, ALL last.
var AllModes = []ConsensusMode{ModeCanonical, ModeNonCanonical, ModeStacking, ModeAll}

// ParseMode converts a flag or config value to a ConsensusMode. Dashes,
// underscores and case are ignored, so "NON_CANONICAL" and "non-canonical" both work.
func ParseMode(s string) (ConsensusMode, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch norm {
	case "canonical":
		return ModeCanonical, nil
	case "non_canonical", "noncanonical":
		return ModeNonCanonical, nil
	case "stacking":
		return ModeStacking, nil
	case "all":
		return ModeAll, nil
	default:
		return "", fmt.Errorf("invalid consensus mode %q: must be canonical, non_canonical, stacking, or all", s)
	}
}

func (m ConsensusMode) String() string {
	return string(m)
}

// Includes reports whether an interaction belongs to this mode's categories.
func (m ConsensusMode) Includes(i Interaction) bool {
	switch {
	case i.Category == CategoryStacking:
		return m.includesStacking()
	case i.IsCanonical():
		return m.includesCanonical()
	default:
		return m.includesNonCanonical()
	}
}

func (m ConsensusMode) includesCanonical() bool {
	return m == ModeCanonical || m == ModeAll
}

func (m ConsensusMode) includesNonCanonical() bool {
	return m == ModeNonCanonical || m == ModeAll
}

func (m ConsensusMode) includesStacking() bool {
	return m == ModeStacking || m == ModeAll
}
