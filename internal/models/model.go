package models

import "strings"

// Model is one member of an ensemble: its residue frame and classified
// interactions, as produced by an external annotation step. It is read-only
// once constructed.
type Model struct {
	Name     string
	Residues []ResidueIdentifier

	CanonicalPairs    []Interaction
	NonCanonicalPairs []Interaction
	Stackings         []Interaction
}

// NewModel partitions base pairs into canonical and non-canonical lists and
// normalizes every residue and interaction. Duplicates within one model are
// dropped.
func NewModel(name string, residues []ResidueIdentifier, basePairs, stackings []Interaction) *Model {
	m := &Model{
		Name: name,
	}
	if residues != nil {
		m.Residues = make([]ResidueIdentifier, len(residues))
		for i, r := range residues {
			m.Residues[i] = r.Normalized()
		}
	}

	seen := InteractionSet{}
	for _, bp := range basePairs {
		bp.Category = CategoryBasePair
		bp = bp.Normalized()
		if seen.Contains(bp) {
			continue
		}
		seen.Add(bp)
		if bp.IsCanonical() {
			m.CanonicalPairs = append(m.CanonicalPairs, bp)
		} else {
			m.NonCanonicalPairs = append(m.NonCanonicalPairs, bp)
		}
	}
	for _, st := range stackings {
		st.Category = CategoryStacking
		st = st.Normalized()
		if seen.Contains(st) {
			continue
		}
		seen.Add(st)
		m.Stackings = append(m.Stackings, st)
	}

	return m
}

// Sequence is the one-letter sequence following the residue order.
func (m *Model) Sequence() string {
	var b strings.Builder
	for _, r := range m.Residues {
		b.WriteString(r.Name)
	}
	return b.String()
}

// ResidueSet returns the model's residue composition as an unordered set.
func (m *Model) ResidueSet() ResidueSet {
	return NewResidueSet(m.Residues...)
}

// Interactions returns the model's interactions selected by mode.
func (m *Model) Interactions(mode ConsensusMode) []Interaction {
	var out []Interaction
	if mode.includesCanonical() {
		out = append(out, m.CanonicalPairs...)
	}
	if mode.includesNonCanonical() {
		out = append(out, m.NonCanonicalPairs...)
	}
	if mode.includesStacking() {
		out = append(out, m.Stackings...)
	}
	return out
}

// InteractionSet returns [Model.Interactions] as a set.
func (m *Model) InteractionSet(mode ConsensusMode) InteractionSet {
	return NewInteractionSet(m.Interactions(mode)...)
}
