package models

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidResidue is returned when a residue identifier cannot be parsed.
var ErrInvalidResidue = errors.New("invalid residue identifier")

// ResidueIdentifier addresses one residue inside a model's coordinate frame.
// All models of one ensemble are expected to share the same addressing scheme.
type ResidueIdentifier struct {
	Chain         string `json:"chain" yaml:"chain" mapstructure:"chain"`
	Number        int    `json:"number" yaml:"number" mapstructure:"number"`
	InsertionCode string `json:"icode,omitempty" yaml:"icode,omitempty" mapstructure:"icode"`
	Name          string `json:"name" yaml:"name" mapstructure:"name"`
}

// String renders the identifier as chain.NameNumber[icode], e.g. "A.G12" or "B.U7A".
func (r ResidueIdentifier) String() string {
	return fmt.Sprintf("%s.%s%d%s", r.Chain, r.Name, r.Number, r.InsertionCode)
}

// Normalized upper-cases the nucleotide name so that "A.g12" and "A.G12"
// address the same residue.
func (r ResidueIdentifier) Normalized() ResidueIdentifier {
	r.Name = strings.ToUpper(r.Name)
	return r
}

// Compare orders residues by chain, number, insertion code and finally name.
func (r ResidueIdentifier) Compare(o ResidueIdentifier) int {
	if c := cmp.Compare(r.Chain, o.Chain); c != 0 {
		return c
	}
	if c := cmp.Compare(r.Number, o.Number); c != 0 {
		return c
	}
	if c := cmp.Compare(r.InsertionCode, o.InsertionCode); c != 0 {
		return c
	}
	return cmp.Compare(r.Name, o.Name)
}

// ParseResidue parses the form produced by [ResidueIdentifier.String].
// The nucleotide name is a single letter; the number may be negative.
func ParseResidue(s string) (ResidueIdentifier, error) {
	s = strings.TrimSpace(s)
	chain, rest, ok := strings.Cut(s, ".")
	if !ok || chain == "" || len(rest) < 2 {
		return ResidueIdentifier{}, fmt.Errorf("%w: %q", ErrInvalidResidue, s)
	}

	name := strings.ToUpper(rest[:1])
	rest = rest[1:]

	end := 0
	if end < len(rest) && rest[end] == '-' {
		end++
	}
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}

	number, err := strconv.Atoi(rest[:end])
	if err != nil {
		return ResidueIdentifier{}, fmt.Errorf("%w: %q", ErrInvalidResidue, s)
	}

	icode := rest[end:]
	if len(icode) > 1 {
		return ResidueIdentifier{}, fmt.Errorf("%w: %q has a multi-character insertion code", ErrInvalidResidue, s)
	}

	return ResidueIdentifier{
		Chain:         chain,
		Number:        number,
		InsertionCode: icode,
		Name:          name,
	}, nil
}

// ResidueSet is an unordered set of residue identifiers.
type ResidueSet map[ResidueIdentifier]struct{}

// NewResidueSet builds a set from the given residues.
func NewResidueSet(residues ...ResidueIdentifier) ResidueSet {
	s := make(ResidueSet, len(residues))
	for _, r := range residues {
		s[r] = struct{}{}
	}
	return s
}

// Contains reports whether r is in the set.
func (s ResidueSet) Contains(r ResidueIdentifier) bool {
	_, ok := s[r]
	return ok
}

// Difference returns the residues of s that are not in o, sorted.
func (s ResidueSet) Difference(o ResidueSet) []ResidueIdentifier {
	var out []ResidueIdentifier
	for r := range s {
		if !o.Contains(r) {
			out = append(out, r)
		}
	}
	sortResidues(out)
	return out
}
