package models

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Category is the kind of pairwise interaction.
type Category string

const (
	CategoryBasePair Category = "base_pair"
	CategoryStacking Category = "stacking"
)

// LW is a Leontis-Westhof base-pair classification. The first letter is the
// glycosidic bond orientation (cis/trans), the remaining two letters are the
// interacting edges of the first and second partner (Watson-Crick, Hoogsteen, Sugar).
type LW string

const (
	LWUnknown LW = "unknown"

	CWW LW = "cWW"
	TWW LW = "tWW"
	CWH LW = "cWH"
	TWH LW = "tWH"
	CWS LW = "cWS"
	TWS LW = "tWS"
	CHW LW = "cHW"
	THW LW = "tHW"
	CHH LW = "cHH"
	THH LW = "tHH"
	CHS LW = "cHS"
	THS LW = "tHS"
	CSW LW = "cSW"
	TSW LW = "tSW"
	CSH LW = "cSH"
	TSH LW = "tSH"
	CSS LW = "cSS"
	TSS LW = "tSS"
)

// AllLW lists the 18 directional Leontis-Westhof classes.
var AllLW = []LW{
	CWW, TWW, CWH, TWH, CWS, TWS,
	CHW, THW, CHH, THH, CHS, THS,
	CSW, TSW, CSH, TSH, CSS, TSS,
}

// ParseLW accepts the classification case-insensitively on the edge letters
// ("cww", "cWW", "CWW") and returns [LWUnknown] for anything unrecognised.
func ParseLW(s string) LW {
	s = strings.TrimSpace(s)
	if len(s) != 3 {
		return LWUnknown
	}
	candidate := LW(strings.ToLower(s[:1]) + strings.ToUpper(s[1:]))
	if slices.Contains(AllLW, candidate) {
		return candidate
	}
	return LWUnknown
}

// Reverse swaps the two edges, which is the class seen from the other partner.
func (lw LW) Reverse() LW {
	if lw == LWUnknown || len(lw) != 3 {
		return lw
	}
	return LW(string(lw[0]) + string(lw[2]) + string(lw[1]))
}

// Interaction is a classified pair of residues. Values built with
// [NewBasePair] or [NewStacking] are normalized so that Partner1 sorts before
// Partner2, which makes Interaction usable directly as a map key for the
// unordered pair.
type Interaction struct {
	Partner1       ResidueIdentifier `json:"nt1"`
	Partner2       ResidueIdentifier `json:"nt2"`
	Category       Category          `json:"category"`
	Classification LW                `json:"lw,omitempty"`
}

// NewBasePair returns a normalized base pair. The classification is given as
// seen from a towards b and is reversed if the partners are swapped.
func NewBasePair(a, b ResidueIdentifier, lw LW) Interaction {
	return Interaction{
		Partner1:       a,
		Partner2:       b,
		Category:       CategoryBasePair,
		Classification: lw,
	}.Normalized()
}

// NewStacking returns a normalized stacking interaction. Stacking carries no
// classification.
func NewStacking(a, b ResidueIdentifier) Interaction {
	return Interaction{
		Partner1: a,
		Partner2: b,
		Category: CategoryStacking,
	}.Normalized()
}

// Normalized returns the canonical form of i used for equality and hashing.
func (i Interaction) Normalized() Interaction {
	i.Partner1, i.Partner2 = i.Partner1.Normalized(), i.Partner2.Normalized()
	if i.Category == CategoryStacking {
		i.Classification = ""
	} else if i.Classification == "" {
		i.Classification = LWUnknown
	}
	if i.Partner2.Compare(i.Partner1) < 0 {
		i.Partner1, i.Partner2 = i.Partner2, i.Partner1
		i.Classification = i.Classification.Reverse()
	}
	return i
}

// IsBasePair reports whether i is a base pair.
func (i Interaction) IsBasePair() bool {
	return i.Category == CategoryBasePair
}

// IsCanonical is true only for cWW pairs of A-U, C-G or G-U.
func (i Interaction) IsCanonical() bool {
	if i.Category != CategoryBasePair || i.Classification != CWW {
		return false
	}
	names := []string{strings.ToUpper(i.Partner1.Name), strings.ToUpper(i.Partner2.Name)}
	slices.Sort(names)
	switch names[0] + names[1] {
	case "AU", "CG", "GU":
		return true
	}
	return false
}

// Involves reports whether r is one of the partners.
func (i Interaction) Involves(r ResidueIdentifier) bool {
	return i.Partner1 == r || i.Partner2 == r
}

// Compare is the natural order of interactions: partners, category, classification.
func (i Interaction) Compare(o Interaction) int {
	if c := i.Partner1.Compare(o.Partner1); c != 0 {
		return c
	}
	if c := i.Partner2.Compare(o.Partner2); c != 0 {
		return c
	}
	if c := cmp.Compare(i.Category, o.Category); c != 0 {
		return c
	}
	return cmp.Compare(i.Classification, o.Classification)
}

func (i Interaction) String() string {
	if i.Category == CategoryStacking {
		return fmt.Sprintf("%s-%s stacking", i.Partner1, i.Partner2)
	}
	return fmt.Sprintf("%s-%s %s", i.Partner1, i.Partner2, i.Classification)
}

// InteractionSet is a set of normalized interactions.
type InteractionSet map[Interaction]struct{}

// NewInteractionSet builds a set, normalizing each interaction.
func NewInteractionSet(items ...Interaction) InteractionSet {
	s := make(InteractionSet, len(items))
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add inserts the normalized form of i.
func (s InteractionSet) Add(i Interaction) {
	s[i.Normalized()] = struct{}{}
}

// Contains reports whether the normalized form of i is in the set.
func (s InteractionSet) Contains(i Interaction) bool {
	_, ok := s[i.Normalized()]
	return ok
}

// Sorted returns the members in natural order.
func (s InteractionSet) Sorted() []Interaction {
	out := make([]Interaction, 0, len(s))
	for it := range s {
		out = append(out, it)
	}
	slices.SortFunc(out, Interaction.Compare)
	return out
}

func sortResidues(rs []ResidueIdentifier) {
	slices.SortFunc(rs, ResidueIdentifier.Compare)
}
