// Package dotbracket converts a reference secondary structure written in
// bracket notation into reference interactions over an ensemble's residues.
//
// Paired positions use (), [], {}, <> and, for deeper pseudoknots, an
// upper-case letter closed by its lower-case form. An 'x' (or 'X') marks a
// residue that must stay unpaired. '.' and '-' leave a residue unconstrained.
package dotbracket

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/rnapolis/rnative/internal/models"
)

// ErrUnbalanced is returned for unmatched brackets.
var ErrUnbalanced = errors.New("unbalanced brackets")

const (
	unpairedMark = 'x'
	openers      = "([{<"
	closers      = ")]}>"
)

// Structure is a parsed bracket-notation record.
type Structure struct {
	Name      string
	Sequence  string
	Structure string
}

// Parse reads an optional '>' header line, an optional sequence line and the
// structure line. Blank lines are ignored.
func Parse(text string) (Structure, error) {
	var s Structure
	var lines []string

	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, ">"):
			s.Name = strings.TrimSpace(line[1:])
		default:
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return Structure{}, err
	}

	switch len(lines) {
	case 1:
		s.Structure = lines[0]
	case 2:
		s.Sequence = lines[0]
		s.Structure = lines[1]
	default:
		return Structure{}, fmt.Errorf("expected a structure line with an optional sequence line, got %d lines", len(lines))
	}

	if _, _, err := s.Pairs(); err != nil {
		return Structure{}, err
	}
	return s, nil
}

// Pairs returns the 0-based paired positions (i < j) and the positions marked
// unpaired.
func (s Structure) Pairs() (pairs [][2]int, unpaired []int, err error) {
	stacks := map[rune][]int{}

	for pos, ch := range []rune(s.Structure) {
		switch {
		case ch == '.' || ch == '-':
		case unicode.ToLower(ch) == unpairedMark:
			unpaired = append(unpaired, pos)
		case strings.ContainsRune(openers, ch), unicode.IsUpper(ch):
			stacks[ch] = append(stacks[ch], pos)
		case strings.ContainsRune(closers, ch), unicode.IsLower(ch):
			open := opening(ch)
			stack := stacks[open]
			if len(stack) == 0 {
				return nil, nil, fmt.Errorf("%w: unmatched %q at position %d", ErrUnbalanced, ch, pos+1)
			}
			pairs = append(pairs, [2]int{stack[len(stack)-1], pos})
			stacks[open] = stack[:len(stack)-1]
		default:
			return nil, nil, fmt.Errorf("unexpected character %q at position %d", ch, pos+1)
		}
	}

	for open, stack := range stacks {
		if len(stack) > 0 {
			return nil, nil, fmt.Errorf("%w: unmatched %q at position %d", ErrUnbalanced, open, stack[0]+1)
		}
	}
	return pairs, unpaired, nil
}

func opening(closing rune) rune {
	if i := strings.IndexRune(closers, closing); i >= 0 {
		return rune(openers[i])
	}
	return unicode.ToUpper(closing)
}

// ToReference maps the structure onto the ensemble frame (the first model's
// residue order). Length or sequence mismatches are reported as warnings and
// the reference is applied best-effort: positions outside the frame are
// dropped. Pairs become cWW base pairs.
func ToReference(s Structure, frame []models.ResidueIdentifier) (*models.Reference, []string, error) {
	pairs, unpaired, err := s.Pairs()
	if err != nil {
		return nil, nil, err
	}

	var warnings []string
	length := len([]rune(s.Structure))
	if length != len(frame) {
		msg := fmt.Sprintf("reference structure length %d does not match sequence length %d", length, len(frame))
		slog.Warn("Reference length mismatch", "expected", len(frame), "got", length)
		warnings = append(warnings, msg)
	}
	if s.Sequence != "" && !strings.EqualFold(s.Sequence, sequenceOf(frame)) {
		slog.Warn("Reference sequence differs from ensemble sequence")
		warnings = append(warnings, "reference sequence differs from ensemble sequence")
	}

	ref := &models.Reference{
		Interactions: models.InteractionSet{},
		Unpaired:     models.ResidueSet{},
	}
	for _, p := range pairs {
		if p[1] >= len(frame) {
			continue
		}
		ref.Interactions.Add(models.NewBasePair(frame[p[0]], frame[p[1]], models.CWW))
	}
	for _, pos := range unpaired {
		if pos >= len(frame) {
			continue
		}
		ref.Unpaired[frame[pos]] = struct{}{}
	}

	return ref, warnings, nil
}

func sequenceOf(frame []models.ResidueIdentifier) string {
	var b strings.Builder
	for _, r := range frame {
		b.WriteString(r.Name)
	}
	return b.String()
}
