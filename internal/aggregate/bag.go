package aggregate

import (
	"cmp"
	"slices"

	"github.com/rnapolis/rnative/internal/models"
)

// Bag is a multiset of interactions: for each distinct interaction, the number
// of models that contain it.
type Bag struct {
	counts map[models.Interaction]int
}

// NewBag returns an empty bag.
func NewBag() *Bag {
	return &Bag{counts: map[models.Interaction]int{}}
}

// Add increments the count of the normalized form of i.
func (b *Bag) Add(i models.Interaction) {
	b.counts[i.Normalized()]++
}

// Count is the occurrence count of i, 0 when absent.
func (b *Bag) Count(i models.Interaction) int {
	if b == nil {
		return 0
	}
	return b.counts[i.Normalized()]
}

// Len is the number of distinct interactions.
func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.counts)
}

// Entry is one bag element with its count.
type Entry struct {
	Interaction models.Interaction
	Count       int
}

// Entries lists the bag sorted by descending count, then natural order.
func (b *Bag) Entries() []Entry {
	if b == nil {
		return nil
	}
	out := make([]Entry, 0, len(b.counts))
	for it, n := range b.counts {
		out = append(out, Entry{Interaction: it, Count: n})
	}
	slices.SortFunc(out, func(x, y Entry) int {
		if c := cmp.Compare(y.Count, x.Count); c != 0 {
			return c
		}
		return x.Interaction.Compare(y.Interaction)
	})
	return out
}

// Probabilities maps every interaction to count/totalModels.
func (b *Bag) Probabilities(totalModels int) map[models.Interaction]float64 {
	out := make(map[models.Interaction]float64, b.Len())
	if b == nil || totalModels == 0 {
		return out
	}
	for it, n := range b.counts {
		out[it] = float64(n) / float64(totalModels)
	}
	return out
}
