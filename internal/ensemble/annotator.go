//go:generate go tool mockgen -source annotator.go -destination annotator_mock_test.go -package ensemble

package ensemble

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rnapolis/rnative/internal/models"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent annotation when no value is configured.
const DefaultWorkers = 4

// Annotator turns one model source (a file path, an identifier) into a Model.
// Implementations wrap whatever external tool classified the interactions.
type Annotator interface {
	Annotate(ctx context.Context, source string) (*models.Model, error)
}

// Exclusion records a model that was left out of the ensemble.
type Exclusion struct {
	Source string
	Err    error
}

func (e Exclusion) String() string {
	return fmt.Sprintf("model %s excluded: %v", e.Source, e.Err)
}

// Load annotates every source with at most workers in flight. Each source
// writes only its own slot, so the returned models keep source order. A failed
// source is excluded and reported; it never stops the others. The only error
// returned is a cancelled context.
func Load(ctx context.Context, sources []string, annotator Annotator, workers int) ([]*models.Model, []Exclusion, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	type slot struct {
		model *models.Model
		err   error
	}
	slots := make([]slot, len(sources))

	var eg errgroup.Group
	eg.SetLimit(workers)
	for idx, src := range sources {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				slots[idx].err = err
				return nil
			}
			m, err := annotator.Annotate(ctx, src)
			if err == nil && m == nil {
				err = errors.New("annotator returned no model")
			}
			slots[idx] = slot{model: m, err: err}
			return nil
		})
	}
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var loaded []*models.Model
	var excluded []Exclusion
	for idx, s := range slots {
		if s.err != nil {
			slog.Warn("Excluding model", "source", sources[idx], "error", s.err)
			excluded = append(excluded, Exclusion{Source: sources[idx], Err: s.err})
			continue
		}
		loaded = append(loaded, s.model)
	}
	return loaded, excluded, nil
}
