package ensemble

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/rnapolis/rnative/internal/consensus"
	"github.com/rnapolis/rnative/internal/dotbracket"
	"github.com/rnapolis/rnative/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func nt(num int, name string) models.ResidueIdentifier {
	return models.ResidueIdentifier{Chain: "A", Number: num, Name: name}
}

var (
	g1, g2, c9, c10 = nt(1, "G"), nt(2, "G"), nt(9, "C"), nt(10, "C")
	frame           = []models.ResidueIdentifier{g1, g2, c9, c10}
	outer           = models.NewBasePair(g1, c10, models.CWW)
	inner           = models.NewBasePair(g2, c9, models.CWW)
	stack           = models.NewStacking(g1, g2)
)

func model(name string, pairs ...models.Interaction) *models.Model {
	return models.NewModel(name, frame, pairs, []models.Interaction{stack})
}

func canonicalConfig() Config {
	return Config{Consensus: consensus.DefaultConfig(), Workers: 2}
}

func TestLoad_KeepsOrderAndExcludesFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	annotator := NewMockAnnotator(ctrl)

	annotator.EXPECT().Annotate(gomock.Any(), "a.json").Return(model("a", outer), nil)
	annotator.EXPECT().Annotate(gomock.Any(), "b.json").Return(nil, errors.New("parse failure"))
	annotator.EXPECT().Annotate(gomock.Any(), "c.json").Return(model("c", inner), nil)
	annotator.EXPECT().Annotate(gomock.Any(), "d.json").Return(nil, nil)

	loaded, excluded, err := Load(context.Background(), []string{"a.json", "b.json", "c.json", "d.json"}, annotator, 2)
	require.NoError(t, err)

	require.Len(t, loaded, 2)
	require.Equal(t, "a", loaded[0].Name)
	require.Equal(t, "c", loaded[1].Name)

	require.Len(t, excluded, 2)
	require.Equal(t, "b.json", excluded[0].Source)
	require.ErrorContains(t, excluded[0].Err, "parse failure")
	require.Equal(t, "d.json", excluded[1].Source)
	require.Contains(t, excluded[0].String(), "b.json")
}

func TestLoad_CancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	annotator := NewMockAnnotator(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Load(ctx, []string{"a.json", "b.json"}, annotator, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRun_RanksSelectedMode(t *testing.T) {
	ensemble := []*models.Model{
		model("a", outer, inner),
		model("b", outer, inner),
		model("c", outer),
	}

	res, err := Run(context.Background(), canonicalConfig(), ensemble, nil)
	require.NoError(t, err)

	_, err = uuid.Parse(res.RunID)
	require.NoError(t, err)
	require.True(t, res.Rankable)
	require.Equal(t, 2, res.Threshold)
	require.Equal(t, 3, res.TotalModels)
	require.Empty(t, res.Warnings)

	require.Len(t, res.Consensus, len(models.AllModes))
	require.Equal(t, 2, res.Selected().Len())
	require.Equal(t, 1, res.Consensus[models.ModeStacking].Len())
	require.Equal(t, 3, res.Consensus[models.ModeAll].Len())

	rows := res.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "a", rows[0].Model)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 1, rows[1].Rank)
	assert.Equal(t, "c", rows[2].Model)
	assert.Equal(t, 3, rows[2].Rank)
	assert.InDelta(t, math.Sqrt(0.5), rows[2].INF, 1e-12)

	assert.Equal(t, 3, res.Summary.Count)
	assert.Equal(t, 0, res.Summary.Undefined)
	assert.InDelta(t, math.Sqrt(0.5), res.Summary.Min, 1e-12)
	assert.Equal(t, 1.0, res.Summary.Max)

	require.Len(t, res.Interactions(), 2)
}

func TestRun_InvalidConfidence(t *testing.T) {
	cfg := Config{Consensus: consensus.Config{Mode: models.ModeAll, Confidence: 1.5}}
	_, err := Run(context.Background(), cfg, []*models.Model{model("a"), model("b")}, nil)
	require.ErrorIs(t, err, consensus.ErrInvalidConfidence)
}

func TestRun_SingleModelIsUnrankable(t *testing.T) {
	res, err := Run(context.Background(), canonicalConfig(), []*models.Model{model("only", outer, inner)}, nil)
	require.NoError(t, err)

	require.False(t, res.Rankable)
	require.Empty(t, res.Ranked)
	require.Equal(t, 2, res.Selected().Len())
	require.Len(t, res.Warnings, 1)
	require.Contains(t, res.Warnings[0], "at least 2")
}

func TestRun_Reference(t *testing.T) {
	ensemble := []*models.Model{
		model("a", outer),
		model("b", outer),
		model("c", outer, inner),
	}
	ref := &dotbracket.Structure{Structure: "(())"}

	res, err := Run(context.Background(), canonicalConfig(), ensemble, ref)
	require.NoError(t, err)

	// inner is seen once, below threshold 2, but the reference accepts it
	set := res.Selected()
	require.Equal(t, 2, set.Len())
	require.True(t, set.Contains(inner))
	for _, row := range res.Interactions() {
		require.True(t, row.InReference)
	}
	require.Equal(t, "c", res.Rows()[0].Model)
}

func TestRun_ReferenceMismatchWarns(t *testing.T) {
	ensemble := []*models.Model{model("a", outer), model("b", outer)}

	res, err := Run(context.Background(), canonicalConfig(), ensemble, &dotbracket.Structure{Structure: "(..)x."})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	require.Contains(t, res.Warnings[0], "length")

	_, err = Run(context.Background(), canonicalConfig(), ensemble, &dotbracket.Structure{Structure: "((.."})
	require.ErrorIs(t, err, dotbracket.ErrUnbalanced)
}

func TestRun_CompositionMismatchWarns(t *testing.T) {
	odd := models.NewModel("odd", []models.ResidueIdentifier{g1, g2, c9}, nil, nil)
	res, err := Run(context.Background(), canonicalConfig(), []*models.Model{model("a", outer), odd}, nil)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	require.Contains(t, res.Warnings[0], `"odd"`)
	require.True(t, res.Rankable)
}

func TestEvaluate(t *testing.T) {
	t.Run("exclusions become warnings", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		annotator := NewMockAnnotator(ctrl)
		annotator.EXPECT().Annotate(gomock.Any(), "a").Return(model("a", outer), nil)
		annotator.EXPECT().Annotate(gomock.Any(), "b").Return(model("b", outer), nil)
		annotator.EXPECT().Annotate(gomock.Any(), "broken").Return(nil, errors.New("boom"))

		res, err := Evaluate(context.Background(), canonicalConfig(), []string{"a", "broken", "b"}, annotator, nil)
		require.NoError(t, err)
		require.Equal(t, 2, res.TotalModels)
		require.Len(t, res.Exclusions, 1)
		require.Contains(t, res.Warnings, res.Exclusions[0].String())
	})

	t.Run("nothing loads", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		annotator := NewMockAnnotator(ctrl)
		annotator.EXPECT().Annotate(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom")).Times(2)

		_, err := Evaluate(context.Background(), canonicalConfig(), []string{"x", "y"}, annotator, nil)
		require.ErrorIs(t, err, ErrNoModels)
	})

	t.Run("bad config stops before annotation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		annotator := NewMockAnnotator(ctrl)

		cfg := Config{Consensus: consensus.Config{Mode: "sideways", Confidence: 0.5}}
		_, err := Evaluate(context.Background(), cfg, []string{"a"}, annotator, nil)
		require.Error(t, err)
	})
}
