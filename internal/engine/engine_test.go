package engine

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letatnhien1912/Recommendation-System/internal/models"
	"github.com/letatnhien1912/Recommendation-System/internal/predictor"
)

// vocabulario {A, B, C}; el producto 4 no tiene tags (vector cero)
func testTags() map[int][]uint8 {
	return map[int][]uint8{
		1: {1, 1, 0},
		2: {1, 0, 0},
		3: {0, 0, 1},
		4: {0, 0, 0},
	}
}

func testRatings() []models.RatingDoc {
	return []models.RatingDoc{
		{UserID: 1, ProductID: 2, Rating: 4},
		{UserID: 1, ProductID: 3, Rating: 2},
	}
}

func fittedModel(t *testing.T, k int) *Model {
	t.Helper()
	m, err := NewModel(testTags(), testRatings(), k)
	require.NoError(t, err)
	require.NoError(t, m.FitLocal(context.Background(), testTags()))
	return m
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1/math.Sqrt2, Cosine([]uint8{1, 1, 0}, []uint8{1, 0, 0}), 1e-9)
	assert.InDelta(t, 0, Cosine([]uint8{1, 1, 0}, []uint8{0, 0, 1}), 1e-9)
	assert.InDelta(t, 1, Cosine([]uint8{1, 0, 1}, []uint8{1, 0, 1}), 1e-9)
}

func TestCosineZeroVectorIsZeroNotNaN(t *testing.T) {
	sim := Cosine([]uint8{0, 0, 0}, []uint8{1, 1, 0})
	assert.False(t, math.IsNaN(sim))
	assert.Equal(t, 0.0, sim)
}

func TestNewModelZeroItems(t *testing.T) {
	_, err := NewModel(map[int][]uint8{}, nil, 5)
	assert.Error(t, err)
}

func TestFitSimilarityValues(t *testing.T) {
	m := fittedModel(t, 2)

	s12, err := m.Similarity(1, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1/math.Sqrt2, s12, 1e-9)

	s13, err := m.Similarity(1, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0, s13, 1e-9)

	s23, err := m.Similarity(2, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0, s23, 1e-9)
}

func TestSimilarityMatrixSymmetric(t *testing.T) {
	m := fittedModel(t, 2)
	ids := m.Items()

	for _, a := range ids {
		for _, b := range ids {
			sab, err := m.Similarity(a, b)
			require.NoError(t, err)
			sba, err := m.Similarity(b, a)
			require.NoError(t, err)
			assert.Equal(t, sab, sba, "sim(%d,%d) != sim(%d,%d)", a, b, b, a)
		}
	}
}

func TestSimilarityAgainstUntaggedProductIsZero(t *testing.T) {
	m := fittedModel(t, 2)
	for _, other := range []int{1, 2, 3} {
		s, err := m.Similarity(4, other)
		require.NoError(t, err)
		assert.Equal(t, 0.0, s)
	}
}

func TestEstimateWeightedByPositiveNeighbors(t *testing.T) {
	m := fittedModel(t, 2)

	// vecinos del producto 1: (sim 0.707, rating 4) y (sim 0, rating 2);
	// el de similitud cero queda fuera, así que la predicción es 4 exacto
	got, err := m.Estimate(1, 1)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got, 1e-9)
}

func TestEstimateHonorsK(t *testing.T) {
	tags := map[int][]uint8{
		10: {1, 1, 0, 0},
		11: {1, 1, 0, 0}, // sim 1 con el 10
		12: {1, 0, 0, 0}, // sim 1/sqrt2 con el 10
	}
	ratings := []models.RatingDoc{
		{UserID: 7, ProductID: 11, Rating: 5},
		{UserID: 7, ProductID: 12, Rating: 1},
	}

	m, err := NewModel(tags, ratings, 1)
	require.NoError(t, err)
	require.NoError(t, m.FitLocal(context.Background(), tags))

	// con k=1 solo cuenta el vecino más similar
	got, err := m.Estimate(7, 10)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got, 1e-9)
}

func TestEstimateTypedFailures(t *testing.T) {
	m := fittedModel(t, 2)

	_, err := m.Estimate(99, 1)
	assert.ErrorIs(t, err, predictor.ErrUnknownUser)

	_, err = m.Estimate(1, 99)
	assert.ErrorIs(t, err, predictor.ErrUnknownItem)

	// todos los vecinos del producto 3 tienen similitud cero
	_, err = m.Estimate(1, 3)
	assert.ErrorIs(t, err, predictor.ErrPredictionImpossible)
}

func TestEstimateUnfitted(t *testing.T) {
	m, err := NewModel(testTags(), testRatings(), 2)
	require.NoError(t, err)

	_, err = m.Estimate(1, 1)
	assert.ErrorIs(t, err, predictor.ErrNotFitted)
}

func TestSimilarItemsExcludesAnchorAndBreaksTiesByID(t *testing.T) {
	m := fittedModel(t, 2)

	got, err := m.SimilarItems(1, 10)
	require.NoError(t, err)

	// el 2 es el único con similitud positiva; 3 y 4 empatan en cero y
	// salen por id ascendente
	assert.Equal(t, []int{2, 3, 4}, got)
	assert.NotContains(t, got, 1)
}

func TestSimilarItemsTruncates(t *testing.T) {
	m := fittedModel(t, 2)

	got, err := m.SimilarItems(1, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, got)

	// nunca más que n-1 ítems aunque pidan de más
	got, err = m.SimilarItems(1, 100)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSimilarItemsUnknownAnchor(t *testing.T) {
	m := fittedModel(t, 2)
	_, err := m.SimilarItems(99, 5)
	assert.ErrorIs(t, err, predictor.ErrUnknownItem)
}

func TestSetSimMergePath(t *testing.T) {
	// el coordinador mergea celdas de shards y recién ahí publica
	m, err := NewModel(testTags(), testRatings(), 2)
	require.NoError(t, err)

	m.SetSim(0, 1, 0.5)
	m.MarkFitted()

	s, err := m.Similarity(m.Items()[0], m.Items()[1])
	require.NoError(t, err)
	assert.Equal(t, 0.5, s)

	s, err = m.Similarity(m.Items()[1], m.Items()[0])
	require.NoError(t, err)
	assert.Equal(t, 0.5, s)
}
