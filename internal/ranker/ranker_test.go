package ranker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letatnhien1912/Recommendation-System/internal/catalog"
	"github.com/letatnhien1912/Recommendation-System/internal/models"
	"github.com/letatnhien1912/Recommendation-System/internal/predictor"
)

type fakePurchases struct {
	purchased map[int]bool
	err       error
}

func (f *fakePurchases) PurchasedBy(ctx context.Context, userID int) (map[int]bool, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.purchased, nil
}

// fakePredictor devuelve scores fijos por producto; un producto sin score
// responde con el error configurado.
type fakePredictor struct {
	scores  map[int]float64
	missing error
}

func (f *fakePredictor) Estimate(userID, productID int) (float64, error) {
	if s, ok := f.scores[productID]; ok {
		return s, nil
	}
	return 0, f.missing
}

type fakeLister struct {
	fakePredictor
	similar []int
}

func (f *fakeLister) SimilarItems(productID, topN int) ([]int, error) {
	if topN < len(f.similar) {
		return f.similar[:topN], nil
	}
	return f.similar, nil
}

func prod(id int, active, inStock bool) models.ProductDoc {
	return models.ProductDoc{ProductID: id, Active: active, InStock: inStock}
}

func testSnapshot() *catalog.Snapshot {
	return catalog.NewSnapshot([]models.ProductDoc{
		prod(1, true, true),
		prod(2, true, true),
		prod(3, false, true), // inactivo
		prod(4, true, false), // sin stock
		prod(5, true, true),
	})
}

func TestRecommendForUserFiltersAndSorts(t *testing.T) {
	r := New(&fakePurchases{purchased: map[int]bool{5: true}})
	p := &fakePredictor{
		scores:  map[int]float64{1: 2.5, 2: 4.8, 3: 5.0, 4: 5.0, 5: 5.0},
		missing: predictor.ErrPredictionImpossible,
	}

	got, err := r.RecommendForUser(context.Background(), 7, testSnapshot(), p, 10)
	require.NoError(t, err)

	// 3 (inactivo), 4 (sin stock) y 5 (comprado) quedan afuera
	assert.Equal(t, []models.RecItem{
		{ProductID: 2, Score: 4.8},
		{ProductID: 1, Score: 2.5},
	}, got)
}

func TestRecommendForUserSkipsImpossiblePredictions(t *testing.T) {
	r := New(&fakePurchases{})
	p := &fakePredictor{
		scores:  map[int]float64{1: 3.0}, // 2 y 5 no se pueden predecir
		missing: predictor.ErrPredictionImpossible,
	}

	got, err := r.RecommendForUser(context.Background(), 7, testSnapshot(), p, 10)
	require.NoError(t, err)
	assert.Equal(t, []models.RecItem{{ProductID: 1, Score: 3.0}}, got)
}

func TestRecommendForUserPropagatesStructuralErrors(t *testing.T) {
	r := New(&fakePurchases{})
	p := &fakePredictor{missing: predictor.ErrNotFitted}

	_, err := r.RecommendForUser(context.Background(), 7, testSnapshot(), p, 10)
	assert.ErrorIs(t, err, predictor.ErrNotFitted)
}

func TestRecommendForUserStableTieOrder(t *testing.T) {
	r := New(&fakePurchases{})
	p := &fakePredictor{
		scores:  map[int]float64{1: 4.0, 2: 4.0, 5: 4.0},
		missing: predictor.ErrPredictionImpossible,
	}

	got, err := r.RecommendForUser(context.Background(), 7, testSnapshot(), p, 10)
	require.NoError(t, err)

	// empate total: quedan en orden de candidato (productId ascendente)
	var ids []int
	for _, it := range got {
		ids = append(ids, it.ProductID)
	}
	assert.Equal(t, []int{1, 2, 5}, ids)
}

func TestRecommendForUserTruncatesToN(t *testing.T) {
	r := New(&fakePurchases{})
	p := &fakePredictor{
		scores:  map[int]float64{1: 1, 2: 2, 5: 3},
		missing: predictor.ErrPredictionImpossible,
	}

	got, err := r.RecommendForUser(context.Background(), 7, testSnapshot(), p, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 5, got[0].ProductID)
	assert.Equal(t, 2, got[1].ProductID)
}

func TestRecommendForUserEmptyCatalog(t *testing.T) {
	r := New(&fakePurchases{})
	p := &fakePredictor{missing: predictor.ErrPredictionImpossible}

	_, err := r.RecommendForUser(context.Background(), 7, catalog.NewSnapshot(nil), p, 10)
	assert.Error(t, err)

	_, err = r.RecommendForUser(context.Background(), 7, nil, p, 10)
	assert.Error(t, err)
}

func TestRecommendForUserPurchaseSourceError(t *testing.T) {
	boom := errors.New("mongo caído")
	r := New(&fakePurchases{err: boom})
	p := &fakePredictor{missing: predictor.ErrPredictionImpossible}

	_, err := r.RecommendForUser(context.Background(), 7, testSnapshot(), p, 10)
	assert.ErrorIs(t, err, boom)
}

func TestClampN(t *testing.T) {
	assert.Equal(t, DefaultN, clampN(0))
	assert.Equal(t, DefaultN, clampN(-3))
	assert.Equal(t, 7, clampN(7))
	assert.Equal(t, MaxN, clampN(1000))
}

func TestSimilarTo(t *testing.T) {
	r := New(&fakePurchases{})
	lister := &fakeLister{similar: []int{4, 2, 9}}

	got, err := r.SimilarTo(1, lister, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 2, 9}, got)

	// un predictor sin listado de similares no sirve acá
	_, err = r.SimilarTo(1, &fakePredictor{missing: predictor.ErrUnknownItem}, 10)
	assert.Error(t, err)
}

func TestPopularInCategory(t *testing.T) {
	r := New(&fakePurchases{})
	prefs := []models.CategoryPreferenceDoc{
		{ProductID: 1, CategoryID: 10, Score: 2},
		{ProductID: 2, CategoryID: 10, Score: 5},
		{ProductID: 3, CategoryID: 10, Score: 5}, // inactivo
		{ProductID: 5, CategoryID: 20, Score: 4},
	}

	// sin filtro de categoría
	got, err := r.PopularInCategory(prefs, testSnapshot(), nil, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5, 1}, got)

	// filtrado a la categoría 10
	cat := 10
	got, err = r.PopularInCategory(prefs, testSnapshot(), &cat, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, got)
}

func TestPopularInCategoryTieByProductID(t *testing.T) {
	r := New(&fakePurchases{})
	prefs := []models.CategoryPreferenceDoc{
		{ProductID: 5, CategoryID: 20, Score: 3},
		{ProductID: 1, CategoryID: 10, Score: 3},
	}

	got, err := r.PopularInCategory(prefs, testSnapshot(), nil, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5}, got)
}

func TestPopularInCategoryEmptyCatalog(t *testing.T) {
	r := New(&fakePurchases{})
	_, err := r.PopularInCategory(nil, nil, nil, 10)
	assert.Error(t, err)
}
