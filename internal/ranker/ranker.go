package ranker

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/letatnhien1912/Recommendation-System/internal/catalog"
	"github.com/letatnhien1912/Recommendation-System/internal/models"
	"github.com/letatnhien1912/Recommendation-System/internal/predictor"
)

const (
	DefaultN = 10
	MaxN     = 50 // por seguridad, no deja pedir 1000 ítems
)

// PurchaseSource entrega los productos que el usuario ya compró; solo se
// usa como filtro de exclusión.
type PurchaseSource interface {
	PurchasedBy(ctx context.Context, userID int) (map[int]bool, error)
}

// SimilarityLister es lo que sabe hacer un predictor "de contenido" además
// de estimar: listar ítems similares a un ancla.
type SimilarityLister interface {
	SimilarItems(productID, topN int) ([]int, error)
}

// Ranker filtra candidatos no elegibles y arma el top-N final a partir de
// cualquier Predictor. No le importa qué backend hay detrás.
type Ranker struct {
	purchases PurchaseSource
}

func New(purchases PurchaseSource) *Ranker {
	return &Ranker{purchases: purchases}
}

func clampN(n int) int {
	if n <= 0 {
		return DefaultN
	}
	if n > MaxN {
		return MaxN
	}
	return n
}

// RecommendForUser: candidatos = catálogo completo menos comprados, menos
// inactivos, menos sin stock. Los candidatos se recorren por productId
// ascendente y el sort es estable, así los empates de score quedan en ese
// orden. Un candidato que no se puede predecir simplemente se descarta.
func (r *Ranker) RecommendForUser(
	ctx context.Context,
	userID int,
	snap *catalog.Snapshot,
	p predictor.Predictor,
	n int,
) ([]models.RecItem, error) {

	if snap == nil || snap.Len() == 0 {
		return nil, errors.New("catálogo vacío, no hay candidatos")
	}
	n = clampN(n)

	purchased, err := r.purchases.PurchasedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("leyendo compras del usuario %d: %w", userID, err)
	}

	var items []models.RecItem
	for _, prod := range snap.Products() {
		if purchased[prod.ProductID] || !prod.Active || !prod.InStock {
			continue
		}

		score, err := p.Estimate(userID, prod.ProductID)
		if err != nil {
			if predictor.Skippable(err) {
				continue
			}
			return nil, err
		}
		items = append(items, models.RecItem{ProductID: prod.ProductID, Score: score})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Score > items[j].Score })
	if len(items) > n {
		items = items[:n]
	}
	return items, nil
}

// SimilarTo delega en el listado de similares del predictor. Solo tiene
// sentido para un backend de contenido; con cualquier otro devuelve error.
func (r *Ranker) SimilarTo(productID int, p predictor.Predictor, n int) ([]int, error) {
	lister, ok := p.(SimilarityLister)
	if !ok {
		return nil, errors.New("el modelo no soporta ítems similares")
	}
	return lister.SimilarItems(productID, clampN(n))
}

// PopularInCategory lee la tabla precalculada de preferencia por
// (producto, categoría), filtra a activos con stock (y a la categoría si
// viene una) y devuelve los top-N por score descendente.
func (r *Ranker) PopularInCategory(
	prefs []models.CategoryPreferenceDoc,
	snap *catalog.Snapshot,
	categoryID *int,
	n int,
) ([]int, error) {

	if snap == nil || snap.Len() == 0 {
		return nil, errors.New("catálogo vacío, no hay candidatos")
	}
	n = clampN(n)

	var eligible []models.CategoryPreferenceDoc
	for _, pref := range prefs {
		if categoryID != nil && pref.CategoryID != *categoryID {
			continue
		}
		prod, ok := snap.Get(pref.ProductID)
		if !ok || !prod.Active || !prod.InStock {
			continue
		}
		eligible = append(eligible, pref)
	}

	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].Score != eligible[j].Score {
			return eligible[i].Score > eligible[j].Score
		}
		return eligible[i].ProductID < eligible[j].ProductID
	})

	if len(eligible) > n {
		eligible = eligible[:n]
	}
	out := make([]int, len(eligible))
	for i, pref := range eligible {
		out[i] = pref.ProductID
	}
	return out, nil
}
