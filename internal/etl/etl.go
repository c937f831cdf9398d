package etl

import (
	"log"
	"sort"

	"github.com/letatnhien1912/Recommendation-System/internal/models"
)

// Escala de salida del rating (tipo Likert).
const (
	RatingScaleMin = 1.0
	RatingScaleMax = 5.0
)

type dedupKey struct {
	userID      int
	productID   int
	actionType  string
	recencyDays int
}

// scoredEvent es un evento con la recencia ya escalada y el score ponderado.
type scoredEvent struct {
	models.EventDoc
	recencyInverse int
	scaledScore    float64
}

// scoreEvents hace la parte común del pipeline: dedup keep-first sobre
// (user, product, action, recency), escala la recencia a [0,1] con
// robust-minmax y pondera el score crudo por la recencia escalada.
func scoreEvents(events []models.EventDoc) []scoredEvent {
	if len(events) == 0 {
		return nil
	}

	seen := make(map[dedupKey]bool, len(events))
	dedup := make([]models.EventDoc, 0, len(events))
	for _, e := range events {
		k := dedupKey{e.UserID, e.ProductID, e.ActionType, e.RecencyDays}
		if seen[k] {
			continue
		}
		seen[k] = true
		dedup = append(dedup, e)
	}

	maxRecency := dedup[0].RecencyDays
	for _, e := range dedup {
		if e.RecencyDays > maxRecency {
			maxRecency = e.RecencyDays
		}
	}

	recency := make([]float64, len(dedup))
	for i, e := range dedup {
		recency[i] = float64(e.RecencyDays)
	}
	recencyScaled := robustMinMax(recency)

	scored := make([]scoredEvent, len(dedup))
	oldestSpread := 0
	for i, e := range dedup {
		inv := maxRecency - e.RecencyDays
		if inv > oldestSpread {
			oldestSpread = inv
		}
		scored[i] = scoredEvent{
			EventDoc:       e,
			recencyInverse: inv,
			scaledScore:    e.RawScore * recencyScaled[i],
		}
	}

	log.Printf("[etl] %d eventos (%d tras dedup), ventana de recencia %d días\n",
		len(events), len(dedup), oldestSpread)

	return scored
}

// clipOutliers aplica la cerca de Tukey de un solo lado: lo que supera
// q3 + 1.5*iqr baja a q3. Con IQR 0 no se recorta nada (si no, la cerca
// de ancho cero aplastaría todo contra q3).
func clipOutliers(scores []float64) []float64 {
	_, q3, iqr := IQR(scores)
	if iqr == 0 {
		return scores
	}

	threshold := q3 + 1.5*iqr
	out := make([]float64, len(scores))
	for i, v := range scores {
		if v > threshold {
			out[i] = q3
		} else {
			out[i] = v
		}
	}
	return out
}

// Normalize convierte eventos crudos en el dataset de ratings: un
// RatingDoc por par (user, product), rating en [1,5]. Un set vacío de
// eventos devuelve un dataset vacío, no es un error.
func Normalize(events []models.EventDoc) []models.RatingDoc {
	scored := scoreEvents(events)
	if len(scored) == 0 {
		return []models.RatingDoc{}
	}

	type pairKey struct {
		userID    int
		productID int
	}
	type sums struct {
		raw    float64
		scaled float64
	}

	agg := make(map[pairKey]*sums)
	for _, s := range scored {
		k := pairKey{s.UserID, s.ProductID}
		if agg[k] == nil {
			agg[k] = &sums{}
		}
		agg[k].raw += s.RawScore
		agg[k].scaled += s.scaledScore
	}

	keys := make([]pairKey, 0, len(agg))
	for k := range agg {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].userID != keys[j].userID {
			return keys[i].userID < keys[j].userID
		}
		return keys[i].productID < keys[j].productID
	})

	scaled := make([]float64, len(keys))
	for i, k := range keys {
		scaled[i] = agg[k].scaled
	}

	ratings := minMaxScale(clipOutliers(scaled), RatingScaleMin, RatingScaleMax)

	out := make([]models.RatingDoc, len(keys))
	for i, k := range keys {
		out[i] = models.RatingDoc{
			UserID:    k.userID,
			ProductID: k.productID,
			Rating:    ratings[i],
		}
	}
	return out
}

// CategoryPreferences arma la tabla de preferencia por (producto, categoría)
// con el mismo pipeline de recencia, pero agregando por producto dentro de
// su categoría. Eventos de productos sin categoría conocida se saltan.
func CategoryPreferences(events []models.EventDoc, categoryByProduct map[int]int) []models.CategoryPreferenceDoc {
	scored := scoreEvents(events)
	if len(scored) == 0 {
		return []models.CategoryPreferenceDoc{}
	}

	type catKey struct {
		productID  int
		categoryID int
	}

	agg := make(map[catKey]float64)
	skipped := 0
	for _, s := range scored {
		cat, ok := categoryByProduct[s.ProductID]
		if !ok {
			skipped++
			continue
		}
		agg[catKey{s.ProductID, cat}] += s.scaledScore
	}
	if skipped > 0 {
		log.Printf("[etl] %d eventos de productos sin categoría, ignorados\n", skipped)
	}
	if len(agg) == 0 {
		return []models.CategoryPreferenceDoc{}
	}

	keys := make([]catKey, 0, len(agg))
	for k := range agg {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].categoryID != keys[j].categoryID {
			return keys[i].categoryID < keys[j].categoryID
		}
		return keys[i].productID < keys[j].productID
	})

	scaled := make([]float64, len(keys))
	for i, k := range keys {
		scaled[i] = agg[k]
	}
	scores := minMaxScale(clipOutliers(scaled), RatingScaleMin, RatingScaleMax)

	out := make([]models.CategoryPreferenceDoc, len(keys))
	for i, k := range keys {
		out[i] = models.CategoryPreferenceDoc{
			ProductID:  k.productID,
			CategoryID: k.categoryID,
			Score:      scores[i],
		}
	}
	return out
}
