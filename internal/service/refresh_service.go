package service

import (
	"context"
	"log"

	"github.com/letatnhien1912/Recommendation-System/internal/catalog"
	"github.com/letatnhien1912/Recommendation-System/internal/etl"
	"github.com/letatnhien1912/Recommendation-System/internal/repository"
)

// RefreshService corre el ETL completo: eventos crudos -> dataset de
// ratings + tabla de preferencia por categoría, ambos reemplazados
// wholesale en Mongo.
type RefreshService struct {
	events   *repository.EventRepository
	products *repository.ProductRepository
	ratings  *repository.RatingRepository
	prefs    *repository.PreferenceRepository
}

func NewRefreshService(
	events *repository.EventRepository,
	products *repository.ProductRepository,
	ratings *repository.RatingRepository,
	prefs *repository.PreferenceRepository,
) *RefreshService {
	return &RefreshService{
		events:   events,
		products: products,
		ratings:  ratings,
		prefs:    prefs,
	}
}

type RefreshResult struct {
	Events      int `json:"events"`
	SkippedRows int `json:"skippedRows"`
	Ratings     int `json:"ratings"`
	Preferences int `json:"preferences"`
}

// Refresh es idempotente: correrlo dos veces con los mismos eventos deja
// los mismos datasets. Cero eventos deja datasets vacíos, no es error.
func (s *RefreshService) Refresh(ctx context.Context) (*RefreshResult, error) {
	events, skipped, err := s.events.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	snap := catalog.NewSnapshot(products)

	ratings := etl.Normalize(events)
	prefs := etl.CategoryPreferences(events, snap.CategoryByProduct())

	if err := s.ratings.ReplaceAll(ctx, ratings); err != nil {
		return nil, err
	}
	if err := s.prefs.ReplaceAll(ctx, prefs); err != nil {
		return nil, err
	}

	log.Printf("[refresh] %d eventos -> %d ratings, %d preferencias por categoría\n",
		len(events), len(ratings), len(prefs))

	return &RefreshResult{
		Events:      len(events),
		SkippedRows: skipped,
		Ratings:     len(ratings),
		Preferences: len(prefs),
	}, nil
}
