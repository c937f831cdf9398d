package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/letatnhien1912/Recommendation-System/internal/cache"
	"github.com/letatnhien1912/Recommendation-System/internal/catalog"
	"github.com/letatnhien1912/Recommendation-System/internal/models"
	"github.com/letatnhien1912/Recommendation-System/internal/predictor"
	"github.com/letatnhien1912/Recommendation-System/internal/ranker"
	"github.com/letatnhien1912/Recommendation-System/internal/repository"
)

// Nombres de modelo que expone la API (mismos que el servicio original).
const (
	ModelCollaborative = "collaborative"
	ModelContentBased  = "content_based"
)

type RecommendService struct {
	products *repository.ProductRepository
	prefs    *repository.PreferenceRepository
	ratings  *repository.RatingRepository
	recRepo  *repository.RecommendationRepository
	training *TrainingService
	rk       *ranker.Ranker
}

func NewRecommendService(
	products *repository.ProductRepository,
	prefs *repository.PreferenceRepository,
	ratings *repository.RatingRepository,
	recRepo *repository.RecommendationRepository,
	training *TrainingService,
	rk *ranker.Ranker,
) *RecommendService {
	return &RecommendService{
		products: products,
		prefs:    prefs,
		ratings:  ratings,
		recRepo:  recRepo,
		training: training,
		rk:       rk,
	}
}

type RecRequest struct {
	UserID  int
	N       int
	Model   string // collaborative | content_based
	Refresh bool
}

func cacheKey(req RecRequest) string {
	// Cachea por usuario + n + modelo (refresh solo decide si usar cache)
	return fmt.Sprintf("rec:user:%d:n:%d:model:%s", req.UserID, req.N, req.Model)
}

// pickPredictor elige el backend según el nombre de modelo pedido.
func (s *RecommendService) pickPredictor(model string) (predictor.Predictor, error) {
	switch model {
	case ModelContentBased:
		m := s.training.ContentModel()
		if m == nil {
			return nil, errors.New("modelo de contenido sin entrenar (corre /admin/retrain)")
		}
		return m, nil
	case ModelCollaborative:
		c := s.training.Collaborative()
		if c == nil {
			return nil, errors.New("backend colaborativo no configurado")
		}
		return c, nil
	default:
		return nil, fmt.Errorf("modelo desconocido %q (collaborative|content_based)", model)
	}
}

// snapshot arma el catálogo del momento; se lee en cada llamada de
// ranking, los productos pueden cambiar de stock/estado entre llamadas.
func (s *RecommendService) snapshot(ctx context.Context) (*catalog.Snapshot, error) {
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.NewSnapshot(products), nil
}

// Recommend devuelve el top-N para un usuario con el backend pedido.
func (s *RecommendService) Recommend(ctx context.Context, req RecRequest) ([]models.RecItem, error) {
	if req.Model == "" {
		req.Model = ModelCollaborative
	}
	if req.N <= 0 {
		req.N = ranker.DefaultN
	} else if req.N > ranker.MaxN {
		req.N = ranker.MaxN
	}

	// 1) Cache Redis (solo si refresh = false)
	var cached []models.RecItem
	if !req.Refresh {
		if ok, err := cache.GetJSON(ctx, cacheKey(req), &cached); err == nil && ok {
			return cached, nil
		}
	}

	// 2) Predictor + catálogo
	pred, err := s.pickPredictor(req.Model)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	// 3) Ranking
	items, err := s.rk.RecommendForUser(ctx, req.UserID, snap, pred, req.N)
	if err != nil {
		return nil, err
	}

	// 4) Guardar historial en Mongo (no rompemos la respuesta si falla)
	if s.recRepo != nil {
		hist := &models.Recommendation{
			UserID: req.UserID,
			Model:  req.Model,
			Params: map[string]any{
				"n":       req.N,
				"refresh": req.Refresh,
			},
			Items:     items,
			CreatedAt: time.Now(),
		}
		if err := s.recRepo.Insert(ctx, hist); err != nil {
			log.Printf("error guardando recomendación en Mongo: %v", err)
		}
	}

	// 5) Cachear en Redis (1 hora)
	if err := cache.SetJSON(ctx, cacheKey(req), items, 60*60); err != nil {
		log.Printf("error cacheando recomendación en Redis: %v", err)
	}

	return items, nil
}

// SimilarItems: top-N productos similares al ancla, solo contenido.
func (s *RecommendService) SimilarItems(ctx context.Context, productID, n int) ([]int, error) {
	m := s.training.ContentModel()
	if m == nil {
		return nil, errors.New("modelo de contenido sin entrenar (corre /admin/retrain)")
	}

	prod, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if prod == nil {
		return nil, fmt.Errorf("producto %d no existe", productID)
	}

	return s.rk.SimilarTo(productID, m, n)
}

// FavoriteItems: fallback por popularidad sobre la tabla de preferencia
// por categoría. categoryID nil = ranking sobre todo el catálogo. Si la
// tabla todavía no existe (nunca corrió el refresh), se cae al conteo de
// ratings por producto.
func (s *RecommendService) FavoriteItems(ctx context.Context, categoryID *int, n int) ([]int, error) {
	prefs, err := s.prefs.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if len(prefs) == 0 {
		return s.popularByRatingCount(ctx, snap, categoryID, n)
	}
	return s.rk.PopularInCategory(prefs, snap, categoryID, n)
}

func (s *RecommendService) popularByRatingCount(
	ctx context.Context,
	snap *catalog.Snapshot,
	categoryID *int,
	n int,
) ([]int, error) {
	ratings, err := s.ratings.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	ranks := catalog.PopularityRanks(ratings)

	if n <= 0 {
		n = ranker.DefaultN
	} else if n > ranker.MaxN {
		n = ranker.MaxN
	}

	var eligible []int
	for _, prod := range snap.Products() {
		if _, ok := ranks[prod.ProductID]; !ok {
			continue
		}
		if !prod.Active || !prod.InStock {
			continue
		}
		if categoryID != nil && prod.CategoryID != *categoryID {
			continue
		}
		eligible = append(eligible, prod.ProductID)
	}
	sort.Slice(eligible, func(i, j int) bool {
		return ranks[eligible[i]] < ranks[eligible[j]]
	})

	if len(eligible) > n {
		eligible = eligible[:n]
	}
	return eligible, nil
}

// History: recomendaciones ya servidas a un usuario.
func (s *RecommendService) History(ctx context.Context, userID int, limit int64) ([]models.Recommendation, error) {
	return s.recRepo.FindByUser(ctx, userID, limit)
}
