package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/letatnhien1912/Recommendation-System/internal/cache"
	"github.com/letatnhien1912/Recommendation-System/internal/catalog"
	"github.com/letatnhien1912/Recommendation-System/internal/cluster"
	"github.com/letatnhien1912/Recommendation-System/internal/engine"
	"github.com/letatnhien1912/Recommendation-System/internal/predictor"
	"github.com/letatnhien1912/Recommendation-System/internal/repository"
)

// TrainingService entrena los modelos y publica el snapshot vigente.
// El retrain construye un modelo nuevo completo y recién ahí lo publica
// (publish-by-replacement): una llamada de ranking nunca ve una matriz a
// medio construir.
type TrainingService struct {
	products *repository.ProductRepository
	ratings  *repository.RatingRepository
	// direcciones TCP de los simnodes; vacío = cálculo local
	nodeAddrs []string
	k         int

	// backend colaborativo externo, opcional
	collab predictor.Collaborative

	mu            sync.RWMutex
	content       *engine.Model
	lastTrainedAt time.Time
}

func NewTrainingService(
	products *repository.ProductRepository,
	ratings *repository.RatingRepository,
	nodeAddrs []string,
	k int,
	collab predictor.Collaborative,
) *TrainingService {
	return &TrainingService{
		products:  products,
		ratings:   ratings,
		nodeAddrs: nodeAddrs,
		k:         k,
		collab:    collab,
	}
}

type RetrainResult struct {
	Items         int       `json:"items"`
	Ratings       int       `json:"ratings"`
	K             int       `json:"k"`
	Shards        int       `json:"shards"`
	Collaborative bool      `json:"collaborative"`
	TrainedAt     time.Time `json:"trainedAt"`
}

// Retrain reconstruye el modelo de contenido (y reentrena el colaborativo
// si hay uno configurado) desde los datasets actuales.
func (s *TrainingService) Retrain(ctx context.Context) (*RetrainResult, error) {
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("fit con catálogo vacío")
	}
	snap := catalog.NewSnapshot(products)

	ratings, err := s.ratings.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	model, err := engine.NewModel(snap.TagVectors(), ratings, s.k)
	if err != nil {
		return nil, err
	}

	shards := len(s.nodeAddrs)
	if shards > 0 {
		if err := s.fitSharded(ctx, model, snap); err != nil {
			return nil, err
		}
	} else {
		if err := model.FitLocal(ctx, snap.TagVectors()); err != nil {
			return nil, err
		}
	}

	if s.collab != nil {
		if err := s.collab.Fit(ratings); err != nil {
			return nil, fmt.Errorf("entrenando backend colaborativo: %w", err)
		}
	}

	now := time.Now()
	s.mu.Lock()
	s.content = model
	s.lastTrainedAt = now
	s.mu.Unlock()

	// las listas cacheadas quedaron viejas
	if err := cache.InvalidateRecommendations(ctx); err != nil {
		log.Printf("[training] error invalidando cache: %v", err)
	}

	return &RetrainResult{
		Items:         len(model.Items()),
		Ratings:       len(ratings),
		K:             s.k,
		Shards:        shards,
		Collaborative: s.collab != nil,
		TrainedAt:     now,
	}, nil
}

// fitSharded reparte las filas de la matriz entre los simnodes y mergea
// las celdas que devuelven. Cada fila pertenece a un solo shard, así que
// los merges escriben celdas disjuntas.
func (s *TrainingService) fitSharded(ctx context.Context, model *engine.Model, snap *catalog.Snapshot) error {
	items := model.Items()
	tags := snap.TagVectors()
	vectors := make([][]uint8, len(items))
	for i, id := range items {
		vectors[i] = tags[id]
	}

	shards := len(s.nodeAddrs)
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	resCh := make(chan *cluster.SimResponse, shards)
	errCh := make(chan error, shards)

	var wg sync.WaitGroup
	for shardID, addr := range s.nodeAddrs {
		wg.Add(1)
		go func(addr string, t *cluster.SimTask) {
			defer wg.Done()
			resp, err := cluster.SendTask(ctxTimeout, addr, t)
			if err != nil {
				errCh <- err
				return
			}
			resCh <- resp
		}(addr, &cluster.SimTask{
			ShardID: shardID,
			Shards:  shards,
			Vectors: vectors,
		})
	}

	wg.Wait()
	close(resCh)
	close(errCh)

	// un shard perdido = matriz incompleta, acá no toleramos parciales
	if len(errCh) > 0 {
		return <-errCh
	}

	for resp := range resCh {
		for _, c := range resp.Cells {
			model.SetSim(c.I, c.J, c.Sim)
		}
	}

	model.MarkFitted()
	log.Printf("[training] matriz %dx%d mergeada desde %d simnodes\n",
		len(items), len(items), shards)
	return nil
}

// ContentModel devuelve el modelo de contenido vigente (nil si nunca se entrenó).
func (s *TrainingService) ContentModel() *engine.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content
}

// Collaborative devuelve el backend colaborativo (nil si no hay).
func (s *TrainingService) Collaborative() predictor.Collaborative {
	return s.collab
}

type TrainingStatus struct {
	Fitted        bool       `json:"fitted"`
	Items         int        `json:"items"`
	K             int        `json:"k"`
	Collaborative bool       `json:"collaborative"`
	SimNodes      []string   `json:"simNodes,omitempty"`
	TrainedAt     *time.Time `json:"trainedAt,omitempty"`
}

// Status resume el estado del modelo en servicio (para el admin).
func (s *TrainingService) Status() TrainingStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := TrainingStatus{
		Fitted:        s.content != nil,
		K:             s.k,
		Collaborative: s.collab != nil,
		SimNodes:      s.nodeAddrs,
	}
	if s.content != nil {
		st.Items = len(s.content.Items())
		t := s.lastTrainedAt
		st.TrainedAt = &t
	}
	return st
}
