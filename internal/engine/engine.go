package engine

import (
	"container/heap"
	"context"
	"errors"
	"log"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/letatnhien1912/Recommendation-System/internal/models"
	"github.com/letatnhien1912/Recommendation-System/internal/predictor"
)

const DefaultK = 20

// Model es el motor de similitud por contenido ya entrenado (o en
// construcción). La matriz es plana (row-major) sobre índices densos de
// producto; una vez fiteado el modelo es de solo lectura y se reemplaza
// completo en cada retrain, nunca se muta en sitio.
type Model struct {
	k      int
	items  []int       // productId por índice denso, ascendente
	index  map[int]int // productId -> índice denso
	sims   []float64   // n*n, simétrica; la diagonal nunca se consulta
	fitted bool

	// ratings por usuario resueltos a índice denso
	userRatings map[int][]ratedItem
	knownUsers  map[int]bool
}

type ratedItem struct {
	itemIdx int
	rating  float64
}

// Cosine entre dos bitfields de tags. Si alguno no tiene tags (vector
// cero) la similitud se define como 0 en vez de dividir entre cero.
func Cosine(a, b []uint8) float64 {
	var sumXX, sumXY, sumYY int
	for i := range a {
		x, y := int(a[i]), int(b[i])
		sumXX += x * x
		sumYY += y * y
		sumXY += x * y
	}
	if sumXX == 0 || sumYY == 0 {
		return 0
	}
	return float64(sumXY) / math.Sqrt(float64(sumXX)*float64(sumYY))
}

// NewModel arma un modelo sin entrenar: mapeo denso de productos (orden
// ascendente de productId, determinista), matriz en cero y ratings por
// usuario. Los ratings de productos sin vector de tags se descartan como
// vecinos, pero el usuario sigue siendo conocido.
func NewModel(tagsByProduct map[int][]uint8, ratings []models.RatingDoc, k int) (*Model, error) {
	if len(tagsByProduct) == 0 {
		return nil, errors.New("fit con cero productos")
	}
	if k <= 0 {
		k = DefaultK
	}

	items := make([]int, 0, len(tagsByProduct))
	for id := range tagsByProduct {
		items = append(items, id)
	}
	sort.Ints(items)

	index := make(map[int]int, len(items))
	for i, id := range items {
		index[id] = i
	}

	m := &Model{
		k:           k,
		items:       items,
		index:       index,
		sims:        make([]float64, len(items)*len(items)),
		userRatings: make(map[int][]ratedItem),
		knownUsers:  make(map[int]bool),
	}

	for _, r := range ratings {
		m.knownUsers[r.UserID] = true
		idx, ok := index[r.ProductID]
		if !ok {
			continue
		}
		m.userRatings[r.UserID] = append(m.userRatings[r.UserID], ratedItem{idx, r.Rating})
	}

	return m, nil
}

// FitLocal calcula la matriz completa en este proceso, paralelizando por
// filas. Cada goroutine escribe celdas disjuntas, así que no hace falta
// lock sobre la matriz.
func (m *Model) FitLocal(ctx context.Context, tagsByProduct map[int][]uint8) error {
	n := len(m.items)
	log.Printf("[engine] calculando matriz de similitud %dx%d...\n", n, n)

	vectors := make([][]uint8, n)
	for i, id := range m.items {
		vectors[i] = tagsByProduct[id]
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for j := i + 1; j < n; j++ {
				sim := Cosine(vectors[i], vectors[j])
				m.sims[i*n+j] = sim
				m.sims[j*n+i] = sim
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	m.fitted = true
	log.Println("[engine] matriz lista.")
	return nil
}

// Items devuelve los productos en orden de índice denso (para repartir el
// cálculo por shards).
func (m *Model) Items() []int {
	return m.items
}

// SetSim fija la celda (i, j) y su simétrica, con índices densos. La usa
// el coordinador al mergear celdas calculadas por los simnodes.
func (m *Model) SetSim(i, j int, sim float64) {
	n := len(m.items)
	m.sims[i*n+j] = sim
	m.sims[j*n+i] = sim
}

// MarkFitted publica el modelo como entrenado (tras mergear los shards).
func (m *Model) MarkFitted() {
	m.fitted = true
}

// Similarity devuelve la similitud entre dos productos por id externo.
func (m *Model) Similarity(productA, productB int) (float64, error) {
	a, ok := m.index[productA]
	if !ok {
		return 0, predictor.ErrUnknownItem
	}
	b, ok := m.index[productB]
	if !ok {
		return 0, predictor.ErrUnknownItem
	}
	return m.sims[a*len(m.items)+b], nil
}

// Estimate predice el rating del usuario para un producto: promedio de los
// ratings de los k vecinos más similares, ponderado por similitud y
// restringido a similitud estrictamente positiva.
func (m *Model) Estimate(userID, productID int) (float64, error) {
	if !m.fitted {
		return 0, predictor.ErrNotFitted
	}
	if !m.knownUsers[userID] {
		return 0, predictor.ErrUnknownUser
	}
	idx, ok := m.index[productID]
	if !ok {
		return 0, predictor.ErrUnknownItem
	}

	n := len(m.items)
	top := newTopK(m.k)
	for _, r := range m.userRatings[userID] {
		top.push(neighbor{sim: m.sims[idx*n+r.itemIdx], rating: r.rating})
	}

	var simTotal, weightedSum float64
	for _, nb := range top.items {
		if nb.sim > 0 {
			simTotal += nb.sim
			weightedSum += nb.sim * nb.rating
		}
	}
	if simTotal == 0 {
		return 0, predictor.ErrPredictionImpossible
	}
	return weightedSum / simTotal, nil
}

// SimilarItems devuelve los topN productos más similares al ancla, por
// similitud descendente. El ancla nunca se incluye a sí misma; empates se
// rompen por productId ascendente para que el resultado sea determinista.
func (m *Model) SimilarItems(productID, topN int) ([]int, error) {
	if !m.fitted {
		return nil, predictor.ErrNotFitted
	}
	idx, ok := m.index[productID]
	if !ok {
		return nil, predictor.ErrUnknownItem
	}

	n := len(m.items)
	type scored struct {
		productID int
		sim       float64
	}
	others := make([]scored, 0, n-1)
	for j := 0; j < n; j++ {
		if j == idx {
			continue
		}
		others = append(others, scored{m.items[j], m.sims[idx*n+j]})
	}

	sort.Slice(others, func(a, b int) bool {
		if others[a].sim != others[b].sim {
			return others[a].sim > others[b].sim
		}
		return others[a].productID < others[b].productID
	})

	if topN > len(others) {
		topN = len(others)
	}
	out := make([]int, topN)
	for i := 0; i < topN; i++ {
		out[i] = others[i].productID
	}
	return out, nil
}

// ---------- selección top-k acotada ----------

type neighbor struct {
	sim    float64
	rating float64
}

// topK mantiene los k vecinos de mayor similitud con un min-heap acotado:
// no hace falta materializar ni ordenar todos los vecinos.
type topK struct {
	k     int
	items []neighbor
}

func newTopK(k int) *topK { return &topK{k: k} }

func (h *topK) Len() int           { return len(h.items) }
func (h *topK) Less(i, j int) bool { return h.items[i].sim < h.items[j].sim }
func (h *topK) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *topK) Push(x any)         { h.items = append(h.items, x.(neighbor)) }
func (h *topK) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}

func (h *topK) push(nb neighbor) {
	if len(h.items) < h.k {
		heap.Push(h, nb)
		return
	}
	if nb.sim > h.items[0].sim {
		h.items[0] = nb
		heap.Fix(h, 0)
	}
}
