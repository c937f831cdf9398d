package catalog

import (
	"sort"

	"github.com/letatnhien1912/Recommendation-System/internal/models"
)

// Snapshot es el catálogo de productos en un instante: productos, vectores
// de tags y mapeo de categorías. Es de solo lectura; un refresh construye
// un Snapshot nuevo en vez de mutar este.
type Snapshot struct {
	products []models.ProductDoc // orden ascendente por productId
	byID     map[int]models.ProductDoc
	tags     map[int][]uint8
	vocab    map[string]int
	category map[int]int
}

// NewSnapshot arma el catálogo a partir de los productos. El vocabulario de
// tags se asigna por orden de primera aparición recorriendo los productos
// por productId ascendente, así el mapeo tag -> índice es determinista. El
// largo de todos los bitfields es el tamaño final del vocabulario.
func NewSnapshot(products []models.ProductDoc) *Snapshot {
	sorted := make([]models.ProductDoc, len(products))
	copy(sorted, products)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	vocab := make(map[string]int)
	for _, p := range sorted {
		for _, tag := range p.Tags {
			if _, ok := vocab[tag]; !ok {
				vocab[tag] = len(vocab)
			}
		}
	}

	byID := make(map[int]models.ProductDoc, len(sorted))
	tags := make(map[int][]uint8, len(sorted))
	category := make(map[int]int, len(sorted))
	for _, p := range sorted {
		byID[p.ProductID] = p
		category[p.ProductID] = p.CategoryID

		bits := make([]uint8, len(vocab))
		for _, tag := range p.Tags {
			bits[vocab[tag]] = 1
		}
		tags[p.ProductID] = bits
	}

	return &Snapshot{
		products: sorted,
		byID:     byID,
		tags:     tags,
		vocab:    vocab,
		category: category,
	}
}

// Products devuelve todos los productos, por productId ascendente.
func (s *Snapshot) Products() []models.ProductDoc {
	return s.products
}

func (s *Snapshot) Len() int {
	return len(s.products)
}

func (s *Snapshot) Get(productID int) (models.ProductDoc, bool) {
	p, ok := s.byID[productID]
	return p, ok
}

func (s *Snapshot) Name(productID int) string {
	return s.byID[productID].Name
}

// TagVectors: bitfield por producto sobre el vocabulario global.
func (s *Snapshot) TagVectors() map[int][]uint8 {
	return s.tags
}

func (s *Snapshot) VocabSize() int {
	return len(s.vocab)
}

// CategoryByProduct: mapeo producto -> categoría para el ETL de categorías.
func (s *Snapshot) CategoryByProduct() map[int]int {
	return s.category
}

// PopularityRanks asigna rank 1 al producto con más ratings, 2 al
// siguiente, etc. Empates se rompen por productId ascendente.
func PopularityRanks(ratings []models.RatingDoc) map[int]int {
	counts := make(map[int]int)
	for _, r := range ratings {
		counts[r.ProductID]++
	}

	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})

	ranks := make(map[int]int, len(ids))
	for i, id := range ids {
		ranks[id] = i + 1
	}
	return ranks
}
