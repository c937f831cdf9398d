package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letatnhien1912/Recommendation-System/internal/models"
)

func testProducts() []models.ProductDoc {
	// desordenados a propósito: el snapshot los ordena por productId
	return []models.ProductDoc{
		{ProductID: 3, Name: "Taladro", Tags: []string{"herramientas"}, CategoryID: 20, Active: true, InStock: true},
		{ProductID: 1, Name: "Polo", Tags: []string{"ropa", "verano"}, CategoryID: 10, Active: true, InStock: true},
		{ProductID: 2, Name: "Short", Tags: []string{"ropa"}, CategoryID: 10, Active: true, InStock: false},
	}
}

func TestNewSnapshotSortsProducts(t *testing.T) {
	snap := NewSnapshot(testProducts())

	require.Equal(t, 3, snap.Len())
	var ids []int
	for _, p := range snap.Products() {
		ids = append(ids, p.ProductID)
	}
	assert.Equal(t, []int{1, 2, 3}, ids)
}

func TestVocabByFirstAppearance(t *testing.T) {
	snap := NewSnapshot(testProducts())

	// recorrido por productId ascendente: ropa=0, verano=1, herramientas=2
	tags := snap.TagVectors()
	assert.Equal(t, 3, snap.VocabSize())
	assert.Equal(t, []uint8{1, 1, 0}, tags[1])
	assert.Equal(t, []uint8{1, 0, 0}, tags[2])
	assert.Equal(t, []uint8{0, 0, 1}, tags[3])
}

func TestVocabDeterministic(t *testing.T) {
	a := NewSnapshot(testProducts())
	b := NewSnapshot(testProducts())
	assert.Equal(t, a.TagVectors(), b.TagVectors())
}

func TestBitfieldLengthsMatchVocab(t *testing.T) {
	snap := NewSnapshot(testProducts())
	for id, bits := range snap.TagVectors() {
		assert.Len(t, bits, snap.VocabSize(), "producto %d", id)
	}
}

func TestSnapshotAccessors(t *testing.T) {
	snap := NewSnapshot(testProducts())

	p, ok := snap.Get(2)
	require.True(t, ok)
	assert.Equal(t, "Short", p.Name)
	assert.Equal(t, "Polo", snap.Name(1))

	_, ok = snap.Get(99)
	assert.False(t, ok)

	assert.Equal(t, map[int]int{1: 10, 2: 10, 3: 20}, snap.CategoryByProduct())
}

func TestPopularityRanks(t *testing.T) {
	ratings := []models.RatingDoc{
		{UserID: 1, ProductID: 5, Rating: 3},
		{UserID: 2, ProductID: 5, Rating: 4},
		{UserID: 1, ProductID: 8, Rating: 2},
		{UserID: 2, ProductID: 8, Rating: 1},
		{UserID: 3, ProductID: 2, Rating: 5},
	}

	ranks := PopularityRanks(ratings)

	// 5 y 8 empatan con dos ratings; gana el id menor
	assert.Equal(t, 1, ranks[5])
	assert.Equal(t, 2, ranks[8])
	assert.Equal(t, 3, ranks[2])
}

func TestPopularityRanksEmpty(t *testing.T) {
	ranks := PopularityRanks(nil)
	assert.Empty(t, ranks)
}
