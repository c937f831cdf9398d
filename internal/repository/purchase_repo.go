package repository

import (
	"context"

	"github.com/letatnhien1912/Recommendation-System/internal/db"
	"github.com/letatnhien1912/Recommendation-System/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type PurchaseRepository struct {
	col *mongo.Collection
}

func NewPurchaseRepository() *PurchaseRepository {
	return &PurchaseRepository{col: db.DB().Collection("purchases")}
}

// PurchasedBy devuelve el set de productos ya comprados por el usuario.
// Se consulta en cada llamada de ranking, no se cachea.
func (r *PurchaseRepository) PurchasedBy(ctx context.Context, userID int) (map[int]bool, error) {
	cur, err := r.col.Find(ctx, bson.M{"customerId": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	owned := make(map[int]bool)
	for cur.Next(ctx) {
		var p models.PurchaseDoc
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		owned[p.ProductID] = true
	}
	return owned, cur.Err()
}
