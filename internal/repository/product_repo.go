package repository

import (
	"context"

	"github.com/letatnhien1912/Recommendation-System/internal/db"
	"github.com/letatnhien1912/Recommendation-System/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{col: db.DB().Collection("products")}
}

func (r *ProductRepository) GetByID(ctx context.Context, productID int) (*models.ProductDoc, error) {
	var p models.ProductDoc
	err := r.col.FindOne(ctx, bson.M{"productId": productID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &p, err
}

// GetAll trae el catálogo completo. El snapshot en memoria se arma sobre
// esto; acá no filtramos activos/stock, eso lo decide el ranker.
func (r *ProductRepository) GetAll(ctx context.Context) ([]models.ProductDoc, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ProductDoc
	for cur.Next(ctx) {
		var p models.ProductDoc
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, cur.Err()
}
