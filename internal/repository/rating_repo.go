package repository

import (
	"context"

	"github.com/letatnhien1912/Recommendation-System/internal/db"
	"github.com/letatnhien1912/Recommendation-System/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type RatingRepository struct {
	col *mongo.Collection
}

func NewRatingRepository() *RatingRepository {
	return &RatingRepository{col: db.DB().Collection("ratings")}
}

// ReplaceAll reemplaza el dataset completo. El refresh reconstruye los
// ratings desde cero, no hay updates incrementales.
func (r *RatingRepository) ReplaceAll(ctx context.Context, ratings []models.RatingDoc) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(ratings) == 0 {
		return nil
	}

	docs := make([]any, len(ratings))
	for i, rt := range ratings {
		docs[i] = rt
	}
	_, err := r.col.InsertMany(ctx, docs)
	return err
}

func (r *RatingRepository) GetAll(ctx context.Context) ([]models.RatingDoc, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.RatingDoc
	for cur.Next(ctx) {
		var rt models.RatingDoc
		if err := cur.Decode(&rt); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, cur.Err()
}
