package repository

import (
	"context"

	"github.com/letatnhien1912/Recommendation-System/internal/db"
	"github.com/letatnhien1912/Recommendation-System/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type PreferenceRepository struct {
	col *mongo.Collection
}

func NewPreferenceRepository() *PreferenceRepository {
	return &PreferenceRepository{col: db.DB().Collection("category_preferences")}
}

// ReplaceAll reemplaza la tabla de preferencia por categoría completa,
// igual que los ratings: se reconstruye en cada refresh.
func (r *PreferenceRepository) ReplaceAll(ctx context.Context, prefs []models.CategoryPreferenceDoc) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(prefs) == 0 {
		return nil
	}

	docs := make([]any, len(prefs))
	for i, p := range prefs {
		docs[i] = p
	}
	_, err := r.col.InsertMany(ctx, docs)
	return err
}

func (r *PreferenceRepository) GetAll(ctx context.Context) ([]models.CategoryPreferenceDoc, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.CategoryPreferenceDoc
	for cur.Next(ctx) {
		var p models.CategoryPreferenceDoc
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, cur.Err()
}
