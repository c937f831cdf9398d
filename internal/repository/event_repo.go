package repository

import (
	"context"
	"log"

	"github.com/letatnhien1912/Recommendation-System/internal/db"
	"github.com/letatnhien1912/Recommendation-System/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type EventRepository struct {
	col *mongo.Collection
}

func NewEventRepository() *EventRepository {
	return &EventRepository{col: db.DB().Collection("events")}
}

// helpers de casteo seguro: los eventos vienen de ingestas externas y a
// veces traen tipos cambiados (ids como float, scores como int).
func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

// GetAll lee todos los eventos crudos. Una fila malformada (id no numérico,
// recency negativa, etc.) se salta y se cuenta, nunca aborta la corrida.
func (r *EventRepository) GetAll(ctx context.Context) ([]models.EventDoc, int, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.EventDoc
	skipped := 0

	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, skipped, err
		}

		userID, okU := asInt(raw["userId"])
		productID, okP := asInt(raw["productId"])
		recency, okR := asInt(raw["recencyDays"])
		action, okA := raw["actionType"].(string)

		// rawScore puede venir vacío en ingestas viejas; se reconstruye
		// desde la tabla de puntajes por acción
		rawScore, okS := asFloat64(raw["rawScore"])
		if !okS && okA {
			rawScore = models.ActionScore(action)
			okS = rawScore > 0
		}

		if !okU || !okP || !okS || !okR || !okA || recency < 0 {
			skipped++
			continue
		}

		out = append(out, models.EventDoc{
			UserID:      userID,
			ProductID:   productID,
			ActionType:  action,
			RawScore:    rawScore,
			RecencyDays: recency,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, skipped, err
	}

	if skipped > 0 {
		log.Printf("[events] %d filas malformadas saltadas\n", skipped)
	}
	return out, skipped, nil
}
