package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RecItem struct {
	ProductID int     `bson:"productId" json:"productId"`
	Score     float64 `bson:"score" json:"score"`
}

// Recommendation es el historial que guardamos en Mongo por cada respuesta.
type Recommendation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    int                `bson:"userId"        json:"userId"`
	Model     string             `bson:"model"         json:"model"`
	Params    any                `bson:"params"        json:"params"`
	Items     []RecItem          `bson:"items"         json:"items"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
}
