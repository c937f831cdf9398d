package models

// Tipos de acción que llegan desde el sitio / Facebook.
const (
	ActionReaction  = "reaction"
	ActionShare     = "share"
	ActionComment   = "comment"
	ActionAddToCart = "addtocart"
	ActionPurchase  = "purchase"
)

// Puntajes base por acción (mismos pesos que usa el SQL de ingesta).
var ActionScores = map[string]float64{
	ActionReaction:  1,
	ActionComment:   3,
	ActionShare:     4,
	ActionAddToCart: 5,
	ActionPurchase:  7,
}

// EventDoc es un evento de comportamiento crudo (colección `events`).
// RawScore ya viene multiplicado por cantidad cuando aplica (cart/purchase).
type EventDoc struct {
	UserID      int     `json:"userId" bson:"userId"`
	ProductID   int     `json:"productId" bson:"productId"`
	ActionType  string  `json:"actionType" bson:"actionType"`
	RawScore    float64 `json:"rawScore" bson:"rawScore"`
	RecencyDays int     `json:"recencyDays" bson:"recencyDays"`
}

// ActionScore devuelve el puntaje base de una acción (0 si no está mapeada).
func ActionScore(actionType string) float64 {
	return ActionScores[actionType]
}
