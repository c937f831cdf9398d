package models

// RatingDoc es una fila del dataset de ratings ya normalizado por el ETL
// (colección `ratings`). Un doc por par (userId, productId), rating en [1,5].
type RatingDoc struct {
	UserID    int     `json:"userId" bson:"userId"`
	ProductID int     `json:"productId" bson:"productId"`
	Rating    float64 `json:"rating" bson:"rating"`
}

// CategoryPreferenceDoc es la tabla de preferencia por (producto, categoría)
// que alimenta el fallback de populares (colección `category_preferences`).
type CategoryPreferenceDoc struct {
	ProductID  int     `json:"productId" bson:"productId"`
	CategoryID int     `json:"categoryId" bson:"categoryId"`
	Score      float64 `json:"score" bson:"score"`
}
