package predictor

import (
	"errors"

	"github.com/letatnhien1912/Recommendation-System/internal/models"
)

// Errores tipados de predicción. Los tres primeros son por candidato y el
// ranker los absorbe; ErrNotFitted es estructural y aborta el batch.
var (
	ErrUnknownUser          = errors.New("usuario desconocido para el modelo")
	ErrUnknownItem          = errors.New("producto desconocido para el modelo")
	ErrPredictionImpossible = errors.New("sin vecinos con similitud positiva")
	ErrNotFitted            = errors.New("modelo sin entrenar")
)

// Skippable dice si el error es un "no puedo predecir este candidato"
// (se salta el candidato) o algo estructural que sí hay que propagar.
func Skippable(err error) bool {
	return errors.Is(err, ErrUnknownUser) ||
		errors.Is(err, ErrUnknownItem) ||
		errors.Is(err, ErrPredictionImpossible)
}

// Predictor es el contrato único que ve el ranker: estimar el rating de un
// usuario para un producto. El backend colaborativo y el de contenido son
// intercambiables detrás de esta interfaz.
type Predictor interface {
	Estimate(userID, productID int) (float64, error)
}

// Collaborative es el backend colaborativo externo (SVD o similar).
// Solo consumimos su contrato de entrenamiento y estimación; el algoritmo
// de entrenamiento en sí no vive en este repo.
type Collaborative interface {
	Predictor
	Fit(ratings []models.RatingDoc) error
}
