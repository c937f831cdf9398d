package etl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantileInterpolation(t *testing.T) {
	vals := []float64{1, 2, 3, 4}

	// interpolación lineal estilo pandas
	assert.InDelta(t, 1.75, Quantile(vals, 0.25), 1e-9)
	assert.InDelta(t, 2.5, Quantile(vals, 0.5), 1e-9)
	assert.InDelta(t, 3.25, Quantile(vals, 0.75), 1e-9)
	assert.InDelta(t, 1, Quantile(vals, 0), 1e-9)
	assert.InDelta(t, 4, Quantile(vals, 1), 1e-9)
}

func TestQuantileDoesNotMutateInput(t *testing.T) {
	vals := []float64{3, 1, 2}
	Quantile(vals, 0.5)
	assert.Equal(t, []float64{3, 1, 2}, vals)
}

func TestIQR(t *testing.T) {
	q1, q3, iqr := IQR([]float64{1, 2, 3, 4})
	assert.InDelta(t, 1.75, q1, 1e-9)
	assert.InDelta(t, 3.25, q3, 1e-9)
	assert.InDelta(t, 1.5, iqr, 1e-9)
}

func TestMinMaxScale(t *testing.T) {
	out := minMaxScale([]float64{0, 5, 10}, 1, 5)
	assert.InDelta(t, 1, out[0], 1e-9)
	assert.InDelta(t, 3, out[1], 1e-9)
	assert.InDelta(t, 5, out[2], 1e-9)
}

func TestMinMaxScaleDegenerate(t *testing.T) {
	// todos iguales: punto medio del rango destino, no un extremo
	out := minMaxScale([]float64{7, 7, 7}, 1, 5)
	for _, v := range out {
		assert.InDelta(t, 3, v, 1e-9)
	}
}

func TestRobustMinMax(t *testing.T) {
	out := robustMinMax([]float64{0, 30})
	assert.InDelta(t, 0, out[0], 1e-9)
	assert.InDelta(t, 1, out[1], 1e-9)

	// IQR cero no divide entre cero y cae al punto medio
	out = robustMinMax([]float64{5, 5, 5})
	for _, v := range out {
		assert.InDelta(t, 0.5, v, 1e-9)
	}
}
