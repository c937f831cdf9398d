package etl

import "sort"

// Quantile calcula el cuantil q (0..1) con interpolación lineal,
// igual que pandas .quantile(). El slice de entrada no se modifica.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	frac := pos - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// IQR devuelve (q1, q3, iqr) de la distribución.
func IQR(values []float64) (q1, q3, iqr float64) {
	q1 = Quantile(values, 0.25)
	q3 = Quantile(values, 0.75)
	return q1, q3, q3 - q1
}

// minMaxScale reescala linealmente a [lo, hi]. Si el rango es degenerado
// (todos los valores iguales) mapea todo al punto medio del rango destino;
// así un dataset de un solo par no se va a ninguno de los extremos.
func minMaxScale(values []float64, lo, hi float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if max == min {
		mid := (lo + hi) / 2
		for i := range out {
			out[i] = mid
		}
		return out
	}

	for i, v := range values {
		out[i] = lo + (v-min)/(max-min)*(hi-lo)
	}
	return out
}

// robustMinMax: primero escala robusta (resta mediana, divide por IQR) y
// después min-max a [0,1]. El orden importa: la escala robusta amortigua
// la cola larga de recency antes de comprimir al rango útil.
func robustMinMax(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	median := Quantile(values, 0.5)
	_, _, iqr := IQR(values)
	scale := iqr
	if scale == 0 {
		// distribución degenerada: no dividir entre cero
		scale = 1
	}

	robust := make([]float64, len(values))
	for i, v := range values {
		robust[i] = (v - median) / scale
	}

	return minMaxScale(robust, 0, 1)
}
