package cluster

import (
	"github.com/letatnhien1912/Recommendation-System/internal/engine"
)

// ComputeShardCells calcula las celdas del shard: las filas i con
// i % shards == shardId, contra todas las columnas j > i. Como cada fila
// pertenece a exactamente un shard, los nodos nunca escriben la misma celda.
func ComputeShardCells(task *SimTask) []SimCell {
	n := len(task.Vectors)
	var cells []SimCell

	for i := 0; i < n; i++ {
		if task.Shards > 0 && i%task.Shards != task.ShardID {
			continue
		}
		for j := i + 1; j < n; j++ {
			sim := engine.Cosine(task.Vectors[i], task.Vectors[j])
			if sim == 0 {
				continue
			}
			cells = append(cells, SimCell{I: i, J: j, Sim: sim})
		}
	}
	return cells
}
