package cluster

// Tarea enviada desde el coordinador (API) a cada simnode: los vectores de
// tags en orden de índice denso y qué shard de filas le toca.
type SimTask struct {
	ShardID int       `json:"shardId"` // id del shard (0..Shards-1)
	Shards  int       `json:"shards"`  // total de shards/nodos
	Vectors [][]uint8 `json:"vectors"`
}

// Una celda (i, j) de la matriz con su similitud. Solo viajan celdas con
// similitud distinta de cero; la matriz del coordinador ya arranca en cero.
type SimCell struct {
	I   int     `json:"i"`
	J   int     `json:"j"`
	Sim float64 `json:"sim"`
}

// Respuesta de un simnode al coordinador.
type SimResponse struct {
	ShardID int       `json:"shardId"`
	Cells   []SimCell `json:"cells"`
}
